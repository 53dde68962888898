package email

import "log/slog"

// LogProvider используется, когда отправка писем выключена в конфиге:
// письмо не уходит наружу и ничего не хранит, ссылка видна только в логе.
type LogProvider struct {
	log *slog.Logger
}

func NewLogProvider(log *slog.Logger) *LogProvider {
	return &LogProvider{log: log}
}

func (p *LogProvider) Send(msg *Email) error {
	p.log.Info("Email delivery disabled, message dropped",
		"to", msg.To,
		"subject", msg.Subject,
	)
	return nil
}

func (p *LogProvider) SendTemplate(to []string, subject string, templateName string, data TemplateData) error {
	p.log.Info("Email delivery disabled, template dropped",
		"to", to,
		"subject", subject,
		"template", templateName,
		"link", data["Link"],
	)
	return nil
}

func (p *LogProvider) Validate() error { return nil }
func (p *LogProvider) Close() error    { return nil }
