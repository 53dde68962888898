package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPProvider реализует Provider поверх gomail
type SMTPProvider struct {
	config   *SMTPConfig
	dialer   *gomail.Dialer
	renderer TemplateRenderer
}

// NewSMTPProvider создает новый SMTP провайдер
func NewSMTPProvider(config *SMTPConfig, renderer TemplateRenderer) *SMTPProvider {
	dialer := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)

	return &SMTPProvider{
		config:   config,
		dialer:   dialer,
		renderer: renderer,
	}
}

// Send отправляет email сообщение
func (p *SMTPProvider) Send(email *Email) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if len(email.To) == 0 {
		return fmt.Errorf("no recipients specified")
	}

	if err := p.dialer.DialAndSend(p.buildMessage(email)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendTemplate отправляет email используя шаблон
func (p *SMTPProvider) SendTemplate(to []string, subject string, templateName string, data TemplateData) error {
	if p.renderer == nil {
		return fmt.Errorf("template renderer is not configured")
	}

	htmlBody, err := p.renderer.Render(templateName, data)
	if err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}

	return p.Send(&Email{
		To:       to,
		Subject:  subject,
		HTMLBody: htmlBody,
	})
}

// Validate проверяет конфигурацию SMTP
func (p *SMTPProvider) Validate() error {
	if p.config.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if p.config.Port <= 0 || p.config.Port > 65535 {
		return fmt.Errorf("invalid SMTP port: %d", p.config.Port)
	}
	if p.config.FromEmail == "" {
		return fmt.Errorf("sender address is required")
	}
	return nil
}

// Close - gomail открывает соединение на каждую отправку
func (p *SMTPProvider) Close() error {
	return nil
}

// buildMessage строит MIME сообщение из структуры Email
func (p *SMTPProvider) buildMessage(email *Email) *gomail.Message {
	m := gomail.NewMessage()

	from := email.From
	if from == "" {
		from = m.FormatAddress(p.config.FromEmail, p.config.FromName)
	}
	m.SetHeader("From", from)
	m.SetHeader("To", email.To...)
	m.SetHeader("Subject", email.Subject)

	switch {
	case email.HTMLBody != "" && email.Body != "":
		m.SetBody("text/plain", email.Body)
		m.AddAlternative("text/html", email.HTMLBody)
	case email.HTMLBody != "":
		m.SetBody("text/html", email.HTMLBody)
	default:
		m.SetBody("text/plain", email.Body)
	}

	return m
}
