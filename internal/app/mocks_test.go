package app

import (
	"sync"

	"contacts_backend/internal/email"
	"contacts_backend/internal/logger"
)

// MockEmailProvider запоминает отправленные письма, чтобы тесты могли
// пройти по ссылке подтверждения.
type MockEmailProvider struct {
	mu   sync.Mutex
	Sent []*email.Email
	Data []email.TemplateData
}

func (m *MockEmailProvider) Send(msg *email.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, msg)
	m.Data = append(m.Data, nil)
	return nil
}

func (m *MockEmailProvider) SendTemplate(to []string, subject string, templateName string, data email.TemplateData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, &email.Email{To: to, Subject: subject})
	m.Data = append(m.Data, data)
	logger.Info("Email (mock)", "to", to, "subject", subject, "template", templateName, "data", data)
	return nil
}

// LastLink - ссылка из последнего отправленного шаблона
func (m *MockEmailProvider) LastLink() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.Data) - 1; i >= 0; i-- {
		if link, ok := m.Data[i]["Link"].(string); ok {
			return link
		}
	}
	return ""
}

func (m *MockEmailProvider) Validate() error { return nil }
func (m *MockEmailProvider) Close() error    { return nil }
