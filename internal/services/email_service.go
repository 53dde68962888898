package services

import (
	"context"
	"strings"

	"contacts_backend/internal/email"
	"contacts_backend/internal/logger"
)

const verificationSubject = "Email Verification"

// EmailService - высокоуровневые письма поверх email.Provider
type EmailService struct {
	provider  email.Provider
	publicURL string
}

func NewEmailService(provider email.Provider, publicURL string) *EmailService {
	return &EmailService{
		provider:  provider,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

// VerificationLink - ссылка, по которой пользователь подтверждает email
func (s *EmailService) VerificationLink(token string) string {
	return s.publicURL + "/api/users/verify/" + token
}

// SendVerification отправляет письмо со ссылкой подтверждения
func (s *EmailService) SendVerification(ctx context.Context, to, token string) error {
	err := s.provider.SendTemplate(
		[]string{to},
		verificationSubject,
		email.TemplateVerification,
		email.TemplateData{"Link": s.VerificationLink(token)},
	)
	if err != nil {
		logger.CtxWithError(ctx, "Failed to send verification email", err, "to", to)
		return err
	}
	logger.CtxInfo(ctx, "Verification email sent", "to", to)
	return nil
}
