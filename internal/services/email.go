package services

import (
	"context"
	"fmt"
	"log"

	"grouptee/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendGroupInvite sends the group invitation email using the "group_invite" template.
func (s *emailService) SendGroupInvite(ctx context.Context, data *domain.GroupInviteEmailData) error {
	if data == nil {
		return fmt.Errorf("group invite email data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("group_invite", data)
	if err != nil {
		return fmt.Errorf("failed to render group_invite template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send group invite email: %w", err)
	}
	log.Printf("[EMAIL] Group invite sent to %s", data.Email)
	return nil
}

// SendLoginCode sends the passwordless login code email using the "login_code" template.
func (s *emailService) SendLoginCode(ctx context.Context, data *domain.LoginCodeEmailData) error {
	if data == nil {
		return fmt.Errorf("login code email data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("login_code", data)
	if err != nil {
		return fmt.Errorf("failed to render login_code template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send login code email: %w", err)
	}
	log.Printf("[EMAIL] Login code sent to %s", data.Email)
	return nil
}
