package services

import (
	"context"
	"fmt"
	"log/slog"

	"conferencecentral/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendConferenceConfirmation sends the organizer's confirmation email
// using the "conference_confirmation" template.
func (s *emailService) SendConferenceConfirmation(ctx context.Context, data *domain.ConferenceConfirmationEmailData) error {
	if data == nil {
		return fmt.Errorf("conference confirmation data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("conference_confirmation", data)
	if err != nil {
		return fmt.Errorf("failed to render conference_confirmation template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}
	s.logger.Info("conference confirmation email sent", "to", data.Email)
	return nil
}
