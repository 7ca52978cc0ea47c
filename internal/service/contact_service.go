package service

import (
	"context"
	"fmt"
	"log/slog"

	"inkwell/internal/mail"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/validation"
)

// ContactService forwards visitor messages to the site operators. It keeps
// no state, nothing about the submission is persisted.
type ContactService struct {
	mailer mail.Mailer
}

func NewContactService(mailer mail.Mailer) *ContactService {
	return &ContactService{mailer: mailer}
}

func (s *ContactService) Submit(ctx context.Context, form validation.ContactForm) error {
	if fields := form.Validate(); fields != nil {
		return models.NewFieldValidationError(fields)
	}

	msg := mail.Message{
		ReplyTo: form.Email,
		Subject: fmt.Sprintf("[Inkwell contact] %s", form.Subject),
		Body:    fmt.Sprintf("From: %s <%s>\n\n%s", form.Name, form.Email, form.Message),
	}

	if err := s.mailer.Send(msg); err != nil {
		slog.ErrorContext(ctx, "contact mail dispatch failed", "error", err)
		observability.MailDispatches.WithLabelValues("error").Inc()
		return models.NewExternalError("Unable to send your message right now, please try again later", err)
	}

	observability.MailDispatches.WithLabelValues("sent").Inc()
	return nil
}
