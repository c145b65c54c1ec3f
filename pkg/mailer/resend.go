package mailer

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

type resendMailer struct {
	client *resend.Client
	from   string
}

func NewResend(apiKey, from string) Mailer {
	return &resendMailer{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

func (m *resendMailer) SendResetCode(ctx context.Context, email, name, code string) error {
	body, err := renderResetBody(name, code)
	if err != nil {
		return fmt.Errorf("render reset email: %w", err)
	}

	sent, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{email},
		Subject: resetSubject,
		Html:    body,
	})
	if err != nil {
		return fmt.Errorf("resend: %w", err)
	}

	zap.L().Info("reset email accepted", zap.String("provider", "resend"), zap.String("message_id", sent.Id))
	return nil
}
