// Package mailer delivers the password reset code by email.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/capital/finance/pkg/config"
	"github.com/capital/finance/pkg/constant"
)

// Mailer sends a reset code to one recipient. Delivery is best effort; a
// returned error means the message was not accepted by the provider.
type Mailer interface {
	SendResetCode(ctx context.Context, email, name, code string) error
}

// New picks the implementation named by the mail config.
func New(mc config.Mail) (Mailer, error) {
	switch mc.Provider {
	case config.MailResend:
		return NewResend(mc.ResendAPIKey, mc.From), nil
	case config.MailLog, "":
		return NewLog(), nil
	default:
		return nil, fmt.Errorf("unsupported mail provider %q", mc.Provider)
	}
}

const resetSubject = "Password recovery - Capital Online"

var resetTemplate = template.Must(template.New("reset").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">Hello {{.Name}},</h2>
  <p style="color: #666; font-size: 16px;">You asked to recover the password of your Capital Online account.</p>
  <div style="background-color: #f5f5f5; padding: 20px; border-radius: 8px; text-align: center; margin: 20px 0;">
    <p style="color: #666; margin-bottom: 10px;">Your recovery code is:</p>
    <p style="font-size: 32px; font-weight: bold; color: #4F46E5; letter-spacing: 8px; margin: 10px 0;">{{.Code}}</p>
  </div>
  <p style="color: #999; font-size: 14px;">This code expires in {{.Minutes}} minutes.</p>
  <p style="color: #999; font-size: 14px;">If you did not ask for this, ignore this email.</p>
</div>`))

func renderResetBody(name, code string) (string, error) {
	var buf bytes.Buffer
	err := resetTemplate.Execute(&buf, struct {
		Name    string
		Code    string
		Minutes int
	}{name, code, int(constant.ResetCodeTTL.Minutes())})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
