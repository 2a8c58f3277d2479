package mailer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/collegekit/feedback-api/config"
)

type sendGridMailer struct {
	client    *sendgrid.Client
	fromName  string
	fromEmail string
}

func newSendGridMailer(cfg *config.Config) *sendGridMailer {
	return &sendGridMailer{
		client:    sendgrid.NewSendClient(cfg.Mail.SendGridKey),
		fromName:  cfg.Mail.FromName,
		fromEmail: cfg.Mail.FromEmail,
	}
}

func (m *sendGridMailer) Send(_ context.Context, msg Message) error {
	from := sgmail.NewEmail(m.fromName, m.fromEmail)
	to := sgmail.NewEmail(msg.ToName, msg.ToEmail)
	email := sgmail.NewSingleEmail(from, msg.Subject, to, msg.PlainText, msg.HTML)

	resp, err := m.client.Send(email)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid send: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
