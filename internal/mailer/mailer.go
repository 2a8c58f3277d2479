// Package mailer delivers access-token emails. Production uses SendGrid; a
// console implementation stands in when no API key is configured so local
// environments still show what would have been sent.
package mailer

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/collegekit/feedback-api/config"
)

// Message is one outbound email.
type Message struct {
	ToName    string
	ToEmail   string
	Subject   string
	PlainText string
	HTML      string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// NewMailer picks the implementation from config: SendGrid when an API key is
// present, console otherwise.
func NewMailer(cfg *config.Config) Mailer {
	if cfg.Mail.SendGridKey == "" {
		log.Warn().Msg("SENDGRID_API_KEY not set, emails will only be logged")
		return &consoleMailer{}
	}
	return newSendGridMailer(cfg)
}

type consoleMailer struct{}

func (m *consoleMailer) Send(_ context.Context, msg Message) error {
	log.Info().
		Str("to", msg.ToEmail).
		Str("subject", msg.Subject).
		Str("body", msg.PlainText).
		Msg("console mailer: email not sent")
	return nil
}
