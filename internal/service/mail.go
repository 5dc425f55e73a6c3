package service

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"studyclass_backend/internal/config"
	"studyclass_backend/pkg/logger"
)

// Mailer sends outbound notifications. Failures are always surfaced to the
// caller as errors and must never abort the flow that triggered the mail.
type Mailer interface {
	SendCredentials(recipient, email, password string) error
}

func NewMailer(cfg *config.MailConfig) Mailer {
	if cfg.Provider == "sendgrid" && cfg.SendgridKey != "" {
		return &SendgridMailer{
			client: sendgrid.NewSendClient(cfg.SendgridKey),
			from:   sgmail.NewEmail(cfg.FromName, cfg.FromAddress),
		}
	}
	return &ConsoleMailer{}
}

type SendgridMailer struct {
	client *sendgrid.Client
	from   *sgmail.Email
}

func (m *SendgridMailer) SendCredentials(recipient, email, password string) error {
	body := fmt.Sprintf("Your login is your email: %s\nPassword: %s", email, password)
	msg := sgmail.NewSingleEmail(m.from, "Your account credentials", sgmail.NewEmail(recipient, email), body, "")

	resp, err := m.client.Send(msg)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// ConsoleMailer logs instead of sending. Default in development and when
// no sendgrid key is configured.
type ConsoleMailer struct{}

func (m *ConsoleMailer) SendCredentials(recipient, email, password string) error {
	logger.Log.Info("credentials email (console mailer)",
		zap.String("to", email),
		zap.String("recipient", recipient),
	)
	return nil
}
