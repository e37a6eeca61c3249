package utils

import (
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"
)

// EmailConfig holds email configuration
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer sends HTML email over SMTP
type Mailer struct {
	config EmailConfig
	dialer *gomail.Dialer
}

// NewMailer creates a mailer. It returns nil when no SMTP host is configured.
func NewMailer(config EmailConfig) *Mailer {
	if config.Host == "" {
		return nil
	}
	if config.Port == 0 {
		config.Port = 587
	}
	if config.From == "" {
		config.From = config.Username
	}
	return &Mailer{
		config: config,
		dialer: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
	}
}

// SendEmail sends an HTML email
func (m *Mailer) SendEmail(to, subject, body string) error {
	if m == nil {
		return errors.New("mailer not configured")
	}

	message := gomail.NewMessage()
	message.SetHeader("From", m.config.From)
	message.SetHeader("To", to)
	message.SetHeader("Subject", subject)
	message.SetBody("text/html", body)

	if err := m.dialer.DialAndSend(message); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}
