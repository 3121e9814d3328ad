package mailer

import (
	"github.com/iiitbh/gatepass/pkg/config"
)

// Service is the outbound email collaborator. The OTP verifier only cares
// that a code reached the student's inbox or that delivery failed.
type Service interface {
	SendOTPEmail(toEmail, toName, code string) error
}

// FromConfig picks an implementation: dev logging, MailerSend when an API
// key is configured, plain SMTP otherwise.
func FromConfig(cfg *config.Config) Service {
	if cfg.Email.DevMode {
		return NewDevMailer()
	}
	if cfg.Email.MailerSendKey != "" {
		return NewMailerSend(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.SMTPFrom)
	}
	return NewSMTPMailer(cfg.Email.SMTPHost, cfg.Email.SMTPPort,
		cfg.Email.SMTPFrom, cfg.Email.SMTPUser, cfg.Email.SMTPPass, cfg.Email.SMTPUseTLS)
}
