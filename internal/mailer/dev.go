package mailer

import (
	"github.com/iiitbh/gatepass/pkg/logger"
)

// DevMailer logs the code instead of sending it. The default in local
// development so the flow works without SMTP credentials.
type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (d *DevMailer) SendOTPEmail(toEmail, toName, code string) error {
	logger.Info("[DEV MAIL] OTP email",
		"to", toEmail,
		"name", toName,
		"code", code,
	)
	return nil
}
