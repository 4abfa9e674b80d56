package mail

import (
	"fmt"
	"net/smtp"
	"os"

	"github.com/rs/zerolog"
)

// SMTPMailer delivers HTML mail over plain SMTP auth. Fire-and-forget at
// the call sites; failures are the caller's to log.
type SMTPMailer struct {
	host string
	port string
	user string
	pass string
	from string
	log  zerolog.Logger
}

func NewSMTPMailer(log zerolog.Logger) *SMTPMailer {
	return &SMTPMailer{
		host: os.Getenv("SMTP_HOST"),
		port: os.Getenv("SMTP_PORT"),
		user: os.Getenv("SMTP_USER"),
		pass: os.Getenv("SMTP_PASSWORD"),
		from: os.Getenv("SMTP_FROM"),
		log:  log,
	}
}

func (m *SMTPMailer) Send(toAddress, subject, htmlBody string) error {
	if m.host == "" {
		return fmt.Errorf("SMTP_HOST not configured")
	}

	msg := []byte("From: " + m.from + "\r\n" +
		"To: " + toAddress + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=UTF-8\r\n" +
		"\r\n" + htmlBody)

	auth := smtp.PlainAuth("", m.user, m.pass, m.host)
	if err := smtp.SendMail(m.host+":"+m.port, auth, m.from, []string{toAddress}, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", toAddress, err)
	}

	m.log.Debug().Str("to", toAddress).Str("subject", subject).Msg("mail dispatched")
	return nil
}
