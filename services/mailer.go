package services

import (
	"os"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"
	gomail "gopkg.in/gomail.v2"
)

// Mailer delivers one email. Delivery is best effort: implementations
// report success, they never return an error to the caller.
type Mailer interface {
	Send(to, subject, html string) bool
}

// NewMailerFromEnv returns the SMTP mailer when SMTP_HOST and SMTP_USER
// are set, the logging mailer otherwise. Both sides of the pipeline
// behave identically, so development runs the same code path.
func NewMailerFromEnv() Mailer {
	host := os.Getenv("SMTP_HOST")
	user := os.Getenv("SMTP_USER")
	if host == "" || user == "" {
		logrus.Info("SMTP not configured, emails will be logged only")
		return &LogMailer{}
	}

	port := 587
	if p, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil && p > 0 {
		port = p
	}

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "CivicPulse <noreply@civicpulse.com>"
	}

	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, user, os.Getenv("SMTP_PASS")),
		from:   from,
	}
}

// SMTPMailer sends through a real SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func (m *SMTPMailer) Send(to, subject, html string) bool {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)

	if err := m.dialer.DialAndSend(msg); err != nil {
		logrus.WithError(err).WithField("to", to).Warn("email delivery failed")
		return false
	}
	logrus.WithField("to", to).Info("email sent")
	return true
}

// MailRecord is one would-be delivery captured by the logging mailer.
type MailRecord struct {
	To      string
	Subject string
	HTML    string
}

// LogMailer records the payload and reports success. Deliberate
// simulation mode: the rest of the pipeline cannot tell it apart from a
// real send.
type LogMailer struct {
	mu   sync.Mutex
	sent []MailRecord
}

func (m *LogMailer) Send(to, subject, html string) bool {
	m.mu.Lock()
	m.sent = append(m.sent, MailRecord{To: to, Subject: subject, HTML: html})
	m.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"to":      to,
		"subject": subject,
	}).Info("[MOCK EMAIL] sent")
	return true
}

// Sent returns a copy of everything recorded so far.
func (m *LogMailer) Sent() []MailRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MailRecord, len(m.sent))
	copy(out, m.sent)
	return out
}
