package services

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Messenger delivers one WhatsApp message. Best effort, same contract
// as Mailer.
type Messenger interface {
	Send(to, body string) bool
}

// NewMessengerFromEnv returns the Twilio messenger when account
// credentials are set, the logging messenger otherwise.
func NewMessengerFromEnv() Messenger {
	sid := os.Getenv("TWILIO_ACCOUNT_SID")
	token := os.Getenv("TWILIO_AUTH_TOKEN")
	if sid == "" || token == "" {
		logrus.Info("Twilio not configured, messages will be logged only")
		return &LogMessenger{}
	}

	return &TwilioMessenger{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: sid,
			Password: token,
		}),
		from: os.Getenv("TWILIO_WHATSAPP_NUMBER"),
	}
}

// TwilioMessenger sends WhatsApp messages through the Twilio API.
type TwilioMessenger struct {
	client *twilio.RestClient
	from   string
}

func (m *TwilioMessenger) Send(to, body string) bool {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo("whatsapp:" + to)
	params.SetFrom(m.from)
	params.SetBody(body)

	if _, err := m.client.Api.CreateMessage(params); err != nil {
		logrus.WithError(err).WithField("to", to).Warn("whatsapp delivery failed")
		return false
	}
	logrus.WithField("to", to).Info("whatsapp sent")
	return true
}

// MessageRecord is one would-be delivery captured by the logging
// messenger.
type MessageRecord struct {
	To   string
	Body string
}

// LogMessenger records the payload and reports success.
type LogMessenger struct {
	mu   sync.Mutex
	sent []MessageRecord
}

func (m *LogMessenger) Send(to, body string) bool {
	m.mu.Lock()
	m.sent = append(m.sent, MessageRecord{To: to, Body: body})
	m.mu.Unlock()

	logrus.WithField("to", to).Info("[MOCK WHATSAPP] sent")
	return true
}

// Sent returns a copy of everything recorded so far.
func (m *LogMessenger) Sent() []MessageRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MessageRecord, len(m.sent))
	copy(out, m.sent)
	return out
}
