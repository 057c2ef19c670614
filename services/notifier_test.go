package services

import (
	"testing"
	"time"

	"civicpulse-be/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testIssue(priority models.Priority) models.Issue {
	return models.Issue{
		ID:          primitive.NewObjectID(),
		Title:       "Streetlight out on Oak Ave",
		Description: "whole corner is dark",
		Category:    "Streetlight",
		AICategory:  "Streetlight",
		Priority:    priority,
		Status:      models.StatusPending,
		Location:    models.Location{Lat: 12.9, Lng: 77.6, Address: "Oak Ave"},
	}
}

func testReporter(phone string) models.User {
	return models.User{
		ID:    primitive.NewObjectID(),
		Name:  "Asha",
		Email: "asha@example.com",
		Phone: phone,
		Role:  models.RoleCitizen,
	}
}

func TestIssueCreated_FullComposition(t *testing.T) {
	mailer := &LogMailer{}
	messenger := &LogMessenger{}
	n := &Notifier{
		mailer:     mailer,
		messenger:  messenger,
		adminEmail: "admin@civicpulse.com",
		adminPhone: "+10000000000",
	}

	issue := testIssue(models.PriorityCritical)
	reporter := testReporter("+15551234567")

	n.IssueCreated(issue, reporter)

	mails := mailer.Sent()
	require.Len(t, mails, 2)
	assert.Equal(t, "asha@example.com", mails[0].To)
	assert.Equal(t, "CivicPulse: Issue Report Confirmation", mails[0].Subject)
	assert.Contains(t, mails[0].HTML, issue.ID.Hex())
	assert.Equal(t, "admin@civicpulse.com", mails[1].To)
	assert.Equal(t, "[CRITICAL] New Issue: Streetlight out on Oak Ave", mails[1].Subject)

	messages := messenger.Sent()
	require.Len(t, messages, 2)
	assert.Equal(t, "+15551234567", messages[0].To)
	assert.Contains(t, messages[0].Body, issue.ID.Hex())
	assert.Equal(t, "+10000000000", messages[1].To)
	assert.Contains(t, messages[1].Body, "CivicPulse Alert")
}

func TestIssueCreated_NoEscalationBelowHigh(t *testing.T) {
	for _, priority := range []models.Priority{models.PriorityLow, models.PriorityMedium} {
		mailer := &LogMailer{}
		messenger := &LogMessenger{}
		n := &Notifier{mailer: mailer, messenger: messenger, adminEmail: "admin@civicpulse.com", adminPhone: "+10000000000"}

		n.IssueCreated(testIssue(priority), testReporter("+15551234567"))

		messages := messenger.Sent()
		require.Len(t, messages, 1, "priority %s", priority)
		assert.Equal(t, "+15551234567", messages[0].To)
	}
}

func TestIssueCreated_SkipsMessageWithoutPhone(t *testing.T) {
	mailer := &LogMailer{}
	messenger := &LogMessenger{}
	n := &Notifier{mailer: mailer, messenger: messenger, adminEmail: "admin@civicpulse.com", adminPhone: "+10000000000"}

	n.IssueCreated(testIssue(models.PriorityLow), testReporter(""))

	assert.Len(t, mailer.Sent(), 2)
	assert.Empty(t, messenger.Sent())
}

type failingMailer struct{ attempts int }

func (m *failingMailer) Send(_, _, _ string) bool {
	m.attempts++
	return false
}

func TestIssueCreated_ChannelsAreIndependent(t *testing.T) {
	mailer := &failingMailer{}
	messenger := &LogMessenger{}
	n := &Notifier{mailer: mailer, messenger: messenger, adminEmail: "admin@civicpulse.com", adminPhone: "+10000000000"}

	n.IssueCreated(testIssue(models.PriorityHigh), testReporter("+15551234567"))

	assert.Equal(t, 2, mailer.attempts)
	messages := messenger.Sent()
	require.Len(t, messages, 2)
	assert.Equal(t, "+15551234567", messages[0].To)
	assert.Equal(t, "+10000000000", messages[1].To)
}

func TestDispatchIssueCreated_RunsAsync(t *testing.T) {
	mailer := &LogMailer{}
	messenger := &LogMessenger{}
	n := &Notifier{mailer: mailer, messenger: messenger, adminEmail: "admin@civicpulse.com"}

	n.DispatchIssueCreated(testIssue(models.PriorityLow), testReporter("+15551234567"))

	assert.Eventually(t, func() bool {
		return len(mailer.Sent()) == 2 && len(messenger.Sent()) == 1
	}, time.Second, 10*time.Millisecond)
}
