package services

import (
	"fmt"
	"os"

	"civicpulse-be/models"

	"github.com/sirupsen/logrus"
)

// ReporterConfirmation is the payload for the confirmation sent to the
// citizen who filed the issue.
type ReporterConfirmation struct {
	Name     string
	Email    string
	Phone    string
	Title    string
	IssueID  string
	Priority models.Priority
}

// AdminAlert is the payload for the alert sent to the admin address on
// every new issue.
type AdminAlert struct {
	Title        string
	Category     string
	AICategory   string
	Priority     models.Priority
	Location     models.Location
	ReporterName string
	IssueID      string
}

// Notifier runs the multi-channel composition for a newly created
// issue. Each channel call is independent; failure of one never
// prevents the others from attempting, and none of them can affect the
// already-persisted record.
type Notifier struct {
	mailer     Mailer
	messenger  Messenger
	adminEmail string
	adminPhone string
}

func NewNotifier(mailer Mailer, messenger Messenger) *Notifier {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@civicpulse.com"
	}
	return &Notifier{
		mailer:     mailer,
		messenger:  messenger,
		adminEmail: adminEmail,
		adminPhone: os.Getenv("ADMIN_WHATSAPP_NUMBER"),
	}
}

// DispatchIssueCreated fires the notification composition on its own
// goroutine. The caller passes value copies of already-persisted data;
// nothing here shares mutable state with the request path, and a panic
// is captured into the log instead of crashing the process.
func (n *Notifier) DispatchIssueCreated(issue models.Issue, reporter models.User) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logrus.WithField("panic", r).Error("notification dispatch panicked")
			}
		}()
		n.IssueCreated(issue, reporter)
	}()
}

// IssueCreated runs the four-step composition synchronously:
// confirmation email to the reporter, alert email to the admin address,
// confirmation message to the reporter's phone when present, and an
// escalation message to the admin for HIGH/CRITICAL priorities.
func (n *Notifier) IssueCreated(issue models.Issue, reporter models.User) {
	confirmation := ReporterConfirmation{
		Name:     reporter.Name,
		Email:    reporter.Email,
		Phone:    reporter.Phone,
		Title:    issue.Title,
		IssueID:  issue.ID.Hex(),
		Priority: issue.Priority,
	}
	alert := AdminAlert{
		Title:        issue.Title,
		Category:     issue.Category,
		AICategory:   issue.AICategory,
		Priority:     issue.Priority,
		Location:     issue.Location,
		ReporterName: reporter.Name,
		IssueID:      issue.ID.Hex(),
	}

	emailOK := n.mailer.Send(confirmation.Email,
		"CivicPulse: Issue Report Confirmation", confirmationEmailBody(confirmation))

	adminOK := n.mailer.Send(n.adminEmail,
		fmt.Sprintf("[%s] New Issue: %s", alert.Priority, alert.Title), adminAlertEmailBody(alert))

	messageOK := false
	if confirmation.Phone != "" {
		messageOK = n.messenger.Send(confirmation.Phone, confirmationMessageBody(confirmation))
	} else {
		logrus.WithField("issue", confirmation.IssueID).Info("reporter has no phone, skipping message confirmation")
	}

	if issue.Priority == models.PriorityHigh || issue.Priority == models.PriorityCritical {
		n.messenger.Send(n.adminPhone, escalationMessageBody(alert))
	}

	logrus.WithFields(logrus.Fields{
		"issue":   confirmation.IssueID,
		"email":   emailOK,
		"admin":   adminOK,
		"message": messageOK,
	}).Info("issue notifications finished")
}

func confirmationEmailBody(p ReporterConfirmation) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; padding: 20px;">
<h2 style="color: #2563eb;">Issue Reported Successfully</h2>
<p>Dear %s,</p>
<p>Thank you for reporting the issue: <strong>%s</strong>.</p>
<p>Our team has been notified and the issue has been categorized as <strong>%s</strong> priority.</p>
<p>Reference ID: %s</p>
<br>
<p>Best Regards,<br>CivicPulse Team</p>
</div>`, p.Name, p.Title, p.Priority, p.IssueID)
}

func adminAlertEmailBody(p AdminAlert) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; padding: 20px;">
<h2 style="color: #dc2626;">New Issue Reported</h2>
<p><strong>Title:</strong> %s</p>
<p><strong>Category:</strong> %s (AI: %s)</p>
<p><strong>Priority:</strong> %s</p>
<p><strong>Location:</strong> %s (%v, %v)</p>
<p><strong>Reported By:</strong> %s</p>
</div>`, p.Title, p.Category, p.AICategory, p.Priority, p.Location.Address, p.Location.Lat, p.Location.Lng, p.ReporterName)
}

func confirmationMessageBody(p ReporterConfirmation) string {
	return fmt.Sprintf("*CivicPulse Confirmation*\n\nYour issue has been successfully registered.\n\n*Issue:* %s\n*Tracking ID:* %s\n\nThank you for being a responsible citizen.",
		p.Title, p.IssueID)
}

func escalationMessageBody(p AdminAlert) string {
	return fmt.Sprintf("*CivicPulse Alert*\n\n*Issue:* %s\n*Category:* %s\n*Priority:* %s\n*Location:* %v, %v\n*User:* %s",
		p.Title, p.AICategory, p.Priority, p.Location.Lat, p.Location.Lng, p.ReporterName)
}
