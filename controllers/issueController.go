package controllers

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"civicpulse-be/models"
	"civicpulse-be/realtime"
	"civicpulse-be/repositories"
	"civicpulse-be/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// IssueController orchestrates issue creation and status transitions.
// It is stateless; every dependency is injected so tests can swap in
// fakes.
type IssueController struct {
	Issues     repositories.IssueRepo
	Users      repositories.UserRepo
	Classifier services.Classifier
	Media      services.MediaStore
	Notifier   *services.Notifier
	Publisher  realtime.Publisher
}

func NewIssueController(issues repositories.IssueRepo, users repositories.UserRepo,
	classifier services.Classifier, media services.MediaStore,
	notifier *services.Notifier, publisher realtime.Publisher) *IssueController {
	return &IssueController{
		Issues:     issues,
		Users:      users,
		Classifier: classifier,
		Media:      media,
		Notifier:   notifier,
		Publisher:  publisher,
	}
}

// Create handles issue submission: validate, optional media ingestion
// (failure tolerated), synchronous categorization, persist, broadcast,
// then detached notifications. The response does not wait on
// notifications.
func (ic *IssueController) Create(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	title := c.PostForm("title")
	description := c.PostForm("description")
	category := c.PostForm("category")
	address := c.PostForm("address")

	if title == "" || description == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and description are required"})
		return
	}

	// Missing coordinates default to 0; the report is still accepted.
	lat, _ := strconv.ParseFloat(c.PostForm("lat"), 64)
	lng, _ := strconv.ParseFloat(c.PostForm("lng"), 64)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var imageURL, videoURL string
	if file, err := c.FormFile("media"); err == nil && file != nil {
		upload, uploadErr := ic.ingestFile(ctx, file)
		if uploadErr != nil {
			logrus.WithError(uploadErr).WithField("file", file.Filename).Warn("media ingestion failed, proceeding without media")
		} else if upload != nil {
			switch upload.Kind {
			case services.KindImage:
				imageURL = upload.URL
			case services.KindVideo:
				videoURL = upload.URL
			}
		}
	}

	// Categorization must complete (via fallback) before persistence;
	// category and priority are stored once and never recomputed.
	result := ic.Classifier.Categorize(ctx, title, description)

	issue := models.Issue{
		ReporterID:   actor.ID,
		Title:        title,
		Description:  description,
		Category:     category,
		AICategory:   result.Category,
		AIConfidence: result.Confidence,
		Priority:     result.Priority,
		Status:       models.StatusPending,
		Location:     models.Location{Lat: lat, Lng: lng, Address: address},
		Image:        imageURL,
		Video:        videoURL,
		Escalated:    result.Priority == models.PriorityHigh || result.Priority == models.PriorityCritical,
	}

	if err := ic.Issues.Insert(ctx, &issue); err != nil {
		logrus.WithError(err).Error("failed to persist issue")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create issue"})
		return
	}

	expanded := models.IssueWithReporter{Issue: issue, Reporter: actor.Ref(false)}
	ic.Publisher.Publish(realtime.EventNewIssue, expanded)

	ic.Notifier.DispatchIssueCreated(issue, actor)

	c.JSON(http.StatusCreated, expanded)
}

// ingestFile reads the submitted file and hands it to the media store.
// The size ceiling is checked before the body is read at all.
func (ic *IssueController) ingestFile(ctx context.Context, fh *multipart.FileHeader) (*services.Upload, error) {
	if fh.Size > services.MaxMediaSize {
		return nil, fmt.Errorf("file exceeds %dMB limit", services.MaxMediaSize>>20)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	return ic.Media.Ingest(ctx, data, fh.Filename, fh.Header.Get("Content-Type"))
}

// List returns all issues, newest first, with reporters expanded to
// their names.
func (ic *IssueController) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issues, err := ic.Issues.FindAll(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issues"})
		return
	}

	// Expand reporter names; one lookup per distinct reporter.
	refs := make(map[primitive.ObjectID]models.UserRef)
	expanded := make([]models.IssueWithReporter, 0, len(issues))
	for _, issue := range issues {
		ref, ok := refs[issue.ReporterID]
		if !ok {
			ref = models.UserRef{ID: issue.ReporterID}
			if user, err := ic.Users.FindByID(ctx, issue.ReporterID); err == nil {
				ref = user.Ref(false)
			}
			refs[issue.ReporterID] = ref
		}
		expanded = append(expanded, models.IssueWithReporter{Issue: issue, Reporter: ref})
	}

	c.JSON(http.StatusOK, expanded)
}

// UpdateStatus sets a new status (and optionally priority) on an issue.
// Transitions are not restricted to forward-only; any authorized caller
// may set any target status. Route middleware limits this to
// authority/admin roles.
func (ic *IssueController) UpdateStatus(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	var input struct {
		Status   models.IssueStatus `json:"status" binding:"required"`
		Priority *models.Priority   `json:"priority,omitempty"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidIssueStatus(input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}
	if input.Priority != nil && !models.ValidPriority(*input.Priority) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid priority"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issue, err := ic.Issues.FindByID(ctx, issueID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issue"})
		}
		return
	}

	now := time.Now()
	issue.Status = input.Status
	if input.Priority != nil {
		issue.Priority = *input.Priority
	}

	// Last writer wins on assignment; assignedAt is stamped only the
	// first time the issue is picked up.
	if actor.Role != models.RoleCitizen {
		issue.AssignedTo = &actor.ID
		if issue.AssignedAt == nil {
			issue.AssignedAt = &now
		}
	}
	if input.Status == models.StatusResolved && issue.ResolvedAt == nil {
		issue.ResolvedAt = &now
	}

	if err := ic.Issues.Update(ctx, issue); err != nil {
		logrus.WithError(err).Error("failed to update issue")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update issue"})
		return
	}

	ic.Publisher.Publish(realtime.EventIssueUpdated, issue)

	c.JSON(http.StatusOK, issue)
}

// ToggleUpvote adds or removes the acting user from the issue's upvote
// set.
func (ic *IssueController) ToggleUpvote(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	voted, votes, err := ic.Issues.ToggleUpvote(ctx, issueID, actor.ID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update vote"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"voted": voted,
		"votes": votes,
	})
}

// currentUser pulls the authenticated user from the context; the auth
// middleware is responsible for putting it there.
func currentUser(c *gin.Context) (models.User, bool) {
	userVal, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return models.User{}, false
	}
	user, ok := userVal.(models.User)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return models.User{}, false
	}
	return user, true
}
