package controllers

import (
	"context"
	"net/http"
	"time"

	"civicpulse-be/models"
	"civicpulse-be/realtime"
	"civicpulse-be/repositories"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// SOSController orchestrates the emergency alert lifecycle. SOS records
// are always CRITICAL and broadcast synchronously before the response
// is sent; there is no categorization, upload or deferred notification
// step.
type SOSController struct {
	Alerts    repositories.SOSRepo
	Users     repositories.UserRepo
	Publisher realtime.Publisher
}

func NewSOSController(alerts repositories.SOSRepo, users repositories.UserRepo,
	publisher realtime.Publisher) *SOSController {
	return &SOSController{Alerts: alerts, Users: users, Publisher: publisher}
}

// Create raises a new SOS alert.
func (sc *SOSController) Create(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	var input struct {
		Type    models.SOSType `json:"type" binding:"required"`
		Lat     float64        `json:"lat"`
		Lng     float64        `json:"lng"`
		Address string         `json:"address,omitempty"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidSOSType(input.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid emergency type"})
		return
	}

	alert := models.SOSAlert{
		ReporterID: actor.ID,
		Type:       input.Type,
		Status:     models.SOSActive,
		Location:   models.Location{Lat: input.Lat, Lng: input.Lng, Address: input.Address},
		Priority:   models.PriorityCritical,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := sc.Alerts.Insert(ctx, &alert); err != nil {
		logrus.WithError(err).Error("failed to persist SOS alert")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create alert"})
		return
	}

	expanded := models.SOSWithUsers{SOSAlert: alert, Reporter: actor.Ref(true)}
	sc.Publisher.Publish(realtime.EventSOSAlert, expanded)

	c.JSON(http.StatusCreated, expanded)
}

// ListActive returns all alerts still in the active state, newest
// first, with reporters expanded to name and phone.
func (sc *SOSController) ListActive(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	alerts, err := sc.Alerts.FindActive(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve alerts"})
		return
	}

	expanded := make([]models.SOSWithUsers, 0, len(alerts))
	for _, alert := range alerts {
		expanded = append(expanded, sc.expand(ctx, alert))
	}

	c.JSON(http.StatusOK, expanded)
}

// Assign stamps the acting authority onto the alert. Repeated calls
// simply reassign; the last writer wins.
func (sc *SOSController) Assign(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	alertID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid alert ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	alert, err := sc.Alerts.FindByID(ctx, alertID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Alert not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve alert"})
		}
		return
	}

	now := time.Now()
	alert.AssignedTo = &actor.ID
	alert.AssignedAt = &now

	if err := sc.Alerts.Update(ctx, alert); err != nil {
		logrus.WithError(err).Error("failed to update SOS alert")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update alert"})
		return
	}

	expanded := sc.expand(ctx, *alert)
	sc.Publisher.Publish(realtime.EventAuthorityAccepted, expanded)

	c.JSON(http.StatusOK, expanded)
}

// Resolve closes the alert. Resolving an unassigned alert also stamps
// the resolving authority as assignee, with assignedAt equal to
// resolvedAt.
func (sc *SOSController) Resolve(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	alertID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid alert ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	alert, err := sc.Alerts.FindByID(ctx, alertID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Alert not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve alert"})
		}
		return
	}

	now := time.Now()
	alert.Status = models.SOSResolved
	if alert.ResolvedAt == nil {
		alert.ResolvedAt = &now
	}
	if alert.AssignedTo == nil {
		alert.AssignedTo = &actor.ID
		alert.AssignedAt = alert.ResolvedAt
	}

	if err := sc.Alerts.Update(ctx, alert); err != nil {
		logrus.WithError(err).Error("failed to update SOS alert")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update alert"})
		return
	}

	expanded := sc.expand(ctx, *alert)
	sc.Publisher.Publish(realtime.EventSOSResolved, expanded)

	c.JSON(http.StatusOK, expanded)
}

// expand resolves the reporter (name+phone) and assignee (name)
// references on an alert. Lookup failures leave bare IDs in place.
func (sc *SOSController) expand(ctx context.Context, alert models.SOSAlert) models.SOSWithUsers {
	out := models.SOSWithUsers{SOSAlert: alert, Reporter: models.UserRef{ID: alert.ReporterID}}

	if reporter, err := sc.Users.FindByID(ctx, alert.ReporterID); err == nil {
		out.Reporter = reporter.Ref(true)
	}
	if alert.AssignedTo != nil {
		if assignee, err := sc.Users.FindByID(ctx, *alert.AssignedTo); err == nil {
			ref := assignee.Ref(false)
			out.Assignee = &ref
		} else {
			out.Assignee = &models.UserRef{ID: *alert.AssignedTo}
		}
	}
	return out
}
