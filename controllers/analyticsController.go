package controllers

import (
	"context"
	"math"
	"net/http"
	"time"

	"civicpulse-be/repositories"

	"github.com/gin-gonic/gin"
)

// AnalyticsController serves the read-only dashboard aggregate.
type AnalyticsController struct {
	Issues repositories.IssueRepo
	Alerts repositories.SOSRepo
}

func NewAnalyticsController(issues repositories.IssueRepo, alerts repositories.SOSRepo) *AnalyticsController {
	return &AnalyticsController{Issues: issues, Alerts: alerts}
}

// Get returns issue/SOS totals, per-category issue counts and the
// average resolution time in hours over resolved issues.
func (ac *AnalyticsController) Get(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	totalIssues, err := ac.Issues.Count(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute analytics"})
		return
	}
	resolvedIssues, err := ac.Issues.CountResolved(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute analytics"})
		return
	}
	totalSOS, err := ac.Alerts.Count(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute analytics"})
		return
	}
	activeSOS, err := ac.Alerts.CountActive(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute analytics"})
		return
	}
	byCategory, err := ac.Issues.CountsByCategory(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute analytics"})
		return
	}
	avgHours, err := ac.Issues.AvgResolutionHours(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute analytics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalIssues":            totalIssues,
		"resolvedIssues":         resolvedIssues,
		"totalSOS":               totalSOS,
		"activeSOS":              activeSOS,
		"issuesByCategory":       byCategory,
		"avgResolutionTimeHours": math.Round(avgHours*100) / 100,
	})
}
