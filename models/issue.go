package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Priority enum, shared by issues and SOS alerts
type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

// ValidPriority reports whether p is one of the four known priorities.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// IssueStatus enum
type IssueStatus string

const (
	StatusPending    IssueStatus = "pending"
	StatusInProgress IssueStatus = "in_progress"
	StatusResolved   IssueStatus = "resolved"
)

// ValidIssueStatus reports whether s is a known issue status.
func ValidIssueStatus(s IssueStatus) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// IssueCategories are the labels the categorization service may assign.
var IssueCategories = []string{
	"Road", "Water", "Electricity", "Crime", "Medical",
	"Fire", "Garbage", "Streetlight", "Other",
}

// ValidCategory reports whether the label is a known category.
func ValidCategory(category string) bool {
	for _, c := range IssueCategories {
		if c == category {
			return true
		}
	}
	return false
}

// Location is a point with an optional human-readable address.
type Location struct {
	Lat     float64 `bson:"lat" json:"lat"`
	Lng     float64 `bson:"lng" json:"lng"`
	Address string  `bson:"address,omitempty" json:"address,omitempty"`
}

// Issue represents a citizen-reported, non-emergency civic problem
type Issue struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	ReporterID   primitive.ObjectID   `bson:"user" json:"user"`
	Title        string               `bson:"title" json:"title"`
	Description  string               `bson:"description" json:"description"`
	Category     string               `bson:"category" json:"category"`
	AICategory   string               `bson:"aiCategory,omitempty" json:"aiCategory,omitempty"`
	AIConfidence float64              `bson:"aiConfidence,omitempty" json:"aiConfidence,omitempty"`
	Priority     Priority             `bson:"priority" json:"priority"`
	Status       IssueStatus          `bson:"status" json:"status"`
	Location     Location             `bson:"location" json:"location"`
	Image        string               `bson:"image,omitempty" json:"image,omitempty"`
	Video        string               `bson:"video,omitempty" json:"video,omitempty"`
	Upvotes      []primitive.ObjectID `bson:"upvotes,omitempty" json:"upvotes"`
	AssignedTo   *primitive.ObjectID  `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	AssignedAt   *time.Time           `bson:"assignedAt,omitempty" json:"assignedAt,omitempty"`
	ResolvedAt   *time.Time           `bson:"resolvedAt,omitempty" json:"resolvedAt,omitempty"`
	Escalated    bool                 `bson:"escalated" json:"escalated"`
	CreatedAt    time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// IssueWithReporter is an Issue with its reporter reference expanded,
// used on API responses and the new-issue live event.
type IssueWithReporter struct {
	Issue
	Reporter UserRef `json:"reporter"`
}
