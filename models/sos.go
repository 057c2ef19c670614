package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SOSType enum
type SOSType string

const (
	SOSAccident SOSType = "accident"
	SOSFire     SOSType = "fire"
	SOSMedical  SOSType = "medical"
	SOSCrime    SOSType = "crime"
	SOSOther    SOSType = "other"
)

// ValidSOSType reports whether t is a known emergency type.
func ValidSOSType(t SOSType) bool {
	switch t {
	case SOSAccident, SOSFire, SOSMedical, SOSCrime, SOSOther:
		return true
	}
	return false
}

// SOSStatus enum
type SOSStatus string

const (
	SOSActive     SOSStatus = "active"
	SOSResolved   SOSStatus = "resolved"
	SOSFalseAlarm SOSStatus = "false_alarm"
)

// SOSAlert represents a live emergency raised by a citizen. Alerts are
// never deleted; they are a permanent incident record.
type SOSAlert struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ReporterID primitive.ObjectID  `bson:"user" json:"user"`
	Type       SOSType             `bson:"type" json:"type"`
	Status     SOSStatus           `bson:"status" json:"status"`
	Location   Location            `bson:"location" json:"location"`
	AssignedTo *primitive.ObjectID `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	AssignedAt *time.Time          `bson:"assignedAt,omitempty" json:"assignedAt,omitempty"`
	ResolvedAt *time.Time          `bson:"resolvedAt,omitempty" json:"resolvedAt,omitempty"`
	// Priority is fixed at CRITICAL; emergencies are never triaged down.
	Priority  Priority  `bson:"priority" json:"priority"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// SOSWithUsers is an SOSAlert with reporter (and, when set, assignee)
// references expanded, used on API responses and the SOS live events.
type SOSWithUsers struct {
	SOSAlert
	Reporter UserRef  `json:"reporter"`
	Assignee *UserRef `json:"assignee,omitempty"`
}
