package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Department groups responder users, e.g. 'police', 'fire', 'medical',
// 'municipal'. Referenced by User.Department.
type Department struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name        string              `bson:"name" json:"name"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	Head        *primitive.ObjectID `bson:"head,omitempty" json:"head,omitempty"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt" json:"updatedAt"`
}
