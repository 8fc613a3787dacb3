package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification is an in-app message for a portal user, created alongside
// outbound email so the user sees the event even when delivery fails.
type Notification struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`

	Type    string `bson:"type" json:"type"` // e.g. "project_added"
	Title   string `bson:"title" json:"title"`
	Message string `bson:"message,omitempty" json:"message,omitempty"`

	// ProjectID links the notification to a project when relevant.
	ProjectID *primitive.ObjectID `bson:"project_id,omitempty" json:"project_id,omitempty"`

	Read bool `bson:"read" json:"read"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// NotificationTypeProjectAdded is created when a project is distributed to
// an investor.
const NotificationTypeProjectAdded = "project_added"
