package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DealAssignment is the join between a deal, an introducer, and one of the
// introducer's mandates. Exactly one document per (deal, introducer, mandate)
// produced by a distribution run.
//
// CommissionPercentage is copied from Introducer.CommissionRate when the
// assignment is created; later changes to the introducer's rate do not
// affect existing assignments.
type DealAssignment struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DealID       primitive.ObjectID `bson:"deal_id" json:"deal_id"`
	IntroducerID primitive.ObjectID `bson:"introducer_id" json:"introducer_id"`
	MandateID    primitive.ObjectID `bson:"mandate_id" json:"mandate_id"`

	Status string `bson:"status" json:"status"` // "assigned" | "in_progress" | "completed" | "rejected"

	CommissionPercentage float64 `bson:"commission_percentage" json:"commission_percentage"`

	Notes string `bson:"notes,omitempty" json:"notes,omitempty"`

	AssignedAt time.Time  `bson:"assigned_at" json:"assigned_at"`
	UpdatedAt  *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`

	AssignedByID primitive.ObjectID `bson:"assigned_by_id,omitempty" json:"assigned_by_id,omitempty"`
}

// Assignment status values.
const (
	AssignmentStatusAssigned   = "assigned"
	AssignmentStatusInProgress = "in_progress"
	AssignmentStatusCompleted  = "completed"
	AssignmentStatusRejected   = "rejected"
)

// AssignmentStatuses is the full set of allowed assignment status values.
var AssignmentStatuses = []string{
	AssignmentStatusAssigned,
	AssignmentStatusInProgress,
	AssignmentStatusCompleted,
	AssignmentStatusRejected,
}

// IsValidAssignmentStatus checks if a value is an allowed assignment status.
func IsValidAssignmentStatus(value string) bool {
	for _, s := range AssignmentStatuses {
		if s == value {
			return true
		}
	}
	return false
}
