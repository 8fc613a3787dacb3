package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Deal is a renewable-energy investment opportunity managed by admins and
// distributed to introducers via DealAssignment records.
type Deal struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title   string             `bson:"title" json:"title"`
	TitleCI string             `bson:"title_ci" json:"title_ci"` // lowercase, diacritics-stripped

	Description string `bson:"description,omitempty" json:"description,omitempty"`
	DealType    string `bson:"deal_type" json:"deal_type"` // e.g. "solar", "wind", "hydro"

	CapacityMW         float64 `bson:"capacity_mw" json:"capacity_mw"`
	InvestmentRequired float64 `bson:"investment_required" json:"investment_required"` // millions
	ExpectedReturn     float64 `bson:"expected_return" json:"expected_return"`         // percent

	Location string `bson:"location,omitempty" json:"location,omitempty"`
	Country  string `bson:"country,omitempty" json:"country,omitempty"`

	Status   string `bson:"status" json:"status"`     // "active" | "assigned" | "completed" | "cancelled"
	Priority string `bson:"priority" json:"priority"` // "low" | "medium" | "high" | "urgent"

	CreatedByID primitive.ObjectID `bson:"created_by_id" json:"created_by_id"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   *time.Time         `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// Deal status values.
const (
	DealStatusActive    = "active"
	DealStatusAssigned  = "assigned"
	DealStatusCompleted = "completed"
	DealStatusCancelled = "cancelled"
)

// DealStatuses is the full set of allowed deal status values.
var DealStatuses = []string{
	DealStatusActive,
	DealStatusAssigned,
	DealStatusCompleted,
	DealStatusCancelled,
}

// Deal priority values.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// DealPriorities is the full set of allowed priority values.
var DealPriorities = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// DefaultDealPriority is used when no priority is provided on the form.
const DefaultDealPriority = PriorityMedium

// IsValidDealPriority checks if a value is an allowed priority.
func IsValidDealPriority(value string) bool {
	for _, p := range DealPriorities {
		if p == value {
			return true
		}
	}
	return false
}
