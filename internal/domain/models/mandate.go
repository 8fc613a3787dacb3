package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InvestorMandate captures an investor's stated criteria, owned by an
// introducer. Every active mandate of an introducer receives an assignment
// when a deal is distributed to that introducer.
type InvestorMandate struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	IntroducerID primitive.ObjectID `bson:"introducer_id" json:"introducer_id"`

	InvestorName   string `bson:"investor_name" json:"investor_name"`
	InvestorNameCI string `bson:"investor_name_ci" json:"investor_name_ci"`
	InvestorType   string `bson:"investor_type,omitempty" json:"investor_type,omitempty"` // e.g. "fund", "family_office", "utility"

	MinInvestment float64 `bson:"min_investment" json:"min_investment"`
	MaxInvestment float64 `bson:"max_investment" json:"max_investment"`

	PreferredTechnologies []string `bson:"preferred_technologies,omitempty" json:"preferred_technologies,omitempty"`
	PreferredRegions      []string `bson:"preferred_regions,omitempty" json:"preferred_regions,omitempty"`

	RiskTolerance string `bson:"risk_tolerance,omitempty" json:"risk_tolerance,omitempty"` // "low" | "medium" | "high"

	Status string `bson:"status" json:"status"` // "active" or "disabled"

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}
