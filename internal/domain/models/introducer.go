package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Introducer is a broker profile that receives deal assignments and manages
// investor mandates. Each introducer belongs to exactly one portal user.
//
// Specialization and Regions are stored as native arrays, normalized at
// write time from the comma-separated text the forms collect.
type Introducer struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`

	Name   string `bson:"name" json:"name"`
	NameCI string `bson:"name_ci" json:"name_ci"`
	Email  string `bson:"email,omitempty" json:"email,omitempty"`

	Company   string `bson:"company,omitempty" json:"company,omitempty"`
	CompanyCI string `bson:"company_ci,omitempty" json:"company_ci,omitempty"`

	Specialization []string `bson:"specialization,omitempty" json:"specialization,omitempty"`
	Regions        []string `bson:"regions,omitempty" json:"regions,omitempty"`

	// CommissionRate is a fraction (0.05 = 5%). It is copied onto each
	// DealAssignment at assignment time, not live-linked.
	CommissionRate float64 `bson:"commission_rate" json:"commission_rate"`

	Status string `bson:"status" json:"status"` // "active" or "disabled"

	TotalDealsClosed      int     `bson:"total_deals_closed" json:"total_deals_closed"`
	TotalCommissionEarned float64 `bson:"total_commission_earned" json:"total_commission_earned"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// DefaultCommissionRate is applied when an introducer's rate is absent or
// zero at assignment time.
const DefaultCommissionRate = 0.05
