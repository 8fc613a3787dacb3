package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InvestorProjectAccess authorizes one investor to view one project at a
// given disclosure tier. At most one document per (investor, project);
// regranting updates the tier in place.
type InvestorProjectAccess struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	InvestorUserID primitive.ObjectID `bson:"investor_user_id" json:"investor_user_id"`
	ProjectID      primitive.ObjectID `bson:"project_id" json:"project_id"`

	AccessTier int `bson:"access_tier" json:"access_tier"` // 1, 2, or 3

	GrantedByID primitive.ObjectID `bson:"granted_by_id,omitempty" json:"granted_by_id,omitempty"`
	GrantedAt   time.Time          `bson:"granted_at" json:"granted_at"`
	UpdatedAt   *time.Time         `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// Access tier bounds. Tiers are strictly additive: each tier includes
// everything the lower tiers show.
const (
	MinAccessTier = 1
	MaxAccessTier = 3
)

// IsValidAccessTier checks if a tier value is in range.
func IsValidAccessTier(tier int) bool {
	return tier >= MinAccessTier && tier <= MaxAccessTier
}

// EffectiveTier clamps a stored tier into range, defaulting malformed
// values to tier 1.
func EffectiveTier(tier int) int {
	if !IsValidAccessTier(tier) {
		return MinAccessTier
	}
	return tier
}
