package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account that can sign in to one of the three portals.
//
// Role decides which dashboard the user lands on after login and which
// routes they may reach. Introducer users additionally own an Introducer
// profile document (linked by user_id on that document).
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username   string             `bson:"username" json:"username"`
	UsernameCI string             `bson:"username_ci" json:"username_ci"` // lowercase, diacritics-stripped

	// PasswordHash is a bcrypt hash. Never serialized to JSON.
	PasswordHash string `bson:"password_hash" json:"-"`

	Role        string `bson:"role" json:"role"`     // "admin" | "introducer" | "investor"
	Status      string `bson:"status" json:"status"` // "active" or "disabled"
	CompanyName string `bson:"company_name,omitempty" json:"company_name,omitempty"`
	Email       string `bson:"email,omitempty" json:"email,omitempty"`

	LastLoginAt *time.Time `bson:"last_login_at,omitempty" json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
}

// Canonical role identifiers stored in User.Role.
const (
	RoleAdmin      = "admin"
	RoleIntroducer = "introducer"
	RoleInvestor   = "investor"
)

// Roles is the full set of allowed role identifiers.
var Roles = []string{RoleAdmin, RoleIntroducer, RoleInvestor}

// IsValidRole checks if a value is a recognized role.
func IsValidRole(value string) bool {
	for _, r := range Roles {
		if r == value {
			return true
		}
	}
	return false
}

// DashboardPath returns the portal route for a role, or "/" for unknown roles.
func DashboardPath(role string) string {
	switch role {
	case RoleAdmin:
		return "/admin"
	case RoleIntroducer:
		return "/introducer"
	case RoleInvestor:
		return "/investor"
	default:
		return "/"
	}
}
