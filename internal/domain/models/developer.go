package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CRMDeveloper is a project developer tracked in the admin CRM. It is an
// independent reference entity: project uploads may link to one, but nothing
// cascades when a developer is deleted.
type CRMDeveloper struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	CompanyName   string `bson:"company_name" json:"company_name"`
	CompanyNameCI string `bson:"company_name_ci" json:"company_name_ci"`

	ContactPerson string `bson:"contact_person,omitempty" json:"contact_person,omitempty"`
	Email         string `bson:"email,omitempty" json:"email,omitempty"`
	Phone         string `bson:"phone,omitempty" json:"phone,omitempty"`

	TechnologyType string `bson:"technology_type" json:"technology_type"`

	LocationCountry string `bson:"location_country,omitempty" json:"location_country,omitempty"`
	LocationRegion  string `bson:"location_region,omitempty" json:"location_region,omitempty"`

	TypicalProjectSizeMW       float64 `bson:"typical_project_size_mw" json:"typical_project_size_mw"`
	EstimatedValueGBP          float64 `bson:"estimated_value_gbp" json:"estimated_value_gbp"`
	EstimatedSuccessFeePercent float64 `bson:"estimated_success_fee_percent" json:"estimated_success_fee_percent"`

	Notes string `bson:"notes,omitempty" json:"notes,omitempty"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// Canonical technology type identifiers shared by deals, developers, and
// project uploads.
const (
	TechnologySolar   = "solar"
	TechnologyWind    = "wind"
	TechnologyHydro   = "hydro"
	TechnologyBattery = "battery"
	TechnologyBiomass = "biomass"
	TechnologyOther   = "other"
)

// TechnologyTypes is the full set of allowed technology identifiers.
var TechnologyTypes = []string{
	TechnologySolar,
	TechnologyWind,
	TechnologyHydro,
	TechnologyBattery,
	TechnologyBiomass,
	TechnologyOther,
}

// DefaultTechnologyType is used when no specific type is provided.
const DefaultTechnologyType = TechnologySolar

// IsValidTechnologyType checks if a value is an allowed technology type.
func IsValidTechnologyType(value string) bool {
	for _, t := range TechnologyTypes {
		if t == value {
			return true
		}
	}
	return false
}
