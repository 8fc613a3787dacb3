package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DocumentFile is one uploaded document attached to a project.
// Path is the storage key (local path or object key), not a public URL;
// downloads are served through an access-checked handler.
type DocumentFile struct {
	Name        string `bson:"name" json:"name"`
	Path        string `bson:"path" json:"path"`
	ContentType string `bson:"content_type,omitempty" json:"content_type,omitempty"`
	Size        int64  `bson:"size,omitempty" json:"size,omitempty"`
}

// ProjectUpload is a project listed for distribution to investors.
//
// The three tier fields hold strictly additive disclosure content: tier 1 is
// the executive summary, tier 2 adds the detailed teaser, tier 3 adds the
// full data room text and unlocks document downloads.
type ProjectUpload struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	ProjectName   string `bson:"project_name" json:"project_name"`
	ProjectNameCI string `bson:"project_name_ci" json:"project_name_ci"`

	TechnologyType string `bson:"technology_type" json:"technology_type"`
	Location       string `bson:"location,omitempty" json:"location,omitempty"`

	CapacityMW        float64 `bson:"capacity_mw" json:"capacity_mw"`
	EstimatedValueGBP float64 `bson:"estimated_value_gbp" json:"estimated_value_gbp"`

	// DeveloperID links to a CRMDeveloper when the project came through the
	// CRM pipeline. Optional.
	DeveloperID *primitive.ObjectID `bson:"developer_id,omitempty" json:"developer_id,omitempty"`

	Tier1Summary  string `bson:"tier1_summary,omitempty" json:"tier1_summary,omitempty"`
	Tier2Teaser   string `bson:"tier2_teaser,omitempty" json:"tier2_teaser,omitempty"`
	Tier3FullData string `bson:"tier3_full_data,omitempty" json:"tier3_full_data,omitempty"`

	DocumentFiles []DocumentFile `bson:"document_files,omitempty" json:"document_files,omitempty"`

	UploadStatus string `bson:"upload_status" json:"upload_status"` // "active" or "disabled"

	UploadedByID primitive.ObjectID `bson:"uploaded_by_id" json:"uploaded_by_id"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    *time.Time         `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}
