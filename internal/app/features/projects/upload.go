// internal/app/features/projects/upload.go
package projects

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	developerstore "github.com/bearenergy/dealflow/internal/app/store/developers"
	projectstore "github.com/bearenergy/dealflow/internal/app/store/projects"
	"github.com/bearenergy/dealflow/internal/app/system/authz"
	"github.com/bearenergy/dealflow/internal/app/system/formutil"
	"github.com/bearenergy/dealflow/internal/app/system/htmlsanitize"
	"github.com/bearenergy/dealflow/internal/app/system/navigation"
	"github.com/bearenergy/dealflow/internal/app/system/timeouts"
	"github.com/bearenergy/dealflow/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type uploadFormData struct {
	formutil.Base
	ProjectName       string
	TechnologyType    string
	Location          string
	CapacityMW        string
	EstimatedValueGBP string
	DeveloperID       string
	Tier1Summary      string
	Tier2Teaser       string
	Tier3FullData     string
	Technologies      []string
	Developers        []models.CRMDeveloper
}

// ServeUpload renders the project upload form.
// GET /projects/upload
func (h *Handler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	developers, err := developerstore.New(h.DB).List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find developers failed", err, "A database error occurred.", "/admin")
		return
	}

	data := uploadFormData{
		TechnologyType: models.DefaultTechnologyType,
		Technologies:   models.TechnologyTypes,
		Developers:     developers,
	}
	formutil.SetBase(&data.Base, r, "Upload Project", "/admin")

	templates.Render(w, r, "projects_upload", data)
}

// HandleUpload processes the project upload form: project fields, the three
// tier content blocks, and any attached data-room documents.
// POST /projects/upload
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	// Parse multipart form for file uploads (32MB max)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/projects/upload")
		return
	}

	name := strings.TrimSpace(r.FormValue("project_name"))
	technology := strings.TrimSpace(r.FormValue("technology_type"))
	location := strings.TrimSpace(r.FormValue("location"))
	developerRaw := strings.TrimSpace(r.FormValue("developer_id"))

	// Tier content comes from rich text editors.
	tier1 := htmlsanitize.Sanitize(strings.TrimSpace(r.FormValue("tier1_summary")))
	tier2 := htmlsanitize.Sanitize(strings.TrimSpace(r.FormValue("tier2_teaser")))
	tier3 := htmlsanitize.Sanitize(strings.TrimSpace(r.FormValue("tier3_full_data")))

	capacity := parseFloatField(r.FormValue("capacity_mw"))
	estimatedValue := parseFloatField(r.FormValue("estimated_value_gbp"))

	renderWithError := func(msg string) {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()
		developers, _ := developerstore.New(h.DB).List(ctx)

		data := uploadFormData{
			ProjectName:       name,
			TechnologyType:    technology,
			Location:          location,
			CapacityMW:        r.FormValue("capacity_mw"),
			EstimatedValueGBP: r.FormValue("estimated_value_gbp"),
			DeveloperID:       developerRaw,
			Tier1Summary:      tier1,
			Tier2Teaser:       tier2,
			Tier3FullData:     tier3,
			Technologies:      models.TechnologyTypes,
			Developers:        developers,
		}
		formutil.SetBase(&data.Base, r, "Upload Project", "/admin")
		data.SetError(msg)
		templates.Render(w, r, "projects_upload", data)
	}

	if name == "" {
		renderWithError("Project name is required.")
		return
	}
	if technology != "" && !models.IsValidTechnologyType(technology) {
		renderWithError("Please select a valid technology type.")
		return
	}

	var developerID *primitive.ObjectID
	if developerRaw != "" {
		id, err := primitive.ObjectIDFromHex(developerRaw)
		if err != nil {
			renderWithError("Invalid developer selection.")
			return
		}
		developerID = &id
	}

	_, _, adminID, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	project := models.ProjectUpload{
		ProjectName:       name,
		TechnologyType:    technology,
		Location:          location,
		CapacityMW:        capacity,
		EstimatedValueGBP: estimatedValue,
		DeveloperID:       developerID,
		Tier1Summary:      tier1,
		Tier2Teaser:       tier2,
		Tier3FullData:     tier3,
		UploadedByID:      adminID,
	}

	store := projectstore.New(h.DB)
	created, err := store.Create(ctx, project)
	if err != nil {
		renderWithError("Database error while creating the project.")
		return
	}

	// Data-room documents are optional; upload whatever was attached.
	docs, err := h.storeDocuments(ctx, r)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "upload documents failed", err, "The project was created but its documents could not be uploaded.", "/admin")
		return
	}
	if len(docs) > 0 {
		if err := store.AddDocuments(ctx, created.ID, docs); err != nil {
			h.ErrLog.LogServerError(w, r, "attach documents failed", err, "The project was created but its documents could not be saved.", "/admin")
			return
		}
	}

	h.Log.Info("project uploaded",
		zap.String("project_id", created.ID.Hex()),
		zap.String("name", created.ProjectName),
		zap.Int("documents", len(docs)))

	ret := navigation.SafeBackURL(r, navigation.ProjectsBackURL)
	http.Redirect(w, r, ret, http.StatusSeeOther)
}

// storeDocuments uploads every file attached under the "documents" field and
// returns their metadata.
func (h *Handler) storeDocuments(ctx context.Context, r *http.Request) ([]models.DocumentFile, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	var docs []models.DocumentFile
	for _, header := range r.MultipartForm.File["documents"] {
		if header == nil || header.Size == 0 {
			continue
		}
		file, err := header.Open()
		if err != nil {
			return nil, err
		}

		doc, err := uploadDocument(ctx, h.Storage, header.Filename, file, header.Size, header.Header.Get("Content-Type"))
		file.Close()
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// parseFloatField parses a numeric form value, treating blank or malformed
// input as zero.
func parseFloatField(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
