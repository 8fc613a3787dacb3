// internal/app/features/investor/download.go
package investor

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	uierrors "github.com/bearenergy/dealflow/internal/app/features/errors"
	accessstore "github.com/bearenergy/dealflow/internal/app/store/access"
	projectstore "github.com/bearenergy/dealflow/internal/app/store/projects"
	"github.com/bearenergy/dealflow/internal/app/system/authz"
	"github.com/bearenergy/dealflow/internal/app/system/timeouts"
	"github.com/bearenergy/dealflow/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// HandleDownloadDocument serves one data-room document. Documents are tier 3
// material, so the access check is server-side and per request.
// GET /investor/projects/{id}/documents/{idx}
func (h *Handler) HandleDownloadDocument(w http.ResponseWriter, r *http.Request) {
	projectID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad project id", err, "Invalid project.", "/investor")
		return
	}

	idx, err := strconv.Atoi(chi.URLParam(r, "idx"))
	if err != nil || idx < 0 {
		h.ErrLog.LogBadRequest(w, r, "bad document index", err, "Invalid document.", "/investor")
		return
	}

	_, _, userID, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	tier, found, err := accessstore.New(h.DB).TierFor(ctx, userID, projectID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find access grant failed", err, "A database error occurred.", "/investor")
		return
	}
	if !found {
		uierrors.RenderForbidden(w, r, "You do not have access to this project.", "/investor")
		return
	}
	if tier < models.MaxAccessTier {
		uierrors.RenderForbidden(w, r, "Documents require full data room access.", "/investor")
		return
	}

	project, err := projectstore.New(h.DB).GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			h.ErrLog.LogNotFound(w, r, "project not found", "Project not found.", "/investor")
			return
		}
		h.ErrLog.LogServerError(w, r, "find project failed", err, "A database error occurred.", "/investor")
		return
	}

	if idx >= len(project.DocumentFiles) {
		h.ErrLog.LogNotFound(w, r, "document index out of range", "Document not found.", "/investor")
		return
	}
	doc := project.DocumentFiles[idx]

	filename := doc.Name
	if filename == "" {
		filename = "download"
	}
	contentDisposition := "attachment; filename=\"" + filename + "\""

	// Prevent browser caching of downloads (important when files are replaced)
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")

	// Local storage serves the file directly.
	if localStorage, ok := h.Storage.(*storage.Local); ok {
		fullPath, err := localStorage.GetFullPath(doc.Path)
		if err != nil {
			h.Log.Error("error getting file path",
				zap.Error(err),
				zap.String("path", doc.Path))
			h.ErrLog.LogServerError(w, r, "resolve document path failed", err, "Failed to locate the document.", "/investor")
			return
		}
		w.Header().Set("Content-Disposition", contentDisposition)
		http.ServeFile(w, r, fullPath)
		return
	}

	// Object storage gets a short-lived signed URL instead.
	signedURL, err := h.Storage.PresignedURL(ctx, doc.Path, &storage.PresignOptions{
		Expires:            15 * time.Minute,
		ContentDisposition: contentDisposition,
	})
	if err != nil {
		h.Log.Error("error generating signed URL",
			zap.Error(err),
			zap.String("path", doc.Path))
		h.ErrLog.LogServerError(w, r, "sign document url failed", err, "Failed to generate a download link.", "/investor")
		return
	}

	http.Redirect(w, r, signedURL, http.StatusSeeOther)
}
