// internal/app/features/projects/storagehelper.go
package projects

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/bearenergy/dealflow/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/google/uuid"
)

// uploadDocument stores one data-room file under a unique key and returns the
// document metadata to attach to the project. Keys look like
// projects/YYYY/MM/uuid-filename so replacements never collide.
func uploadDocument(ctx context.Context, store storage.Store, filename string, reader io.Reader, size int64, contentType string) (models.DocumentFile, error) {
	now := time.Now().UTC()
	dateDir := fmt.Sprintf("projects/%04d/%02d", now.Year(), now.Month())
	uniqueName := fmt.Sprintf("%s-%s", uuid.New().String()[:8], sanitizeFilename(filename))
	path := filepath.ToSlash(filepath.Join(dateDir, uniqueName))

	opts := &storage.PutOptions{
		ContentType: contentType,
	}
	if err := store.Put(ctx, path, reader, opts); err != nil {
		return models.DocumentFile{}, fmt.Errorf("failed to upload document: %w", err)
	}

	return models.DocumentFile{
		Name:        filename,
		Path:        path,
		ContentType: contentType,
		Size:        size,
	}, nil
}

// sanitizeFilename strips path components and replaces characters that are
// unsafe in storage keys.
func sanitizeFilename(filename string) string {
	filename = filepath.Base(filename)

	result := make([]byte, 0, len(filename))
	for i := 0; i < len(filename); i++ {
		c := filename[i]
		if isAllowedFilenameChar(c) {
			result = append(result, c)
		} else {
			result = append(result, '_')
		}
	}

	if len(result) == 0 {
		return "file"
	}
	if len(result) > 100 {
		ext := filepath.Ext(string(result))
		if len(ext) > 0 && len(ext) < 10 {
			result = append(result[:100-len(ext)], ext...)
		} else {
			result = result[:100]
		}
	}

	return string(result)
}

func isAllowedFilenameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '-' || c == '_' || c == '.'
}
