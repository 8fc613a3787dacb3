// internal/app/features/projects/handler.go
package projects

import (
	uierrors "github.com/bearenergy/dealflow/internal/app/features/errors"
	"github.com/bearenergy/dealflow/internal/app/store/queries/projectgrant"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the admin project pipeline: uploading projects with tiered
// disclosure content and distributing them to investors.
type Handler struct {
	DB      *mongo.Database
	Storage storage.Store
	Granter *projectgrant.Granter
	Log     *zap.Logger
	ErrLog  *uierrors.ErrorLogger
}

func NewHandler(db *mongo.Database, store storage.Store, granter *projectgrant.Granter, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Storage: store,
		Granter: granter,
		Log:     logger,
		ErrLog:  errLog,
	}
}
