// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"

	userstore "github.com/bearenergy/dealflow/internal/app/store/users"
	"github.com/bearenergy/dealflow/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
//
// A fresh deployment has no way to sign in, so when an initial admin
// password is configured and no admin account exists yet, one is seeded.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.InitialAdminPassword == "" {
		return nil
	}

	users := userstore.New(deps.MongoDatabase)

	count, err := users.CountByRole(ctx, models.RoleAdmin)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	_, err = users.Create(ctx, models.User{
		Username: appCfg.InitialAdminUsername,
		Role:     models.RoleAdmin,
	}, appCfg.InitialAdminPassword)
	if err != nil {
		// A concurrent replica may have seeded first.
		if errors.Is(err, userstore.ErrDuplicateUsername) {
			return nil
		}
		return err
	}

	logger.Info("seeded initial admin account",
		zap.String("username", appCfg.InitialAdminUsername))
	return nil
}
