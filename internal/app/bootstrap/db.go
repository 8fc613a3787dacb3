// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	oauthstatestore "github.com/bearenergy/dealflow/internal/app/store/oauthstate"
	"github.com/bearenergy/dealflow/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ConnectDB establishes the MongoDB connection used by every store.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase))

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}, nil
}

// EnsureSchema creates the indexes the stores rely on. Index creation is
// idempotent, so this runs unconditionally on every startup.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase

	// One login per username, matched case-insensitively via the folded field.
	if err := createIndexes(ctx, db.Collection("users"),
		mongo.IndexModel{
			Keys:    bson.D{{Key: "username_ci", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	); err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}

	// One introducer profile per portal user.
	if err := createIndexes(ctx, db.Collection("introducers"),
		mongo.IndexModel{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		mongo.IndexModel{
			Keys: bson.D{{Key: "name_ci", Value: 1}},
		},
	); err != nil {
		return fmt.Errorf("introducers indexes: %w", err)
	}

	// The fan-out query: an introducer's mandates filtered by status.
	if err := createIndexes(ctx, db.Collection("investor_mandates"),
		mongo.IndexModel{
			Keys: bson.D{{Key: "introducer_id", Value: 1}, {Key: "status", Value: 1}},
		},
	); err != nil {
		return fmt.Errorf("mandates indexes: %w", err)
	}

	if err := createIndexes(ctx, db.Collection("deal_assignments"),
		mongo.IndexModel{
			Keys: bson.D{{Key: "deal_id", Value: 1}, {Key: "introducer_id", Value: 1}},
		},
		mongo.IndexModel{
			Keys: bson.D{{Key: "introducer_id", Value: 1}, {Key: "assigned_at", Value: -1}},
		},
	); err != nil {
		return fmt.Errorf("assignments indexes: %w", err)
	}

	// At most one access grant per (investor, project); regrants update in
	// place.
	if err := createIndexes(ctx, db.Collection("investor_project_access"),
		mongo.IndexModel{
			Keys:    bson.D{{Key: "investor_user_id", Value: 1}, {Key: "project_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	); err != nil {
		return fmt.Errorf("access indexes: %w", err)
	}

	if err := createIndexes(ctx, db.Collection("notifications"),
		mongo.IndexModel{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
	); err != nil {
		return fmt.Errorf("notifications indexes: %w", err)
	}

	if err := createIndexes(ctx, db.Collection("crm_developers"),
		mongo.IndexModel{
			Keys: bson.D{{Key: "company_name_ci", Value: 1}},
		},
		mongo.IndexModel{
			Keys: bson.D{{Key: "technology_type", Value: 1}},
		},
	); err != nil {
		return fmt.Errorf("developers indexes: %w", err)
	}

	if err := createIndexes(ctx, db.Collection("project_uploads"),
		mongo.IndexModel{
			Keys: bson.D{{Key: "upload_status", Value: 1}, {Key: "created_at", Value: -1}},
		},
	); err != nil {
		return fmt.Errorf("projects indexes: %w", err)
	}

	// OAuth state documents are single-use and expire via TTL.
	if err := oauthstatestore.New(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("oauth state indexes: %w", err)
	}

	logger.Info("database schema ensured")
	return nil
}

func createIndexes(ctx context.Context, c *mongo.Collection, models ...mongo.IndexModel) error {
	_, err := c.Indexes().CreateMany(ctx, models)
	return err
}
