package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewDatabase returns the profile cache database and verifies the deployment is reachable on start
func NewDatabase(client *mongo.Client, cfg *Config, logger *zap.SugaredLogger, lifecycle fx.Lifecycle) (*mongo.Database, error) {
	if cfg.DatabaseName == "" {
		return nil, fmt.Errorf("mongo database name is required")
	}

	db := client.Database(cfg.DatabaseName)
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx, readpref.Primary()); err != nil {
				return fmt.Errorf("unable to reach mongo database %s: %w", cfg.DatabaseName, err)
			}
			logger.Infow("connected to mongo", "database", cfg.DatabaseName)
			return nil
		},
	})

	return db, nil
}
