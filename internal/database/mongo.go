package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	appconfig "github.com/GTDGit/storefront_api/internal/config"
)

// ConnectMongo opens a MongoDB client for the document catalog and returns the
// configured database handle. Same retry policy as Connect.
func ConnectMongo(cfg *appconfig.MongoConfig) (*mongo.Client, *mongo.Database, error) {
	if cfg == nil || cfg.URI == "" {
		return nil, nil, errors.New("mongo uri is not configured")
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
		if err != nil {
			cancel()
			lastErr = err
			sleepWithBackoff(attempt, baseDelay)
			continue
		}

		lastErr = client.Ping(ctx, nil)
		cancel()
		if lastErr == nil {
			return client, client.Database(cfg.Database), nil
		}

		_ = client.Disconnect(context.Background())
		sleepWithBackoff(attempt, baseDelay)
	}

	return nil, nil, fmt.Errorf("failed to connect to mongo after %d attempts: %w", maxAttempts, lastErr)
}
