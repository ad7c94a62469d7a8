// Package mongo holds the MongoDB connection used by the mongo state backend.
package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/meshur/storefront-backend/config"
	"github.com/meshur/storefront-backend/pkg/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var client *mongo.Client

// Connect opens the connection and pings the server.
func Connect(cfg *config.MongoConfig) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := c.Ping(ctx, nil); err != nil {
		_ = c.Disconnect(context.Background())
		return fmt.Errorf("failed to ping mongodb: %w", err)
	}

	client = c
	logger.Info("MongoDB connection established", map[string]interface{}{
		"database": cfg.Database,
	})
	return nil
}

// GetCollection returns a handle to a collection; Connect must have succeeded.
func GetCollection(databaseName, collectionName string) (*mongo.Collection, error) {
	if client == nil {
		return nil, fmt.Errorf("mongodb client is not initialized")
	}
	return client.Database(databaseName).Collection(collectionName), nil
}

func Close(ctx context.Context) error {
	if client == nil {
		return nil
	}
	logger.Info("Closing MongoDB connection", nil)
	err := client.Disconnect(ctx)
	client = nil
	return err
}
