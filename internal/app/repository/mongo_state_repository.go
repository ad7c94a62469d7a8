package repository

import (
	"context"
	"errors"
	"time"

	"github.com/meshur/storefront-backend/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type stateDocument struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type mongoStateRepository struct {
	collection *mongo.Collection
}

func NewMongoStateRepository(collection *mongo.Collection) StateRepository {
	return &mongoStateRepository{collection: collection}
}

func (r *mongoStateRepository) Load(ctx context.Context, key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var doc stateDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", false, nil
		}
		logger.Error("Failed to load state from MongoDB", err, map[string]interface{}{
			"key": key,
		})
		return "", false, err
	}
	return doc.Value, true, nil
}

func (r *mongoStateRepository) Save(ctx context.Context, key, value string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"value": value, "updated_at": time.Now()}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": key}, update, options.Update().SetUpsert(true))
	if err != nil {
		logger.Error("Failed to save state to MongoDB", err, map[string]interface{}{
			"key": key,
		})
		return err
	}

	logger.Debug("State saved to MongoDB", map[string]interface{}{
		"key": key,
	})
	return nil
}

func (r *mongoStateRepository) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		logger.Error("Failed to delete state from MongoDB", err, map[string]interface{}{
			"key": key,
		})
		return err
	}
	return nil
}
