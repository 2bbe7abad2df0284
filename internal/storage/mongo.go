package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/solvik/frettir/internal/types"
)

// MongoArchiver mirrors harvested articles into a MongoDB collection
// as structured documents, keyed by URL so reruns upsert instead of
// duplicating.
type MongoArchiver struct {
	client     *mongo.Client
	collection *mongo.Collection
	count      int
	logger     *slog.Logger
}

// NewMongoArchiver connects to MongoDB and verifies the connection.
func NewMongoArchiver(uri, database, collection string, logger *slog.Logger) (*MongoArchiver, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}

	return &MongoArchiver{
		client:     client,
		collection: client.Database(database).Collection(collection),
		logger:     logger.With("component", "mongo_archiver"),
	}, nil
}

func (a *MongoArchiver) Name() string { return "mongodb" }

// Archive upserts one article document.
func (a *MongoArchiver) Archive(article *types.Article) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	doc := bson.M{
		"url":          article.URL,
		"date":         article.Date,
		"body":         article.Body,
		"harvested_at": article.HarvestedAt,
	}

	_, err := a.collection.UpdateOne(ctx,
		bson.M{"url": article.URL},
		bson.M{"$set": doc},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return &types.StorageError{Backend: a.Name(), Err: err}
	}

	a.count++
	a.logger.Debug("article mirrored", "url", article.URL, "total", a.count)
	return nil
}

func (a *MongoArchiver) Close() error {
	a.logger.Info("mongodb archiver closing", "articles", a.count)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.client.Disconnect(ctx)
}
