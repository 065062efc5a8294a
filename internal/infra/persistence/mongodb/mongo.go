// Package mongodb contains the concrete implementation of the persistence layer using MongoDB.
package mongodb

import (
	"context"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/fx"

	"groovesync/config"
	"groovesync/internal/domain/lifecycle"
	"groovesync/internal/errors"
	"groovesync/internal/infra/persistence/model"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New creates the MongoDB client and returns the configured database.
// The connection is verified and indexes are ensured when the application starts.
func New(params Params) (*mongo.Database, error) {
	cfg := params.Config.Mongo
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ConnectTimeout)

	client, err := mongo.Connect(context.Background(), opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create MongoDB client")
	}
	db := client.Database(cfg.Database)

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := client.Ping(ctx, readpref.Primary()); err != nil {
				return errors.Wrap(err, "failed to ping MongoDB")
			}
			if err := EnsureIndexes(ctx, db); err != nil {
				return err
			}

			params.Logger.Info("MongoDB connected", slog.String("database", cfg.Database))

			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			ctx, cancel := context.WithTimeout(stopCtx, lifecycle.DefaultTimeout)
			defer cancel()

			return errors.Wrap(client.Disconnect(ctx), "failed to disconnect MongoDB")
		},
	})

	return db, nil
}

// EnsureIndexes creates the indexes every uniqueness rule of the store relies on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		model.CollectionUsers: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
			{
				Keys: bson.D{{Key: "spotify_id", Value: 1}},
				Options: options.Index().SetUnique(true).
					SetPartialFilterExpression(bson.M{"spotify_id": bson.M{"$type": "string"}}),
			},
		},
		model.CollectionRefreshTokens: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "token", Value: 1}}},
			{Keys: bson.D{{Key: "expires_at", Value: 1}}},
		},
		model.CollectionReviews: {
			{Keys: bson.D{{Key: "username", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "album_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		model.CollectionFavorites: {
			{Keys: bson.D{{Key: "username", Value: 1}, {Key: "album_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		model.CollectionFollows: {
			{Keys: bson.D{{Key: "follower", Value: 1}, {Key: "followee", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "followee", Value: 1}}},
		},
	}

	for collection, models := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return errors.Wrapf(err, "failed to create indexes on %s", collection)
		}
	}

	return nil
}
