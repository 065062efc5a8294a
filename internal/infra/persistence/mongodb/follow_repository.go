package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"groovesync/internal/domain/entity"
	domainerrors "groovesync/internal/domain/errors"
	"groovesync/internal/domain/repository"
	"groovesync/internal/errors"
	"groovesync/internal/infra/persistence/model"
)

type followRepository struct {
	col *mongo.Collection
}

// NewFollowRepository is the constructor for followRepository.
func NewFollowRepository(db *mongo.Database) repository.FollowRepository {
	return &followRepository{col: db.Collection(model.CollectionFollows)}
}

func (repo *followRepository) Create(ctx context.Context, follow *entity.Follow) error {
	if follow.CreatedAt.IsZero() {
		follow.CreatedAt = time.Now().UTC()
	}

	res, err := repo.col.InsertOne(ctx, model.FromFollowDomain(follow))
	if err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrAlreadyFollowing.WrapMessage(follow.Followee)
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create follow")
	}
	follow.ID = insertedID(res)

	return nil
}

func (repo *followRepository) Delete(ctx context.Context, follower, followee string) error {
	res, err := repo.col.DeleteOne(ctx, bson.M{"follower": follower, "followee": followee})
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete follow")
	}
	if res.DeletedCount == 0 {
		return repository.ErrFollowNotFound
	}

	return nil
}

func (repo *followRepository) ListFollowing(ctx context.Context, username string) ([]string, error) {
	return repo.listNames(ctx, bson.M{"follower": username}, func(m *model.FollowModel) string { return m.Followee })
}

func (repo *followRepository) ListFollowers(ctx context.Context, username string) ([]string, error) {
	return repo.listNames(ctx, bson.M{"followee": username}, func(m *model.FollowModel) string { return m.Follower })
}

func (repo *followRepository) listNames(ctx context.Context, filter bson.M, pick func(*model.FollowModel) string) ([]string, error) {
	cur, err := repo.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to list follows")
	}

	var docs []model.FollowModel
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "failed to decode follows")
	}

	names := make([]string, 0, len(docs))
	for i := range docs {
		names = append(names, pick(&docs[i]))
	}

	return names, nil
}
