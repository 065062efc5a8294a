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

// refreshTokenRepository implements the domain.RefreshTokenRepository interface.
// The unique index on username keeps a single slot per user.
type refreshTokenRepository struct {
	col *mongo.Collection
	now func() time.Time
}

// NewRefreshTokenRepository is the constructor for refreshTokenRepository.
func NewRefreshTokenRepository(db *mongo.Database) repository.RefreshTokenRepository {
	return &refreshTokenRepository{
		col: db.Collection(model.CollectionRefreshTokens),
		now: time.Now,
	}
}

// Store upserts the user's record, overwriting any previous token.
func (repo *refreshTokenRepository) Store(ctx context.Context, token *entity.RefreshToken) error {
	doc := model.FromRefreshTokenDomain(token)
	filter := bson.M{"username": token.Username}

	_, err := repo.col.ReplaceOne(ctx, filter, doc, options.Replace().SetUpsert(true))
	if err != nil && isUniqueConstraintViolation(err) {
		// A concurrent upsert inserted the slot first; overwrite it.
		_, err = repo.col.ReplaceOne(ctx, filter, doc)
	}
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to store refresh token")
	}

	return nil
}

// FindValid sweeps expired records and then looks the token up by exact match.
func (repo *refreshTokenRepository) FindValid(ctx context.Context, token string) (*entity.RefreshToken, error) {
	if _, err := repo.DeleteExpired(ctx); err != nil {
		return nil, err
	}

	var doc model.RefreshTokenModel
	filter := bson.M{"token": token, "expires_at": bson.M{"$gt": repo.now().UTC()}}
	if err := repo.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if isNotFound(err) {
			return nil, repository.ErrRefreshTokenNotFound
		}

		return nil, errors.Wrap(err, "failed to find refresh token")
	}

	return doc.ToDomain(), nil
}

// Delete removes the record holding token. A missing token is not an error.
func (repo *refreshTokenRepository) Delete(ctx context.Context, token string) error {
	if _, err := repo.col.DeleteMany(ctx, bson.M{"token": token}); err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete refresh token")
	}

	return nil
}

// InvalidateAll removes every record of the user.
func (repo *refreshTokenRepository) InvalidateAll(ctx context.Context, username string) error {
	if _, err := repo.col.DeleteMany(ctx, bson.M{"username": username}); err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to invalidate refresh tokens")
	}

	return nil
}

// DeleteExpired removes every record whose expiry is not in the future.
func (repo *refreshTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := repo.col.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lte": repo.now().UTC()}})
	if err != nil {
		return 0, domainerrors.NewDatabaseExecuteError(err, "failed to delete expired refresh tokens")
	}

	return res.DeletedCount, nil
}
