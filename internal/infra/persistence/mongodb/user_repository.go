package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"groovesync/internal/domain/entity"
	domainerrors "groovesync/internal/domain/errors"
	"groovesync/internal/domain/repository"
	"groovesync/internal/errors"
	"groovesync/internal/infra/persistence/model"
)

// userRepository implements the domain.UserRepository interface on the 'users' collection.
type userRepository struct {
	col *mongo.Collection
}

// NewUserRepository is the constructor for userRepository.
func NewUserRepository(db *mongo.Database) repository.UserRepository {
	return &userRepository{col: db.Collection(model.CollectionUsers)}
}

// FindByID retrieves a single user by its document id.
func (repo *userRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	return repo.findOne(ctx, bson.M{"_id": oid}, "failed to find user by id")
}

// FindByUsername retrieves a single user by username.
func (repo *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return repo.findOne(ctx, bson.M{"username": username}, "failed to find user by username")
}

// FindByExternalID retrieves the user linked to a Spotify account.
func (repo *userRepository) FindByExternalID(ctx context.Context, spotifyID string) (*entity.User, error) {
	if spotifyID == "" {
		return nil, repository.ErrUserNotFound
	}

	return repo.findOne(ctx, bson.M{"spotify_id": spotifyID}, "failed to find user by spotify id")
}

// Create inserts the user. The unique indexes on username and spotify_id decide conflicts.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	res, err := repo.col.InsertOne(ctx, model.FromUserDomain(user))
	if err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrUserAlreadyExists.WrapMessage(user.Username)
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	user.ID = insertedID(res)

	return nil
}

// UpdatePassword replaces the stored password hash.
func (repo *userRepository) UpdatePassword(ctx context.Context, username, passwordHash string) (bool, error) {
	res, err := repo.col.UpdateOne(ctx,
		bson.M{"username": username},
		bson.M{"$set": bson.M{"password": passwordHash}})
	if err != nil {
		return false, domainerrors.NewDatabaseExecuteError(err, "failed to update password")
	}

	return res.MatchedCount > 0, nil
}

// LinkExternalID attaches a Spotify id to the user.
func (repo *userRepository) LinkExternalID(ctx context.Context, username, spotifyID string) (bool, error) {
	res, err := repo.col.UpdateOne(ctx,
		bson.M{"username": username},
		bson.M{"$set": bson.M{"spotify_id": spotifyID}})
	if err != nil {
		if isUniqueConstraintViolation(err) {
			return false, domainerrors.ErrSpotifyAccountLinked.WrapMessage(spotifyID)
		}

		return false, domainerrors.NewDatabaseExecuteError(err, "failed to link spotify account")
	}

	return res.MatchedCount > 0, nil
}

// Delete removes the user document.
func (repo *userRepository) Delete(ctx context.Context, username string) (bool, error) {
	res, err := repo.col.DeleteOne(ctx, bson.M{"username": username})
	if err != nil {
		return false, domainerrors.NewDatabaseExecuteError(err, "failed to delete user")
	}

	return res.DeletedCount > 0, nil
}

func (repo *userRepository) findOne(ctx context.Context, filter bson.M, msg string) (*entity.User, error) {
	var doc model.UserModel
	if err := repo.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if isNotFound(err) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, msg)
	}

	return doc.ToDomain(), nil
}
