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

type favoriteRepository struct {
	col *mongo.Collection
}

// NewFavoriteRepository is the constructor for favoriteRepository.
func NewFavoriteRepository(db *mongo.Database) repository.FavoriteRepository {
	return &favoriteRepository{col: db.Collection(model.CollectionFavorites)}
}

func (repo *favoriteRepository) Create(ctx context.Context, favorite *entity.Favorite) error {
	if favorite.CreatedAt.IsZero() {
		favorite.CreatedAt = time.Now().UTC()
	}

	res, err := repo.col.InsertOne(ctx, model.FromFavoriteDomain(favorite))
	if err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrFavoriteExists.WrapMessage(favorite.AlbumID)
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create favorite")
	}
	favorite.ID = insertedID(res)

	return nil
}

func (repo *favoriteRepository) FindByID(ctx context.Context, id string) (*entity.Favorite, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	return repo.findOne(ctx, bson.M{"_id": oid})
}

func (repo *favoriteRepository) FindByUserAndAlbum(ctx context.Context, username, albumID string) (*entity.Favorite, error) {
	return repo.findOne(ctx, bson.M{"username": username, "album_id": albumID})
}

func (repo *favoriteRepository) ListByUser(ctx context.Context, username string) ([]*entity.Favorite, error) {
	cur, err := repo.col.Find(ctx, bson.M{"username": username}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, errors.Wrap(err, "failed to list favorites")
	}

	var docs []model.FavoriteModel
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "failed to decode favorites")
	}

	favorites := make([]*entity.Favorite, 0, len(docs))
	for i := range docs {
		favorites = append(favorites, docs[i].ToDomain())
	}

	return favorites, nil
}

func (repo *favoriteRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	res, err := repo.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete favorite")
	}
	if res.DeletedCount == 0 {
		return repository.ErrFavoriteNotFound
	}

	return nil
}

func (repo *favoriteRepository) findOne(ctx context.Context, filter bson.M) (*entity.Favorite, error) {
	var doc model.FavoriteModel
	if err := repo.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if isNotFound(err) {
			return nil, repository.ErrFavoriteNotFound
		}

		return nil, errors.Wrap(err, "failed to find favorite")
	}

	return doc.ToDomain(), nil
}
