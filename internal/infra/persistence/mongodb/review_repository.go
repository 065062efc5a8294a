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

var newestFirst = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

type reviewRepository struct {
	col *mongo.Collection
}

// NewReviewRepository is the constructor for reviewRepository.
func NewReviewRepository(db *mongo.Database) repository.ReviewRepository {
	return &reviewRepository{col: db.Collection(model.CollectionReviews)}
}

func (repo *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now().UTC()
	}

	res, err := repo.col.InsertOne(ctx, model.FromReviewDomain(review))
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create review")
	}
	review.ID = insertedID(res)

	return nil
}

func (repo *reviewRepository) FindByID(ctx context.Context, id string) (*entity.Review, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	var doc model.ReviewModel
	if err := repo.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if isNotFound(err) {
			return nil, repository.ErrReviewNotFound
		}

		return nil, errors.Wrap(err, "failed to find review")
	}

	return doc.ToDomain(), nil
}

func (repo *reviewRepository) ListByUser(ctx context.Context, username string, limit int) ([]*entity.Review, error) {
	opts := options.Find().SetSort(newestFirst)
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	return repo.list(ctx, bson.M{"username": username}, opts)
}

func (repo *reviewRepository) ListByAlbum(ctx context.Context, albumID string) ([]*entity.Review, error) {
	return repo.list(ctx, bson.M{"album_id": albumID}, options.Find().SetSort(newestFirst))
}

func (repo *reviewRepository) Update(ctx context.Context, id string, upd repository.ReviewUpdate) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	set := bson.M{}
	if upd.Rate != nil {
		set["rate"] = *upd.Rate
	}
	if upd.Text != nil {
		set["text"] = *upd.Text
	}
	if len(set) == 0 {
		_, err := repo.FindByID(ctx, id)
		return err
	}

	res, err := repo.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to update review")
	}
	if res.MatchedCount == 0 {
		return repository.ErrReviewNotFound
	}

	return nil
}

func (repo *reviewRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	res, err := repo.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete review")
	}
	if res.DeletedCount == 0 {
		return repository.ErrReviewNotFound
	}

	return nil
}

func (repo *reviewRepository) list(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*entity.Review, error) {
	cur, err := repo.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list reviews")
	}

	var docs []model.ReviewModel
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "failed to decode reviews")
	}

	reviews := make([]*entity.Review, 0, len(docs))
	for i := range docs {
		reviews = append(reviews, docs[i].ToDomain())
	}

	return reviews, nil
}
