package impl

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pkg/errors"
	"go.uber.org/fx"

	deliverycontext "groovesync/internal/delivery/context"
	"groovesync/internal/domain/entity"
	domainerrors "groovesync/internal/domain/errors"
	"groovesync/internal/domain/repository"
	"groovesync/internal/usecase"
)

// reviewService implements the ReviewUsecase interface.
type reviewService struct {
	reviewRepo repository.ReviewRepository
	logger     *slog.Logger
}

// ReviewServiceParams holds dependencies for ReviewService, injected by Fx.
type ReviewServiceParams struct {
	fx.In

	ReviewRepo repository.ReviewRepository
	Logger     *slog.Logger
}

// NewReviewService is the constructor for reviewService.
func NewReviewService(params ReviewServiceParams) usecase.ReviewUsecase {
	return &reviewService{
		reviewRepo: params.ReviewRepo,
		logger:     params.Logger,
	}
}

func (srv *reviewService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *reviewService) Save(ctx context.Context, username string, input *usecase.SaveReviewInput) (*entity.Review, error) {
	if input.AlbumID == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("album id is required")
	}
	if err := validateRate(input.Rate); err != nil {
		return nil, err
	}

	review := &entity.Review{
		Username: username,
		AlbumID:  input.AlbumID,
		Rate:     input.Rate,
		Text:     input.Text,
	}
	if err := srv.reviewRepo.Create(ctx, review); err != nil {
		return nil, errors.Wrap(err, "failed to save review")
	}
	srv.log(ctx).Debug("Review saved", slog.String("reviewID", review.ID), slog.String("albumID", review.AlbumID))

	return review, nil
}

func (srv *reviewService) ListByUser(ctx context.Context, username string, limit int) ([]*entity.Review, error) {
	if limit <= 0 {
		limit = usecase.DefaultReviewListLimit
	}

	reviews, err := srv.reviewRepo.ListByUser(ctx, username, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list reviews by user")
	}

	return reviews, nil
}

func (srv *reviewService) ListByAlbum(ctx context.Context, albumID string) ([]*entity.Review, error) {
	reviews, err := srv.reviewRepo.ListByAlbum(ctx, albumID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list reviews by album")
	}

	return reviews, nil
}

func (srv *reviewService) Update(ctx context.Context, username, reviewID string, input *usecase.UpdateReviewInput) error {
	if input.Rate != nil {
		if err := validateRate(*input.Rate); err != nil {
			return err
		}
	}

	if _, err := srv.ownedReview(ctx, username, reviewID); err != nil {
		return err
	}

	err := srv.reviewRepo.Update(ctx, reviewID, repository.ReviewUpdate{Rate: input.Rate, Text: input.Text})
	if err != nil {
		return mapReviewError(err, reviewID)
	}

	return nil
}

func (srv *reviewService) Delete(ctx context.Context, username, reviewID string) error {
	if _, err := srv.ownedReview(ctx, username, reviewID); err != nil {
		return err
	}

	if err := srv.reviewRepo.Delete(ctx, reviewID); err != nil {
		return mapReviewError(err, reviewID)
	}
	srv.log(ctx).Debug("Review deleted", slog.String("reviewID", reviewID))

	return nil
}

// ownedReview loads the review and checks that username wrote it.
func (srv *reviewService) ownedReview(ctx context.Context, username, reviewID string) (*entity.Review, error) {
	review, err := srv.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, mapReviewError(err, reviewID)
	}
	if review.Username != username {
		srv.log(ctx).Warn("Review change rejected, not the author", slog.String("reviewID", reviewID), slog.String("username", username))

		return nil, errors.Wrap(domainerrors.ErrForbidden, "review belongs to another user")
	}

	return review, nil
}

func mapReviewError(err error, reviewID string) error {
	if errors.Is(err, repository.ErrReviewNotFound) {
		return errors.Wrap(domainerrors.ErrReviewNotFound, reviewID)
	}

	return errors.Wrap(err, "review operation failed")
}

func validateRate(rate float64) error {
	if !entity.ValidRate(rate) {
		return domainerrors.ErrValidationFailed.WithDetails(
			fmt.Sprintf("rate must be between %d and %d", entity.MinRate, entity.MaxRate))
	}

	return nil
}
