package impl

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"go.uber.org/fx"

	deliverycontext "groovesync/internal/delivery/context"
	"groovesync/internal/domain/entity"
	domainerrors "groovesync/internal/domain/errors"
	"groovesync/internal/domain/repository"
	"groovesync/internal/domain/service"
	"groovesync/internal/usecase"
)

// favoriteService implements the FavoriteUsecase interface.
type favoriteService struct {
	favoriteRepo repository.FavoriteRepository
	catalog      service.CatalogService
	logger       *slog.Logger
}

// FavoriteServiceParams holds dependencies for FavoriteService, injected by Fx.
type FavoriteServiceParams struct {
	fx.In

	FavoriteRepo repository.FavoriteRepository
	Catalog      service.CatalogService
	Logger       *slog.Logger
}

// NewFavoriteService is the constructor for favoriteService.
func NewFavoriteService(params FavoriteServiceParams) usecase.FavoriteUsecase {
	return &favoriteService{
		favoriteRepo: params.FavoriteRepo,
		catalog:      params.Catalog,
		logger:       params.Logger,
	}
}

func (srv *favoriteService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *favoriteService) Save(ctx context.Context, username, albumID string) (*entity.Favorite, error) {
	if albumID == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("album id is required")
	}

	favorite := &entity.Favorite{Username: username, AlbumID: albumID}
	if err := srv.favoriteRepo.Create(ctx, favorite); err != nil {
		return nil, errors.Wrap(err, "failed to save favorite")
	}
	srv.log(ctx).Debug("Favorite saved", slog.String("favoriteID", favorite.ID), slog.String("albumID", albumID))

	return favorite, nil
}

// ListByUser returns the favorites newest first. Without a Spotify token the album data is left empty.
func (srv *favoriteService) ListByUser(ctx context.Context, username, spotifyToken string) ([]*usecase.FavoriteView, error) {
	favorites, err := srv.favoriteRepo.ListByUser(ctx, username)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list favorites")
	}

	views := make([]*usecase.FavoriteView, 0, len(favorites))
	for _, favorite := range favorites {
		view := &usecase.FavoriteView{Favorite: favorite}
		if spotifyToken != "" {
			album, err := srv.catalog.Album(ctx, spotifyToken, favorite.AlbumID)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to fetch album %s", favorite.AlbumID)
			}
			view.Album = album
		}
		views = append(views, view)
	}

	return views, nil
}

func (srv *favoriteService) IsFavorite(ctx context.Context, username, albumID string) (bool, string, error) {
	favorite, err := srv.favoriteRepo.FindByUserAndAlbum(ctx, username, albumID)
	if err != nil {
		if errors.Is(err, repository.ErrFavoriteNotFound) {
			return false, "", nil
		}

		return false, "", errors.Wrap(err, "failed to find favorite")
	}

	return true, favorite.ID, nil
}

func (srv *favoriteService) Delete(ctx context.Context, username, favoriteID string) error {
	favorite, err := srv.favoriteRepo.FindByID(ctx, favoriteID)
	if err != nil {
		return mapFavoriteError(err, favoriteID)
	}
	if favorite.Username != username {
		return errors.Wrap(domainerrors.ErrForbidden, "favorite belongs to another user")
	}

	if err := srv.favoriteRepo.Delete(ctx, favoriteID); err != nil {
		return mapFavoriteError(err, favoriteID)
	}

	return nil
}

func mapFavoriteError(err error, favoriteID string) error {
	if errors.Is(err, repository.ErrFavoriteNotFound) {
		return errors.Wrap(domainerrors.ErrFavoriteNotFound, favoriteID)
	}

	return errors.Wrap(err, "favorite operation failed")
}
