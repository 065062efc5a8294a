// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"groovesync/config"
	"groovesync/internal/delivery/api/middleware"
	"groovesync/internal/delivery/api/router/handler"
)

type RouterParams struct {
	fx.In

	HealthHandler   *handler.HealthHandler
	AuthHandler     *handler.AuthHandler
	UserHandler     *handler.UserHandler
	ReviewHandler   *handler.ReviewHandler
	FavoriteHandler *handler.FavoriteHandler
	FollowHandler   *handler.FollowHandler
	SpotifyHandler  *handler.SpotifyHandler
	AuthMiddleware  *middleware.AuthMiddleware
	RateLimit       *middleware.RateLimitMiddleware
	Config          *config.Config
}

// router holds all the handlers that need to be registered.
type router struct {
	healthHandler   *handler.HealthHandler
	authHandler     *handler.AuthHandler
	userHandler     *handler.UserHandler
	reviewHandler   *handler.ReviewHandler
	favoriteHandler *handler.FavoriteHandler
	followHandler   *handler.FollowHandler
	spotifyHandler  *handler.SpotifyHandler
	authMiddleware  *middleware.AuthMiddleware
	rateLimit       *middleware.RateLimitMiddleware
	config          *config.Config
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		healthHandler:   params.HealthHandler,
		authHandler:     params.AuthHandler,
		userHandler:     params.UserHandler,
		reviewHandler:   params.ReviewHandler,
		favoriteHandler: params.FavoriteHandler,
		followHandler:   params.FollowHandler,
		spotifyHandler:  params.SpotifyHandler,
		authMiddleware:  params.AuthMiddleware,
		rateLimit:       params.RateLimit,
		config:          params.Config,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", r.healthHandler.Health)

	// Credential endpoints are rate limited per caller address when enabled.
	var limited []echo.MiddlewareFunc
	if r.config.RateLimit != nil && r.config.RateLimit.Enabled {
		limited = append(limited, r.rateLimit.Limit)
	}

	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.authHandler.Register, limited...)
		authGroup.POST("/login", r.authHandler.Login, limited...)
		authGroup.POST("/refresh", r.authHandler.Refresh)
		authGroup.POST("/logout", r.authHandler.Logout)
		authGroup.GET("/spotify/url", r.authHandler.SpotifyURL)
		authGroup.POST("/login/spotify", r.authHandler.SpotifyLogin)
	}

	userGroup := e.Group("/user", r.authMiddleware.Authenticate)
	{
		userGroup.GET("/me", r.userHandler.Me)
		userGroup.DELETE("/delete", r.userHandler.Delete)
		userGroup.PUT("/update-password", r.userHandler.UpdatePassword)
		userGroup.PUT("/spotify", r.userHandler.LinkSpotify)
	}

	reviewGroup := e.Group("/review", r.authMiddleware.Authenticate)
	{
		reviewGroup.POST("/save", r.reviewHandler.Save)
		reviewGroup.GET("/get/:username", r.reviewHandler.ListByUser)
		reviewGroup.GET("/album/:album_id", r.reviewHandler.ListByAlbum)
		reviewGroup.PUT("/update/:review_id", r.reviewHandler.Update)
		reviewGroup.DELETE("/delete/:review_id", r.reviewHandler.Delete)
	}

	favoriteGroup := e.Group("/favorite", r.authMiddleware.Authenticate)
	{
		favoriteGroup.POST("/save", r.favoriteHandler.Save)
		favoriteGroup.GET("/get/:username", r.favoriteHandler.ListByUser, r.authMiddleware.OptionalSpotifyToken)
		favoriteGroup.DELETE("/delete/:favorite_id", r.favoriteHandler.Delete)
	}

	followGroup := e.Group("/follow", r.authMiddleware.Authenticate)
	{
		followGroup.POST("/add", r.followHandler.Follow)
		followGroup.DELETE("/remove", r.followHandler.Unfollow)
		followGroup.GET("/following/:username", r.followHandler.Following, r.authMiddleware.OptionalSpotifyToken)
		followGroup.GET("/followers/:username", r.followHandler.Followers, r.authMiddleware.OptionalSpotifyToken)
	}

	// Spotify proxy routes need both the gate and the caller's Spotify token.
	spotifyGroup := e.Group("/spotify", r.authMiddleware.Authenticate, r.authMiddleware.RequireSpotifyToken)
	{
		spotifyGroup.GET("/recent-tracks", r.spotifyHandler.RecentTracks)
		spotifyGroup.GET("/current-track", r.spotifyHandler.CurrentTrack)
		spotifyGroup.GET("/obsessions", r.spotifyHandler.Obsessions)
		spotifyGroup.GET("/artist/:artist_id", r.spotifyHandler.Artist)
		spotifyGroup.GET("/artist/:artist_id/albums", r.spotifyHandler.ArtistAlbums)
		spotifyGroup.GET("/saved-albums", r.spotifyHandler.SavedAlbums)
		spotifyGroup.GET("/search", r.spotifyHandler.Search)
		spotifyGroup.GET("/search/albums", r.spotifyHandler.SearchAlbums)
		spotifyGroup.GET("/users/:spotify_id", r.spotifyHandler.User)
		spotifyGroup.GET("/albums/:album_id", r.spotifyHandler.Album)
	}
}
