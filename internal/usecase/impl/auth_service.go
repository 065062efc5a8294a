// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/fx"

	deliverycontext "groovesync/internal/delivery/context"
	"groovesync/internal/domain/entity"
	domainerrors "groovesync/internal/domain/errors"
	"groovesync/internal/domain/repository"
	"groovesync/internal/domain/service"
	"groovesync/internal/usecase"
)

// Auth event names reported to the EventRecorder.
const (
	eventRegister     = "register"
	eventLogin        = "login"
	eventRefresh      = "refresh"
	eventSpotifyLogin = "spotify_login"
	eventLogout       = "logout"
)

// spotifyUsernamePrefix builds the fallback username of Spotify-created accounts.
const spotifyUsernamePrefix = "spotify-"

// authService implements the AuthUsecase interface.
type authService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	hasher           service.PasswordHasher
	tokenService     service.TokenService
	oauthService     service.OAuthService
	events           service.EventRecorder
	logger           *slog.Logger
	now              func() time.Time
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	UserRepo         repository.UserRepository
	RefreshTokenRepo repository.RefreshTokenRepository
	Hasher           service.PasswordHasher
	TokenService     service.TokenService
	OAuthService     service.OAuthService
	Events           service.EventRecorder `optional:"true"`
	Logger           *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	events := params.Events
	if events == nil {
		events = service.NopEventRecorder{}
	}

	return &authService{
		userRepo:         params.UserRepo,
		refreshTokenRepo: params.RefreshTokenRepo,
		hasher:           params.Hasher,
		tokenService:     params.TokenService,
		oauthService:     params.OAuthService,
		events:           events,
		logger:           params.Logger,
		now:              time.Now,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *authService) record(event string, err error) {
	outcome := service.OutcomeSuccess
	if err != nil {
		outcome = service.OutcomeFailure
	}
	srv.events.RecordAuthEvent(event, outcome)
}

// Register creates a local account and logs it in.
func (srv *authService) Register(ctx context.Context, input *usecase.CredentialsInput) (*usecase.TokenPair, error) {
	pair, err := srv.register(ctx, input)
	srv.record(eventRegister, err)

	return pair, err
}

func (srv *authService) register(ctx context.Context, input *usecase.CredentialsInput) (*usecase.TokenPair, error) {
	if err := validateCredentials(input); err != nil {
		return nil, err
	}

	srv.log(ctx).Debug("Starting registration", slog.String("username", input.Username))

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	newUser := &entity.User{
		Username:     input.Username,
		PasswordHash: hashedPassword,
	}
	if err := srv.userRepo.Create(ctx, newUser); err != nil {
		if errors.Is(err, domainerrors.ErrUserAlreadyExists) {
			srv.log(ctx).Warn("Registration rejected, username taken", slog.String("username", input.Username))

			return nil, errors.Wrap(err, "registration failed")
		}

		return nil, errors.Wrap(err, "failed to create user during registration")
	}

	srv.log(ctx).Info("User registered", slog.String("username", newUser.Username), slog.String("userID", newUser.ID))

	return srv.issueTokens(ctx, newUser.Username)
}

// Login verifies local credentials and issues a token pair.
func (srv *authService) Login(ctx context.Context, input *usecase.CredentialsInput) (*usecase.TokenPair, error) {
	pair, err := srv.login(ctx, input)
	srv.record(eventLogin, err)

	return pair, err
}

func (srv *authService) login(ctx context.Context, input *usecase.CredentialsInput) (*usecase.TokenPair, error) {
	if err := validateCredentials(input); err != nil {
		return nil, err
	}

	srv.log(ctx).Debug("Starting user login", slog.String("username", input.Username))

	user, err := srv.userRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Warn("Login failed, unknown user", slog.String("username", input.Username))

			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	// Spotify-only accounts have no local password and cannot log in here.
	if !user.HasPassword() || !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Login failed, password mismatch", slog.String("username", input.Username))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	pair, err := srv.issueTokens(ctx, user.Username)
	if err != nil {
		return nil, err
	}
	srv.log(ctx).Debug("User logged in successfully", slog.String("username", user.Username))

	return pair, nil
}

// issueTokens mints both tokens and overwrites the user's refresh token slot.
func (srv *authService) issueTokens(ctx context.Context, username string) (*usecase.TokenPair, error) {
	accessToken, err := srv.tokenService.GenerateAccessToken(username)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate access token")
	}

	refreshToken, err := srv.tokenService.GenerateRefreshToken(username)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate refresh token")
	}

	if err := srv.storeRefreshToken(ctx, username, refreshToken); err != nil {
		return nil, err
	}

	return &usecase.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (srv *authService) storeRefreshToken(ctx context.Context, username, token string) error {
	record := &entity.RefreshToken{
		Username:  username,
		Token:     token,
		ExpiresAt: srv.now().Add(srv.tokenService.RefreshTokenTTL()),
	}
	if err := srv.refreshTokenRepo.Store(ctx, record); err != nil {
		return errors.Wrap(err, "failed to store refresh token")
	}

	return nil
}

// Refresh mints a new access token for a stored, unexpired refresh token.
func (srv *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	token, err := srv.refresh(ctx, refreshToken)
	srv.record(eventRefresh, err)

	return token, err
}

func (srv *authService) refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", domainerrors.ErrValidationFailed.WithDetails("refresh token is required")
	}

	record, err := srv.refreshTokenRepo.FindValid(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			srv.log(ctx).Warn("Refresh rejected, token not stored or expired")

			return "", errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "refresh failed")
		}

		return "", errors.Wrap(err, "failed to look up refresh token")
	}

	username, err := srv.refreshTokenOwner(record)
	if err != nil {
		srv.log(ctx).Warn("Refresh rejected", slog.String("username", record.Username), slog.Any("error", err))

		return "", err
	}

	accessToken, err := srv.tokenService.GenerateAccessToken(username)
	if err != nil {
		return "", errors.Wrap(err, "failed to generate access token")
	}

	return accessToken, nil
}

// refreshTokenOwner recovers the username behind a stored refresh token. Locally signed
// tokens must name the record's owner; provider tokens are opaque and resolve to the record.
func (srv *authService) refreshTokenOwner(record *entity.RefreshToken) (string, error) {
	claims, err := srv.tokenService.ParseRefreshToken(record.Token)
	switch {
	case err == nil:
		if claims.Username != record.Username {
			return "", errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "token subject does not match its owner")
		}

		return claims.Username, nil
	case domainerrors.IsKind(err, domainerrors.KindExpiredToken):
		return "", errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "refresh token signature expired")
	default:
		return record.Username, nil
	}
}

// SpotifyAuthorizationURL returns the Spotify consent page URL.
func (srv *authService) SpotifyAuthorizationURL(state string) string {
	return srv.oauthService.AuthorizationURL(state)
}

// LoginWithSpotify exchanges an authorization code and logs in the matching local user,
// creating it on first sight of the Spotify account.
func (srv *authService) LoginWithSpotify(ctx context.Context, code string) (*usecase.SpotifyLoginOutput, error) {
	out, err := srv.loginWithSpotify(ctx, code)
	srv.record(eventSpotifyLogin, err)

	return out, err
}

func (srv *authService) loginWithSpotify(ctx context.Context, code string) (*usecase.SpotifyLoginOutput, error) {
	tokens, err := srv.oauthService.ExchangeCode(ctx, code)
	if err != nil {
		srv.log(ctx).Warn("Spotify code exchange failed", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to exchange authorization code")
	}

	profile, err := srv.oauthService.FetchProfile(ctx, tokens.AccessToken)
	if err != nil {
		srv.log(ctx).Warn("Spotify profile fetch failed", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to fetch spotify profile")
	}

	user, err := srv.findOrCreateSpotifyUser(ctx, profile)
	if err != nil {
		return nil, err
	}

	accessToken, err := srv.tokenService.GenerateAccessToken(user.Username)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate access token")
	}

	if tokens.RefreshToken != "" {
		if err := srv.storeRefreshToken(ctx, user.Username, tokens.RefreshToken); err != nil {
			return nil, err
		}
	} else {
		srv.log(ctx).Warn("Spotify returned no refresh token", slog.String("username", user.Username))
	}

	srv.log(ctx).Info("User logged in with Spotify", slog.String("username", user.Username), slog.String("spotifyID", profile.ID))

	return &usecase.SpotifyLoginOutput{
		AccessToken:        accessToken,
		SpotifyAccessToken: tokens.AccessToken,
		User:               user,
		Profile:            profile,
	}, nil
}

func (srv *authService) findOrCreateSpotifyUser(ctx context.Context, profile *service.OAuthUser) (*entity.User, error) {
	user, err := srv.userRepo.FindByExternalID(ctx, profile.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, errors.Wrap(err, "failed to find user by spotify id")
	}

	fallback := spotifyUsernamePrefix + profile.ID
	username, err := srv.pickSpotifyUsername(ctx, profile.DisplayName, fallback)
	if err != nil {
		return nil, err
	}

	newUser := &entity.User{Username: username, SpotifyID: profile.ID}
	err = srv.userRepo.Create(ctx, newUser)
	if errors.Is(err, domainerrors.ErrUserAlreadyExists) {
		// Either a concurrent login created this Spotify account, or the name was taken meanwhile.
		if winner, findErr := srv.userRepo.FindByExternalID(ctx, profile.ID); findErr == nil {
			return winner, nil
		}
		if username != fallback {
			newUser = &entity.User{Username: fallback, SpotifyID: profile.ID}
			err = srv.userRepo.Create(ctx, newUser)
		}
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create spotify user")
	}

	srv.log(ctx).Info("Created user for Spotify account", slog.String("username", newUser.Username), slog.String("spotifyID", profile.ID))

	return newUser, nil
}

// pickSpotifyUsername prefers the display name and falls back when it is empty or taken.
func (srv *authService) pickSpotifyUsername(ctx context.Context, displayName, fallback string) (string, error) {
	if displayName == "" {
		return fallback, nil
	}

	_, err := srv.userRepo.FindByUsername(ctx, displayName)
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		return displayName, nil
	case err != nil:
		return "", errors.Wrap(err, "failed to check username")
	default:
		return fallback, nil
	}
}

// Logout removes the stored refresh token.
func (srv *authService) Logout(ctx context.Context, refreshToken string) error {
	err := srv.logout(ctx, refreshToken)
	srv.record(eventLogout, err)

	return err
}

func (srv *authService) logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return domainerrors.ErrValidationFailed.WithDetails("refresh token is required")
	}

	if err := srv.refreshTokenRepo.Delete(ctx, refreshToken); err != nil {
		return errors.Wrap(err, "failed to delete refresh token")
	}
	srv.log(ctx).Debug("Refresh token revoked")

	return nil
}

func validateCredentials(input *usecase.CredentialsInput) error {
	if input == nil || input.Username == "" || input.Password == "" {
		return domainerrors.ErrValidationFailed.WithDetails("username and password are required")
	}

	return nil
}
