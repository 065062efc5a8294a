// Package spotify implements the OAuth bridge to Spotify accounts.
package spotify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"

	"groovesync/config"
	"groovesync/internal/domain/entity"
	domainerrors "groovesync/internal/domain/errors"
	"groovesync/internal/domain/service"
	"groovesync/internal/errors"
)

const (
	authorizePath = "/authorize"
	tokenPath     = "/api/token"
	profilePath   = "/me"

	endpointToken   = "token"
	endpointProfile = "me"
)

// OAuthService handles Spotify OAuth infrastructure operations
type OAuthService struct {
	oauth      *oauth2.Config
	apiURL     string
	httpClient *http.Client
}

// NewOAuthService creates a new Spotify OAuth service
func NewOAuthService(cfg *config.Config) service.OAuthService {
	sc := cfg.Spotify
	accountsURL := strings.TrimRight(sc.AccountsURL, "/")

	return &OAuthService{
		oauth: &oauth2.Config{
			ClientID:     sc.ClientID,
			ClientSecret: sc.ClientSecret,
			RedirectURL:  sc.RedirectURI,
			Scopes:       strings.Fields(sc.Scopes),
			Endpoint: oauth2.Endpoint{
				AuthURL:  accountsURL + authorizePath,
				TokenURL: accountsURL + tokenPath,
				// client_id and client_secret travel in the form body.
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		apiURL:     strings.TrimRight(sc.APIURL, "/"),
		httpClient: &http.Client{Timeout: sc.Timeout},
	}
}

// Provider returns the OAuth provider type
func (s *OAuthService) Provider() entity.ProviderType {
	return entity.ProviderSpotify
}

// AuthorizationURL constructs the Spotify consent URL carrying state for CSRF protection.
func (s *OAuthService) AuthorizationURL(state string) string {
	return s.oauth.AuthCodeURL(state)
}

// ExchangeCode exchanges an authorization code for provider tokens.
func (s *OAuthService) ExchangeCode(ctx context.Context, code string) (*service.OAuthTokens, error) {
	if strings.TrimSpace(code) == "" {
		return nil, domainerrors.ErrOAuthCodeInvalid
	}

	tok, err := s.oauth.Exchange(s.clientContext(ctx), code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			return nil, domainerrors.NewUpstreamError(endpointToken, retrieveErr.Response.StatusCode, string(retrieveErr.Body))
		}

		return nil, domainerrors.NewUpstreamTransportError(endpointToken, err)
	}

	tokens := &service.OAuthTokens{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		Expiry:       tok.Expiry,
	}
	if scope, ok := tok.Extra("scope").(string); ok {
		tokens.Scope = scope
	}

	return tokens, nil
}

// FetchProfile retrieves the profile of the access token owner.
func (s *OAuthService) FetchProfile(ctx context.Context, accessToken string) (*service.OAuthUser, error) {
	client := oauth2.NewClient(s.clientContext(ctx), oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiURL+profilePath, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create profile request")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, domainerrors.NewUpstreamTransportError(endpointProfile, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, domainerrors.NewUpstreamError(endpointProfile, resp.StatusCode, string(body))
	}

	var profile struct {
		ID           string            `json:"id"`
		DisplayName  string            `json:"display_name"`
		Email        string            `json:"email"`
		Country      string            `json:"country"`
		ExternalURLs map[string]string `json:"external_urls"`
		Images       []entity.Image    `json:"images"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, errors.Wrap(err, "failed to decode profile response")
	}
	if profile.ID == "" {
		return nil, domainerrors.NewUpstreamError(endpointProfile, http.StatusBadGateway, "profile without id")
	}

	user := &service.OAuthUser{
		ID:          profile.ID,
		Email:       profile.Email,
		DisplayName: profile.DisplayName,
		Provider:    entity.ProviderSpotify,
		ProfileURL:  profile.ExternalURLs["spotify"],
		Country:     profile.Country,
	}
	if len(profile.Images) > 0 {
		user.AvatarURL = profile.Images[0].URL
	}

	return user, nil
}

// clientContext hands our timeout-bound client to the oauth2 package.
func (s *OAuthService) clientContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
}

