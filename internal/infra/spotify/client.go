// Package spotify is the Spotify Web API client behind service.CatalogService.
package spotify

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sony/gobreaker"
	"golang.org/x/oauth2"

	"groovesync/config"
	deliverycontext "groovesync/internal/delivery/context"
	"groovesync/internal/domain/entity"
	domainerrors "groovesync/internal/domain/errors"
	"groovesync/internal/domain/service"
	"groovesync/internal/errors"
)

// Upstream call outcomes.
const (
	outcomeOK          = "ok"
	outcomeClientError = "client_error"
	outcomeError       = "error"
	outcomeRejected    = "rejected"
)

// UpstreamRecorder counts Web API calls by endpoint and outcome.
type UpstreamRecorder interface {
	RecordUpstream(endpoint, outcome string)
}

// Client calls the Spotify Web API with the caller's access token.
// Every call goes through one circuit breaker; nothing is retried.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker
	recorder   UpstreamRecorder
	logger     *slog.Logger
}

type apiResponse struct {
	status int
	body   []byte
}

// NewClient builds the catalog client. recorder may be nil.
func NewClient(cfg *config.Config, logger *slog.Logger, recorder UpstreamRecorder) *Client {
	sc := cfg.Spotify
	st := gobreaker.Settings{
		Name:        "spotify",
		MaxRequests: 1,
		Interval:    sc.Breaker.Interval,
		Timeout:     sc.Breaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= sc.Breaker.MaxFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state",
				slog.String("name", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}

	return &Client{
		baseURL:    strings.TrimRight(sc.APIURL, "/"),
		httpClient: &http.Client{Timeout: sc.Timeout},
		cb:         gobreaker.NewCircuitBreaker(st),
		recorder:   recorder,
		logger:     logger,
	}
}

// NewCatalogService exposes the client as service.CatalogService.
func NewCatalogService(c *Client) service.CatalogService {
	return c
}

// RecentTracks returns the user's recently played tracks.
func (c *Client) RecentTracks(ctx context.Context, spotifyToken string, limit int) (json.RawMessage, error) {
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	return c.getOK(ctx, spotifyToken, "recently_played", "/me/player/recently-played", q)
}

// CurrentlyPlaying returns the playing item; false when Spotify answers 204.
func (c *Client) CurrentlyPlaying(ctx context.Context, spotifyToken string) (json.RawMessage, bool, error) {
	res, err := c.get(ctx, spotifyToken, "currently_playing", "/me/player/currently-playing", nil)
	if err != nil {
		return nil, false, err
	}
	if res.status == http.StatusNoContent || (res.status == http.StatusOK && len(res.body) == 0) {
		return nil, false, nil
	}
	if res.status != http.StatusOK {
		return nil, false, domainerrors.NewUpstreamError("currently_playing", res.status, string(res.body))
	}

	return json.RawMessage(res.body), true, nil
}

// TopArtists returns the user's top artists for a time range.
func (c *Client) TopArtists(ctx context.Context, spotifyToken, timeRange string, limit int) (json.RawMessage, error) {
	q := url.Values{
		"limit":      {strconv.Itoa(limit)},
		"offset":     {"0"},
		"time_range": {timeRange},
	}
	return c.getOK(ctx, spotifyToken, "top_artists", "/me/top/artists", q)
}

// Artist returns one artist.
func (c *Client) Artist(ctx context.Context, spotifyToken, artistID string) (json.RawMessage, error) {
	return c.getOK(ctx, spotifyToken, "artist", "/artists/"+url.PathEscape(artistID), nil)
}

// ArtistAlbums returns the albums of an artist.
func (c *Client) ArtistAlbums(ctx context.Context, spotifyToken, artistID string) (json.RawMessage, error) {
	q := url.Values{"include_groups": {"album"}}
	return c.getOK(ctx, spotifyToken, "artist_albums", "/artists/"+url.PathEscape(artistID)+"/albums", q)
}

// SavedAlbums returns the albums saved in the user's library.
func (c *Client) SavedAlbums(ctx context.Context, spotifyToken string) (json.RawMessage, error) {
	return c.getOK(ctx, spotifyToken, "saved_albums", "/me/albums", nil)
}

// Search runs a catalog search and returns one result page per requested type, keyed by plural type name.
func (c *Client) Search(ctx context.Context, spotifyToken, query string, types []string, limit int) (map[string]json.RawMessage, error) {
	q := url.Values{
		"q":     {query},
		"type":  {strings.Join(types, ",")},
		"limit": {strconv.Itoa(limit)},
	}
	raw, err := c.getOK(ctx, spotifyToken, "search", "/search", q)
	if err != nil {
		return nil, err
	}

	var pages map[string]json.RawMessage
	if err := json.Unmarshal(raw, &pages); err != nil {
		return nil, errors.Wrap(err, "failed to decode search response")
	}

	return pages, nil
}

// User returns a public user profile.
func (c *Client) User(ctx context.Context, spotifyToken, spotifyID string) (json.RawMessage, error) {
	return c.getOK(ctx, spotifyToken, "user", "/users/"+url.PathEscape(spotifyID), nil)
}

// Album fetches and decodes one album.
func (c *Client) Album(ctx context.Context, spotifyToken, albumID string) (*entity.Album, error) {
	raw, err := c.getOK(ctx, spotifyToken, "album", "/albums/"+url.PathEscape(albumID), nil)
	if err != nil {
		return nil, err
	}

	var album entity.Album
	if err := json.Unmarshal(raw, &album); err != nil {
		return nil, errors.Wrap(err, "failed to decode album")
	}

	return &album, nil
}

// UserProfile fetches and decodes a public user profile.
func (c *Client) UserProfile(ctx context.Context, spotifyToken, spotifyID string) (*entity.SpotifyProfile, error) {
	raw, err := c.User(ctx, spotifyToken, spotifyID)
	if err != nil {
		return nil, err
	}

	var profile entity.SpotifyProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, errors.Wrap(err, "failed to decode user profile")
	}

	return &profile, nil
}

// getOK is get that only accepts a 200 with a body.
func (c *Client) getOK(ctx context.Context, spotifyToken, endpoint, path string, query url.Values) (json.RawMessage, error) {
	res, err := c.get(ctx, spotifyToken, endpoint, path, query)
	if err != nil {
		return nil, err
	}
	if res.status != http.StatusOK {
		return nil, domainerrors.NewUpstreamError(endpoint, res.status, string(res.body))
	}

	return json.RawMessage(res.body), nil
}

// get performs one call through the breaker. Transport errors and 5xx answers count as
// breaker failures; 4xx answers are the caller's problem and are returned as UpstreamError.
func (c *Client) get(ctx context.Context, spotifyToken, endpoint, path string, query url.Values) (*apiResponse, error) {
	logger := deliverycontext.GetLoggerOrDefault(ctx, c.logger)

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	client := oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, c.httpClient),
		oauth2.StaticTokenSource(&oauth2.Token{AccessToken: spotifyToken, TokenType: "Bearer"}))

	out, err := c.cb.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create request")
		}

		resp, err := client.Do(req)
		if err != nil {
			return nil, domainerrors.NewUpstreamTransportError(endpoint, err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, domainerrors.NewUpstreamTransportError(endpoint, err)
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, domainerrors.NewUpstreamError(endpoint, resp.StatusCode, string(body))
		}

		return &apiResponse{status: resp.StatusCode, body: body}, nil
	})
	if err != nil {
		if errors.IsAny(err, gobreaker.ErrOpenState, gobreaker.ErrTooManyRequests) {
			c.record(endpoint, outcomeRejected)
			logger.Warn("spotify call rejected by circuit breaker", slog.String("endpoint", endpoint))
			return nil, domainerrors.ErrUpstreamUnavailable.WrapMessage(endpoint)
		}

		c.record(endpoint, outcomeError)
		logger.Error("spotify call failed", slog.String("endpoint", endpoint), slog.Any("error", err))
		return nil, err
	}

	res := out.(*apiResponse)
	if res.status >= http.StatusBadRequest {
		c.record(endpoint, outcomeClientError)
		logger.Warn("spotify call rejected",
			slog.String("endpoint", endpoint),
			slog.Int("status", res.status))
	} else {
		c.record(endpoint, outcomeOK)
	}

	return res, nil
}

func (c *Client) record(endpoint, outcome string) {
	if c.recorder != nil {
		c.recorder.RecordUpstream(endpoint, outcome)
	}
}
