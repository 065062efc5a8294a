package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	defaultPath               = "."
	defaultMaxRequestBodySize = "100KB"
	defaultHTTPPort           = 8080

	defaultMongoURI            = "mongodb://localhost:27017"
	defaultMongoDatabase       = "groovesync"
	defaultMongoConnectTimeout = 10 * time.Second

	defaultAccessTokenTTL  = 24 * time.Hour
	defaultRefreshTokenTTL = 7 * 24 * time.Hour

	defaultSpotifyAccountsURL = "https://accounts.spotify.com"
	defaultSpotifyAPIURL      = "https://api.spotify.com/v1"
	defaultSpotifyScopes      = "user-read-recently-played user-read-currently-playing user-top-read user-library-read"
	defaultSpotifyTimeout     = 10 * time.Second

	defaultRateLimitRequests = 10
	defaultRateLimitWindow   = time.Minute

	defaultMetricsPath = "/metrics"
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port               int    `json:"port" yaml:"port"`
		MaxRequestBodySize string `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`
		// TrustedProxies lists proxy IPs or CIDRs whose X-Forwarded-For is honoured.
		// Empty means the peer address is the caller address.
		TrustedProxies []string `json:"trustedProxies" yaml:"trustedProxies"`
		Timeouts           struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	Mongo *MongoConfig `json:"mongo" yaml:"mongo"`

	SecretKey struct {
		Access  string `json:"access" yaml:"access"`
		Refresh string `json:"refresh" yaml:"refresh"`
	} `json:"secretKey" yaml:"secretKey"`

	Auth *AuthConfig `json:"auth" yaml:"auth"`

	Spotify *SpotifyConfig `json:"spotify" yaml:"spotify"`

	RateLimit *RateLimitConfig `json:"rateLimit" yaml:"rateLimit"`

	Metrics *MetricsConfig `json:"metrics" yaml:"metrics"`
}

// MongoConfig holds the document store connection settings.
type MongoConfig struct {
	// Driver selects the persistence backend: "mongo" (default) or "memory" for local runs.
	Driver         string        `json:"driver" yaml:"driver"`
	URI            string        `json:"uri" yaml:"uri"`
	Database       string        `json:"database" yaml:"database"`
	ConnectTimeout time.Duration `json:"connectTimeout" yaml:"connectTimeout"`
}

// AuthConfig defines authentication-related configuration
type AuthConfig struct {
	AccessTokenTTL  time.Duration `json:"accessTokenTTL" yaml:"accessTokenTTL"`
	RefreshTokenTTL time.Duration `json:"refreshTokenTTL" yaml:"refreshTokenTTL"`
	BcryptCost      int           `json:"bcryptCost" yaml:"bcryptCost"`

	// SweepSchedule is a cron spec for the background refresh token sweep. Empty disables it.
	SweepSchedule string `json:"sweepSchedule" yaml:"sweepSchedule"`
}

// SpotifyConfig holds the OAuth client and Web API settings.
type SpotifyConfig struct {
	ClientID     string        `json:"clientId" yaml:"clientId"`
	ClientSecret string        `json:"clientSecret" yaml:"clientSecret"`
	RedirectURI  string        `json:"redirectUri" yaml:"redirectUri"`
	Scopes       string        `json:"scopes" yaml:"scopes"`
	AccountsURL  string        `json:"accountsUrl" yaml:"accountsUrl"`
	APIURL       string        `json:"apiUrl" yaml:"apiUrl"`
	Timeout      time.Duration `json:"timeout" yaml:"timeout"`
	Breaker      BreakerConfig `json:"breaker" yaml:"breaker"`
}

// BreakerConfig tunes the circuit breaker in front of the Spotify Web API.
type BreakerConfig struct {
	MaxFailures uint32        `json:"maxFailures" yaml:"maxFailures"`
	Interval    time.Duration `json:"interval" yaml:"interval"`
	Timeout     time.Duration `json:"timeout" yaml:"timeout"`
}

// RateLimitConfig limits the credential endpoints per caller address.
type RateLimitConfig struct {
	Enabled       bool          `json:"enabled" yaml:"enabled"`
	Requests      int           `json:"requests" yaml:"requests"`
	Window        time.Duration `json:"window" yaml:"window"`
	RedisAddr     string        `json:"redisAddr" yaml:"redisAddr"`
	RedisPassword string        `json:"redisPassword" yaml:"redisPassword"`
	RedisDB       int           `json:"redisDb" yaml:"redisDb"`
}

type MetricsConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Path    string `json:"path" yaml:"path"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			searchPaths = append(searchPaths, filepath.Join(pwd, path))
		}
	}

	var configFile string
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate

			break
		}
	}

	if configFile == "" {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// MONGO_URI -> mongo.uri, SPOTIFY_CLIENT_ID -> spotify.clientId
			return canonicalizeEnvKey(k, existingConfigMap), v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	ApplyDefaults(cfg)

	return cfg, nil
}

// ApplyDefaults fills every unset value with its default. Optional sections are allocated.
func ApplyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.HTTP.MaxRequestBodySize) == "" {
		cfg.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = defaultHTTPPort
	}
	if cfg.Env.Log.Level == "" {
		cfg.Env.Log.Level = "info"
	}

	if cfg.Mongo == nil {
		cfg.Mongo = &MongoConfig{}
	}
	if cfg.Mongo.Driver == "" {
		cfg.Mongo.Driver = "mongo"
	}
	if cfg.Mongo.URI == "" {
		cfg.Mongo.URI = defaultMongoURI
	}
	if cfg.Mongo.Database == "" {
		cfg.Mongo.Database = defaultMongoDatabase
	}
	if cfg.Mongo.ConnectTimeout <= 0 {
		cfg.Mongo.ConnectTimeout = defaultMongoConnectTimeout
	}

	if cfg.SecretKey.Refresh == "" {
		cfg.SecretKey.Refresh = cfg.SecretKey.Access
	}

	if cfg.Auth == nil {
		cfg.Auth = &AuthConfig{}
	}
	if cfg.Auth.AccessTokenTTL <= 0 {
		cfg.Auth.AccessTokenTTL = defaultAccessTokenTTL
	}
	if cfg.Auth.RefreshTokenTTL <= 0 {
		cfg.Auth.RefreshTokenTTL = defaultRefreshTokenTTL
	}

	if cfg.Spotify == nil {
		cfg.Spotify = &SpotifyConfig{}
	}
	if cfg.Spotify.AccountsURL == "" {
		cfg.Spotify.AccountsURL = defaultSpotifyAccountsURL
	}
	if cfg.Spotify.APIURL == "" {
		cfg.Spotify.APIURL = defaultSpotifyAPIURL
	}
	if cfg.Spotify.Scopes == "" {
		cfg.Spotify.Scopes = defaultSpotifyScopes
	}
	if cfg.Spotify.Timeout <= 0 {
		cfg.Spotify.Timeout = defaultSpotifyTimeout
	}
	if cfg.Spotify.Breaker.MaxFailures == 0 {
		cfg.Spotify.Breaker.MaxFailures = 5
	}
	if cfg.Spotify.Breaker.Interval <= 0 {
		cfg.Spotify.Breaker.Interval = time.Minute
	}
	if cfg.Spotify.Breaker.Timeout <= 0 {
		cfg.Spotify.Breaker.Timeout = 30 * time.Second
	}

	if cfg.RateLimit == nil {
		cfg.RateLimit = &RateLimitConfig{}
	}
	if cfg.RateLimit.Requests <= 0 {
		cfg.RateLimit.Requests = defaultRateLimitRequests
	}
	if cfg.RateLimit.Window <= 0 {
		cfg.RateLimit.Window = defaultRateLimitWindow
	}

	if cfg.Metrics == nil {
		cfg.Metrics = &MetricsConfig{}
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = defaultMetricsPath
	}
}

// canonicalizeEnvKey maps an environment variable name onto the key path of the loaded YAML tree.
// Consecutive segments are joined when that is what matches an existing camelCase key,
// so SPOTIFY_CLIENT_ID resolves to spotify.clientId.
func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	segments = compact(segments)

	canonical := make([]string, 0, len(segments))
	current := existing

	for i := 0; i < len(segments); {
		matched, next, consumed := longestExistingMatch(current, segments[i:])
		if consumed > 0 {
			canonical = append(canonical, matched)
			current = next
			i += consumed

			continue
		}

		canonical = append(canonical, segments[i])
		current = nil
		i++
	}

	return strings.Join(canonical, ".")
}

// longestExistingMatch tries the longest run of segments first so that a multi-word key wins
// over a shorter accidental match.
func longestExistingMatch(current map[string]any, segments []string) (matched string, next map[string]any, consumed int) {
	if len(current) == 0 {
		return "", nil, 0
	}

	for n := len(segments); n > 0; n-- {
		if key, child, ok := findExistingSegment(current, strings.Join(segments[:n], "")); ok {
			return key, child, n
		}
	}

	return "", nil, 0
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}

func compact(segments []string) []string {
	out := segments[:0]
	for _, s := range segments {
		if s != "" {
			out = append(out, s)
		}
	}

	return out
}
