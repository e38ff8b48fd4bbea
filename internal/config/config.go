// Package config loads the server configuration.
//
// Sources, lowest precedence first: built-in defaults, an optional YAML file
// named by CONFIG_FILE, then environment variables (a .env file in the
// working directory is loaded into the environment first).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-password/password"
	"gopkg.in/yaml.v3"
)

// Config is the full server configuration.
type Config struct {
	Port      int    `yaml:"port"`
	StaticDir string `yaml:"static_dir"`

	Database DatabaseConfig `yaml:"database"`
	TMDB     TMDBConfig     `yaml:"tmdb"`
	Redis    RedisConfig    `yaml:"redis"`
	Auth     AuthConfig     `yaml:"auth"`
	GitHub   GitHubConfig   `yaml:"github"`
	Log      LogConfig      `yaml:"log"`

	AllowedOrigins []string `yaml:"allowed_origins"`

	// LoginRateLimit is the number of login attempts allowed per client IP
	// per minute. Zero disables the limiter.
	LoginRateLimit int `yaml:"login_rate_limit"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite or postgres
	DSN    string `yaml:"dsn"`
}

type TMDBConfig struct {
	APIKey       string        `yaml:"api_key"`
	BaseURL      string        `yaml:"base_url"`
	ImageBaseURL string        `yaml:"image_base_url"`
	PosterSize   string        `yaml:"poster_size"`
	Timeout      time.Duration `yaml:"timeout"`
	RateLimit    float64       `yaml:"rate_limit"`
	CacheTTL     time.Duration `yaml:"cache_ttl"`
	CacheSize    int           `yaml:"cache_size"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
}

type AuthConfig struct {
	JWTSecret    string        `yaml:"jwt_secret"`
	SessionTTL   time.Duration `yaml:"session_ttl"`
	CookieSecure bool          `yaml:"cookie_secure"`

	// SecretGenerated is set when no secret was configured and Load made
	// one up. Sessions then do not survive a restart.
	SecretGenerated bool `yaml:"-"`
}

type GitHubConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	CallbackURL  string `yaml:"callback_url"`
}

// Enabled reports whether GitHub login should be offered.
func (g GitHubConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Port: 8080,
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "data/plotpocket.db",
		},
		TMDB: TMDBConfig{
			BaseURL:      "https://api.themoviedb.org/3",
			ImageBaseURL: "https://image.tmdb.org/t/p/",
			PosterSize:   "w500",
			Timeout:      10 * time.Second,
			RateLimit:    40,
			CacheTTL:     10 * time.Minute,
			CacheSize:    512,
		},
		Auth: AuthConfig{
			SessionTTL:   7 * 24 * time.Hour,
			CookieSecure: true,
		},
		Log:            LogConfig{Level: "info"},
		AllowedOrigins: []string{"http://localhost:4200"},
		LoginRateLimit: 5,
	}
}

// Load reads .env, the optional CONFIG_FILE and the process environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config using lookup in place of os.LookupEnv.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	if path, ok := lookup("CONFIG_FILE"); ok && path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}

	if cfg.Auth.JWTSecret == "" {
		secret, err := password.Generate(48, 10, 0, false, true)
		if err != nil {
			return nil, fmt.Errorf("config: generating jwt secret: %w", err)
		}
		cfg.Auth.JWTSecret = secret
		cfg.Auth.SecretGenerated = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("config: opening %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("config: decoding %s: %w", path, err)
	}
	return nil
}

// envReader collects the first parse error so applyEnv stays flat.
type envReader struct {
	lookup func(string) (string, bool)
	err    error
}

func (r *envReader) get(key string) (string, bool) {
	v, ok := r.lookup(key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func (r *envReader) str(key string, dst *string) {
	if v, ok := r.get(key); ok {
		*dst = v
	}
}

func (r *envReader) integer(key string, dst *int) {
	v, ok := r.get(key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.fail(key, v, err)
		return
	}
	*dst = n
}

func (r *envReader) float(key string, dst *float64) {
	v, ok := r.get(key)
	if !ok {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.fail(key, v, err)
		return
	}
	*dst = f
}

func (r *envReader) duration(key string, dst *time.Duration) {
	v, ok := r.get(key)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.fail(key, v, err)
		return
	}
	*dst = d
}

func (r *envReader) boolean(key string, dst *bool) {
	v, ok := r.get(key)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.fail(key, v, err)
		return
	}
	*dst = b
}

func (r *envReader) list(key string, dst *[]string) {
	v, ok := r.get(key)
	if !ok {
		return
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*dst = out
}

func (r *envReader) fail(key, value string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("config: invalid %s value %q: %w", key, value, err)
	}
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	r := &envReader{lookup: lookup}

	r.integer("PORT", &c.Port)
	r.str("STATIC_DIR", &c.StaticDir)

	r.str("DB_DRIVER", &c.Database.Driver)
	r.str("DB_PATH", &c.Database.DSN)
	r.str("DB_DSN", &c.Database.DSN)

	r.str("TMDB_API_KEY", &c.TMDB.APIKey)
	r.str("TMDB_BASE_URL", &c.TMDB.BaseURL)
	r.str("TMDB_IMAGE_BASE_URL", &c.TMDB.ImageBaseURL)
	r.str("TMDB_POSTER_SIZE", &c.TMDB.PosterSize)
	r.duration("TMDB_TIMEOUT", &c.TMDB.Timeout)
	r.float("TMDB_RATE_LIMIT", &c.TMDB.RateLimit)
	r.duration("TMDB_CACHE_TTL", &c.TMDB.CacheTTL)
	r.integer("TMDB_CACHE_SIZE", &c.TMDB.CacheSize)

	r.str("REDIS_ADDR", &c.Redis.Addr)
	r.str("REDIS_PASSWORD", &c.Redis.Password)

	r.str("JWT_SECRET", &c.Auth.JWTSecret)
	r.duration("SESSION_TTL", &c.Auth.SessionTTL)
	r.boolean("COOKIE_SECURE", &c.Auth.CookieSecure)

	r.str("GITHUB_CLIENT_ID", &c.GitHub.ClientID)
	r.str("GITHUB_CLIENT_SECRET", &c.GitHub.ClientSecret)
	r.str("GITHUB_CALLBACK_URL", &c.GitHub.CallbackURL)

	r.str("LOG_LEVEL", &c.Log.Level)
	r.str("LOG_FILE", &c.Log.File)

	r.list("ALLOWED_ORIGINS", &c.AllowedOrigins)
	r.integer("LOGIN_RATE_LIMIT", &c.LoginRateLimit)

	if c.GitHub.CallbackURL == "" {
		c.GitHub.CallbackURL = fmt.Sprintf("http://localhost:%d/api/auth/github/callback", c.Port)
	}
	return r.err
}

// Validate reports every setting that cannot work.
func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("unknown database driver %q", c.Database.Driver))
	}
	if c.Database.DSN == "" {
		errs = append(errs, errors.New("database dsn is empty"))
	}
	if c.TMDB.APIKey == "" {
		errs = append(errs, errors.New("TMDB_API_KEY is required"))
	}
	if c.TMDB.Timeout <= 0 {
		errs = append(errs, errors.New("tmdb timeout must be positive"))
	}
	if c.TMDB.CacheTTL < 0 || c.TMDB.CacheSize < 0 {
		errs = append(errs, errors.New("tmdb cache settings must not be negative"))
	}
	if len(c.Auth.JWTSecret) < 16 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 16 characters"))
	}
	if c.Auth.SessionTTL <= 0 {
		errs = append(errs, errors.New("session ttl must be positive"))
	}
	if c.LoginRateLimit < 0 {
		errs = append(errs, errors.New("login rate limit must not be negative"))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.Log.Level))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
