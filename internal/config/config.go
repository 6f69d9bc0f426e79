// Package config provides configuration management for the digest pipeline.
//
// Values come from three layers, later ones winning: built-in defaults, an
// optional YAML file, and environment variables (usually populated from a
// .env file by the caller).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrMissingBaseURL       = errors.New("source.base_url is required")
	ErrInvalidPages         = errors.New("source.pages must be at least 1")
	ErrMissingTargetLang    = errors.New("translate.target is required")
	ErrInvalidAttempts      = errors.New("max_attempts must be at least 1")
	ErrMissingTemplateURL   = errors.New("template.url (TEMPLATE_URL) is required")
	ErrInvalidMarkers       = errors.New("template markers must be non-empty and distinct")
	ErrInvalidStoreBackend  = errors.New("store.backend must be 'mongo' or 'redis'")
	ErrMissingMongoSettings = errors.New("MONGO_CONNECTION_STRING, DB_NAME and COLLECTION_NAME are required for the mongo store")
	ErrMissingRedisAddr     = errors.New("REDIS_ADDR is required for the redis store")
	ErrInvalidRenderer      = errors.New("render.engine must be 'chrome' or 'libreoffice'")
	ErrMissingTelegram      = errors.New("TELEGRAM_BOT_TOKEN and TELEGRAM_CHANNEL_ID are required")
	ErrInvalidLogLevel      = errors.New("logging.level must be one of: debug, info, warn, error")
)

// Defaults.
const (
	DefaultBaseURL       = "https://www.gktoday.in/current-affairs/"
	DefaultPages         = 2
	DefaultContentClass  = "inside_post column content_width"
	DefaultTargetLang    = "gu"
	DefaultTranslateURL  = "https://translate.googleapis.com/translate_a/single"
	DefaultStartMarker   = "START_CONTENT"
	DefaultEndMarker     = "END_CONTENT"
	DefaultMaxAttempts   = 3
	DefaultTranslateWait = 2 * time.Second
	DefaultDeliveryWait  = 5 * time.Second
	DefaultUploadTimeout = 2 * time.Minute
	DefaultHTTPTimeout   = 15 * time.Second
	DefaultRenderTimeout = 2 * time.Minute
	DefaultUserAgent     = "Mozilla/5.0 (compatible; GKTodayDigest/1.0)"
	DefaultRedisKey      = "gktoday:seen_urls"
	DefaultHTTPAddr      = ":8080"
)

// DefaultSkipClasses are the class lists of the share widget and the
// previous/next navigation block inside an article body.
var DefaultSkipClasses = [][]string{
	{"sharethis-inline-share-buttons", "st-center", "st-has-labels", "st-inline-share-buttons", "st-animated"},
	{"prenext"},
}

// Config is the complete pipeline configuration.
type Config struct {
	Source    SourceConfig    `yaml:"source"`
	Translate TranslateConfig `yaml:"translate"`
	Template  TemplateConfig  `yaml:"template"`
	Store     StoreConfig     `yaml:"store"`
	Render    RenderConfig    `yaml:"render"`
	Delivery  DeliveryConfig  `yaml:"delivery"`
	Archive   ArchiveConfig   `yaml:"archive"`
	HTTP      HTTPConfig      `yaml:"http"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// SourceConfig describes the listing site.
type SourceConfig struct {
	BaseURL      string     `yaml:"base_url"`
	Pages        int        `yaml:"pages"`
	ContentClass string     `yaml:"content_class"`
	SkipClasses  [][]string `yaml:"skip_classes"`
}

// TranslateConfig configures the translation client.
type TranslateConfig struct {
	Target      string        `yaml:"target"`
	Endpoint    string        `yaml:"endpoint"`
	MaxAttempts int           `yaml:"max_attempts"`
	Backoff     time.Duration `yaml:"backoff"`
}

// TemplateConfig locates the DOCX template and its markers.
type TemplateConfig struct {
	URL         string `yaml:"url"`
	StartMarker string `yaml:"start_marker"`
	EndMarker   string `yaml:"end_marker"`
}

// StoreConfig selects the seen-set backend.
type StoreConfig struct {
	Backend string      `yaml:"backend"`
	Mongo   MongoConfig `yaml:"mongo"`
	Redis   RedisConfig `yaml:"redis"`
}

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Key      string `yaml:"key"`
}

// RenderConfig selects the PDF conversion strategy.
type RenderConfig struct {
	Engine      string        `yaml:"engine"`
	ChromePath  string        `yaml:"chrome_path"`
	SofficePath string        `yaml:"soffice_path"`
	Timeout     time.Duration `yaml:"timeout"`
}

// DeliveryConfig configures the Telegram channel delivery.
type DeliveryConfig struct {
	BotToken    string        `yaml:"bot_token"`
	ChannelID   string        `yaml:"channel_id"`
	MaxAttempts int           `yaml:"max_attempts"`
	Backoff     time.Duration `yaml:"backoff"`
	// Timeout bounds one upload attempt.
	Timeout time.Duration `yaml:"timeout"`
}

// ArchiveConfig enables copying rendered PDFs to S3. Empty bucket disables it.
type ArchiveConfig struct {
	Bucket       string `yaml:"bucket"`
	Region       string `yaml:"region"`
	Prefix       string `yaml:"prefix"`
	UsePathStyle bool   `yaml:"use_path_style"`
}

// HTTPConfig covers outbound fetches and the trigger API listener.
type HTTPConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
	Addr      string        `yaml:"addr"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns a configuration populated with built-in defaults.
func Default() *Config {
	skip := make([][]string, len(DefaultSkipClasses))
	for i, classes := range DefaultSkipClasses {
		skip[i] = append([]string(nil), classes...)
	}

	return &Config{
		Source: SourceConfig{
			BaseURL:      DefaultBaseURL,
			Pages:        DefaultPages,
			ContentClass: DefaultContentClass,
			SkipClasses:  skip,
		},
		Translate: TranslateConfig{
			Target:      DefaultTargetLang,
			Endpoint:    DefaultTranslateURL,
			MaxAttempts: DefaultMaxAttempts,
			Backoff:     DefaultTranslateWait,
		},
		Template: TemplateConfig{
			StartMarker: DefaultStartMarker,
			EndMarker:   DefaultEndMarker,
		},
		Store: StoreConfig{
			Backend: "mongo",
			Redis:   RedisConfig{Key: DefaultRedisKey},
		},
		Render: RenderConfig{
			Engine:  "chrome",
			Timeout: DefaultRenderTimeout,
		},
		Delivery: DeliveryConfig{
			MaxAttempts: DefaultMaxAttempts,
			Backoff:     DefaultDeliveryWait,
			Timeout:     DefaultUploadTimeout,
		},
		HTTP: HTTPConfig{
			Timeout:   DefaultHTTPTimeout,
			UserAgent: DefaultUserAgent,
			Addr:      DefaultHTTPAddr,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load builds the configuration from defaults, the optional YAML file at path
// and the environment, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Source.BaseURL, "BASE_URL")
	setString(&c.Translate.Target, "TARGET_LANGUAGE")
	setString(&c.Translate.Endpoint, "TRANSLATE_ENDPOINT")
	setString(&c.Template.URL, "TEMPLATE_URL")
	setString(&c.Store.Backend, "STORE")
	setString(&c.Store.Mongo.URI, "MONGO_CONNECTION_STRING")
	setString(&c.Store.Mongo.Database, "DB_NAME")
	setString(&c.Store.Mongo.Collection, "COLLECTION_NAME")
	setString(&c.Store.Redis.Addr, "REDIS_ADDR")
	setString(&c.Store.Redis.Password, "REDIS_PASSWORD")
	setString(&c.Store.Redis.Key, "REDIS_KEY")
	setString(&c.Render.Engine, "RENDERER")
	setString(&c.Render.ChromePath, "CHROME_PATH")
	setString(&c.Render.SofficePath, "SOFFICE_PATH")
	setString(&c.Delivery.BotToken, "TELEGRAM_BOT_TOKEN")
	setString(&c.Delivery.ChannelID, "TELEGRAM_CHANNEL_ID")
	setString(&c.Archive.Bucket, "S3_BUCKET")
	setString(&c.Archive.Region, "S3_REGION")
	setString(&c.Archive.Prefix, "S3_PREFIX")
	setString(&c.HTTP.UserAgent, "USER_AGENT")
	setString(&c.HTTP.Addr, "HTTP_ADDR")
	setString(&c.Logging.Level, "LOG_LEVEL")

	if err := setInt(&c.Source.Pages, "PAGES"); err != nil {
		return err
	}
	if err := setInt(&c.Store.Redis.DB, "REDIS_DB"); err != nil {
		return err
	}
	if err := setDuration(&c.HTTP.Timeout, "HTTP_TIMEOUT"); err != nil {
		return err
	}
	if err := setDuration(&c.Render.Timeout, "RENDER_TIMEOUT"); err != nil {
		return err
	}
	if err := setDuration(&c.Delivery.Timeout, "TELEGRAM_TIMEOUT"); err != nil {
		return err
	}
	if v, ok := lookup("S3_USE_PATH_STYLE"); ok {
		c.Archive.UsePathStyle = strings.EqualFold(v, "true")
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Source.BaseURL == "" {
		return ErrMissingBaseURL
	}
	if c.Source.Pages < 1 {
		return ErrInvalidPages
	}
	if c.Translate.Target == "" {
		return ErrMissingTargetLang
	}
	if c.Translate.MaxAttempts < 1 {
		return fmt.Errorf("translate: %w", ErrInvalidAttempts)
	}
	if c.Delivery.MaxAttempts < 1 {
		return fmt.Errorf("delivery: %w", ErrInvalidAttempts)
	}
	if c.Template.URL == "" {
		return ErrMissingTemplateURL
	}
	if c.Template.StartMarker == "" || c.Template.EndMarker == "" || c.Template.StartMarker == c.Template.EndMarker {
		return ErrInvalidMarkers
	}

	switch c.Store.Backend {
	case "mongo":
		m := c.Store.Mongo
		if m.URI == "" || m.Database == "" || m.Collection == "" {
			return ErrMissingMongoSettings
		}
	case "redis":
		if c.Store.Redis.Addr == "" {
			return ErrMissingRedisAddr
		}
	default:
		return ErrInvalidStoreBackend
	}

	if c.Render.Engine != "chrome" && c.Render.Engine != "libreoffice" {
		return ErrInvalidRenderer
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return ErrInvalidLogLevel
	}

	return nil
}

// ValidateDelivery reports whether the Telegram credentials are present. It is
// separate from Validate because dry runs never deliver.
func (c *Config) ValidateDelivery() error {
	if c.Delivery.BotToken == "" || c.Delivery.ChannelID == "" {
		return ErrMissingTelegram
	}
	return nil
}

// PageURL returns the listing URL for a 1-based page number.
func (s *SourceConfig) PageURL(page int) string {
	if page <= 1 {
		return s.BaseURL
	}
	base := s.BaseURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return fmt.Sprintf("%spage/%d/", base, page)
}

// String returns a short summary safe for logs.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{BaseURL: %s, Pages: %d, Target: %s, Store: %s, Renderer: %s}",
		c.Source.BaseURL,
		c.Source.Pages,
		c.Translate.Target,
		c.Store.Backend,
		c.Render.Engine,
	)
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func setString(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = n
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = d
	return nil
}
