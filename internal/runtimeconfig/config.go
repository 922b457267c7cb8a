package runtimeconfig

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-quickstart/internal/ingest"
)

// DefaultRepositoryURL is the tree URL of the community quickstarts repository.
const DefaultRepositoryURL = "https://github.com/newrelic/newrelic-quickstarts/tree/main"

var (
	ErrRepositoryURLInvalid   = errors.New("quickstart config: repository url is invalid")
	ErrAssetBaseURLInvalid    = errors.New("quickstart config: asset base url is invalid")
	ErrParsePolicyInvalid     = errors.New("quickstart config: parse policy is invalid")
	ErrLoggingProviderUnknown = errors.New("quickstart config: logging provider is invalid")
	ErrLoggingLevelInvalid    = errors.New("quickstart config: logging level is invalid")
	ErrLoggingFormatInvalid   = errors.New("quickstart config: logging format is invalid")
	ErrStorageDriverUnknown   = errors.New("quickstart config: storage driver is invalid")
	ErrStorageDSNRequired     = errors.New("quickstart config: storage dsn is required")
	ErrStorageCacheInvalid    = errors.New("quickstart config: storage cache size is invalid")
)

// Config is the runtime configuration of the quickstart module.
type Config struct {
	// RepositoryURL prefixes every derived pack URL.
	RepositoryURL string
	// ParsePolicy overrides per-parser failure handling.
	ParsePolicy ingest.ParsePolicy
	Logging     LoggingConfig
	Storage     StorageConfig
	Source      SourceConfig
}

// LoggingConfig selects the logger provider. Provider is "console" or
// "gologger"; Format only applies to gologger.
type LoggingConfig struct {
	Provider string
	Level    string
	Format   string
	Focus    []string
}

// StorageConfig configures the catalog store. Driver is "sqlite", "postgres"
// or "pgx"; an empty driver disables the catalog.
type StorageConfig struct {
	Driver string
	DSN    string
	// CacheSize bounds the LRU of catalog reads. Zero disables the cache.
	CacheSize int
}

// SourceConfig configures the local filesystem loader.
type SourceConfig struct {
	// AssetBaseURL turns image paths into public URLs. Empty keeps the
	// repository-relative path as the image reference.
	AssetBaseURL string
	// PathPrefix is prepended to every loaded file path, e.g. "quickstarts".
	PathPrefix string
}

// DefaultConfig returns the configuration used when callers supply none.
func DefaultConfig() Config {
	return Config{
		RepositoryURL: DefaultRepositoryURL,
		ParsePolicy:   ingest.DefaultParsePolicy(),
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
		Storage: StorageConfig{
			Driver:    "sqlite",
			DSN:       "file:quickstarts.db?cache=shared",
			CacheSize: 256,
		},
		Source: SourceConfig{
			PathPrefix: "quickstarts",
		},
	}
}

// Validate reports the first configuration problem found.
func (cfg Config) Validate() error {
	if err := validation.Validate(strings.TrimSpace(cfg.RepositoryURL), validation.Required, validation.By(absoluteHTTPURL)); err != nil {
		return fmt.Errorf("%w: %v", ErrRepositoryURLInvalid, err)
	}
	if err := validation.Validate(cfg.Source.AssetBaseURL, validation.By(absoluteHTTPURL)); err != nil {
		return fmt.Errorf("%w: %v", ErrAssetBaseURLInvalid, err)
	}
	for parser, action := range cfg.ParsePolicy {
		if !parser.Valid() || !action.Valid() {
			return fmt.Errorf("%w: %s=%s", ErrParsePolicyInvalid, parser, action)
		}
	}

	provider := normalize(cfg.Logging.Provider)
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %q", ErrLoggingProviderUnknown, cfg.Logging.Provider)
	}
	if level := normalize(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if format := normalize(cfg.Logging.Format); provider == "gologger" && format != "" && !isSupportedFormat(format) {
		return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
	}

	switch normalize(cfg.Storage.Driver) {
	case "":
	case "sqlite", "sqlite3", "postgres", "pg", "pgx":
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, cfg.Storage.Driver)
	}
	if err := validation.Validate(cfg.Storage.CacheSize, validation.Min(0)); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageCacheInvalid, err)
	}
	return nil
}

// absoluteHTTPURL accepts blank values; pair it with validation.Required
// when the value is mandatory.
func absoluteHTTPURL(value any) error {
	raw, _ := value.(string)
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return validation.NewError("quickstart.config.url_parse", err.Error())
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return validation.NewError("quickstart.config.url_absolute", "must be an absolute http(s) url")
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch level {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch format {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
