package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrSourceDirRequired          = errors.New("courseware config: ingest source directory is required")
	ErrLabelsUnknown              = errors.New("courseware config: lesson label preset is invalid")
	ErrStorageProviderUnknown     = errors.New("courseware config: storage provider is invalid")
	ErrStorageDriverUnknown       = errors.New("courseware config: storage driver is invalid")
	ErrStorageDSNRequired         = errors.New("courseware config: storage dsn is required for the bun provider")
	ErrCacheTTLInvalid            = errors.New("courseware config: cache ttl must be positive when cache is enabled")
	ErrGeneratorOutputDirRequired = errors.New("courseware config: generator output directory is required when generator is enabled")
	ErrLoggingProviderRequired    = errors.New("courseware config: logging provider is required when logging feature is enabled")
	ErrLoggingProviderUnknown     = errors.New("courseware config: logging provider is invalid")
	ErrLoggingLevelInvalid        = errors.New("courseware config: logging level is invalid")
	ErrLoggingFormatInvalid       = errors.New("courseware config: logging format is invalid")
)

// Storage providers.
const (
	StorageMemory = "memory"
	StorageBun    = "bun"
)

// SQL drivers accepted by the bun provider.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Config aggregates feature flags and adapter bindings for the courseware module.
type Config struct {
	Ingest    IngestConfig    `mapstructure:"ingest"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Features  Features        `mapstructure:"features"`
}

// IngestConfig captures how course sources are discovered and parsed. Labels
// selects the lesson title preset: "it" or "en".
type IngestConfig struct {
	SourceDir  string               `mapstructure:"source_dir"`
	Pattern    string               `mapstructure:"pattern"`
	Recursive  bool                 `mapstructure:"recursive"`
	Labels     string               `mapstructure:"labels"`
	RenderHTML bool                 `mapstructure:"render_html"`
	Parser     MarkdownParserConfig `mapstructure:"parser"`
}

// MarkdownParserConfig mirrors interfaces.ParseOptions for runtime configuration.
type MarkdownParserConfig struct {
	Extensions []string `mapstructure:"extensions"`
	Sanitize   bool     `mapstructure:"sanitize"`
	HardWraps  bool     `mapstructure:"hard_wraps"`
	SafeMode   bool     `mapstructure:"safe_mode"`
}

// StorageConfig selects the course repositories.
type StorageConfig struct {
	Provider string      `mapstructure:"provider"`
	Driver   string      `mapstructure:"driver"`
	DSN      string      `mapstructure:"dsn"`
	Cache    CacheConfig `mapstructure:"cache"`
}

// CacheConfig captures cache behaviour toggles.
type CacheConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	DefaultTTL time.Duration `mapstructure:"default_ttl"`
}

// GeneratorConfig captures behaviour for the course file generator.
type GeneratorConfig struct {
	OutputDir   string `mapstructure:"output_dir"`
	Timestamp   bool   `mapstructure:"timestamp"`
	Incremental bool   `mapstructure:"incremental"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `mapstructure:"provider"`
	Level     string   `mapstructure:"level"`
	Format    string   `mapstructure:"format"`
	AddSource bool     `mapstructure:"add_source"`
	Focus     []string `mapstructure:"focus"`
}

// Features toggles module functionality.
type Features struct {
	Logger      bool `mapstructure:"logger"`
	Generator   bool `mapstructure:"generator"`
	FrontMatter bool `mapstructure:"front_matter"`
}

// DefaultConfig returns the defaults used by the course CLIs.
func DefaultConfig() Config {
	return Config{
		Ingest: IngestConfig{
			SourceDir: "MD",
			Pattern:   "*.md",
			Labels:    "it",
		},
		Storage: StorageConfig{
			Provider: StorageMemory,
			Driver:   DriverSQLite,
			DSN:      "file:courseware.db?cache=shared",
			Cache: CacheConfig{
				Enabled:    false,
				DefaultTTL: time.Minute,
			},
		},
		Generator: GeneratorConfig{
			OutputDir: "courses",
			Timestamp: true,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
		Features: Features{
			Generator:   true,
			FrontMatter: true,
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Ingest.SourceDir) == "" {
		return ErrSourceDirRequired
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Ingest.Labels)) {
	case "", "it", "italian", "en", "english":
	default:
		return fmt.Errorf("%w: %s", ErrLabelsUnknown, cfg.Ingest.Labels)
	}

	switch provider := normalize(cfg.Storage.Provider); provider {
	case "", StorageMemory:
	case StorageBun:
		if driver := normalize(cfg.Storage.Driver); driver != "" && driver != DriverSQLite && driver != DriverPostgres {
			return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, driver)
		}
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, provider)
	}
	if cfg.Storage.Cache.Enabled && cfg.Storage.Cache.DefaultTTL <= 0 {
		return ErrCacheTTLInvalid
	}

	if cfg.Features.Generator && strings.TrimSpace(cfg.Generator.OutputDir) == "" {
		return ErrGeneratorOutputDirRequired
	}

	if cfg.Features.Logger {
		provider := normalize(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(provider, format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
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
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(provider, format string) bool {
	format = strings.ToLower(strings.TrimSpace(format))
	if provider == "console" {
		return format == "text" || format == "json"
	}
	switch format {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
