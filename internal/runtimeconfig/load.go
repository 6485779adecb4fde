package runtimeconfig

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. COURSEWARE_STORAGE_DSN.
const EnvPrefix = "COURSEWARE"

// Load reads configuration from path (YAML, JSON or TOML, picked by
// extension) layered over DefaultConfig, then applies COURSEWARE_*
// environment overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("courseware config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("courseware config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it during
// Unmarshal.
func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("ingest.source_dir", cfg.Ingest.SourceDir)
	v.SetDefault("ingest.pattern", cfg.Ingest.Pattern)
	v.SetDefault("ingest.recursive", cfg.Ingest.Recursive)
	v.SetDefault("ingest.labels", cfg.Ingest.Labels)
	v.SetDefault("ingest.render_html", cfg.Ingest.RenderHTML)
	v.SetDefault("ingest.parser.extensions", cfg.Ingest.Parser.Extensions)
	v.SetDefault("ingest.parser.sanitize", cfg.Ingest.Parser.Sanitize)
	v.SetDefault("ingest.parser.hard_wraps", cfg.Ingest.Parser.HardWraps)
	v.SetDefault("ingest.parser.safe_mode", cfg.Ingest.Parser.SafeMode)

	v.SetDefault("storage.provider", cfg.Storage.Provider)
	v.SetDefault("storage.driver", cfg.Storage.Driver)
	v.SetDefault("storage.dsn", cfg.Storage.DSN)
	v.SetDefault("storage.cache.enabled", cfg.Storage.Cache.Enabled)
	v.SetDefault("storage.cache.default_ttl", cfg.Storage.Cache.DefaultTTL)

	v.SetDefault("generator.output_dir", cfg.Generator.OutputDir)
	v.SetDefault("generator.timestamp", cfg.Generator.Timestamp)
	v.SetDefault("generator.incremental", cfg.Generator.Incremental)

	v.SetDefault("logging.provider", cfg.Logging.Provider)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.add_source", cfg.Logging.AddSource)
	v.SetDefault("logging.focus", cfg.Logging.Focus)

	v.SetDefault("features.logger", cfg.Features.Logger)
	v.SetDefault("features.generator", cfg.Features.Generator)
	v.SetDefault("features.front_matter", cfg.Features.FrontMatter)
}
