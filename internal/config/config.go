package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/language"

	"github.com/quidome/whereshot-go/pkg/estimate"
)

// Config holds the full application configuration.
type Config struct {
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
	Estimate EstimateConfig `yaml:"estimate" mapstructure:"estimate"`
	Scan     ScanConfig     `yaml:"scan" mapstructure:"scan"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// EstimateConfig configures capture-time estimation.
type EstimateConfig struct {
	// Language of descriptions and warnings, a BCP 47 tag.
	Language string `yaml:"language" mapstructure:"language"`
	// Timezone for EXIF and filename timestamps, an IANA name or "Local".
	Timezone string `yaml:"timezone" mapstructure:"timezone"`
}

// Location resolves Timezone.
func (c EstimateConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, eris.Wrapf(err, "config: load timezone %q", c.Timezone)
	}
	return loc, nil
}

// Tag resolves Language to a supported message language.
func (c EstimateConfig) Tag() language.Tag {
	return estimate.ParseLanguage(c.Language)
}

// ScanConfig configures directory scans.
type ScanConfig struct {
	MaxDepth      int  `yaml:"max_depth" mapstructure:"max_depth"`
	Concurrency   int  `yaml:"concurrency" mapstructure:"concurrency"`
	IncludeHidden bool `yaml:"include_hidden" mapstructure:"include_hidden"`
	Hash          bool `yaml:"hash" mapstructure:"hash"`
}

// StoreConfig configures the analysis history. An empty path disables it.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// OutputConfig configures terminal rendering.
type OutputConfig struct {
	Color bool `yaml:"color" mapstructure:"color"`
}

// Load reads configuration from file and environment. If path is empty,
// whereshot.yaml in the working directory is used when present.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Config file
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("whereshot")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Environment
	v.SetEnvPrefix("WHERESHOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("estimate.language", "en")
	v.SetDefault("estimate.timezone", "Local")
	v.SetDefault("scan.max_depth", -1)
	v.SetDefault("scan.concurrency", 4)
	v.SetDefault("scan.include_hidden", false)
	v.SetDefault("scan.hash", false)
	v.SetDefault("store.path", "")
	v.SetDefault("output.color", true)

	// Read config file (optional unless named explicitly)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
