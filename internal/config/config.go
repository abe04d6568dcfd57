// Package config loads application configuration and bootstraps logging.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Scores   ScoresConfig   `yaml:"scores" mapstructure:"scores"`
	Geometry GeometryConfig `yaml:"geometry" mapstructure:"geometry"`
	Counties CountiesConfig `yaml:"counties" mapstructure:"counties"`
	Query    QueryConfig    `yaml:"query" mapstructure:"query"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// ScoresConfig selects the score table source. Source is one of "csv",
// "sqlite", or "postgres".
type ScoresConfig struct {
	Source      string `yaml:"source" mapstructure:"source"`
	CSVPath     string `yaml:"csv_path" mapstructure:"csv_path"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// GeometryConfig selects the region geometry source. When CachePath is set,
// geometry loads from the SQLite cache instead of the shapefile.
type GeometryConfig struct {
	ShapefilePath string `yaml:"shapefile_path" mapstructure:"shapefile_path"`
	IDField       string `yaml:"id_field" mapstructure:"id_field"`
	CountyField   string `yaml:"county_field" mapstructure:"county_field"`
	CountyMapPath string `yaml:"county_map_path" mapstructure:"county_map_path"`
	CachePath     string `yaml:"cache_path" mapstructure:"cache_path"`
}

// CountiesConfig configures the county allow-list. Disabled skips
// allow-list filtering entirely; an empty path uses the built-in
// service-area list.
type CountiesConfig struct {
	AllowListPath string `yaml:"allow_list_path" mapstructure:"allow_list_path"`
	Disabled      bool   `yaml:"disabled" mapstructure:"disabled"`
}

// QueryConfig holds presentation defaults.
type QueryConfig struct {
	Ramp string `yaml:"ramp" mapstructure:"ramp"`
	TopN int    `yaml:"top_n" mapstructure:"top_n"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port      int     `yaml:"port" mapstructure:"port"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	RateBurst int     `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ACCESSMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("scores.source", "csv")
	v.SetDefault("scores.csv_path", "precomputed_access_scores.csv")
	v.SetDefault("scores.sqlite_path", "access_scores.db")
	v.SetDefault("geometry.shapefile_path", "cb_2023_37_tract_500k.shp")
	v.SetDefault("geometry.id_field", "GEOID")
	v.SetDefault("geometry.county_field", "NAMELSADCO")
	v.SetDefault("geometry.county_map_path", "")
	v.SetDefault("geometry.cache_path", "")
	v.SetDefault("counties.allow_list_path", "")
	v.SetDefault("counties.disabled", false)
	v.SetDefault("query.ramp", "Greens")
	v.SetDefault("query.top_n", 10)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit", 20)
	v.SetDefault("server.rate_burst", 40)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
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
