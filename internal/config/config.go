package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/centsible/centsible/internal/common"
)

// Config carries the resolved application configuration.
type Config struct {
	TokenTTL           time.Duration
	Port               int
	RateLimitPerMinute int
	DatabasePath       string
	JWTSecret          string
	LogLevel           string
	LogFormat          string
}

// SetDefaults registers the default values on viper. Callers are expected
// to have pointed viper at the config file and environment already.
func SetDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("database.path", "~/.local/share/centsible/centsible.db")
	viper.SetDefault("auth.token_ttl", "24h")
	viper.SetDefault("ratelimit.per_minute", 60)
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "console")
}

// Load assembles a Config from viper.
func Load() (*Config, error) {
	cfg := &Config{
		Port:               viper.GetInt("server.port"),
		DatabasePath:       ExpandPath(viper.GetString("database.path")),
		JWTSecret:          viper.GetString("auth.jwt_secret"),
		TokenTTL:           viper.GetDuration("auth.token_ttl"),
		RateLimitPerMinute: viper.GetInt("ratelimit.per_minute"),
		LogLevel:           viper.GetString("logging.level"),
		LogFormat:          viper.GetString("logging.format"),
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("%w: server.port %d out of range", common.ErrInvalidConfig, cfg.Port)
	}
	if cfg.DatabasePath == "" {
		return nil, fmt.Errorf("%w: database.path", common.ErrMissingConfig)
	}
	return cfg, nil
}
