package config

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Config struct {
	APIURL         string        `mapstructure:"POVLENS_API_URL" validate:"required,url"`
	Port           string        `mapstructure:"PORT" validate:"required,numeric"`
	LogLevel       string        `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT" validate:"gt=0"`
	DefaultLimit   int           `mapstructure:"DEFAULT_LIMIT" validate:"min=1,max=1000"`
	// CacheSize is in bytes; 0 disables the memory cache. freecache stores
	// entries up to 1/1024 of it, so below 64MB ordinary pages are rejected.
	CacheSize    int           `mapstructure:"CACHE_SIZE" validate:"eq=0|min=67108864"`
	CacheTTL     time.Duration `mapstructure:"CACHE_TTL" validate:"gte=0"`
	CacheBackend string        `mapstructure:"CACHE_BACKEND" validate:"oneof=memory redis"`
	RedisAddr    string        `mapstructure:"REDIS_ADDR" validate:"required_if=CacheBackend redis"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("POVLENS_API_URL", "http://localhost:8000/api/v1")
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("REQUEST_TIMEOUT", 15*time.Second)
	v.SetDefault("DEFAULT_LIMIT", 100)
	v.SetDefault("CACHE_SIZE", 256*1024*1024)
	v.SetDefault("CACHE_TTL", time.Minute)
	v.SetDefault("CACHE_BACKEND", "memory")
	v.SetDefault("REDIS_ADDR", "")
}

// Load reads envFile if it exists, then the process environment. Values
// from the environment win over the file; unset keys fall back to defaults.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrapf(err, "load %s", envFile)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}
