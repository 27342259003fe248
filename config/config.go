// Package config loads runtime settings from the environment, with an
// optional config file for local development.
package config

import (
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/spf13/viper"

	accounts "github.com/shipnlogic/go-accounts"
)

const (
	defaultSigningMethod         = "HS256"
	defaultIssuer                = "shipnlogic.com"
	defaultAccessTokenMinutes    = 30
	defaultRefreshTokenHours     = 24
	defaultRefreshTokenHoursLong = 720
)

// Config is the concrete settings record. It is built once at process start
// and never mutated afterwards.
type Config struct {
	SecretKey                   string `mapstructure:"secret_key"`
	HashingAlgorithm            string `mapstructure:"hashing_algorithm"`
	Issuer                      string `mapstructure:"issuer"`
	AccessTokenExpireMinutes    int    `mapstructure:"access_token_expire_minutes"`
	RefreshTokenExpireHours     int    `mapstructure:"refresh_token_expire_hours"`
	RefreshTokenExpireHoursLong int    `mapstructure:"refresh_token_expire_hours_long"`
	PostgresDatabaseURL         string `mapstructure:"postgres_database_url"`
}

var _ accounts.Config = (*Config)(nil)

// Load reads settings from the environment (SHIPNLOGIC_ prefix) and, when
// path is non-empty, a yaml config file. Environment wins over the file.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("hashing_algorithm", defaultSigningMethod)
	v.SetDefault("issuer", defaultIssuer)
	v.SetDefault("access_token_expire_minutes", defaultAccessTokenMinutes)
	v.SetDefault("refresh_token_expire_hours", defaultRefreshTokenHours)
	v.SetDefault("refresh_token_expire_hours_long", defaultRefreshTokenHoursLong)

	v.SetEnvPrefix("SHIPNLOGIC")
	v.AutomaticEnv()
	for _, key := range []string{
		"secret_key",
		"hashing_algorithm",
		"issuer",
		"access_token_expire_minutes",
		"refresh_token_expire_hours",
		"refresh_token_expire_hours_long",
		"postgres_database_url",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not bind environment variable")
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not read config file").
				WithMetadata(map[string]any{"path": path})
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not unmarshal config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the keys the process cannot run without.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return goerrors.New("secret_key is required", goerrors.CategoryBadInput).
			WithTextCode("MISSING_SECRET_KEY")
	}

	if c.AccessTokenExpireMinutes <= 0 {
		return goerrors.New("access_token_expire_minutes must be positive", goerrors.CategoryBadInput)
	}

	if c.RefreshTokenExpireHours <= 0 {
		return goerrors.New("refresh_token_expire_hours must be positive", goerrors.CategoryBadInput)
	}

	if c.RefreshTokenExpireHoursLong < c.RefreshTokenExpireHours {
		return goerrors.New("refresh_token_expire_hours_long must not be shorter than refresh_token_expire_hours", goerrors.CategoryBadInput)
	}

	return nil
}

func (c *Config) GetSigningKey() string {
	return c.SecretKey
}

func (c *Config) GetSigningMethod() string {
	return c.HashingAlgorithm
}

func (c *Config) GetIssuer() string {
	return c.Issuer
}

func (c *Config) GetAccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

func (c *Config) GetRefreshTokenTTL() time.Duration {
	return time.Duration(c.RefreshTokenExpireHours) * time.Hour
}

func (c *Config) GetExtendedRefreshTokenTTL() time.Duration {
	return time.Duration(c.RefreshTokenExpireHoursLong) * time.Hour
}

func (c *Config) GetDatabaseURL() string {
	return c.PostgresDatabaseURL
}
