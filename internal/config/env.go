package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

const optionsEnv = "PICVERB_OPTIONS"

// EnvConfig holds environment overrides. Empty strings mean unset.
// Options applies whenever PICVERB_OPTIONS is present, zero included,
// so validation sees explicit bad values.
type EnvConfig struct {
	Catalog  string `env:"PICVERB_CATALOG"`
	Options  int    `env:"PICVERB_OPTIONS"`
	DB       string `env:"PICVERB_DB"`
	LogLevel string `env:"PICVERB_LOG_LEVEL"`

	OptionsSet bool
}

// Update implements cleanenv.Updater.
func (c *EnvConfig) Update() error {
	_, c.OptionsSet = os.LookupEnv(optionsEnv)
	return nil
}

// LoadEnv reads PICVERB_* overrides from the environment.
func LoadEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("failed to read environment: %w", err)
	}
	return cfg, nil
}

// Merge layers env overrides on top of the file config and returns the result.
func Merge(file FileConfig, env EnvConfig) FileConfig {
	if env.Catalog != "" {
		file.Quiz.Catalog = &env.Catalog
	}
	if env.OptionsSet {
		file.Quiz.Options = &env.Options
	}
	if env.DB != "" {
		file.Quiz.DB = &env.DB
	}
	if env.LogLevel != "" {
		file.Log.Level = &env.LogLevel
	}
	return file
}
