// Package ioconfig loads flasky configuration from the selected profile,
// config.yaml and environment variables.
// This is an impure package that handles file system and environment access.
package ioconfig

import (
	"os"
	"strings"

	"github.com/gnames/flasky/internal/iofs"
	"github.com/gnames/flasky/pkg/config"
	"github.com/spf13/viper"
)

// Load builds the configuration for the given profile name.
// Empty homeDir skips config.yaml, environment variables still apply.
//
// Precedence: env vars > config.yaml > profile > defaults.
// CLI flags are applied later by commands.
func Load(homeDir, profile string) (*config.Config, error) {
	p, err := config.LookupProfile(profile)
	if err != nil {
		return nil, err
	}

	cfg := config.New()
	cfg.Update(p.Options(os.Getenv(p.URLEnv)))

	fileCfg, err := readConfig(homeDir)
	if err != nil {
		return nil, err
	}
	cfg.Update(fileCfg.ToOptions())

	if homeDir != "" {
		cfg.Update([]config.Option{config.OptHomeDir(homeDir)})
	}
	return cfg, nil
}

// ProfileName returns the profile selected by the FLASK_CONFIG
// environment variable, or "default".
func ProfileName() string {
	res := strings.TrimSpace(os.Getenv(config.EnvConfig))
	if res == "" {
		return config.ProfileDefault
	}
	return res
}

func readConfig(homeDir string) (*config.Config, error) {
	v := viper.New()
	initEnvVars(v)

	if homeDir != "" {
		cfgPath := config.ConfigFilePath(homeDir)
		if _, err := os.Stat(cfgPath); err == nil {
			v.SetConfigFile(cfgPath)
			if err = v.ReadInConfig(); err != nil {
				return nil, iofs.ReadFileError(cfgPath, err)
			}
		}
	}

	var res config.Config
	if err := v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(config.ConfigFilePath(homeDir), err)
	}
	return &res, nil
}

func initEnvVars(v *viper.Viper) {
	// Environment variables are bound one by one so it is clear which of
	// them are allowed. They match the fields of config.ToOptions().
	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Database configuration
	v.BindEnv("database.host", "FLASKY_DATABASE_HOST")
	v.BindEnv("database.port", "FLASKY_DATABASE_PORT")
	v.BindEnv("database.user", "FLASKY_DATABASE_USER")
	v.BindEnv("database.password", "FLASKY_DATABASE_PASSWORD")
	v.BindEnv("database.database", "FLASKY_DATABASE_DATABASE")
	v.BindEnv("database.ssl_mode", "FLASKY_DATABASE_SSL_MODE")
	v.BindEnv("database.batch_size", "FLASKY_DATABASE_BATCH_SIZE")

	// Log configuration
	v.BindEnv("log.level", "FLASKY_LOG_LEVEL")
	v.BindEnv("log.format", "FLASKY_LOG_FORMAT")
	v.BindEnv("log.destination", "FLASKY_LOG_DESTINATION")

	// Server configuration
	v.BindEnv("server.host", "FLASKY_SERVER_HOST")
	v.BindEnv("server.port", "FLASKY_SERVER_PORT")

	// General configuration
	v.BindEnv("posts_per_page", "FLASKY_POSTS_PER_PAGE")

	v.AutomaticEnv()
}
