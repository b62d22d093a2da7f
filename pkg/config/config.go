// Package config provides configuration management for flasky.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest):
// CLI flags > env vars > config.yaml > profile > defaults
//
// # Profiles
//
// A profile is a named set of defaults selected by FLASK_CONFIG
// (or --config). Known profiles are "development", "testing" and
// "production"; "default" is an alias of "development".
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Database: host, port, user, password, database, ssl_mode, batch_size
//   - Log: level, format, destination
//   - Server: host, port
//   - General: posts_per_page
//
// Runtime-only fields:
//   - Profile, Debug, Testing (set from the selected profile)
//   - Database.URL (set from the profile's URL environment variable)
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use FLASKY_ prefix with underscores for nesting:
//
//	FLASKY_DATABASE_HOST=localhost
//	FLASKY_LOG_LEVEL=info
//	FLASKY_SERVER_PORT=5000
package config

import (
	"net"
	"net/url"
	"strconv"
)

// Config represents the complete flasky configuration.
type Config struct {
	// Profile is the name of the configuration profile in use.
	Profile string `mapstructure:"-" yaml:"profile"`

	// Debug enables debug behavior of the web application.
	Debug bool `mapstructure:"-" yaml:"debug"`

	// Testing is true for the profile used by the test suite.
	Testing bool `mapstructure:"-" yaml:"testing"`

	// Database contains PostgreSQL connection settings.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// Server contains settings of the development HTTP server.
	Server ServerConfig `mapstructure:"server" yaml:"server"`

	// PostsPerPage limits the number of posts returned by listings.
	PostsPerPage int `mapstructure:"posts_per_page" yaml:"posts_per_page"`

	// HomeDir determines where config, cache and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string `mapstructure:"-" yaml:"-"`
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// URL is a complete connection string. When set, it takes precedence
	// over the individual connection fields.
	URL string `mapstructure:"-" yaml:"-"`

	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"-"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`

	// BatchSize defines the number of records to process per batch
	// during data backfills (for example self-follows on deploy).
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json' or 'text'.
	Format string `mapstructure:"format"      yaml:"format"`

	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`

	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// ServerConfig contains the address of the development server.
type ServerConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Profile: ProfileDevelopment,
		Database: DatabaseConfig{
			Host:      "localhost",
			Port:      5432,
			User:      "postgres",
			Password:  "postgres",
			Database:  "flasky",
			SSLMode:   "disable",
			BatchSize: 5_000,
		},
		Log: LogConfig{
			Format:      "json",
			Level:       "info",
			Destination: "file",
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 5000,
		},
		PostsPerPage: 20,
	}
	return res
}

// DSN returns the connection string for the database.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.Database,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}

// Addr returns host:port of the development server.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
