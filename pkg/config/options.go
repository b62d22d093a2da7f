package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	return setString("Database Host", s,
		func(c *Config, v string) { c.Database.Host = v })
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return setPort("Database Port", i,
		func(c *Config, v int) { c.Database.Port = v })
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	return setString("Database User", s,
		func(c *Config, v string) { c.Database.User = v })
}

// OptDatabasePassword sets the PostgreSQL database password.
// Unlike other strings, the password is kept as is.
func OptDatabasePassword(s string) Option {
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the PostgreSQL database name to connect to.
func OptDatabaseDatabase(s string) Option {
	return setString("Database Name", s,
		func(c *Config, v string) { c.Database.Database = v })
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	return setEnum("Database.SSLMode", s,
		func(c *Config, v string) { c.Database.SSLMode = v })
}

// OptDatabaseBatchSize sets the number of rows processed per batch
// by deploy backfills.
func OptDatabaseBatchSize(i int) Option {
	return setInt("Batch Size", i,
		func(c *Config, v int) { c.Database.BatchSize = v })
}

// OptDatabaseURL sets a complete connection string for the database.
// Runtime-only field - not in ToOptions().
func OptDatabaseURL(s string) Option {
	return setString("Database URL", s,
		func(c *Config, v string) { c.Database.URL = v })
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	return setEnum("Log.Level", s,
		func(c *Config, v string) { c.Log.Level = v })
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text".
func OptLogFormat(s string) Option {
	return setEnum("Log.Format", s,
		func(c *Config, v string) { c.Log.Format = v })
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	return setEnum("Log.Destination", s,
		func(c *Config, v string) { c.Log.Destination = v })
}

// OptServerHost sets the interface the development server listens on.
func OptServerHost(s string) Option {
	return setString("Server Host", s,
		func(c *Config, v string) { c.Server.Host = v })
}

// OptServerPort sets the port of the development server.
func OptServerPort(i int) Option {
	return setPort("Server Port", i,
		func(c *Config, v int) { c.Server.Port = v })
}

// OptPostsPerPage sets the size of post listings.
func OptPostsPerPage(i int) Option {
	return setInt("Posts Per Page", i,
		func(c *Config, v int) { c.PostsPerPage = v })
}

// OptProfile records the name of the profile in use.
// Runtime-only field - not in ToOptions().
func OptProfile(s string) Option {
	return setString("Profile", s,
		func(c *Config, v string) { c.Profile = v })
}

// OptDebug toggles debug mode.
// Runtime-only field - not in ToOptions().
func OptDebug(b bool) Option {
	return func(c *Config) {
		c.Debug = b
	}
}

// OptTesting marks configuration used by the test suite.
// Runtime-only field - not in ToOptions().
func OptTesting(b bool) Option {
	return func(c *Config) {
		c.Testing = b
	}
}

// OptHomeDir sets the home directory for config, cache, and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	return setString("Home Directory", s,
		func(c *Config, v string) { c.HomeDir = v })
}

func setString(name, s string, set func(*Config, string)) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString(name, s) {
			set(c, s)
		}
	}
}

func setInt(name string, i int, set func(*Config, int)) Option {
	return func(c *Config) {
		if isValidInt(name, i) {
			set(c, i)
		}
	}
}

func setPort(name string, i int, set func(*Config, int)) Option {
	return func(c *Config) {
		if isValidPort(name, i) {
			set(c, i)
		}
	}
}

func setEnum(name, s string, set func(*Config, string)) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum(name, s) {
			set(c, s)
		}
	}
}
