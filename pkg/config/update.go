package config

import (
	"slices"
	"strings"

	"github.com/gnames/gn"
)

// enums lists accepted values of enumerated settings.
var enums = map[string][]string{
	"Database.SSLMode": {"disable", "require", "verify-ca", "verify-full"},
	"Log.Level":        {"debug", "info", "warn", "error"},
	"Log.Format":       {"json", "text"},
	"Log.Destination":  {"file", "stderr", "stdout"},
}

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains in valid state.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only persistent fields that belong to config.yaml are included,
// zero values are skipped. Runtime-only fields (HomeDir, Profile,
// Debug, Testing, Database.URL) are left out.
func (c *Config) ToOptions() []Option {
	var res []Option
	str := func(s string, opt func(string) Option) {
		if s != "" {
			res = append(res, opt(s))
		}
	}
	num := func(i int, opt func(int) Option) {
		if i > 0 {
			res = append(res, opt(i))
		}
	}

	str(c.Database.Host, OptDatabaseHost)
	num(c.Database.Port, OptDatabasePort)
	str(c.Database.User, OptDatabaseUser)
	str(c.Database.Password, OptDatabasePassword)
	str(c.Database.Database, OptDatabaseDatabase)
	str(c.Database.SSLMode, OptDatabaseSSLMode)
	num(c.Database.BatchSize, OptDatabaseBatchSize)

	str(c.Log.Format, OptLogFormat)
	str(c.Log.Level, OptLogLevel)
	str(c.Log.Destination, OptLogDestination)

	str(c.Server.Host, OptServerHost)
	num(c.Server.Port, OptServerPort)

	num(c.PostsPerPage, OptPostsPerPage)
	return res
}

func isValidString(name, s string) bool {
	res := s != ""
	if !res {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
	}
	return res
}

func isValidInt(name string, i int) bool {
	res := i > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %d", name, i)
	}
	return res
}

func isValidPort(name string, i int) bool {
	res := i > 0 && i <= 65535
	if !res {
		gn.Warn("<em>%s</em> has to be between 1 and 65535, ignoring %d",
			name, i)
	}
	return res
}

func isValidEnum(name, val string) bool {
	vals := enums[name]
	if slices.Contains(vals, val) {
		return true
	}
	gn.Warn(
		"<em>%s</em> does not support '%s' as a value. "+
			"Valid values are: %s. Ignoring...",
		name, val, strings.Join(vals, ", "),
	)
	return false
}
