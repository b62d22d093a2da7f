package config

import (
	"slices"
	"strings"
)

const (
	ProfileDevelopment = "development"
	ProfileTesting     = "testing"
	ProfileProduction  = "production"

	// ProfileDefault is used when FLASK_CONFIG is empty.
	ProfileDefault = "default"
)

// Profile is a named set of configuration defaults.
type Profile struct {
	// Name of the profile as given in FLASK_CONFIG.
	Name string

	// Database is the default database name for the profile.
	Database string

	// URLEnv names the environment variable that may hold a complete
	// database URL for the profile.
	URLEnv string

	Debug   bool
	Testing bool

	// LogFormat and LogDestination override logging defaults when set.
	LogFormat      string
	LogDestination string
}

var profiles = map[string]Profile{
	ProfileDevelopment: {
		Name:           ProfileDevelopment,
		Database:       "flasky_dev",
		URLEnv:         "DEV_DATABASE_URL",
		Debug:          true,
		LogFormat:      "text",
		LogDestination: "stderr",
	},
	ProfileTesting: {
		Name:     ProfileTesting,
		Database: "flasky_test",
		URLEnv:   "TEST_DATABASE_URL",
		Testing:  true,
	},
	ProfileProduction: {
		Name:     ProfileProduction,
		Database: "flasky",
		URLEnv:   "DATABASE_URL",
	},
}

// ProfileNames returns the sorted names of known profiles, including
// the "default" alias.
func ProfileNames() []string {
	res := []string{ProfileDefault}
	for k := range profiles {
		res = append(res, k)
	}
	slices.Sort(res)
	return res
}

// LookupProfile finds a profile by name. Empty name and "default"
// resolve to the development profile.
func LookupProfile(name string) (Profile, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == ProfileDefault {
		name = ProfileDevelopment
	}
	p, ok := profiles[name]
	if !ok {
		return Profile{}, UnknownProfileError(name, ProfileNames())
	}
	return p, nil
}

// Options converts the profile to configuration options. The url is the
// value of the profile's URLEnv variable and may be empty.
func (p Profile) Options(url string) []Option {
	res := []Option{
		OptProfile(p.Name),
		OptDebug(p.Debug),
		OptTesting(p.Testing),
		OptDatabaseDatabase(p.Database),
	}
	if url != "" {
		res = append(res, OptDatabaseURL(url))
	}
	if p.LogFormat != "" {
		res = append(res, OptLogFormat(p.LogFormat))
	}
	if p.LogDestination != "" {
		res = append(res, OptLogDestination(p.LogDestination))
	}
	return res
}
