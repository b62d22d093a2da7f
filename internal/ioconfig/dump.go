package ioconfig

import (
	"github.com/gnames/flasky/pkg/config"
	"gopkg.in/yaml.v3"
)

// Dump renders the effective configuration as YAML. Passwords are never
// rendered.
func Dump(cfg *config.Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
