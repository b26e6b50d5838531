// Package bootconfig reads the handful of settings that must be known
// before a store.Store can even be opened: where the database file lives,
// and how verbosely to log. Everything else lives in the store-backed
// config registry (package config), which requires an open database to
// read or write and is mutable at runtime without a file rewrite.
package bootconfig

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// File is the bootstrap configuration as decoded from TOML.
//
// Example:
//
//	db_path = ".data/queuectl.db"
//	log_level = "info"
type File struct {
	DBPath   string `toml:"db_path"`
	LogLevel string `toml:"log_level"`
}

// defaultPaths are checked in order when no explicit path is supplied.
var defaultPaths = []string{
	".queuectl.toml",
}

// Load reads the bootstrap file at path. If path is empty, Load checks
// defaultPaths and returns an empty File (not an error) if none exist: the
// bootstrap file is entirely optional, and callers fall back to
// config.Default(config.DBPath) and a default log level.
func Load(path string) (File, error) {
	candidates := []string{path}
	if path == "" {
		candidates = defaultPaths
	}
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		data, err := os.ReadFile(candidate)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return File{}, fmt.Errorf("bootconfig: reading %s: %w", candidate, err)
		}
		var f File
		if err := toml.Unmarshal(data, &f); err != nil {
			return File{}, fmt.Errorf("bootconfig: parsing %s: %w", candidate, err)
		}
		return f, nil
	}
	return File{}, nil
}
