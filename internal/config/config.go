// Package config loads btrc driver configuration from a TOML file. All
// fields are optional; a missing file yields the defaults, so the
// compiler works with zero setup.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultFileName is looked up in the working directory when no explicit
// --config flag is given.
const DefaultFileName = "btrc.toml"

// Config controls driver behavior. It never affects the semantics of
// analysis itself, only how the driver invokes the frontend and reports
// results.
type Config struct {
	// GrammarFile overrides the grammar compiled into the binary.
	GrammarFile string `toml:"grammar_file"`

	// WarningsAsErrors makes any warning fail the compile.
	WarningsAsErrors bool `toml:"warnings_as_errors"`

	// CacheDir is where the compile-result cache database lives. Empty
	// disables caching.
	CacheDir string `toml:"cache_dir"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{}
}

// Load reads the TOML file at path. A missing file is not an error when
// path is DefaultFileName (the implicit lookup); it is when the user
// asked for a specific file.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && filepath.Base(path) == path && path == DefaultFileName {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %q: %w", path, err)
	}
	return cfg, nil
}
