// Package cli holds the flags shared by the typedwamp subcommands.
package cli

import (
	"log/slog"

	"github.com/broady/typedwamp"
)

// Source selects the contracts a command works on.
type Source struct {
	Packages   []string `help:"Package patterns to scan (default: current directory)." short:"p" name:"package"`
	ConfigFile string   `help:"Config file (.yaml, .yml or .json)." short:"c" name:"config" type:"existingfile"`
	Contracts  []string `help:"Contract interface names to include (default: all)." name:"contract"`
}

// Load reads the config file, if any, and applies the flags over it.
// The result is not validated.
func (s *Source) Load(logger *slog.Logger) (*typedwamp.Config, error) {
	cfg := &typedwamp.Config{}
	if s.ConfigFile != "" {
		loaded, err := typedwamp.LoadConfig(s.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
		logger.Debug("loaded config", slog.String("path", s.ConfigFile))
	}

	if len(s.Packages) > 0 {
		cfg.Packages = s.Packages
	}
	if len(cfg.Packages) == 0 && cfg.Provider != typedwamp.ProviderReflection {
		cfg.Packages = []string{"."}
	}
	if len(s.Contracts) > 0 {
		cfg.Contracts = s.Contracts
	}
	cfg.Logger = logger
	return cfg, nil
}
