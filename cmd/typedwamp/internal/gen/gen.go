package gen

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/broady/typedwamp"
	"github.com/broady/typedwamp/cmd/typedwamp/internal/cli"
	"github.com/broady/typedwamp/sink"
)

type Cmd struct {
	cli.Source `embed:""`

	Out         string `arg:"" optional:"" help:"Output directory (default: outDir from the config file)."`
	Module      bool   `help:"Emit ES modules importing autobahn and when." short:"m"`
	Runtime     string `help:"Module the runtime base classes are imported from. Implies --module."`
	FileCase    string `help:"Case of generated file names: preserve, camel, pascal, snake or kebab." name:"file-case"`
	Concurrency int    `help:"Contracts generated in parallel (0: all)." short:"j"`
}

func (c *Cmd) Run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := c.config(logger)
	if err != nil {
		return err
	}

	outDir, err := filepath.Abs(cfg.OutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	result, err := typedwamp.Generate(ctx, cfg, sink.NewDir(outDir))
	if result != nil {
		for _, f := range result.Files {
			fmt.Printf("✓ %s → %s\n", f.Contract.Name, filepath.Join(outDir, filepath.FromSlash(f.Path)))
		}
	}
	return err
}

// config applies the gen flags over the shared source config. Flags win
// over the config file; --runtime implies --module.
func (c *Cmd) config(logger *slog.Logger) (*typedwamp.Config, error) {
	cfg, err := c.Load(logger)
	if err != nil {
		return nil, err
	}
	if c.Out != "" {
		cfg.OutDir = c.Out
	}
	if cfg.OutDir == "" {
		return nil, fmt.Errorf("no output directory: pass <out> or set outDir in the config file")
	}
	if c.Module {
		cfg.ExportModule = true
	}
	if c.Runtime != "" {
		cfg.ExportModule = true
		cfg.RuntimeModule = c.Runtime
	}
	if c.FileCase != "" {
		cfg.FileCase = c.FileCase
	}
	if c.Concurrency != 0 {
		cfg.Concurrency = c.Concurrency
	}
	return cfg, nil
}
