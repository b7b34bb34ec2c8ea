package check

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/broady/typedwamp"
	"github.com/broady/typedwamp/cmd/typedwamp/internal/cli"
	"github.com/broady/typedwamp/sink"
)

type Cmd struct {
	cli.Source `embed:""`

	Out string `arg:"" optional:"" help:"Compare against the files in this directory and fail if any is stale."`
}

func (c *Cmd) Run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := c.Load(logger)
	if err != nil {
		return err
	}
	if c.Out != "" {
		cfg.OutDir = c.Out
	}

	var (
		s     sink.Sink = sink.NewMemory()
		stale *sink.Check
	)
	if cfg.OutDir != "" {
		stale = sink.NewCheck(cfg.OutDir)
		s = stale
	}

	result, err := typedwamp.Generate(ctx, cfg, s)
	if result != nil {
		for _, f := range result.Files {
			fmt.Printf("✓ %s (%s)\n", f.Contract, f.Path)
		}
	}
	if err != nil {
		return err
	}

	if stale != nil {
		if paths := stale.Stale(); len(paths) > 0 {
			return staleError(cfg.OutDir, paths)
		}
	}
	return nil
}

func staleError(dir string, paths []string) error {
	return fmt.Errorf("generated files are out of date in %s: %s\n\nRun: typedwamp gen %s", dir, strings.Join(paths, ", "), dir)
}
