package describe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/broady/typedwamp"
	"github.com/broady/typedwamp/cmd/typedwamp/internal/cli"
	"github.com/broady/typedwamp/contract"
)

type Cmd struct {
	cli.Source `embed:""`

	Compact bool `help:"Print compact JSON."`
}

// Output is the JSON document printed by describe.
type Output struct {
	Contracts []*contract.Contract `json:"contracts"`
	Warnings  []contract.Warning   `json:"warnings,omitempty"`
}

func (c *Cmd) Run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := c.Load(logger)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	contracts, warnings, err := typedwamp.LoadContracts(ctx, cfg)
	if err != nil {
		return err
	}
	return write(os.Stdout, Output{Contracts: contracts, Warnings: warnings}, c.Compact)
}

func write(w io.Writer, out Output, compact bool) error {
	enc := json.NewEncoder(w)
	if !compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode contracts: %w", err)
	}
	return nil
}
