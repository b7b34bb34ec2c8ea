package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"

	"github.com/broady/typedwamp/cmd/typedwamp/internal/check"
	"github.com/broady/typedwamp/cmd/typedwamp/internal/describe"
	"github.com/broady/typedwamp/cmd/typedwamp/internal/gen"
)

type CLI struct {
	Verbose bool `help:"Enable debug logging." short:"v"`

	Version  VersionCmd   `cmd:"" help:"Print version information."`
	Gen      gen.Cmd      `cmd:"" help:"Generate TypeScript providers and proxies for WAMP contracts."`
	Check    check.Cmd    `cmd:"" help:"Validate contracts without writing files; with <out>, fail on stale files."`
	Describe describe.Cmd `cmd:"" help:"Print discovered contracts as JSON."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(Version())
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cli := &CLI{}
	kctx := kong.Parse(cli,
		kong.Name("typedwamp"),
		kong.Description("Generate typed Autobahn|JS providers and proxies from Go WAMP contracts."),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	err := kctx.Run(logger)
	kctx.FatalIfErrorf(err)
}
