// Package typedwamp generates TypeScript service providers and proxies for
// Autobahn|JS from Go interfaces annotated as WAMP contracts.
//
// Annotate an interface:
//
//	//wamp:contract
//	type ArgumentsService interface {
//	    //wamp:procedure com.arguments.add2
//	    Add2(ctx context.Context, a, b int) (int, error)
//
//	    //wamp:topic com.myapp.topic2
//	    OnTick(value int)
//	}
//
// and generate one .ts file per contract:
//
//	typedwamp.FromPackages("./api").ExportModule().ToDir("./client/src/wamp")
package typedwamp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/broady/typedwamp/contract"
	"github.com/broady/typedwamp/mapper"
	"github.com/broady/typedwamp/naming"
	"github.com/broady/typedwamp/provider"
	"github.com/broady/typedwamp/sink"
	"github.com/broady/typedwamp/typescript"
)

// File is one generated TypeScript file.
type File struct {
	// Path is relative to the output directory.
	Path string

	// Contract is the contract the file was generated from.
	Contract contract.Identifier

	Content []byte
}

// Result reports a generation run.
type Result struct {
	// Files in contract order. Contracts that failed have no file.
	Files []File

	// Warnings from contract extraction.
	Warnings []contract.Warning
}

// LoadContracts builds the contracts selected by cfg with its provider.
func LoadContracts(ctx context.Context, cfg *Config) ([]*contract.Contract, []contract.Warning, error) {
	cfg = applyConfigDefaults(cfg)

	switch cfg.Provider {
	case ProviderSource:
		p := &provider.SourceProvider{}
		result, err := p.BuildContracts(ctx, provider.SourceInputOptions{
			Packages:  cfg.Packages,
			Dir:       cfg.Dir,
			Contracts: cfg.Contracts,
		})
		if err != nil {
			return nil, nil, err
		}
		return result.Contracts, result.Warnings, nil

	case ProviderReflection:
		p := &provider.ReflectionProvider{}
		var (
			contracts []*contract.Contract
			warnings  []contract.Warning
		)
		for _, opts := range cfg.Interfaces {
			c, ws, err := p.BuildContract(ctx, opts)
			if err != nil {
				return nil, nil, err
			}
			contracts = append(contracts, c)
			warnings = append(warnings, ws...)
		}
		selected, err := selectContracts(contracts, cfg.Contracts)
		if err != nil {
			return nil, nil, err
		}
		return selected, warnings, nil

	default:
		return nil, nil, fmt.Errorf("unknown provider: %q (expected \"source\" or \"reflection\")", cfg.Provider)
	}
}

// selectContracts keeps the named contracts, in their original order.
func selectContracts(contracts []*contract.Contract, names []string) ([]*contract.Contract, error) {
	if len(names) == 0 {
		return contracts, nil
	}
	byName := make(map[string]*contract.Contract, len(contracts))
	for _, c := range contracts {
		byName[c.Name.Name] = c
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		if byName[n] == nil {
			return nil, fmt.Errorf("contract %q not found", n)
		}
		want[n] = true
	}
	var out []*contract.Contract
	for _, c := range contracts {
		if want[c.Name.Name] {
			out = append(out, c)
		}
	}
	return out, nil
}

// Generate extracts the contracts described by cfg and writes one file per
// contract to s.
func Generate(ctx context.Context, cfg *Config, s sink.Sink) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	contracts, warnings, err := LoadContracts(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("load contracts: %w", err)
	}

	logger := applyConfigDefaults(cfg).Logger
	for _, w := range warnings {
		attrs := []any{slog.String("code", w.Code), slog.String("type", w.TypeName)}
		if w.Source != nil {
			attrs = append(attrs, slog.String("source", w.Source.String()))
		}
		logger.WarnContext(ctx, w.Message, attrs...)
	}

	result, err := GenerateContracts(ctx, cfg, contracts, s)
	if result != nil {
		result.Warnings = warnings
	}
	return result, err
}

// GenerateContracts renders already built contracts and writes them to s.
//
// Contracts are processed in parallel, at most cfg.Concurrency at a time.
// A contract that fails validation or mapping does not stop the others:
// their files are still written, and every failure is returned joined.
func GenerateContracts(ctx context.Context, cfg *Config, contracts []*contract.Contract, s sink.Sink) (*Result, error) {
	cfg = applyConfigDefaults(cfg)
	logger := cfg.Logger

	paths, err := filePaths(cfg, contracts)
	if err != nil {
		return nil, err
	}

	files := make([]*File, len(contracts))
	errs := make([]error, len(contracts))

	var g errgroup.Group
	if cfg.Concurrency > 0 {
		g.SetLimit(cfg.Concurrency)
	}
	for i, c := range contracts {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			start := time.Now()
			name := c.Name.String()
			logger.DebugContext(ctx, "generating contract", slog.String("contract", name), slog.String("path", paths[i]))

			f, err := generateOne(ctx, cfg, c, paths[i], s)
			if err != nil {
				logger.ErrorContext(ctx, "contract failed", slog.String("contract", name), slog.Any("error", err))
				errs[i] = fmt.Errorf("contract %s: %w", name, err)
				return nil
			}
			logger.InfoContext(ctx, "contract generated",
				slog.String("contract", name),
				slog.String("path", f.Path),
				slog.Int("methods", len(c.Methods)),
				slog.Duration("duration", time.Since(start)))
			files[i] = f
			return nil
		})
	}
	_ = g.Wait()

	result := &Result{}
	for _, f := range files {
		if f != nil {
			result.Files = append(result.Files, *f)
		}
	}
	return result, errors.Join(errs...)
}

func generateOne(ctx context.Context, cfg *Config, c *contract.Contract, path string, s sink.Sink) (*File, error) {
	if errs := c.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid contract: %w", errors.Join(errs...))
	}

	m := mapper.New(contractNamer(cfg, c))
	if err := m.CheckAliases(c); err != nil {
		return nil, fmt.Errorf("invalid contract: %w", err)
	}
	content, err := typescript.GenerateFile(m, c, typescript.FileOptions{
		ExportModule:  cfg.ExportModule,
		RuntimeModule: cfg.RuntimeModule,
		Frontmatter:   cfg.Frontmatter,
		EmitComments:  cfg.PreserveComments != CommentsNone,
	})
	if err != nil {
		return nil, err
	}

	f := &File{Path: path, Contract: c.Name, Content: []byte(content)}
	if err := s.WriteFile(ctx, f.Path, f.Content); err != nil {
		return nil, fmt.Errorf("write %s: %w", f.Path, err)
	}
	return f, nil
}

// contractNamer leaves the contract's own package unqualified.
func contractNamer(cfg *Config, c *contract.Contract) *naming.Default {
	opts := cfg.Naming
	opts.MainPackage = c.Name.Package
	return naming.New(opts)
}

// FileName returns the file name for a contract: its TypeScript type name
// in cfg.FileCase, with a .ts extension.
func FileName(cfg *Config, c *contract.Contract) string {
	cfg = applyConfigDefaults(cfg)
	return naming.ApplyCase(contractNamer(cfg, c).TypeName(c.Name), cfg.FileCase) + ".ts"
}

// filePaths names every contract's file and rejects collisions, which
// happen when same-named contracts come from different packages.
func filePaths(cfg *Config, contracts []*contract.Contract) ([]string, error) {
	paths := make([]string, len(contracts))
	owner := make(map[string]contract.Identifier, len(contracts))
	for i, c := range contracts {
		p := FileName(cfg, c)
		if prev, ok := owner[p]; ok {
			return nil, fmt.Errorf("contracts %s and %s both generate %s (set naming.stripPackagePrefix or fileCase)", prev, c.Name, p)
		}
		owner[p] = c.Name
		paths[i] = p
	}
	return paths, nil
}
