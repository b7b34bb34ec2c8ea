package typedwamp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/broady/typedwamp/contract"
	"github.com/broady/typedwamp/naming"
	"github.com/broady/typedwamp/provider"
	"github.com/broady/typedwamp/sink"
)

// Generator provides a fluent API for code generation.
// Create with FromPackages, FromInterfaces or FromContracts and configure
// with method chaining.
//
// Example:
//
//	typedwamp.FromPackages("./api").
//	    ExportModule().
//	    ToDir("./client/src/wamp")
type Generator struct {
	contracts []*contract.Contract // prebuilt, bypasses the provider
	cfg       Config
}

// FromPackages creates a Generator that scans Go packages for
// //wamp:contract interfaces with the source provider.
func FromPackages(patterns ...string) *Generator {
	return &Generator{cfg: Config{Provider: ProviderSource, Packages: patterns}}
}

// FromInterfaces creates a Generator for interfaces described through
// reflection. Use it when the source is not available at generation time.
//
// Example:
//
//	typedwamp.FromInterfaces(provider.ReflectionInputOptions{
//	    Contract: reflect.TypeFor[ArgumentsService](),
//	    Methods: []provider.MethodBinding{
//	        {Name: "Add2", Marker: contract.Procedure("com.arguments.add2"), Params: []string{"a", "b"}},
//	    },
//	}).ToDir("./client/src/wamp")
func FromInterfaces(interfaces ...provider.ReflectionInputOptions) *Generator {
	return &Generator{cfg: Config{Provider: ProviderReflection, Interfaces: interfaces}}
}

// FromContracts creates a Generator for contracts that were already built.
func FromContracts(contracts ...*contract.Contract) *Generator {
	return &Generator{contracts: contracts}
}

// FromConfig creates a Generator from a loaded configuration.
func FromConfig(cfg Config) *Generator {
	return &Generator{cfg: cfg}
}

// Dir sets the working directory for package loading.
func (g *Generator) Dir(dir string) *Generator {
	g.cfg.Dir = dir
	return g
}

// Contracts restricts generation to the named interfaces.
func (g *Generator) Contracts(names ...string) *Generator {
	g.cfg.Contracts = append(g.cfg.Contracts, names...)
	return g
}

// ExportModule emits ES modules importing autobahn and when.
func (g *Generator) ExportModule() *Generator {
	g.cfg.ExportModule = true
	return g
}

// RuntimeModule sets the module the runtime base classes are imported from.
// It implies ExportModule.
func (g *Generator) RuntimeModule(module string) *Generator {
	g.cfg.ExportModule = true
	g.cfg.RuntimeModule = module
	return g
}

// Frontmatter adds content to the top of generated TypeScript files.
func (g *Generator) Frontmatter(content string) *Generator {
	g.cfg.Frontmatter = content
	return g
}

// PreserveComments controls whether Go doc comments are preserved.
// Valid values: "default", "none".
func (g *Generator) PreserveComments(mode string) *Generator {
	g.cfg.PreserveComments = mode
	return g
}

// Naming sets the naming policy options.
func (g *Generator) Naming(opts naming.Options) *Generator {
	g.cfg.Naming = opts
	return g
}

// FileCase sets the case style of generated file names.
func (g *Generator) FileCase(style string) *Generator {
	g.cfg.FileCase = style
	return g
}

// Concurrency bounds the number of contracts generated in parallel.
func (g *Generator) Concurrency(n int) *Generator {
	g.cfg.Concurrency = n
	return g
}

// Logger sets the logger for progress and warnings.
func (g *Generator) Logger(l *slog.Logger) *Generator {
	g.cfg.Logger = l
	return g
}

// Config returns a copy of the accumulated configuration.
func (g *Generator) Config() Config {
	return g.cfg
}

// ToDir generates files into dir.
// This is a terminal operation that writes files to disk.
func (g *Generator) ToDir(dir string) (*Result, error) {
	g.cfg.OutDir = dir
	return g.To(context.Background(), sink.NewDir(dir))
}

// Generate returns generated files in memory without writing to disk.
// Use ToDir to write files to disk instead.
func (g *Generator) Generate() (*Result, error) {
	return g.To(context.Background(), sink.NewMemory())
}

// To generates files into an arbitrary sink.
func (g *Generator) To(ctx context.Context, s sink.Sink) (*Result, error) {
	if g.contracts == nil {
		return Generate(ctx, &g.cfg, s)
	}
	cfg := g.cfg
	// Prebuilt contracts need no provider input.
	if err := cfg.validate("Packages", "Interfaces"); err != nil {
		return nil, err
	}
	selected, err := selectContracts(g.contracts, cfg.Contracts)
	if err != nil {
		return nil, fmt.Errorf("load contracts: %w", err)
	}
	return GenerateContracts(ctx, &cfg, selected, s)
}
