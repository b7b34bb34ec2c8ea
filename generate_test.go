package typedwamp

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broady/typedwamp/contract"
	"github.com/broady/typedwamp/mapper"
	"github.com/broady/typedwamp/naming"
	"github.com/broady/typedwamp/provider"
	"github.com/broady/typedwamp/sink"
)

const apiPkg = "example.com/api"

func fooContract() *contract.Contract {
	id := contract.Identifier{Name: "Foo", Package: apiPkg}
	return &contract.Contract{
		Name: id,
		Methods: []contract.Method{
			{Name: "Ping", Owner: id, Result: contract.Void(), Marker: contract.Procedure("com.foo.ping")},
			{
				Name:   "OnTick",
				Owner:  id,
				Params: []contract.Param{{Name: "value", Type: contract.Int(0)}},
				Result: contract.Void(),
				Marker: contract.Topic("com.foo.tick"),
			},
		},
	}
}

// badKeyContract maps a bool-keyed dictionary, which is unsupported.
func badKeyContract() *contract.Contract {
	id := contract.Identifier{Name: "Flags", Package: apiPkg}
	return &contract.Contract{
		Name: id,
		Methods: []contract.Method{{
			Name:   "Set",
			Owner:  id,
			Params: []contract.Param{{Name: "flags", Type: contract.MapOf(contract.Bool(), contract.String())}},
			Result: contract.Void(),
			Marker: contract.Procedure("com.flags.set"),
		}},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestGenerateContracts(t *testing.T) {
	mem := sink.NewMemory()
	result, err := GenerateContracts(context.Background(), &Config{Logger: discardLogger()}, []*contract.Contract{fooContract()}, mem)
	require.NoError(t, err)
	require.Len(t, result.Files, 1)

	f := result.Files[0]
	assert.Equal(t, "foo.ts", f.Path)
	assert.Equal(t, fooContract().Name, f.Contract)
	assert.Equal(t, f.Content, mem.Get("foo.ts"))

	content := string(f.Content)
	assert.True(t, strings.HasPrefix(content, "// Code generated by typedwamp. DO NOT EDIT.\n"))
	assert.Contains(t, content, "registerMethodsAsCallee(instance, FooMetadata.ping)")
	assert.Contains(t, content, "registerMethodsAsSubscriber(instance, FooMetadata.onTick)")
	assert.NotContains(t, content, "export ")
}

func TestGenerateContracts_Isolation(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	contracts := []*contract.Contract{fooContract(), badKeyContract()}
	mem := sink.NewMemory()
	result, err := GenerateContracts(context.Background(), &Config{Logger: logger, Concurrency: 1}, contracts, mem)
	require.Error(t, err)

	// The healthy contract is still written.
	require.Len(t, result.Files, 1)
	assert.Equal(t, "foo.ts", result.Files[0].Path)
	assert.Equal(t, []string{"foo.ts"}, mem.Paths())

	var keyErr *mapper.UnsupportedKeyTypeError
	require.True(t, errors.As(err, &keyErr), "error %v should wrap UnsupportedKeyTypeError", err)
	assert.Equal(t, "boolean", keyErr.Mapped)
	assert.Contains(t, err.Error(), "contract example.com/api.Flags: ")
	assert.Contains(t, err.Error(), "received bool keyed dictionary: only number or string keys are supported")

	logs := buf.String()
	assert.Contains(t, logs, "contract generated")
	assert.Contains(t, logs, "contract failed")
}

func TestGenerateContracts_InvalidContract(t *testing.T) {
	c := fooContract()
	c.Methods[1].Marker = contract.Marker{Kind: contract.MarkerTopic, URI: "com.foo.tick", Invoke: contract.InvokeRandom}

	_, err := GenerateContracts(context.Background(), &Config{Logger: discardLogger()}, []*contract.Contract{c}, sink.NewMemory())
	require.Error(t, err)

	var verr *contract.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "invoke_on_topic", verr.Code)
}

func TestGenerateContracts_AliasCollision(t *testing.T) {
	c := fooContract()
	c.Methods[1].Params = []contract.Param{
		{Name: "user_id", Type: contract.Int(0)},
		{Name: "userId", Type: contract.String()},
	}

	mem := sink.NewMemory()
	_, err := GenerateContracts(context.Background(), &Config{Logger: discardLogger()}, []*contract.Contract{c}, mem)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid contract: method OnTick: parameters user_id and userId both map to "userId"`)
	assert.Empty(t, mem.Paths())

	// Preserving case keeps the two names apart.
	_, err = GenerateContracts(context.Background(), &Config{
		Logger: discardLogger(),
		Naming: naming.Options{ParamCase: naming.CasePreserve},
	}, []*contract.Contract{c}, sink.NewMemory())
	require.NoError(t, err)
}

func TestGenerateContracts_PathCollision(t *testing.T) {
	a := fooContract()
	b := fooContract()
	b.Name.Package = "example.com/other"

	_, err := GenerateContracts(context.Background(), &Config{Logger: discardLogger()}, []*contract.Contract{a, b}, sink.NewMemory())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both generate foo.ts")

	// A type suffix does not help: both names still collide.
	cfg := &Config{Logger: discardLogger(), Naming: naming.Options{TypeSuffix: "Api"}}
	_, err = filePaths(applyConfigDefaults(cfg), []*contract.Contract{a, b})
	assert.ErrorContains(t, err, "both generate fooApi.ts")
}

func TestGenerateContracts_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := GenerateContracts(ctx, &Config{Logger: discardLogger()}, []*contract.Contract{fooContract()}, sink.NewMemory())
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, result.Files)
}

// countingSink tracks the maximum number of concurrent writes.
type countingSink struct {
	active, peak atomic.Int32
	inner        sink.Sink
}

func (s *countingSink) WriteFile(ctx context.Context, path string, content []byte) error {
	n := s.active.Add(1)
	defer s.active.Add(-1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}
	return s.inner.WriteFile(ctx, path, content)
}

func TestGenerateContracts_ConcurrencyLimit(t *testing.T) {
	var contracts []*contract.Contract
	for _, name := range []string{"A", "B", "C", "D", "E", "F"} {
		c := fooContract()
		c.Name.Name = name
		contracts = append(contracts, c)
	}

	s := &countingSink{inner: sink.NewMemory()}
	result, err := GenerateContracts(context.Background(), &Config{Logger: discardLogger(), Concurrency: 1}, contracts, s)
	require.NoError(t, err)
	assert.Len(t, result.Files, 6)
	assert.Equal(t, int32(1), s.peak.Load())

	// Files keep contract order regardless of scheduling.
	var paths []string
	for _, f := range result.Files {
		paths = append(paths, f.Path)
	}
	assert.Equal(t, []string{"a.ts", "b.ts", "c.ts", "d.ts", "e.ts", "f.ts"}, paths)
}

func TestFileName(t *testing.T) {
	c := &contract.Contract{Name: contract.Identifier{Name: "IArgumentsService", Package: apiPkg}}

	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"default camel", Config{}, "iArgumentsService.ts"},
		{"kebab", Config{FileCase: naming.CaseKebab}, "i-arguments-service.ts"},
		{"trim interface prefix", Config{Naming: naming.Options{TrimInterfacePrefix: true}}, "argumentsService.ts"},
		{"preserve with suffix", Config{FileCase: naming.CasePreserve, Naming: naming.Options{TrimInterfacePrefix: true, TypeSuffix: "Wamp"}}, "ArgumentsServiceWamp.ts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FileName(&tt.cfg, c))
		})
	}
}

type Calculator interface {
	Add(a, b int) int
	OnResult(value int)
}

func TestFromInterfaces(t *testing.T) {
	result, err := FromInterfaces(provider.ReflectionInputOptions{
		Contract: reflect.TypeFor[Calculator](),
		Methods: []provider.MethodBinding{
			{Name: "Add", Marker: contract.Procedure("com.calc.add"), Params: []string{"a", "b"}},
			{Name: "OnResult", Marker: contract.Topic("com.calc.result"), Params: []string{"value"}},
		},
	}).Logger(discardLogger()).ExportModule().Generate()
	require.NoError(t, err)
	require.Len(t, result.Files, 1)

	f := result.Files[0]
	assert.Equal(t, "calculator.ts", f.Path)
	content := string(f.Content)
	assert.Contains(t, content, `import * as autobahn from "autobahn";`)
	assert.Contains(t, content, "export class CalculatorProvider extends RealmServiceProviderBase")
	assert.Contains(t, content, "registerMethodsAsCallee(instance, CalculatorMetadata.add)")
	assert.Contains(t, content, "add(a: number, b: number): number | When.Promise<number>;")
}

func TestFromContracts(t *testing.T) {
	result, err := FromContracts(fooContract(), badKeyContract()).
		Contracts("Foo").
		Frontmatter("// hello").
		Logger(discardLogger()).
		Generate()
	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	assert.Contains(t, string(result.Files[0].Content), "// hello\n")

	_, err = FromContracts(fooContract()).Contracts("Missing").Logger(discardLogger()).Generate()
	assert.ErrorContains(t, err, `contract "Missing" not found`)

	_, err = FromContracts(fooContract()).FileCase("shouting").Logger(discardLogger()).Generate()
	assert.ErrorContains(t, err, "FileCase must be one of")
}

func TestToDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "wamp")
	result, err := FromContracts(fooContract()).Logger(discardLogger()).ToDir(dir)
	require.NoError(t, err)
	require.Len(t, result.Files, 1)

	got, err := os.ReadFile(filepath.Join(dir, "foo.ts"))
	require.NoError(t, err)
	assert.Equal(t, result.Files[0].Content, got)
}

func TestFromPackages(t *testing.T) {
	t.Setenv("GOWORK", "off")
	dir := t.TempDir()
	files := map[string]string{
		"go.mod": "module " + apiPkg + "\n\ngo 1.22\n",
		"api.go": `package api

import "context"

// ArgumentsService demonstrates argument passing.
//
//wamp:contract
type ArgumentsService interface {
	//wamp:procedure com.arguments.add2
	Add2(ctx context.Context, a, b int) (int, error)

	//wamp:procedure com.arguments.stars
	//wamp:default nick="somebody" stars=0
	Stars(ctx context.Context, nick string, stars int) (string, error)

	//wamp:topic com.myapp.topic2
	OnTopic2(msg string)

	Local()
}
`,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}

	var logs bytes.Buffer
	result, err := FromPackages(".").
		Dir(dir).
		RuntimeModule("@example/wamp-runtime").
		Logger(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))).
		Generate()
	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	assert.Empty(t, result.Warnings)

	f := result.Files[0]
	assert.Equal(t, "argumentsService.ts", f.Path)
	assert.Equal(t, contract.Identifier{Name: "ArgumentsService", Package: apiPkg}, f.Contract)

	content := string(f.Content)
	assert.Contains(t, content, "// Contract: example.com/api.ArgumentsService\n")
	assert.Contains(t, content, `from "@example/wamp-runtime";`)
	assert.Contains(t, content, "registerMethodsAsCallee(instance, ArgumentsServiceMetadata.add2, ArgumentsServiceMetadata.stars)")
	assert.Contains(t, content, "registerMethodsAsSubscriber(instance, ArgumentsServiceMetadata.onTopic2)")
	assert.Contains(t, content, "stars(nick?: string, stars?: number): When.Promise<string>;")
	assert.Contains(t, content, `defaults: { nick: "somebody", stars: 0 }`)
	assert.Contains(t, content, "/** ArgumentsService demonstrates argument passing. */")
	assert.NotContains(t, content, "local(")

	assert.Contains(t, logs.String(), "generating contract")
}

func TestGenerate_InvalidConfig(t *testing.T) {
	_, err := Generate(context.Background(), &Config{Logger: discardLogger()}, sink.NewMemory())
	assert.ErrorContains(t, err, "Packages is required when Provider is source")
}
