// Package provider builds contract descriptions from Go code.
//
// SourceProvider is the primary provider: it reads //wamp: directives,
// parameter names, declaration order and doc comments from source.
// ReflectionProvider works from runtime types and takes the same facts
// from explicit method bindings.
package provider

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"slices"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/broady/typedwamp/contract"
	"github.com/broady/typedwamp/internal/directive"
	"github.com/broady/typedwamp/internal/discover"
)

// SourceProvider extracts contracts by analyzing Go source code.
type SourceProvider struct{}

// SourceInputOptions configures source-based contract extraction.
type SourceInputOptions struct {
	// Packages are the Go package patterns to analyze.
	Packages []string

	// Dir is the working directory for package loading.
	// Empty means the current directory.
	Dir string

	// Contracts are the interface names to extract.
	// If empty, every //wamp:contract interface is extracted.
	Contracts []string
}

// Result holds the contracts built by a provider.
type Result struct {
	// Package is the import path of the first input package.
	Package string

	// Contracts in discovery order.
	Contracts []*contract.Contract

	// Warnings contains non-fatal issues encountered.
	Warnings []contract.Warning
}

// BuildContracts loads the packages and builds every selected contract.
func (p *SourceProvider) BuildContracts(ctx context.Context, opts SourceInputOptions) (*Result, error) {
	found, err := discover.Find(ctx, opts.Dir, opts.Packages...)
	if err != nil {
		return nil, err
	}

	var (
		ifaces []discover.Interface
		owners = make(map[*types.TypeName]*packages.Package)
	)
	for _, r := range found {
		for _, iface := range r.Contracts {
			owners[iface.Obj] = r.Package
		}
		ifaces = append(ifaces, r.Contracts...)
	}

	selected, err := discover.Select(ifaces, opts.Contracts)
	if err != nil {
		return nil, err
	}

	result := &Result{Package: mainPackage(found, opts.Packages)}
	for _, iface := range selected {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b := &sourceBuilder{pkg: owners[iface.Obj]}
		c, err := b.buildContract(iface)
		if err != nil {
			return nil, fmt.Errorf("contract %s: %w", iface.Name, err)
		}
		result.Contracts = append(result.Contracts, c)
		result.Warnings = append(result.Warnings, b.warnings...)
	}
	return result, nil
}

// mainPackage returns the import path of the first requested package.
// Load returns packages in dependency order, not input order, so a pattern
// that is not an import path falls back to the first loaded package.
func mainPackage(found []*discover.Result, patterns []string) string {
	for _, r := range found {
		if len(patterns) > 0 && r.PackagePath == patterns[0] {
			return r.PackagePath
		}
	}
	return found[0].PackagePath
}

// sourceBuilder converts one contract interface.
type sourceBuilder struct {
	pkg      *packages.Package
	warnings []contract.Warning
	current  string // type name for warnings
	shaping  map[*types.Named]bool
}

func (b *sourceBuilder) buildContract(iface discover.Interface) (*contract.Contract, error) {
	id := contract.Identifier{Name: iface.Name, Package: b.pkg.PkgPath}
	b.current = iface.Name

	c := &contract.Contract{
		Name:          id,
		Documentation: parseDocumentation(iface.Doc),
		Source:        sourceOf(b.pkg.Fset, iface.Obj.Pos()),
	}

	for _, field := range iface.Type.Methods.List {
		if len(field.Names) == 0 {
			b.warn("EMBEDDED_INTERFACE", fmt.Sprintf("embedded %s in %s is not part of the contract", types.ExprString(field.Type), iface.Name), field.Pos())
			continue
		}
		for _, name := range field.Names {
			fn, _ := b.pkg.TypesInfo.Defs[name].(*types.Func)
			if fn == nil {
				return nil, fmt.Errorf("no type information for method %s", name.Name)
			}
			m, err := b.buildMethod(id, fn, field)
			if err != nil {
				return nil, fmt.Errorf("method %s: %w", name.Name, err)
			}
			c.Methods = append(c.Methods, m)
		}
	}
	return c, nil
}

func (b *sourceBuilder) buildMethod(owner contract.Identifier, fn *types.Func, field *ast.Field) (contract.Method, error) {
	sig := fn.Type().(*types.Signature)
	if sig.Variadic() {
		return contract.Method{}, fmt.Errorf("variadic methods are not supported")
	}

	dirs, err := directive.ParseMethod(b.pkg.Fset, field.Doc)
	if err != nil {
		return contract.Method{}, err
	}

	m := contract.Method{
		Name:          fn.Name(),
		Owner:         owner,
		Marker:        dirs.Marker,
		Documentation: parseDocumentation(field.Doc),
		Source:        sourceOf(b.pkg.Fset, fn.Pos()),
	}

	params := sig.Params()
	start := 0
	if params.Len() > 0 && isContext(params.At(0).Type()) {
		start = 1
	}

	declared := make([]string, 0, params.Len()-start)
	for i := start; i < params.Len(); i++ {
		declared = append(declared, params.At(i).Name())
	}
	names := paramNames(declared)

	used := make(map[string]bool)
	for i := start; i < params.Len(); i++ {
		v := params.At(i)
		name := names[i-start]
		t, err := b.convertType(v.Type())
		if err != nil {
			return contract.Method{}, fmt.Errorf("parameter %s: %w", name, err)
		}
		p := contract.Param{Name: name, Type: t}
		if lit, ok := dirs.Defaults[name]; ok {
			p.Default = &lit
			used[name] = true
		}
		m.Params = append(m.Params, p)
	}

	var unknown []string
	for name := range dirs.Defaults {
		if !used[name] {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return contract.Method{}, fmt.Errorf("%s: default for unknown parameter %s", dirs.Pos, strings.Join(unknown, ", "))
	}

	m.Result, err = b.convertResults(sig.Results())
	if err != nil {
		return contract.Method{}, err
	}
	return m, nil
}

// convertResults maps a result tuple: () → void, (error) → async void,
// (T) → T, (T, error) → async T.
func (b *sourceBuilder) convertResults(results *types.Tuple) (contract.Type, error) {
	switch results.Len() {
	case 0:
		return contract.Void(), nil
	case 1:
		t := results.At(0).Type()
		if isError(t) {
			return contract.Future(nil), nil
		}
		return b.convertType(t)
	case 2:
		first, second := results.At(0).Type(), results.At(1).Type()
		if !isError(second) || isError(first) {
			return nil, fmt.Errorf("unsupported results %s: want (T, error)", results)
		}
		t, err := b.convertType(first)
		if err != nil {
			return nil, err
		}
		return contract.Future(t), nil
	default:
		return nil, fmt.Errorf("unsupported results %s: at most (T, error)", results)
	}
}

// convertType converts a go/types type to a contract type.
func (b *sourceBuilder) convertType(t types.Type) (contract.Type, error) {
	switch typ := types.Unalias(t).(type) {
	case *types.Basic:
		return b.convertBasicType(typ), nil

	case *types.Named:
		return b.convertNamed(typ)

	case *types.Pointer:
		elem, err := b.convertType(typ.Elem())
		if err != nil {
			return nil, err
		}
		return contract.Ptr(elem), nil

	case *types.Slice:
		// encoding/json sends []byte as a base64 string.
		if basic, ok := types.Unalias(typ.Elem()).(*types.Basic); ok && basic.Kind() == types.Byte {
			return contract.String(), nil
		}
		elem, err := b.convertType(typ.Elem())
		if err != nil {
			return nil, err
		}
		return contract.Slice(elem), nil

	case *types.Array:
		elem, err := b.convertType(typ.Elem())
		if err != nil {
			return nil, err
		}
		return contract.Array(elem, int(typ.Len())), nil

	case *types.Map:
		key, err := b.convertType(typ.Key())
		if err != nil {
			return nil, err
		}
		value, err := b.convertType(typ.Elem())
		if err != nil {
			return nil, err
		}
		return contract.MapOf(key, value), nil

	case *types.Interface:
		if !typ.Empty() {
			b.warn("INTERFACE_TYPE", fmt.Sprintf("interface type %s mapped to 'any'", typ), token.NoPos)
		}
		return contract.Any(), nil

	case *types.Struct:
		b.warn("ANONYMOUS_STRUCT", fmt.Sprintf("anonymous struct %s mapped to 'any'", typ), token.NoPos)
		return contract.Any(), nil

	case *types.TypeParam:
		return contract.Ref(typ.Obj().Name(), ""), nil

	case *types.Chan, *types.Signature:
		return nil, fmt.Errorf("unsupported type: %s", t)

	default:
		return nil, fmt.Errorf("unknown type: %T", t)
	}
}

func (b *sourceBuilder) convertNamed(named *types.Named) (contract.Type, error) {
	obj := named.Obj()
	pkgPath := ""
	if obj.Pkg() != nil {
		pkgPath = obj.Pkg().Path()
	}

	switch {
	case pkgPath == "time" && obj.Name() == "Time":
		return contract.Time(), nil
	case pkgPath == "time" && obj.Name() == "Duration":
		return contract.Int(64), nil
	case isError(named):
		b.warn("ERROR_VALUE", "error value outside the result position mapped to 'any'", token.NoPos)
		return contract.Any(), nil
	}

	if iface, ok := named.Underlying().(*types.Interface); ok {
		if !iface.Empty() {
			b.warn("INTERFACE_TYPE", fmt.Sprintf("interface type %s mapped to 'any'", obj.Name()), obj.Pos())
		}
		return contract.Any(), nil
	}

	id := contract.Identifier{Name: obj.Name(), Package: pkgPath}

	// Recursive types (type Tree map[string]Tree) stop at the reference.
	var shape contract.Type
	if !b.shaping[named] {
		if b.shaping == nil {
			b.shaping = make(map[*types.Named]bool)
		}
		b.shaping[named] = true
		var err error
		shape, err = b.structuralShape(named.Underlying())
		delete(b.shaping, named)
		if err != nil {
			return nil, err
		}
	}

	if args := named.TypeArgs(); args.Len() > 0 {
		g := &contract.Generic{Definition: id, Underlying: shape}
		for i := 0; i < args.Len(); i++ {
			arg, err := b.convertType(args.At(i))
			if err != nil {
				return nil, err
			}
			g.Args = append(g.Args, arg)
		}
		return g, nil
	}

	return &contract.Named{Ref: id, Underlying: shape}, nil
}

// structuralShape returns the map or sequence form of a named type's
// underlying type, or nil when it is neither.
func (b *sourceBuilder) structuralShape(u types.Type) (contract.Type, error) {
	switch u.(type) {
	case *types.Map, *types.Slice, *types.Array:
		shape, err := b.convertType(u)
		if err != nil {
			return nil, err
		}
		// []byte collapses to string, which is not a shape.
		if _, ok := shape.(*contract.Primitive); ok {
			return nil, nil
		}
		return shape, nil
	}
	return nil, nil
}

// convertBasicType converts a Go basic type to a contract primitive.
func (b *sourceBuilder) convertBasicType(basic *types.Basic) contract.Type {
	switch basic.Kind() {
	case types.Bool, types.UntypedBool:
		return contract.Bool()
	case types.String, types.UntypedString:
		return contract.String()
	case types.Int, types.UntypedInt:
		return contract.Int(0)
	case types.Int8:
		return contract.Int(8)
	case types.Int16:
		return contract.Int(16)
	case types.Int32, types.UntypedRune:
		return contract.Int(32)
	case types.Int64:
		return contract.Int(64)
	case types.Uint, types.Uintptr:
		return contract.Uint(0)
	case types.Uint8:
		return contract.Uint(8)
	case types.Uint16:
		return contract.Uint(16)
	case types.Uint32:
		return contract.Uint(32)
	case types.Uint64:
		return contract.Uint(64)
	case types.Float32:
		return contract.Float(32)
	case types.Float64, types.UntypedFloat:
		return contract.Float(64)
	default:
		b.warn("UNSUPPORTED_BASIC", fmt.Sprintf("basic type %s mapped to 'any'", basic), token.NoPos)
		return contract.Any()
	}
}

func (b *sourceBuilder) warn(code, msg string, pos token.Pos) {
	w := contract.Warning{Code: code, Message: msg, TypeName: b.current}
	if pos.IsValid() {
		src := sourceOf(b.pkg.Fset, pos)
		w.Source = &src
	}
	b.warnings = append(b.warnings, w)
}

func isContext(t types.Type) bool {
	named, ok := types.Unalias(t).(*types.Named)
	if !ok || named.Obj().Pkg() == nil {
		return false
	}
	return named.Obj().Pkg().Path() == "context" && named.Obj().Name() == "Context"
}

var errorType = types.Universe.Lookup("error").Type()

func isError(t types.Type) bool {
	return types.Identical(t, errorType)
}

// parseDocumentation parses a comment group into Documentation.
// Directive lines are dropped by ast.CommentGroup.Text.
func parseDocumentation(cg *ast.CommentGroup) contract.Documentation {
	if cg == nil {
		return contract.Documentation{}
	}

	text := strings.TrimSpace(cg.Text())
	if text == "" {
		return contract.Documentation{}
	}
	lines := strings.Split(text, "\n")

	var deprecated *string
	for i, line := range lines {
		if strings.HasPrefix(line, "Deprecated:") {
			msg := strings.TrimSpace(strings.TrimPrefix(line, "Deprecated:"))
			deprecated = &msg
			lines = append(lines[:i], lines[i+1:]...)
			break
		}
	}

	var summary string
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			summary = trimmed
			break
		}
	}

	return contract.Documentation{
		Summary:    summary,
		Body:       strings.TrimSpace(strings.Join(lines, "\n")),
		Deprecated: deprecated,
	}
}

func sourceOf(fset *token.FileSet, pos token.Pos) contract.Source {
	if fset == nil || !pos.IsValid() {
		return contract.Source{}
	}
	p := fset.Position(pos)
	return contract.Source{File: p.Filename, Line: p.Line, Column: p.Column}
}
