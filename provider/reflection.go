package provider

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/broady/typedwamp/contract"
)

// ReflectionProvider extracts a contract using runtime reflection.
//
// Reflection sees neither parameter names nor declaration order nor
// comments, so those come from MethodBindings. Production use cases SHOULD
// prefer the SourceProvider, which reads them from //wamp: directives.
type ReflectionProvider struct{}

// MethodBinding supplies what reflection cannot see about one method.
type MethodBinding struct {
	// Name is the Go method name.
	Name string

	// Marker classifies the method. The zero value leaves it unmarked.
	Marker contract.Marker

	// Params names the parameters after any leading context.Context.
	// Missing names default to arg0, arg1, ...
	Params []string

	// Defaults maps parameter names to TypeScript literals.
	Defaults map[string]string
}

// ReflectionInputOptions configures reflection-based contract extraction.
type ReflectionInputOptions struct {
	// Contract is the interface type, e.g.
	// reflect.TypeOf((*ArgumentsService)(nil)).Elem().
	Contract reflect.Type

	// Methods gives the declaration order and annotations. Interface
	// methods without a binding follow in reflect order, unmarked.
	Methods []MethodBinding
}

// BuildContract builds the contract for an interface type.
func (p *ReflectionProvider) BuildContract(ctx context.Context, opts ReflectionInputOptions) (*contract.Contract, []contract.Warning, error) {
	t := opts.Contract
	if t == nil {
		return nil, nil, fmt.Errorf("no contract type provided")
	}
	if t.Kind() != reflect.Interface {
		return nil, nil, fmt.Errorf("contract %s must be an interface type, got %s", t, t.Kind())
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	b := &reflectionBuilder{current: t.Name()}
	id := contract.Identifier{Name: t.Name(), Package: t.PkgPath()}
	c := &contract.Contract{Name: id}

	bound := make(map[string]bool, len(opts.Methods))
	for _, binding := range opts.Methods {
		if bound[binding.Name] {
			return nil, nil, fmt.Errorf("contract %s: duplicate binding for method %s", t.Name(), binding.Name)
		}
		bound[binding.Name] = true

		rm, ok := t.MethodByName(binding.Name)
		if !ok {
			return nil, nil, fmt.Errorf("contract %s: binding for unknown method %s", t.Name(), binding.Name)
		}
		m, err := b.buildMethod(id, rm, binding)
		if err != nil {
			return nil, nil, fmt.Errorf("contract %s: method %s: %w", t.Name(), binding.Name, err)
		}
		c.Methods = append(c.Methods, m)
	}

	for i := 0; i < t.NumMethod(); i++ {
		rm := t.Method(i)
		if bound[rm.Name] {
			continue
		}
		m, err := b.buildMethod(id, rm, MethodBinding{Name: rm.Name})
		if err != nil {
			return nil, nil, fmt.Errorf("contract %s: method %s: %w", t.Name(), rm.Name, err)
		}
		c.Methods = append(c.Methods, m)
	}

	return c, b.warnings, nil
}

type reflectionBuilder struct {
	warnings []contract.Warning
	current  string
	shaping  map[reflect.Type]bool
}

var (
	contextType = reflect.TypeFor[context.Context]()
	errorIface  = reflect.TypeFor[error]()
	timeType    = reflect.TypeFor[time.Time]()
	durType     = reflect.TypeFor[time.Duration]()
)

func (b *reflectionBuilder) buildMethod(owner contract.Identifier, rm reflect.Method, binding MethodBinding) (contract.Method, error) {
	ft := rm.Type
	if ft.IsVariadic() {
		return contract.Method{}, fmt.Errorf("variadic methods are not supported")
	}

	m := contract.Method{Name: rm.Name, Owner: owner, Marker: binding.Marker}

	start := 0
	if ft.NumIn() > 0 && ft.In(0) == contextType {
		start = 1
	}
	if n := ft.NumIn() - start; len(binding.Params) > n {
		return contract.Method{}, fmt.Errorf("%d parameter names for %d parameters", len(binding.Params), n)
	}

	declared := make([]string, ft.NumIn()-start)
	copy(declared, binding.Params)
	seen := make(map[string]bool, len(declared))
	for _, name := range declared {
		if unnamed(name) {
			continue
		}
		if seen[name] {
			return contract.Method{}, fmt.Errorf("duplicate parameter name %s", name)
		}
		seen[name] = true
	}
	names := paramNames(declared)

	used := make(map[string]bool)
	for i := start; i < ft.NumIn(); i++ {
		name := names[i-start]
		t, err := b.convertType(ft.In(i))
		if err != nil {
			return contract.Method{}, fmt.Errorf("parameter %s: %w", name, err)
		}
		p := contract.Param{Name: name, Type: t}
		if lit, ok := binding.Defaults[name]; ok {
			p.Default = &lit
			used[name] = true
		}
		m.Params = append(m.Params, p)
	}

	var unknown []string
	for name := range binding.Defaults {
		if !used[name] {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return contract.Method{}, fmt.Errorf("default for unknown parameter %s", strings.Join(unknown, ", "))
	}

	result, err := b.convertResults(ft)
	if err != nil {
		return contract.Method{}, err
	}
	m.Result = result
	return m, nil
}

// convertResults applies the same result shapes as the source provider.
func (b *reflectionBuilder) convertResults(ft reflect.Type) (contract.Type, error) {
	switch ft.NumOut() {
	case 0:
		return contract.Void(), nil
	case 1:
		if ft.Out(0) == errorIface {
			return contract.Future(nil), nil
		}
		return b.convertType(ft.Out(0))
	case 2:
		if ft.Out(1) != errorIface || ft.Out(0) == errorIface {
			return nil, fmt.Errorf("unsupported results (%s, %s): want (T, error)", ft.Out(0), ft.Out(1))
		}
		t, err := b.convertType(ft.Out(0))
		if err != nil {
			return nil, err
		}
		return contract.Future(t), nil
	default:
		return nil, fmt.Errorf("unsupported results: %d values, at most (T, error)", ft.NumOut())
	}
}

// convertType converts a reflect.Type to a contract type.
func (b *reflectionBuilder) convertType(t reflect.Type) (contract.Type, error) {
	switch t {
	case timeType:
		return contract.Time(), nil
	case durType:
		return contract.Int(64), nil
	case errorIface:
		b.warn("ERROR_VALUE", "error value outside the result position mapped to 'any'")
		return contract.Any(), nil
	}

	named := t.Name() != "" && t.PkgPath() != ""

	switch t.Kind() {
	case reflect.Ptr:
		elem, err := b.convertType(t.Elem())
		if err != nil {
			return nil, err
		}
		return contract.Ptr(elem), nil

	case reflect.Slice, reflect.Array, reflect.Map:
		if !named {
			return b.convertShape(t)
		}
		// Recursive types (type Tree map[string]Tree) stop at the reference.
		if b.shaping[t] {
			return b.namedRef(t, nil), nil
		}
		if b.shaping == nil {
			b.shaping = make(map[reflect.Type]bool)
		}
		b.shaping[t] = true
		shape, err := b.convertShape(t)
		delete(b.shaping, t)
		if err != nil {
			return nil, err
		}
		if _, ok := shape.(*contract.Primitive); ok {
			shape = nil
		}
		return b.namedRef(t, shape), nil

	case reflect.Interface:
		if t.NumMethod() > 0 {
			b.warn("INTERFACE_TYPE", fmt.Sprintf("interface type %s mapped to 'any'", t))
		}
		return contract.Any(), nil

	case reflect.Struct:
		if !named {
			b.warn("ANONYMOUS_STRUCT", fmt.Sprintf("anonymous struct %s mapped to 'any'", t))
			return contract.Any(), nil
		}
		return b.namedRef(t, nil), nil

	case reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return nil, fmt.Errorf("unsupported type: %s", t)
	}

	if named {
		return b.namedRef(t, nil), nil
	}
	return b.convertBasic(t), nil
}

// convertShape converts the structural form of slices, arrays and maps.
func (b *reflectionBuilder) convertShape(t reflect.Type) (contract.Type, error) {
	switch t.Kind() {
	case reflect.Slice:
		// encoding/json sends []byte as a base64 string.
		if t.Elem().Kind() == reflect.Uint8 {
			return contract.String(), nil
		}
		elem, err := b.convertType(t.Elem())
		if err != nil {
			return nil, err
		}
		return contract.Slice(elem), nil
	case reflect.Array:
		elem, err := b.convertType(t.Elem())
		if err != nil {
			return nil, err
		}
		return contract.Array(elem, t.Len()), nil
	default:
		key, err := b.convertType(t.Key())
		if err != nil {
			return nil, err
		}
		value, err := b.convertType(t.Elem())
		if err != nil {
			return nil, err
		}
		return contract.MapOf(key, value), nil
	}
}

// namedRef references a named type. Reflection cannot recover the type
// arguments of a generic instantiation, so those are referenced by their
// instantiated name and reported.
func (b *reflectionBuilder) namedRef(t reflect.Type, shape contract.Type) contract.Type {
	if strings.Contains(t.Name(), "[") {
		b.warn("GENERIC_INSTANCE", fmt.Sprintf("generic type %s referenced by name; use the source provider for type arguments", t.Name()))
	}
	return &contract.Named{
		Ref:        contract.Identifier{Name: t.Name(), Package: t.PkgPath()},
		Underlying: shape,
	}
}

func (b *reflectionBuilder) convertBasic(t reflect.Type) contract.Type {
	switch t.Kind() {
	case reflect.Bool:
		return contract.Bool()
	case reflect.String:
		return contract.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return contract.Int(bitSize(t))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return contract.Uint(bitSize(t))
	case reflect.Float32, reflect.Float64:
		return contract.Float(t.Bits())
	default:
		b.warn("UNSUPPORTED_BASIC", fmt.Sprintf("type %s mapped to 'any'", t))
		return contract.Any()
	}
}

// bitSize returns 0 for platform-sized int and uint, matching go/types.
func bitSize(t reflect.Type) int {
	switch t.Kind() {
	case reflect.Int, reflect.Uint, reflect.Uintptr:
		return 0
	}
	return t.Bits()
}

func (b *reflectionBuilder) warn(code, msg string) {
	b.warnings = append(b.warnings, contract.Warning{Code: code, Message: msg, TypeName: b.current})
}
