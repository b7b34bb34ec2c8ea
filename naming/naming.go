// Package naming turns Go identifiers into TypeScript identifiers.
//
// The mapper and emitters never build identifiers themselves; they ask a
// Namer. Casing, prefixes, package qualification and reserved-word escaping
// all live here.
package naming

import (
	"strings"

	"github.com/broady/typedwamp/contract"
)

// Namer provides target-language names for types, methods and parameters.
// Implementations MUST be deterministic and safe for concurrent use.
type Namer interface {
	// TypeName names a contract, a named type or a generic definition.
	TypeName(id contract.Identifier) string

	// MethodName names a contract method.
	MethodName(m contract.Method) string

	// ParamName names a method parameter.
	ParamName(p contract.Param) string
}

// Options configures the Default namer.
type Options struct {
	// TypePrefix is prepended to all type names.
	TypePrefix string `yaml:"typePrefix" json:"typePrefix"`

	// TypeSuffix is appended to all type names.
	TypeSuffix string `yaml:"typeSuffix" json:"typeSuffix"`

	// TypeCase is the case style for type names. Default: "preserve".
	TypeCase string `yaml:"typeCase" json:"typeCase" validate:"omitempty,oneof=preserve camel pascal snake kebab"`

	// MethodCase is the case style for method aliases. Default: "camel".
	MethodCase string `yaml:"methodCase" json:"methodCase" validate:"omitempty,oneof=preserve camel pascal snake kebab"`

	// ParamCase is the case style for parameter aliases. Default: "camel".
	ParamCase string `yaml:"paramCase" json:"paramCase" validate:"omitempty,oneof=preserve camel pascal snake kebab"`

	// TrimInterfacePrefix strips a leading "I" from type names when it is
	// followed by an upper-case letter (IArgumentsService → ArgumentsService).
	TrimInterfacePrefix bool `yaml:"trimInterfacePrefix" json:"trimInterfacePrefix"`

	// MainPackage is the package whose types are never qualified.
	MainPackage string `yaml:"-" json:"-"`

	// StripPackagePrefix enables package qualification: types outside
	// MainPackage are prefixed with their package path, minus this prefix,
	// with '/' and '.' replaced by '_'.
	// Example: "github.com/myorg/myrepo/" makes
	// "github.com/myorg/myrepo/api/v1.User" → "api_v1_User".
	StripPackagePrefix string `yaml:"stripPackagePrefix" json:"stripPackagePrefix"`
}

// Default is the default naming policy.
type Default struct {
	opts Options
}

var _ Namer = (*Default)(nil)

// New returns a Default namer. Empty MethodCase and ParamCase default to
// camel case; an empty TypeCase preserves type names.
func New(opts Options) *Default {
	if opts.MethodCase == "" {
		opts.MethodCase = CaseCamel
	}
	if opts.ParamCase == "" {
		opts.ParamCase = CaseCamel
	}
	if opts.TypeCase == "" {
		opts.TypeCase = CasePreserve
	}
	return &Default{opts: opts}
}

// Options returns the effective options.
func (n *Default) Options() Options { return n.opts }

// TypeName implements Namer.
func (n *Default) TypeName(id contract.Identifier) string {
	name := id.Name
	if n.opts.TrimInterfacePrefix && hasInterfacePrefix(name) {
		name = name[1:]
	}
	name = n.qualify(id.Package, name)
	name = ApplyCase(n.opts.TypePrefix+name+n.opts.TypeSuffix, n.opts.TypeCase)
	return Sanitize(name)
}

// MethodName implements Namer.
func (n *Default) MethodName(m contract.Method) string {
	return Sanitize(ApplyCase(m.Name, n.opts.MethodCase))
}

// ParamName implements Namer.
func (n *Default) ParamName(p contract.Param) string {
	return Sanitize(ApplyCase(p.Name, n.opts.ParamCase))
}

func (n *Default) qualify(pkg, name string) string {
	if n.opts.StripPackagePrefix == "" || pkg == "" || pkg == n.opts.MainPackage {
		return name
	}
	rest := strings.TrimPrefix(pkg, n.opts.StripPackagePrefix)
	rest = strings.NewReplacer("/", "_", ".", "_", "-", "_").Replace(rest)
	return rest + "_" + name
}

func hasInterfacePrefix(name string) bool {
	return len(name) > 1 && name[0] == 'I' && name[1] >= 'A' && name[1] <= 'Z'
}
