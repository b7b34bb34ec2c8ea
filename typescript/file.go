// Package typescript renders WAMP contracts as TypeScript for the
// Autobahn|JS runtime.
//
// Each contract yields five declarations: the {S}Metadata table, the callee
// interface {S}, the caller interface {S}Proxy, the {S}ProxyImpl class and
// the {S}Provider class. The base classes RealmServiceProviderBase and
// RealmProxyBase, the IContractRealmServiceProvider interface and the
// keyed dictionary types come from a runtime library.
package typescript

import (
	"strings"

	"github.com/broady/typedwamp/contract"
	"github.com/broady/typedwamp/mapper"
)

// Header is the first line of every generated file.
const Header = "// Code generated by typedwamp. DO NOT EDIT."

// runtimeNames are imported from FileOptions.RuntimeModule.
var runtimeNames = []string{
	"IContractRealmServiceProvider",
	"NumberKeyedDictionary",
	"RealmProxyBase",
	"RealmServiceProviderBase",
	"StringKeyedDictionary",
}

// FileOptions configures GenerateFile.
type FileOptions struct {
	// ExportModule emits an ES module: every declaration is exported and
	// autobahn and when are imported.
	ExportModule bool

	// RuntimeModule is the module the base classes are imported from.
	// Only used with ExportModule. Empty means the runtime is global.
	RuntimeModule string

	// Frontmatter is copied verbatim after the header.
	Frontmatter string

	// EmitComments copies Go doc comments onto the interfaces as JSDoc.
	EmitComments bool
}

// GenerateFile renders the complete TypeScript file for one contract.
func GenerateFile(m *mapper.Mapper, c *contract.Contract, opts FileOptions) (string, error) {
	metadata, err := GenerateMetadata(m, c, opts.ExportModule)
	if err != nil {
		return "", err
	}
	iface, err := generateContract(m, c, opts.ExportModule, opts.EmitComments)
	if err != nil {
		return "", err
	}
	proxy, err := GenerateProxyImpl(m, c, opts.ExportModule)
	if err != nil {
		return "", err
	}
	provider, err := GenerateProvider(m, c, opts.ExportModule)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	buf.WriteString(Header + "\n")
	if !c.Name.IsZero() {
		buf.WriteString("// Contract: " + c.Name.String() + "\n")
	}
	buf.WriteString("\n")

	if opts.ExportModule {
		buf.WriteString(`import * as autobahn from "autobahn";` + "\n")
		buf.WriteString(`import * as When from "when";` + "\n")
		if opts.RuntimeModule != "" {
			buf.WriteString("import { " + strings.Join(runtimeNames, ", ") + " } from " + jsString(opts.RuntimeModule) + ";\n")
		}
		buf.WriteString("\n")
	}

	if fm := strings.TrimSpace(opts.Frontmatter); fm != "" {
		buf.WriteString(fm + "\n\n")
	}

	for _, decl := range []string{metadata, iface, proxy, provider} {
		buf.WriteString(decl)
		buf.WriteString("\n\n")
	}

	return strings.TrimRight(buf.String(), "\n") + "\n", nil
}
