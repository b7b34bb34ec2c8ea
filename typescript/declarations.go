package typescript

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/broady/typedwamp/contract"
	"github.com/broady/typedwamp/mapper"
)

const metadataSource = `{{if .Export}}export {{end}}const {{.Service}}Metadata = {
{{- range .Methods}}
    {{.Alias}}: { uri: {{quote .URI}}, kind: {{quote .Kind.String}}, parameters: [{{parameterNames .}}], options: {{options .}}{{defaults .}} },
{{- end}}
};`

const contractSource = `{{jsdoc .Doc ""}}{{if .Export}}export {{end}}interface {{.Service}} {
{{- range .Methods}}
{{jsdoc .Doc "    "}}    {{.Alias}}({{parameters .}}): {{if .EventHandler}}void{{else}}{{.ReturnType}} | When.Promise<{{.ReturnType}}>{{end}};
{{- end}}
}

{{if .Export}}export {{end}}interface {{.Service}}Proxy {
{{- range .Methods}}
{{jsdoc .Doc "    "}}    {{.Alias}}({{parameters .}}): {{if .EventHandler}}void{{else}}When.Promise<{{.ReturnType}}>{{end}};
{{- end}}
}`

const proxySource = `{{if .Export}}export {{end}}class {{.Service}}ProxyImpl extends RealmProxyBase implements {{.Service}}Proxy {
{{- range $i, $m := .Methods}}
{{- if $i}}
{{end}}
    {{$m.Alias}}({{parameters $m}}): {{if $m.EventHandler}}void{{else}}When.Promise<{{$m.ReturnType}}>{{end}} {
        {{if $m.EventHandler}}super.publishEvent{{else}}return super.invokeProcedure{{end}}({{$.Service}}Metadata.{{$m.Alias}}, [{{arguments $m}}]);
    }
{{- end}}
}`

var declarationFuncs = template.FuncMap{
	"quote":          jsString,
	"parameters":     parameterList,
	"parameterNames": parameterNames,
	"arguments":      argumentList,
	"options":        optionsLiteral,
	"defaults":       defaultsLiteral,
	"jsdoc":          jsdoc,
}

var (
	metadataTemplate = template.Must(template.New("metadata").Funcs(declarationFuncs).Parse(metadataSource))
	contractTemplate = template.Must(template.New("contract").Funcs(declarationFuncs).Parse(contractSource))
	proxyTemplate    = template.Must(template.New("proxy").Funcs(declarationFuncs).Parse(proxySource))
)

// declaration is the mapped form of one contract shared by the companion
// templates.
type declaration struct {
	Service string
	Export  bool
	Doc     contract.Documentation

	// Methods holds the remote methods in declaration order.
	Methods []method
}

type method struct {
	mapper.MethodMetadata
	Doc contract.Documentation
}

// declare maps every remote method of c. Unmarked methods are skipped
// before mapping, so their types never cause a failure.
func declare(m *mapper.Mapper, c *contract.Contract, exportModule, comments bool) (*declaration, error) {
	service, err := serviceName(m, c)
	if err != nil {
		return nil, err
	}

	d := &declaration{Service: service, Export: exportModule}
	if comments {
		d.Doc = c.Documentation
	}
	for _, cm := range c.Methods {
		if cm.Marker.Kind == contract.MarkerNone {
			continue
		}
		md, err := m.MapMethod(cm)
		if err != nil {
			return nil, fmt.Errorf("method %s: %w", cm.Name, err)
		}
		entry := method{MethodMetadata: md}
		if comments {
			entry.Doc = cm.Documentation
		}
		d.Methods = append(d.Methods, entry)
	}
	return d, nil
}

func render(tmpl *template.Template, d *declaration) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, d); err != nil {
		return "", fmt.Errorf("render %s %s: %w", tmpl.Name(), d.Service, err)
	}
	return buf.String(), nil
}

// GenerateMetadata renders the {Service}Metadata lookup table referenced by
// the provider and proxy. Each remote method gets one entry holding its
// URI, kind, parameter names, registration options and any declared
// parameter defaults.
func GenerateMetadata(m *mapper.Mapper, c *contract.Contract, exportModule bool) (string, error) {
	d, err := declare(m, c, exportModule, false)
	if err != nil {
		return "", err
	}
	return render(metadataTemplate, d)
}

// GenerateContract renders the callee interface {Service} and the caller
// interface {Service}Proxy.
//
// Callee procedures may answer synchronously or with a promise; proxy
// procedures always return a promise. Topics return void on both sides.
func GenerateContract(m *mapper.Mapper, c *contract.Contract, exportModule bool) (string, error) {
	return generateContract(m, c, exportModule, false)
}

func generateContract(m *mapper.Mapper, c *contract.Contract, exportModule, comments bool) (string, error) {
	d, err := declare(m, c, exportModule, comments)
	if err != nil {
		return "", err
	}
	return render(contractTemplate, d)
}

// GenerateProxyImpl renders {Service}ProxyImpl, which forwards procedure
// calls to the realm and publishes topic events.
func GenerateProxyImpl(m *mapper.Mapper, c *contract.Contract, exportModule bool) (string, error) {
	d, err := declare(m, c, exportModule, false)
	if err != nil {
		return "", err
	}
	return render(proxyTemplate, d)
}

func parameterList(m method) string {
	parts := make([]string, len(m.Parameters))
	for i, p := range m.Parameters {
		if p.Optional {
			parts[i] = p.Alias + "?: " + p.Type
		} else {
			parts[i] = p.Alias + ": " + p.Type
		}
	}
	return strings.Join(parts, ", ")
}

func argumentList(m method) string {
	names := make([]string, len(m.Parameters))
	for i, p := range m.Parameters {
		names[i] = p.Alias
	}
	return strings.Join(names, ", ")
}

func parameterNames(m method) string {
	names := make([]string, len(m.Parameters))
	for i, p := range m.Parameters {
		names[i] = jsString(p.Alias)
	}
	return strings.Join(names, ", ")
}

// optionsLiteral renders the registration or subscription options.
func optionsLiteral(m method) string {
	var fields []string
	if m.Match != "" {
		fields = append(fields, "match: "+jsString(m.Match))
	}
	if m.Invoke != "" && !m.EventHandler() {
		fields = append(fields, "invoke: "+jsString(m.Invoke))
	}
	if len(fields) == 0 {
		return "{}"
	}
	return "{ " + strings.Join(fields, ", ") + " }"
}

// defaultsLiteral renders the declared defaults keyed by parameter alias,
// so the runtime can fill in omitted trailing arguments.
func defaultsLiteral(m method) string {
	var fields []string
	for _, p := range m.Parameters {
		if p.Optional {
			fields = append(fields, p.Alias+": "+p.Default)
		}
	}
	if len(fields) == 0 {
		return ""
	}
	return ", defaults: { " + strings.Join(fields, ", ") + " }"
}

// jsString quotes s as a JavaScript string literal. JSON strings are a
// subset of JavaScript string literals.
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// jsdoc renders doc as a JSDoc block at the given indent, or "" when empty.
func jsdoc(doc contract.Documentation, prefix string) string {
	if doc.IsZero() {
		return ""
	}
	text := doc.Body
	if text == "" {
		text = doc.Summary
	}

	var buf strings.Builder
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) == 1 && doc.Deprecated == nil {
		buf.WriteString(prefix + "/** " + strings.TrimSpace(lines[0]) + " */\n")
		return buf.String()
	}

	buf.WriteString(prefix + "/**\n")
	for _, line := range lines {
		if line = strings.TrimSpace(line); line == "" {
			buf.WriteString(prefix + " *\n")
			continue
		}
		buf.WriteString(prefix + " * " + line + "\n")
	}
	if doc.Deprecated != nil {
		buf.WriteString(prefix + " * @deprecated")
		if *doc.Deprecated != "" {
			buf.WriteString(" " + *doc.Deprecated)
		}
		buf.WriteString("\n")
	}
	buf.WriteString(prefix + " */\n")
	return buf.String()
}
