package directive

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/broady/typedwamp/contract"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantKind   Kind
		wantMarker contract.Marker
		wantErr    string
	}{
		{
			name:     "contract",
			text:     "//wamp:contract",
			wantKind: KindContract,
		},
		{
			name:       "procedure",
			text:       "//wamp:procedure com.arguments.ping",
			wantKind:   KindProcedure,
			wantMarker: contract.Procedure("com.arguments.ping"),
		},
		{
			name:     "procedure with options",
			text:     "//wamp:procedure com.arguments.stars invoke=roundrobin match=exact",
			wantKind: KindProcedure,
			wantMarker: contract.Marker{
				Kind:   contract.MarkerProcedure,
				URI:    "com.arguments.stars",
				Match:  contract.MatchExact,
				Invoke: contract.InvokeRoundRobin,
			},
		},
		{
			name:       "topic with prefix match",
			text:       "//wamp:topic com.myapp match=prefix",
			wantKind:   KindTopic,
			wantMarker: contract.Marker{Kind: contract.MarkerTopic, URI: "com.myapp", Match: contract.MatchPrefix},
		},
		{
			name:       "wildcard topic",
			text:       `//wamp:topic com..update match="wildcard"`,
			wantKind:   KindTopic,
			wantMarker: contract.Marker{Kind: contract.MarkerTopic, URI: "com..update", Match: contract.MatchWildcard},
		},
		{
			name:    "unknown verb",
			text:    "//wamp:register com.foo",
			wantErr: "unknown directive //wamp:register",
		},
		{
			name:    "empty",
			text:    "//wamp:",
			wantErr: "empty directive",
		},
		{
			name:    "contract with arguments",
			text:    "//wamp:contract Foo",
			wantErr: "takes no arguments",
		},
		{
			name:    "procedure without uri",
			text:    "//wamp:procedure",
			wantErr: "requires a URI",
		},
		{
			name:    "procedure with option only",
			text:    "//wamp:procedure invoke=first",
			wantErr: "requires a URI",
		},
		{
			name:    "malformed uri",
			text:    "//wamp:procedure com..ping",
			wantErr: "malformed URI",
		},
		{
			name:    "bad invoke policy",
			text:    "//wamp:procedure com.foo invoke=sometimes",
			wantErr: "invoke must be one of",
		},
		{
			name:    "invoke on topic",
			text:    "//wamp:topic com.foo invoke=first",
			wantErr: "unknown option invoke",
		},
		{
			name:    "positional garbage",
			text:    "//wamp:topic com.foo bar",
			wantErr: "unexpected argument",
		},
		{
			name:    "uri twice",
			text:    "//wamp:topic com.foo uri=com.bar",
			wantErr: "URI given twice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Parse(tt.text, token.Position{Filename: "api.go", Line: 3})
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error = %q, want substring %q", err, tt.wantErr)
				}
				if !strings.Contains(err.Error(), "api.go:3") {
					t.Errorf("error %q does not carry the position", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", d.Kind, tt.wantKind)
			}
			if d.Marker != tt.wantMarker {
				t.Errorf("Marker = %+v, want %+v", d.Marker, tt.wantMarker)
			}
		})
	}
}

func TestParse_Defaults(t *testing.T) {
	d, err := Parse(`//wamp:default nick="some body" stars=0 tags=["a", "b"]`, token.Position{})
	if err == nil {
		t.Fatalf("expected error for unquoted space inside array literal, got %v", d.Defaults)
	}

	d, err = Parse(`//wamp:default nick="some \"body\"" stars=0 ok=true`, token.Position{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]string{
		"nick":  `"some \"body\""`,
		"stars": "0",
		"ok":    "true",
	}
	if len(d.Defaults) != len(want) {
		t.Fatalf("Defaults = %v, want %v", d.Defaults, want)
	}
	for k, v := range want {
		if d.Defaults[k] != v {
			t.Errorf("Defaults[%s] = %q, want %q", k, d.Defaults[k], v)
		}
	}

	for _, bad := range []string{
		"//wamp:default",
		"//wamp:default nick",
		"//wamp:default =1",
		"//wamp:default a=1 a=2",
		`//wamp:default nick="open`,
	} {
		if _, err := Parse(bad, token.Position{}); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", bad)
		}
	}
}

func TestIsContract(t *testing.T) {
	tests := []struct {
		lines []string
		want  bool
	}{
		{nil, false},
		{[]string{"// Foo is a service."}, false},
		{[]string{"// Foo is a service.", "//wamp:contract"}, true},
		{[]string{"//wamp:contractual"}, false},
		{[]string{"//wamp:procedure com.foo"}, false},
	}

	for _, tt := range tests {
		var doc *ast.CommentGroup
		if tt.lines != nil {
			doc = &ast.CommentGroup{}
			for _, l := range tt.lines {
				doc.List = append(doc.List, &ast.Comment{Text: l})
			}
		}
		if got := IsContract(doc); got != tt.want {
			t.Errorf("IsContract(%v) = %v, want %v", tt.lines, got, tt.want)
		}
	}
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		name         string
		doc          string
		wantMarker   contract.Marker
		wantDefaults map[string]string
		wantErr      string
	}{
		{
			name: "no directives",
			doc:  "// Close releases resources.",
		},
		{
			name:       "procedure and defaults",
			doc:        "// Stars rates a user.\n//wamp:procedure com.arguments.stars\n//wamp:default nick=\"somebody\"\n//wamp:default stars=0",
			wantMarker: contract.Procedure("com.arguments.stars"),
			wantDefaults: map[string]string{
				"nick":  `"somebody"`,
				"stars": "0",
			},
		},
		{
			name:       "topic",
			doc:        "//wamp:topic com.myapp.topic2",
			wantMarker: contract.Topic("com.myapp.topic2"),
		},
		{
			name:    "procedure and topic",
			doc:     "//wamp:procedure com.foo\n//wamp:topic com.foo",
			wantErr: "already marked as procedure",
		},
		{
			name:    "duplicate default across lines",
			doc:     "//wamp:procedure com.foo\n//wamp:default a=1\n//wamp:default a=2",
			wantErr: "duplicate default for parameter a",
		},
		{
			name:    "contract on method",
			doc:     "//wamp:contract",
			wantErr: "must annotate an interface type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fset := token.NewFileSet()
			src := "package p\n\ntype T interface {\n" + tt.doc + "\n\tM()\n}\n"
			f, err := parser.ParseFile(fset, "p.go", src, parser.ParseComments)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			iface := f.Decls[0].(*ast.GenDecl).Specs[0].(*ast.TypeSpec).Type.(*ast.InterfaceType)
			doc := iface.Methods.List[0].Doc

			m, err := ParseMethod(fset, doc)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error = %v, want substring %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if m.Marker != tt.wantMarker {
				t.Errorf("Marker = %+v, want %+v", m.Marker, tt.wantMarker)
			}
			if len(m.Defaults) != len(tt.wantDefaults) {
				t.Fatalf("Defaults = %v, want %v", m.Defaults, tt.wantDefaults)
			}
			for k, v := range tt.wantDefaults {
				if m.Defaults[k] != v {
					t.Errorf("Defaults[%s] = %q, want %q", k, m.Defaults[k], v)
				}
			}
		})
	}
}

func TestParseMethod_NilDoc(t *testing.T) {
	m, err := ParseMethod(token.NewFileSet(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Marker.Kind != contract.MarkerNone {
		t.Errorf("Marker.Kind = %v, want none", m.Marker.Kind)
	}
}
