package naming

import (
	"testing"

	"github.com/broady/typedwamp/contract"
)

func TestCaseTransforms(t *testing.T) {
	tests := []struct {
		input string
		style string
		want  string
	}{
		{"", CaseCamel, ""},
		{"simple", CaseCamel, "simple"},
		{"Simple", CaseCamel, "simple"},
		{"my_field", CaseCamel, "myField"},
		{"MY_FIELD", CaseCamel, "myField"},
		{"Add2", CaseCamel, "add2"},
		{"OnTick", CaseCamel, "onTick"},
		{"simple", CasePascal, "Simple"},
		{"my_field", CasePascal, "MyField"},
		{"UPPER_CASE", CasePascal, "UpperCase"},
		{"MyField", CaseSnake, "my_field"},
		{"HTTPResponse", CaseSnake, "h_t_t_p_response"},
		{"MyField", CaseKebab, "my-field"},
		{"myField", CaseKebab, "my-field"},
		{"MyField", CasePreserve, "MyField"},
		{"MyField", "", "MyField"},
	}

	for _, tt := range tests {
		t.Run(tt.style+"/"+tt.input, func(t *testing.T) {
			got := ApplyCase(tt.input, tt.style)
			if got != tt.want {
				t.Errorf("ApplyCase(%q, %q) = %q, want %q", tt.input, tt.style, got, tt.want)
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "_"},
		{"userName", "userName"},
		{"123abc", "_123abc"},
		{"my-field", "my_field"},
		{"my.field", "my_field"},
		{"interface", "interface_"},
		{"default", "default_"},
		{"delete", "delete_"},
		{"$ref", "$ref"},
		{"_private", "_private"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDefault_TypeName(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		id   contract.Identifier
		want string
	}{
		{
			name: "preserve",
			id:   contract.Identifier{Name: "ArgumentsService", Package: "example.com/api"},
			want: "ArgumentsService",
		},
		{
			name: "prefix and suffix",
			opts: Options{TypePrefix: "API", TypeSuffix: "DTO"},
			id:   contract.Identifier{Name: "User"},
			want: "APIUserDTO",
		},
		{
			name: "snake case with prefix",
			opts: Options{TypePrefix: "api_", TypeCase: CaseSnake},
			id:   contract.Identifier{Name: "UserType"},
			want: "api_user_type",
		},
		{
			name: "trim interface prefix",
			opts: Options{TrimInterfacePrefix: true},
			id:   contract.Identifier{Name: "IArgumentsService"},
			want: "ArgumentsService",
		},
		{
			name: "trim leaves ordinary I words",
			opts: Options{TrimInterfacePrefix: true},
			id:   contract.Identifier{Name: "Inventory"},
			want: "Inventory",
		},
		{
			name: "reserved type name escaped",
			id:   contract.Identifier{Name: "string"},
			want: "string_",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := New(tt.opts).TypeName(tt.id); got != tt.want {
				t.Errorf("TypeName(%v) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestDefault_Qualify(t *testing.T) {
	const prefix = "github.com/myorg/myrepo/"
	tests := []struct {
		name   string
		prefix string
		id     contract.Identifier
		want   string
	}{
		{"main package not qualified", prefix, contract.Identifier{Name: "User", Package: "github.com/myorg/myrepo/api"}, "User"},
		{"empty package not qualified", prefix, contract.Identifier{Name: "User"}, "User"},
		{"sibling package qualified", prefix, contract.Identifier{Name: "User", Package: "github.com/myorg/myrepo/models"}, "models_User"},
		{"nested package qualified", prefix, contract.Identifier{Name: "User", Package: "github.com/myorg/myrepo/api/v1"}, "api_v1_User"},
		{"external package uses full path", prefix, contract.Identifier{Name: "Config", Package: "github.com/other/lib"}, "github_com_other_lib_Config"},
		{"no prefix configured", "", contract.Identifier{Name: "User", Package: "github.com/myorg/myrepo/models"}, "User"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := New(Options{MainPackage: "github.com/myorg/myrepo/api", StripPackagePrefix: tt.prefix})
			if got := n.TypeName(tt.id); got != tt.want {
				t.Errorf("TypeName(%v) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestDefault_MethodAndParamNames(t *testing.T) {
	n := New(Options{})

	methods := map[string]string{
		"Ping":    "ping",
		"Add2":    "add2",
		"OnTick":  "onTick",
		"Delete":  "delete_",
		"GetHTTP": "getHTTP",
	}
	for in, want := range methods {
		if got := n.MethodName(contract.Method{Name: in}); got != want {
			t.Errorf("MethodName(%q) = %q, want %q", in, got, want)
		}
	}

	params := map[string]string{
		"nick":      "nick",
		"user_name": "userName",
		"Value":     "value",
		"default":   "default_",
	}
	for in, want := range params {
		if got := n.ParamName(contract.Param{Name: in}); got != want {
			t.Errorf("ParamName(%q) = %q, want %q", in, got, want)
		}
	}

	preserve := New(Options{MethodCase: CasePreserve, ParamCase: CasePreserve})
	if got := preserve.MethodName(contract.Method{Name: "Ping"}); got != "Ping" {
		t.Errorf("preserve MethodName = %q, want Ping", got)
	}
	if got := preserve.ParamName(contract.Param{Name: "Nick"}); got != "Nick" {
		t.Errorf("preserve ParamName = %q, want Nick", got)
	}
}

func TestNew_Defaults(t *testing.T) {
	opts := New(Options{}).Options()
	if opts.MethodCase != CaseCamel || opts.ParamCase != CaseCamel || opts.TypeCase != CasePreserve {
		t.Errorf("New(Options{}).Options() = %+v, want camel/camel/preserve", opts)
	}
}
