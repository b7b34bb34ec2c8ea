package typedwamp

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/broady/typedwamp/naming"
	"github.com/broady/typedwamp/provider"
)

// Providers accepted by Config.Provider.
const (
	ProviderSource     = "source"
	ProviderReflection = "reflection"
)

// Comment modes accepted by Config.PreserveComments.
const (
	CommentsDefault = "default"
	CommentsNone    = "none"
)

// Config holds the configuration for code generation.
type Config struct {
	// OutDir is the directory where generated files are written.
	// e.g. "./client/src/wamp"
	OutDir string `yaml:"outDir" json:"outDir"`

	// Provider selects the contract extraction strategy.
	// "source" (default) reads //wamp: directives with go/packages.
	// "reflection" works from Interfaces and needs no source.
	Provider string `yaml:"provider" json:"provider" validate:"oneof=source reflection"`

	// Packages are the Go package patterns to scan for //wamp:contract
	// interfaces. Required when Provider is "source".
	// e.g. []string{"./api"}
	Packages []string `yaml:"packages" json:"packages" validate:"required_if=Provider source,dive,required"`

	// Dir is the working directory for package loading.
	// Empty means the current directory.
	Dir string `yaml:"dir" json:"dir"`

	// Contracts restricts generation to these interface names.
	// Empty means every discovered contract.
	Contracts []string `yaml:"contracts" json:"contracts" validate:"dive,required"`

	// Interfaces are the reflected contracts for the reflection provider.
	// They can only be set from Go.
	Interfaces []provider.ReflectionInputOptions `yaml:"-" json:"-" validate:"required_if=Provider reflection"`

	// ExportModule emits ES modules instead of global declarations.
	ExportModule bool `yaml:"exportModule" json:"exportModule"`

	// RuntimeModule is the module providing RealmServiceProviderBase and
	// the other runtime names. Only used with ExportModule.
	RuntimeModule string `yaml:"runtimeModule" json:"runtimeModule" validate:"excluded_without=ExportModule"`

	// Frontmatter is content added to the top of each generated file.
	Frontmatter string `yaml:"frontmatter" json:"frontmatter"`

	// PreserveComments controls whether Go doc comments become JSDoc.
	// Supported values: "default", "none". Default: "default".
	PreserveComments string `yaml:"preserveComments" json:"preserveComments" validate:"oneof=default none"`

	// Naming configures the naming policy.
	Naming naming.Options `yaml:"naming" json:"naming"`

	// FileCase is the case style of generated file names, derived from
	// the contract's TypeScript name. Default: "camel".
	FileCase string `yaml:"fileCase" json:"fileCase" validate:"oneof=preserve camel pascal snake kebab"`

	// Concurrency bounds the contracts generated in parallel.
	// Zero means one per contract.
	Concurrency int `yaml:"concurrency" json:"concurrency" validate:"min=0"`

	// Logger receives progress and warnings. Nil means slog.Default().
	Logger *slog.Logger `yaml:"-" json:"-"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// applyConfigDefaults applies default values to a copy of cfg.
func applyConfigDefaults(cfg *Config) *Config {
	result := *cfg

	if result.Provider == "" {
		result.Provider = ProviderSource
	}
	if result.PreserveComments == "" {
		result.PreserveComments = CommentsDefault
	}
	if result.FileCase == "" {
		result.FileCase = naming.CaseCamel
	}
	if result.Logger == nil {
		result.Logger = slog.Default()
	}

	return &result
}

// Validate reports every problem with the configuration, after defaults.
func (c *Config) Validate() error {
	return c.validate()
}

// validate checks the configuration, skipping the named fields.
func (c *Config) validate(except ...string) error {
	var err error
	if len(except) > 0 {
		err = validate.StructExcept(applyConfigDefaults(c), except...)
	} else {
		err = validate.Struct(applyConfigDefaults(c))
	}
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	var errs []error
	for _, fe := range verrs {
		errs = append(errs, describeFieldError(fe))
	}
	return fmt.Errorf("invalid config: %w", errors.Join(errs...))
}

func describeFieldError(fe validator.FieldError) error {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "oneof":
		return fmt.Errorf("%s must be one of [%s], got %q", field, fe.Param(), fe.Value())
	case "required_if":
		return fmt.Errorf("%s is required when %s", field, strings.Replace(fe.Param(), " ", " is ", 1))
	case "required":
		return fmt.Errorf("%s must not be empty", field)
	case "excluded_without":
		return fmt.Errorf("%s requires %s", field, fe.Param())
	case "min":
		return fmt.Errorf("%s must be at least %s", field, fe.Param())
	default:
		return fmt.Errorf("%s: failed %q validation", field, fe.Tag())
	}
}

// LoadConfig reads a configuration file. The format follows the extension:
// .yaml and .yml are YAML, .json is JSON. Unknown keys are errors.
// The result is not validated so that callers can apply overrides first.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := ParseConfig(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes a configuration in the format named by ext
// (".yaml", ".yml" or ".json").
func ParseConfig(data []byte, ext string) (*Config, error) {
	var cfg Config
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// An empty document leaves the defaults.
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q (expected .yaml, .yml or .json)", ext)
	}
	return &cfg, nil
}
