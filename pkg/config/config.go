package config

import (
	"flag"
	"fmt"
	"io"
	"net/url"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"

	"github.com/ekaya-inc/dtdl2oas/pkg/apperrors"
)

// DefaultServer is the base URL written to the document when none is configured.
const DefaultServer = "http://localhost:8080/"

// Config holds all configuration for dtdl2oas.
// Values come from an optional YAML file (-config), then environment variables, then
// command-line flags. Flags only override when given explicitly. An -env-file is loaded
// into the environment first; variables that are already set keep their values.
type Config struct {
	Env      string `yaml:"env" env:"DTDL2OAS_ENV" env-default:"local"`
	LogLevel string `yaml:"log_level" env:"DTDL2OAS_LOG_LEVEL" env-default:"info"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Server is the base URL of the API implementation, published in the servers block.
	Server string `yaml:"server" env:"DTDL2OAS_SERVER" env-default:"http://localhost:8080/"`

	// Input files
	InputPath       string `yaml:"input_path" env:"DTDL2OAS_INPUT_PATH"`
	MappingsPath    string `yaml:"mappings_path" env:"DTDL2OAS_MAPPINGS_PATH"`
	AnnotationsPath string `yaml:"annotations_path" env:"DTDL2OAS_ANNOTATIONS_PATH"`
	NamespacesPath  string `yaml:"namespaces_path" env:"DTDL2OAS_NAMESPACES_PATH"` // optional

	// OutputPath receives the document. A .json extension selects JSON output.
	OutputPath string `yaml:"output_path" env:"DTDL2OAS_OUTPUT_PATH"`

	// Strict rejects mapping rows that reference unknown entities instead of skipping them.
	Strict bool `yaml:"strict" env:"DTDL2OAS_STRICT" env-default:"false"`

	// Validate runs the OpenAPI validator over the serialized document before writing it.
	Validate bool `yaml:"validate" env:"DTDL2OAS_VALIDATE" env-default:"true"`
}

// flagValues mirrors the command-line surface. Only flags the user set are applied.
type flagValues struct {
	configPath  string
	envFile     string
	server      string
	input       string
	mappings    string
	annotations string
	output      string
	namespaces  string
	strict      bool
	validate    bool
	logLevel    string
}

// Load parses args, reads the optional config file and the environment, applies the
// explicitly set flags and validates the result. Usage and parse errors are written to
// output. A -h/-help request returns flag.ErrHelp.
func Load(version string, args []string, output io.Writer) (*Config, error) {
	fs := flag.NewFlagSet("dtdl2oas", flag.ContinueOnError)
	fs.SetOutput(output)

	var fv flagValues
	fs.StringVar(&fv.configPath, "config", "", "path to a YAML configuration file")
	fs.StringVar(&fv.envFile, "env-file", "", "path to a .env file with DTDL2OAS_* variables")
	for _, name := range []string{"s", "server"} {
		fs.StringVar(&fv.server, name, DefaultServer, "base URL of the API implementation")
	}
	for _, name := range []string{"i", "input"} {
		fs.StringVar(&fv.input, name, "", "ontology file or directory of DTDL JSON files")
	}
	for _, name := range []string{"m", "mappings"} {
		fs.StringVar(&fv.mappings, name, "", "CSV file mapping resource names to DTDL Interfaces")
	}
	for _, name := range []string{"a", "annotations"} {
		fs.StringVar(&fv.annotations, name, "", "ontology annotations (key=value file or .nuspec manifest)")
	}
	for _, name := range []string{"o", "output"} {
		fs.StringVar(&fv.output, name, "", "path of the generated OpenAPI document (.yaml or .json)")
	}
	for _, name := range []string{"n", "namespaces"} {
		fs.StringVar(&fv.namespaces, name, "", "optional YAML file mapping namespaces to abbreviations")
	}
	fs.BoolVar(&fv.strict, "strict", false, "fail on mapping rows that reference unknown entities")
	fs.BoolVar(&fv.validate, "validate", true, "validate the generated document")
	fs.StringVar(&fv.logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected arguments %v", apperrors.ErrInvalidConfig, fs.Args())
	}

	if fv.envFile != "" {
		if err := godotenv.Load(fv.envFile); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", fv.envFile, err)
		}
	}

	cfg := &Config{
		Version: version,
	}

	if fv.configPath != "" {
		if err := cleanenv.ReadConfig(fv.configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", fv.configPath, err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	fs.Visit(func(f *flag.Flag) {
		cfg.applyFlag(f.Name, &fv)
	})

	if err := cfg.Check(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFlag copies one explicitly set flag into the config.
func (c *Config) applyFlag(name string, fv *flagValues) {
	switch name {
	case "s", "server":
		c.Server = fv.server
	case "i", "input":
		c.InputPath = fv.input
	case "m", "mappings":
		c.MappingsPath = fv.mappings
	case "a", "annotations":
		c.AnnotationsPath = fv.annotations
	case "o", "output":
		c.OutputPath = fv.output
	case "n", "namespaces":
		c.NamespacesPath = fv.namespaces
	case "strict":
		c.Strict = fv.strict
	case "validate":
		c.Validate = fv.validate
	case "log-level":
		c.LogLevel = fv.logLevel
	}
}

// Check reports every missing or malformed setting in one ErrInvalidConfig error.
func (c *Config) Check() error {
	var errs []error
	required := []struct {
		name  string
		value string
	}{
		{"input", c.InputPath},
		{"mappings", c.MappingsPath},
		{"annotations", c.AnnotationsPath},
		{"output", c.OutputPath},
	}
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, fmt.Errorf("-%s is required", r.name))
		}
	}

	if c.Server != "" {
		u, err := url.Parse(c.Server)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("server %q is not an absolute URL", c.Server))
		}
	}

	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log level: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", apperrors.ErrInvalidConfig, multierr.Combine(errs...))
	}
	return nil
}

// IsLocal reports whether the run uses the local (development) environment.
func (c *Config) IsLocal() bool {
	return c.Env == "" || c.Env == "local"
}
