package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Options tune the compiler and the runtime. The zero value is not useful;
// start from Default() or load a glint.yaml file.
type Options struct {
	// MaxParseDepth bounds expression nesting in the parser.
	MaxParseDepth int `yaml:"max_parse_depth"`

	// MaxCallDepth bounds script function recursion at runtime.
	MaxCallDepth int `yaml:"max_call_depth"`

	// WarningsAsErrors promotes every compile warning to an error.
	WarningsAsErrors bool `yaml:"warnings_as_errors"`

	// Color is one of "auto", "always", "never".
	Color string `yaml:"color"`

	// FloatRangeStep is the step used for f32 range hints without one.
	FloatRangeStep float64 `yaml:"float_range_step"`
}

func Default() *Options {
	return &Options{
		MaxParseDepth:  DefaultMaxParseDepth,
		MaxCallDepth:   DefaultMaxCallDepth,
		Color:          "auto",
		FloatRangeStep: DefaultFloatRangeStep,
	}
}

// Load reads and parses a glint.yaml file.
func Load(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses glint.yaml content. Missing keys keep their defaults.
// The path argument is used only for error messages.
func Parse(data []byte, path string) (*Options, error) {
	opts := Default()
	if err := yaml.Unmarshal(data, opts); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := opts.validate(path); err != nil {
		return nil, err
	}
	return opts, nil
}

func (o *Options) validate(path string) error {
	if o.MaxParseDepth <= 0 {
		return fmt.Errorf("%s: max_parse_depth must be positive", path)
	}
	if o.MaxCallDepth <= 0 {
		return fmt.Errorf("%s: max_call_depth must be positive", path)
	}
	switch o.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("%s: color must be auto, always or never, got %q", path, o.Color)
	}
	if !(o.FloatRangeStep > 0) {
		return fmt.Errorf("%s: float_range_step must be positive", path)
	}
	return nil
}
