package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseKeepsDefaults(t *testing.T) {
	opts, err := Parse([]byte("warnings_as_errors: true\n"), "glint.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if !opts.WarningsAsErrors {
		t.Error("warnings_as_errors not applied")
	}
	if opts.MaxParseDepth != DefaultMaxParseDepth || opts.MaxCallDepth != DefaultMaxCallDepth {
		t.Errorf("defaults lost: %+v", opts)
	}
	if opts.FloatRangeStep != DefaultFloatRangeStep {
		t.Errorf("float step %v", opts.FloatRangeStep)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"max_parse_depth: 0", "max_parse_depth"},
		{"max_call_depth: -1", "max_call_depth"},
		{"color: rainbow", "color"},
		{"float_range_step: 0", "float_range_step"},
		{"max_call_depth: [", "parsing"},
	}
	for _, tt := range tests {
		_, err := Parse([]byte(tt.input), "glint.yaml")
		if err == nil {
			t.Errorf("%q: expected error", tt.input)
			continue
		}
		if !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%q: error %q does not mention %q", tt.input, err, tt.want)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glint.yaml")
	if err := os.WriteFile(path, []byte("max_call_depth: 64\ncolor: never\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	opts, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if opts.MaxCallDepth != 64 || opts.Color != "never" {
		t.Errorf("unexpected options %+v", opts)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
