package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/funvibe/glint/internal/token"
)

// HintKind identifies the editor affordance attached to an exported property.
type HintKind int

const (
	HintNone HintKind = iota
	HintRange
	HintEnum
	HintFile
)

var hintKindNames = map[HintKind]string{
	HintNone:  "none",
	HintRange: "range",
	HintEnum:  "enum",
	HintFile:  "file",
}

func (k HintKind) String() string {
	if s, ok := hintKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("HintKind(%d)", int(k))
}

func (k HintKind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

func (k *HintKind) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	for kind, name := range hintKindNames {
		if name == s {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown hint kind %q", s)
}

// ExportAnnotation is `@export` or `@export(hint)` before a global let.
type ExportAnnotation struct {
	Token token.Token // The '@' token
	Hint  Hint        // nil when no hint is given
}

func (ea *ExportAnnotation) GetToken() token.Token {
	if ea == nil {
		return token.Token{}
	}
	return ea.Token
}

// Hint is the parsed argument of an export annotation.
type Hint interface {
	Kind() HintKind
	GetToken() token.Token
}

// RangeHint is `range(min, max[, step])`. Integral is set when every bound
// was written as an integer literal.
type RangeHint struct {
	Token    token.Token // The 'range' identifier
	Min      float64
	Max      float64
	Step     float64
	HasStep  bool
	Integral bool
}

func (rh *RangeHint) Kind() HintKind        { return HintRange }
func (rh *RangeHint) GetToken() token.Token { return rh.Token }

// EnumHint is `enum("A", "B")`.
type EnumHint struct {
	Token  token.Token
	Values []string
}

func (eh *EnumHint) Kind() HintKind        { return HintEnum }
func (eh *EnumHint) GetToken() token.Token { return eh.Token }

// FileHint is `file("*.png", "*.jpg")`. Patterns are kept as written.
type FileHint struct {
	Token    token.Token
	Patterns []string
}

func (fh *FileHint) Kind() HintKind        { return HintFile }
func (fh *FileHint) GetToken() token.Token { return fh.Token }

// PropertyHint is the resolved hint stored in metadata.
type PropertyHint struct {
	Kind   HintKind `yaml:"kind"`
	Min    float64  `yaml:"min"`
	Max    float64  `yaml:"max"`
	Step   float64  `yaml:"step"`
	Values []string `yaml:"values,omitempty"`
}

// String renders the hint in the wire format read by property panels:
// "min,max,step" for ranges, comma-joined values for enums and file
// patterns, "" for no hint.
func (h PropertyHint) String() string {
	switch h.Kind {
	case HintRange:
		return FormatNumber(h.Min) + "," + FormatNumber(h.Max) + "," + FormatNumber(h.Step)
	case HintEnum, HintFile:
		return strings.Join(h.Values, ",")
	}
	return ""
}

// Contains reports whether v lies within a range hint. Non-range hints
// contain everything.
func (h PropertyHint) Contains(v float64) bool {
	if h.Kind != HintRange {
		return true
	}
	return v >= h.Min && v <= h.Max
}

// Clamp bounds v to a range hint.
func (h PropertyHint) Clamp(v float64) float64 {
	if h.Kind != HintRange {
		return v
	}
	if v < h.Min {
		return h.Min
	}
	if v > h.Max {
		return h.Max
	}
	return v
}

// FormatNumber prints a hint bound without a trailing ".0".
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// PropertyMetadata describes one exported global. It is produced once per
// compiled program and shared read-only by every runtime instance.
type PropertyMetadata struct {
	Name       string       `yaml:"name"`
	Type       string       `yaml:"type"`
	Hint       PropertyHint `yaml:"hint"`
	HintString string       `yaml:"hint_string"`
	Default    string       `yaml:"default"`
	Mutable    bool         `yaml:"mutable"`
}

// ReadOnly is set for exports of bindings declared without `mut`.
func (m PropertyMetadata) ReadOnly() bool {
	return !m.Mutable
}

type SignalParam struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// SignalInfo is a validated signal declaration.
type SignalInfo struct {
	Name   string        `yaml:"name"`
	Params []SignalParam `yaml:"params"`
}
