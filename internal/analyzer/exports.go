package analyzer

import (
	"fmt"
	"math"
	"path"
	"strings"

	"github.com/funvibe/glint/internal/ast"
	"github.com/funvibe/glint/internal/config"
	"github.com/funvibe/glint/internal/diagnostics"
	"github.com/funvibe/glint/internal/prettyprinter"
	"github.com/funvibe/glint/internal/typesystem"
)

// validateExport runs the export checks in a fixed order and stops at the
// first error. A declaration that passes gets a PropertyMetadata entry,
// possibly alongside warnings.
func (w *walker) validateExport(ls *ast.LetStatement, declType typesystem.Type) {
	name := ls.Name.Value
	if ls.Value == nil {
		return
	}

	if !w.isConstant(ls.Value) {
		w.addError(diagnostics.ErrE802, ls.Value.GetToken(), name)
		return
	}
	if !typesystem.IsExportable(declType) {
		w.addError(diagnostics.ErrE803, ls.Name.Token, declType, name)
		return
	}

	hint, ok := w.resolveHint(ls.Export.Hint, name, declType)
	if !ok {
		return
	}

	if !ls.Mutable {
		w.addWarning(diagnostics.WarnW851, ls.Name.Token, name)
	}
	if hint.Kind == ast.HintRange {
		if v, ok := foldNumber(ls.Value); ok && !hint.Contains(v) {
			w.addWarning(diagnostics.WarnW852, ls.Value.GetToken(), name)
		}
	}

	if !w.extract {
		return
	}
	w.properties = append(w.properties, ast.PropertyMetadata{
		Name:       name,
		Type:       declType.String(),
		Hint:       hint,
		HintString: hint.String(),
		Default:    prettyprinter.FormatDefault(ls.Value, declType.String(), w.fieldLookup),
		Mutable:    ls.Mutable,
	})
}

// resolveHint checks that a hint suits the property type and that its
// arguments are well formed, returning the normalized hint.
func (w *walker) resolveHint(h ast.Hint, name string, declType typesystem.Type) (ast.PropertyHint, bool) {
	switch hint := h.(type) {
	case nil:
		return ast.PropertyHint{Kind: ast.HintNone}, true

	case *ast.RangeHint:
		if !typesystem.IsNumeric(declType) {
			w.addError(diagnostics.ErrE804, hint.Token, name, declType)
			return ast.PropertyHint{}, false
		}
		return w.checkRange(hint, name, declType.Equal(typesystem.Int))

	case *ast.EnumHint:
		if !declType.Equal(typesystem.String) {
			w.addError(diagnostics.ErrE805, hint.Token, name, declType)
			return ast.PropertyHint{}, false
		}
		if len(hint.Values) == 0 {
			w.addError(diagnostics.ErrE808, hint.Token, name, "at least one value is required")
			return ast.PropertyHint{}, false
		}
		seen := make(map[string]bool, len(hint.Values))
		for _, v := range hint.Values {
			switch {
			case v == "":
				w.addError(diagnostics.ErrE808, hint.Token, name, "values must not be empty")
				return ast.PropertyHint{}, false
			case strings.Contains(v, ","):
				w.addError(diagnostics.ErrE808, hint.Token, name, fmt.Sprintf("value %q contains a comma", v))
				return ast.PropertyHint{}, false
			}
			if seen[v] {
				w.addError(diagnostics.ErrE810, hint.Token, name, v)
				return ast.PropertyHint{}, false
			}
			seen[v] = true
		}
		return ast.PropertyHint{Kind: ast.HintEnum, Values: append([]string(nil), hint.Values...)}, true

	case *ast.FileHint:
		if !declType.Equal(typesystem.String) {
			w.addError(diagnostics.ErrE806, hint.Token, name, declType)
			return ast.PropertyHint{}, false
		}
		patterns, problem := normalizeFilePatterns(hint.Patterns)
		if problem != "" {
			w.addError(diagnostics.ErrE809, hint.Token, name, problem)
			return ast.PropertyHint{}, false
		}
		return ast.PropertyHint{Kind: ast.HintFile, Values: patterns}, true
	}
	return ast.PropertyHint{Kind: ast.HintNone}, true
}

func (w *walker) checkRange(hint *ast.RangeHint, name string, integral bool) (ast.PropertyHint, bool) {
	fail := func(problem string) (ast.PropertyHint, bool) {
		w.addError(diagnostics.ErrE807, hint.Token, name, problem)
		return ast.PropertyHint{}, false
	}

	for _, v := range []float64{hint.Min, hint.Max, hint.Step} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fail("bounds must be finite")
		}
	}
	if !(hint.Min < hint.Max) {
		return fail(fmt.Sprintf("min %s must be less than max %s", ast.FormatNumber(hint.Min), ast.FormatNumber(hint.Max)))
	}
	step := hint.Step
	if !hint.HasStep {
		step = config.DefaultIntRangeStep
		if !integral {
			step = w.options.FloatRangeStep
		}
	}
	if !(step > 0) {
		return fail("step must be positive")
	}
	if integral && !hint.Integral {
		return fail("i32 range bounds must be integers")
	}
	return ast.PropertyHint{Kind: ast.HintRange, Min: hint.Min, Max: hint.Max, Step: step}, true
}

// normalizeFilePatterns turns "png", ".png" and "*.png" into "*.png".
// Patterns containing a separator are rejected since the hint string is
// comma-joined.
func normalizeFilePatterns(patterns []string) ([]string, string) {
	if len(patterns) == 0 {
		return nil, "at least one pattern is required"
	}
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		switch {
		case p == "":
			return nil, "empty pattern"
		case strings.Contains(p, ","):
			return nil, fmt.Sprintf("pattern %q contains a comma", p)
		}
		if !strings.ContainsAny(p, "*?") {
			p = "*." + strings.TrimPrefix(p, ".")
		}
		if _, err := path.Match(p, ""); err != nil {
			return nil, fmt.Sprintf("pattern %q is malformed", p)
		}
		out = append(out, p)
	}
	return out, ""
}

// isConstant reports whether expr is a literal, a negated or inverted
// literal, or a struct literal whose fields are all constant.
func (w *walker) isConstant(expr ast.Expression) bool {
	switch e := expr.(type) {
	case *ast.IntegerLiteral, *ast.FloatLiteral, *ast.StringLiteral, *ast.BooleanLiteral:
		return true
	case *ast.PrefixExpression:
		return foldable(e)
	case *ast.StructLiteral:
		for _, f := range e.Fields {
			if f == nil || !w.isConstant(f.Value) {
				return false
			}
		}
		return true
	}
	return false
}

func foldable(e *ast.PrefixExpression) bool {
	_, num := foldNumber(e)
	_, boolean := foldBool(e)
	return num || boolean
}

// foldNumber evaluates a numeric constant.
func foldNumber(expr ast.Expression) (float64, bool) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return float64(e.Value), true
	case *ast.FloatLiteral:
		return e.Value, true
	case *ast.PrefixExpression:
		if e.Operator != "-" {
			return 0, false
		}
		v, ok := foldNumber(e.Right)
		return -v, ok
	}
	return 0, false
}

func foldBool(expr ast.Expression) (bool, bool) {
	switch e := expr.(type) {
	case *ast.BooleanLiteral:
		return e.Value, true
	case *ast.PrefixExpression:
		if e.Operator != "!" {
			return false, false
		}
		v, ok := foldBool(e.Right)
		return !v, ok
	}
	return false, false
}
