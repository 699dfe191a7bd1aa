package diagnostics

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/text/width"
)

// ColorMode selects when the renderer emits ANSI colors.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

const (
	ansiRed    = "\x1b[31;1m"
	ansiYellow = "\x1b[33;1m"
	ansiBlue   = "\x1b[34m"
	ansiReset  = "\x1b[0m"
)

// Renderer prints diagnostics with a source snippet and a caret under the
// offending column. The caret line always follows the diagnostic's own line.
type Renderer struct {
	Source string
	File   string
	Color  ColorMode

	lines []string
}

func NewRenderer(source, file string, mode ColorMode) *Renderer {
	return &Renderer{Source: source, File: file, Color: mode, lines: strings.Split(source, "\n")}
}

func (r *Renderer) useColor(w io.Writer) bool {
	switch r.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Render writes every diagnostic in d to w.
func (r *Renderer) Render(w io.Writer, d Diagnostics) error {
	color := r.useColor(w)
	for _, e := range d {
		if _, err := io.WriteString(w, r.format(e, color)); err != nil {
			return err
		}
	}
	return nil
}

// Snippet renders a single diagnostic without colors.
func (r *Renderer) Snippet(e *DiagnosticError) string {
	return r.format(e, false)
}

func (r *Renderer) format(e *DiagnosticError, color bool) string {
	var b strings.Builder
	paint := func(code, s string) string {
		if !color {
			return s
		}
		return code + s + ansiReset
	}

	head := fmt.Sprintf("%s[%s]", e.Severity, e.Code)
	if e.IsWarning() {
		head = paint(ansiYellow, head)
	} else {
		head = paint(ansiRed, head)
	}
	file := e.File
	if file == "" {
		file = r.File
	}
	line, col := e.Token.Line, e.Token.Column
	if file != "" {
		fmt.Fprintf(&b, "%s:%d:%d: %s: %s\n", file, line, col, head, e.Message())
	} else {
		fmt.Fprintf(&b, "%d:%d: %s: %s\n", line, col, head, e.Message())
	}

	if line < 1 || line > len(r.lines) {
		return b.String()
	}
	if col < 1 {
		col = 1
	}
	gutter := func(n int) string { return paint(ansiBlue, fmt.Sprintf("%4d | ", n)) }
	empty := paint(ansiBlue, "     | ")

	if line > 1 {
		b.WriteString(gutter(line - 1))
		b.WriteString(r.lines[line-2])
		b.WriteByte('\n')
	}
	text := r.lines[line-1]
	b.WriteString(gutter(line))
	b.WriteString(text)
	b.WriteByte('\n')

	span := e.Span()
	b.WriteString(empty)
	b.WriteString(caretPadding(text, col))
	b.WriteString(paint(ansiRed, strings.Repeat("^", caretWidth(text, col, span.Length))))
	b.WriteByte('\n')

	if line < len(r.lines) {
		b.WriteString(gutter(line + 1))
		b.WriteString(r.lines[line])
		b.WriteByte('\n')
	}
	return b.String()
}

// caretPadding reproduces the display width of text before the 1-based
// rune column col. Tabs are kept so the caret lines up in any terminal.
func caretPadding(text string, col int) string {
	var b strings.Builder
	i := 1
	for _, r := range text {
		if i >= col {
			break
		}
		if r == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteString(strings.Repeat(" ", runeWidth(r)))
		}
		i++
	}
	if i < col {
		b.WriteString(strings.Repeat(" ", col-i))
	}
	return b.String()
}

func caretWidth(text string, col, length int) int {
	total := 0
	i := 1
	for _, r := range text {
		if i >= col+length {
			break
		}
		if i >= col {
			total += runeWidth(r)
		}
		i++
	}
	if total == 0 {
		return 1
	}
	return total
}

func runeWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	}
	return 1
}
