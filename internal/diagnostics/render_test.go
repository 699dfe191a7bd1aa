package diagnostics

import (
	"bytes"
	"strings"
	"testing"

	"github.com/funvibe/glint/internal/token"
)

func TestSnippetCaretOnOffendingLine(t *testing.T) {
	src := "fn main() {\n    let x = 1\n    let y = 2;\n}"
	tok := token.Token{Type: token.IDENT, Lexeme: "x", Line: 2, Column: 9}
	r := NewRenderer(src, "player.glint", ColorNever)
	out := r.Snippet(NewError(ErrP101, tok, "';'", "let"))

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "player.glint:2:9: error[E101]") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[2], "let x = 1") {
		t.Fatalf("offending line not rendered before caret:\n%s", out)
	}
	caretCol := strings.Index(lines[3], "^")
	if caretCol != strings.Index(lines[2], "x") {
		t.Errorf("caret at %d, want under 'x':\n%s", caretCol, out)
	}
}

func TestSnippetFirstAndLastLine(t *testing.T) {
	src := "let a = ;"
	tok := token.Token{Type: token.SEMICOLON, Lexeme: ";", Line: 1, Column: 9}
	out := NewRenderer(src, "", ColorNever).Snippet(NewError(ErrP102, tok, ";"))
	if !strings.Contains(out, "   1 | let a = ;") {
		t.Fatalf("missing source line:\n%s", out)
	}
	if strings.Count(out, "^") != 1 {
		t.Errorf("expected a single caret:\n%s", out)
	}
}

func TestSnippetWideRunes(t *testing.T) {
	src := `let s = "日本" + 1;`
	tok := token.Token{Type: token.INT, Lexeme: "1", Line: 1, Column: 16}
	out := NewRenderer(src, "", ColorNever).Snippet(NewError(ErrA207, tok, "bad"))
	lines := strings.Split(out, "\n")
	// two wide runes add one extra column each
	if got := strings.Index(lines[2], "^"); got != len("     | ")+15+2 {
		t.Errorf("caret offset %d:\n%s", got, out)
	}
}

func TestRenderNoColorForBuffers(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer("x", "", ColorAuto)
	err := r.Render(&buf, Diagnostics{NewWarning(WarnW851, token.Token{Line: 1, Column: 1, Lexeme: "x"}, "x")})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("colors emitted for non-terminal writer: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "warning[W851]") {
		t.Errorf("missing warning header: %q", buf.String())
	}
}

func TestDiagnosticsSorted(t *testing.T) {
	a := NewError(ErrA201, token.Token{Line: 3, Column: 1}, "a")
	b := NewError(ErrA201, token.Token{Line: 1, Column: 5}, "b")
	dup := NewError(ErrA201, token.Token{Line: 1, Column: 5}, "b")
	got := Diagnostics{a, b, dup}.Sorted()
	if len(got) != 2 || got[0] != b || got[1] != a {
		t.Errorf("unexpected order: %v", got)
	}
	if !got.HasErrors() {
		t.Error("expected errors")
	}
	if (Diagnostics{NewWarning(WarnW851, token.Token{}, "x")}).HasErrors() {
		t.Error("warnings alone must not count as errors")
	}
}

func TestCodeString(t *testing.T) {
	cases := map[ErrorCode]string{ErrL002: "E002", ErrP101: "E101", ErrE801: "E801", WarnW851: "W851", WarnW451: "W451"}
	for code, want := range cases {
		if code.String() != want {
			t.Errorf("%d: got %s, want %s", int(code), code, want)
		}
	}
}
