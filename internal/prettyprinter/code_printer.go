package prettyprinter

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"github.com/funvibe/glint/internal/ast"
	"golang.org/x/text/unicode/norm"
)

// --- Code Printer (Output looks like source code) ---

// Operator precedence (higher = binds tighter)
var operatorPrecedence = map[string]int{
	"||": 1,
	"&&": 2,
	"==": 3,
	"!=": 3,
	"<":  4,
	">":  4,
	"<=": 4,
	">=": 4,
	"+":  5,
	"-":  5,
	"*":  6,
	"/":  6,
	"%":  6,
}

const prefixPrecedence = 7

func getPrecedence(op string) int {
	if p, ok := operatorPrecedence[op]; ok {
		return p
	}
	return 10
}

type CodePrinter struct {
	buf    bytes.Buffer
	indent int
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{}
}

// Print renders any node as Glint source.
func Print(node ast.Node) string {
	p := NewCodePrinter()
	node.Accept(p)
	return p.String()
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
}

func (p *CodePrinter) writeln() {
	p.buf.WriteByte('\n')
}

func (p *CodePrinter) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("    ")
	}
}

// printExpr prints expr, adding parentheses when it binds looser than its
// parent. Operators are left-associative, so an equal-precedence operand on
// the right needs them too.
func (p *CodePrinter) printExpr(expr ast.Expression, parentPrec int, isRight bool) {
	if expr == nil {
		p.write("<missing>")
		return
	}
	prec := 100
	switch e := expr.(type) {
	case *ast.InfixExpression:
		prec = getPrecedence(e.Operator)
	case *ast.PrefixExpression:
		prec = prefixPrecedence
	}
	needParens := prec < parentPrec || (isRight && prec == parentPrec)
	if needParens {
		p.write("(")
	}
	expr.Accept(p)
	if needParens {
		p.write(")")
	}
}

func (p *CodePrinter) VisitProgram(n *ast.Program) {
	for i, stmt := range n.Statements {
		if i > 0 {
			_, prevFn := n.Statements[i-1].(*ast.FunctionDeclaration)
			_, curFn := stmt.(*ast.FunctionDeclaration)
			if prevFn || curFn {
				p.writeln()
			}
		}
		stmt.Accept(p)
		p.writeln()
	}
}

func (p *CodePrinter) VisitLetStatement(n *ast.LetStatement) {
	if n.Export != nil {
		p.printExport(n.Export)
		p.write(" ")
	}
	p.write("let ")
	if n.Mutable {
		p.write("mut ")
	}
	if n.Name != nil {
		p.write(n.Name.Value)
	}
	if n.TypeAnnotation != nil {
		p.write(": " + n.TypeAnnotation.Name)
	}
	p.write(" = ")
	p.printExpr(n.Value, 0, false)
	p.write(";")
}

func (p *CodePrinter) printExport(ea *ast.ExportAnnotation) {
	p.write("@export")
	switch h := ea.Hint.(type) {
	case *ast.RangeHint:
		p.write("(range(" + formatBound(h.Min, h.Integral) + ", " + formatBound(h.Max, h.Integral))
		if h.HasStep {
			p.write(", " + formatBound(h.Step, h.Integral))
		}
		p.write("))")
	case *ast.EnumHint:
		p.write("(enum(" + quoteList(h.Values) + "))")
	case *ast.FileHint:
		p.write("(file(" + quoteList(h.Patterns) + "))")
	}
}

func formatBound(v float64, integral bool) string {
	if integral {
		return strconv.FormatInt(int64(v), 10)
	}
	return FormatFloat(v)
}

func quoteList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = Quote(v)
	}
	return strings.Join(quoted, ", ")
}

func (p *CodePrinter) VisitFunctionDeclaration(n *ast.FunctionDeclaration) {
	p.write("fn ")
	if n.Name != nil {
		p.write(n.Name.Value)
	}
	p.printParams(n.Parameters)
	if n.ReturnType != nil {
		p.write(" -> " + n.ReturnType.Name)
	}
	p.write(" ")
	if n.Body == nil {
		p.write("{}")
		return
	}
	n.Body.Accept(p)
}

func (p *CodePrinter) printParams(params []*ast.Parameter) {
	p.write("(")
	for i, param := range params {
		if i > 0 {
			p.write(", ")
		}
		p.write(param.Name.Value + ": " + param.Type.String())
	}
	p.write(")")
}

func (p *CodePrinter) VisitSignalDeclaration(n *ast.SignalDeclaration) {
	p.write("signal ")
	if n.Name != nil {
		p.write(n.Name.Value)
	}
	p.printParams(n.Parameters)
	p.write(";")
}

func (p *CodePrinter) VisitStructDeclaration(n *ast.StructDeclaration) {
	p.write("struct " + n.Name.Value + " {")
	if len(n.Fields) == 0 {
		p.write("}")
		return
	}
	p.writeln()
	p.indent++
	for _, f := range n.Fields {
		p.writeIndent()
		p.write(f.Name.Value + ": " + f.Type.String() + ",")
		p.writeln()
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *CodePrinter) VisitBlockStatement(n *ast.BlockStatement) {
	if len(n.Statements) == 0 {
		p.write("{}")
		return
	}
	p.write("{")
	p.writeln()
	p.indent++
	for _, stmt := range n.Statements {
		p.writeIndent()
		stmt.Accept(p)
		p.writeln()
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *CodePrinter) VisitIfStatement(n *ast.IfStatement) {
	p.write("if ")
	p.printExpr(n.Condition, 0, false)
	p.write(" ")
	if n.Consequence != nil {
		n.Consequence.Accept(p)
	}
	if n.Alternative != nil {
		p.write(" else ")
		n.Alternative.Accept(p)
	}
}

func (p *CodePrinter) VisitWhileStatement(n *ast.WhileStatement) {
	p.write("while ")
	p.printExpr(n.Condition, 0, false)
	p.write(" ")
	if n.Body != nil {
		n.Body.Accept(p)
	}
}

func (p *CodePrinter) VisitReturnStatement(n *ast.ReturnStatement) {
	if n.Value == nil {
		p.write("return;")
		return
	}
	p.write("return ")
	p.printExpr(n.Value, 0, false)
	p.write(";")
}

func (p *CodePrinter) VisitBreakStatement(n *ast.BreakStatement) {
	p.write("break;")
}

func (p *CodePrinter) VisitContinueStatement(n *ast.ContinueStatement) {
	p.write("continue;")
}

func (p *CodePrinter) VisitExpressionStatement(n *ast.ExpressionStatement) {
	p.printExpr(n.Expression, 0, false)
	p.write(";")
}

func (p *CodePrinter) VisitAssignStatement(n *ast.AssignStatement) {
	p.printExpr(n.Target, 0, false)
	p.write(" " + n.Operator + " ")
	p.printExpr(n.Value, 0, false)
	p.write(";")
}

func (p *CodePrinter) VisitIdentifier(n *ast.Identifier) {
	p.write(n.Value)
}

func (p *CodePrinter) VisitIntegerLiteral(n *ast.IntegerLiteral) {
	p.write(strconv.FormatInt(n.Value, 10))
}

func (p *CodePrinter) VisitFloatLiteral(n *ast.FloatLiteral) {
	p.write(FormatFloat(n.Value))
}

func (p *CodePrinter) VisitStringLiteral(n *ast.StringLiteral) {
	p.write(Quote(n.Value))
}

func (p *CodePrinter) VisitBooleanLiteral(n *ast.BooleanLiteral) {
	if n.Value {
		p.write("true")
	} else {
		p.write("false")
	}
}

func (p *CodePrinter) VisitPrefixExpression(n *ast.PrefixExpression) {
	p.write(n.Operator)
	p.printExpr(n.Right, prefixPrecedence, false)
}

func (p *CodePrinter) VisitInfixExpression(n *ast.InfixExpression) {
	prec := getPrecedence(n.Operator)
	p.printExpr(n.Left, prec, false)
	p.write(" " + n.Operator + " ")
	p.printExpr(n.Right, prec, true)
}

func (p *CodePrinter) VisitCallExpression(n *ast.CallExpression) {
	if n.Function != nil {
		p.write(n.Function.Value)
	}
	p.write("(")
	for i, arg := range n.Arguments {
		if i > 0 {
			p.write(", ")
		}
		p.printExpr(arg, 0, false)
	}
	p.write(")")
}

func (p *CodePrinter) VisitFieldAccessExpression(n *ast.FieldAccessExpression) {
	p.printExpr(n.Object, 100, false)
	p.write(".")
	if n.Field != nil {
		p.write(n.Field.Value)
	}
}

func (p *CodePrinter) VisitStructLiteral(n *ast.StructLiteral) {
	p.write(n.TypeName.Value)
	if len(n.Fields) == 0 {
		p.write(" {}")
		return
	}
	p.write(" { ")
	for i, f := range n.Fields {
		if i > 0 {
			p.write(", ")
		}
		p.write(f.Name.Value + ": ")
		p.printExpr(f.Value, 0, false)
	}
	p.write(" }")
}

// FormatFloat prints an f32 value with the shortest digits that read back
// to the same f32, always keeping a fractional part or an exponent.
func FormatFloat(v float64) string {
	f := float64(float32(v))
	format := byte('f')
	if abs := math.Abs(f); abs != 0 && (abs < 1e-4 || abs >= 1e21) {
		format = 'e'
	}
	s := strconv.FormatFloat(f, format, -1, 32)
	if !strings.ContainsAny(s, ".eEIN") {
		s += ".0"
	}
	return s
}

// Quote renders s as a Glint string literal. The result is NFC-normalized
// and only uses escapes the lexer understands.
func Quote(s string) string {
	s = norm.NFC.String(s)
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		case 0:
			sb.WriteString(`\0`)
		default:
			if r < 0x20 || r == 0x7f {
				sb.WriteString(`\u`)
				hex := strconv.FormatInt(int64(r), 16)
				sb.WriteString(strings.Repeat("0", 4-len(hex)) + hex)
				continue
			}
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
