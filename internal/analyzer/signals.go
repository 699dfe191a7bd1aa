package analyzer

import (
	"github.com/funvibe/glint/internal/ast"
	"github.com/funvibe/glint/internal/diagnostics"
	"github.com/funvibe/glint/internal/typesystem"
)

// checkEmitSignal validates `emit_signal("name", args...)` against the
// signal declaration.
func (w *walker) checkEmitSignal(call *ast.CallExpression) {
	if len(call.Arguments) == 0 {
		w.addError(diagnostics.ErrS303, call.Token)
		return
	}
	args := call.Arguments[1:]
	types := w.inferArguments(args)

	lit, ok := call.Arguments[0].(*ast.StringLiteral)
	if !ok {
		w.inferExpression(call.Arguments[0])
		w.addError(diagnostics.ErrS303, call.Arguments[0].GetToken())
		return
	}
	sig, ok := w.globals.LookupSignal(lit.Value)
	if !ok {
		w.addError(diagnostics.ErrS302, lit.Token, lit.Value)
		return
	}
	if len(args) != len(sig.Params) {
		w.addError(diagnostics.ErrS304, lit.Token, sig.Name, len(sig.Params), len(args))
		return
	}
	for i, p := range sig.Params {
		if !typesystem.AssignableTo(types[i], p.Type) {
			w.addError(diagnostics.ErrS305, args[i].GetToken(), i+1, sig.Name, p.Type, types[i])
		}
	}
}
