package eval

import (
	"sync"

	"cozenage/internal/cell"
	"cozenage/internal/env"
	"cozenage/internal/schemerr"
)

// macroDef is a non-hygienic defmacro: argument sub-expressions are bound
// unevaluated to the macro's formals, and evaluating the body produces a
// new expression for the caller's trampoline loop to continue on
// (spec.md §4.4, §9 — no renaming, so a macro's introduced bindings can
// capture a caller's identifiers, same as Common Lisp's defmacro).
type macroDef struct {
	formals *cell.Cell
	body    *cell.Cell
	defEnv  *env.Env
}

var macros sync.Map // *cell.Cell (interned name) -> *macroDef

func defineMacro(name *cell.Cell, m *macroDef) {
	macros.Store(name, m)
}

func lookupMacro(name *cell.Cell) (*macroDef, bool) {
	v, ok := macros.Load(name)
	if !ok {
		return nil, false
	}
	return v.(*macroDef), true
}

// evalDefmacro registers a macro transformer; its body is ordinary
// already-expanded Scheme code over the unevaluated argument forms.
func evalDefmacro(expr *cell.Cell, e *env.Env) *cell.Cell {
	if len(expr.SList) != 4 || expr.SList[1].Kind != cell.Symbol {
		return cell.NewError(schemerr.New(schemerr.Syntax, "defmacro: expected (defmacro name formals body)"))
	}
	name := expr.SList[1]
	formals := expr.SList[2]
	if formals.Kind == cell.SExpr {
		formals = cell.SExprToList(formals)
	}
	defineMacro(name, &macroDef{formals: formals, body: expr.SList[3], defEnv: e})
	return name
}

// expandMacroCall binds the call's unevaluated argument sub-expressions to
// m's formals and evaluates its body in that frame to produce the
// replacement expression, which the caller re-enters Eval on.
func expandMacroCall(m *macroDef, call *cell.Cell, callEnv *env.Env) (*cell.Cell, *cell.Cell) {
	args := call.SList[1:]
	lambda := &cell.Lambda{Formals: m.formals, Captured: m.defEnv}
	bindEnv, errCell := bindFormals(lambda, args)
	if errCell != nil {
		return nil, errCell
	}
	result := Eval(m.body, bindEnv)
	if cell.IsError(result) {
		return nil, result
	}
	// The macro body is ordinary code and may well build its expansion
	// with list/cons rather than quasiquote, yielding a Pair chain; convert
	// it back to SExpr so the caller's loop treats it as syntax to
	// evaluate, not as self-evaluating list data.
	return cell.ListToSExpr(result), nil
}
