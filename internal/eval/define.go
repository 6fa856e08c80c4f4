package eval

import (
	"cozenage/internal/cell"
	"cozenage/internal/env"
	"cozenage/internal/schemerr"
)

// evalDefine installs a new binding, in the global table at top level or
// in the innermost local frame inside a body (spec.md §4.4). By the time
// this runs, the expander has already rewritten `(define (f x) ...)` into
// `(define f (lambda (x) ...))`, so there is exactly one shape to handle.
func evalDefine(expr *cell.Cell, e *env.Env) *cell.Cell {
	if len(expr.SList) != 3 || expr.SList[1].Kind != cell.Symbol {
		return cell.NewError(schemerr.New(schemerr.Syntax, "define: expected (define symbol expr)"))
	}
	name := expr.SList[1]
	v := Eval(expr.SList[2], e)
	if cell.IsError(v) {
		return v
	}
	if lambda, ok := asClosure(v); ok && lambda.Name == "" {
		lambda.Name = name.Sym.Name
	}
	e.DefineLocal(name, v)
	return symbolResult(name)
}

func asClosure(v *cell.Cell) (*cell.Lambda, bool) {
	if v.Kind == cell.Procedure && !v.Proc.IsBuiltin {
		return v.Proc.Closure, true
	}
	return nil, false
}

// symbolResult is what most Schemes echo back from a top-level define at
// the REPL: the name just bound, for readability's sake.
func symbolResult(name *cell.Cell) *cell.Cell { return name }
