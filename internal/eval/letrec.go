package eval

import (
	"cozenage/internal/cell"
	"cozenage/internal/env"
)

// evalLetrec pre-binds every name to Unspecified in a fresh frame before
// evaluating any init expression, so mutually recursive definitions (the
// expander's primary use for letrec: named let, internal defines) see
// each other's names in scope while closing over them (spec.md §4.4).
func evalLetrec(expr *cell.Cell, e *env.Env) (*cell.Cell, *env.Env) {
	bindings := expr.SList[1]
	body := wrapBodySeq(expr.SList[2:])

	newEnv := e.ExtendEmpty(len(bindings.SList))
	for _, b := range bindings.SList {
		newEnv.Bind(b.SList[0], cell.Unspec)
	}
	for _, b := range bindings.SList {
		name, initExpr := b.SList[0], b.SList[1]
		v := Eval(initExpr, newEnv)
		if cell.IsError(v) {
			return quoteResult(v), newEnv
		}
		newEnv.Set(name, v)
	}
	return body, newEnv
}
