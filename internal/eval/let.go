package eval

import (
	"cozenage/internal/cell"
	"cozenage/internal/env"
)

// evalLet evaluates every init expression in the *outer* environment, then
// extends a single fresh frame with the results, and hands the body back
// to the caller's trampoline loop in tail position. The expander has
// already rewritten let*, letrec*, named let, do, and internal defines
// down to plain let/letrec, so this is the only non-recursive binding form
// Eval needs besides letrec.
func evalLet(expr *cell.Cell, e *env.Env) (*cell.Cell, *env.Env) {
	bindings := expr.SList[1]
	body := wrapBodySeq(expr.SList[2:])

	var names, values []*cell.Cell
	for _, b := range bindings.SList {
		pair := b.SList
		name := pair[0]
		v := Eval(pair[1], e)
		if cell.IsError(v) {
			return quoteResult(v), e
		}
		names = append(names, name)
		values = append(values, v)
	}
	return body, e.Extend(names, values)
}

// quoteResult wraps an already-computed value (typically a propagated
// error) so the caller's loop evaluates it to itself instead of treating
// it as unevaluated syntax.
func quoteResult(v *cell.Cell) *cell.Cell {
	return &cell.Cell{Kind: cell.SExpr, SList: []*cell.Cell{quoteSym, v}}
}

// wrapBodySeq collapses a tail sequence of body expressions into one
// expression the caller's loop can continue on; the expander already does
// this for lambda/let bodies, but evalLet is also reached directly for
// bodies with a single expression where no wrapping is needed.
func wrapBodySeq(exprs []*cell.Cell) *cell.Cell {
	if len(exprs) == 1 {
		return exprs[0]
	}
	form := make([]*cell.Cell, 0, len(exprs)+1)
	form = append(form, beginSym)
	form = append(form, exprs...)
	return &cell.Cell{Kind: cell.SExpr, SList: form}
}
