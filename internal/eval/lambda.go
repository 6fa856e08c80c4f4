package eval

import (
	"cozenage/internal/cell"
	"cozenage/internal/env"
	"cozenage/internal/schemerr"
)

// evalLambda builds a closure cell capturing e (spec.md §3, §4.4). The
// expander has already collapsed the body to a single expression, begin-
// wrapping multi-expression bodies and internal defines into a letrec.
func evalLambda(expr *cell.Cell, e *env.Env) *cell.Cell {
	if len(expr.SList) < 3 {
		return cell.NewError(schemerr.New(schemerr.Syntax, "lambda: expected (lambda formals body...)"))
	}
	formals := expr.SList[1]
	if formals.Kind == cell.SExpr {
		formals = cell.SExprToList(formals)
	}
	body := expr.SList[2]
	if !okFormalsShape(formals) {
		return cell.NewError(schemerr.New(schemerr.Syntax, "lambda: malformed formals"))
	}
	return &cell.Cell{
		Kind: cell.Procedure,
		Proc: &cell.Procedure{
			IsBuiltin: false,
			Closure: &cell.Lambda{
				Formals:  formals,
				Body:     body,
				Captured: e,
			},
		},
	}
}

// okFormalsShape rejects anything that isn't a bare symbol, a proper list
// of symbols, or a dotted list of symbols ending in a symbol.
func okFormalsShape(formals *cell.Cell) bool {
	for {
		switch formals.Kind {
		case cell.Symbol:
			return true
		case cell.Nil:
			return true
		case cell.Pair:
			if formals.CarCell.Kind != cell.Symbol {
				return false
			}
			formals = formals.CdrCell
		default:
			return false
		}
	}
}
