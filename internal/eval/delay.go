package eval

import (
	"cozenage/internal/cell"
	"cozenage/internal/env"
	"cozenage/internal/schemerr"
)

// evalDelay builds a lazy Promise capturing its body and defining
// environment (spec.md §3, §9). delay and delay-force produce the same
// shape: a delay-force body is simply one that's expected to itself
// evaluate to a promise, which Force's state machine chases without
// growing the host stack — the distinction lives entirely in Force, not
// in how the promise is built.
func evalDelay(expr *cell.Cell, e *env.Env, _ bool) *cell.Cell {
	if len(expr.SList) != 2 {
		return cell.NewError(schemerr.New(schemerr.Syntax, "delay: expected (delay expr)"))
	}
	return &cell.Cell{
		Kind: cell.Promise,
		Prom: &cell.Promise{Status: cell.PromiseLazy, Expr: expr.SList[1], Captured: e},
	}
}

// Force implements the `force` primitive (spec.md §4.4): forcing a
// non-promise returns it unchanged; forcing a promise runs its body at
// most once, memoizing the result, and transparently chases any chain of
// delay-force bodies that themselves evaluate to a promise.
func Force(args *cell.Cell) *cell.Cell {
	if len(args.SList) != 1 {
		return cell.NewError(schemerr.Arityf("force", "1", len(args.SList)))
	}
	p := args.SList[0]
	if p.Kind != cell.Promise {
		return p
	}
	return forcePromise(p)
}

func forcePromise(p *cell.Cell) *cell.Cell {
	for {
		switch p.Prom.Status {
		case cell.PromiseDone:
			return p.Prom.Expr
		case cell.PromiseRunning:
			return cell.NewError(schemerr.New(schemerr.General, "force: promise forced reentrantly"))
		default: // PromiseReady or PromiseLazy: not yet run
			capturedEnv := p.Prom.Captured.(*env.Env)
			p.Prom.Status = cell.PromiseRunning
			result := Eval(p.Prom.Expr, capturedEnv)
			if cell.IsError(result) {
				p.Prom.Status = cell.PromiseLazy
				return result
			}
			if result.Kind == cell.Promise {
				// delay-force chain: adopt the inner promise's state and
				// loop instead of recursing into forcePromise again.
				p.Prom.Status = result.Prom.Status
				p.Prom.Expr = result.Prom.Expr
				p.Prom.Captured = result.Prom.Captured
				continue
			}
			p.Prom.Status = cell.PromiseDone
			p.Prom.Expr = result
			return result
		}
	}
}
