package eval

import (
	"cozenage/internal/cell"
	"cozenage/internal/env"
	"cozenage/internal/schemerr"
)

// evalStream implements `stream` (aka cons-stream): the head is evaluated
// eagerly, the tail is wrapped in a Promise rather than evaluated
// (spec.md §4.4, §8 property 7 — `(head (stream 1 (error "tail")))` must
// return 1 without ever touching the erroring tail).
func evalStream(expr *cell.Cell, e *env.Env) *cell.Cell {
	if len(expr.SList) != 3 {
		return cell.NewError(schemerr.New(schemerr.Syntax, "stream: expected (stream head tail)"))
	}
	head := Eval(expr.SList[1], e)
	if cell.IsError(head) {
		return head
	}
	tail := &cell.Cell{
		Kind: cell.Promise,
		Prom: &cell.Promise{Status: cell.PromiseLazy, Expr: expr.SList[2], Captured: e},
	}
	return &cell.Cell{Kind: cell.Stream, Strm: &cell.Stream{Head: head, Tail: tail}}
}
