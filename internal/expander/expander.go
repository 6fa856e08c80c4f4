// Package expander rewrites surface syntax into the primitive core the
// evaluator understands: define, lambda, if, quote, let, letrec, set!,
// begin, and, import, defmacro, delay, delay-force, stream (spec.md §4.3).
// Expand is a pure tree rewrite, applied recursively bottom-up; nothing
// here evaluates anything.
//
// with-gc-stats rewrites to an ordinary procedure call on a zero-argument
// thunk, (with-gc-stats (lambda () expr)), since its builtin needs expr
// unevaluated until it can bracket the call with runtime.ReadMemStats.
package expander

import (
	"cozenage/internal/cell"
	"cozenage/internal/schemerr"
	"cozenage/internal/symtab"
)

// Expand rewrites c into primitive-core form. Atoms, vectors, bytevectors,
// and already-parsed data (e.g. a dotted Pair from quoted data) pass
// through unchanged; only SExpr compound forms are rewritten.
func Expand(c *cell.Cell) *cell.Cell {
	if c == nil || c.Kind != cell.SExpr {
		return c
	}
	if len(c.SList) == 0 {
		return c
	}
	head := c.SList[0]
	if head.Kind == cell.Symbol {
		switch head.Sym.Name {
		case "quote":
			return c // datum stays exactly as read; no recursion

		case "define":
			return expandDefine(c)
		case "lambda":
			return expandLambda(c)
		case "let":
			return expandLet(c)
		case "letrec":
			return expandOrdinaryLetLike(c, "letrec")
		case "defmacro":
			return expandDefmacro(c)

		case "cond":
			return Expand(expandCond(c.SList[1:]))
		case "case":
			return Expand(expandCase(c))
		case "when":
			return Expand(expandWhen(c))
		case "unless":
			return Expand(expandUnless(c))
		case "or":
			return Expand(expandOr(c.SList[1:]))
		case "let*":
			return Expand(expandLetStar(c))
		case "letrec*":
			return Expand(expandLetrecStar(c))
		case "do":
			return Expand(expandDo(c))
		case "with-gc-stats":
			return expandWithGCStats(c)
		case "quasiquote":
			if len(c.SList) != 2 {
				return syntaxErr("quasiquote expects exactly one datum")
			}
			return expandQuasiquote(c.SList[1], 1)
		case "unquote", "unquote-splicing":
			return syntaxErr(head.Sym.Name + " not inside a quasiquote")
		}
	}
	// Ordinary application (including if/set!/begin/and/import/delay/
	// delay-force/stream, whose keyword head is a no-op to re-expand):
	// expand every subform, including the head in case it is itself a
	// compound form, e.g. ((lambda (x) x) 5).
	elems := make([]*cell.Cell, len(c.SList))
	for i, e := range c.SList {
		elems[i] = Expand(e)
	}
	return cell.NewSExpr(elems...)
}

func syntaxErr(msg string) *cell.Cell {
	return cell.NewError(schemerr.New(schemerr.Syntax, "%s", msg))
}

// wrapBody collapses a sequence of body expressions into the single
// expression every primitive core body-bearing form (lambda/let/letrec)
// requires, wrapping with `begin` when there is more than one
// (spec.md §4.4: "implicit begin... occurs pre-expand").
func wrapBody(exprs []*cell.Cell) *cell.Cell {
	if len(exprs) == 1 {
		return exprs[0]
	}
	elems := append([]*cell.Cell{symtab.Intern("begin")}, exprs...)
	return cell.NewSExpr(elems...)
}

// splitHeader extracts (name, formals) from a define/internal-define
// target, which the reader hands back either as a proper SExpr (fixed
// arity) or a dotted Pair chain (variadic tail) depending on whether a
// `.` appeared in the source.
func splitHeader(target *cell.Cell) (*cell.Cell, *cell.Cell) {
	switch target.Kind {
	case cell.SExpr:
		name := target.SList[0]
		formals := cell.SExprToList(cell.NewSExpr(target.SList[1:]...))
		return name, formals
	case cell.Pair:
		return target.CarCell, target.CdrCell
	}
	return target, cell.EmptyList
}

func buildLambda(formals *cell.Cell, body []*cell.Cell) *cell.Cell {
	elems := append([]*cell.Cell{symtab.Intern("lambda"), formals}, body...)
	return cell.NewSExpr(elems...)
}

// expandDefine handles both `(define name expr)` and the procedure-header
// shorthand `(define (name . formals) body…)` (spec.md §4.3).
func expandDefine(c *cell.Cell) *cell.Cell {
	rest := c.SList[1:]
	if len(rest) == 0 {
		return c
	}
	target := rest[0]
	if target.Kind == cell.SExpr || target.Kind == cell.Pair {
		name, formals := splitHeader(target)
		lambdaForm := buildLambda(formals, rest[1:])
		return cell.NewSExpr(symtab.Intern("define"), name, Expand(lambdaForm))
	}
	if len(rest) == 1 {
		return cell.NewSExpr(symtab.Intern("define"), target, cell.NewSExpr(symtab.Intern("quote"), cell.Unspec))
	}
	return cell.NewSExpr(symtab.Intern("define"), target, Expand(rest[1]))
}

func isDefineForm(c *cell.Cell) bool {
	return c.Kind == cell.SExpr && len(c.SList) > 0 &&
		c.SList[0].Kind == cell.Symbol && c.SList[0].Sym.Name == "define"
}

// defineBinding extracts the (name, valueExpr) pair an internal define
// contributes to the letrec lambda bodies collect them into.
func defineBinding(d *cell.Cell) (*cell.Cell, *cell.Cell) {
	rest := d.SList[1:]
	if len(rest) == 0 {
		return nil, nil
	}
	target := rest[0]
	if target.Kind == cell.SExpr || target.Kind == cell.Pair {
		name, formals := splitHeader(target)
		return name, buildLambda(formals, rest[1:])
	}
	if len(rest) == 1 {
		return target, cell.NewSExpr(symtab.Intern("quote"), cell.Unspec)
	}
	return target, wrapBody(rest[1:])
}

// expandLambdaBody implements spec.md §4.3's lambda-body rule: leading
// internal defines collect into a wrapping letrec; otherwise a multi-
// expression body is begin-wrapped.
func expandLambdaBody(body []*cell.Cell) *cell.Cell {
	i := 0
	for i < len(body) && isDefineForm(body[i]) {
		i++
	}
	if i == 0 {
		return wrapBody(body)
	}
	var bindings []*cell.Cell
	for _, d := range body[:i] {
		name, val := defineBinding(d)
		bindings = append(bindings, cell.NewSExpr(name, val))
	}
	rest := wrapBody(body[i:])
	return cell.NewSExpr(symtab.Intern("letrec"), cell.NewSExpr(bindings...), rest)
}

func expandLambda(c *cell.Cell) *cell.Cell {
	rest := c.SList[1:]
	if len(rest) == 0 {
		return c
	}
	formals := rest[0]
	body := expandLambdaBody(rest[1:])
	return cell.NewSExpr(symtab.Intern("lambda"), formals, Expand(body))
}

// expandLet dispatches named let (spec.md §4.3) away from ordinary let.
func expandLet(c *cell.Cell) *cell.Cell {
	rest := c.SList[1:]
	if len(rest) >= 1 && rest[0].Kind == cell.Symbol {
		return expandNamedLet(rest[0], rest[1:])
	}
	return expandOrdinaryLetLike(c, "let")
}

// expandOrdinaryLetLike handles plain `let`/`letrec`: expand each
// binding's init expression and collapse the body to one expression.
func expandOrdinaryLetLike(c *cell.Cell, keyword string) *cell.Cell {
	rest := c.SList[1:]
	if len(rest) == 0 {
		return c
	}
	bindings := expandBindings(rest[0])
	body := Expand(wrapBody(rest[1:]))
	return cell.NewSExpr(symtab.Intern(keyword), bindings, body)
}

func expandBindings(bindings *cell.Cell) *cell.Cell {
	if bindings.Kind != cell.SExpr {
		return bindings
	}
	elems := make([]*cell.Cell, len(bindings.SList))
	for i, b := range bindings.SList {
		if b.Kind == cell.SExpr && len(b.SList) == 2 {
			elems[i] = cell.NewSExpr(b.SList[0], Expand(b.SList[1]))
		} else {
			elems[i] = b
		}
	}
	return cell.NewSExpr(elems...)
}

func expandNamedLet(name *cell.Cell, rest []*cell.Cell) *cell.Cell {
	if len(rest) == 0 {
		return cell.NewSExpr(name)
	}
	bindingsList := rest[0]
	bodyExprs := rest[1:]
	var vars, inits []*cell.Cell
	if bindingsList.Kind == cell.SExpr {
		for _, b := range bindingsList.SList {
			vars = append(vars, b.SList[0])
			inits = append(inits, Expand(b.SList[1]))
		}
	}
	body := Expand(expandLambdaBody(bodyExprs))
	lambdaForm := cell.NewSExpr(symtab.Intern("lambda"), cell.NewSExpr(vars...), body)
	letrecBindings := cell.NewSExpr(cell.NewSExpr(name, lambdaForm))
	call := cell.NewSExpr(append([]*cell.Cell{name}, inits...)...)
	return cell.NewSExpr(symtab.Intern("letrec"), letrecBindings, call)
}

func expandDefmacro(c *cell.Cell) *cell.Cell {
	// (defmacro name formals body…): the body is a template evaluated
	// with argument substitution at call time (spec.md §4.4); it is
	// still ordinary Scheme code, so it is expanded like any other body.
	rest := c.SList[1:]
	if len(rest) < 2 {
		return c
	}
	name, formals := rest[0], rest[1]
	body := expandLambdaBody(rest[2:])
	return cell.NewSExpr(symtab.Intern("defmacro"), name, formals, Expand(body))
}
