package expander

import (
	"cozenage/internal/cell"
	"cozenage/internal/symtab"
)

// expandCond right-folds cond clauses into nested if (spec.md §4.3).
func expandCond(clauses []*cell.Cell) *cell.Cell {
	if len(clauses) == 0 {
		return cell.NewSExpr(symtab.Intern("quote"), cell.Unspec)
	}
	clause := clauses[0]
	rest := clauses[1:]
	items := clause.SList
	if len(items) == 0 {
		return expandCond(rest)
	}
	test := items[0]
	if test.Kind == cell.Symbol && test.Sym.Name == "else" {
		return wrapBody(items[1:])
	}
	if len(items) == 1 {
		tmp := gensym()
		return cell.NewSExpr(symtab.Intern("let"),
			cell.NewSExpr(cell.NewSExpr(tmp, test)),
			cell.NewSExpr(symtab.Intern("if"), tmp, tmp, expandCond(rest)))
	}
	if items[1].Kind == cell.Symbol && items[1].Sym.Name == "=>" && len(items) >= 3 {
		tmp := gensym()
		return cell.NewSExpr(symtab.Intern("let"),
			cell.NewSExpr(cell.NewSExpr(tmp, test)),
			cell.NewSExpr(symtab.Intern("if"), tmp,
				cell.NewSExpr(items[2], tmp),
				expandCond(rest)))
	}
	return cell.NewSExpr(symtab.Intern("if"), test, wrapBody(items[1:]), expandCond(rest))
}

// expandCase binds the key once, then emits a cond over `memv` tests
// (spec.md §4.3).
func expandCase(c *cell.Cell) *cell.Cell {
	rest := c.SList[1:]
	keyExpr := rest[0]
	clauses := rest[1:]
	tmp := gensym()
	var condClauses []*cell.Cell
	for _, cl := range clauses {
		items := cl.SList
		if len(items) == 0 {
			continue
		}
		datums := items[0]
		if datums.Kind == cell.Symbol && datums.Sym.Name == "else" {
			condClauses = append(condClauses, cl)
			continue
		}
		datumList := cell.SExprToList(datums)
		test := cell.NewSExpr(symtab.Intern("memv"), tmp,
			cell.NewSExpr(symtab.Intern("quote"), datumList))
		newClause := append([]*cell.Cell{test}, items[1:]...)
		condClauses = append(condClauses, cell.NewSExpr(newClause...))
	}
	return cell.NewSExpr(symtab.Intern("let"),
		cell.NewSExpr(cell.NewSExpr(tmp, keyExpr)),
		expandCond(condClauses))
}

func expandWhen(c *cell.Cell) *cell.Cell {
	rest := c.SList[1:]
	test := rest[0]
	return cell.NewSExpr(symtab.Intern("if"), test, wrapBody(rest[1:]),
		cell.NewSExpr(symtab.Intern("quote"), cell.Unspec))
}

func expandUnless(c *cell.Cell) *cell.Cell {
	rest := c.SList[1:]
	test := rest[0]
	return cell.NewSExpr(symtab.Intern("if"), test,
		cell.NewSExpr(symtab.Intern("quote"), cell.Unspec), wrapBody(rest[1:]))
}

// expandOr desugars to a chain of fresh-temp lets (spec.md §4.3).
func expandOr(exprs []*cell.Cell) *cell.Cell {
	if len(exprs) == 0 {
		return cell.False
	}
	if len(exprs) == 1 {
		return exprs[0]
	}
	tmp := gensym()
	return cell.NewSExpr(symtab.Intern("let"),
		cell.NewSExpr(cell.NewSExpr(tmp, exprs[0])),
		cell.NewSExpr(symtab.Intern("if"), tmp, tmp, expandOr(exprs[1:])))
}

// expandLetStar peels one binding per step, relying on the caller's
// recursive Expand to keep unwinding the generated nested let* form.
func expandLetStar(c *cell.Cell) *cell.Cell {
	rest := c.SList[1:]
	bindings := rest[0].SList
	body := rest[1:]
	if len(bindings) == 0 {
		elems := append([]*cell.Cell{symtab.Intern("let"), cell.NewSExpr()}, body...)
		return cell.NewSExpr(elems...)
	}
	first := bindings[0]
	innerElems := append([]*cell.Cell{symtab.Intern("let*"), cell.NewSExpr(bindings[1:]...)}, body...)
	inner := cell.NewSExpr(innerElems...)
	return cell.NewSExpr(symtab.Intern("let"), cell.NewSExpr(first), inner)
}

func expandLetrecStar(c *cell.Cell) *cell.Cell {
	rest := c.SList[1:]
	bindings := rest[0].SList
	body := rest[1:]
	if len(bindings) == 0 {
		elems := append([]*cell.Cell{symtab.Intern("letrec"), cell.NewSExpr()}, body...)
		return cell.NewSExpr(elems...)
	}
	first := bindings[0]
	innerElems := append([]*cell.Cell{symtab.Intern("letrec*"), cell.NewSExpr(bindings[1:]...)}, body...)
	inner := cell.NewSExpr(innerElems...)
	return cell.NewSExpr(symtab.Intern("letrec"), cell.NewSExpr(first), inner)
}

// expandDo rewrites to a named let (spec.md §4.3): a step expression
// defaulting to the variable itself when omitted.
func expandDo(c *cell.Cell) *cell.Cell {
	rest := c.SList[1:]
	specs := rest[0].SList
	testClause := rest[1].SList
	body := rest[2:]
	test := testClause[0]
	results := testClause[1:]
	loopName := gensym()

	var vars, inits, steps []*cell.Cell
	for _, s := range specs {
		items := s.SList
		vars = append(vars, items[0])
		inits = append(inits, items[1])
		if len(items) >= 3 {
			steps = append(steps, items[2])
		} else {
			steps = append(steps, items[0])
		}
	}

	recurCall := cell.NewSExpr(append([]*cell.Cell{loopName}, steps...)...)
	loopBody := append(append([]*cell.Cell{}, body...), recurCall)

	var thenResult *cell.Cell
	if len(results) == 0 {
		thenResult = cell.NewSExpr(symtab.Intern("quote"), cell.Unspec)
	} else {
		thenResult = wrapBody(results)
	}
	ifForm := cell.NewSExpr(symtab.Intern("if"), test, thenResult, wrapBody(loopBody))

	var bindingPairs []*cell.Cell
	for i := range vars {
		bindingPairs = append(bindingPairs, cell.NewSExpr(vars[i], inits[i]))
	}
	return cell.NewSExpr(symtab.Intern("let"), loopName, cell.NewSExpr(bindingPairs...), ifForm)
}

// expandWithGCStats rewrites the diagnostic form's body into a thunk, so
// the with-gc-stats builtin receives it unevaluated and can bracket the
// call with a heap snapshot on either side (spec.md §5, §8).
func expandWithGCStats(c *cell.Cell) *cell.Cell {
	rest := c.SList[1:]
	if len(rest) != 1 {
		return syntaxErr("with-gc-stats expects exactly one expression")
	}
	body := Expand(rest[0])
	thunk := cell.NewSExpr(symtab.Intern("lambda"), cell.EmptyList, body)
	return cell.NewSExpr(symtab.Intern("with-gc-stats"), thunk)
}
