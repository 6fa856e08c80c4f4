package expander

import (
	"cozenage/internal/cell"
	"cozenage/internal/symtab"
)

// expandQuasiquote implements spec.md §4.3/§9's quasiquote rewrite: lists
// become an `append` of single-element `list` calls (an unquote-splicing
// element contributes its value directly instead), vectors rewrite via
// `list->vector`, `unquote` at depth 1 substitutes the live expression,
// and anything below depth 1 is rebuilt as data that itself carries a
// (possibly still-live, if deep enough) nested quasiquote expansion.
func expandQuasiquote(expr *cell.Cell, depth int) *cell.Cell {
	switch expr.Kind {
	case cell.Vector:
		listExpr := buildQQList(expr.Vec, depth)
		return cell.NewSExpr(symtab.Intern("list->vector"), listExpr)

	case cell.SExpr:
		if h, ok := headName(expr); ok {
			switch h {
			case "unquote":
				if depth == 1 {
					return Expand(expr.SList[1])
				}
				return rebuildForm("unquote", expr.SList[1], depth-1)
			case "unquote-splicing":
				if depth == 1 {
					return syntaxErr("unquote-splicing not in list context")
				}
				return rebuildForm("unquote-splicing", expr.SList[1], depth-1)
			case "quasiquote":
				return rebuildForm("quasiquote", expr.SList[1], depth+1)
			}
		}
		return buildQQList(expr.SList, depth)

	default:
		return quoteWrap(expr)
	}
}

// buildQQList builds the `(append (list e1) (list e2) …)` form for a
// list's elements at the given quasiquote depth.
func buildQQList(elems []*cell.Cell, depth int) *cell.Cell {
	var parts []*cell.Cell
	for _, e := range elems {
		if depth == 1 {
			if h, ok := headName(e); ok && h == "unquote-splicing" && len(e.SList) == 2 {
				parts = append(parts, Expand(e.SList[1]))
				continue
			}
		}
		part := expandQuasiquote(e, depth)
		parts = append(parts, cell.NewSExpr(symtab.Intern("list"), part))
	}
	if len(parts) == 0 {
		return cell.NewSExpr(symtab.Intern("quote"), cell.EmptyList)
	}
	elems2 := append([]*cell.Cell{symtab.Intern("append")}, parts...)
	return cell.NewSExpr(elems2...)
}

func headName(e *cell.Cell) (string, bool) {
	if e.Kind == cell.SExpr && len(e.SList) > 0 && e.SList[0].Kind == cell.Symbol {
		return e.SList[0].Sym.Name, true
	}
	return "", false
}

func quoteWrap(c *cell.Cell) *cell.Cell {
	return cell.NewSExpr(symtab.Intern("quote"), c)
}

// rebuildForm reconstructs a (quasiquote|unquote|unquote-splicing inner)
// form below the currently-resolving depth as a `(list 'head innerExpanded)`
// runtime list-building expression, so an eventually-deeper unquote inside
// innerExpanded still evaluates when the surrounding structure is built.
func rebuildForm(head string, inner *cell.Cell, newDepth int) *cell.Cell {
	innerExpanded := expandQuasiquote(inner, newDepth)
	return cell.NewSExpr(symtab.Intern("list"), quoteWrap(symtab.Intern(head)), innerExpanded)
}
