package primitives

import (
	"cozenage/internal/cell"
	"cozenage/internal/env"
)

func registerPredicates(e *env.Env) {
	builtin(e, "eq?", func(args *cell.Cell) *cell.Cell {
		if err := arity("eq?", args.SList, 2); err != nil {
			return err
		}
		return cell.Bool(cell.Eq(args.SList[0], args.SList[1]))
	})
	builtin(e, "eqv?", func(args *cell.Cell) *cell.Cell {
		if err := arity("eqv?", args.SList, 2); err != nil {
			return err
		}
		return cell.Bool(eqvAny(args.SList[0], args.SList[1]))
	})
	builtin(e, "equal?", func(args *cell.Cell) *cell.Cell {
		if err := arity("equal?", args.SList, 2); err != nil {
			return err
		}
		return cell.Bool(cell.Equal(args.SList[0], args.SList[1]))
	})

	builtin(e, "not", func(args *cell.Cell) *cell.Cell {
		if err := arity("not", args.SList, 1); err != nil {
			return err
		}
		return cell.Bool(!cell.Truthy(args.SList[0]))
	})

	builtin(e, "pair?", typePred("pair?", func(c *cell.Cell) bool { return c.Kind == cell.Pair }))
	builtin(e, "null?", typePred("null?", func(c *cell.Cell) bool { return c.Kind == cell.Nil }))
	builtin(e, "list?", typePred("list?", func(c *cell.Cell) bool { _, ok := cell.ToSlice(c); return ok }))
	builtin(e, "symbol?", typePred("symbol?", func(c *cell.Cell) bool { return c.Kind == cell.Symbol }))
	builtin(e, "string?", typePred("string?", func(c *cell.Cell) bool { return c.Kind == cell.String }))
	builtin(e, "char?", typePred("char?", func(c *cell.Cell) bool { return c.Kind == cell.Char }))
	builtin(e, "boolean?", typePred("boolean?", func(c *cell.Cell) bool { return c.Kind == cell.Boolean }))
	builtin(e, "vector?", typePred("vector?", func(c *cell.Cell) bool { return c.Kind == cell.Vector }))
	builtin(e, "bytevector?", typePred("bytevector?", func(c *cell.Cell) bool { return c.Kind == cell.Bytevector }))
	builtin(e, "procedure?", typePred("procedure?", func(c *cell.Cell) bool { return c.Kind == cell.Procedure }))
	builtin(e, "promise?", typePred("promise?", func(c *cell.Cell) bool { return c.Kind == cell.Promise }))
	builtin(e, "stream?", typePred("stream?", func(c *cell.Cell) bool { return c.Kind == cell.Stream }))
	builtin(e, "port?", typePred("port?", func(c *cell.Cell) bool { return c.Kind == cell.Port }))
	builtin(e, "error-object?", typePred("error-object?", func(c *cell.Cell) bool { return c.Kind == cell.Error }))
	builtin(e, "eof-object?", typePred("eof-object?", func(c *cell.Cell) bool { return c.Kind == cell.EOF }))

	builtin(e, "error-object-message", func(args *cell.Cell) *cell.Cell {
		if err := arity("error-object-message", args.SList, 1); err != nil {
			return err
		}
		a := args.SList[0]
		if a.Kind != cell.Error {
			return typeErr("error-object-message", "error", a)
		}
		return cell.NewString(a.Err.Message)
	})
	builtin(e, "error-object-kind", func(args *cell.Cell) *cell.Cell {
		if err := arity("error-object-kind", args.SList, 1); err != nil {
			return err
		}
		a := args.SList[0]
		if a.Kind != cell.Error {
			return typeErr("error-object-kind", "error", a)
		}
		return symbolFor(string(a.Err.Kind))
	})
}

// eqvAny reuses cell.Eqv's numeric-tower comparison for numbers, and falls
// back to Eq for every other kind (spec.md §8 property 2).
func eqvAny(a, b *cell.Cell) bool {
	if cell.IsNumber(a) && cell.IsNumber(b) {
		return cell.Eqv(a, b)
	}
	return cell.Eq(a, b)
}
