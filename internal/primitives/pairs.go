package primitives

import (
	"cozenage/internal/cell"
	"cozenage/internal/env"
	"cozenage/internal/schemerr"
)

func registerPairs(e *env.Env) {
	builtin(e, "cons", func(args *cell.Cell) *cell.Cell {
		if len(args.SList) != 2 {
			return cell.NewError(schemerr.Arityf("cons", "2", len(args.SList)))
		}
		return cell.Cons(args.SList[0], args.SList[1])
	})

	builtin(e, "car", func(args *cell.Cell) *cell.Cell {
		if err := arity("car", args.SList, 1); err != nil {
			return err
		}
		a := args.SList[0]
		if a.Kind != cell.Pair {
			return typeErr("car", "pair", a)
		}
		return a.CarCell
	})
	builtin(e, "cdr", func(args *cell.Cell) *cell.Cell {
		if err := arity("cdr", args.SList, 1); err != nil {
			return err
		}
		a := args.SList[0]
		if a.Kind != cell.Pair {
			return typeErr("cdr", "pair", a)
		}
		return a.CdrCell
	})

	for _, path := range []string{"aa", "ad", "da", "dd", "aaa", "aad", "ada", "add", "daa", "dad", "dda", "ddd"} {
		registerCxr(e, path)
	}

	builtin(e, "set-car!", func(args *cell.Cell) *cell.Cell {
		if err := arity("set-car!", args.SList, 2); err != nil {
			return err
		}
		a := args.SList[0]
		if a.Kind != cell.Pair {
			return typeErr("set-car!", "pair", a)
		}
		a.SetCar(args.SList[1])
		return cell.Unspec
	})
	builtin(e, "set-cdr!", func(args *cell.Cell) *cell.Cell {
		if err := arity("set-cdr!", args.SList, 2); err != nil {
			return err
		}
		a := args.SList[0]
		if a.Kind != cell.Pair {
			return typeErr("set-cdr!", "pair", a)
		}
		a.SetCdr(args.SList[1])
		return cell.Unspec
	})

	builtin(e, "list", func(args *cell.Cell) *cell.Cell {
		return cell.ListFromSlice(args.SList)
	})

	builtin(e, "length", func(args *cell.Cell) *cell.Cell {
		if err := arity("length", args.SList, 1); err != nil {
			return err
		}
		n, ok := cell.Length(args.SList[0])
		if !ok {
			return typeErr("length", "proper list", args.SList[0])
		}
		return cell.NewInteger(int64(n))
	})

	builtin(e, "append", func(args *cell.Cell) *cell.Cell {
		if len(args.SList) == 0 {
			return cell.EmptyList
		}
		var all []*cell.Cell
		for _, lst := range args.SList[:len(args.SList)-1] {
			elems, ok := cell.ToSlice(lst)
			if !ok {
				return typeErr("append", "proper list", lst)
			}
			all = append(all, elems...)
		}
		result := args.SList[len(args.SList)-1]
		for i := len(all) - 1; i >= 0; i-- {
			result = cell.Cons(all[i], result)
		}
		return result
	})

	builtin(e, "reverse", func(args *cell.Cell) *cell.Cell {
		if err := arity("reverse", args.SList, 1); err != nil {
			return err
		}
		elems, ok := cell.ToSlice(args.SList[0])
		if !ok {
			return typeErr("reverse", "proper list", args.SList[0])
		}
		result := cell.EmptyList
		for _, el := range elems {
			result = cell.Cons(el, result)
		}
		return result
	})

	builtin(e, "list-ref", func(args *cell.Cell) *cell.Cell {
		if err := arity("list-ref", args.SList, 2); err != nil {
			return err
		}
		elems, ok := cell.ToSlice(args.SList[0])
		idx := int(args.SList[1].I64)
		if !ok || idx < 0 || idx >= len(elems) {
			return cell.NewError(schemerr.Indexf("list-ref", idx, len(elems)))
		}
		return elems[idx]
	})

	builtin(e, "list-tail", func(args *cell.Cell) *cell.Cell {
		if err := arity("list-tail", args.SList, 2); err != nil {
			return err
		}
		c := args.SList[0]
		for n := args.SList[1].I64; n > 0; n-- {
			if c.Kind != cell.Pair {
				return typeErr("list-tail", "pair", c)
			}
			c = c.CdrCell
		}
		return c
	})

	builtin(e, "memq", memberOp("memq", cell.Eq))
	builtin(e, "memv", memberOp("memv", cell.Eqv))
	builtin(e, "member", memberOp("member", cell.Equal))

	builtin(e, "assq", assocOp("assq", cell.Eq))
	builtin(e, "assv", assocOp("assv", cell.Eqv))
	builtin(e, "assoc", assocOp("assoc", cell.Equal))

	builtin(e, "list-copy", func(args *cell.Cell) *cell.Cell {
		if err := arity("list-copy", args.SList, 1); err != nil {
			return err
		}
		elems, ok := cell.ToSlice(args.SList[0])
		if !ok {
			return args.SList[0]
		}
		return cell.ListFromSlice(elems)
	})
}

func registerCxr(e *env.Env, path string) {
	name := "c" + path + "r"
	builtin(e, name, func(args *cell.Cell) *cell.Cell {
		if err := arity(name, args.SList, 1); err != nil {
			return err
		}
		c := args.SList[0]
		for i := len(path) - 1; i >= 0; i-- {
			if c.Kind != cell.Pair {
				return typeErr(name, "pair", c)
			}
			if path[i] == 'a' {
				c = c.CarCell
			} else {
				c = c.CdrCell
			}
		}
		return c
	})
}

func memberOp(name string, eq func(a, b *cell.Cell) bool) func(*cell.Cell) *cell.Cell {
	return func(args *cell.Cell) *cell.Cell {
		if err := arity(name, args.SList, 2); err != nil {
			return err
		}
		target, lst := args.SList[0], args.SList[1]
		for lst.Kind == cell.Pair {
			if eq(target, lst.CarCell) {
				return lst
			}
			lst = lst.CdrCell
		}
		return cell.False
	}
}

func assocOp(name string, eq func(a, b *cell.Cell) bool) func(*cell.Cell) *cell.Cell {
	return func(args *cell.Cell) *cell.Cell {
		if err := arity(name, args.SList, 2); err != nil {
			return err
		}
		target, lst := args.SList[0], args.SList[1]
		for lst.Kind == cell.Pair {
			entry := lst.CarCell
			if entry.Kind == cell.Pair && eq(target, entry.CarCell) {
				return entry
			}
			lst = lst.CdrCell
		}
		return cell.False
	}
}
