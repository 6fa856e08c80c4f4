package primitives

import (
	"cozenage/internal/cell"
	"cozenage/internal/env"
	"cozenage/internal/schemerr"
)

func registerVectors(e *env.Env) {
	builtin(e, "vector", func(args *cell.Cell) *cell.Cell {
		elems := make([]*cell.Cell, len(args.SList))
		copy(elems, args.SList)
		return &cell.Cell{Kind: cell.Vector, Vec: elems}
	})

	builtin(e, "make-vector", func(args *cell.Cell) *cell.Cell {
		if err := arityAtLeast("make-vector", args.SList, 1); err != nil {
			return err
		}
		n := int(args.SList[0].I64)
		fill := cell.Unspec
		if len(args.SList) > 1 {
			fill = args.SList[1]
		}
		elems := make([]*cell.Cell, n)
		for i := range elems {
			elems[i] = fill
		}
		return &cell.Cell{Kind: cell.Vector, Vec: elems}
	})

	builtin(e, "vector-length", func(args *cell.Cell) *cell.Cell {
		if err := arity("vector-length", args.SList, 1); err != nil {
			return err
		}
		a := args.SList[0]
		if a.Kind != cell.Vector {
			return typeErr("vector-length", "vector", a)
		}
		return cell.NewInteger(int64(len(a.Vec)))
	})

	builtin(e, "vector-ref", func(args *cell.Cell) *cell.Cell {
		if err := arity("vector-ref", args.SList, 2); err != nil {
			return err
		}
		v := args.SList[0]
		if v.Kind != cell.Vector {
			return typeErr("vector-ref", "vector", v)
		}
		idx := int(args.SList[1].I64)
		if idx < 0 || idx >= len(v.Vec) {
			return cell.NewError(schemerr.Indexf("vector-ref", idx, len(v.Vec)))
		}
		return v.Vec[idx]
	})

	builtin(e, "vector-set!", func(args *cell.Cell) *cell.Cell {
		if err := arity("vector-set!", args.SList, 3); err != nil {
			return err
		}
		v := args.SList[0]
		if v.Kind != cell.Vector {
			return typeErr("vector-set!", "vector", v)
		}
		idx := int(args.SList[1].I64)
		if idx < 0 || idx >= len(v.Vec) {
			return cell.NewError(schemerr.Indexf("vector-set!", idx, len(v.Vec)))
		}
		v.Vec[idx] = args.SList[2]
		return cell.Unspec
	})

	builtin(e, "vector->list", func(args *cell.Cell) *cell.Cell {
		if err := arity("vector->list", args.SList, 1); err != nil {
			return err
		}
		return cell.ListFromSlice(args.SList[0].Vec)
	})
	builtin(e, "list->vector", func(args *cell.Cell) *cell.Cell {
		if err := arity("list->vector", args.SList, 1); err != nil {
			return err
		}
		elems, ok := cell.ToSlice(args.SList[0])
		if !ok {
			return typeErr("list->vector", "proper list", args.SList[0])
		}
		return &cell.Cell{Kind: cell.Vector, Vec: elems}
	})

	builtin(e, "vector-fill!", func(args *cell.Cell) *cell.Cell {
		if err := arity("vector-fill!", args.SList, 2); err != nil {
			return err
		}
		v := args.SList[0]
		for i := range v.Vec {
			v.Vec[i] = args.SList[1]
		}
		return cell.Unspec
	})

	builtin(e, "vector-copy", func(args *cell.Cell) *cell.Cell {
		if err := arityAtLeast("vector-copy", args.SList, 1); err != nil {
			return err
		}
		v := args.SList[0]
		start, end := 0, len(v.Vec)
		if len(args.SList) > 1 {
			start = int(args.SList[1].I64)
		}
		if len(args.SList) > 2 {
			end = int(args.SList[2].I64)
		}
		out := make([]*cell.Cell, end-start)
		copy(out, v.Vec[start:end])
		return &cell.Cell{Kind: cell.Vector, Vec: out}
	})

	builtin(e, "vector-append", func(args *cell.Cell) *cell.Cell {
		var out []*cell.Cell
		for _, v := range args.SList {
			out = append(out, v.Vec...)
		}
		return &cell.Cell{Kind: cell.Vector, Vec: out}
	})

	builtin(e, "vector-map", func(args *cell.Cell) *cell.Cell {
		if err := arityAtLeast("vector-map", args.SList, 2); err != nil {
			return err
		}
		proc := args.SList[0]
		vecs := args.SList[1:]
		n := len(vecs[0].Vec)
		out := make([]*cell.Cell, n)
		for i := 0; i < n; i++ {
			callArgs := make([]*cell.Cell, len(vecs))
			for j, v := range vecs {
				callArgs[j] = v.Vec[i]
			}
			out[i] = applyProc(proc, callArgs)
		}
		return &cell.Cell{Kind: cell.Vector, Vec: out}
	})

	builtin(e, "vector-for-each", func(args *cell.Cell) *cell.Cell {
		if err := arityAtLeast("vector-for-each", args.SList, 2); err != nil {
			return err
		}
		proc := args.SList[0]
		vecs := args.SList[1:]
		n := len(vecs[0].Vec)
		for i := 0; i < n; i++ {
			callArgs := make([]*cell.Cell, len(vecs))
			for j, v := range vecs {
				callArgs[j] = v.Vec[i]
			}
			applyProc(proc, callArgs)
		}
		return cell.Unspec
	})
}
