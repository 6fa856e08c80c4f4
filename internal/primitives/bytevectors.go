package primitives

import (
	"cozenage/internal/cell"
	"cozenage/internal/env"
	"cozenage/internal/schemerr"
)

func registerBytevectors(e *env.Env) {
	builtin(e, "bytevector", func(args *cell.Cell) *cell.Cell {
		bv := make([]byte, len(args.SList))
		for i, a := range args.SList {
			bv[i] = byte(a.I64)
		}
		return &cell.Cell{Kind: cell.Bytevector, BVType: cell.U8, BV: bv}
	})

	builtin(e, "make-bytevector", func(args *cell.Cell) *cell.Cell {
		if err := arityAtLeast("make-bytevector", args.SList, 1); err != nil {
			return err
		}
		n := int(args.SList[0].I64)
		var fill byte
		if len(args.SList) > 1 {
			fill = byte(args.SList[1].I64)
		}
		bv := make([]byte, n)
		for i := range bv {
			bv[i] = fill
		}
		return &cell.Cell{Kind: cell.Bytevector, BVType: cell.U8, BV: bv}
	})

	builtin(e, "bytevector-length", func(args *cell.Cell) *cell.Cell {
		if err := arity("bytevector-length", args.SList, 1); err != nil {
			return err
		}
		a := args.SList[0]
		if a.Kind != cell.Bytevector {
			return typeErr("bytevector-length", "bytevector", a)
		}
		return cell.NewInteger(int64(len(a.BV)))
	})

	builtin(e, "bytevector-u8-ref", func(args *cell.Cell) *cell.Cell {
		if err := arity("bytevector-u8-ref", args.SList, 2); err != nil {
			return err
		}
		a := args.SList[0]
		idx := int(args.SList[1].I64)
		if idx < 0 || idx >= len(a.BV) {
			return cell.NewError(schemerr.Indexf("bytevector-u8-ref", idx, len(a.BV)))
		}
		return cell.NewInteger(int64(a.BV[idx]))
	})

	builtin(e, "bytevector-u8-set!", func(args *cell.Cell) *cell.Cell {
		if err := arity("bytevector-u8-set!", args.SList, 3); err != nil {
			return err
		}
		a := args.SList[0]
		idx := int(args.SList[1].I64)
		if idx < 0 || idx >= len(a.BV) {
			return cell.NewError(schemerr.Indexf("bytevector-u8-set!", idx, len(a.BV)))
		}
		a.BV[idx] = byte(args.SList[2].I64)
		return cell.Unspec
	})

	builtin(e, "bytevector-copy", func(args *cell.Cell) *cell.Cell {
		if err := arityAtLeast("bytevector-copy", args.SList, 1); err != nil {
			return err
		}
		a := args.SList[0]
		start, end := 0, len(a.BV)
		if len(args.SList) > 1 {
			start = int(args.SList[1].I64)
		}
		if len(args.SList) > 2 {
			end = int(args.SList[2].I64)
		}
		out := make([]byte, end-start)
		copy(out, a.BV[start:end])
		return &cell.Cell{Kind: cell.Bytevector, BVType: cell.U8, BV: out}
	})

	builtin(e, "bytevector-append", func(args *cell.Cell) *cell.Cell {
		var out []byte
		for _, a := range args.SList {
			out = append(out, a.BV...)
		}
		return &cell.Cell{Kind: cell.Bytevector, BVType: cell.U8, BV: out}
	})

	builtin(e, "utf8->string", func(args *cell.Cell) *cell.Cell {
		if err := arity("utf8->string", args.SList, 1); err != nil {
			return err
		}
		return cell.NewString(string(args.SList[0].BV))
	})
	builtin(e, "string->utf8", func(args *cell.Cell) *cell.Cell {
		if err := arity("string->utf8", args.SList, 1); err != nil {
			return err
		}
		return &cell.Cell{Kind: cell.Bytevector, BVType: cell.U8, BV: append([]byte(nil), args.SList[0].Str.Bytes...)}
	})
}
