package primitives

import (
	"strings"

	"cozenage/internal/cell"
	"cozenage/internal/env"
	"cozenage/internal/reader"
	"cozenage/internal/schemerr"
)

func registerStrings(e *env.Env) {
	builtin(e, "string-length", func(args *cell.Cell) *cell.Cell {
		if err := arity("string-length", args.SList, 1); err != nil {
			return err
		}
		a := args.SList[0]
		if a.Kind != cell.String {
			return typeErr("string-length", "string", a)
		}
		return cell.NewInteger(int64(a.Str.CodeLen))
	})

	builtin(e, "string-ref", func(args *cell.Cell) *cell.Cell {
		if err := arity("string-ref", args.SList, 2); err != nil {
			return err
		}
		s, idx := args.SList[0], int(args.SList[1].I64)
		runes := []rune(string(s.Str.Bytes))
		if idx < 0 || idx >= len(runes) {
			return cell.NewError(schemerr.Indexf("string-ref", idx, len(runes)))
		}
		return cell.NewChar(runes[idx])
	})

	builtin(e, "string-append", func(args *cell.Cell) *cell.Cell {
		var sb strings.Builder
		for _, a := range args.SList {
			if a.Kind != cell.String {
				return typeErr("string-append", "string", a)
			}
			sb.Write(a.Str.Bytes)
		}
		return cell.NewString(sb.String())
	})

	builtin(e, "substring", func(args *cell.Cell) *cell.Cell {
		if err := arityAtLeast("substring", args.SList, 2); err != nil {
			return err
		}
		s := args.SList[0]
		runes := []rune(string(s.Str.Bytes))
		start, end := int(args.SList[1].I64), len(runes)
		if len(args.SList) > 2 {
			end = int(args.SList[2].I64)
		}
		if start < 0 || end > len(runes) || start > end {
			return cell.NewError(schemerr.Indexf("substring", start, len(runes)))
		}
		return cell.NewString(string(runes[start:end]))
	})

	builtin(e, "string->symbol", func(args *cell.Cell) *cell.Cell {
		if err := arity("string->symbol", args.SList, 1); err != nil {
			return err
		}
		return symbolFor(string(args.SList[0].Str.Bytes))
	})
	builtin(e, "symbol->string", func(args *cell.Cell) *cell.Cell {
		if err := arity("symbol->string", args.SList, 1); err != nil {
			return err
		}
		return cell.NewString(args.SList[0].Sym.Name)
	})

	builtin(e, "string->list", func(args *cell.Cell) *cell.Cell {
		if err := arity("string->list", args.SList, 1); err != nil {
			return err
		}
		var elems []*cell.Cell
		for _, r := range string(args.SList[0].Str.Bytes) {
			elems = append(elems, cell.NewChar(r))
		}
		return cell.ListFromSlice(elems)
	})
	builtin(e, "list->string", func(args *cell.Cell) *cell.Cell {
		if err := arity("list->string", args.SList, 1); err != nil {
			return err
		}
		elems, ok := cell.ToSlice(args.SList[0])
		if !ok {
			return typeErr("list->string", "proper list", args.SList[0])
		}
		var sb strings.Builder
		for _, c := range elems {
			if c.Kind != cell.Char {
				return typeErr("list->string", "char", c)
			}
			sb.WriteRune(c.Rune)
		}
		return cell.NewString(sb.String())
	})

	builtin(e, "string-upcase", func(args *cell.Cell) *cell.Cell {
		if err := arity("string-upcase", args.SList, 1); err != nil {
			return err
		}
		return cell.NewString(strings.ToUpper(string(args.SList[0].Str.Bytes)))
	})
	builtin(e, "string-downcase", func(args *cell.Cell) *cell.Cell {
		if err := arity("string-downcase", args.SList, 1); err != nil {
			return err
		}
		return cell.NewString(strings.ToLower(string(args.SList[0].Str.Bytes)))
	})

	builtin(e, "string-copy", func(args *cell.Cell) *cell.Cell {
		if err := arity("string-copy", args.SList, 1); err != nil {
			return err
		}
		return cell.NewString(string(args.SList[0].Str.Bytes))
	})

	builtin(e, "number->string", func(args *cell.Cell) *cell.Cell {
		if err := arityAtLeast("number->string", args.SList, 1); err != nil {
			return err
		}
		return cell.NewString(cell.Display(args.SList[0]))
	})
	builtin(e, "string->number", func(args *cell.Cell) *cell.Cell {
		if err := arityAtLeast("string->number", args.SList, 1); err != nil {
			return err
		}
		n, ok := reader.ParseNumber(string(args.SList[0].Str.Bytes))
		if !ok {
			return cell.False
		}
		return n
	})

	strCmp := func(name string, ok func(int) bool) {
		builtin(e, name, func(args *cell.Cell) *cell.Cell {
			if err := arityAtLeast(name, args.SList, 1); err != nil {
				return err
			}
			for i := 0; i+1 < len(args.SList); i++ {
				a, b := string(args.SList[i].Str.Bytes), string(args.SList[i+1].Str.Bytes)
				if !ok(strings.Compare(a, b)) {
					return cell.False
				}
			}
			return cell.True
		})
	}
	strCmp("string=?", func(c int) bool { return c == 0 })
	strCmp("string<?", func(c int) bool { return c < 0 })
	strCmp("string>?", func(c int) bool { return c > 0 })
	strCmp("string<=?", func(c int) bool { return c <= 0 })
	strCmp("string>=?", func(c int) bool { return c >= 0 })
}
