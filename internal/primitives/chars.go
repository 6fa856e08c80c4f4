package primitives

import (
	"unicode"

	"cozenage/internal/cell"
	"cozenage/internal/env"
)

func registerChars(e *env.Env) {
	builtin(e, "char->integer", func(args *cell.Cell) *cell.Cell {
		if err := arity("char->integer", args.SList, 1); err != nil {
			return err
		}
		a := args.SList[0]
		if a.Kind != cell.Char {
			return typeErr("char->integer", "char", a)
		}
		return cell.NewInteger(int64(a.Rune))
	})
	builtin(e, "integer->char", func(args *cell.Cell) *cell.Cell {
		if err := arity("integer->char", args.SList, 1); err != nil {
			return err
		}
		return cell.NewChar(rune(args.SList[0].I64))
	})

	builtin(e, "char-upcase", func(args *cell.Cell) *cell.Cell {
		if err := arity("char-upcase", args.SList, 1); err != nil {
			return err
		}
		return cell.NewChar(unicode.ToUpper(args.SList[0].Rune))
	})
	builtin(e, "char-downcase", func(args *cell.Cell) *cell.Cell {
		if err := arity("char-downcase", args.SList, 1); err != nil {
			return err
		}
		return cell.NewChar(unicode.ToLower(args.SList[0].Rune))
	})

	builtin(e, "char-alphabetic?", typePred("char-alphabetic?", func(c *cell.Cell) bool { return unicode.IsLetter(c.Rune) }))
	builtin(e, "char-numeric?", typePred("char-numeric?", func(c *cell.Cell) bool { return unicode.IsDigit(c.Rune) }))
	builtin(e, "char-whitespace?", typePred("char-whitespace?", func(c *cell.Cell) bool { return unicode.IsSpace(c.Rune) }))
	builtin(e, "char-upper-case?", typePred("char-upper-case?", func(c *cell.Cell) bool { return unicode.IsUpper(c.Rune) }))
	builtin(e, "char-lower-case?", typePred("char-lower-case?", func(c *cell.Cell) bool { return unicode.IsLower(c.Rune) }))

	charCmp := func(name string, ok func(int) bool, fold bool) {
		builtin(e, name, func(args *cell.Cell) *cell.Cell {
			if err := arityAtLeast(name, args.SList, 1); err != nil {
				return err
			}
			for i := 0; i+1 < len(args.SList); i++ {
				a, b := args.SList[i].Rune, args.SList[i+1].Rune
				if fold {
					a, b = unicode.ToLower(a), unicode.ToLower(b)
				}
				diff := int(a) - int(b)
				if !ok(diff) {
					return cell.False
				}
			}
			return cell.True
		})
	}
	charCmp("char=?", func(c int) bool { return c == 0 }, false)
	charCmp("char<?", func(c int) bool { return c < 0 }, false)
	charCmp("char>?", func(c int) bool { return c > 0 }, false)
	charCmp("char<=?", func(c int) bool { return c <= 0 }, false)
	charCmp("char>=?", func(c int) bool { return c >= 0 }, false)
	charCmp("char-ci=?", func(c int) bool { return c == 0 }, true)
	charCmp("char-ci<?", func(c int) bool { return c < 0 }, true)
	charCmp("char-ci>?", func(c int) bool { return c > 0 }, true)
}
