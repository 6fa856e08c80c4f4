// Package eval implements the trampolining tree-walking evaluator of
// spec.md §4.4: special forms dispatch directly on a symbol's interned
// SpecialForm id, tail positions are resolved by looping instead of
// recursing, and a builtin may hand back a cell.TailCall sentinel to keep
// its own call to another procedure out of the host Go stack.
package eval

import (
	"strconv"

	"cozenage/internal/cell"
	"cozenage/internal/env"
	"cozenage/internal/schemerr"
	"cozenage/internal/symtab"
)

// special-form ids, mirrored from symtab's pre-interned keyword table so
// the hot dispatch switch in Eval can compare small ints instead of
// strings.
var (
	sfDefine      = symtab.SpecialFormID("define")
	sfLambda      = symtab.SpecialFormID("lambda")
	sfIf          = symtab.SpecialFormID("if")
	sfQuote       = symtab.SpecialFormID("quote")
	sfLet         = symtab.SpecialFormID("let")
	sfLetrec      = symtab.SpecialFormID("letrec")
	sfSet         = symtab.SpecialFormID("set!")
	sfBegin       = symtab.SpecialFormID("begin")
	sfAnd         = symtab.SpecialFormID("and")
	sfImport      = symtab.SpecialFormID("import")
	sfDefmacro    = symtab.SpecialFormID("defmacro")
	sfDelay       = symtab.SpecialFormID("delay")
	sfDelayForce  = symtab.SpecialFormID("delay-force")
	sfStream      = symtab.SpecialFormID("stream")
)

// LibraryLoader is set by package primitives in its own init(), letting the
// `import` special form pull in a named library's bindings without eval
// importing primitives (which itself imports eval, to register builtins
// like `apply` and `force` that call back into Eval/Apply).
var LibraryLoader func(e *env.Env, name string) error

func unboundErr(name string) *cell.Cell {
	return cell.NewError(schemerr.New(schemerr.General, "unbound variable: %s", name))
}

func notApplicableErr(c *cell.Cell) *cell.Cell {
	return cell.NewError(schemerr.Typef("apply", "procedure", c.Kind.String()))
}

// Eval evaluates expr in e, looping instead of recursing through tail
// positions: a special-form handler either returns a finished value
// directly or asks the loop to continue on a new (expr, env) pair.
func Eval(expr *cell.Cell, e *env.Env) *cell.Cell {
	for {
		switch expr.Kind {
		case cell.Symbol:
			if v, ok := e.Lookup(expr); ok {
				return v
			}
			return unboundErr(expr.Sym.Name)

		case cell.SExpr:
			if len(expr.SList) == 0 {
				return cell.NewError(schemerr.New(schemerr.Syntax, "cannot evaluate ()"))
			}
			head := expr.SList[0]

			if head.Kind == cell.Symbol {
				if m, ok := lookupMacro(head); ok {
					expanded, err := expandMacroCall(m, expr, e)
					if err != nil {
						return err
					}
					expr = expanded
					continue
				}

				switch head.Sym.SpecialForm {
				case sfQuote:
					return cell.SExprToList(expr.SList[1])
				case sfDefine:
					return evalDefine(expr, e)
				case sfLambda:
					return evalLambda(expr, e)
				case sfIf:
					next, nextEnv, res, done := evalIf(expr, e)
					if done {
						return res
					}
					expr, e = next, nextEnv
					continue
				case sfLet:
					next, nextEnv := evalLet(expr, e)
					expr, e = next, nextEnv
					continue
				case sfLetrec:
					next, nextEnv := evalLetrec(expr, e)
					expr, e = next, nextEnv
					continue
				case sfSet:
					return evalSet(expr, e)
				case sfBegin:
					next, nextEnv, res, done := evalSequence(expr.SList[1:], e)
					if done {
						return res
					}
					expr, e = next, nextEnv
					continue
				case sfAnd:
					next, nextEnv, res, done := evalAnd(expr.SList[1:], e)
					if done {
						return res
					}
					expr, e = next, nextEnv
					continue
				case sfImport:
					return evalImport(expr, e)
				case sfDefmacro:
					return evalDefmacro(expr, e)
				case sfDelay:
					return evalDelay(expr, e, false)
				case sfDelayForce:
					return evalDelay(expr, e, true)
				case sfStream:
					return evalStream(expr, e)
				}
			}

			// Ordinary application: evaluate head and args left to right.
			callee := Eval(head, e)
			if cell.IsError(callee) {
				return callee
			}
			args := make([]*cell.Cell, len(expr.SList)-1)
			for i, a := range expr.SList[1:] {
				v := Eval(a, e)
				if cell.IsError(v) {
					return v
				}
				args[i] = v
			}
			next, nextEnv, res, done := resolveApplication(callee, args)
			if done {
				return res
			}
			expr, e = next, nextEnv
			continue

		default:
			// Self-evaluating atom: numbers, strings, chars, booleans,
			// vectors, bytevectors, procedures already in value position.
			return expr
		}
	}
}

// evalSequence evaluates exprs for effect, returning the last one in tail
// position (expr, env, nil, false) so the caller's Eval loop continues on
// it instead of recursing; an empty sequence yields Unspecified directly.
func evalSequence(exprs []*cell.Cell, e *env.Env) (*cell.Cell, *env.Env, *cell.Cell, bool) {
	if len(exprs) == 0 {
		return nil, nil, cell.Unspec, true
	}
	for _, x := range exprs[:len(exprs)-1] {
		v := Eval(x, e)
		if cell.IsError(v) {
			return nil, nil, v, true
		}
	}
	return exprs[len(exprs)-1], e, nil, false
}

func evalAnd(exprs []*cell.Cell, e *env.Env) (*cell.Cell, *env.Env, *cell.Cell, bool) {
	if len(exprs) == 0 {
		return nil, nil, cell.True, true
	}
	for _, x := range exprs[:len(exprs)-1] {
		v := Eval(x, e)
		if cell.IsError(v) {
			return nil, nil, v, true
		}
		if !cell.Truthy(v) {
			return nil, nil, v, true
		}
	}
	return exprs[len(exprs)-1], e, nil, false
}

func evalIf(expr *cell.Cell, e *env.Env) (*cell.Cell, *env.Env, *cell.Cell, bool) {
	if len(expr.SList) < 3 || len(expr.SList) > 4 {
		return nil, nil, cell.NewError(schemerr.Arityf("if", "2 or 3", len(expr.SList)-1)), true
	}
	test := Eval(expr.SList[1], e)
	if cell.IsError(test) {
		return nil, nil, test, true
	}
	if cell.Truthy(test) {
		return expr.SList[2], e, nil, false
	}
	if len(expr.SList) == 4 {
		return expr.SList[3], e, nil, false
	}
	return nil, nil, cell.Unspec, true
}

func evalSet(expr *cell.Cell, e *env.Env) *cell.Cell {
	if len(expr.SList) != 3 || expr.SList[1].Kind != cell.Symbol {
		return cell.NewError(schemerr.New(schemerr.Syntax, "set!: expected (set! symbol expr)"))
	}
	v := Eval(expr.SList[2], e)
	if cell.IsError(v) {
		return v
	}
	if !e.Set(expr.SList[1], v) {
		return unboundErr(expr.SList[1].Sym.Name)
	}
	return cell.Unspec
}

// Apply invokes callee on already-evaluated args, trampolining through any
// chain of builtin-returned cell.TailCall sentinels before handing off to
// Eval for a closure body. This is the entry point primitives use (e.g.
// `map`, `for-each`, `fold-left`) to call back into the evaluator.
func Apply(callee *cell.Cell, args []*cell.Cell) *cell.Cell {
	next, nextEnv, res, done := resolveApplication(callee, args)
	if done {
		return res
	}
	return Eval(next, nextEnv)
}

// resolveApplication applies callee to args. Builtins are run to
// completion inline, chasing any TailCall sentinel they return so builtin
// composition (e.g. apply calling into another builtin) never grows the
// Go stack either. A closure application returns its body/environment for
// the caller's Eval loop to continue on, rather than recursing here.
func resolveApplication(callee *cell.Cell, args []*cell.Cell) (nextExpr *cell.Cell, nextEnv *env.Env, result *cell.Cell, done bool) {
	for {
		if callee.Kind != cell.Procedure {
			return nil, nil, notApplicableErr(callee), true
		}
		if callee.Proc.IsBuiltin {
			res := callee.Proc.Native.Fn(cell.NewSExpr(args...))
			if res.Kind != cell.TailCall {
				return nil, nil, res, true
			}
			callee = res.CarCell
			args = res.SList
			continue
		}

		closure := callee.Proc.Closure
		newEnv, errCell := bindFormals(closure, args)
		if errCell != nil {
			return nil, nil, errCell, true
		}
		return closure.Body, newEnv, nil, false
	}
}

// bindFormals binds args into a fresh frame over the closure's captured
// environment, honoring all three R7RS formals shapes: a bare symbol
// (fully variadic), a proper list (fixed arity), or a dotted list (fixed
// prefix plus a variadic rest).
func bindFormals(closure *cell.Lambda, args []*cell.Cell) (*env.Env, *cell.Cell) {
	captured := closure.Captured.(*env.Env)

	if closure.Formals.Kind == cell.Symbol {
		return captured.Extend([]*cell.Cell{closure.Formals}, []*cell.Cell{cell.ListFromSlice(args)}), nil
	}

	var names []*cell.Cell
	rest := closure.Formals
	for rest.Kind == cell.Pair {
		names = append(names, rest.CarCell)
		rest = rest.CdrCell
	}
	variadic := rest.Kind == cell.Symbol

	if variadic {
		if len(args) < len(names) {
			return nil, arityErr(closure, len(names), true, len(args))
		}
	} else if len(args) != len(names) {
		return nil, arityErr(closure, len(names), false, len(args))
	}

	values := make([]*cell.Cell, len(names), len(names)+1)
	copy(values, args[:len(names)])
	if variadic {
		names = append(names, rest)
		values = append(values, cell.ListFromSlice(args[len(names)-1:]))
	}
	return captured.Extend(names, values), nil
}

func arityErr(closure *cell.Lambda, fixed int, variadic bool, got int) *cell.Cell {
	name := closure.Name
	if name == "" {
		name = "lambda"
	}
	expected := strconv.Itoa(fixed)
	if variadic {
		expected = "at least " + expected
	}
	return cell.NewError(schemerr.Arityf(name, expected, got))
}
