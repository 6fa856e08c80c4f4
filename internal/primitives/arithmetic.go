package primitives

import (
	"math"
	"strconv"

	"cozenage/internal/cell"
	"cozenage/internal/env"
	"cozenage/internal/schemerr"
)

func typeErr(proc, expected string, got *cell.Cell) *cell.Cell {
	return cell.NewError(schemerr.Typef(proc, expected, got.Kind.String()))
}

// arity returns an Arity-kind Error cell if args doesn't have exactly n
// elements, nil otherwise — the fixed-arity counterpart to the variadic
// arithmetic procedures' own inline length checks.
func arity(proc string, args []*cell.Cell, n int) *cell.Cell {
	if len(args) != n {
		return cell.NewError(schemerr.Arityf(proc, strconv.Itoa(n), len(args)))
	}
	return nil
}

// arityAtLeast returns an Arity-kind Error cell if args has fewer than n
// elements, nil otherwise.
func arityAtLeast(proc string, args []*cell.Cell, n int) *cell.Cell {
	if len(args) < n {
		return cell.NewError(schemerr.Arityf(proc, "at least "+strconv.Itoa(n), len(args)))
	}
	return nil
}

func checkNumbers(proc string, args []*cell.Cell) *cell.Cell {
	for _, a := range args {
		if !cell.IsNumber(a) {
			return typeErr(proc, "number", a)
		}
	}
	return nil
}

func registerArithmetic(e *env.Env) {
	builtin(e, "+", func(args *cell.Cell) *cell.Cell {
		if err := checkNumbers("+", args.SList); err != nil {
			return err
		}
		acc := cell.NewInteger(0)
		for _, a := range args.SList {
			acc = cell.Add(acc, a)
		}
		return acc
	})

	builtin(e, "*", func(args *cell.Cell) *cell.Cell {
		if err := checkNumbers("*", args.SList); err != nil {
			return err
		}
		acc := cell.NewInteger(1)
		for _, a := range args.SList {
			acc = cell.Mul(acc, a)
		}
		return acc
	})

	builtin(e, "-", func(args *cell.Cell) *cell.Cell {
		if err := checkNumbers("-", args.SList); err != nil {
			return err
		}
		if len(args.SList) == 0 {
			return cell.NewError(schemerr.Arityf("-", "at least 1", 0))
		}
		if len(args.SList) == 1 {
			return cell.Sub(cell.NewInteger(0), args.SList[0])
		}
		acc := args.SList[0]
		for _, a := range args.SList[1:] {
			acc = cell.Sub(acc, a)
		}
		return acc
	})

	builtin(e, "/", func(args *cell.Cell) *cell.Cell {
		if err := checkNumbers("/", args.SList); err != nil {
			return err
		}
		if len(args.SList) == 0 {
			return cell.NewError(schemerr.Arityf("/", "at least 1", 0))
		}
		var acc *cell.Cell
		rest := args.SList
		if len(args.SList) == 1 {
			acc = cell.NewInteger(1)
		} else {
			acc = args.SList[0]
			rest = args.SList[1:]
		}
		for _, a := range rest {
			r := cell.Div(acc, a)
			if r == nil {
				return cell.NewError(schemerr.New(schemerr.Value, "/: division by zero"))
			}
			acc = r
		}
		return acc
	})

	cmp := func(name string, ok func(int) bool) {
		builtin(e, name, func(args *cell.Cell) *cell.Cell {
			if err := checkNumbers(name, args.SList); err != nil {
				return err
			}
			for i := 0; i+1 < len(args.SList); i++ {
				if !ok(cell.Compare(args.SList[i], args.SList[i+1])) {
					return cell.False
				}
			}
			return cell.True
		})
	}
	cmp("<", func(c int) bool { return c < 0 })
	cmp(">", func(c int) bool { return c > 0 })
	cmp("<=", func(c int) bool { return c <= 0 })
	cmp(">=", func(c int) bool { return c >= 0 })

	builtin(e, "=", func(args *cell.Cell) *cell.Cell {
		if err := checkNumbers("=", args.SList); err != nil {
			return err
		}
		for i := 0; i+1 < len(args.SList); i++ {
			if !cell.NumEqual(args.SList[i], args.SList[i+1]) {
				return cell.False
			}
		}
		return cell.True
	})

	builtin(e, "abs", func(args *cell.Cell) *cell.Cell {
		if err := arity("abs", args.SList, 1); err != nil {
			return err
		}
		a := args.SList[0]
		if cell.Compare(a, cell.NewInteger(0)) < 0 {
			return cell.Sub(cell.NewInteger(0), a)
		}
		return a
	})

	builtin(e, "quotient", intDivOp("quotient", func(a, b int64) int64 { return a / b }))
	builtin(e, "remainder", intDivOp("remainder", func(a, b int64) int64 { return a % b }))
	builtin(e, "modulo", intDivOp("modulo", func(a, b int64) int64 {
		m := a % b
		if m != 0 && (m < 0) != (b < 0) {
			m += b
		}
		return m
	}))

	builtin(e, "min", reduceNumeric("min", func(c int) bool { return c < 0 }))
	builtin(e, "max", reduceNumeric("max", func(c int) bool { return c > 0 }))

	builtin(e, "zero?", numPred("zero?", func(c *cell.Cell) bool { return cell.IsZeroNumber(c) }))
	builtin(e, "positive?", numPred("positive?", func(c *cell.Cell) bool { return cell.Compare(c, cell.NewInteger(0)) > 0 }))
	builtin(e, "negative?", numPred("negative?", func(c *cell.Cell) bool { return cell.Compare(c, cell.NewInteger(0)) < 0 }))
	builtin(e, "odd?", numPred("odd?", func(c *cell.Cell) bool { return c.I64%2 != 0 }))
	builtin(e, "even?", numPred("even?", func(c *cell.Cell) bool { return c.I64%2 == 0 }))

	builtin(e, "number?", typePred("number?", cell.IsNumber))
	builtin(e, "integer?", typePred("integer?", cell.IsInteger))
	builtin(e, "rational?", typePred("rational?", cell.IsRational))
	builtin(e, "real?", typePred("real?", cell.IsReal))
	builtin(e, "complex?", typePred("complex?", cell.IsComplexNum))
	builtin(e, "exact?", typePred("exact?", cell.IsExact))
	builtin(e, "inexact?", typePred("inexact?", func(c *cell.Cell) bool { return cell.IsNumber(c) && !cell.IsExact(c) }))

	builtin(e, "exact->inexact", func(args *cell.Cell) *cell.Cell {
		if err := arity("exact->inexact", args.SList, 1); err != nil {
			return err
		}
		a := args.SList[0]
		if !cell.IsExact(a) {
			return a
		}
		return cell.NewReal(realValue(a))
	})
	builtin(e, "inexact->exact", func(args *cell.Cell) *cell.Cell {
		if err := arity("inexact->exact", args.SList, 1); err != nil {
			return err
		}
		a := args.SList[0]
		if cell.IsExact(a) {
			return a
		}
		return cell.NewInteger(int64(math.Round(realValue(a))))
	})

	builtin(e, "floor", floatRound("floor", math.Floor))
	builtin(e, "ceiling", floatRound("ceiling", math.Ceil))
	builtin(e, "truncate", floatRound("truncate", math.Trunc))
	builtin(e, "round", floatRound("round", math.RoundToEven))

	builtin(e, "sqrt", func(args *cell.Cell) *cell.Cell {
		if err := arity("sqrt", args.SList, 1); err != nil {
			return err
		}
		a := args.SList[0]
		v := realValue(a)
		if v < 0 {
			return cell.NewComplex(cell.NewInteger(0), cell.NewReal(math.Sqrt(-v)))
		}
		r := math.Sqrt(v)
		if cell.IsExact(a) && r == math.Trunc(r) {
			return cell.NewInteger(int64(r))
		}
		return cell.NewReal(r)
	})
	builtin(e, "expt", func(args *cell.Cell) *cell.Cell {
		if err := arity("expt", args.SList, 2); err != nil {
			return err
		}
		base, exp := realValue(args.SList[0]), realValue(args.SList[1])
		r := math.Pow(base, exp)
		if cell.IsExact(args.SList[0]) && cell.IsExact(args.SList[1]) && r == math.Trunc(r) {
			return cell.NewInteger(int64(r))
		}
		return cell.NewReal(r)
	})
}

func realValue(c *cell.Cell) float64 { return cell.ToFloat(c) }

func intDivOp(name string, op func(a, b int64) int64) func(*cell.Cell) *cell.Cell {
	return func(args *cell.Cell) *cell.Cell {
		if err := arity(name, args.SList, 2); err != nil {
			return err
		}
		a, b := args.SList[0], args.SList[1]
		if b.I64 == 0 {
			return cell.NewError(schemerr.New(schemerr.Value, "%s: division by zero", name))
		}
		return cell.NewInteger(op(a.I64, b.I64))
	}
}

func reduceNumeric(name string, better func(cmp int) bool) func(*cell.Cell) *cell.Cell {
	return func(args *cell.Cell) *cell.Cell {
		if err := checkNumbers(name, args.SList); err != nil {
			return err
		}
		if len(args.SList) == 0 {
			return cell.NewError(schemerr.Arityf(name, "at least 1", 0))
		}
		best := args.SList[0]
		inexact := !cell.IsExact(best)
		for _, a := range args.SList[1:] {
			if !cell.IsExact(a) {
				inexact = true
			}
			if better(cell.Compare(a, best)) {
				best = a
			}
		}
		if inexact && cell.IsExact(best) {
			return cell.NewReal(realValue(best))
		}
		return best
	}
}

func numPred(name string, p func(*cell.Cell) bool) func(*cell.Cell) *cell.Cell {
	return func(args *cell.Cell) *cell.Cell {
		if err := arity(name, args.SList, 1); err != nil {
			return err
		}
		if !cell.IsNumber(args.SList[0]) {
			return typeErr(name, "number", args.SList[0])
		}
		return cell.Bool(p(args.SList[0]))
	}
}

func typePred(name string, p func(*cell.Cell) bool) func(*cell.Cell) *cell.Cell {
	return func(args *cell.Cell) *cell.Cell {
		if err := arity(name, args.SList, 1); err != nil {
			return err
		}
		return cell.Bool(p(args.SList[0]))
	}
}

func floatRound(name string, op func(float64) float64) func(*cell.Cell) *cell.Cell {
	return func(args *cell.Cell) *cell.Cell {
		if err := arity(name, args.SList, 1); err != nil {
			return err
		}
		a := args.SList[0]
		if cell.IsExact(a) && cell.IsInteger(a) {
			return a
		}
		r := op(realValue(a))
		if cell.IsExact(a) {
			return cell.NewInteger(int64(r))
		}
		return cell.NewReal(r)
	}
}
