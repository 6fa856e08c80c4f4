package primitives

import (
	"cozenage/internal/cell"
	"cozenage/internal/env"
	"cozenage/internal/eval"
	"cozenage/internal/schemerr"
)

// applyProc calls a Procedure cell with already-evaluated args, used by the
// higher-order list/vector procedures (map, for-each, vector-map, ...) that
// need to call back into the evaluator directly, rather than returning a
// TailCall the way the `apply` builtin does.
func applyProc(proc *cell.Cell, args []*cell.Cell) *cell.Cell {
	if proc.Kind != cell.Procedure {
		return typeErr("apply", "procedure", proc)
	}
	return eval.Apply(proc, args)
}

// ExitCode is set by the `exit` primitive and polled by package runner
// after each top-level form, since a builtin has no way to terminate the
// host process on its own (spec.md §6's exit-code contract).
var ExitCode = -1

// CommandLineArgs backs `(command-line)`; package runner populates it
// before running a script (spec.md §6: script path then any args after
// `--`).
var CommandLineArgs []*cell.Cell

func registerControl(e *env.Env) {
	eval.Init(e)

	builtin(e, "apply", eval.ApplyBuiltin)
	builtin(e, "eval", eval.EvalBuiltin)
	builtin(e, "force", eval.Force)
	builtin(e, "interaction-environment", eval.InteractionEnvironment)
	builtin(e, "with-gc-stats", eval.WithGCStats)

	builtin(e, "command-line", func(args *cell.Cell) *cell.Cell {
		return cell.ListFromSlice(CommandLineArgs)
	})

	builtin(e, "exit", func(args *cell.Cell) *cell.Cell {
		code := 0
		if len(args.SList) > 0 {
			a := args.SList[0]
			switch {
			case a.Kind == cell.Boolean:
				if !a.Bool {
					code = 1
				}
			case a.Kind == cell.Integer:
				code = int(a.I64)
			default:
				return typeErr("exit", "integer or boolean", a)
			}
		}
		ExitCode = code
		return cell.Unspec
	})

	builtin(e, "map", func(args *cell.Cell) *cell.Cell {
		if len(args.SList) < 2 {
			return cell.NewError(schemerr.Arityf("map", "at least 2", len(args.SList)))
		}
		proc := args.SList[0]
		lists := make([][]*cell.Cell, len(args.SList)-1)
		n := -1
		for i, lst := range args.SList[1:] {
			elems, ok := cell.ToSlice(lst)
			if !ok {
				return typeErr("map", "proper list", lst)
			}
			lists[i] = elems
			if n == -1 || len(elems) < n {
				n = len(elems)
			}
		}
		out := make([]*cell.Cell, n)
		for i := 0; i < n; i++ {
			callArgs := make([]*cell.Cell, len(lists))
			for j, l := range lists {
				callArgs[j] = l[i]
			}
			out[i] = applyProc(proc, callArgs)
		}
		return cell.ListFromSlice(out)
	})

	builtin(e, "for-each", func(args *cell.Cell) *cell.Cell {
		if len(args.SList) < 2 {
			return cell.NewError(schemerr.Arityf("for-each", "at least 2", len(args.SList)))
		}
		proc := args.SList[0]
		lists := make([][]*cell.Cell, len(args.SList)-1)
		n := -1
		for i, lst := range args.SList[1:] {
			elems, ok := cell.ToSlice(lst)
			if !ok {
				return typeErr("for-each", "proper list", lst)
			}
			lists[i] = elems
			if n == -1 || len(elems) < n {
				n = len(elems)
			}
		}
		for i := 0; i < n; i++ {
			callArgs := make([]*cell.Cell, len(lists))
			for j, l := range lists {
				callArgs[j] = l[i]
			}
			applyProc(proc, callArgs)
		}
		return cell.Unspec
	})

	builtin(e, "filter", func(args *cell.Cell) *cell.Cell {
		if err := arity("filter", args.SList, 2); err != nil {
			return err
		}
		proc, lst := args.SList[0], args.SList[1]
		elems, ok := cell.ToSlice(lst)
		if !ok {
			return typeErr("filter", "proper list", lst)
		}
		var out []*cell.Cell
		for _, el := range elems {
			if cell.Truthy(applyProc(proc, []*cell.Cell{el})) {
				out = append(out, el)
			}
		}
		return cell.ListFromSlice(out)
	})

	builtin(e, "fold-left", func(args *cell.Cell) *cell.Cell {
		if err := arity("fold-left", args.SList, 3); err != nil {
			return err
		}
		proc, acc, lst := args.SList[0], args.SList[1], args.SList[2]
		elems, ok := cell.ToSlice(lst)
		if !ok {
			return typeErr("fold-left", "proper list", lst)
		}
		for _, el := range elems {
			acc = applyProc(proc, []*cell.Cell{acc, el})
		}
		return acc
	})

	builtin(e, "fold-right", func(args *cell.Cell) *cell.Cell {
		if err := arity("fold-right", args.SList, 3); err != nil {
			return err
		}
		proc, acc, lst := args.SList[0], args.SList[1], args.SList[2]
		elems, ok := cell.ToSlice(lst)
		if !ok {
			return typeErr("fold-right", "proper list", lst)
		}
		for i := len(elems) - 1; i >= 0; i-- {
			acc = applyProc(proc, []*cell.Cell{elems[i], acc})
		}
		return acc
	})
}
