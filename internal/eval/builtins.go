package eval

import (
	"cozenage/internal/cell"
	"cozenage/internal/env"
	"cozenage/internal/schemerr"
)

// globalEnv is stashed by Init so the `interaction-environment` and
// `eval` builtins (registered from package primitives) have something to
// hand back / evaluate against without threading an *env.Env through the
// Builtin.Fn signature everywhere else.
var globalEnv *env.Env

// Init records e as the environment `(interaction-environment)` returns.
// Called once, from the runner, after the global environment and its
// primitive bindings are fully populated.
func Init(e *env.Env) { globalEnv = e }

// InteractionEnvironment implements `(interaction-environment)`.
func InteractionEnvironment(args *cell.Cell) *cell.Cell {
	if len(args.SList) != 0 {
		return cell.NewError(schemerr.Arityf("interaction-environment", "0", len(args.SList)))
	}
	return cell.NewEnvironment(globalEnv)
}

// EvalBuiltin implements R7RS `eval`: re-evaluate a quoted datum, either in
// the environment handle given as a second argument or in the global
// interaction environment (spec.md §8: `(eval '(+ 1 2) (interaction-
// environment))` -> 3).
func EvalBuiltin(args *cell.Cell) *cell.Cell {
	if len(args.SList) < 1 || len(args.SList) > 2 {
		return cell.NewError(schemerr.Arityf("eval", "1 or 2", len(args.SList)))
	}
	target := globalEnv
	if len(args.SList) == 2 {
		envArg := args.SList[1]
		if envArg.Kind != cell.Environment {
			return cell.NewError(schemerr.Typef("eval", "environment", envArg.Kind.String()))
		}
		target = envArg.EnvHandle.(*env.Env)
	}
	return Eval(cell.ListToSExpr(args.SList[0]), target)
}

// ApplyBuiltin implements R7RS `apply`: call proc on (args[0]...args[n-2],
// args[n-1]...), splicing the final argument's elements in, returning a
// TailCall sentinel so the caller's trampoline (resolveApplication or
// another builtin chasing one) absorbs this call without recursing.
func ApplyBuiltin(args *cell.Cell) *cell.Cell {
	n := len(args.SList)
	if n < 2 {
		return cell.NewError(schemerr.Arityf("apply", "at least 2", n))
	}
	proc := args.SList[0]
	last := args.SList[n-1]
	tail, ok := cell.ToSlice(last)
	if !ok {
		return cell.NewError(schemerr.Typef("apply", "list", last.Kind.String()))
	}
	flat := make([]*cell.Cell, 0, n-2+len(tail))
	flat = append(flat, args.SList[1:n-1]...)
	flat = append(flat, tail...)
	return cell.NewTailCall(proc, flat)
}
