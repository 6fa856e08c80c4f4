// Package runner implements the file-extension sniffing entry point and
// REPL-vs-script dispatch described in spec.md §1/§6: .scm/.ss accepted
// silently, any other suffix gets a warning to stderr (not a rejection),
// a `--` sentinel separates interpreter flags from script arguments, and
// (command-line) returns them inside the running script. It is a thin
// shell around the core's public entry points (reader.ReadAll, expander.
// Expand, eval.Eval) — the runner's contract is in spec.md's scope, not
// its internals.
package runner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cozenage/internal/cell"
	"cozenage/internal/env"
	"cozenage/internal/eval"
	"cozenage/internal/expander"
	"cozenage/internal/primitives"
	"cozenage/internal/reader"
)

// splitArgs separates a raw argv (script path plus anything after it) into
// the script path, the arguments that follow a `--` sentinel (or, absent
// one, every remaining argument), and whether the path's suffix warrants
// a non-.scm/.ss warning.
func splitArgs(args []string) (script string, scriptArgs []string, warnSuffix bool) {
	for i, a := range args {
		if a == "--" {
			scriptArgs = args[i+1:]
			args = args[:i]
			break
		}
	}
	if len(args) == 0 {
		return "", scriptArgs, false
	}
	script = args[0]
	if len(args) > 1 && scriptArgs == nil {
		scriptArgs = args[1:]
	}
	ext := strings.ToLower(filepath.Ext(script))
	return script, scriptArgs, ext != ".scm" && ext != ".ss"
}

// NewGlobalEnv builds the global environment with every base primitive
// installed, ready for either RunFile or the REPL.
func NewGlobalEnv() *env.Env {
	e := env.NewGlobal()
	primitives.Register(e)
	return e
}

// RunFile loads and evaluates path's top-level forms in order, in e,
// returning the process exit code: 0 on a clean run, non-zero if an
// unhandled Error cell reaches the top level, or whatever (exit n) set.
func RunFile(e *env.Env, path string, rawArgs []string) int {
	script, args, warn := splitArgs(append([]string{path}, rawArgs...))
	if warn {
		fmt.Fprintf(os.Stderr, "cozenage: warning: %s does not have a .scm or .ss suffix\n", script)
	}

	primitives.CommandLineArgs = make([]*cell.Cell, 0, len(args)+1)
	primitives.CommandLineArgs = append(primitives.CommandLineArgs, cell.NewString(script))
	for _, a := range args {
		primitives.CommandLineArgs = append(primitives.CommandLineArgs, cell.NewString(a))
	}

	source, err := os.ReadFile(script)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cozenage: %v\n", err)
		return 1
	}

	forms := reader.ReadAll(string(source))
	for _, f := range forms {
		if cell.IsError(f) {
			fmt.Fprintf(os.Stderr, "cozenage: %s\n", f.Err.Error())
			return 1
		}
		result := eval.Eval(expander.Expand(f), e)
		if primitives.ExitCode >= 0 {
			return primitives.ExitCode
		}
		if cell.IsError(result) {
			fmt.Fprintf(os.Stderr, "cozenage: %s\n", result.Err.Error())
			return 1
		}
	}
	return 0
}
