// Package primitives implements spec.md §4.5/§4.6's primitive operator
// registry: the built-in procedures installed into the global environment,
// plus the named libraries `import` can pull in (spec.md §6's `(import
// (base NAME))`). It registers itself into package eval's LibraryLoader
// hook in its own init(), so eval's `import` special form can load a
// library without eval importing primitives back (primitives already
// imports eval, to build Procedure cells around Builtin.Fn and to call
// back into Eval/Apply from procedures like `map`).
package primitives

import (
	"cozenage/internal/cell"
	"cozenage/internal/env"
	"cozenage/internal/eval"
	"cozenage/internal/library"
	"cozenage/internal/symtab"
)

func init() {
	eval.LibraryLoader = loadLibrary
}

// builtin wraps a Go function as a Builtin Procedure cell and binds it
// into e's global table under name — the uniform shape every registration
// table below uses (spec.md §4.5's "shared (env, args) -> Cell signature").
func builtin(e *env.Env, name string, fn func(args *cell.Cell) *cell.Cell) {
	e.DefineGlobal(symtab.Intern(name), &cell.Cell{
		Kind: cell.Procedure,
		Proc: &cell.Procedure{IsBuiltin: true, Native: &cell.Builtin{Name: name, Fn: fn}},
	})
}

// Register installs every base procedure spec.md §4.5 names directly
// (always available, no import required) into e, and wires eval.Init so
// the control procedures (apply, eval, force, ...) can reach it. The
// runner calls this once while building the global environment.
func Register(e *env.Env) {
	registerArithmetic(e)
	registerPairs(e)
	registerPredicates(e)
	registerStrings(e)
	registerChars(e)
	registerVectors(e)
	registerBytevectors(e)
	registerIO(e)
	registerControl(e)
}

// namedLibraries are the built-in `(import (base NAME))` targets
// (spec.md's DOMAIN STACK table); anything else falls through to
// internal/library's dynamic shared-object loader.
var namedLibraries = map[string]func(e *env.Env){
	"base.crypto":  registerCrypto,
	"base.network": registerNetwork,
	"base.sql":     registerSQL,
	"base.time":    registerTime,
}

func symbolFor(name string) *cell.Cell { return symtab.Intern(name) }

// loadLibrary is wired into eval.LibraryLoader. A built-in library name
// registers its procedures directly; anything else is handed to
// internal/library's plugin-based loader.
func loadLibrary(e *env.Env, name string) error {
	if register, ok := namedLibraries[name]; ok {
		register(e)
		return nil
	}
	return library.Load(e, name)
}
