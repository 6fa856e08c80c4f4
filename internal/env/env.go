// Package env implements the two-layer environment model of spec.md §3: a
// chain of local frames (parallel name/value arrays) terminating at a
// single shared global hash table.
package env

import (
	"cozenage/internal/cell"
	"cozenage/internal/hashtable"
)

// Frame is one local lexical scope: parallel arrays of interned-symbol
// names and their bound values, plus a pointer to the enclosing frame.
type Frame struct {
	names  []*cell.Cell
	values []*cell.Cell
	parent *Frame
}

// Env is the pair (innermost local frame, global table). A nil Local means
// we are at top level, looking directly at Global.
type Env struct {
	Local  *Frame
	Global *hashtable.Table
}

// NewGlobal creates a top-level environment with a fresh global table.
func NewGlobal() *Env {
	return &Env{Global: hashtable.New()}
}

// Extend allocates a fresh child frame binding names to values, parented
// at e's innermost frame, and returns the environment seen from inside it.
func (e *Env) Extend(names, values []*cell.Cell) *Env {
	return &Env{
		Local:  &Frame{names: names, values: values, parent: e.Local},
		Global: e.Global,
	}
}

// ExtendEmpty allocates a frame with no bindings yet (used by letrec, which
// pre-allocates slots before evaluating any init expression).
func (e *Env) ExtendEmpty(n int) *Env {
	return &Env{
		Local:  &Frame{names: make([]*cell.Cell, 0, n), values: make([]*cell.Cell, 0, n), parent: e.Local},
		Global: e.Global,
	}
}

// Bind appends one more name/value pair into e's innermost frame (used by
// letrec to install its pre-allocated Unspecified slots before evaluating
// init expressions in the new frame).
func (e *Env) Bind(name, value *cell.Cell) {
	e.Local.names = append(e.Local.names, name)
	e.Local.values = append(e.Local.values, value)
}

// Lookup walks the local chain first, then the global table, per spec.md
// §3. sym must be an interned Symbol cell (reference equality is used for
// the local-frame scan, matching the interning invariant).
func (e *Env) Lookup(sym *cell.Cell) (*cell.Cell, bool) {
	for f := e.Local; f != nil; f = f.parent {
		for i, n := range f.names {
			if n == sym {
				return f.values[i], true
			}
		}
	}
	if v, ok := e.Global.Get(sym.Sym.Name); ok {
		return v.(*cell.Cell), true
	}
	return nil, false
}

// DefineGlobal installs a binding in the global table, as `define` does at
// top level (spec.md §4.4).
func (e *Env) DefineGlobal(sym *cell.Cell, value *cell.Cell) {
	e.Global.Set(sym.Sym.Name, value)
}

// DefineLocal installs a binding in the innermost local frame, or the
// global table if there is none (so `define` inside a lambda body that
// was never wrapped in letrec still has somewhere to land).
func (e *Env) DefineLocal(sym *cell.Cell, value *cell.Cell) {
	if e.Local == nil {
		e.DefineGlobal(sym, value)
		return
	}
	for i, n := range e.Local.names {
		if n == sym {
			e.Local.values[i] = value
			return
		}
	}
	e.Bind(sym, value)
}

// Set rebinds the nearest existing binding (local frame first, else
// global); it does not create a new one. ok is false if sym is unbound
// anywhere, per spec.md §4.4's set! semantics.
func (e *Env) Set(sym *cell.Cell, value *cell.Cell) bool {
	for f := e.Local; f != nil; f = f.parent {
		for i, n := range f.names {
			if n == sym {
				f.values[i] = value
				return true
			}
		}
	}
	if _, ok := e.Global.Get(sym.Sym.Name); ok {
		e.Global.Set(sym.Sym.Name, value)
		return true
	}
	return false
}
