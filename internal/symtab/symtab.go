// Package symtab is the process-wide symbol interner (spec.md §3): a
// dedicated text -> *cell.Cell table, separate from the global environment,
// guaranteeing reference equality for identically-named identifiers.
package symtab

import (
	"sync"

	"cozenage/internal/cell"
	"cozenage/internal/hashtable"
)

var (
	mu      sync.Mutex
	table   = hashtable.New()
)

// specialForms pre-interns the syntactic keywords with a non-zero
// special-form id, assigned at package init, so the evaluator can dispatch
// on Sym.SpecialForm without a second lookup (spec.md §4.4, §9).
var specialForms = []string{
	"", // id 0 is reserved for "not special"
	"define", "lambda", "if", "quote", "let", "letrec", "set!", "begin",
	"and", "import", "defmacro", "delay", "delay-force", "stream",
}

func init() {
	for id := 1; id < len(specialForms); id++ {
		intern(specialForms[id], id)
	}
}

// Intern looks up or installs the Cell for name, returning the single
// canonical Symbol cell for it (spec.md §8 property 1).
func Intern(name string) *cell.Cell {
	mu.Lock()
	defer mu.Unlock()
	return intern(name, 0)
}

// intern is the lock-held worker; specialForm is only honored on first
// creation (it seeds the keyword id for pre-interned syntax).
func intern(name string, specialForm int) *cell.Cell {
	if v, ok := table.Get(name); ok {
		return v.(*cell.Cell)
	}
	sym := &cell.Cell{Kind: cell.Symbol, Sym: &cell.SymbolData{Name: name, SpecialForm: specialForm}}
	table.Set(name, sym)
	return sym
}

// Lookup returns the interned symbol for name without creating one.
func Lookup(name string) (*cell.Cell, bool) {
	mu.Lock()
	defer mu.Unlock()
	v, ok := table.Get(name)
	if !ok {
		return nil, false
	}
	return v.(*cell.Cell), true
}

// SpecialFormID returns the special-form id for an interned name, or 0.
func SpecialFormID(name string) int {
	if sym, ok := Lookup(name); ok {
		return sym.Sym.SpecialForm
	}
	return 0
}
