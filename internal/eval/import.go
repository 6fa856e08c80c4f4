package eval

import (
	"cozenage/internal/cell"
	"cozenage/internal/env"
	"cozenage/internal/schemerr"
)

// evalImport loads a named library's bindings into e's global table
// (spec.md §6). The actual library registry lives in package primitives,
// wired in through LibraryLoader to avoid an import cycle: primitives
// imports eval (to register builtins like `apply` that call back into
// Eval), so eval cannot import primitives back.
func evalImport(expr *cell.Cell, e *env.Env) *cell.Cell {
	if LibraryLoader == nil {
		return cell.NewError(schemerr.New(schemerr.General, "import: no library loader registered"))
	}
	for _, spec := range expr.SList[1:] {
		name, ok := libraryName(spec)
		if !ok {
			return cell.NewError(schemerr.New(schemerr.Syntax, "import: malformed library spec"))
		}
		if err := LibraryLoader(e, name); err != nil {
			return cell.NewError(schemerr.New(schemerr.General, "import: %s: %v", name, err))
		}
	}
	return cell.Unspec
}

// libraryName flattens an R7RS library-name spec, e.g. (base crypto), into
// a single dotted path the loader can key on: "base.crypto".
func libraryName(spec *cell.Cell) (string, bool) {
	parts := spec.SList
	if spec.Kind != cell.SExpr || len(parts) == 0 {
		if spec.Kind == cell.Symbol {
			return spec.Sym.Name, true
		}
		return "", false
	}
	name := ""
	for i, p := range parts {
		if p.Kind != cell.Symbol {
			return "", false
		}
		if i > 0 {
			name += "."
		}
		name += p.Sym.Name
	}
	return name, true
}
