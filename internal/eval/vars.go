package eval

import "cozenage/internal/symtab"

// Pre-interned symbols the evaluator itself splices into rewritten forms
// (quoteResult's error short-circuit, wrapBodySeq's implicit begin).
var (
	quoteSym = symtab.Intern("quote")
	beginSym = symtab.Intern("begin")
)
