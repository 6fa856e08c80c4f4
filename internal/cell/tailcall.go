package cell

// NewTailCall builds the Trampoline sentinel a built-in procedure returns
// to ask the evaluator to continue applying callee to args without
// growing the host Go stack (spec.md §4.4/§4.5), e.g. how `apply` hands
// off to its target without recursing.
func NewTailCall(callee *Cell, args []*Cell) *Cell {
	return &Cell{Kind: TailCall, CarCell: callee, SList: args}
}

// NewEnvironment wraps an opaque environment handle (an *env.Env from the
// env package, kept as interface{} to avoid an import cycle) so it can be
// passed around as an ordinary value, e.g. from `(interaction-environment)`
// to `eval`.
func NewEnvironment(handle interface{}) *Cell {
	return &Cell{Kind: Environment, EnvHandle: handle}
}
