package cell

// ListFromSlice builds a proper list (chain of Pairs terminated by the
// empty list) from elems, in order.
func ListFromSlice(elems []*Cell) *Cell {
	result := EmptyList
	for i := len(elems) - 1; i >= 0; i-- {
		result = Cons(elems[i], result)
	}
	return result
}

// ToSlice walks a proper list into a Go slice. ok is false if the list is
// improper (a non-Nil, non-Pair tail).
func ToSlice(c *Cell) (elems []*Cell, ok bool) {
	for c.Kind == Pair {
		elems = append(elems, c.CarCell)
		c = c.CdrCell
	}
	return elems, c.Kind == Nil
}

// Length implements R7RS `length` with Floyd's tortoise-and-hare cycle
// detection (spec.md §9): returns (-1, false) on an improper or cyclic
// list rather than looping forever. It also serves the cached-length
// invariant: a Pair's ListLen field is filled in as a side effect so
// repeated calls are O(1) until the next mutation invalidates it.
func Length(c *Cell) (int, bool) {
	if c.Kind == Pair && c.ListLen >= 0 {
		return c.ListLen, true
	}
	slow, fast := c, c
	n := 0
	for {
		if fast.Kind == Nil {
			if c.Kind == Pair {
				c.ListLen = n
			}
			return n, true
		}
		if fast.Kind != Pair {
			return -1, false
		}
		fast = fast.CdrCell
		n++
		if fast.Kind == Nil {
			if c.Kind == Pair {
				c.ListLen = n
			}
			return n, true
		}
		if fast.Kind != Pair {
			return -1, false
		}
		fast = fast.CdrCell
		n++
		slow = slow.CdrCell
		if slow == fast {
			return -1, false // cycle
		}
	}
}

// SExprToList converts a parser SExpr container into a proper list of
// Pairs, in textual order (spec.md §4.4's `quote` handler does this).
// SExprs nested inside it, or inside a reader-built dotted Pair chain, are
// converted the same way.
func SExprToList(c *Cell) *Cell {
	switch c.Kind {
	case SExpr:
		elems := make([]*Cell, len(c.SList))
		for i, e := range c.SList {
			elems[i] = SExprToList(e)
		}
		return ListFromSlice(elems)
	case Pair:
		return Cons(SExprToList(c.CarCell), SExprToList(c.CdrCell))
	}
	return c
}

// NewSExpr builds an SExpr container from elems, in textual order.
func NewSExpr(elems ...*Cell) *Cell {
	return &Cell{Kind: SExpr, SList: elems}
}

// ListToSExpr is quote/SExprToList's inverse: it rebuilds a proper Pair
// chain (and any proper-list Pair chains nested within it) back into
// SExpr form, so quoted data handed to the `eval` primitive becomes
// evaluable syntax again. Anything that isn't a proper list (atoms,
// vectors, improper/cyclic pairs) passes through unchanged.
func ListToSExpr(c *Cell) *Cell {
	if c.Kind != Pair && c.Kind != Nil {
		return c
	}
	elems, ok := ToSlice(c)
	if !ok {
		return c
	}
	converted := make([]*Cell, len(elems))
	for i, e := range elems {
		converted[i] = ListToSExpr(e)
	}
	return NewSExpr(converted...)
}
