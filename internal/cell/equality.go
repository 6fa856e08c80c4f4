package cell

// Eq implements eq?: reference identity, except for the atomic kinds a
// Scheme program has no way to tell apart from a freshly allocated copy
// (small integers, characters, booleans) — those compare by value instead,
// matching how every practical Scheme treats fixnum eq?.
func Eq(a, b *Cell) bool {
	if a == b {
		return true
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case Integer:
		return a.I64 == b.I64
	case Char:
		return a.Rune == b.Rune
	case Boolean:
		return a.Bool == b.Bool
	}
	return false
}

// Equal implements equal?: structural equality over pairs, vectors,
// bytevectors, and strings; falls back to eqv? elsewhere (Eqv for numbers,
// Eq for every other kind).
func Equal(a, b *Cell) bool {
	if a == b {
		return true
	}
	if a.Kind != b.Kind {
		return IsNumber(a) && IsNumber(b) && Eqv(a, b)
	}
	switch a.Kind {
	case Pair:
		return Equal(a.CarCell, b.CarCell) && Equal(a.CdrCell, b.CdrCell)
	case Vector:
		if len(a.Vec) != len(b.Vec) {
			return false
		}
		for i := range a.Vec {
			if !Equal(a.Vec[i], b.Vec[i]) {
				return false
			}
		}
		return true
	case Bytevector:
		if len(a.BV) != len(b.BV) {
			return false
		}
		for i := range a.BV {
			if a.BV[i] != b.BV[i] {
				return false
			}
		}
		return true
	case String:
		return string(a.Str.Bytes) == string(b.Str.Bytes)
	default:
		if IsNumber(a) {
			return Eqv(a, b)
		}
		return Eq(a, b)
	}
}
