package reader

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"cozenage/internal/cell"
)

// ParseNumber classifies and parses a numeric lexeme per spec.md §4.2:
// an optional #e/#i exactness prefix and #b/#o/#d/#x radix prefix (either
// order, at most one of each), then the digits, with rational (n/d),
// real (decimal/exponent), and complex (trailing i) shapes all handled.
// ok is false if text is not a valid number (the caller then treats it
// as a symbol, matching the lexer's permissive "else it's a symbol" rule).
// Exported so primitives.string->number can reuse the exact same grammar
// the reader uses for numeric literals.
func ParseNumber(text string) (*cell.Cell, bool) {
	radix := 10
	exactness := byte(0) // 0 = unspecified, 'e' or 'i'
	body := text

	radixSeen := false
	for strings.HasPrefix(body, "#") && len(body) >= 2 {
		isExactness := strings.ContainsRune("eEiI", rune(body[1]))
		if (isExactness && exactness != 0) || (!isExactness && radixSeen) {
			return nil, false
		}
		radixSeen = radixSeen || !isExactness
		switch body[1] {
		case 'e', 'E':
			exactness = 'e'
		case 'i', 'I':
			exactness = 'i'
		case 'b', 'B':
			radix = 2
		case 'o', 'O':
			radix = 8
		case 'd', 'D':
			radix = 10
		case 'x', 'X':
			radix = 16
		default:
			return nil, false
		}
		body = body[2:]
	}
	if body == "" {
		return nil, false
	}

	c, ok := parseReal(body, radix)
	if !ok {
		c, ok = parseComplex(body, radix)
		if !ok {
			return nil, false
		}
	}
	return applyExactness(c, exactness), true
}

func applyExactness(c *cell.Cell, exactness byte) *cell.Cell {
	switch exactness {
	case 'e':
		return toExact(c)
	case 'i':
		return toInexact(c)
	default:
		return c
	}
}

func toExact(c *cell.Cell) *cell.Cell {
	switch c.Kind {
	case cell.Real:
		r := new(big.Rat).SetFloat64(c.F64)
		if r == nil {
			return c
		}
		if r.IsInt() {
			return cell.NewInteger(r.Num().Int64())
		}
		return &cell.Cell{Kind: cell.Rational, Num: r.Num().Int64(), Den: r.Denom().Int64()}
	default:
		return c
	}
}

func toInexact(c *cell.Cell) *cell.Cell {
	switch c.Kind {
	case cell.Integer:
		return cell.NewReal(float64(c.I64))
	case cell.Rational:
		return cell.NewReal(float64(c.Num) / float64(c.Den))
	default:
		return c
	}
}

// parseReal parses a single non-complex real/rational/integer lexeme.
func parseReal(body string, radix int) (*cell.Cell, bool) {
	switch strings.ToLower(body) {
	case "+inf.0":
		return cell.NewReal(math.Inf(1)), true
	case "-inf.0":
		return cell.NewReal(math.Inf(-1)), true
	case "+nan.0", "-nan.0":
		return cell.NewReal(math.NaN()), true
	}

	if i := strings.IndexByte(body, '/'); i >= 0 {
		numStr, denStr := body[:i], body[i+1:]
		num, ok1 := parseIntRadix(numStr, radix)
		den, ok2 := parseIntRadix(denStr, radix)
		if !ok1 || !ok2 || den == 0 {
			return nil, false
		}
		return cell.NewRational(num, den), true
	}

	if radix == 10 && strings.ContainsAny(body, ".eE") {
		if f, err := strconv.ParseFloat(body, 64); err == nil {
			return cell.NewReal(f), true
		}
		return nil, false
	}

	if i, ok := parseIntRadix(body, radix); ok {
		return cell.NewInteger(i), true
	}
	// try arbitrary precision
	if bi, ok := new(big.Int).SetString(body, radix); ok {
		return &cell.Cell{Kind: cell.BigInt, Big: bi}, true
	}
	return nil, false
}

func parseIntRadix(s string, radix int) (int64, bool) {
	if s == "" {
		return 0, false
	}
	neg := false
	if s[0] == '+' || s[0] == '-' {
		neg = s[0] == '-'
		s = s[1:]
	}
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(s, radix, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		v = -v
	}
	return v, true
}

// parseComplex handles a+bi / a-bi / +bi / -bi / bi shapes; real and
// imaginary parts are each parsed via parseReal.
func parseComplex(body string, radix int) (*cell.Cell, bool) {
	if !strings.HasSuffix(body, "i") && !strings.HasSuffix(body, "I") {
		return nil, false
	}
	core := body[:len(body)-1]

	if core == "" || core == "+" {
		return cell.NewComplex(cell.NewInteger(0), cell.NewInteger(1)), true
	}
	if core == "-" {
		return cell.NewComplex(cell.NewInteger(0), cell.NewInteger(-1)), true
	}

	// find the split between real and imaginary parts: the last '+' or
	// '-' not in position 0 and not part of an exponent marker.
	splitAt := -1
	for i := len(core) - 1; i > 0; i-- {
		if core[i] == '+' || core[i] == '-' {
			prev := core[i-1]
			if prev == 'e' || prev == 'E' {
				continue
			}
			splitAt = i
			break
		}
	}
	if splitAt < 0 {
		im, ok := parseReal(core, radix)
		if !ok {
			return nil, false
		}
		return cell.NewComplex(cell.NewInteger(0), im), true
	}
	reStr, imStr := core[:splitAt], core[splitAt:]
	re, ok1 := parseReal(reStr, radix)
	var im *cell.Cell
	var ok2 bool
	switch imStr {
	case "+":
		im, ok2 = cell.NewInteger(1), true
	case "-":
		im, ok2 = cell.NewInteger(-1), true
	default:
		im, ok2 = parseReal(imStr, radix)
	}
	if !ok1 || !ok2 {
		return nil, false
	}
	return cell.NewComplex(re, im), true
}
