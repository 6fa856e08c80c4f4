package cell

import (
	"math"
	"math/big"

	"github.com/remyoudompheng/bigfft"
	"modernc.org/mathutil"
)

// tower ranks the numeric kinds for promotion purposes: integer < rational
// < real < complex, with the arbitrary-precision kinds absorbing their
// machine-sized counterparts (spec.md §4.4 "Numeric promotion").
func tower(k Kind) int {
	switch k {
	case Integer:
		return 0
	case BigInt:
		return 1
	case Rational:
		return 2
	case BigRat:
		return 3
	case Real:
		return 4
	case BigFloat:
		return 5
	case Complex:
		return 6
	default:
		return -1
	}
}

func IsNumber(c *Cell) bool {
	switch c.Kind {
	case Integer, Rational, Real, Complex, BigInt, BigRat, BigFloat:
		return true
	}
	return false
}

// IsExact reports whether a numeric cell carries no rounding. Complex
// numbers are exact iff both parts are exact.
func IsExact(c *Cell) bool {
	switch c.Kind {
	case Integer, Rational, BigInt, BigRat:
		return true
	case Complex:
		return IsExact(c.Re) && IsExact(c.Im)
	default:
		return false
	}
}

// bigIntGCDReduce reduces a big.Rat-style num/den pair to lowest terms with
// a positive denominator, using mathutil's GCD for the big.Int case (the
// library spec.md §1 delegates bignum algorithms to).
func bigIntGCDReduce(num, den *big.Int) (*big.Int, *big.Int) {
	if den.Sign() < 0 {
		num = new(big.Int).Neg(num)
		den = new(big.Int).Neg(den)
	}
	g := mathutil.GCD(new(big.Int).Abs(num), new(big.Int).Abs(den))
	if g.Sign() != 0 && g.Cmp(big.NewInt(1)) != 0 {
		num = new(big.Int).Div(num, g)
		den = new(big.Int).Div(den, g)
	}
	return num, den
}

func gcdInt64(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

// NewRational builds a Rational cell reduced to lowest terms with a
// positive denominator; a denominator that reduces to 1 collapses to an
// Integer cell (spec.md §3 invariant).
func NewRational(num, den int64) *Cell {
	if den == 0 {
		return nil // callers must check for division by zero before calling
	}
	if den < 0 {
		num, den = -num, -den
	}
	g := gcdInt64(num, den)
	num, den = num/g, den/g
	if den == 1 {
		return NewInteger(num)
	}
	return &Cell{Kind: Rational, Num: num, Den: den}
}

// bigMul multiplies two big.Ints, switching to bigfft's asymptotically
// faster algorithm once operands are large enough for it to pay off
// (mirrors the threshold modernc.org/sqlite's own big-multiplication paths
// use internally for wide DECIMAL arithmetic).
func bigMul(x, y *big.Int) *big.Int {
	const fftWordThreshold = 1 << 12
	if len(x.Bits()) > fftWordThreshold && len(y.Bits()) > fftWordThreshold {
		return bigfft.Mul(x, y)
	}
	return new(big.Int).Mul(x, y)
}

// ToFloat converts any numeric cell to its closest float64 approximation,
// for primitives (sqrt, expt, exact->inexact) that must leave the tower.
func ToFloat(c *Cell) float64 { return toFloat(c) }

func toFloat(c *Cell) float64 {
	switch c.Kind {
	case Integer:
		return float64(c.I64)
	case Rational:
		return float64(c.Num) / float64(c.Den)
	case Real:
		return c.F64
	case BigInt:
		f, _ := new(big.Float).SetInt(c.Big).Float64()
		return f
	case BigRat:
		f, _ := new(big.Float).SetRat(c.BigRat).Float64()
		return f
	case BigFloat:
		f, _ := c.BigFloat.Float64()
		return f
	}
	return math.NaN()
}

func toBigRat(c *Cell) *big.Rat {
	switch c.Kind {
	case Integer:
		return new(big.Rat).SetInt64(c.I64)
	case Rational:
		return big.NewRat(c.Num, c.Den)
	case BigInt:
		return new(big.Rat).SetInt(c.Big)
	case BigRat:
		return c.BigRat
	}
	return nil
}

// promotedPair lifts a, b to the higher of their two tower levels so a
// single binary op can be implemented per resulting level.
func promotedPair(a, b *Cell) int {
	ta, tb := tower(a.Kind), tower(b.Kind)
	if ta > tb {
		return ta
	}
	return tb
}

func Add(a, b *Cell) *Cell { return binop(a, b, '+') }
func Sub(a, b *Cell) *Cell { return binop(a, b, '-') }
func Mul(a, b *Cell) *Cell { return binop(a, b, '*') }

// Div returns nil on division by zero; callers translate that into a
// schemerr.General "division by zero" Error cell.
func Div(a, b *Cell) *Cell { return binop(a, b, '/') }

func binop(a, b *Cell, op byte) *Cell {
	level := promotedPair(a, b)
	switch {
	case level <= tower(Integer) && a.Kind == Integer && b.Kind == Integer:
		return intBinop(a.I64, b.I64, op)
	case level <= tower(BigInt):
		return bigIntBinop(toBig(a), toBig(b), op)
	case level <= tower(Rational) && a.Kind != BigInt && b.Kind != BigInt:
		return ratBinop(a, b, op)
	case level <= tower(BigRat):
		return bigRatBinop(toBigRat(a), toBigRat(b), op)
	case level <= tower(Real):
		return realBinop(toFloat(a), toFloat(b), op)
	case level <= tower(BigFloat):
		return bigFloatBinop(toBigFloat(a), toBigFloat(b), op)
	default:
		return complexBinop(asComplex(a), asComplex(b), op)
	}
}

func toBig(c *Cell) *big.Int {
	if c.Kind == BigInt {
		return c.Big
	}
	return big.NewInt(c.I64)
}

func toBigFloat(c *Cell) *big.Float {
	if c.Kind == BigFloat {
		return c.BigFloat
	}
	return new(big.Float).SetFloat64(toFloat(c))
}

func intBinop(a, b int64, op byte) *Cell {
	switch op {
	case '+':
		r := a + b
		if (r-b != a) || overflows(a, b, r, '+') {
			return bigIntBinop(big.NewInt(a), big.NewInt(b), op)
		}
		return NewInteger(r)
	case '-':
		r := a - b
		if overflows(a, b, r, '-') {
			return bigIntBinop(big.NewInt(a), big.NewInt(b), op)
		}
		return NewInteger(r)
	case '*':
		if a == 0 || b == 0 {
			return NewInteger(0)
		}
		r := a * b
		if r/b != a {
			return bigIntBinop(big.NewInt(a), big.NewInt(b), op)
		}
		return NewInteger(r)
	case '/':
		if b == 0 {
			return nil
		}
		if a%b == 0 {
			return NewInteger(a / b)
		}
		return NewRational(a, b)
	}
	return nil
}

// overflows is a conservative 64-bit overflow check used only to decide
// whether to fall back to math/big; it does not need to be exact in the
// direction of false positives.
func overflows(a, b, r int64, op byte) bool {
	switch op {
	case '+':
		return (b > 0 && r < a) || (b < 0 && r > a)
	case '-':
		return (b < 0 && r < a) || (b > 0 && r > a)
	}
	return false
}

func bigIntBinop(a, b *big.Int, op byte) *Cell {
	var r *big.Int
	switch op {
	case '+':
		r = new(big.Int).Add(a, b)
	case '-':
		r = new(big.Int).Sub(a, b)
	case '*':
		r = bigMul(a, b)
	case '/':
		if b.Sign() == 0 {
			return nil
		}
		q, rem := new(big.Int).QuoRem(a, b, new(big.Int))
		if rem.Sign() == 0 {
			return normalizeBig(q)
		}
		num, den := bigIntGCDReduce(a, b)
		return normalizeBigRat(new(big.Rat).SetFrac(num, den))
	}
	return normalizeBig(r)
}

// normalizeBig demotes a BigInt result back to a machine Integer when it
// fits, keeping the tower from growing unnecessarily (spec.md §3 doesn't
// mandate this but it matches how the original C `bignum` helpers collapse
// results, per original_source/src/base-lib/bits_lib.c).
func normalizeBig(b *big.Int) *Cell {
	if b.IsInt64() {
		return NewInteger(b.Int64())
	}
	return &Cell{Kind: BigInt, Big: b}
}

func normalizeBigRat(r *big.Rat) *Cell {
	if r.IsInt() {
		return normalizeBig(r.Num())
	}
	return &Cell{Kind: BigRat, BigRat: r}
}

func ratBinop(a, b *Cell, op byte) *Cell {
	an, ad := ratParts(a)
	bn, bd := ratParts(b)
	switch op {
	case '+':
		return NewRational(an*bd+bn*ad, ad*bd)
	case '-':
		return NewRational(an*bd-bn*ad, ad*bd)
	case '*':
		return NewRational(an*bn, ad*bd)
	case '/':
		if bn == 0 {
			return nil
		}
		return NewRational(an*bd, ad*bn)
	}
	return nil
}

func ratParts(c *Cell) (int64, int64) {
	if c.Kind == Rational {
		return c.Num, c.Den
	}
	return c.I64, 1
}

func bigRatBinop(a, b *big.Rat, op byte) *Cell {
	r := new(big.Rat)
	switch op {
	case '+':
		r.Add(a, b)
	case '-':
		r.Sub(a, b)
	case '*':
		r.Mul(a, b)
	case '/':
		if b.Sign() == 0 {
			return nil
		}
		r.Quo(a, b)
	}
	return normalizeBigRat(r)
}

func realBinop(a, b float64, op byte) *Cell {
	switch op {
	case '+':
		return NewReal(a + b)
	case '-':
		return NewReal(a - b)
	case '*':
		return NewReal(a * b)
	case '/':
		return NewReal(a / b) // IEEE: a/0.0 yields +/-Inf or NaN, not an error
	}
	return nil
}

func bigFloatBinop(a, b *big.Float, op byte) *Cell {
	r := new(big.Float)
	switch op {
	case '+':
		r.Add(a, b)
	case '-':
		r.Sub(a, b)
	case '*':
		r.Mul(a, b)
	case '/':
		r.Quo(a, b)
	}
	return &Cell{Kind: BigFloat, BigFloat: r, Inexact: true}
}

func asComplex(c *Cell) *Cell {
	if c.Kind == Complex {
		return c
	}
	return &Cell{Kind: Complex, Re: c, Im: NewInteger(0)}
}

func complexBinop(a, b *Cell, op byte) *Cell {
	ar, ai, br, bi := a.Re, a.Im, b.Re, b.Im
	switch op {
	case '+':
		return mkComplex(Add(ar, br), Add(ai, bi))
	case '-':
		return mkComplex(Sub(ar, br), Sub(ai, bi))
	case '*':
		// (ar+ai*i)(br+bi*i) = (ar*br - ai*bi) + (ar*bi + ai*br)*i
		re := Sub(Mul(ar, br), Mul(ai, bi))
		im := Add(Mul(ar, bi), Mul(ai, br))
		return mkComplex(re, im)
	case '/':
		denom := Add(Mul(br, br), Mul(bi, bi))
		if denom == nil || IsZeroNumber(denom) {
			return nil
		}
		re := Div(Add(Mul(ar, br), Mul(ai, bi)), denom)
		im := Div(Sub(Mul(ai, br), Mul(ar, bi)), denom)
		if re == nil || im == nil {
			return nil
		}
		return mkComplex(re, im)
	}
	return nil
}

// NewComplex builds a Complex cell from already-classified real/imaginary
// parts, as the reader does when parsing an a+bi literal.
func NewComplex(re, im *Cell) *Cell { return mkComplex(re, im) }

func mkComplex(re, im *Cell) *Cell {
	if re == nil || im == nil {
		return nil
	}
	inexact := !IsExact(re) || !IsExact(im)
	return &Cell{Kind: Complex, Re: re, Im: im, Inexact: inexact}
}

// IsZeroNumber reports whether a numeric cell is exactly/approximately
// zero (used for complex division and the zero-imag classification rule).
func IsZeroNumber(c *Cell) bool {
	switch c.Kind {
	case Integer:
		return c.I64 == 0
	case Rational:
		return c.Num == 0
	case Real:
		return c.F64 == 0
	case BigInt:
		return c.Big.Sign() == 0
	case BigRat:
		return c.BigRat.Sign() == 0
	case BigFloat:
		return c.BigFloat.Sign() == 0
	case Complex:
		return IsZeroNumber(c.Re) && IsZeroNumber(c.Im)
	}
	return false
}

// NumEqual implements `=`: numeric equality across exactness (2 = 2.0).
func NumEqual(a, b *Cell) bool {
	if a.Kind == Complex || b.Kind == Complex {
		ac, bc := asComplex(a), asComplex(b)
		return NumEqual(ac.Re, bc.Re) && NumEqual(ac.Im, bc.Im)
	}
	if !IsExact(a) || !IsExact(b) {
		return toFloat(a) == toFloat(b)
	}
	return toBigRat(a).Cmp(toBigRat(b)) == 0
}

// Compare returns -1, 0, or 1 for exact-or-real (non-complex) numbers, as
// used by <, >, <=, >=.
func Compare(a, b *Cell) int {
	if IsExact(a) && IsExact(b) {
		return toBigRat(a).Cmp(toBigRat(b))
	}
	fa, fb := toFloat(a), toFloat(b)
	switch {
	case fa < fb:
		return -1
	case fa > fb:
		return 1
	default:
		return 0
	}
}

// Eqv implements eqv?'s numeric-tower rule: same exactness AND same value
// (spec.md §8 property 2: (eqv? 2 2.0) is #f).
func Eqv(a, b *Cell) bool {
	if IsExact(a) != IsExact(b) {
		return false
	}
	return NumEqual(a, b)
}

func IsInteger(c *Cell) bool {
	switch c.Kind {
	case Integer, BigInt:
		return true
	case Real:
		return c.F64 == math.Trunc(c.F64) && !math.IsInf(c.F64, 0)
	case Rational:
		return c.Den == 1
	}
	return false
}

func IsRational(c *Cell) bool {
	switch c.Kind {
	case Integer, Rational, BigInt, BigRat:
		return true
	case Real:
		return !math.IsInf(c.F64, 0) && !math.IsNaN(c.F64)
	}
	return false
}

// IsReal classifies per spec.md §3's zero-imag rule: a Complex with an
// exactly-zero imaginary part still counts as real.
func IsReal(c *Cell) bool {
	if c.Kind == Complex {
		return IsZeroNumber(c.Im)
	}
	return IsNumber(c) && c.Kind != Complex
}

// IsComplexNum reports complex?, which (per the same zero-imag rule) is
// true of every number, not only Complex-kind cells.
func IsComplexNum(c *Cell) bool {
	return IsNumber(c)
}
