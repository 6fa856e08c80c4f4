// Package cell implements Cell, the tagged-variant universal value of the
// Cozenage runtime: the numeric tower, pairs, vectors, ports, procedures,
// promises, streams, errors, and a handful of internal sentinels all share
// this one representation so the evaluator can dispatch on a single Kind tag.
package cell

import (
	"math/big"
	"unicode/utf8"

	"cozenage/internal/schemerr"
)

// Kind discriminates the variant a Cell carries. Exactly one group of
// payload fields on Cell is meaningful for a given Kind; the field comments
// on Cell give the mapping.
type Kind uint8

const (
	Integer Kind = iota
	Rational
	Real
	Complex
	BigInt
	BigRat
	BigFloat
	Boolean
	Char
	String
	Symbol
	Pair
	Nil
	Vector
	Bytevector
	Procedure
	Promise
	Stream
	Port
	Error
	EOF
	Unspecified
	TailCall
	SExpr
	Environment
)

func (k Kind) String() string {
	names := [...]string{
		"integer", "rational", "real", "complex", "bigint", "bigrat", "bigfloat",
		"boolean", "char", "string", "symbol", "pair", "nil", "vector",
		"bytevector", "procedure", "promise", "stream", "port", "error",
		"eof", "unspecified", "tail-call", "sexpr", "environment",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "unknown"
}

// BVType is the element type of a Bytevector, paralleling R7RS's typed
// bytevector extensions (u8 is the only base-R7RS one; the rest round out
// the "typed" shape spec.md asks for).
type BVType uint8

const (
	U8 BVType = iota
	U16
	U32
	U64
	S8
	S16
	S32
	S64
	F32
	F64
)

// PromiseStatus is the state machine driving delay/delay-force/force.
type PromiseStatus uint8

const (
	PromiseReady PromiseStatus = iota
	PromiseLazy
	PromiseRunning
	PromiseDone
)

// PortDirection and PortMedium classify a Port cell.
type PortDirection uint8

const (
	DirIn PortDirection = iota
	DirOut
	DirAsync
)

type PortMedium uint8

const (
	MediumFile PortMedium = iota
	MediumString
	MediumBytevector
)

// StringData is the payload of a String cell: UTF-8 bytes plus cached
// metadata so length/ascii queries don't re-scan on every call.
type StringData struct {
	Bytes      []byte
	ByteLen    int
	CodeLen    int
	ASCIIOnly  bool
}

// SymbolData is the payload of a Symbol cell. SpecialForm is 0 for
// ordinary (non-syntactic) bindings and a small positive id for the
// pre-interned syntactic keywords the evaluator dispatches on directly.
type SymbolData struct {
	Name        string
	SpecialForm int
}

// Lambda is a user-defined closure: formals + body captured together with
// the defining environment. Env is `interface{}` here to avoid an import
// cycle with package env (which itself needs to store *Cell values); the
// env package asserts it back to *env.Env at call sites.
type Lambda struct {
	Name     string // defining name, filled in post-hoc for diagnostics
	Formals  *Cell  // symbol (variadic), proper list, or dotted list
	Body     *Cell  // a single body expression (begin-wrapped by the expander)
	Captured interface{}
}

// Builtin is a primitive procedure registered into the global environment.
// args is the SExpr argument container of already-evaluated arguments.
// A Builtin may return a Cell of kind TailCall to ask the evaluator to
// continue applying without growing the host stack (spec.md §4.5).
type Builtin struct {
	Name string
	Fn   func(args *Cell) *Cell
}

// Procedure is the payload of a Procedure cell: exactly one of Native or
// Closure is set, selected by IsBuiltin.
type Procedure struct {
	IsBuiltin bool
	Native    *Builtin
	Closure   *Lambda
}

// Promise is the payload of a Promise cell (spec.md §3, §4.4, §9).
type Promise struct {
	Status   PromiseStatus
	Expr     *Cell // unevaluated expression (READY/LAZY) or memoized value (DONE)
	Captured interface{}
}

// Stream is an eagerly-headed, lazily-tailed sequence (spec.md §3).
type Stream struct {
	Head *Cell
	Tail *Cell // always a Promise cell
}

// Port is the payload of a Port cell.
type Port struct {
	ID        string
	Path      string
	Direction PortDirection
	Medium    PortMedium
	Open      bool
	Handle    interface{} // *os.File, *strings.Reader, *bytes.Buffer, etc.
}

// Cell is the universal tagged value. Only the fields relevant to Kind are
// meaningful; each field's comment names the Kind it belongs to.
type Cell struct {
	Kind Kind

	I64 int64 // Integer
	Num int64 // Rational numerator
	Den int64 // Rational denominator (always > 0, reduced)
	F64 float64 // Real
	Inexact bool // set on Real/Complex-with-inexact-parts

	Re, Im *Cell // Complex: real & imaginary parts (Integer/Rational/Real)

	Big      *big.Int   // BigInt
	BigRat   *big.Rat   // BigRat
	BigFloat *big.Float // BigFloat

	Bool bool // Boolean (only #t/#f singletons carry this meaningfully)
	Rune rune // Char

	Str *StringData
	Sym *SymbolData

	CarCell, CdrCell *Cell // Pair
	ListLen          int   // cached list length; -1 if unknown/improper/cyclic

	Vec []*Cell // Vector

	BVType BVType // Bytevector
	BV     []byte // Bytevector raw storage, reinterpreted per BVType

	Proc *Procedure
	Prom *Promise
	Strm *Stream
	Prt  *Port
	Err  *schemerr.EvalError

	SList []*Cell // SExpr: parser's mutable argument/form vector

	EnvHandle interface{} // Environment: opaque *env.Env, asserted back by eval/primitives
}

// Singletons: #t, #f, the empty list, EOF, and Unspecified are unique
// process-wide objects (spec.md §3 invariant); reference equality on these
// pointers implements eq? for them.
var (
	True        = &Cell{Kind: Boolean, Bool: true}
	False       = &Cell{Kind: Boolean, Bool: false}
	EmptyList   = &Cell{Kind: Nil}
	EOFObject   = &Cell{Kind: EOF}
	Unspec      = &Cell{Kind: Unspecified}
)

func Bool(b bool) *Cell {
	if b {
		return True
	}
	return False
}

// Truthy implements R7RS's "everything except #f is truthy" rule.
func Truthy(c *Cell) bool {
	return !(c.Kind == Boolean && !c.Bool)
}

func NewInteger(i int64) *Cell { return &Cell{Kind: Integer, I64: i} }

func NewReal(f float64) *Cell { return &Cell{Kind: Real, F64: f, Inexact: true} }

func NewChar(r rune) *Cell { return &Cell{Kind: Char, Rune: r} }

func NewError(e *schemerr.EvalError) *Cell { return &Cell{Kind: Error, Err: e} }

func IsError(c *Cell) bool { return c != nil && c.Kind == Error }

// Cons allocates a new Pair. The cached length is seeded lazily (-1) and
// recomputed on demand by Length; any subsequent SetCdr invalidates it.
func Cons(car, cdr *Cell) *Cell {
	return &Cell{Kind: Pair, CarCell: car, CdrCell: cdr, ListLen: -1}
}

func (c *Cell) IsPair() bool { return c.Kind == Pair }
func (c *Cell) IsNil() bool  { return c.Kind == Nil }

// SetCdr mutates a pair's cdr in place (set-cdr!) and invalidates any
// cached length, per spec.md §3's invariant on cache coherence.
func (c *Cell) SetCdr(cdr *Cell) {
	c.CdrCell = cdr
	c.ListLen = -1
}

func (c *Cell) SetCar(car *Cell) {
	c.CarCell = car
}

// NewString builds a String cell, computing the cached codepoint count and
// ascii-only flag (spec.md §3 invariant).
func NewString(s string) *Cell {
	b := []byte(s)
	ascii := true
	count := 0
	for i := 0; i < len(b); {
		if b[i] < 0x80 {
			i++
		} else {
			ascii = false
			_, size := utf8.DecodeRune(b[i:])
			i += size
		}
		count++
	}
	if ascii {
		count = len(b)
	}
	return &Cell{Kind: String, Str: &StringData{
		Bytes: b, ByteLen: len(b), CodeLen: count, ASCIIOnly: ascii,
	}}
}
