package reader

import (
	"testing"

	"cozenage/internal/cell"
)

func parseOne(t *testing.T, src string) *cell.Cell {
	t.Helper()
	forms := ReadAll(src)
	if len(forms) != 1 {
		t.Fatalf("ReadAll(%q) = %d forms, want 1", src, len(forms))
	}
	return forms[0]
}

func TestReadAtoms(t *testing.T) {
	if c := parseOne(t, "42"); c.Kind != cell.Integer || c.I64 != 42 {
		t.Errorf("42 -> %#v", c)
	}
	if c := parseOne(t, "3.5"); c.Kind != cell.Real {
		t.Errorf("3.5 -> %#v", c)
	}
	if c := parseOne(t, "#t"); c != cell.True {
		t.Errorf("#t -> %#v", c)
	}
	if c := parseOne(t, "#false"); c != cell.False {
		t.Errorf("#false -> %#v", c)
	}
	if c := parseOne(t, `"hi\nthere"`); c.Kind != cell.String || c.Str.ByteLen != 8 {
		t.Errorf(`"hi\nthere" -> %#v`, c)
	}
	if c := parseOne(t, `#\newline`); c.Kind != cell.Char || c.Rune != '\n' {
		t.Errorf(`#\newline -> %#v`, c)
	}
	if c := parseOne(t, "foo"); c.Kind != cell.Symbol || c.Sym.Name != "foo" {
		t.Errorf("foo -> %#v", c)
	}
}

func TestReadProperList(t *testing.T) {
	c := parseOne(t, "(+ 1 2)")
	if c.Kind != cell.SExpr || len(c.SList) != 3 {
		t.Fatalf("(+ 1 2) -> %#v", c)
	}
	if c.SList[0].Sym.Name != "+" || c.SList[1].I64 != 1 || c.SList[2].I64 != 2 {
		t.Errorf("unexpected elements: %#v", c.SList)
	}
}

func TestReadMixedDelimiters(t *testing.T) {
	c := parseOne(t, "[+ 1 2}")
	if c.Kind != cell.SExpr || len(c.SList) != 3 {
		t.Fatalf("[+ 1 2} -> %#v", c)
	}
}

func TestReadDottedPair(t *testing.T) {
	c := parseOne(t, "(1 . 2)")
	if c.Kind != cell.Pair || c.CarCell.I64 != 1 || c.CdrCell.I64 != 2 {
		t.Fatalf("(1 . 2) -> %#v", c)
	}
}

func TestReadDottedFormals(t *testing.T) {
	c := parseOne(t, "(a b . rest)")
	if c.Kind != cell.Pair {
		t.Fatalf("(a b . rest) -> %#v", c)
	}
	if c.CarCell.Sym.Name != "a" || c.CdrCell.CarCell.Sym.Name != "b" {
		t.Fatalf("unexpected formals shape: %#v", c)
	}
	if c.CdrCell.CdrCell.Sym.Name != "rest" {
		t.Fatalf("unexpected dotted tail: %#v", c.CdrCell.CdrCell)
	}
}

func TestReadQuoteForms(t *testing.T) {
	cases := map[string]string{
		"'a":  "quote",
		"`a":  "quasiquote",
		",a":  "unquote",
		",@a": "unquote-splicing",
	}
	for src, head := range cases {
		c := parseOne(t, src)
		if c.Kind != cell.SExpr || len(c.SList) != 2 || c.SList[0].Sym.Name != head {
			t.Errorf("%s -> %#v, want head %s", src, c, head)
		}
	}
}

func TestReadVector(t *testing.T) {
	c := parseOne(t, "#(1 2 3)")
	if c.Kind != cell.Vector || len(c.Vec) != 3 {
		t.Fatalf("#(1 2 3) -> %#v", c)
	}
}

func TestReadBytevector(t *testing.T) {
	c := parseOne(t, "#u8(1 2 255)")
	if c.Kind != cell.Bytevector || len(c.BV) != 3 || c.BV[2] != 255 {
		t.Fatalf("#u8(1 2 255) -> %#v", c)
	}
}

func TestReadBytevectorOutOfRange(t *testing.T) {
	c := parseOne(t, "#u8(1 300)")
	if !cell.IsError(c) {
		t.Fatalf("#u8(1 300) -> %#v, want error", c)
	}
}

func TestReadUnterminatedList(t *testing.T) {
	c := parseOne(t, "(+ 1 2")
	if !cell.IsError(c) {
		t.Fatalf("unterminated list -> %#v, want error", c)
	}
}

func TestReadNestedForms(t *testing.T) {
	c := parseOne(t, "(define (f x) (* x x))")
	if c.Kind != cell.SExpr || len(c.SList) != 3 {
		t.Fatalf("define form -> %#v", c)
	}
	formals := c.SList[1]
	if formals.Kind != cell.SExpr || formals.SList[0].Sym.Name != "f" {
		t.Errorf("unexpected formals container: %#v", formals)
	}
	body := c.SList[2]
	if body.Kind != cell.SExpr || body.SList[0].Sym.Name != "*" {
		t.Errorf("unexpected body: %#v", body)
	}
}

func TestReadBlockComment(t *testing.T) {
	forms := ReadAll("#| comment #| still inside |# 42")
	if len(forms) != 1 || forms[0].Kind != cell.Integer || forms[0].I64 != 42 {
		t.Fatalf("block comment -> %#v, want [42] (non-nesting close)", forms)
	}
}

func TestReadSymbolInterningAcrossForms(t *testing.T) {
	forms := ReadAll("foo foo")
	if forms[0] != forms[1] {
		t.Errorf("same-named symbols across forms must be reference-equal")
	}
}
