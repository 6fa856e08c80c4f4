package primitives

import (
	"testing"

	"cozenage/internal/cell"
	"cozenage/internal/env"
	"cozenage/internal/eval"
	"cozenage/internal/expander"
	"cozenage/internal/reader"
)

func newEnv(t *testing.T) *env.Env {
	t.Helper()
	e := env.NewGlobal()
	Register(e)
	return e
}

func run(t *testing.T, e *env.Env, src string) *cell.Cell {
	t.Helper()
	forms := reader.ReadAll(src)
	last := cell.Unspec
	for _, f := range forms {
		if cell.IsError(f) {
			t.Fatalf("parse error in %q: %v", src, f.Err)
		}
		last = eval.Eval(expander.Expand(f), e)
		if cell.IsError(last) {
			t.Fatalf("eval error in %q: %v", src, last.Err)
		}
	}
	return last
}

func TestArithmeticBasics(t *testing.T) {
	e := newEnv(t)
	if got := run(t, e, "(+ 1 2 3)"); got.I64 != 6 {
		t.Errorf("(+ 1 2 3) = %v, want 6", cell.Write(got))
	}
	if got := run(t, e, "(* 2 (- 10 4) (/ 1 2))"); cell.Write(got) != "6" {
		t.Errorf("got %v, want 6", cell.Write(got))
	}
	if got := run(t, e, "(< 1 2 3)"); got != cell.True {
		t.Errorf("(< 1 2 3) should be #t")
	}
	if got := run(t, e, "(modulo -7 3)"); got.I64 != 2 {
		t.Errorf("(modulo -7 3) = %d, want 2", got.I64)
	}
}

func TestPairsAndLists(t *testing.T) {
	e := newEnv(t)
	if got := run(t, e, "(car (cons 1 2))"); got.I64 != 1 {
		t.Errorf("car of cons failed")
	}
	if got := run(t, e, "(length (list 1 2 3 4))"); got.I64 != 4 {
		t.Errorf("length wrong")
	}
	if got := run(t, e, "(reverse (list 1 2 3))"); cell.Write(got) != "(3 2 1)" {
		t.Errorf("reverse got %v", cell.Write(got))
	}
	if got := run(t, e, "(append (list 1 2) (list 3 4))"); cell.Write(got) != "(1 2 3 4)" {
		t.Errorf("append got %v", cell.Write(got))
	}
	if got := run(t, e, "(assoc 2 (list (cons 1 'a) (cons 2 'b)))"); cell.Write(got) != "(2 . b)" {
		t.Errorf("assoc got %v", cell.Write(got))
	}
}

func TestPredicatesEquality(t *testing.T) {
	e := newEnv(t)
	if got := run(t, e, "(equal? (list 1 2 (list 3)) (list 1 2 (list 3)))"); got != cell.True {
		t.Errorf("equal? over nested lists should be #t")
	}
	if got := run(t, e, "(eq? 'a 'a)"); got != cell.True {
		t.Errorf("eq? on interned symbols should be #t")
	}
	if got := run(t, e, "(pair? (cons 1 2))"); got != cell.True {
		t.Errorf("pair? should be #t")
	}
}

func TestStringsAndChars(t *testing.T) {
	e := newEnv(t)
	if got := run(t, e, `(string-append "foo" "bar")`); cell.Write(got) != `"foobar"` {
		t.Errorf("string-append got %v", cell.Write(got))
	}
	if got := run(t, e, `(string-length "hello")`); got.I64 != 5 {
		t.Errorf("string-length wrong")
	}
	if got := run(t, e, `(char->integer #\A)`); got.I64 != 65 {
		t.Errorf("char->integer wrong")
	}
	if got := run(t, e, `(string->number "42")`); got.I64 != 42 {
		t.Errorf("string->number wrong")
	}
}

func TestVectorsAndBytevectors(t *testing.T) {
	e := newEnv(t)
	if got := run(t, e, "(vector-ref (vector 1 2 3) 1)"); got.I64 != 2 {
		t.Errorf("vector-ref wrong")
	}
	if got := run(t, e, "(bytevector-u8-ref (bytevector 10 20 30) 2)"); got.I64 != 30 {
		t.Errorf("bytevector-u8-ref wrong")
	}
}

func TestHigherOrderControl(t *testing.T) {
	e := newEnv(t)
	if got := run(t, e, "(map (lambda (x) (* x x)) (list 1 2 3))"); cell.Write(got) != "(1 4 9)" {
		t.Errorf("map got %v", cell.Write(got))
	}
	if got := run(t, e, "(filter (lambda (x) (> x 2)) (list 1 2 3 4))"); cell.Write(got) != "(3 4)" {
		t.Errorf("filter got %v", cell.Write(got))
	}
	if got := run(t, e, "(fold-left + 0 (list 1 2 3 4))"); got.I64 != 10 {
		t.Errorf("fold-left got %v", cell.Write(got))
	}
	if got := run(t, e, "(apply + (list 1 2 3))"); got.I64 != 6 {
		t.Errorf("apply got %v", cell.Write(got))
	}
}

func TestIOStringPorts(t *testing.T) {
	e := newEnv(t)
	got := run(t, e, `(let ((p (open-output-string)))
		(write-string "hi" p)
		(get-output-string p))`)
	if cell.Write(got) != `"hi"` {
		t.Errorf("string port roundtrip got %v", cell.Write(got))
	}
}

func TestCryptoLibrary(t *testing.T) {
	e := newEnv(t)
	run(t, e, `(import (base crypto))`)
	got := run(t, e, `(password-verify "secret" (password-hash "secret"))`)
	if got != cell.True {
		t.Errorf("password-hash/verify roundtrip should succeed")
	}
}
