package expander

import (
	"testing"

	"cozenage/internal/cell"
	"cozenage/internal/reader"
)

func expandSource(t *testing.T, src string) *cell.Cell {
	t.Helper()
	forms := reader.ReadAll(src)
	if len(forms) != 1 {
		t.Fatalf("ReadAll(%q) = %d forms, want 1", src, len(forms))
	}
	if cell.IsError(forms[0]) {
		t.Fatalf("ReadAll(%q) parse error: %v", src, forms[0].Err)
	}
	return Expand(forms[0])
}

func headSymbol(t *testing.T, c *cell.Cell) string {
	t.Helper()
	if c.Kind != cell.SExpr || len(c.SList) == 0 || c.SList[0].Kind != cell.Symbol {
		t.Fatalf("not a headed form: %#v", c)
	}
	return c.SList[0].Sym.Name
}

func TestExpandDefineShorthand(t *testing.T) {
	c := expandSource(t, "(define (f x) (* x x))")
	if headSymbol(t, c) != "define" {
		t.Fatalf("got %#v", c)
	}
	if c.SList[1].Sym.Name != "f" {
		t.Errorf("name = %#v", c.SList[1])
	}
	lambda := c.SList[2]
	if headSymbol(t, lambda) != "lambda" {
		t.Fatalf("value is not a lambda: %#v", lambda)
	}
}

func TestExpandLambdaInternalDefines(t *testing.T) {
	c := expandSource(t, "(lambda (x) (define y 1) (define z 2) (+ x y z))")
	if headSymbol(t, c) != "lambda" {
		t.Fatalf("got %#v", c)
	}
	body := c.SList[2]
	if headSymbol(t, body) != "letrec" {
		t.Fatalf("internal defines did not collect into letrec: %#v", body)
	}
	bindings := body.SList[1]
	if len(bindings.SList) != 2 {
		t.Fatalf("expected 2 letrec bindings, got %#v", bindings)
	}
}

func TestExpandWhenUnless(t *testing.T) {
	w := expandSource(t, "(when #t 1 2 3)")
	if headSymbol(t, w) != "if" {
		t.Fatalf("when -> %#v", w)
	}
	u := expandSource(t, "(unless #f 1 2 3)")
	if headSymbol(t, u) != "if" {
		t.Fatalf("unless -> %#v", u)
	}
}

func TestExpandCondArrow(t *testing.T) {
	c := expandSource(t, "(cond ((assoc 'b '((a . 1) (b . 2))) => cdr))")
	if headSymbol(t, c) != "let" {
		t.Fatalf("cond => did not desugar through a let temp: %#v", c)
	}
}

func TestExpandCase(t *testing.T) {
	c := expandSource(t, "(case 'a ((b c) 1) ((a) 2))")
	if headSymbol(t, c) != "let" {
		t.Fatalf("case -> %#v", c)
	}
}

func TestExpandOr(t *testing.T) {
	c := expandSource(t, "(or)")
	if c != cell.False {
		t.Errorf("(or) -> %#v, want #f", c)
	}
	c2 := expandSource(t, "(or a b)")
	if headSymbol(t, c2) != "let" {
		t.Fatalf("(or a b) -> %#v", c2)
	}
}

func TestExpandNamedLet(t *testing.T) {
	c := expandSource(t, "(let loop ((i 0)) (if (= i 10) i (loop (+ i 1))))")
	if headSymbol(t, c) != "letrec" {
		t.Fatalf("named let -> %#v", c)
	}
}

func TestExpandDo(t *testing.T) {
	c := expandSource(t, "(do ((i 0 (+ i 1)) (s 0 (+ s i))) ((= i 5) s))")
	if headSymbol(t, c) != "letrec" {
		t.Fatalf("do -> %#v", c)
	}
}

func TestExpandLetStar(t *testing.T) {
	c := expandSource(t, "(let* ((a 1) (b (+ a 1))) b)")
	if headSymbol(t, c) != "let" {
		t.Fatalf("let* -> %#v", c)
	}
	inner := c.SList[2]
	if headSymbol(t, inner) != "let" {
		t.Fatalf("let* did not nest a second let: %#v", inner)
	}
}

func TestExpandQuasiquoteList(t *testing.T) {
	c := expandSource(t, "`(1 ,(+ 1 1) ,@(list 3 4) 5)")
	if headSymbol(t, c) != "append" {
		t.Fatalf("quasiquote list -> %#v", c)
	}
}

func TestExpandQuasiquoteVector(t *testing.T) {
	c := expandSource(t, "`#(a ,(+ 1 1))")
	if headSymbol(t, c) != "list->vector" {
		t.Fatalf("quasiquote vector -> %#v", c)
	}
}

func TestExpandUnquoteOutsideQuasiquoteErrors(t *testing.T) {
	c := expandSource(t, ",x")
	if !cell.IsError(c) {
		t.Fatalf("bare unquote -> %#v, want error", c)
	}
}

func TestExpandPreservesQuoteData(t *testing.T) {
	c := expandSource(t, "'(define x 1)")
	if headSymbol(t, c) != "quote" {
		t.Fatalf("got %#v", c)
	}
	// the quoted datum must be untouched by expansion: still an SExpr
	// whose first element is the literal symbol "define".
	datum := c.SList[1]
	if datum.Kind != cell.SExpr || datum.SList[0].Sym.Name != "define" {
		t.Fatalf("quoted datum was rewritten: %#v", datum)
	}
}
