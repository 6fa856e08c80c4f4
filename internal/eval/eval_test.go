package eval

import (
	"testing"

	"cozenage/internal/cell"
	"cozenage/internal/env"
	"cozenage/internal/expander"
	"cozenage/internal/reader"
	"cozenage/internal/symtab"
)

func evalSource(t *testing.T, e *env.Env, src string) *cell.Cell {
	t.Helper()
	forms := reader.ReadAll(src)
	var last *cell.Cell = cell.Unspec
	for _, f := range forms {
		if cell.IsError(f) {
			t.Fatalf("parse error in %q: %v", src, f.Err)
		}
		last = Eval(expander.Expand(f), e)
		if cell.IsError(last) {
			t.Fatalf("eval error in %q: %v", src, last.Err)
		}
	}
	return last
}

func registerArith(e *env.Env) {
	add := &cell.Cell{Kind: cell.Procedure, Proc: &cell.Procedure{
		IsBuiltin: true,
		Native: &cell.Builtin{Name: "+", Fn: func(args *cell.Cell) *cell.Cell {
			var sum int64
			for _, a := range args.SList {
				sum += a.I64
			}
			return cell.NewInteger(sum)
		}},
	}}
	e.DefineGlobal(symtab.Intern("+"), add)

	mul := &cell.Cell{Kind: cell.Procedure, Proc: &cell.Procedure{
		IsBuiltin: true,
		Native: &cell.Builtin{Name: "*", Fn: func(args *cell.Cell) *cell.Cell {
			prod := int64(1)
			for _, a := range args.SList {
				prod *= a.I64
			}
			return cell.NewInteger(prod)
		}},
	}}
	e.DefineGlobal(symtab.Intern("*"), mul)

	lt := &cell.Cell{Kind: cell.Procedure, Proc: &cell.Procedure{
		IsBuiltin: true,
		Native: &cell.Builtin{Name: "<", Fn: func(args *cell.Cell) *cell.Cell {
			return cell.Bool(args.SList[0].I64 < args.SList[1].I64)
		}},
	}}
	e.DefineGlobal(symtab.Intern("<"), lt)

	eq := &cell.Cell{Kind: cell.Procedure, Proc: &cell.Procedure{
		IsBuiltin: true,
		Native: &cell.Builtin{Name: "=", Fn: func(args *cell.Cell) *cell.Cell {
			return cell.Bool(args.SList[0].I64 == args.SList[1].I64)
		}},
	}}
	e.DefineGlobal(symtab.Intern("="), eq)

	list := &cell.Cell{Kind: cell.Procedure, Proc: &cell.Procedure{
		IsBuiltin: true,
		Native: &cell.Builtin{Name: "list", Fn: func(args *cell.Cell) *cell.Cell {
			return cell.ListFromSlice(args.SList)
		}},
	}}
	e.DefineGlobal(symtab.Intern("list"), list)
}

func newTestEnv() *env.Env {
	e := env.NewGlobal()
	registerArith(e)
	return e
}

func TestEvalArithmeticApplication(t *testing.T) {
	e := newTestEnv()
	result := evalSource(t, e, "(+ 1 2 3)")
	if result.Kind != cell.Integer || result.I64 != 6 {
		t.Fatalf("(+ 1 2 3) = %#v, want 6", result)
	}
}

func TestEvalIfBranches(t *testing.T) {
	e := newTestEnv()
	if r := evalSource(t, e, "(if (< 1 2) 10 20)"); r.I64 != 10 {
		t.Errorf("true branch = %#v", r)
	}
	if r := evalSource(t, e, "(if (< 2 1) 10 20)"); r.I64 != 20 {
		t.Errorf("false branch = %#v", r)
	}
	if r := evalSource(t, e, "(if (< 2 1) 10)"); r != cell.Unspec {
		t.Errorf("missing else = %#v, want unspecified", r)
	}
}

func TestEvalLambdaClosure(t *testing.T) {
	e := newTestEnv()
	evalSource(t, e, "(define (make-adder n) (lambda (x) (+ x n)))")
	evalSource(t, e, "(define add5 (make-adder 5))")
	r := evalSource(t, e, "(add5 10)")
	if r.I64 != 15 {
		t.Fatalf("closure capture broken: %#v", r)
	}
}

func TestEvalLetAndLetStar(t *testing.T) {
	e := newTestEnv()
	r := evalSource(t, e, "(let ((a 1) (b 2)) (+ a b))")
	if r.I64 != 3 {
		t.Fatalf("let = %#v", r)
	}
	r2 := evalSource(t, e, "(let* ((a 1) (b (+ a 1))) (+ a b))")
	if r2.I64 != 3 {
		t.Fatalf("let* = %#v", r2)
	}
}

func TestEvalNamedLetLoop(t *testing.T) {
	e := newTestEnv()
	r := evalSource(t, e, `
		(let loop ((i 0) (acc 0))
		  (if (< i 5) (loop (+ i 1) (+ acc i)) acc))`)
	if r.I64 != 10 {
		t.Fatalf("named let loop = %#v, want 10", r)
	}
}

func TestEvalDeepTailRecursionDoesNotOverflow(t *testing.T) {
	e := newTestEnv()
	r := evalSource(t, e, `
		(define (count-to n acc)
		  (if (< n 1) acc (count-to (+ n -1) (+ acc 1))))
		(count-to 200000 0)`)
	if r.I64 != 200000 {
		t.Fatalf("tail loop = %#v, want 200000", r)
	}
}

func TestEvalSetMutatesBinding(t *testing.T) {
	e := newTestEnv()
	r := evalSource(t, e, "(let ((x 1)) (set! x 2) x)")
	if r.I64 != 2 {
		t.Fatalf("set! = %#v", r)
	}
}

func TestEvalUnboundVariableIsError(t *testing.T) {
	e := newTestEnv()
	forms := reader.ReadAll("undefined-name")
	r := Eval(expander.Expand(forms[0]), e)
	if !cell.IsError(r) {
		t.Fatalf("expected unbound-variable error, got %#v", r)
	}
}

func TestEvalDefmacroNonHygienic(t *testing.T) {
	e := newTestEnv()
	evalSource(t, e, "(defmacro my-if (test then else) (list 'if test then else))")
	r := evalSource(t, e, "(my-if (< 1 2) 'yes 'no)")
	if r.Kind != cell.Symbol || r.Sym.Name != "yes" {
		t.Fatalf("defmacro expansion = %#v", r)
	}
}

func TestForceMemoizesDelay(t *testing.T) {
	e := newTestEnv()
	e.DefineGlobal(symtab.Intern("force"), &cell.Cell{Kind: cell.Procedure, Proc: &cell.Procedure{
		IsBuiltin: true, Native: &cell.Builtin{Name: "force", Fn: Force},
	}})
	evalSource(t, e, "(define p (delay (+ 1 2)))")
	r1 := evalSource(t, e, "(force p)")
	r2 := evalSource(t, e, "(force p)")
	if r1.I64 != 3 || r2.I64 != 3 {
		t.Fatalf("force = %#v, %#v, want 3, 3", r1, r2)
	}
}

func TestStreamTailNotEvaluatedUntilForced(t *testing.T) {
	e := newTestEnv()
	e.DefineGlobal(symtab.Intern("force"), &cell.Cell{Kind: cell.Procedure, Proc: &cell.Procedure{
		IsBuiltin: true, Native: &cell.Builtin{Name: "force", Fn: Force},
	}})
	e.DefineGlobal(symtab.Intern("error"), &cell.Cell{Kind: cell.Procedure, Proc: &cell.Procedure{
		IsBuiltin: true, Native: &cell.Builtin{Name: "error", Fn: func(args *cell.Cell) *cell.Cell {
			t.Fatalf("stream tail was evaluated eagerly")
			return cell.Unspec
		}},
	}})
	evalSource(t, e, "(define s (stream 1 (error \"tail\")))")
	forms := reader.ReadAll("s")
	sv := Eval(expander.Expand(forms[0]), e)
	if sv.Kind != cell.Stream || sv.Strm.Head.I64 != 1 {
		t.Fatalf("stream head = %#v, want 1", sv)
	}
}

func TestApplyBuiltinSplicesFinalList(t *testing.T) {
	e := newTestEnv()
	e.DefineGlobal(symtab.Intern("apply"), &cell.Cell{Kind: cell.Procedure, Proc: &cell.Procedure{
		IsBuiltin: true, Native: &cell.Builtin{Name: "apply", Fn: ApplyBuiltin},
	}})
	r := evalSource(t, e, "(apply + 1 2 (list 3 4))")
	if r.I64 != 10 {
		t.Fatalf("apply = %#v, want 10", r)
	}
}

func TestInteractionEnvironmentAndEvalBuiltin(t *testing.T) {
	e := newTestEnv()
	Init(e)
	e.DefineGlobal(symtab.Intern("interaction-environment"), &cell.Cell{Kind: cell.Procedure, Proc: &cell.Procedure{
		IsBuiltin: true, Native: &cell.Builtin{Name: "interaction-environment", Fn: InteractionEnvironment},
	}})
	e.DefineGlobal(symtab.Intern("eval"), &cell.Cell{Kind: cell.Procedure, Proc: &cell.Procedure{
		IsBuiltin: true, Native: &cell.Builtin{Name: "eval", Fn: EvalBuiltin},
	}})
	r := evalSource(t, e, "(eval '(+ 1 2) (interaction-environment))")
	if r.I64 != 3 {
		t.Fatalf("(eval '(+ 1 2) (interaction-environment)) = %#v, want 3", r)
	}
}

func TestVariadicFormalsBinding(t *testing.T) {
	e := newTestEnv()
	evalSource(t, e, "(define (my-list . args) args)")
	forms := reader.ReadAll("(my-list 1 2 3)")
	r := Eval(expander.Expand(forms[0]), e)
	elems, ok := cell.ToSlice(r)
	if !ok || len(elems) != 3 {
		t.Fatalf("variadic args = %#v", r)
	}
}

func TestArityErrorOnTooFewArguments(t *testing.T) {
	e := newTestEnv()
	evalSource(t, e, "(define (needs-two a b) (+ a b))")
	forms := reader.ReadAll("(needs-two 1)")
	r := Eval(expander.Expand(forms[0]), e)
	if !cell.IsError(r) || r.Err.Kind != "arity-error" {
		t.Fatalf("expected arity error, got %#v", r)
	}
}
