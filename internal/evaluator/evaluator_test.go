package evaluator

import (
	"bytes"
	"fmt"
	"lispy/internal/object"
	"lispy/internal/parser"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestEvaluator() (*Evaluator, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return New(parser.New(), out), out
}

// evalLines evaluates each line as if typed at the prompt and returns the
// rendering of the last result.
func evalLines(t *testing.T, e *Evaluator, lines ...string) string {
	t.Helper()
	var last string
	for _, line := range lines {
		result, err := e.EvalSource("test", line)
		if err != nil {
			t.Fatalf("%q: unexpected parse error %v", line, err)
		}
		last = result.Inspect()
	}
	return last
}

type evalCase struct {
	name     string
	lines    []string
	expected string
}

func runEvalCases(t *testing.T, cases []evalCase) {
	t.Helper()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e, _ := newTestEvaluator()
			if got := evalLines(t, e, c.lines...); got != c.expected {
				t.Errorf("%v: expected %q, got %q", c.lines, c.expected, got)
			}
		})
	}
}

func TestEvalAtoms(t *testing.T) {
	runEvalCases(t, []evalCase{
		{"integer", []string{"5"}, "5"},
		{"decimal", []string{"2.5"}, "2.500000"},
		{"string", []string{`"a\nb"`}, `"a\nb"`},
		{"empty line", []string{""}, "()"},
		{"empty sexpr", []string{"()"}, "()"},
		{"qexpr is not evaluated", []string{"{+ 1 undefined}"}, "{+ 1 undefined}"},
		{"builtin alone", []string{"+"}, "<builtin>"},
		{"builtin in parens", []string{"(+)"}, "<builtin>"},
		{"number out of range", []string{"99999999999999999999"}, "Error: invalid number"},
		{"unbound symbol", []string{"undefined"}, "Error: Unbound Symbol 'undefined'"},
		{"non function head", []string{"(1 2)"}, "Error: S-Expression starts with incorrect type. Got Integer, Expected Function."},
		{"first error wins", []string{"(+ (error \"a\") (error \"b\"))"}, "Error: a"},
	})
}

func TestArithmetic(t *testing.T) {
	runEvalCases(t, []evalCase{
		{"line without parens", []string{"+ 1 2"}, "3"},
		{"add", []string{"(+ 1 2)"}, "3"},
		{"decimal accumulator", []string{"(+ 1.0 2)"}, "3.000000"},
		{"integer accumulator keeps fraction", []string{"(+ 2 1.5)"}, "3.500000"},
		{"negate", []string{"(- 5)"}, "-5"},
		{"negate decimal", []string{"(- 2.5)"}, "-2.500000"},
		{"subtract left to right", []string{"(- 10 1 2)"}, "7"},
		{"multiply", []string{"(* 2 3 4)"}, "24"},
		{"integer division truncates", []string{"(/ 7 2)"}, "3"},
		{"decimal division", []string{"(/ 7.0 2)"}, "3.500000"},
		{"division by zero", []string{"(/ 1 0)"}, "Error: Division By Zero!"},
		{"decimal division by zero", []string{"(/ 1.0 0)"}, "Error: Division By Zero!"},
		{"modulo", []string{"(% 7 3)"}, "1"},
		{"modulo by zero", []string{"(% 7 0)"}, "Error: Division By Zero!"},
		{"decimal modulo", []string{"(% 7.5 2)"}, "1.500000"},
		{"power", []string{"(^ 2 10)"}, "1024"},
		{"power zero", []string{"(^ 2 0)"}, "1"},
		{"reciprocal truncates", []string{"(^ 2 -1)"}, "0"},
		{"reciprocal of one", []string{"(^ 1 -3)"}, "1"},
		{"reciprocal of zero", []string{"(^ 0 -1)"}, "Error: Division By Zero!"},
		{"decimal power", []string{"(^ 2.0 3)"}, "8.000000"},
		{"max", []string{"(max 1 5 3)"}, "5"},
		{"min of integer and decimal", []string{"(min 4 2.5)"}, "2.500000"},
		{"max with decimal accumulator", []string{"(max 1.5 2)"}, "2.000000"},
		{"min with decimal accumulator", []string{"(min 2.5 1)"}, "1.000000"},
		{"max keeps decimal accumulator", []string{"(max 3.5 2)"}, "3.500000"},
		{"integers compare exactly after a decimal", []string{"(min 4 2.5 3)"}, "3"},
		{"large power", []string{"(^ 3 39)"}, "4052555153018976267"},
		{"huge exponent", []string{"(^ 1 100000000)"}, "1"},
		{"huge negative exponent", []string{"(^ -1 -100000001)"}, "-1"},
		{"non number", []string{"(+ 1 {2})"}, "Error: Cannot operate on non-number!"},
		{"nested", []string{"(* (+ 1 2) (- 10 4))"}, "18"},
	})
}

func TestComparison(t *testing.T) {
	runEvalCases(t, []evalCase{
		{"greater", []string{"(> 3 2)"}, "1"},
		{"less or equal", []string{"(<= 2 2)"}, "1"},
		{"mixed less", []string{"(< 2.5 2)"}, "0"},
		{"order needs numbers", []string{`(> "a" 1)`}, "Error: Error, > can only compare numbers"},
		{"list equality", []string{"(== {1 2} {1 2})"}, "1"},
		{"numeric equality across types", []string{"(== 1 1.0)"}, "1"},
		{"string equality", []string{`(== "a" "a")`}, "1"},
		{"inequality", []string{"(!= 1 2)"}, "1"},
		{"different types", []string{`(== 1 "1")`}, "0"},
		{"and", []string{"(and 1 1)"}, "1"},
		{"and false", []string{"(and 1 0)"}, "0"},
		{"or", []string{"(or 0 1)"}, "1"},
		{"not zero", []string{"(not 0)"}, "1"},
		{"not non zero", []string{"(not 5)"}, "0"},
		{"and needs integers", []string{"(and 1 {})"}, "Error: Function 'and' passed incorrect type for argument 1. Got Q-Expression, Expected Integer."},
	})
}

func TestIf(t *testing.T) {
	runEvalCases(t, []evalCase{
		{"then branch", []string{"(if (> 3 2) {1} {2})"}, "1"},
		{"else branch", []string{"(if 0 {1} {2})"}, "2"},
		{"untaken branch is not evaluated", []string{"(if 1 {1} {undefined})"}, "1"},
		{"branch must be quoted", []string{"(if 1 1 {2})"}, "Error: Function 'if' passed incorrect type for argument 1. Got Integer, Expected Q-Expression."},
		{"wrong arity", []string{"(if 1 {1})"}, "Error: Function 'if' passed incorrect number of arguments. Got 2, Expected 3."},
	})
}

func TestListBuiltins(t *testing.T) {
	runEvalCases(t, []evalCase{
		{"list", []string{"(list 1 2 3)"}, "{1 2 3}"},
		{"head", []string{"(head {1 2 3})"}, "{1}"},
		{"tail", []string{"(tail {1 2 3})"}, "{2 3}"},
		{"init", []string{"(init {1 2 3})"}, "{1 2}"},
		{"len", []string{"(len {1 2 3})"}, "3"},
		{"len of empty", []string{"(len {})"}, "0"},
		{"head of string", []string{`(head "abc")`}, `"a"`},
		{"tail of string", []string{`(tail "abc")`}, `"bc"`},
		{"init of string", []string{`(init "abc")`}, `"ab"`},
		{"head of multibyte string", []string{`(head "éa")`}, `"é"`},
		{"head of empty list", []string{"(head {})"}, "Error: Function 'head' passed {} for argument 0."},
		{"init of empty string", []string{`(init "")`}, `Error: Function 'init' cannot process ""`},
		{"head of number", []string{"(head 1)"}, "Error: Function 'head' expected a String or a Q-expression"},
		{"head arity", []string{"(head {1} {2})"}, "Error: Function 'head' passed incorrect number of arguments. Got 2, Expected 1."},
		{"len arity", []string{"(len {1} {2})"}, "Error: Function 'len' passed incorrect number of arguments. Got 2, Expected 1."},
		{"eval", []string{"(eval {+ 1 2})"}, "3"},
		{"eval of head", []string{"(eval (head {(+ 1 2) 10}))"}, "3"},
		{"join lists", []string{"(join {1} {2 3} {4})"}, "{1 2 3 4}"},
		{"join strings", []string{`(join "ab" "cd")`}, `"abcd"`},
		{"join mixed", []string{`(join {1} "a")`}, "Error: Function 'join' passed incorrect type for argument 1. Got String, Expected Q-Expression."},
		{"cons", []string{"(cons 1 {2 3})"}, "{1 2 3}"},
		{"cons joins lists", []string{"(cons {1} {2})"}, "{1 2}"},
		{"index", []string{"(index 1 {a b c})"}, "{b}"},
		{"index out of range", []string{"(index 3 {a b c})"}, "Error: index out of range, the list has length 3"},
		{"index of empty", []string{"(index 0 {})"}, "Error: Function 'index' passed {} for argument 1."},
		{"pack", []string{"(pack head 1 2 3)"}, "{1}"},
		{"unpack", []string{"(unpack + {1 2 3})"}, "6"},
		{"unpack empty", []string{"(unpack + {})"}, "Error: Function 'unpack' passed {} for argument 1."},
		{"lookup copies", []string{"(def {xs} {1 2})", "(tail xs)", "xs"}, "{1 2}"},
	})
}

func TestLambdas(t *testing.T) {
	runEvalCases(t, []evalCase{
		{"full application", []string{`((\ {x y} {+ x y}) 1 2)`}, "3"},
		{"render", []string{`(\ {x y} {+ x y})`}, `(\ {x y} {+ x y})`},
		{"partial application", []string{`(def {add} (\ {x y} {+ x y}))`, "(def {add1} (add 1))", "(add1 5)"}, "6"},
		{"partial render", []string{`(def {add} (\ {x y} {+ x y}))`, "(add 1)"}, `(\ {y} {+ x y})`},
		{"partials are independent", []string{
			`(def {add} (\ {x y} {+ x y}))`, "(def {a1} (add 1))", "(def {a2} (add 2))", "(a1 10)", "(+ (a2 10) 0)",
		}, "12"},
		{"original untouched by partial", []string{`(def {add} (\ {x y} {+ x y}))`, "(add 1)", "add"}, `(\ {x y} {+ x y})`},
		{"currying round trip", []string{`(((\ {x y} {+ x y}) 1) 2)`}, "3"},
		{"variadic", []string{`((\ {x & xs} {xs}) 1 2 3)`}, "{2 3}"},
		{"variadic empty", []string{`((\ {x & xs} {xs}) 1)`}, "{}"},
		{"too many arguments", []string{`((\ {x} {x}) 1 2)`}, "Error: Function passed too many arguments. Got 2, Expected 1."},
		{"bad variadic", []string{`((\ {& x y} {x}) 1)`}, "Error: Function format invalid. Symbol '&' not followed by single symbol."},
		{"non symbol formal", []string{`(\ {1} {x})`}, "Error: Cannot define non-symbol. Got Integer, Expected Symbol."},
		{"fun", []string{"(fun {double x} {* 2 x})", "(double 21)"}, "42"},
		{"recursion", []string{"(fun {fact n} {if (== n 0) {1} {* n (fact (- n 1))}})", "(fact 10)"}, "3628800"},
		{"dynamic scope", []string{"(fun {get-y _} {y})", "(fun {with-y y} {get-y 0})", "(with-y 5)"}, "5"},
	})
}

func TestDefinitions(t *testing.T) {
	runEvalCases(t, []evalCase{
		{"def returns unit", []string{"(def {x} 1)"}, "()"},
		{"def several", []string{"(def {a b} 1 2)", "(+ a b)"}, "3"},
		{"local put stays local", []string{"(def {x} 1)", `((\ {_} {= {x} 2}) 0)`, "x"}, "1"},
		{"def in lambda is global", []string{"(def {x} 1)", `((\ {_} {def {x} 3}) 0)`, "x"}, "3"},
		{"put in lambda keeps global", []string{"(def {x} 10)", `((\ {_} {= {x} 20}) 0)`, "x"}, "10"},
		{"def in lambda changes global", []string{"(def {x} 10)", `((\ {_} {def {x} 30}) 0)`, "x"}, "30"},
		{"put at top level", []string{"(= {x} 4)", "x"}, "4"},
		{"count mismatch", []string{"(def {a b} 1)"}, "Error: Function 'def' passed too many arguments for symbols. Got 2, Expected 1."},
		{"non symbol", []string{"(def {1} 1)"}, "Error: Function 'def' cannot define non-symbol. Got Integer, Expected Symbol."},
		{"def needs qexpr", []string{"(def 1 1)"}, "Error: Function 'def' passed incorrect type for argument 0. Got Integer, Expected Q-Expression."},
		{"error builtin", []string{`(error "boom")`}, "Error: boom"},
	})
}

func TestEnv(t *testing.T) {
	e, _ := newTestEvaluator()
	got := evalLines(t, e, "(def {zzz} 1)", "env")
	if !strings.HasPrefix(got, "{") {
		t.Fatalf("env did not return a Q-expression: %s", got)
	}
	for _, name := range []string{"zzz", "head", "def", "db-open"} {
		if !strings.Contains(got, name) {
			t.Errorf("env output is missing %q: %s", name, got)
		}
	}
}

func TestEnvListsCallingFrame(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`((\ {x} {env}) 1)`, "{x}"},
		{`((\ {x & xs} {env}) 1 2 3)`, "{x xs}"},
		{`((\ {x} {tail (list (= {y} 2) (env))}) 1)`, "{{x y}}"},
	}

	for _, tt := range tests {
		e, _ := newTestEvaluator()
		if got := evalLines(t, e, tt.input); got != tt.expected {
			t.Errorf("%s: expected %s, got %s", tt.input, tt.expected, got)
		}
	}
}

func TestPrint(t *testing.T) {
	e, out := newTestEvaluator()
	got := evalLines(t, e, `(print 1 "a" {x})`)
	if got != "()" {
		t.Errorf("print returned %s", got)
	}
	if out.String() != "1 \"a\" {x} \n" {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestIfSkipsUntakenBranch(t *testing.T) {
	e, out := newTestEvaluator()
	if got := evalLines(t, e, `(if (> 3 2) {1} {print "untaken"})`); got != "1" {
		t.Errorf("expected 1, got %s", got)
	}
	if got := evalLines(t, e, `(if (< 3 2) {print "untaken"} {2})`); got != "2" {
		t.Errorf("expected 2, got %s", got)
	}
	if out.Len() != 0 {
		t.Errorf("untaken branch produced output %q", out.String())
	}
}

func TestExit(t *testing.T) {
	for _, line := range []string{"(exit)", "exit"} {
		e, _ := newTestEvaluator()
		code := -1
		e.OnExit = func(c int) { code = c }

		got := evalLines(t, e, line)
		if code != 0 {
			t.Errorf("%q: expected exit code 0, got %d", line, code)
		}
		if got != "()" {
			t.Errorf("%q: returned %s", line, got)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.lspy")
	src := "; library\n(def {loaded} 7)\n(undefined-symbol)\n(def {after} 8)\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	e, out := newTestEvaluator()
	if got := evalLines(t, e, fmt.Sprintf("(load %q)", path)); got != "()" {
		t.Errorf("load returned %s", got)
	}
	if !strings.Contains(out.String(), "Error: Unbound Symbol 'undefined-symbol'") {
		t.Errorf("load did not report the failing form: %q", out.String())
	}
	if got := evalLines(t, e, "(+ loaded after)"); got != "15" {
		t.Errorf("forms around the failure were not evaluated: %s", got)
	}

	missing := filepath.Join(t.TempDir(), "missing.lspy")
	got := evalLines(t, e, fmt.Sprintf("(load %q)", missing))
	if !strings.HasPrefix(got, "Error: Could not load Library") {
		t.Errorf("unexpected result for a missing file: %s", got)
	}
}

func TestLoadSource(t *testing.T) {
	e, _ := newTestEvaluator()
	if x := e.LoadSource(e.Global, "inline", "(def {x} 1) (def {y} 2)"); object.IsError(x) {
		t.Fatalf("unexpected error %s", x.Inspect())
	}
	if got := evalLines(t, e, "(+ x y)"); got != "3" {
		t.Errorf("expected 3, got %s", got)
	}

	if x := e.LoadSource(e.Global, "broken", "(def {x}"); !object.IsError(x) {
		t.Errorf("expected an error for broken source, got %s", x.Inspect())
	}
}

func TestEvalSourceParseError(t *testing.T) {
	e, _ := newTestEvaluator()
	if _, err := e.EvalSource("test", "(+ 1"); err == nil {
		t.Errorf("expected a parse error")
	}
}

func TestRead(t *testing.T) {
	root, err := parser.New().Parse("test", `{1 2.5 "s" sym (x)} ; comment`)
	if err != nil {
		t.Fatal(err)
	}
	got := Read(root)
	if got.Inspect() != `({1 2.500000 "s" sym (x)})` {
		t.Errorf("unexpected value %s", got.Inspect())
	}
	if got.Type() != object.SEXPR_OBJ {
		t.Errorf("root read as %s", got.Type())
	}
}
