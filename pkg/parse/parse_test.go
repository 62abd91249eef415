package parse

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"testing"

	"github.com/pyritelang/pyrite/pkg/eval/errs"
	"github.com/pyritelang/pyrite/pkg/testutil"
)

func mustParse(t *testing.T, code string) *Tree {
	t.Helper()
	tree, err := Parse(Source{Name: "[test]", Code: code})
	if err != nil {
		t.Fatalf("Parse(%q): %v", code, err)
	}
	return tree
}

// render flattens a tree into a compact s-expression, so that structural
// expectations stay one-line table entries.
func render(n Node) string {
	switch n := n.(type) {
	case *Literal:
		switch v := n.Value.(type) {
		case nil:
			return "None"
		case bool:
			if v {
				return "True"
			}
			return "False"
		case string:
			return strconv.Quote(v)
		default:
			return fmt.Sprint(v)
		}
	case *Name:
		return n.Name
	case *Tuple:
		return "(tuple" + renderExprs(n.Elems) + ")"
	case *List:
		return "(list" + renderExprs(n.Elems) + ")"
	case *Set:
		return "(set" + renderExprs(n.Elems) + ")"
	case *Dict:
		var sb strings.Builder
		sb.WriteString("(dict")
		for i := range n.Keys {
			fmt.Fprintf(&sb, " (%s %s)", render(n.Keys[i]), render(n.Values[i]))
		}
		sb.WriteString(")")
		return sb.String()
	case *BinOp:
		return fmt.Sprintf("(%s %s %s)", n.Op, render(n.Left), render(n.Right))
	case *UnaryOp:
		return fmt.Sprintf("(%s %s)", n.Op, render(n.Operand))
	case *BoolOp:
		return "(" + n.Op + renderExprs(n.Values) + ")"
	case *Compare:
		var sb strings.Builder
		sb.WriteString("(cmp " + render(n.Left))
		for i, op := range n.Ops {
			sb.WriteString(" " + op + " " + render(n.Operands[i]))
		}
		sb.WriteString(")")
		return sb.String()
	case *Call:
		var sb strings.Builder
		sb.WriteString("(call " + render(n.Func) + renderExprs(n.Args))
		for i, name := range n.KeywordNames {
			sb.WriteString(" " + name + "=" + render(n.KeywordValues[i]))
		}
		sb.WriteString(")")
		return sb.String()
	case *Attribute:
		return fmt.Sprintf("(. %s %s)", render(n.Object), n.Attr)
	case *Subscript:
		return fmt.Sprintf("([] %s %s)", render(n.Object), render(n.Index))
	case *Slice:
		return fmt.Sprintf("(slice %s %s %s)",
			renderOpt(n.Low), renderOpt(n.High), renderOpt(n.Step))
	case *IfExp:
		return fmt.Sprintf("(ifexp %s %s %s)",
			render(n.Cond), render(n.Then), render(n.Else))
	case *ListComp:
		return "(listcomp " + render(n.Elem) + renderClauses(n.Clauses) + ")"
	case *SetComp:
		return "(setcomp " + render(n.Elem) + renderClauses(n.Clauses) + ")"
	case *DictComp:
		return fmt.Sprintf("(dictcomp %s %s%s)",
			render(n.Key), render(n.Value), renderClauses(n.Clauses))
	case *GeneratorExp:
		return "(genexp " + render(n.Elem) + renderClauses(n.Clauses) + ")"
	case *Lambda:
		return "(lambda (" + renderParams(n.Params) + ") " + render(n.Body) + ")"
	case *Yield:
		if n.Value == nil {
			return "(yield)"
		}
		return "(yield " + render(n.Value) + ")"
	case *Starred:
		return "(star " + render(n.Value) + ")"

	case *ExprStmt:
		return render(n.X)
	case *Assign:
		return "(=" + renderExprs(n.Targets) + " " + render(n.Value) + ")"
	case *AugAssign:
		return fmt.Sprintf("(%s= %s %s)", n.Op, render(n.Target), render(n.Value))
	case *If:
		return fmt.Sprintf("(if %s %s %s)",
			render(n.Cond), renderBlock(n.Body), renderBlock(n.Else))
	case *While:
		return fmt.Sprintf("(while %s %s %s)",
			render(n.Cond), renderBlock(n.Body), renderBlock(n.Else))
	case *For:
		return fmt.Sprintf("(for %s %s %s %s)",
			render(n.Target), render(n.Iter), renderBlock(n.Body), renderBlock(n.Else))
	case *Break:
		return "break"
	case *Continue:
		return "continue"
	case *Pass:
		return "pass"
	case *Return:
		if n.Value == nil {
			return "(return)"
		}
		return "(return " + render(n.Value) + ")"
	case *Del:
		return "(del" + renderExprs(n.Targets) + ")"
	case *FunctionDef:
		var sb strings.Builder
		sb.WriteString("(def")
		for _, d := range n.Decorators {
			sb.WriteString(" @" + render(d))
		}
		sb.WriteString(" " + n.Name + " (" + renderParams(n.Params) + ") ")
		sb.WriteString(renderBlock(n.Body) + ")")
		return sb.String()
	case *Try:
		var sb strings.Builder
		sb.WriteString("(try " + renderBlock(n.Body))
		for _, ex := range n.Excepts {
			sb.WriteString(" (except (" + strings.Join(ex.Kinds, " ") + ")")
			if ex.Name != "" {
				sb.WriteString(" as " + ex.Name)
			}
			sb.WriteString(" " + renderBlock(ex.Body) + ")")
		}
		sb.WriteString(" " + renderBlock(n.Else) + " " + renderBlock(n.Finally) + ")")
		return sb.String()
	case *Raise:
		if n.Exc == nil {
			return "(raise)"
		}
		return "(raise " + render(n.Exc) + ")"
	case *Assert:
		if n.Msg == nil {
			return "(assert " + render(n.Cond) + ")"
		}
		return "(assert " + render(n.Cond) + " " + render(n.Msg) + ")"
	case *Import:
		return "(import " + strings.Join(n.Names, " ") + ")"
	case *ImportFrom:
		return "(from " + n.Module + " " + strings.Join(n.Names, " ") + ")"
	case *ClassDef:
		return "(class " + n.Name + " " + renderBlock(n.Body) + ")"
	case *Global:
		return "(global " + strings.Join(n.Names, " ") + ")"
	case *Nonlocal:
		return "(nonlocal " + strings.Join(n.Names, " ") + ")"
	case *With:
		return "(with" + renderExprs(n.Items) + " " + renderBlock(n.Body) + ")"
	default:
		return fmt.Sprintf("?%T", n)
	}
}

func renderOpt(e Expr) string {
	if e == nil {
		return "_"
	}
	return render(e)
}

func renderExprs(es []Expr) string {
	var sb strings.Builder
	for _, e := range es {
		sb.WriteString(" " + render(e))
	}
	return sb.String()
}

func renderBlock(b Block) string {
	parts := make([]string, len(b))
	for i, s := range b {
		parts[i] = render(s)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func renderParams(ps []Param) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		if p.Default != nil {
			parts[i] = p.Name + "=" + render(p.Default)
		} else {
			parts[i] = p.Name
		}
	}
	return strings.Join(parts, " ")
}

func renderTop(t *testing.T, code string) string {
	t.Helper()
	tree := mustParse(t, code)
	parts := make([]string, len(tree.Root))
	for i, s := range tree.Root {
		parts[i] = render(s)
	}
	return strings.Join(parts, "; ")
}

func TestParse_Expressions(t *testing.T) {
	tests := []struct{ code, want string }{
		{"1 + 2 * 3", "(+ 1 (* 2 3))"},
		{"(1 + 2) * 3", "(* (+ 1 2) 3)"},
		{"2 ** 3 ** 2", "(** 2 (** 3 2))"},
		{"-2 ** 2", "(- (** 2 2))"},
		{"7 // 2 % 3", "(% (// 7 2) 3)"},
		{"1 << 2 | 3 & 4 ^ 5", "(| (<< 1 2) (^ (& 3 4) 5))"},
		{"not a or b and c", "(or (not a) (and b c))"},
		{"a or b or c", "(or a b c)"},
		{"a < b <= c", "(cmp a < b <= c)"},
		{"a is not b", "(cmp a is not b)"},
		{"a not in b", "(cmp a not in b)"},
		{"x if c else y", "(ifexp c x y)"},
		{"f(1, x, key=2)", "(call f 1 x key=2)"},
		{"obj.attr.sub", "(. (. obj attr) sub)"},
		{"a[1]", "([] a 1)"},
		{"a[1:2]", "([] a (slice 1 2 _))"},
		{"a[::2]", "([] a (slice _ _ 2))"},
		{"a[b][c]", "([] ([] a b) c)"},
		{"[1, 2, 3]", "(list 1 2 3)"},
		{"[]", "(list)"},
		{"(1,)", "(tuple 1)"},
		{"1, 2", "(tuple 1 2)"},
		{"{1, 2}", "(set 1 2)"},
		{"{}", "(dict)"},
		{"{'a': 1, 'b': 2}", `(dict ("a" 1) ("b" 2))`},
		{"[x * x for x in xs if x]", "(listcomp (* x x) (for x xs if x))"},
		{"{k: v for k, v in items}", "(dictcomp k v (for (tuple k v) items))"},
		{"{x for x in xs}", "(setcomp x (for x xs))"},
		{"(x for x in xs)", "(genexp x (for x xs))"},
		{"lambda x, y=1: x + y", "(lambda (x y=1) (+ x y))"},
		{"f(*args)", "(call f (star args))"},
		{"~x", "(~ x)"},
		{"None", "None"},
		{"True, False", "(tuple True False)"},
	}
	for _, test := range tests {
		if got := renderTop(t, test.code); got != test.want {
			t.Errorf("parse %q:\ngot  %s\nwant %s", test.code, got, test.want)
		}
	}
}

func renderClauses(cs []CompClause) string {
	var sb strings.Builder
	for _, c := range cs {
		sb.WriteString(" (for " + render(c.Target) + " " + render(c.Iter))
		for _, cond := range c.Ifs {
			sb.WriteString(" if " + render(cond))
		}
		sb.WriteString(")")
	}
	return sb.String()
}

func TestParse_Statements(t *testing.T) {
	tests := []struct{ code, want string }{
		{"x = 1", "(= x 1)"},
		{"x = y = 1", "(= x y 1)"},
		{"a, b = b, a", "(= (tuple a b) (tuple b a))"},
		{"x += 1", "(+= x 1)"},
		{"x //= 2", "(//= x 2)"},
		{"pass", "pass"},
		{"x = 1; y = 2", "(= x 1); (= y 2)"},
		{"del x, a[0]", "(del x ([] a 0))"},
		{"assert x", "(assert x)"},
		{"assert x, 'msg'", `(assert x "msg")`},
		{"raise ValueError('bad')", `(raise (call ValueError "bad"))`},
		{"raise", "(raise)"},
		{"import os, sys", "(import os sys)"},
		{"from os.path import join, split", "(from os.path join split)"},
		{"global a, b", "(global a b)"},
		{"nonlocal a", "(nonlocal a)"},
	}
	for _, test := range tests {
		if got := renderTop(t, test.code); got != test.want {
			t.Errorf("parse %q:\ngot  %s\nwant %s", test.code, got, test.want)
		}
	}
}

func TestParse_Blocks(t *testing.T) {
	tests := []struct{ code, want string }{
		{
			testutil.Dedent(`
				if a:
				    x = 1
				elif b:
				    x = 2
				else:
				    x = 3`),
			"(if a [(= x 1)] [(if b [(= x 2)] [(= x 3)])])",
		},
		{
			testutil.Dedent(`
				while x:
				    x -= 1
				else:
				    done = True`),
			"(while x [(-= x 1)] [(= done True)])",
		},
		{
			testutil.Dedent(`
				for i in range(3):
				    if i == 1:
				        continue
				    total += i`),
			"(for i (call range 3) [(if (cmp i == 1) [continue] []) (+= total i)] [])",
		},
		{
			testutil.Dedent(`
				def f(a, b=2):
				    return a + b`),
			"(def f (a b=2) [(return (+ a b))])",
		},
		{
			testutil.Dedent(`
				@wrapped
				def f():
				    pass`),
			"(def @wrapped f () [pass])",
		},
		{
			testutil.Dedent(`
				try:
				    risky()
				except ValueError as e:
				    handle(e)
				except (KeyError, IndexError):
				    pass
				except:
				    fallback()
				finally:
				    cleanup()`),
			"(try [(call risky)]" +
				" (except (ValueError) as e [(call handle e)])" +
				" (except (KeyError IndexError) [pass])" +
				" (except () [(call fallback)])" +
				" [] [(call cleanup)])",
		},
		{
			testutil.Dedent(`
				class C:
				    def m(self):
				        pass`),
			"(class C [(def m (self) [pass])])",
		},
		{
			testutil.Dedent(`
				with open(p) as f:
				    pass`),
			"(with (call open p) [pass])",
		},
		// Blank lines and comments do not affect block structure.
		{
			testutil.Dedent(`
				if a:  # comment
				    # another

				    x = 1`),
			"(if a [(= x 1)] [])",
		},
		// Brackets allow multi-line expressions without continuation rules.
		{
			testutil.Dedent(`
				x = [1,
				     2,
				     3]`),
			"(= x (list 1 2 3))",
		},
	}
	for _, test := range tests {
		if got := renderTop(t, test.code); got != test.want {
			t.Errorf("parse %q:\ngot  %s\nwant %s", test.code, got, test.want)
		}
	}
}

func TestParse_Literals(t *testing.T) {
	tests := []struct {
		code string
		want any
	}{
		{"42", 42},
		{"0", 0},
		{"3.14", 3.14},
		{"1e3", 1000.0},
		{"2.5e-1", 0.25},
		{"0xff", 255},
		{"0o17", 15},
		{"0b101", 5},
		{"'abc'", "abc"},
		{`"a\nb"`, "a\nb"},
		{`"\x41\u00e9"`, "A\u00e9"},
		{`r"a\nb"`, `a\nb`},
		{`'''two
lines'''`, "two\nlines"},
		{"'a' 'b'", "ab"}, // adjacent literals concatenate
		{"None", nil},
		{"True", true},
	}
	for _, test := range tests {
		tree := mustParse(t, test.code)
		lit, ok := tree.Root[0].(*ExprStmt).X.(*Literal)
		if !ok {
			t.Errorf("parse %q: not a literal", test.code)
			continue
		}
		if lit.Value != test.want {
			t.Errorf("parse %q = %v (%T), want %v (%T)",
				test.code, lit.Value, lit.Value, test.want, test.want)
		}
	}

	// Integers too wide for the machine word stay big.
	tree := mustParse(t, "123456789012345678901234567890")
	b, ok := tree.Root[0].(*ExprStmt).X.(*Literal).Value.(*big.Int)
	if !ok || b.String() != "123456789012345678901234567890" {
		t.Errorf("wide int literal: %v", tree.Root[0].(*ExprStmt).X.(*Literal).Value)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct{ code, wantMsg string }{
		{"def f(:", ""},
		{"1 +", ""},
		{"(1, 2", ""},
		{"x ===", ""},
		{"if x\n    pass", ""},
		{"1 = 2", "cannot assign"},
		{"f(x) = 1", "cannot assign"},
		{"0x", "invalid number literal"},
		{"1e", "invalid number literal"},
		{"1j", "complex literals not supported"},
		{"'unterminated", "not terminated"},
		{"x = 1\n      y = 2", ""},
		{"if x:\npass", ""},
		{"$", "unexpected character"},
		{"while True:\n  break\n else:\n  pass", "unindent does not match"},
		{`"\q"`, "invalid escape sequence"},
		{`f"x"`, "string prefix"},
	}
	for _, test := range tests {
		_, err := Parse(Source{Name: "[test]", Code: test.code})
		if err == nil {
			t.Errorf("parse %q succeeded, want error", test.code)
			continue
		}
		if errs.KindOf(err) != errs.Syntax {
			t.Errorf("parse %q: error kind %v, want Syntax", test.code, errs.KindOf(err))
		}
		if test.wantMsg != "" && !strings.Contains(err.Error(), test.wantMsg) {
			t.Errorf("parse %q: error %q does not mention %q",
				test.code, err.Error(), test.wantMsg)
		}
	}
}

func TestParse_ErrorUnpacking(t *testing.T) {
	_, err := Parse(Source{Name: "script.pyr", Code: "nope ="})
	pe := GetError(err)
	if pe == nil {
		t.Fatal("GetError returned nil for a parse error")
	}
	if got := UnpackErrors(err); len(got) != 1 || got[0] != pe {
		t.Errorf("UnpackErrors = %v", got)
	}
	if !strings.Contains(err.Error(), "script.pyr") {
		t.Errorf("error %q does not name the source", err.Error())
	}
	if UnpackErrors(errs.New(errs.Runtime, "x")) != nil {
		t.Error("UnpackErrors of a non-parse error is not nil")
	}
}

func TestError_ForwardsDiagError(t *testing.T) {
	_, err := Parse(Source{Name: "script.pyr", Code: "nope ="})
	pe := GetError(err)
	if pe == nil {
		t.Fatal("GetError returned nil for a parse error")
	}
	if pe.Error() != pe.Diag.Error() {
		t.Errorf("Error() = %q, want %q", pe.Error(), pe.Diag.Error())
	}
	if pe.Range() != pe.Diag.Context.Ranging {
		t.Errorf("Range() = %v, want %v", pe.Range(), pe.Diag.Context.Ranging)
	}
	if !strings.Contains(pe.Show(""), "syntax error") {
		t.Errorf("Show() = %q, want it to name the error type", pe.Show(""))
	}
	if !strings.Contains(pe.Diag.Message, "expected expression") {
		t.Errorf("Diag.Message = %q, want the bare message", pe.Diag.Message)
	}
}

func TestIsKeyword(t *testing.T) {
	for _, kw := range []string{"if", "for", "lambda", "None", "True"} {
		if !IsKeyword(kw) {
			t.Errorf("IsKeyword(%q) = false", kw)
		}
	}
	for _, name := range []string{"x", "print", "iff", ""} {
		if IsKeyword(name) {
			t.Errorf("IsKeyword(%q) = true", name)
		}
	}
}
