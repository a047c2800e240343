package parser_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/plc/internal/testutil"
	"github.com/leapstack-labs/plc/pkg/ast"
	"github.com/leapstack-labs/plc/pkg/diag"
	"github.com/leapstack-labs/plc/pkg/parser"
	"github.com/leapstack-labs/plc/pkg/scanner"
	"github.com/leapstack-labs/plc/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parseExpr parses src as a single expression statement.
func parseExpr(t *testing.T, src string) ast.Expr {
	t.Helper()
	p := parser.FromString(src+";", "expr.pl", parser.WithLogger(testutil.NewTestLogger(t)))
	f := p.Parse()
	require.False(t, p.HadErrors(), "unexpected errors: %v", p.Errors())
	require.Len(t, f.Statements, 1)
	stmt, ok := f.Statements[0].(*ast.ExprStmt)
	require.True(t, ok, "expected ExprStmt, got %T", f.Statements[0])
	return stmt.X
}

func TestExpressionPrecedence(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3", "(+ 1 (* 2 3))"},
		{"1 * 2 + 3", "(+ (* 1 2) 3)"},
		{"1 - 2 - 3", "(- (- 1 2) 3)"},
		{"8 / 4 / 2", "(/ (/ 8 4) 2)"},
		{"7 % 3 * 2", "(* (% 7 3) 2)"},
		{"(1 + 2) * 3", "(* (paren (+ 1 2)) 3)"},
		{"-a * b", "(* (- a) b)"},
		{"+a", "(+ a)"},
		{"- - a", "(- (- a))"},
		{"*p + 1", "(+ (* p) 1)"},
		{"a * *p", "(* a (* p))"},
		{"-f(x)", "(- (call f x))"},
		{"a < b + 1", "(< a (+ b 1))"},
		{"a == b != c", "(!= (== a b) c)"},
		{"a <= b", "(<= a b)"},
		{"a >= b", "(>= a b)"},
		{"a > b", "(> a b)"},
		{`"s"`, `"s"`},
		{"2.5 * x", "(* 2.5 x)"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assert.Equal(t, tt.want, ast.Sexpr(parseExpr(t, tt.src)))
		})
	}
}

func TestPostfixExpressions(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"f()", "(call f)"},
		{"f(a)", "(call f a)"},
		{"f(a, b + 1, g(c))", "(call f a (+ b 1) (call g c))"},
		{"a[0]", "(index a 0)"},
		{"a[i, j]", "(index a i j)"},
		{"f(a)[0]", "(index (call f a) 0)"},
		{"a[0](1)", "(call (index a 0) 1)"},
		{"f()()", "(call (call f))"},
		{"(f)(x)", "(call (paren f) x)"},
		{"*f(x)", "(* (call f x))"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assert.Equal(t, tt.want, ast.Sexpr(parseExpr(t, tt.src)))
		})
	}
}

func TestLiteralPayloads(t *testing.T) {
	lit, ok := parseExpr(t, "42").(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, token.INT, lit.Type)
	assert.Equal(t, token.IntValue(42), lit.Value)
	assert.Nil(t, lit.ResolvedType())

	id, ok := parseExpr(t, "name").(*ast.Identifier)
	require.True(t, ok)
	assert.Equal(t, "name", id.Name)
}

func TestAddFunction(t *testing.T) {
	src := "func add(a i32, b i32) i32 {\n\treturn a + b;\n}\n"
	p := parser.FromString(src, "add.pl")
	f := p.Parse()

	require.False(t, p.HadErrors(), "%v", p.Errors())
	assert.Empty(t, p.ScanErrors())
	assert.Equal(t, "add.pl", f.Name)
	require.Len(t, f.Statements, 1)

	fn, ok := f.Statements[0].(*ast.FuncDecl)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name)
	assert.Equal(t, 1, fn.Line())
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "a", fn.Params[0].Name)
	assert.Equal(t, "i32", fn.Params[0].Type.String())
	assert.Equal(t, "b", fn.Params[1].Name)
	assert.Equal(t, "i32", fn.ReturnType.String())
	assert.False(t, fn.IsForward())

	require.Len(t, fn.Body.Statements, 1)
	ret, ok := fn.Body.Statements[0].(*ast.Return)
	require.True(t, ok)
	assert.Equal(t, 2, ret.Line())
	assert.Equal(t, "(+ a b)", ast.Sexpr(ret.Value))
}

func TestStatements(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"forward declaration", "func main() i32;", "(func main () i32)\n"},
		{"empty body", "func f() void {}", "(func f () void (block))\n"},
		{"bare return", "func f() void { return; }", "(func f () void (block (return)))\n"},
		{"nested blocks", "{ { x; } y; }", "(block (block (expr x)) (expr y))\n"},
		{"top-level return", "return 2;", "(return 2)\n"},
		{"several", "f(1);\nfunc g() i32;\n", "(expr (call f 1))\n(func g () i32)\n"},
		{"comments", "# leading\nx; # trailing\n", "(expr x)\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parser.FromString(tt.src, "t.pl")
			f := p.Parse()
			require.False(t, p.HadErrors(), "%v", p.Errors())
			assert.Equal(t, tt.want, ast.SexprFile(f))
		})
	}
}

func TestEmptySource(t *testing.T) {
	for _, src := range []string{"", "   \n", "# only a comment"} {
		p := parser.FromString(src, "empty.pl")
		f := p.Parse()
		assert.False(t, p.HadErrors())
		assert.Empty(t, f.Statements)
	}
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		errors   int
		line     int
		contains string
		want     string // s-expressions of the surviving statements
	}{
		{
			name:     "missing operand",
			src:      "1 + ;\nx;",
			errors:   1,
			line:     1,
			contains: "';'",
			want:     "(expr x)\n",
		},
		{
			name:     "missing semicolon before func",
			src:      "x\nfunc main() i32;",
			errors:   1,
			line:     2,
			contains: "expected ';'",
			want:     "(func main () i32)\n",
		},
		{
			name:     "missing close paren in call",
			src:      "f(a;\ny;",
			errors:   1,
			line:     1,
			contains: "',' or ')'",
			want:     "(expr y)\n",
		},
		{
			name:     "missing close bracket",
			src:      "a[1;\ny;",
			errors:   1,
			line:     1,
			contains: "',' or ']'",
			want:     "(expr y)\n",
		},
		{
			name:   "trailing comma",
			src:    "f(a,);",
			errors: 1,
			line:   1,
			want:   "",
		},
		{
			name:     "missing group close",
			src:      "(1 + 2;",
			errors:   1,
			line:     1,
			contains: "')'",
			want:     "",
		},
		{
			name:     "bad parameter type",
			src:      "func f(a 1) i32;\nfunc g() i32;",
			errors:   1,
			line:     1,
			contains: "expected type",
			want:     "(func g () i32)\n",
		},
		{
			name:     "missing body",
			src:      "func f() i32 return 1;",
			errors:   1,
			line:     1,
			contains: "expected '{' or ';'",
			want:     "(return 1)\n",
		},
		{
			name:     "missing function name",
			src:      "func (a i32) i32;",
			errors:   1,
			line:     1,
			contains: "function name",
			want:     "",
		},
		{
			name:     "unclosed block",
			src:      "func f() i32 {\n return 1;\n",
			errors:   1,
			line:     3,
			contains: "expected '}'",
			want:     "",
		},
		{
			name:     "stray close brace",
			src:      "}\nfunc f() i32;",
			errors:   1,
			line:     1,
			contains: "'}'",
			want:     "(func f () i32)\n",
		},
		{
			name:     "lexical error token",
			src:      "!x;\ny;",
			errors:   1,
			line:     1,
			contains: "invalid token",
			want:     "(expr y)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parser.FromString(tt.src, "bad.pl", parser.WithLogger(testutil.NewTestLogger(t)))
			f := p.Parse()

			errs := p.Errors()
			require.Len(t, errs, tt.errors, "%v", errs)
			assert.Equal(t, diag.Syntax, errs[0].Kind)
			assert.Equal(t, "bad.pl", errs[0].Context)
			assert.Equal(t, tt.line, errs[0].Line)
			if tt.contains != "" {
				assert.Contains(t, errs[0].Message, tt.contains)
			}
			assert.Equal(t, tt.want, ast.SexprFile(f))
		})
	}
}

func TestRecoveryInsideBlock(t *testing.T) {
	src := `func f() i32 {
	1 + ;
	g(;
	return 2;
}
func h() i32;`
	p := parser.FromString(src, "r.pl")
	f := p.Parse()

	errs := p.Errors()
	require.Len(t, errs, 2)
	assert.Equal(t, 2, errs[0].Line)
	assert.Equal(t, 3, errs[1].Line)
	assert.Equal(t, "(func f () i32 (block (return 2)))\n(func h () i32)\n", ast.SexprFile(f))
}

func TestRecoverySkipsBalancedBraces(t *testing.T) {
	src := "func 1 { a; { b; } c; }\nfunc ok() i32;"
	p := parser.FromString(src, "r.pl")
	f := p.Parse()

	require.Len(t, p.Errors(), 1)
	assert.Equal(t, "(func ok () i32)\n", ast.SexprFile(f))
}

func TestRecoveryStopsAtEnclosingBrace(t *testing.T) {
	p := parser.FromString("{ a + }\nb;", "r.pl")
	f := p.Parse()

	require.Len(t, p.Errors(), 1)
	assert.Equal(t, "(block)\n(expr b)\n", ast.SexprFile(f))
}

func TestScanErrorsAreExposed(t *testing.T) {
	p := parser.FromString("x = 99999999999999999999;", "s.pl")
	p.Parse()

	scanErrs := p.ScanErrors()
	require.Len(t, scanErrs, 1)
	assert.Equal(t, diag.Lexical, scanErrs[0].Kind)
	assert.True(t, p.HadErrors(), "the ERROR token must also be a syntax error")
}

func TestLazyMatchesEager(t *testing.T) {
	sources := []string{
		"func add(a i32, b i32) i32 {\n\treturn a + b;\n}\n",
		"func main() i32;\nfunc main() i32 { return f(1)[2] * -3; }",
		"1 + ;\n{ g(; }\n} return;",
		"",
		"\"unterminated",
		"x @ y;\nfunc f(a i32 b i32) i32;",
	}

	for _, src := range sources {
		eager := parser.FromScanner(scanner.FromString(src), "f.pl")
		lazy := parser.Lazy(scanner.FromString(src), "f.pl")

		ef, lf := eager.Parse(), lazy.Parse()
		assert.Equal(t, ast.SexprFile(ef), ast.SexprFile(lf), src)
		assert.Equal(t, eager.Errors(), lazy.Errors(), src)
		assert.Equal(t, eager.ScanErrors(), lazy.ScanErrors(), src)
	}
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.pl")
	require.NoError(t, os.WriteFile(path, []byte("func main() i32 { return 0; }"), 0o600))

	p, err := parser.FromFile(path)
	require.NoError(t, err)
	f := p.Parse()
	assert.Equal(t, path, f.Name)
	assert.Len(t, f.Statements, 1)

	_, err = parser.FromFile(filepath.Join(t.TempDir(), "nope.pl"))
	assert.Error(t, err)
}

func TestParseConsumesStream(t *testing.T) {
	p := parser.FromString("x; y;", "t.pl")
	assert.Len(t, p.Parse().Statements, 2)
	assert.Empty(t, p.Parse().Statements)
}
