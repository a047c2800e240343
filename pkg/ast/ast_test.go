package ast_test

import (
	"testing"

	"github.com/leapstack-labs/plc/pkg/ast"
	"github.com/leapstack-labs/plc/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func intLit(line int, v int64) *ast.Literal {
	return &ast.Literal{ExprInfo: ast.At(line), Type: token.INT, Value: token.IntValue(v)}
}

func ident(line int, name string) *ast.Identifier {
	return &ast.Identifier{ExprInfo: ast.At(line), Name: name}
}

func i32(line int) *ast.NamedType {
	return &ast.NamedType{NodeInfo: ast.NodeInfo{SrcLine: line}, Name: "i32"}
}

// addFunc builds: func add(a i32, b i32) i32 { return a + b; }
func addFunc() *ast.FuncDecl {
	return &ast.FuncDecl{
		NodeInfo: ast.NodeInfo{SrcLine: 1},
		Name:     "add",
		Params: []ast.Param{
			{Name: "a", Type: i32(1), Line: 1},
			{Name: "b", Type: i32(1), Line: 1},
		},
		ReturnType: i32(1),
		Body: &ast.Block{
			NodeInfo: ast.NodeInfo{SrcLine: 1},
			Statements: []ast.Stmt{
				&ast.Return{
					NodeInfo: ast.NodeInfo{SrcLine: 2},
					Value: &ast.Binary{
						ExprInfo: ast.At(2),
						Op:       token.PLUS,
						Left:     ident(2, "a"),
						Right:    ident(2, "b"),
					},
				},
			},
		},
	}
}

func TestKinds(t *testing.T) {
	tests := []struct {
		node ast.Node
		want ast.Kind
	}{
		{intLit(1, 1), ast.KindLiteral},
		{ident(1, "x"), ast.KindIdentifier},
		{&ast.Unary{}, ast.KindUnary},
		{&ast.Binary{}, ast.KindBinary},
		{&ast.Paren{}, ast.KindParen},
		{&ast.Call{}, ast.KindCall},
		{&ast.Index{}, ast.KindIndex},
		{&ast.FuncDecl{}, ast.KindFuncDecl},
		{&ast.Return{}, ast.KindReturn},
		{&ast.Block{}, ast.KindBlock},
		{&ast.ExprStmt{}, ast.KindExprStmt},
		{i32(1), ast.KindNamedType},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.node.Kind())
		})
	}

	assert.True(t, ast.KindCall.IsExpr())
	assert.False(t, ast.KindCall.IsStmt())
	assert.True(t, ast.KindReturn.IsStmt())
	assert.False(t, ast.KindNamedType.IsExpr())
}

func TestLineAndResolvedType(t *testing.T) {
	lit := intLit(7, 3)
	assert.Equal(t, 7, lit.Line())
	assert.Nil(t, lit.ResolvedType())

	lit.Resolved = i32(7)
	require.NotNil(t, lit.ResolvedType())
	assert.Equal(t, "i32", lit.ResolvedType().String())
}

func TestSexpr(t *testing.T) {
	tests := []struct {
		name string
		node ast.Node
		want string
	}{
		{"literal", intLit(1, 42), "42"},
		{"string", &ast.Literal{Type: token.STRING, Value: token.StringValue("hi")}, `"hi"`},
		{"float", &ast.Literal{Type: token.FLOAT, Value: token.FloatValue(2.5)}, "2.5"},
		{"unary", &ast.Unary{Op: token.MINUS, Operand: ident(1, "x")}, "(- x)"},
		{"deref", &ast.Unary{Op: token.STAR, Operand: ident(1, "p")}, "(* p)"},
		{
			"precedence",
			&ast.Binary{Op: token.PLUS, Left: intLit(1, 1), Right: &ast.Binary{Op: token.STAR, Left: intLit(1, 2), Right: intLit(1, 3)}},
			"(+ 1 (* 2 3))",
		},
		{"paren", &ast.Paren{Inner: ident(1, "x")}, "(paren x)"},
		{"call", &ast.Call{Callee: ident(1, "f"), Args: []ast.Expr{ident(1, "a"), intLit(1, 1)}}, "(call f a 1)"},
		{"call no args", &ast.Call{Callee: ident(1, "f")}, "(call f)"},
		{"index", &ast.Index{Target: ident(1, "a"), Args: []ast.Expr{intLit(1, 0)}}, "(index a 0)"},
		{"bare return", &ast.Return{}, "(return)"},
		{"expr stmt", &ast.ExprStmt{X: ident(1, "x")}, "(expr x)"},
		{"empty block", &ast.Block{}, "(block)"},
		{"func", addFunc(), "(func add ((a i32) (b i32)) i32 (block (return (+ a b))))"},
		{"forward", &ast.FuncDecl{Name: "main", ReturnType: i32(1)}, "(func main () i32)"},
		{"nil", nil, "nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ast.Sexpr(tt.node))
		})
	}
}

func TestSexprFile(t *testing.T) {
	f := &ast.File{
		Name: "a.pl",
		Statements: []ast.Stmt{
			&ast.FuncDecl{Name: "main", ReturnType: i32(1)},
			&ast.ExprStmt{X: ident(2, "x")},
		},
	}
	assert.Equal(t, "(func main () i32)\n(expr x)\n", ast.SexprFile(f))
}

func TestUnparen(t *testing.T) {
	x := ident(1, "x")
	assert.Same(t, x, ast.Unparen(&ast.Paren{Inner: &ast.Paren{Inner: x}}))
	assert.Same(t, x, ast.Unparen(x))
}

func TestFileFuncs(t *testing.T) {
	add := addFunc()
	f := &ast.File{Statements: []ast.Stmt{&ast.ExprStmt{X: ident(1, "x")}, add}}

	funcs := f.Funcs()
	require.Len(t, funcs, 1)
	assert.Same(t, add, funcs[0])
	assert.Equal(t, []ast.TypeExpr{add.Params[0].Type, add.Params[1].Type}, add.ParamTypes())
}

func TestDumpYAML(t *testing.T) {
	f := &ast.File{Name: "add.pl", Statements: []ast.Stmt{addFunc()}}

	data, err := ast.Dump(f).YAML()
	require.NoError(t, err)

	var got ast.FileDump
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, "add.pl", got.File)
	require.Len(t, got.Statements, 1)

	fn := got.Statements[0]
	assert.Equal(t, "FuncDecl", fn.Kind)
	assert.Equal(t, "add", fn.Name)
	assert.Equal(t, "i32", fn.Type)
	assert.False(t, fn.Forward)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "b", fn.Params[1].Name)

	require.Len(t, fn.Children, 1)
	ret := fn.Children[0].Children[0]
	assert.Equal(t, "Return", ret.Kind)
	assert.Equal(t, 2, ret.Line)
	assert.Equal(t, "+", ret.Children[0].Op)
}

func TestDumpForwardDecl(t *testing.T) {
	d := ast.DumpOf(&ast.FuncDecl{Name: "main", ReturnType: i32(3), NodeInfo: ast.NodeInfo{SrcLine: 3}})
	assert.True(t, d.Forward)
	assert.Empty(t, d.Children)
	assert.Equal(t, 3, d.Line)
	assert.Nil(t, ast.DumpOf(nil))
}
