package ast

// Param is one function parameter.
type Param struct {
	Name string
	Type TypeExpr
	Line int
}

// FuncDecl declares a function. Body is nil for a forward declaration.
type FuncDecl struct {
	NodeInfo
	Name       string
	Params     []Param
	ReturnType TypeExpr
	Body       *Block
}

// IsForward reports whether the declaration has no body.
func (f *FuncDecl) IsForward() bool { return f.Body == nil }

// ParamTypes returns the parameter types in declaration order.
func (f *FuncDecl) ParamTypes() []TypeExpr {
	out := make([]TypeExpr, len(f.Params))
	for i, p := range f.Params {
		out[i] = p.Type
	}
	return out
}

// Return exits the enclosing function. Value is nil for a bare return.
type Return struct {
	NodeInfo
	Value Expr
}

// Block is a braced statement list.
type Block struct {
	NodeInfo
	Statements []Stmt
}

// ExprStmt is an expression evaluated for its effect.
type ExprStmt struct {
	NodeInfo
	X Expr
}

func (*FuncDecl) stmtNode() {}
func (*Return) stmtNode()   {}
func (*Block) stmtNode()    {}
func (*ExprStmt) stmtNode() {}

// Kind implements Node.
func (*FuncDecl) Kind() Kind { return KindFuncDecl }

// Kind implements Node.
func (*Return) Kind() Kind { return KindReturn }

// Kind implements Node.
func (*Block) Kind() Kind { return KindBlock }

// Kind implements Node.
func (*ExprStmt) Kind() Kind { return KindExprStmt }

// NamedType is a type referenced by name, e.g. i32.
type NamedType struct {
	NodeInfo
	Name string
}

func (*NamedType) typeNode() {}

// Kind implements Node.
func (*NamedType) Kind() Kind { return KindNamedType }

func (t *NamedType) String() string { return t.Name }
