package ast

import (
	"strings"

	"github.com/leapstack-labs/plc/pkg/token"
)

// Sexpr renders a node as a single-line s-expression:
//
//	1 + 2 * 3          => (+ 1 (* 2 3))
//	f(a)[0]            => (index (call f a) 0)
//	func f() i32;      => (func f () i32)
//
// A nil node renders as "nil".
func Sexpr(n Node) string {
	p := &sexprPrinter{}
	p.node(n)
	return p.b.String()
}

// SexprFile renders every top-level statement of f on its own line.
func SexprFile(f *File) string {
	var b strings.Builder
	for _, s := range f.Statements {
		b.WriteString(Sexpr(s))
		b.WriteByte('\n')
	}
	return b.String()
}

type sexprPrinter struct {
	b strings.Builder
}

func (p *sexprPrinter) write(s string) { p.b.WriteString(s) }

// list prints "(head items...)".
func (p *sexprPrinter) list(head string, items ...func()) {
	p.write("(")
	p.write(head)
	for _, item := range items {
		p.write(" ")
		item()
	}
	p.write(")")
}

func (p *sexprPrinter) thunk(n Node) func() {
	return func() { p.node(n) }
}

func (p *sexprPrinter) exprs(head string, first Expr, rest []Expr) {
	items := []func(){p.thunk(first)}
	for _, e := range rest {
		items = append(items, p.thunk(e))
	}
	p.list(head, items...)
}

func (p *sexprPrinter) node(n Node) {
	switch n := n.(type) {
	case nil:
		p.write("nil")
	case *Literal:
		p.literal(n)
	case *Identifier:
		p.write(n.Name)
	case *Unary:
		p.list(n.Op.String(), p.thunk(n.Operand))
	case *Binary:
		p.list(n.Op.String(), p.thunk(n.Left), p.thunk(n.Right))
	case *Paren:
		p.list("paren", p.thunk(n.Inner))
	case *Call:
		p.exprs("call", n.Callee, n.Args)
	case *Index:
		p.exprs("index", n.Target, n.Args)
	case *FuncDecl:
		p.funcDecl(n)
	case *Return:
		if n.Value == nil {
			p.write("(return)")
			return
		}
		p.list("return", p.thunk(n.Value))
	case *Block:
		items := make([]func(), len(n.Statements))
		for i, s := range n.Statements {
			items[i] = p.thunk(s)
		}
		p.list("block", items...)
	case *ExprStmt:
		p.list("expr", p.thunk(n.X))
	case *NamedType:
		p.write(n.Name)
	default:
		p.write("<" + n.Kind().String() + ">")
	}
}

func (p *sexprPrinter) literal(l *Literal) {
	if l.Value == nil {
		p.write(l.Type.String())
		return
	}
	p.write(l.Value.String())
}

func (p *sexprPrinter) funcDecl(f *FuncDecl) {
	params := func() {
		p.write("(")
		for i, prm := range f.Params {
			if i > 0 {
				p.write(" ")
			}
			p.write("(" + prm.Name + " ")
			p.node(prm.Type)
			p.write(")")
		}
		p.write(")")
	}
	name := func() { p.write(f.Name) }
	items := []func(){name, params, p.thunk(f.ReturnType)}
	if !f.IsForward() {
		items = append(items, p.thunk(f.Body))
	}
	p.list(token.FUNC.String(), items...)
}
