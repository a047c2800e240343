package ast

import (
	"fmt"

	"github.com/leapstack-labs/plc/pkg/token"
	"gopkg.in/yaml.v3"
)

// DumpNode is a serializable view of a node used by the ast command.
type DumpNode struct {
	Kind     string      `json:"kind" yaml:"kind"`
	Line     int         `json:"line" yaml:"line"`
	Name     string      `json:"name,omitempty" yaml:"name,omitempty"`
	Op       string      `json:"op,omitempty" yaml:"op,omitempty"`
	Value    string      `json:"value,omitempty" yaml:"value,omitempty"`
	Type     string      `json:"type,omitempty" yaml:"type,omitempty"`
	Forward  bool        `json:"forward,omitempty" yaml:"forward,omitempty"`
	Params   []*DumpNode `json:"params,omitempty" yaml:"params,omitempty"`
	Children []*DumpNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// FileDump is the serializable view of a File.
type FileDump struct {
	File       string          `json:"file" yaml:"file"`
	Statements []*DumpNode     `json:"statements" yaml:"statements"`
	Comments   []token.Comment `json:"comments,omitempty" yaml:"comments,omitempty"`
}

// Dump converts f into its serializable view.
func Dump(f *File) *FileDump {
	out := &FileDump{File: f.Name, Statements: make([]*DumpNode, 0, len(f.Statements))}
	for _, s := range f.Statements {
		out.Statements = append(out.Statements, DumpOf(s))
	}
	return out
}

// DumpOf converts a single node. A nil node yields nil.
func DumpOf(n Node) *DumpNode {
	if n == nil {
		return nil
	}
	d := &DumpNode{Kind: n.Kind().String(), Line: n.Line()}

	switch n := n.(type) {
	case *Literal:
		d.Type = n.Type.String()
		if n.Value != nil {
			d.Value = n.Value.String()
		}
	case *Identifier:
		d.Name = n.Name
	case *Unary:
		d.Op = n.Op.String()
		d.Children = dumpChildren(n.Operand)
	case *Binary:
		d.Op = n.Op.String()
		d.Children = dumpChildren(n.Left, n.Right)
	case *Paren:
		d.Children = dumpChildren(n.Inner)
	case *Call:
		d.Children = dumpChildren(append([]Expr{n.Callee}, n.Args...)...)
	case *Index:
		d.Children = dumpChildren(append([]Expr{n.Target}, n.Args...)...)
	case *FuncDecl:
		d.Name = n.Name
		d.Type = typeName(n.ReturnType)
		d.Forward = n.IsForward()
		for _, p := range n.Params {
			d.Params = append(d.Params, &DumpNode{Kind: "Param", Line: p.Line, Name: p.Name, Type: typeName(p.Type)})
		}
		if n.Body != nil {
			d.Children = []*DumpNode{DumpOf(n.Body)}
		}
	case *Return:
		if n.Value != nil {
			d.Children = dumpChildren(n.Value)
		}
	case *Block:
		for _, s := range n.Statements {
			d.Children = append(d.Children, DumpOf(s))
		}
	case *ExprStmt:
		d.Children = dumpChildren(n.X)
	case *NamedType:
		d.Name = n.Name
	}
	return d
}

func dumpChildren(exprs ...Expr) []*DumpNode {
	out := make([]*DumpNode, 0, len(exprs))
	for _, e := range exprs {
		if e == nil {
			continue
		}
		out = append(out, DumpOf(e))
	}
	return out
}

func typeName(t TypeExpr) string {
	if t == nil {
		return ""
	}
	return t.String()
}

// YAML renders the dump as a YAML document.
func (d *FileDump) YAML() ([]byte, error) {
	data, err := yaml.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s as yaml: %w", d.File, err)
	}
	return data, nil
}
