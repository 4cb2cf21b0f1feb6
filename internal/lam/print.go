package lam

import (
	"strconv"
	"strings"

	"github.com/roach88/lamir/internal/ident"
)

// Print renders n as a single-line s-expression.
//
//	(let (x/1 (%add y 1)) (if x/1 (apply f x/1) undefined))
//
// Locations, inline attributes and switch names are not printed.
func Print(n Node) string {
	var p printer
	p.node(n)
	return p.sb.String()
}

type printer struct {
	sb strings.Builder
}

func (p *printer) open(head string) {
	p.sb.WriteByte('(')
	p.sb.WriteString(head)
}

func (p *printer) close() { p.sb.WriteByte(')') }

func (p *printer) word(s string) {
	p.sb.WriteByte(' ')
	p.sb.WriteString(s)
}

func (p *printer) child(n Node) {
	p.sb.WriteByte(' ')
	p.node(n)
}

func (p *printer) idents(ids []ident.Ident) {
	p.sb.WriteString(" (")
	for i, id := range ids {
		if i > 0 {
			p.sb.WriteByte(' ')
		}
		p.sb.WriteString(id.String())
	}
	p.sb.WriteByte(')')
}

func (p *printer) node(n Node) {
	mustBuilt("print", n)
	switch n := n.(type) {
	case *VarNode:
		p.sb.WriteString(n.id.String())
	case *GlobalModuleNode:
		p.open("global")
		p.word(n.id.String())
		p.close()
	case *ConstNode:
		p.sb.WriteString(n.c.String())
	case *ApplyNode:
		head := "apply"
		if n.info.Status != AppNA {
			head += ":" + n.info.Status.String()
		}
		p.open(head)
		p.child(n.fn)
		for _, a := range n.args {
			p.child(a)
		}
		p.close()
	case *FunctionNode:
		p.open("function")
		p.idents(n.params)
		p.child(n.body)
		p.close()
	case *LetNode:
		p.open(n.kind.String())
		p.sb.WriteString(" (" + n.id.String())
		p.child(n.value)
		p.sb.WriteByte(')')
		p.child(n.body)
		p.close()
	case *LetRecNode:
		p.open("letrec (")
		for i, b := range n.bindings {
			if i > 0 {
				p.sb.WriteByte(' ')
			}
			p.sb.WriteString("(" + b.Ident.String())
			p.child(b.Value)
			p.sb.WriteByte(')')
		}
		p.sb.WriteByte(')')
		p.child(n.body)
		p.close()
	case *PrimNode:
		p.open("%" + n.prim.String())
		for _, a := range n.args {
			p.child(a)
		}
		p.close()
	case *SwitchNode:
		p.open("switch")
		p.child(n.scrutinee)
		for _, c := range n.table.Consts {
			p.sb.WriteString(" (case " + strconv.Itoa(c.Tag))
			p.child(c.Body)
			p.sb.WriteByte(')')
		}
		for _, c := range n.table.Blocks {
			p.sb.WriteString(" (tag " + strconv.Itoa(c.Tag))
			p.child(c.Body)
			p.sb.WriteByte(')')
		}
		if n.table.FailAction != nil {
			p.sb.WriteString(" (default")
			p.child(n.table.FailAction)
			p.sb.WriteByte(')')
		}
		p.close()
	case *StringSwitchNode:
		p.open("stringswitch")
		p.child(n.scrutinee)
		for _, c := range n.cases {
			p.sb.WriteString(" (case " + strconv.Quote(c.Value))
			p.child(c.Body)
			p.sb.WriteByte(')')
		}
		if n.def != nil {
			p.sb.WriteString(" (default")
			p.child(n.def)
			p.sb.WriteByte(')')
		}
		p.close()
	case *StaticRaiseNode:
		p.open("exit")
		p.word(strconv.Itoa(n.label))
		for _, a := range n.args {
			p.child(a)
		}
		p.close()
	case *StaticCatchNode:
		p.open("catch")
		p.child(n.body)
		p.word("with (" + strconv.Itoa(n.label))
		for _, id := range n.params {
			p.word(id.String())
		}
		p.sb.WriteByte(')')
		p.child(n.handler)
		p.close()
	case *TryNode:
		p.open("try")
		p.child(n.body)
		p.word("with " + n.id.String())
		p.child(n.handler)
		p.close()
	case *IfNode:
		p.open("if")
		p.child(n.cond)
		p.child(n.then)
		p.child(n.els)
		p.close()
	case *SeqNode:
		p.open("seq")
		p.child(n.first)
		p.child(n.second)
		p.close()
	case *WhileNode:
		p.open("while")
		p.child(n.cond)
		p.child(n.body)
		p.close()
	case *ForNode:
		p.open("for")
		p.word(n.id.String())
		p.child(n.from)
		p.word(n.dir.String())
		p.child(n.to)
		p.child(n.body)
		p.close()
	case *AssignNode:
		p.open("assign")
		p.word(n.id.String())
		p.child(n.value)
		p.close()
	}
}

func (n *VarNode) String() string          { return Print(n) }
func (n *GlobalModuleNode) String() string { return Print(n) }
func (n *ConstNode) String() string        { return Print(n) }
func (n *ApplyNode) String() string        { return Print(n) }
func (n *FunctionNode) String() string     { return Print(n) }
func (n *LetNode) String() string          { return Print(n) }
func (n *LetRecNode) String() string       { return Print(n) }
func (n *PrimNode) String() string         { return Print(n) }
func (n *SwitchNode) String() string       { return Print(n) }
func (n *StringSwitchNode) String() string { return Print(n) }
func (n *StaticRaiseNode) String() string  { return Print(n) }
func (n *StaticCatchNode) String() string  { return Print(n) }
func (n *TryNode) String() string          { return Print(n) }
func (n *IfNode) String() string           { return Print(n) }
func (n *SeqNode) String() string          { return Print(n) }
func (n *WhileNode) String() string        { return Print(n) }
func (n *ForNode) String() string          { return Print(n) }
func (n *AssignNode) String() string       { return Print(n) }
