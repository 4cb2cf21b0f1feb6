package lam

import (
	"fmt"
	"slices"

	"github.com/roach88/lamir/internal/constant"
	"github.com/roach88/lamir/internal/ident"
	"github.com/roach88/lamir/internal/primitive"
)

// Node is a sealed interface over the Lam-IR shapes.
// Only the *...Node types in this package implement it.
//
// The node types are exported so callers can switch on them, but their
// fields are not: outside this package a node can only be obtained from a
// constructor or written as a zero-valued literal such as &IfNode{}. Every
// entry point (EqApprox, InnerMap, InnerIter, Refold, Print, Hash and the
// constructors themselves) panics with a *ContractError on such a node.
type Node interface {
	node() // Sealed - only these types implement it
	Kind() Kind
	String() string
}

// Kind enumerates the node shapes.
type Kind int

const (
	KindVar Kind = iota
	KindGlobalModule
	KindConst
	KindApply
	KindFunction
	KindLet
	KindLetRec
	KindPrim
	KindSwitch
	KindStringSwitch
	KindStaticRaise
	KindStaticCatch
	KindTry
	KindIf
	KindSeq
	KindWhile
	KindFor
	KindAssign
)

var kindNames = [...]string{
	KindVar:          "var",
	KindGlobalModule: "global",
	KindConst:        "const",
	KindApply:        "apply",
	KindFunction:     "function",
	KindLet:          "let",
	KindLetRec:       "letrec",
	KindPrim:         "prim",
	KindSwitch:       "switch",
	KindStringSwitch: "stringswitch",
	KindStaticRaise:  "exit",
	KindStaticCatch:  "catch",
	KindTry:          "try",
	KindIf:           "if",
	KindSeq:          "seq",
	KindWhile:        "while",
	KindFor:          "for",
	KindAssign:       "assign",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// LetKind is the binding strength of a Let.
type LetKind int

const (
	Strict LetKind = iota
	Alias
	StrictOpt
	Variable // mutable; the only kind Assign may target
)

var letKindNames = [...]string{"let", "alias", "letopt", "letvar"}

func (k LetKind) String() string {
	if k >= 0 && int(k) < len(letKindNames) {
		return letKindNames[k]
	}
	return fmt.Sprintf("LetKind(%d)", int(k))
}

// ParseLetKind is the inverse of LetKind.String.
func ParseLetKind(s string) (LetKind, bool) {
	for i, name := range letKindNames {
		if name == s {
			return LetKind(i), true
		}
	}
	return 0, false
}

// Direction is the iteration order of a For loop.
type Direction int

const (
	Upto Direction = iota
	Downto
)

func (d Direction) String() string {
	if d == Downto {
		return "downto"
	}
	return "to"
}

// InlineAttr is an inlining directive.
type InlineAttr int

const (
	DefaultInline InlineAttr = iota
	AlwaysInline
	NeverInline
)

var inlineNames = [...]string{"default", "always", "never"}

func (a InlineAttr) String() string {
	if a >= 0 && int(a) < len(inlineNames) {
		return inlineNames[a]
	}
	return fmt.Sprintf("InlineAttr(%d)", int(a))
}

// ParseInlineAttr is the inverse of InlineAttr.String.
func ParseInlineAttr(s string) (InlineAttr, bool) {
	for i, name := range inlineNames {
		if name == s {
			return InlineAttr(i), true
		}
	}
	return 0, false
}

// ApStatus records what arity analysis knows about an application.
type ApStatus int

const (
	AppNA        ApStatus = iota // not yet analyzed
	AppInferFull                 // fully saturated, by arity inference
	AppUncurry                   // needs the generic uncurried call path
)

var apStatusNames = [...]string{"na", "full", "uncurry"}

func (s ApStatus) String() string {
	if s >= 0 && int(s) < len(apStatusNames) {
		return apStatusNames[s]
	}
	return fmt.Sprintf("ApStatus(%d)", int(s))
}

// ParseApStatus is the inverse of ApStatus.String.
func ParseApStatus(s string) (ApStatus, bool) {
	for i, name := range apStatusNames {
		if name == s {
			return ApStatus(i), true
		}
	}
	return 0, false
}

// Refines reports whether moving from prev to s is allowed.
// Status only moves away from AppNA; once decided it never changes.
func (s ApStatus) Refines(prev ApStatus) bool {
	return s == prev || prev == AppNA
}

// ApInfo is the call-site metadata of an application.
type ApInfo struct {
	Loc    ident.Loc
	Inline InlineAttr
	Status ApStatus
}

// FunctorKind classifies a function for specialization passes.
type FunctorKind int

const (
	FunctorNA FunctorKind = iota // not yet determined
	FunctorYes
	FunctorNo
)

var functorNames = [...]string{"na", "yes", "no"}

func (f FunctorKind) String() string {
	if f >= 0 && int(f) < len(functorNames) {
		return functorNames[f]
	}
	return fmt.Sprintf("FunctorKind(%d)", int(f))
}

// ParseFunctorKind is the inverse of FunctorKind.String.
func ParseFunctorKind(s string) (FunctorKind, bool) {
	for i, name := range functorNames {
		if name == s {
			return FunctorKind(i), true
		}
	}
	return 0, false
}

// FunctionAttr holds function-level attributes.
type FunctionAttr struct {
	Inline  InlineAttr
	Functor FunctorKind
}

// Binding is one (identifier, bound node) pair of a LetRec.
type Binding struct {
	Ident ident.Ident
	Value Node
}

// Case is one (tag, branch) entry of a switch table.
type Case struct {
	Tag  int
	Body Node
}

// SwitchNames holds constructor names per tag, for diagnostics only.
type SwitchNames struct {
	Consts []string
	Blocks []string
}

// SwitchTable is the dispatch table of a Switch.
//
// A space marked full covers every tag of that space; its fail action is
// never consulted. NumConsts/NumBlocks give the size of each space when the
// caller knows it (0 = unknown) and let the constructor check the full flags.
type SwitchTable struct {
	NumConsts  int
	ConstsFull bool
	Consts     []Case
	NumBlocks  int
	BlocksFull bool
	Blocks     []Case
	FailAction Node // optional
	Names      *SwitchNames
}

func (t SwitchTable) clone() SwitchTable {
	t.Consts = slices.Clone(t.Consts)
	t.Blocks = slices.Clone(t.Blocks)
	return t
}

// StringCase is one (string, branch) entry of a StringSwitch.
type StringCase struct {
	Value string
	Body  Node
}

// VarNode references a bound identifier.
type VarNode struct {
	id ident.Ident
}

// GlobalModuleNode references an entire external module.
type GlobalModuleNode struct {
	id ident.Ident
}

// ConstNode is a literal.
type ConstNode struct {
	c constant.Const
}

// ApplyNode is a function call.
type ApplyNode struct {
	fn   Node
	args []Node
	info ApInfo
}

// FunctionNode is a function literal.
type FunctionNode struct {
	arity  int
	params []ident.Ident
	body   Node
	attr   FunctionAttr
}

// LetNode is a single binding.
type LetNode struct {
	kind  LetKind
	id    ident.Ident
	value Node
	body  Node
}

// LetRecNode is a group of mutually recursive bindings.
type LetRecNode struct {
	bindings []Binding
	body     Node
}

// PrimNode calls a builtin operation.
type PrimNode struct {
	prim primitive.Primitive
	args []Node
	loc  ident.Loc
}

// SwitchNode dispatches on an integer constant or block tag.
type SwitchNode struct {
	scrutinee Node
	table     SwitchTable
}

// StringSwitchNode dispatches on a string.
type StringSwitchNode struct {
	scrutinee Node
	cases     []StringCase
	def       Node // optional
}

// StaticRaiseNode exits to the enclosing static handler with the same label.
type StaticRaiseNode struct {
	label int
	args  []Node
}

// StaticCatchNode installs a static exit handler around body.
type StaticCatchNode struct {
	body    Node
	label   int
	params  []ident.Ident
	handler Node
}

// TryNode handles runtime exceptions raised by body.
type TryNode struct {
	body    Node
	id      ident.Ident
	handler Node
}

// IfNode is a conditional.
type IfNode struct {
	cond, then, els Node
}

// SeqNode evaluates first, discards its value, then evaluates second.
type SeqNode struct {
	first, second Node
}

// WhileNode is a loop.
type WhileNode struct {
	cond, body Node
}

// ForNode is a counted loop; both bounds are inclusive.
type ForNode struct {
	id       ident.Ident
	from, to Node
	dir      Direction
	body     Node
}

// AssignNode mutates a Variable binding.
type AssignNode struct {
	id    ident.Ident
	value Node
}

func (*VarNode) node()          {}
func (*GlobalModuleNode) node() {}
func (*ConstNode) node()        {}
func (*ApplyNode) node()        {}
func (*FunctionNode) node()     {}
func (*LetNode) node()          {}
func (*LetRecNode) node()       {}
func (*PrimNode) node()         {}
func (*SwitchNode) node()       {}
func (*StringSwitchNode) node() {}
func (*StaticRaiseNode) node()  {}
func (*StaticCatchNode) node()  {}
func (*TryNode) node()          {}
func (*IfNode) node()           {}
func (*SeqNode) node()          {}
func (*WhileNode) node()        {}
func (*ForNode) node()          {}
func (*AssignNode) node()       {}

func (*VarNode) Kind() Kind          { return KindVar }
func (*GlobalModuleNode) Kind() Kind { return KindGlobalModule }
func (*ConstNode) Kind() Kind        { return KindConst }
func (*ApplyNode) Kind() Kind        { return KindApply }
func (*FunctionNode) Kind() Kind     { return KindFunction }
func (*LetNode) Kind() Kind          { return KindLet }
func (*LetRecNode) Kind() Kind       { return KindLetRec }
func (*PrimNode) Kind() Kind         { return KindPrim }
func (*SwitchNode) Kind() Kind       { return KindSwitch }
func (*StringSwitchNode) Kind() Kind { return KindStringSwitch }
func (*StaticRaiseNode) Kind() Kind  { return KindStaticRaise }
func (*StaticCatchNode) Kind() Kind  { return KindStaticCatch }
func (*TryNode) Kind() Kind          { return KindTry }
func (*IfNode) Kind() Kind           { return KindIf }
func (*SeqNode) Kind() Kind          { return KindSeq }
func (*WhileNode) Kind() Kind        { return KindWhile }
func (*ForNode) Kind() Kind          { return KindFor }
func (*AssignNode) Kind() Kind       { return KindAssign }

// Accessors.

func (n *VarNode) Ident() ident.Ident { return n.id }

func (n *GlobalModuleNode) Ident() ident.Ident { return n.id }

func (n *ConstNode) Value() constant.Const { return n.c }

func (n *ApplyNode) Func() Node     { return n.fn }
func (n *ApplyNode) Args() []Node   { return slices.Clone(n.args) }
func (n *ApplyNode) Info() ApInfo   { return n.info }
func (n *ApplyNode) NumArgs() int   { return len(n.args) }
func (n *ApplyNode) Arg(i int) Node { return n.args[i] }

func (n *FunctionNode) Arity() int            { return n.arity }
func (n *FunctionNode) Params() []ident.Ident { return slices.Clone(n.params) }
func (n *FunctionNode) Body() Node            { return n.body }
func (n *FunctionNode) Attr() FunctionAttr    { return n.attr }

func (n *LetNode) LetKind() LetKind   { return n.kind }
func (n *LetNode) Ident() ident.Ident { return n.id }
func (n *LetNode) Value() Node        { return n.value }
func (n *LetNode) Body() Node         { return n.body }

func (n *LetRecNode) Bindings() []Binding { return slices.Clone(n.bindings) }
func (n *LetRecNode) Body() Node          { return n.body }

func (n *PrimNode) Primitive() primitive.Primitive { return n.prim }
func (n *PrimNode) Args() []Node                   { return slices.Clone(n.args) }
func (n *PrimNode) NumArgs() int                   { return len(n.args) }
func (n *PrimNode) Arg(i int) Node                 { return n.args[i] }
func (n *PrimNode) Loc() ident.Loc                 { return n.loc }

func (n *SwitchNode) Scrutinee() Node    { return n.scrutinee }
func (n *SwitchNode) Table() SwitchTable { return n.table.clone() }

func (n *StringSwitchNode) Scrutinee() Node     { return n.scrutinee }
func (n *StringSwitchNode) Cases() []StringCase { return slices.Clone(n.cases) }

// Default returns the default branch, or nil when there is none.
func (n *StringSwitchNode) Default() Node { return n.def }

func (n *StaticRaiseNode) Label() int   { return n.label }
func (n *StaticRaiseNode) Args() []Node { return slices.Clone(n.args) }

func (n *StaticCatchNode) Body() Node            { return n.body }
func (n *StaticCatchNode) Label() int            { return n.label }
func (n *StaticCatchNode) Params() []ident.Ident { return slices.Clone(n.params) }
func (n *StaticCatchNode) Handler() Node         { return n.handler }

func (n *TryNode) Body() Node         { return n.body }
func (n *TryNode) Ident() ident.Ident { return n.id }
func (n *TryNode) Handler() Node      { return n.handler }

func (n *IfNode) Cond() Node { return n.cond }
func (n *IfNode) Then() Node { return n.then }
func (n *IfNode) Else() Node { return n.els }

func (n *SeqNode) First() Node  { return n.first }
func (n *SeqNode) Second() Node { return n.second }

func (n *WhileNode) Cond() Node { return n.cond }
func (n *WhileNode) Body() Node { return n.body }

func (n *ForNode) Ident() ident.Ident   { return n.id }
func (n *ForNode) From() Node           { return n.from }
func (n *ForNode) To() Node             { return n.to }
func (n *ForNode) Direction() Direction { return n.dir }
func (n *ForNode) Body() Node           { return n.body }

func (n *AssignNode) Ident() ident.Ident { return n.id }
func (n *AssignNode) Value() Node        { return n.value }
