package lam

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/lamir/internal/constant"
	"github.com/roach88/lamir/internal/ident"
	"github.com/roach88/lamir/internal/primitive"
)

var (
	idX = ident.Ident{Name: "x", Stamp: 1}
	idY = ident.Ident{Name: "y", Stamp: 2}
	idF = ident.Ident{Name: "f", Stamp: 3}
	idE = ident.Ident{Name: "e", Stamp: 4}
	idI = ident.Ident{Name: "i", Stamp: 5}
)

func x() Node    { return Var(idX) }
func y() Node    { return Var(idY) }
func f() Node    { return Var(idF) }
func call() Node { return Apply(f(), []Node{x()}, ApInfo{}) }

func intc(i int64) Node { return Const(constant.Int(i)) }

func identN(name string, stamp int) ident.Ident {
	return ident.Ident{Name: name, Stamp: int64(stamp)}
}

// requireViolation runs fn and requires it to panic with a *ContractError.
func requireViolation(t *testing.T, fn func()) *ContractError {
	t.Helper()
	var got any
	func() {
		defer func() { got = recover() }()
		fn()
	}()
	require.NotNil(t, got, "expected a contract violation")
	ce, ok := got.(*ContractError)
	require.True(t, ok, "panic value %T is not *ContractError", got)
	return ce
}

// sample builds one node of each shape, unfolded.
type sample struct {
	name    string
	build   func() Node
	printed string
	eq      bool // EqApprox holds between two builds
}

func samples() []sample {
	return []sample{
		{"var", x, "x/1", true},
		{"global", func() Node { return GlobalModule(ident.Global("Js")) }, "(global Js)", true},
		{"const", func() Node { return intc(1) }, "1", true},
		{"apply", func() Node { return Apply(f(), []Node{x(), y()}, ApInfo{}) }, "(apply f/3 x/1 y/2)", true},
		{"function", func() Node { return Function(FunctionAttr{}, 1, []ident.Ident{idX}, x()) }, "(function (x/1) x/1)", false},
		{"let", func() Node { return Let(Strict, idX, y(), x()) }, "(let (x/1 y/2) x/1)", false},
		{"letrec", func() Node {
			return LetRec([]Binding{{Ident: idF, Value: Function(FunctionAttr{}, 1, []ident.Ident{idX}, x())}},
				Apply(f(), []Node{y()}, ApInfo{}))
		}, "(letrec ((f/3 (function (x/1) x/1))) (apply f/3 y/2))", false},
		{"prim", func() Node { return Prim(primitive.Add, []Node{x(), y()}, ident.None) }, "(%add x/1 y/2)", true},
		{"switch", func() Node {
			return Switch(x(), SwitchTable{
				Consts:     []Case{{Tag: 0, Body: y()}, {Tag: 1, Body: call()}},
				FailAction: Unit(),
			})
		}, "(switch x/1 (case 0 y/2) (case 1 (apply f/3 x/1)) (default undefined))", false},
		{"stringswitch", func() Node {
			return StringSwitch(x(), []StringCase{{Value: "a", Body: y()}}, call())
		}, `(stringswitch x/1 (case "a" y/2) (default (apply f/3 x/1)))`, true},
		{"exit", func() Node { return StaticRaise(1, []Node{x()}) }, "(exit 1 x/1)", true},
		{"catch", func() Node {
			return StaticCatch(StaticRaise(1, []Node{y()}), 1, []ident.Ident{idX}, x())
		}, "(catch (exit 1 y/2) with (1 x/1) x/1)", false},
		{"try", func() Node { return Try(call(), idE, y()) }, "(try (apply f/3 x/1) with e/4 y/2)", false},
		{"if", func() Node { return If(x(), y(), call()) }, "(if x/1 y/2 (apply f/3 x/1))", true},
		{"seq", func() Node { return Seq(call(), y()) }, "(seq (apply f/3 x/1) y/2)", true},
		{"while", func() Node { return While(x(), call()) }, "(while x/1 (apply f/3 x/1))", true},
		{"for", func() Node { return For(idI, intc(0), intc(3), Upto, call()) }, "(for i/5 0 to 3 (apply f/3 x/1))", false},
		{"assign", func() Node { return Assign(idX, y()) }, "(assign x/1 y/2)", true},
	}
}
