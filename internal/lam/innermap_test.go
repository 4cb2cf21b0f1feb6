package lam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lamir/internal/ident"
	"github.com/roach88/lamir/internal/primitive"
)

func TestInnerMapIdentityPreservesShape(t *testing.T) {
	for _, s := range samples() {
		t.Run(s.name, func(t *testing.T) {
			n := s.build()
			m := InnerMap(n, func(c Node) Node { return c })

			assert.Equal(t, n.Kind(), m.Kind())
			assert.Equal(t, n.String(), m.String())
			assert.Equal(t, MustHash(n), MustHash(m))
			assert.Equal(t, s.eq, EqApprox(n, m))

			var before, after []Node
			InnerIter(n, func(c Node) { before = append(before, c) })
			InnerIter(m, func(c Node) { after = append(after, c) })
			require.Len(t, after, len(before))
			for i := range before {
				assert.Same(t, before[i], after[i])
			}
		})
	}
}

func TestInnerMapIsOneLevel(t *testing.T) {
	// (if x (seq (apply f x) y) y)
	n := If(x(), Seq(call(), y()), y())
	var visited []string
	InnerMap(n, func(c Node) Node {
		visited = append(visited, c.String())
		return c
	})
	assert.Equal(t, []string{"x/1", "(seq (apply f/3 x/1) y/2)", "y/2"}, visited)
}

func TestInnerMapDoesNotFold(t *testing.T) {
	n := If(x(), y(), call())
	replaced := InnerMap(n, func(c Node) Node {
		if v, ok := c.(*VarNode); ok && v.Ident() == idX {
			return True()
		}
		return c
	})
	assert.Equal(t, "(if true y/2 (apply f/3 x/1))", replaced.String())
	assert.Equal(t, "y/2", Refold(replaced).String())
}

func TestInnerMapCarriesPayload(t *testing.T) {
	loc := ident.Loc{File: "m.res", Line: 1, Col: 2}
	info := ApInfo{Loc: loc, Inline: NeverInline, Status: AppInferFull}
	app := Apply(f(), []Node{x()}, info)
	got := InnerMap(app, func(c Node) Node { return c }).(*ApplyNode)
	assert.Equal(t, info, got.Info())

	p := Prim(primitive.Typeof, []Node{x()}, loc)
	assert.Equal(t, loc, InnerMap(p, func(c Node) Node { return c }).(*PrimNode).Loc())

	names := &SwitchNames{Consts: []string{"A", "B"}}
	sw := Switch(x(), SwitchTable{
		NumConsts: 2,
		Consts:    []Case{{Tag: 0, Body: y()}, {Tag: 1, Body: call()}},
		Names:     names,
	})
	table := InnerMap(sw, func(c Node) Node { return c }).(*SwitchNode).Table()
	assert.Same(t, names, table.Names)
	assert.Equal(t, 2, table.NumConsts)
	assert.True(t, table.ConstsFull)
}

func TestInnerMapRebuildsTables(t *testing.T) {
	sw := Switch(x(), SwitchTable{
		Consts:     []Case{{Tag: 0, Body: y()}},
		Blocks:     []Case{{Tag: 1, Body: y()}},
		FailAction: call(),
	})
	toUnit := func(c Node) Node {
		if c.Kind() == KindVar {
			return c
		}
		return Unit()
	}
	assert.Equal(t, "(switch x/1 (case 0 y/2) (tag 1 y/2) (default undefined))", InnerMap(sw, toUnit).String())

	ss := StringSwitch(x(), []StringCase{{Value: "k", Body: call()}}, y())
	assert.Equal(t, `(stringswitch x/1 (case "k" undefined) (default y/2))`, InnerMap(ss, toUnit).String())
}

func TestInnerMapNilResultPanics(t *testing.T) {
	requireViolation(t, func() {
		InnerMap(Seq(call(), y()), func(Node) Node { return nil })
	})
}

func TestRefoldAfterRewrite(t *testing.T) {
	// Substituting constants re-enables arithmetic and switch folds.
	sum := Prim(primitive.Add, []Node{x(), y()}, ident.None)
	sw := Switch(sum, SwitchTable{
		Consts:     []Case{{Tag: 5, Body: call()}},
		FailAction: Unit(),
	})

	var subst func(Node) Node
	subst = func(n Node) Node {
		if v, ok := n.(*VarNode); ok {
			switch v.Ident() {
			case idX:
				return intc(2)
			case idY:
				return intc(3)
			}
			return n
		}
		return Refold(InnerMap(n, subst))
	}
	assert.Equal(t, "(apply f/3 2)", subst(sw).String())
}
