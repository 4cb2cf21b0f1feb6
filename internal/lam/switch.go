package lam

import (
	"github.com/roach88/lamir/internal/constant"
)

// Switch builds an integer / block-tag dispatch.
//
// The table is validated: tags are non-negative and unique per space, and
// when the size of a space is known the tags fit in it and a full flag is
// backed by a case for every tag. A space whose known size is covered is
// marked full; when both spaces are full the fail action is dropped.
//
// Folds:
//   - a constant scrutinee selects its case, else the fail action; with
//     neither the node is kept and the dispatch happens at runtime;
//   - when every reachable branch is approximately equal the result is
//     Seq(scrutinee, branch), so the scrutinee is still evaluated first.
func Switch(scrutinee Node, table SwitchTable) Node {
	mustNodes("switch", scrutinee)
	t := table.clone()
	t.ConstsFull = checkSpace("consts", t.Consts, t.NumConsts, t.ConstsFull)
	t.BlocksFull = checkSpace("blocks", t.Blocks, t.NumBlocks, t.BlocksFull)
	if t.ConstsFull && t.BlocksFull {
		t.FailAction = nil
	}

	if c, ok := scrutinee.(*ConstNode); ok {
		if body := selectCase(c.c, t); body != nil {
			return body
		}
	}

	if shared := sharedBranch(t); shared != nil {
		return Seq(scrutinee, shared)
	}
	return &SwitchNode{scrutinee: scrutinee, table: t}
}

func checkSpace(space string, cases []Case, size int, full bool) bool {
	seen := make(map[int]bool, len(cases))
	for _, c := range cases {
		if c.Body == nil {
			violate("switch", "%s case %d has a nil body", space, c.Tag)
		}
		if c.Tag < 0 {
			violate("switch", "negative %s tag %d", space, c.Tag)
		}
		if size > 0 && c.Tag >= size {
			violate("switch", "%s tag %d out of range [0, %d)", space, c.Tag, size)
		}
		if seen[c.Tag] {
			violate("switch", "duplicate %s tag %d", space, c.Tag)
		}
		seen[c.Tag] = true
	}
	if size > 0 {
		complete := len(cases) == size
		if full && !complete {
			violate("switch", "%s marked full but only %d of %d tags have a case", space, len(cases), size)
		}
		return complete
	}
	return full
}

func selectCase(c constant.Const, t SwitchTable) Node {
	var (
		tag   int
		cases []Case
	)
	switch v := c.(type) {
	case constant.Int:
		tag, cases = int(v), t.Consts
	case constant.Char:
		tag, cases = int(v), t.Consts
	case constant.Block:
		tag, cases = v.Tag, t.Blocks
	default:
		return nil
	}
	for _, cs := range cases {
		if cs.Tag == tag {
			return cs.Body
		}
	}
	return t.FailAction
}

// sharedBranch returns the single branch every input reaches, or nil.
func sharedBranch(t SwitchTable) Node {
	if t.FailAction == nil && (!t.ConstsFull || !t.BlocksFull) {
		return nil
	}
	var bodies []Node
	for _, c := range t.Consts {
		bodies = append(bodies, c.Body)
	}
	for _, c := range t.Blocks {
		bodies = append(bodies, c.Body)
	}
	if t.FailAction != nil {
		bodies = append(bodies, t.FailAction)
	}
	return allEqApprox(bodies)
}

func allEqApprox(bodies []Node) Node {
	if len(bodies) == 0 {
		return nil
	}
	for _, b := range bodies[1:] {
		if !EqApprox(bodies[0], b) {
			return nil
		}
	}
	return bodies[0]
}

// StringSwitch builds a dispatch on string values. def may be nil.
//
// A constant string scrutinee selects its case or the default; an
// unmatched constant without a default stays a runtime dispatch. With a
// default and approximately equal branches the result is
// Seq(scrutinee, default).
func StringSwitch(scrutinee Node, cases []StringCase, def Node) Node {
	mustNodes("stringswitch", scrutinee)
	seen := make(map[string]bool, len(cases))
	for _, c := range cases {
		if c.Body == nil {
			violate("stringswitch", "case %q has a nil body", c.Value)
		}
		if seen[c.Value] {
			violate("stringswitch", "duplicate case %q", c.Value)
		}
		seen[c.Value] = true
	}

	if s, ok := constArg(scrutinee).(constant.String); ok {
		for _, c := range cases {
			if c.Value == s.Value {
				return c.Body
			}
		}
		if def != nil {
			return def
		}
	}

	if def != nil {
		bodies := make([]Node, 0, len(cases)+1)
		bodies = append(bodies, def)
		for _, c := range cases {
			bodies = append(bodies, c.Body)
		}
		if shared := allEqApprox(bodies); shared != nil {
			return Seq(scrutinee, shared)
		}
	}
	return &StringSwitchNode{scrutinee: scrutinee, cases: append([]StringCase(nil), cases...), def: def}
}
