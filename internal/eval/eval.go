package eval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/lamir/internal/ident"
	"github.com/roach88/lamir/internal/lam"
)

// Interpreter evaluates Lam-IR trees.
//
// Foreign symbols are looked up in Options.Foreign by key:
//   - ExtCall: the access path, e.g. "Math.max" or "fs.readFile";
//   - ExtNew: "new " + the access path;
//   - ExtSend: "." + the method name, with the receiver as first argument.
//
// An Interpreter is not safe for concurrent use; create one per goroutine.
type Interpreter struct {
	opts   Options
	logger *slog.Logger
	steps  int
}

// New creates an Interpreter.
func New(opts ...Option) *Interpreter {
	o := newOptions(opts)
	return &Interpreter{opts: o, logger: o.Logger}
}

// Eval evaluates n with the given free variable bindings.
// Each call starts a fresh step count.
func (in *Interpreter) Eval(ctx context.Context, n lam.Node, bindings map[ident.Ident]Value) (Value, error) {
	in.steps = 0
	var e *env
	for id, v := range bindings {
		e = e.bind(id, v, false)
	}
	v, err := in.eval(ctx, n, e)
	in.logger.Debug("evaluation finished", "steps", in.steps, "error", err)
	if err == nil {
		return v, nil
	}
	var exit *staticExit
	if errors.As(err, &exit) {
		return nil, runtimeErr(ErrCodeStaticExit, ident.None, "no handler for static exit %d", exit.label)
	}
	return nil, err
}

// Steps returns the number of steps taken by the last Eval.
func (in *Interpreter) Steps() int {
	return in.steps
}

// env is a persistent chain of bindings. Cells are shared by closures.
type env struct {
	id      ident.Ident
	cell    *Value
	mutable bool
	parent  *env
}

func (e *env) bind(id ident.Ident, v Value, mutable bool) *env {
	return &env{id: id, cell: &v, mutable: mutable, parent: e}
}

func (e *env) lookup(id ident.Ident) (*env, bool) {
	for ; e != nil; e = e.parent {
		if e.id == id {
			return e, true
		}
	}
	return nil, false
}

func (in *Interpreter) step(ctx context.Context) error {
	in.steps++
	if in.steps > in.opts.MaxSteps {
		return &StepsExceededError{Steps: in.steps, Limit: in.opts.MaxSteps}
	}
	if in.steps%1024 == 0 {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("eval: %w", err)
		}
	}
	return nil
}

func (in *Interpreter) eval(ctx context.Context, n lam.Node, e *env) (Value, error) {
	if err := in.step(ctx); err != nil {
		return nil, err
	}

	switch n := n.(type) {
	case *lam.VarNode:
		b, ok := e.lookup(n.Ident())
		if !ok {
			return nil, runtimeErr(ErrCodeUnboundVariable, ident.None, "%s is not bound", n.Ident())
		}
		return *b.cell, nil

	case *lam.GlobalModuleNode:
		m, ok := in.opts.Modules[n.Ident().Name]
		if !ok {
			return nil, runtimeErr(ErrCodeUnknownForeign, ident.None, "module %s is not bound", n.Ident().Name)
		}
		return m, nil

	case *lam.ConstNode:
		v, err := FromConst(n.Value())
		if err != nil {
			return nil, runtimeErr(ErrCodeTypeMismatch, ident.None, "%v", err)
		}
		return v, nil

	case *lam.ApplyNode:
		fn, err := in.eval(ctx, n.Func(), e)
		if err != nil {
			return nil, err
		}
		args, err := in.evalAll(ctx, n.Args(), e)
		if err != nil {
			return nil, err
		}
		return in.apply(ctx, fn, args, n.Info().Loc)

	case *lam.FunctionNode:
		return &Closure{params: n.Params(), body: n.Body(), env: e}, nil

	case *lam.LetNode:
		v, err := in.eval(ctx, n.Value(), e)
		if err != nil {
			return nil, err
		}
		return in.eval(ctx, n.Body(), e.bind(n.Ident(), v, n.LetKind() == lam.Variable))

	case *lam.LetRecNode:
		bindings := n.Bindings()
		inner := e
		cells := make([]*env, len(bindings))
		for i, b := range bindings {
			inner = inner.bind(b.Ident, Undefined{}, false)
			cells[i] = inner
		}
		for i, b := range bindings {
			v, err := in.eval(ctx, b.Value, inner)
			if err != nil {
				return nil, err
			}
			*cells[i].cell = v
		}
		return in.eval(ctx, n.Body(), inner)

	case *lam.PrimNode:
		args, err := in.evalAll(ctx, n.Args(), e)
		if err != nil {
			return nil, err
		}
		return in.prim(ctx, n.Primitive(), args, n.Loc())

	case *lam.SwitchNode:
		return in.evalSwitch(ctx, n, e)

	case *lam.StringSwitchNode:
		s, err := in.eval(ctx, n.Scrutinee(), e)
		if err != nil {
			return nil, err
		}
		str, ok := s.(Str)
		if !ok {
			return nil, runtimeErr(ErrCodeTypeMismatch, ident.None, "string switch on %s", s)
		}
		for _, c := range n.Cases() {
			if c.Value == string(str) {
				return in.eval(ctx, c.Body, e)
			}
		}
		if d := n.Default(); d != nil {
			return in.eval(ctx, d, e)
		}
		return nil, runtimeErr(ErrCodeNoMatch, ident.None, "no case for %s", str)

	case *lam.StaticRaiseNode:
		args, err := in.evalAll(ctx, n.Args(), e)
		if err != nil {
			return nil, err
		}
		return nil, &staticExit{label: n.Label(), args: args}

	case *lam.StaticCatchNode:
		v, err := in.eval(ctx, n.Body(), e)
		var exit *staticExit
		if err == nil || !errors.As(err, &exit) || exit.label != n.Label() {
			return v, err
		}
		params := n.Params()
		if len(params) != len(exit.args) {
			return nil, runtimeErr(ErrCodeTypeMismatch, ident.None,
				"static exit %d passes %d value(s) to %d parameter(s)", exit.label, len(exit.args), len(params))
		}
		inner := e
		for i, p := range params {
			inner = inner.bind(p, exit.args[i], false)
		}
		return in.eval(ctx, n.Handler(), inner)

	case *lam.TryNode:
		v, err := in.eval(ctx, n.Body(), e)
		var exn *Exception
		if err == nil || !errors.As(err, &exn) {
			return v, err
		}
		in.logger.Debug("exception caught", "handler", n.Ident(), "value", exn.Value.String())
		return in.eval(ctx, n.Handler(), e.bind(n.Ident(), exn.Value, false))

	case *lam.IfNode:
		c, err := in.eval(ctx, n.Cond(), e)
		if err != nil {
			return nil, err
		}
		if Truthy(c) {
			return in.eval(ctx, n.Then(), e)
		}
		return in.eval(ctx, n.Else(), e)

	case *lam.SeqNode:
		if _, err := in.eval(ctx, n.First(), e); err != nil {
			return nil, err
		}
		return in.eval(ctx, n.Second(), e)

	case *lam.WhileNode:
		for {
			c, err := in.eval(ctx, n.Cond(), e)
			if err != nil {
				return nil, err
			}
			if !Truthy(c) {
				return Undefined{}, nil
			}
			if _, err := in.eval(ctx, n.Body(), e); err != nil {
				return nil, err
			}
		}

	case *lam.ForNode:
		return in.evalFor(ctx, n, e)

	case *lam.AssignNode:
		b, ok := e.lookup(n.Ident())
		if !ok {
			return nil, runtimeErr(ErrCodeUnboundVariable, ident.None, "%s is not bound", n.Ident())
		}
		if !b.mutable {
			return nil, runtimeErr(ErrCodeNotAssignable, ident.None, "%s is not a variable binding", n.Ident())
		}
		v, err := in.eval(ctx, n.Value(), e)
		if err != nil {
			return nil, err
		}
		*b.cell = v
		return Undefined{}, nil

	default:
		return nil, fmt.Errorf("eval: unknown node %T", n)
	}
}

func (in *Interpreter) evalAll(ctx context.Context, ns []lam.Node, e *env) ([]Value, error) {
	vs := make([]Value, len(ns))
	for i, n := range ns {
		v, err := in.eval(ctx, n, e)
		if err != nil {
			return nil, err
		}
		vs[i] = v
	}
	return vs, nil
}

func (in *Interpreter) evalSwitch(ctx context.Context, n *lam.SwitchNode, e *env) (Value, error) {
	s, err := in.eval(ctx, n.Scrutinee(), e)
	if err != nil {
		return nil, err
	}
	t := n.Table()

	var (
		tag   int
		cases []lam.Case
	)
	switch v := s.(type) {
	case Int:
		tag, cases = int(v), t.Consts
	case Bool:
		tag, cases = 0, t.Consts
		if v {
			tag = 1
		}
	case *Block:
		tag, cases = v.Tag, t.Blocks
	default:
		return nil, runtimeErr(ErrCodeTypeMismatch, ident.None, "switch on %s", s)
	}
	for _, c := range cases {
		if c.Tag == tag {
			return in.eval(ctx, c.Body, e)
		}
	}
	if t.FailAction != nil {
		return in.eval(ctx, t.FailAction, e)
	}
	return nil, runtimeErr(ErrCodeNoMatch, ident.None, "no case for %s", s)
}

func (in *Interpreter) evalFor(ctx context.Context, n *lam.ForNode, e *env) (Value, error) {
	from, err := in.eval(ctx, n.From(), e)
	if err != nil {
		return nil, err
	}
	to, err := in.eval(ctx, n.To(), e)
	if err != nil {
		return nil, err
	}
	lo, ok1 := from.(Int)
	hi, ok2 := to.(Int)
	if !ok1 || !ok2 {
		return nil, runtimeErr(ErrCodeTypeMismatch, ident.None, "for bounds %s and %s", from, to)
	}

	next := func(i Int) Int { return i + 1 }
	done := func(i Int) bool { return i > hi }
	if n.Direction() == lam.Downto {
		next = func(i Int) Int { return i - 1 }
		done = func(i Int) bool { return i < hi }
	}
	for i := lo; !done(i); i = next(i) {
		if _, err := in.eval(ctx, n.Body(), e.bind(n.Ident(), i, false)); err != nil {
			return nil, err
		}
	}
	return Undefined{}, nil
}

// apply calls fn with args using curried semantics: too few arguments build a
// partial application, extra arguments are applied to the result.
func (in *Interpreter) apply(ctx context.Context, fn Value, args []Value, loc ident.Loc) (Value, error) {
	switch f := fn.(type) {
	case *Closure:
		arity := len(f.params)
		if len(args) < arity {
			return &Partial{fn: f, args: args}, nil
		}
		inner := f.env
		for i, p := range f.params {
			inner = inner.bind(p, args[i], false)
		}
		v, err := in.eval(ctx, f.body, inner)
		if err != nil {
			return nil, err
		}
		if rest := args[arity:]; len(rest) > 0 {
			return in.apply(ctx, v, rest, loc)
		}
		return v, nil
	case *Partial:
		all := make([]Value, 0, len(f.args)+len(args))
		all = append(append(all, f.args...), args...)
		return in.apply(ctx, f.fn, all, loc)
	case ForeignFunc:
		return in.callForeign(f, args)
	default:
		return nil, runtimeErr(ErrCodeNotCallable, loc, "%s is not a function", fn)
	}
}

// callForeign turns a host error into a catchable exception.
func (in *Interpreter) callForeign(f ForeignFunc, args []Value) (Value, error) {
	v, err := f(args)
	if err != nil {
		var exn *Exception
		if errors.As(err, &exn) {
			return nil, err
		}
		return nil, &Exception{Value: Str(err.Error())}
	}
	if v == nil {
		return Undefined{}, nil
	}
	return v, nil
}
