package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/lamir/internal/decode"
	"github.com/roach88/lamir/internal/eval"
	"github.com/roach88/lamir/internal/ident"
	"github.com/roach88/lamir/internal/lam"
)

// Harness executes scenarios.
type Harness struct {
	logger *slog.Logger
	opts   []eval.Option
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the logger. Logs are discarded by default.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = l
	}
}

// WithEvalOptions passes options to every interpreter the harness creates,
// e.g. foreign bindings for scenarios that call externals.
func WithEvalOptions(opts ...eval.Option) Option {
	return func(h *Harness) {
		h.opts = append(h.opts, opts...)
	}
}

// New creates a harness.
func New(opts ...Option) *Harness {
	h := &Harness{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes a scenario with a default harness.
func Run(scenario *Scenario) (*Result, error) {
	return New().Run(context.Background(), scenario)
}

// execution holds what the assertions inspect.
type execution struct {
	tree  lam.Node
	env   map[ident.Ident]eval.Value
	value eval.Value
	err   error // evaluation error, nil on success
}

// Run decodes the scenario's tree, evaluates it and checks every assertion.
// The returned error reports a malformed scenario; failed assertions are
// recorded on the Result instead.
func (h *Harness) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	tree, err := decode.Node("tree", scenario.Tree)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	var rawEnv any
	if scenario.Env != nil {
		rawEnv = scenario.Env
	}
	env, err := decode.Env("env", rawEnv)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	x := &execution{tree: tree, env: env}
	result := NewResult()
	result.Printed = lam.Print(tree)

	opts := append([]eval.Option{eval.WithLogger(h.logger)}, h.opts...)
	if scenario.MaxSteps > 0 {
		opts = append(opts, eval.WithMaxSteps(scenario.MaxSteps))
	}
	x.value, x.err = eval.New(opts...).Eval(ctx, tree, env)
	if x.err != nil {
		if errors.Is(x.err, context.Canceled) || errors.Is(x.err, context.DeadlineExceeded) {
			return nil, x.err
		}
		result.Value = "error: " + errorCode(x.err)
	} else {
		result.Value = x.value.String()
	}

	for _, msg := range EvaluateAssertions(x, scenario.Assertions) {
		result.AddError(msg)
	}

	h.logger.Info("scenario finished",
		"name", scenario.Name,
		"pass", result.Pass,
		"failures", len(result.Errors),
	)
	return result, nil
}

// errorCode names an evaluation failure the way evaluates assertions do.
func errorCode(err error) string {
	var re *eval.RuntimeError
	if errors.As(err, &re) {
		return string(re.Code)
	}
	var ex *eval.Exception
	if errors.As(err, &ex) {
		return "EXCEPTION"
	}
	if eval.IsStepsExceededError(err) {
		return "STEPS_EXCEEDED"
	}
	return err.Error()
}
