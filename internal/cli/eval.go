package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/lamir/internal/eval"
	"github.com/roach88/lamir/internal/lam"
)

// EvalOptions holds flags for the eval command.
type EvalOptions struct {
	*RootOptions
	MaxSteps int
}

// EvalResult is the outcome of evaluating a tree document.
type EvalResult struct {
	Tree  string `json:"tree"`
	Value string `json:"value"`
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "eval <file>",
		Short: "Evaluate a tree with the reference interpreter",
		Long: `Evaluate a tree document in the environment given by its env field.

Exit codes:
  0 - Evaluation produced a value
  1 - Evaluation failed (runtime error, uncaught exception, step quota)
  2 - Command error (missing file, malformed document)

Examples:
  lamir eval tree.yaml
  lamir eval loop.yaml --max-steps 1000`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.MaxSteps, "max-steps", eval.DefaultMaxSteps, "evaluation step quota")
	return cmd
}

func runEval(opts *EvalOptions, path string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	if opts.MaxSteps <= 0 {
		return f.Fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("--max-steps must be positive, got %d", opts.MaxSteps), nil)
	}

	doc, err := LoadDocument(path)
	if err != nil {
		return failLoad(f, err)
	}

	in := eval.New(eval.WithMaxSteps(opts.MaxSteps), eval.WithLogger(opts.logger()))
	v, err := in.Eval(cmd.Context(), doc.Tree, doc.Env)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeEval, err.Error(), evalErrorDetails(err))
	}

	result := EvalResult{Tree: lam.Print(doc.Tree), Value: v.String()}
	if f.Format == "json" {
		return f.Success(result)
	}
	fmt.Fprintln(f.Writer, result.Value)
	return nil
}

// evalErrorDetails classifies an evaluation failure for JSON output.
func evalErrorDetails(err error) map[string]string {
	var re *eval.RuntimeError
	var ex *eval.Exception
	switch {
	case errors.As(err, &re):
		return map[string]string{"kind": "runtime", "code": string(re.Code)}
	case errors.As(err, &ex):
		return map[string]string{"kind": "exception", "value": ex.Value.String()}
	case eval.IsStepsExceededError(err):
		return map[string]string{"kind": "steps_exceeded"}
	default:
		return nil
	}
}
