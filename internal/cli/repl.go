package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/roach88/lamir/internal/decode"
	"github.com/roach88/lamir/internal/eval"
	"github.com/roach88/lamir/internal/ident"
	"github.com/roach88/lamir/internal/lam"
)

const replHelp = `Enter a node in flow-style YAML, e.g. {prim: {name: add, args: [{var: x/1}, 1]}}
The folded tree is printed, then its value.

Commands:
  :set <ident> <value>   bind a variable, e.g. :set x/1 41
  :env                   list bindings
  :hash <node>           print the content hash of a node
  :help                  show this help
  :quit                  exit`

// ReplOptions holds flags for the repl command.
type ReplOptions struct {
	*RootOptions
	History  string // history file, empty to disable
	MaxSteps int
}

// prompter is the part of *liner.State the loop uses.
type prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// NewReplCommand creates the repl command.
func NewReplCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Build and evaluate trees interactively",
		Long: `Read nodes line by line, build them through the smart constructors and
print the folded tree and its value. Variables bound with :set stay bound
for the rest of the session.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(opts, cmd)
		},
	}

	home, _ := os.UserHomeDir()
	defaultHistory := ""
	if home != "" {
		defaultHistory = filepath.Join(home, ".lamir_history")
	}
	cmd.Flags().StringVar(&opts.History, "history", defaultHistory, "history file (empty to disable)")
	cmd.Flags().IntVar(&opts.MaxSteps, "max-steps", eval.DefaultMaxSteps, "evaluation step quota")

	return cmd
}

func runRepl(opts *ReplOptions, cmd *cobra.Command) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if opts.History != "" {
		if f, err := os.Open(opts.History); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(opts.History); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	fmt.Fprintln(cmd.OutOrStdout(), "lamir repl. Type :help for help, :quit to exit.")
	return newSession(opts).loop(cmd.Context(), ln, cmd.OutOrStdout())
}

// session is the state of one interactive run.
type session struct {
	opts *ReplOptions
	env  map[ident.Ident]eval.Value
}

func newSession(opts *ReplOptions) *session {
	return &session{opts: opts, env: make(map[ident.Ident]eval.Value)}
}

func (s *session) loop(ctx context.Context, p prompter, w io.Writer) error {
	for {
		line, err := p.Prompt("lam> ")
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(w)
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		p.AppendHistory(line)

		if line == ":quit" {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		s.handle(ctx, line, w)
	}
}

func (s *session) handle(ctx context.Context, line string, w io.Writer) {
	if !strings.HasPrefix(line, ":") {
		s.evalLine(ctx, line, w)
		return
	}

	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	switch name {
	case ":help":
		fmt.Fprintln(w, replHelp)
	case ":env":
		ids := slices.SortedFunc(maps.Keys(s.env), ident.Compare)
		for _, id := range ids {
			fmt.Fprintf(w, "%s = %s\n", id, s.env[id])
		}
	case ":set":
		s.set(rest, w)
	case ":hash":
		n, err := decode.ParseNode(rest)
		if err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
			return
		}
		fmt.Fprintln(w, lam.MustHash(n))
	default:
		fmt.Fprintf(w, "unknown command %s. Type :help for help.\n", name)
	}
}

func (s *session) set(args string, w io.Writer) {
	idText, valueText, ok := strings.Cut(args, " ")
	if !ok {
		fmt.Fprintln(w, "usage: :set <ident> <value>")
		return
	}
	id, err := ident.Parse(idText)
	if err != nil {
		fmt.Fprintf(w, "error: %v\n", err)
		return
	}
	v, err := decode.ParseValue(strings.TrimSpace(valueText))
	if err != nil {
		fmt.Fprintf(w, "error: %v\n", err)
		return
	}
	s.env[id] = v
	fmt.Fprintf(w, "%s = %s\n", id, v)
}

func (s *session) evalLine(ctx context.Context, line string, w io.Writer) {
	n, err := decode.ParseNode(line)
	if err != nil {
		fmt.Fprintf(w, "error: %v\n", err)
		return
	}
	fmt.Fprintln(w, lam.Print(n))

	evalOpts := []eval.Option{eval.WithLogger(s.opts.logger())}
	if s.opts.MaxSteps > 0 {
		evalOpts = append(evalOpts, eval.WithMaxSteps(s.opts.MaxSteps))
	}
	v, err := eval.New(evalOpts...).Eval(ctx, n, s.env)
	if err != nil {
		fmt.Fprintf(w, "error: %v\n", err)
		return
	}
	fmt.Fprintf(w, "=> %s\n", v)
}
