package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/lamir/internal/ident"
	"github.com/roach88/lamir/internal/lam"
	"github.com/roach88/lamir/internal/pass"
)

// FoldResult is the folded form of a tree document.
type FoldResult struct {
	Tree     string   `json:"tree"`
	Size     int      `json:"size"`
	FreeVars []string `json:"free_vars"`
}

// NewFoldCommand creates the fold command.
func NewFoldCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fold <file>",
		Short: "Print the folded tree",
		Long: `Decode a tree document through the smart constructors and print the
folded tree. Documents may be YAML, JSON or CUE.

Examples:
  lamir fold tree.yaml
  lamir fold tree.cue --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFold(rootOpts, args[0], cmd)
		},
	}
}

func runFold(opts *RootOptions, path string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	doc, err := LoadDocument(path)
	if err != nil {
		return failLoad(f, err)
	}

	tree := pass.Canonicalize(doc.Tree)
	result := FoldResult{
		Tree:     lam.Print(tree),
		Size:     pass.Size(tree),
		FreeVars: identStrings(ident.Sorted(pass.FreeVars(tree))),
	}
	opts.logger().Debug("folded", "path", path, "size", result.Size)

	if f.Format == "json" {
		return f.Success(result)
	}
	fmt.Fprintln(f.Writer, result.Tree)
	return nil
}

func identStrings(ids []ident.Ident) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
