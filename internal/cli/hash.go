package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/lamir/internal/lam"
)

// HashOptions holds flags for the hash command.
type HashOptions struct {
	*RootOptions
	Canonical bool
}

// HashResult is the content hash of a tree.
type HashResult struct {
	Hash      string `json:"hash"`
	Canonical string `json:"canonical,omitempty"`
}

// NewHashCommand creates the hash command.
func NewHashCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HashOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "hash <file>",
		Short: "Print the content hash of a tree",
		Long: `Print the SHA-256 content hash of a tree's canonical encoding.
Trees that print the same hash are syntactically identical; locations and
switch names do not take part.

Examples:
  lamir hash tree.yaml
  lamir hash tree.yaml --canonical`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHash(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Canonical, "canonical", false, "also print the canonical encoding")
	return cmd
}

func runHash(opts *HashOptions, path string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	doc, err := LoadDocument(path)
	if err != nil {
		return failLoad(f, err)
	}

	h, err := lam.Hash(doc.Tree)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}
	result := HashResult{Hash: h}
	if opts.Canonical {
		data, err := lam.MarshalCanonical(doc.Tree)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
		}
		result.Canonical = string(data)
	}

	if f.Format == "json" {
		return f.Success(result)
	}
	fmt.Fprintln(f.Writer, result.Hash)
	if result.Canonical != "" {
		fmt.Fprintln(f.Writer, result.Canonical)
	}
	return nil
}
