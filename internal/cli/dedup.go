package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/lamir/internal/store"
)

// DedupOptions holds flags for the dedup command.
type DedupOptions struct {
	*RootOptions
	DBPath  string
	MinSize int
}

// DedupResult lists the recorded units and the subtrees they share.
type DedupResult struct {
	Units      []UnitSummary      `json:"units"`
	Duplicates []DuplicateSummary `json:"duplicates"`
}

// UnitSummary describes one recorded unit.
type UnitSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Seq  int64  `json:"seq"`
	Size int    `json:"size"`
}

// DuplicateSummary describes one shared subtree.
type DuplicateSummary struct {
	Hash    string `json:"hash"`
	Kind    string `json:"kind"`
	Size    int    `json:"size"`
	Count   int    `json:"count"`
	Units   int    `json:"units"`
	Printed string `json:"printed"`
}

// NewDedupCommand creates the dedup command.
func NewDedupCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DedupOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "dedup <file>...",
		Short: "Record trees in the sharing store and report duplicate subtrees",
		Long: `Record each tree document as a unit in the sharing store, then list every
subtree that occurs more than once across all recorded units, largest first.

The store persists between runs, so units recorded earlier take part.

Examples:
  lamir dedup --db lamir.db a.yaml b.yaml
  lamir dedup --db :memory: --min-size 5 *.yaml`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDedup(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "path to the SQLite sharing store (required)")
	cmd.Flags().IntVar(&opts.MinSize, "min-size", 3, "smallest subtree size (in nodes) to report")
	cmd.MarkFlagRequired("db")

	return cmd
}

func runDedup(opts *DedupOptions, files []string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	ctx := cmd.Context()

	st, err := store.Open(opts.DBPath, store.WithLogger(opts.logger()))
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, fmt.Sprintf("failed to open store: %v", err), nil)
	}
	defer st.Close()

	for _, path := range files {
		doc, err := LoadDocument(path)
		if err != nil {
			return failLoad(f, err)
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		u, err := st.RecordUnit(ctx, name, doc.Tree)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeStore, fmt.Sprintf("failed to record %s: %v", path, err), nil)
		}
		f.VerboseLog("recorded %s as unit %s (%d nodes)", path, u.ID, u.Size)
	}

	units, err := st.Units(ctx)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
	}
	dups, err := st.Duplicates(ctx, opts.MinSize)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
	}

	result := DedupResult{
		Units:      make([]UnitSummary, len(units)),
		Duplicates: make([]DuplicateSummary, len(dups)),
	}
	for i, u := range units {
		result.Units[i] = UnitSummary{ID: u.ID, Name: u.Name, Seq: u.Seq, Size: u.Size}
	}
	for i, d := range dups {
		result.Duplicates[i] = DuplicateSummary{
			Hash: d.Hash, Kind: d.Kind, Size: d.Size,
			Count: d.Count, Units: d.Units, Printed: d.Printed,
		}
	}

	if f.Format == "json" {
		return f.Success(result)
	}
	return outputDedupText(f, result)
}

func outputDedupText(f *OutputFormatter, result DedupResult) error {
	w := f.Writer
	fmt.Fprintf(w, "%d unit(s) recorded\n", len(result.Units))
	if len(result.Duplicates) == 0 {
		fmt.Fprintln(w, "No duplicate subtrees.")
		return nil
	}
	fmt.Fprintf(w, "%d duplicate subtree(s):\n", len(result.Duplicates))
	for _, d := range result.Duplicates {
		fmt.Fprintf(w, "  %s size=%d count=%d units=%d %s\n", shortHash(d.Hash), d.Size, d.Count, d.Units, d.Printed)
	}
	return nil
}

// shortHash keeps the first 12 hex digits.
func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
