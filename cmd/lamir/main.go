// Command lamir builds, folds, evaluates and deduplicates Lam-IR trees.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/lamir/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err == nil {
		return
	}
	// Commands report their own failures and return an ExitError carrying
	// the exit code; anything else (flag parsing, argument counts) is ours.
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
