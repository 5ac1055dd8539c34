package main

import (
	"fmt"
	"io"
	"os"

	"github.com/nulzo/model-catalog/internal/cli"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// reportError prints a failed command. Subcommands return errors without
// printing them so each failure is shown once.
func reportError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s Error: %v\n", cli.CrossMark(), err)
}
