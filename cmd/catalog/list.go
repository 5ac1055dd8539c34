package main

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/nulzo/model-catalog/pkg/catalog"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cataloged models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			family, _ := cmd.Flags().GetString("family")
			f := catalog.Family(family)
			if f != "" && !slices.Contains(catalog.Families(), f) {
				return fmt.Errorf("unknown family %q (want one of %v)", family, catalog.Families())
			}

			entries := catalog.EntriesFor(f)
			return render(cmd, entries, entryHeaders, entryRows(entries...))
		},
	}
	cmd.Flags().StringP("family", "f", "", "only list one family (gpt-4, gpt-3, codex, whisper)")
	return cmd
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <model-id>",
		Short: "Show one cataloged model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := catalog.Parse(args[0])
			if err != nil {
				return err
			}
			entry := catalog.Describe(m)
			return render(cmd, entry, entryHeaders, entryRows(entry))
		},
	}
}

var entryHeaders = []string{"ID", "FAMILY", "MAX TOKENS"}

func entryRows(entries ...catalog.Entry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		limit := "-"
		if e.HasLimit {
			limit = strconv.Itoa(e.MaxTokens)
		}
		rows = append(rows, []string{e.ID, string(e.Family), limit})
	}
	return rows
}
