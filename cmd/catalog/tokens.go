package main

import (
	"errors"
	"strconv"

	"github.com/nulzo/model-catalog/internal/tokenizer"
	"github.com/nulzo/model-catalog/pkg/catalog"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newCounter is replaced in tests to avoid fetching encodings.
var newCounter = func() *tokenizer.Counter {
	return tokenizer.New(zap.NewNop())
}

func newTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <model-id> <text...>",
		Short: "Count prompt tokens against a model's context size",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := catalog.Parse(args[0])
			if err != nil {
				return err
			}

			budget, err := newCounter().Budget(m, joinArgs(args[1:]))
			var overflow *tokenizer.OverflowError
			if err != nil && !errors.As(err, &overflow) {
				return err
			}

			if rerr := render(cmd, budget, budgetHeaders, budgetRows(budget)); rerr != nil {
				return rerr
			}
			return err
		},
	}
}

var budgetHeaders = []string{"MODEL", "LIMIT", "PROMPT TOKENS", "REMAINING"}

func budgetRows(b tokenizer.Budget) [][]string {
	return [][]string{{
		b.Model,
		strconv.Itoa(b.Limit),
		strconv.Itoa(b.Prompt),
		strconv.Itoa(b.Remaining),
	}}
}
