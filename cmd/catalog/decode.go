package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/nulzo/model-catalog/internal/cli"
	"github.com/nulzo/model-catalog/internal/store/sqlite"
	"github.com/nulzo/model-catalog/pkg/catalog"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <file|->",
		Short: "Validate a model listing and print it",
		Long: `Decode a model listing as returned by the provider's list endpoint.
The first malformed record fails the whole listing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := decodeListing(cmd, args[0])
			if err != nil {
				return err
			}
			return render(cmd, list, modelHeaders, modelRows(list.Data))
		},
	}
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Store a model listing in the local database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, _ := cmd.Flags().GetString("db")

			list, err := decodeListing(cmd, args[0])
			if err != nil {
				return err
			}

			repo, err := sqlite.NewSQLiteStorage(dbPath, zap.NewNop())
			if err != nil {
				return err
			}
			defer func() {
				_ = repo.Close()
			}()

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			if err := repo.Models().Upsert(ctx, list.Data...); err != nil {
				return fmt.Errorf("store models: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Imported %d models into %s\n", cli.CheckMark(), len(list.Data), dbPath)
			return nil
		},
	}
	cmd.Flags().String("db", "catalog.db", "path of the SQLite database")
	return cmd
}

func decodeListing(cmd *cobra.Command, path string) (*catalog.ModelList, error) {
	data, err := readInput(cmd, path)
	if err != nil {
		return nil, err
	}
	return catalog.DecodeModelList(data)
}

var modelHeaders = []string{"ID", "OWNED BY", "CREATED", "PERMISSIONS", "CATALOGED"}

func modelRows(models []catalog.Model) [][]string {
	rows := make([][]string, 0, len(models))
	for _, m := range models {
		cataloged := "no"
		if _, err := m.Lookup(); err == nil {
			cataloged = "yes"
		}
		rows = append(rows, []string{
			m.ID,
			m.OwnedBy,
			m.Created.UTC().Format(time.DateOnly),
			strconv.Itoa(len(m.Permission)),
			cataloged,
		})
	}
	return rows
}
