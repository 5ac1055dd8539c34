package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/nulzo/model-catalog/internal/cli"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the model catalog",
		Long: `Inspect the cataloged model families and their context sizes,
validate model listings and count prompt tokens against a model's limit.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			if noColor {
				cli.SetEnabled(false)
			}
			output, _ := cmd.Flags().GetString("output")
			switch output {
			case outputTable, outputJSON, outputYAML:
				return nil
			default:
				return fmt.Errorf("unknown output format %q (want table, json or yaml)", output)
			}
		},
	}

	root.PersistentFlags().StringP("output", "o", outputTable, "output format: table, json or yaml")
	root.PersistentFlags().Bool("no-color", false, "disable colored output")

	root.AddCommand(
		newListCmd(),
		newShowCmd(),
		newDecodeCmd(),
		newImportCmd(),
		newTokensCmd(),
		newVersionCmd(),
	)
	return root
}

// render writes v in the selected format. rows is used for table output.
func render(cmd *cobra.Command, v interface{}, headers []string, rows [][]string) error {
	output, _ := cmd.Flags().GetString("output")
	w := cmd.OutOrStdout()

	switch output {
	case outputJSON:
		cli.PrettyPrint(w, v)
		return nil
	case outputYAML:
		return writeYAML(w, v)
	default:
		if len(rows) == 0 {
			fmt.Fprintln(w, cli.Style("No results", cli.Dim))
			return nil
		}
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers(headers...).
			Rows(rows...)
		fmt.Fprintln(w, t.Render())
		return nil
	}
}

// writeYAML goes through JSON so types with custom JSON encoding keep their
// wire shape.
func writeYAML(w io.Writer, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(integralFloats(generic)); err != nil {
		return err
	}
	return enc.Close()
}

// integralFloats turns whole JSON numbers back into integers so timestamps
// are not printed in exponent form.
func integralFloats(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		for k, val := range t {
			t[k] = integralFloats(val)
		}
	case []interface{}:
		for i, val := range t {
			t[i] = integralFloats(val)
		}
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1<<53 {
			return int64(t)
		}
	}
	return v
}

// readInput reads a file path, or stdin for "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func joinArgs(args []string) string {
	return strings.Join(args, " ")
}
