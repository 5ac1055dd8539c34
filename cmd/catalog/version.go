package main

import (
	"context"
	"fmt"
	"time"

	"github.com/nulzo/model-catalog/internal/cli"
	"github.com/nulzo/model-catalog/internal/version"
	"github.com/spf13/cobra"
)

// releasesURL is replaced in tests.
var releasesURL = version.ReleasesURL

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version and optionally check for a newer release",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			check, _ := cmd.Flags().GetBool("check")
			w := cmd.OutOrStdout()

			if !check {
				fmt.Fprintln(w, version.Version)
				return nil
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()

			status, err := version.Check(ctx, nil, releasesURL, version.Version)
			if err != nil {
				return err
			}

			output, _ := cmd.Flags().GetString("output")
			if output != outputTable {
				return render(cmd, status, nil, nil)
			}

			if status.Outdated {
				fmt.Fprintf(w, "%s %s is outdated, the latest release is %s\n",
					cli.Style("!", cli.Yellow), status.Current, status.Latest)
				return nil
			}
			fmt.Fprintf(w, "%s %s is up to date\n", cli.CheckMark(), status.Current)
			return nil
		},
	}
	cmd.Flags().Bool("check", false, "compare against the latest published release")
	return cmd
}
