package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/branchdash/loandash/internal/combine"
)

func newFilesCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "files",
		Short: "List the loan files available to the dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd, opts)
			if err != nil {
				return err
			}
			defer func() { _ = e.logger.Sync() }()

			files, err := e.service.Files(cmd.Context())
			if err != nil {
				return explain(e.logger, err)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "%s\t\n", combine.Combined)
			for _, f := range files {
				fmt.Fprintf(tw, "%s\t%d bytes\n", f.Name, f.Size)
			}
			return tw.Flush()
		},
	}
}
