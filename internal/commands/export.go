package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/branchdash/loandash/internal/table"
)

func newExportCommand(opts *globalOptions) *cobra.Command {
	var sf selectionFlags
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered loan rows as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd, opts)
			if err != nil {
				return err
			}
			defer func() { _ = e.logger.Sync() }()

			file, sel := sf.resolve(e.cfg)
			res, err := e.service.Summarize(cmd.Context(), file, sel)
			if err != nil {
				return explain(e.logger, err)
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("creating %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}

			if err := table.WriteCSV(w, res.Filtered); err != nil {
				return fmt.Errorf("exporting: %w", err)
			}
			if out != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d rows to %s\n", res.Filtered.Len(), out)
			}
			return nil
		},
	}

	sf.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file; - writes to stdout")

	return cmd
}
