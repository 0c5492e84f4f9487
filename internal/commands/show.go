package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/branchdash/loandash/internal/report"
)

func newShowCommand(opts *globalOptions) *cobra.Command {
	var sf selectionFlags
	var format string
	var rows int

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show totals and the branch/status summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch format {
			case "table", "csv", "json":
			default:
				return fmt.Errorf("unknown format %q (want table, csv or json)", format)
			}

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

			v := report.View{
				Title:     e.cfg.Dashboard.Title,
				File:      file,
				Selection: sel,
				Result:    res,
				MaxRows:   rows,
			}
			out := cmd.OutOrStdout()
			switch format {
			case "csv":
				return report.WriteSummaryCSV(out, res.Summary)
			case "json":
				return report.WriteJSON(out, v)
			default:
				return report.Render(out, v)
			}
		},
	}

	sf.register(cmd)
	cmd.Flags().StringVar(&format, "format", "table", "output format: table, csv or json")
	cmd.Flags().IntVar(&rows, "rows", 20, "filtered rows to show; 0 hides them, -1 shows all")

	return cmd
}
