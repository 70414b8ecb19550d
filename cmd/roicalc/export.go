package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/warp/roi-engine/report"
)

func newExportCmd(opts *options) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the projection as a PDF or XLSX file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			sc, res, err := opts.run(cmd)
			if err != nil {
				return err
			}

			data, err := report.Build(f, report.Meta{
				Title:       sc.Name,
				Region:      sc.Region,
				Profile:     sc.Profile.Name,
				GeneratedAt: time.Now(),
			}, res)
			if err != nil {
				return err
			}

			path := output
			if path == "" {
				path = f.Filename(sc.Name)
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  Wrote %s (%d bytes)\n", path, len(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(report.FormatPDF), "Export format: pdf, xlsx")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default derived from the scenario name)")
	return cmd
}
