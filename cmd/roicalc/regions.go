package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/warp/roi-engine/cli"
	"github.com/warp/roi-engine/config"
	"github.com/warp/roi-engine/seasonality"
)

func newRegionsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "List seasonality regions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			file := opts.seasonalityFile
			if file == "" {
				file = cfg.Projection.SeasonalityFile
			}
			dataset, err := seasonality.LoadOrDefault(file)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(dataset.Regions()))
			for _, t := range dataset.Tables() {
				values := make([]float64, len(t.Multipliers))
				for i, m := range t.Multipliers {
					values[i] = m.InexactFloat64()
				}
				rows = append(rows, []string{t.Region, t.Name, strconv.Itoa(t.WorkableWeeks), cli.RenderSparkline(values)})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out)
			fmt.Fprint(out, cli.RenderTable(cli.Table{
				Headers: []string{"Key", "Name", "Weeks", "Jan-Dec"},
				Rows:    rows,
			}))
			return nil
		},
	}
}
