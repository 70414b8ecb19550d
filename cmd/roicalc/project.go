package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/warp/roi-engine/cli"
	"github.com/warp/roi-engine/generic"
)

func newProjectCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "project",
		Short: "Summary and monthly table (default command)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProject(cmd, opts)
		},
	}
}

func runProject(cmd *cobra.Command, opts *options) error {
	sc, res, err := opts.run(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	region := sc.Region
	if region == "" {
		region = "none"
	} else if sc.Seasonality != nil {
		region = fmt.Sprintf("%s (%d workable weeks)", sc.Seasonality.Name, sc.Seasonality.WorkableWeeks)
	}
	trigger := cli.FormatDay(res.Trigger.Day, res.Trigger.Reached)
	if res.Trigger.Reached {
		trigger = fmt.Sprintf("%s at %s (%s)", trigger, cli.FormatMoney(res.Trigger.Y), res.Trigger.Mode)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, cli.RenderTitle(strings.ToUpper(sc.Name)))
	fmt.Fprintln(out)
	fmt.Fprint(out, cli.RenderSummary([]cli.KeyValue{
		{Key: "Horizon", Value: fmt.Sprintf("%d days from %s", sc.HorizonDays, generic.MonthName(sc.StartMonthIndex))},
		{Key: "Region", Value: region},
		{Key: "Crews", Value: strconv.Itoa(sc.Input().FinalCrews())},
		{Key: "Ad spend tier", Value: string(sc.Params.SelectedTier)},
		{Key: "Break-even", Value: res.BreakEven.String()},
		{Key: "Monthly run-rate", Value: cli.FormatSignedMoney(res.RunRate.Monthly)},
		{Key: "Yearly run-rate", Value: cli.FormatSignedMoney(res.RunRate.Yearly)},
		{Key: "Cumulative at end", Value: cli.FormatMoney(res.Series.Last().Y)},
		{Key: "Next crew", Value: trigger},
		{Key: "Suggested crew days", Value: joinInts(res.NextCrewDays)},
	}))
	fmt.Fprintln(out)

	rows := make([][]string, 0, len(res.MonthlyBars))
	for _, bar := range res.MonthlyBars {
		backlog := "-"
		if bar.Month <= res.Backlog.Len() {
			backlog = cli.FormatJobs(res.Backlog.At(bar.Month - 1).Y)
		}
		rows = append(rows, []string{
			strconv.Itoa(bar.Month),
			cli.FormatSignedMoney(bar.Profit),
			cli.FormatMoney(bar.Closing),
			backlog,
		})
	}
	fmt.Fprint(out, cli.RenderTable(cli.Table{
		Title:   "Monthly",
		Headers: []string{"Month", "Profit", "Cumulative", "Backlog"},
		Rows:    rows,
	}))

	values := make([]float64, 0, res.Series.Len())
	for _, y := range res.Series.Values() {
		values = append(values, y.InexactFloat64())
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", cli.RenderSparkline(values))
	return nil
}

func joinInts(days []int) string {
	if len(days) == 0 {
		return "none"
	}
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ", ")
}
