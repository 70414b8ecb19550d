package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/warp/roi-engine/config"
	"github.com/warp/roi-engine/factory"
	"github.com/warp/roi-engine/projection"
	"github.com/warp/roi-engine/seasonality"
)

// options holds the persistent flags shared by every command.
type options struct {
	configPath      string
	preset          string
	crewDays        []int
	tier            string
	months          int
	region          string
	zip             string
	profile         string
	startMonth      int
	mode            string
	seasonalityFile string
	name            string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "roicalc",
		Short:         "Revenue projection calculator",
		Long:          "Project cumulative cash, break-even and crew scaling for a crew-based service business.",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProject(cmd, opts)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "YAML config file")
	f.StringVarP(&opts.preset, "preset", "p", "", "Business preset (default from config)")
	f.IntSliceVar(&opts.crewDays, "crew-day", nil, "Day a crew is added at close of business (repeatable)")
	f.StringVarP(&opts.tier, "tier", "t", "", "Ad spend tier: Aggressive, Moderate, Conservative")
	f.IntVarP(&opts.months, "months", "m", 0, "Projection length in months (default from config)")
	f.StringVarP(&opts.region, "region", "r", "", "Seasonality region key")
	f.StringVar(&opts.zip, "zip", "", "US zip code, used when --region is empty")
	f.StringVar(&opts.profile, "profile", "", "Scaling profile: aggressive, moderate, conservative")
	f.IntVar(&opts.startMonth, "start-month", 0, "Calendar month the business opens, 1-12 (default current month)")
	f.StringVar(&opts.mode, "mode", "", "Crew trigger mode: simulated, closed_form")
	f.StringVar(&opts.seasonalityFile, "seasonality-file", "", "Region dataset YAML (default embedded)")
	f.StringVar(&opts.name, "name", "", "Scenario name shown in titles and exports")

	root.AddCommand(newProjectCmd(opts), newRegionsCmd(opts), newExportCmd(opts))
	return root
}

// resolve loads config and the region dataset and builds the scenario the
// flags describe.
func (o *options) resolve(cmd *cobra.Command) (*factory.Scenario, *seasonality.StaticProvider, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	file := o.seasonalityFile
	if file == "" {
		file = cfg.Projection.SeasonalityFile
	}
	dataset, err := seasonality.LoadOrDefault(file)
	if err != nil {
		return nil, nil, err
	}

	f := factory.NewScenarioFactory(
		factory.WithRegions(dataset),
		factory.WithZipResolver(dataset),
		factory.WithDefaultPreset(cfg.Projection.DefaultPreset),
		factory.WithDefaultHorizon(cfg.Projection.HorizonDays),
	)

	sj := factory.ScenarioJSON{
		Name:        o.name,
		Preset:      o.preset,
		Tier:        o.tier,
		CrewDays:    o.crewDays,
		Months:      o.months,
		Region:      o.region,
		Zip:         o.zip,
		Profile:     o.profile,
		ScalingMode: o.mode,
	}
	if cmd.Flags().Changed("start-month") {
		if o.startMonth < 1 || o.startMonth > 12 {
			return nil, nil, fmt.Errorf("--start-month must be 1-12, got %d", o.startMonth)
		}
		idx := o.startMonth - 1
		sj.StartMonth = &idx
	}

	sc, err := f.FromJSON(sj)
	if err != nil {
		return nil, nil, err
	}
	if sc.Name == "" {
		if p, ok := f.Presets()[sc.Preset]; ok {
			sc.Name = p.Title
		}
	}
	return sc, dataset, nil
}

func (o *options) run(cmd *cobra.Command) (*factory.Scenario, *projection.Result, error) {
	sc, _, err := o.resolve(cmd)
	if err != nil {
		return nil, nil, err
	}
	res, err := projection.Run(sc.Request())
	if err != nil {
		return nil, nil, err
	}
	return sc, res, nil
}
