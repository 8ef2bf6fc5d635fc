package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/raterudder/rateexplorer/pkg/common"
	"github.com/raterudder/rateexplorer/pkg/rates"
	"github.com/raterudder/rateexplorer/pkg/types"
	"github.com/raterudder/rateexplorer/pkg/usage"
	"github.com/spf13/cobra"
)

type options struct {
	month         string
	region        string
	season        string
	dwelling      string
	climate       string
	gasHeat       bool
	gasAppliances bool
	ev            bool
	profileFile   string
	monthlyKWh    float64
	concurrency   int
	jsonOutput    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		red := color.New(color.FgRed, color.Bold).SprintFunc()
		fmt.Fprintln(os.Stderr, red("Error:"), err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options
	rootCmd := &cobra.Command{
		Use:           "ratecalc [flags] plan-file...",
		Short:         "Simulate a month of electricity bills for one or more rate plans",
		Version:       common.Version(),
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.month, "month", "m", "", "month to simulate as YYYY-MM (default current month)")
	flags.StringVarP(&opts.region, "region", "r", "", "synthetic usage region (New England, Texas, Southern California)")
	flags.StringVarP(&opts.season, "season", "s", "", "season of the usage profile (default season of the month)")
	flags.StringVar(&opts.dwelling, "dwelling", "", "estimate usage for a dwelling type (house, townhouse, apartment)")
	flags.StringVar(&opts.climate, "climate", string(types.ClimateMidwest), "climate zone of the dwelling (midwest, northeast, south, west)")
	flags.BoolVar(&opts.gasHeat, "gas-heat", false, "dwelling heats with gas")
	flags.BoolVar(&opts.gasAppliances, "gas-appliances", false, "dwelling has gas appliances")
	flags.BoolVar(&opts.ev, "ev", false, "dwelling charges an electric vehicle")
	flags.StringVarP(&opts.profileFile, "profile", "p", "", "file containing a 24 hour usage profile in kW")
	flags.Float64Var(&opts.monthlyKWh, "monthly-kwh", 0, "scale the profile to use this much energy in the month")
	flags.IntVar(&opts.concurrency, "concurrency", 4, "number of plans to simulate at once")
	flags.BoolVar(&opts.jsonOutput, "json", false, "print the bills as JSON")
	rootCmd.MarkFlagsMutuallyExclusive("region", "dwelling", "profile")
	rootCmd.MarkFlagsOneRequired("region", "dwelling", "profile")

	return rootCmd
}

func run(cmd *cobra.Command, args []string, opts options) error {
	monthStart, err := rates.ParseMonth(opts.month, time.Now())
	if err != nil {
		return err
	}
	profile, err := resolveProfile(opts, monthStart)
	if err != nil {
		return err
	}

	var plans []*types.RatePlan
	for _, path := range args {
		plan, err := loadPlan(path)
		if err != nil {
			return err
		}
		if !plan.HasEnergySchedule() {
			warnf(cmd, "%s has no energy schedule, only fixed and demand charges are billed", plan.Label)
		}
		if !plan.Active(monthStart) {
			warnf(cmd, "%s is not in effect for %s", plan.Label, monthStart.Format("2006-01"))
		}
		plans = append(plans, plan)
	}

	bills, err := rates.CompareMonthlyBills(cmd.Context(), plans, profile, monthStart, opts.concurrency)
	if err != nil {
		return fmt.Errorf("error simulating bills: %w", err)
	}
	rates.SortByTotal(bills)

	if opts.jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(bills)
	}
	return renderBills(cmd.OutOrStdout(), bills)
}

func warnf(cmd *cobra.Command, format string, args ...any) {
	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintln(cmd.ErrOrStderr(), yellow("Warning:"), fmt.Sprintf(format, args...))
}

func resolveProfile(opts options, monthStart time.Time) (types.UsageProfile, error) {
	season := types.SeasonOf(monthStart.Month())
	if opts.season != "" {
		var err error
		season, err = types.ParseSeason(opts.season)
		if err != nil {
			return nil, err
		}
	}

	var profile types.UsageProfile
	var err error
	switch {
	case opts.profileFile != "":
		profile, err = loadProfile(opts.profileFile)
	case opts.dwelling != "":
		profile, err = usage.Estimate(types.DwellingProfile{
			DwellingType:     types.DwellingType(opts.dwelling),
			Climate:          types.ClimateZone(opts.climate),
			HasGasHeat:       opts.gasHeat,
			HasGasAppliances: opts.gasAppliances,
			HasEV:            opts.ev,
		}, season)
	default:
		var region types.Region
		region, err = types.ParseRegion(opts.region)
		if err == nil {
			profile, err = usage.Synthetic(region, season)
		}
	}
	if err != nil {
		return nil, err
	}

	if opts.monthlyKWh < 0 {
		return nil, fmt.Errorf("--monthly-kwh cannot be negative")
	}
	if opts.monthlyKWh > 0 {
		profile = usage.ScaleToMonthlyKWh(profile, opts.monthlyKWh, rates.DaysInMonth(monthStart))
	}
	return profile, nil
}
