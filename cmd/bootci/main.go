package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/uyouii/bootstrap-ci/aggregate"
	"github.com/uyouii/bootstrap-ci/bootstrap"
	"github.com/uyouii/bootstrap-ci/config"
	"github.com/uyouii/bootstrap-ci/loader"
	"github.com/uyouii/bootstrap-ci/model"
	"github.com/uyouii/bootstrap-ci/report"
	"github.com/uyouii/bootstrap-ci/utils"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "bootci",
		Short:         "Bootstrap confidence intervals for grouped observations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(intervalCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type intervalFlags struct {
	configPath   string
	input        string
	seed         int64
	quantile     float64
	confidence   float64
	repeats      int
	method       string
	groupColumn  string
	valueColumn  string
	timeColumn   string
	delimiter    string
	format       string
	digits       int32
	allowPartial bool
	verbose      bool
}

func intervalCmd() *cobra.Command {
	var flags intervalFlags

	cmd := &cobra.Command{
		Use:   "interval",
		Short: "Estimate a quantile and its confidence interval for every group",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if flags.verbose {
				logger, err := zap.NewDevelopment()
				if err != nil {
					return err
				}
				defer logger.Sync() //nolint:errcheck
				ctx = utils.WithLogger(ctx, logger)
			}

			cfg, err := loadConfig(ctx, cmd, &flags)
			if err != nil {
				return err
			}
			params, err := cfg.Params()
			if err != nil {
				return err
			}
			opts, err := cfg.LoaderOptions()
			if err != nil {
				return err
			}

			observations, err := readObservations(flags.input, opts)
			if err != nil {
				return err
			}

			results, err := aggregate.Aggregate(ctx, bootstrap.NewGenerator(params.Seed), observations, params)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			reportOpts := report.Options{Digits: flags.digits}
			switch flags.format {
			case "json":
				err = report.JSON(out, results, reportOpts)
			default:
				err = report.Table(out, results, reportOpts)
			}
			if err != nil {
				return err
			}

			if failed := results.Failed(); len(failed) > 0 {
				if flags.allowPartial {
					// stderr, stdout may carry a JSON document
					_, _ = color.New(color.FgYellow).Fprintf(cmd.ErrOrStderr(),
						"%d of %d groups failed\n", len(failed), results.Len())
					return nil
				}
				return results.Err()
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.configPath, "config", "", "yaml config file")
	cmd.Flags().StringVar(&flags.input, "input", "", "delimited observations file, - for stdin (required)")
	cmd.Flags().Int64Var(&flags.seed, "seed", 0, "random seed, required here or in the config")
	cmd.Flags().Float64Var(&flags.quantile, "quantile", bootstrap.DefaultQuantile, "quantile fraction to estimate")
	cmd.Flags().Float64Var(&flags.confidence, "confidence", bootstrap.DefaultConfidence, "confidence level of the interval")
	cmd.Flags().IntVar(&flags.repeats, "repeats", bootstrap.DefaultRepeats, "bootstrap resamples per group")
	cmd.Flags().StringVar(&flags.method, "method", string(model.InterpolatedQuantile), "quantile method (interpolated, nearest_rank)")
	cmd.Flags().StringVar(&flags.groupColumn, "group-column", "", "group column name")
	cmd.Flags().StringVar(&flags.valueColumn, "value-column", "", "value column name")
	cmd.Flags().StringVar(&flags.timeColumn, "time-column", "", "time column name")
	cmd.Flags().StringVar(&flags.delimiter, "delimiter", "", "field delimiter")
	cmd.Flags().StringVar(&flags.format, "format", "table", "output format (table, json)")
	cmd.Flags().Int32Var(&flags.digits, "digits", report.DefaultDigits, "significant digits in the output")
	cmd.Flags().BoolVar(&flags.allowPartial, "allow-partial", false, "exit successfully when some groups failed")
	cmd.Flags().BoolVar(&flags.verbose, "verbose", false, "development logging")

	if err := cmd.MarkFlagRequired("input"); err != nil {
		panic(err)
	}

	return cmd
}

// loadConfig reads the config file if any, then applies the flags that were set.
func loadConfig(ctx context.Context, cmd *cobra.Command, flags *intervalFlags) (*config.Config, error) {
	cfg := config.Default()
	if flags.configPath != "" {
		var err error
		if cfg, err = config.Load(ctx, flags.configPath); err != nil {
			return nil, err
		}
	}

	changed := cmd.Flags().Changed
	if changed("seed") {
		cfg.SetSeed(flags.seed)
	}
	if changed("quantile") {
		cfg.Quantile = flags.quantile
	}
	if changed("confidence") {
		cfg.Confidence = flags.confidence
	}
	if changed("repeats") {
		cfg.Repeats = flags.repeats
	}
	if changed("method") {
		cfg.Method = model.QuantileMethod(flags.method)
	}
	if changed("group-column") {
		cfg.Input.GroupColumn = flags.groupColumn
	}
	if changed("value-column") {
		cfg.Input.ValueColumn = flags.valueColumn
	}
	if changed("time-column") {
		cfg.Input.TimeColumn = flags.timeColumn
	}
	if changed("delimiter") {
		cfg.Input.Delimiter = flags.delimiter
	}
	if flags.format != "table" && flags.format != "json" {
		return nil, errors.Errorf("invalid format: %s", flags.format)
	}
	return cfg, nil
}

func readObservations(input string, opts loader.Options) ([]model.Observation, error) {
	if input == "-" {
		return loader.Read(os.Stdin, opts)
	}
	return loader.ReadFile(input, opts)
}
