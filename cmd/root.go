package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/linkedin-finder/internal/config"
	"github.com/sells-group/linkedin-finder/internal/loader"
	"github.com/sells-group/linkedin-finder/internal/pipeline"
)

var cfg *config.Config

var (
	flagInput       string
	flagOutput      string
	flagConcurrency int
	flagTimeout     int
	flagLimit       int
	flagDryRun      bool
	flagOffline     bool
)

var rootCmd = &cobra.Command{
	Use:   "linkedin-finder",
	Short: "Find LinkedIn company profiles for a list of companies",
	Long:  "Reads company names from a CSV, XLSX or text file, asks an LLM agent with web search for each company's LinkedIn profile, and writes name,linkedin rows.",
	Args:  cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		applyFlags(cmd, c)
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		loadOpts := loader.Options{SkipInvalid: cfg.Input.SkipInvalid, Encoding: cfg.Input.Encoding}

		if flagDryRun {
			companies, err := loader.Load(ctx, cfg.Input.Path, loadOpts)
			if err != nil {
				return err
			}
			if flagLimit > 0 && flagLimit < len(companies) {
				companies = companies[:flagLimit]
			}
			out := cmd.OutOrStdout()
			for _, c := range companies {
				fmt.Fprintln(out, c.Name) //nolint:errcheck
			}
			return nil
		}

		r, err := buildResolver(ctx, flagOffline)
		if err != nil {
			return err
		}

		summary, err := pipeline.Run(ctx, pipeline.Config{
			InputPath:  cfg.Input.Path,
			OutputPath: cfg.Output.Path,
			Load:       loadOpts,
			Batch: pipeline.Options{
				Concurrency: cfg.Batch.Concurrency,
				Timeout:     time.Duration(cfg.Batch.TimeoutSecs) * time.Second,
			},
			Limit:    flagLimit,
			Resolver: r,
		})
		if err != nil {
			return eris.Wrap(err, "pipeline run")
		}

		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d results to %s (found %d, not found %d, errors %d)\n", //nolint:errcheck
			summary.Total, summary.OutputPath,
			summary.Tally.Found, summary.Tally.NotFound, summary.Tally.Errors)
		return nil
	},
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&flagInput, "input", "", "input file (.csv, .tsv, .xlsx, .txt); overrides input.path")
	f.StringVar(&flagOutput, "output", "", "output file (.csv or .xlsx); overrides output.path")
	f.IntVar(&flagConcurrency, "concurrency", 0, "max resolutions in flight; overrides batch.concurrency")
	f.IntVar(&flagTimeout, "timeout", 0, "per-company timeout in seconds, 0 disables; overrides batch.timeout_secs")
	f.IntVar(&flagLimit, "limit", 0, "process only the first N companies (0 = all)")
	f.BoolVar(&flagDryRun, "dry-run", false, "load and print company names without calling any API")
	rootCmd.PersistentFlags().BoolVar(&flagOffline, "offline", false, "use stub model and search clients; no credentials required")
}

// applyFlags copies explicitly set flags over the loaded config.
func applyFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("input") {
		c.Input.Path = flagInput
	}
	if flags.Changed("output") {
		c.Output.Path = flagOutput
	}
	if flags.Changed("concurrency") {
		c.Batch.Concurrency = flagConcurrency
	}
	if flags.Changed("timeout") {
		c.Batch.TimeoutSecs = flagTimeout
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
