// Package main provides the extraction CLI entrypoint.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/osedata/extract-core/internal/config"
	"github.com/osedata/extract-core/internal/logging"
	"github.com/osedata/extract-core/internal/pipeline"
	"github.com/osedata/extract-core/internal/sink"
)

var version = "dev"

var (
	cfgFile string
	verbose bool
	console bool

	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "extract",
	Short: "Flatten nested company, article and signal records into analysis tables",
	Long: `extract reads JSONL exports of company, article and signal records and
flattens them into nine tables keyed by (company_name, siren, siret),
ready for analytical tooling. Tables can be written as CSV or Parquet
files, uploaded to S3-compatible object storage, or loaded into Postgres.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		log = logging.New(console, verbose)
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the extraction pipeline over the configured inputs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		report, err := pipeline.New(cfg, log).Run(ctx)
		if err != nil {
			return err
		}

		s, err := sink.New(cfg.Sink, cfg.OutputDir, report.RunID, log)
		if err != nil {
			return err
		}
		if closer, ok := s.(interface{ Close() error }); ok {
			defer closer.Close()
		}

		result, err := s.Write(ctx, report.Tables)
		if err != nil {
			return err
		}

		log.Info().
			Str("run_id", report.RunID).
			Int("records", report.Records).
			Int("malformed", report.Malformed).
			Int64("rows_written", result.Rows).
			Int("datasets", len(result.Artifacts)).
			Msg("extraction complete")
		for name, location := range result.Artifacts {
			log.Info().Str("dataset", name).Str("location", location).Msg("dataset written")
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the build version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: env vars only)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&console, "console", true, "human-readable log output (false for JSON)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
