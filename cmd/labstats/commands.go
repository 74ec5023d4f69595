package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"labstats/internal/application/generator"
	"labstats/internal/domain"
	"labstats/internal/infrastructure/config"
	"labstats/internal/infrastructure/export"
)

func newRootCommand(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "labstats",
		Short:         "Paired weight measurements with descriptive statistics and charts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	config.AddFlags(root.PersistentFlags())

	serve := newServeCommand(out)
	root.AddCommand(serve, newReportCommand(out), newGenerateCommand(out))
	root.RunE = serve.RunE
	return root
}

func newServeCommand(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP, gRPC and metrics servers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			app, err := initApplication(cfg, out)
			if err != nil {
				return err
			}
			return app.run(cmd.Context())
		},
	}
}

func newReportCommand(out io.Writer) *cobra.Command {
	var input, outDir string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Analyse a CSV file of measurements and write charts and exports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			// Batch logs go to stderr so the report stays readable on stdout.
			b, err := initBatch(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return b.run(cmd.Context(), input, outDir, out)
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "CSV file with drainedWeight,dryWeight rows (required)")
	cmd.Flags().StringVar(&outDir, "out", "", "directory for charts and exports, skipped when empty")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func newGenerateCommand(out io.Writer) *cobra.Command {
	var (
		count  int
		seed   int64
		target string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write synthetic measurements as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			if count < 0 {
				return fmt.Errorf("count must not be negative")
			}
			if seed == 0 {
				seed = time.Now().UnixNano()
			}

			genCfg := generator.DefaultConfig()
			genCfg.RandSource = rand.NewSource(seed)
			measurements := generator.New(genCfg).Generate(count)

			if target == "" {
				return export.WriteCSV(out, measurements, cfg.Labels())
			}
			return writeCSVFile(target, measurements, cfg.Labels())
		},
	}
	cmd.Flags().IntVar(&count, "count", 30, "number of measurements")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed, time based when 0")
	cmd.Flags().StringVar(&target, "out", "", "output file, stdout when empty")
	return cmd
}

func writeCSVFile(path string, measurements []domain.Measurement, labels domain.Labels) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	return writeCSVAndClose(file, measurements, labels)
}

// writeCSVAndClose always closes w and reports the close error when the write succeeded.
func writeCSVAndClose(w io.WriteCloser, measurements []domain.Measurement, labels domain.Labels) (err error) {
	defer func() {
		if closeErr := w.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close output: %w", closeErr)
		}
	}()
	return export.WriteCSV(w, measurements, labels)
}
