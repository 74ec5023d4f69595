package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"labstats/internal/application/report"
	"labstats/internal/application/worker"
	"labstats/internal/infrastructure/charts"
	"labstats/internal/infrastructure/export"
)

// run imports input into a fresh session, prints the text report to out and,
// once the analysis gate is reached, writes charts and exports to outDir.
func (b *batch) run(ctx context.Context, input, outDir string, out io.Writer) error {
	file, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	measurements, err := export.ReadCSV(file)
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}

	id, err := b.Service.CreateSession(ctx)
	if err != nil {
		return err
	}
	rep, err := b.Service.ImportMeasurements(ctx, id, measurements)
	if err != nil {
		return err
	}
	if err := report.WriteText(out, rep, b.Labels); err != nil {
		return err
	}

	if outDir == "" {
		return nil
	}
	if !rep.Ready {
		b.Logger.Warn("charts and exports skipped", "count", rep.Count, "remaining", rep.Remaining)
		return nil
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	jobs := make([]worker.Job, 0, len(charts.Kinds)+2)
	for _, kind := range charts.Kinds {
		jobs = append(jobs, worker.Job{Name: string(kind) + ".png", Render: func(context.Context) ([]byte, error) {
			return b.Renderer.PNG(kind, rep.Measurements)
		}})
	}
	jobs = append(jobs,
		worker.Job{Name: "measurements.csv", Render: func(context.Context) ([]byte, error) {
			return export.CSV(rep.Measurements, b.Labels)
		}},
		worker.Job{Name: "measurements.xlsx", Render: func(context.Context) ([]byte, error) {
			return export.XLSX(rep.Measurements, b.Labels)
		}},
	)

	artifacts, err := b.Pool.Run(ctx, jobs)
	if err != nil {
		return err
	}

	for _, artifact := range artifacts {
		path := filepath.Join(outDir, artifact.Name)
		if err := os.WriteFile(path, artifact.Data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		b.Logger.Info("file written", "path", path, "bytes", len(artifact.Data))
	}
	return nil
}
