package memory_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"labstats/internal/domain"
	"labstats/internal/infrastructure/repository/memory"
)

func TestRepositoryAppendPreservesOrder(t *testing.T) {
	t.Parallel()

	repo := memory.New()
	ctx := context.Background()

	want := make([]domain.Measurement, 0, 20)
	for i := 0; i < 20; i++ {
		m := domain.Measurement{DrainedWeight: float64(20 - i), DryWeight: float64(i) / 2}
		if err := repo.Append(ctx, m); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want = append(want, m)
	}

	if diff := cmp.Diff(want, repo.Snapshot(ctx)); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestRepositoryKeepsDuplicates(t *testing.T) {
	t.Parallel()

	repo := memory.New()
	ctx := context.Background()
	m := domain.Measurement{DrainedWeight: 12.5, DryWeight: 3.25}

	for i := 0; i < 3; i++ {
		if err := repo.Append(ctx, m); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := repo.Count(ctx); got != 3 {
		t.Fatalf("expected 3 measurements, got %d", got)
	}
}

func TestRepositorySnapshotIsDetached(t *testing.T) {
	t.Parallel()

	repo := memory.New()
	ctx := context.Background()
	_ = repo.Append(ctx, domain.Measurement{DrainedWeight: 1, DryWeight: 2})

	snapshot := repo.Snapshot(ctx)
	snapshot[0].DrainedWeight = 99
	_ = repo.Append(ctx, domain.Measurement{DrainedWeight: 3, DryWeight: 4})

	if len(snapshot) != 1 {
		t.Fatalf("snapshot grew after append: %d", len(snapshot))
	}
	if got := repo.Snapshot(ctx)[0].DrainedWeight; got != 1 {
		t.Fatalf("stored measurement was mutated through snapshot: %v", got)
	}
}

func TestRepositoryRejectsInvalidMeasurement(t *testing.T) {
	t.Parallel()

	repo := memory.New()
	ctx := context.Background()

	cases := []domain.Measurement{
		{DrainedWeight: -1, DryWeight: 1},
		{DrainedWeight: 1, DryWeight: math.NaN()},
		{DrainedWeight: math.Inf(1), DryWeight: 1},
	}
	for _, m := range cases {
		err := repo.Append(ctx, m)
		if !errors.Is(err, domain.ErrInvalidMeasurement) {
			t.Fatalf("expected ErrInvalidMeasurement for %+v, got %v", m, err)
		}
	}

	if got := repo.Count(ctx); got != 0 {
		t.Fatalf("expected empty repository, got %d", got)
	}
}

func TestRepositoryAppendAllIsAllOrNothing(t *testing.T) {
	t.Parallel()

	repo := memory.New()
	ctx := context.Background()

	batch := []domain.Measurement{
		{DrainedWeight: 1, DryWeight: 1},
		{DrainedWeight: -2, DryWeight: 1},
	}
	if err := repo.AppendAll(ctx, batch); !errors.Is(err, domain.ErrInvalidMeasurement) {
		t.Fatalf("expected ErrInvalidMeasurement, got %v", err)
	}
	if got := repo.Count(ctx); got != 0 {
		t.Fatalf("expected no measurements after rejected batch, got %d", got)
	}

	if err := repo.AppendAll(ctx, batch[:1]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := repo.Count(ctx); got != 1 {
		t.Fatalf("expected 1 measurement, got %d", got)
	}
}

func TestRepositoryReadiness(t *testing.T) {
	t.Parallel()

	repo := memory.New()
	ctx := context.Background()

	for i := 0; i < domain.MinimumForAnalysis; i++ {
		if repo.IsReadyForAnalysis(ctx) {
			t.Fatalf("repository reported ready with %d measurements", i)
		}
		_ = repo.Append(ctx, domain.Measurement{DrainedWeight: float64(i), DryWeight: float64(i)})
	}

	for i := 0; i < 5; i++ {
		if !repo.IsReadyForAnalysis(ctx) {
			t.Fatalf("repository not ready with %d measurements", repo.Count(ctx))
		}
		_ = repo.Append(ctx, domain.Measurement{DrainedWeight: 1, DryWeight: 1})
	}
}
