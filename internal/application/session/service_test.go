package session

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labstats/internal/application/report"
	"labstats/internal/domain"
)

func newTestService(recorder Recorder) *Service {
	var opts []Option
	if recorder != nil {
		opts = append(opts, WithRecorder(recorder))
	}
	return NewService(newTestManager(Config{}, opts...), report.New(nil))
}

func TestServiceAddMeasurementReachesGate(t *testing.T) {
	recorder := &stubRecorder{}
	svc := newTestService(recorder)
	ctx := context.Background()

	id, err := svc.CreateSession(ctx)
	require.NoError(t, err)

	var rep domain.Report
	for i := 0; i < domain.MinimumForAnalysis; i++ {
		rep, err = svc.AddMeasurement(ctx, id, domain.Measurement{DrainedWeight: float64(i + 1), DryWeight: 2})
		require.NoError(t, err)

		if i < domain.MinimumForAnalysis-1 {
			assert.False(t, rep.Ready)
			assert.Equal(t, domain.MinimumForAnalysis-i-1, rep.Remaining)
		}
	}

	assert.True(t, rep.Ready)
	assert.Len(t, rep.Statistics, 2)
	assert.Equal(t, domain.MinimumForAnalysis, recorder.appended)
}

func TestServiceImportIsAllOrNothing(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()
	id, _ := svc.CreateSession(ctx)

	_, err := svc.ImportMeasurements(ctx, id, []domain.Measurement{{DrainedWeight: 1}, {DrainedWeight: -1}})
	assert.ErrorIs(t, err, domain.ErrInvalidMeasurement)

	rep, err := svc.Report(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, rep.Count)
}

func TestServiceUnknownSession(t *testing.T) {
	svc := newTestService(nil)

	_, err := svc.Report(context.Background(), "1b4e28ba-2fa1-11d2-883f-0016d3cca427")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = svc.AddMeasurement(context.Background(), "bogus", domain.Measurement{})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestServiceConcurrentAppendsKeepEverySubmission(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()
	id, _ := svc.CreateSession(ctx)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.AddMeasurement(ctx, id, domain.Measurement{DrainedWeight: float64(i), DryWeight: 1})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	rep, err := svc.Report(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 50, rep.Count)
	assert.True(t, rep.Ready)
}
