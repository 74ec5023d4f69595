// Package worker runs independent rendering jobs on a bounded set of goroutines.
package worker

import (
	"context"
	"fmt"
	"sync"

	"labstats/internal/infrastructure/logging"
)

// Job renders one named artifact.
type Job struct {
	Name   string
	Render func(ctx context.Context) ([]byte, error)
}

// Artifact is the output of a Job.
type Artifact struct {
	Name string
	Data []byte
}

// Pool executes jobs with a fixed number of workers.
type Pool struct {
	workerCount int
	logger      *logging.Logger
}

// New creates a pool with workerCount workers, at least one.
func New(workerCount int, logger *logging.Logger) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}
	return &Pool{workerCount: workerCount, logger: logger}
}

type result struct {
	index    int
	artifact Artifact
	err      error
}

// Run executes every job and returns the artifacts in job order. The first
// failing job, in job order, is reported; remaining jobs are skipped once ctx
// is cancelled.
func (p *Pool) Run(ctx context.Context, jobs []Job) ([]Artifact, error) {
	queue := make(chan int)
	results := make(chan result, len(jobs))

	workers := min(p.workerCount, max(len(jobs), 1))
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			p.workerLoop(ctx, jobs, queue, results)
		}()
	}

feed:
	for i := range jobs {
		select {
		case <-ctx.Done():
			break feed
		case queue <- i:
		}
	}
	close(queue)
	wg.Wait()
	close(results)

	artifacts := make([]Artifact, len(jobs))
	errs := make([]error, len(jobs))
	done := make([]bool, len(jobs))
	for r := range results {
		artifacts[r.index] = r.artifact
		errs[r.index] = r.err
		done[r.index] = true
	}
	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("%s: %w", jobs[i].Name, err)
		}
		if !done[i] {
			return nil, fmt.Errorf("%s: %w", jobs[i].Name, ctx.Err())
		}
	}
	return artifacts, nil
}

func (p *Pool) workerLoop(ctx context.Context, jobs []Job, queue <-chan int, results chan<- result) {
	for i := range queue {
		job := jobs[i]
		if err := ctx.Err(); err != nil {
			results <- result{index: i, err: err}
			continue
		}

		data, err := job.Render(ctx)
		if err != nil {
			p.logger.Warn("worker: job failed", logging.AttachError(err, "job", job.Name)...)
		} else {
			p.logger.Debug("worker: job done", "job", job.Name, "bytes", len(data))
		}
		results <- result{index: i, artifact: Artifact{Name: job.Name, Data: data}, err: err}
	}
}
