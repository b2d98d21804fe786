// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package parallel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"hintscan/internal/detector"
	"hintscan/internal/fuzzy"
	"hintscan/internal/observability"
	"hintscan/internal/source"
)

// DefaultJobTimeout bounds a single document
const DefaultJobTimeout = 5 * time.Minute

// Output is what a Handler produces for one document
type Output struct {
	Candidates []detector.Candidate
	Entities   *fuzzy.EntityMatchResult
}

// Handler processes one document. It must be safe for concurrent use.
type Handler func(ctx context.Context, doc *source.Document) (Output, error)

// WorkerPool runs a Handler over submitted documents
type WorkerPool struct {
	workers int
	jobs    chan *Job
	results chan *Result
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc

	handler  Handler
	timeout  time.Duration
	observer *observability.StandardObserver
}

// Job represents a document processing task
type Job struct {
	JobID    string
	Index    int
	Document *source.Document
}

// Result represents processing results
type Result struct {
	JobID    string
	Index    int
	Document *source.Document
	Output
	Error    error
	Duration time.Duration
}

// NewWorkerPool creates a worker pool bound to ctx
func NewWorkerPool(ctx context.Context, workers int, handler Handler, observer *observability.StandardObserver) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(ctx)
	return &WorkerPool{
		workers:  workers,
		jobs:     make(chan *Job, workers*2),
		results:  make(chan *Result, workers*2),
		ctx:      ctx,
		cancel:   cancel,
		handler:  handler,
		timeout:  DefaultJobTimeout,
		observer: observer,
	}
}

// Start initializes worker goroutines
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop waits for the workers to drain the job queue, then closes the
// results channel. Call it after the job channel has been closed.
func (wp *WorkerPool) Stop() {
	wp.wg.Wait()
	close(wp.results)
	wp.cancel()
}

// Submit adds a job to the queue. It reports false once the pool's
// context is done.
func (wp *WorkerPool) Submit(job *Job) bool {
	select {
	case wp.jobs <- job:
		return true
	case <-wp.ctx.Done():
		return false
	}
}

// Close signals that no more jobs will be submitted
func (wp *WorkerPool) Close() {
	close(wp.jobs)
}

// Results returns the results channel
func (wp *WorkerPool) Results() <-chan *Result {
	return wp.results
}

// worker processes jobs until the queue is closed. Jobs taken after the
// context ends are answered with the context error so every job yields a
// result.
func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for job := range wp.jobs {
		var result *Result
		if err := wp.ctx.Err(); err != nil {
			result = &Result{JobID: job.JobID, Index: job.Index, Document: job.Document, Error: err}
		} else {
			result = wp.processJob(job, id)
		}
		wp.results <- result
	}
}

// processJob runs the handler with a timeout and turns panics into errors
func (wp *WorkerPool) processJob(job *Job, workerID int) (result *Result) {
	start := time.Now()
	finishTiming := wp.observer.StartTiming("worker_pool", "process_job", job.Document.Name)

	result = &Result{JobID: job.JobID, Index: job.Index, Document: job.Document}
	defer func() {
		if r := recover(); r != nil {
			result.Error = fmt.Errorf("job %s panicked: %v", job.JobID, r)
		}
		result.Duration = time.Since(start)
		finishTiming(result.Error == nil, map[string]interface{}{
			"worker_id":      workerID,
			"content_length": len(job.Document.Text),
			"match_count":    len(result.Candidates),
			"duration_ms":    result.Duration.Milliseconds(),
			"had_error":      result.Error != nil,
		})
	}()

	jobCtx, cancel := context.WithTimeout(wp.ctx, wp.timeout)
	defer cancel()

	out, err := wp.handler(jobCtx, job.Document)
	if err != nil {
		result.Error = fmt.Errorf("%s: %w", job.Document.Name, err)
		return result
	}
	result.Output = out
	return result
}
