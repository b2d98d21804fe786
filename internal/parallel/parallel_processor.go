// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package parallel

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"hintscan/internal/observability"
	"hintscan/internal/source"
)

// MaxWorkers caps the default worker count
const MaxWorkers = 8

// ParallelProcessor manages parallel document processing
type ParallelProcessor struct {
	workers  int
	observer *observability.StandardObserver
}

// ProcessingStats tracks parallel processing statistics
type ProcessingStats struct {
	TotalDocuments     int           `json:"total_documents" yaml:"total_documents"`
	ProcessedDocuments int           `json:"processed_documents" yaml:"processed_documents"`
	FailedDocuments    int           `json:"failed_documents" yaml:"failed_documents"`
	TotalCandidates    int           `json:"total_candidates" yaml:"total_candidates"`
	TotalEntities      int           `json:"total_entities" yaml:"total_entities"`
	TotalDuration      time.Duration `json:"total_duration_ns" yaml:"total_duration_ns"`
	WorkerCount        int           `json:"worker_count" yaml:"worker_count"`
	AvgDocumentTime    time.Duration `json:"avg_document_time_ns" yaml:"avg_document_time_ns"`
}

// DefaultWorkers is the CPU count capped at MaxWorkers
func DefaultWorkers() int {
	return min(runtime.NumCPU(), MaxWorkers)
}

// NewParallelProcessor creates a processor with the given worker count;
// zero or less selects DefaultWorkers
func NewParallelProcessor(workers int, observer *observability.StandardObserver) *ParallelProcessor {
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	return &ParallelProcessor{workers: workers, observer: observer}
}

// Workers reports the worker count
func (pp *ParallelProcessor) Workers() int {
	return pp.workers
}

// ProgressCallback is called when a document is completed
type ProgressCallback func(completed, total int, current string)

// ProcessDocuments runs handler over docs in parallel. Results are in the
// order of docs; per-document failures are reported in Result.Error and
// counted in the stats. The returned error is set only when ctx ends
// before every document was handled.
func (pp *ParallelProcessor) ProcessDocuments(ctx context.Context, docs []*source.Document, handler Handler, progress ProgressCallback) ([]*Result, *ProcessingStats, error) {
	start := time.Now()
	finishTiming := pp.observer.StartTiming("parallel_processor", "process_documents", "batch")

	workers := min(pp.workers, max(len(docs), 1))
	pool := NewWorkerPool(ctx, workers, handler, pp.observer)
	pool.Start()

	// Submit jobs in a separate goroutine to prevent deadlock
	go func() {
		defer pool.Stop()
		defer pool.Close()
		for i, doc := range docs {
			if !pool.Submit(&Job{JobID: fmt.Sprintf("job_%d", i), Index: i, Document: doc}) {
				return
			}
		}
	}()

	results := make([]*Result, len(docs))
	stats := &ProcessingStats{TotalDocuments: len(docs), WorkerCount: workers}
	var busy time.Duration
	completed := 0

	for result := range pool.Results() {
		results[result.Index] = result
		completed++
		busy += result.Duration

		if result.Error != nil {
			stats.FailedDocuments++
			pp.observer.LogOperation(observability.StandardObservabilityData{
				Component: "parallel_processor",
				Operation: "document_processing",
				Source:    result.Document.Name,
				Success:   false,
				Error:     result.Error.Error(),
			})
		} else {
			stats.ProcessedDocuments++
			stats.TotalCandidates += len(result.Candidates)
			if result.Entities != nil {
				stats.TotalEntities += len(result.Entities.Organizations) + len(result.Entities.Facilities)
			}
		}

		if progress != nil {
			progress(completed, len(docs), result.Document.Name)
		}
	}

	stats.TotalDuration = time.Since(start)
	stats.AvgDocumentTime = busy / time.Duration(max(completed, 1))

	finishTiming(true, map[string]interface{}{
		"total_documents":     stats.TotalDocuments,
		"processed_documents": stats.ProcessedDocuments,
		"match_count":         stats.TotalCandidates,
		"worker_count":        workers,
		"duration_ms":         stats.TotalDuration.Milliseconds(),
	})

	if completed < len(docs) {
		if err := ctx.Err(); err != nil {
			return results, stats, fmt.Errorf("batch interrupted after %d of %d documents: %w", completed, len(docs), err)
		}
	}
	return results, stats, nil
}
