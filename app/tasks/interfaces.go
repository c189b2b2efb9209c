package tasks

import (
	"context"

	"github.com/lysyi3m/trend-comb/app/ingest"
)

// TaskSchedulerInterface manages the background worker pool.
//
//	scheduler := NewScheduler(orchestrator, keywords, interval, workers)
//	scheduler.Start()
//	defer scheduler.Stop()
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}

// Searcher runs one ingestion pass. Implemented by *ingest.Orchestrator.
type Searcher interface {
	Search(ctx context.Context, keyword string) (*ingest.Response, error)
}
