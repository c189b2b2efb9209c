package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const (
	queueSize   = 100
	taskTimeout = 5 * time.Minute
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

// Scheduler re-runs searches for tracked keywords on a fixed interval.
// Failed tasks are logged and not retried.
type Scheduler struct {
	searcher    Searcher
	keywords    []string
	interval    time.Duration
	workerCount int
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	taskQueue   chan TaskInterface
}

func NewScheduler(searcher Searcher, keywords []string, interval time.Duration, workerCount int) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	if workerCount < 1 {
		workerCount = 1
	}

	return &Scheduler{
		searcher:    searcher,
		keywords:    keywords,
		interval:    interval,
		workerCount: workerCount,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, queueSize),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueTasks()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

// EnqueueTask returns the context error once the scheduler is stopped.
// The queue is never closed, so late callers cannot panic on send.
func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	if err := s.ctx.Err(); err != nil {
		return err
	}

	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) enqueueTasks() {
	if len(s.keywords) == 0 {
		slog.Debug("No tracked keywords configured")
		return
	}

	slog.Debug("Scheduling tracked keyword searches", "count", len(s.keywords))

	for _, keyword := range s.keywords {
		task := NewSearchKeywordTask(keyword, s.searcher)
		if err := s.EnqueueTask(task); err != nil {
			slog.Warn("Failed to enqueue SearchKeywordTask", "keyword", keyword, "error", err)
		}
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task := <-s.taskQueue:
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, taskTimeout)
	defer cancel()

	if err := task.Execute(taskCtx); err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()),
			"id", task.GetID(), "keyword", task.GetKeyword(), "error", err)
	}
}
