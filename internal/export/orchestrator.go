package export

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cfraser/pageforge/internal/assets"
	"github.com/cfraser/pageforge/internal/config"
)

// Orchestrator owns the export worker pool and job registry. Exports run
// concurrently and independently; there is no cancellation and no mutual
// exclusion between jobs, each being a pure read of its own snapshot.
type Orchestrator struct {
	jobs     *JobStore
	queue    chan *Job
	resolver *assets.Resolver
	log      *slog.Logger
	cfg      config.Config
	stats    *Stats

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewOrchestrator(cfg config.Config, resolver *assets.Resolver, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:     NewJobStore(cfg.JobTTL),
		queue:    make(chan *Job, cfg.MaxQueueSize),
		resolver: resolver,
		log:      log,
		cfg:      cfg,
		stats:    NewStats(time.Hour),
	}
}

// Start launches worker goroutines and the job store janitor.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for i := 0; i < o.cfg.WorkerCount; i++ {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.resolver, o.log, o.stats, o.cfg.MaxConcurrentTranscode)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pool.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a new export job.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("export queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Stats returns the rolling export duration tracker.
func (o *Orchestrator) Stats() *Stats {
	return o.stats
}
