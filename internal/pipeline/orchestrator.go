package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Theubaa/Pdf-Vectorizer/internal/config"
	"github.com/Theubaa/Pdf-Vectorizer/internal/embed"
	"github.com/Theubaa/Pdf-Vectorizer/internal/storage"
	"github.com/Theubaa/Pdf-Vectorizer/internal/vecstore"
)

// jobCleanupInterval is how often expired jobs are swept from the store.
const jobCleanupInterval = 5 * time.Minute

// Orchestrator owns the job store, the work queue, and the worker pool
// that drains it.
type Orchestrator struct {
	jobs     *JobStore
	queue    chan *Job
	worker   *Worker
	provider embed.Provider
	vec      *vecstore.Client
	stats    *embed.Stats
	log      *slog.Logger
	cfg      config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline. provider and vec may be nil
// when embeddings are disabled; jobs then finish after artifact
// persistence.
func NewOrchestrator(cfg config.Config, store *storage.Store, provider embed.Provider, vec *vecstore.Client, log *slog.Logger) *Orchestrator {
	stats := embed.NewStats(time.Hour)
	return &Orchestrator{
		jobs:     NewJobStore(cfg.JobTTL),
		queue:    make(chan *Job, cfg.MaxQueueSize),
		worker:   NewWorker(store, provider, vec, stats, log, cfg.MaxConcurrentEmbed),
		provider: provider,
		vec:      vec,
		stats:    stats,
		log:      log,
		cfg:      cfg,
	}
}

// Start launches the worker pool and the job store janitor.
func (o *Orchestrator) Start(ctx context.Context) {
	ctx, o.cancel = context.WithCancel(ctx)

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go o.drainQueue(ctx)
	}

	o.wg.Add(1)
	go o.sweepJobs(ctx)
}

func (o *Orchestrator) drainQueue(ctx context.Context) {
	defer o.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-o.queue:
			if !ok {
				return
			}
			o.worker.Process(ctx, job)
		}
	}
}

func (o *Orchestrator) sweepJobs(ctx context.Context) {
	defer o.wg.Done()
	ticker := time.NewTicker(jobCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.jobs.Cleanup()
		}
	}
}

// Stop cancels in-flight work and waits for the pool to exit.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit registers the job and enqueues it without blocking. A full
// queue fails the job immediately so the caller can surface backpressure.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID, or nil if unknown or expired.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns the number of jobs waiting for a worker.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Provider returns the embedding provider, or nil when disabled.
func (o *Orchestrator) Provider() embed.Provider {
	return o.provider
}

// VectorStore returns the Supabase client, or nil when disabled.
func (o *Orchestrator) VectorStore() *vecstore.Client {
	return o.vec
}

// EmbedStats returns the embedding latency tracker.
func (o *Orchestrator) EmbedStats() *embed.Stats {
	return o.stats
}
