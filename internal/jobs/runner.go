package jobs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"climate-data-platform/internal/catalog"
	"climate-data-platform/internal/climate"
	"climate-data-platform/internal/metrics"
	"climate-data-platform/internal/store"
)

// Runner executes jobs on a bounded worker pool. Synthesis itself is a
// synchronous pure step inside the task; the runner only manages state
// transitions and concurrency.
type Runner struct {
	service *climate.Service
	catalog *catalog.Catalog
	files   *store.FileStore

	queue   chan string
	workers int

	mu   sync.RWMutex
	jobs map[string]*Job

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRunner creates a Runner with the given pool size and queue capacity.
func NewRunner(service *climate.Service, cat *catalog.Catalog, files *store.FileStore, workers, queueSize int) *Runner {
	if workers <= 0 {
		workers = 2
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Runner{
		service: service,
		catalog: cat,
		files:   files,
		queue:   make(chan string, queueSize),
		workers: workers,
		jobs:    make(map[string]*Job),
	}
}

// Start launches the worker pool.
func (r *Runner) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case id := <-r.queue:
					r.run(ctx, id)
				}
			}
		}()
	}
	log.Printf("jobs: started %d workers", r.workers)
}

// Stop cancels the workers and waits for in-flight jobs to finish their
// current task. Queued jobs that never ran stay in StateQueued.
func (r *Runner) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
}

// Submit validates the request shape, registers a queued job, and enqueues
// it. Semantic validation (dataset exists, variable supported, date parses)
// happens in the worker so a bad request yields a Failed job with a
// recorded reason, matching how an asynchronous pipeline reports errors.
func (r *Runner) Submit(req Request) (Job, error) {
	switch req.Kind {
	case KindExtract, KindAggregate:
	default:
		return Job{}, fmt.Errorf("%w: unknown job type %q", climate.ErrInvalidInput, req.Kind)
	}

	job := &Job{
		ID:          uuid.NewString(),
		Kind:        req.Kind,
		State:       StateQueued,
		Request:     req,
		SubmittedAt: time.Now().UTC(),
	}

	r.mu.Lock()
	r.jobs[job.ID] = job
	r.mu.Unlock()

	select {
	case r.queue <- job.ID:
	default:
		r.mu.Lock()
		delete(r.jobs, job.ID)
		r.mu.Unlock()
		return Job{}, ErrQueueFull
	}

	return *job, nil
}

// Get returns a snapshot of the job record.
func (r *Runner) Get(id string) (Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return Job{}, ErrNotFound
	}
	return *job, nil
}

func (r *Runner) run(ctx context.Context, id string) {
	r.mu.Lock()
	job, ok := r.jobs[id]
	if !ok {
		r.mu.Unlock()
		return
	}
	job.State = StateRunning
	job.StartedAt = time.Now().UTC()
	req := job.Request
	r.mu.Unlock()

	result, err := r.execute(ctx, req)

	r.mu.Lock()
	job.FinishedAt = time.Now().UTC()
	if err != nil {
		job.State = StateFailed
		job.Error = err.Error()
		log.Printf("jobs: %s %s failed: %v", job.Kind, job.ID, err)
	} else {
		job.State = StateCompleted
		job.Result = &result
	}
	state := job.State
	started := job.StartedAt
	finished := job.FinishedAt
	r.mu.Unlock()

	metrics.JobsTotal.WithLabelValues(string(state)).Inc()
	metrics.JobDurationMs.Observe(float64(finished.Sub(started).Milliseconds()))
}

func (r *Runner) execute(ctx context.Context, req Request) (Result, error) {
	if _, err := r.catalog.Get(req.DatasetID); err != nil {
		return Result{}, fmt.Errorf("dataset %q: %w", req.DatasetID, err)
	}
	if !r.catalog.SupportsVariable(req.DatasetID, req.Variable) {
		return Result{}, fmt.Errorf("dataset %q does not provide variable %q", req.DatasetID, req.Variable)
	}

	date, err := climate.ParseDate(req.Date)
	if err != nil {
		return Result{}, err
	}

	switch req.Kind {
	case KindExtract:
		doc, err := r.service.GenerateAndStore(ctx, req.Variable, date)
		if err != nil {
			return Result{}, err
		}
		res := Result{}
		if r.files != nil {
			res.OutputPath = r.files.Path(doc.Variable, doc.Date)
		}
		return res, nil

	case KindAggregate:
		summary, err := r.summarize(ctx, req, date)
		if err != nil {
			return Result{}, err
		}
		return Result{Summary: &summary}, nil

	default:
		return Result{}, fmt.Errorf("unknown job type %q", req.Kind)
	}
}

// summarize computes the regional summary, generating the field first if it
// has not been extracted yet.
func (r *Runner) summarize(ctx context.Context, req Request, date time.Time) (climate.FieldSummary, error) {
	summary, err := r.service.Summary(req.Variable, req.Date, req.Bounds)
	if err == nil {
		return summary, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return climate.FieldSummary{}, err
	}

	if _, err := r.service.GenerateAndStore(ctx, req.Variable, date); err != nil {
		return climate.FieldSummary{}, err
	}
	return r.service.Summary(req.Variable, req.Date, req.Bounds)
}
