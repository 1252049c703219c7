// Package scheduler provides job scheduling and worker pool management.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/geotier/solver/internal/scheduler/source"
	"github.com/geotier/solver/pkg/config"
	"github.com/geotier/solver/pkg/model"
	"github.com/geotier/solver/pkg/utils"
)

// TaskProcessor defines the interface for processing solve jobs.
type TaskProcessor interface {
	// Process processes a single job.
	Process(ctx context.Context, job *model.SolveJob) error
}

// SchedulerConfig holds scheduler configuration.
type SchedulerConfig struct {
	PollInterval  time.Duration // How often to poll for new jobs
	WorkerCount   int           // Number of concurrent workers
	PrioritySlots int           // Reserved slots for high priority jobs
	TaskBatchSize int           // Max jobs to fetch per poll
}

// DefaultSchedulerConfig returns default scheduler configuration.
func DefaultSchedulerConfig() *SchedulerConfig {
	return &SchedulerConfig{
		PollInterval:  2 * time.Second,
		WorkerCount:   5,
		PrioritySlots: 2,
		TaskBatchSize: 10,
	}
}

// FromConfig creates scheduler config from application config.
func FromConfig(cfg *config.SchedulerConfig) *SchedulerConfig {
	return &SchedulerConfig{
		PollInterval:  time.Duration(cfg.PollInterval) * time.Second,
		WorkerCount:   cfg.WorkerCount,
		PrioritySlots: cfg.PrioritySlots,
		TaskBatchSize: cfg.TaskBatchSize,
	}
}

// Scheduler manages solve-job scheduling and the worker pool.
type Scheduler struct {
	config    *SchedulerConfig
	processor TaskProcessor
	logger    utils.Logger

	// Source-based job fetching (Strategy Pattern)
	aggregator *source.Aggregator

	workerPool chan struct{}  // Semaphore for worker count
	jobQueue   chan *model.SolveJob
	wg         sync.WaitGroup // Wait group for workers

	running bool
	stopCh  chan struct{}
}

// New creates a new Scheduler with source aggregator.
func New(config *SchedulerConfig, aggregator *source.Aggregator, processor TaskProcessor, logger utils.Logger) *Scheduler {
	if config == nil {
		config = DefaultSchedulerConfig()
	}
	if logger == nil {
		logger = utils.NewDefaultLogger(utils.LevelInfo, nil)
	}

	return &Scheduler{
		config:     config,
		aggregator: aggregator,
		processor:  processor,
		logger:     logger,
		workerPool: make(chan struct{}, config.WorkerCount),
		jobQueue:   make(chan *model.SolveJob, config.TaskBatchSize*2),
		stopCh:     make(chan struct{}),
	}
}

// Start starts the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("Starting scheduler with %d workers", s.config.WorkerCount)

	s.running = true

	// Fill the worker-slot semaphore; processLoop takes a slot per job
	for i := 0; i < s.config.WorkerCount; i++ {
		s.workerPool <- struct{}{}
	}

	// Start the aggregator
	if err := s.aggregator.Start(ctx); err != nil {
		return err
	}

	// Start the source-based event loop
	go s.sourceEventLoop(ctx)

	// Start the job processing loop
	go s.processLoop(ctx)

	return nil
}

// Stop stops the scheduler gracefully.
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler...")
	s.running = false
	close(s.stopCh)

	// Wait for all workers to complete
	s.wg.Wait()
	s.logger.Info("Scheduler stopped")
}

// shouldAcceptJob determines if a job should be accepted based on priority.
func (s *Scheduler) shouldAcceptJob(priority int) bool {
	activeWorkers := s.config.WorkerCount - len(s.workerPool)
	reservedSlots := s.config.WorkerCount - s.config.PrioritySlots

	// High priority jobs can always be accepted if there's capacity
	if priority > 0 {
		return activeWorkers < s.config.WorkerCount
	}

	// Normal priority jobs can only use non-reserved slots
	return activeWorkers < reservedSlots
}

// processLoop processes queued jobs.
func (s *Scheduler) processLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case job := <-s.jobQueue:
			// Acquire a worker slot
			select {
			case <-s.workerPool:
				s.wg.Add(1)
				go s.processJob(ctx, job)
			case <-ctx.Done():
				return
			case <-s.stopCh:
				return
			}
		}
	}
}

// processJob processes a single job.
func (s *Scheduler) processJob(ctx context.Context, job *model.SolveJob) {
	defer func() {
		s.workerPool <- struct{}{} // Release worker slot
		s.wg.Done()
	}()

	s.logger.Info("Processing job %d (UUID: %s, SLA: %s)", job.ID, job.JobUUID, job.SLA)

	startTime := time.Now()
	err := s.processor.Process(ctx, job)
	duration := time.Since(startTime)

	if err != nil {
		s.logger.Error("Job %d failed after %v: %v", job.ID, duration, err)
		return
	}

	s.logger.Info("Job %d completed successfully in %v", job.ID, duration)
}

// sourceEventLoop receives job events from the aggregator and queues them for processing.
func (s *Scheduler) sourceEventLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case event, ok := <-s.aggregator.Tasks():
			if !ok {
				s.logger.Info("Aggregator channel closed")
				return
			}

			job := event.Job

			// Check if we should accept this job
			if !s.shouldAcceptJob(event.Priority) {
				s.logger.Debug("Skipping job %d due to priority constraints", job.ID)
				continue
			}

			// Queue the job
			select {
			case s.jobQueue <- job:
				s.logger.Info("Queued job %d (UUID: %s) from source %s/%s",
					job.ID, job.JobUUID, event.SourceType, event.SourceName)
			default:
				// Queue full: nack the event; the database source records
				// the job as failed with this reason
				s.logger.Warn("Job queue full, nacking job %d", job.ID)
				if err := s.aggregator.Nack(ctx, event, "job queue full"); err != nil {
					s.logger.Error("Failed to nack event: %v", err)
				}
			}
		}
	}
}

// Stats returns current scheduler statistics.
func (s *Scheduler) Stats() SchedulerStats {
	return SchedulerStats{
		ActiveWorkers: s.config.WorkerCount - len(s.workerPool),
		TotalWorkers:  s.config.WorkerCount,
		QueuedJobs:    len(s.jobQueue),
		Running:       s.running,
	}
}

// SchedulerStats holds scheduler statistics.
type SchedulerStats struct {
	ActiveWorkers int  `json:"active_workers"`
	TotalWorkers  int  `json:"total_workers"`
	QueuedJobs    int  `json:"queued_jobs"`
	Running       bool `json:"running"`
}
