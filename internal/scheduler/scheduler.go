package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/wonny/trendlab/backend/pkg/logger"
)

// Job is a named unit of scheduled work.
type Job interface {
	// Name identifies the job in logs and run history.
	Name() string

	// Schedule is a cron expression with seconds.
	Schedule() string

	// Run executes the job. Errors are logged and recorded, never fatal
	// to the scheduler.
	Run(ctx context.Context) error
}

// RunRecord is one job execution outcome kept in the in-memory history.
type RunRecord struct {
	Job        string        `json:"job"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration"`
	Error      string        `json:"error,omitempty"`
	Successful bool          `json:"successful"`
}

// historyLimit bounds the in-memory run history.
const historyLimit = 100

// Scheduler runs registered jobs on their cron schedules.
type Scheduler struct {
	cron *cron.Cron
	log  *logger.Logger

	mu      sync.Mutex
	history []RunRecord
}

// New creates a scheduler. Cron expressions include a seconds field.
func New(log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds()),
		log:  log.WithComponent("scheduler"),
	}
}

// AddJob registers a job with its schedule.
func (s *Scheduler) AddJob(job Job) error {
	_, err := s.cron.AddFunc(job.Schedule(), func() {
		s.runJob(job)
	})
	if err != nil {
		return fmt.Errorf("add job %s: %w", job.Name(), err)
	}

	s.log.WithFields(map[string]interface{}{
		"job":      job.Name(),
		"schedule": job.Schedule(),
	}).Info("Job registered")
	return nil
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("Scheduler started")
}

// Stop halts scheduling and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("Scheduler stopped")
}

// History returns a copy of the recent run records, newest first.
func (s *Scheduler) History() []RunRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]RunRecord, len(s.history))
	copy(out, s.history)
	return out
}

func (s *Scheduler) runJob(job Job) {
	start := time.Now()
	log := s.log.WithField("job", job.Name())
	log.Info("Job started")

	err := job.Run(context.Background())

	record := RunRecord{
		Job:        job.Name(),
		StartedAt:  start,
		Duration:   time.Since(start),
		Successful: err == nil,
	}
	if err != nil {
		record.Error = err.Error()
		log.WithError(err).Error("Job failed")
	} else {
		log.WithField("duration", record.Duration).Info("Job completed")
	}

	s.mu.Lock()
	s.history = append([]RunRecord{record}, s.history...)
	if len(s.history) > historyLimit {
		s.history = s.history[:historyLimit]
	}
	s.mu.Unlock()
}
