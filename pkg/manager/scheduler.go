package manager

import (
	"context"
	"errors"
	"time"

	"github.com/kasuboski/snatcher/pkg/cache"
	"github.com/kasuboski/snatcher/pkg/logger"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	CheckSnatchedJob = "check_snatched"
	CleanDoneJob     = "clean_done"
)

// Job is a task the scheduler runs every Interval
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Scheduler runs jobs on cron schedules. A job still running when its next tick comes is skipped.
type Scheduler struct {
	cron        *cron.Cron
	jobs        []Job
	runningJobs *cache.Cache[string, context.CancelFunc]
}

func NewScheduler(jobs ...Job) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		jobs:        jobs,
		runningJobs: cache.New[string, context.CancelFunc](),
	}
}

// Jobs returns the periodic work of the release manager. Snatched releases are only checked when
// the organizer can pick up what finished.
func (m *ReleaseManager) Jobs(checkSnatched, cleanDone time.Duration) []Job {
	jobs := make([]Job, 0, 2)

	if m.organizer.Enabled() && checkSnatched > 0 {
		jobs = append(jobs, Job{
			Name:     CheckSnatchedJob,
			Interval: checkSnatched,
			Run: func(ctx context.Context) error {
				err := m.CheckSnatched(ctx)
				if errors.Is(err, ErrCheckInProgress) {
					return nil
				}
				return err
			},
		})
	}

	if cleanDone > 0 {
		jobs = append(jobs, Job{
			Name:     CleanDoneJob,
			Interval: cleanDone,
			Run:      m.CleanDone,
		})
	}

	return jobs
}

// Start schedules every job and blocks until ctx is done, then cancels running jobs
func (s *Scheduler) Start(ctx context.Context) error {
	log := logger.FromCtx(ctx)

	for _, job := range s.jobs {
		s.cron.Schedule(cron.Every(job.Interval), cron.FuncJob(func() {
			s.Run(ctx, job)
		}))
		log.Debugw("scheduled job", "job", job.Name, "interval", job.Interval)
	}

	s.cron.Start()
	<-ctx.Done()

	s.Stop(context.WithoutCancel(ctx))
	return nil
}

// Run executes a job now unless it is already running
func (s *Scheduler) Run(ctx context.Context, job Job) {
	log := logger.FromCtx(ctx).With("job", job.Name)

	jobCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if !s.runningJobs.SetIfAbsent(job.Name, cancel) {
		log.Debug("job already running, skipping")
		return
	}
	defer s.runningJobs.Delete(job.Name)

	start := time.Now()
	if err := job.Run(jobCtx); err != nil {
		if errors.Is(jobCtx.Err(), context.Canceled) {
			log.Info("job cancelled")
			return
		}
		log.Errorw("job failed", zap.Error(err))
		return
	}

	log.Debugw("job completed", "duration", time.Since(start))
}

// Stop cancels running jobs and waits for them to return
func (s *Scheduler) Stop(ctx context.Context) {
	for _, cancel := range s.runningJobs.Values() {
		cancel()
	}

	<-s.cron.Stop().Done()
	logger.FromCtx(ctx).Debug("scheduler stopped")
}

// Running lists the jobs currently running
func (s *Scheduler) Running() []string {
	return s.runningJobs.Keys()
}
