package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/actorcontext"
	billingdomain "github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/billing/domain"
	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/clock"
	obsmetrics "github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/observability/metrics"
	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	ErrUnknownTask   = errors.New("unknown_task")
	ErrInvalidConfig = errors.New("scheduler: invalid configuration")
)

const (
	triggerScheduled = "scheduled"
	triggerManual    = "manual"
)

// Handler is one job body. Handlers own their transactional guarantees; the
// scheduler only sequences, times and reports them.
type Handler func(ctx context.Context) (billingdomain.JobResult, error)

// job pairs a handler with its schedule. The per-job mutex serializes a
// manual RunNow against a concurrently firing scheduled run of the same job;
// distinct jobs still run independently.
type job struct {
	name       string
	spec       string
	runOnStart bool
	handler    Handler

	mu      sync.Mutex
	entryID cron.EntryID
}

// TaskStatus is the operational view of a registered job.
type TaskStatus struct {
	Name      string     `json:"name"`
	Spec      string     `json:"spec"`
	Scheduled bool       `json:"scheduled"`
	NextRun   *time.Time `json:"next_run,omitempty"`
}

type Params struct {
	fx.In

	Log        *zap.Logger
	Clock      clock.Clock
	BillingSvc billingdomain.Service
	Metrics    *obsmetrics.SchedulerMetrics
	Config     Config `optional:"true"`
}

// Scheduler owns the registry of recurring jobs and their lifecycle. It is
// constructed once at process start; anything needing manual control holds
// the same instance.
type Scheduler struct {
	log     *zap.Logger
	clock   *timeSource
	metrics *obsmetrics.SchedulerMetrics

	mu      sync.Mutex
	cron    *cron.Cron
	jobs    []*job
	byName  map[string]*job
	running bool
}

// timeSource adapts the injected clock for duration measurement.
type timeSource struct {
	clock clock.Clock
}

func (t *timeSource) Now() time.Time { return t.clock.Now() }

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.Clock == nil || p.BillingSvc == nil || p.Metrics == nil {
		return nil, ErrInvalidConfig
	}
	cfg := p.Config.withDefaults()

	s := &Scheduler{
		log:     p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		clock:   &timeSource{clock: p.Clock},
		metrics: p.Metrics,
		byName:  make(map[string]*job),
	}
	s.register(JobBillStatus, cfg.BillStatusSpec, cfg.RunOnStart, p.BillingSvc.RunBillStatus)
	s.register(JobAccrualCycle, cfg.AccrualCycleSpec, cfg.RunOnStart, p.BillingSvc.RunAccrualCycle)
	s.register(JobLeaseExpiry, cfg.LeaseExpirySpec, cfg.RunOnStart, p.BillingSvc.RunLeaseExpiry)
	return s, nil
}

const (
	JobBillStatus   = "bill_status"
	JobAccrualCycle = "accrual_cycle"
	JobLeaseExpiry  = "lease_expiry"
)

func (s *Scheduler) register(name, spec string, runOnStart bool, handler Handler) {
	j := &job{name: name, spec: spec, runOnStart: runOnStart, handler: handler}
	s.jobs = append(s.jobs, j)
	s.byName[name] = j
}

// StartAll schedules every registered job. Calling it while already running
// is a logged no-op.
func (s *Scheduler) StartAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.log.Info("start requested while already running")
		return nil
	}

	c := cron.New()
	for _, j := range s.jobs {
		j := j
		entryID, err := c.AddFunc(j.spec, func() {
			s.invoke(context.Background(), j, triggerScheduled)
		})
		if err != nil {
			return fmt.Errorf("schedule %s (%q): %w", j.name, j.spec, err)
		}
		j.entryID = entryID
	}
	s.cron = c
	s.running = true
	c.Start()

	for _, j := range s.jobs {
		if !j.runOnStart {
			continue
		}
		go s.invoke(ctx, j, triggerScheduled)
	}

	s.log.Info("scheduler started", zap.Int("jobs", len(s.jobs)))
	return nil
}

// StopAll cancels all scheduled triggers. Idempotent; a run already in
// flight finishes on its own.
func (s *Scheduler) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.cron.Stop()
	s.cron = nil
	s.running = false
	for _, j := range s.jobs {
		j.entryID = 0
	}
	s.log.Info("scheduler stopped")
}

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Status reports each job's schedule and whether it is currently armed.
func (s *Scheduler) Status() []TaskStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	statuses := make([]TaskStatus, 0, len(s.jobs))
	for _, j := range s.jobs {
		status := TaskStatus{
			Name:      j.name,
			Spec:      j.spec,
			Scheduled: s.running,
		}
		if s.running && s.cron != nil {
			entry := s.cron.Entry(j.entryID)
			if !entry.Next.IsZero() {
				next := entry.Next
				status.NextRun = &next
			}
		}
		statuses = append(statuses, status)
	}
	return statuses
}

// RunNow invokes a job outside its schedule and returns the handler's
// result. Unknown names fail with ErrUnknownTask.
func (s *Scheduler) RunNow(ctx context.Context, name string) (billingdomain.JobResult, error) {
	s.mu.Lock()
	j, ok := s.byName[name]
	s.mu.Unlock()
	if !ok {
		return billingdomain.JobResult{}, fmt.Errorf("%w: %s", ErrUnknownTask, name)
	}
	return s.invoke(ctx, j, triggerManual)
}

// invoke wraps one execution with the per-job lock, panic containment,
// metrics and logging. A handler failure never crashes the scheduler or
// blocks the next run.
func (s *Scheduler) invoke(ctx context.Context, j *job, trigger string) (result billingdomain.JobResult, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if trigger == triggerScheduled {
		ctx = actorcontext.WithActor(ctx, actorcontext.System())
	}
	log := s.log.With(
		zap.String("job", j.name),
		zap.String("trigger", trigger),
	)
	start := s.clock.Now()
	s.metrics.IncJobRun(j.name, trigger)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic: %v", j.name, r)
			s.metrics.IncJobError(j.name)
			log.Error("job panicked", zap.Any("panic", r))
		}
		s.metrics.ObserveJobDuration(j.name, s.clock.Now().Sub(start))
	}()

	result, err = j.handler(ctx)
	if err != nil {
		s.metrics.IncJobError(j.name)
		log.Error("job failed", zap.Error(err))
		return billingdomain.JobResult{}, fmt.Errorf("%s: %w", j.name, err)
	}

	s.metrics.AddRowsUpdated(j.name, int(result.UpdatedCount))
	log.Info("job completed",
		zap.Int64("updated", result.UpdatedCount),
		zap.Int64("execution_time_ms", result.ExecutionTimeMs),
	)
	return result, nil
}
