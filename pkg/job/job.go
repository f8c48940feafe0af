package job

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"
)

// Job is a function run every Interval. A run that lasts longer than Timeout is
// cancelled; a zero Timeout means the run may take up to Interval.
type Job struct {
	Name     string
	Interval time.Duration
	Timeout  time.Duration
	Run      func(ctx context.Context) error
}

func (j Job) timeout() time.Duration {
	if j.Timeout > 0 {
		return j.Timeout
	}

	return j.Interval
}

// Scheduler runs registered jobs in their own goroutines. Runs of one job never overlap.
type Scheduler struct {
	jobs   []Job
	wg     sync.WaitGroup
	cancel context.CancelFunc
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		cancel: func() {},
	}
}

func (s *Scheduler) Register(j Job) *Scheduler {
	return s.TryRegister(true, j)
}

// TryRegister skips the job when it is disabled or has no interval.
func (s *Scheduler) TryRegister(isEnabled bool, j Job) *Scheduler {
	if !isEnabled || j.Interval <= 0 || j.Run == nil {
		slog.Info("job is disabled", "job", j.Name)
		return s
	}

	s.jobs = append(s.jobs, j)

	return s
}

// Start runs every job once right away and then on its interval until ctx is done or Stop is called.
func (s *Scheduler) Start(ctx context.Context) *Scheduler {
	ctx, s.cancel = context.WithCancel(ctx)

	for _, j := range s.jobs {
		s.wg.Add(1)

		go s.loop(ctx, j)
	}

	return s
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, j Job) {
	defer s.wg.Done()

	l := slog.Default().With("job", j.Name)

	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()

	for {
		start := time.Now()

		err := runOnce(ctx, j)
		if err != nil {
			l.ErrorContext(ctx, "job failed", "error", err, "took", time.Since(start).String())
		} else {
			l.DebugContext(ctx, "job done", "took", time.Since(start).String())
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func runOnce(ctx context.Context, j Job) (err error) {
	ctx, cancel := context.WithTimeout(ctx, j.timeout())
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "job panic", "job", j.Name, "stack", string(debug.Stack()))
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	return j.Run(ctx)
}
