// Package scheduler runs named background jobs on fixed intervals.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Scheduler wraps a cron instance. Runs of the same job never overlap.
type Scheduler struct {
	cron    *cron.Cron
	entries map[string]cron.EntryID
	mu      sync.RWMutex
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	log     *logrus.Entry
}

func NewScheduler(log *logrus.Entry) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	c := cron.New(cron.WithChain(
		cron.Recover(cron.PrintfLogger(log)),
		cron.SkipIfStillRunning(cron.DiscardLogger),
	))
	c.Start()

	return &Scheduler{
		cron:    c,
		entries: make(map[string]cron.EntryID),
		ctx:     ctx,
		cancel:  cancel,
		log:     log,
	}
}

// Add schedules job and runs it once immediately. A job with the same name
// is replaced.
func (s *Scheduler) Add(job Job) error {
	if job.Interval <= 0 {
		return fmt.Errorf("job %s: interval must be positive", job.Name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx.Err() != nil {
		return fmt.Errorf("job %s: scheduler stopped", job.Name)
	}

	if existing, exists := s.entries[job.Name]; exists {
		s.cron.Remove(existing)
	}

	// @every rounds sub-second intervals up to one second
	id, err := s.cron.AddFunc(fmt.Sprintf("@every %s", job.Interval), func() { s.execute(job) })
	if err != nil {
		return fmt.Errorf("job %s: %w", job.Name, err)
	}
	s.entries[job.Name] = id

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.execute(job)
	}()

	s.log.WithFields(logrus.Fields{"job": job.Name, "interval": job.Interval.String()}).Info("Scheduled job")
	return nil
}

func (s *Scheduler) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, exists := s.entries[name]; exists {
		s.cron.Remove(id)
		delete(s.entries, name)
	}
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.cancel()
	s.entries = make(map[string]cron.EntryID)
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	s.wg.Wait()

	s.log.Info("Scheduler stopped")
}

func (s *Scheduler) Status() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}

	return map[string]interface{}{
		"jobs":    names,
		"running": s.ctx.Err() == nil,
	}
}

func (s *Scheduler) execute(job Job) {
	if s.ctx.Err() != nil {
		return
	}

	start := time.Now()
	err := job.Run(s.ctx)

	entry := s.log.WithFields(logrus.Fields{"job": job.Name, "duration": time.Since(start).String()})

	if err != nil && s.ctx.Err() == nil {
		entry.WithError(err).Warn("Job failed")
		return
	}

	entry.Debug("Job finished")
}
