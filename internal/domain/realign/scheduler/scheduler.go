package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// RealignProcessor defines the interface for running a realignment pass
type RealignProcessor interface {
	ProcessScheduledRealign(ctx context.Context) error
}

// Scheduler drives periodic realignment runs. Runs are strictly
// sequential: a tick that arrives while a pass is still executing waits
// for the next interval (single-writer assumption over the post store).
type Scheduler struct {
	processor RealignProcessor
	interval  time.Duration
	logger    *slog.Logger
	stopCh    chan struct{}
	wg        sync.WaitGroup
	running   bool
	mu        sync.Mutex
}

// New creates a new realignment scheduler
func New(processor RealignProcessor, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		processor: processor,
		interval:  interval,
		logger:    logger,
		stopCh:    make(chan struct{}),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.logger.Info("realignment scheduler started", "interval", s.interval)

	s.wg.Add(1)
	go s.run(ctx)
}

// Stop stops the scheduler and waits for an in-flight pass to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()
	s.logger.Info("realignment scheduler stopped")
}

// run is the main scheduler loop
func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Run immediately on start
	s.process(ctx)

	for {
		select {
		case <-ticker.C:
			s.process(ctx)
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// process runs one realignment pass
func (s *Scheduler) process(ctx context.Context) {
	s.logger.Debug("running scheduled realignment")

	if err := s.processor.ProcessScheduledRealign(ctx); err != nil {
		s.logger.Error("scheduled realignment failed", "error", err)
	}
}
