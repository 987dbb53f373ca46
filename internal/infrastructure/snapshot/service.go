// Package snapshot debounces workspace state writes: mutations mark the
// service dirty, a timer coalesces bursts into one write, and Flush
// forces a synchronous save.
package snapshot

import (
	"context"
	"sync"
	"time"

	"github.com/weftwork/weft/internal/application/port"
	"github.com/weftwork/weft/internal/application/usecase"
	"github.com/weftwork/weft/internal/logging"
)

// Service handles debounced workspace state snapshots. The state machine
// is clean → dirty (MarkDirty) → scheduled (timer armed) → clean (write
// done); marking dirty while scheduled rearms the timer.
type Service struct {
	snapshotUC *usecase.SnapshotWorkspaceUseCase
	provider   port.WorkspaceProvider
	clock      port.Clock
	interval   time.Duration

	mu     sync.Mutex
	timer  port.Timer
	dirty  bool
	ctx    context.Context
	cancel context.CancelFunc
}

// NewService creates a new snapshot service.
func NewService(
	snapshotUC *usecase.SnapshotWorkspaceUseCase,
	provider port.WorkspaceProvider,
	clock port.Clock,
	intervalMs int,
) *Service {
	if intervalMs <= 0 {
		intervalMs = 500 // Default debounce window
	}
	return &Service{
		snapshotUC: snapshotUC,
		provider:   provider,
		clock:      clock,
		interval:   time.Duration(intervalMs) * time.Millisecond,
	}
}

// Start begins watching for dirty state.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ctx, s.cancel = context.WithCancel(ctx)
	logging.FromContext(ctx).Debug().Dur("interval", s.interval).Msg("snapshot service started")
}

// Stop stops the service and saves final state.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	return s.Flush(ctx)
}

// MarkDirty signals that workspace state changed. Rapid successive calls
// collapse into a single write once the debounce window elapses.
func (s *Service) MarkDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dirty = true

	if s.timer != nil {
		s.timer.Stop()
	}

	s.timer = s.clock.AfterFunc(s.interval, func() {
		s.mu.Lock()
		ctx := s.ctx
		s.mu.Unlock()

		if ctx == nil {
			return
		}

		if err := s.saveSnapshot(ctx); err != nil {
			logging.FromContext(ctx).Error().Err(err).Msg("failed to save workspace snapshot")
		}
	})
}

// Flush forces an immediate synchronous write from any state, bypassing
// the timer. A clean service writes nothing.
func (s *Service) Flush(ctx context.Context) error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	dirty := s.dirty
	s.mu.Unlock()

	if !dirty {
		return nil
	}

	return s.saveSnapshot(ctx)
}

func (s *Service) saveSnapshot(ctx context.Context) error {
	s.mu.Lock()
	s.dirty = false
	s.mu.Unlock()

	ws := s.provider.GetWorkspace()
	if ws == nil {
		return nil
	}

	_, err := s.snapshotUC.Execute(ctx, usecase.SnapshotInput{Workspace: ws})
	return err
}
