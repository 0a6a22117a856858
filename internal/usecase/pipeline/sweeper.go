package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/meetscribe/meetscribe/internal/domain/entities"
	"github.com/meetscribe/meetscribe/internal/domain/repositories"
)

// Sweeper reconciles meetings stuck in "processing". A run whose failure
// write itself failed leaves the meeting in that state forever; the sweeper
// flips anything older than the threshold to "failed".
type Sweeper struct {
	meetingRepo repositories.MeetingRepository
	stuckAfter  time.Duration
	interval    time.Duration
	stopChan    chan struct{}
	doneChan    chan struct{}
	logger      *zap.Logger
}

// NewSweeper creates a sweeper
func NewSweeper(meetingRepo repositories.MeetingRepository, stuckAfter, interval time.Duration, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		meetingRepo: meetingRepo,
		stuckAfter:  stuckAfter,
		interval:    interval,
		stopChan:    make(chan struct{}),
		doneChan:    make(chan struct{}),
		logger:      logger,
	}
}

// Start runs the sweep loop until Stop is called
func (s *Sweeper) Start() {
	go func() {
		defer close(s.doneChan)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.SweepOnce(context.Background())
			case <-s.stopChan:
				return
			}
		}
	}()

	if s.logger != nil {
		s.logger.Info("🧹 Stuck-meeting sweeper started",
			zap.Duration("stuck_after", s.stuckAfter),
			zap.Duration("interval", s.interval),
		)
	}
}

// SweepOnce marks every stuck meeting as failed and returns how many it fixed
func (s *Sweeper) SweepOnce(ctx context.Context) int {
	cutoff := time.Now().Add(-s.stuckAfter)

	stuck, err := s.meetingRepo.FindStuckProcessing(ctx, cutoff)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("❌ Sweep query failed", zap.Error(err))
		}
		return 0
	}

	fixed := 0
	for _, m := range stuck {
		if err := s.meetingRepo.UpdateStatus(ctx, m.ID, entities.MeetingStatusFailed); err != nil {
			if s.logger != nil {
				s.logger.Error("❌ Failed to reconcile stuck meeting",
					zap.String("meeting_id", m.ID.String()),
					zap.Error(err),
				)
			}
			continue
		}
		fixed++
		if s.logger != nil {
			s.logger.Warn("🧹 Reconciled stuck meeting",
				zap.String("meeting_id", m.ID.String()),
				zap.Time("created_at", m.CreatedAt),
			)
		}
	}
	return fixed
}

// Stop stops the sweep loop and waits for it to exit
func (s *Sweeper) Stop() {
	close(s.stopChan)
	<-s.doneChan
}
