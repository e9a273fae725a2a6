package reader

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StartScheduler rotates the daily verse every interval until ctx is done.
// A zero interval disables rotation; the verse then changes only on request.
func (s *ReaderService) StartScheduler(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		s.log.Debug("daily verse rotation disabled")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.Info("daily verse scheduler started", zap.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			s.log.Info("daily verse scheduler stopped")
			return
		case <-ticker.C:
			v := s.RefreshDailyVerse()
			s.log.Info("daily verse rotated", zap.String("reference", v.Reference))
		}
	}
}
