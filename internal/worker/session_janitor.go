package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/reclamos-service/internal/service"
)

const (
	janitorInterval = 5 * time.Minute
	sessionMaxIdle  = 2 * time.Hour
)

// StartSessionJanitor periodically drops planning sessions that have been
// idle too long. Returns after ctx is cancelled.
func StartSessionJanitor(ctx context.Context, planner *service.PlannerService, logger *zap.Logger) {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := planner.PruneSessions(sessionMaxIdle); removed > 0 {
				logger.Info("expired idle planning sessions", zap.Int("count", removed))
			}
		}
	}
}
