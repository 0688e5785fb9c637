package tasks

import (
	"context"
	"fmt"
	"time"
)

// newQuotaSweepTask creates the scheduled task that drops quota entries
// whose window has fully elapsed. Without it the per-client map grows
// unboundedly under many distinct client identifiers.
func newQuotaSweepTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "quota_sweep")

	return func(ctx context.Context) error {
		startTime := time.Now()

		removed, err := deps.Quota.SweepExpired(ctx)
		if err != nil {
			log.ErrorContext(ctx, "Quota sweep task failed", "error", err, "duration", time.Since(startTime))
			return fmt.Errorf("quota sweep failed: %w", err)
		}

		log.InfoContext(ctx, "Quota sweep completed", "removed", removed, "duration", time.Since(startTime))
		return nil
	}
}
