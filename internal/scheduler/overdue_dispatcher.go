package scheduler

import (
	"context"
	"time"

	"crm_backend/internal/activities"
	"crm_backend/platform/config"
	"crm_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	defaultSweepInterval = time.Minute
	defaultSweepBatch    = 50
)

// OverdueClaimer hands out overdue tasks exactly once.
type OverdueClaimer interface {
	ClaimOverdue(ctx context.Context, now time.Time, limit int) ([]activities.Activity, error)
	ReleaseOverdue(ctx context.Context, id uuid.UUID) error
}

// OverdueTaskDispatcher periodically claims overdue tasks and enqueues an
// alert job for each.
type OverdueTaskDispatcher struct {
	queue    OverdueEnqueuer
	repo     OverdueClaimer
	interval time.Duration
	batch    int
	log      *logger.Logger
	now      func() time.Time
}

func NewOverdueTaskDispatcher(cfg config.SweepConfig, queue OverdueEnqueuer, repo OverdueClaimer, log *logger.Logger) *OverdueTaskDispatcher {
	interval := cfg.GetOverdueSweepInterval()
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	batch := cfg.GetOverdueSweepBatchSize()
	if batch < 1 {
		batch = defaultSweepBatch
	}

	return &OverdueTaskDispatcher{
		queue:    queue,
		repo:     repo,
		interval: interval,
		batch:    batch,
		log:      log,
		now:      time.Now,
	}
}

func (d *OverdueTaskDispatcher) Run(ctx context.Context) {
	if d == nil || d.queue == nil || d.repo == nil {
		return
	}

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if n := d.sweep(ctx); n > 0 {
			d.log.Info("overdue tasks dispatched", "count", n)
		}
	}
}

// sweep claims one batch and returns how many alerts were enqueued. Tasks
// that fail to enqueue are released for the next sweep.
func (d *OverdueTaskDispatcher) sweep(ctx context.Context) int {
	records, err := d.repo.ClaimOverdue(ctx, d.now(), d.batch)
	if err != nil {
		d.log.Warn("overdue claim failed", "error", err)
		return 0
	}

	dispatched := 0
	for _, rec := range records {
		payload := ActivityOverduePayload{
			ActivityID: rec.ID.String(),
			Title:      rec.Title,
		}
		if rec.DueDate != nil {
			payload.DueDate = *rec.DueDate
		}
		if rec.OwnerID != nil {
			payload.OwnerID = rec.OwnerID.String()
		}

		if err := d.queue.EnqueueActivityOverdue(ctx, payload); err != nil {
			d.log.Warn("overdue enqueue failed", "error", err, "activityId", rec.ID)
			if err := d.repo.ReleaseOverdue(ctx, rec.ID); err != nil {
				d.log.Error("overdue release failed", "error", err, "activityId", rec.ID)
			}
			continue
		}
		dispatched++
	}
	return dispatched
}
