package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crm_backend/internal/events"
	leaddomain "crm_backend/internal/leads/domain"
	leadrepo "crm_backend/internal/leads/repository"
	"crm_backend/platform/config"
	"crm_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// LeadLookup reads the current state of a lead before a reminder fires.
type LeadLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (leadrepo.Lead, error)
}

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	leads  LeadLookup
	bus    events.Bus
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, leads LeadLookup, bus events.Bus, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	w := newHandlers(leads, bus, log)
	w.server = server
	return w, nil
}

func newHandlers(leads LeadLookup, bus events.Bus, log *logger.Logger) *Worker {
	mux := asynq.NewServeMux()
	w := &Worker{
		mux:   mux,
		leads: leads,
		bus:   bus,
		log:   log,
	}

	mux.HandleFunc(TaskFollowUpDue, w.handleFollowUpDue)
	mux.HandleFunc(TaskActivityOverdue, w.handleActivityOverdue)
	return w
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

// handleFollowUpDue fires the reminder unless the lead was deleted, closed
// out, or its follow-up was moved after the job was scheduled.
func (w *Worker) handleFollowUpDue(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseFollowUpDuePayload(task)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	lead, err := w.leads.GetByID(ctx, leadID)
	if errors.Is(err, leadrepo.ErrNotFound) {
		w.log.Info("follow-up skipped: lead gone", "leadId", leadID)
		return nil
	}
	if err != nil {
		return err
	}

	if lead.NextFollowUp == nil || !sameSecond(*lead.NextFollowUp, payload.FollowUpAt) {
		w.log.Info("follow-up skipped: rescheduled", "leadId", leadID)
		return nil
	}
	if status := leaddomain.Status(lead.Status); status == leaddomain.StatusConverted || status == leaddomain.StatusLost {
		return nil
	}

	if w.bus == nil {
		return nil
	}
	return w.bus.PublishSync(ctx, events.LeadFollowUpDue{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     lead.ID,
		LeadName:   lead.FullName(),
		AssignedTo: lead.AssignedTo,
		FollowUpAt: *lead.NextFollowUp,
	})
}

func sameSecond(a, b time.Time) bool {
	return a.Truncate(time.Second).Equal(b.Truncate(time.Second))
}

func (w *Worker) handleActivityOverdue(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseActivityOverduePayload(task)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	activityID, err := uuid.Parse(payload.ActivityID)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	var owner *uuid.UUID
	if payload.OwnerID != "" {
		id, err := uuid.Parse(payload.OwnerID)
		if err != nil {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		owner = &id
	}

	if w.bus == nil {
		return nil
	}
	return w.bus.PublishSync(ctx, events.TaskOverdue{
		BaseEvent:  events.NewBaseEvent(),
		ActivityID: activityID,
		Title:      payload.Title,
		DueDate:    payload.DueDate,
		OwnerID:    owner,
	})
}
