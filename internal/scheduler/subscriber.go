package scheduler

import (
	"context"

	"crm_backend/internal/events"
	"crm_backend/platform/logger"
)

// FollowUpSubscriber turns scheduled follow-ups into delayed reminder jobs.
type FollowUpSubscriber struct {
	scheduler FollowUpScheduler
	log       *logger.Logger
}

func NewFollowUpSubscriber(scheduler FollowUpScheduler, log *logger.Logger) *FollowUpSubscriber {
	return &FollowUpSubscriber{scheduler: scheduler, log: log}
}

func (s *FollowUpSubscriber) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadFollowUpScheduled{}.EventName(), s)
}

func (s *FollowUpSubscriber) Handle(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadFollowUpScheduled)
	if !ok {
		s.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}

	payload := FollowUpDuePayload{LeadID: e.LeadID.String(), FollowUpAt: e.FollowUpAt}
	if err := s.scheduler.ScheduleFollowUpReminder(ctx, payload, e.FollowUpAt); err != nil {
		s.log.Error("follow-up reminder not scheduled", "error", err, "leadId", e.LeadID)
		return err
	}
	return nil
}
