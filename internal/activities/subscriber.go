package activities

import (
	"context"

	"crm_backend/internal/events"
	"crm_backend/platform/logger"
)

// Subscriber records activities in response to domain events.
type Subscriber struct {
	svc *Service
	log *logger.Logger
}

func NewSubscriber(svc *Service, log *logger.Logger) *Subscriber {
	return &Subscriber{svc: svc, log: log}
}

// RegisterHandlers subscribes to the events that produce activities.
func (s *Subscriber) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadConverted{}.EventName(), s)
}

// Handle routes events to the appropriate handler method.
func (s *Subscriber) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.LeadConverted:
		return s.handleLeadConverted(ctx, e)
	default:
		s.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (s *Subscriber) handleLeadConverted(ctx context.Context, e events.LeadConverted) error {
	activity, err := s.svc.RecordConversion(ctx, e.LeadID, e.DealID, e.AssignedTo)
	if err != nil {
		return err
	}
	s.log.Info("conversion activity recorded", "activityId", activity.ID, "leadId", e.LeadID, "dealId", e.DealID)
	return nil
}
