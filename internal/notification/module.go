// Package notification turns domain events into in-app notifications,
// live SSE pushes and follow-up emails.
package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"crm_backend/internal/email"
	"crm_backend/internal/events"
	apphttp "crm_backend/internal/http"
	"crm_backend/internal/metrics"
	notifhandler "crm_backend/internal/notification/handler"
	"crm_backend/internal/notification/inapp"
	"crm_backend/internal/notification/sse"
	"crm_backend/platform/config"
	"crm_backend/platform/httpkit"
	"crm_backend/platform/logger"
	"crm_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Notification types shown to users.
const (
	TypeLeadAssigned     = "New Lead Assigned"
	TypeStatusChanged    = "Status Changed"
	TypeFollowUpReminder = "Follow-up Reminder"
	TypeFollowUpDue      = "Follow-up Due"
	TypeNoteAdded        = "Note Added"
	TypeLeadMarkedLost   = "Lead Marked Lost"
	TypeLeadTagged       = "Lead Tagged"
	TypeLeadDeleted      = "Lead Deleted"
	TypeLeadConverted    = "Lead Converted"
	TypeDealStageChanged = "Deal Stage Changed"
	TypeTaskOverdue      = "Task Overdue"
)

const (
	resourceLead     = "lead"
	resourceDeal     = "deal"
	resourceActivity = "activity"

	channelInApp = "in_app"
	channelEmail = "email"

	followUpDateLayout = "1/2/2006"
)

// MemberContact is the addressable part of a team member.
type MemberContact struct {
	Name  string
	Email string
}

// MemberDirectory resolves team members for outbound email.
type MemberDirectory interface {
	MemberContact(ctx context.Context, id uuid.UUID) (MemberContact, error)
}

// Module handles all notification-related event subscriptions.
type Module struct {
	inApp      *inapp.Service
	handler    *notifhandler.HTTPHandler
	sse        *sse.Service
	sender     email.Sender
	members    MemberDirectory
	appBaseURL string
	log        *logger.Logger
}

// New creates the notification module backed by Postgres.
func New(pool *pgxpool.Pool, sender email.Sender, members MemberDirectory, cfg config.AppConfig, log *logger.Logger) *Module {
	return NewWithStore(inapp.NewRepository(pool), sender, members, cfg, log)
}

// NewWithStore creates the module on top of an arbitrary notification store.
func NewWithStore(store inapp.Store, sender email.Sender, members MemberDirectory, cfg config.AppConfig, log *logger.Logger) *Module {
	if sender == nil {
		sender = email.NoopSender{}
	}

	stream := sse.New(log)
	svc := inapp.NewService(store, log)
	svc.SetPusher(stream)

	baseURL := ""
	if cfg != nil {
		baseURL = strings.TrimRight(cfg.GetAppBaseURL(), "/")
	}

	return &Module{
		inApp:      svc,
		handler:    notifhandler.NewHTTPHandler(svc, validator.New()),
		sse:        stream,
		sender:     sender,
		members:    members,
		appBaseURL: baseURL,
		log:        log,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "notification" }

// RegisterRoutes registers notification API routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	notifications := ctx.Protected.Group("/notifications")
	notifications.GET("/stream", m.sse.Handler(streamUser))
	m.handler.RegisterRoutes(notifications)
}

func streamUser(c *gin.Context) (uuid.UUID, bool) {
	id := httpkit.GetIdentity(c)
	if !id.IsAuthenticated() {
		return uuid.Nil, false
	}
	return id.UserID(), true
}

// InAppService exposes the in-app notification service.
func (m *Module) InAppService() *inapp.Service { return m.inApp }

// SSE exposes the live stream so the server can close it on shutdown.
func (m *Module) SSE() *sse.Service { return m.sse }

// RegisterHandlers subscribes to all relevant domain events on the event bus.
func (m *Module) RegisterHandlers(bus events.Bus) {
	// Lead events
	bus.Subscribe(events.LeadAssigned{}.EventName(), m)
	bus.Subscribe(events.LeadStatusChanged{}.EventName(), m)
	bus.Subscribe(events.LeadFollowUpScheduled{}.EventName(), m)
	bus.Subscribe(events.LeadFollowUpDue{}.EventName(), m)
	bus.Subscribe(events.LeadMarkedLost{}.EventName(), m)
	bus.Subscribe(events.LeadTagged{}.EventName(), m)
	bus.Subscribe(events.LeadDeleted{}.EventName(), m)
	bus.Subscribe(events.LeadConverted{}.EventName(), m)

	// Pipeline, comment and task events
	bus.Subscribe(events.DealStageChanged{}.EventName(), m)
	bus.Subscribe(events.NoteAdded{}.EventName(), m)
	bus.Subscribe(events.TaskOverdue{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.LeadAssigned:
		assignee := e.AssigneeID
		m.notify(ctx, inapp.SendParams{
			UserID:       &assignee,
			Type:         TypeLeadAssigned,
			Title:        TypeLeadAssigned,
			Message:      fmt.Sprintf("A new lead has been assigned to %s", e.AssigneeName),
			ResourceType: resourceLead,
			ResourceID:   &e.LeadID,
		})
	case events.LeadStatusChanged:
		m.notify(ctx, inapp.SendParams{
			UserID:       e.AssignedTo,
			Type:         TypeStatusChanged,
			Title:        TypeStatusChanged,
			Message:      fmt.Sprintf("Lead status changed from %s to %s", e.OldStatus, e.NewStatus),
			ResourceType: resourceLead,
			ResourceID:   &e.LeadID,
		})
	case events.LeadFollowUpScheduled:
		m.notify(ctx, inapp.SendParams{
			UserID:       e.AssignedTo,
			Type:         TypeFollowUpReminder,
			Title:        TypeFollowUpReminder,
			Message:      fmt.Sprintf("Follow-up reminder: Lead requires follow-up on %s", e.FollowUpAt.Format(followUpDateLayout)),
			ResourceType: resourceLead,
			ResourceID:   &e.LeadID,
		})
	case events.LeadFollowUpDue:
		m.handleFollowUpDue(ctx, e)
	case events.NoteAdded:
		m.notify(ctx, inapp.SendParams{
			UserID:       e.AssignedTo,
			Type:         TypeNoteAdded,
			Title:        TypeNoteAdded,
			Message:      fmt.Sprintf("New note added to lead: %s", e.LeadName),
			ResourceType: resourceLead,
			ResourceID:   &e.LeadID,
		})
	case events.LeadMarkedLost:
		msg := "Lead marked as lost"
		if reason := strings.TrimSpace(e.Reason); reason != "" {
			msg += ": " + reason
		}
		m.notify(ctx, inapp.SendParams{
			UserID:       e.AssignedTo,
			Type:         TypeLeadMarkedLost,
			Title:        TypeLeadMarkedLost,
			Message:      msg,
			ResourceType: resourceLead,
			ResourceID:   &e.LeadID,
		})
	case events.LeadTagged:
		m.notify(ctx, inapp.SendParams{
			UserID:       e.AssignedTo,
			Type:         TypeLeadTagged,
			Title:        TypeLeadTagged,
			Message:      fmt.Sprintf("Lead has been tagged: %s", strings.Join(e.Tags, ", ")),
			ResourceType: resourceLead,
			ResourceID:   &e.LeadID,
		})
	case events.LeadDeleted:
		m.notify(ctx, inapp.SendParams{
			UserID:       e.AssignedTo,
			Type:         TypeLeadDeleted,
			Title:        TypeLeadDeleted,
			Message:      fmt.Sprintf("Lead %s was removed", e.LeadName),
			ResourceType: resourceLead,
			ResourceID:   &e.LeadID,
		})
	case events.LeadConverted:
		m.notify(ctx, inapp.SendParams{
			UserID:       e.AssignedTo,
			Type:         TypeLeadConverted,
			Title:        TypeLeadConverted,
			Message:      fmt.Sprintf("%s was converted to deal %s", e.LeadName, e.DealTitle),
			ResourceType: resourceDeal,
			ResourceID:   &e.DealID,
		})
	case events.DealStageChanged:
		m.notify(ctx, inapp.SendParams{
			UserID:       e.AssignedTo,
			Type:         TypeDealStageChanged,
			Title:        TypeDealStageChanged,
			Message:      fmt.Sprintf("Deal %s moved from %s to %s", e.Title, e.OldStage, e.NewStage),
			ResourceType: resourceDeal,
			ResourceID:   &e.DealID,
		})
	case events.TaskOverdue:
		m.notify(ctx, inapp.SendParams{
			UserID:       e.OwnerID,
			Type:         TypeTaskOverdue,
			Title:        TypeTaskOverdue,
			Message:      fmt.Sprintf("Task %s is overdue", e.Title),
			ResourceType: resourceActivity,
			ResourceID:   &e.ActivityID,
		})
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
	}
	return nil
}

// notify persists and pushes one notification. Failures never reach the
// operation that raised the event.
func (m *Module) notify(ctx context.Context, p inapp.SendParams) {
	_, err := m.inApp.Send(ctx, p)
	metrics.RecordNotification(channelInApp, err)
	if err != nil {
		m.log.WithContext(ctx).Error("in-app notification failed", "error", err, "type", p.Type)
	}
}

func (m *Module) handleFollowUpDue(ctx context.Context, e events.LeadFollowUpDue) {
	m.notify(ctx, inapp.SendParams{
		UserID:       e.AssignedTo,
		Type:         TypeFollowUpDue,
		Title:        TypeFollowUpDue,
		Message:      fmt.Sprintf("Follow-up due now for %s", e.LeadName),
		ResourceType: resourceLead,
		ResourceID:   &e.LeadID,
	})

	if e.AssignedTo == nil || m.members == nil {
		return
	}

	member, err := m.members.MemberContact(ctx, *e.AssignedTo)
	if err != nil {
		m.log.Warn("follow-up email skipped: assignee lookup failed", "error", err, "leadId", e.LeadID)
		return
	}
	if strings.TrimSpace(member.Email) == "" {
		return
	}

	err = m.sender.SendFollowUpDueEmail(ctx, member.Email, email.FollowUpDue{
		MemberName: member.Name,
		LeadName:   e.LeadName,
		FollowUpAt: e.FollowUpAt.In(time.UTC),
		LeadURL:    m.leadURL(e.LeadID),
	})
	metrics.RecordNotification(channelEmail, err)
	if err != nil {
		m.log.Error("follow-up email failed", "error", err, "leadId", e.LeadID)
	}
}

func (m *Module) leadURL(leadID uuid.UUID) string {
	if m.appBaseURL == "" {
		return ""
	}
	return m.appBaseURL + "/leads/" + leadID.String()
}

var _ apphttp.Module = (*Module)(nil)
