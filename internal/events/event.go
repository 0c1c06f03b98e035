// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"crm_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Publisher   = events.Publisher
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when a new lead is stored.
type LeadCreated struct {
	BaseEvent
	LeadID     uuid.UUID  `json:"leadId"`
	LeadName   string     `json:"leadName"`
	Source     string     `json:"source,omitempty"`
	Score      int        `json:"score"`
	Status     string     `json:"status"`
	AssignedTo *uuid.UUID `json:"assignedTo,omitempty"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// LeadAssigned is published whenever an assignment policy picks an owner.
type LeadAssigned struct {
	BaseEvent
	LeadID       uuid.UUID `json:"leadId"`
	LeadName     string    `json:"leadName"`
	AssigneeID   uuid.UUID `json:"assigneeId"`
	AssigneeName string    `json:"assigneeName"`
	Territory    string    `json:"territory,omitempty"`
	Policy       string    `json:"policy"`
}

func (e LeadAssigned) EventName() string { return "leads.lead.assigned" }

// LeadStatusChanged is published on every explicit status transition.
type LeadStatusChanged struct {
	BaseEvent
	LeadID     uuid.UUID  `json:"leadId"`
	LeadName   string     `json:"leadName"`
	AssignedTo *uuid.UUID `json:"assignedTo,omitempty"`
	OldStatus  string     `json:"oldStatus"`
	NewStatus  string     `json:"newStatus"`
}

func (e LeadStatusChanged) EventName() string { return "leads.lead.status_changed" }

// LeadMarkedLost is published when a lead moves to Lost.
type LeadMarkedLost struct {
	BaseEvent
	LeadID     uuid.UUID  `json:"leadId"`
	LeadName   string     `json:"leadName"`
	AssignedTo *uuid.UUID `json:"assignedTo,omitempty"`
	Reason     string     `json:"reason,omitempty"`
}

func (e LeadMarkedLost) EventName() string { return "leads.lead.marked_lost" }

// LeadTagged is published when a lead's tags are replaced.
type LeadTagged struct {
	BaseEvent
	LeadID     uuid.UUID  `json:"leadId"`
	LeadName   string     `json:"leadName"`
	AssignedTo *uuid.UUID `json:"assignedTo,omitempty"`
	Tags       []string   `json:"tags"`
}

func (e LeadTagged) EventName() string { return "leads.lead.tagged" }

// LeadDeleted is published when a lead leaves the active set.
type LeadDeleted struct {
	BaseEvent
	LeadID     uuid.UUID  `json:"leadId"`
	LeadName   string     `json:"leadName"`
	AssignedTo *uuid.UUID `json:"assignedTo,omitempty"`
}

func (e LeadDeleted) EventName() string { return "leads.lead.deleted" }

// LeadFollowUpScheduled is published when nextFollowUp is set or moved.
type LeadFollowUpScheduled struct {
	BaseEvent
	LeadID     uuid.UUID  `json:"leadId"`
	LeadName   string     `json:"leadName"`
	AssignedTo *uuid.UUID `json:"assignedTo,omitempty"`
	FollowUpAt time.Time  `json:"followUpAt"`
}

func (e LeadFollowUpScheduled) EventName() string { return "leads.lead.follow_up_scheduled" }

// LeadFollowUpDue is published by the scheduler when a follow-up time arrives.
type LeadFollowUpDue struct {
	BaseEvent
	LeadID     uuid.UUID  `json:"leadId"`
	LeadName   string     `json:"leadName"`
	AssignedTo *uuid.UUID `json:"assignedTo,omitempty"`
	FollowUpAt time.Time  `json:"followUpAt"`
}

func (e LeadFollowUpDue) EventName() string { return "leads.lead.follow_up_due" }

// LeadConverted is published after a lead became a deal.
type LeadConverted struct {
	BaseEvent
	LeadID     uuid.UUID  `json:"leadId"`
	LeadName   string     `json:"leadName"`
	DealID     uuid.UUID  `json:"dealId"`
	DealTitle  string     `json:"dealTitle"`
	DealValue  float64    `json:"dealValue"`
	CompanyID  *uuid.UUID `json:"companyId,omitempty"`
	AssignedTo *uuid.UUID `json:"assignedTo,omitempty"`
}

func (e LeadConverted) EventName() string { return "leads.lead.converted" }

// =============================================================================
// Deals Domain Events
// =============================================================================

// DealStageChanged is published when a deal moves between pipeline stages.
type DealStageChanged struct {
	BaseEvent
	DealID     uuid.UUID  `json:"dealId"`
	Title      string     `json:"title"`
	AssignedTo *uuid.UUID `json:"assignedTo,omitempty"`
	OldStage   string     `json:"oldStage"`
	NewStage   string     `json:"newStage"`
	Value      float64    `json:"value"`
}

func (e DealStageChanged) EventName() string { return "deals.deal.stage_changed" }

// =============================================================================
// Comments & Activities Domain Events
// =============================================================================

// NoteAdded is published when a comment is written on a lead.
type NoteAdded struct {
	BaseEvent
	LeadID     uuid.UUID  `json:"leadId"`
	LeadName   string     `json:"leadName"`
	CommentID  uuid.UUID  `json:"commentId"`
	AuthorID   *uuid.UUID `json:"authorId,omitempty"`
	AssignedTo *uuid.UUID `json:"assignedTo,omitempty"`
}

func (e NoteAdded) EventName() string { return "comments.note.added" }

// TaskOverdue is published by the scheduler for tasks past their due date.
type TaskOverdue struct {
	BaseEvent
	ActivityID uuid.UUID  `json:"activityId"`
	Title      string     `json:"title"`
	DueDate    time.Time  `json:"dueDate"`
	OwnerID    *uuid.UUID `json:"ownerId,omitempty"`
}

func (e TaskOverdue) EventName() string { return "activities.task.overdue" }
