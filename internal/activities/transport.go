package activities

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	TypeCall       = "call"
	TypeEmail      = "email"
	TypeMeeting    = "meeting"
	TypeDemo       = "demo"
	TypeTask       = "task"
	TypeNote       = "note"
	TypeConversion = "conversion"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type CreateActivityRequest struct {
	Type        string     `json:"type" validate:"required,oneof=call email meeting demo task note conversion"`
	Title       string     `json:"title" validate:"required,min=1,max=200"`
	Description string     `json:"description" validate:"max=5000"`
	ContactID   *uuid.UUID `json:"contactId,omitempty"`
	CompanyID   *uuid.UUID `json:"companyId,omitempty"`
	LeadID      *uuid.UUID `json:"leadId,omitempty"`
	DealID      *uuid.UUID `json:"dealId,omitempty"`
	OwnerID     *uuid.UUID `json:"ownerId,omitempty"`
	IsTask      bool       `json:"isTask"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Completed   bool       `json:"completed"`
	Priority    string     `json:"priority" validate:"omitempty,oneof=low medium high"`
}

// OptionalTime distinguishes an absent field from an explicit null.
type OptionalTime struct {
	Set   bool
	Value *time.Time
}

func (o *OptionalTime) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var t time.Time
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	o.Value = &t
	return nil
}

// OptionalUUID distinguishes an absent field from an explicit null.
type OptionalUUID struct {
	Set   bool
	Value *uuid.UUID
}

func (o *OptionalUUID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var id uuid.UUID
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	o.Value = &id
	return nil
}

type UpdateActivityRequest struct {
	Type        *string      `json:"type,omitempty" validate:"omitempty,oneof=call email meeting demo task note conversion"`
	Title       *string      `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string      `json:"description,omitempty" validate:"omitempty,max=5000"`
	IsTask      *bool        `json:"isTask,omitempty"`
	DueDate     OptionalTime `json:"dueDate,omitempty"`
	OwnerID     OptionalUUID `json:"ownerId,omitempty"`
	Completed   *bool        `json:"completed,omitempty"`
	Priority    *string      `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
}

type ListActivitiesRequest struct {
	ContactID string `form:"contactId" validate:"omitempty,uuid"`
	CompanyID string `form:"companyId" validate:"omitempty,uuid"`
	LeadID    string `form:"leadId" validate:"omitempty,uuid"`
	DealID    string `form:"dealId" validate:"omitempty,uuid"`
	OwnerID   string `form:"ownerId" validate:"omitempty,uuid"`
	Type      string `form:"type" validate:"omitempty,oneof=call email meeting demo task note conversion"`
	Page      int    `form:"page" validate:"omitempty,min=1"`
	PageSize  int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

type ActivityResponse struct {
	ID          uuid.UUID  `json:"id"`
	Type        string     `json:"type"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ContactID   *uuid.UUID `json:"contactId,omitempty"`
	CompanyID   *uuid.UUID `json:"companyId,omitempty"`
	LeadID      *uuid.UUID `json:"leadId,omitempty"`
	DealID      *uuid.UUID `json:"dealId,omitempty"`
	OwnerID     *uuid.UUID `json:"ownerId,omitempty"`
	IsTask      bool       `json:"isTask"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Priority    string     `json:"priority"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type ActivityListResponse struct {
	Items    []ActivityResponse `json:"items"`
	Total    int                `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"pageSize"`
}

func toActivityResponse(a Activity) ActivityResponse {
	return ActivityResponse{
		ID:          a.ID,
		Type:        a.Type,
		Title:       a.Title,
		Description: a.Description,
		ContactID:   a.ContactID,
		CompanyID:   a.CompanyID,
		LeadID:      a.LeadID,
		DealID:      a.DealID,
		OwnerID:     a.OwnerID,
		IsTask:      a.IsTask,
		DueDate:     a.DueDate,
		Completed:   a.Completed,
		CompletedAt: a.CompletedAt,
		Priority:    a.Priority,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
