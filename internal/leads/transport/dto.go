package transport

import (
	"time"

	"github.com/google/uuid"
)

type CreateLeadRequest struct {
	FirstName       string     `json:"firstName" validate:"required,min=1,max=100"`
	LastName        string     `json:"lastName" validate:"required,min=1,max=100"`
	Email           string     `json:"email" validate:"omitempty,email,max=254"`
	Phone           string     `json:"phone" validate:"max=40"`
	Title           string     `json:"title" validate:"max=150"`
	CompanyName     string     `json:"companyName" validate:"max=200"`
	CompanySize     string     `json:"companySize" validate:"max=20"`
	Industry        string     `json:"industry" validate:"max=100"`
	Website         string     `json:"website" validate:"omitempty,max=500"`
	Source          string     `json:"source" validate:"max=100"`
	EngagementLevel string     `json:"engagementLevel" validate:"omitempty,oneof=High Medium Low"`
	NextFollowUp    *time.Time `json:"nextFollowUp,omitempty"`
	Notes           string     `json:"notes" validate:"max=5000"`
	Tags            []string   `json:"tags" validate:"max=20,dive,min=1,max=50"`

	// Assignment runs the assignment policy as part of creation.
	Assignment *AssignLeadRequest `json:"assignment,omitempty"`
}

// UpdateLeadRequest is a partial update. Only fields present in the JSON
// body are applied.
type UpdateLeadRequest struct {
	FirstName       *string      `json:"firstName,omitempty" validate:"omitempty,min=1,max=100"`
	LastName        *string      `json:"lastName,omitempty" validate:"omitempty,min=1,max=100"`
	Email           *string      `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Phone           *string      `json:"phone,omitempty" validate:"omitempty,max=40"`
	Title           *string      `json:"title,omitempty" validate:"omitempty,max=150"`
	CompanyName     *string      `json:"companyName,omitempty" validate:"omitempty,max=200"`
	CompanySize     *string      `json:"companySize,omitempty" validate:"omitempty,max=20"`
	Industry        *string      `json:"industry,omitempty" validate:"omitempty,max=100"`
	Website         *string      `json:"website,omitempty" validate:"omitempty,max=500"`
	Source          *string      `json:"source,omitempty" validate:"omitempty,max=100"`
	EngagementLevel *string      `json:"engagementLevel,omitempty" validate:"omitempty,oneof=High Medium Low"`
	Status          *string      `json:"status,omitempty" validate:"omitempty,leadstatus"`
	LostReason      *string      `json:"lostReason,omitempty" validate:"omitempty,max=500"`
	NextFollowUp    OptionalTime `json:"nextFollowUp,omitempty"`
	Notes           *string      `json:"notes,omitempty" validate:"omitempty,max=5000"`
	Tags            []string     `json:"tags,omitempty" validate:"omitempty,max=20,dive,min=1,max=50"`
}

type UpdateLeadStatusRequest struct {
	Status string `json:"status" validate:"required,leadstatus"`
	Reason string `json:"reason" validate:"max=500"`
}

type TagLeadRequest struct {
	Tags []string `json:"tags" validate:"max=20,dive,min=1,max=50"`
}

type AssignLeadRequest struct {
	Policy     string     `json:"policy" validate:"required,oneof=direct territory round_robin"`
	AssigneeID *uuid.UUID `json:"assigneeId,omitempty" validate:"required_if=Policy direct"`
	Territory  string     `json:"territory" validate:"required_if=Policy territory,max=100"`
}

type ScorePreviewRequest struct {
	CompanySize     string `json:"companySize" validate:"max=20"`
	Industry        string `json:"industry" validate:"max=100"`
	EngagementLevel string `json:"engagementLevel" validate:"max=20"`
	Title           string `json:"title" validate:"max=150"`
}

type ListLeadsRequest struct {
	Status     string `form:"status" validate:"omitempty,leadstatus"`
	Source     string `form:"source" validate:"max=100"`
	Territory  string `form:"territory" validate:"max=100"`
	AssignedTo string `form:"assignedTo" validate:"omitempty,uuid"`
	Search     string `form:"search" validate:"max=100"`
	SortBy     string `form:"sortBy" validate:"omitempty,oneof=createdAt updatedAt score name company status nextFollowUp"`
	SortOrder  string `form:"sortOrder" validate:"omitempty,oneof=asc desc"`
	Page       int    `form:"page" validate:"omitempty,min=1"`
	PageSize   int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

type ConvertLeadRequest struct {
	Title             string       `json:"title" validate:"max=200"`
	Value             *float64     `json:"value,omitempty" validate:"omitempty,min=0"`
	ExpectedCloseDate *time.Time   `json:"expectedCloseDate,omitempty"`
	CompanyID         OptionalUUID `json:"companyId,omitempty"`
	CreateCompany     bool         `json:"createCompany"`
}

type ScoreBreakdownResponse struct {
	CompanySize int `json:"companySize"`
	IndustryFit int `json:"industryFit"`
	Engagement  int `json:"engagement"`
	BudgetFit   int `json:"budgetFit"`
}

type ScoreResponse struct {
	TotalScore      int                    `json:"totalScore"`
	Breakdown       ScoreBreakdownResponse `json:"breakdown"`
	SuggestedStatus string                 `json:"suggestedStatus"`
}

type LeadResponse struct {
	ID                    uuid.UUID              `json:"id"`
	FirstName             string                 `json:"firstName"`
	LastName              string                 `json:"lastName"`
	Email                 string                 `json:"email"`
	Phone                 string                 `json:"phone"`
	Title                 string                 `json:"title"`
	CompanyName           string                 `json:"companyName"`
	CompanySize           string                 `json:"companySize"`
	Industry              string                 `json:"industry"`
	Website               string                 `json:"website"`
	Source                string                 `json:"source"`
	EngagementLevel       string                 `json:"engagementLevel"`
	LeadScore             int                    `json:"leadScore"`
	QualificationCriteria ScoreBreakdownResponse `json:"qualificationCriteria"`
	Status                string                 `json:"status"`
	AssignedTo            *uuid.UUID             `json:"assignedTo,omitempty"`
	AssignedToName        string                 `json:"assignedToName,omitempty"`
	Territory             string                 `json:"territory,omitempty"`
	NextFollowUp          *time.Time             `json:"nextFollowUp,omitempty"`
	Notes                 string                 `json:"notes"`
	Tags                  []string               `json:"tags"`
	LostReason            string                 `json:"lostReason,omitempty"`
	ConvertedDealID       *uuid.UUID             `json:"convertedDealId,omitempty"`
	CreatedAt             time.Time              `json:"createdAt"`
	UpdatedAt             time.Time              `json:"updatedAt"`
}

type LeadListResponse struct {
	Items      []LeadResponse `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}

type SourceAnalyticsEntry struct {
	Source         string `json:"source"`
	Count          int    `json:"count"`
	Qualified      int    `json:"qualified"`
	AvgScore       int    `json:"avgScore"`
	ConversionRate int    `json:"conversionRate"`
}

type SourceAnalyticsResponse struct {
	Sources []SourceAnalyticsEntry `json:"sources"`
}

type DealResponse struct {
	ID                uuid.UUID  `json:"id"`
	Title             string     `json:"title"`
	Value             float64    `json:"value"`
	Probability       int        `json:"probability"`
	Stage             string     `json:"stage"`
	ExpectedCloseDate *time.Time `json:"expectedCloseDate,omitempty"`
	CompanyID         *uuid.UUID `json:"companyId,omitempty"`
	ContactPerson     string     `json:"contactPerson"`
	ContactEmail      string     `json:"contactEmail"`
	LeadID            *uuid.UUID `json:"leadId,omitempty"`
	AssignedTo        *uuid.UUID `json:"assignedTo,omitempty"`
	Notes             string     `json:"notes"`
	CreatedAt         time.Time  `json:"createdAt"`
}

type ConvertLeadResponse struct {
	Lead LeadResponse `json:"lead"`
	Deal DealResponse `json:"deal"`
}
