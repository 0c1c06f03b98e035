package transport

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type CreateDealRequest struct {
	Title             string     `json:"title" validate:"required,min=1,max=200"`
	Value             float64    `json:"value" validate:"min=0"`
	Probability       *int       `json:"probability,omitempty" validate:"omitempty,min=0,max=100"`
	Stage             string     `json:"stage" validate:"omitempty,dealstage"`
	ExpectedCloseDate *time.Time `json:"expectedCloseDate,omitempty"`
	CompanyID         *uuid.UUID `json:"companyId,omitempty"`
	ContactPerson     string     `json:"contactPerson" validate:"max=200"`
	ContactEmail      string     `json:"contactEmail" validate:"omitempty,email,max=254"`
	LeadID            *uuid.UUID `json:"leadId,omitempty"`
	LeadSource        string     `json:"leadSource" validate:"max=100"`
	LeadScore         int        `json:"leadScore" validate:"min=0,max=100"`
	AssignedTo        *uuid.UUID `json:"assignedTo,omitempty"`
	Notes             string     `json:"notes" validate:"max=5000"`
}

// UpdateDealRequest is a partial update. Nullable references use the
// Optional wrappers so that an explicit null clears them.
type UpdateDealRequest struct {
	Title             *string      `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Value             *float64     `json:"value,omitempty" validate:"omitempty,min=0"`
	Probability       *int         `json:"probability,omitempty" validate:"omitempty,min=0,max=100"`
	Stage             *string      `json:"stage,omitempty" validate:"omitempty,dealstage"`
	ExpectedCloseDate OptionalTime `json:"expectedCloseDate,omitempty"`
	CompanyID         OptionalUUID `json:"companyId,omitempty"`
	ContactPerson     *string      `json:"contactPerson,omitempty" validate:"omitempty,max=200"`
	ContactEmail      *string      `json:"contactEmail,omitempty" validate:"omitempty,email,max=254"`
	AssignedTo        OptionalUUID `json:"assignedTo,omitempty"`
	Notes             *string      `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

type MoveDealRequest struct {
	Stage string `json:"stage" validate:"required,dealstage"`
}

type ListDealsRequest struct {
	Stage      string `form:"stage" validate:"omitempty,dealstage"`
	LeadID     string `form:"leadId" validate:"omitempty,uuid"`
	LeadSource string `form:"leadSource" validate:"max=100"`
	CompanyID  string `form:"companyId" validate:"omitempty,uuid"`
	AssignedTo string `form:"assignedTo" validate:"omitempty,uuid"`
	Search     string `form:"search" validate:"max=100"`
	SortBy     string `form:"sortBy" validate:"omitempty,oneof=createdAt updatedAt value probability expectedCloseDate title"`
	SortOrder  string `form:"sortOrder" validate:"omitempty,oneof=asc desc"`
	Page       int    `form:"page" validate:"omitempty,min=1"`
	PageSize   int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
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
	LeadSource        string     `json:"leadSource,omitempty"`
	LeadScore         int        `json:"leadScore,omitempty"`
	AssignedTo        *uuid.UUID `json:"assignedTo,omitempty"`
	Notes             string     `json:"notes"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

type DealListResponse struct {
	Items      []DealResponse `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}

type BoardColumn struct {
	Stage      string         `json:"stage"`
	Label      string         `json:"label"`
	Count      int            `json:"count"`
	TotalValue float64        `json:"totalValue"`
	Deals      []DealResponse `json:"deals"`
}

type BoardResponse struct {
	Columns []BoardColumn `json:"columns"`
}

type StageStats struct {
	Count int     `json:"count"`
	Value float64 `json:"value"`
}

type StatsResponse struct {
	TotalDeals int                   `json:"totalDeals"`
	TotalValue float64               `json:"totalValue"`
	ByStage    map[string]StageStats `json:"byStage"`
}

type SourceConversion struct {
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

type ConversionStatsResponse struct {
	TotalConverted      int                         `json:"totalConverted"`
	TotalRevenue        float64                     `json:"totalRevenue"`
	AvgDealSize         float64                     `json:"avgDealSize"`
	ConversionsBySource map[string]SourceConversion `json:"conversionsBySource"`
}

type OptionalUUID struct {
	Value *uuid.UUID
	Set   bool
}

func (o *OptionalUUID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
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

type OptionalTime struct {
	Value *time.Time
	Set   bool
}

func (o *OptionalTime) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
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
