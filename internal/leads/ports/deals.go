package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DealDraft is everything the pipeline needs to open a deal for a lead.
type DealDraft struct {
	Title             string
	Value             float64
	Probability       int
	Stage             string
	ExpectedCloseDate *time.Time
	CompanyID         *uuid.UUID
	ContactPerson     string
	ContactEmail      string
	LeadID            uuid.UUID
	LeadSource        string
	LeadScore         int
	AssignedTo        *uuid.UUID
	Notes             string
}

// CreatedDeal is the deal as stored by the pipeline.
type CreatedDeal struct {
	ID                uuid.UUID
	Title             string
	Value             float64
	Probability       int
	Stage             string
	ExpectedCloseDate *time.Time
	CompanyID         *uuid.UUID
	ContactPerson     string
	ContactEmail      string
	LeadID            *uuid.UUID
	AssignedTo        *uuid.UUID
	Notes             string
	CreatedAt         time.Time
}

// DealCreator opens deals in the pipeline and removes them again when a
// conversion has to be rolled back.
type DealCreator interface {
	CreateDeal(ctx context.Context, draft DealDraft) (CreatedDeal, error)
	DeleteDeal(ctx context.Context, id uuid.UUID) error
}
