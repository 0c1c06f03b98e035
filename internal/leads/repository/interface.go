package repository

import (
	"context"

	"github.com/google/uuid"
)

// LeadReader provides read-only access to lead data.
type LeadReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (Lead, error)
	List(ctx context.Context, params ListParams) ([]Lead, int, error)
}

// LeadWriter provides write operations for lead management.
type LeadWriter interface {
	Create(ctx context.Context, params CreateLeadParams) (Lead, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateLeadParams) (Lead, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ConversionWriter flips a lead to Converted exactly once.
type ConversionWriter interface {
	MarkConverted(ctx context.Context, id uuid.UUID, dealID uuid.UUID) (Lead, error)
}

// AssignmentCounter reports how many non-deleted leads each member owns,
// optionally restricted to one territory.
type AssignmentCounter interface {
	CountAssignedLeads(ctx context.Context, territory *string) (map[uuid.UUID]int, error)
}

// AnalyticsReader provides the rows behind lead source analytics.
type AnalyticsReader interface {
	ListSourceRows(ctx context.Context) ([]SourceRow, error)
}

// LeadsRepository composes every capability of the lead store.
type LeadsRepository interface {
	LeadReader
	LeadWriter
	ConversionWriter
	AssignmentCounter
	AnalyticsReader
}
