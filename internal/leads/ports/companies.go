package ports

import (
	"context"

	"github.com/google/uuid"
)

// CompanyDraft describes a company created from a converted lead.
type CompanyDraft struct {
	Name      string
	Industry  string
	Website   string
	Employees int
	LeadID    uuid.UUID
}

// CompanyCreator creates companies on behalf of the conversion workflow.
// DeleteCompany soft deletes a company the workflow created when the
// conversion is abandoned.
type CompanyCreator interface {
	CreateFromLead(ctx context.Context, draft CompanyDraft) (uuid.UUID, error)
	DeleteCompany(ctx context.Context, id uuid.UUID) error
}
