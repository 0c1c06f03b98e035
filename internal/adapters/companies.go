package adapters

import (
	"context"
	"errors"
	"fmt"

	"crm_backend/internal/companies"
	"crm_backend/internal/contacts"
	"crm_backend/internal/leads/ports"

	"github.com/google/uuid"
)

// CompanyCreator seeds a company from a converting lead.
type CompanyCreator struct {
	svc *companies.Service
}

func NewCompanyCreator(svc *companies.Service) *CompanyCreator {
	return &CompanyCreator{svc: svc}
}

func (a *CompanyCreator) CreateFromLead(ctx context.Context, draft ports.CompanyDraft) (uuid.UUID, error) {
	company, err := a.svc.CreateFromLead(ctx, companies.FromLead{
		Name:      draft.Name,
		Industry:  draft.Industry,
		Website:   draft.Website,
		Employees: draft.Employees,
		LeadID:    draft.LeadID,
	})
	if err != nil {
		return uuid.Nil, err
	}
	return company.ID, nil
}

func (a *CompanyCreator) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	return a.svc.Delete(ctx, id)
}

// CompanyNames resolves company names for contacts.
type CompanyNames struct {
	repo companies.Store
}

func NewCompanyNames(repo companies.Store) *CompanyNames {
	return &CompanyNames{repo: repo}
}

func (a *CompanyNames) CompanyName(ctx context.Context, id uuid.UUID) (string, error) {
	c, err := a.repo.GetByID(ctx, id)
	if errors.Is(err, companies.ErrNotFound) {
		return "", contacts.ErrCompanyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("companies adapter: get company: %w", err)
	}
	return c.Name, nil
}

var (
	_ ports.CompanyCreator  = (*CompanyCreator)(nil)
	_ contacts.CompanyNames = (*CompanyNames)(nil)
)
