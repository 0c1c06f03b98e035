package adapters

import (
	"context"

	dealservice "crm_backend/internal/deals/service"
	dealtransport "crm_backend/internal/deals/transport"
	"crm_backend/internal/leads/ports"

	"github.com/google/uuid"
)

// DealCreator opens pipeline deals for the conversion workflow.
type DealCreator struct {
	svc *dealservice.Service
}

func NewDealCreator(svc *dealservice.Service) *DealCreator {
	return &DealCreator{svc: svc}
}

func (a *DealCreator) CreateDeal(ctx context.Context, draft ports.DealDraft) (ports.CreatedDeal, error) {
	probability := draft.Probability
	leadID := draft.LeadID

	deal, err := a.svc.Create(ctx, dealtransport.CreateDealRequest{
		Title:             draft.Title,
		Value:             draft.Value,
		Probability:       &probability,
		Stage:             draft.Stage,
		ExpectedCloseDate: draft.ExpectedCloseDate,
		CompanyID:         draft.CompanyID,
		ContactPerson:     draft.ContactPerson,
		ContactEmail:      draft.ContactEmail,
		LeadID:            &leadID,
		LeadSource:        draft.LeadSource,
		LeadScore:         draft.LeadScore,
		AssignedTo:        draft.AssignedTo,
		Notes:             draft.Notes,
	})
	if err != nil {
		return ports.CreatedDeal{}, err
	}

	return ports.CreatedDeal{
		ID:                deal.ID,
		Title:             deal.Title,
		Value:             deal.Value,
		Probability:       deal.Probability,
		Stage:             deal.Stage,
		ExpectedCloseDate: deal.ExpectedCloseDate,
		CompanyID:         deal.CompanyID,
		ContactPerson:     deal.ContactPerson,
		ContactEmail:      deal.ContactEmail,
		LeadID:            deal.LeadID,
		AssignedTo:        deal.AssignedTo,
		Notes:             deal.Notes,
		CreatedAt:         deal.CreatedAt,
	}, nil
}

func (a *DealCreator) DeleteDeal(ctx context.Context, id uuid.UUID) error {
	return a.svc.Delete(ctx, id)
}

var _ ports.DealCreator = (*DealCreator)(nil)
