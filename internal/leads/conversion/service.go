// Package conversion turns a qualified lead into a pipeline deal. An
// optional company is written first, then the deal, then the lead is
// flipped to Converted. A failed later step deletes what the earlier steps
// wrote.
package conversion

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"crm_backend/internal/events"
	"crm_backend/internal/leads/domain"
	"crm_backend/internal/leads/management"
	"crm_backend/internal/leads/ports"
	"crm_backend/internal/leads/repository"
	"crm_backend/internal/leads/transport"
	"crm_backend/platform/apperr"
	"crm_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	initialStage       = "lead"
	initialProbability = 25
)

// LeadStore is the slice of the lead repository conversion needs.
type LeadStore interface {
	repository.LeadReader
	repository.ConversionWriter
}

type Service struct {
	leads     LeadStore
	deals     ports.DealCreator
	companies ports.CompanyCreator
	eventBus  events.Publisher
	log       *logger.Logger
}

func New(leads LeadStore, deals ports.DealCreator, companies ports.CompanyCreator, eventBus events.Publisher, log *logger.Logger) *Service {
	return &Service{leads: leads, deals: deals, companies: companies, eventBus: eventBus, log: log}
}

// ConvertToDeal creates a deal from the lead and marks the lead Converted.
func (s *Service) ConvertToDeal(ctx context.Context, leadID uuid.UUID, req transport.ConvertLeadRequest) (transport.ConvertLeadResponse, error) {
	lead, err := s.leads.GetByID(ctx, leadID)
	if errors.Is(err, repository.ErrNotFound) {
		return transport.ConvertLeadResponse{}, apperr.NotFound("lead not found")
	}
	if err != nil {
		return transport.ConvertLeadResponse{}, apperr.ExternalCall("load lead", err)
	}
	if lead.Status == string(domain.StatusConverted) {
		return transport.ConvertLeadResponse{}, apperr.Conflict("lead is already converted")
	}
	if req.Value != nil && *req.Value < 0 {
		return transport.ConvertLeadResponse{}, apperr.Validation("value must not be negative")
	}

	draft := BuildDealDraft(lead, req)

	var createdCompany *uuid.UUID
	if req.CreateCompany && draft.CompanyID == nil {
		companyID, err := s.createCompany(ctx, lead)
		if err != nil {
			return transport.ConvertLeadResponse{}, err
		}
		draft.CompanyID = &companyID
		createdCompany = &companyID
	}

	deal, err := s.deals.CreateDeal(ctx, draft)
	if err != nil {
		s.discardCompany(ctx, createdCompany, lead.ID)
		if apperr.Is(err, apperr.KindValidation) {
			return transport.ConvertLeadResponse{}, err
		}
		return transport.ConvertLeadResponse{}, apperr.ExternalCall("create deal", err)
	}

	converted, err := s.leads.MarkConverted(ctx, lead.ID, deal.ID)
	if err != nil {
		s.compensate(ctx, deal.ID, lead.ID)
		s.discardCompany(ctx, createdCompany, lead.ID)
		switch {
		case errors.Is(err, repository.ErrAlreadyConverted):
			return transport.ConvertLeadResponse{}, apperr.Conflict("lead is already converted")
		case errors.Is(err, repository.ErrNotFound):
			return transport.ConvertLeadResponse{}, apperr.NotFound("lead not found")
		default:
			return transport.ConvertLeadResponse{}, apperr.ExternalCall("mark lead converted", err)
		}
	}

	s.log.Info("lead converted", "leadId", lead.ID, "dealId", deal.ID)
	s.eventBus.Publish(ctx, events.LeadConverted{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     converted.ID,
		LeadName:   converted.FullName(),
		DealID:     deal.ID,
		DealTitle:  deal.Title,
		DealValue:  deal.Value,
		CompanyID:  deal.CompanyID,
		AssignedTo: converted.AssignedTo,
	})

	return transport.ConvertLeadResponse{
		Lead: management.ToLeadResponse(converted),
		Deal: toDealResponse(deal),
	}, nil
}

// BuildDealDraft derives the deal fields from the lead and the caller's
// overrides.
func BuildDealDraft(lead repository.Lead, req transport.ConvertLeadRequest) ports.DealDraft {
	contact := lead.FullName()

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = defaultTitle(lead.CompanyName, contact)
	}

	var value float64
	if req.Value != nil {
		value = *req.Value
	}

	draft := ports.DealDraft{
		Title:             title,
		Value:             value,
		Probability:       initialProbability,
		Stage:             initialStage,
		ExpectedCloseDate: req.ExpectedCloseDate,
		ContactPerson:     contact,
		ContactEmail:      lead.Email,
		LeadID:            lead.ID,
		LeadSource:        lead.Source,
		LeadScore:         lead.Score.Total,
		AssignedTo:        lead.AssignedTo,
		Notes:             fmt.Sprintf("Converted from lead ID %s. Original lead score: %d", lead.ID, lead.Score.Total),
	}
	if req.CompanyID.Set {
		draft.CompanyID = req.CompanyID.Value
	}
	return draft
}

func defaultTitle(company, contact string) string {
	if company == "" {
		return contact
	}
	return company + " - " + contact
}

// EmployeesFromSize maps a company size bucket to a representative headcount.
func EmployeesFromSize(size string) int {
	switch size {
	case "1-10":
		return 5
	case "11-50":
		return 25
	case "51-200":
		return 100
	case "201-500":
		return 300
	case "500+":
		return 1000
	default:
		return 10
	}
}

func (s *Service) createCompany(ctx context.Context, lead repository.Lead) (uuid.UUID, error) {
	if s.companies == nil {
		return uuid.Nil, apperr.Validation("company creation is not available")
	}
	name := strings.TrimSpace(lead.CompanyName)
	if name == "" {
		return uuid.Nil, apperr.Validation("lead has no company name")
	}

	id, err := s.companies.CreateFromLead(ctx, ports.CompanyDraft{
		Name:      name,
		Industry:  lead.Industry,
		Website:   lead.Website,
		Employees: EmployeesFromSize(lead.CompanySize),
		LeadID:    lead.ID,
	})
	if err != nil {
		return uuid.Nil, apperr.ExternalCall("create company", err)
	}
	return id, nil
}

// compensate removes a deal whose lead could not be marked converted.
func (s *Service) compensate(ctx context.Context, dealID, leadID uuid.UUID) {
	if err := s.deals.DeleteDeal(context.WithoutCancel(ctx), dealID); err != nil {
		s.log.Error("conversion rollback failed", "dealId", dealID, "leadId", leadID, "error", err)
		return
	}
	s.log.Warn("conversion rolled back", "dealId", dealID, "leadId", leadID)
}

// discardCompany removes a company created by an abandoned conversion.
func (s *Service) discardCompany(ctx context.Context, companyID *uuid.UUID, leadID uuid.UUID) {
	if companyID == nil {
		return
	}
	if err := s.companies.DeleteCompany(context.WithoutCancel(ctx), *companyID); err != nil {
		s.log.Error("company rollback failed", "companyId", *companyID, "leadId", leadID, "error", err)
		return
	}
	s.log.Warn("company rolled back", "companyId", *companyID, "leadId", leadID)
}

func toDealResponse(d ports.CreatedDeal) transport.DealResponse {
	return transport.DealResponse{
		ID:                d.ID,
		Title:             d.Title,
		Value:             d.Value,
		Probability:       d.Probability,
		Stage:             d.Stage,
		ExpectedCloseDate: d.ExpectedCloseDate,
		CompanyID:         d.CompanyID,
		ContactPerson:     d.ContactPerson,
		ContactEmail:      d.ContactEmail,
		LeadID:            d.LeadID,
		AssignedTo:        d.AssignedTo,
		Notes:             d.Notes,
		CreatedAt:         d.CreatedAt,
	}
}
