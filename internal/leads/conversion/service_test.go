package conversion

import (
	"context"
	"errors"
	"testing"
	"time"

	"crm_backend/internal/events"
	"crm_backend/internal/leads/ports"
	"crm_backend/internal/leads/repository"
	"crm_backend/internal/leads/transport"
	"crm_backend/platform/apperr"
	"crm_backend/platform/logger"

	"github.com/google/uuid"
)

type stubLeads struct {
	leads      map[uuid.UUID]repository.Lead
	convertErr error
}

func (s *stubLeads) GetByID(_ context.Context, id uuid.UUID) (repository.Lead, error) {
	lead, ok := s.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	return lead, nil
}

func (s *stubLeads) List(context.Context, repository.ListParams) ([]repository.Lead, int, error) {
	return nil, 0, nil
}

func (s *stubLeads) MarkConverted(_ context.Context, id uuid.UUID, dealID uuid.UUID) (repository.Lead, error) {
	if s.convertErr != nil {
		return repository.Lead{}, s.convertErr
	}
	lead := s.leads[id]
	lead.Status = "Converted"
	lead.ConvertedDealID = &dealID
	s.leads[id] = lead
	return lead, nil
}

type stubDeals struct {
	created   []ports.DealDraft
	deleted   []uuid.UUID
	ids       []uuid.UUID
	createErr error
}

func (s *stubDeals) CreateDeal(_ context.Context, d ports.DealDraft) (ports.CreatedDeal, error) {
	if s.createErr != nil {
		return ports.CreatedDeal{}, s.createErr
	}
	s.created = append(s.created, d)
	id := uuid.New()
	s.ids = append(s.ids, id)
	leadID := d.LeadID
	return ports.CreatedDeal{
		ID: id, Title: d.Title, Value: d.Value, Probability: d.Probability, Stage: d.Stage,
		CompanyID: d.CompanyID, ContactPerson: d.ContactPerson, ContactEmail: d.ContactEmail,
		LeadID: &leadID, AssignedTo: d.AssignedTo, Notes: d.Notes, CreatedAt: time.Now(),
	}, nil
}

func (s *stubDeals) DeleteDeal(_ context.Context, id uuid.UUID) error {
	s.deleted = append(s.deleted, id)
	return nil
}

type stubCompanies struct {
	drafts []ports.CompanyDraft
	live   map[uuid.UUID]bool
	last   uuid.UUID
}

func (s *stubCompanies) CreateFromLead(_ context.Context, d ports.CompanyDraft) (uuid.UUID, error) {
	s.drafts = append(s.drafts, d)
	s.last = uuid.New()
	s.live[s.last] = true
	return s.last, nil
}

func (s *stubCompanies) DeleteCompany(_ context.Context, id uuid.UUID) error {
	if !s.live[id] {
		return errors.New("company not found")
	}
	delete(s.live, id)
	return nil
}

type capturingBus struct {
	events []events.Event
}

func (b *capturingBus) Publish(_ context.Context, e events.Event) {
	b.events = append(b.events, e)
}

func qualifiedLead() repository.Lead {
	assignee := uuid.New()
	return repository.Lead{
		ID: uuid.New(), FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
		CompanyName: "Analytical Engines", CompanySize: "51-200", Industry: "Technology",
		Source: "Referral", Score: repository.Score{Total: 85}, Status: "Qualified", AssignedTo: &assignee,
	}
}

func setup(leads ...repository.Lead) (*Service, *stubLeads, *stubDeals, *stubCompanies, *capturingBus) {
	store := &stubLeads{leads: map[uuid.UUID]repository.Lead{}}
	for _, l := range leads {
		store.leads[l.ID] = l
	}
	deals := &stubDeals{}
	companies := &stubCompanies{live: map[uuid.UUID]bool{}}
	bus := &capturingBus{}
	return New(store, deals, companies, bus, logger.Discard()), store, deals, companies, bus
}

func TestConvertBuildsDealFromLead(t *testing.T) {
	lead := qualifiedLead()
	svc, store, deals, _, bus := setup(lead)

	value := 12000.0
	resp, err := svc.ConvertToDeal(context.Background(), lead.ID, transport.ConvertLeadRequest{Value: &value})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(deals.created) != 1 {
		t.Fatalf("expected 1 deal, got %d", len(deals.created))
	}
	draft := deals.created[0]
	if draft.Title != "Analytical Engines - Ada Lovelace" {
		t.Fatalf("unexpected title %q", draft.Title)
	}
	if draft.Stage != "lead" || draft.Probability != 25 {
		t.Fatalf("expected stage lead at 25%%, got %s at %d", draft.Stage, draft.Probability)
	}
	if draft.ContactPerson != "Ada Lovelace" || draft.ContactEmail != "ada@example.com" {
		t.Fatalf("unexpected contact %q <%s>", draft.ContactPerson, draft.ContactEmail)
	}
	if draft.LeadSource != "Referral" || draft.LeadScore != 85 {
		t.Fatalf("unexpected lead provenance %q/%d", draft.LeadSource, draft.LeadScore)
	}
	if draft.AssignedTo == nil || *draft.AssignedTo != *lead.AssignedTo {
		t.Fatalf("expected deal to inherit the lead owner")
	}
	wantNotes := "Converted from lead ID " + lead.ID.String() + ". Original lead score: 85"
	if draft.Notes != wantNotes {
		t.Fatalf("expected notes %q, got %q", wantNotes, draft.Notes)
	}

	if store.leads[lead.ID].Status != "Converted" || resp.Lead.Status != "Converted" {
		t.Fatalf("expected lead to be converted")
	}
	if resp.Deal.Value != 12000 {
		t.Fatalf("expected deal value 12000, got %v", resp.Deal.Value)
	}

	if len(bus.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(bus.events))
	}
	converted, ok := bus.events[0].(events.LeadConverted)
	if !ok || converted.DealID != resp.Deal.ID {
		t.Fatalf("expected LeadConverted for deal %s, got %#v", resp.Deal.ID, bus.events[0])
	}
}

func TestConvertUnknownLeadCreatesNoDeal(t *testing.T) {
	svc, _, deals, _, bus := setup()

	_, err := svc.ConvertToDeal(context.Background(), uuid.New(), transport.ConvertLeadRequest{})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(deals.created) != 0 || len(bus.events) != 0 {
		t.Fatalf("expected no side effects")
	}
}

func TestConvertRejectsConvertedLead(t *testing.T) {
	lead := qualifiedLead()
	lead.Status = "Converted"
	svc, _, deals, _, _ := setup(lead)

	_, err := svc.ConvertToDeal(context.Background(), lead.ID, transport.ConvertLeadRequest{})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if len(deals.created) != 0 {
		t.Fatalf("expected no deal")
	}
}

func TestConvertRollsBackDealWhenLeadUpdateFails(t *testing.T) {
	lead := qualifiedLead()
	svc, store, deals, _, bus := setup(lead)
	store.convertErr = errors.New("connection reset")

	_, err := svc.ConvertToDeal(context.Background(), lead.ID, transport.ConvertLeadRequest{})
	if !apperr.Is(err, apperr.KindExternal) {
		t.Fatalf("expected external error, got %v", err)
	}
	if len(deals.ids) != 1 || len(deals.deleted) != 1 || deals.deleted[0] != deals.ids[0] {
		t.Fatalf("expected the created deal to be deleted, created %v deleted %v", deals.ids, deals.deleted)
	}
	if store.leads[lead.ID].Status != "Qualified" {
		t.Fatalf("expected lead to stay Qualified")
	}
	if len(bus.events) != 0 {
		t.Fatalf("expected no events")
	}
}

func TestConvertLosingRaceIsConflict(t *testing.T) {
	lead := qualifiedLead()
	svc, store, deals, _, _ := setup(lead)
	store.convertErr = repository.ErrAlreadyConverted

	_, err := svc.ConvertToDeal(context.Background(), lead.ID, transport.ConvertLeadRequest{})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if len(deals.deleted) != 1 {
		t.Fatalf("expected rollback of 1 deal, got %d", len(deals.deleted))
	}
}

func TestConvertCanCreateCompany(t *testing.T) {
	lead := qualifiedLead()
	svc, _, deals, companies, _ := setup(lead)

	resp, err := svc.ConvertToDeal(context.Background(), lead.ID, transport.ConvertLeadRequest{CreateCompany: true, Title: "Engine rollout"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(companies.drafts) != 1 {
		t.Fatalf("expected 1 company, got %d", len(companies.drafts))
	}
	if companies.drafts[0].Employees != 100 || companies.drafts[0].Name != "Analytical Engines" {
		t.Fatalf("unexpected company draft %#v", companies.drafts[0])
	}
	if id := deals.created[0].CompanyID; id == nil || *id != companies.last {
		t.Fatalf("expected deal linked to company %s", companies.last)
	}
	if !companies.live[companies.last] {
		t.Fatalf("expected company to be kept")
	}
	if resp.Deal.Title != "Engine rollout" {
		t.Fatalf("expected title override, got %q", resp.Deal.Title)
	}
}

func TestConvertRemovesCompanyWhenDealFails(t *testing.T) {
	lead := qualifiedLead()
	svc, _, deals, companies, _ := setup(lead)
	deals.createErr = errors.New("connection reset")

	for i := 0; i < 2; i++ {
		_, err := svc.ConvertToDeal(context.Background(), lead.ID, transport.ConvertLeadRequest{CreateCompany: true})
		if !apperr.Is(err, apperr.KindExternal) {
			t.Fatalf("attempt %d: expected external error, got %v", i, err)
		}
	}

	if len(companies.drafts) != 2 {
		t.Fatalf("expected 2 company attempts, got %d", len(companies.drafts))
	}
	if len(companies.live) != 0 {
		t.Fatalf("expected no companies left behind, got %d", len(companies.live))
	}
}

func TestConvertRemovesCompanyWhenLeadUpdateFails(t *testing.T) {
	lead := qualifiedLead()
	svc, store, deals, companies, _ := setup(lead)
	store.convertErr = repository.ErrAlreadyConverted

	_, err := svc.ConvertToDeal(context.Background(), lead.ID, transport.ConvertLeadRequest{CreateCompany: true})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if len(deals.deleted) != 1 {
		t.Fatalf("expected deal rollback")
	}
	if len(companies.live) != 0 {
		t.Fatalf("expected company rollback, %d left", len(companies.live))
	}
}

func TestConvertKeepsCallerCompanyOnFailure(t *testing.T) {
	lead := qualifiedLead()
	svc, _, deals, companies, _ := setup(lead)
	deals.createErr = apperr.Validation("invalid companyId")

	existing := uuid.New()
	req := transport.ConvertLeadRequest{CreateCompany: true}
	req.CompanyID.Set = true
	req.CompanyID.Value = &existing

	_, err := svc.ConvertToDeal(context.Background(), lead.ID, req)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error to pass through, got %v", err)
	}
	if len(companies.drafts) != 0 {
		t.Fatalf("expected no company to be created when one is given")
	}
}

func TestEmployeesFromSize(t *testing.T) {
	cases := map[string]int{"1-10": 5, "11-50": 25, "51-200": 100, "201-500": 300, "500+": 1000, "": 10}
	for size, want := range cases {
		if got := EmployeesFromSize(size); got != want {
			t.Fatalf("%q: expected %d, got %d", size, want, got)
		}
	}
}
