package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"crm_backend/internal/deals/repository"
	"crm_backend/internal/deals/transport"
	"crm_backend/internal/events"
	"crm_backend/platform/apperr"
	"crm_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

type memStore struct {
	deals    map[uuid.UUID]repository.Deal
	writes   int
	writeErr error
}

func newMemStore() *memStore {
	return &memStore{deals: map[uuid.UUID]repository.Deal{}}
}

func (m *memStore) Create(_ context.Context, p repository.CreateDealParams) (repository.Deal, error) {
	m.writes++
	if m.writeErr != nil {
		return repository.Deal{}, m.writeErr
	}
	d := repository.Deal{
		ID: uuid.New(), Title: p.Title, Value: p.Value, Probability: p.Probability, Stage: p.Stage,
		ExpectedCloseDate: p.ExpectedCloseDate, CompanyID: p.CompanyID, ContactPerson: p.ContactPerson,
		ContactEmail: p.ContactEmail, LeadID: p.LeadID, LeadSource: p.LeadSource, LeadScore: p.LeadScore,
		AssignedTo: p.AssignedTo, Notes: p.Notes, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	m.deals[d.ID] = d
	return d, nil
}

func (m *memStore) GetByID(_ context.Context, id uuid.UUID) (repository.Deal, error) {
	d, ok := m.deals[id]
	if !ok {
		return repository.Deal{}, repository.ErrNotFound
	}
	return d, nil
}

func (m *memStore) Update(_ context.Context, id uuid.UUID, p repository.UpdateDealParams) (repository.Deal, error) {
	m.writes++
	if m.writeErr != nil {
		return repository.Deal{}, m.writeErr
	}
	d, ok := m.deals[id]
	if !ok {
		return repository.Deal{}, repository.ErrNotFound
	}
	if p.Title != nil {
		d.Title = *p.Title
	}
	if p.Value != nil {
		d.Value = *p.Value
	}
	if p.Probability != nil {
		d.Probability = *p.Probability
	}
	if p.Stage != nil {
		d.Stage = *p.Stage
	}
	m.deals[id] = d
	return d, nil
}

func (m *memStore) UpdateStage(_ context.Context, id uuid.UUID, stage string) (repository.Deal, error) {
	m.writes++
	d, ok := m.deals[id]
	if !ok {
		return repository.Deal{}, repository.ErrNotFound
	}
	d.Stage = stage
	m.deals[id] = d
	return d, nil
}

func (m *memStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.deals[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.deals, id)
	return nil
}

func (m *memStore) List(_ context.Context, p repository.ListParams) ([]repository.Deal, int, error) {
	out := []repository.Deal{}
	for _, d := range m.deals {
		if p.ConvertedOnly && d.LeadID == nil {
			continue
		}
		if p.Stage != nil && d.Stage != *p.Stage {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, len(out), nil
}

type eventLog struct {
	events []events.Event
}

func (l *eventLog) Publish(_ context.Context, e events.Event) {
	l.events = append(l.events, e)
}

func newService() (*Service, *memStore, *eventLog) {
	store := newMemStore()
	bus := &eventLog{}
	return New(store, bus, logger.Discard()), store, bus
}

func createDeal(t *testing.T, svc *Service, title, stage string, value float64) transport.DealResponse {
	t.Helper()
	d, err := svc.Create(context.Background(), transport.CreateDealRequest{Title: title, Stage: stage, Value: value})
	if err != nil {
		t.Fatalf("create %s: %v", title, err)
	}
	return d
}

func TestCreateDefaults(t *testing.T) {
	svc, _, _ := newService()
	d := createDeal(t, svc, "Acme", "", 1000)
	if d.Stage != "lead" || d.Probability != 25 {
		t.Fatalf("expected lead at 25%%, got %s at %d", d.Stage, d.Probability)
	}
}

func TestCreateValidatesBeforeWriting(t *testing.T) {
	svc, store, _ := newService()
	ctx := context.Background()

	over := 150
	bad := []transport.CreateDealRequest{
		{Title: "x", Probability: &over},
		{Title: "x", Value: -1},
		{Title: "x", Stage: "won"},
	}
	for i, req := range bad {
		if _, err := svc.Create(ctx, req); !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}

	if store.writes != 0 {
		t.Fatalf("expected no writes, got %d", store.writes)
	}
}

func TestMoveUpdatesBoardAggregates(t *testing.T) {
	svc, _, bus := newService()
	ctx := context.Background()

	a := createDeal(t, svc, "A", "demo", 5000)
	createDeal(t, svc, "B", "demo", 2500)

	moved, err := svc.Move(ctx, a.ID, "negotiation")
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if moved.Stage != "negotiation" || moved.Value != a.Value {
		t.Fatalf("unexpected moved deal %#v", moved)
	}

	board, err := svc.Board(ctx)
	if err != nil {
		t.Fatalf("board: %v", err)
	}
	if len(board.Columns) != 5 {
		t.Fatalf("expected 5 columns, got %d", len(board.Columns))
	}
	demo, negotiation := board.Columns[1], board.Columns[3]
	if demo.Label != "Demo Scheduled" || demo.Count != 1 || demo.TotalValue != 2500 {
		t.Fatalf("unexpected demo column %#v", demo)
	}
	if negotiation.Count != 1 || negotiation.TotalValue != 5000 {
		t.Fatalf("unexpected negotiation column %#v", negotiation)
	}
	if len(board.Columns[0].Deals) != 0 {
		t.Fatalf("expected empty lead column")
	}

	if len(bus.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(bus.events))
	}
	changed, ok := bus.events[0].(events.DealStageChanged)
	if !ok || changed.OldStage != "demo" || changed.NewStage != "negotiation" {
		t.Fatalf("unexpected event %#v", bus.events[0])
	}
}

func TestMoveAllowsBackwardsAndRejectsUnknown(t *testing.T) {
	svc, store, _ := newService()
	ctx := context.Background()

	d := createDeal(t, svc, "A", "closed", 100)
	back, err := svc.Move(ctx, d.ID, "lead")
	if err != nil || back.Stage != "lead" {
		t.Fatalf("expected move back to lead, got %s (%v)", back.Stage, err)
	}

	writes := store.writes
	if _, err := svc.Move(ctx, d.ID, "archived"); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if store.writes != writes {
		t.Fatalf("expected no write for unknown stage")
	}

	if _, err := svc.Move(ctx, uuid.New(), "demo"); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateKeepsIDAndValidatesMergedValues(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	d := createDeal(t, svc, "A", "trial", 100)
	title := "Renamed"
	updated, err := svc.Update(ctx, d.ID, transport.UpdateDealRequest{Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != d.ID || updated.Title != "Renamed" {
		t.Fatalf("unexpected update result %#v", updated)
	}

	bad := -5
	if _, err := svc.Update(ctx, d.ID, transport.UpdateDealRequest{Probability: &bad}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUnknownReferencesAreValidationErrors(t *testing.T) {
	svc, store, _ := newService()
	ctx := context.Background()
	d := createDeal(t, svc, "A", "lead", 100)

	missing := uuid.New()
	store.writeErr = repository.ErrUnknownCompany
	_, err := svc.Create(ctx, transport.CreateDealRequest{Title: "B", CompanyID: &missing})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error on create, got %v", err)
	}
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Message != "invalid companyId" {
		t.Fatalf("expected invalid companyId, got %v", err)
	}

	store.writeErr = repository.ErrUnknownAssignee
	req := transport.UpdateDealRequest{}
	req.AssignedTo.Set = true
	req.AssignedTo.Value = &missing
	if _, err := svc.Update(ctx, d.ID, req); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error on update, got %v", err)
	}

	store.writeErr = &pgconn.PgError{Code: "08006"}
	if _, err := svc.Create(ctx, transport.CreateDealRequest{Title: "C"}); !apperr.Is(err, apperr.KindExternal) {
		t.Fatalf("expected other store failures to stay external, got %v", err)
	}
}

func TestStatsAndConversionStats(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	leadID := uuid.New()
	if _, err := svc.Create(ctx, transport.CreateDealRequest{Title: "Converted", Value: 3000, LeadID: &leadID, LeadSource: "Referral"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	createDeal(t, svc, "Direct", "closed", 1000)

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalDeals != 2 || stats.TotalValue != 4000 {
		t.Fatalf("unexpected totals %d/%v", stats.TotalDeals, stats.TotalValue)
	}
	if got := stats.ByStage["closed"]; got != (transport.StageStats{Count: 1, Value: 1000}) {
		t.Fatalf("unexpected closed stats %#v", got)
	}

	conv, err := svc.ConversionStats(ctx)
	if err != nil {
		t.Fatalf("conversion stats: %v", err)
	}
	if conv.TotalConverted != 1 || conv.AvgDealSize != 3000 {
		t.Fatalf("unexpected conversion stats %#v", conv)
	}
	if got := conv.ConversionsBySource["Referral"]; got != (transport.SourceConversion{Count: 1, Revenue: 3000}) {
		t.Fatalf("unexpected referral stats %#v", got)
	}
}
