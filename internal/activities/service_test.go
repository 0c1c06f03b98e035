package activities

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"crm_backend/internal/events"
	"crm_backend/platform/apperr"
	"crm_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	items    map[uuid.UUID]Activity
	lastList ListParams
}

func newMemStore() *memStore {
	return &memStore{items: map[uuid.UUID]Activity{}}
}

func (m *memStore) Create(_ context.Context, p CreateParams) (Activity, error) {
	a := Activity{
		ID: uuid.New(), Type: p.Type, Title: p.Title, Description: p.Description,
		ContactID: p.ContactID, CompanyID: p.CompanyID, LeadID: p.LeadID, DealID: p.DealID, OwnerID: p.OwnerID,
		IsTask: p.IsTask, DueDate: p.DueDate, Completed: p.Completed, CompletedAt: p.CompletedAt, Priority: p.Priority,
	}
	m.items[a.ID] = a
	return a, nil
}

func (m *memStore) GetByID(_ context.Context, id uuid.UUID) (Activity, error) {
	a, ok := m.items[id]
	if !ok {
		return Activity{}, ErrNotFound
	}
	return a, nil
}

func (m *memStore) Update(ctx context.Context, id uuid.UUID, p UpdateParams) (Activity, error) {
	a, err := m.GetByID(ctx, id)
	if err != nil {
		return Activity{}, err
	}
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Completed != nil {
		a.Completed = *p.Completed
	}
	if p.CompletedAtSet {
		a.CompletedAt = p.CompletedAt
	}
	if p.DueDateSet {
		a.DueDate = p.DueDate
	}
	m.items[id] = a
	return a, nil
}

func (m *memStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.items[id]; !ok {
		return ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memStore) List(_ context.Context, p ListParams) ([]Activity, int, error) {
	m.lastList = p
	return nil, 0, nil
}

func newTestService(store Store, now time.Time) *Service {
	svc := NewService(store, logger.Discard())
	svc.now = func() time.Time { return now }
	return svc
}

func TestCreateAppliesDefaults(t *testing.T) {
	svc := newTestService(newMemStore(), time.Now())

	resp, err := svc.Create(context.Background(), CreateActivityRequest{Type: TypeCall, Title: "Intro call"})
	require.NoError(t, err)
	assert.False(t, resp.IsTask)
	assert.False(t, resp.Completed)
	assert.Nil(t, resp.CompletedAt)
	assert.Equal(t, PriorityMedium, resp.Priority)
}

func TestCompletionStampsAndClearsCompletedAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := newTestService(newMemStore(), now)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateActivityRequest{Type: TypeTask, Title: "Send proposal", IsTask: true})
	require.NoError(t, err)

	done, err := svc.Complete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, done.Completed)
	require.NotNil(t, done.CompletedAt)
	assert.Equal(t, now, *done.CompletedAt)

	// Completing again keeps the original stamp.
	svc.now = func() time.Time { return now.Add(time.Hour) }
	again, err := svc.Complete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, now, *again.CompletedAt)

	reopened, err := svc.Reopen(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, reopened.Completed)
	assert.Nil(t, reopened.CompletedAt)
}

func TestUpdateClearsDueDateOnNull(t *testing.T) {
	due := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	svc := newTestService(newMemStore(), time.Now())
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateActivityRequest{Type: TypeTask, Title: "Follow up", IsTask: true, DueDate: &due})
	require.NoError(t, err)

	var req UpdateActivityRequest
	require.NoError(t, json.Unmarshal([]byte(`{"dueDate":null}`), &req))
	updated, err := svc.Update(ctx, created.ID, req)
	require.NoError(t, err)
	assert.Nil(t, updated.DueDate)
}

func TestOverdueFiltersOnCurrentTime(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := newMemStore()
	svc := newTestService(store, now)
	leadID := uuid.New()

	_, err := svc.Overdue(context.Background(), ListActivitiesRequest{LeadID: leadID.String()})
	require.NoError(t, err)
	require.NotNil(t, store.lastList.OverdueAt)
	assert.Equal(t, now, *store.lastList.OverdueAt)
	assert.Equal(t, &leadID, store.lastList.LeadID)
}

func TestListRejectsMalformedReference(t *testing.T) {
	svc := newTestService(newMemStore(), time.Now())
	_, err := svc.List(context.Background(), ListActivitiesRequest{DealID: "nope"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestUpdateUnknownActivity(t *testing.T) {
	svc := newTestService(newMemStore(), time.Now())
	_, err := svc.Complete(context.Background(), uuid.New())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestLeadConvertedRecordsConversionActivity(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, time.Now())
	bus := events.NewInMemoryBus(logger.Discard())
	NewSubscriber(svc, logger.Discard()).RegisterHandlers(bus)

	leadID, dealID := uuid.New(), uuid.New()
	require.NoError(t, bus.PublishSync(context.Background(), events.LeadConverted{
		BaseEvent: events.NewBaseEvent(), LeadID: leadID, DealID: dealID,
	}))

	require.Len(t, store.items, 1)
	for _, a := range store.items {
		assert.Equal(t, TypeConversion, a.Type)
		assert.Equal(t, "Lead Converted to Deal", a.Title)
		assert.Equal(t, "Lead ID "+leadID.String()+" was successfully converted to Deal ID "+dealID.String(), a.Description)
		assert.True(t, a.Completed)
		assert.NotNil(t, a.CompletedAt)
		assert.Equal(t, &leadID, a.LeadID)
		assert.Equal(t, &dealID, a.DealID)
	}
}
