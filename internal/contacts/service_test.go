package contacts

import (
	"context"
	"encoding/json"
	"testing"

	"crm_backend/platform/apperr"
	"crm_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	contacts map[uuid.UUID]Contact
	lastList ListParams
}

func newMemStore() *memStore {
	return &memStore{contacts: map[uuid.UUID]Contact{}}
}

func (m *memStore) Create(_ context.Context, p CreateParams) (Contact, error) {
	c := Contact{
		ID: uuid.New(), FirstName: p.FirstName, LastName: p.LastName, Email: p.Email, Phone: p.Phone,
		CompanyID: p.CompanyID, CompanyName: p.CompanyName, Status: p.Status, MRR: p.MRR,
	}
	m.contacts[c.ID] = c
	return c, nil
}

func (m *memStore) GetByID(_ context.Context, id uuid.UUID) (Contact, error) {
	c, ok := m.contacts[id]
	if !ok {
		return Contact{}, ErrNotFound
	}
	return c, nil
}

func (m *memStore) Update(ctx context.Context, id uuid.UUID, p UpdateParams) (Contact, error) {
	c, err := m.GetByID(ctx, id)
	if err != nil {
		return Contact{}, err
	}
	if p.CompanyIDSet {
		c.CompanyID = p.CompanyID
	}
	if p.CompanyName != nil {
		c.CompanyName = *p.CompanyName
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	m.contacts[id] = c
	return c, nil
}

func (m *memStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.contacts[id]; !ok {
		return ErrNotFound
	}
	delete(m.contacts, id)
	return nil
}

func (m *memStore) List(_ context.Context, p ListParams) ([]Contact, int, error) {
	m.lastList = p
	return nil, 0, nil
}

type companyNames map[uuid.UUID]string

func (c companyNames) CompanyName(_ context.Context, id uuid.UUID) (string, error) {
	name, ok := c[id]
	if !ok {
		return "", ErrCompanyNotFound
	}
	return name, nil
}

func TestCreateNormalizesAndDefaults(t *testing.T) {
	svc := NewService(newMemStore(), companyNames{}, logger.Discard())

	resp, err := svc.Create(context.Background(), CreateContactRequest{
		FirstName: "Jane", LastName: "Doe", Email: " Jane@Example.com ",
		Phone: "(201) 555-0123", Company: "Acme",
	})
	require.NoError(t, err)
	assert.Equal(t, "+12015550123", resp.Phone)
	assert.Equal(t, "jane@example.com", resp.Email)
	assert.Equal(t, StatusTrial, resp.Status)
	assert.Equal(t, "Acme", resp.Company)
}

func TestCreateUsesLinkedCompanyName(t *testing.T) {
	companyID := uuid.New()
	svc := NewService(newMemStore(), companyNames{companyID: "Globex"}, logger.Discard())

	resp, err := svc.Create(context.Background(), CreateContactRequest{
		FirstName: "Hank", LastName: "Scorpio", Email: "hank@globex.com",
		CompanyID: &companyID, Company: "typed by hand",
	})
	require.NoError(t, err)
	assert.Equal(t, "Globex", resp.Company)
	assert.Equal(t, &companyID, resp.CompanyID)
}

func TestCreateRejectsUnknownCompany(t *testing.T) {
	unknown := uuid.New()
	svc := NewService(newMemStore(), companyNames{}, logger.Discard())

	_, err := svc.Create(context.Background(), CreateContactRequest{
		FirstName: "A", LastName: "B", Email: "a@b.co", CompanyID: &unknown,
	})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestUpdateClearsCompanyOnExplicitNull(t *testing.T) {
	companyID := uuid.New()
	store := newMemStore()
	svc := NewService(store, companyNames{companyID: "Globex"}, logger.Discard())
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateContactRequest{FirstName: "A", LastName: "B", Email: "a@b.co", CompanyID: &companyID})
	require.NoError(t, err)

	var req UpdateContactRequest
	require.NoError(t, json.Unmarshal([]byte(`{"companyId":null}`), &req))
	updated, err := svc.Update(ctx, created.ID, req)
	require.NoError(t, err)
	assert.Nil(t, updated.CompanyID)
	assert.Equal(t, "Globex", updated.Company)
}

func TestListParsesCompanyFilter(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, companyNames{}, logger.Discard())
	companyID := uuid.New()

	resp, err := svc.List(context.Background(), ListContactsRequest{CompanyID: companyID.String(), PageSize: 500})
	require.NoError(t, err)
	require.NotNil(t, store.lastList.CompanyID)
	assert.Equal(t, companyID, *store.lastList.CompanyID)
	assert.Equal(t, 100, resp.PageSize)
}
