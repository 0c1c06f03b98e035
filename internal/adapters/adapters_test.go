package adapters

import (
	"context"
	"errors"
	"testing"

	"crm_backend/internal/comments"
	"crm_backend/internal/companies"
	"crm_backend/internal/contacts"
	"crm_backend/internal/leads/ports"
	leadrepo "crm_backend/internal/leads/repository"
	"crm_backend/internal/team"
	"crm_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTeamStore struct {
	members  []team.Member
	lastList team.ListParams
}

func (f *fakeTeamStore) Create(context.Context, team.CreateParams) (team.Member, error) {
	return team.Member{}, errors.New("not implemented")
}

func (f *fakeTeamStore) GetByID(_ context.Context, id uuid.UUID) (team.Member, error) {
	for _, m := range f.members {
		if m.ID == id {
			return m, nil
		}
	}
	return team.Member{}, team.ErrNotFound
}

func (f *fakeTeamStore) List(_ context.Context, p team.ListParams) ([]team.Member, error) {
	f.lastList = p
	var out []team.Member
	for _, m := range f.members {
		if p.ActiveOnly && !m.Active {
			continue
		}
		if p.Territory != nil && m.Territory != *p.Territory {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeTeamStore) Update(context.Context, uuid.UUID, team.UpdateParams) (team.Member, error) {
	return team.Member{}, errors.New("not implemented")
}

func (f *fakeTeamStore) UpsertByEmail(context.Context, team.CreateParams) (team.Member, bool, error) {
	return team.Member{}, false, errors.New("not implemented")
}

func TestTeamDirectoryHidesInactiveMembers(t *testing.T) {
	active := team.Member{ID: uuid.New(), Name: "Grace", Email: "grace@example.com", Territory: "West", Active: true}
	retired := team.Member{ID: uuid.New(), Name: "Alan", Email: "alan@example.com", Territory: "West"}
	store := &fakeTeamStore{members: []team.Member{active, retired}}
	dir := NewTeamDirectory(store)

	got, err := dir.GetActiveMember(context.Background(), active.ID)
	require.NoError(t, err)
	assert.Equal(t, ports.TeamMember{ID: active.ID, Name: "Grace", Email: "grace@example.com", Territory: "West"}, got)

	_, err = dir.GetActiveMember(context.Background(), retired.ID)
	assert.ErrorIs(t, err, ports.ErrMemberNotFound)
	_, err = dir.GetActiveMember(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ports.ErrMemberNotFound)

	west := "West"
	list, err := dir.ListActiveMembers(context.Background(), &west)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, active.ID, list[0].ID)
	assert.True(t, store.lastList.ActiveOnly)

	name, err := dir.MemberName(context.Background(), retired.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alan", name)

	_, err = dir.MemberContact(context.Background(), retired.ID)
	assert.Error(t, err)
	contact, err := dir.MemberContact(context.Background(), active.ID)
	require.NoError(t, err)
	assert.Equal(t, "grace@example.com", contact.Email)
}

type fakeLeadReader map[uuid.UUID]leadrepo.Lead

func (f fakeLeadReader) GetByID(_ context.Context, id uuid.UUID) (leadrepo.Lead, error) {
	lead, ok := f[id]
	if !ok {
		return leadrepo.Lead{}, leadrepo.ErrNotFound
	}
	return lead, nil
}

func (f fakeLeadReader) List(context.Context, leadrepo.ListParams) ([]leadrepo.Lead, int, error) {
	return nil, 0, nil
}

func TestLeadDirectoryMapsNotFound(t *testing.T) {
	owner := uuid.New()
	lead := leadrepo.Lead{ID: uuid.New(), FirstName: "Ada", LastName: "Lovelace", AssignedTo: &owner}
	dir := NewLeadDirectory(fakeLeadReader{lead.ID: lead})

	ref, err := dir.LeadRef(context.Background(), lead.ID)
	require.NoError(t, err)
	assert.Equal(t, comments.LeadRef{Name: "Ada Lovelace", AssignedTo: &owner}, ref)

	_, err = dir.LeadRef(context.Background(), uuid.New())
	assert.ErrorIs(t, err, comments.ErrLeadNotFound)
}

type fakeCompanyStore struct {
	companies.Store
	byID map[uuid.UUID]companies.Company
	err  error
}

func (f fakeCompanyStore) GetByID(_ context.Context, id uuid.UUID) (companies.Company, error) {
	if f.err != nil {
		return companies.Company{}, f.err
	}
	c, ok := f.byID[id]
	if !ok {
		return companies.Company{}, companies.ErrNotFound
	}
	return c, nil
}

func TestCompanyNamesMapsNotFound(t *testing.T) {
	acme := companies.Company{ID: uuid.New(), Name: "Acme"}
	names := NewCompanyNames(fakeCompanyStore{byID: map[uuid.UUID]companies.Company{acme.ID: acme}})

	name, err := names.CompanyName(context.Background(), acme.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", name)

	_, err = names.CompanyName(context.Background(), uuid.New())
	assert.ErrorIs(t, err, contacts.ErrCompanyNotFound)

	broken := NewCompanyNames(fakeCompanyStore{err: errors.New("timeout")})
	_, err = broken.CompanyName(context.Background(), acme.ID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, contacts.ErrCompanyNotFound)
}

type companyRows struct {
	companies.Store
	rows map[uuid.UUID]companies.Company
}

func (f *companyRows) Create(_ context.Context, p companies.CreateParams) (companies.Company, error) {
	c := companies.Company{ID: uuid.New(), Name: p.Name, Employees: p.Employees, Status: p.Status, LeadID: p.LeadID}
	f.rows[c.ID] = c
	return c, nil
}

func (f *companyRows) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.rows[id]; !ok {
		return companies.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

func TestCompanyCreatorDeletesWhatItCreated(t *testing.T) {
	store := &companyRows{rows: map[uuid.UUID]companies.Company{}}
	creator := NewCompanyCreator(companies.NewService(store, logger.Discard()))
	leadID := uuid.New()

	id, err := creator.CreateFromLead(context.Background(), ports.CompanyDraft{Name: "Acme", Employees: 25, LeadID: leadID})
	require.NoError(t, err)
	require.Contains(t, store.rows, id)
	assert.Equal(t, &leadID, store.rows[id].LeadID)

	require.NoError(t, creator.DeleteCompany(context.Background(), id))
	assert.Empty(t, store.rows)
	assert.Error(t, creator.DeleteCompany(context.Background(), id))
}
