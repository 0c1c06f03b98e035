package team

import (
	"context"
	"testing"

	"crm_backend/platform/apperr"
	"crm_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeStore struct {
	members []Member
}

func (f *fakeStore) Create(_ context.Context, p CreateParams) (Member, error) {
	for _, m := range f.members {
		if m.Email == p.Email {
			return Member{}, ErrDuplicateEmail
		}
	}
	m := Member{ID: uuid.New(), Name: p.Name, Email: p.Email, Territory: p.Territory, Position: len(f.members) + 1, Active: true}
	f.members = append(f.members, m)
	return m, nil
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (Member, error) {
	for _, m := range f.members {
		if m.ID == id {
			return m, nil
		}
	}
	return Member{}, ErrNotFound
}

func (f *fakeStore) List(_ context.Context, p ListParams) ([]Member, error) {
	out := []Member{}
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

func (f *fakeStore) Update(_ context.Context, id uuid.UUID, p UpdateParams) (Member, error) {
	for i := range f.members {
		if f.members[i].ID != id {
			continue
		}
		if p.Active != nil {
			f.members[i].Active = *p.Active
		}
		if p.Territory != nil {
			f.members[i].Territory = *p.Territory
		}
		return f.members[i], nil
	}
	return Member{}, ErrNotFound
}

func (f *fakeStore) UpsertByEmail(ctx context.Context, p CreateParams) (Member, bool, error) {
	m, err := f.Create(ctx, p)
	return m, err == nil, err
}

type fakeCounter map[uuid.UUID]int

func (f fakeCounter) CountAssignedLeads(context.Context, *string) (map[uuid.UUID]int, error) {
	return f, nil
}

func TestWorkloadSkipsInactiveMembers(t *testing.T) {
	store := &fakeStore{}
	ctx := context.Background()
	svc := NewService(store, nil, logger.Discard())

	alice, err := svc.Create(ctx, CreateMemberRequest{Name: "Alice", Email: "alice@example.com", Territory: "West"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	bob, _ := svc.Create(ctx, CreateMemberRequest{Name: "Bob", Email: "bob@example.com", Territory: "West"})
	if err := svc.Deactivate(ctx, bob.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	svc.counts = fakeCounter{alice.ID: 3, bob.ID: 7}
	result, err := svc.Workload(ctx, "West")
	if err != nil {
		t.Fatalf("workload: %v", err)
	}
	if len(result.Items) != 1 || result.Items[0].MemberID != alice.ID || result.Items[0].AssignedLeads != 3 {
		t.Fatalf("unexpected workload %+v", result.Items)
	}
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	svc := NewService(&fakeStore{}, fakeCounter{}, logger.Discard())
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateMemberRequest{Name: "Alice", Email: "a@example.com"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := svc.Create(ctx, CreateMemberRequest{Name: "Alice 2", Email: "a@example.com"})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestDeactivateUnknownMember(t *testing.T) {
	svc := NewService(&fakeStore{}, fakeCounter{}, logger.Discard())
	err := svc.Deactivate(context.Background(), uuid.New())
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
