package management

import (
	"context"
	"errors"
	"testing"

	"crm_backend/internal/leads/ports"
	"crm_backend/internal/leads/repository"
	"crm_backend/internal/leads/transport"
	"crm_backend/platform/apperr"

	"github.com/google/uuid"
)

func seedAssigned(t *testing.T, repo *fakeRepo, owner ports.TeamMember, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		lead, _ := repo.Create(context.Background(), repository.CreateLeadParams{FirstName: "L", LastName: "X"})
		id := owner.ID
		_, _ = repo.Update(context.Background(), lead.ID, repository.UpdateLeadParams{
			AssignedTo: &id, AssignedToSet: true, Territory: &owner.Territory,
		})
	}
}

func TestRoundRobinPicksLeastLoadedMember(t *testing.T) {
	team := &fakeTeam{members: []ports.TeamMember{
		{ID: uuid.New(), Name: "One", Territory: "West"},
		{ID: uuid.New(), Name: "Two", Territory: "West"},
		{ID: uuid.New(), Name: "Three", Territory: "East"},
		{ID: uuid.New(), Name: "Four", Territory: "East"},
	}}
	svc, repo, bus := newTestService(team)
	for i, n := range []int{2, 2, 1, 3} {
		seedAssigned(t, repo, team.members[i], n)
	}

	lead, _ := svc.Create(context.Background(), transport.CreateLeadRequest{FirstName: "New", LastName: "Lead"})
	assigned, err := svc.Assign(context.Background(), lead.ID, transport.AssignLeadRequest{Policy: "round_robin"})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if assigned.AssignedTo == nil || *assigned.AssignedTo != team.members[2].ID {
		t.Fatalf("expected member three, got %v", assigned.AssignedTo)
	}
	if assigned.AssignedToName != "Three" || assigned.Territory != "East" {
		t.Fatalf("unexpected assignee fields %+v", assigned)
	}

	names := bus.names()
	if names[len(names)-1] != "leads.lead.assigned" {
		t.Fatalf("expected assignment event, got %v", names)
	}
}

func TestTerritoryAssignmentCountsOnlyThatTerritory(t *testing.T) {
	team := &fakeTeam{members: []ports.TeamMember{
		{ID: uuid.New(), Name: "West A", Territory: "West"},
		{ID: uuid.New(), Name: "West B", Territory: "West"},
		{ID: uuid.New(), Name: "East", Territory: "East"},
	}}
	svc, repo, _ := newTestService(team)
	seedAssigned(t, repo, team.members[0], 1)
	seedAssigned(t, repo, team.members[2], 0)

	lead, _ := svc.Create(context.Background(), transport.CreateLeadRequest{FirstName: "New", LastName: "Lead"})
	assigned, err := svc.Assign(context.Background(), lead.ID, transport.AssignLeadRequest{Policy: "territory", Territory: "West"})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if *assigned.AssignedTo != team.members[1].ID {
		t.Fatalf("expected West B, got %s", assigned.AssignedToName)
	}
}

func TestTerritoryWithoutMembers(t *testing.T) {
	svc, _, _ := newTestService(&fakeTeam{})
	lead, _ := svc.Create(context.Background(), transport.CreateLeadRequest{FirstName: "New", LastName: "Lead"})

	_, err := svc.Assign(context.Background(), lead.ID, transport.AssignLeadRequest{Policy: "territory", Territory: "North"})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDirectAssignmentRejectsUnknownMember(t *testing.T) {
	svc, _, _ := newTestService(&fakeTeam{})
	lead, _ := svc.Create(context.Background(), transport.CreateLeadRequest{FirstName: "New", LastName: "Lead"})

	unknown := uuid.New()
	_, err := svc.Assign(context.Background(), lead.ID, transport.AssignLeadRequest{Policy: "direct", AssigneeID: &unknown})
	var appErr *apperr.Error
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !errors.As(err, &appErr) || appErr.Message != "invalid assignee id" {
		t.Fatalf("unexpected message %v", err)
	}
}

func TestCreateWithAssignment(t *testing.T) {
	member := ports.TeamMember{ID: uuid.New(), Name: "Dana", Territory: "North"}
	svc, _, _ := newTestService(&fakeTeam{members: []ports.TeamMember{member}})

	lead, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		FirstName: "New", LastName: "Lead",
		Assignment: &transport.AssignLeadRequest{Policy: "direct", AssigneeID: &member.ID},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if lead.AssignedTo == nil || *lead.AssignedTo != member.ID || lead.Territory != "North" {
		t.Fatalf("expected lead assigned to Dana, got %+v", lead)
	}
}

func TestCreateWithInvalidAssigneeStoresNothing(t *testing.T) {
	unknown := uuid.New()
	svc, repo, bus := newTestService(&fakeTeam{})

	_, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		FirstName: "New", LastName: "Lead",
		Assignment: &transport.AssignLeadRequest{Policy: "direct", AssigneeID: &unknown},
	})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(repo.leads) != 0 {
		t.Fatalf("expected no stored lead, got %d", len(repo.leads))
	}
	if got := bus.names(); len(got) != 0 {
		t.Fatalf("expected no events, got %v", got)
	}

	_, err = svc.Create(context.Background(), transport.CreateLeadRequest{
		FirstName: "New", LastName: "Lead",
		Assignment: &transport.AssignLeadRequest{Policy: "territory", Territory: "Nowhere"},
	})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for empty territory, got %v", err)
	}
	if len(repo.leads) != 0 {
		t.Fatalf("expected no stored lead, got %d", len(repo.leads))
	}
}

func TestCreateWithAssignmentPublishesAssigned(t *testing.T) {
	member := ports.TeamMember{ID: uuid.New(), Name: "Dana", Territory: "North"}
	svc, repo, bus := newTestService(&fakeTeam{members: []ports.TeamMember{member}})

	lead, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		FirstName: "New", LastName: "Lead",
		Assignment: &transport.AssignLeadRequest{Policy: "round_robin"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	stored := repo.leads[lead.ID]
	if stored.AssignedTo == nil || *stored.AssignedTo != member.ID || stored.AssignedToName != "Dana" {
		t.Fatalf("expected owner written on insert, got %+v", stored)
	}
	if got := bus.names(); len(got) != 2 || got[0] != "leads.lead.created" || got[1] != "leads.lead.assigned" {
		t.Fatalf("unexpected events %v", got)
	}
}
