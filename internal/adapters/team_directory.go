package adapters

import (
	"context"
	"errors"
	"fmt"

	"crm_backend/internal/comments"
	"crm_backend/internal/leads/ports"
	"crm_backend/internal/notification"
	"crm_backend/internal/team"

	"github.com/google/uuid"
)

// TeamDirectory adapts the team repository for the leads, comments and
// notification contexts.
type TeamDirectory struct {
	repo team.Store
}

func NewTeamDirectory(repo team.Store) *TeamDirectory {
	return &TeamDirectory{repo: repo}
}

// GetActiveMember returns ports.ErrMemberNotFound for unknown or inactive ids.
func (a *TeamDirectory) GetActiveMember(ctx context.Context, id uuid.UUID) (ports.TeamMember, error) {
	m, err := a.repo.GetByID(ctx, id)
	if errors.Is(err, team.ErrNotFound) {
		return ports.TeamMember{}, ports.ErrMemberNotFound
	}
	if err != nil {
		return ports.TeamMember{}, fmt.Errorf("team adapter: get member: %w", err)
	}
	if !m.Active {
		return ports.TeamMember{}, ports.ErrMemberNotFound
	}
	return toPortMember(m), nil
}

func (a *TeamDirectory) ListActiveMembers(ctx context.Context, territory *string) ([]ports.TeamMember, error) {
	members, err := a.repo.List(ctx, team.ListParams{Territory: territory, ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("team adapter: list members: %w", err)
	}

	out := make([]ports.TeamMember, len(members))
	for i, m := range members {
		out[i] = toPortMember(m)
	}
	return out, nil
}

// MemberName resolves comment author names. Inactive members keep their name.
func (a *TeamDirectory) MemberName(ctx context.Context, id uuid.UUID) (string, error) {
	m, err := a.repo.GetByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("team adapter: member name: %w", err)
	}
	return m.Name, nil
}

func (a *TeamDirectory) MemberContact(ctx context.Context, id uuid.UUID) (notification.MemberContact, error) {
	m, err := a.repo.GetByID(ctx, id)
	if err != nil {
		return notification.MemberContact{}, fmt.Errorf("team adapter: member contact: %w", err)
	}
	if !m.Active {
		return notification.MemberContact{}, fmt.Errorf("team adapter: member %s is inactive", id)
	}
	return notification.MemberContact{Name: m.Name, Email: m.Email}, nil
}

func toPortMember(m team.Member) ports.TeamMember {
	return ports.TeamMember{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Territory: m.Territory,
	}
}

var (
	_ ports.TeamDirectory          = (*TeamDirectory)(nil)
	_ comments.AuthorDirectory     = (*TeamDirectory)(nil)
	_ notification.MemberDirectory = (*TeamDirectory)(nil)
)
