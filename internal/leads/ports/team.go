// Package ports defines consumer-driven interfaces for external dependencies.
// These interfaces are defined in the leads domain based on what it needs,
// rather than what other domains choose to offer.
package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrMemberNotFound is returned when no active member has the given id.
var ErrMemberNotFound = errors.New("team member not found")

// TeamMember is the minimal member data the leads domain needs.
type TeamMember struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Territory string
}

// TeamDirectory lists the members leads can be assigned to.
type TeamDirectory interface {
	// GetActiveMember returns ErrMemberNotFound for unknown or inactive ids.
	GetActiveMember(ctx context.Context, id uuid.UUID) (TeamMember, error)
	// ListActiveMembers returns active members in list order. A nil
	// territory lists the whole team.
	ListActiveMembers(ctx context.Context, territory *string) ([]TeamMember, error)
}
