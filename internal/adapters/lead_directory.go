package adapters

import (
	"context"
	"errors"
	"fmt"

	"crm_backend/internal/comments"
	leadrepo "crm_backend/internal/leads/repository"

	"github.com/google/uuid"
)

// LeadDirectory lets comments check and describe the lead they belong to.
type LeadDirectory struct {
	repo leadrepo.LeadReader
}

func NewLeadDirectory(repo leadrepo.LeadReader) *LeadDirectory {
	return &LeadDirectory{repo: repo}
}

func (a *LeadDirectory) LeadRef(ctx context.Context, id uuid.UUID) (comments.LeadRef, error) {
	lead, err := a.repo.GetByID(ctx, id)
	if errors.Is(err, leadrepo.ErrNotFound) {
		return comments.LeadRef{}, comments.ErrLeadNotFound
	}
	if err != nil {
		return comments.LeadRef{}, fmt.Errorf("leads adapter: get lead: %w", err)
	}
	return comments.LeadRef{Name: lead.FullName(), AssignedTo: lead.AssignedTo}, nil
}

var _ comments.LeadDirectory = (*LeadDirectory)(nil)
