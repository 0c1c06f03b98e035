package management

import (
	"context"
	"errors"
	"strings"

	"crm_backend/internal/events"
	"crm_backend/internal/leads/domain"
	"crm_backend/internal/leads/ports"
	"crm_backend/internal/leads/repository"
	"crm_backend/internal/leads/transport"
	"crm_backend/platform/apperr"

	"github.com/google/uuid"
)

// Assign picks an owner for the lead using the requested policy.
func (s *Service) Assign(ctx context.Context, id uuid.UUID, req transport.AssignLeadRequest) (transport.LeadResponse, error) {
	if err := validateAssignRequest(req); err != nil {
		return transport.LeadResponse{}, err
	}
	lead, err := s.load(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return s.assign(ctx, lead, req)
}

func validateAssignRequest(req transport.AssignLeadRequest) error {
	if !domain.IsKnownPolicy(req.Policy) {
		return apperr.Validation("invalid assignment policy")
	}
	switch domain.AssignmentPolicy(req.Policy) {
	case domain.PolicyDirect:
		if req.AssigneeID == nil {
			return apperr.Validation("invalid assignee id")
		}
	case domain.PolicyTerritory:
		if strings.TrimSpace(req.Territory) == "" {
			return apperr.Validation("territory is required")
		}
	}
	return nil
}

func (s *Service) assign(ctx context.Context, lead repository.Lead, req transport.AssignLeadRequest) (transport.LeadResponse, error) {
	policy := domain.AssignmentPolicy(req.Policy)

	member, err := s.pickAssignee(ctx, policy, req)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	updated, err := s.repo.Update(ctx, lead.ID, repository.UpdateLeadParams{
		AssignedTo:     &member.ID,
		AssignedToName: &member.Name,
		Territory:      &member.Territory,
		AssignedToSet:  true,
	})
	if err != nil {
		return transport.LeadResponse{}, s.translate(err, "assign lead")
	}

	s.publishAssigned(ctx, updated, member, req.Policy)
	return ToLeadResponse(updated), nil
}

func (s *Service) publishAssigned(ctx context.Context, lead repository.Lead, member ports.TeamMember, policy string) {
	s.log.Info("lead assigned", "leadId", lead.ID, "assigneeId", member.ID, "policy", policy)
	s.eventBus.Publish(ctx, events.LeadAssigned{
		BaseEvent:    events.NewBaseEvent(),
		LeadID:       lead.ID,
		LeadName:     lead.FullName(),
		AssigneeID:   member.ID,
		AssigneeName: member.Name,
		Territory:    member.Territory,
		Policy:       policy,
	})
}

func (s *Service) pickAssignee(ctx context.Context, policy domain.AssignmentPolicy, req transport.AssignLeadRequest) (ports.TeamMember, error) {
	switch policy {
	case domain.PolicyDirect:
		member, err := s.team.GetActiveMember(ctx, *req.AssigneeID)
		if errors.Is(err, ports.ErrMemberNotFound) {
			return ports.TeamMember{}, apperr.Validation("invalid assignee id")
		}
		if err != nil {
			return ports.TeamMember{}, apperr.ExternalCall("load team member", err)
		}
		return member, nil

	case domain.PolicyTerritory:
		territory := strings.TrimSpace(req.Territory)
		return s.leastLoaded(ctx, &territory, "no team members found for territory")

	default:
		return s.leastLoaded(ctx, nil, "no team members available")
	}
}

// leastLoaded applies the minimum-count selection over the active members
// of a territory, or of the whole team when territory is nil.
func (s *Service) leastLoaded(ctx context.Context, territory *string, emptyMsg string) (ports.TeamMember, error) {
	members, err := s.team.ListActiveMembers(ctx, territory)
	if err != nil {
		return ports.TeamMember{}, apperr.ExternalCall("list team members", err)
	}
	if len(members) == 0 {
		return ports.TeamMember{}, apperr.Validation(emptyMsg)
	}

	counts, err := s.repo.CountAssignedLeads(ctx, territory)
	if err != nil {
		return ports.TeamMember{}, apperr.ExternalCall("count assigned leads", err)
	}

	candidates := make([]domain.Candidate, len(members))
	byID := make(map[uuid.UUID]ports.TeamMember, len(members))
	for i, m := range members {
		candidates[i] = domain.Candidate{ID: m.ID, Name: m.Name, Territory: m.Territory}
		byID[m.ID] = m
	}

	picked, _ := domain.PickLeastLoaded(candidates, counts)
	return byID[picked.ID], nil
}
