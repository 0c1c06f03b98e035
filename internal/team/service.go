package team

import (
	"context"
	"errors"
	"strings"

	"crm_backend/platform/apperr"
	"crm_backend/platform/logger"
	"crm_backend/platform/sanitize"

	"github.com/google/uuid"
)

// LeadCounter reports how many active leads each member currently owns.
type LeadCounter interface {
	CountAssignedLeads(ctx context.Context, territory *string) (map[uuid.UUID]int, error)
}

type Service struct {
	store  Store
	counts LeadCounter
	log    *logger.Logger
}

func NewService(store Store, counts LeadCounter, log *logger.Logger) *Service {
	return &Service{store: store, counts: counts, log: log}
}

func (s *Service) Create(ctx context.Context, req CreateMemberRequest) (MemberResponse, error) {
	name := sanitize.Text(req.Name)
	if name == "" {
		return MemberResponse{}, apperr.Validation("name is required")
	}

	m, err := s.store.Create(ctx, CreateParams{
		Name:      name,
		Email:     strings.TrimSpace(req.Email),
		Territory: sanitize.Text(req.Territory),
	})
	if err != nil {
		return MemberResponse{}, s.translate(err, "create team member")
	}
	s.log.Info("team member created", "memberId", m.ID, "territory", m.Territory)
	return toMemberResponse(m), nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (MemberResponse, error) {
	m, err := s.store.GetByID(ctx, id)
	if err != nil {
		return MemberResponse{}, s.translate(err, "get team member")
	}
	return toMemberResponse(m), nil
}

func (s *Service) List(ctx context.Context, req ListMembersRequest) (MemberListResponse, error) {
	params := ListParams{ActiveOnly: !req.IncludeInactive}
	if t := strings.TrimSpace(req.Territory); t != "" {
		params.Territory = &t
	}

	members, err := s.store.List(ctx, params)
	if err != nil {
		return MemberListResponse{}, apperr.ExternalCall("list team members", err)
	}

	items := make([]MemberResponse, len(members))
	for i, m := range members {
		items[i] = toMemberResponse(m)
	}
	return MemberListResponse{Items: items, Total: len(items)}, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateMemberRequest) (MemberResponse, error) {
	m, err := s.store.Update(ctx, id, UpdateParams{
		Name:      sanitize.TextPtr(req.Name),
		Email:     req.Email,
		Territory: sanitize.TextPtr(req.Territory),
		Position:  req.Position,
		Active:    req.Active,
	})
	if err != nil {
		return MemberResponse{}, s.translate(err, "update team member")
	}
	return toMemberResponse(m), nil
}

// Deactivate removes the member from every assignment policy. Leads already
// assigned keep their owner.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	inactive := false
	if _, err := s.store.Update(ctx, id, UpdateParams{Active: &inactive}); err != nil {
		return s.translate(err, "deactivate team member")
	}
	s.log.Info("team member deactivated", "memberId", id)
	return nil
}

// Workload lists active members with their assigned active lead counts.
func (s *Service) Workload(ctx context.Context, territory string) (WorkloadResponse, error) {
	params := ListParams{ActiveOnly: true}
	var territoryPtr *string
	if t := strings.TrimSpace(territory); t != "" {
		params.Territory = &t
		territoryPtr = &t
	}

	members, err := s.store.List(ctx, params)
	if err != nil {
		return WorkloadResponse{}, apperr.ExternalCall("list team members", err)
	}
	counts, err := s.counts.CountAssignedLeads(ctx, territoryPtr)
	if err != nil {
		return WorkloadResponse{}, apperr.ExternalCall("count assigned leads", err)
	}

	items := make([]WorkloadEntry, len(members))
	for i, m := range members {
		items[i] = WorkloadEntry{
			MemberID:      m.ID,
			Name:          m.Name,
			Territory:     m.Territory,
			AssignedLeads: counts[m.ID],
		}
	}
	return WorkloadResponse{Items: items}, nil
}

func (s *Service) translate(err error, op string) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return apperr.NotFound("team member not found")
	case errors.Is(err, ErrDuplicateEmail):
		return apperr.Conflict("a team member with this email already exists")
	default:
		return apperr.ExternalCall(op, err)
	}
}
