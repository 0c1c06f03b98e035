// Package management handles the lead lifecycle: creation with scoring,
// partial updates, explicit status transitions, tagging, soft deletion and
// listing.
package management

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"crm_backend/internal/events"
	"crm_backend/internal/leads/domain"
	"crm_backend/internal/leads/ports"
	"crm_backend/internal/leads/repository"
	"crm_backend/internal/leads/scoring"
	"crm_backend/internal/leads/transport"
	"crm_backend/platform/apperr"
	"crm_backend/platform/logger"
	"crm_backend/platform/phone"
	"crm_backend/platform/sanitize"

	"github.com/google/uuid"
)

const msgLeadNotFound = "lead not found"

// Repository defines the data access interface needed by the management service.
// This is a consumer-driven interface - only what management needs.
type Repository interface {
	repository.LeadReader
	repository.LeadWriter
	repository.AssignmentCounter
	repository.AnalyticsReader
}

// Service handles lead management operations.
type Service struct {
	repo     Repository
	team     ports.TeamDirectory
	eventBus events.Publisher
	log      *logger.Logger
}

// New creates a new lead management service.
func New(repo Repository, team ports.TeamDirectory, eventBus events.Publisher, log *logger.Logger) *Service {
	return &Service{repo: repo, team: team, eventBus: eventBus, log: log}
}

// Score previews the qualification score without storing anything.
func (s *Service) Score(req transport.ScorePreviewRequest) transport.ScoreResponse {
	return toScoreResponse(scoring.Calculate(scoring.Input{
		CompanySize:     req.CompanySize,
		Industry:        req.Industry,
		EngagementLevel: req.EngagementLevel,
		Title:           req.Title,
	}))
}

// Create scores and stores a new lead. The initial status follows the
// score. An optional assignment is resolved before the insert.
func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	params := repository.CreateLeadParams{
		FirstName:       sanitize.Text(req.FirstName),
		LastName:        sanitize.Text(req.LastName),
		Email:           strings.TrimSpace(req.Email),
		Phone:           phone.NormalizeE164(req.Phone),
		Title:           sanitize.Text(req.Title),
		CompanyName:     sanitize.Text(req.CompanyName),
		CompanySize:     strings.TrimSpace(req.CompanySize),
		Industry:        sanitize.Text(req.Industry),
		Website:         strings.TrimSpace(req.Website),
		Source:          sanitize.Text(req.Source),
		EngagementLevel: strings.TrimSpace(req.EngagementLevel),
		NextFollowUp:    utcPtr(req.NextFollowUp),
		Notes:           sanitize.Text(req.Notes),
		Tags:            sanitize.Tags(req.Tags),
	}
	if params.FirstName == "" || params.LastName == "" {
		return transport.LeadResponse{}, apperr.Validation("first and last name are required")
	}

	result := scoring.Calculate(scoring.Input{
		CompanySize:     params.CompanySize,
		Industry:        params.Industry,
		EngagementLevel: params.EngagementLevel,
		Title:           params.Title,
	})
	params.Score = scoreFromResult(result)
	params.Status = string(domain.InitialStatus(result.TotalScore))

	var owner *ports.TeamMember
	if req.Assignment != nil {
		if err := validateAssignRequest(*req.Assignment); err != nil {
			return transport.LeadResponse{}, err
		}
		member, err := s.pickAssignee(ctx, domain.AssignmentPolicy(req.Assignment.Policy), *req.Assignment)
		if err != nil {
			return transport.LeadResponse{}, err
		}
		owner = &member
		params.AssignedTo = &member.ID
		params.AssignedToName = member.Name
		params.Territory = member.Territory
	}

	lead, err := s.repo.Create(ctx, params)
	if err != nil {
		return transport.LeadResponse{}, apperr.ExternalCall("create lead", err)
	}

	s.eventBus.Publish(ctx, events.LeadCreated{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     lead.ID,
		LeadName:   lead.FullName(),
		Source:     lead.Source,
		Score:      lead.Score.Total,
		Status:     lead.Status,
		AssignedTo: lead.AssignedTo,
	})
	if owner != nil {
		s.publishAssigned(ctx, lead, *owner, req.Assignment.Policy)
	}
	s.publishFollowUp(ctx, lead)

	return ToLeadResponse(lead), nil
}

// GetByID retrieves a lead by ID.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.load(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return ToLeadResponse(lead), nil
}

// Update applies a partial update. Scoring inputs in the patch trigger a
// rescore from the merged record; status only changes when the patch names
// one explicitly.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateLeadRequest) (transport.LeadResponse, error) {
	current, err := s.load(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	params := repository.UpdateLeadParams{
		FirstName:       sanitize.TextPtr(req.FirstName),
		LastName:        sanitize.TextPtr(req.LastName),
		Email:           trimPtr(req.Email),
		Phone:           phone.NormalizePtr(req.Phone),
		Title:           sanitize.TextPtr(req.Title),
		CompanyName:     sanitize.TextPtr(req.CompanyName),
		CompanySize:     trimPtr(req.CompanySize),
		Industry:        sanitize.TextPtr(req.Industry),
		Website:         trimPtr(req.Website),
		Source:          sanitize.TextPtr(req.Source),
		EngagementLevel: trimPtr(req.EngagementLevel),
		Notes:           sanitize.TextPtr(req.Notes),
	}
	if (params.FirstName != nil && *params.FirstName == "") || (params.LastName != nil && *params.LastName == "") {
		return transport.LeadResponse{}, apperr.Validation("first and last name cannot be empty")
	}
	if req.Tags != nil {
		params.Tags = sanitize.Tags(req.Tags)
		params.TagsSet = true
	}
	if req.NextFollowUp.Set {
		params.NextFollowUp = req.NextFollowUp.Value
		params.NextFollowUpSet = true
	}

	if affectsScore(params) {
		merged := scoring.Input{
			CompanySize:     valueOr(params.CompanySize, current.CompanySize),
			Industry:        valueOr(params.Industry, current.Industry),
			EngagementLevel: valueOr(params.EngagementLevel, current.EngagementLevel),
			Title:           valueOr(params.Title, current.Title),
		}
		score := scoreFromResult(scoring.Calculate(merged))
		params.Score = &score
	}

	if req.Status != nil {
		if err := s.applyStatus(current, *req.Status, req.LostReason, &params); err != nil {
			return transport.LeadResponse{}, err
		}
	} else if req.LostReason != nil {
		reason := sanitize.Text(*req.LostReason)
		params.LostReason = &reason
	}

	updated, err := s.repo.Update(ctx, id, params)
	if err != nil {
		return transport.LeadResponse{}, s.translate(err, "update lead")
	}

	s.publishStatusChange(ctx, current, updated)
	if params.NextFollowUpSet && !sameTime(current.NextFollowUp, updated.NextFollowUp) {
		s.publishFollowUp(ctx, updated)
	}
	if params.TagsSet && !slices.Equal(current.Tags, updated.Tags) {
		s.publishTagged(ctx, updated)
	}

	return ToLeadResponse(updated), nil
}

// UpdateStatus performs an explicit status transition.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, req transport.UpdateLeadStatusRequest) (transport.LeadResponse, error) {
	current, err := s.load(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	var params repository.UpdateLeadParams
	reason := req.Reason
	if err := s.applyStatus(current, req.Status, &reason, &params); err != nil {
		return transport.LeadResponse{}, err
	}

	updated, err := s.repo.Update(ctx, id, params)
	if err != nil {
		return transport.LeadResponse{}, s.translate(err, "update lead status")
	}

	s.publishStatusChange(ctx, current, updated)
	return ToLeadResponse(updated), nil
}

// Tag replaces the tags of a lead.
func (s *Service) Tag(ctx context.Context, id uuid.UUID, req transport.TagLeadRequest) (transport.LeadResponse, error) {
	updated, err := s.repo.Update(ctx, id, repository.UpdateLeadParams{
		Tags:    sanitize.Tags(req.Tags),
		TagsSet: true,
	})
	if err != nil {
		return transport.LeadResponse{}, s.translate(err, "tag lead")
	}

	s.publishTagged(ctx, updated)
	return ToLeadResponse(updated), nil
}

// Delete removes the lead from the active set. The row is kept.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	lead, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.translate(err, "delete lead")
	}

	s.eventBus.Publish(ctx, events.LeadDeleted{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     lead.ID,
		LeadName:   lead.FullName(),
		AssignedTo: lead.AssignedTo,
	})
	return nil
}

// List returns a paginated list of leads.
func (s *Service) List(ctx context.Context, req transport.ListLeadsRequest) (transport.LeadListResponse, error) {
	page := req.Page
	pageSize := req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	params := repository.ListParams{
		Status:    optionalString(req.Status),
		Source:    optionalString(req.Source),
		Territory: optionalString(req.Territory),
		Search:    req.Search,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
		Offset:    (page - 1) * pageSize,
		Limit:     pageSize,
	}
	if req.AssignedTo != "" {
		assignee, err := uuid.Parse(req.AssignedTo)
		if err != nil {
			return transport.LeadListResponse{}, apperr.Validation("invalid assignedTo")
		}
		params.AssignedTo = &assignee
	}

	leads, total, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.LeadListResponse{}, apperr.ExternalCall("list leads", err)
	}

	items := make([]transport.LeadResponse, len(leads))
	for i, lead := range leads {
		items[i] = ToLeadResponse(lead)
	}

	return transport.LeadListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}, nil
}

// SourceAnalytics summarizes lead volume and quality per source.
func (s *Service) SourceAnalytics(ctx context.Context) (transport.SourceAnalyticsResponse, error) {
	rows, err := s.repo.ListSourceRows(ctx)
	if err != nil {
		return transport.SourceAnalyticsResponse{}, apperr.ExternalCall("load source analytics", err)
	}

	samples := make([]domain.SourceSample, len(rows))
	for i, row := range rows {
		samples[i] = domain.SourceSample{Source: row.Source, Score: row.Score, Status: domain.Status(row.Status)}
	}

	stats := domain.SummarizeSources(samples)
	out := make([]transport.SourceAnalyticsEntry, len(stats))
	for i, st := range stats {
		out[i] = transport.SourceAnalyticsEntry(st)
	}
	return transport.SourceAnalyticsResponse{Sources: out}, nil
}

// applyStatus validates an explicit transition and writes it into params.
func (s *Service) applyStatus(current repository.Lead, status string, reason *string, params *repository.UpdateLeadParams) error {
	if !domain.IsKnownStatus(status) {
		return apperr.Validation("invalid status")
	}
	next := domain.Status(status)
	if next == domain.StatusConverted && current.Status != string(domain.StatusConverted) {
		return apperr.Validation("leads become converted through the conversion endpoint")
	}
	if current.Status == string(domain.StatusConverted) && next != domain.StatusConverted {
		return apperr.Conflict("converted leads cannot change status")
	}

	params.Status = &status
	if next == domain.StatusLost {
		lostReason := ""
		if reason != nil {
			lostReason = sanitize.Text(*reason)
		}
		params.LostReason = &lostReason
	}
	return nil
}

func (s *Service) publishStatusChange(ctx context.Context, before, after repository.Lead) {
	if before.Status == after.Status {
		return
	}

	s.eventBus.Publish(ctx, events.LeadStatusChanged{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     after.ID,
		LeadName:   after.FullName(),
		AssignedTo: after.AssignedTo,
		OldStatus:  before.Status,
		NewStatus:  after.Status,
	})
	if after.Status == string(domain.StatusLost) {
		s.eventBus.Publish(ctx, events.LeadMarkedLost{
			BaseEvent:  events.NewBaseEvent(),
			LeadID:     after.ID,
			LeadName:   after.FullName(),
			AssignedTo: after.AssignedTo,
			Reason:     after.LostReason,
		})
	}
}

func (s *Service) publishFollowUp(ctx context.Context, lead repository.Lead) {
	if lead.NextFollowUp == nil {
		return
	}
	s.eventBus.Publish(ctx, events.LeadFollowUpScheduled{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     lead.ID,
		LeadName:   lead.FullName(),
		AssignedTo: lead.AssignedTo,
		FollowUpAt: *lead.NextFollowUp,
	})
}

func (s *Service) publishTagged(ctx context.Context, lead repository.Lead) {
	if len(lead.Tags) == 0 {
		return
	}
	s.eventBus.Publish(ctx, events.LeadTagged{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     lead.ID,
		LeadName:   lead.FullName(),
		AssignedTo: lead.AssignedTo,
		Tags:       lead.Tags,
	})
}

func (s *Service) load(ctx context.Context, id uuid.UUID) (repository.Lead, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return repository.Lead{}, s.translate(err, "load lead")
	}
	return lead, nil
}

func (s *Service) translate(err error, op string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(msgLeadNotFound)
	}
	s.log.DatabaseError(op, err)
	return apperr.ExternalCall(op, err)
}

func affectsScore(p repository.UpdateLeadParams) bool {
	return p.CompanySize != nil || p.Industry != nil || p.EngagementLevel != nil || p.Title != nil
}

func valueOr(v *string, fallback string) string {
	if v != nil {
		return *v
	}
	return fallback
}

func trimPtr(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}

func optionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
