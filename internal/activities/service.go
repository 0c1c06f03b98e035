package activities

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crm_backend/platform/apperr"
	"crm_backend/platform/logger"
	"crm_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Service struct {
	store Store
	log   *logger.Logger
	now   func() time.Time
}

func NewService(store Store, log *logger.Logger) *Service {
	return &Service{store: store, log: log, now: time.Now}
}

func (s *Service) Create(ctx context.Context, req CreateActivityRequest) (ActivityResponse, error) {
	title := sanitize.Text(req.Title)
	if title == "" {
		return ActivityResponse{}, apperr.Validation("title is required")
	}
	priority := req.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	params := CreateParams{
		Type:        req.Type,
		Title:       title,
		Description: sanitize.Text(req.Description),
		ContactID:   req.ContactID,
		CompanyID:   req.CompanyID,
		LeadID:      req.LeadID,
		DealID:      req.DealID,
		OwnerID:     req.OwnerID,
		IsTask:      req.IsTask,
		DueDate:     utcPtr(req.DueDate),
		Completed:   req.Completed,
		Priority:    priority,
	}
	if req.Completed {
		now := s.now().UTC()
		params.CompletedAt = &now
	}

	a, err := s.store.Create(ctx, params)
	if err != nil {
		return ActivityResponse{}, s.translate(err, "create activity")
	}
	return toActivityResponse(a), nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (ActivityResponse, error) {
	a, err := s.store.GetByID(ctx, id)
	if err != nil {
		return ActivityResponse{}, s.translate(err, "get activity")
	}
	return toActivityResponse(a), nil
}

// Update applies a partial update. completedAt follows the completed flag:
// it is stamped when an open activity completes and cleared when a
// completed one reopens.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateActivityRequest) (ActivityResponse, error) {
	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		return ActivityResponse{}, s.translate(err, "get activity")
	}

	title := sanitize.TextPtr(req.Title)
	if title != nil && *title == "" {
		return ActivityResponse{}, apperr.Validation("title must not be empty")
	}

	params := UpdateParams{
		Type:        req.Type,
		Title:       title,
		Description: sanitize.TextPtr(req.Description),
		IsTask:      req.IsTask,
		DueDateSet:  req.DueDate.Set,
		DueDate:     utcPtr(req.DueDate.Value),
		OwnerIDSet:  req.OwnerID.Set,
		OwnerID:     req.OwnerID.Value,
		Priority:    req.Priority,
	}
	if req.Completed != nil {
		s.applyCompletion(&params, current.Completed, *req.Completed)
	}

	a, err := s.store.Update(ctx, id, params)
	if err != nil {
		return ActivityResponse{}, s.translate(err, "update activity")
	}
	return toActivityResponse(a), nil
}

// Complete marks the activity done.
func (s *Service) Complete(ctx context.Context, id uuid.UUID) (ActivityResponse, error) {
	done := true
	return s.Update(ctx, id, UpdateActivityRequest{Completed: &done})
}

// Reopen marks the activity not done.
func (s *Service) Reopen(ctx context.Context, id uuid.UUID) (ActivityResponse, error) {
	done := false
	return s.Update(ctx, id, UpdateActivityRequest{Completed: &done})
}

func (s *Service) applyCompletion(params *UpdateParams, was, now bool) {
	params.Completed = &now
	switch {
	case now && !was:
		stamp := s.now().UTC()
		params.CompletedAtSet = true
		params.CompletedAt = &stamp
	case !now && was:
		params.CompletedAtSet = true
		params.CompletedAt = nil
	}
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return s.translate(err, "delete activity")
	}
	return nil
}

func (s *Service) List(ctx context.Context, req ListActivitiesRequest) (ActivityListResponse, error) {
	params, err := listParams(req)
	if err != nil {
		return ActivityListResponse{}, err
	}
	return s.list(ctx, params, req.Page, req.PageSize)
}

// Tasks lists activities flagged as tasks, earliest due first.
func (s *Service) Tasks(ctx context.Context, req ListActivitiesRequest) (ActivityListResponse, error) {
	params, err := listParams(req)
	if err != nil {
		return ActivityListResponse{}, err
	}
	params.TasksOnly = true
	return s.list(ctx, params, req.Page, req.PageSize)
}

// Overdue lists open tasks whose due date has passed.
func (s *Service) Overdue(ctx context.Context, req ListActivitiesRequest) (ActivityListResponse, error) {
	params, err := listParams(req)
	if err != nil {
		return ActivityListResponse{}, err
	}
	now := s.now().UTC()
	params.OverdueAt = &now
	return s.list(ctx, params, req.Page, req.PageSize)
}

// RecordConversion logs the completed conversion activity of a lead.
func (s *Service) RecordConversion(ctx context.Context, leadID, dealID uuid.UUID, ownerID *uuid.UUID) (ActivityResponse, error) {
	return s.Create(ctx, CreateActivityRequest{
		Type:        TypeConversion,
		Title:       "Lead Converted to Deal",
		Description: fmt.Sprintf("Lead ID %s was successfully converted to Deal ID %s", leadID, dealID),
		LeadID:      &leadID,
		DealID:      &dealID,
		OwnerID:     ownerID,
		Completed:   true,
	})
}

func (s *Service) list(ctx context.Context, params ListParams, page, pageSize int) (ActivityListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	params.Offset = (page - 1) * pageSize
	params.Limit = pageSize

	items, total, err := s.store.List(ctx, params)
	if err != nil {
		return ActivityListResponse{}, s.translate(err, "list activities")
	}

	resp := make([]ActivityResponse, len(items))
	for i, a := range items {
		resp[i] = toActivityResponse(a)
	}
	return ActivityListResponse{Items: resp, Total: total, Page: page, PageSize: pageSize}, nil
}

func listParams(req ListActivitiesRequest) (ListParams, error) {
	var params ListParams
	refs := []struct {
		raw   string
		field string
		dst   **uuid.UUID
	}{
		{req.ContactID, "contactId", &params.ContactID},
		{req.CompanyID, "companyId", &params.CompanyID},
		{req.LeadID, "leadId", &params.LeadID},
		{req.DealID, "dealId", &params.DealID},
		{req.OwnerID, "ownerId", &params.OwnerID},
	}
	for _, ref := range refs {
		if ref.raw == "" {
			continue
		}
		id, err := uuid.Parse(ref.raw)
		if err != nil {
			return ListParams{}, apperr.Validation("invalid " + ref.field)
		}
		*ref.dst = &id
	}
	params.Type = req.Type
	return params, nil
}

func (s *Service) translate(err error, op string) error {
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound("activity not found")
	}
	s.log.DatabaseError(op, err)
	return apperr.ExternalCall(op, err)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
