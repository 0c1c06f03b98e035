// Package service implements the sales pipeline: deal CRUD, stage moves and
// the board and statistics computed on read.
package service

import (
	"context"
	"errors"
	"strings"

	"crm_backend/internal/deals/domain"
	"crm_backend/internal/deals/repository"
	"crm_backend/internal/deals/transport"
	"crm_backend/internal/events"
	"crm_backend/platform/apperr"
	"crm_backend/platform/logger"
	"crm_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	msgDealNotFound    = "deal not found"
	defaultProbability = 25
)

type Service struct {
	repo     repository.DealStore
	eventBus events.Publisher
	log      *logger.Logger
}

func New(repo repository.DealStore, eventBus events.Publisher, log *logger.Logger) *Service {
	return &Service{repo: repo, eventBus: eventBus, log: log}
}

func (s *Service) Create(ctx context.Context, req transport.CreateDealRequest) (transport.DealResponse, error) {
	stage := req.Stage
	if stage == "" {
		stage = string(domain.StageLead)
	}
	probability := defaultProbability
	if req.Probability != nil {
		probability = *req.Probability
	}
	if err := validateDeal(stage, probability, req.Value); err != nil {
		return transport.DealResponse{}, err
	}

	title := sanitize.Text(req.Title)
	if title == "" {
		return transport.DealResponse{}, apperr.Validation("title is required")
	}

	deal, err := s.repo.Create(ctx, repository.CreateDealParams{
		Title:             title,
		Value:             req.Value,
		Probability:       probability,
		Stage:             stage,
		ExpectedCloseDate: req.ExpectedCloseDate,
		CompanyID:         req.CompanyID,
		ContactPerson:     sanitize.Text(req.ContactPerson),
		ContactEmail:      strings.TrimSpace(req.ContactEmail),
		LeadID:            req.LeadID,
		LeadSource:        sanitize.Text(req.LeadSource),
		LeadScore:         req.LeadScore,
		AssignedTo:        req.AssignedTo,
		Notes:             sanitize.Text(req.Notes),
	})
	if err != nil {
		return transport.DealResponse{}, s.translate(err, "create deal")
	}
	return toDealResponse(deal), nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.DealResponse, error) {
	deal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.DealResponse{}, s.translate(err, "get deal")
	}
	return toDealResponse(deal), nil
}

// Update applies a partial update. The id never changes; a stage in the
// patch is treated like a move.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateDealRequest) (transport.DealResponse, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.DealResponse{}, s.translate(err, "get deal")
	}

	stage, probability, value := current.Stage, current.Probability, current.Value
	if req.Stage != nil {
		stage = *req.Stage
	}
	if req.Probability != nil {
		probability = *req.Probability
	}
	if req.Value != nil {
		value = *req.Value
	}
	if err := validateDeal(stage, probability, value); err != nil {
		return transport.DealResponse{}, err
	}

	params := repository.UpdateDealParams{
		Title:         sanitize.TextPtr(req.Title),
		Value:         req.Value,
		Probability:   req.Probability,
		Stage:         req.Stage,
		ContactPerson: sanitize.TextPtr(req.ContactPerson),
		ContactEmail:  req.ContactEmail,
		Notes:         sanitize.TextPtr(req.Notes),
	}
	if params.Title != nil && *params.Title == "" {
		return transport.DealResponse{}, apperr.Validation("title cannot be empty")
	}
	if req.ExpectedCloseDate.Set {
		params.ExpectedCloseDate = req.ExpectedCloseDate.Value
		params.ExpectedCloseDateSet = true
	}
	if req.CompanyID.Set {
		params.CompanyID = req.CompanyID.Value
		params.CompanyIDSet = true
	}
	if req.AssignedTo.Set {
		params.AssignedTo = req.AssignedTo.Value
		params.AssignedToSet = true
	}

	updated, err := s.repo.Update(ctx, id, params)
	if err != nil {
		return transport.DealResponse{}, s.translate(err, "update deal")
	}

	s.publishStageChange(ctx, current.Stage, updated)
	return toDealResponse(updated), nil
}

// Move changes only the stage. Any stage may follow any other.
func (s *Service) Move(ctx context.Context, id uuid.UUID, stage string) (transport.DealResponse, error) {
	if !domain.IsKnownStage(stage) {
		return transport.DealResponse{}, apperr.Validation("invalid stage")
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.DealResponse{}, s.translate(err, "get deal")
	}

	moved, err := s.repo.UpdateStage(ctx, id, stage)
	if err != nil {
		return transport.DealResponse{}, s.translate(err, "move deal")
	}

	s.publishStageChange(ctx, current.Stage, moved)
	return toDealResponse(moved), nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.translate(err, "delete deal")
	}
	return nil
}

func (s *Service) List(ctx context.Context, req transport.ListDealsRequest) (transport.DealListResponse, error) {
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
		Search:    req.Search,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
		Offset:    (page - 1) * pageSize,
		Limit:     pageSize,
	}
	if req.Stage != "" {
		params.Stage = &req.Stage
	}
	if req.LeadSource != "" {
		params.LeadSource = &req.LeadSource
	}
	var err error
	if params.LeadID, err = parseOptionalUUID(req.LeadID, "leadId"); err != nil {
		return transport.DealListResponse{}, err
	}
	if params.CompanyID, err = parseOptionalUUID(req.CompanyID, "companyId"); err != nil {
		return transport.DealListResponse{}, err
	}
	if params.AssignedTo, err = parseOptionalUUID(req.AssignedTo, "assignedTo"); err != nil {
		return transport.DealListResponse{}, err
	}

	deals, total, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.DealListResponse{}, s.translate(err, "list deals")
	}

	items := make([]transport.DealResponse, len(deals))
	for i, d := range deals {
		items[i] = toDealResponse(d)
	}
	return transport.DealListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}, nil
}

// Board returns the five stage columns in display order with their deals,
// counts and total values.
func (s *Service) Board(ctx context.Context) (transport.BoardResponse, error) {
	deals, err := s.all(ctx, false)
	if err != nil {
		return transport.BoardResponse{}, err
	}

	byStage := make(map[string][]transport.DealResponse, len(domain.Stages))
	for _, d := range deals {
		byStage[d.Stage] = append(byStage[d.Stage], toDealResponse(d))
	}

	summaries := domain.Summarize(toItems(deals))
	columns := make([]transport.BoardColumn, len(summaries))
	for i, sum := range summaries {
		cards := byStage[string(sum.Stage)]
		if cards == nil {
			cards = []transport.DealResponse{}
		}
		columns[i] = transport.BoardColumn{
			Stage:      string(sum.Stage),
			Label:      sum.Label,
			Count:      sum.Count,
			TotalValue: sum.TotalValue,
			Deals:      cards,
		}
	}
	return transport.BoardResponse{Columns: columns}, nil
}

func (s *Service) Stats(ctx context.Context) (transport.StatsResponse, error) {
	deals, err := s.all(ctx, false)
	if err != nil {
		return transport.StatsResponse{}, err
	}

	items := toItems(deals)
	totals := domain.Total(items)
	byStage := make(map[string]transport.StageStats, len(domain.Stages))
	for _, sum := range domain.Summarize(items) {
		byStage[string(sum.Stage)] = transport.StageStats{Count: sum.Count, Value: sum.TotalValue}
	}

	return transport.StatsResponse{
		TotalDeals: totals.Count,
		TotalValue: totals.TotalValue,
		ByStage:    byStage,
	}, nil
}

func (s *Service) ConversionStats(ctx context.Context) (transport.ConversionStatsResponse, error) {
	deals, err := s.all(ctx, true)
	if err != nil {
		return transport.ConversionStatsResponse{}, err
	}

	stats := domain.Conversions(toItems(deals))
	bySource := make(map[string]transport.SourceConversion, len(stats.ConversionsBySource))
	for source, c := range stats.ConversionsBySource {
		bySource[source] = transport.SourceConversion{Count: c.Count, Revenue: c.Revenue}
	}
	return transport.ConversionStatsResponse{
		TotalConverted:      stats.TotalConverted,
		TotalRevenue:        stats.TotalRevenue,
		AvgDealSize:         stats.AvgDealSize,
		ConversionsBySource: bySource,
	}, nil
}

func (s *Service) all(ctx context.Context, convertedOnly bool) ([]repository.Deal, error) {
	deals, _, err := s.repo.List(ctx, repository.ListParams{ConvertedOnly: convertedOnly, SortOrder: "asc"})
	if err != nil {
		return nil, s.translate(err, "list deals")
	}
	return deals, nil
}

func (s *Service) publishStageChange(ctx context.Context, oldStage string, deal repository.Deal) {
	if oldStage == deal.Stage {
		return
	}
	s.log.Info("deal moved", "dealId", deal.ID, "from", oldStage, "to", deal.Stage)
	s.eventBus.Publish(ctx, events.DealStageChanged{
		BaseEvent:  events.NewBaseEvent(),
		DealID:     deal.ID,
		Title:      deal.Title,
		AssignedTo: deal.AssignedTo,
		OldStage:   oldStage,
		NewStage:   deal.Stage,
		Value:      deal.Value,
	})
}

func validateDeal(stage string, probability int, value float64) error {
	if !domain.IsKnownStage(stage) {
		return apperr.Validation("invalid stage")
	}
	if probability < 0 || probability > 100 {
		return apperr.Validation("probability must be between 0 and 100")
	}
	if value < 0 {
		return apperr.Validation("value must not be negative")
	}
	return nil
}

func parseOptionalUUID(raw, field string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperr.Validation("invalid " + field)
	}
	return &id, nil
}

func (s *Service) translate(err error, op string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperr.NotFound(msgDealNotFound)
	case errors.Is(err, repository.ErrUnknownCompany):
		return apperr.Validation("invalid companyId")
	case errors.Is(err, repository.ErrUnknownAssignee):
		return apperr.Validation("invalid assignedTo")
	}
	s.log.DatabaseError(op, err)
	return apperr.ExternalCall(op, err)
}

func toItems(deals []repository.Deal) []domain.Item {
	items := make([]domain.Item, len(deals))
	for i, d := range deals {
		items[i] = domain.Item{
			Stage:  domain.Stage(d.Stage),
			Value:  d.Value,
			Source: d.LeadSource,
			Linked: d.LeadID != nil,
		}
	}
	return items
}

func toDealResponse(d repository.Deal) transport.DealResponse {
	return transport.DealResponse{
		ID:                d.ID,
		Title:             d.Title,
		Value:             d.Value,
		Probability:       d.Probability,
		Stage:             d.Stage,
		ExpectedCloseDate: d.ExpectedCloseDate,
		CompanyID:         d.CompanyID,
		ContactPerson:     d.ContactPerson,
		ContactEmail:      d.ContactEmail,
		LeadID:            d.LeadID,
		LeadSource:        d.LeadSource,
		LeadScore:         d.LeadScore,
		AssignedTo:        d.AssignedTo,
		Notes:             d.Notes,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}
