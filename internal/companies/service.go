package companies

import (
	"context"
	"errors"
	"strings"

	"crm_backend/platform/apperr"
	"crm_backend/platform/logger"
	"crm_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	defaultEmployees = 1
	defaultPageSize  = 20
	maxPageSize      = 100
)

// FromLead carries the lead data a company is seeded with on conversion.
type FromLead struct {
	Name      string
	Industry  string
	Website   string
	Employees int
	LeadID    uuid.UUID
}

type Service struct {
	store Store
	log   *logger.Logger
}

func NewService(store Store, log *logger.Logger) *Service {
	return &Service{store: store, log: log}
}

func (s *Service) Create(ctx context.Context, req CreateCompanyRequest) (CompanyResponse, error) {
	name := sanitize.Text(req.Name)
	if name == "" {
		return CompanyResponse{}, apperr.Validation("name is required")
	}
	mrr := req.MRR.Float(0)
	if mrr < 0 {
		return CompanyResponse{}, apperr.Validation("mrr must not be negative")
	}
	employees := req.Employees.Int(defaultEmployees)
	if employees < 0 {
		return CompanyResponse{}, apperr.Validation("employees must not be negative")
	}

	c, err := s.store.Create(ctx, CreateParams{
		Name:      name,
		Industry:  sanitize.Text(req.Industry),
		Website:   strings.TrimSpace(req.Website),
		Employees: employees,
		MRR:       mrr,
		Plan:      valueOr(req.Plan, PlanFree),
		Status:    valueOr(req.Status, StatusProspect),
	})
	if err != nil {
		return CompanyResponse{}, s.translate(err, "create company")
	}
	return toCompanyResponse(c), nil
}

// CreateFromLead opens a Prospect company on the Free plan for a
// converted lead.
func (s *Service) CreateFromLead(ctx context.Context, draft FromLead) (CompanyResponse, error) {
	name := sanitize.Text(draft.Name)
	if name == "" {
		return CompanyResponse{}, apperr.Validation("company name is required")
	}
	employees := draft.Employees
	if employees <= 0 {
		employees = defaultEmployees
	}
	leadID := draft.LeadID

	c, err := s.store.Create(ctx, CreateParams{
		Name:      name,
		Industry:  sanitize.Text(draft.Industry),
		Website:   strings.TrimSpace(draft.Website),
		Employees: employees,
		Plan:      PlanFree,
		Status:    StatusProspect,
		LeadID:    &leadID,
	})
	if err != nil {
		return CompanyResponse{}, s.translate(err, "create company from lead")
	}
	s.log.Info("company created from lead", "companyId", c.ID, "leadId", leadID)
	return toCompanyResponse(c), nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (CompanyResponse, error) {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return CompanyResponse{}, s.translate(err, "get company")
	}
	return toCompanyResponse(c), nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateCompanyRequest) (CompanyResponse, error) {
	if req.Name != nil && sanitize.Text(*req.Name) == "" {
		return CompanyResponse{}, apperr.Validation("name must not be empty")
	}

	c, err := s.store.Update(ctx, id, UpdateParams{
		Name:      sanitize.TextPtr(req.Name),
		Industry:  sanitize.TextPtr(req.Industry),
		Website:   req.Website,
		Employees: req.Employees,
		MRR:       req.MRR,
		Plan:      req.Plan,
		Status:    req.Status,
	})
	if err != nil {
		return CompanyResponse{}, s.translate(err, "update company")
	}
	return toCompanyResponse(c), nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return s.translate(err, "delete company")
	}
	return nil
}

func (s *Service) List(ctx context.Context, req ListCompaniesRequest) (CompanyListResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	items, total, err := s.store.List(ctx, ListParams{
		Search:    strings.TrimSpace(req.Search),
		Plan:      req.Plan,
		Status:    req.Status,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
		Offset:    (page - 1) * pageSize,
		Limit:     pageSize,
	})
	if err != nil {
		return CompanyListResponse{}, s.translate(err, "list companies")
	}

	resp := make([]CompanyResponse, len(items))
	for i, c := range items {
		resp[i] = toCompanyResponse(c)
	}
	totalPages := (total + pageSize - 1) / pageSize
	return CompanyListResponse{
		Items:      resp,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func (s *Service) translate(err error, op string) error {
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound("company not found")
	}
	s.log.DatabaseError(op, err)
	return apperr.ExternalCall(op, err)
}

func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
