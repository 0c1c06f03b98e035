package contacts

import (
	"context"
	"errors"
	"strings"

	"crm_backend/platform/apperr"
	"crm_backend/platform/logger"
	"crm_backend/platform/phone"
	"crm_backend/platform/sanitize"

	"github.com/google/uuid"
)

// ErrCompanyNotFound is returned by CompanyNames for unknown ids.
var ErrCompanyNotFound = errors.New("company not found")

// CompanyNames resolves the display name of a linked company.
type CompanyNames interface {
	CompanyName(ctx context.Context, id uuid.UUID) (string, error)
}

type Service struct {
	store     Store
	companies CompanyNames
	log       *logger.Logger
}

func NewService(store Store, companies CompanyNames, log *logger.Logger) *Service {
	return &Service{store: store, companies: companies, log: log}
}

func (s *Service) Create(ctx context.Context, req CreateContactRequest) (ContactResponse, error) {
	firstName := sanitize.Text(req.FirstName)
	lastName := sanitize.Text(req.LastName)
	if firstName == "" || lastName == "" {
		return ContactResponse{}, apperr.Validation("first and last name are required")
	}

	companyName := sanitize.Text(req.Company)
	if req.CompanyID != nil {
		name, err := s.companyName(ctx, *req.CompanyID)
		if err != nil {
			return ContactResponse{}, err
		}
		companyName = name
	}
	if companyName == "" {
		return ContactResponse{}, apperr.Validation("company is required")
	}

	status := req.Status
	if status == "" {
		status = StatusTrial
	}

	c, err := s.store.Create(ctx, CreateParams{
		FirstName:   firstName,
		LastName:    lastName,
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:       phone.NormalizeE164(req.Phone),
		CompanyID:   req.CompanyID,
		CompanyName: companyName,
		Status:      status,
		MRR:         req.MRR,
	})
	if err != nil {
		return ContactResponse{}, s.translate(err, "create contact")
	}
	return toContactResponse(c), nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (ContactResponse, error) {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return ContactResponse{}, s.translate(err, "get contact")
	}
	return toContactResponse(c), nil
}

// Update applies a partial update. Linking a company also refreshes the
// stored company name.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateContactRequest) (ContactResponse, error) {
	params := UpdateParams{
		FirstName:   sanitize.TextPtr(req.FirstName),
		LastName:    sanitize.TextPtr(req.LastName),
		Phone:       phone.NormalizePtr(req.Phone),
		CompanyName: sanitize.TextPtr(req.Company),
		Status:      req.Status,
		MRR:         req.MRR,
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		params.Email = &email
	}
	if (params.FirstName != nil && *params.FirstName == "") || (params.LastName != nil && *params.LastName == "") {
		return ContactResponse{}, apperr.Validation("first and last name must not be empty")
	}
	if req.CompanyID.Set {
		params.CompanyIDSet = true
		params.CompanyID = req.CompanyID.Value
		if req.CompanyID.Value != nil {
			name, err := s.companyName(ctx, *req.CompanyID.Value)
			if err != nil {
				return ContactResponse{}, err
			}
			params.CompanyName = &name
		}
	}

	c, err := s.store.Update(ctx, id, params)
	if err != nil {
		return ContactResponse{}, s.translate(err, "update contact")
	}
	return toContactResponse(c), nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return s.translate(err, "delete contact")
	}
	return nil
}

func (s *Service) List(ctx context.Context, req ListContactsRequest) (ContactListResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	params := ListParams{
		Status: req.Status,
		Search: strings.TrimSpace(req.Search),
		Offset: (page - 1) * pageSize,
		Limit:  pageSize,
	}
	if req.CompanyID != "" {
		id, err := uuid.Parse(req.CompanyID)
		if err != nil {
			return ContactListResponse{}, apperr.Validation("invalid companyId")
		}
		params.CompanyID = &id
	}

	items, total, err := s.store.List(ctx, params)
	if err != nil {
		return ContactListResponse{}, s.translate(err, "list contacts")
	}

	resp := make([]ContactResponse, len(items))
	for i, c := range items {
		resp[i] = toContactResponse(c)
	}
	return ContactListResponse{Items: resp, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *Service) companyName(ctx context.Context, id uuid.UUID) (string, error) {
	name, err := s.companies.CompanyName(ctx, id)
	if errors.Is(err, ErrCompanyNotFound) {
		return "", apperr.Validation("unknown companyId")
	}
	if err != nil {
		return "", apperr.ExternalCall("resolve company", err)
	}
	return name, nil
}

func (s *Service) translate(err error, op string) error {
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound("contact not found")
	}
	s.log.DatabaseError(op, err)
	return apperr.ExternalCall(op, err)
}
