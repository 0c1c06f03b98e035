package companies

import (
	"time"

	"github.com/google/uuid"
)

const (
	PlanFree       = "Free"
	PlanStarter    = "Starter"
	PlanPro        = "Pro"
	PlanEnterprise = "Enterprise"

	StatusProspect = "Prospect"
	StatusTrial    = "Trial"
	StatusActive   = "Active"
	StatusChurned  = "Churned"
)

// CreateCompanyRequest accepts employees and mrr as loose JSON numbers or
// strings; missing or unparsable values fall back to 1 and 0.
type CreateCompanyRequest struct {
	Name      string     `json:"name" validate:"required,min=1,max=200"`
	Industry  string     `json:"industry" validate:"max=100"`
	Website   string     `json:"website" validate:"max=500"`
	Employees FlexNumber `json:"employees"`
	MRR       FlexNumber `json:"mrr"`
	Plan      string     `json:"plan" validate:"omitempty,oneof=Free Starter Pro Enterprise"`
	Status    string     `json:"status" validate:"omitempty,oneof=Prospect Trial Active Churned"`
}

type UpdateCompanyRequest struct {
	Name      *string  `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Industry  *string  `json:"industry,omitempty" validate:"omitempty,max=100"`
	Website   *string  `json:"website,omitempty" validate:"omitempty,max=500"`
	Employees *int     `json:"employees,omitempty" validate:"omitempty,min=0"`
	MRR       *float64 `json:"mrr,omitempty" validate:"omitempty,min=0"`
	Plan      *string  `json:"plan,omitempty" validate:"omitempty,oneof=Free Starter Pro Enterprise"`
	Status    *string  `json:"status,omitempty" validate:"omitempty,oneof=Prospect Trial Active Churned"`
}

type ListCompaniesRequest struct {
	Search    string `form:"search" validate:"max=100"`
	Plan      string `form:"plan" validate:"omitempty,oneof=Free Starter Pro Enterprise"`
	Status    string `form:"status" validate:"omitempty,oneof=Prospect Trial Active Churned"`
	SortBy    string `form:"sortBy" validate:"omitempty,oneof=createdAt updatedAt name mrr employees"`
	SortOrder string `form:"sortOrder" validate:"omitempty,oneof=asc desc"`
	Page      int    `form:"page" validate:"omitempty,min=1"`
	PageSize  int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

type CompanyResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Industry  string     `json:"industry"`
	Website   string     `json:"website"`
	Employees int        `json:"employees"`
	MRR       float64    `json:"mrr"`
	Plan      string     `json:"plan"`
	Status    string     `json:"status"`
	LeadID    *uuid.UUID `json:"leadId,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type CompanyListResponse struct {
	Items      []CompanyResponse `json:"items"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	TotalPages int               `json:"totalPages"`
}

func toCompanyResponse(c Company) CompanyResponse {
	return CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		Industry:  c.Industry,
		Website:   c.Website,
		Employees: c.Employees,
		MRR:       c.MRR,
		Plan:      c.Plan,
		Status:    c.Status,
		LeadID:    c.LeadID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
