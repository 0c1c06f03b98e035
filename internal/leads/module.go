// Package leads provides the lead management bounded context module.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	"crm_backend/internal/events"
	apphttp "crm_backend/internal/http"
	"crm_backend/internal/leads/conversion"
	"crm_backend/internal/leads/domain"
	"crm_backend/internal/leads/handler"
	"crm_backend/internal/leads/management"
	"crm_backend/internal/leads/ports"
	"crm_backend/internal/leads/repository"
	"crm_backend/platform/logger"
	"crm_backend/platform/validator"

	playground "github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Dependencies are the other contexts the leads module talks to.
type Dependencies struct {
	Team      ports.TeamDirectory
	Deals     ports.DealCreator
	Companies ports.CompanyCreator
}

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler    *handler.Handler
	repo       *repository.Repository
	management *management.Service
	conversion *conversion.Service
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, deps Dependencies, log *logger.Logger) (*Module, error) {
	if err := val.RegisterValidation("leadstatus", func(fl playground.FieldLevel) bool {
		return domain.IsKnownStatus(fl.Field().String())
	}); err != nil {
		return nil, err
	}

	repo := repository.New(pool)
	mgmtSvc := management.New(repo, deps.Team, eventBus, log)
	convSvc := conversion.New(repo, deps.Deals, deps.Companies, eventBus, log)

	return &Module{
		handler:    handler.New(mgmtSvc, convSvc, val),
		repo:       repo,
		management: mgmtSvc,
		conversion: convSvc,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Repository exposes the lead store for workload counts and scheduler checks.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// ManagementService returns the lead management service for external use.
func (m *Module) ManagementService() *management.Service {
	return m.management
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	leadsGroup := ctx.Protected.Group("/leads")
	m.handler.RegisterRoutes(leadsGroup)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
