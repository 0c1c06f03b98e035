// Package team manages the sales team members that leads are assigned to.
package team

import (
	apphttp "crm_backend/internal/http"
	"crm_backend/platform/logger"
	"crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the team bounded context module implementing http.Module.
type Module struct {
	handler *Handler
	service *Service
	repo    *Repository
}

// NewModule creates the team module. counts is usually the leads repository.
func NewModule(pool *pgxpool.Pool, counts LeadCounter, val *validator.Validator, log *logger.Logger) *Module {
	repo := NewRepository(pool)
	svc := NewService(repo, counts, log)

	return &Module{
		handler: NewHandler(svc, val),
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "team"
}

// Repository exposes the store for cross-context adapters.
func (m *Module) Repository() *Repository {
	return m.repo
}

// RegisterRoutes mounts team routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/team")
	group.GET("", m.handler.List)
	group.GET("/workload", m.handler.Workload)
	group.GET("/:id", m.handler.Get)

	admin := ctx.Admin.Group("/team")
	admin.POST("", m.handler.Create)
	admin.PATCH("/:id", m.handler.Update)
	admin.DELETE("/:id", m.handler.Deactivate)
}

var _ apphttp.Module = (*Module)(nil)
