// Package activities tracks calls, meetings, notes and tasks logged against
// contacts, companies, leads and deals.
package activities

import (
	"crm_backend/internal/events"
	apphttp "crm_backend/internal/http"
	"crm_backend/platform/logger"
	"crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the activities bounded context module implementing http.Module.
type Module struct {
	handler *Handler
	repo    *Repository
}

// NewModule creates the module and subscribes it to lead conversions.
func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := NewRepository(pool)
	svc := NewService(repo, log)
	NewSubscriber(svc, log).RegisterHandlers(bus)

	return &Module{
		handler: NewHandler(svc, val),
		repo:    repo,
	}
}

func (m *Module) Name() string {
	return "activities"
}

// Repository exposes the store for the overdue task sweeper.
func (m *Module) Repository() *Repository {
	return m.repo
}

// RegisterRoutes mounts activity routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/activities")
	group.GET("", m.handler.List)
	group.POST("", m.handler.Create)
	group.GET("/tasks", m.handler.Tasks)
	group.GET("/tasks/overdue", m.handler.Overdue)
	group.GET("/:id", m.handler.Get)
	group.PUT("/:id", m.handler.Update)
	group.POST("/:id/complete", m.handler.Complete)
	group.POST("/:id/reopen", m.handler.Reopen)
	group.DELETE("/:id", m.handler.Delete)
}

var _ apphttp.Module = (*Module)(nil)
