// Package comments stores discussion threads on leads and deals.
package comments

import (
	"crm_backend/internal/events"
	apphttp "crm_backend/internal/http"
	"crm_backend/platform/logger"
	"crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *Handler
}

func NewModule(pool *pgxpool.Pool, leads LeadDirectory, authors AuthorDirectory, eventBus events.Publisher, val *validator.Validator, log *logger.Logger) *Module {
	svc := NewService(NewRepository(pool), leads, authors, eventBus, log)
	return &Module{handler: NewHandler(svc, val)}
}

func (m *Module) Name() string {
	return "comments"
}

// RegisterRoutes mounts comment routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/comments")
	group.GET("", m.handler.List)
	group.POST("", m.handler.Create)
	group.PUT("/:id", m.handler.Update)
	group.DELETE("/:id", m.handler.Delete)
}

var _ apphttp.Module = (*Module)(nil)
