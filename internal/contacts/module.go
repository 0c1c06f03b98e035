// Package contacts manages the people the sales team talks to.
package contacts

import (
	apphttp "crm_backend/internal/http"
	"crm_backend/platform/logger"
	"crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the contacts bounded context module implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates the contacts module. companies resolves linked company names.
func NewModule(pool *pgxpool.Pool, companies CompanyNames, val *validator.Validator, log *logger.Logger) *Module {
	svc := NewService(NewRepository(pool), companies, log)
	return &Module{handler: NewHandler(svc, val)}
}

func (m *Module) Name() string {
	return "contacts"
}

// RegisterRoutes mounts contact routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/contacts")
	group.GET("", m.handler.List)
	group.POST("", m.handler.Create)
	group.GET("/:id", m.handler.Get)
	group.PUT("/:id", m.handler.Update)
	group.DELETE("/:id", m.handler.Delete)
}

var _ apphttp.Module = (*Module)(nil)
