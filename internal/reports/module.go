package reports

import (
	apphttp "crm_backend/internal/http"
	"crm_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the reports bounded context module implementing http.Module.
type Module struct {
	handler *Handler
}

func NewModule(pool *pgxpool.Pool, log *logger.Logger) *Module {
	return &Module{handler: NewHandler(NewService(NewRepository(pool), log))}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "reports"
}

// RegisterRoutes mounts report routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/reports/dashboard", m.handler.Dashboard)
}

var _ apphttp.Module = (*Module)(nil)
