// Package deals provides the sales pipeline bounded context module.
package deals

import (
	"crm_backend/internal/deals/domain"
	"crm_backend/internal/deals/handler"
	"crm_backend/internal/deals/repository"
	"crm_backend/internal/deals/service"
	"crm_backend/internal/events"
	apphttp "crm_backend/internal/http"
	"crm_backend/platform/logger"
	"crm_backend/platform/validator"

	playground "github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the deals bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// RegisterValidations adds the dealstage tag to val.
func RegisterValidations(val *validator.Validator) error {
	return val.RegisterValidation("dealstage", func(fl playground.FieldLevel) bool {
		return domain.IsKnownStage(fl.Field().String())
	})
}

// NewModule creates and initializes the deals module.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, log *logger.Logger) (*Module, error) {
	if err := RegisterValidations(val); err != nil {
		return nil, err
	}

	svc := service.New(repository.New(pool), eventBus, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "deals"
}

// Service returns the pipeline service for cross-context adapters.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts deal routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/deals"))
}

var _ apphttp.Module = (*Module)(nil)
