// Package http assembles the CRM API: the gin router, the JWT-protected
// /api/v1 group and the bounded-context modules (leads, deals, companies,
// contacts, team and the rest) that mount their routes on it.
package http

import (
	"context"

	"crm_backend/internal/events"
	"crm_backend/platform/config"
	"crm_backend/platform/logger"
)

// RouterConfig combines the config interfaces needed by the HTTP router.
type RouterConfig interface {
	config.HTTPConfig
	config.JWTConfig
	config.RateLimitConfig
}

// HealthChecker exposes minimal functionality for readiness checks.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App holds the CRM wiring built in cmd/api: config, the Postgres health
// check, the domain event bus and the modules in mount order.
type App struct {
	Config   RouterConfig
	Logger   *logger.Logger
	Health   HealthChecker
	EventBus events.Bus
	Modules  []Module
}
