// Package events holds the CRM domain events (lead lifecycle, deal stage
// moves, notes and overdue tasks) and the bus they travel on. The bus
// itself lives in platform/events. The relay in this package forwards
// every event to the RabbitMQ exchange.
package events

import (
	platformevents "crm_backend/platform/events"
	"crm_backend/platform/logger"
)

// InMemoryBus carries lead and deal events between the CRM modules
// inside one process.
type InMemoryBus = platformevents.InMemoryBus

// NewInMemoryBus creates the bus main wires into every module.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return platformevents.NewInMemoryBus(log)
}
