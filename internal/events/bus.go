// Bus construction lives in platform/events; this re-export keeps module
// imports on internal/events only.
package events

import (
	platformevents "studio_backend/platform/events"
	"studio_backend/platform/logger"
)

// InMemoryBus is the process-local bus both binaries run on.
type InMemoryBus = platformevents.InMemoryBus

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return platformevents.NewInMemoryBus(log)
}
