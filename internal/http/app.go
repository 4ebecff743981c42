// Package http provides HTTP server infrastructure including module registration.
package http

import (
	"context"

	"studio_backend/internal/events"
	"studio_backend/platform/config"
	"studio_backend/platform/logger"
)

// RouterConfig is the slice of configuration the router needs.
type RouterConfig interface {
	config.HTTPConfig
	config.JWTConfig
}

// HealthChecker backs the readiness endpoint.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App holds the initialized application dependencies. The composition root
// in main.go populates it and hands it to the router.
type App struct {
	// Config holds the router configuration, HTTP and JWT settings only.
	Config RouterConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// Health is pinged by the readiness endpoint, usually the DB pool.
	Health HealthChecker
	// EventBus is the domain event bus for cross-module communication.
	EventBus events.Bus
	// Modules contains all HTTP-facing domain modules.
	Modules []Module
}
