// Package http provides HTTP server infrastructure including the Module
// interface every domain module implements for route registration.
package http

import (
	"studio_backend/platform/config"
	"studio_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Module is a bounded context that registers its own HTTP routes, keeping
// the router decoupled from specific endpoints.
type Module interface {
	// Name identifies the module in logs.
	Name() string
	// RegisterRoutes mounts the module's routes using the shared groups
	// and middleware in the RouterContext.
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext bundles the shared route groups and middleware handed to
// each module at registration time.
type RouterContext struct {
	// Engine is the root Gin engine for modules that need engine-level access.
	Engine *gin.Engine
	// V1 is the public /api/v1 route group.
	V1 *gin.RouterGroup
	// Protected is the authenticated route group under /api/v1.
	Protected *gin.RouterGroup
	// Admin is the admin-only route group under /api/v1/admin.
	Admin *gin.RouterGroup
	// Config is the JWT configuration for auth middleware.
	Config config.JWTConfig
	// AuthMiddleware is the authentication middleware itself, for modules
	// that mix public and protected routes on one group.
	AuthMiddleware gin.HandlerFunc
	// AuthRateLimiter is the stricter limiter applied to sign-in routes.
	AuthRateLimiter *httpkit.AuthRateLimiter
}
