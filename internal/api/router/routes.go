// Package router wires the domain routers onto the Fiber app and provides
// the shared CRUD route registration helpers.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"church_connect/internal/api/middleware"
)

// NOTE on Fiber v3 middleware registration: passing middleware handlers
// directly in route declarations (router.Get(path, mw, handler)) does not
// invoke the middleware. Routes that need middleware must go through
// RegisterRouteWithMiddleware, which attaches middleware via group.Use().

// CRUDHandler defines the handler surface required for generic CRUD routes.
type CRUDHandler interface {
	InsertOne(c fiber.Ctx) error
	Find(c fiber.Ctx) error
	FindOneById(c fiber.Ctx) error
	FindWithPagination(c fiber.Ctx) error
	UpdateById(c fiber.Ctx) error
	DeleteById(c fiber.Ctx) error
	CountDocuments(c fiber.Ctx) error
}

// Router manages route registration for the API.
type Router struct {
	app *fiber.App
}

// CRUDConfig toggles which generic operations a collection exposes.
type CRUDConfig struct {
	InsOne   bool
	Find     bool
	FindById bool
	Paginate bool
	UpdById  bool
	DelById  bool
	Count    bool
}

// Shared configs.
var (
	ReadOnlyConfig = CRUDConfig{
		Find: true, FindById: true, Paginate: true, Count: true,
	}

	ReadWriteConfig = CRUDConfig{
		InsOne: true,
		Find:   true, FindById: true, Paginate: true,
		UpdById: true, DelById: true,
		Count: true,
	}
)

// RoutePrefix holds the base API prefixes.
type RoutePrefix struct {
	Base string // /api
	V1   string // /api/v1
}

// NewRoutePrefix returns the default prefixes.
func NewRoutePrefix() RoutePrefix {
	base := "/api"
	return RoutePrefix{
		Base: base,
		V1:   base + "/v1",
	}
}

// NewRouter creates a Router over the app.
func NewRouter(app *fiber.App) *Router {
	return &Router{app: app}
}

// RegisterRouteWithMiddleware registers a route with middleware through a
// route group's Use() method. This is the only registration form where Fiber
// v3 reliably runs the middleware chain; see the note at the top of the file.
func RegisterRouteWithMiddleware(router fiber.Router, prefix string, method string, path string, middlewares []fiber.Handler, handler fiber.Handler) {
	routeGroup := router.Group(prefix)
	for _, mw := range middlewares {
		routeGroup.Use(mw)
	}

	switch method {
	case "GET":
		routeGroup.Get(path, handler)
	case "POST":
		routeGroup.Post(path, handler)
	case "PUT":
		routeGroup.Put(path, handler)
	case "DELETE":
		routeGroup.Delete(path, handler)
	}
}

// RegisterCRUDRoutes registers the generic CRUD routes for one collection.
// Reads require any authenticated user; writes require writeRole or higher.
func (r *Router) RegisterCRUDRoutes(router fiber.Router, prefix string, h CRUDHandler, config CRUDConfig, writeRole string) {
	authRead := middleware.AuthMiddleware("")
	authWrite := middleware.AuthMiddleware(writeRole)

	if config.InsOne {
		RegisterRouteWithMiddleware(router, prefix, "POST", "/insert-one", []fiber.Handler{authWrite}, h.InsertOne)
	}
	if config.Find {
		RegisterRouteWithMiddleware(router, prefix, "GET", "/find", []fiber.Handler{authRead}, h.Find)
	}
	if config.FindById {
		RegisterRouteWithMiddleware(router, prefix, "GET", "/find-by-id/:id", []fiber.Handler{authRead}, h.FindOneById)
	}
	if config.Paginate {
		RegisterRouteWithMiddleware(router, prefix, "GET", "/find-with-pagination", []fiber.Handler{authRead}, h.FindWithPagination)
	}
	if config.UpdById {
		RegisterRouteWithMiddleware(router, prefix, "PUT", "/update-by-id/:id", []fiber.Handler{authWrite}, h.UpdateById)
	}
	if config.DelById {
		RegisterRouteWithMiddleware(router, prefix, "DELETE", "/delete-by-id/:id", []fiber.Handler{authWrite}, h.DeleteById)
	}
	if config.Count {
		RegisterRouteWithMiddleware(router, prefix, "GET", "/count", []fiber.Handler{authRead}, h.CountDocuments)
	}
}

// RegisterFunc is implemented by each domain router package.
type RegisterFunc func(v1 fiber.Router, r *Router) error

// SetupRoutes mounts all domain routers under /api/v1.
func SetupRoutes(app *fiber.App, registers ...RegisterFunc) error {
	prefix := NewRoutePrefix()
	v1 := app.Group(prefix.V1)

	r := NewRouter(app)
	for _, register := range registers {
		if err := register(v1, r); err != nil {
			return fmt.Errorf("failed to register routes: %w", err)
		}
	}
	return nil
}
