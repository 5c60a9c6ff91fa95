// Package router registers the visitor domain routes under /api/v1.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"church_connect/internal/api/middleware"
	apirouter "church_connect/internal/api/router"
	visitorhdl "church_connect/internal/api/visitor/handler"
)

// Register mounts all visitor routes on v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	visitorHandler, err := visitorhdl.NewVisitorHandler()
	if err != nil {
		return fmt.Errorf("create VisitorHandler: %w", err)
	}

	memberAuth := []fiber.Handler{middleware.AuthMiddleware(middleware.RoleTeamMember)}
	leaderAuth := []fiber.Handler{middleware.AuthMiddleware(middleware.RoleTeamLeader)}
	bishopAuth := []fiber.Handler{middleware.AuthMiddleware(middleware.RoleBishop)}

	// Registration and lifecycle actions
	apirouter.RegisterRouteWithMiddleware(v1, "/visitor", "POST", "/register", memberAuth, visitorHandler.HandleRegister)
	apirouter.RegisterRouteWithMiddleware(v1, "/visitor", "POST", "/:id/promote", leaderAuth, visitorHandler.HandlePromote)
	apirouter.RegisterRouteWithMiddleware(v1, "/visitor", "POST", "/:id/convert", bishopAuth, visitorHandler.HandleRecordConversion)
	apirouter.RegisterRouteWithMiddleware(v1, "/visitor", "PUT", "/:id/monitoring-status", memberAuth, visitorHandler.HandleOverrideStatus)

	// Log appends (inputs to metric derivation and the sweep)
	apirouter.RegisterRouteWithMiddleware(v1, "/visitor", "POST", "/:id/visits", memberAuth, visitorHandler.HandleRecordVisit)
	apirouter.RegisterRouteWithMiddleware(v1, "/visitor", "POST", "/:id/milestones/complete", memberAuth, visitorHandler.HandleCompleteMilestone)
	apirouter.RegisterRouteWithMiddleware(v1, "/visitor", "PUT", "/:id/checklist", memberAuth, visitorHandler.HandleUpdateChecklist)
	apirouter.RegisterRouteWithMiddleware(v1, "/visitor", "POST", "/:id/suggestions", memberAuth, visitorHandler.HandleAddSuggestion)
	apirouter.RegisterRouteWithMiddleware(v1, "/visitor", "POST", "/:id/experiences", memberAuth, visitorHandler.HandleAddExperience)
	apirouter.RegisterRouteWithMiddleware(v1, "/visitor", "POST", "/:id/event-responses", memberAuth, visitorHandler.HandleAddEventResponse)

	// Derived views
	apirouter.RegisterRouteWithMiddleware(v1, "/visitor", "GET", "/:id/metrics", memberAuth, visitorHandler.HandleGetMetrics)
	apirouter.RegisterRouteWithMiddleware(v1, "/visitor", "GET", "/:id/engagement", memberAuth, visitorHandler.HandleEngagementSummary)

	// Generic reads and identity updates. Creation goes through /register
	// only, and visitors are never deleted (soft-disable via isActive).
	crudConfig := apirouter.CRUDConfig{
		Find: true, FindById: true, Paginate: true, Count: true,
		UpdById: true,
	}
	r.RegisterCRUDRoutes(v1, "/visitor", visitorHandler, crudConfig, middleware.RoleTeamMember)

	return nil
}
