// Package router registers the analytics routes under /api/v1.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	analyticshdl "church_connect/internal/api/analytics/handler"
	"church_connect/internal/api/middleware"
	apirouter "church_connect/internal/api/router"
)

// Register mounts all analytics routes on v1. Team views need a team leader;
// church-wide views, the action report and the sweep trigger are bishop-only.
func Register(v1 fiber.Router, _ *apirouter.Router) error {
	handler, err := analyticshdl.NewAnalyticsHandler()
	if err != nil {
		return fmt.Errorf("create AnalyticsHandler: %w", err)
	}

	leaderAuth := []fiber.Handler{middleware.AuthMiddleware(middleware.RoleTeamLeader)}
	bishopAuth := []fiber.Handler{middleware.AuthMiddleware(middleware.RoleBishop)}

	apirouter.RegisterRouteWithMiddleware(v1, "/analytics", "GET", "/team/:teamId", leaderAuth, handler.HandleTeamAnalytics)
	apirouter.RegisterRouteWithMiddleware(v1, "/analytics", "GET", "/church", bishopAuth, handler.HandleChurchAnalytics)
	apirouter.RegisterRouteWithMiddleware(v1, "/analytics", "GET", "/support-actions", bishopAuth, handler.HandleSupportActions)
	apirouter.RegisterRouteWithMiddleware(v1, "/analytics", "POST", "/sweep", bishopAuth, handler.HandleRunSweep)

	return nil
}
