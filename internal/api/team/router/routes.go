// Package router registers the protocol team routes under /api/v1.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"church_connect/internal/api/middleware"
	apirouter "church_connect/internal/api/router"
	teamhdl "church_connect/internal/api/team/handler"
)

// Register mounts all team routes on v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	teamHandler, err := teamhdl.NewTeamHandler()
	if err != nil {
		return fmt.Errorf("create TeamHandler: %w", err)
	}

	bishopAuth := []fiber.Handler{middleware.AuthMiddleware(middleware.RoleBishop)}
	leaderAuth := []fiber.Handler{middleware.AuthMiddleware(middleware.RoleTeamLeader)}

	// Team creation and membership are bishop/leader actions.
	apirouter.RegisterRouteWithMiddleware(v1, "/team", "POST", "/create", bishopAuth, teamHandler.HandleCreate)
	apirouter.RegisterRouteWithMiddleware(v1, "/team", "POST", "/:id/members", leaderAuth, teamHandler.HandleAddMember)
	apirouter.RegisterRouteWithMiddleware(v1, "/team", "DELETE", "/:id/members/:userId", leaderAuth, teamHandler.HandleRemoveMember)

	// Generic reads and metadata updates.
	crudConfig := apirouter.CRUDConfig{
		Find: true, FindById: true, Paginate: true, Count: true,
		UpdById: true,
	}
	r.RegisterCRUDRoutes(v1, "/team", teamHandler, crudConfig, middleware.RoleTeamLeader)

	return nil
}
