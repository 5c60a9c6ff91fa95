// Package middleware contains the Fiber middleware chain: JWT authentication
// and role checks for the protocol-team hierarchy.
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"

	basehdl "church_connect/internal/api/base/handler"
	"church_connect/internal/common"
	"church_connect/internal/global"
	"church_connect/internal/logger"
)

// Role names, ordered by authority. A role satisfies any requirement at or
// below its own rank.
const (
	RoleBishop     = "bishop"
	RoleTeamLeader = "team-leader"
	RoleTeamMember = "team-member"
	RoleVisitor    = "visitor"
)

var roleRank = map[string]int{
	RoleBishop:     4,
	RoleTeamLeader: 3,
	RoleTeamMember: 2,
	RoleVisitor:    1,
}

// TokenClaims are the JWT claims issued at login.
type TokenClaims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	TeamID string `json:"teamId,omitempty"`
	jwt.RegisteredClaims
}

// extractToken pulls the bearer token from the Authorization header.
func extractToken(c fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// parseToken validates the JWT and returns its claims.
func parseToken(tokenStr string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrTokenInvalid
		}
		return []byte(global.ServerConfig.JwtSecret), nil
	})
	if err != nil {
		if strings.Contains(err.Error(), "expired") {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrTokenInvalid
	}
	if !token.Valid {
		return nil, common.ErrTokenInvalid
	}
	return claims, nil
}

// AuthMiddleware authenticates the request and optionally enforces a minimum
// role. An empty requiredRole means any authenticated user may pass.
//
// On success the middleware stores user_id, user_role, and user_team_id in
// the request Locals for handlers downstream.
func AuthMiddleware(requiredRole string) fiber.Handler {
	return func(c fiber.Ctx) error {
		tokenStr := extractToken(c)
		if tokenStr == "" {
			basehdl.WriteResponse(c, nil, common.ErrTokenMissing)
			return nil
		}

		claims, err := parseToken(tokenStr)
		if err != nil {
			basehdl.WriteResponse(c, nil, err)
			return nil
		}

		if requiredRole != "" {
			required, ok := roleRank[requiredRole]
			if !ok {
				basehdl.WriteResponse(c, nil, common.ErrForbiddenRole)
				return nil
			}
			actual, ok := roleRank[claims.Role]
			if !ok || actual < required {
				logger.GetAuditLogger().WithFields(logrus.Fields{
					"user_id":       claims.UserID,
					"role":          claims.Role,
					"required_role": requiredRole,
					"path":          c.Path(),
				}).Warn("🔒 [AUTH] Role check failed")
				basehdl.WriteResponse(c, nil, common.ErrForbiddenRole)
				return nil
			}
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("user_role", claims.Role)
		c.Locals("user_team_id", claims.TeamID)

		return c.Next()
	}
}
