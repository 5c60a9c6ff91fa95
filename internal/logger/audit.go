package logger

import (
	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// WithRequest returns an entry on the app logger pre-populated with request
// context (request id, method, path, IP) for correlating log lines.
func WithRequest(c fiber.Ctx) *logrus.Entry {
	fields := logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
		"ip":     c.IP(),
	}
	if reqID, ok := c.Locals("requestid").(string); ok && reqID != "" {
		fields["request_id"] = reqID
	}
	return GetAppLogger().WithFields(fields)
}

// Audit writes a structured audit record for a state-changing user action.
func Audit(action, actorID string, fields map[string]interface{}) {
	entry := GetAuditLogger().WithFields(logrus.Fields{
		"action":  action,
		"actorId": actorID,
	})
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Info("audit")
}
