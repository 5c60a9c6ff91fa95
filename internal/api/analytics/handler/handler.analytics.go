// Package analyticshdl - HTTP handlers for the analytics endpoints.
// All views are read-only projections except the sweep trigger.
package analyticshdl

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	analyticssvc "church_connect/internal/api/analytics/service"
	basehdl "church_connect/internal/api/base/handler"
	visitorsvc "church_connect/internal/api/visitor/service"
	"church_connect/internal/common"
	"church_connect/internal/utility"
)

// AnalyticsHandler serves the team/church analytics views, the support-action
// report and the manual sweep trigger.
type AnalyticsHandler struct {
	analytics *analyticssvc.AnalyticsService
	visitors  *visitorsvc.VisitorService
}

// NewAnalyticsHandler creates an AnalyticsHandler.
func NewAnalyticsHandler() (*AnalyticsHandler, error) {
	analytics, err := analyticssvc.NewAnalyticsService()
	if err != nil {
		return nil, err
	}
	visitors, err := visitorsvc.NewVisitorService()
	if err != nil {
		return nil, err
	}
	return &AnalyticsHandler{analytics: analytics, visitors: visitors}, nil
}

// monthsQuery parses the optional ?months= query param; 0 means "use the
// configured default".
func monthsQuery(c fiber.Ctx) (int, error) {
	raw := c.Query("months")
	if raw == "" {
		return 0, nil
	}
	months, err := strconv.Atoi(raw)
	if err != nil || months < 1 || months > 36 {
		return 0, common.NewError(
			common.ErrCodeValidationFormat,
			"months must be an integer between 1 and 36",
			common.StatusBadRequest,
			nil,
		)
	}
	return months, nil
}

// teamIDParam validates and converts the :teamId route param.
func teamIDParam(c fiber.Ctx) (primitive.ObjectID, error) {
	id := c.Params("teamId")
	if !primitive.IsValidObjectID(id) {
		return primitive.NilObjectID, common.NewError(
			common.ErrCodeValidationFormat,
			"Team ID must be a 24-char hex ObjectID",
			common.StatusBadRequest,
			nil,
		)
	}
	return utility.String2ObjectID(id), nil
}

// HandleTeamAnalytics returns the analytics view of one team
// (GET /analytics/team/:teamId).
func (h *AnalyticsHandler) HandleTeamAnalytics(c fiber.Ctx) error {
	return basehdl.SafeHandlerFunc(c, func() error {
		teamID, err := teamIDParam(c)
		if err != nil {
			basehdl.WriteResponse(c, nil, err)
			return nil
		}
		months, err := monthsQuery(c)
		if err != nil {
			basehdl.WriteResponse(c, nil, err)
			return nil
		}
		data, err := h.analytics.GetTeamAnalytics(c.Context(), teamID, months, time.Now())
		basehdl.WriteResponse(c, data, err)
		return nil
	})
}

// HandleChurchAnalytics returns the church-wide view (GET /analytics/church).
func (h *AnalyticsHandler) HandleChurchAnalytics(c fiber.Ctx) error {
	return basehdl.SafeHandlerFunc(c, func() error {
		months, err := monthsQuery(c)
		if err != nil {
			basehdl.WriteResponse(c, nil, err)
			return nil
		}
		data, err := h.analytics.GetChurchAnalytics(c.Context(), months, time.Now())
		basehdl.WriteResponse(c, data, err)
		return nil
	})
}

// HandleSupportActions returns the rule-based action report; ?teamId= limits
// it to one team (GET /analytics/support-actions).
func (h *AnalyticsHandler) HandleSupportActions(c fiber.Ctx) error {
	return basehdl.SafeHandlerFunc(c, func() error {
		teamID := primitive.NilObjectID
		if raw := c.Query("teamId"); raw != "" {
			if !primitive.IsValidObjectID(raw) {
				basehdl.WriteResponse(c, nil, common.NewError(
					common.ErrCodeValidationFormat,
					"teamId must be a 24-char hex ObjectID",
					common.StatusBadRequest,
					nil,
				))
				return nil
			}
			teamID = utility.String2ObjectID(raw)
		}
		data, err := h.analytics.GetSupportActions(c.Context(), teamID, time.Now())
		basehdl.WriteResponse(c, data, err)
		return nil
	})
}

// HandleRunSweep triggers a lifecycle sweep on demand and returns its result
// (POST /analytics/sweep). A sweep already in progress yields a conflict.
func (h *AnalyticsHandler) HandleRunSweep(c fiber.Ctx) error {
	return basehdl.SafeHandlerFunc(c, func() error {
		data, err := h.visitors.RunLifecycleSweep(c.Context(), time.Now())
		basehdl.WriteResponse(c, data, err)
		return nil
	})
}
