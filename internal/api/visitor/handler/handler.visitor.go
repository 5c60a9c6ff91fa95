// Package visitorhdl - HTTP handlers for the visitor domain.
package visitorhdl

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basehdl "church_connect/internal/api/base/handler"
	visitordto "church_connect/internal/api/visitor/dto"
	visitormodels "church_connect/internal/api/visitor/models"
	visitorsvc "church_connect/internal/api/visitor/service"
	"church_connect/internal/common"
	"church_connect/internal/utility"
)

// VisitorHandler serves the visitor endpoints. Generic CRUD comes from the
// embedded BaseHandler; registration, promotion, log appends and status
// actions are domain-specific.
type VisitorHandler struct {
	*basehdl.BaseHandler[visitormodels.Visitor, visitordto.VisitorCreateInput, visitordto.VisitorUpdateInput]
	service *visitorsvc.VisitorService
}

// NewVisitorHandler creates a VisitorHandler.
func NewVisitorHandler() (*VisitorHandler, error) {
	service, err := visitorsvc.NewVisitorService()
	if err != nil {
		return nil, err
	}
	return &VisitorHandler{
		BaseHandler: basehdl.NewBaseHandler[visitormodels.Visitor, visitordto.VisitorCreateInput, visitordto.VisitorUpdateInput](service),
		service:     service,
	}, nil
}

// idParam validates and converts the :id route param.
func idParam(c fiber.Ctx) (primitive.ObjectID, error) {
	id := c.Params("id")
	if !primitive.IsValidObjectID(id) {
		return primitive.NilObjectID, common.NewError(
			common.ErrCodeValidationFormat,
			"Visitor ID must be a 24-char hex ObjectID",
			common.StatusBadRequest,
			nil,
		)
	}
	return utility.String2ObjectID(id), nil
}

func actorID(c fiber.Ctx) string {
	if id, ok := c.Locals("user_id").(string); ok {
		return id
	}
	return ""
}

// HandleRegister registers a new visitor (POST /visitor/register).
func (h *VisitorHandler) HandleRegister(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input visitordto.VisitorCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		data, err := h.service.Register(c.Context(), &input)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// HandlePromote promotes a visiting visitor to joining
// (POST /visitor/:id/promote).
func (h *VisitorHandler) HandlePromote(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := idParam(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		data, err := h.service.PromoteToJoining(c.Context(), id, time.Now())
		h.HandleResponse(c, data, err)
		return nil
	})
}

// HandleRecordVisit appends a visit entry (POST /visitor/:id/visits).
func (h *VisitorHandler) HandleRecordVisit(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := idParam(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input visitordto.VisitRecordInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		data, err := h.service.RecordVisit(c.Context(), id, &input)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// HandleCompleteMilestone marks a weekly milestone completed
// (POST /visitor/:id/milestones/complete).
func (h *VisitorHandler) HandleCompleteMilestone(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := idParam(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input visitordto.MilestoneCompleteInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		data, err := h.service.CompleteMilestone(c.Context(), id, &input, time.Now())
		h.HandleResponse(c, data, err)
		return nil
	})
}

// HandleUpdateChecklist toggles one integration checklist task
// (PUT /visitor/:id/checklist).
func (h *VisitorHandler) HandleUpdateChecklist(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := idParam(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input visitordto.ChecklistUpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		data, err := h.service.UpdateChecklistTask(c.Context(), id, &input)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// HandleAddSuggestion appends a suggestion (POST /visitor/:id/suggestions).
func (h *VisitorHandler) HandleAddSuggestion(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := idParam(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input visitordto.SuggestionInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		data, err := h.service.AddSuggestion(c.Context(), id, &input, time.Now())
		h.HandleResponse(c, data, err)
		return nil
	})
}

// HandleAddExperience appends a rated experience (POST /visitor/:id/experiences).
func (h *VisitorHandler) HandleAddExperience(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := idParam(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input visitordto.ExperienceInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		data, err := h.service.AddExperience(c.Context(), id, &input, time.Now())
		h.HandleResponse(c, data, err)
		return nil
	})
}

// HandleAddEventResponse appends an event response
// (POST /visitor/:id/event-responses).
func (h *VisitorHandler) HandleAddEventResponse(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := idParam(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input visitordto.EventResponseInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		data, err := h.service.AddEventResponse(c.Context(), id, &input, time.Now())
		h.HandleResponse(c, data, err)
		return nil
	})
}

// HandleOverrideStatus manually sets the monitoring status
// (PUT /visitor/:id/monitoring-status).
func (h *VisitorHandler) HandleOverrideStatus(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := idParam(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input visitordto.StatusOverrideInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		data, err := h.service.OverrideMonitoringStatus(c.Context(), id, &input, actorID(c))
		h.HandleResponse(c, data, err)
		return nil
	})
}

// HandleRecordConversion records the bishop's conversion decision
// (POST /visitor/:id/convert).
func (h *VisitorHandler) HandleRecordConversion(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := idParam(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		data, err := h.service.RecordConversion(c.Context(), id, time.Now(), actorID(c))
		h.HandleResponse(c, data, err)
		return nil
	})
}

// HandleGetMetrics returns the derived metrics for one visitor
// (GET /visitor/:id/metrics).
func (h *VisitorHandler) HandleGetMetrics(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := idParam(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		data, err := h.service.GetVisitorMetrics(c.Context(), id, time.Now())
		h.HandleResponse(c, data, err)
		return nil
	})
}

// HandleEngagementSummary returns the engagement report for one visitor
// (GET /visitor/:id/engagement).
func (h *VisitorHandler) HandleEngagementSummary(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := idParam(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		data, err := h.service.GetEngagementSummary(c.Context(), id, time.Now())
		h.HandleResponse(c, data, err)
		return nil
	})
}
