// Package teamhdl - HTTP handlers for the protocol team domain.
package teamhdl

import (
	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basehdl "church_connect/internal/api/base/handler"
	teamdto "church_connect/internal/api/team/dto"
	teammodels "church_connect/internal/api/team/models"
	teamsvc "church_connect/internal/api/team/service"
	"church_connect/internal/common"
	"church_connect/internal/utility"
)

// TeamHandler serves the protocol team endpoints.
type TeamHandler struct {
	*basehdl.BaseHandler[teammodels.ProtocolTeam, teamdto.TeamCreateInput, teamdto.TeamUpdateInput]
	service *teamsvc.TeamService
}

// NewTeamHandler creates a TeamHandler.
func NewTeamHandler() (*TeamHandler, error) {
	service, err := teamsvc.NewTeamService()
	if err != nil {
		return nil, err
	}
	return &TeamHandler{
		BaseHandler: basehdl.NewBaseHandler[teammodels.ProtocolTeam, teamdto.TeamCreateInput, teamdto.TeamUpdateInput](service),
		service:     service,
	}, nil
}

func parseID(c fiber.Ctx, param string) (primitive.ObjectID, error) {
	id := c.Params(param)
	if !primitive.IsValidObjectID(id) {
		return primitive.NilObjectID, common.NewError(
			common.ErrCodeValidationFormat,
			"ID must be a 24-char hex ObjectID",
			common.StatusBadRequest,
			nil,
		)
	}
	return utility.String2ObjectID(id), nil
}

// HandleCreate creates a team with its leader (POST /team/create).
func (h *TeamHandler) HandleCreate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input teamdto.TeamCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		data, err := h.service.Create(c.Context(), &input)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// HandleAddMember adds a member (POST /team/:id/members).
func (h *TeamHandler) HandleAddMember(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		teamID, err := parseID(c, "id")
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input teamdto.TeamMemberInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		data, err := h.service.AddMember(c.Context(), teamID, &input)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// HandleRemoveMember removes a member (DELETE /team/:id/members/:userId).
func (h *TeamHandler) HandleRemoveMember(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		teamID, err := parseID(c, "id")
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		userID, err := parseID(c, "userId")
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		data, err := h.service.RemoveMember(c.Context(), teamID, userID)
		h.HandleResponse(c, data, err)
		return nil
	})
}
