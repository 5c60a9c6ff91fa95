// Package visitorsvc - visitor domain service.
// Registration, promotion into the monitoring window, log appends and the
// explicit status actions. Derived metrics live in service.visitor.metrics.go,
// the lifecycle sweep in service.visitor.sweep.go.
package visitorsvc

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	basesvc "church_connect/internal/api/base/service"
	teammodels "church_connect/internal/api/team/models"
	visitordto "church_connect/internal/api/visitor/dto"
	visitormodels "church_connect/internal/api/visitor/models"
	"church_connect/internal/common"
	"church_connect/internal/global"
	"church_connect/internal/logger"
	"church_connect/internal/utility"
)

// VisitorService handles visitor persistence and lifecycle actions.
type VisitorService struct {
	*basesvc.BaseServiceMongoImpl[visitormodels.Visitor]
	teamService *basesvc.BaseServiceMongoImpl[teammodels.ProtocolTeam]
}

// NewVisitorService creates a VisitorService bound to the registered
// collections.
func NewVisitorService() (*VisitorService, error) {
	visitorColl, exist := global.RegistryCollections.Get(global.MongoColNames.Visitors)
	if !exist {
		return nil, fmt.Errorf("collection %s not registered: %w", global.MongoColNames.Visitors, common.ErrNotFound)
	}
	teamColl, exist := global.RegistryCollections.Get(global.MongoColNames.ProtocolTeams)
	if !exist {
		return nil, fmt.Errorf("collection %s not registered: %w", global.MongoColNames.ProtocolTeams, common.ErrNotFound)
	}
	return &VisitorService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[visitormodels.Visitor](visitorColl),
		teamService:          basesvc.NewBaseServiceMongo[teammodels.ProtocolTeam](teamColl),
	}, nil
}

// Register creates a new visitor at status visiting. The assigned protocol
// member must belong to the target team.
func (s *VisitorService) Register(ctx context.Context, input *visitordto.VisitorCreateInput) (visitormodels.Visitor, error) {
	var zero visitormodels.Visitor

	teamID := utility.String2ObjectID(input.TeamID)
	memberID := utility.String2ObjectID(input.AssignedMemberID)

	team, err := s.teamService.FindOneById(ctx, teamID)
	if err != nil {
		return zero, common.NewError(common.ErrCodeDatabaseQuery, "Protocol team not found", common.StatusNotFound, nil)
	}
	if !team.HasMember(memberID) {
		return zero, common.NewError(
			common.ErrCodeValidationInput,
			"Assigned protocol member does not belong to the team",
			common.StatusBadRequest,
			nil,
		)
	}

	visitor := visitormodels.Visitor{
		Name:                 input.Name,
		Email:                input.Email,
		Phone:                input.Phone,
		Address:              input.Address,
		Age:                  input.Age,
		Occupation:           input.Occupation,
		MaritalStatus:        input.MaritalStatus,
		Type:                 input.Type,
		Status:               visitormodels.VisitorStatusVisiting,
		CanLogin:             false,
		TeamID:               teamID,
		AssignedMemberID:     memberID,
		VisitHistory:         []visitormodels.VisitEntry{},
		Milestones:           []visitormodels.Milestone{},
		IntegrationChecklist: visitormodels.IntegrationChecklist{},
		IsActive:             true,
	}

	created, err := s.InsertOne(ctx, visitor)
	if err != nil {
		return zero, err
	}

	logger.Audit("visitor.register", created.ID.Hex(), logrus.Fields{
		"team_id": input.TeamID,
		"type":    input.Type,
	})
	return created, nil
}

// monitoringWindow returns the [start, end] millis of a monitoring window
// opened at now and spanning exactly windowDays calendar days.
func monitoringWindow(now time.Time, windowDays int) (start, end int64) {
	return now.UnixMilli(), now.AddDate(0, 0, windowDays).UnixMilli()
}

// PromoteToJoining moves a visiting visitor into the monitoring window:
// status joining, canLogin, window = [now, now+window], active monitoring,
// 12 seeded milestone slots and a one-time temporary password.
func (s *VisitorService) PromoteToJoining(ctx context.Context, id primitive.ObjectID, now time.Time) (*visitordto.PromoteResponse, error) {
	visitor, err := s.FindOneById(ctx, id)
	if err != nil {
		return nil, err
	}
	if visitor.Status != visitormodels.VisitorStatusVisiting {
		return nil, common.NewError(
			common.ErrCodeBusinessState,
			fmt.Sprintf("Only visiting visitors can be promoted, current status is %s", visitor.Status),
			common.StatusConflict,
			nil,
		)
	}

	tempPassword := uuid.NewString()
	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.NewError(common.ErrCodeInternalServer, "Failed to issue temporary password", common.StatusInternalServerError, err)
	}

	start, end := monitoringWindow(now, global.ServerConfig.MonitoringWindowDays)

	_, err = s.UpdateById(ctx, id, &basesvc.UpdateData{Set: map[string]interface{}{
		"status":              visitormodels.VisitorStatusJoining,
		"canLogin":            true,
		"passwordHash":        string(hash),
		"monitoringStartDate": start,
		"monitoringEndDate":   end,
		"monitoringStatus":    visitormodels.MonitoringActive,
		"milestones":          visitormodels.NewMilestoneSlots(),
	}})
	if err != nil {
		return nil, err
	}

	logger.Audit("visitor.promote", id.Hex(), logrus.Fields{
		"monitoring_start": start,
		"monitoring_end":   end,
	})

	return &visitordto.PromoteResponse{
		VisitorID:           id.Hex(),
		Status:              visitormodels.VisitorStatusJoining,
		MonitoringStartDate: start,
		MonitoringEndDate:   end,
		TemporaryPassword:   tempPassword,
	}, nil
}

// RecordVisit appends one attendance entry to the visit history.
func (s *VisitorService) RecordVisit(ctx context.Context, id primitive.ObjectID, input *visitordto.VisitRecordInput) (visitormodels.Visitor, error) {
	entry := visitormodels.VisitEntry{
		Date:             input.Date,
		EventType:        input.EventType,
		AttendanceStatus: input.AttendanceStatus,
		Notes:            input.Notes,
	}
	return s.UpdateById(ctx, id, &basesvc.UpdateData{
		Push: map[string]interface{}{"visitHistory": entry},
	})
}

// CompleteMilestone marks the given week's milestone as completed. Completing
// an already-completed week is a no-op, not an error.
func (s *VisitorService) CompleteMilestone(ctx context.Context, id primitive.ObjectID, input *visitordto.MilestoneCompleteInput, now time.Time) (visitormodels.Visitor, error) {
	var zero visitormodels.Visitor

	visitor, err := s.FindOneById(ctx, id)
	if err != nil {
		return zero, err
	}
	if visitor.Status != visitormodels.VisitorStatusJoining {
		return zero, common.NewError(
			common.ErrCodeBusinessState,
			"Milestones only exist for joining visitors",
			common.StatusConflict,
			nil,
		)
	}

	for _, m := range visitor.Milestones {
		if m.Week == input.Week && m.Completed {
			return visitor, nil
		}
	}

	set := bson.M{
		"milestones.$[slot].completed":     true,
		"milestones.$[slot].completedDate": now.UnixMilli(),
		"updatedAt":                        time.Now().UnixMilli(),
	}
	if input.Notes != "" {
		set["milestones.$[slot].notes"] = input.Notes
	}
	if input.ProtocolMemberNotes != "" {
		set["milestones.$[slot].protocolMemberNotes"] = input.ProtocolMemberNotes
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetArrayFilters(options.ArrayFilters{Filters: bson.A{bson.M{"slot.week": input.Week}}})
	result := s.Collection().FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		opts,
	)
	var updated visitormodels.Visitor
	if err := result.Decode(&updated); err != nil {
		return zero, common.ConvertMongoError(err)
	}
	return updated, nil
}

// UpdateChecklistTask toggles one integration checklist task by name.
func (s *VisitorService) UpdateChecklistTask(ctx context.Context, id primitive.ObjectID, input *visitordto.ChecklistUpdateInput) (visitormodels.Visitor, error) {
	return s.UpdateById(ctx, id, &basesvc.UpdateData{Set: map[string]interface{}{
		"integrationChecklist." + input.Task: input.Done,
	}})
}

// AddSuggestion appends a suggestion.
func (s *VisitorService) AddSuggestion(ctx context.Context, id primitive.ObjectID, input *visitordto.SuggestionInput, now time.Time) (visitormodels.Visitor, error) {
	return s.UpdateById(ctx, id, &basesvc.UpdateData{
		Push: map[string]interface{}{"suggestions": visitormodels.Suggestion{
			Date:    now.UnixMilli(),
			Content: input.Content,
		}},
	})
}

// AddExperience appends a rated experience.
func (s *VisitorService) AddExperience(ctx context.Context, id primitive.ObjectID, input *visitordto.ExperienceInput, now time.Time) (visitormodels.Visitor, error) {
	return s.UpdateById(ctx, id, &basesvc.UpdateData{
		Push: map[string]interface{}{"experiences": visitormodels.Experience{
			Date:    now.UnixMilli(),
			Content: input.Content,
			Rating:  input.Rating,
		}},
	})
}

// AddEventResponse appends an event invitation response.
func (s *VisitorService) AddEventResponse(ctx context.Context, id primitive.ObjectID, input *visitordto.EventResponseInput, now time.Time) (visitormodels.Visitor, error) {
	return s.UpdateById(ctx, id, &basesvc.UpdateData{
		Push: map[string]interface{}{"eventResponses": visitormodels.EventResponse{
			Date:      now.UnixMilli(),
			EventName: input.EventName,
			Response:  input.Response,
			Notes:     input.Notes,
		}},
	})
}

// OverrideMonitoringStatus records a manual status set by a protocol member.
// The sweep will not revert it to active on its own.
func (s *VisitorService) OverrideMonitoringStatus(ctx context.Context, id primitive.ObjectID, input *visitordto.StatusOverrideInput, actorID string) (visitormodels.Visitor, error) {
	var zero visitormodels.Visitor

	visitor, err := s.FindOneById(ctx, id)
	if err != nil {
		return zero, err
	}
	if visitor.Status != visitormodels.VisitorStatusJoining {
		return zero, common.NewError(
			common.ErrCodeBusinessState,
			"Only joining visitors carry a monitoring status",
			common.StatusConflict,
			nil,
		)
	}

	updated, err := s.UpdateById(ctx, id, &basesvc.UpdateData{Set: map[string]interface{}{
		"monitoringStatus": input.MonitoringStatus,
		"statusOverridden": true,
	}})
	if err != nil {
		return zero, err
	}

	logger.Audit("visitor.status_override", actorID, logrus.Fields{
		"visitor_id": id.Hex(),
		"from":       visitor.MonitoringStatus,
		"to":         input.MonitoringStatus,
		"reason":     input.Reason,
	})
	return updated, nil
}

// RecordConversion records the external conversion signal (bishop action).
func (s *VisitorService) RecordConversion(ctx context.Context, id primitive.ObjectID, now time.Time, actorID string) (visitormodels.Visitor, error) {
	var zero visitormodels.Visitor

	visitor, err := s.FindOneById(ctx, id)
	if err != nil {
		return zero, err
	}
	if visitor.Status != visitormodels.VisitorStatusJoining {
		return zero, common.NewError(
			common.ErrCodeBusinessState,
			"Only joining visitors can be converted to members",
			common.StatusConflict,
			nil,
		)
	}

	updated, err := s.UpdateById(ctx, id, &basesvc.UpdateData{Set: map[string]interface{}{
		"convertedAt":      now.UnixMilli(),
		"monitoringStatus": visitormodels.MonitoringConvertedToMember,
	}})
	if err != nil {
		return zero, err
	}

	logger.Audit("visitor.conversion", actorID, logrus.Fields{
		"visitor_id": id.Hex(),
	})
	return updated, nil
}

// GetVisitorMetrics fetches a visitor and derives its metrics.
func (s *VisitorService) GetVisitorMetrics(ctx context.Context, id primitive.ObjectID, now time.Time) (*VisitorMetrics, error) {
	visitor, err := s.FindOneById(ctx, id)
	if err != nil {
		return nil, err
	}
	metrics := ComputeVisitorMetrics(&visitor, now)
	return &metrics, nil
}

// GetEngagementSummary builds the structured engagement report for one
// visitor.
func (s *VisitorService) GetEngagementSummary(ctx context.Context, id primitive.ObjectID, now time.Time) (*visitordto.EngagementSummary, error) {
	visitor, err := s.FindOneById(ctx, id)
	if err != nil {
		return nil, err
	}

	metrics := ComputeVisitorMetrics(&visitor, now)

	avgRating := 0.0
	if len(visitor.Experiences) > 0 {
		total := 0
		for _, e := range visitor.Experiences {
			total += e.Rating
		}
		avgRating = float64(total) / float64(len(visitor.Experiences))
	}

	return &visitordto.EngagementSummary{
		VisitorID: visitor.ID.Hex(),
		Name:      visitor.Name,
		Metrics: visitordto.VisitorMetricsResponse{
			AttendanceRate:      metrics.AttendanceRate,
			MonitoringProgress:  metrics.MonitoringProgress,
			IntegrationProgress: metrics.IntegrationProgress,
			DaysRemaining:       metrics.DaysRemaining,
		},
		TotalVisits:      len(visitor.VisitHistory),
		SuggestionCount:  len(visitor.Suggestions),
		ExperienceCount:  len(visitor.Experiences),
		AverageRating:    avgRating,
		EventResponses:   len(visitor.EventResponses),
		MonitoringStatus: visitor.MonitoringStatus,
	}, nil
}
