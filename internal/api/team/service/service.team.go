// Package teamsvc - protocol team service.
package teamsvc

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basesvc "church_connect/internal/api/base/service"
	teamdto "church_connect/internal/api/team/dto"
	teammodels "church_connect/internal/api/team/models"
	visitormodels "church_connect/internal/api/visitor/models"
	"church_connect/internal/common"
	"church_connect/internal/global"
	"church_connect/internal/utility"
)

// TeamService handles protocol team persistence and membership.
type TeamService struct {
	*basesvc.BaseServiceMongoImpl[teammodels.ProtocolTeam]
	visitorService *basesvc.BaseServiceMongoImpl[visitormodels.Visitor]
}

// NewTeamService creates a TeamService bound to the registered collections.
func NewTeamService() (*TeamService, error) {
	teamColl, exist := global.RegistryCollections.Get(global.MongoColNames.ProtocolTeams)
	if !exist {
		return nil, fmt.Errorf("collection %s not registered: %w", global.MongoColNames.ProtocolTeams, common.ErrNotFound)
	}
	visitorColl, exist := global.RegistryCollections.Get(global.MongoColNames.Visitors)
	if !exist {
		return nil, fmt.Errorf("collection %s not registered: %w", global.MongoColNames.Visitors, common.ErrNotFound)
	}
	return &TeamService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[teammodels.ProtocolTeam](teamColl),
		visitorService:       basesvc.NewBaseServiceMongo[visitormodels.Visitor](visitorColl),
	}, nil
}

// Create builds a team with the leader seeded as its first member.
func (s *TeamService) Create(ctx context.Context, input *teamdto.TeamCreateInput) (teammodels.ProtocolTeam, error) {
	leaderID := utility.String2ObjectID(input.LeaderID)
	now := time.Now().UnixMilli()

	team := teammodels.ProtocolTeam{
		Name:        input.Name,
		Description: input.Description,
		LeaderID:    leaderID,
		Members: []teammodels.TeamMember{{
			UserID:   leaderID,
			Name:     input.LeaderName,
			Email:    input.LeaderEmail,
			IsLeader: true,
			JoinedAt: now,
		}},
		IsActive: true,
	}
	return s.InsertOne(ctx, team)
}

// AddMember appends a member to the team. Adding an existing member is a
// no-op.
func (s *TeamService) AddMember(ctx context.Context, teamID primitive.ObjectID, input *teamdto.TeamMemberInput) (teammodels.ProtocolTeam, error) {
	var zero teammodels.ProtocolTeam

	team, err := s.FindOneById(ctx, teamID)
	if err != nil {
		return zero, err
	}

	userID := utility.String2ObjectID(input.UserID)
	if team.HasMember(userID) {
		return team, nil
	}

	member := teammodels.TeamMember{
		UserID:   userID,
		Name:     input.Name,
		Email:    input.Email,
		JoinedAt: time.Now().UnixMilli(),
	}
	return s.UpdateById(ctx, teamID, &basesvc.UpdateData{
		Push: map[string]interface{}{"members": member},
	})
}

// RemoveMember removes a member from the team. The leader cannot be removed,
// and neither can a member still assigned to one of the team's visitors.
func (s *TeamService) RemoveMember(ctx context.Context, teamID, userID primitive.ObjectID) (teammodels.ProtocolTeam, error) {
	var zero teammodels.ProtocolTeam

	team, err := s.FindOneById(ctx, teamID)
	if err != nil {
		return zero, err
	}
	if team.LeaderID == userID {
		return zero, common.NewError(
			common.ErrCodeBusinessState,
			"The team leader cannot be removed from the team",
			common.StatusConflict,
			nil,
		)
	}

	assigned, err := s.visitorService.CountDocuments(ctx, bson.M{
		"teamId":           teamID,
		"assignedMemberId": userID,
		"isActive":         true,
	})
	if err != nil {
		return zero, err
	}
	if assigned > 0 {
		return zero, common.NewError(
			common.ErrCodeBusinessState,
			fmt.Sprintf("Member is still assigned to %d visitors; reassign them first", assigned),
			common.StatusConflict,
			nil,
		)
	}

	result := s.Collection().FindOneAndUpdate(ctx,
		bson.M{"_id": teamID},
		bson.M{
			"$pull": bson.M{"members": bson.M{"userId": userID}},
			"$set":  bson.M{"updatedAt": time.Now().UnixMilli()},
		},
	)
	if err := result.Err(); err != nil {
		return zero, common.ConvertMongoError(err)
	}
	return s.FindOneById(ctx, teamID)
}
