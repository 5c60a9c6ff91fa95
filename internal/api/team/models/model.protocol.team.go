// Package models - ProtocolTeam entity (protocol_teams collection).
// A protocol team owns visitors by reference and is responsible for their
// outreach and conversion.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TeamMember is one member of a protocol team. The leader also appears here
// with IsLeader set.
type TeamMember struct {
	UserID   primitive.ObjectID `json:"userId" bson:"userId"`
	Name     string             `json:"name" bson:"name"`
	Email    string             `json:"email" bson:"email"`
	IsLeader bool               `json:"isLeader" bson:"isLeader"`
	JoinedAt int64              `json:"joinedAt" bson:"joinedAt"`
}

// ProtocolTeam holds the leader and member set for one team.
type ProtocolTeam struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	Name        string `json:"name" bson:"name"` // unique index
	Description string `json:"description,omitempty" bson:"description,omitempty"`

	LeaderID primitive.ObjectID `json:"leaderId" bson:"leaderId"`
	Members  []TeamMember       `json:"members" bson:"members"`

	IsActive bool `json:"isActive" bson:"isActive"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}

// HasMember reports whether the user belongs to the team. Required before a
// user may be the assigned protocol member on one of the team's visitors.
func (t *ProtocolTeam) HasMember(userID primitive.ObjectID) bool {
	if t.LeaderID == userID {
		return true
	}
	for _, m := range t.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}
