// Package dto - request shapes for the protocol team domain.
package dto

// TeamCreateInput creates a protocol team.
type TeamCreateInput struct {
	Name        string `json:"name" bson:"name" validate:"required"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	LeaderID    string `json:"leaderId" bson:"leaderId" validate:"required,len=24"`
	LeaderName  string `json:"leaderName" bson:"leaderName" validate:"required"`
	LeaderEmail string `json:"leaderEmail" bson:"leaderEmail" validate:"required,email"`
}

// TeamUpdateInput updates team metadata.
type TeamUpdateInput struct {
	Name        string `json:"name,omitempty" bson:"name,omitempty"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
}

// TeamMemberInput adds one member to a team.
type TeamMemberInput struct {
	UserID string `json:"userId" validate:"required,len=24"`
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
}
