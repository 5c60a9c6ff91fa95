// Package models - Visitor entity (visitors collection).
// A visitor is a prospective member tracked through a fixed monitoring window,
// carrying embedded visit/milestone/checklist/feedback logs.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Visitor classification.
const (
	VisitorTypeFirstTime      = "first-time"
	VisitorTypeFromOtherAltar = "from-other-altar"
	VisitorTypeReturning      = "returning"

	VisitorStatusVisiting = "visiting"
	VisitorStatusJoining  = "joining"
)

// Monitoring lifecycle states. Only joining visitors carry one.
const (
	MonitoringActive            = "active"
	MonitoringCompleted         = "completed"
	MonitoringConvertedToMember = "converted-to-member"
	MonitoringInactive          = "inactive"
	MonitoringNeedsAttention    = "needs-attention"
)

// Attendance status of a single visit.
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
)

// MilestoneCount is the number of weekly milestone slots per visitor.
const MilestoneCount = 12

// ChecklistTaskCount is the number of integration checklist tasks.
const ChecklistTaskCount = 6

// VisitEntry is one attendance record. Entries are append-only and immutable
// once written.
type VisitEntry struct {
	Date             int64  `json:"date" bson:"date"` // Unix millis
	EventType        string `json:"eventType" bson:"eventType"`
	AttendanceStatus string `json:"attendanceStatus" bson:"attendanceStatus"` // present | absent
	Notes            string `json:"notes,omitempty" bson:"notes,omitempty"`
}

// Milestone is one weekly checkpoint. A joining visitor always has exactly 12
// slots, weeks 1..12, seeded at promotion.
type Milestone struct {
	Week                int    `json:"week" bson:"week"`
	Completed           bool   `json:"completed" bson:"completed"`
	Notes               string `json:"notes,omitempty" bson:"notes,omitempty"`
	ProtocolMemberNotes string `json:"protocolMemberNotes,omitempty" bson:"protocolMemberNotes,omitempty"`
	CompletedDate       int64  `json:"completedDate,omitempty" bson:"completedDate,omitempty"`
}

// IntegrationChecklist is the fixed set of onboarding tasks. Fixed shape, not
// a list: the tasks are exhaustive and known up front.
type IntegrationChecklist struct {
	WelcomePackage        bool `json:"welcomePackage" bson:"welcomePackage"`
	HomeVisit             bool `json:"homeVisit" bson:"homeVisit"`
	SmallGroupIntro       bool `json:"smallGroupIntro" bson:"smallGroupIntro"`
	MinistryOpportunities bool `json:"ministryOpportunities" bson:"ministryOpportunities"`
	MentorAssigned        bool `json:"mentorAssigned" bson:"mentorAssigned"`
	RegularCheckIns       bool `json:"regularCheckIns" bson:"regularCheckIns"`
}

// CompletedCount returns the number of completed checklist tasks.
func (c IntegrationChecklist) CompletedCount() int {
	count := 0
	for _, done := range []bool{
		c.WelcomePackage, c.HomeVisit, c.SmallGroupIntro,
		c.MinistryOpportunities, c.MentorAssigned, c.RegularCheckIns,
	} {
		if done {
			count++
		}
	}
	return count
}

// Suggestion is free-form visitor feedback.
type Suggestion struct {
	Date    int64  `json:"date" bson:"date"`
	Content string `json:"content" bson:"content"`
}

// Experience is visitor feedback with a 1-5 rating.
type Experience struct {
	Date    int64  `json:"date" bson:"date"`
	Content string `json:"content" bson:"content"`
	Rating  int    `json:"rating" bson:"rating"`
}

// EventResponse records a visitor's reply to an event invitation.
type EventResponse struct {
	Date      int64  `json:"date" bson:"date"`
	EventName string `json:"eventName" bson:"eventName"`
	Response  string `json:"response" bson:"response"`
	Notes     string `json:"notes,omitempty" bson:"notes,omitempty"`
}

// Visitor is a prospective member under observation (visitors collection).
type Visitor struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	// Identity
	Name          string `json:"name" bson:"name"`
	Email         string `json:"email" bson:"email"` // unique index
	Phone         string `json:"phone,omitempty" bson:"phone,omitempty"`
	Address       string `json:"address,omitempty" bson:"address,omitempty"`
	Age           int    `json:"age,omitempty" bson:"age,omitempty"`
	Occupation    string `json:"occupation,omitempty" bson:"occupation,omitempty"`
	MaritalStatus string `json:"maritalStatus,omitempty" bson:"maritalStatus,omitempty"`

	// Classification
	Type   string `json:"type" bson:"type"`     // first-time | from-other-altar | returning
	Status string `json:"status" bson:"status"` // visiting | joining

	// canLogin tracks status: true exactly when status == joining.
	CanLogin     bool   `json:"canLogin" bson:"canLogin"`
	PasswordHash string `json:"-" bson:"passwordHash,omitempty"`

	// Ownership: one team, one assigned member of that team.
	TeamID           primitive.ObjectID `json:"teamId" bson:"teamId"`
	AssignedMemberID primitive.ObjectID `json:"assignedMemberId" bson:"assignedMemberId"`

	// Monitoring window, set only on promotion to joining. Unix millis.
	MonitoringStartDate int64  `json:"monitoringStartDate,omitempty" bson:"monitoringStartDate,omitempty"`
	MonitoringEndDate   int64  `json:"monitoringEndDate,omitempty" bson:"monitoringEndDate,omitempty"`
	MonitoringStatus    string `json:"monitoringStatus,omitempty" bson:"monitoringStatus,omitempty"`

	// StatusOverridden marks a manual monitoringStatus set by a protocol
	// member; the sweep will not revert it back to active on its own.
	StatusOverridden bool `json:"statusOverridden,omitempty" bson:"statusOverridden,omitempty"`

	// ConvertedAt is the external conversion signal recorded by a bishop
	// action. Non-zero means the visitor has formally become a member.
	ConvertedAt int64 `json:"convertedAt,omitempty" bson:"convertedAt,omitempty"`

	// Embedded logs
	VisitHistory         []VisitEntry         `json:"visitHistory" bson:"visitHistory"`
	Milestones           []Milestone          `json:"milestones" bson:"milestones"`
	IntegrationChecklist IntegrationChecklist `json:"integrationChecklist" bson:"integrationChecklist"`
	Suggestions          []Suggestion         `json:"suggestions,omitempty" bson:"suggestions,omitempty"`
	Experiences          []Experience         `json:"experiences,omitempty" bson:"experiences,omitempty"`
	EventResponses       []EventResponse      `json:"eventResponses,omitempty" bson:"eventResponses,omitempty"`

	// Visitors are never deleted; IsActive soft-disables.
	IsActive bool `json:"isActive" bson:"isActive"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}

// NewMilestoneSlots returns the 12 empty weekly slots seeded at promotion.
// Weeks are unique and cover 1..12 exactly once by construction.
func NewMilestoneSlots() []Milestone {
	slots := make([]Milestone, MilestoneCount)
	for i := range slots {
		slots[i] = Milestone{Week: i + 1}
	}
	return slots
}
