// Package dto - request/response shapes for the visitor domain.
package dto

// VisitorCreateInput registers a new visitor. Registration always starts at
// status visiting; promotion to joining is a separate action.
type VisitorCreateInput struct {
	Name          string `json:"name" bson:"name" validate:"required"`
	Email         string `json:"email" bson:"email" validate:"required,email"`
	Phone         string `json:"phone,omitempty" bson:"phone,omitempty"`
	Address       string `json:"address,omitempty" bson:"address,omitempty"`
	Age           int    `json:"age,omitempty" bson:"age,omitempty" validate:"omitempty,gte=0,lte=150"`
	Occupation    string `json:"occupation,omitempty" bson:"occupation,omitempty"`
	MaritalStatus string `json:"maritalStatus,omitempty" bson:"maritalStatus,omitempty"`

	Type             string `json:"type" bson:"type" validate:"required,oneof=first-time from-other-altar returning"`
	TeamID           string `json:"teamId" bson:"teamId" validate:"required,len=24"`
	AssignedMemberID string `json:"assignedMemberId" bson:"assignedMemberId" validate:"required,len=24"`
}

// VisitorUpdateInput updates identity fields. Classification, monitoring and
// log fields go through their dedicated endpoints.
type VisitorUpdateInput struct {
	Name          string `json:"name,omitempty" bson:"name,omitempty"`
	Phone         string `json:"phone,omitempty" bson:"phone,omitempty"`
	Address       string `json:"address,omitempty" bson:"address,omitempty"`
	Age           int    `json:"age,omitempty" bson:"age,omitempty" validate:"omitempty,gte=0,lte=150"`
	Occupation    string `json:"occupation,omitempty" bson:"occupation,omitempty"`
	MaritalStatus string `json:"maritalStatus,omitempty" bson:"maritalStatus,omitempty"`
}

// VisitRecordInput appends one attendance entry.
type VisitRecordInput struct {
	Date             int64  `json:"date" validate:"required,gt=0"`
	EventType        string `json:"eventType" validate:"required"`
	AttendanceStatus string `json:"attendanceStatus" validate:"required,oneof=present absent"`
	Notes            string `json:"notes,omitempty"`
}

// MilestoneCompleteInput marks one weekly milestone as completed.
type MilestoneCompleteInput struct {
	Week                int    `json:"week" validate:"required,milestone_week"`
	Notes               string `json:"notes,omitempty"`
	ProtocolMemberNotes string `json:"protocolMemberNotes,omitempty"`
}

// ChecklistUpdateInput toggles one integration checklist task.
type ChecklistUpdateInput struct {
	Task string `json:"task" validate:"required,oneof=welcomePackage homeVisit smallGroupIntro ministryOpportunities mentorAssigned regularCheckIns"`
	Done bool   `json:"done"`
}

// SuggestionInput appends a free-form suggestion.
type SuggestionInput struct {
	Content string `json:"content" validate:"required"`
}

// ExperienceInput appends a rated experience.
type ExperienceInput struct {
	Content string `json:"content" validate:"required"`
	Rating  int    `json:"rating" validate:"required,experience_rating"`
}

// EventResponseInput appends an event invitation response.
type EventResponseInput struct {
	EventName string `json:"eventName" validate:"required"`
	Response  string `json:"response" validate:"required"`
	Notes     string `json:"notes,omitempty"`
}

// StatusOverrideInput manually sets the monitoring status. The sweep will not
// silently revert it.
type StatusOverrideInput struct {
	MonitoringStatus string `json:"monitoringStatus" validate:"required,oneof=active completed converted-to-member inactive needs-attention"`
	Reason           string `json:"reason,omitempty"`
}

// PromoteResponse is returned when a visitor is promoted to joining. The
// temporary password is shown once and stored only as a hash.
type PromoteResponse struct {
	VisitorID           string `json:"visitorId"`
	Status              string `json:"status"`
	MonitoringStartDate int64  `json:"monitoringStartDate"`
	MonitoringEndDate   int64  `json:"monitoringEndDate"`
	TemporaryPassword   string `json:"temporaryPassword"`
}

// VisitorMetricsResponse mirrors the derived-metric view for API consumers.
type VisitorMetricsResponse struct {
	AttendanceRate      int `json:"attendanceRate"`
	MonitoringProgress  int `json:"monitoringProgress"`
	IntegrationProgress int `json:"integrationProgress"`
	DaysRemaining       int `json:"daysRemaining"`
}

// EngagementSummary is the structured engagement report handed to the
// notification collaborator.
type EngagementSummary struct {
	VisitorID        string                 `json:"visitorId"`
	Name             string                 `json:"name"`
	Metrics          VisitorMetricsResponse `json:"metrics"`
	TotalVisits      int                    `json:"totalVisits"`
	SuggestionCount  int                    `json:"suggestionCount"`
	ExperienceCount  int                    `json:"experienceCount"`
	AverageRating    float64                `json:"averageRating"`
	EventResponses   int                    `json:"eventResponses"`
	MonitoringStatus string                 `json:"monitoringStatus"`
}
