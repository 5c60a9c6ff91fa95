// Package dto - aggregate shapes for team/church analytics and support
// actions. These are pure projections recomputed from visitor and team
// records; none of them is persisted.
package dto

// Trend directions.
const (
	TrendGrowing   = "growing"
	TrendDeclining = "declining"
	TrendStable    = "stable"
)

// Action priorities.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// TeamStatistics are the headline counts for one team.
type TeamStatistics struct {
	TotalVisitors       int `json:"totalVisitors"`
	JoiningVisitors     int `json:"joiningVisitors"`
	VisitingOnly        int `json:"visitingOnly"`
	ActiveMonitoring    int `json:"activeMonitoring"`
	CompletedMonitoring int `json:"completedMonitoring"`
	ConvertedMembers    int `json:"convertedMembers"`
	ConversionRate      int `json:"conversionRate"` // whole percent
}

// MonthlyBucket is one month of the growth series.
type MonthlyBucket struct {
	Month           string `json:"month"` // YYYY-MM
	TotalVisitors   int    `json:"totalVisitors"`
	Joining         int    `json:"joining"`
	Visiting        int    `json:"visiting"`
	Conversions     int    `json:"conversions"`
	CumulativeTotal int    `json:"cumulativeTotal"`
}

// MemberPerformance is per-member conversion effectiveness.
type MemberPerformance struct {
	UserID           string `json:"userId"`
	Name             string `json:"name"`
	IsLeader         bool   `json:"isLeader"`
	AssignedVisitors int    `json:"assignedVisitors"`
	Conversions      int    `json:"conversions"`
	ConversionRate   int    `json:"conversionRate"`
}

// TeamAnalytics is the full analytics view of one team.
type TeamAnalytics struct {
	TeamID            string              `json:"teamId"`
	TeamName          string              `json:"teamName"`
	Statistics        TeamStatistics      `json:"statistics"`
	MonthlyGrowth     []MonthlyBucket     `json:"monthlyGrowth"`
	GrowthTrend       float64             `json:"growthTrend"` // percent change between the two most recent non-empty buckets
	TrendDirection    string              `json:"trendDirection"`
	PerformanceScore  float64             `json:"performanceScore"`
	MemberPerformance []MemberPerformance `json:"memberPerformance"`
	VisitorsAtRisk    int                 `json:"visitorsAtRisk"`
	SkippedRecords    int                 `json:"skippedRecords"` // visitors excluded from counts due to bad data
	GeneratedAt       int64               `json:"generatedAt"`
	Stale             bool                `json:"stale,omitempty"` // served from an expired cache entry
}

// ChurchStats are the church-wide sums and averages.
type ChurchStats struct {
	TotalTeams            int     `json:"totalTeams"`
	TotalVisitors         int     `json:"totalVisitors"`
	TotalJoining          int     `json:"totalJoining"`
	TotalConversions      int     `json:"totalConversions"`
	AverageConversionRate float64 `json:"averageConversionRate"` // mean of team conversion rates
	TopPerformingTeam     string  `json:"topPerformingTeam"`     // team name, highest performanceScore
}

// TeamRanking is one entry of the deterministic church-wide ranking.
type TeamRanking struct {
	Rank             int     `json:"rank"`
	TeamID           string  `json:"teamId"`
	TeamName         string  `json:"teamName"`
	PerformanceScore float64 `json:"performanceScore"`
	ConversionRate   int     `json:"conversionRate"`
	TotalVisitors    int     `json:"totalVisitors"`
	GrowthTrend      float64 `json:"growthTrend"`
	TrendDirection   string  `json:"trendDirection"`
}

// ChurchInsights are the extracted highlights.
type ChurchInsights struct {
	FastestGrowingTeam    string `json:"fastestGrowingTeam,omitempty"` // empty when no team has positive growth
	HighestConversionTeam string `json:"highestConversionTeam,omitempty"`
	TeamsNeedingAttention int    `json:"teamsNeedingAttention"`
	TotalActiveVisitors   int    `json:"totalActiveVisitors"`
}

// ChurchAnalytics is the church-wide analytics view.
type ChurchAnalytics struct {
	ChurchStats    ChurchStats     `json:"churchStats"`
	TeamRankings   []TeamRanking   `json:"teamRankings"`
	ChurchGrowth   []MonthlyBucket `json:"churchGrowth"`
	Insights       ChurchInsights  `json:"insights"`
	SkippedRecords int             `json:"skippedRecords"`
	GeneratedAt    int64           `json:"generatedAt"`
	Stale          bool            `json:"stale,omitempty"`
}

// SupportAction flags a declining team.
type SupportAction struct {
	TeamID             string   `json:"teamId"`
	TeamName           string   `json:"teamName"`
	GrowthTrend        float64  `json:"growthTrend"`
	Priority           string   `json:"priority"`
	RecommendedActions []string `json:"recommendedActions"`
}

// TrainingNeed flags a team with low conversion.
type TrainingNeed struct {
	TeamID         string   `json:"teamId"`
	TeamName       string   `json:"teamName"`
	ConversionRate int      `json:"conversionRate"`
	Priority       string   `json:"priority"`
	Topics         []string `json:"topics"`
}

// MonitoringAlert flags visitors at risk within a team.
type MonitoringAlert struct {
	TeamID         string `json:"teamId"`
	TeamName       string `json:"teamName"`
	VisitorsAtRisk int    `json:"visitorsAtRisk"`
	Priority       string `json:"priority"`
}

// BestPractice is a shareable entry from a high-converting team.
type BestPractice struct {
	TeamID         string   `json:"teamId"`
	TeamName       string   `json:"teamName"`
	ConversionRate int      `json:"conversionRate"`
	SuccessFactors []string `json:"successFactors"`
}

// Recognition is a ranked recognition entry for a top team.
type Recognition struct {
	Rank             int     `json:"rank"`
	TeamID           string  `json:"teamId"`
	TeamName         string  `json:"teamName"`
	PerformanceScore float64 `json:"performanceScore"`
	SuggestedReward  string  `json:"suggestedReward"`
}

// SupportActionsReport is the full rule-based action set. Idempotent: the
// same inputs always produce the same report.
type SupportActionsReport struct {
	SupportActions   []SupportAction   `json:"supportActions"`
	TrainingNeeds    []TrainingNeed    `json:"trainingNeeds"`
	MonitoringAlerts []MonitoringAlert `json:"monitoringAlerts"`
	BestPractices    []BestPractice    `json:"bestPractices"`
	Recognition      []Recognition     `json:"recognition"`
	GeneratedAt      int64             `json:"generatedAt"`
}
