package analyticssvc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	analyticsdto "church_connect/internal/api/analytics/dto"
)

func TestGenerateSupportActionsDecliningTeam(t *testing.T) {
	now := aprilClock()

	mild := teamView("a", "alpha", 50, 50, 10)
	mild.GrowthTrend = -10
	mild.TrendDirection = analyticsdto.TrendDeclining

	severe := teamView("b", "beta", 40, 55, 10)
	severe.GrowthTrend = -35
	severe.TrendDirection = analyticsdto.TrendDeclining

	report := GenerateSupportActions([]*analyticsdto.TeamAnalytics{mild, severe}, now, testThresholds())

	assert.Len(t, report.SupportActions, 2)
	assert.Equal(t, analyticsdto.PriorityMedium, report.SupportActions[0].Priority)
	assert.Equal(t, analyticsdto.PriorityHigh, report.SupportActions[1].Priority,
		"decline past the severe threshold escalates")
	assert.NotEmpty(t, report.SupportActions[0].RecommendedActions)
}

func TestGenerateSupportActionsTrainingNeeds(t *testing.T) {
	now := aprilClock()

	low := teamView("a", "alpha", 40, 25, 10)
	veryLow := teamView("b", "beta", 30, 10, 10)
	fine := teamView("c", "gamma", 60, 55, 10)

	report := GenerateSupportActions([]*analyticsdto.TeamAnalytics{low, veryLow, fine}, now, testThresholds())

	assert.Len(t, report.TrainingNeeds, 2)
	assert.Equal(t, analyticsdto.PriorityMedium, report.TrainingNeeds[0].Priority)
	assert.Equal(t, analyticsdto.PriorityHigh, report.TrainingNeeds[1].Priority,
		"below half the threshold escalates")
}

func TestGenerateSupportActionsAlertsAndBestPractices(t *testing.T) {
	now := aprilClock()

	risky := teamView("a", "alpha", 50, 50, 10)
	risky.VisitorsAtRisk = 3

	star := teamView("b", "beta", 90, 85, 20)

	report := GenerateSupportActions([]*analyticsdto.TeamAnalytics{risky, star}, now, testThresholds())

	assert.Len(t, report.MonitoringAlerts, 1)
	assert.Equal(t, 3, report.MonitoringAlerts[0].VisitorsAtRisk)
	assert.Equal(t, analyticsdto.PriorityHigh, report.MonitoringAlerts[0].Priority)

	assert.Len(t, report.BestPractices, 1)
	assert.Equal(t, "beta", report.BestPractices[0].TeamName)
	assert.NotEmpty(t, report.BestPractices[0].SuccessFactors)
}

func TestGenerateSupportActionsRecognition(t *testing.T) {
	now := aprilClock()

	teams := []*analyticsdto.TeamAnalytics{
		teamView("a", "alpha", 90, 60, 10),
		teamView("b", "beta", 80, 60, 10),
		teamView("c", "gamma", 70, 60, 10),
		teamView("d", "delta", 60, 60, 10),
	}

	report := GenerateSupportActions(teams, now, testThresholds())

	assert.Len(t, report.Recognition, 3, "top-N only")
	assert.Equal(t, "alpha", report.Recognition[0].TeamName)
	assert.Equal(t, 1, report.Recognition[0].Rank)
	assert.Equal(t, "gamma", report.Recognition[2].TeamName)
	for _, r := range report.Recognition {
		assert.NotEmpty(t, r.SuggestedReward)
	}

	// Fewer teams than N does not fail.
	small := GenerateSupportActions(teams[:2], now, testThresholds())
	assert.Len(t, small.Recognition, 2)
}

func TestGenerateSupportActionsIsIdempotent(t *testing.T) {
	now := aprilClock()

	team := teamView("a", "alpha", 40, 20, 10)
	team.GrowthTrend = -25
	team.TrendDirection = analyticsdto.TrendDeclining
	team.VisitorsAtRisk = 2

	first := GenerateSupportActions([]*analyticsdto.TeamAnalytics{team}, now, testThresholds())
	second := GenerateSupportActions([]*analyticsdto.TeamAnalytics{team}, now, testThresholds())
	assert.Equal(t, first, second, "same inputs, same report")

	// One team can appear in several categories at once.
	assert.Len(t, first.SupportActions, 1)
	assert.Len(t, first.TrainingNeeds, 1)
	assert.Len(t, first.MonitoringAlerts, 1)
}

func TestGenerateSupportActionsEmptyInput(t *testing.T) {
	report := GenerateSupportActions(nil, aprilClock(), testThresholds())

	assert.Empty(t, report.SupportActions)
	assert.Empty(t, report.TrainingNeeds)
	assert.Empty(t, report.MonitoringAlerts)
	assert.Empty(t, report.BestPractices)
	assert.Empty(t, report.Recognition)
	assert.NotZero(t, report.GeneratedAt)
}
