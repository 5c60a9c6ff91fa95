package analyticssvc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	analyticsdto "church_connect/internal/api/analytics/dto"
)

func teamView(id, name string, score float64, conversionRate, totalVisitors int) *analyticsdto.TeamAnalytics {
	return &analyticsdto.TeamAnalytics{
		TeamID:           id,
		TeamName:         name,
		PerformanceScore: score,
		TrendDirection:   analyticsdto.TrendStable,
		Statistics: analyticsdto.TeamStatistics{
			TotalVisitors:  totalVisitors,
			ConversionRate: conversionRate,
		},
	}
}

func TestRankTeamsOrderAndTieBreaks(t *testing.T) {
	teams := []*analyticsdto.TeamAnalytics{
		teamView("cccccccccccccccccccccccc", "gamma", 60, 50, 10),
		teamView("aaaaaaaaaaaaaaaaaaaaaaaa", "alpha", 80, 40, 10),
		teamView("bbbbbbbbbbbbbbbbbbbbbbbb", "beta", 80, 40, 10),
		teamView("dddddddddddddddddddddddd", "delta", 80, 60, 5),
	}

	rankings := rankTeams(teams)

	assert.Len(t, rankings, 4)
	// delta wins its score tie on conversion rate; alpha beats beta on teamId.
	assert.Equal(t, "delta", rankings[0].TeamName)
	assert.Equal(t, "alpha", rankings[1].TeamName)
	assert.Equal(t, "beta", rankings[2].TeamName)
	assert.Equal(t, "gamma", rankings[3].TeamName)

	// Ranks are contiguous and 1-based, ties not shared.
	for i, r := range rankings {
		assert.Equal(t, i+1, r.Rank)
	}

	// Input order does not affect the outcome.
	reversed := []*analyticsdto.TeamAnalytics{teams[3], teams[2], teams[1], teams[0]}
	again := rankTeams(reversed)
	for i := range rankings {
		assert.Equal(t, rankings[i].TeamID, again[i].TeamID)
	}
}

func TestSumGrowthSeries(t *testing.T) {
	a := teamView("a", "alpha", 50, 50, 5)
	a.MonthlyGrowth = []analyticsdto.MonthlyBucket{
		{Month: "2026-01", TotalVisitors: 2, Conversions: 1},
		{Month: "2026-02", TotalVisitors: 3},
	}
	b := teamView("b", "beta", 50, 50, 5)
	b.MonthlyGrowth = []analyticsdto.MonthlyBucket{
		{Month: "2026-02", TotalVisitors: 1, Conversions: 2},
		{Month: "2026-03", TotalVisitors: 4},
	}

	series := sumGrowthSeries([]*analyticsdto.TeamAnalytics{b, a})

	assert.Len(t, series, 3)
	assert.Equal(t, "2026-01", series[0].Month)
	assert.Equal(t, 2, series[0].TotalVisitors)
	assert.Equal(t, 4, series[1].TotalVisitors, "overlapping month is summed")
	assert.Equal(t, 2, series[1].Conversions)

	// Cumulative totals recomputed over the merged series.
	assert.Equal(t, 2, series[0].CumulativeTotal)
	assert.Equal(t, 6, series[1].CumulativeTotal)
	assert.Equal(t, 10, series[2].CumulativeTotal)
}

func TestComputeChurchAnalyticsAverages(t *testing.T) {
	now := aprilClock()
	teams := []*analyticsdto.TeamAnalytics{
		teamView("a", "alpha", 70, 40, 10),
		teamView("b", "beta", 90, 80, 20),
	}
	teams[0].Statistics.ConvertedMembers = 4
	teams[1].Statistics.ConvertedMembers = 16

	result := ComputeChurchAnalytics(teams, now, testThresholds())

	assert.Equal(t, 2, result.ChurchStats.TotalTeams)
	assert.Equal(t, 30, result.ChurchStats.TotalVisitors)
	assert.Equal(t, 20, result.ChurchStats.TotalConversions)
	assert.InDelta(t, 60.0, result.ChurchStats.AverageConversionRate, 0.001,
		"mean of team rates, not a visitor-weighted rate")
	assert.Equal(t, "beta", result.ChurchStats.TopPerformingTeam)
	assert.Equal(t, "beta", result.Insights.HighestConversionTeam)
	assert.Equal(t, 1, result.Insights.TeamsNeedingAttention, "alpha sits below the attention threshold")
}

func TestComputeChurchAnalyticsZeroTeams(t *testing.T) {
	result := ComputeChurchAnalytics(nil, aprilClock(), testThresholds())

	assert.Equal(t, 0, result.ChurchStats.TotalTeams)
	assert.Equal(t, 0.0, result.ChurchStats.AverageConversionRate)
	assert.Empty(t, result.ChurchStats.TopPerformingTeam)
	assert.Empty(t, result.TeamRankings)
}

func TestComputeChurchAnalyticsInsights(t *testing.T) {
	now := aprilClock()

	grower := teamView("a", "alpha", 70, 60, 10)
	grower.GrowthTrend = 25
	grower.TrendDirection = analyticsdto.TrendGrowing

	decliner := teamView("b", "beta", 80, 90, 10)
	decliner.GrowthTrend = -30
	decliner.TrendDirection = analyticsdto.TrendDeclining

	result := ComputeChurchAnalytics([]*analyticsdto.TeamAnalytics{grower, decliner}, now, testThresholds())

	assert.Equal(t, "alpha", result.Insights.FastestGrowingTeam, "only positive growth counts")
	assert.Equal(t, "beta", result.Insights.HighestConversionTeam)
	assert.Equal(t, 1, result.Insights.TeamsNeedingAttention, "declining counts even with a high rate")

	// No positive growth leaves the highlight empty.
	flat := teamView("c", "gamma", 50, 50, 5)
	result = ComputeChurchAnalytics([]*analyticsdto.TeamAnalytics{flat}, now, testThresholds())
	assert.Empty(t, result.Insights.FastestGrowingTeam)
}
