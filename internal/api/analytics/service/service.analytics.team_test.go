package analyticssvc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	analyticsdto "church_connect/internal/api/analytics/dto"
	teammodels "church_connect/internal/api/team/models"
	visitormodels "church_connect/internal/api/visitor/models"
)

func testThresholds() Thresholds {
	return Thresholds{
		TrendThresholdPct:      5,
		SevereDeclinePct:       20,
		LowConversionPct:       30,
		HighConversionPct:      70,
		AttentionConversionPct: 50,
		RecognitionTopN:        3,
		GrowthMonthsWindow:     6,
	}
}

func aprilClock() time.Time {
	return time.Date(2026, 4, 15, 12, 0, 0, 0, time.UTC)
}

func newTeam(name string, memberIDs ...primitive.ObjectID) *teammodels.ProtocolTeam {
	team := &teammodels.ProtocolTeam{
		ID:       primitive.NewObjectID(),
		Name:     name,
		IsActive: true,
	}
	for i, id := range memberIDs {
		team.Members = append(team.Members, teammodels.TeamMember{
			UserID:   id,
			Name:     name + "-member",
			IsLeader: i == 0,
		})
		if i == 0 {
			team.LeaderID = id
		}
	}
	return team
}

func registeredVisitor(teamID, memberID primitive.ObjectID, createdAt time.Time, status string) visitormodels.Visitor {
	return visitormodels.Visitor{
		ID:               primitive.NewObjectID(),
		Status:           status,
		TeamID:           teamID,
		AssignedMemberID: memberID,
		IsActive:         true,
		CreatedAt:        createdAt.UnixMilli(),
	}
}

func TestComputeTeamAnalyticsZeroVisitors(t *testing.T) {
	now := aprilClock()
	team := newTeam("alpha", primitive.NewObjectID())

	result := ComputeTeamAnalytics(team, nil, 6, now, testThresholds())

	assert.Equal(t, team.ID.Hex(), result.TeamID)
	assert.Equal(t, 0, result.Statistics.TotalVisitors)
	assert.Equal(t, 0, result.Statistics.ConversionRate, "zero visitors is zero rate, not a division error")
	assert.Equal(t, analyticsdto.TrendStable, result.TrendDirection)
	assert.Len(t, result.MonthlyGrowth, 6)
	assert.Len(t, result.MemberPerformance, 1)
}

func TestComputeTeamAnalyticsConversionRate(t *testing.T) {
	now := aprilClock()
	memberID := primitive.NewObjectID()
	team := newTeam("alpha", memberID)

	visitors := make([]visitormodels.Visitor, 0, 5)
	for i := 0; i < 5; i++ {
		v := registeredVisitor(team.ID, memberID, now.AddDate(0, 0, -10), visitormodels.VisitorStatusJoining)
		if i < 2 {
			v.ConvertedAt = now.AddDate(0, 0, -1).UnixMilli()
			v.MonitoringStatus = visitormodels.MonitoringConvertedToMember
		} else {
			v.MonitoringStatus = visitormodels.MonitoringActive
		}
		visitors = append(visitors, v)
	}

	result := ComputeTeamAnalytics(team, visitors, 6, now, testThresholds())

	assert.Equal(t, 5, result.Statistics.TotalVisitors)
	assert.Equal(t, 2, result.Statistics.ConvertedMembers)
	assert.Equal(t, 40, result.Statistics.ConversionRate)
	assert.Equal(t, 3, result.Statistics.ActiveMonitoring)

	// The assigned member carries all five.
	assert.Equal(t, 5, result.MemberPerformance[0].AssignedVisitors)
	assert.Equal(t, 2, result.MemberPerformance[0].Conversions)
	assert.Equal(t, 40, result.MemberPerformance[0].ConversionRate)
}

func TestComputeTeamAnalyticsSkipsBadRecords(t *testing.T) {
	now := aprilClock()
	memberID := primitive.NewObjectID()
	team := newTeam("alpha", memberID)

	good := registeredVisitor(team.ID, memberID, now.AddDate(0, 0, -5), visitormodels.VisitorStatusVisiting)
	bad := registeredVisitor(team.ID, memberID, now, visitormodels.VisitorStatusVisiting)
	bad.CreatedAt = 0 // no registration timestamp

	result := ComputeTeamAnalytics(team, []visitormodels.Visitor{good, bad}, 6, now, testThresholds())

	assert.Equal(t, 1, result.Statistics.TotalVisitors, "bad record excluded from counts")
	assert.Equal(t, 1, result.SkippedRecords, "and surfaced in the skip counter")
}

func TestComputeTeamAnalyticsMonthlyGrowth(t *testing.T) {
	now := aprilClock()
	memberID := primitive.NewObjectID()
	team := newTeam("alpha", memberID)

	// 2 in February, 4 in March, 1 in April.
	var visitors []visitormodels.Visitor
	addIn := func(month time.Month, count int) {
		for i := 0; i < count; i++ {
			created := time.Date(2026, month, 10, 0, 0, 0, 0, time.UTC)
			visitors = append(visitors, registeredVisitor(team.ID, memberID, created, visitormodels.VisitorStatusVisiting))
		}
	}
	addIn(time.February, 2)
	addIn(time.March, 4)
	addIn(time.April, 1)

	result := ComputeTeamAnalytics(team, visitors, 6, now, testThresholds())

	assert.Len(t, result.MonthlyGrowth, 6)
	assert.Equal(t, "2025-11", result.MonthlyGrowth[0].Month, "oldest first")
	assert.Equal(t, "2026-04", result.MonthlyGrowth[5].Month)

	assert.Equal(t, 2, result.MonthlyGrowth[3].TotalVisitors)
	assert.Equal(t, 4, result.MonthlyGrowth[4].TotalVisitors)
	assert.Equal(t, 1, result.MonthlyGrowth[5].TotalVisitors)

	// Cumulative totals run over the window.
	assert.Equal(t, 2, result.MonthlyGrowth[3].CumulativeTotal)
	assert.Equal(t, 6, result.MonthlyGrowth[4].CumulativeTotal)
	assert.Equal(t, 7, result.MonthlyGrowth[5].CumulativeTotal)

	// Trend compares the two most recent non-empty buckets: 4 -> 1.
	assert.InDelta(t, -75.0, result.GrowthTrend, 0.001)
	assert.Equal(t, analyticsdto.TrendDeclining, result.TrendDirection)
}

func TestComputeGrowthTrendDirections(t *testing.T) {
	buckets := func(counts ...int) []analyticsdto.MonthlyBucket {
		out := make([]analyticsdto.MonthlyBucket, len(counts))
		for i, c := range counts {
			out[i] = analyticsdto.MonthlyBucket{TotalVisitors: c}
		}
		return out
	}

	trend, direction := computeGrowthTrend(buckets(0, 0, 10), 5)
	assert.Equal(t, 0.0, trend, "fewer than two non-empty buckets is stable")
	assert.Equal(t, analyticsdto.TrendStable, direction)

	trend, direction = computeGrowthTrend(buckets(10, 12), 5)
	assert.InDelta(t, 20.0, trend, 0.001)
	assert.Equal(t, analyticsdto.TrendGrowing, direction)

	trend, direction = computeGrowthTrend(buckets(10, 9), 5)
	assert.InDelta(t, -10.0, trend, 0.001)
	assert.Equal(t, analyticsdto.TrendDeclining, direction)

	// Within the +/- threshold counts as stable.
	_, direction = computeGrowthTrend(buckets(100, 103), 5)
	assert.Equal(t, analyticsdto.TrendStable, direction)

	// Empty buckets in between are skipped, not treated as zero.
	trend, _ = computeGrowthTrend(buckets(10, 0, 0, 20), 5)
	assert.InDelta(t, 100.0, trend, 0.001)
}

func TestPerformanceScoreBounds(t *testing.T) {
	assert.InDelta(t, 15.0, performanceScore(0, 0), 0.001, "neutral trend contributes 15")
	assert.InDelta(t, 85.0, performanceScore(100, 0), 0.001)
	assert.InDelta(t, 100.0, performanceScore(100, 100), 0.001)

	// Extreme trends clamp instead of blowing up the score.
	assert.InDelta(t, 100.0, performanceScore(100, 10000), 0.001)
	assert.InDelta(t, 70.0, performanceScore(100, -10000), 0.001)
	assert.InDelta(t, 0.0, performanceScore(0, -10000), 0.001)

	// Determinism.
	assert.Equal(t, performanceScore(42, -7.5), performanceScore(42, -7.5))
}
