// Package analyticssvc - team aggregator.
// ComputeTeamAnalytics is pure: it takes a point-in-time snapshot of one
// team's visitors plus an explicit clock and threshold set, so the same
// inputs always produce the same output.
package analyticssvc

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"church_connect/config"
	analyticsdto "church_connect/internal/api/analytics/dto"
	teammodels "church_connect/internal/api/team/models"
	visitormodels "church_connect/internal/api/visitor/models"
	"church_connect/internal/utility"
)

// Thresholds carries the recognized analytics configuration constants.
// Business logic reads them from here, never from literals.
type Thresholds struct {
	TrendThresholdPct      float64
	SevereDeclinePct       float64
	LowConversionPct       float64
	HighConversionPct      float64
	AttentionConversionPct float64
	RecognitionTopN        int
	GrowthMonthsWindow     int
}

// ThresholdsFromConfig builds the threshold set from the loaded config.
func ThresholdsFromConfig(cfg *config.Configuration) Thresholds {
	return Thresholds{
		TrendThresholdPct:      cfg.TrendThresholdPct,
		SevereDeclinePct:       cfg.SevereDeclinePct,
		LowConversionPct:       cfg.LowConversionPct,
		HighConversionPct:      cfg.HighConversionPct,
		AttentionConversionPct: cfg.AttentionConversionPct,
		RecognitionTopN:        cfg.RecognitionTopN,
		GrowthMonthsWindow:     cfg.GrowthMonthsWindow,
	}
}

// isConverted reports whether a visitor counts as a converted member.
func isConverted(v *visitormodels.Visitor) bool {
	return v.ConvertedAt > 0 || v.MonitoringStatus == visitormodels.MonitoringConvertedToMember
}

// monthKey formats a millis timestamp as YYYY-MM in UTC.
func monthKey(millis int64) string {
	t := time.UnixMilli(millis).UTC()
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

// buildMonthWindow returns the last monthsWindow month keys ending at now,
// oldest first.
func buildMonthWindow(now time.Time, monthsWindow int) []string {
	if monthsWindow < 1 {
		monthsWindow = 1
	}
	keys := make([]string, monthsWindow)
	// Normalize to the first of the month to avoid end-of-month rollover.
	cursor := time.Date(now.UTC().Year(), now.UTC().Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := monthsWindow - 1; i >= 0; i-- {
		keys[i] = fmt.Sprintf("%04d-%02d", cursor.Year(), int(cursor.Month()))
		cursor = cursor.AddDate(0, -1, 0)
	}
	return keys
}

// computeGrowthTrend returns the percent change of totalVisitors between the
// two most recent non-empty buckets and the matching direction. Fewer than
// two non-empty buckets yields (0, stable).
func computeGrowthTrend(buckets []analyticsdto.MonthlyBucket, trendThresholdPct float64) (float64, string) {
	var nonEmpty []int
	for i, b := range buckets {
		if b.TotalVisitors > 0 {
			nonEmpty = append(nonEmpty, i)
		}
	}
	if len(nonEmpty) < 2 {
		return 0, analyticsdto.TrendStable
	}

	previous := buckets[nonEmpty[len(nonEmpty)-2]].TotalVisitors
	latest := buckets[nonEmpty[len(nonEmpty)-1]].TotalVisitors
	trend := 100 * float64(latest-previous) / float64(previous)

	switch {
	case trend > trendThresholdPct:
		return trend, analyticsdto.TrendGrowing
	case trend < -trendThresholdPct:
		return trend, analyticsdto.TrendDeclining
	default:
		return trend, analyticsdto.TrendStable
	}
}

// performanceScore is the deterministic composite used for ranking:
// 0.7 * conversionRate + 0.3 * normalized growth trend, where the trend is
// mapped onto [0,100] around a neutral 50 (trend/2 keeps +/-100% within
// range), and the result is clamped to [0,100].
func performanceScore(conversionRate int, growthTrend float64) float64 {
	normalizedTrend := utility.Clamp(50+growthTrend/2, 0, 100)
	return utility.Clamp(0.7*float64(conversionRate)+0.3*normalizedTrend, 0, 100)
}

// ComputeTeamAnalytics aggregates one team's visitors into the team analytics
// view. Visitors with unusable data (no registration timestamp) are excluded
// from counts and reported in SkippedRecords rather than failing the
// aggregate. A team with zero visitors yields all-zero statistics.
func ComputeTeamAnalytics(team *teammodels.ProtocolTeam, visitors []visitormodels.Visitor, monthsWindow int, now time.Time, th Thresholds) *analyticsdto.TeamAnalytics {
	if monthsWindow <= 0 {
		monthsWindow = th.GrowthMonthsWindow
	}

	result := &analyticsdto.TeamAnalytics{
		TeamID:      team.ID.Hex(),
		TeamName:    team.Name,
		GeneratedAt: now.UnixMilli(),
	}

	monthKeys := buildMonthWindow(now, monthsWindow)
	bucketIndex := make(map[string]int, len(monthKeys))
	buckets := make([]analyticsdto.MonthlyBucket, len(monthKeys))
	for i, key := range monthKeys {
		buckets[i] = analyticsdto.MonthlyBucket{Month: key}
		bucketIndex[key] = i
	}

	stats := analyticsdto.TeamStatistics{}
	memberStats := make(map[primitive.ObjectID]*analyticsdto.MemberPerformance, len(team.Members))
	for i := range team.Members {
		m := &team.Members[i]
		memberStats[m.UserID] = &analyticsdto.MemberPerformance{
			UserID:   m.UserID.Hex(),
			Name:     m.Name,
			IsLeader: m.IsLeader,
		}
	}

	for i := range visitors {
		v := &visitors[i]
		if v.CreatedAt <= 0 {
			result.SkippedRecords++
			continue
		}

		stats.TotalVisitors++
		converted := isConverted(v)

		switch v.Status {
		case visitormodels.VisitorStatusJoining:
			stats.JoiningVisitors++
		case visitormodels.VisitorStatusVisiting:
			stats.VisitingOnly++
		}
		switch v.MonitoringStatus {
		case visitormodels.MonitoringActive:
			stats.ActiveMonitoring++
		case visitormodels.MonitoringCompleted:
			stats.CompletedMonitoring++
		case visitormodels.MonitoringNeedsAttention:
			result.VisitorsAtRisk++
		}
		if converted {
			stats.ConvertedMembers++
		}

		if mp, ok := memberStats[v.AssignedMemberID]; ok {
			mp.AssignedVisitors++
			if converted {
				mp.Conversions++
			}
		}

		if idx, ok := bucketIndex[monthKey(v.CreatedAt)]; ok {
			buckets[idx].TotalVisitors++
			switch v.Status {
			case visitormodels.VisitorStatusJoining:
				buckets[idx].Joining++
			case visitormodels.VisitorStatusVisiting:
				buckets[idx].Visiting++
			}
			if converted {
				buckets[idx].Conversions++
			}
		}
	}

	stats.ConversionRate = utility.RoundPercent(stats.ConvertedMembers, stats.TotalVisitors)
	result.Statistics = stats

	running := 0
	for i := range buckets {
		running += buckets[i].TotalVisitors
		buckets[i].CumulativeTotal = running
	}
	result.MonthlyGrowth = buckets

	result.GrowthTrend, result.TrendDirection = computeGrowthTrend(buckets, th.TrendThresholdPct)
	result.PerformanceScore = performanceScore(stats.ConversionRate, result.GrowthTrend)

	// Member entries in team order, leader included.
	result.MemberPerformance = make([]analyticsdto.MemberPerformance, 0, len(team.Members))
	for i := range team.Members {
		mp := memberStats[team.Members[i].UserID]
		mp.ConversionRate = utility.RoundPercent(mp.Conversions, mp.AssignedVisitors)
		result.MemberPerformance = append(result.MemberPerformance, *mp)
	}

	return result
}
