// Package analyticssvc - church aggregator.
// Consumes all team analytics and rolls them up into church-wide stats,
// deterministic rankings, a summed growth series and insight extraction.
package analyticssvc

import (
	"sort"
	"time"

	analyticsdto "church_connect/internal/api/analytics/dto"
)

// rankTeams sorts teams descending by performanceScore with deterministic
// tie-breaks: higher conversionRate, then higher totalVisitors, then teamId.
// Ranks are 1-based and contiguous; ties get sequential ranks, not shared.
func rankTeams(teams []*analyticsdto.TeamAnalytics) []analyticsdto.TeamRanking {
	rankings := make([]analyticsdto.TeamRanking, 0, len(teams))
	for _, t := range teams {
		rankings = append(rankings, analyticsdto.TeamRanking{
			TeamID:           t.TeamID,
			TeamName:         t.TeamName,
			PerformanceScore: t.PerformanceScore,
			ConversionRate:   t.Statistics.ConversionRate,
			TotalVisitors:    t.Statistics.TotalVisitors,
			GrowthTrend:      t.GrowthTrend,
			TrendDirection:   t.TrendDirection,
		})
	}

	sort.SliceStable(rankings, func(i, j int) bool {
		a, b := rankings[i], rankings[j]
		if a.PerformanceScore != b.PerformanceScore {
			return a.PerformanceScore > b.PerformanceScore
		}
		if a.ConversionRate != b.ConversionRate {
			return a.ConversionRate > b.ConversionRate
		}
		if a.TotalVisitors != b.TotalVisitors {
			return a.TotalVisitors > b.TotalVisitors
		}
		return a.TeamID < b.TeamID
	})

	for i := range rankings {
		rankings[i].Rank = i + 1
	}
	return rankings
}

// sumGrowthSeries merges the per-team monthly buckets into one church-wide
// series, oldest first, with the cumulative total recomputed over the sums.
func sumGrowthSeries(teams []*analyticsdto.TeamAnalytics) []analyticsdto.MonthlyBucket {
	index := map[string]*analyticsdto.MonthlyBucket{}
	var order []string

	for _, t := range teams {
		for _, b := range t.MonthlyGrowth {
			merged, ok := index[b.Month]
			if !ok {
				merged = &analyticsdto.MonthlyBucket{Month: b.Month}
				index[b.Month] = merged
				order = append(order, b.Month)
			}
			merged.TotalVisitors += b.TotalVisitors
			merged.Joining += b.Joining
			merged.Visiting += b.Visiting
			merged.Conversions += b.Conversions
		}
	}

	// Month keys are YYYY-MM so lexical order is chronological.
	sort.Strings(order)

	result := make([]analyticsdto.MonthlyBucket, 0, len(order))
	running := 0
	for _, month := range order {
		bucket := *index[month]
		running += bucket.TotalVisitors
		bucket.CumulativeTotal = running
		result = append(result, bucket)
	}
	return result
}

// ComputeChurchAnalytics rolls all team analytics up into the church view.
// Zero teams yields all-zero stats, not an error.
func ComputeChurchAnalytics(teams []*analyticsdto.TeamAnalytics, now time.Time, th Thresholds) *analyticsdto.ChurchAnalytics {
	result := &analyticsdto.ChurchAnalytics{
		TeamRankings: rankTeams(teams),
		ChurchGrowth: sumGrowthSeries(teams),
		GeneratedAt:  now.UnixMilli(),
	}

	stats := analyticsdto.ChurchStats{TotalTeams: len(teams)}
	insights := analyticsdto.ChurchInsights{}

	rateSum := 0.0
	for _, t := range teams {
		stats.TotalVisitors += t.Statistics.TotalVisitors
		stats.TotalJoining += t.Statistics.JoiningVisitors
		stats.TotalConversions += t.Statistics.ConvertedMembers
		rateSum += float64(t.Statistics.ConversionRate)
		result.SkippedRecords += t.SkippedRecords

		insights.TotalActiveVisitors += t.Statistics.ActiveMonitoring
		if t.Statistics.ConversionRate < int(th.AttentionConversionPct) || t.TrendDirection == analyticsdto.TrendDeclining {
			insights.TeamsNeedingAttention++
		}
	}

	// Pick highlights over the ranked order so ties resolve the same way on
	// every call. Fastest grower only counts positive growth.
	bestTrend := 0.0
	bestConversion := -1
	for _, r := range result.TeamRankings {
		if r.GrowthTrend > bestTrend {
			bestTrend = r.GrowthTrend
			insights.FastestGrowingTeam = r.TeamName
		}
		if r.ConversionRate > bestConversion {
			bestConversion = r.ConversionRate
			insights.HighestConversionTeam = r.TeamName
		}
	}
	if len(teams) > 0 {
		stats.AverageConversionRate = rateSum / float64(len(teams))
		stats.TopPerformingTeam = result.TeamRankings[0].TeamName
	}

	result.ChurchStats = stats
	result.Insights = insights
	return result
}
