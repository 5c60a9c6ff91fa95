// Package analyticssvc - support-action generator.
// Pure rule evaluation over team analytics. Produces a report; never mutates
// data. All thresholds come from the configured threshold set.
package analyticssvc

import (
	"sort"
	"time"

	analyticsdto "church_connect/internal/api/analytics/dto"
)

// Fixed recommendation checklists. The rules pick which list to attach; the
// content is stable so the report is idempotent.
var (
	decliningTeamActions = []string{
		"Schedule a review meeting with the team leader",
		"Pair the team with a high-performing team for shadowing",
		"Audit recent visitor follow-up logs for gaps",
		"Re-balance visitor assignments across members",
	}

	lowConversionTopics = []string{
		"Visitor follow-up fundamentals",
		"Running effective home visits",
		"Milestone conversations week by week",
		"Moving visitors from attendance to commitment",
	}

	highConversionFactors = []string{
		"Consistent weekly milestone completion",
		"Early integration checklist coverage",
		"Regular visit follow-ups within the risk window",
	}

	recognitionRewards = []string{
		"Public recognition at the monthly leaders meeting",
		"Featured write-up in the church bulletin",
		"Team appreciation dinner hosted by the bishop",
	}
)

// GenerateSupportActions classifies each team against the threshold rules
// and assembles the categorized action report.
func GenerateSupportActions(teams []*analyticsdto.TeamAnalytics, now time.Time, th Thresholds) *analyticsdto.SupportActionsReport {
	report := &analyticsdto.SupportActionsReport{
		SupportActions:   []analyticsdto.SupportAction{},
		TrainingNeeds:    []analyticsdto.TrainingNeed{},
		MonitoringAlerts: []analyticsdto.MonitoringAlert{},
		BestPractices:    []analyticsdto.BestPractice{},
		Recognition:      []analyticsdto.Recognition{},
		GeneratedAt:      now.UnixMilli(),
	}

	// Stable input order keeps the report deterministic.
	ordered := make([]*analyticsdto.TeamAnalytics, len(teams))
	copy(ordered, teams)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].TeamID < ordered[j].TeamID })

	for _, t := range ordered {
		// Declining team -> support action.
		if t.TrendDirection == analyticsdto.TrendDeclining {
			priority := analyticsdto.PriorityMedium
			if t.GrowthTrend < -th.SevereDeclinePct {
				priority = analyticsdto.PriorityHigh
			}
			report.SupportActions = append(report.SupportActions, analyticsdto.SupportAction{
				TeamID:             t.TeamID,
				TeamName:           t.TeamName,
				GrowthTrend:        t.GrowthTrend,
				Priority:           priority,
				RecommendedActions: decliningTeamActions,
			})
		}

		// Low conversion -> training need, priority scaled by the shortfall.
		rate := float64(t.Statistics.ConversionRate)
		if rate < th.LowConversionPct {
			priority := analyticsdto.PriorityMedium
			if rate < th.LowConversionPct/2 {
				priority = analyticsdto.PriorityHigh
			}
			report.TrainingNeeds = append(report.TrainingNeeds, analyticsdto.TrainingNeed{
				TeamID:         t.TeamID,
				TeamName:       t.TeamName,
				ConversionRate: t.Statistics.ConversionRate,
				Priority:       priority,
				Topics:         lowConversionTopics,
			})
		}

		// Visitors at risk -> monitoring alert.
		if t.VisitorsAtRisk > 0 {
			report.MonitoringAlerts = append(report.MonitoringAlerts, analyticsdto.MonitoringAlert{
				TeamID:         t.TeamID,
				TeamName:       t.TeamName,
				VisitorsAtRisk: t.VisitorsAtRisk,
				Priority:       analyticsdto.PriorityHigh,
			})
		}

		// High conversion -> shareable best practice.
		if rate >= th.HighConversionPct {
			report.BestPractices = append(report.BestPractices, analyticsdto.BestPractice{
				TeamID:         t.TeamID,
				TeamName:       t.TeamName,
				ConversionRate: t.Statistics.ConversionRate,
				SuccessFactors: highConversionFactors,
			})
		}
	}

	// Recognition: top-N of the deterministic ranking.
	rankings := rankTeams(teams)
	topN := th.RecognitionTopN
	if topN > len(rankings) {
		topN = len(rankings)
	}
	for i := 0; i < topN; i++ {
		reward := recognitionRewards[len(recognitionRewards)-1]
		if i < len(recognitionRewards) {
			reward = recognitionRewards[i]
		}
		report.Recognition = append(report.Recognition, analyticsdto.Recognition{
			Rank:             rankings[i].Rank,
			TeamID:           rankings[i].TeamID,
			TeamName:         rankings[i].TeamName,
			PerformanceScore: rankings[i].PerformanceScore,
			SuggestedReward:  reward,
		})
	}

	return report
}
