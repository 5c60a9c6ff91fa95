// Package visitorsvc - metric derivation.
// Pure functions over one visitor snapshot; no I/O, no stored counters. The
// clock is passed in so results are deterministic and testable.
package visitorsvc

import (
	"time"

	visitormodels "church_connect/internal/api/visitor/models"
	"church_connect/internal/utility"
)

// DaysRemainingNotApplicable is returned for visitors without a monitoring
// window (status == visiting).
const DaysRemainingNotApplicable = -1

// VisitorMetrics is the derived-metric view of one visitor.
type VisitorMetrics struct {
	AttendanceRate      int `json:"attendanceRate"`
	MonitoringProgress  int `json:"monitoringProgress"`
	IntegrationProgress int `json:"integrationProgress"`
	DaysRemaining       int `json:"daysRemaining"`
}

// AttendanceRate returns the percentage of visits marked present, rounded to
// the nearest whole percent. No visits yields 0, not an error.
func AttendanceRate(v *visitormodels.Visitor) int {
	if len(v.VisitHistory) == 0 {
		return 0
	}
	present := 0
	for _, visit := range v.VisitHistory {
		if visit.AttendanceStatus == visitormodels.AttendancePresent {
			present++
		}
	}
	return utility.RoundPercent(present, len(v.VisitHistory))
}

// MonitoringProgress returns the percentage of the 12 weekly milestones
// completed, regardless of week order.
func MonitoringProgress(v *visitormodels.Visitor) int {
	completed := 0
	for _, m := range v.Milestones {
		if m.Completed {
			completed++
		}
	}
	return utility.RoundPercent(completed, visitormodels.MilestoneCount)
}

// IntegrationProgress returns the percentage of the 6 checklist tasks done.
func IntegrationProgress(v *visitormodels.Visitor) int {
	return utility.RoundPercent(v.IntegrationChecklist.CompletedCount(), visitormodels.ChecklistTaskCount)
}

// DaysRemaining returns the whole days left in the monitoring window, rounded
// up, floored at 0. Visitors without a window get the not-applicable sentinel.
func DaysRemaining(v *visitormodels.Visitor, now time.Time) int {
	if v.Status != visitormodels.VisitorStatusJoining || v.MonitoringEndDate == 0 {
		return DaysRemainingNotApplicable
	}
	remainingMillis := v.MonitoringEndDate - now.UnixMilli()
	if remainingMillis <= 0 {
		return 0
	}
	const dayMillis = int64(24 * time.Hour / time.Millisecond)
	days := remainingMillis / dayMillis
	if remainingMillis%dayMillis != 0 {
		days++
	}
	return int(days)
}

// LastVisitAt returns the timestamp of the most recent visit, if any. Entries
// are appended in order but the max is taken anyway in case of backfill.
func LastVisitAt(v *visitormodels.Visitor) (int64, bool) {
	if len(v.VisitHistory) == 0 {
		return 0, false
	}
	last := v.VisitHistory[0].Date
	for _, visit := range v.VisitHistory[1:] {
		if visit.Date > last {
			last = visit.Date
		}
	}
	return last, true
}

// ComputeVisitorMetrics derives all metrics for one visitor snapshot.
func ComputeVisitorMetrics(v *visitormodels.Visitor, now time.Time) VisitorMetrics {
	return VisitorMetrics{
		AttendanceRate:      AttendanceRate(v),
		MonitoringProgress:  MonitoringProgress(v),
		IntegrationProgress: IntegrationProgress(v),
		DaysRemaining:       DaysRemaining(v, now),
	}
}
