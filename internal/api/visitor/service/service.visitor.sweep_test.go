package visitorsvc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	visitormodels "church_connect/internal/api/visitor/models"
)

const testRiskLookbackDays = 30

func TestEvaluateMonitoringStatusConversionWinsFirst(t *testing.T) {
	now := mondayClock()
	v := joiningVisitor(now.AddDate(0, 0, -90), 84) // window already expired
	v.ConvertedAt = now.AddDate(0, 0, -1).UnixMilli()

	status, rule := EvaluateMonitoringStatus(v, now, testRiskLookbackDays)
	assert.Equal(t, visitormodels.MonitoringConvertedToMember, status)
	assert.Equal(t, ruleConverted, rule)
}

func TestEvaluateMonitoringStatusExpiredWindow(t *testing.T) {
	now := mondayClock()

	v := joiningVisitor(now.AddDate(0, 0, -84), 84)
	status, rule := EvaluateMonitoringStatus(v, now, testRiskLookbackDays)
	assert.Equal(t, visitormodels.MonitoringInactive, status, "expired with incomplete milestones")
	assert.Equal(t, ruleWindowExpired, rule)

	for i := range v.Milestones {
		v.Milestones[i].Completed = true
	}
	status, rule = EvaluateMonitoringStatus(v, now, testRiskLookbackDays)
	assert.Equal(t, visitormodels.MonitoringCompleted, status, "expired with all milestones done")
	assert.Equal(t, ruleCompleted, rule)
}

func TestEvaluateMonitoringStatusAtRisk(t *testing.T) {
	now := mondayClock()

	// 10 days left in the window, no visits at all.
	v := joiningVisitor(now.AddDate(0, 0, -74), 84)
	status, rule := EvaluateMonitoringStatus(v, now, testRiskLookbackDays)
	assert.Equal(t, visitormodels.MonitoringNeedsAttention, status)
	assert.Equal(t, ruleVisitorAtRisk, rule)

	// Last visit outside the lookback still counts as at risk.
	v.VisitHistory = []visitormodels.VisitEntry{
		{Date: now.AddDate(0, 0, -40).UnixMilli(), AttendanceStatus: visitormodels.AttendancePresent},
	}
	status, _ = EvaluateMonitoringStatus(v, now, testRiskLookbackDays)
	assert.Equal(t, visitormodels.MonitoringNeedsAttention, status)

	// A recent visit clears the risk.
	v.VisitHistory = append(v.VisitHistory, visitormodels.VisitEntry{
		Date: now.AddDate(0, 0, -5).UnixMilli(), AttendanceStatus: visitormodels.AttendancePresent,
	})
	status, rule = EvaluateMonitoringStatus(v, now, testRiskLookbackDays)
	assert.Equal(t, visitormodels.MonitoringActive, status)
	assert.Equal(t, ruleRemainActive, rule)
}

func TestEvaluateMonitoringStatusMidWindowStaysActive(t *testing.T) {
	now := mondayClock()

	// 44 days left, outside the risk span, no visits needed yet.
	v := joiningVisitor(now.AddDate(0, 0, -40), 84)
	status, rule := EvaluateMonitoringStatus(v, now, testRiskLookbackDays)
	assert.Equal(t, visitormodels.MonitoringActive, status)
	assert.Equal(t, ruleRemainActive, rule)
}

func TestEvaluateMonitoringStatusIsIdempotent(t *testing.T) {
	now := mondayClock()
	v := joiningVisitor(now.AddDate(0, 0, -74), 84)

	first, _ := EvaluateMonitoringStatus(v, now, testRiskLookbackDays)
	v.MonitoringStatus = first
	second, _ := EvaluateMonitoringStatus(v, now, testRiskLookbackDays)
	assert.Equal(t, first, second, "re-running against the same clock changes nothing")
}

func TestShouldApplyTransitionNoChange(t *testing.T) {
	v := &visitormodels.Visitor{MonitoringStatus: visitormodels.MonitoringActive}
	assert.False(t, shouldApplyTransition(v, visitormodels.MonitoringActive, ruleRemainActive))
}

func TestShouldApplyTransitionOverrideNotRevertedToActive(t *testing.T) {
	v := &visitormodels.Visitor{
		MonitoringStatus: visitormodels.MonitoringNeedsAttention,
		StatusOverridden: true,
	}
	assert.False(t, shouldApplyTransition(v, visitormodels.MonitoringActive, ruleRemainActive),
		"a manual flag is not silently cleared by the default rule")

	// Higher-priority rules supersede the override.
	assert.True(t, shouldApplyTransition(v, visitormodels.MonitoringInactive, ruleWindowExpired))
	assert.True(t, shouldApplyTransition(v, visitormodels.MonitoringConvertedToMember, ruleConverted))
}

func TestShouldApplyTransitionTerminalStates(t *testing.T) {
	v := &visitormodels.Visitor{MonitoringStatus: visitormodels.MonitoringCompleted}

	assert.False(t, shouldApplyTransition(v, visitormodels.MonitoringActive, ruleRemainActive))
	assert.False(t, shouldApplyTransition(v, visitormodels.MonitoringInactive, ruleWindowExpired))
	assert.True(t, shouldApplyTransition(v, visitormodels.MonitoringConvertedToMember, ruleConverted),
		"the conversion signal moves any state")

	// An overridden terminal state can be superseded by any rule but 5.
	v.StatusOverridden = true
	assert.True(t, shouldApplyTransition(v, visitormodels.MonitoringInactive, ruleWindowExpired))
	assert.False(t, shouldApplyTransition(v, visitormodels.MonitoringActive, ruleRemainActive))
}

func TestShouldApplyTransitionFromEmptyStatus(t *testing.T) {
	v := &visitormodels.Visitor{}
	assert.True(t, shouldApplyTransition(v, visitormodels.MonitoringActive, ruleRemainActive),
		"a freshly promoted visitor with no status gets one")
}

func TestNewMilestoneSlotsCoverTwelveWeeks(t *testing.T) {
	slots := visitormodels.NewMilestoneSlots()
	assert.Len(t, slots, visitormodels.MilestoneCount)

	seen := map[int]bool{}
	for _, s := range slots {
		assert.False(t, s.Completed)
		assert.False(t, seen[s.Week], "week %d seeded twice", s.Week)
		seen[s.Week] = true
		assert.GreaterOrEqual(t, s.Week, 1)
		assert.LessOrEqual(t, s.Week, 12)
	}
}

func TestSweepRuleOrderingConstants(t *testing.T) {
	// The state machine depends on rule 1 outranking everything and rule 5
	// being the only one an override survives.
	assert.True(t, ruleConverted < ruleCompleted)
	assert.True(t, ruleCompleted < ruleWindowExpired)
	assert.True(t, ruleWindowExpired < ruleVisitorAtRisk)
	assert.True(t, ruleVisitorAtRisk < ruleRemainActive)
}

func TestEvaluateThenApplyScenario(t *testing.T) {
	now := mondayClock()

	// Visitor manually parked at needs-attention, window then expires with all
	// milestones done: rule 2 supersedes the override.
	v := joiningVisitor(now.AddDate(0, 0, -84), 84)
	v.MonitoringStatus = visitormodels.MonitoringNeedsAttention
	v.StatusOverridden = true
	for i := range v.Milestones {
		v.Milestones[i].Completed = true
	}

	status, rule := EvaluateMonitoringStatus(v, now, testRiskLookbackDays)
	assert.Equal(t, visitormodels.MonitoringCompleted, status)
	assert.True(t, shouldApplyTransition(v, status, rule))

	// After the write the override flag is cleared; a second pass is a no-op.
	v.MonitoringStatus = status
	v.StatusOverridden = false
	status2, rule2 := EvaluateMonitoringStatus(v, now.Add(time.Hour), testRiskLookbackDays)
	assert.Equal(t, visitormodels.MonitoringCompleted, status2)
	assert.False(t, shouldApplyTransition(v, status2, rule2))
}
