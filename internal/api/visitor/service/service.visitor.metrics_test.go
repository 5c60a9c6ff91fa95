package visitorsvc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	visitormodels "church_connect/internal/api/visitor/models"
)

func mondayClock() time.Time {
	return time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
}

func joiningVisitor(now time.Time, windowDays int) *visitormodels.Visitor {
	return &visitormodels.Visitor{
		Status:              visitormodels.VisitorStatusJoining,
		MonitoringStatus:    visitormodels.MonitoringActive,
		MonitoringStartDate: now.UnixMilli(),
		MonitoringEndDate:   now.AddDate(0, 0, windowDays).UnixMilli(),
		Milestones:          visitormodels.NewMilestoneSlots(),
	}
}

func TestAttendanceRate(t *testing.T) {
	v := &visitormodels.Visitor{}
	assert.Equal(t, 0, AttendanceRate(v), "no visits yields 0, not an error")

	v.VisitHistory = []visitormodels.VisitEntry{
		{AttendanceStatus: visitormodels.AttendancePresent},
		{AttendanceStatus: visitormodels.AttendancePresent},
		{AttendanceStatus: visitormodels.AttendanceAbsent},
	}
	assert.Equal(t, 67, AttendanceRate(v), "2 of 3 present rounds to 67")

	v.VisitHistory = append(v.VisitHistory, visitormodels.VisitEntry{AttendanceStatus: visitormodels.AttendancePresent})
	assert.Equal(t, 75, AttendanceRate(v))
}

func TestMonitoringProgress(t *testing.T) {
	v := &visitormodels.Visitor{Milestones: visitormodels.NewMilestoneSlots()}
	assert.Equal(t, 0, MonitoringProgress(v))

	for i := 0; i < 6; i++ {
		v.Milestones[i].Completed = true
	}
	assert.Equal(t, 50, MonitoringProgress(v))

	// Completion order does not matter.
	v.Milestones = visitormodels.NewMilestoneSlots()
	v.Milestones[11].Completed = true
	v.Milestones[3].Completed = true
	v.Milestones[7].Completed = true
	assert.Equal(t, 25, MonitoringProgress(v))

	for i := range v.Milestones {
		v.Milestones[i].Completed = true
	}
	assert.Equal(t, 100, MonitoringProgress(v))
}

func TestIntegrationProgress(t *testing.T) {
	v := &visitormodels.Visitor{}
	assert.Equal(t, 0, IntegrationProgress(v))

	v.IntegrationChecklist.WelcomePackage = true
	v.IntegrationChecklist.HomeVisit = true
	v.IntegrationChecklist.MentorAssigned = true
	assert.Equal(t, 50, IntegrationProgress(v))

	v.IntegrationChecklist = visitormodels.IntegrationChecklist{
		WelcomePackage: true, HomeVisit: true, SmallGroupIntro: true,
		MinistryOpportunities: true, MentorAssigned: true, RegularCheckIns: true,
	}
	assert.Equal(t, 100, IntegrationProgress(v))
}

func TestDaysRemaining(t *testing.T) {
	now := mondayClock()

	visiting := &visitormodels.Visitor{Status: visitormodels.VisitorStatusVisiting}
	assert.Equal(t, DaysRemainingNotApplicable, DaysRemaining(visiting, now),
		"visiting visitors have no monitoring window")

	noWindow := &visitormodels.Visitor{Status: visitormodels.VisitorStatusJoining}
	assert.Equal(t, DaysRemainingNotApplicable, DaysRemaining(noWindow, now))

	v := joiningVisitor(now, 84)
	assert.Equal(t, 84, DaysRemaining(v, now))

	// Partial day rounds up.
	assert.Equal(t, 85, DaysRemaining(v, now.Add(-time.Hour)))
	assert.Equal(t, 1, DaysRemaining(v, now.AddDate(0, 0, 83).Add(time.Hour)))

	// Past the window floors at zero, never negative.
	assert.Equal(t, 0, DaysRemaining(v, now.AddDate(0, 0, 84)))
	assert.Equal(t, 0, DaysRemaining(v, now.AddDate(0, 0, 120)))
}

func TestMonitoringWindowSpansExactlyConfiguredDays(t *testing.T) {
	now := mondayClock()
	const windowDays = 84

	start, end := monitoringWindow(now, windowDays)

	assert.Equal(t, now.UnixMilli(), start, "window opens at the promotion instant")
	assert.Equal(t, int64(windowDays)*24*int64(time.Hour/time.Millisecond), end-start,
		"end minus start spans exactly 84 days")

	// A visitor promoted with this window has the full span left on day one.
	v := &visitormodels.Visitor{
		Status:              visitormodels.VisitorStatusJoining,
		MonitoringStartDate: start,
		MonitoringEndDate:   end,
	}
	assert.Equal(t, windowDays, DaysRemaining(v, now))
}

func TestLastVisitAt(t *testing.T) {
	v := &visitormodels.Visitor{}
	_, ok := LastVisitAt(v)
	assert.False(t, ok)

	v.VisitHistory = []visitormodels.VisitEntry{
		{Date: 300},
		{Date: 100}, // backfilled out of order
		{Date: 200},
	}
	last, ok := LastVisitAt(v)
	assert.True(t, ok)
	assert.Equal(t, int64(300), last)
}

func TestComputeVisitorMetrics(t *testing.T) {
	now := mondayClock()
	v := joiningVisitor(now.AddDate(0, 0, -14), 84)
	v.VisitHistory = []visitormodels.VisitEntry{
		{Date: now.AddDate(0, 0, -7).UnixMilli(), AttendanceStatus: visitormodels.AttendancePresent},
		{Date: now.AddDate(0, 0, -3).UnixMilli(), AttendanceStatus: visitormodels.AttendanceAbsent},
	}
	v.Milestones[0].Completed = true
	v.Milestones[1].Completed = true
	v.IntegrationChecklist.WelcomePackage = true

	m := ComputeVisitorMetrics(v, now)
	assert.Equal(t, 50, m.AttendanceRate)
	assert.Equal(t, 17, m.MonitoringProgress)
	assert.Equal(t, 17, m.IntegrationProgress)
	assert.Equal(t, 70, m.DaysRemaining)

	// Same inputs, same outputs.
	assert.Equal(t, m, ComputeVisitorMetrics(v, now))
}
