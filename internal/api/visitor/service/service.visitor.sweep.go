// Package visitorsvc - lifecycle sweep.
// The sweep is the only place that mutates monitoringStatus automatically.
// Evaluation is a pure function; the sweep wraps it with batch iteration,
// per-visitor failure isolation and optimistic writes.
package visitorsvc

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	visitormodels "church_connect/internal/api/visitor/models"
	"church_connect/internal/common"
	"church_connect/internal/global"
	"church_connect/internal/logger"
)

// sweepRunning gates concurrent passes; only one sweep may run at a time.
var sweepRunning atomic.Bool

// Rule numbers of the lifecycle state machine, in priority order.
const (
	ruleConverted     = 1
	ruleCompleted     = 2
	ruleWindowExpired = 3
	ruleVisitorAtRisk = 4
	ruleRemainActive  = 5
)

// SweepFailure records one visitor whose evaluation failed. The visitor is
// retried on the next pass.
type SweepFailure struct {
	VisitorID string `json:"visitorId"`
	Reason    string `json:"reason"`
}

// SweepResult summarizes one lifecycle sweep pass.
type SweepResult struct {
	Evaluated   int            `json:"evaluated"`
	Transitions map[string]int `json:"transitions"` // target status -> count
	Failures    []SweepFailure `json:"failures"`
	StartedAt   int64          `json:"startedAt"`
	FinishedAt  int64          `json:"finishedAt"`
}

// EvaluateMonitoringStatus applies the transition rules to one visitor
// snapshot and returns the target status plus the rule that fired. Priority
// order, first match wins:
//
//  1. conversion recorded externally -> converted-to-member
//  2. window expired, all milestones done -> completed
//  3. window expired otherwise -> inactive
//  4. window ending within the lookback and no visit in that span -> needs-attention
//  5. otherwise -> active
func EvaluateMonitoringStatus(v *visitormodels.Visitor, now time.Time, riskLookbackDays int) (string, int) {
	if v.ConvertedAt > 0 {
		return visitormodels.MonitoringConvertedToMember, ruleConverted
	}

	days := DaysRemaining(v, now)
	if days == 0 {
		if MonitoringProgress(v) >= 100 {
			return visitormodels.MonitoringCompleted, ruleCompleted
		}
		return visitormodels.MonitoringInactive, ruleWindowExpired
	}

	if days > 0 && days <= riskLookbackDays {
		lookbackStart := now.AddDate(0, 0, -riskLookbackDays).UnixMilli()
		lastVisit, hasVisit := LastVisitAt(v)
		if !hasVisit || lastVisit < lookbackStart {
			return visitormodels.MonitoringNeedsAttention, ruleVisitorAtRisk
		}
	}

	return visitormodels.MonitoringActive, ruleRemainActive
}

// shouldApplyTransition decides whether the evaluated status is written back.
// Manual overrides are respected: the sweep never reverts an override to
// active on its own, and terminal states only move on the conversion signal
// or when an overridden state is superseded by rules 1-4.
func shouldApplyTransition(v *visitormodels.Visitor, newStatus string, rule int) bool {
	if newStatus == v.MonitoringStatus {
		return false
	}

	switch v.MonitoringStatus {
	case visitormodels.MonitoringActive, visitormodels.MonitoringNeedsAttention, "":
		if v.StatusOverridden && rule == ruleRemainActive {
			return false
		}
		return true
	default:
		// completed, converted-to-member, inactive
		if rule == ruleConverted {
			return true
		}
		return v.StatusOverridden && rule < ruleRemainActive
	}
}

// RunLifecycleSweep evaluates every joining visitor once and writes the
// transitions back. A failure on one visitor is logged, reported in the
// result, and does not abort the rest of the batch. Returns
// ErrSweepAlreadyRunning when a pass is in progress.
func (s *VisitorService) RunLifecycleSweep(ctx context.Context, now time.Time) (*SweepResult, error) {
	if !sweepRunning.CompareAndSwap(false, true) {
		return nil, common.ErrSweepAlreadyRunning
	}
	defer sweepRunning.Store(false)

	log := logger.GetAppLogger()
	cfg := global.ServerConfig

	result := &SweepResult{
		Transitions: map[string]int{},
		Failures:    []SweepFailure{},
		StartedAt:   now.UnixMilli(),
	}

	filter := bson.M{
		"status":   visitormodels.VisitorStatusJoining,
		"isActive": true,
	}
	findOpts := options.Find().SetBatchSize(int32(cfg.SweepBatchSize))

	cursor, err := s.Collection().Find(ctx, filter, findOpts)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var visitor visitormodels.Visitor
		if err := cursor.Decode(&visitor); err != nil {
			// Corrupt document: skip, keep sweeping.
			result.Failures = append(result.Failures, SweepFailure{
				VisitorID: "",
				Reason:    fmt.Sprintf("decode: %v", err),
			})
			continue
		}

		result.Evaluated++
		s.sweepOne(ctx, &visitor, now, result)
	}
	if err := cursor.Err(); err != nil {
		return nil, common.ConvertMongoError(err)
	}

	result.FinishedAt = time.Now().UnixMilli()

	log.WithFields(logrus.Fields{
		"evaluated":   result.Evaluated,
		"transitions": result.Transitions,
		"failures":    len(result.Failures),
	}).Info("🧹 [SWEEP] Lifecycle sweep finished")

	return result, nil
}

// sweepOne evaluates and, if needed, transitions a single visitor. Panics are
// contained here so one bad record cannot take down the pass.
func (s *VisitorService) sweepOne(ctx context.Context, v *visitormodels.Visitor, now time.Time, result *SweepResult) {
	defer func() {
		if r := recover(); r != nil {
			reason := fmt.Sprintf("panic: %v", r)
			result.Failures = append(result.Failures, SweepFailure{VisitorID: v.ID.Hex(), Reason: reason})
			logger.GetErrorLogger().WithFields(logrus.Fields{
				"code":       common.ErrCodeComputationSkipped.Code,
				"visitor_id": v.ID.Hex(),
				"reason":     reason,
			}).Error("🧹 [SWEEP] Visitor evaluation panicked")
		}
	}()

	newStatus, rule := EvaluateMonitoringStatus(v, now, global.ServerConfig.RiskLookbackDays)
	if !shouldApplyTransition(v, newStatus, rule) {
		return
	}

	set := bson.M{
		"monitoringStatus": newStatus,
		"updatedAt":        time.Now().UnixMilli(),
	}
	// A rule-driven transition supersedes any earlier manual override.
	if v.StatusOverridden {
		set["statusOverridden"] = false
	}

	// The updatedAt guard makes the write optimistic: if someone touched the
	// visitor since the snapshot was read, the write is skipped and the
	// visitor is re-evaluated on the next pass.
	updateResult, err := s.Collection().UpdateOne(ctx,
		bson.M{"_id": v.ID, "updatedAt": v.UpdatedAt},
		bson.M{"$set": set},
	)
	if err != nil {
		result.Failures = append(result.Failures, SweepFailure{
			VisitorID: v.ID.Hex(),
			Reason:    fmt.Sprintf("write: %v", err),
		})
		logger.GetErrorLogger().WithFields(logrus.Fields{
			"code":       common.ErrCodeComputationSkipped.Code,
			"visitor_id": v.ID.Hex(),
			"new_status": newStatus,
		}).WithError(err).Error("🧹 [SWEEP] Status write failed")
		return
	}
	if updateResult.MatchedCount == 0 {
		result.Failures = append(result.Failures, SweepFailure{
			VisitorID: v.ID.Hex(),
			Reason:    "concurrent modification, will retry next pass",
		})
		return
	}

	result.Transitions[newStatus]++

	logger.GetAuditLogger().WithFields(logrus.Fields{
		"visitor_id": v.ID.Hex(),
		"from":       v.MonitoringStatus,
		"to":         newStatus,
		"rule":       rule,
	}).Info("🧹 [SWEEP] Monitoring status transition")
}
