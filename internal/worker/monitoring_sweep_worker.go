// Package worker - MonitoringSweepWorker runs the visitor lifecycle sweep on
// a fixed interval so monitoring statuses stay current without any request
// traffic.
package worker

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	visitorsvc "church_connect/internal/api/visitor/service"
	"church_connect/internal/common"
	"church_connect/internal/logger"
)

// MonitoringSweepWorker periodically re-evaluates every joining visitor's
// monitoring status. The sweep itself is guarded against concurrent passes,
// so overlapping with a manual trigger just skips the tick.
type MonitoringSweepWorker struct {
	visitorService *visitorsvc.VisitorService
	interval       time.Duration
}

// NewMonitoringSweepWorker creates the worker. Intervals under an hour fall
// back to 24h.
func NewMonitoringSweepWorker(interval time.Duration) (*MonitoringSweepWorker, error) {
	visitorService, err := visitorsvc.NewVisitorService()
	if err != nil {
		return nil, err
	}
	if interval < time.Hour {
		interval = 24 * time.Hour
	}
	return &MonitoringSweepWorker{
		visitorService: visitorService,
		interval:       interval,
	}, nil
}

// Start runs the worker loop until the context is cancelled.
func (w *MonitoringSweepWorker) Start(ctx context.Context) {
	log := logger.GetAppLogger()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.WithFields(map[string]interface{}{
		"interval": w.interval.String(),
	}).Info("🧹 [SWEEP] Starting Monitoring Sweep Worker...")

	// First pass after a minute, not at startup. The delay honors shutdown.
	select {
	case <-ctx.Done():
		log.Info("🧹 [SWEEP] Monitoring Sweep Worker stopped")
		return
	case <-time.After(time.Minute):
	}
	w.runOnce(ctx, log)

	for {
		select {
		case <-ctx.Done():
			log.Info("🧹 [SWEEP] Monitoring Sweep Worker stopped")
			return
		case <-ticker.C:
			w.runOnce(ctx, log)
		}
	}
}

// runOnce executes a single sweep pass.
func (w *MonitoringSweepWorker) runOnce(ctx context.Context, log *logrus.Logger) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(map[string]interface{}{
				"panic": r,
			}).Error("🧹 [SWEEP] Panic during sweep pass, will retry next tick")
		}
	}()

	result, err := w.visitorService.RunLifecycleSweep(ctx, time.Now())
	if err != nil {
		if errors.Is(err, common.ErrSweepAlreadyRunning) {
			log.Info("🧹 [SWEEP] Sweep already in progress, skipping tick")
			return
		}
		log.WithError(err).Error("🧹 [SWEEP] Sweep pass failed")
		return
	}

	log.WithFields(map[string]interface{}{
		"evaluated":   result.Evaluated,
		"transitions": result.Transitions,
		"failures":    len(result.Failures),
	}).Info("🧹 [SWEEP] Sweep pass finished")
}
