package main

import (
	"context"
	"fmt"
	"time"

	"church_connect/internal/global"
	"church_connect/internal/logger"
	"church_connect/internal/worker"
)

// initLogger brings up the logging system before anything else runs.
func initLogger() {
	if err := logger.Init(nil); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	logger.GetAppLogger().Info("Logger system initialized successfully")
}

// mainThread runs the Fiber server on the main goroutine.
func mainThread() {
	app := InitFiberApp()

	log := logger.GetAppLogger()
	address := global.ServerConfig.Address

	log.WithFields(map[string]interface{}{
		"address": address,
	}).Info("Starting Fiber server...")

	if err := app.Listen(address); err != nil {
		log.Fatalf("Error in Fiber Listen: %v", err)
	}
}

func main() {
	initLogger()
	InitGlobal()

	log := logger.GetAppLogger()

	// Background lifecycle sweep.
	interval := time.Duration(global.ServerConfig.SweepIntervalHours) * time.Hour
	sweepWorker, err := worker.NewMonitoringSweepWorker(interval)
	if err != nil {
		log.WithError(err).Error("Failed to create sweep worker, continuing without background sweep")
	} else {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		go func() {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(map[string]interface{}{
						"panic": r,
					}).Error("🧹 [SWEEP] Worker goroutine panic")
				}
			}()
			sweepWorker.Start(ctx)
		}()
	}

	mainThread()
}
