package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"church_connect/config"
	"church_connect/internal/database"
	"church_connect/internal/global"
)

// InitGlobal initializes all process-wide singletons in dependency order.
func InitGlobal() {
	initColNames()
	initValidator()
	initConfig()
	initDatabaseMongoDB()
}

// initColNames sets the collection names.
func initColNames() {
	global.MongoColNames.Visitors = "visitors"
	global.MongoColNames.ProtocolTeams = "protocol_teams"
	logrus.Info("Initialized collection names")
}

// initValidator registers the custom validators (milestone_week,
// experience_rating, ...).
func initValidator() {
	global.InitValidator()
	logrus.Info("Initialized validator")
}

// initConfig loads the server configuration from the env file.
func initConfig() {
	global.ServerConfig = config.NewConfig()
	if global.ServerConfig == nil {
		logrus.Fatalf("Failed to initialize config: config is nil")
	}
	logrus.Info("Initialized server config")
}

// initDatabaseMongoDB connects to MongoDB, registers the collections and
// creates the monitoring indexes.
func initDatabaseMongoDB() {
	var err error
	global.MongoSession, err = database.GetInstance(global.ServerConfig)
	if err != nil {
		logrus.Fatalf("Failed to get database instance: %v", err)
	}
	logrus.Info("Connected to MongoDB")

	db := global.MongoSession.Database(global.ServerConfig.MongoDB_DBName)
	for _, name := range []string{
		global.MongoColNames.Visitors,
		global.MongoColNames.ProtocolTeams,
	} {
		if _, err := global.RegistryCollections.Register(name, db.Collection(name)); err != nil {
			logrus.Fatalf("Failed to register collection %s: %v", name, err)
		}
	}
	logrus.Info("Registered collections")

	if err := database.CreateMonitoringIndexes(context.TODO(), db); err != nil {
		logrus.Fatalf("Failed to create indexes: %v", err)
	}
	logrus.Info("Created monitoring indexes")
}
