// Package database - index definitions for the visitor monitoring collections.
package database

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"church_connect/internal/global"
)

// CreateMonitoringIndexes creates the indexes the visitor monitoring and
// analytics queries rely on. Safe to call on every startup; "already exists"
// errors are ignored.
func CreateMonitoringIndexes(ctx context.Context, db *mongo.Database) error {
	visitors := db.Collection(global.MongoColNames.Visitors)

	// visitors: unique email
	if _, err := visitors.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("visitor_email_unique").SetUnique(true),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// visitors: (teamId, monitoringStatus) for team aggregation and sweep scans
	if _, err := visitors.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "teamId", Value: 1},
			{Key: "monitoringStatus", Value: 1},
		},
		Options: options.Index().SetName("visitor_team_status"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// visitors: (status, monitoringEndDate), sweep fetches joining visitors by window
	if _, err := visitors.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "monitoringEndDate", Value: 1},
		},
		Options: options.Index().SetName("visitor_status_window"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// visitors: createdAt for monthly growth bucketing
	if _, err := visitors.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "createdAt", Value: 1}},
		Options: options.Index().SetName("visitor_created_at"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	teams := db.Collection(global.MongoColNames.ProtocolTeams)

	// protocol_teams: name unique
	if _, err := teams.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetName("team_name_unique").SetUnique(true),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	return nil
}

func isIndexExistsError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "already exists") || strings.Contains(s, "duplicate")
}
