// Package global holds process-wide singletons: server configuration, the
// Mongo session, collection names and the collection registry. Initialized
// once at startup from cmd/server.
package global

import (
	"go.mongodb.org/mongo-driver/mongo"

	"church_connect/config"
	"church_connect/internal/registry"
)

// ColNames lists the Mongo collection names used by the application.
type ColNames struct {
	Visitors      string
	ProtocolTeams string
}

var (
	// ServerConfig is the loaded server configuration.
	ServerConfig *config.Configuration

	// MongoSession is the shared Mongo client.
	MongoSession *mongo.Client

	// MongoColNames holds the collection names, set during init.
	MongoColNames ColNames

	// RegistryCollections maps collection name -> *mongo.Collection.
	RegistryCollections = registry.NewRegistry[*mongo.Collection]()
)
