package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"taskflow-project/dashboard-service/logging"
)

// EnsureIndexes creates the unique email index and the indexes behind
// the ownership lookups. Safe to run on every start.
func EnsureIndexes(ctx context.Context, store *Store) error {
	indexes := map[string][]mongo.IndexModel{
		AccountsCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "leader_id", Value: 1}, {Key: "role", Value: 1}}},
		},
		ProjectsCollection: {
			{Keys: bson.D{{Key: "member_id", Value: 1}}},
		},
		TasksCollection: {
			{Keys: bson.D{{Key: "project_id", Value: 1}}},
		},
	}

	for name, models := range indexes {
		if _, err := store.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
		logging.Logger.Infof("Event ID: DB_INDEXES_READY, Description: Indexes on %s created successfully", name)
	}
	return nil
}
