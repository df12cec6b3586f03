package store

import (
	"context"

	"docquiz/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoStore implements the same whole-collection contract as FileStore on
// top of MongoDB, for deployments that want the saved quizzes off the local
// filesystem. SaveAll still replaces the entire collection; records are
// small enough that this stays cheap.
type MongoStore struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

// NewMongoStore creates a Mongo-backed quiz store.
func NewMongoStore(db *mongo.Database, logger *zap.Logger) *MongoStore {
	return &MongoStore{
		collection: db.Collection("saved_quizzes"),
		logger:     logger,
	}
}

func (s *MongoStore) LoadAll(ctx context.Context) []model.SavedQuizRecord {
	cursor, err := s.collection.Find(ctx, bson.M{})
	if err != nil {
		s.logger.Warn("failed to read quiz store, starting empty", zap.Error(err))
		return nil
	}
	defer cursor.Close(ctx)

	var records []model.SavedQuizRecord
	if err := cursor.All(ctx, &records); err != nil {
		s.logger.Warn("quiz store is corrupt, starting empty", zap.Error(err))
		return nil
	}
	return records
}

// SaveAll upserts every record by id and then removes ids that are no longer
// in the collection. A crash mid-write leaves a superset of the old and new
// state; it never loses records that are in both.
func (s *MongoStore) SaveAll(ctx context.Context, records []model.SavedQuizRecord) error {
	ids := make([]string, len(records))
	for i := range records {
		ids[i] = records[i].ID
		_, err := s.collection.ReplaceOne(ctx,
			bson.M{"_id": records[i].ID}, records[i],
			options.Replace().SetUpsert(true))
		if err != nil {
			return err
		}
	}

	_, err := s.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$nin": ids}})
	return err
}
