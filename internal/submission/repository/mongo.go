package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/genevafi/healthcheck/backend/go-services/internal/submission"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const counterName = "submissions"

// MongoRepo stores submissions in MongoDB. Integer ids come from a counters
// collection so they match the relational backend.
type MongoRepo struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

func NewMongoRepo(ctx context.Context, db *mongo.Database) (*MongoRepo, error) {
	col := db.Collection("submissions")
	idx := mongo.IndexModel{Keys: bson.D{{Key: "mortgageStatementKey", Value: 1}}, Options: options.Index().SetSparse(true)}
	if _, err := col.Indexes().CreateOne(ctx, idx); err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &MongoRepo{col: col, counters: db.Collection("counters")}, nil
}

func (m *MongoRepo) nextID(ctx context.Context) (int64, error) {
	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := m.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": counterName},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("next id: %w", err)
	}
	return doc.Seq, nil
}

func (m *MongoRepo) Insert(ctx context.Context, s *submission.Submission) error {
	id, err := m.nextID(ctx)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	s.ID = id
	s.CreatedAt = now
	s.UpdatedAt = now
	if _, err := m.col.InsertOne(ctx, s); err != nil {
		s.ID = 0
		return err
	}
	return nil
}

func (m *MongoRepo) UpdateEmailStatus(ctx context.Context, id int64, sent bool, at time.Time) error {
	update := bson.M{"$set": bson.M{"emailSent": sent, "updatedAt": at}}
	if sent {
		update["$set"].(bson.M)["emailSentAt"] = at
	} else {
		update["$unset"] = bson.M{"emailSentAt": ""}
	}
	res, err := m.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo) Get(ctx context.Context, id int64) (*submission.Submission, error) {
	var s submission.Submission
	if err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (m *MongoRepo) DocumentKeyExists(ctx context.Context, key string) (bool, error) {
	n, err := m.col.CountDocuments(ctx, bson.M{"mortgageStatementKey": key}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (m *MongoRepo) Ping(ctx context.Context) error {
	return m.col.Database().Client().Ping(ctx, nil)
}
