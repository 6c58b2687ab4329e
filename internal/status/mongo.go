package status

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type checkDoc struct {
	ID         string `bson:"id"`
	ClientName string `bson:"client_name"`
	Timestamp  string `bson:"timestamp"`
}

type MongoStore struct {
	col *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{col: db.Collection("status_checks")}
}

func (s *MongoStore) Insert(ctx context.Context, c Check) error {
	_, err := s.col.InsertOne(ctx, checkDoc{
		ID:         c.ID,
		ClientName: c.ClientName,
		Timestamp:  c.Timestamp.Format(timeLayout),
	})
	return err
}

func (s *MongoStore) List(ctx context.Context) ([]Check, error) {
	cur, err := s.col.Find(ctx, bson.M{}, options.Find().SetLimit(maxListSize))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]Check, 0)
	for cur.Next(ctx) {
		var d checkDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		ts, err := time.Parse(timeLayout, d.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("status check %s: parse timestamp: %w", d.ID, err)
		}
		out = append(out, Check{ID: d.ID, ClientName: d.ClientName, Timestamp: ts})
	}
	return out, cur.Err()
}
