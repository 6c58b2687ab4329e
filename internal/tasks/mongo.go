package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// taskDoc is the wire form of a task in the tasks collection. Documents are
// keyed by the application-level id, not Mongo's _id, and timestamps travel as
// RFC3339 text. Extra fields in stored documents are ignored on decode.
type taskDoc struct {
	ID          string `bson:"id"`
	Title       string `bson:"title"`
	Description string `bson:"description"`
	Priority    string `bson:"priority"`
	Status      string `bson:"status"`
	CreatedAt   string `bson:"created_at"`
	UpdatedAt   string `bson:"updated_at"`
}

func docFromTask(t Task) taskDoc {
	return taskDoc{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt.Format(timeLayout),
		UpdatedAt:   t.UpdatedAt.Format(timeLayout),
	}
}

func taskFromDoc(d taskDoc) (Task, error) {
	created, err := time.Parse(timeLayout, d.CreatedAt)
	if err != nil {
		return Task{}, fmt.Errorf("task %s: parse created_at: %w", d.ID, err)
	}
	updated, err := time.Parse(timeLayout, d.UpdatedAt)
	if err != nil {
		return Task{}, fmt.Errorf("task %s: parse updated_at: %w", d.ID, err)
	}
	return Task{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Priority:    coercePriority(d.Priority),
		Status:      coerceStatus(d.Status),
		CreatedAt:   created,
		UpdatedAt:   updated,
	}, nil
}

type MongoStore struct {
	col *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{col: db.Collection("tasks")}
}

func (s *MongoStore) Insert(ctx context.Context, t Task) error {
	_, err := s.col.InsertOne(ctx, docFromTask(t))
	return err
}

func (s *MongoStore) List(ctx context.Context, f Filter) ([]Task, error) {
	filter := bson.M{}
	if f.Status != nil {
		filter["status"] = string(*f.Status)
	}
	if f.Priority != nil {
		filter["priority"] = string(*f.Priority)
	}

	cur, err := s.col.Find(ctx, filter, options.Find().SetLimit(maxListSize))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]Task, 0)
	for cur.Next(ctx) {
		var d taskDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		t, err := taskFromDoc(d)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, cur.Err()
}

func (s *MongoStore) Get(ctx context.Context, id string) (Task, error) {
	var d taskDoc
	err := s.col.FindOne(ctx, bson.M{"id": id}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Task{}, ErrNotFound
	}
	if err != nil {
		return Task{}, err
	}
	return taskFromDoc(d)
}

// Update runs as a single FindOneAndUpdate, so the existence check and the
// patch cannot race a concurrent delete.
func (s *MongoStore) Update(ctx context.Context, id string, p Patch) (Task, error) {
	if p.IsEmpty() {
		return s.Get(ctx, id)
	}

	set := bson.M{"updated_at": time.Now().UTC().Format(timeLayout)}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Priority != nil {
		set["priority"] = string(*p.Priority)
	}
	if p.Status != nil {
		set["status"] = string(*p.Status)
	}

	var d taskDoc
	err := s.col.FindOneAndUpdate(ctx,
		bson.M{"id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Task{}, ErrNotFound
	}
	if err != nil {
		return Task{}, err
	}
	return taskFromDoc(d)
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Stats(ctx context.Context) (Stats, error) {
	var (
		st  Stats
		err error
	)
	count := func(filter bson.M) int64 {
		if err != nil {
			return 0
		}
		var n int64
		n, err = s.col.CountDocuments(ctx, filter)
		return n
	}

	st.Total = count(bson.M{})
	st.Pending = count(bson.M{"status": string(StatusPending)})
	st.InProgress = count(bson.M{"status": string(StatusInProgress)})
	st.Completed = count(bson.M{"status": string(StatusCompleted)})
	st.HighPriority = count(bson.M{"priority": string(PriorityHigh)})
	st.MediumPriority = count(bson.M{"priority": string(PriorityMedium)})
	st.LowPriority = count(bson.M{"priority": string(PriorityLow)})
	if err != nil {
		return Stats{}, err
	}
	return st, nil
}
