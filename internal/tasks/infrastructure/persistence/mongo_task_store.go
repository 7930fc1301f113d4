package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/todolist/internal/tasks/domain/task"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// taskDocument is the stored shape of a task. Ids are kept as strings.
type taskDocument struct {
	ID        string    `bson:"_id"`
	Title     string    `bson:"title"`
	Status    string    `bson:"status"`
	CreatedAt time.Time `bson:"createdAt"`
}

func (d taskDocument) toTask() (*task.Task, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid stored task id %q: %w", d.ID, err)
	}
	return &task.Task{ID: id, Title: d.Title, Status: d.Status}, nil
}

// MongoTaskStore implements task.Store on a MongoDB collection.
type MongoTaskStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// ConnectMongo opens a client for uri and verifies it with a ping.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

// NewMongoTaskStore creates a store on database/collection of client.
func NewMongoTaskStore(client *mongo.Client, database, collection string) *MongoTaskStore {
	return &MongoTaskStore{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}
}

func (s *MongoTaskStore) FindAll(ctx context.Context) ([]*task.Task, error) {
	return s.find(ctx, bson.M{})
}

func (s *MongoTaskStore) FindByStatus(ctx context.Context, status string) ([]*task.Task, error) {
	return s.find(ctx, bson.M{"status": status})
}

func (s *MongoTaskStore) find(ctx context.Context, filter bson.M) ([]*task.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}

	var docs []taskDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}

	tasks := make([]*task.Task, 0, len(docs))
	for _, d := range docs {
		t, err := d.toTask()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (s *MongoTaskStore) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	var doc taskDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, task.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return doc.toTask()
}

func (s *MongoTaskStore) Insert(ctx context.Context, t *task.Task) error {
	id := task.NewID()
	doc := taskDocument{
		ID:        id.String(),
		Title:     t.Title,
		Status:    t.Status,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	t.ID = id
	return nil
}

// Replace overwrites every task field; createdAt is store bookkeeping and stays.
func (s *MongoTaskStore) Replace(ctx context.Context, id uuid.UUID, t *task.Task) error {
	update := bson.M{"$set": bson.M{"title": t.Title, "status": t.Status}}
	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": id.String()}, update)
	if err != nil {
		return fmt.Errorf("failed to replace task: %w", err)
	}
	if result.MatchedCount == 0 {
		return task.ErrNotFound
	}
	return nil
}

func (s *MongoTaskStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}
	return result.DeletedCount > 0, nil
}

func (s *MongoTaskStore) Count(ctx context.Context) (int, error) {
	n, err := s.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return int(n), nil
}

func (s *MongoTaskStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the underlying client.
func (s *MongoTaskStore) Close() error {
	return s.client.Disconnect(context.Background())
}

var _ task.Store = (*MongoTaskStore)(nil)
