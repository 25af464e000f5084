package drafts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectMongo initializes the MongoDB connection
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return client, nil
}

type mongoDraft struct {
	ID        string    `bson:"_id"`
	Payload   string    `bson:"payload"` // JSON encoded Draft
	UpdatedAt time.Time `bson:"updated_at"`
	ExpiresAt time.Time `bson:"expires_at"`
}

// MongoStore keeps drafts in a collection with a TTL index on expires_at
type MongoStore struct {
	coll *mongo.Collection
	ttl  time.Duration
}

// NewMongoStore ensures the TTL index exists
func NewMongoStore(ctx context.Context, coll *mongo.Collection, ttl time.Duration) (*MongoStore, error) {
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return nil, fmt.Errorf("create drafts ttl index: %w", err)
	}
	return &MongoStore{coll: coll, ttl: ttl}, nil
}

func (m *MongoStore) Save(ctx context.Context, d *Draft) error {
	now := time.Now().UTC()
	d.UpdatedAt = now
	b, err := encode(d)
	if err != nil {
		return err
	}

	exp := now.Add(m.ttl)
	if m.ttl <= 0 {
		exp = now.AddDate(100, 0, 0)
	}
	doc := mongoDraft{ID: d.ID, Payload: string(b), UpdatedAt: now, ExpiresAt: exp}
	_, err = m.coll.ReplaceOne(ctx, bson.M{"_id": d.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save draft %s: %w", d.ID, err)
	}
	return nil
}

func (m *MongoStore) Get(ctx context.Context, id string) (*Draft, error) {
	var doc mongoDraft
	err := m.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load draft %s: %w", id, err)
	}
	// the TTL monitor runs about once a minute
	if time.Now().After(doc.ExpiresAt) {
		return nil, ErrNotFound
	}
	return decode([]byte(doc.Payload))
}

func (m *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := m.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete draft %s: %w", id, err)
	}
	return nil
}

var _ Store = (*MongoStore)(nil)
