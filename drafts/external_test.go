package drafts

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

// These run against real servers and are skipped unless REDIS_URL / MONGO_URI are set.

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	d := sampleDraft()

	if err := s.Save(ctx, d); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(ctx, d.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != d.ID || got.Wizard.Values.Brand != "Nike" {
		t.Errorf("draft = %+v", got)
	}
	if err := s.Delete(ctx, d.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, d.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	rdb, err := ConnectRedis(context.Background(), url)
	if err != nil {
		t.Fatal(err)
	}
	defer rdb.Close()
	exerciseStore(t, NewRedisStore(rdb, time.Minute))
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}
	ctx := context.Background()
	client, err := ConnectMongo(ctx, uri)
	if err != nil {
		t.Fatal(err)
	}
	defer client.Disconnect(ctx)

	db := client.Database("merchant_dashboard_test_" + uuid.NewString()[:8])
	defer db.Drop(ctx)

	s, err := NewMongoStore(ctx, db.Collection("drafts"), time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	exerciseStore(t, s)
}
