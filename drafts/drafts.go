// Package drafts persists in-progress product wizards between requests.
package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/raushankrgupta/merchant-dashboard/config"
	"github.com/raushankrgupta/merchant-dashboard/wizard"
)

// ErrNotFound is returned for unknown or expired drafts
var ErrNotFound = errors.New("draft not found")

// Draft is one open product wizard
type Draft struct {
	ID        string         `json:"id"`
	Wizard    *wizard.Wizard `json:"wizard"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// New wraps a wizard in a draft with a fresh id
func New(w *wizard.Wizard) *Draft {
	now := time.Now().UTC()
	return &Draft{ID: uuid.NewString(), Wizard: w, CreatedAt: now, UpdatedAt: now}
}

// Store keeps drafts for a limited time after their last save
type Store interface {
	// Save creates or replaces the draft and restarts its expiry
	Save(ctx context.Context, d *Draft) error

	// Get loads a draft, ErrNotFound when missing or expired
	Get(ctx context.Context, id string) (*Draft, error)

	// Delete removes a draft; deleting a missing draft is not an error
	Delete(ctx context.Context, id string) error
}

// FromConfig opens the store selected by DRAFT_STORE. The returned func releases its connections.
func FromConfig(ctx context.Context, cfg *config.Config) (Store, func(), error) {
	switch cfg.DraftStore {
	case "", "memory":
		return NewMemoryStore(cfg.DraftTTL), func() {}, nil
	case "redis":
		rdb, err := ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return NewRedisStore(rdb, cfg.DraftTTL), func() { _ = rdb.Close() }, nil
	case "mongo":
		client, err := ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		s, err := NewMongoStore(ctx, client.Database(cfg.MongoDB).Collection("drafts"), cfg.DraftTTL)
		if err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, err
		}
		return s, func() { _ = client.Disconnect(context.Background()) }, nil
	default:
		return nil, nil, fmt.Errorf("unknown DRAFT_STORE: %s", cfg.DraftStore)
	}
}

func encode(d *Draft) ([]byte, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("marshal draft %s: %w", d.ID, err)
	}
	return b, nil
}

func decode(b []byte) (*Draft, error) {
	var d Draft
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("unmarshal draft: %w", err)
	}
	if d.Wizard == nil {
		return nil, fmt.Errorf("draft %s has no wizard", d.ID)
	}
	return &d, nil
}
