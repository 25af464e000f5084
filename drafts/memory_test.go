package drafts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/raushankrgupta/merchant-dashboard/models"
	"github.com/raushankrgupta/merchant-dashboard/wizard"
)

func sampleDraft() *Draft {
	w := wizard.New([]models.Category{{ID: "c1", Name: "Shoes"}})
	w.SetDescription("Dunk", "c1", "Nike")
	w.SetVariants([]models.Variant{{Option: "Size", Values: []string{"8", "9"}}})
	w.SetPricing(decimal.RequireFromString("99.50"), decimal.Zero)
	return New(w)
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)
	d := sampleDraft()

	if err := s.Save(ctx, d); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(ctx, d.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Wizard.Values.ProductName != "Dunk" || len(got.Wizard.Values.Combinations) != 2 {
		t.Errorf("wizard = %+v", got.Wizard.Values)
	}
	if !got.Wizard.Values.Price.Equal(decimal.RequireFromString("99.5")) {
		t.Errorf("price = %s", got.Wizard.Values.Price)
	}
	if got.Wizard.Step != wizard.StepDescription {
		t.Errorf("step = %d", got.Wizard.Step)
	}
}

func TestMemoryStoreIsolatesCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)
	d := sampleDraft()
	_ = s.Save(ctx, d)

	d.Wizard.Values.ProductName = "changed"
	got, _ := s.Get(ctx, d.ID)
	if got.Wizard.Values.ProductName != "Dunk" {
		t.Errorf("stored draft changed to %q without Save", got.Wizard.Values.ProductName)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	s := NewMemoryStore(time.Minute)
	s.now = func() time.Time { return now }

	d := sampleDraft()
	_ = s.Save(ctx, d)

	now = now.Add(59 * time.Second)
	if _, err := s.Get(ctx, d.ID); err != nil {
		t.Fatalf("draft expired early: %v", err)
	}

	now = now.Add(2 * time.Second)
	if _, err := s.Get(ctx, d.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	_ = s.Save(ctx, sampleDraft())
	if s.Len() != 1 {
		t.Errorf("expired draft not swept, len = %d", s.Len())
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)
	d := sampleDraft()
	_ = s.Save(ctx, d)

	if err := s.Delete(ctx, d.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, d.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "missing"); err != nil {
		t.Errorf("deleting a missing draft: %v", err)
	}
}
