package catalog

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/raushankrgupta/merchant-dashboard/models"
)

type fakeBackend struct {
	mu          sync.Mutex
	categories  []models.Category
	products    map[string][]models.ProductListing
	failList    bool
	failProduct map[string]bool
	failCreate  bool
	created     []string
	listCalls   int
	productHits map[string]int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		categories: []models.Category{{ID: "c1", Name: "T-shirt"}, {ID: "c2", Name: "Shoes"}},
		products: map[string][]models.ProductListing{
			"c1": {{Name: "Basic Tee", Price: "499", Brand: "H&M", Image: "uploads/tee.png", PriceINR: 499}},
			"c2": {{Name: "Dunk", Price: "8000", Brand: "Nike", Image: "uploads/dunk.png", PriceINR: 8000}},
		},
		failProduct: map[string]bool{},
		productHits: map[string]int{},
	}
}

var errUnavailable = errors.New("backend unavailable")

func (f *fakeBackend) ListCategories(ctx context.Context) ([]models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.failList {
		return nil, errUnavailable
	}
	return append([]models.Category(nil), f.categories...), nil
}

func (f *fakeBackend) CreateCategory(ctx context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return errUnavailable
	}
	f.created = append(f.created, name)
	f.categories = append(f.categories, models.Category{ID: "new-" + name, Name: name})
	return nil
}

func (f *fakeBackend) ListProducts(ctx context.Context, id string) ([]models.ProductListing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.productHits[id]++
	if f.failProduct[id] {
		return nil, errUnavailable
	}
	return append([]models.ProductListing{}, f.products[id]...), nil
}

func TestRefresh(t *testing.T) {
	fb := newFakeBackend()
	s := NewStore(fb)
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	snap := s.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("got %d categories", len(snap))
	}
	if snap[0].Category.Name != "T-shirt" || len(snap[0].Products) != 1 || snap[0].Products[0].Name != "Basic Tee" {
		t.Errorf("first entry = %+v", snap[0])
	}
	if snap[1].Products[0].PriceINR != 8000 {
		t.Errorf("second entry = %+v", snap[1])
	}
}

func TestRefreshPartialFailure(t *testing.T) {
	fb := newFakeBackend()
	fb.failProduct["c1"] = true
	s := NewStore(fb)
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	snap := s.Snapshot()
	if !snap[0].Failed || len(snap[0].Products) != 0 {
		t.Errorf("failed category = %+v", snap[0])
	}
	if snap[1].Failed || len(snap[1].Products) != 1 {
		t.Errorf("healthy category = %+v", snap[1])
	}
}

func TestRefreshListFailureKeepsSnapshot(t *testing.T) {
	fb := newFakeBackend()
	s := NewStore(fb)
	_ = s.Refresh(context.Background())

	fb.failList = true
	if err := s.Refresh(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if got := len(s.Categories()); got != 2 {
		t.Errorf("categories after failed refresh = %d, want 2", got)
	}
}

func TestCreateCategory(t *testing.T) {
	fb := newFakeBackend()
	s := NewStore(fb)
	_ = s.Refresh(context.Background())

	ok, err := s.CreateCategory(context.Background(), "  Hoodies ")
	if err != nil || !ok {
		t.Fatalf("CreateCategory = %v, %v", ok, err)
	}
	if len(fb.created) != 1 || fb.created[0] != "Hoodies" {
		t.Errorf("backend got %v", fb.created)
	}
	cats := s.Categories()
	if len(cats) != 3 || cats[2].ID != "new-Hoodies" {
		t.Errorf("categories = %+v", cats)
	}
	// targeted refresh: the existing product lists are not refetched
	if fb.productHits["c1"] != 1 || fb.productHits["c2"] != 1 {
		t.Errorf("product fetches = %v", fb.productHits)
	}
	if snap := s.Snapshot(); len(snap[0].Products) != 1 {
		t.Errorf("existing products dropped: %+v", snap[0])
	}
}

func TestCreateCategoryBlank(t *testing.T) {
	fb := newFakeBackend()
	s := NewStore(fb)

	ok, err := s.CreateCategory(context.Background(), "   ")
	if ok || err != nil {
		t.Errorf("CreateCategory = %v, %v", ok, err)
	}
	if len(fb.created) != 0 || fb.listCalls != 0 {
		t.Error("blank name reached the backend")
	}
}

func TestCreateCategoryFailure(t *testing.T) {
	fb := newFakeBackend()
	s := NewStore(fb)
	_ = s.Refresh(context.Background())
	fb.failCreate = true

	ok, err := s.CreateCategory(context.Background(), "Hoodies")
	if ok || !errors.Is(err, errUnavailable) {
		t.Errorf("CreateCategory = %v, %v", ok, err)
	}
	if len(s.Categories()) != 2 {
		t.Errorf("category list changed on failure: %+v", s.Categories())
	}
}

func TestCategoryCreatedKeepsPendingEntryWhenRefreshFails(t *testing.T) {
	fb := newFakeBackend()
	s := NewStore(fb)
	_ = s.Refresh(context.Background())
	fb.failList = true

	s.CategoryCreated(context.Background(), "Hoodies")
	cats := s.Categories()
	if len(cats) != 3 || cats[2].Name != "Hoodies" {
		t.Errorf("categories = %+v", cats)
	}
}

func TestProductCreated(t *testing.T) {
	fb := newFakeBackend()
	s := NewStore(fb)
	_ = s.Refresh(context.Background())

	listing := models.ProductListing{Name: "Air Jordan", Price: "100", Brand: "Nike", PriceINR: 100}
	fb.mu.Lock()
	fb.products["c2"] = append(fb.products["c2"], listing)
	fb.mu.Unlock()

	s.ProductCreated(context.Background(), "c2", listing)
	if fb.productHits["c2"] != 2 || fb.productHits["c1"] != 1 {
		t.Errorf("product fetches = %v", fb.productHits)
	}
	snap := s.Snapshot()
	if len(snap[1].Products) != 2 || snap[1].Products[1].Name != "Air Jordan" {
		t.Errorf("products = %+v", snap[1].Products)
	}
}

func TestWriteXLSX(t *testing.T) {
	fb := newFakeBackend()
	fb.categories = append(fb.categories, models.Category{ID: "c3", Name: "Hats"})
	s := NewStore(fb)
	_ = s.Refresh(context.Background())

	var buf bytes.Buffer
	err := WriteXLSX(&buf, s.Snapshot(), func(p string) string { return "http://backend/" + p })
	if err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows: %v", len(rows), rows)
	}
	if rows[0][0] != "Category" || rows[1][1] != "Basic Tee" || rows[2][5] != "http://backend/uploads/dunk.png" {
		t.Errorf("rows = %v", rows)
	}
	if rows[3][0] != "Hats" || len(rows[3]) != 1 {
		t.Errorf("empty category row = %v", rows[3])
	}
}
