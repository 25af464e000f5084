// Package catalog keeps the dashboard's view of categories and their products.
// It is the only place the page reads them from; creations update it with
// targeted refetches instead of reloading everything.
package catalog

import (
	"context"
	"strings"
	"sync"

	"github.com/raushankrgupta/merchant-dashboard/backend"
	"github.com/raushankrgupta/merchant-dashboard/errx"
	"github.com/raushankrgupta/merchant-dashboard/logx"
	"github.com/raushankrgupta/merchant-dashboard/models"
	"github.com/raushankrgupta/merchant-dashboard/utils"
)

// Backend is the subset of the catalog API the store needs
type Backend interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, name string) error
	ListProducts(ctx context.Context, categoryID string) ([]models.ProductListing, error)
}

var _ Backend = (*backend.Client)(nil)

// DefaultConcurrency bounds the per-category product fetches of a refresh
const DefaultConcurrency = 5

type Store struct {
	api         Backend
	concurrency int

	mu         sync.RWMutex
	categories []models.Category
	products   map[string][]models.ProductListing
	failed     map[string]bool
}

func NewStore(api Backend) *Store {
	return &Store{
		api:         api,
		concurrency: DefaultConcurrency,
		products:    make(map[string][]models.ProductListing),
		failed:      make(map[string]bool),
	}
}

// Refresh reloads the category list and then every category's products.
// When the list fetch fails the previous snapshot is kept. A failed product
// fetch leaves that category empty and does not affect the others.
func (s *Store) Refresh(ctx context.Context) error {
	categories, err := s.fetchCategories(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.categories = categories
	s.mu.Unlock()

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, s.concurrency)
	for _, c := range categories {
		if c.ID == "" {
			continue
		}
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			_ = s.RefreshCategory(ctx, id)
		}(c.ID)
	}
	wg.Wait()

	s.prune()
	return nil
}

// RefreshCategories reloads only the category list. Products already
// fetched for a category are kept.
func (s *Store) RefreshCategories(ctx context.Context) error {
	categories, err := s.fetchCategories(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.categories = categories
	s.mu.Unlock()
	s.prune()
	return nil
}

// RefreshCategory reloads the products of one category
func (s *Store) RefreshCategory(ctx context.Context, id string) error {
	products, err := s.api.ListProducts(ctx, id)
	utils.RecordProductOperation("list", err == nil)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		logx.Ctx(ctx).Warn().Err(err).Str("category_id", id).Msg("failed to fetch category products")
		s.products[id] = []models.ProductListing{}
		s.failed[id] = true
		return errx.WrapBackend(err)
	}
	s.products[id] = products
	delete(s.failed, id)
	return nil
}

// CreateCategory submits a new category. A blank name is ignored and reports false.
// On success the category is recorded and the list refetched.
func (s *Store) CreateCategory(ctx context.Context, name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, nil
	}
	err := s.api.CreateCategory(ctx, name)
	utils.RecordCategoryOperation("create", err == nil)
	if err != nil {
		logx.Ctx(ctx).Error().Err(err).Str("name", name).Msg("failed to create category")
		return false, errx.WrapBackend(err)
	}
	s.CategoryCreated(ctx, name)
	return true, nil
}

// CategoryCreated appends the new category right away and then refetches
// the list so it picks up the id the backend assigned.
func (s *Store) CategoryCreated(ctx context.Context, name string) {
	s.mu.Lock()
	s.categories = append(s.categories, models.Category{Name: name})
	s.mu.Unlock()

	_ = s.RefreshCategories(ctx)
}

// ProductCreated appends the listing to its category and refetches that
// category's products.
func (s *Store) ProductCreated(ctx context.Context, categoryID string, listing models.ProductListing) {
	s.mu.Lock()
	s.products[categoryID] = append(s.products[categoryID], listing)
	s.mu.Unlock()

	_ = s.RefreshCategory(ctx, categoryID)
}

// Categories returns a copy of the category list
func (s *Store) Categories() []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Category(nil), s.categories...)
}

// Snapshot returns every category with its products, in list order
func (s *Store) Snapshot() []models.CategoryProducts {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.CategoryProducts, 0, len(s.categories))
	for _, c := range s.categories {
		products := append([]models.ProductListing{}, s.products[c.ID]...)
		out = append(out, models.CategoryProducts{
			Category: c,
			Products: products,
			Failed:   s.failed[c.ID],
		})
	}
	return out
}

func (s *Store) fetchCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.api.ListCategories(ctx)
	utils.RecordCategoryOperation("list", err == nil)
	if err != nil {
		logx.Ctx(ctx).Error().Err(err).Msg("failed to fetch categories")
		return nil, errx.WrapBackend(err)
	}
	return categories, nil
}

// prune drops products of categories no longer listed
func (s *Store) prune() {
	s.mu.Lock()
	defer s.mu.Unlock()

	live := make(map[string]bool, len(s.categories))
	for _, c := range s.categories {
		live[c.ID] = true
	}
	for id := range s.products {
		if !live[id] {
			delete(s.products, id)
			delete(s.failed, id)
		}
	}
}
