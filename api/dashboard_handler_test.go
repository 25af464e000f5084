package api

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/raushankrgupta/merchant-dashboard/models"
)

func TestDashboardRendersDirectory(t *testing.T) {
	h := newHarness(t)
	doc := h.page("")

	sections := doc.Find("#directory section.category")
	if sections.Length() != 2 {
		t.Fatalf("got %d category sections", sections.Length())
	}
	shoes := doc.Find(`section[data-category-id="c2"]`)
	if got := strings.TrimSpace(shoes.Find(".product-name").Text()); got != "Dunk" {
		t.Errorf("product name = %q", got)
	}
	if got := shoes.Find(".brand").Text(); got != "Nike" {
		t.Errorf("brand = %q", got)
	}
	if got := shoes.Find(".price").Text(); got != "₹8000" {
		t.Errorf("price = %q", got)
	}
	src, _ := shoes.Find("img").Attr("src")
	if src != h.backend.URL+"/uploads/dunk.png" {
		t.Errorf("image src = %q", src)
	}
	if doc.Find("#category-dialog").Length() != 0 || doc.Find("#product-wizard").Length() != 0 {
		t.Error("dialogs should start closed")
	}
}

func TestDashboardFailedCategoryStillRendersOthers(t *testing.T) {
	fake := newFakeCatalog()
	fake.failProducts["c1"] = true
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()
	h := newHarnessWith(t, fake, srv)

	doc := h.page("")
	failed := doc.Find(`section[data-category-id="c1"]`)
	if failed.Find(".product").Length() != 0 || failed.Find(".error").Length() != 0 {
		t.Error("failed category should simply show no products")
	}
	if doc.Find(`section[data-category-id="c2"] .product`).Length() != 1 {
		t.Error("healthy category lost its products")
	}
}

func TestDashboardRefetchesOnEveryLoad(t *testing.T) {
	h := newHarness(t)
	h.page("")

	h.fake.mu.Lock()
	h.fake.products["c1"] = append(h.fake.products["c1"], models.ProductListing{Name: "Basic Tee", Price: "499", Brand: "H&M", PriceINR: 499})
	h.fake.categories = append(h.fake.categories, models.Category{ID: "c9", Name: "Hats"})
	h.fake.mu.Unlock()

	doc := h.page("")
	if got := doc.Find(`section[data-category-id="c1"] .product-name`).Text(); got != "Basic Tee" {
		t.Errorf("c1 products = %q, want the product added after startup", got)
	}
	if doc.Find(`section[data-category-id="c9"]`).Length() != 1 {
		t.Error("category added by another client missing")
	}
}

func TestDashboardRecoversFailedCategory(t *testing.T) {
	fake := newFakeCatalog()
	fake.failProducts["c2"] = true
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()
	h := newHarnessWith(t, fake, srv)

	fake.mu.Lock()
	fake.failProducts["c2"] = false
	fake.mu.Unlock()

	doc := h.page("")
	shoes := doc.Find(`section[data-category-id="c2"]`)
	if shoes.Find(".product").Length() != 1 {
		t.Error("products not shown after the backend recovered")
	}
	if _, failed := shoes.Attr("data-failed"); failed {
		t.Error("category still marked failed")
	}
}

func TestDashboardKeepsLastDirectoryWhenBackendDown(t *testing.T) {
	fake := newFakeCatalog()
	srv := httptest.NewServer(fake.handler())
	h := newHarnessWith(t, fake, srv)
	srv.Close()

	doc := h.page("")
	if doc.Find(`section[data-category-id="c2"] .product`).Length() != 1 {
		t.Error("last fetched directory not shown")
	}
}

func TestCategoryDialogOpens(t *testing.T) {
	h := newHarness(t)
	doc := h.page("?dialog=category")
	if doc.Find("#category-dialog form[action='/categories']").Length() != 1 {
		t.Fatal("category dialog not rendered")
	}
}

func TestCreateCategory(t *testing.T) {
	h := newHarness(t)
	rec := h.postForm("/categories", url.Values{"name": {"  Hoodies  "}})
	expectRedirect(t, rec)

	if len(h.fake.categoryPosts) != 1 || h.fake.categoryPosts[0] != "Hoodies" {
		t.Fatalf("backend posts = %v", h.fake.categoryPosts)
	}
	doc := h.page("")
	if doc.Find(`section[data-category-id="c3"]`).Length() != 1 {
		t.Error("new category missing after refresh")
	}
	if doc.Find("#category-dialog").Length() != 0 {
		t.Error("dialog should close after success")
	}
}

func TestCreateCategoryBlankNameIsNoop(t *testing.T) {
	h := newHarness(t)
	rec := h.postForm("/categories", url.Values{"name": {"   "}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(h.fake.categoryPosts) != 0 {
		t.Error("blank name reached the backend")
	}
	if !strings.Contains(rec.Body.String(), `id="category-dialog"`) {
		t.Error("dialog should stay open")
	}
}

func TestCreateCategoryFailureKeepsDialogOpen(t *testing.T) {
	h := newHarness(t)
	h.fake.failCreate = true

	rec := h.postForm("/categories", url.Values{"name": {"Hoodies"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(h.store.Categories()) != 2 {
		t.Errorf("categories changed: %+v", h.store.Categories())
	}
	if !strings.Contains(rec.Body.String(), `value="Hoodies"`) {
		t.Error("typed name should be kept")
	}
}

func TestInvalidDraftCookieIsCleared(t *testing.T) {
	h := newHarness(t)
	h.cookie = &http.Cookie{Name: DraftCookie, Value: "not-a-token"}

	doc := h.page("")
	if h.cookie != nil {
		t.Error("invalid cookie was not cleared")
	}
	if doc.Find("#product-wizard").Length() != 0 {
		t.Error("wizard rendered without a draft")
	}
}

func TestExport(t *testing.T) {
	h := newHarness(t)
	rec := h.do(httptest.NewRequest(http.MethodGet, "/catalog.xlsx", nil))
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != xlsxContentType {
		t.Fatalf("export = %d %s", rec.Code, rec.Header().Get("Content-Type"))
	}
	f, err := excelize.OpenReader(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, _ := f.GetRows("Catalog")
	if len(rows) != 3 {
		t.Errorf("rows = %v", rows)
	}
}
