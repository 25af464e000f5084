// Package api serves the merchant dashboard: the category directory, the
// category dialog and the product wizard, all as server-rendered pages.
package api

import (
	"context"
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/raushankrgupta/merchant-dashboard/catalog"
	"github.com/raushankrgupta/merchant-dashboard/config"
	"github.com/raushankrgupta/merchant-dashboard/drafts"
	"github.com/raushankrgupta/merchant-dashboard/models"
	"github.com/raushankrgupta/merchant-dashboard/storage"
	"github.com/raushankrgupta/merchant-dashboard/utils"
)

// ProductBackend creates products and resolves their image paths
type ProductBackend interface {
	CreateProduct(ctx context.Context, sub models.ProductSubmission, image io.Reader) error
	ImageURL(path string) string
}

type Server struct {
	cfg      *config.Config
	products ProductBackend
	catalog  *catalog.Store
	drafts   drafts.Store
	assets   storage.Storage
	pages    *renderer
}

func NewServer(cfg *config.Config, products ProductBackend, store *catalog.Store, ds drafts.Store, assets storage.Storage) (*Server, error) {
	pages, err := newRenderer(products.ImageURL)
	if err != nil {
		return nil, err
	}
	return &Server{
		cfg:      cfg,
		products: products,
		catalog:  store,
		drafts:   ds,
		assets:   assets,
		pages:    pages,
	}, nil
}

// Routes mounts every endpoint behind the request logger
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.DashboardHandler)
	mux.HandleFunc("POST /categories", s.CategoryHandler)
	mux.HandleFunc("GET /catalog.xlsx", s.ExportHandler)

	mux.HandleFunc("POST /wizard", s.OpenWizardHandler)
	mux.HandleFunc("POST /wizard/next", s.wizardAction(nextStep))
	mux.HandleFunc("POST /wizard/previous", s.wizardAction(previousStep))
	mux.HandleFunc("POST /wizard/steps/{step}", s.wizardAction(selectStep))
	mux.HandleFunc("POST /wizard/variants", s.wizardAction(addVariant))
	mux.HandleFunc("POST /wizard/variants/{index}/delete", s.wizardAction(removeVariant))
	mux.HandleFunc("POST /wizard/combinations", s.wizardAction(addCombination))
	mux.HandleFunc("POST /wizard/combinations/{index}/delete", s.wizardAction(removeCombination))
	mux.HandleFunc("POST /wizard/discount-type/{type}", s.wizardAction(setDiscountType))
	mux.HandleFunc("POST /wizard/submit", s.SubmitProductHandler)
	mux.HandleFunc("POST /wizard/close", s.CloseWizardHandler)

	mux.HandleFunc("GET /healthz", HealthHandler)
	mux.Handle("GET /metrics", promhttp.Handler())

	return utils.RequestLogger(mux)
}

// HealthHandler reports liveness
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
