package api

import (
	"net/http"

	"github.com/raushankrgupta/merchant-dashboard/logx"
)

// DashboardHandler refetches the directory and renders it, plus the category
// dialog when ?dialog=category is set and the wizard when a draft is open.
// When the backend is unreachable the last fetched directory is shown.
func (s *Server) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.Refresh(r.Context()); err != nil {
		logx.Ctx(r.Context()).Warn().Err(err).Msg("showing last fetched directory")
	}

	view := pageView{Directory: s.catalog.Snapshot()}
	if r.URL.Query().Get("dialog") == "category" {
		view.CategoryDialog = &categoryDialogView{}
	}

	d, err := s.loadDraft(w, r)
	if err != nil {
		logx.Ctx(r.Context()).Error().Err(err).Msg("failed to load wizard draft")
	}
	if d != nil {
		view.Wizard = newWizardView(d.Wizard)
	}

	s.pages.render(w, r, http.StatusOK, view)
}
