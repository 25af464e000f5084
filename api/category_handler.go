package api

import (
	"net/http"
	"strings"
)

// CategoryHandler confirms the category dialog. A blank name keeps the dialog
// open without calling the backend; a backend failure keeps it open with the
// typed name; success closes it.
func (s *Server) CategoryHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	name := r.PostForm.Get("name")

	created, err := s.catalog.CreateCategory(r.Context(), name)
	if created {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	dialog := &categoryDialogView{}
	if err != nil {
		dialog.Name = strings.TrimSpace(name)
	}
	s.pages.render(w, r, http.StatusOK, pageView{
		Directory:      s.catalog.Snapshot(),
		CategoryDialog: dialog,
	})
}
