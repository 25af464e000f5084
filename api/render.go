package api

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/raushankrgupta/merchant-dashboard/logx"
	"github.com/raushankrgupta/merchant-dashboard/models"
	"github.com/raushankrgupta/merchant-dashboard/wizard"
)

//go:embed templates/*.html
var templateFS embed.FS

type renderer struct {
	tmpl *template.Template
}

func newRenderer(imageURL func(string) string) (*renderer, error) {
	tmpl, err := template.New("pages").Funcs(template.FuncMap{
		"imageURL":   imageURL,
		"fieldError": fieldError,
		"isStep":     func(s wizard.Step, n int) bool { return int(s) == n },
		"join":       func(values []string) string { return strings.Join(values, ", ") },
		"isFlat":     func(t models.DiscountType) bool { return t == models.DiscountFlat },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &renderer{tmpl: tmpl}, nil
}

// render executes into a buffer first so a template error never sends half a page
func (p *renderer) render(w http.ResponseWriter, r *http.Request, status int, view pageView) {
	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, "page", view); err != nil {
		logx.Ctx(r.Context()).Error().Err(err).Msg("render dashboard")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

type pageView struct {
	Directory      []models.CategoryProducts
	CategoryDialog *categoryDialogView
	Wizard         *wizardView
}

type categoryDialogView struct {
	Name string
}

type tabView struct {
	Step    wizard.Step
	Title   string
	Active  bool
	Enabled bool
}

type wizardView struct {
	*wizard.Wizard
	Tabs []tabView
}

func newWizardView(w *wizard.Wizard) *wizardView {
	tabs := make([]tabView, 0, len(wizard.Steps))
	for _, s := range wizard.Steps {
		tabs = append(tabs, tabView{
			Step:    s,
			Title:   s.Title(),
			Active:  s == w.Step,
			Enabled: w.CanSelect(s),
		})
	}
	return &wizardView{Wizard: w, Tabs: tabs}
}

func fieldError(errs wizard.Errors, key string) string {
	return errs[key]
}
