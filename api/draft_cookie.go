package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/raushankrgupta/merchant-dashboard/drafts"
	"github.com/raushankrgupta/merchant-dashboard/logx"
	"github.com/raushankrgupta/merchant-dashboard/utils"
)

// DraftCookie names the cookie holding the signed id of the open wizard draft
const DraftCookie = "wizard_draft"

func (s *Server) setDraftCookie(w http.ResponseWriter, id string) error {
	token, err := utils.GenerateDraftToken(s.cfg.SessionSecret, id, s.cfg.DraftTTL)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     DraftCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.cfg.DraftTTL.Seconds()),
		HttpOnly: true,
		Secure:   s.cfg.Env().IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (s *Server) clearDraftCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     DraftCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cfg.Env().IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}

// loadDraft returns the draft named by the request cookie, or nil when there
// is none. A cookie that no longer resolves to a draft is cleared.
func (s *Server) loadDraft(w http.ResponseWriter, r *http.Request) (*drafts.Draft, error) {
	c, err := r.Cookie(DraftCookie)
	if err != nil || c.Value == "" {
		return nil, nil
	}

	id, err := utils.ValidateDraftToken(s.cfg.SessionSecret, c.Value)
	if err != nil {
		logx.Ctx(r.Context()).Debug().Err(err).Msg("discarding invalid draft cookie")
		s.clearDraftCookie(w)
		return nil, nil
	}

	d, err := s.drafts.Get(r.Context(), id)
	if errors.Is(err, drafts.ErrNotFound) {
		s.clearDraftCookie(w)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// saveDraft stores the draft and renews the cookie so both expire together
func (s *Server) saveDraft(ctx context.Context, w http.ResponseWriter, d *drafts.Draft) error {
	if err := s.drafts.Save(ctx, d); err != nil {
		return err
	}
	return s.setDraftCookie(w, d.ID)
}

// discardDraft deletes the draft and its staged image
func (s *Server) discardDraft(ctx context.Context, w http.ResponseWriter, d *drafts.Draft) {
	if img := d.Wizard.Values.Image; img != nil {
		if err := s.assets.Delete(ctx, img.Key); err != nil {
			logx.Ctx(ctx).Warn().Err(err).Str("key", img.Key).Msg("failed to delete staged image")
		}
	}
	if err := s.drafts.Delete(ctx, d.ID); err != nil {
		logx.Ctx(ctx).Warn().Err(err).Str("draft_id", d.ID).Msg("failed to delete draft")
	}
	s.clearDraftCookie(w)
}
