package api

import (
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/raushankrgupta/merchant-dashboard/drafts"
	"github.com/raushankrgupta/merchant-dashboard/logx"
	"github.com/raushankrgupta/merchant-dashboard/models"
	"github.com/raushankrgupta/merchant-dashboard/storage"
	"github.com/raushankrgupta/merchant-dashboard/utils"
	"github.com/raushankrgupta/merchant-dashboard/wizard"
)

// ErrMsgSubmitFailed is shown in the wizard when the backend rejects a product
const ErrMsgSubmitFailed = "Failed to add product. Please try again."

// multipartMemory is how much of an upload is buffered before spilling to disk
const multipartMemory = 8 << 20

// OpenWizardHandler starts a new product draft with a fresh category list
func (s *Server) OpenWizardHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if old, err := s.loadDraft(w, r); err == nil && old != nil {
		s.discardDraft(ctx, w, old)
	}

	// stale list is still usable when the refetch fails
	_ = s.catalog.RefreshCategories(ctx)

	var categories []models.Category
	for _, c := range s.catalog.Categories() {
		if c.ID != "" {
			categories = append(categories, c)
		}
	}

	d := drafts.New(wizard.New(categories))
	if err := s.saveDraft(ctx, w, d); err != nil {
		logx.Ctx(ctx).Error().Err(err).Msg("failed to save new wizard draft")
		http.Error(w, "Failed to open product wizard", http.StatusInternalServerError)
		return
	}
	logx.Ctx(ctx).Info().Str("draft_id", d.ID).Msg("product wizard opened")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// CloseWizardHandler discards the open draft
func (s *Server) CloseWizardHandler(w http.ResponseWriter, r *http.Request) {
	d, err := s.loadDraft(w, r)
	if err != nil {
		logx.Ctx(r.Context()).Error().Err(err).Msg("failed to load wizard draft")
	}
	if d != nil {
		s.discardDraft(r.Context(), w, d)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// wizardStep is one wizard action, run after the posted fields were applied
type wizardStep func(wz *wizard.Wizard, r *http.Request)

func nextStep(wz *wizard.Wizard, r *http.Request) {
	_ = wz.Next()
}

func previousStep(wz *wizard.Wizard, r *http.Request) {
	wz.Previous()
}

func selectStep(wz *wizard.Wizard, r *http.Request) {
	k, err := strconv.Atoi(r.PathValue("step"))
	if err != nil {
		return
	}
	if err := wz.Select(wizard.Step(k)); err != nil {
		logx.Ctx(r.Context()).Debug().Int("step", k).Msg("step tab not reached yet")
	}
}

func addVariant(wz *wizard.Wizard, r *http.Request) {
	_ = wz.AddVariant()
}

func removeVariant(wz *wizard.Wizard, r *http.Request) {
	if i, err := strconv.Atoi(r.PathValue("index")); err == nil {
		_ = wz.RemoveVariant(i)
	}
}

func addCombination(wz *wizard.Wizard, r *http.Request) {
	wz.AddCombination()
}

func removeCombination(wz *wizard.Wizard, r *http.Request) {
	if i, err := strconv.Atoi(r.PathValue("index")); err == nil {
		_ = wz.RemoveCombination(i)
	}
}

func setDiscountType(wz *wizard.Wizard, r *http.Request) {
	if t, ok := models.ParseDiscountType(r.PathValue("type")); ok {
		wz.SetDiscountType(t)
	}
}

// wizardAction loads the draft, applies the posted fields of the current
// step, runs fn and saves. Without an open draft it just goes back to the page.
func (s *Server) wizardAction(fn wizardStep) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, ok := s.applyPosted(w, r)
		if !ok {
			return
		}
		fn(d.Wizard, r)

		if err := s.saveDraft(r.Context(), w, d); err != nil {
			logx.Ctx(r.Context()).Error().Err(err).Str("draft_id", d.ID).Msg("failed to save wizard draft")
			http.Error(w, "Failed to save product draft", http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// SubmitProductHandler sends a valid draft to the backend. On success the
// directory is updated and the draft discarded; on failure the wizard stays
// open with its values and a notice.
func (s *Server) SubmitProductHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	d, ok := s.applyPosted(w, r)
	if !ok {
		return
	}
	wz := d.Wizard

	sub, err := wz.Submission()
	if err == nil {
		err = s.createProduct(r, sub)
		if err != nil {
			wz.Notice = ErrMsgSubmitFailed
		}
		if errors.Is(err, storage.ErrNotFound) {
			// swept while the draft was still open; ask for a new upload
			wz.Values.Image = nil
		}
	}
	if err == nil {
		s.catalog.ProductCreated(ctx, sub.Category, sub.Listing())
		s.discardDraft(ctx, w, d)
		logx.Ctx(ctx).Info().Str("category_id", sub.Category).Str("product", sub.ProductName).Msg("product created")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := s.saveDraft(ctx, w, d); err != nil {
		logx.Ctx(ctx).Error().Err(err).Str("draft_id", d.ID).Msg("failed to save wizard draft")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) createProduct(r *http.Request, sub models.ProductSubmission) error {
	ctx := r.Context()
	img, err := s.assets.Open(ctx, sub.Image.Key)
	if err != nil {
		logx.Ctx(ctx).Error().Err(err).Str("key", sub.Image.Key).Msg("failed to open staged image")
		return err
	}
	defer img.Close()

	err = s.products.CreateProduct(ctx, sub, img)
	utils.RecordProductOperation("create", err == nil)
	if err != nil {
		logx.Ctx(ctx).Error().Err(err).Str("category_id", sub.Category).Msg("failed to add product")
	}
	return err
}

// applyPosted loads the open draft and copies the posted fields into it.
// It writes the response itself and returns false when the request cannot go on.
func (s *Server) applyPosted(w http.ResponseWriter, r *http.Request) (*drafts.Draft, bool) {
	d, err := s.loadDraft(w, r)
	if err != nil {
		logx.Ctx(r.Context()).Error().Err(err).Msg("failed to load wizard draft")
		http.Error(w, "Failed to load product draft", http.StatusInternalServerError)
		return nil, false
	}
	if d == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return nil, false
	}

	if err := s.parseForm(w, r); err != nil {
		logx.Ctx(r.Context()).Warn().Err(err).Msg("invalid wizard form")
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return nil, false
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	wz := d.Wizard
	wz.Notice = ""
	wz.ApplyForm(r.PostForm)
	if wz.Step == wizard.StepDescription {
		s.stageImage(r, wz)
	}
	return d, true
}

func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) error {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt != "multipart/form-data" {
		return r.ParseForm()
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+(1<<20))
	return r.ParseMultipartForm(multipartMemory)
}

// stageImage stores an uploaded image and replaces the previously staged one
func (s *Server) stageImage(r *http.Request, wz *wizard.Wizard) {
	ctx := r.Context()
	file, header, err := r.FormFile("image")
	if err != nil {
		if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
			logx.Ctx(ctx).Warn().Err(err).Msg("failed to read image upload")
		}
		return
	}
	defer file.Close()

	if header.Size == 0 {
		return
	}
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		logx.Ctx(ctx).Warn().Str("content_type", contentType).Msg("ignoring non-image upload")
		return
	}

	res, err := s.assets.Put(ctx, file, storage.PutInput{Filename: header.Filename, ContentType: contentType})
	if err != nil {
		logx.Ctx(ctx).Error().Err(err).Msg("failed to stage product image")
		return
	}

	if prev := wz.Values.Image; prev != nil {
		if err := s.assets.Delete(ctx, prev.Key); err != nil {
			logx.Ctx(ctx).Warn().Err(err).Str("key", prev.Key).Msg("failed to delete replaced image")
		}
	}
	wz.SetImage(models.ImageAsset{
		Key:         res.Key,
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        res.Size,
	})
}
