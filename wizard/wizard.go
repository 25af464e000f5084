// Package wizard holds the four-step product creation workflow: form values,
// per-step validation, variant/combination derivation and step transitions.
// A Wizard is plain data so it can be stored between requests as JSON.
package wizard

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/raushankrgupta/merchant-dashboard/models"
)

// Step is a wizard page, numbered from 1
type Step int

const (
	StepDescription Step = iota + 1
	StepVariants
	StepCombinations
	StepPricing
)

// Steps lists every step in order
var Steps = []Step{StepDescription, StepVariants, StepCombinations, StepPricing}

// Title is the tab label of the step
func (s Step) Title() string {
	switch s {
	case StepDescription:
		return "Description"
	case StepVariants:
		return "Variants"
	case StepCombinations:
		return "Combinations"
	case StepPricing:
		return "Price Info"
	}
	return ""
}

const (
	ErrMsgDuplicateSKU     = "Duplicate SKUs detected, please ensure all SKUs are unique."
	ErrMsgIncompleteOption = "Please fill out the previous variant fields before adding a new one."
)

var (
	// ErrStepLocked is returned when selecting a step that has not been reached yet
	ErrStepLocked = errors.New("step not reached yet")
	// ErrInvalid is returned when a transition or submission fails validation
	ErrInvalid = errors.New("form has validation errors")
	// ErrIncompleteRow is returned when a new row is requested before the last one is filled in
	ErrIncompleteRow = errors.New("previous row is incomplete")
	// ErrIndex is returned for a row index outside the list
	ErrIndex = errors.New("row index out of range")
)

// Description holds the fields of step 1
type Description struct {
	ProductName string             `json:"productName" validate:"required"`
	Category    string             `json:"category" validate:"required"`
	Brand       string             `json:"brand" validate:"required"`
	Image       *models.ImageAsset `json:"image" validate:"required"`
}

// Pricing holds the fields of step 4
type Pricing struct {
	Price        decimal.Decimal     `json:"price" validate:"gte=0"`
	Discount     decimal.Decimal     `json:"discount" validate:"gte=0"`
	DiscountType models.DiscountType `json:"discountType" validate:"oneof=percentage flat"`
}

// Values is the complete form
type Values struct {
	Description
	Variants     []models.Variant     `json:"variants" validate:"min=1,dive"`
	Combinations []models.Combination `json:"combinations" validate:"min=1,dive"`
	Pricing
}

// Errors maps a field path such as "combinations[1].sku" to a message
type Errors map[string]string

// Wizard is the state of one in-progress product submission
type Wizard struct {
	Step       Step              `json:"step"`
	Values     Values            `json:"values"`
	Errors     Errors            `json:"errors,omitempty"`
	StepError  string            `json:"stepError,omitempty"`
	Notice     string            `json:"notice,omitempty"` // Blocking alert, e.g. a failed submission
	Categories []models.Category `json:"categories"`       // Choices for the category field
}

// New starts a wizard on step 1 with one blank variant row and one blank combination row
func New(categories []models.Category) *Wizard {
	return &Wizard{
		Step: StepDescription,
		Values: Values{
			Variants:     []models.Variant{{Option: "", Values: []string{}}},
			Combinations: []models.Combination{{}},
			Pricing: Pricing{
				Price:        decimal.Zero,
				Discount:     decimal.Zero,
				DiscountType: models.DiscountPercentage,
			},
		},
		Errors:     Errors{},
		Categories: categories,
	}
}

// CanSelect reports whether the tab for step k is enabled
func (w *Wizard) CanSelect(k Step) bool {
	return k >= StepDescription && k <= w.Step
}

// Select jumps back to an already reached step without validation
func (w *Wizard) Select(k Step) error {
	if !w.CanSelect(k) {
		return ErrStepLocked
	}
	w.Step = k
	return nil
}

// Previous moves one step back; it never validates
func (w *Wizard) Previous() {
	if w.Step > StepDescription {
		w.Step--
	}
}

// Next validates the current step and advances when it passes.
// On step 3 duplicate SKUs block the transition with a step-level error.
func (w *Wizard) Next() error {
	w.StepError = ""
	errs := w.ValidateStep(w.Step)
	w.Errors = errs
	if w.Step == StepCombinations {
		if len(DuplicateSKUs(w.Values.Combinations)) > 0 {
			w.StepError = ErrMsgDuplicateSKU
			return ErrInvalid
		}
	}
	if len(errs) > 0 {
		return ErrInvalid
	}
	if w.Step < StepPricing {
		w.Step++
	}
	return nil
}

// IsValid reports whether every rule of every step passes
func (w *Wizard) IsValid() bool {
	return len(w.Validate()) == 0
}

// Submission packages the form for the backend; it fails unless IsValid
func (w *Wizard) Submission() (models.ProductSubmission, error) {
	if errs := w.Validate(); len(errs) > 0 {
		w.Errors = errs
		return models.ProductSubmission{}, ErrInvalid
	}
	v := w.Values
	return models.ProductSubmission{
		ProductName:  v.ProductName,
		Category:     v.Category,
		Brand:        v.Brand,
		Image:        *v.Image,
		Price:        v.Price,
		Discount:     v.Discount,
		DiscountType: v.DiscountType,
		Variants:     append([]models.Variant(nil), v.Variants...),
		Combinations: append([]models.Combination(nil), v.Combinations...),
	}, nil
}

// SetDescription updates the text fields of step 1
func (w *Wizard) SetDescription(productName, category, brand string) {
	w.Values.ProductName = strings.TrimSpace(productName)
	w.Values.Category = strings.TrimSpace(category)
	w.Values.Brand = strings.TrimSpace(brand)
}

// SetImage records the staged image upload
func (w *Wizard) SetImage(img models.ImageAsset) {
	w.Values.Image = &img
}

// SetPricing updates price and discount
func (w *Wizard) SetPricing(price, discount decimal.Decimal) {
	w.Values.Price = price
	w.Values.Discount = discount
}

// SetDiscountType switches between percentage and flat discounts
func (w *Wizard) SetDiscountType(t models.DiscountType) {
	w.Values.DiscountType = t
}

// CategoryName returns the name of the selected category
func (w *Wizard) CategoryName() string {
	for _, c := range w.Categories {
		if c.ID == w.Values.Category {
			return c.Name
		}
	}
	return ""
}

func (w *Wizard) hasCategory(id string) bool {
	for _, c := range w.Categories {
		if c.ID == id {
			return true
		}
	}
	return false
}
