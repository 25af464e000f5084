package wizard

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/raushankrgupta/merchant-dashboard/models"
)

// ApplyForm copies the posted fields of the current step into the wizard.
// Only fields present in the form are touched; the image upload is handled by the caller.
func (w *Wizard) ApplyForm(form url.Values) {
	switch w.Step {
	case StepDescription:
		if has(form, "productName") || has(form, "category") || has(form, "brand") {
			w.SetDescription(form.Get("productName"), form.Get("category"), form.Get("brand"))
		}
	case StepVariants:
		if variants, ok := variantsFromForm(form, w.Values.Variants); ok {
			w.SetVariants(variants)
		}
	case StepCombinations:
		for i := range w.Values.Combinations {
			prefix := fmt.Sprintf("combinations[%d]", i)
			if !has(form, prefix+"[sku]") {
				continue
			}
			_ = w.SetCombination(i,
				form.Get(prefix+"[sku]"),
				ParseBool(form.Get(prefix+"[inStock]")),
				ParseQuantity(form.Get(prefix+"[quantity]")),
			)
		}
	case StepPricing:
		if has(form, "price") || has(form, "discount") {
			w.SetPricing(ParseAmount(form.Get("price")), ParseAmount(form.Get("discount")))
		}
		if t, ok := models.ParseDiscountType(form.Get("discountType")); ok {
			w.SetDiscountType(t)
		}
	}
}

func variantsFromForm(form url.Values, current []models.Variant) ([]models.Variant, bool) {
	variants := make([]models.Variant, 0, len(current))
	found := false
	for i, v := range current {
		prefix := fmt.Sprintf("variants[%d]", i)
		if !has(form, prefix+"[option]") {
			variants = append(variants, v)
			continue
		}
		found = true
		variants = append(variants, models.Variant{
			Option: form.Get(prefix + "[option]"),
			Values: SplitValues(form.Get(prefix + "[values]")),
		})
	}
	return variants, found
}

// SplitValues parses the comma separated value list of a variant row
func SplitValues(s string) []string {
	return NormalizeValues(strings.Split(s, ","))
}

// ParseAmount reads a price or discount; text that is not a number counts as 0
func ParseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseQuantity reads a stock quantity; text that is not a number counts as 0
func ParseQuantity(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// ParseBool accepts checkbox ("on") and literal ("true", "1") forms
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

func has(form url.Values, key string) bool {
	_, ok := form[key]
	return ok
}
