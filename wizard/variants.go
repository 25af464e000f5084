package wizard

import (
	"strings"

	"github.com/raushankrgupta/merchant-dashboard/models"
)

// LabelSeparator joins the chosen values of a combination label
const LabelSeparator = " /"

// DeriveCombinations returns one blank combination per element of the
// Cartesian product of the variants' value sets, in declaration order.
// Prior combinations are never carried over: every regeneration starts
// from sku="", inStock=false, quantity=0.
func DeriveCombinations(variants []models.Variant, prior []models.Combination) []models.Combination {
	tuples := [][]string{{}}
	for _, v := range variants {
		next := make([][]string, 0, len(tuples)*len(v.Values))
		for _, t := range tuples {
			for _, value := range v.Values {
				tuple := make([]string, len(t), len(t)+1)
				copy(tuple, t)
				next = append(next, append(tuple, value))
			}
		}
		tuples = next
	}

	out := make([]models.Combination, 0, len(tuples))
	for _, t := range tuples {
		out = append(out, models.Combination{Label: strings.Join(t, LabelSeparator)})
	}
	return out
}

// NormalizeValues trims values, drops blanks and collapses duplicates, keeping first-seen order
func NormalizeValues(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func allComplete(variants []models.Variant) bool {
	if len(variants) == 0 {
		return false
	}
	for _, v := range variants {
		if !v.Complete() {
			return false
		}
	}
	return true
}

// regenerate rebuilds combinations after a variant mutation, but only once every row is complete
func (w *Wizard) regenerate() {
	if allComplete(w.Values.Variants) {
		w.Values.Combinations = DeriveCombinations(w.Values.Variants, w.Values.Combinations)
	}
}

// SetVariants replaces the whole variant list. Nothing happens when the list is unchanged,
// so re-posting step 2 does not wipe the combinations entered on step 3.
func (w *Wizard) SetVariants(variants []models.Variant) bool {
	normalized := make([]models.Variant, len(variants))
	for i, v := range variants {
		normalized[i] = models.Variant{Option: strings.TrimSpace(v.Option), Values: NormalizeValues(v.Values)}
	}
	if variantsEqual(w.Values.Variants, normalized) {
		return false
	}
	w.Values.Variants = normalized
	w.regenerate()
	return true
}

// SetVariant edits a single row
func (w *Wizard) SetVariant(i int, option string, values []string) error {
	if i < 0 || i >= len(w.Values.Variants) {
		return ErrIndex
	}
	variants := append([]models.Variant(nil), w.Values.Variants...)
	variants[i] = models.Variant{Option: option, Values: values}
	w.SetVariants(variants)
	return nil
}

// AddVariant appends a blank row when the list is empty or its last row is complete
func (w *Wizard) AddVariant() error {
	variants := w.Values.Variants
	if len(variants) > 0 && !variants[len(variants)-1].Complete() {
		w.StepError = ErrMsgIncompleteOption
		return ErrIncompleteRow
	}
	w.StepError = ""
	w.Values.Variants = append(w.Values.Variants, models.Variant{Option: "", Values: []string{}})
	return nil
}

// RemoveVariant deletes a row and regenerates combinations from the rest
func (w *Wizard) RemoveVariant(i int) error {
	if i < 0 || i >= len(w.Values.Variants) {
		return ErrIndex
	}
	w.Values.Variants = append(w.Values.Variants[:i:i], w.Values.Variants[i+1:]...)
	w.regenerate()
	return nil
}

// SetCombination edits the stock fields of one row; quantity is forced to 0 when out of stock
func (w *Wizard) SetCombination(i int, sku string, inStock bool, quantity int) error {
	if i < 0 || i >= len(w.Values.Combinations) {
		return ErrIndex
	}
	c := &w.Values.Combinations[i]
	c.SKU = strings.TrimSpace(sku)
	c.InStock = inStock
	c.Quantity = quantity
	if !inStock {
		c.Quantity = 0
	}
	return nil
}

// SetInStock toggles availability of one row
func (w *Wizard) SetInStock(i int, inStock bool) error {
	if i < 0 || i >= len(w.Values.Combinations) {
		return ErrIndex
	}
	c := &w.Values.Combinations[i]
	c.InStock = inStock
	if !inStock {
		c.Quantity = 0
	}
	return nil
}

// AddCombination appends a blank row unless some row still lacks an SKU
// or is in stock without a positive quantity. Rejections are silent.
func (w *Wizard) AddCombination() bool {
	for _, c := range w.Values.Combinations {
		if c.SKU == "" || (c.InStock && c.Quantity <= 0) {
			return false
		}
	}
	w.Values.Combinations = append(w.Values.Combinations, models.Combination{})
	return true
}

// RemoveCombination deletes a row
func (w *Wizard) RemoveCombination(i int) error {
	if i < 0 || i >= len(w.Values.Combinations) {
		return ErrIndex
	}
	w.Values.Combinations = append(w.Values.Combinations[:i:i], w.Values.Combinations[i+1:]...)
	return nil
}

// DuplicateSKUs returns the indexes of rows whose non-empty SKU already appeared earlier
func DuplicateSKUs(combinations []models.Combination) []int {
	var dups []int
	seen := make(map[string]struct{}, len(combinations))
	for i, c := range combinations {
		if c.SKU == "" {
			continue
		}
		if _, ok := seen[c.SKU]; ok {
			dups = append(dups, i)
			continue
		}
		seen[c.SKU] = struct{}{}
	}
	return dups
}

func variantsEqual(a, b []models.Variant) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
