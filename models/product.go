package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DiscountType tells whether a discount is a percentage or a flat amount
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFlat       DiscountType = "flat"
)

// ParseDiscountType returns the discount type named by s, if any
func ParseDiscountType(s string) (DiscountType, bool) {
	switch DiscountType(strings.ToLower(strings.TrimSpace(s))) {
	case DiscountPercentage:
		return DiscountPercentage, true
	case DiscountFlat:
		return DiscountFlat, true
	}
	return "", false
}

// Variant represents one axis of product variation, e.g. Color -> [Red, Blue]
type Variant struct {
	Option string   `json:"option" validate:"required"`
	Values []string `json:"values" validate:"min=1,dive,required"`
}

// Complete reports whether the variant can take part in combination generation
func (v Variant) Complete() bool {
	return strings.TrimSpace(v.Option) != "" && len(v.Values) > 0
}

// Equal compares option and values in order
func (v Variant) Equal(o Variant) bool {
	if v.Option != o.Option || len(v.Values) != len(o.Values) {
		return false
	}
	for i := range v.Values {
		if v.Values[i] != o.Values[i] {
			return false
		}
	}
	return true
}

// Combination is one SKU-level instance: one value picked from every variant
type Combination struct {
	SKU      string `json:"sku" validate:"required"`
	InStock  bool   `json:"inStock"`
	Quantity int    `json:"quantity" validate:"gte=0"`
	Label    string `json:"label,omitempty"` // Chosen values joined in variant order, e.g. "S /Red"
}

// ImageAsset points at a staged upload in asset storage
type ImageAsset struct {
	Key         string `json:"key" validate:"required"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size" validate:"gt=0"`
}

// ProductSubmission is everything sent to the backend when a product is created
type ProductSubmission struct {
	ProductName  string
	Category     string // Category ID
	Brand        string
	Image        ImageAsset
	Price        decimal.Decimal
	Discount     decimal.Decimal
	DiscountType DiscountType
	Variants     []Variant
	Combinations []Combination
}

// Listing converts the submission into the read model shown in the directory
func (s ProductSubmission) Listing() ProductListing {
	return ProductListing{
		Name:     s.ProductName,
		Price:    s.Price.String(),
		Brand:    s.Brand,
		PriceINR: s.Price.InexactFloat64(),
	}
}
