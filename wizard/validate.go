package wizard

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/raushankrgupta/merchant-dashboard/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Field paths use the json names, e.g. combinations[0].sku
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})

	v.RegisterStructValidation(func(sl validator.StructLevel) {
		c := sl.Current().Interface().(models.Combination)
		if c.InStock && c.Quantity <= 0 {
			sl.ReportError(c.Quantity, "quantity", "Quantity", "instock", "")
		}
	}, models.Combination{})

	return v
}

type variantsForm struct {
	Variants []models.Variant `json:"variants" validate:"min=1,dive"`
}

type combinationsForm struct {
	Combinations []models.Combination `json:"combinations" validate:"min=1,dive"`
}

// ValidateStep checks the fields that belong to one step
func (w *Wizard) ValidateStep(s Step) Errors {
	var err error
	switch s {
	case StepDescription:
		err = validate.Struct(w.Values.Description)
	case StepVariants:
		err = validate.Struct(variantsForm{Variants: w.Values.Variants})
	case StepCombinations:
		err = validate.Struct(combinationsForm{Combinations: w.Values.Combinations})
	case StepPricing:
		err = validate.Struct(w.Values.Pricing)
	default:
		return Errors{}
	}

	errs := fromValidationError(err)
	switch s {
	case StepDescription:
		w.checkCategory(errs)
	case StepCombinations:
		checkDuplicates(w.Values.Combinations, errs)
	}
	return errs
}

// Validate checks the whole form
func (w *Wizard) Validate() Errors {
	errs := fromValidationError(validate.Struct(w.Values))
	w.checkCategory(errs)
	checkDuplicates(w.Values.Combinations, errs)
	return errs
}

func (w *Wizard) checkCategory(errs Errors) {
	if _, ok := errs["category"]; ok {
		return
	}
	if !w.hasCategory(w.Values.Category) {
		errs["category"] = "Select an existing category"
	}
}

func checkDuplicates(combinations []models.Combination, errs Errors) {
	for _, i := range DuplicateSKUs(combinations) {
		key := fmt.Sprintf("combinations[%d].sku", i)
		if _, ok := errs[key]; !ok {
			errs[key] = "SKU must be unique"
		}
	}
}

func fromValidationError(err error) Errors {
	out := Errors{}
	if err == nil {
		return out
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		out["_"] = "Form values are invalid"
		return out
	}
	for _, fe := range ve {
		key := fieldKey(fe.Namespace())
		if _, ok := out[key]; ok {
			continue
		}
		out[key] = messageFor(key, fe.Tag())
	}
	return out
}

// fieldKey turns "Values.Description.productName" into "productName"
// and "combinationsForm.combinations[0].sku" into "combinations[0].sku"
func fieldKey(namespace string) string {
	key := namespace
	if i := strings.Index(key, "."); i >= 0 {
		key = key[i+1:]
	}
	key = strings.TrimPrefix(key, "Description.")
	key = strings.TrimPrefix(key, "Pricing.")
	if strings.HasPrefix(key, "image") {
		return "image"
	}
	// A blank entry inside a value list reports on the list itself
	if i := strings.Index(key, ".values["); i >= 0 {
		return key[:i] + ".values"
	}
	return key
}

func messageFor(key, tag string) string {
	field := key
	if i := strings.LastIndex(field, "."); i >= 0 {
		field = field[i+1:]
	}

	switch field {
	case "productName":
		return "Product name is required"
	case "category":
		return "Category is required"
	case "brand":
		return "Brand is required"
	case "image":
		return "Image is required"
	case "variants":
		return "At least one variant is required"
	case "combinations":
		return "At least one combination is required"
	case "option":
		return "Option is required"
	case "values":
		return "At least one value is required"
	case "sku":
		return "SKU is required"
	case "quantity":
		if tag == "instock" {
			return "Quantity must be greater than 0"
		}
		return "Quantity must be 0 or greater"
	case "price":
		return "Price cannot be negative"
	case "discount":
		return "Discount cannot be negative"
	case "discountType":
		return "Discount type must be percentage or flat"
	}
	return "Invalid value"
}
