package catalog

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/raushankrgupta/merchant-dashboard/models"
)

const exportSheet = "Catalog"

var exportHeader = []interface{}{"Category", "Product", "Brand", "Price", "Price (INR)", "Image"}

// WriteXLSX writes the directory as a spreadsheet, one row per product.
// Categories without products get a single row with only the category name.
// imageURL resolves product image paths; nil leaves them as they are.
func WriteXLSX(w io.Writer, directory []models.CategoryProducts, imageURL func(string) string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := 2
	writeRow := func(values []interface{}) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		row++
		return f.SetSheetRow(exportSheet, cell, &values)
	}

	for _, entry := range directory {
		if len(entry.Products) == 0 {
			if err := writeRow([]interface{}{entry.Category.Name}); err != nil {
				return fmt.Errorf("write category %s: %w", entry.Category.Name, err)
			}
			continue
		}
		for _, p := range entry.Products {
			image := p.Image
			if imageURL != nil {
				image = imageURL(image)
			}
			values := []interface{}{entry.Category.Name, p.Name, p.Brand, p.Price, p.PriceINR, image}
			if err := writeRow(values); err != nil {
				return fmt.Errorf("write product %s: %w", p.Name, err)
			}
		}
	}

	if err := f.SetColWidth(exportSheet, "A", "F", 20); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
