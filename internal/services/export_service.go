// internal/services/export_service.go
package services

import (
	"fmt"
	"io"

	"github.com/tealeg/xlsx"

	"github.com/javajoker/storefront-api/internal/models"
)

type ExportService struct {
	products *ProductService
}

var productExportHeaders = []string{
	"ID", "Name", "Description", "Category", "Price", "Stock",
	"Active", "Average Rating", "Image", "Created At", "Updated At",
}

func NewExportService(products *ProductService) *ExportService {
	return &ExportService{products: products}
}

// WriteProducts writes every product to w as an XLSX workbook with a
// single "Products" sheet.
func (s *ExportService) WriteProducts(w io.Writer) error {
	products, err := s.products.AllProducts()
	if err != nil {
		return err
	}

	file, err := buildProductWorkbook(products)
	if err != nil {
		return err
	}
	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func buildProductWorkbook(products []models.Product) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, h := range productExportHeaders {
		headerRow.AddCell().SetValue(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID.String())
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.Description)
		row.AddCell().SetValue(p.Category.Name)
		row.AddCell().SetValue(p.Price.InexactFloat64())
		row.AddCell().SetValue(p.Stock)
		row.AddCell().SetValue(p.IsActive)
		row.AddCell().SetValue(p.AverageRating)
		row.AddCell().SetValue(p.Image)
		row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetValue(p.UpdatedAt.Format("2006-01-02 15:04:05"))
	}

	return file, nil
}
