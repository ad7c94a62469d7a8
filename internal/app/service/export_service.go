package service

import (
	"fmt"
	"io"
	"time"

	"github.com/meshur/storefront-backend/internal/app/model"
	"github.com/meshur/storefront-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

const ExportSheetName = "Products"

// ExportColumns is the header row of the catalog workbook, one row per variant.
var ExportColumns = []string{
	"Product ID", "Slug", "Name", "Brand", "Category",
	"Variant ID", "SKU", "Barcode", "Price", "Compare At Price",
	"Stock", "Options", "Rating", "Review Count", "Created At",
}

type ExportService interface {
	WriteCatalogWorkbook(w io.Writer) (rows int, err error)
}

type exportService struct {
	catalog CatalogProvider
}

func NewExportService(catalog CatalogProvider) ExportService {
	return &exportService{catalog: catalog}
}

func (s *exportService) WriteCatalogWorkbook(w io.Writer) (int, error) {
	start := time.Now()
	products := s.catalog.Snapshot().Products

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ExportSheetName); err != nil {
		return 0, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(ExportColumns))
	for i, col := range ExportColumns {
		header[i] = col
	}
	if err := f.SetSheetRow(ExportSheetName, "A1", &header); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	rows := 0
	for _, p := range products {
		for _, v := range p.Variants {
			rows++
			cell, err := excelize.CoordinatesToCellName(1, rows+1)
			if err != nil {
				return 0, err
			}
			row := exportRow(p, v)
			if err := f.SetSheetRow(ExportSheetName, cell, &row); err != nil {
				return 0, fmt.Errorf("failed to write row %d: %w", rows+1, err)
			}
		}
	}

	if err := f.SetPanes(ExportSheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return 0, fmt.Errorf("failed to freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return 0, fmt.Errorf("failed to write workbook: %w", err)
	}

	logger.Info("Catalog exported", map[string]interface{}{
		"products":    len(products),
		"rows":        rows,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return rows, nil
}

func exportRow(p model.Product, v model.ProductVariant) []interface{} {
	brand := ""
	if p.Brand != nil {
		brand = p.Brand.Name
	}
	category := ""
	if p.Category != nil {
		category = p.Category.Name
	}
	var compareAt interface{} = ""
	if v.CompareAtPrice != nil {
		compareAt = *v.CompareAtPrice
	}
	options := ""
	for i, opt := range v.Options {
		if i > 0 {
			options += ", "
		}
		options += opt.Title + ": " + opt.Value
	}
	createdAt := ""
	if !p.CreatedAt.IsZero() {
		createdAt = p.CreatedAt.Format("2006-01-02")
	}

	return []interface{}{
		p.ID, p.Slug, p.Name, brand, category,
		v.ID, v.SKU, v.Barcode, v.Price, compareAt,
		v.Stock, options, p.Rating, p.ReviewCount, createdAt,
	}
}
