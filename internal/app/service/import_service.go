package service

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/meshur/storefront-backend/internal/app/model"
	"github.com/xuri/excelize/v2"
)

// ImportResult is what a catalog workbook yields.
type ImportResult struct {
	Products []model.Product

	Rows              int
	SkippedRows       int
	UnknownBrands     []string
	UnknownCategories []string
	DuplicateVariants int
}

// ReadCatalogWorkbook parses a workbook laid out like the export (one row per
// variant) back into products. Brand and category cells are matched by name
// against the given taxonomy; rows whose category is unknown are skipped,
// unknown brands leave the product without a brand.
func ReadCatalogWorkbook(r io.Reader, brands []model.Brand, categories []model.Category) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("no sheets found in workbook")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in workbook")
	}
	if err := checkHeader(rows[0]); err != nil {
		return nil, err
	}

	brandIDs := make(map[string]uint, len(brands))
	for _, b := range brands {
		brandIDs[strings.ToLower(b.Name)] = b.ID
	}
	categoryIDs := make(map[string]uint)
	for _, c := range model.FlattenCategories(categories) {
		categoryIDs[strings.ToLower(c.Name)] = c.ID
	}

	result := &ImportResult{Products: []model.Product{}}
	index := make(map[uint]int)
	seenVariants := make(map[uint]bool)
	unknownBrands := make(map[string]bool)
	unknownCategories := make(map[string]bool)

	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		result.Rows++

		rec, err := parseImportRow(row)
		if err != nil {
			result.SkippedRows++
			continue
		}

		categoryID, ok := categoryIDs[strings.ToLower(rec.category)]
		if !ok {
			if !unknownCategories[rec.category] {
				unknownCategories[rec.category] = true
				result.UnknownCategories = append(result.UnknownCategories, rec.category)
			}
			result.SkippedRows++
			continue
		}
		if seenVariants[rec.variant.ID] {
			result.DuplicateVariants++
			result.SkippedRows++
			continue
		}
		seenVariants[rec.variant.ID] = true

		i, ok := index[rec.productID]
		if !ok {
			p := model.Product{
				ID:          rec.productID,
				Name:        rec.name,
				Slug:        rec.slug,
				CategoryID:  categoryID,
				Status:      model.ProductStatusActive,
				Rating:      rec.rating,
				ReviewCount: rec.reviewCount,
				CreatedAt:   model.Timestamp{Time: rec.createdAt},
				UpdatedAt:   model.Timestamp{Time: rec.createdAt},
				Variants:    []model.ProductVariant{},
			}
			if rec.brand != "" {
				if id, found := brandIDs[strings.ToLower(rec.brand)]; found {
					brandID := id
					p.BrandID = &brandID
				} else if !unknownBrands[rec.brand] {
					unknownBrands[rec.brand] = true
					result.UnknownBrands = append(result.UnknownBrands, rec.brand)
				}
			}
			i = len(result.Products)
			index[rec.productID] = i
			result.Products = append(result.Products, p)
		}
		result.Products[i].Variants = append(result.Products[i].Variants, rec.variant)
	}

	return result, nil
}

func checkHeader(header []string) error {
	if len(header) < len(ExportColumns) {
		return fmt.Errorf("expected %d columns, header has %d", len(ExportColumns), len(header))
	}
	for i, col := range ExportColumns {
		if !strings.EqualFold(strings.TrimSpace(header[i]), col) {
			return fmt.Errorf("column %d: expected %q, got %q", i+1, col, header[i])
		}
	}
	return nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

type importRow struct {
	productID   uint
	slug        string
	name        string
	brand       string
	category    string
	variant     model.ProductVariant
	rating      float64
	reviewCount int
	createdAt   time.Time
}

func parseImportRow(row []string) (importRow, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	var rec importRow
	productID, err := strconv.ParseUint(cell(0), 10, 64)
	if err != nil || productID == 0 {
		return rec, fmt.Errorf("invalid product id %q", cell(0))
	}
	variantID, err := strconv.ParseUint(cell(5), 10, 64)
	if err != nil || variantID == 0 {
		return rec, fmt.Errorf("invalid variant id %q", cell(5))
	}
	rec.productID = uint(productID)
	rec.slug = cell(1)
	rec.name = cell(2)
	rec.brand = cell(3)
	rec.category = cell(4)
	if rec.slug == "" || rec.name == "" || rec.category == "" {
		return rec, fmt.Errorf("product %d: slug, name and category are required", productID)
	}

	price, err := strconv.ParseFloat(cell(8), 64)
	if err != nil || price < 0 {
		return rec, fmt.Errorf("variant %d: invalid price %q", variantID, cell(8))
	}
	stock, err := strconv.Atoi(cell(10))
	if err != nil || stock < 0 {
		return rec, fmt.Errorf("variant %d: invalid stock %q", variantID, cell(10))
	}

	rec.variant = model.ProductVariant{
		ID:         uint(variantID),
		SKU:        cell(6),
		Barcode:    cell(7),
		Price:      price,
		Stock:      stock,
		Thumbnails: []model.Image{},
		Options:    parseOptions(cell(11)),
	}
	if s := cell(9); s != "" {
		compareAt, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return rec, fmt.Errorf("variant %d: invalid compare-at price %q", variantID, s)
		}
		rec.variant.CompareAtPrice = &compareAt
	}

	if s := cell(12); s != "" {
		if rec.rating, err = strconv.ParseFloat(s, 64); err != nil {
			return rec, fmt.Errorf("product %d: invalid rating %q", productID, s)
		}
	}
	if s := cell(13); s != "" {
		if rec.reviewCount, err = strconv.Atoi(s); err != nil {
			return rec, fmt.Errorf("product %d: invalid review count %q", productID, s)
		}
	}
	if s := cell(14); s != "" {
		if rec.createdAt, err = time.Parse("2006-01-02", s); err != nil {
			return rec, fmt.Errorf("product %d: invalid created at %q", productID, s)
		}
	}
	return rec, nil
}

// parseOptions reads "Title: Value, Title: Value" back into options.
func parseOptions(s string) []model.VariantOption {
	options := []model.VariantOption{}
	if s == "" {
		return options
	}
	for i, part := range strings.Split(s, ",") {
		title, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		options = append(options, model.VariantOption{
			ID:    uint(i + 1),
			Title: strings.TrimSpace(title),
			Value: strings.TrimSpace(value),
		})
	}
	return options
}
