package service

import (
	"bytes"
	"testing"

	"github.com/meshur/storefront-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows ...[]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	header := make([]interface{}, len(ExportColumns))
	for i, col := range ExportColumns {
		header[i] = col
	}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	return &buf
}

func TestReadCatalogWorkbook_RoundTripsExport(t *testing.T) {
	cat := testCatalog()
	var buf bytes.Buffer
	_, err := NewExportService(cat).WriteCatalogWorkbook(&buf)
	require.NoError(t, err)

	snap := cat.Snapshot()
	result, err := ReadCatalogWorkbook(&buf, snap.Brands, snap.Categories)
	require.NoError(t, err)

	assert.Equal(t, 6, result.Rows)
	assert.Zero(t, result.SkippedRows)
	assert.Empty(t, result.UnknownBrands)
	assert.Equal(t, []uint{1, 2, 3, 4, 5}, productIDs(result.Products))

	dress := result.Products[0]
	assert.Equal(t, "yazlik-elbise", dress.Slug)
	assert.Equal(t, uint(2), dress.CategoryID)
	require.NotNil(t, dress.BrandID)
	assert.Equal(t, uint(1), *dress.BrandID)
	assert.Equal(t, 4.6, dress.Rating)
	assert.Equal(t, 2025, dress.CreatedAt.Year())
	require.Len(t, dress.Variants, 2)
	assert.Equal(t, 180.0, dress.Variants[1].Price)
	assert.Equal(t, 0, dress.Variants[1].Stock)

	jeans := result.Products[1]
	require.NotNil(t, jeans.Variants[0].CompareAtPrice)
	assert.Equal(t, 1000.0, *jeans.Variants[0].CompareAtPrice)

	assert.Nil(t, result.Products[3].BrandID)
}

func TestReadCatalogWorkbook_SkipsBadRows(t *testing.T) {
	snap := testCatalog().Snapshot()
	buf := workbook(t,
		[]interface{}{7, "canta", "Çanta", "Koton", "Elbise", 701, "SKU-701", "", 320, "", 4, "Renk: Siyah, Beden: M", 4.1, 12, "2025-08-01"},
		[]interface{}{7, "canta", "Çanta", "Koton", "Elbise", 701, "SKU-701", "", 320, "", 4, "", "", "", ""},
		[]interface{}{8, "masa", "Masa", "Ikea", "Mobilya", 801, "", "", 900, "", 1, "", "", "", ""},
		[]interface{}{9, "vazo", "Vazo", "Ikea", "Ev", 901, "", "", "abc", "", 1, "", "", "", ""},
		[]interface{}{10, "kupa", "Kupa", "Ikea", "Ev", 1001, "", "", 45, "", 2, "", "", "", ""},
	)

	result, err := ReadCatalogWorkbook(buf, snap.Brands, snap.Categories)
	require.NoError(t, err)

	assert.Equal(t, 5, result.Rows)
	assert.Equal(t, 3, result.SkippedRows)
	assert.Equal(t, 1, result.DuplicateVariants)
	assert.Equal(t, []string{"Mobilya"}, result.UnknownCategories)
	assert.Equal(t, []string{"Ikea"}, result.UnknownBrands)
	require.Len(t, result.Products, 2)

	bag := result.Products[0]
	assert.Equal(t, []model.VariantOption{
		{ID: 1, Title: "Renk", Value: "Siyah"},
		{ID: 2, Title: "Beden", Value: "M"},
	}, bag.Variants[0].Options)

	mug := result.Products[1]
	assert.Equal(t, uint(3), mug.CategoryID)
	assert.Nil(t, mug.BrandID)
}

func TestReadCatalogWorkbook_RejectsWrongHeader(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"id", "name"}))
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)

	_, err = ReadCatalogWorkbook(&buf, nil, nil)
	assert.Error(t, err)
}
