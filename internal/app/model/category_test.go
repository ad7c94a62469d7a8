package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint { return &v }

func testCategoryTree() []Category {
	return []Category{
		{
			ID: 1, Name: "Giyim", Slug: "giyim",
			Children: []Category{
				{
					ID: 2, Name: "Kadın", Slug: "kadin", ParentCategoryID: uintPtr(1),
					Children: []Category{
						{ID: 4, Name: "Elbise", Slug: "elbise", ParentCategoryID: uintPtr(2)},
					},
				},
				{ID: 3, Name: "Erkek", Slug: "erkek", ParentCategoryID: uintPtr(1)},
			},
		},
		{ID: 5, Name: "Ev", Slug: "ev"},
	}
}

func slugs(cats []Category) []string {
	out := make([]string, 0, len(cats))
	for _, c := range cats {
		out = append(out, c.Slug)
	}
	return out
}

func TestFlattenCategories(t *testing.T) {
	flat := FlattenCategories(testCategoryTree())
	assert.Equal(t, []string{"giyim", "kadin", "elbise", "erkek", "ev"}, slugs(flat))
}

func TestFindCategory(t *testing.T) {
	tree := testCategoryTree()

	found := FindCategoryBySlug(tree, "elbise")
	require.NotNil(t, found)
	assert.Equal(t, uint(4), found.ID)

	found = FindCategoryByID(tree, 3)
	require.NotNil(t, found)
	assert.Equal(t, "erkek", found.Slug)

	assert.Nil(t, FindCategoryBySlug(tree, "missing"))
}

func TestCategoryBreadcrumbs(t *testing.T) {
	tree := testCategoryTree()

	assert.Equal(t, []string{"giyim", "kadin", "elbise"}, slugs(CategoryBreadcrumbs(tree, "elbise")))
	assert.Equal(t, []string{"giyim", "erkek"}, slugs(CategoryBreadcrumbs(tree, "erkek")))
	assert.Equal(t, []string{"ev"}, slugs(CategoryBreadcrumbs(tree, "ev")))
	assert.Empty(t, CategoryBreadcrumbs(tree, "missing"))
}

func TestRootCategoriesAndSubcategoryIDs(t *testing.T) {
	tree := testCategoryTree()

	assert.Equal(t, []string{"giyim", "ev"}, slugs(RootCategories(tree)))
	assert.Equal(t, []uint{1, 2, 4, 3}, SubcategoryIDs(tree[0]))
	assert.Equal(t, []uint{5}, SubcategoryIDs(tree[1]))
}
