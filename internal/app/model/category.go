package model

type Category struct {
	ID               uint                `json:"id"`
	Name             string              `json:"name"`
	Slug             string              `json:"slug"`
	ParentCategoryID *uint               `json:"parent_category_id"`
	ImageID          *uint               `json:"image_id"`
	Image            *Image              `json:"image"`
	Children         []Category          `json:"children"`
	Attributes       []CategoryAttribute `json:"attributes"`
	ProductCount     int                 `json:"product_count,omitempty"`
}

type CategoryAttribute struct {
	InputType string   `json:"input_type"`
	Label     string   `json:"label"`
	Options   []string `json:"options"`
}

// The helpers below walk the category tree recursively; depth is bounded by
// the tree itself.

// FlattenCategories lists the tree in pre-order.
func FlattenCategories(categories []Category) []Category {
	var result []Category
	var walk func(c Category)
	walk = func(c Category) {
		result = append(result, c)
		for _, child := range c.Children {
			walk(child)
		}
	}
	for _, c := range categories {
		walk(c)
	}
	return result
}

func FindCategory(categories []Category, match func(*Category) bool) *Category {
	for i := range categories {
		if match(&categories[i]) {
			return &categories[i]
		}
		if found := FindCategory(categories[i].Children, match); found != nil {
			return found
		}
	}
	return nil
}

func FindCategoryBySlug(categories []Category, slug string) *Category {
	return FindCategory(categories, func(c *Category) bool { return c.Slug == slug })
}

func FindCategoryByID(categories []Category, id uint) *Category {
	return FindCategory(categories, func(c *Category) bool { return c.ID == id })
}

// CategoryBreadcrumbs returns the path from a root down to the category with
// the given slug, or an empty slice when no such category exists.
func CategoryBreadcrumbs(categories []Category, slug string) []Category {
	var walk func(cats []Category, path []Category) []Category
	walk = func(cats []Category, path []Category) []Category {
		for _, c := range cats {
			current := append(path[:len(path):len(path)], c)
			if c.Slug == slug {
				return current
			}
			if found := walk(c.Children, current); found != nil {
				return found
			}
		}
		return nil
	}
	if crumbs := walk(categories, nil); crumbs != nil {
		return crumbs
	}
	return []Category{}
}

func RootCategories(categories []Category) []Category {
	roots := []Category{}
	for _, c := range categories {
		if c.ParentCategoryID == nil {
			roots = append(roots, c)
		}
	}
	return roots
}

// SubcategoryIDs returns the id of c followed by every descendant id.
func SubcategoryIDs(c Category) []uint {
	ids := []uint{c.ID}
	var walk func(cat Category)
	walk = func(cat Category) {
		for _, child := range cat.Children {
			ids = append(ids, child.ID)
			walk(child)
		}
	}
	walk(c)
	return ids
}
