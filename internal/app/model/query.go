package model

type SortBy int

const (
	SortRecommended SortBy = iota
	SortPriceLowToHigh
	SortPriceHighToLow
	SortNewest
	SortBestSelling
	SortTopRated
	SortNameAZ
	SortNameZA
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
)

// ProductFilters holds the listing criteria. Nil pointers and zero values
// impose no constraint; a nil SortBy keeps catalog order.
type ProductFilters struct {
	CategorySlug string
	BrandID      *uint
	MinPrice     *float64
	MaxPrice     *float64
	InStock      bool
	SortBy       *SortBy
	Page         int
	PageSize     int
	Search       string
}

type PaginatedResponse[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}
