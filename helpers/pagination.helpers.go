package helpers

import (
	"SOCIAL_server/schemas"
	"math"
	"strconv"
)

// NormalizePage defaults a missing or non-positive page to 1
func NormalizePage(page int) int {
	if page <= 0 {
		return 1
	}
	return page
}

// NormalizePageSize keeps page sizes at least 1
func NormalizePageSize(size int) int {
	if size < 1 {
		return 1
	}
	return size
}

// ParsePage parses a page route parameter, falling back to 1
func ParsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	return NormalizePage(page)
}

// PageOffset returns the amount of items preceding page, saturating at math.MaxInt
func PageOffset(page int, size int) int {
	page = NormalizePage(page)
	size = NormalizePageSize(size)
	if page-1 > math.MaxInt/size {
		return math.MaxInt
	}
	return (page - 1) * size
}

// PageCount returns ceil(total / size)
func PageCount(total int, size int) int {
	size = NormalizePageSize(size)
	if total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// NewPage builds a page envelope around already sliced items
func NewPage[T any](items []T, total int, page int, size int) schemas.PageSchema[T] {
	if items == nil {
		items = []T{}
	}
	return schemas.PageSchema[T]{
		Items:     items,
		Total:     total,
		PageCount: PageCount(total, size),
		Page:      NormalizePage(page),
	}
}

// SlicePage returns the items of all that belong to page
func SlicePage[T any](all []T, page int, size int) []T {
	offset := PageOffset(page, size)
	if offset < 0 || offset >= len(all) {
		return []T{}
	}
	end := len(all)
	if rest := len(all) - offset; rest > NormalizePageSize(size) {
		end = offset + NormalizePageSize(size)
	}
	return all[offset:end]
}
