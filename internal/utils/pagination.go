// Package utils holds small generic helpers shared by the status API layers.
package utils

import "strconv"

// Page bounds used by list endpoints.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// AtoiDefault parses s, returning def when s is empty or not an integer.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// ParsePage reads raw page and page_size values and clamps them to
// page >= 1 and 1 <= pageSize <= MaxPageSize.
func ParsePage(rawPage, rawSize string) (page, pageSize int) {
	page = max(AtoiDefault(rawPage, 1), 1)
	pageSize = min(max(AtoiDefault(rawSize, DefaultPageSize), 1), MaxPageSize)
	return page, pageSize
}

// Paginate returns the 1-based page of items. Pages past the end are empty,
// never nil, so they encode as [].
func Paginate[T any](items []T, page, pageSize int) []T {
	page = max(page, 1)
	if pageSize < 1 {
		return []T{}
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	return items[start:min(start+pageSize, len(items))]
}

// TotalPages is the number of pageSize pages needed for total items.
func TotalPages(total int64, pageSize int) int {
	if pageSize < 1 || total <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
