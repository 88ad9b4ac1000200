// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

// Package pagination slices ordered collections into fixed-size pages and
// derives the page numbers shown in navigation controls.
package pagination

// WindowSize is the maximum number of page links shown at once.
const WindowSize = 5

// Page is one slice of a paginated collection.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
	TotalItems int `json:"totalItems"`
	PageSize   int `json:"pageSize"`
}

// TotalPages returns ceil(n/size). An empty collection still has one page so
// navigation controls always have a valid current page.
func TotalPages(n, size int) int {
	if size < 1 {
		size = 1
	}
	if n <= 0 {
		return 1
	}
	return (n + size - 1) / size
}

// Paginate returns page number page (1-based) of items. A page outside
// [1, TotalPages] yields an empty, non-nil Items slice and no error; callers
// clamp with the returned TotalPages. A size below 1 is treated as 1.
// Items shares the backing array of the input.
func Paginate[T any](items []T, size, page int) Page[T] {
	if size < 1 {
		size = 1
	}
	total := TotalPages(len(items), size)
	out := Page[T]{
		Items:      []T{},
		Page:       page,
		TotalPages: total,
		TotalItems: len(items),
		PageSize:   size,
	}
	if page < 1 || page > total {
		return out
	}
	start := (page - 1) * size
	if start >= len(items) {
		return out
	}
	end := min(start+size, len(items))
	out.Items = items[start:end:end]
	return out
}

// Clamp limits page to [1, total].
func Clamp(page, total int) int {
	if total < 1 {
		total = 1
	}
	return max(1, min(page, total))
}

// Window returns up to WindowSize contiguous page numbers around current:
// all pages when total <= 5, pages 1..5 near the start, the last five near
// the end, and current-2..current+2 otherwise.
func Window(current, total int) []int {
	if total < 1 {
		total = 1
	}
	var first int
	switch {
	case total <= WindowSize:
		first = 1
	case current <= 3:
		first = 1
	case current >= total-2:
		first = total - WindowSize + 1
	default:
		first = current - 2
	}
	last := min(first+WindowSize-1, total)
	out := make([]int, 0, last-first+1)
	for p := first; p <= last; p++ {
		out = append(out, p)
	}
	return out
}
