// Package pagination provides the Page value type and page-number clamping
// used by every listing endpoint.
package pagination

import "strconv"

// Page is one slice of an ordered result set.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Number     int   `json:"page"`
	Size       int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
	TotalItems int64 `json:"total_items"`
}

// ParseNumber interprets a raw page query parameter. Non-numeric input and
// anything below 1 is treated as page 1; clamping against the upper bound
// happens later, once the total is known.
func ParseNumber(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// TotalPages returns the page count for total items at the given size.
// An empty result set still has one (empty) page.
func TotalPages(total int64, size int) int {
	if size <= 0 {
		return 1
	}
	pages := int((total + int64(size) - 1) / int64(size))
	if pages < 1 {
		pages = 1
	}
	return pages
}

// Clamp forces number into [1, TotalPages(total, size)]. Requests beyond the
// last page land on the last page instead of erroring.
func Clamp(number int, total int64, size int) int {
	if number < 1 {
		return 1
	}
	if last := TotalPages(total, size); number > last {
		return last
	}
	return number
}

// Window converts a clamped page number into a SQL offset.
func Window(number, size int) (limit, offset int) {
	return size, (number - 1) * size
}

// New assembles a Page from an already-sliced item window.
func New[T any](items []T, number, size int, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		Number:     number,
		Size:       size,
		TotalPages: TotalPages(total, size),
		TotalItems: total,
	}
}

// Slice paginates an in-memory list, clamping the page number the same way
// the store-backed paths do.
func Slice[T any](items []T, number, size int) Page[T] {
	total := int64(len(items))
	number = Clamp(number, total, size)
	start := (number - 1) * size
	if start > len(items) {
		start = len(items)
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return New(items[start:end], number, size, total)
}
