// Package paging slices lists into fixed-size, 1-based pages.
package paging

// TotalPages returns ceil(count/perPage), which is 0 for an empty list.
// perPage must be positive.
func TotalPages(count, perPage int) int {
	mustPositive(perPage)
	if count <= 0 {
		return 0
	}
	return (count + perPage - 1) / perPage
}

// Page returns the items on page (1-based). Pages outside [1, TotalPages]
// are empty.
func Page[T any](items []T, perPage, page int) []T {
	mustPositive(perPage)
	if page < 1 {
		return nil
	}
	start := (page - 1) * perPage
	if start >= len(items) {
		return nil
	}
	end := min(start+perPage, len(items))
	return items[start:end]
}

func mustPositive(perPage int) {
	if perPage <= 0 {
		panic("paging: perPage must be positive")
	}
}

// Window tracks the current page over a list whose length may change.
// Navigation outside [1, Total] is ignored.
type Window struct {
	current int
	perPage int
	total   int
}

// NewWindow returns a window on page 1 over count items.
func NewWindow(perPage, count int) *Window {
	mustPositive(perPage)
	return &Window{current: 1, perPage: perPage, total: TotalPages(count, perPage)}
}

// Current is the 1-based page number.
func (w *Window) Current() int { return w.current }

// PerPage is the configured page size.
func (w *Window) PerPage() int { return w.perPage }

// Total is the number of pages.
func (w *Window) Total() int { return w.total }

// HasPrev reports whether Prev would move.
func (w *Window) HasPrev() bool { return w.current > 1 }

// HasNext reports whether Next would move.
func (w *Window) HasNext() bool { return w.current < w.total }

// GoToPage moves to page n. It reports whether the page changed; out of
// range pages are a no-op.
func (w *Window) GoToPage(n int) bool {
	if n < 1 || n > w.total {
		return false
	}
	w.current = n
	return true
}

// Next moves forward one page.
func (w *Window) Next() bool { return w.GoToPage(w.current + 1) }

// Prev moves back one page.
func (w *Window) Prev() bool { return w.GoToPage(w.current - 1) }

// Resize recomputes Total for count items and clamps the current page.
func (w *Window) Resize(count int) {
	w.total = TotalPages(count, w.perPage)
	if w.current > w.total {
		w.current = w.total
	}
	if w.current < 1 {
		w.current = 1
	}
}

// Reset recomputes Total and returns to page 1.
func (w *Window) Reset(count int) {
	w.current = 1
	w.Resize(count)
}

// Numbers lists the page numbers 1..Total.
func (w *Window) Numbers() []int {
	out := make([]int, w.total)
	for i := range out {
		out[i] = i + 1
	}
	return out
}
