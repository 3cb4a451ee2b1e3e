package paging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 6))
	assert.Equal(t, 1, TotalPages(1, 6))
	assert.Equal(t, 1, TotalPages(6, 6))
	assert.Equal(t, 2, TotalPages(7, 6))
	assert.Equal(t, 2, TotalPages(8, 6))
	assert.Equal(t, 8, TotalPages(8, 1))
}

func TestPagePanicsOnNonPositiveSize(t *testing.T) {
	assert.Panics(t, func() { Page(seq(3), 0, 1) })
	assert.Panics(t, func() { TotalPages(3, -1) })
	assert.Panics(t, func() { NewWindow(0, 3) })
}

func TestPagesReassemble(t *testing.T) {
	for n := 0; n <= 20; n++ {
		for k := 1; k <= 7; k++ {
			items := seq(n)
			var got []int
			for p := 1; p <= TotalPages(n, k); p++ {
				got = append(got, Page(items, k, p)...)
			}
			if n == 0 {
				assert.Empty(t, got)
				continue
			}
			assert.Equal(t, items, got, "n=%d k=%d", n, k)
		}
	}
}

func TestPageOutOfRange(t *testing.T) {
	items := seq(8)
	assert.Nil(t, Page(items, 6, 0))
	assert.Nil(t, Page(items, 6, 3))
	assert.Nil(t, Page([]int{}, 6, 1))
}

func TestWindowEightBySix(t *testing.T) {
	items := seq(8)
	w := NewWindow(6, len(items))

	assert.Equal(t, 2, w.Total())
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, Page(items, w.PerPage(), w.Current()))
	assert.False(t, w.HasPrev())

	assert.True(t, w.Next())
	assert.Equal(t, []int{7, 8}, Page(items, w.PerPage(), w.Current()))
	assert.False(t, w.HasNext())

	assert.False(t, w.Next())
	assert.Equal(t, 2, w.Current())
}

func TestWindowBoundaries(t *testing.T) {
	w := NewWindow(3, 10)

	assert.False(t, w.Prev())
	assert.False(t, w.GoToPage(0))
	assert.False(t, w.GoToPage(w.Total()+1))
	assert.Equal(t, 1, w.Current())

	assert.True(t, w.GoToPage(4))
	assert.False(t, w.GoToPage(5))
	assert.Equal(t, 4, w.Current())
	assert.Equal(t, []int{1, 2, 3, 4}, w.Numbers())
}

func TestWindowResizeClamps(t *testing.T) {
	w := NewWindow(2, 10)
	w.GoToPage(5)

	w.Resize(5)
	assert.Equal(t, 3, w.Total())
	assert.Equal(t, 3, w.Current())

	w.Resize(0)
	assert.Equal(t, 0, w.Total())
	assert.Equal(t, 1, w.Current())
	assert.False(t, w.HasNext())
	assert.False(t, w.Next())
	assert.Empty(t, w.Numbers())

	w.Resize(10)
	assert.Equal(t, 1, w.Current())
}

func TestWindowReset(t *testing.T) {
	w := NewWindow(2, 10)
	w.GoToPage(3)

	w.Reset(8)
	assert.Equal(t, 1, w.Current())
	assert.Equal(t, 4, w.Total())
}
