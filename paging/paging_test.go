package paging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestPager_Standings(t *testing.T) {
	p := New(seq(17), 8)

	assert.Equal(t, 3, p.TotalPages())
	assert.Equal(t, 0, p.Page())
	assert.Equal(t, seq(8), p.Items())

	// Page 2 covers [16, 24): only the 17th item.
	assert.Equal(t, 2, p.SetPage(5))
	assert.Equal(t, []int{17}, p.Items())
}

func TestPager_SetPageClamps(t *testing.T) {
	tests := []struct {
		name  string
		total int
		size  int
		page  int
		want  int
	}{
		{name: "in range", total: 20, size: 5, page: 2, want: 2},
		{name: "negative", total: 20, size: 5, page: -3, want: 0},
		{name: "past the end", total: 20, size: 5, page: 4, want: 3},
		{name: "exact multiple", total: 16, size: 8, page: 2, want: 1},
		{name: "empty collection", total: 0, size: 8, page: 3, want: 0},
		{name: "zero size treated as one", total: 3, size: 0, page: 9, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(seq(tt.total), tt.size)
			assert.Equal(t, tt.want, p.SetPage(tt.page))
			assert.Equal(t, tt.want, p.Page())
		})
	}
}

func TestPager_ShrinkingCollectionClamps(t *testing.T) {
	p := New(seq(17), 8)
	p.SetPage(2)

	p.SetItems(seq(9))
	assert.Equal(t, 1, p.Page())
	assert.Equal(t, []int{9}, p.Items())

	p.SetItems(nil)
	assert.Equal(t, 0, p.Page())
	assert.Equal(t, 1, p.TotalPages())
	assert.Empty(t, p.Items())

	p.SetItems(seq(30))
	assert.Equal(t, 0, p.Page(), "growing does not move the page")
}

func TestPager_NextPrev(t *testing.T) {
	p := New(seq(13), 6)

	assert.False(t, p.HasPrev())
	assert.True(t, p.HasNext())
	assert.Equal(t, 1, p.Next())
	assert.Equal(t, 2, p.Next())
	assert.Equal(t, 2, p.Next())
	assert.False(t, p.HasNext())
	assert.Equal(t, 1, p.Prev())
	assert.Equal(t, 0, p.Prev())
	assert.Equal(t, 0, p.Prev())
}

func TestPager_RandomWalkStaysInRange(t *testing.T) {
	p := New(seq(25), 4)
	moves := []struct {
		page  int
		items int
	}{
		{page: 6, items: 25}, {page: 100, items: 3}, {page: -1, items: 0},
		{page: 2, items: 12}, {page: 3, items: 12}, {page: 7, items: 1},
	}

	for _, m := range moves {
		p.SetPage(m.page)
		p.SetItems(seq(m.items))
		page, total := p.Page(), p.TotalPages()
		require.GreaterOrEqual(t, page, 0)
		require.Less(t, page, total)
	}
}

func TestPager_Window(t *testing.T) {
	p := New([]string{"a", "b", "c"}, 2)
	p.SetPage(1)

	w := p.Window()
	assert.Equal(t, Window[string]{Page: 1, TotalPages: 2, PageSize: 2, Total: 3, Items: []string{"c"}}, w)

	// The returned page is a copy.
	w.Items[0] = "z"
	assert.Equal(t, []string{"c"}, p.Items())
}
