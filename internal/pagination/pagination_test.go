package pagination

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeItems(n int) []int {
	items := make([]int, n)
	for i := range items {
		items[i] = i + 1
	}
	return items
}

func TestPaginate_PageCounts(t *testing.T) {
	tests := []struct {
		name         string
		totalItems   int
		wantPages    int
		wantLastPage int
	}{
		{"single partial page", 3, 1, 3},
		{"exactly one page", 10, 1, 10},
		{"one item over", 11, 2, 1},
		{"several pages", 25, 3, 5},
		{"evenly divisible", 30, 3, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := makeItems(tt.totalItems)

			first := Paginate(items, 1, 10)
			assert.Equal(t, tt.wantPages, first.TotalPages)
			assert.Equal(t, tt.totalItems, first.TotalItems)

			last := Paginate(items, tt.wantPages, 10)
			assert.Len(t, last.Items, tt.wantLastPage)
			assert.False(t, last.HasNext)
		})
	}
}

func TestPaginate_MiddlePage(t *testing.T) {
	page := Paginate(makeItems(25), 2, 10)

	want := Page[int]{
		Items:       []int{11, 12, 13, 14, 15, 16, 17, 18, 19, 20},
		Number:      2,
		TotalPages:  3,
		TotalItems:  25,
		HasPrevious: true,
		HasNext:     true,
	}

	if diff := cmp.Diff(want, page); diff != "" {
		t.Errorf("Paginate mismatch (-want +got):\n%s", diff)
	}
}

func TestPaginate_ClampsBeyondLastPage(t *testing.T) {
	page := Paginate(makeItems(25), 99, 10)

	require.Equal(t, 3, page.Number)
	assert.Equal(t, []int{21, 22, 23, 24, 25}, page.Items)
	assert.True(t, page.HasPrevious)
	assert.False(t, page.HasNext)
}

func TestPaginate_EmptyCollection(t *testing.T) {
	page := Paginate([]int{}, 1, 10)

	assert.Empty(t, page.Items)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 1, page.TotalPages)
	assert.False(t, page.HasPrevious)
	assert.False(t, page.HasNext)
}

func TestPaginate_DefaultsInvalidPerPage(t *testing.T) {
	page := Paginate(makeItems(15), 1, 0)

	assert.Len(t, page.Items, DefaultPerPage)
	assert.Equal(t, 2, page.TotalPages)
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 1},
		{"abc", 1},
		{"0", 1},
		{"-3", 1},
		{"1", 1},
		{"7", 7},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParsePage(tt.raw), "ParsePage(%q)", tt.raw)
	}
}
