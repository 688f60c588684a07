package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginationOffsetAndLimit(t *testing.T) {
	tests := []struct {
		name   string
		p      Pagination
		offset int
		limit  int
	}{
		{"zero value", Pagination{}, 0, 10},
		{"first page", Pagination{Page: 1, PageSize: 20}, 0, 20},
		{"second page", Pagination{Page: 2, PageSize: 20}, 20, 20},
		{"negative page size falls back", Pagination{Page: 3, PageSize: -1}, 20, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.offset, tt.p.Offset())
			assert.Equal(t, tt.limit, tt.p.Limit())
		})
	}
}

func TestPaginationWindow(t *testing.T) {
	start, end := Pagination{Page: 1, PageSize: 5}.window(12)
	assert.Equal(t, [2]int{0, 5}, [2]int{start, end})

	start, end = Pagination{Page: 3, PageSize: 5}.window(12)
	assert.Equal(t, [2]int{10, 12}, [2]int{start, end})

	start, end = Pagination{Page: 9, PageSize: 5}.window(12)
	assert.Equal(t, [2]int{12, 12}, [2]int{start, end}, "past the end is empty")

	start, end = Pagination{}.window(0)
	assert.Equal(t, [2]int{0, 0}, [2]int{start, end})
}
