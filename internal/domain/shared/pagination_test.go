package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPage(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		p := NewPage(0, 0)
		assert.Equal(t, 1, p.Number)
		assert.Equal(t, 10, p.Size)
		assert.Equal(t, 10, p.Limit())
		assert.Equal(t, 0, p.Offset())
	})

	t.Run("computes offset from page and size", func(t *testing.T) {
		p := NewPage(2, 5)
		assert.Equal(t, 5, p.Limit())
		assert.Equal(t, 5, p.Offset())
	})

	t.Run("keeps the all rows sentinel", func(t *testing.T) {
		p := NewPage(3, AllRows)
		assert.True(t, p.All())
		assert.Equal(t, AllRows, p.Limit())
		assert.Equal(t, 0, p.Offset())
	})

	t.Run("rejects sizes below the sentinel", func(t *testing.T) {
		p := NewPage(1, -7)
		assert.Equal(t, DefaultPageSize, p.Size)
	})
}

func TestPage_TotalPages(t *testing.T) {
	assert.Equal(t, 0, NewPage(1, 10).TotalPages(0))
	assert.Equal(t, 1, NewPage(1, 10).TotalPages(10))
	assert.Equal(t, 2, NewPage(1, 10).TotalPages(11))
	assert.Equal(t, 3, NewPage(1, 5).TotalPages(11))
	assert.Equal(t, 1, Unpaginated().TotalPages(42))
	assert.Equal(t, 0, Unpaginated().TotalPages(0))
}
