//go:build !integration

package apiresponse

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 10, 45)
	assert.Equal(t, 2, p.Current)
	assert.Equal(t, 10, p.PageSize)
	assert.Equal(t, int64(45), p.Total)
	assert.Equal(t, 5, p.TotalPages)

	assert.Equal(t, 0, NewPagination(1, 10, 0).TotalPages)
	assert.Equal(t, 1, NewPagination(1, 10, 10).TotalPages)
}

func TestNewFeedPagination(t *testing.T) {
	middle := NewFeedPagination(2, 10, 45)
	assert.True(t, middle.HasNext)
	assert.True(t, middle.HasPrev)

	first := NewFeedPagination(1, 10, 45)
	assert.True(t, first.HasNext)
	assert.False(t, first.HasPrev)

	last := NewFeedPagination(5, 10, 45)
	assert.False(t, last.HasNext)
	assert.True(t, last.HasPrev)
}

func pageQueryFor(t *testing.T, rawQuery string) (int, int) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+rawQuery, nil)
	return PageQuery(c)
}

func TestPageQuery(t *testing.T) {
	page, pageSize := pageQueryFor(t, "page=3&pageSize=25")
	assert.Equal(t, 3, page)
	assert.Equal(t, 25, pageSize)

	page, pageSize = pageQueryFor(t, "")
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, pageSize)

	page, pageSize = pageQueryFor(t, "page=-1&pageSize=9999")
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, pageSize)

	page, pageSize = pageQueryFor(t, "page=abc&pageSize=xyz")
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, pageSize)
}
