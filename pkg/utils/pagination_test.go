package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestGetPaginationParams(t *testing.T) {
	e := echo.New()

	cases := []struct {
		query    string
		page     int
		pageSize int
		offset   int
	}{
		{"", 1, 30, 0},
		{"?page=3&limit=10", 3, 10, 20},
		{"?page=-2&limit=500", 1, 30, 0},
		{"?page=abc&limit=0", 1, 30, 0},
		{"?page=9223372036854775807&limit=100", MaxPage, 100, (MaxPage - 1) * 100},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/"+tc.query, nil)
		c := e.NewContext(req, httptest.NewRecorder())

		params := GetPaginationParams(c, 30)
		assert.Equal(t, tc.page, params.Page, tc.query)
		assert.Equal(t, tc.pageSize, params.PageSize, tc.query)
		assert.Equal(t, tc.offset, params.Offset, tc.query)
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 30))
	assert.Equal(t, 1, TotalPages(30, 30))
	assert.Equal(t, 2, TotalPages(31, 30))
	assert.Equal(t, 0, TotalPages(10, 0))
}
