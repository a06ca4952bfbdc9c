package utils

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPagination(t *testing.T) {
	cases := []struct {
		name        string
		page, limit int
		wantPage    int
		wantLimit   int
		wantOffset  int
	}{
		{"defaults", 0, 0, 1, 20, 0},
		{"third page", 3, 10, 3, 10, 20},
		{"limit capped", 1, 500, 1, maxLimit, 0},
		{"negative", -2, -5, 1, 20, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPagination(tc.page, tc.limit)
			assert.Equal(t, tc.wantPage, p.Page)
			assert.Equal(t, tc.wantLimit, p.Limit)
			assert.Equal(t, tc.wantOffset, p.Offset)
		})
	}
}

func TestPaginationMeta(t *testing.T) {
	meta := NewPagination(2, 10).Meta(25)
	assert.Equal(t, int64(3), meta.TotalPages)
	assert.Equal(t, int64(25), meta.TotalItems)

	assert.Equal(t, int64(0), NewPagination(1, 10).Meta(0).TotalPages)
}

func TestParsePaginationFromQuery(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(ParsePagination(c))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/?page=2&limit=abc", nil))
	require.NoError(t, err)

	var p Pagination
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 20, p.Limit)
	assert.Equal(t, 20, p.Offset)
}
