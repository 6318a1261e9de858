package middlewares

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPairingStaging(t *testing.T) {
	cases := map[string]bool{
		"/api/exams/pairings":                 true,
		"/api/exams/pairings/abc/transaction": true,
		"/api/exams/pairings/abc/pairs/2":     true,
		"/api/exams/pairings/abc/submit":      false,
		"/api/exams/pairings/abc/submit/":     false,
		"/api/exams/transactions":             false,
		"/api/exams/pairingsx":                false,
	}
	for path, want := range cases {
		assert.Equal(t, want, isPairingStaging(path), path)
	}
}

func TestWriteRateLimiterSkipsStaging(t *testing.T) {
	app := fiber.New()
	g := app.Group("/api/exams", WriteRateLimiter())
	ok := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }
	g.Put("/pairings/:id/transaction", ok)
	g.Put("/pairings/:id/assistant", ok)
	g.Post("/pairings/:id/pairs", ok)
	g.Post("/pairings/:id/submit", ok)
	g.Post("/transactions", ok)

	send := func(method, path string) int {
		resp, err := app.Test(httptest.NewRequest(method, path, nil), -1)
		require.NoError(t, err)
		return resp.StatusCode
	}

	// tujuh pasang = 21 mutasi staging, tidak boleh kena limit
	for i := 0; i < 7; i++ {
		require.Equal(t, fiber.StatusOK, send("PUT", "/api/exams/pairings/s1/transaction"))
		require.Equal(t, fiber.StatusOK, send("PUT", "/api/exams/pairings/s1/assistant"))
		require.Equal(t, fiber.StatusOK, send("POST", "/api/exams/pairings/s1/pairs"))
	}

	for i := 0; i < 19; i++ {
		require.Equal(t, fiber.StatusOK, send("POST", "/api/exams/transactions"), i)
	}
	assert.Equal(t, fiber.StatusOK, send("POST", "/api/exams/pairings/s1/submit"))
	assert.Equal(t, fiber.StatusTooManyRequests, send("POST", "/api/exams/transactions"))
}
