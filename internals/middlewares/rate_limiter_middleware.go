package middlewares

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	helper "examku_backend/internals/helpers"
)

// Global limiter: untuk semua endpoint biasa
func GlobalRateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests,
				"❌ Terlalu banyak permintaan. Silakan coba lagi nanti.")
		},
	})
}

// Limiter untuk operasi tulis yang commit ke DB (alokasi ujian, assign
// proctor, submit pairing). Staging pairing cuma ubah sesi in-memory.
func WriteRateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			if c.Method() == fiber.MethodGet || c.Method() == fiber.MethodOptions {
				return true
			}
			return isPairingStaging(c.Path())
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests,
				"❌ Terlalu banyak perubahan jadwal. Tunggu sebentar ya.")
		},
	})
}

// isPairingStaging: semua path di bawah /pairings kecuali .../submit
func isPairingStaging(path string) bool {
	path = strings.TrimSuffix(path, "/")
	i := strings.Index(path, "/pairings")
	if i < 0 {
		return false
	}
	rest := path[i+len("/pairings"):]
	if rest != "" && !strings.HasPrefix(rest, "/") {
		return false
	}
	return !strings.HasSuffix(rest, "/submit")
}
