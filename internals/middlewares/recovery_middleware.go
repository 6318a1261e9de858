package middlewares

import (
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"examku_backend/internals/configs"
)

// RecoveryMiddleware menangkap panic dan mengembalikan error 500
func RecoveryMiddleware() fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			configs.Log.WithFields(map[string]interface{}{
				"request_id": c.Locals("request_id"),
				"method":     c.Method(),
				"path":       c.Path(),
				"panic":      fmt.Sprint(e),
			}).Error("🔥 panic recovered\n" + string(debug.Stack()))
		},
	})
}
