package helper

import (
	"github.com/gofiber/fiber/v2"
)

// FiberErrorHandler dipasang di fiber.Config.ErrorHandler supaya error
// yang lolos dari handler (404 route, body limit, panic recover, dst.)
// tetap keluar dengan envelope yang sama.
func FiberErrorHandler(c *fiber.Ctx, err error) error {
	if fe, ok := err.(*fiber.Error); ok {
		return JsonError(c, fe.Code, fe.Message)
	}
	return JsonFromError(c, err)
}
