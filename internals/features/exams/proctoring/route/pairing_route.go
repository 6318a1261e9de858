package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"examku_backend/internals/features/exams/proctoring/controller"
	"examku_backend/internals/features/exams/proctoring/pairing"
	"examku_backend/internals/features/exams/transactions/service"
)

func PairingRoutes(r fiber.Router, svc *service.AllocationService, reg *pairing.Registry, v *validator.Validate) {
	ctl := controller.NewPairingController(svc, reg, v)

	g := r.Group("/pairings")
	g.Post("/", ctl.Open)
	g.Get("/:id", ctl.Get)
	g.Put("/:id/transaction", ctl.SelectTransaction)
	g.Put("/:id/assistant", ctl.SelectAssistant)
	g.Post("/:id/pairs", ctl.AddPair)
	g.Delete("/:id/pairs", ctl.ClearPairs)
	g.Delete("/:id/pairs/:index", ctl.RemovePair)
	g.Post("/:id/submit", ctl.Submit)
	g.Delete("/:id", ctl.Close)
}
