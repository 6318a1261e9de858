package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"examku_backend/internals/features/exams/transactions/controller"
	"examku_backend/internals/features/exams/transactions/service"
)

func ExamTransactionRoutes(r fiber.Router, svc *service.AllocationService, v *validator.Validate) {
	ctl := controller.NewExamTransactionController(svc, v)

	trx := r.Group("/transactions")
	trx.Get("/", ctl.List)
	trx.Post("/", ctl.Create)
	trx.Put("/:code/proctor", ctl.AssignProctor)

	r.Get("/occupancy", ctl.Occupancy)
}
