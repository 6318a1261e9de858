package route

import (
	"github.com/gofiber/fiber/v2"

	"examku_backend/internals/features/exams/catalogs/controller"
	"examku_backend/internals/features/exams/transactions/service"
)

func CatalogRoutes(r fiber.Router, svc *service.AllocationService) {
	ctl := controller.NewCatalogController(svc)

	r.Get("/rooms", ctl.Rooms)
	r.Get("/shifts", ctl.Shifts)
	r.Get("/subjects", ctl.Subjects)
	r.Get("/subjects/:code/enrollments", ctl.Enrollments)
	r.Get("/assistants", ctl.Assistants)
	r.Get("/users", ctl.Users)
}
