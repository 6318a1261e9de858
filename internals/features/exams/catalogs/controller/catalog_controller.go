package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"examku_backend/internals/features/exams/catalogs/directory"
	"examku_backend/internals/features/exams/transactions/service"
	helper "examku_backend/internals/helpers"
)

// CatalogController exposes the read-only reference tables.
type CatalogController struct {
	Svc *service.AllocationService
}

func NewCatalogController(svc *service.AllocationService) *CatalogController {
	return &CatalogController{Svc: svc}
}

// GET /rooms
func (ctl *CatalogController) Rooms(c *fiber.Ctx) error {
	rows, err := ctl.Svc.Rooms(c.UserContext())
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "ok", rows)
}

// GET /shifts
func (ctl *CatalogController) Shifts(c *fiber.Ctx) error {
	rows, err := ctl.Svc.Shifts(c.UserContext())
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "ok", rows)
}

// GET /subjects
func (ctl *CatalogController) Subjects(c *fiber.Ctx) error {
	rows, err := ctl.Svc.Subjects(c.UserContext())
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "ok", rows)
}

// GET /subjects/:code/enrollments
func (ctl *CatalogController) Enrollments(c *fiber.Ctx) error {
	code := strings.TrimSpace(c.Params("code"))
	if code == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "subject_code wajib diisi")
	}
	rows, err := ctl.Svc.Enrollments(c.UserContext(), code)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "ok", rows)
}

// GET /assistants
func (ctl *CatalogController) Assistants(c *fiber.Ctx) error {
	rows, err := ctl.Svc.Assistants(c.UserContext())
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "ok", rows)
}

// GET /users?q=&role=&initial=&page=&per_page=
func (ctl *CatalogController) Users(c *fiber.Ctx) error {
	rows, err := ctl.Svc.Users(c.UserContext(), directory.FromMap(c.Queries()))
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	page, pg := helper.PageSlice(rows, helper.ResolvePaging(c, 50, 500))
	return helper.JsonList(c, "ok", page, &pg)
}
