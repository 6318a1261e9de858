// file: internals/features/exams/transactions/controller/exam_transaction_controller.go
package controller

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"examku_backend/internals/features/exams/transactions/dto"
	"examku_backend/internals/features/exams/transactions/service"
	"examku_backend/internals/features/exams/transactions/specification"
	helper "examku_backend/internals/helpers"
	"examku_backend/internals/helpers/dbtime"
)

const (
	defaultPerPage = 20
	maxPerPage     = 200
)

/* =======================================================
   CONTROLLER
   ======================================================= */

type ExamTransactionController struct {
	Svc      *service.AllocationService
	Validate *validator.Validate
}

func NewExamTransactionController(svc *service.AllocationService, v *validator.Validate) *ExamTransactionController {
	return &ExamTransactionController{Svc: svc, Validate: v}
}

// GET /transactions?date=&room=&subject_code=&shift_code=&proctor=&page=&per_page=
func (ctl *ExamTransactionController) List(c *fiber.Ctx) error {
	ctx := c.UserContext()

	criteria := specification.FromMap(c.Queries())
	rows, err := ctl.Svc.Search(ctx, criteria)
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	names, err := SubjectNames(ctx, ctl.Svc)
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	page, pg := helper.PageSlice(rows, helper.ResolvePaging(c, defaultPerPage, maxPerPage))
	return helper.JsonList(c, "ok", dto.FromModels(page, names), &pg)
}

// POST /transactions
func (ctl *ExamTransactionController) Create(c *fiber.Ctx) error {
	var req dto.AllocateExamRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	req.Normalize()
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.JsonValidation(c, err)
	}

	code, err := ctl.Svc.Allocate(c.UserContext(), req.ToInput())
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "Exam allocated successfully", dto.AllocateExamResponse{
		TransactionCode: code,
		Message:         "Exam allocated successfully",
	})
}

// PUT /transactions/:code/proctor
func (ctl *ExamTransactionController) AssignProctor(c *fiber.Ctx) error {
	code := strings.TrimSpace(c.Params("code"))
	if code == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "transaction_code wajib diisi")
	}

	var req dto.AssignProctorRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	req.AssistantNIM = strings.TrimSpace(req.AssistantNIM)
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.JsonValidation(c, err)
	}

	if err := ctl.Svc.AssignProctor(c.UserContext(), code, req.AssistantNIM); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "Proctor updated", fiber.Map{
		"transaction_code": code,
		"proctor":          req.AssistantNIM,
	})
}

// GET /occupancy?date=YYYY-MM-DD
func (ctl *ExamTransactionController) Occupancy(c *fiber.Ctx) error {
	date, err := dbtime.ParseDate(c.Query("date"))
	if err != nil {
		return helper.JsonValidationError(c, map[string][]string{"date": {err.Error()}})
	}

	mx, err := ctl.Svc.Occupancy(c.UserContext(), date)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromMatrix(mx))
}

// SubjectNames maps subject_code → subject_name for list responses.
func SubjectNames(ctx context.Context, svc *service.AllocationService) (map[string]string, error) {
	subjects, err := svc.Subjects(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(subjects))
	for _, s := range subjects {
		out[s.SubjectCode] = s.SubjectName
	}
	return out, nil
}
