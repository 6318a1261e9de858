// file: internals/features/exams/proctoring/controller/pairing_controller.go
package controller

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"examku_backend/internals/constants"
	"examku_backend/internals/features/exams/proctoring/dto"
	"examku_backend/internals/features/exams/proctoring/pairing"
	trxController "examku_backend/internals/features/exams/transactions/controller"
	"examku_backend/internals/features/exams/transactions/service"
	helper "examku_backend/internals/helpers"
)

/* =======================================================
   CONTROLLER
   ======================================================= */

// PairingController drives staging sessions: pick a transaction and an
// assistant, stage the pair, repeat, then submit everything at once.
type PairingController struct {
	Svc      *service.AllocationService
	Registry *pairing.Registry
	Validate *validator.Validate
}

func NewPairingController(svc *service.AllocationService, reg *pairing.Registry, v *validator.Validate) *PairingController {
	return &PairingController{Svc: svc, Registry: reg, Validate: v}
}

// POST /pairings
func (ctl *PairingController) Open(c *fiber.Ctx) error {
	ctx := c.UserContext()
	b, err := ctl.Svc.NewPairingBuilder(ctx)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	names, err := trxController.SubjectNames(ctx, ctl.Svc)
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	s := ctl.Registry.Open(b)
	var view dto.SessionView
	_ = ctl.Registry.With(s.ID, func(b *pairing.Builder) error {
		view = dto.NewSessionView(s.ID, b, "", "", names)
		return nil
	})
	return helper.JsonCreated(c, "Pairing session opened", view)
}

// GET /pairings/:id?tq=&aq=
func (ctl *PairingController) Get(c *fiber.Ctx) error {
	return ctl.mutate(c, "ok", nil)
}

// PUT /pairings/:id/transaction
func (ctl *PairingController) SelectTransaction(c *fiber.Ctx) error {
	var req dto.SelectTransactionRequest
	if ok, err := ctl.bind(c, &req); !ok {
		return err
	}
	code := strings.TrimSpace(req.TransactionCode)
	return ctl.mutate(c, "Transaction selected", func(b *pairing.Builder) error {
		return b.SelectTransaction(code)
	})
}

// PUT /pairings/:id/assistant
func (ctl *PairingController) SelectAssistant(c *fiber.Ctx) error {
	var req dto.SelectAssistantRequest
	if ok, err := ctl.bind(c, &req); !ok {
		return err
	}
	nim := strings.TrimSpace(req.AssistantNIM)
	return ctl.mutate(c, "Assistant selected", func(b *pairing.Builder) error {
		return b.SelectAssistant(nim)
	})
}

// POST /pairings/:id/pairs
func (ctl *PairingController) AddPair(c *fiber.Ctx) error {
	return ctl.mutate(c, "Pair added", func(b *pairing.Builder) error {
		if !b.AddPair() {
			return constants.ErrIncompletePair
		}
		return nil
	})
}

// DELETE /pairings/:id/pairs/:index
func (ctl *PairingController) RemovePair(c *fiber.Ctx) error {
	idx, err := c.ParamsInt("index")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "index tidak valid")
	}
	return ctl.mutate(c, "Pair removed", func(b *pairing.Builder) error {
		_, err := b.RemovePair(idx)
		return err
	})
}

// DELETE /pairings/:id/pairs
func (ctl *PairingController) ClearPairs(c *fiber.Ctx) error {
	return ctl.mutate(c, "Staged pairs cleared", func(b *pairing.Builder) error {
		b.Reset()
		return nil
	})
}

// POST /pairings/:id/submit
func (ctl *PairingController) Submit(c *fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "session id tidak valid")
	}
	ctx := c.UserContext()
	names, err := trxController.SubjectNames(ctx, ctl.Svc)
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	var out dto.SubmitResponse
	err = ctl.Registry.With(id, func(b *pairing.Builder) error {
		// commits must not be cut short by the request deadline
		res := ctl.Svc.PairAndCommit(context.WithoutCancel(ctx), b)
		out = dto.NewSubmitResponse(res, dto.NewSessionView(id, b, "", "", names))
		return nil
	})
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	msg := "All pairs committed"
	if len(out.Failed) > 0 {
		msg = "Some pairs failed to commit"
	}
	return helper.JsonOK(c, msg, out)
}

// DELETE /pairings/:id
func (ctl *PairingController) Close(c *fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "session id tidak valid")
	}
	if err := ctl.Registry.Close(id); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonDeleted(c, "Pairing session closed", fiber.Map{"session_id": id})
}

/* =======================================================
   helpers
   ======================================================= */

func sessionID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(c.Params("id")))
}

// bind parses and validates the body. When ok is false the error
// response has already been written and err is the write result.
func (ctl *PairingController) bind(c *fiber.Ctx, req any) (ok bool, err error) {
	if err := c.BodyParser(req); err != nil {
		return false, helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return false, helper.JsonValidation(c, err)
	}
	return true, nil
}

// mutate applies fn under the session lock, then answers with the fresh view.
func (ctl *PairingController) mutate(c *fiber.Ctx, msg string, fn func(b *pairing.Builder) error) error {
	id, err := sessionID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "session id tidak valid")
	}
	names, err := trxController.SubjectNames(c.UserContext(), ctl.Svc)
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	var view dto.SessionView
	err = ctl.Registry.With(id, func(b *pairing.Builder) error {
		if fn != nil {
			if err := fn(b); err != nil {
				return err
			}
		}
		view = dto.NewSessionView(id, b, c.Query("tq"), c.Query("aq"), names)
		return nil
	})
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, msg, view)
}
