package helper

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"examku_backend/internals/constants"
)

// StatusFromError memetakan kategori error domain ke status HTTP.
func StatusFromError(err error) int {
	var fe *fiber.Error
	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, constants.ErrValidation):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, constants.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, constants.ErrNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// JsonFromError menulis envelope error dengan status sesuai kategorinya.
// Error 5xx tidak membocorkan pesan internal.
func JsonFromError(c *fiber.Ctx, err error) error {
	status := StatusFromError(err)
	msg := err.Error()
	if status >= 500 {
		msg = fiber.ErrInternalServerError.Message
	}
	return JsonError(c, status, msg)
}

// ✅ Khusus error validasi (validator.v10) → map field → daftar tag
func FieldErrors(err error) (map[string][]string, bool) {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil, false
	}
	out := make(map[string][]string, len(ve))
	for _, fe := range ve {
		field := toSnake(fe.Field())
		msg := fe.Tag()
		if p := fe.Param(); p != "" {
			msg += "=" + p
		}
		out[field] = append(out[field], msg)
	}
	return out, true
}

// JsonValidation: 422 dengan detail per field kalau err berasal dari validator.
func JsonValidation(c *fiber.Ctx, err error) error {
	if fields, ok := FieldErrors(err); ok {
		return JsonValidationError(c, fields)
	}
	return JsonError(c, fiber.StatusBadRequest, err.Error())
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
