// internals/route/details/exam_routes.go
package details

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	CatalogRoutes "examku_backend/internals/features/exams/catalogs/route"
	"examku_backend/internals/features/exams/proctoring/pairing"
	PairingRoutes "examku_backend/internals/features/exams/proctoring/route"
	TransactionRoutes "examku_backend/internals/features/exams/transactions/route"
	"examku_backend/internals/features/exams/transactions/service"
)

/* ===================== EXAMS ===================== */
// Penjadwalan ujian: transaksi, katalog, dan pairing proctor
func ExamRoutes(r fiber.Router, svc *service.AllocationService, reg *pairing.Registry, v *validator.Validate) {
	CatalogRoutes.CatalogRoutes(r, svc)
	TransactionRoutes.ExamTransactionRoutes(r, svc, v)
	PairingRoutes.PairingRoutes(r, svc, reg, v)
}
