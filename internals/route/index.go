// file: internals/routes/setup.go
package routes

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"examku_backend/internals/configs"
	"examku_backend/internals/features/exams/proctoring/pairing"
	"examku_backend/internals/features/exams/transactions/service"
	"examku_backend/internals/middlewares"
	routeDetails "examku_backend/internals/route/details"
)

var startTime time.Time

// Deps dirakit di main dan dibagikan ke semua route.
type Deps struct {
	Service  *service.AllocationService
	Registry *pairing.Registry
	Validate *validator.Validate
	Ping     func() error // nil untuk store in-memory
}

func SetupRoutes(app *fiber.App, deps Deps) {
	startTime = time.Now()

	configs.Log.Info("Setting up BaseRoutes...")
	BaseRoutes(app, deps.Ping)

	// ===================== GROUPS =====================
	configs.Log.Info("Setting up EXAMS group...")
	exams := app.Group("/api/exams",
		middlewares.GlobalRateLimiter(),
		middlewares.WriteRateLimiter(),
	)

	// ===================== MOUNT ROUTES =====================
	configs.Log.Info("Mounting Exam routes...")
	routeDetails.ExamRoutes(exams, deps.Service, deps.Registry, deps.Validate)
}
