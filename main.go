package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/utils"
	"github.com/sirupsen/logrus"

	"examku_backend/internals/configs"
	database "examku_backend/internals/databases"
	"examku_backend/internals/features/exams/proctoring/pairing"
	"examku_backend/internals/features/exams/transactions/dto"
	"examku_backend/internals/features/exams/transactions/repository"
	"examku_backend/internals/features/exams/transactions/service"
	helper "examku_backend/internals/helpers"
	middlewares "examku_backend/internals/middlewares"
	routes "examku_backend/internals/route"
	"examku_backend/internals/seeds"
	examSeeds "examku_backend/internals/seeds/exams"
)

func main() {
	configs.LoadEnv()
	log := configs.Log

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ErrorHandler:            helper.FiberErrorHandler,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"}, // sesuaikan dengan CIDR proxy jika perlu
	})

	// ⚙️ middleware dasar + performa
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault})) // gzip
	app.Use(etag.New())                                                  // 304 caching

	// 🔎 Request-ID + timing (observability ringan)
	app.Use(func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = utils.UUID()
		}
		c.Set("X-Request-ID", id)
		c.Locals("request_id", id)
		start := time.Now()
		// HTTP timeout guard (selaras dengan statement_timeout di DB)
		ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()
		c.SetUserContext(ctx)
		err := c.Next()
		log.WithFields(logrus.Fields{
			"request_id": id,
			"method":     c.Method(),
			"url":        c.OriginalURL(),
			"status":     c.Response().StatusCode(),
			"dur":        time.Since(start).String(),
		}).Debug("[REQ]")
		return err
	})

	middlewares.SetupMiddlewares(app)

	// 🔌 Store: DB (postgres/mysql) atau in-memory
	store, ping, closeStore := openStore()

	// ✅ Validator + rule custom
	validate := validator.New()
	if err := dto.RegisterValidators(validate); err != nil {
		log.WithError(err).Fatal("❌ Gagal register validator")
	}

	svc := service.NewAllocationService(
		store,
		configs.CampusLocation(),
		pairing.Options{
			RetainFailed:  configs.PairingRetainFailed,
			Concurrency:   configs.PairingCommitConcurrency,
			CommitTimeout: configs.PairingCommitTimeout,
		},
		log.WithField("app", "examku"),
	)

	// ⏱ pembersihan sesi pairing yang idle
	registry := pairing.NewRegistry(configs.PairingSessionTTL)
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	registry.StartSweeper(sweepCtx, 10*time.Minute, log.WithField("component", "pairing_sweeper"))

	// ✅ Routes
	routes.SetupRoutes(app, routes.Deps{
		Service:  svc,
		Registry: registry,
		Validate: validate,
		Ping:     ping,
	})

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	// Start server non-blocking
	go func() {
		log.Infof("✅ Listening on :%s", configs.Port)
		if err := app.Listen("0.0.0.0:" + configs.Port); err != nil {
			log.WithError(err).Fatal("server error")
		}
	}()

	// graceful shutdown + tutup pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)
	stopSweep()
	closeStore()
}

func openStore() (service.Store, func() error, func()) {
	if configs.DBDriver == "memory" {
		ms := repository.NewMemoryStore()
		if err := examSeeds.FillMemoryStore(ms, seeds.ExamSeedFile); err != nil {
			configs.Log.WithError(err).Warn("⚠️ Sample data tidak dimuat, store kosong")
		}
		return ms, nil, func() {}
	}

	database.ConnectDB()
	database.TunePool()
	if err := database.Migrate(); err != nil {
		configs.Log.WithError(err).Fatal("❌ Migrasi gagal")
	}
	if configs.SeedOnStart {
		seeds.RunAllSeeds(database.DB)
	}
	database.WarmUpQueries()

	return repository.NewGormStore(database.DB), database.Ping, func() {
		if sqlDB, err := database.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
