// Package stubapi is a development stand-in for the marketplace
// backend. It serves the same auth wire contract the client consumes,
// backed by an in-memory registry. Not for production use.
package stubapi

import (
	"net/http"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Dastanbekov/jumushtap1/internal/config"
	"github.com/Dastanbekov/jumushtap1/internal/domain"
	"github.com/Dastanbekov/jumushtap1/internal/observability"
)

// New assembles the stub fiber application.
func New(cfg config.StubConfig, logger *zap.Logger) (*fiber.App, error) {
	registry := NewRegistry()
	if cfg.SeedDemoUsers {
		if err := seedDemoUsers(registry, cfg.BcryptCost); err != nil {
			return nil, err
		}
	}

	tokens := NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL(), cfg.RefreshTokenTTL())
	handler := NewAuthHandler(registry, tokens, cfg.BcryptCost, logger)
	metrics := observability.NewMetrics()

	app := fiber.New()
	app.Use(recoverMiddleware(logger, metrics))
	app.Use(observability.RequestLogger(logger, metrics))

	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive", "service": "jumushtap-stubapi"})
	})

	v1 := app.Group("/api/v1")
	authGroup := v1.Group("/auth")
	authGroup.Post("/login/", handler.Login)
	authGroup.Post("/register/", handler.Register)
	authGroup.Get("/me/", handler.Me)
	authGroup.Post("/token/refresh/", handler.Refresh)

	return app, nil
}

func recoverMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				metrics.RecordError(c.Path(), c.Method(), "INTERNAL_ERROR")
				err = c.Status(http.StatusInternalServerError).JSON(fiber.Map{"detail": "internal server error"})
			}
		}()
		return c.Next()
	}
}

func seedDemoUsers(registry *Registry, bcryptCost int) error {
	demo := []struct {
		email    string
		phone    string
		password string
		profile  domain.Profile
	}{
		{"worker@example.com", "+77010000001", "pass", domain.WorkerProfile{FullName: "Ivan Ivanov"}},
		{"business@example.com", "+77010000002", "pass", domain.BusinessProfile{
			CompanyName:   "Jumushtap LLP",
			BIN:           "123456789012",
			INN:           "987654321098",
			LegalAddress:  "Almaty, Abay ave 1",
			ContactName:   "Aida",
			ContactNumber: "+77010000002",
		}},
		{"client@example.com", "+77010000003", "pass", domain.IndividualProfile{FullNameRu: "Петр Петров"}},
	}

	for _, d := range demo {
		hash, err := hashPassword(d.password, bcryptCost)
		if err != nil {
			return err
		}
		if err := registry.Create(&UserRecord{
			Email:        d.email,
			Phone:        d.phone,
			PasswordHash: hash,
			Role:         d.profile.Role(),
			Profile:      d.profile,
		}); err != nil {
			return err
		}
	}
	return nil
}
