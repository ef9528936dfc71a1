package router

import (
	"context"
	"strings"
	"time"

	"github.com/Nogthings/befosa-software/internal/audit"
	"github.com/Nogthings/befosa-software/internal/auth"
	"github.com/Nogthings/befosa-software/internal/clients"
	"github.com/Nogthings/befosa-software/internal/config"
	"github.com/Nogthings/befosa-software/internal/dashboard"
	"github.com/Nogthings/befosa-software/internal/database"
	"github.com/Nogthings/befosa-software/internal/livestock"
	"github.com/Nogthings/befosa-software/internal/logger"
	"github.com/Nogthings/befosa-software/internal/middleware"
	"github.com/Nogthings/befosa-software/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Sessions auth.SessionStore
	Log      *zap.Logger
}

// New builds the HTTP application with every route mounted under /api.
func New(d Deps) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		AppName:      "befosa",
		ErrorHandler: middleware.ErrorHandler(d.Log),
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(logger.Named(d.Log, "http")))

	corsOrigins := strings.Split(d.Config.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	loginLimit, err := middleware.RateLimit(d.Config.LoginRateLimit)
	if err != nil {
		return nil, err
	}

	svc := livestock.NewService(d.DB, logger.Named(d.Log, "livestock"))

	api := app.Group("/api")

	// Public
	api.Get("/health", HealthHandler(d.DB))
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(d.DB))
	api.Post("/auth/login", loginLimit, auth.LoginHandler(d.DB, d.Config))

	// Protected. The guard is attached per route so unknown paths still 404.
	requireSession := auth.JWTMiddleware(d.Config, d.Sessions)
	requireAdmin := auth.RequireRole(models.RoleAdmin)
	guarded := func(h fiber.Handler) []fiber.Handler {
		return []fiber.Handler{requireSession, requireAdmin, h}
	}

	api.Get("/auth/me", guarded(auth.MeHandler(d.DB))...)
	api.Post("/auth/logout", guarded(auth.LogoutHandler(d.Sessions))...)

	api.Get("/clients", guarded(clients.ListClientsHandler(d.DB))...)
	api.Post("/clients", guarded(clients.CreateClientHandler(d.DB))...)
	api.Get("/clients/:id", guarded(clients.GetClientHandler(d.DB))...)
	api.Put("/clients/:id", guarded(clients.UpdateClientHandler(d.DB))...)
	api.Delete("/clients/:id", guarded(clients.DeleteClientHandler(d.DB))...)

	api.Get("/entries", guarded(livestock.ListEntriesHandler(svc))...)
	api.Post("/entries", guarded(livestock.CreateEntryHandler(svc))...)
	api.Get("/entries/:id", guarded(livestock.GetEntryHandler(svc))...)

	api.Get("/exits", guarded(livestock.ListExitsHandler(svc))...)
	api.Post("/exits", guarded(livestock.CreateExitHandler(svc))...)
	api.Get("/exits/:id", guarded(livestock.GetExitHandler(svc))...)

	api.Get("/animals/instock", guarded(livestock.ListInStockHandler(svc))...)
	api.Get("/animals/instock/export", guarded(livestock.ExportInStockHandler(svc))...)

	api.Get("/stats", guarded(dashboard.StatsHandler(d.DB))...)
	api.Get("/audit-logs", guarded(audit.ListAuditLogsHandler(d.DB))...)

	return app, nil
}

// GET /api/health
func HealthHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		if err := database.Ping(ctx, db); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":   "unavailable",
				"database": "down",
			})
		}
		return c.JSON(fiber.Map{"status": "ok", "database": "up"})
	}
}
