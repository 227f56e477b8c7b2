package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	jsoniter "github.com/json-iterator/go"
)

// NewApp builds the fiber application with middleware and all routes
func NewApp(sessionHandler *SessionHandler, catalogHandler *CatalogHandler, statsHandler *StatsHandler) *fiber.App {
	json := jsoniter.ConfigCompatibleWithStandardLibrary
	app := fiber.New(fiber.Config{
		AppName:     "shadowtrace-backend",
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
	})

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New())

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"timestamp": time.Now().Unix(),
		})
	})

	api := app.Group("/api/v1")

	// Catalog Routes
	api.Get("/categories", catalogHandler.GetCategories)
	api.Get("/risk/:score", catalogHandler.GetRiskGauge)

	// Stats Routes
	api.Get("/stats", statsHandler.GetStats)
	api.Post("/stats/reset", statsHandler.ResetStats)

	// Session Routes
	sessions := api.Group("/sessions")
	sessions.Post("/", sessionHandler.CreateSession)
	sessions.Get("/:id", sessionHandler.GetSession)
	sessions.Delete("/:id", sessionHandler.DeleteSession)
	sessions.Post("/:id/reset", sessionHandler.ResetSession)
	sessions.Post("/:id/search", sessionHandler.Search)
	sessions.Get("/:id/history", sessionHandler.GetHistory)
	sessions.Post("/:id/history/:index/select", sessionHandler.SelectHistoryEntry)
	sessions.Get("/:id/result", sessionHandler.GetResultView)
	sessions.Get("/:id/result/export", sessionHandler.ExportResult)
	sessions.Post("/:id/result/export", sessionHandler.SaveResult)
	sessions.Post("/:id/result/copy", sessionHandler.CopyResult)
	sessions.Get("/:id/notifications", sessionHandler.GetNotifications)

	return app
}
