package systemRoutes

import (
	"vaultgrow/database"
	"vaultgrow/metrics"
	"vaultgrow/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupSystemRoutes(app *fiber.App, store *database.DbInstance) {
	app.Get("/metrics", metrics.Handler())
	app.Get("/health", func(c *fiber.Ctx) error {
		sqlDB, err := store.Db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.UserContext())
		}
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "Database unavailable", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "OK", nil)
	})
}
