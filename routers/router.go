package routers

import (
	"errors"

	"vaultgrow/config"
	authController "vaultgrow/controllers/auth"
	investController "vaultgrow/controllers/invest"
	superAdminController "vaultgrow/controllers/superAdmin"
	userController "vaultgrow/controllers/userControllers"
	walletController "vaultgrow/controllers/wallet"
	"vaultgrow/database"
	"vaultgrow/middleware"
	authRoutes "vaultgrow/routers/authRoutes"
	investRoutes "vaultgrow/routers/investRoutes"
	superAdminRoutes "vaultgrow/routers/superAdmin"
	systemRoutes "vaultgrow/routers/systemRoutes"
	userProfileRoutes "vaultgrow/routers/userRoutes"
	walletRoutes "vaultgrow/routers/walletRoutes"
	"vaultgrow/services"
	"vaultgrow/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
)

// Deps is everything the HTTP surface needs.
type Deps struct {
	Config   *config.Config
	Store    *database.DbInstance
	Services *services.Services
	Tokens   *middleware.TokenService
	Notifier *utils.Notifier
	Log      logrus.FieldLogger

	// AuthLimit caps requests per minute per IP on /auth; 0 disables it.
	AuthLimit  int
	RequestLog bool
}

// New builds the fiber app with every route mounted.
func New(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "vaultgrow",
		ErrorHandler: errorHandler(d.Log),
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: d.Config.AllowedOrigins,
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders: "Content-Type,Authorization,X-Cron-Key",
	}))
	if d.RequestLog {
		app.Use(logger.New(logger.Config{
			Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
		}))
	}

	var limit fiber.Handler
	if d.AuthLimit > 0 {
		limit = authRoutes.DefaultLimiter(d.AuthLimit)
	}

	authRoutes.SetupAuthRoutes(app, authController.New(d.Services, d.Notifier, d.Config.WelcomeCredit), limit)
	userProfileRoutes.SetupUserRoutes(app, userController.New(d.Services), d.Tokens)
	investRoutes.SetupInvestRoutes(app, investController.New(d.Services), d.Tokens)
	walletRoutes.SetupWalletRoutes(app, walletController.New(d.Services), d.Tokens)
	superAdminRoutes.SetupSuperAdminRoutes(app, superAdminController.New(d.Services, d.Notifier, d.Config.CronKey, d.Log), d.Tokens)
	systemRoutes.SetupSystemRoutes(app, d.Store)

	app.Use(func(c *fiber.Ctx) error {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Route not found", nil)
	})
	return app
}

// errorHandler keeps fiber's own errors in the JSON envelope.
func errorHandler(log logrus.FieldLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Server error, please try again later!"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		} else {
			log.WithError(err).WithField("path", c.Path()).Error("unhandled error")
		}
		return middleware.JsonResponse(c, code, false, message, nil)
	}
}
