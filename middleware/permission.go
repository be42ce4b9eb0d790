package middleware

import (
	"errors"
	"strings"

	"vaultgrow/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// AdminOnly lets through tokens issued to admin accounts.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := UserID(c); !ok {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized: User ID not found", nil)
		}
		if isAdmin, _ := c.Locals("isAdmin").(bool); !isAdmin {
			return JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
		}
		return c.Next()
	}
}

// UserOnly keeps admin tokens off the investor routes.
func UserOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := UserID(c); !ok {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized: User ID not found", nil)
		}
		if isAdmin, _ := c.Locals("isAdmin").(bool); isAdmin {
			return JsonResponse(c, fiber.StatusForbidden, false, "Admin accounts cannot use this resource!", nil)
		}
		return c.Next()
	}
}

// ErrorResponse maps a service error to its HTTP status. Unknown errors are
// logged and reported as a generic 500.
func ErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrInsufficientFunds),
		errors.Is(err, services.ErrBelowMinimum):
		return JsonResponse(c, fiber.StatusBadRequest, false, publicMessage(err), nil)
	case errors.Is(err, services.ErrInvalidCredentials):
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials", nil)
	case errors.Is(err, services.ErrAccountBlocked):
		return JsonResponse(c, fiber.StatusForbidden, false, "Your account has been blocked", nil)
	case errors.Is(err, services.ErrNotFound):
		return JsonResponse(c, fiber.StatusNotFound, false, "Not found", nil)
	case errors.Is(err, services.ErrDuplicateEmail):
		return JsonResponse(c, fiber.StatusConflict, false, "Email already registered", nil)
	}

	logrus.WithError(err).WithFields(logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
	}).Error("request failed")
	return JsonResponse(c, fiber.StatusInternalServerError, false, "Server error, please try again later!", nil)
}

func publicMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrInsufficientFunds):
		return "Insufficient balance"
	case errors.Is(err, services.ErrBelowMinimum):
		return capitalize(err.Error())
	}
	msg := strings.TrimPrefix(err.Error(), services.ErrValidation.Error()+": ")
	return capitalize(msg)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
