package superAdminValidator

import (
	"vaultgrow/middleware"
	"vaultgrow/validators"

	"github.com/gofiber/fiber/v2"
)

type InvestmentAction struct {
	InvestmentID uint `json:"investmentId" validate:"required"`
}

type WithdrawalAction struct {
	WithdrawalID uint `json:"withdrawalId" validate:"required"`
}

type PaymentAction struct {
	PaymentID uint `json:"paymentId" validate:"required"`
}

func InvestmentActionBody() fiber.Handler {
	return validators.Body("validatedAction", func() interface{} { return new(InvestmentAction) })
}

func WithdrawalActionBody() fiber.Handler {
	return validators.Body("validatedAction", func() interface{} { return new(WithdrawalAction) })
}

func PaymentActionBody() fiber.Handler {
	return validators.Body("validatedAction", func() interface{} { return new(PaymentAction) })
}

// UserIDParam checks the :id route parameter
func UserIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{"id": "Invalid user ID!"})
		}
		c.Locals("targetUserId", uint(id))
		return c.Next()
	}
}
