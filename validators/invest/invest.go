package investValidator

import (
	"vaultgrow/validators"

	"github.com/gofiber/fiber/v2"
)

type CreateRequest struct {
	PlanID string  `json:"planId" validate:"required,max=50"`
	Amount float64 `json:"amount" validate:"gt=0"`
}

func Create() fiber.Handler {
	return validators.Body("validatedInvestment", func() interface{} { return new(CreateRequest) })
}
