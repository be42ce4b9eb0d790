package investController

import (
	"vaultgrow/middleware"
	"vaultgrow/models"
	"vaultgrow/services"
	investValidator "vaultgrow/validators/invest"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	Investments *services.InvestmentService
}

func New(svc *services.Services) *Controller {
	return &Controller{Investments: svc.Investments}
}

// Plans lists the catalogue the client offers.
func (ctl *Controller) Plans(c *fiber.Ctx) error {
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Plans fetched!", models.Plans)
}

// Create records a pending investment. Returns start once an admin confirms it.
func (ctl *Controller) Create(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	reqData, ok := c.Locals("validatedInvestment").(*investValidator.CreateRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	inv, err := ctl.Investments.Create(c.UserContext(), userID, reqData.PlanID, reqData.Amount)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Investment submitted and awaiting confirmation!", inv)
}
