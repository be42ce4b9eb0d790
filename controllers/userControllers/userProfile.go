package userController

import (
	"vaultgrow/middleware"
	"vaultgrow/services"
	"vaultgrow/validators"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	svc *services.Services
}

func New(svc *services.Services) *Controller {
	return &Controller{svc: svc}
}

func (ctl *Controller) Dashboard(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	dash, err := ctl.svc.Ledger.ProjectDashboard(c.UserContext(), userID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard fetched!", dash)
}

// Transactions returns the caller's investments, payments and withdrawals.
func (ctl *Controller) Transactions(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	ctx := c.UserContext()

	investments, err := ctl.svc.Investments.ListForUser(ctx, userID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	payments, err := ctl.svc.Payments.ListForUser(ctx, userID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	withdrawals, err := ctl.svc.Withdrawals.ListForUser(ctx, userID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Transactions fetched!", fiber.Map{
		"investments": investments,
		"payments":    payments,
		"withdrawals": withdrawals,
	})
}

// Ledger pages through the caller's balance audit trail.
func (ctl *Controller) Ledger(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	page := validators.GetPagination(c)

	entries, total, err := ctl.svc.Ledger.Entries(c.UserContext(), userID, page.Page, page.Limit)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Ledger fetched!", fiber.Map{
		"entries": entries,
		"total":   total,
	})
}

func (ctl *Controller) Referral(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	summary, err := ctl.svc.Ledger.ProjectReferralSummary(c.UserContext(), userID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Referral summary fetched!", summary)
}

// LoginHistoryList pages through the caller's sign-ins.
func (ctl *Controller) LoginHistoryList(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	page := validators.GetPagination(c)

	history, total, err := ctl.svc.Credentials.LoginHistory(c.UserContext(), userID, page.Page, page.Limit)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login history fetched!", fiber.Map{
		"history": history,
		"total":   total,
	})
}
