package authController

import (
	"vaultgrow/middleware"
	"vaultgrow/services"
	"vaultgrow/utils"
	authValidator "vaultgrow/validators/auth"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	Credentials   *services.CredentialStore
	Notifier      *utils.Notifier
	WelcomeCredit float64
}

func New(svc *services.Services, notifier *utils.Notifier, welcomeCredit float64) *Controller {
	return &Controller{Credentials: svc.Credentials, Notifier: notifier, WelcomeCredit: welcomeCredit}
}

func (ctl *Controller) Register(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUser").(*authValidator.RegisterRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	user, err := ctl.Credentials.Register(c.UserContext(), services.RegisterInput{
		FullName:     reqData.FullName,
		Email:        reqData.Email,
		Phone:        reqData.Phone,
		Password:     reqData.Password,
		ReferralCode: reqData.ReferralCode,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	ctl.Notifier.SendWelcomeEmail(user.Email, user.FullName, ctl.WelcomeCredit)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Registration successful!", fiber.Map{
		"user":          user.SafeProjection(),
		"walletBalance": user.WalletBalance,
	})
}

func (ctl *Controller) Login(c *fiber.Ctx) error {
	return ctl.login(c, false)
}

func (ctl *Controller) AdminLogin(c *fiber.Ctx) error {
	return ctl.login(c, true)
}

func (ctl *Controller) login(c *fiber.Ctx, admin bool) error {
	reqData, ok := c.Locals("validatedLogin").(*authValidator.LoginRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	meta := services.LoginMeta{IPAddress: utils.ClientIP(c), Device: utils.Device(c)}
	var (
		res *services.LoginResult
		err error
	)
	if admin {
		res, err = ctl.Credentials.AdminLogin(c.UserContext(), reqData.Email, reqData.Password, meta)
	} else {
		res, err = ctl.Credentials.Login(c.UserContext(), reqData.Email, reqData.Password, meta)
	}
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful!", res)
}
