package authValidator

import (
	"vaultgrow/validators"

	"github.com/gofiber/fiber/v2"
)

type RegisterRequest struct {
	FullName     string `json:"fullName" validate:"required,min=2,max=150"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"required,min=7,max=20"`
	Password     string `json:"password" validate:"required,min=6"`
	ReferralCode string `json:"referralCode" validate:"omitempty,max=16"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register validator middleware
func Register() fiber.Handler {
	return validators.Body("validatedUser", func() interface{} { return new(RegisterRequest) })
}

// Login validator middleware, shared by the user and admin login routes
func Login() fiber.Handler {
	return validators.Body("validatedLogin", func() interface{} { return new(LoginRequest) })
}
