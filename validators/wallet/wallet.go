package walletValidator

import (
	"vaultgrow/validators"

	"github.com/gofiber/fiber/v2"
)

type PaymentRequest struct {
	Amount    float64 `json:"amount" validate:"gt=0"`
	Reference string  `json:"reference" validate:"required,max=255"`
}

// The minimum amount is a business rule checked by the service, not here.
type WithdrawalRequest struct {
	Amount        float64 `json:"amount" validate:"gt=0"`
	BankName      string  `json:"bankName" validate:"required,max=100"`
	AccountNumber string  `json:"accountNumber" validate:"required,max=50"`
	AccountName   string  `json:"accountName" validate:"required,max=150"`
}

// SubmitPayment validates a payment proof
func SubmitPayment() fiber.Handler {
	return validators.Body("validatedPayment", func() interface{} { return new(PaymentRequest) })
}

// RequestWithdrawal validates a withdrawal request
func RequestWithdrawal() fiber.Handler {
	return validators.Body("validatedWithdrawal", func() interface{} { return new(WithdrawalRequest) })
}
