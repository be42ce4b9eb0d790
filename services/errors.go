package services

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountBlocked     = errors.New("account is blocked")
	ErrNotFound           = errors.New("not found")
	ErrInsufficientFunds  = errors.New("insufficient balance")
	ErrBelowMinimum       = errors.New("amount is below the minimum withdrawal")
)
