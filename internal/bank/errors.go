package bank

import "errors"

// Domain errors; the HTTP layer maps them to status codes.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidAmount     = errors.New("amount must be > 0")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUserNotFound      = errors.New("user not found")
	ErrCardNotFound      = errors.New("card not found")
	ErrNothingToPay      = errors.New("nothing to pay on invoice")
	ErrDuplicateCPF      = errors.New("cpf already registered")
	ErrDuplicatePixKey   = errors.New("pix key already registered")
	ErrInvalidPixKey     = errors.New("invalid pix key")
)
