// Package commands defines the explicit command objects applied through the
// repositories. Each command names one mutation; the service layer validates
// them with go-playground/validator before opening a transactional unit.
package commands

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/openbank/ledger/pkg/domain/money"
)

var validate = validator.New()

// CreditCommand increases one account's balance.
type CreditCommand struct {
	AccountID uuid.UUID `validate:"required"`
	Amount    money.Money
}

// DebitCommand decreases one account's balance.
type DebitCommand struct {
	AccountID uuid.UUID `validate:"required"`
	Amount    money.Money
}

// CreateAccountCommand opens a new account for an owner.
type CreateAccountCommand struct {
	OwnerID        uuid.UUID `validate:"required"`
	Type           string    `validate:"required,max=20"`
	Currency       string    `validate:"omitempty,len=3,alpha"`
	InitialBalance float64   `validate:"gte=0"`
}

// DepositCommand credits an account and appends a deposit entry.
type DepositCommand struct {
	AccountID   uuid.UUID `validate:"required"`
	Amount      float64   `validate:"gt=0"`
	Description string    `validate:"max=255"`
}

// WithdrawCommand debits an account and appends a withdrawal entry.
type WithdrawCommand struct {
	AccountID   uuid.UUID `validate:"required"`
	Amount      float64   `validate:"gt=0"`
	Description string    `validate:"max=255"`
}

// TransferCommand moves funds between two accounts, the destination addressed
// by its external account number. Amount is checked by the engine after the
// recipient checks, so an unresolvable destination surfaces first.
type TransferCommand struct {
	FromAccountID   uuid.UUID `validate:"required"`
	ToAccountNumber string    `validate:"required,len=12,numeric"`
	Amount          float64
	Description     string `validate:"max=255"`
}

// Validate runs the struct-tag rules for any command.
func Validate(cmd any) error {
	return validate.Struct(cmd)
}
