// Package account defines the Account aggregate: balance, status, and the
// invariants every ledger operation must satisfy before touching persistence.
package account

import (
	"crypto/rand"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/openbank/ledger/pkg/currency"
	"github.com/openbank/ledger/pkg/domain"
	"github.com/openbank/ledger/pkg/domain/money"
)

// NumberLength is the width of an external-facing account number.
const NumberLength = 12

// Status is the lifecycle state of an account. Transitions are one-directional
// except active⇄frozen; closed is terminal.
type Status string

const (
	// StatusActive accepts every operation.
	StatusActive Status = "active"
	// StatusFrozen rejects balance mutations but may be reactivated.
	StatusFrozen Status = "frozen"
	// StatusClosed is terminal and only reachable at zero balance.
	StatusClosed Status = "closed"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusFrozen, StatusClosed:
		return true
	}
	return false
}

// Account represents a financial account as the aggregate root for balance
// state. Invariants:
//   - Balance is never negative.
//   - Balance mutations require StatusActive.
//   - Closing requires a zero balance; closed is terminal.
type Account struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Number    string
	Type      string
	Balance   money.Money
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Builder provides a fluent API for constructing Account instances, used both
// for new accounts and for hydration from a data store.
type Builder struct {
	id        uuid.UUID
	ownerID   uuid.UUID
	number    string
	acctType  string
	balance   int64
	currency  currency.Code
	status    Status
	createdAt time.Time
	updatedAt time.Time
}

// New creates a Builder with sensible defaults: fresh UUID, generated account
// number, default currency, active status.
func New() *Builder {
	return &Builder{
		id:        uuid.New(),
		number:    GenerateNumber(),
		currency:  currency.DefaultCurrency,
		status:    StatusActive,
		createdAt: time.Now(),
	}
}

// WithID sets the ID for the account being built.
func (b *Builder) WithID(id uuid.UUID) *Builder {
	b.id = id
	return b
}

// WithOwnerID sets the owning user. Mandatory.
func (b *Builder) WithOwnerID(ownerID uuid.UUID) *Builder {
	b.ownerID = ownerID
	return b
}

// WithNumber overrides the generated account number. Hydration use.
func (b *Builder) WithNumber(number string) *Builder {
	b.number = number
	return b
}

// WithType sets the free-form account category, e.g. "savings".
func (b *Builder) WithType(acctType string) *Builder {
	b.acctType = acctType
	return b
}

// WithBalance sets the balance in the smallest currency unit. Hydration and
// test setup use; live balances change only through ledger operations.
func (b *Builder) WithBalance(balance int64) *Builder {
	b.balance = balance
	return b
}

// WithCurrency sets the account currency.
func (b *Builder) WithCurrency(code currency.Code) *Builder {
	b.currency = code
	return b
}

// WithStatus sets the lifecycle status. Hydration use.
func (b *Builder) WithStatus(status Status) *Builder {
	b.status = status
	return b
}

// WithCreatedAt sets the creation timestamp. Hydration use.
func (b *Builder) WithCreatedAt(t time.Time) *Builder {
	b.createdAt = t
	return b
}

// WithUpdatedAt sets the last-updated timestamp. Hydration use.
func (b *Builder) WithUpdatedAt(t time.Time) *Builder {
	b.updatedAt = t
	return b
}

// Build validates all invariants and returns the Account.
func (b *Builder) Build() (*Account, error) {
	if !currency.IsValidCurrencyFormat(string(b.currency)) {
		return nil, domain.ErrInvalidCurrencyCode
	}
	if !currency.IsSupported(string(b.currency)) {
		return nil, domain.ErrInvalidCurrencyCode
	}
	if b.ownerID == uuid.Nil {
		return nil, errors.New("ownerID is required")
	}
	if len(b.number) != NumberLength {
		return nil, errors.New("account number must be 12 digits")
	}
	if !b.status.Valid() {
		return nil, domain.ErrInvalidTransition
	}
	if b.balance < 0 {
		return nil, domain.ErrInvalidAmount
	}
	bal, err := money.NewFromSmallestUnit(b.balance, b.currency)
	if err != nil {
		return nil, err
	}
	return &Account{
		ID:        b.id,
		OwnerID:   b.ownerID,
		Number:    b.number,
		Type:      b.acctType,
		Balance:   bal,
		Status:    b.status,
		CreatedAt: b.createdAt,
		UpdatedAt: b.updatedAt,
	}, nil
}

// GenerateNumber returns a random 12-digit account number. Uniqueness is
// enforced by the store's unique index with retry-on-collision.
func GenerateNumber() string {
	const digits = "0123456789"
	buf := make([]byte, NumberLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failure means the platform RNG is broken; nothing
		// sensible to fall back to.
		panic(err)
	}
	for i, v := range buf {
		buf[i] = digits[int(v)%len(digits)]
	}
	return string(buf)
}

// Currency returns the account's currency code.
func (a *Account) Currency() currency.Code {
	return a.Balance.Currency()
}

// IsActive reports whether the account accepts balance mutations.
func (a *Account) IsActive() bool {
	return a.Status == StatusActive
}

func (a *Account) validateAmount(amount money.Money) error {
	if !amount.IsPositive() {
		return domain.ErrInvalidAmount
	}
	if !a.Balance.IsSameCurrency(amount) {
		return domain.ErrCurrencyMismatch
	}
	return nil
}

// ValidateCredit checks the invariants for crediting the account.
func (a *Account) ValidateCredit(amount money.Money) error {
	if err := a.validateAmount(amount); err != nil {
		return err
	}
	if !a.IsActive() {
		return domain.ErrAccountNotActive
	}
	return nil
}

// ValidateDebit checks the invariants for debiting the account: active
// status, positive amount, and sufficient funds.
func (a *Account) ValidateDebit(amount money.Money) error {
	if err := a.ValidateCredit(amount); err != nil {
		return err
	}
	less, err := a.Balance.LessThan(amount)
	if err != nil {
		return err
	}
	if less {
		return domain.ErrInsufficientFunds
	}
	return nil
}

// ValidateTransferTo checks the invariants for transferring funds from this
// account to dest: distinct accounts, both active, positive amount in a
// matching currency, and sufficient funds on the source.
func (a *Account) ValidateTransferTo(dest *Account, amount money.Money) error {
	if a == nil || dest == nil {
		return domain.ErrAccountNotFound
	}
	if a.ID == dest.ID {
		return domain.ErrSameAccountTransfer
	}
	if !dest.IsActive() {
		return domain.ErrRecipientNotActive
	}
	if err := a.ValidateDebit(amount); err != nil {
		return err
	}
	if !dest.Balance.IsSameCurrency(amount) {
		return domain.ErrCurrencyMismatch
	}
	return nil
}

// ValidateTransition checks the status state machine: active⇄frozen is free,
// closing requires a zero balance, closed is terminal.
func (a *Account) ValidateTransition(target Status) error {
	if !target.Valid() {
		return domain.ErrInvalidTransition
	}
	if a.Status == StatusClosed {
		return domain.ErrInvalidTransition
	}
	if target == StatusClosed && !a.Balance.IsZero() {
		return domain.ErrInvalidTransition
	}
	return nil
}
