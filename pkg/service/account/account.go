// Package account provides the account store service: the authoritative
// source of account balances and status. It owns account creation, lookups,
// status transitions, and the credit/debit primitives the ledger engine
// composes into whole operations.
package account

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/openbank/ledger/pkg/commands"
	"github.com/openbank/ledger/pkg/currency"
	"github.com/openbank/ledger/pkg/domain"
	domainaccount "github.com/openbank/ledger/pkg/domain/account"
	domainledger "github.com/openbank/ledger/pkg/domain/ledger"
	"github.com/openbank/ledger/pkg/domain/money"
	"github.com/openbank/ledger/pkg/dto"
	"github.com/openbank/ledger/pkg/repository"
)

// maxGenerateAttempts bounds retry-on-collision for generated identifiers.
const maxGenerateAttempts = 5

// Service implements the account store over a UnitOfWork.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// NewService creates an account store service.
func NewService(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{uow: uow, logger: logger}
}

// Create opens a new account. The account number is generated and retried on
// collision. A positive initial balance is recorded with an opening deposit
// entry in the same atomic unit.
func (s *Service) Create(ctx context.Context, cmd commands.CreateAccountCommand) (*dto.AccountRead, error) {
	if err := commands.Validate(cmd); err != nil {
		return nil, err
	}
	if cmd.InitialBalance < 0 {
		return nil, domain.ErrInvalidAmount
	}
	code := currency.Code(cmd.Currency)
	if code == "" {
		code = currency.DefaultCurrency
	}
	initial, err := money.New(cmd.InitialBalance, code)
	if err != nil {
		return nil, err
	}

	logger := s.logger.With("ownerID", cmd.OwnerID, "type", cmd.Type)
	var created *dto.AccountRead
	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		acct, err := domainaccount.New().
			WithOwnerID(cmd.OwnerID).
			WithType(cmd.Type).
			WithCurrency(code).
			WithBalance(initial.Amount()).
			Build()
		if err != nil {
			return nil, err
		}

		err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
			repo, err := uow.AccountRepository()
			if err != nil {
				return err
			}
			if err := repo.Create(ctx, dto.AccountCreate{
				ID:       acct.ID,
				OwnerID:  acct.OwnerID,
				Number:   acct.Number,
				Type:     acct.Type,
				Balance:  acct.Balance.Amount(),
				Currency: acct.Currency().String(),
				Status:   string(acct.Status),
			}); err != nil {
				return err
			}
			if initial.IsPositive() {
				entries, err := uow.EntryRepository()
				if err != nil {
					return err
				}
				if err := entries.Create(ctx, dto.EntryCreate{
					ID:          uuid.New(),
					AccountID:   acct.ID,
					Type:        string(domainledger.EntryDeposit),
					Amount:      initial.Amount(),
					Currency:    initial.Currency().String(),
					Description: "Initial deposit",
					Reference:   domainledger.NewReference(),
					Status:      string(domainledger.StatusCompleted),
				}); err != nil {
					return err
				}
			}
			created, err = repo.Get(ctx, acct.ID)
			return err
		})
		if err == nil {
			logger.Info("account created", "accountID", created.ID, "number", created.Number)
			return created, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			logger.Error("account creation failed", "error", err)
			return nil, err
		}
		// Generated number or reference collided; rebuild and retry.
	}
	logger.Error("account creation exhausted identifier retries")
	return nil, domain.ErrConflict
}

// Get returns the current state of an account.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (read *dto.AccountRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		read, err = repo.Get(ctx, id)
		return err
	})
	return
}

// GetByNumber resolves an account by its external account number.
func (s *Service) GetByNumber(ctx context.Context, number string) (read *dto.AccountRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		read, err = repo.GetByNumber(ctx, number)
		return err
	})
	return
}

// ListByOwner returns all accounts belonging to an owner.
func (s *Service) ListByOwner(ctx context.Context, ownerID uuid.UUID) (reads []*dto.AccountRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		reads, err = repo.ListByOwner(ctx, ownerID)
		return err
	})
	return
}

// Credit increases an account balance as a standalone atomic unit.
func (s *Service) Credit(ctx context.Context, cmd commands.CreditCommand) (read *dto.AccountRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		read, err = s.ApplyCredit(ctx, uow, cmd)
		return err
	})
	return
}

// Debit decreases an account balance as a standalone atomic unit.
func (s *Service) Debit(ctx context.Context, cmd commands.DebitCommand) (read *dto.AccountRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		read, err = s.ApplyDebit(ctx, uow, cmd)
		return err
	})
	return
}

// ApplyCredit applies a credit command inside an already-open unit, returning
// the post-mutation state. The ledger engine uses this to compose a transfer's
// debit and credit into one unit.
func (s *Service) ApplyCredit(ctx context.Context, uow repository.UnitOfWork, cmd commands.CreditCommand) (*dto.AccountRead, error) {
	if err := commands.Validate(cmd); err != nil {
		return nil, err
	}
	return s.mutateBalance(ctx, uow, cmd.AccountID, cmd.Amount, func(acct *domainaccount.Account) (money.Money, error) {
		if err := acct.ValidateCredit(cmd.Amount); err != nil {
			return money.Money{}, err
		}
		return acct.Balance.Add(cmd.Amount)
	})
}

// ApplyDebit applies a debit command inside an already-open unit, returning
// the post-mutation state.
func (s *Service) ApplyDebit(ctx context.Context, uow repository.UnitOfWork, cmd commands.DebitCommand) (*dto.AccountRead, error) {
	if err := commands.Validate(cmd); err != nil {
		return nil, err
	}
	return s.mutateBalance(ctx, uow, cmd.AccountID, cmd.Amount, func(acct *domainaccount.Account) (money.Money, error) {
		if err := acct.ValidateDebit(cmd.Amount); err != nil {
			return money.Money{}, err
		}
		return acct.Balance.Subtract(cmd.Amount)
	})
}

func (s *Service) mutateBalance(
	ctx context.Context,
	uow repository.UnitOfWork,
	id uuid.UUID,
	amount money.Money,
	next func(*domainaccount.Account) (money.Money, error),
) (*dto.AccountRead, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	repo, err := uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	read, err := repo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	acct, err := Hydrate(read)
	if err != nil {
		return nil, err
	}
	newBalance, err := next(acct)
	if err != nil {
		return nil, err
	}
	smallest := newBalance.Amount()
	if err := repo.Update(ctx, id, dto.AccountUpdate{Balance: &smallest}); err != nil {
		return nil, err
	}
	read.Balance = newBalance.AmountFloat()
	read.UpdatedAt = time.Now()
	return read, nil
}

// SetStatus transitions an account's lifecycle state, enforcing the status
// state machine (active⇄frozen; closed only at zero balance; closed terminal).
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, target domainaccount.Status) error {
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		read, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		acct, err := Hydrate(read)
		if err != nil {
			return err
		}
		if err := acct.ValidateTransition(target); err != nil {
			return err
		}
		status := string(target)
		return repo.Update(ctx, id, dto.AccountUpdate{Status: &status})
	})
	if err != nil {
		s.logger.Warn("status transition rejected", "accountID", id, "target", target, "error", err)
		return err
	}
	s.logger.Info("account status changed", "accountID", id, "status", target)
	return nil
}

// Hydrate rebuilds the Account aggregate from a read DTO so domain
// validations can run against persisted state.
func Hydrate(read *dto.AccountRead) (*domainaccount.Account, error) {
	if read == nil {
		return nil, domain.ErrAccountNotFound
	}
	bal, err := money.New(read.Balance, currency.Code(read.Currency))
	if err != nil {
		return nil, err
	}
	return domainaccount.New().
		WithID(read.ID).
		WithOwnerID(read.OwnerID).
		WithNumber(read.Number).
		WithType(read.Type).
		WithCurrency(currency.Code(read.Currency)).
		WithBalance(bal.Amount()).
		WithStatus(domainaccount.Status(read.Status)).
		WithCreatedAt(read.CreatedAt).
		WithUpdatedAt(read.UpdatedAt).
		Build()
}
