// Package ledger provides the ledger engine: deposits, withdrawals, and
// transfers composed from account store primitives, each fully applied or
// fully rejected, each producing the entry records that make the operation
// reconstructable.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/openbank/ledger/pkg/commands"
	"github.com/openbank/ledger/pkg/currency"
	"github.com/openbank/ledger/pkg/domain"
	domainaccount "github.com/openbank/ledger/pkg/domain/account"
	domainledger "github.com/openbank/ledger/pkg/domain/ledger"
	"github.com/openbank/ledger/pkg/domain/money"
	"github.com/openbank/ledger/pkg/dto"
	"github.com/openbank/ledger/pkg/locks"
	"github.com/openbank/ledger/pkg/repository"
	accountsvc "github.com/openbank/ledger/pkg/service/account"
)

// maxReferenceAttempts bounds retry-on-collision for reference codes.
const maxReferenceAttempts = 5

// Pair holds the two correlated entries produced by a transfer.
type Pair struct {
	Outgoing *dto.EntryRead // debit on the source account
	Incoming *dto.EntryRead // credit on the destination account
}

// Service implements the ledger engine.
type Service struct {
	uow    repository.UnitOfWork
	store  *accountsvc.Service
	locks  *locks.Manager
	logger *slog.Logger
}

// NewService creates a ledger engine over the given unit of work, account
// store, and lock manager.
func NewService(uow repository.UnitOfWork, store *accountsvc.Service, lm *locks.Manager, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{uow: uow, store: store, locks: lm, logger: logger}
}

// Deposit credits an account and appends one deposit entry, atomically.
func (s *Service) Deposit(ctx context.Context, cmd commands.DepositCommand) (*dto.EntryRead, error) {
	if cmd.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if err := commands.Validate(cmd); err != nil {
		return nil, err
	}
	description := cmd.Description
	if description == "" {
		description = "Deposit"
	}

	release, err := s.locks.Acquire(ctx, cmd.AccountID)
	if err != nil {
		return nil, err
	}
	defer release()

	return s.singleEntryOperation(ctx, cmd.AccountID, cmd.Amount, domainledger.EntryDeposit, description)
}

// Withdraw debits an account and appends one withdrawal entry, atomically.
func (s *Service) Withdraw(ctx context.Context, cmd commands.WithdrawCommand) (*dto.EntryRead, error) {
	if cmd.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if err := commands.Validate(cmd); err != nil {
		return nil, err
	}
	description := cmd.Description
	if description == "" {
		description = "Withdrawal"
	}

	release, err := s.locks.Acquire(ctx, cmd.AccountID)
	if err != nil {
		return nil, err
	}
	defer release()

	return s.singleEntryOperation(ctx, cmd.AccountID, cmd.Amount, domainledger.EntryWithdrawal, description)
}

// singleEntryOperation runs a deposit or withdrawal inside one atomic unit:
// balance mutation plus entry append, retried on reference collision.
func (s *Service) singleEntryOperation(
	ctx context.Context,
	accountID uuid.UUID,
	amount float64,
	entryType domainledger.EntryType,
	description string,
) (*dto.EntryRead, error) {
	logger := s.logger.With("accountID", accountID, "type", entryType, "amount", amount)
	var entry *dto.EntryRead
	for attempt := 0; attempt < maxReferenceAttempts; attempt++ {
		err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
			accounts, err := uow.AccountRepository()
			if err != nil {
				return err
			}
			read, err := accounts.Get(ctx, accountID)
			if err != nil {
				return err
			}
			value, err := money.New(amount, currency.Code(read.Currency))
			if err != nil {
				return err
			}

			var mutated *dto.AccountRead
			signed := value
			if entryType == domainledger.EntryWithdrawal {
				mutated, err = s.store.ApplyDebit(ctx, uow, commands.DebitCommand{AccountID: accountID, Amount: value})
				signed = value.Negate()
			} else {
				mutated, err = s.store.ApplyCredit(ctx, uow, commands.CreditCommand{AccountID: accountID, Amount: value})
			}
			if err != nil {
				return err
			}

			entries, err := uow.EntryRepository()
			if err != nil {
				return err
			}
			entryID := uuid.New()
			if err := entries.Create(ctx, dto.EntryCreate{
				ID:          entryID,
				AccountID:   accountID,
				Type:        string(entryType),
				Amount:      signed.Amount(),
				Currency:    signed.Currency().String(),
				Description: description,
				Reference:   domainledger.NewReference(),
				Status:      string(domainledger.StatusCompleted),
			}); err != nil {
				return err
			}
			entry, err = entries.Get(ctx, entryID)
			if err != nil {
				return err
			}
			logger.Info("operation committed", "reference", entry.Reference, "balance", mutated.Balance)
			return nil
		})
		if err == nil {
			return entry, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
	}
	logger.Error("reference generation exhausted retries")
	return nil, domain.ErrConflict
}

// Transfer moves funds between two accounts: one debit entry on the source,
// one credit entry on the destination, sharing a reference correlated by the
// incoming suffix. Locks are taken on both accounts in a fixed global order
// before the atomic unit opens; any failure inside rolls everything back.
func (s *Service) Transfer(ctx context.Context, cmd commands.TransferCommand) (*Pair, error) {
	if err := commands.Validate(cmd); err != nil {
		return nil, err
	}

	dest, err := s.store.GetByNumber(ctx, cmd.ToAccountNumber)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrRecipientNotFound
		}
		return nil, err
	}
	if dest.ID == cmd.FromAccountID {
		return nil, domain.ErrSameAccountTransfer
	}
	if dest.Status != string(domainaccount.StatusActive) {
		return nil, domain.ErrRecipientNotActive
	}
	if cmd.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	description := cmd.Description
	if description == "" {
		description = "Transfer"
	}

	release, err := s.locks.AcquirePair(ctx, cmd.FromAccountID, dest.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	logger := s.logger.With("fromAccountID", cmd.FromAccountID, "toNumber", cmd.ToAccountNumber, "amount", cmd.Amount)
	var pair *Pair
	for attempt := 0; attempt < maxReferenceAttempts; attempt++ {
		err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
			accounts, err := uow.AccountRepository()
			if err != nil {
				return err
			}
			source, err := accounts.Get(ctx, cmd.FromAccountID)
			if err != nil {
				return err
			}
			value, err := money.New(cmd.Amount, currency.Code(source.Currency))
			if err != nil {
				return err
			}
			// Re-check the destination under the lock; its status may have
			// changed since resolution.
			destNow, err := accounts.Get(ctx, dest.ID)
			if err != nil {
				return err
			}
			if destNow.Status != string(domainaccount.StatusActive) {
				return domain.ErrRecipientNotActive
			}
			if destNow.Currency != source.Currency {
				return domain.ErrCurrencyMismatch
			}

			if _, err := s.store.ApplyDebit(ctx, uow, commands.DebitCommand{AccountID: source.ID, Amount: value}); err != nil {
				return err
			}
			if _, err := s.store.ApplyCredit(ctx, uow, commands.CreditCommand{AccountID: dest.ID, Amount: value}); err != nil {
				return err
			}

			entries, err := uow.EntryRepository()
			if err != nil {
				return err
			}
			reference := domainledger.NewReference()
			outgoingID, incomingID := uuid.New(), uuid.New()
			if err := entries.Create(ctx, dto.EntryCreate{
				ID:           outgoingID,
				AccountID:    source.ID,
				Type:         string(domainledger.EntryTransfer),
				Amount:       value.Negate().Amount(),
				Currency:     value.Currency().String(),
				Description:  fmt.Sprintf("Transfer to %s: %s", destNow.Number, description),
				Counterparty: destNow.Number,
				Reference:    reference,
				Status:       string(domainledger.StatusCompleted),
			}); err != nil {
				return err
			}
			if err := entries.Create(ctx, dto.EntryCreate{
				ID:           incomingID,
				AccountID:    dest.ID,
				Type:         string(domainledger.EntryTransfer),
				Amount:       value.Amount(),
				Currency:     value.Currency().String(),
				Description:  fmt.Sprintf("Transfer from %s: %s", source.Number, description),
				Counterparty: source.Number,
				Reference:    domainledger.IncomingReference(reference),
				Status:       string(domainledger.StatusCompleted),
			}); err != nil {
				return err
			}

			outgoing, err := entries.Get(ctx, outgoingID)
			if err != nil {
				return err
			}
			incoming, err := entries.Get(ctx, incomingID)
			if err != nil {
				return err
			}
			pair = &Pair{Outgoing: outgoing, Incoming: incoming}
			logger.Info("transfer committed", "reference", reference)
			return nil
		})
		if err == nil {
			return pair, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			logger.Warn("transfer rejected", "error", err)
			return nil, err
		}
	}
	logger.Error("reference generation exhausted retries")
	return nil, domain.ErrConflict
}

// History returns the most recent entries for an account.
func (s *Service) History(ctx context.Context, accountID uuid.UUID, limit int) (reads []*dto.EntryRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		entries, err := uow.EntryRepository()
		if err != nil {
			return err
		}
		reads, err = entries.ListByAccount(ctx, accountID, dto.EntryFilter{Limit: limit})
		return err
	})
	return
}

// Search returns an account's entries narrowed by type and a free-text query
// over description and reference.
func (s *Service) Search(ctx context.Context, accountID uuid.UUID, filter dto.EntryFilter) (reads []*dto.EntryRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		entries, err := uow.EntryRepository()
		if err != nil {
			return err
		}
		reads, err = entries.ListByAccount(ctx, accountID, filter)
		return err
	})
	return
}

// GetByReference resolves a single entry by its reference code.
func (s *Service) GetByReference(ctx context.Context, reference string) (read *dto.EntryRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		entries, err := uow.EntryRepository()
		if err != nil {
			return err
		}
		read, err = entries.GetByReference(ctx, reference)
		return err
	})
	return
}
