// Package repository defines the persistence contracts of the ledger: the
// account and entry repositories and the UnitOfWork binding them into one
// atomic unit.
package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/openbank/ledger/pkg/dto"
)

// AccountRepository defines the data access operations for accounts.
type AccountRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*dto.AccountRead, error)
	// GetForUpdate reads the account under an exclusive row lock. Only valid
	// inside a transactional unit; the lock is held until commit or rollback.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*dto.AccountRead, error)
	GetByNumber(ctx context.Context, number string) (*dto.AccountRead, error)
	Create(ctx context.Context, create dto.AccountCreate) error
	Update(ctx context.Context, id uuid.UUID, update dto.AccountUpdate) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*dto.AccountRead, error)
}

// EntryRepository defines the data access operations for ledger entries.
// Entries are append-only; there is no update or delete.
type EntryRepository interface {
	Create(ctx context.Context, create dto.EntryCreate) error
	Get(ctx context.Context, id uuid.UUID) (*dto.EntryRead, error)
	GetByReference(ctx context.Context, reference string) (*dto.EntryRead, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID, filter dto.EntryFilter) ([]*dto.EntryRead, error)
}
