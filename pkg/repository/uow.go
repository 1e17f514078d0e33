package repository

import (
	"context"
	"reflect"
)

// UnitOfWork defines the contract for transactional work and type-safe
// repository access.
//
// GetRepository is part of UnitOfWork so that every repository obtained
// inside Do is bound to the same DB session; a balance update and its entry
// append therefore commit or roll back together. The typed accessors are
// convenience wrappers over GetRepository.
type UnitOfWork interface {
	// Do executes fn within a transaction boundary. fn receives a UnitOfWork
	// whose repositories share the transaction session. If fn returns an
	// error, every mutation made through those repositories is rolled back.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	// GetRepository returns a repository of the requested interface type,
	// bound to the current transaction session.
	GetRepository(repoType reflect.Type) (any, error)

	// AccountRepository returns the account repository for this unit.
	AccountRepository() (AccountRepository, error)

	// EntryRepository returns the ledger entry repository for this unit.
	EntryRepository() (EntryRepository, error)
}
