// Package repository implements the persistence contracts over GORM.
package repository

import (
	"context"
	"fmt"
	"reflect"

	accountrepo "github.com/openbank/ledger/infra/repository/account"
	entryrepo "github.com/openbank/ledger/infra/repository/entry"
	"github.com/openbank/ledger/pkg/repository"
	"gorm.io/gorm"
)

// UoW provides transaction boundary and repository access in one abstraction.
// Repositories obtained inside Do share the transaction session, so a balance
// update and its entry append commit or roll back together.
type UoW struct {
	db           *gorm.DB
	tx           *gorm.DB
	repoRegistry map[reflect.Type]func(*gorm.DB) any
}

// NewUoW creates a UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{
		db: db,
		repoRegistry: map[reflect.Type]func(*gorm.DB) any{
			reflect.TypeOf((*repository.AccountRepository)(nil)).Elem(): func(db *gorm.DB) any { return accountrepo.New(db) },
			reflect.TypeOf((*repository.EntryRepository)(nil)).Elem():   func(db *gorm.DB) any { return entryrepo.New(db) },
		},
	}
}

// Do runs fn in a transaction boundary, providing a UoW bound to it.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txnUow := &UoW{db: u.db, tx: tx, repoRegistry: u.repoRegistry}
		return fn(txnUow)
	})
}

// session returns the transaction when inside Do, the base handle otherwise.
func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

// GetRepository provides generic, type-safe access to repositories bound to
// the current transaction session.
func (u *UoW) GetRepository(repoType reflect.Type) (any, error) {
	constructor, ok := u.repoRegistry[repoType]
	if !ok {
		return nil, fmt.Errorf("unsupported repository type: %v", repoType)
	}
	return constructor(u.session()), nil
}

// AccountRepository implements repository.UnitOfWork.
func (u *UoW) AccountRepository() (repository.AccountRepository, error) {
	repoAny, err := u.GetRepository(reflect.TypeOf((*repository.AccountRepository)(nil)).Elem())
	if err != nil {
		return nil, err
	}
	return repoAny.(repository.AccountRepository), nil
}

// EntryRepository implements repository.UnitOfWork.
func (u *UoW) EntryRepository() (repository.EntryRepository, error) {
	repoAny, err := u.GetRepository(reflect.TypeOf((*repository.EntryRepository)(nil)).Elem())
	if err != nil {
		return nil, err
	}
	return repoAny.(repository.EntryRepository), nil
}
