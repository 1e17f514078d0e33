package repository

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/openbank/ledger/pkg/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	dialector := postgres.New(postgres.Config{
		Conn:       mockDb,
		DriverName: "postgres",
	})
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestUoW_DoAndGetRepository(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	db, mock := newMockDB(t)

	uow := NewUoW(db)

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := uow.Do(context.Background(), func(txUow repository.UnitOfWork) error {
		repoAny, err := txUow.GetRepository(reflect.TypeOf((*repository.AccountRepository)(nil)).Elem())
		require.NoError(err)
		acctRepo, ok := repoAny.(repository.AccountRepository)
		assert.True(ok)
		assert.NotNil(acctRepo)

		repoAny, err = txUow.GetRepository(reflect.TypeOf((*repository.EntryRepository)(nil)).Elem())
		require.NoError(err)
		entryRepo, ok := repoAny.(repository.EntryRepository)
		assert.True(ok)
		assert.NotNil(entryRepo)

		return nil
	})
	assert.NoError(err)
	assert.NoError(mock.ExpectationsWereMet())
}

func TestUoW_UnsupportedRepositoryType(t *testing.T) {
	db, _ := newMockDB(t)
	uow := NewUoW(db)

	_, err := uow.GetRepository(reflect.TypeOf(""))
	assert.Error(t, err)
}

func TestUoW_TypeSafeMethods(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	db, mock := newMockDB(t)

	uow := NewUoW(db)

	// Outside a transaction the repositories bind to the base handle.
	accountRepo, err := uow.AccountRepository()
	require.NoError(err)
	assert.NotNil(accountRepo)

	entryRepo, err := uow.EntryRepository()
	require.NoError(err)
	assert.NotNil(entryRepo)

	mock.ExpectBegin()
	mock.ExpectCommit()

	err = uow.Do(context.Background(), func(txUow repository.UnitOfWork) error {
		accountRepo, err := txUow.AccountRepository()
		require.NoError(err)
		assert.NotNil(accountRepo)

		entryRepo, err := txUow.EntryRepository()
		require.NoError(err)
		assert.NotNil(entryRepo)

		return nil
	})
	assert.NoError(err)
}

func TestUoW_RollbackOnError(t *testing.T) {
	require := require.New(t)
	db, mock := newMockDB(t)

	uow := NewUoW(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("nope")
	err := uow.Do(context.Background(), func(txUow repository.UnitOfWork) error {
		return boom
	})
	require.ErrorIs(err, boom)
	require.NoError(mock.ExpectationsWereMet())
}
