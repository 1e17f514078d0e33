package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/openbank/ledger/pkg/domain"
	"github.com/openbank/ledger/pkg/dto"
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

func accountRows(id, ownerID uuid.UUID, number string, balance int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "owner_id", "account_number", "account_type", "balance", "currency", "status", "created_at", "updated_at",
	}).AddRow(id, ownerID, number, "checking", balance, "USD", "active", time.Now().UTC(), time.Now().UTC())
}

func TestAccountRepository_Create(t *testing.T) {
	require := require.New(t)
	db, mock := newMockDB(t)
	repo := accountRepository{db: db}

	create := dto.AccountCreate{
		ID:       uuid.New(),
		OwnerID:  uuid.New(),
		Number:   "123456789012",
		Type:     "checking",
		Balance:  10000,
		Currency: "USD",
		Status:   "active",
	}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "accounts" (.+) VALUES (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(repo.Create(context.Background(), create))

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "accounts" (.+) VALUES (.+)`).
		WillReturnError(gorm.ErrDuplicatedKey)
	mock.ExpectRollback()

	err := repo.Create(context.Background(), create)
	require.ErrorIs(err, domain.ErrConflict)

	require.NoError(mock.ExpectationsWereMet())
}

func TestAccountRepository_Get(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	db, mock := newMockDB(t)
	repo := accountRepository{db: db}

	accountID := uuid.New()
	ownerID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE id = \$1 ORDER BY "accounts"\."id" LIMIT \$2`).
		WithArgs(accountID, 1).
		WillReturnRows(accountRows(accountID, ownerID, "123456789012", 150050))

	read, err := repo.Get(context.Background(), accountID)
	require.NoError(err)
	assert.Equal(accountID, read.ID)
	assert.Equal(ownerID, read.OwnerID)
	assert.InDelta(1500.50, read.Balance, 1e-9)
	assert.Equal("active", read.Status)

	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE id = \$1 ORDER BY "accounts"\."id" LIMIT \$2`).
		WithArgs(sqlmock.AnyArg(), 1).
		WillReturnError(gorm.ErrRecordNotFound)

	read, err = repo.Get(context.Background(), uuid.New())
	require.ErrorIs(err, domain.ErrAccountNotFound)
	assert.Nil(read)
}

func TestAccountRepository_GetForUpdate(t *testing.T) {
	require := require.New(t)
	db, mock := newMockDB(t)
	repo := accountRepository{db: db}

	accountID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE id = \$1 ORDER BY "accounts"\."id" LIMIT \$2 FOR UPDATE`).
		WithArgs(accountID, 1).
		WillReturnRows(accountRows(accountID, uuid.New(), "123456789012", 0))

	read, err := repo.GetForUpdate(context.Background(), accountID)
	require.NoError(err)
	require.Equal(accountID, read.ID)
}

func TestAccountRepository_GetByNumber(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	db, mock := newMockDB(t)
	repo := accountRepository{db: db}

	accountID := uuid.New()
	number := "987654321098"

	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE account_number = \$1 ORDER BY "accounts"\."id" LIMIT \$2`).
		WithArgs(number, 1).
		WillReturnRows(accountRows(accountID, uuid.New(), number, 500))

	read, err := repo.GetByNumber(context.Background(), number)
	require.NoError(err)
	assert.Equal(number, read.Number)

	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE account_number = \$1 ORDER BY "accounts"\."id" LIMIT \$2`).
		WithArgs("000000000000", 1).
		WillReturnError(gorm.ErrRecordNotFound)

	_, err = repo.GetByNumber(context.Background(), "000000000000")
	require.ErrorIs(err, domain.ErrAccountNotFound)
}

func TestAccountRepository_Update(t *testing.T) {
	require := require.New(t)
	db, mock := newMockDB(t)
	repo := accountRepository{db: db}

	accountID := uuid.New()
	balance := int64(70000)
	status := "frozen"

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "accounts" SET (.+) WHERE id = (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(repo.Update(context.Background(), accountID, dto.AccountUpdate{Balance: &balance, Status: &status}))

	// Empty update is a no-op without touching the database.
	require.NoError(repo.Update(context.Background(), accountID, dto.AccountUpdate{}))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "accounts" SET (.+) WHERE id = (.+)`).
		WillReturnError(errors.New("update error"))
	mock.ExpectRollback()

	require.Error(repo.Update(context.Background(), accountID, dto.AccountUpdate{Balance: &balance}))

	require.NoError(mock.ExpectationsWereMet())
}

func TestAccountRepository_ListByOwner(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	db, mock := newMockDB(t)
	repo := accountRepository{db: db}

	ownerID := uuid.New()
	rows := sqlmock.NewRows([]string{
		"id", "owner_id", "account_number", "account_type", "balance", "currency", "status", "created_at", "updated_at",
	}).
		AddRow(uuid.New(), ownerID, "111111111111", "checking", 100, "USD", "active", time.Now().UTC(), time.Now().UTC()).
		AddRow(uuid.New(), ownerID, "222222222222", "savings", 200, "USD", "frozen", time.Now().UTC(), time.Now().UTC())

	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE owner_id = \$1 ORDER BY created_at`).
		WithArgs(ownerID).
		WillReturnRows(rows)

	reads, err := repo.ListByOwner(context.Background(), ownerID)
	require.NoError(err)
	require.Len(reads, 2)
	assert.Equal("111111111111", reads[0].Number)
	assert.Equal("frozen", reads[1].Status)
}
