package entry

import (
	"context"
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

var entryColumns = []string{
	"id", "account_id", "entry_type", "amount", "currency", "description",
	"counterparty_account", "reference_number", "status", "timestamp",
}

func TestEntryRepository_Create(t *testing.T) {
	require := require.New(t)
	db, mock := newMockDB(t)
	repo := entryRepository{db: db}

	create := dto.EntryCreate{
		ID:          uuid.New(),
		AccountID:   uuid.New(),
		Type:        "deposit",
		Amount:      50000,
		Currency:    "USD",
		Description: "Deposit",
		Reference:   "AB12CD34EF56",
		Status:      "completed",
	}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "entries" (.+) VALUES (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(repo.Create(context.Background(), create))

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "entries" (.+) VALUES (.+)`).
		WillReturnError(gorm.ErrDuplicatedKey)
	mock.ExpectRollback()

	err := repo.Create(context.Background(), create)
	require.ErrorIs(err, domain.ErrConflict)

	require.NoError(mock.ExpectationsWereMet())
}

func TestEntryRepository_Get(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	db, mock := newMockDB(t)
	repo := entryRepository{db: db}

	entryID := uuid.New()
	accountID := uuid.New()
	counterparty := "123456789012"

	rows := sqlmock.NewRows(entryColumns).
		AddRow(entryID, accountID, "transfer", int64(-30000), "USD",
			"Transfer to 123456789012: rent", &counterparty, "AB12CD34EF56", "completed", time.Now().UTC())
	mock.ExpectQuery(`SELECT \* FROM "entries" WHERE id = \$1 ORDER BY "entries"\."id" LIMIT \$2`).
		WithArgs(entryID, 1).
		WillReturnRows(rows)

	read, err := repo.Get(context.Background(), entryID)
	require.NoError(err)
	assert.Equal(entryID, read.ID)
	assert.Equal(accountID, read.AccountID)
	assert.InDelta(-300.00, read.Amount, 1e-9)
	assert.Equal(counterparty, read.Counterparty)

	mock.ExpectQuery(`SELECT \* FROM "entries" WHERE id = \$1 ORDER BY "entries"\."id" LIMIT \$2`).
		WithArgs(sqlmock.AnyArg(), 1).
		WillReturnError(gorm.ErrRecordNotFound)

	_, err = repo.Get(context.Background(), uuid.New())
	require.ErrorIs(err, domain.ErrEntryNotFound)
}

func TestEntryRepository_GetByReference(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	db, mock := newMockDB(t)
	repo := entryRepository{db: db}

	reference := "AB12CD34EF56"
	rows := sqlmock.NewRows(entryColumns).
		AddRow(uuid.New(), uuid.New(), "deposit", int64(10000), "USD",
			"Deposit", nil, reference, "completed", time.Now().UTC())
	mock.ExpectQuery(`SELECT \* FROM "entries" WHERE reference_number = \$1 ORDER BY "entries"\."id" LIMIT \$2`).
		WithArgs(reference, 1).
		WillReturnRows(rows)

	read, err := repo.GetByReference(context.Background(), reference)
	require.NoError(err)
	assert.Equal(reference, read.Reference)
	assert.Empty(read.Counterparty)

	mock.ExpectQuery(`SELECT \* FROM "entries" WHERE reference_number = \$1 ORDER BY "entries"\."id" LIMIT \$2`).
		WithArgs("MISSING00000", 1).
		WillReturnError(gorm.ErrRecordNotFound)

	_, err = repo.GetByReference(context.Background(), "MISSING00000")
	require.ErrorIs(err, domain.ErrEntryNotFound)
}

func TestEntryRepository_ListByAccount(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	db, mock := newMockDB(t)
	repo := entryRepository{db: db}

	accountID := uuid.New()

	t.Run("no filter", func(t *testing.T) {
		rows := sqlmock.NewRows(entryColumns).
			AddRow(uuid.New(), accountID, "deposit", int64(10000), "USD",
				"Deposit", nil, "REF000000001", "completed", time.Now().UTC()).
			AddRow(uuid.New(), accountID, "withdrawal", int64(-5000), "USD",
				"Withdrawal", nil, "REF000000002", "completed", time.Now().UTC())
		mock.ExpectQuery(`SELECT \* FROM "entries" WHERE account_id = \$1 ORDER BY timestamp DESC`).
			WithArgs(accountID).
			WillReturnRows(rows)

		reads, err := repo.ListByAccount(context.Background(), accountID, dto.EntryFilter{})
		require.NoError(err)
		require.Len(reads, 2)
		assert.InDelta(100.00, reads[0].Amount, 1e-9)
		assert.InDelta(-50.00, reads[1].Amount, 1e-9)
	})

	t.Run("type filter with limit", func(t *testing.T) {
		rows := sqlmock.NewRows(entryColumns).
			AddRow(uuid.New(), accountID, "deposit", int64(10000), "USD",
				"Deposit", nil, "REF000000003", "completed", time.Now().UTC())
		mock.ExpectQuery(`SELECT \* FROM "entries" WHERE account_id = \$1 AND entry_type = \$2 ORDER BY timestamp DESC LIMIT \$3`).
			WithArgs(accountID, "deposit", 10).
			WillReturnRows(rows)

		reads, err := repo.ListByAccount(context.Background(), accountID, dto.EntryFilter{Type: "deposit", Limit: 10})
		require.NoError(err)
		require.Len(reads, 1)
		assert.Equal("deposit", reads[0].Type)
	})

	t.Run("text query", func(t *testing.T) {
		rows := sqlmock.NewRows(entryColumns)
		mock.ExpectQuery(`SELECT \* FROM "entries" WHERE account_id = \$1 AND \(description ILIKE \$2 OR reference_number ILIKE \$3\) ORDER BY timestamp DESC`).
			WithArgs(accountID, "%rent%", "%rent%").
			WillReturnRows(rows)

		reads, err := repo.ListByAccount(context.Background(), accountID, dto.EntryFilter{Query: "rent"})
		require.NoError(err)
		assert.Empty(reads)
	})
}
