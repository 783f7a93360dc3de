package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fieldline/backend/internal/domain/ledger"
)

// newMockLedgerRepository creates a GormLedgerRepository with a mocked SQL
// connection, for exercising failure paths a real sqlite file won't produce.
func newMockLedgerRepository(t *testing.T) (*GormLedgerRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return NewGormLedgerRepository(gormDB), mock, mockDB
}

func TestGormLedgerRepository_QueryFailureWrapsStorageError(t *testing.T) {
	repo, mock, mockDB := newMockLedgerRepository(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE salesman_id = \$1`).
		WithArgs("sm-1").
		WillReturnError(errors.New("connection reset"))

	_, err := repo.OrdersByOwner(context.Background(), "sm-1")
	require.Error(t, err)

	var storageErr *ledger.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "query orders", storageErr.Op)
	assert.Contains(t, err.Error(), "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormLedgerRepository_DeleteRollsBackOnFailure(t *testing.T) {
	repo, mock, mockDB := newMockLedgerRepository(t)
	defer mockDB.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "order_line_items" WHERE order_id = \$1`).
		WithArgs(7).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), 7)
	require.Error(t, err)

	var storageErr *ledger.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "delete order", storageErr.Op)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormLedgerRepository_LineItemQueryFailure(t *testing.T) {
	repo, mock, mockDB := newMockLedgerRepository(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT \* FROM "order_line_items" WHERE order_id = \$1`).
		WithArgs(3).
		WillReturnError(errors.New("relation does not exist"))

	_, err := repo.LineItemsByOrder(context.Background(), 3)
	require.Error(t, err)

	var storageErr *ledger.StorageError
	assert.ErrorAs(t, err, &storageErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}
