package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/commerce/backend/internal/domain/order"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockOrderRepository creates a GormOrderRepository with a mocked SQL connection
func newMockOrderRepository(t *testing.T) (*GormOrderRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormOrderRepository(gormDB), mock, mockDB
}

func TestGormOrderRepository_FindByID(t *testing.T) {
	t.Run("finds order with its lines", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		orderID := uuid.New()
		lineID := uuid.New()
		productID := uuid.New()

		orderRows := sqlmock.NewRows([]string{"id", "number", "status", "total_incl_tax", "total_excl_tax", "version"}).
			AddRow(orderID, "ORD-20260828-AB12CD34EF", order.StatusPending, decimal.NewFromInt(120), decimal.NewFromInt(100), 1)

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(orderID, 1).
			WillReturnRows(orderRows)

		lineRows := sqlmock.NewRows([]string{"id", "order_id", "product_id", "product_name", "quantity"}).
			AddRow(lineID, orderID, productID, "Espresso Beans", 2)

		mock.ExpectQuery(`SELECT \* FROM "order_lines" WHERE "order_lines"\."order_id" = \$1`).
			WithArgs(orderID).
			WillReturnRows(lineRows)

		o, err := repo.FindByID(context.Background(), orderID)

		assert.NoError(t, err)
		assert.NotNil(t, o)
		assert.Equal(t, "ORD-20260828-AB12CD34EF", o.Number)
		assert.Len(t, o.Lines, 1)
		assert.Equal(t, "Espresso Beans", o.Lines[0].ProductName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error for non-existent order", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		orderID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(orderID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		o, err := repo.FindByID(context.Background(), orderID)

		assert.Error(t, err)
		assert.Nil(t, o)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrderRepository_FindByNumber(t *testing.T) {
	t.Run("finds order by number", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		orderID := uuid.New()

		orderRows := sqlmock.NewRows([]string{"id", "number", "status", "version"}).
			AddRow(orderID, "ORD-20260828-AB12CD34EF", order.StatusInit, 1)

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE number = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("ORD-20260828-AB12CD34EF", 1).
			WillReturnRows(orderRows)

		mock.ExpectQuery(`SELECT \* FROM "order_lines" WHERE "order_lines"\."order_id" = \$1`).
			WithArgs(orderID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "order_id"}))

		o, err := repo.FindByNumber(context.Background(), "ORD-20260828-AB12CD34EF")

		assert.NoError(t, err)
		assert.NotNil(t, o)
		assert.Equal(t, orderID, o.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrderRepository_Save(t *testing.T) {
	t.Run("rejects stale version with concurrency conflict", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		userID := uuid.New()
		o, err := order.NewOrder(&userID, "")
		require.NoError(t, err)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT "version" FROM "orders" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(o.ID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(2))
		mock.ExpectRollback()

		err = repo.Save(context.Background(), o)

		assert.Error(t, err)
		assert.Equal(t, shared.ErrConcurrencyConflict, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrderRepository_Delete(t *testing.T) {
	t.Run("deletes order lines before the order", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		orderID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "order_lines" WHERE order_id = \$1`).
			WithArgs(orderID).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(`DELETE FROM "orders" WHERE id = \$1`).
			WithArgs(orderID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Delete(context.Background(), orderID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error for non-existent order", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		orderID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "order_lines" WHERE order_id = \$1`).
			WithArgs(orderID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM "orders" WHERE id = \$1`).
			WithArgs(orderID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.Delete(context.Background(), orderID)

		assert.Error(t, err)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrderRepository_Count(t *testing.T) {
	t.Run("applies the status filter", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "orders" WHERE status = \$1`).
			WithArgs(order.StatusPaid).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

		count, err := repo.Count(context.Background(), shared.Filter{
			Filters: map[string]any{"status": order.StatusPaid},
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(4), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrderRepository_CountByVoucher(t *testing.T) {
	t.Run("counts orders that redeemed the voucher", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		voucherID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "orders" WHERE voucher_id = \$1`).
			WithArgs(voucherID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		count, err := repo.CountByVoucher(context.Background(), voucherID)

		assert.NoError(t, err)
		assert.Equal(t, int64(3), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrderRepository_InterfaceCompliance(t *testing.T) {
	t.Run("implements order.Repository interface", func(t *testing.T) {
		repo, _, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		var _ order.Repository = repo
	})
}
