package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

func newMockOrderRepository(t *testing.T) (*GormOrderRepository, sqlmock.Sqlmock, *sql.DB) {
	gormDB, mock, mockDB := newMockDB(t)
	return NewGormOrderRepository(gormDB), mock, mockDB
}

func pendingOrder(t *testing.T) *order.Order {
	t.Helper()
	addr := valueobject.MustNewAddress("1 Main St", "Springfield", "IL", "62701", "USA")
	o, err := order.New("ORD-20260828-0001", uuid.New(), addr)
	require.NoError(t, err)
	price, err := valueobject.NewMoneyUSDFromString("25.00")
	require.NoError(t, err)
	_, err = o.AddLine(uuid.New(), "Ceramic Mug", price, 2)
	require.NoError(t, err)
	return o
}

func TestGormOrderRepository_FindByIDForUser(t *testing.T) {
	t.Run("foreign order reads as not found", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		orderID := uuid.New()
		strangerID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = \$1 AND user_id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(orderID, strangerID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		found, err := repo.FindByIDForUser(context.Background(), strangerID, orderID)

		assert.Nil(t, found)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrderRepository_Save(t *testing.T) {
	t.Run("bumps version on success", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		o := pendingOrder(t)
		require.Equal(t, 1, o.Version)

		mock.ExpectExec(`UPDATE "orders" SET .* WHERE id = \$\d+ AND version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Save(context.Background(), o)

		require.NoError(t, err)
		assert.Equal(t, 2, o.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stale version is a concurrency conflict", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		o := pendingOrder(t)
		mock.ExpectExec(`UPDATE "orders" SET .* WHERE id = \$\d+ AND version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Save(context.Background(), o)

		assert.Equal(t, shared.ErrConcurrencyConflict, err)
		assert.Equal(t, 1, o.Version, "version rolls back on failure")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrderRepository_CountByUser(t *testing.T) {
	repo, mock, mockDB := newMockOrderRepository(t)
	defer mockDB.Close()

	userID := uuid.New()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "orders" WHERE user_id = \$1`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.CountByUser(context.Background(), userID)

	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
