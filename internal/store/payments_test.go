// internal/store/payments_test.go
package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"licensure-service/internal/common/database"
	"licensure-service/internal/common/logger"
	"licensure-service/internal/models"
)

func newPaymentStore(t *testing.T) (*PaymentStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPaymentStore(&database.PostgresClient{DB: db}, logger.NewNoOpLogger()), mock
}

func TestCreatePaymentStartsInCreatedStatus(t *testing.T) {
	store, mock := newPaymentStore(t)

	mock.ExpectExec(`INSERT INTO payments`).
		WithArgs(sqlmock.AnyArg(), "app-1", models.PaymentFull, 556.0, "created", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	p, err := store.Create(context.Background(), "app-1", models.PaymentFull, 556.0)
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "created", p.Status)
	assert.InDelta(t, 556.0, p.Amount, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHasPriorPaymentDetectsRetaker(t *testing.T) {
	store, mock := newPaymentStore(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("user-1", models.ApplicationTypeNCLEX).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	retaker, err := store.HasPriorPayment(context.Background(), "user-1", models.ApplicationTypeNCLEX)
	require.NoError(t, err)
	assert.True(t, retaker)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByApplicationListsNewestFirst(t *testing.T) {
	store, mock := newPaymentStore(t)

	mock.ExpectQuery(`SELECT .+ FROM payments`).
		WithArgs("app-1").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "application_id", "payment_type", "amount", "status", "created_at"}).
			AddRow("pay-2", "app-1", models.PaymentStaggered, 256.0, "created", "2026-08-02T00:00:00Z").
			AddRow("pay-1", "app-1", models.PaymentStaggered, 300.0, "paid", "2026-08-01T00:00:00Z"))

	payments, err := store.GetByApplication(context.Background(), "app-1")
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, "pay-2", payments[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
