// internal/store/services_test.go
package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"licensure-service/internal/common/database"
	"licensure-service/internal/common/logger"
	"licensure-service/internal/models"
)

func newServiceStore(t *testing.T) (*ServiceStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewServiceStore(&database.PostgresClient{DB: db}, logger.NewNoOpLogger()), mock
}

func serviceColumns() []string {
	return []string{"id", "service_name", "state", "payment_type", "line_items",
		"total_full", "total_step1", "total_step2", "tax_amount", "tax_step1", "tax_step2"}
}

func TestGetAllByServiceAndStateDecodesEntries(t *testing.T) {
	store, mock := newServiceStore(t)

	entries, _ := json.Marshal([]models.PriceEntry{
		{Description: "NCLEX exam fee", Amount: 200, Taxable: false, Step: 1},
		{Description: "Licensure fee", Amount: 300, Taxable: false, Step: 2},
	})
	mock.ExpectQuery(`SELECT .+ FROM services`).
		WithArgs("nclex", "New York").
		WillReturnRows(sqlmock.NewRows(serviceColumns()).
			AddRow("svc-1", "nclex", "New York", models.PaymentFull, entries,
				500.0, 200.0, 300.0, 0.0, 0.0, 0.0).
			AddRow("svc-2", "nclex", "New York", models.PaymentStaggered, entries,
				500.0, 200.0, 300.0, 0.0, 0.0, 0.0))

	configs, err := store.GetAllByServiceAndState(context.Background(), "nclex", "New York")
	require.NoError(t, err)
	require.Len(t, configs, 2)
	assert.Equal(t, models.PaymentFull, configs[0].PaymentType)
	require.Len(t, configs[0].LineItems, 2)
	assert.Equal(t, 2, configs[0].LineItems[1].Step)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetVariantReturnsNilWhenMissing(t *testing.T) {
	store, mock := newServiceStore(t)

	mock.ExpectQuery(`SELECT .+ FROM services`).
		WithArgs("nclex", "Guam", models.PaymentStaggered).
		WillReturnRows(sqlmock.NewRows(serviceColumns()))

	cfg, err := store.GetVariant(context.Background(), "nclex", "Guam", models.PaymentStaggered)
	require.NoError(t, err)
	assert.Nil(t, cfg)
}
