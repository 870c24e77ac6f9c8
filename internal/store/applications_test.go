// internal/store/applications_test.go
package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"licensure-service/internal/common/database"
	"licensure-service/internal/common/logger"
	"licensure-service/internal/models"
)

// ==========================================
// Test Helpers
// ==========================================

func newApplicationStore(t *testing.T) (*ApplicationStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewApplicationStore(&database.PostgresClient{DB: db}, logger.NewNoOpLogger()), mock
}

func applicationColumns() []string {
	return []string{"id", "user_id", "application_type", "data", "status", "created_at", "updated_at"}
}

// ==========================================
// FindLatestPending Tests
// ==========================================

func TestFindLatestPendingReturnsNewestDraft(t *testing.T) {
	store, mock := newApplicationStore(t)

	data, _ := json.Marshal(map[string]interface{}{"firstName": "Maria", "city": "Manila"})
	now := time.Now().UTC().Format(time.RFC3339)
	mock.ExpectQuery(`SELECT .+ FROM applications`).
		WithArgs("user-1", models.ApplicationTypeNCLEX, models.StatusPending).
		WillReturnRows(sqlmock.NewRows(applicationColumns()).
			AddRow("draft-1", "user-1", models.ApplicationTypeNCLEX, data, models.StatusPending, now, now))

	record, err := store.FindLatestPending(context.Background(), "user-1", models.ApplicationTypeNCLEX)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "draft-1", record.ID)
	assert.Equal(t, "Maria", record.Data["firstName"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindLatestPendingReturnsNilWhenNoDraft(t *testing.T) {
	store, mock := newApplicationStore(t)

	mock.ExpectQuery(`SELECT .+ FROM applications`).
		WithArgs("user-1", models.ApplicationTypeEAD, models.StatusPending).
		WillReturnRows(sqlmock.NewRows(applicationColumns()))

	record, err := store.FindLatestPending(context.Background(), "user-1", models.ApplicationTypeEAD)
	require.NoError(t, err)
	assert.Nil(t, record)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================================
// Create / Update Tests
// ==========================================

func TestCreateGeneratesIDAndInserts(t *testing.T) {
	store, mock := newApplicationStore(t)

	mock.ExpectExec(`INSERT INTO applications`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	record, err := store.Create(context.Background(), "user-1", models.ApplicationTypeEAD,
		map[string]interface{}{"firstName": "Juan"})
	require.NoError(t, err)
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, models.StatusPending, record.Status)
	assert.Equal(t, record.CreatedAt, record.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateFailsWhenRecordMissing(t *testing.T) {
	store, mock := newApplicationStore(t)

	mock.ExpectExec(`UPDATE applications`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := store.Update(context.Background(), "missing-id",
		map[string]interface{}{"firstName": "Juan"}, models.StatusPending)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrApplicationNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateSetsStatus(t *testing.T) {
	store, mock := newApplicationStore(t)

	mock.ExpectExec(`UPDATE applications`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	record, err := store.Update(context.Background(), "draft-1",
		map[string]interface{}{"firstName": "Juan"}, models.StatusSubmitted)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, record.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================================
// GetByID Tests
// ==========================================

func TestGetByIDNotFound(t *testing.T) {
	store, mock := newApplicationStore(t)

	mock.ExpectQuery(`SELECT .+ FROM applications`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(applicationColumns()))

	_, err := store.GetByID(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrApplicationNotFound)
}

func TestGetByIDToleratesEmptyData(t *testing.T) {
	store, mock := newApplicationStore(t)

	now := time.Now().UTC().Format(time.RFC3339)
	mock.ExpectQuery(`SELECT .+ FROM applications`).
		WithArgs("draft-1").
		WillReturnRows(sqlmock.NewRows(applicationColumns()).
			AddRow("draft-1", "user-1", models.ApplicationTypeEAD, []byte(nil), models.StatusPending, now, now))

	record, err := store.GetByID(context.Background(), "draft-1")
	require.NoError(t, err)
	assert.NotNil(t, record.Data)
	assert.Empty(t, record.Data)
}
