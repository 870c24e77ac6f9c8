// internal/store/documents_test.go
package store

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"licensure-service/internal/common/database"
	commonerrors "licensure-service/internal/common/errors"
	"licensure-service/internal/common/logger"
)

func newDocumentStore(t *testing.T) (*DocumentStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewDocumentStore(&database.PostgresClient{DB: db}, "test-signing-key", "https://files.example.com", 15*time.Minute, logger.NewNoOpLogger()), mock
}

func TestInsertRecordsDocument(t *testing.T) {
	store, mock := newDocumentStore(t)

	mock.ExpectExec(`INSERT INTO documents`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	doc, err := store.Insert(context.Background(), "user-1", "diploma", "uploads/user-1/diploma.pdf")
	require.NoError(t, err)
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "diploma", doc.DocumentType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertFailureReturnsUploadError(t *testing.T) {
	store, mock := newDocumentStore(t)

	mock.ExpectExec(`INSERT INTO documents`).
		WillReturnError(errors.New("disk full"))

	_, err := store.Insert(context.Background(), "user-1", "diploma", "uploads/user-1/diploma.pdf")
	require.Error(t, err)

	var stdErr *commonerrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, commonerrors.ErrCodeDocumentUploadFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

func TestSignedURLVerifies(t *testing.T) {
	store, _ := newDocumentStore(t)

	signed := store.SignedURL("uploads/user-1/diploma.pdf", time.Hour)
	assert.True(t, strings.HasPrefix(signed, "https://files.example.com/files/"))

	u, err := url.Parse(signed)
	require.NoError(t, err)
	expires := u.Query().Get("expires")
	sig := u.Query().Get("sig")

	assert.True(t, store.VerifySignedURL("uploads/user-1/diploma.pdf", expires, sig))
	assert.False(t, store.VerifySignedURL("uploads/user-2/other.pdf", expires, sig), "signature is path-bound")
	assert.False(t, store.VerifySignedURL("uploads/user-1/diploma.pdf", expires, "bogus"))
}

func TestExpiredSignedURLRejected(t *testing.T) {
	store, _ := newDocumentStore(t)

	signed := store.SignedURL("uploads/user-1/photo.jpg", -time.Minute)
	u, err := url.Parse(signed)
	require.NoError(t, err)

	assert.False(t, store.VerifySignedURL("uploads/user-1/photo.jpg",
		u.Query().Get("expires"), u.Query().Get("sig")))
}
