// internal/store/documents.go
package store

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"licensure-service/internal/common/database"
	commonerrors "licensure-service/internal/common/errors"
	"licensure-service/internal/common/logger"
	"licensure-service/internal/models"

	"github.com/google/uuid"
)

// DocumentStore tracks uploaded files and issues expiring signed URLs for
// them.
type DocumentStore struct {
	db         *database.PostgresClient
	signingKey []byte
	baseURL    string
	urlTTL     time.Duration
	logger     logger.Logger
}

func NewDocumentStore(db *database.PostgresClient, signingKey, baseURL string, urlTTL time.Duration, log logger.Logger) *DocumentStore {
	if urlTTL <= 0 {
		urlTTL = 15 * time.Minute
	}
	return &DocumentStore{
		db:         db,
		signingKey: []byte(signingKey),
		baseURL:    baseURL,
		urlTTL:     urlTTL,
		logger:     log.WithFields(map[string]interface{}{"store": "documents"}),
	}
}

// GetAllByUser lists a user's uploaded documents, newest first.
func (s *DocumentStore) GetAllByUser(ctx context.Context, userID string) ([]*models.Document, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, document_type, file_path, created_at
		FROM documents
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list documents: %v", ErrApplicationQuery, err)
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		var d models.Document
		if err := rows.Scan(&d.ID, &d.UserID, &d.DocumentType, &d.FilePath, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan document: %v", ErrApplicationQuery, err)
		}
		docs = append(docs, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate documents: %v", ErrApplicationQuery, err)
	}
	return docs, nil
}

// Insert records one uploaded file.
func (s *DocumentStore) Insert(ctx context.Context, userID, documentType, filePath string) (*models.Document, error) {
	doc := &models.Document{
		ID:           uuid.New().String(),
		UserID:       userID,
		DocumentType: documentType,
		FilePath:     filePath,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO documents (id, user_id, document_type, file_path, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		doc.ID, doc.UserID, doc.DocumentType, doc.FilePath, doc.CreatedAt)
	if err != nil {
		return nil, commonerrors.NewDocumentUploadFailedError(documentType, err)
	}
	s.logger.Info("document recorded", map[string]interface{}{
		"documentId":   doc.ID,
		"userId":       userID,
		"documentType": documentType,
	})
	return doc, nil
}

// SignedURL returns a time-limited download URL for a stored file. The
// signature covers the path and expiry so a leaked link stops working once
// the TTL passes.
func (s *DocumentStore) SignedURL(filePath string, ttl time.Duration) string {
	expires := time.Now().Add(ttl).Unix()
	sig := s.sign(filePath, expires)
	return fmt.Sprintf("%s/files/%s?expires=%d&sig=%s",
		s.baseURL, url.PathEscape(filePath), expires, sig)
}

// PreviewURL is SignedURL with the store's configured TTL.
func (s *DocumentStore) PreviewURL(filePath string) string {
	return s.SignedURL(filePath, s.urlTTL)
}

// VerifySignedURL checks the signature and expiry produced by SignedURL.
func (s *DocumentStore) VerifySignedURL(filePath, expiresStr, sig string) bool {
	expires, err := strconv.ParseInt(expiresStr, 10, 64)
	if err != nil {
		return false
	}
	if time.Now().Unix() > expires {
		return false
	}
	expected := s.sign(filePath, expires)
	return hmac.Equal([]byte(expected), []byte(sig))
}

func (s *DocumentStore) sign(filePath string, expires int64) string {
	mac := hmac.New(sha256.New, s.signingKey)
	fmt.Fprintf(mac, "%s:%d", filePath, expires)
	return hex.EncodeToString(mac.Sum(nil))
}
