// internal/store/applications.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"licensure-service/internal/common/database"
	"licensure-service/internal/common/logger"
	"licensure-service/internal/models"

	"github.com/google/uuid"
)

var (
	ErrApplicationNotFound = errors.New("RECORD_NOT_FOUND")
	ErrApplicationQuery    = errors.New("DATABASE_QUERY_FAILED")
	ErrApplicationWrite    = errors.New("DATABASE_INSERT_FAILED")
)

// ApplicationStore persists draft and submitted application records. The
// step payload lives in a JSONB column so the column set stays stable as
// wizard fields evolve.
type ApplicationStore struct {
	db     *database.PostgresClient
	logger logger.Logger
}

func NewApplicationStore(db *database.PostgresClient, log logger.Logger) *ApplicationStore {
	return &ApplicationStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"store": "applications"}),
	}
}

// FindLatestPending returns the most recently updated pending draft for a
// user and application type, or nil when the user has none.
func (s *ApplicationStore) FindLatestPending(ctx context.Context, userID, applicationType string) (*models.DraftRecord, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, user_id, application_type, data, status, created_at, updated_at
		FROM applications
		WHERE user_id = $1 AND application_type = $2 AND status = $3
		ORDER BY updated_at DESC
		LIMIT 1`,
		userID, applicationType, models.StatusPending)

	record, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: find latest pending: %v", ErrApplicationQuery, err)
	}
	return record, nil
}

// GetByID returns one application record.
func (s *ApplicationStore) GetByID(ctx context.Context, id string) (*models.DraftRecord, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, user_id, application_type, data, status, created_at, updated_at
		FROM applications
		WHERE id = $1`, id)

	record, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: application %s", ErrApplicationNotFound, id)
		}
		return nil, fmt.Errorf("%w: get by id: %v", ErrApplicationQuery, err)
	}
	return record, nil
}

// Create inserts a new pending record and returns it with generated id and
// timestamps.
func (s *ApplicationStore) Create(ctx context.Context, userID, applicationType string, data map[string]interface{}) (*models.DraftRecord, error) {
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal data: %v", ErrApplicationWrite, err)
	}

	record := &models.DraftRecord{
		ID:              uuid.New().String(),
		UserID:          userID,
		ApplicationType: applicationType,
		Data:            data,
		Status:          models.StatusPending,
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
	}
	record.UpdatedAt = record.CreatedAt

	_, err = s.db.Exec(ctx, `
		INSERT INTO applications (id, user_id, application_type, data, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)`,
		record.ID, record.UserID, record.ApplicationType, dataJSON, record.Status, record.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: insert failed: %v", ErrApplicationWrite, err)
	}

	s.logger.Info("application record created", map[string]interface{}{
		"applicationId":   record.ID,
		"userId":          record.UserID,
		"applicationType": record.ApplicationType,
	})
	return record, nil
}

// Update replaces an existing record's data and status and returns the
// updated record.
func (s *ApplicationStore) Update(ctx context.Context, id string, data map[string]interface{}, status string) (*models.DraftRecord, error) {
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal data: %v", ErrApplicationWrite, err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	result, err := s.db.Exec(ctx, `
		UPDATE applications
		SET data = $1, status = $2, updated_at = $3
		WHERE id = $4`,
		dataJSON, status, now, id)
	if err != nil {
		return nil, fmt.Errorf("%w: update failed: %v", ErrApplicationWrite, err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return nil, fmt.Errorf("%w: application %s", ErrApplicationNotFound, id)
	}

	return &models.DraftRecord{
		ID:        id,
		Data:      data,
		Status:    status,
		UpdatedAt: now,
	}, nil
}

// GetAllByUser lists a user's applications, newest first.
func (s *ApplicationStore) GetAllByUser(ctx context.Context, userID string) ([]*models.DraftRecord, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, application_type, data, status, created_at, updated_at
		FROM applications
		WHERE user_id = $1
		ORDER BY updated_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list by user: %v", ErrApplicationQuery, err)
	}
	defer rows.Close()

	var records []*models.DraftRecord
	for rows.Next() {
		record, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan row: %v", ErrApplicationQuery, err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate rows: %v", ErrApplicationQuery, err)
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanApplication(row rowScanner) (*models.DraftRecord, error) {
	var record models.DraftRecord
	var dataJSON []byte
	if err := row.Scan(&record.ID, &record.UserID, &record.ApplicationType,
		&dataJSON, &record.Status, &record.CreatedAt, &record.UpdatedAt); err != nil {
		return nil, err
	}
	if len(dataJSON) > 0 {
		if err := json.Unmarshal(dataJSON, &record.Data); err != nil {
			return nil, fmt.Errorf("unmarshal data: %w", err)
		}
	}
	if record.Data == nil {
		record.Data = map[string]interface{}{}
	}
	return &record, nil
}
