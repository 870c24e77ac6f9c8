// internal/store/userdetails.go
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
)

// UserDetailsStore persists the reusable profile that pre-fills new wizards.
// Like applications, the profile fields live in a JSONB column keyed by user.
type UserDetailsStore struct {
	db     *database.PostgresClient
	logger logger.Logger
}

func NewUserDetailsStore(db *database.PostgresClient, log logger.Logger) *UserDetailsStore {
	return &UserDetailsStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"store": "user_details"}),
	}
}

// Get returns the stored profile for a user, or nil when none exists.
func (s *UserDetailsStore) Get(ctx context.Context, userID string) (*models.Profile, error) {
	var p models.Profile
	var dataJSON []byte
	err := s.db.QueryRow(ctx, `
		SELECT user_id, data, created_at, updated_at
		FROM user_details
		WHERE user_id = $1`, userID).Scan(&p.UserID, &dataJSON, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get user details: %v", ErrApplicationQuery, err)
	}
	if len(dataJSON) > 0 {
		if err := json.Unmarshal(dataJSON, &p.Data); err != nil {
			return nil, fmt.Errorf("%w: unmarshal user details: %v", ErrApplicationQuery, err)
		}
	}
	if p.Data == nil {
		p.Data = map[string]interface{}{}
	}
	return &p, nil
}

// Save upserts the profile keyed by user id. On conflict the incoming
// fields merge over the stored ones, so fields a given wizard never
// collects survive saves from that wizard.
func (s *UserDetailsStore) Save(ctx context.Context, userID string, data map[string]interface{}) error {
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("%w: marshal user details: %v", ErrApplicationWrite, err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.Exec(ctx, `
		INSERT INTO user_details (user_id, data, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			data = user_details.data || EXCLUDED.data,
			updated_at = EXCLUDED.updated_at`,
		userID, dataJSON, now)
	if err != nil {
		return fmt.Errorf("%w: upsert user details: %v", ErrApplicationWrite, err)
	}
	s.logger.Debug("user details saved", map[string]interface{}{"userId": userID})
	return nil
}
