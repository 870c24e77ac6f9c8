// internal/store/quotations.go
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
	"licensure-service/internal/fields"
	"licensure-service/internal/models"

	"github.com/google/uuid"
)

// QuotationStore persists public price quotes. Quotes are created without
// authentication, so the store generates both the record id and the short
// display id shown to the requester.
type QuotationStore struct {
	db     *database.PostgresClient
	logger logger.Logger
}

func NewQuotationStore(db *database.PostgresClient, log logger.Logger) *QuotationStore {
	return &QuotationStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"store": "quotations"}),
	}
}

// CreatePublic saves a quotation requested from the public quote wizard and
// fills in its generated ids and timestamp.
func (s *QuotationStore) CreatePublic(ctx context.Context, q *models.Quotation) error {
	q.ID = uuid.New().String()
	q.DisplayID = fields.FormatGQID(q.ID)
	q.CreatedAt = time.Now().UTC().Format(time.RFC3339)

	lineItemsJSON, err := json.Marshal(q.LineItems)
	if err != nil {
		return fmt.Errorf("%w: marshal line items: %v", ErrApplicationWrite, err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO quotations (
			id, display_id, first_name, last_name, email, mobile,
			service, state, taker_type, payment_type,
			amount, description, line_items, subtotal, tax, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		q.ID, q.DisplayID, q.FirstName, q.LastName, q.Email, q.Mobile,
		q.Service, q.State, q.TakerType, q.PaymentType,
		q.Amount, q.Description, lineItemsJSON, q.Subtotal, q.Tax, q.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: insert quotation: %v", ErrApplicationWrite, err)
	}

	s.logger.Info("quotation created", map[string]interface{}{
		"quotationId": q.ID,
		"displayId":   q.DisplayID,
	})
	return nil
}

// GetByID returns one quotation.
func (s *QuotationStore) GetByID(ctx context.Context, id string) (*models.Quotation, error) {
	var q models.Quotation
	var lineItemsJSON []byte
	err := s.db.QueryRow(ctx, `
		SELECT id, display_id, first_name, last_name, email, mobile,
		       service, state, taker_type, payment_type,
		       amount, description, line_items, subtotal, tax, created_at
		FROM quotations
		WHERE id = $1`, id).Scan(
		&q.ID, &q.DisplayID, &q.FirstName, &q.LastName, &q.Email, &q.Mobile,
		&q.Service, &q.State, &q.TakerType, &q.PaymentType,
		&q.Amount, &q.Description, &lineItemsJSON, &q.Subtotal, &q.Tax, &q.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: quotation %s", ErrApplicationNotFound, id)
		}
		return nil, fmt.Errorf("%w: get quotation: %v", ErrApplicationQuery, err)
	}
	if len(lineItemsJSON) > 0 {
		if err := json.Unmarshal(lineItemsJSON, &q.LineItems); err != nil {
			return nil, fmt.Errorf("%w: unmarshal line items: %v", ErrApplicationQuery, err)
		}
	}
	return &q, nil
}
