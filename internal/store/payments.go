// internal/store/payments.go
package store

import (
	"context"
	"fmt"
	"time"

	"licensure-service/internal/common/database"
	"licensure-service/internal/common/logger"
	"licensure-service/internal/models"

	"github.com/google/uuid"
)

// PaymentStore records payments due against submitted applications.
type PaymentStore struct {
	db     *database.PostgresClient
	logger logger.Logger
}

func NewPaymentStore(db *database.PostgresClient, log logger.Logger) *PaymentStore {
	return &PaymentStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"store": "payments"}),
	}
}

// Create inserts a payment record in "created" status and returns it. The
// actual charge happens downstream in the payment provider.
func (s *PaymentStore) Create(ctx context.Context, applicationID, paymentType string, amount float64) (*models.Payment, error) {
	p := &models.Payment{
		ID:            uuid.New().String(),
		ApplicationID: applicationID,
		PaymentType:   paymentType,
		Amount:        amount,
		Status:        "created",
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO payments (id, application_id, payment_type, amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.ApplicationID, p.PaymentType, p.Amount, p.Status, p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: insert payment: %v", ErrApplicationWrite, err)
	}
	s.logger.Info("payment created", map[string]interface{}{
		"paymentId":     p.ID,
		"applicationId": applicationID,
		"amount":        amount,
	})
	return p, nil
}

// HasPriorPayment reports whether the user already paid for this service.
// Used to detect retakers who should see the reduced fee schedule.
func (s *PaymentStore) HasPriorPayment(ctx context.Context, userID, applicationType string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM payments p
			JOIN applications a ON a.id = p.application_id
			WHERE a.user_id = $1 AND a.application_type = $2 AND p.status = 'paid'
		)`, userID, applicationType).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%w: prior payment check: %v", ErrApplicationQuery, err)
	}
	return exists, nil
}

// GetByApplication lists payments for one application.
func (s *PaymentStore) GetByApplication(ctx context.Context, applicationID string) ([]*models.Payment, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, application_id, payment_type, amount, status, created_at
		FROM payments
		WHERE application_id = $1
		ORDER BY created_at DESC`, applicationID)
	if err != nil {
		return nil, fmt.Errorf("%w: list payments: %v", ErrApplicationQuery, err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.ApplicationID, &p.PaymentType, &p.Amount, &p.Status, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan payment: %v", ErrApplicationQuery, err)
		}
		payments = append(payments, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate payments: %v", ErrApplicationQuery, err)
	}
	return payments, nil
}
