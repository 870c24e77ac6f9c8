// internal/store/services.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"licensure-service/internal/common/database"
	"licensure-service/internal/common/logger"
	"licensure-service/internal/models"
)

// ServiceStore reads the fee schedule. Each row carries the payment-type
// variant of one service in one board state with a JSONB array of price
// entries.
type ServiceStore struct {
	db     *database.PostgresClient
	logger logger.Logger
}

func NewServiceStore(db *database.PostgresClient, log logger.Logger) *ServiceStore {
	return &ServiceStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"store": "services"}),
	}
}

// GetAllByServiceAndState returns every fee-schedule variant for one service
// in one board state.
func (s *ServiceStore) GetAllByServiceAndState(ctx context.Context, serviceName, state string) ([]*models.ServiceConfig, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, service_name, state, payment_type, line_items,
		       total_full, total_step1, total_step2, tax_amount, tax_step1, tax_step2
		FROM services
		WHERE service_name = $1 AND state = $2`, serviceName, state)
	if err != nil {
		return nil, fmt.Errorf("%w: list services: %v", ErrApplicationQuery, err)
	}
	defer rows.Close()

	var configs []*models.ServiceConfig
	for rows.Next() {
		cfg, err := scanServiceConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan service: %v", ErrApplicationQuery, err)
		}
		configs = append(configs, cfg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate services: %v", ErrApplicationQuery, err)
	}
	return configs, nil
}

// GetVariant returns the fee schedule for one exact payment-type variant, or
// nil when the schedule has no such row.
func (s *ServiceStore) GetVariant(ctx context.Context, serviceName, state, paymentType string) (*models.ServiceConfig, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, service_name, state, payment_type, line_items,
		       total_full, total_step1, total_step2, tax_amount, tax_step1, tax_step2
		FROM services
		WHERE service_name = $1 AND state = $2 AND payment_type = $3
		LIMIT 1`, serviceName, state, paymentType)

	cfg, err := scanServiceConfig(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get service variant: %v", ErrApplicationQuery, err)
	}
	return cfg, nil
}

func scanServiceConfig(row rowScanner) (*models.ServiceConfig, error) {
	var cfg models.ServiceConfig
	var entriesJSON []byte
	if err := row.Scan(&cfg.ID, &cfg.ServiceName, &cfg.State, &cfg.PaymentType,
		&entriesJSON, &cfg.TotalFull, &cfg.TotalStep1, &cfg.TotalStep2,
		&cfg.TaxAmount, &cfg.TaxStep1, &cfg.TaxStep2); err != nil {
		return nil, err
	}
	if len(entriesJSON) > 0 {
		if err := json.Unmarshal(entriesJSON, &cfg.LineItems); err != nil {
			return nil, fmt.Errorf("unmarshal price entries: %w", err)
		}
	}
	return &cfg, nil
}
