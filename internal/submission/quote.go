// internal/submission/quote.go
package submission

import (
	"context"
	"fmt"
	"time"

	commonerrors "licensure-service/internal/common/errors"
	"licensure-service/internal/common/logger"
	"licensure-service/internal/models"
	"licensure-service/internal/pricing"
	"licensure-service/internal/wizard"
	wizardquote "licensure-service/internal/wizard/quote"
)

// QuotationStore persists public quotations.
type QuotationStore interface {
	CreatePublic(ctx context.Context, q *models.Quotation) error
}

// ScheduleSource lists all fee-schedule variants for a service+state.
type ScheduleSource interface {
	GetAllByServiceAndState(ctx context.Context, serviceName, state string) ([]*models.ServiceConfig, error)
}

// QuoteNotifications is the decoupled quotation email.
type QuoteNotifications interface {
	QuotationReady(ctx context.Context, q *models.Quotation)
}

// QuoteFinalizer prices and persists a public quotation at the end of the
// quote wizard.
type QuoteFinalizer struct {
	quotations QuotationStore
	schedules  ScheduleSource
	engine     *pricing.Engine
	notify     QuoteNotifications
	logger     logger.Logger
}

func NewQuoteFinalizer(quotations QuotationStore, schedules ScheduleSource, engine *pricing.Engine, notify QuoteNotifications, log logger.Logger) *QuoteFinalizer {
	return &QuoteFinalizer{
		quotations: quotations,
		schedules:  schedules,
		engine:     engine,
		notify:     notify,
		logger:     log.WithFields(map[string]interface{}{"component": "quote-finalizer"}),
	}
}

// Finalize implements wizard.Finalizer for the quote wizard.
func (f *QuoteFinalizer) Finalize(ctx context.Context, d wizardquote.Draft) (*wizard.Handoff, error) {
	quote, err := f.Price(ctx, d.Service, d.BoardState, d.TakerType, d.PaymentType)
	if err != nil {
		return nil, err
	}

	q := &models.Quotation{
		FirstName:   d.FirstName,
		LastName:    d.LastName,
		Email:       d.Email,
		Mobile:      d.Mobile,
		Service:     d.Service,
		State:       d.BoardState,
		TakerType:   d.TakerType,
		PaymentType: d.PaymentType,
		Amount:      quote.Total,
		Description: fmt.Sprintf("%s %s", d.Service, d.BoardState),
		LineItems:   quote.LineItems,
		Subtotal:    quote.Subtotal,
		Tax:         quote.Tax,
	}
	if err := f.quotations.CreatePublic(ctx, q); err != nil {
		return nil, commonerrors.NewQuotationSaveFailedError(err)
	}

	if f.notify != nil {
		saved := *q
		go func() {
			nctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			f.notify.QuotationReady(nctx, &saved)
		}()
	}

	return &wizard.Handoff{
		Route:     "quotation",
		RecordID:  q.ID,
		DisplayID: q.DisplayID,
	}, nil
}

// Price builds a quote for a taker/payment selection without persisting
// anything. The preview endpoint uses this directly.
func (f *QuoteFinalizer) Price(ctx context.Context, serviceName, state, takerType, paymentType string) (*models.PriceQuote, error) {
	configs, err := f.schedules.GetAllByServiceAndState(ctx, serviceName, state)
	if err != nil {
		return nil, err
	}

	table := tableFor(configs, paymentType)
	if table == nil {
		// Schedules without a staggered variant fall back to the full table;
		// the engine still splits the installments by step.
		table = tableFor(configs, models.PaymentFull)
	}
	if table == nil {
		return nil, commonerrors.NewPriceTableNotFoundError(serviceName, state)
	}

	return f.engine.Build(takerType, paymentType, table)
}

func tableFor(configs []*models.ServiceConfig, paymentType string) []models.PriceEntry {
	values := make([]models.ServiceConfig, 0, len(configs))
	for _, cfg := range configs {
		values = append(values, *cfg)
	}
	return pricing.TableFor(values, paymentType)
}
