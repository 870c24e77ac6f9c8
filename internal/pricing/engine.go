// internal/pricing/engine.go
package pricing

import (
	"math"
	"time"

	commonerrors "licensure-service/internal/common/errors"
	"licensure-service/internal/common/metrics"
	"licensure-service/internal/models"
)

// DefaultTaxRate is applied to taxable line items.
const DefaultTaxRate = 0.12

// Engine derives a priced quote from a remotely configured price table. The
// quote is regenerated wholesale whenever taker type, payment type or the
// table changes; it is never incrementally patched.
type Engine struct {
	taxRate float64
}

func NewEngine(taxRate float64) *Engine {
	if taxRate <= 0 {
		taxRate = DefaultTaxRate
	}
	return &Engine{taxRate: taxRate}
}

// Build computes the line items and totals for a taker-type + payment-type
// selection. Retakers may only pay in full.
func (e *Engine) Build(takerType, paymentType string, table []models.PriceEntry) (*models.PriceQuote, error) {
	if takerType == models.TakerRetaker && paymentType == models.PaymentStaggered {
		return nil, &commonerrors.StandardError{
			Code:      commonerrors.ErrCodeInvalidTakerSelection,
			Message:   "Retakers must pay in full",
			Retryable: false,
			Timestamp: time.Now().UTC(),
		}
	}

	step1, step2 := partition(table)

	var items []models.LineItem
	switch {
	case takerType == models.TakerRetaker:
		// Retakers already paid the first installment on their original
		// attempt; only the second-step fees apply.
		items = lineItems(step2, false)
	case paymentType == models.PaymentStaggered:
		items = append(lineItems(step1, false), lineItems(step2, true)...)
	default:
		items = append(lineItems(step1, false), lineItems(step2, false)...)
	}

	quote := &models.PriceQuote{
		LineItems:   items,
		PaymentType: paymentType,
		TakerType:   takerType,
	}

	// Totals cover only the amount due now; pay-later items stay visible in
	// the line-item list for the second installment.
	for _, item := range items {
		if item.PayLater {
			continue
		}
		quote.Subtotal += item.Total
		if item.Taxable {
			quote.Tax += item.Total * e.taxRate
		}
	}
	quote.Subtotal = round2(quote.Subtotal)
	quote.Tax = round2(quote.Tax)
	quote.Total = round2(quote.Subtotal + quote.Tax)

	metrics.QuotesBuilt.WithLabelValues(takerType, paymentType).Inc()
	return quote, nil
}

// TableFor picks the price table matching the payment type from the configs
// returned for a service+state.
func TableFor(configs []models.ServiceConfig, paymentType string) []models.PriceEntry {
	for _, cfg := range configs {
		if cfg.PaymentType == paymentType {
			return cfg.LineItems
		}
	}
	return nil
}

// partition splits price-table entries into the up-front group (no step or
// step 1) and the second-installment group (step 2).
func partition(table []models.PriceEntry) (step1, step2 []models.PriceEntry) {
	for _, entry := range table {
		if entry.Step == 2 {
			step2 = append(step2, entry)
		} else {
			step1 = append(step1, entry)
		}
	}
	return step1, step2
}

func lineItems(entries []models.PriceEntry, payLater bool) []models.LineItem {
	items := make([]models.LineItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, models.LineItem{
			Description: entry.Description,
			Quantity:    1,
			UnitPrice:   entry.Amount,
			Total:       entry.Amount,
			Taxable:     entry.Taxable,
			PayLater:    payLater,
		})
	}
	return items
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
