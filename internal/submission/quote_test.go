// internal/submission/quote_test.go
package submission

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "licensure-service/internal/common/errors"
	"licensure-service/internal/common/logger"
	"licensure-service/internal/models"
	"licensure-service/internal/pricing"
	wizardquote "licensure-service/internal/wizard/quote"
)

type fakeQuotations struct {
	saved *models.Quotation
	err   error
}

func (f *fakeQuotations) CreatePublic(ctx context.Context, q *models.Quotation) error {
	if f.err != nil {
		return f.err
	}
	q.ID = "quote-1"
	q.DisplayID = "GQ-1A2B3C4D"
	f.saved = q
	return nil
}

type fakeSchedules struct {
	configs []*models.ServiceConfig
}

func (f *fakeSchedules) GetAllByServiceAndState(ctx context.Context, serviceName, state string) ([]*models.ServiceConfig, error) {
	return f.configs, nil
}

func testSchedules() *fakeSchedules {
	return &fakeSchedules{configs: []*models.ServiceConfig{
		{PaymentType: models.PaymentFull, LineItems: []models.PriceEntry{
			{Description: "Exam fee", Amount: 200, Taxable: false, Step: 1},
			{Description: "Licensure fee", Amount: 300, Taxable: false, Step: 2},
		}},
	}}
}

func testQuoteDraft() wizardquote.Draft {
	return wizardquote.Draft{
		Service:       "nclex",
		BoardState:    "New York",
		TakerType:     models.TakerFirstTime,
		PaymentType:   models.PaymentFull,
		FirstName:     "Maria",
		LastName:      "Cruz",
		Email:         "maria@example.com",
		AgreedToTerms: true,
	}
}

func TestQuoteFinalizePersistsAndRoutes(t *testing.T) {
	quotations := &fakeQuotations{}
	f := NewQuoteFinalizer(quotations, testSchedules(), pricing.NewEngine(0.12), nil, logger.NewNoOpLogger())

	handoff, err := f.Finalize(context.Background(), testQuoteDraft())
	require.NoError(t, err)

	assert.Equal(t, "quotation", handoff.Route)
	assert.Equal(t, "quote-1", handoff.RecordID)
	assert.Equal(t, "GQ-1A2B3C4D", handoff.DisplayID)

	require.NotNil(t, quotations.saved)
	assert.InDelta(t, 500.0, quotations.saved.Amount, 0.001)
	assert.Len(t, quotations.saved.LineItems, 2)
}

func TestQuoteStaggeredFallsBackToFullTable(t *testing.T) {
	f := NewQuoteFinalizer(&fakeQuotations{}, testSchedules(), pricing.NewEngine(0.12), nil, logger.NewNoOpLogger())

	quote, err := f.Price(context.Background(), "nclex", "New York", models.TakerFirstTime, models.PaymentStaggered)
	require.NoError(t, err)

	// Only the step-1 fee is due now.
	assert.InDelta(t, 200.0, quote.Total, 0.001)
	assert.Len(t, quote.LineItems, 2)
	assert.True(t, quote.LineItems[1].PayLater)
}

func TestQuoteMissingScheduleRejected(t *testing.T) {
	f := NewQuoteFinalizer(&fakeQuotations{}, &fakeSchedules{}, pricing.NewEngine(0.12), nil, logger.NewNoOpLogger())

	_, err := f.Price(context.Background(), "nclex", "Guam", models.TakerFirstTime, models.PaymentFull)
	require.Error(t, err)

	var stdErr *commonerrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, commonerrors.ErrCodePriceTableNotFound, stdErr.Code)
}
