// internal/pricing/engine_test.go
package pricing

import (
	"testing"

	commonerrors "licensure-service/internal/common/errors"
	"licensure-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTable() []models.PriceEntry {
	return []models.PriceEntry{
		{Description: "Credential evaluation", Amount: 267.99, Taxable: false, Step: 1},
		{Description: "NCLEX examination fee", Amount: 508, Taxable: false, Step: 2},
	}
}

func taxableTable() []models.PriceEntry {
	return []models.PriceEntry{
		{Description: "Processing fee", Amount: 100, Taxable: true, Step: 1},
		{Description: "Courier", Amount: 50, Taxable: false, Step: 1},
		{Description: "Examination fee", Amount: 200, Taxable: true, Step: 2},
	}
}

func TestBuild_FirstTimeFullPayment(t *testing.T) {
	quote, err := NewEngine(0).Build(models.TakerFirstTime, models.PaymentFull, testTable())
	require.NoError(t, err)

	require.Len(t, quote.LineItems, 2)
	for _, item := range quote.LineItems {
		assert.False(t, item.PayLater)
		assert.Equal(t, 1, item.Quantity)
		assert.Equal(t, item.UnitPrice, item.Total)
	}
	assert.InDelta(t, 775.99, quote.Subtotal, 1e-9)
	assert.InDelta(t, 0, quote.Tax, 1e-9)
	assert.InDelta(t, 775.99, quote.Total, 1e-9)
}

func TestBuild_StaggeredPartitionInvariant(t *testing.T) {
	quote, err := NewEngine(0.12).Build(models.TakerFirstTime, models.PaymentStaggered, taxableTable())
	require.NoError(t, err)

	require.Len(t, quote.LineItems, 3)

	var payNowTotal, payNowTax float64
	var payLaterCount int
	for _, item := range quote.LineItems {
		if item.PayLater {
			payLaterCount++
			continue
		}
		payNowTotal += item.Total
		if item.Taxable {
			payNowTax += item.Total * 0.12
		}
	}

	assert.Equal(t, 1, payLaterCount, "step-2 entries become the pay-later partition")
	assert.InDelta(t, payNowTotal, quote.Subtotal, 1e-9)
	assert.InDelta(t, payNowTax, quote.Tax, 1e-9)
	assert.InDelta(t, quote.Subtotal+quote.Tax, quote.Total, 1e-9)

	// 100 + 50 due now, tax only on the taxable 100.
	assert.InDelta(t, 150, quote.Subtotal, 1e-9)
	assert.InDelta(t, 12, quote.Tax, 1e-9)
	assert.InDelta(t, 162, quote.Total, 1e-9)
}

func TestBuild_RetakerGetsStepTwoOnly(t *testing.T) {
	quote, err := NewEngine(0.12).Build(models.TakerRetaker, models.PaymentFull, taxableTable())
	require.NoError(t, err)

	require.Len(t, quote.LineItems, 1)
	assert.Equal(t, "Examination fee", quote.LineItems[0].Description)
	assert.False(t, quote.LineItems[0].PayLater)
	assert.InDelta(t, 200, quote.Subtotal, 1e-9)
	assert.InDelta(t, 24, quote.Tax, 1e-9)
	assert.InDelta(t, 224, quote.Total, 1e-9)
}

func TestBuild_RetakerStaggeredRejected(t *testing.T) {
	_, err := NewEngine(0.12).Build(models.TakerRetaker, models.PaymentStaggered, testTable())
	require.Error(t, err)

	var stdErr *commonerrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, commonerrors.ErrCodeInvalidTakerSelection, stdErr.Code)
}

func TestBuild_EntriesWithoutStepCountAsStepOne(t *testing.T) {
	table := []models.PriceEntry{
		{Description: "Base fee", Amount: 80},
		{Description: "Exam", Amount: 20, Step: 2},
	}
	quote, err := NewEngine(0.12).Build(models.TakerFirstTime, models.PaymentStaggered, table)
	require.NoError(t, err)

	assert.InDelta(t, 80, quote.Subtotal, 1e-9)
	assert.True(t, quote.LineItems[1].PayLater)
}

func TestTableFor(t *testing.T) {
	configs := []models.ServiceConfig{
		{PaymentType: models.PaymentFull, LineItems: testTable()},
		{PaymentType: models.PaymentStaggered, LineItems: taxableTable()},
	}
	assert.Len(t, TableFor(configs, models.PaymentStaggered), 3)
	assert.Len(t, TableFor(configs, models.PaymentFull), 2)
	assert.Nil(t, TableFor(configs, "weekly"))
}
