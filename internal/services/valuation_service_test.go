package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tropicaldog17/faro/internal/models"
)

var (
	snapDate   = time.Date(2024, 11, 15, 0, 0, 0, 0, time.UTC)
	computedAt = time.Date(2024, 11, 15, 8, 30, 0, 0, time.UTC)
)

func position(account, source, symbol string, qty float64) *models.Position {
	return &models.Position{
		SnapshotDate: snapDate,
		SnapshotTS:   computedAt,
		AccountID:    account,
		Source:       source,
		Symbol:       symbol,
		Quantity:     decimal.NewFromFloat(qty),
	}
}

func price(symbol string, value float64, currency, source string, quality int) *models.Price {
	return &models.Price{
		AsOfDate:     snapDate,
		Symbol:       symbol,
		PriceType:    models.PriceTypeLast,
		Price:        decimal.NewFromFloat(value),
		Currency:     currency,
		Source:       source,
		QualityScore: quality,
	}
}

func fxRate(from, to string, rate float64, source string) *models.FXRate {
	return &models.FXRate{
		AsOfDate:     snapDate,
		FromCurrency: from,
		ToCurrency:   to,
		Rate:         decimal.NewFromFloat(rate),
		Source:       source,
		MaxAgeDays:   3,
	}
}

func TestComputeValuationsSinglePosition(t *testing.T) {
	svc := NewValuationService()

	valuations := svc.ComputeValuations(
		[]*models.Position{position("acc-a", "iol_api", "AAPL", 3)},
		[]*models.Price{price("AAPL", 500.166, "USD", "iol_api", 90)},
		nil,
		"USD", snapDate, computedAt,
	)

	require.Len(t, valuations, 1)
	v := valuations[0]
	assert.Equal(t, models.StatusOK, v.Status)
	assert.Equal(t, "acc-a", v.AccountID)
	require.NotNil(t, v.ValueBase)
	assert.True(t, v.ValueBase.Equal(decimal.RequireFromString("1500.498")), "value_base = %s", v.ValueBase)
	require.NotNil(t, v.FXRateToBase)
	assert.True(t, v.FXRateToBase.Equal(decimal.NewFromInt(1)))
	assert.Empty(t, v.FXSource)
	assert.Equal(t, "iol_api", v.PriceSource)
	require.NotNil(t, v.PriceQualityScore)
	assert.Equal(t, 90, *v.PriceQualityScore)
}

func TestComputeValuationsQualityTieBreak(t *testing.T) {
	svc := NewValuationService()
	positions := []*models.Position{position("acc-a", "iol_api", "AAPL", 1)}

	// the higher score wins regardless of input order
	for _, prices := range [][]*models.Price{
		{price("AAPL", 100, "USD", "low", 70), price("AAPL", 200, "USD", "high", 90)},
		{price("AAPL", 200, "USD", "high", 90), price("AAPL", 100, "USD", "low", 70)},
	} {
		valuations := svc.ComputeValuations(positions, prices, nil, "USD", snapDate, computedAt)
		require.Len(t, valuations, 1)
		assert.Equal(t, "high", valuations[0].PriceSource)
		require.NotNil(t, valuations[0].UnitPriceNative)
		assert.True(t, valuations[0].UnitPriceNative.Equal(decimal.NewFromInt(200)))
	}

	// on an exact score tie the first row encountered is kept
	valuations := svc.ComputeValuations(positions,
		[]*models.Price{price("AAPL", 100, "USD", "first", 90), price("AAPL", 200, "USD", "second", 90)},
		nil, "USD", snapDate, computedAt)
	require.Len(t, valuations, 1)
	assert.Equal(t, "first", valuations[0].PriceSource)
}

func TestComputeValuationsInverseFX(t *testing.T) {
	svc := NewValuationService()

	valuations := svc.ComputeValuations(
		[]*models.Position{position("acc-a", "iol_api", "GGAL", 10)},
		[]*models.Price{price("GGAL", 5000, "ARS", "iol_api", 80)},
		[]*models.FXRate{fxRate("USD", "ARS", 1000, "dolarapi")},
		"USD", snapDate, computedAt,
	)

	require.Len(t, valuations, 1)
	v := valuations[0]
	assert.Equal(t, models.StatusOK, v.Status)
	require.NotNil(t, v.FXRateToBase)
	assert.True(t, v.FXRateToBase.Equal(decimal.RequireFromString("0.001")), "fx_rate = %s", v.FXRateToBase)
	assert.Equal(t, "dolarapi", v.FXSource)
	require.NotNil(t, v.ValueBase)
	assert.True(t, v.ValueBase.Equal(decimal.NewFromInt(50)), "value_base = %s", v.ValueBase)
}

func TestComputeValuationsMissingInputs(t *testing.T) {
	svc := NewValuationService()

	valuations := svc.ComputeValuations(
		[]*models.Position{
			position("acc-a", "iol_api", "NOPRICE", 5),
			position("acc-a", "iol_api", "NOFX", 5),
		},
		[]*models.Price{price("NOFX", 42, "EUR", "manual", 50)},
		nil,
		"USD", snapDate, computedAt,
	)

	require.Len(t, valuations, 2)

	noPrice := valuations[0]
	assert.Equal(t, models.StatusMissingInput, noPrice.Status)
	assert.Nil(t, noPrice.UnitPriceNative)
	assert.Nil(t, noPrice.ValueBase)
	assert.Empty(t, noPrice.PriceSource)

	// native price fields are filled even when conversion is impossible
	noFX := valuations[1]
	assert.Equal(t, models.StatusMissingInput, noFX.Status)
	require.NotNil(t, noFX.UnitPriceNative)
	assert.True(t, noFX.UnitPriceNative.Equal(decimal.NewFromInt(42)))
	assert.Equal(t, "EUR", noFX.UnitPriceNativeCcy)
	assert.Nil(t, noFX.ValueBase)
	assert.Nil(t, noFX.FXRateToBase)
}

func TestComputeValuationsDeterministic(t *testing.T) {
	svc := NewValuationService()
	positions := []*models.Position{
		position("acc-a", "iol_api", "AAPL", 3),
		position("acc-b", "binance_api", "BTC", 0.5),
		position("acc-a", "manual", "AAPL", 1),
	}
	prices := []*models.Price{
		price("AAPL", 500.166, "USD", "iol_api", 90),
		price("BTC", 90000, "USDT", "binance_api", 85),
	}
	rates := []*models.FXRate{fxRate("USDT", "USD", 0.9998, "binance_api")}

	first := svc.ComputeValuations(positions, prices, rates, "USD", snapDate, computedAt)
	second := svc.ComputeValuations(positions, prices, rates, "USD", snapDate, computedAt)

	require.Len(t, first, 3)
	require.Len(t, second, 3)
	// insertion order of positions is preserved, including duplicate symbols
	assert.Equal(t, []string{"AAPL", "BTC", "AAPL"}, []string{first[0].Symbol, first[1].Symbol, first[2].Symbol})
	for i := range first {
		assert.Equal(t, first[i].Symbol, second[i].Symbol)
		assert.Equal(t, first[i].Status, second[i].Status)
		if first[i].ValueBase != nil {
			require.NotNil(t, second[i].ValueBase)
			assert.True(t, first[i].ValueBase.Equal(*second[i].ValueBase))
		}
	}
}
