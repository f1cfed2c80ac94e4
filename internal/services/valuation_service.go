package services

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tropicaldog17/faro/internal/models"
)

// ValuationServiceImpl implements ValuationService as a pure computation;
// it holds no state and is safe for concurrent use.
type ValuationServiceImpl struct{}

func NewValuationService() ValuationService {
	return &ValuationServiceImpl{}
}

type currencyPair struct {
	from string
	to   string
}

// ComputeValuations joins each position to the best available price and FX
// rate and emits one valuation row per position, in input order.
//
// Price conflicts resolve on quality_score alone; the first row wins ties.
// The price-history path additionally tie-breaks on timestamp — the two
// behaviors differ per call site on purpose.
func (s *ValuationServiceImpl) ComputeValuations(positions []*models.Position, prices []*models.Price, fxRates []*models.FXRate, baseCurrency string, snapshotDate, computedAt time.Time) []*models.Valuation {
	base := strings.ToUpper(baseCurrency)

	priceBySymbol := make(map[string]*models.Price, len(prices))
	for _, price := range prices {
		current, ok := priceBySymbol[price.Symbol]
		if !ok || price.QualityScore > current.QualityScore {
			priceBySymbol[price.Symbol] = price
		}
	}

	// one rate per pair; a later duplicate replaces an earlier one
	fxByPair := make(map[currencyPair]*models.FXRate, len(fxRates))
	for _, fx := range fxRates {
		pair := currencyPair{
			from: strings.ToUpper(fx.FromCurrency),
			to:   strings.ToUpper(fx.ToCurrency),
		}
		fxByPair[pair] = fx
	}

	valuations := make([]*models.Valuation, 0, len(positions))
	for _, position := range positions {
		v := &models.Valuation{
			SnapshotDate: snapshotDate,
			ComputedAt:   computedAt,
			AccountID:    position.AccountID,
			Source:       position.Source,
			Market:       position.Market,
			Symbol:       position.Symbol,
			Quantity:     position.Quantity,
			Status:       models.StatusMissingInput,
		}

		price, ok := priceBySymbol[position.Symbol]
		if !ok {
			valuations = append(valuations, v)
			continue
		}

		unitNative := price.Price
		quality := price.QualityScore
		v.UnitPriceNative = &unitNative
		v.UnitPriceNativeCcy = strings.ToUpper(price.Currency)
		v.PriceSource = price.Source
		v.PriceQualityScore = &quality

		fxRate, fxSource, ok := resolveSnapshotFX(v.UnitPriceNativeCcy, base, fxByPair)
		if !ok {
			valuations = append(valuations, v)
			continue
		}

		unitBase := unitNative.Mul(fxRate)
		valueBase := unitBase.Mul(position.Quantity)
		v.FXRateToBase = &fxRate
		v.FXSource = fxSource
		v.UnitPriceBase = &unitBase
		v.ValueBase = &valueBase
		v.Status = models.StatusOK

		valuations = append(valuations, v)
	}
	return valuations
}

// resolveSnapshotFX returns the conversion factor from the price currency
// into the base currency: identity for same-currency, a direct pair when
// recorded, or the inverted reverse pair with the original row's source.
func resolveSnapshotFX(currency, base string, fxByPair map[currencyPair]*models.FXRate) (decimal.Decimal, string, bool) {
	if currency == base {
		return decimal.NewFromInt(1), "", true
	}
	if fx, ok := fxByPair[currencyPair{from: currency, to: base}]; ok {
		return fx.Rate, fx.Source, true
	}
	if fx, ok := fxByPair[currencyPair{from: base, to: currency}]; ok && !fx.Rate.IsZero() {
		return fx.GetInverseRate(), fx.Source, true
	}
	return decimal.Zero, "", false
}
