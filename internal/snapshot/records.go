package snapshot

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tropicaldog17/faro/internal/models"
)

// Snapshot files store dates as YYYY-MM-DD and timestamps as RFC 3339.
// Decimal quantities travel as strings so neither encoding loses precision.
const (
	dateLayout = "2006-01-02"

	// DefaultFXMaxAgeDays applies when a persisted FX row does not carry its
	// own carry-forward tolerance.
	DefaultFXMaxAgeDays = 3
)

type positionRecord struct {
	SnapshotDate string  `parquet:"snapshot_date"`
	SnapshotTS   string  `parquet:"snapshot_ts"`
	AccountID    string  `parquet:"account_id"`
	Source       string  `parquet:"source"`
	Market       *string `parquet:"market,optional"`
	Symbol       string  `parquet:"symbol"`
	Quantity     string  `parquet:"quantity"`
	Currency     *string `parquet:"currency,optional"`
}

type priceRecord struct {
	AsOfDate     string  `parquet:"asof_date"`
	AsOfTS       *string `parquet:"asof_ts,optional"`
	Symbol       string  `parquet:"symbol"`
	PriceType    string  `parquet:"price_type"`
	Price        string  `parquet:"price"`
	Currency     string  `parquet:"currency"`
	Venue        *string `parquet:"venue,optional"`
	Source       string  `parquet:"source"`
	QualityScore int32   `parquet:"quality_score"`
}

type fxRecord struct {
	AsOfDate     string `parquet:"asof_date"`
	FromCurrency string `parquet:"from_currency"`
	ToCurrency   string `parquet:"to_currency"`
	Rate         string `parquet:"rate"`
	Source       string `parquet:"source"`
	MaxAgeDays   *int32 `parquet:"max_age_days,optional"`
}

type valuationRecord struct {
	SnapshotDate       string  `parquet:"snapshot_date"`
	ComputedTS         string  `parquet:"computed_ts"`
	AccountID          string  `parquet:"account_id"`
	Source             string  `parquet:"source"`
	Market             *string `parquet:"market,optional"`
	Symbol             string  `parquet:"symbol"`
	Quantity           string  `parquet:"quantity"`
	UnitPriceNative    *string `parquet:"unit_price_native,optional"`
	UnitPriceNativeCcy *string `parquet:"unit_price_native_ccy,optional"`
	FXRateToBase       *string `parquet:"fx_rate_to_base,optional"`
	UnitPriceBase      *string `parquet:"unit_price_base,optional"`
	ValueBase          *string `parquet:"value_base,optional"`
	PriceSource        *string `parquet:"price_source,optional"`
	PriceQualityScore  *int32  `parquet:"price_quality_score,optional"`
	FXSource           *string `parquet:"fx_source,optional"`
	Status             string  `parquet:"status"`
}

// ---- record -> model ----

func (r positionRecord) toModel() (*models.Position, error) {
	date, err := parseDate(r.SnapshotDate)
	if err != nil {
		return nil, fmt.Errorf("position snapshot_date: %w", err)
	}
	ts, err := parseTimestamp(r.SnapshotTS)
	if err != nil {
		return nil, fmt.Errorf("position snapshot_ts: %w", err)
	}
	qty, err := decimal.NewFromString(r.Quantity)
	if err != nil {
		return nil, fmt.Errorf("position quantity: %w", err)
	}
	return &models.Position{
		SnapshotDate: date,
		SnapshotTS:   ts,
		AccountID:    r.AccountID,
		Source:       r.Source,
		Market:       deref(r.Market),
		Symbol:       r.Symbol,
		Quantity:     qty,
		Currency:     deref(r.Currency),
	}, nil
}

func (r priceRecord) toModel() (*models.Price, error) {
	date, err := parseDate(r.AsOfDate)
	if err != nil {
		return nil, fmt.Errorf("price asof_date: %w", err)
	}
	price, err := decimal.NewFromString(r.Price)
	if err != nil {
		return nil, fmt.Errorf("price value: %w", err)
	}
	var ts *time.Time
	if r.AsOfTS != nil && *r.AsOfTS != "" {
		parsed, err := parseTimestamp(*r.AsOfTS)
		if err != nil {
			return nil, fmt.Errorf("price asof_ts: %w", err)
		}
		ts = &parsed
	}
	return &models.Price{
		AsOfDate:     date,
		AsOfTS:       ts,
		Symbol:       r.Symbol,
		PriceType:    r.PriceType,
		Price:        price,
		Currency:     r.Currency,
		Venue:        deref(r.Venue),
		Source:       r.Source,
		QualityScore: int(r.QualityScore),
	}, nil
}

func (r fxRecord) toModel() (*models.FXRate, error) {
	date, err := parseDate(r.AsOfDate)
	if err != nil {
		return nil, fmt.Errorf("fx asof_date: %w", err)
	}
	rate, err := decimal.NewFromString(r.Rate)
	if err != nil {
		return nil, fmt.Errorf("fx rate: %w", err)
	}
	maxAge := DefaultFXMaxAgeDays
	if r.MaxAgeDays != nil {
		maxAge = int(*r.MaxAgeDays)
	}
	return &models.FXRate{
		AsOfDate:     date,
		FromCurrency: r.FromCurrency,
		ToCurrency:   r.ToCurrency,
		Rate:         rate,
		Source:       r.Source,
		MaxAgeDays:   maxAge,
	}, nil
}

func (r valuationRecord) toModel() (*models.Valuation, error) {
	date, err := parseDate(r.SnapshotDate)
	if err != nil {
		return nil, fmt.Errorf("valuation snapshot_date: %w", err)
	}
	computed, err := parseTimestamp(r.ComputedTS)
	if err != nil {
		return nil, fmt.Errorf("valuation computed_ts: %w", err)
	}
	qty, err := decimal.NewFromString(r.Quantity)
	if err != nil {
		return nil, fmt.Errorf("valuation quantity: %w", err)
	}

	v := &models.Valuation{
		SnapshotDate:       date,
		ComputedAt:         computed,
		AccountID:          r.AccountID,
		Source:             r.Source,
		Market:             deref(r.Market),
		Symbol:             r.Symbol,
		Quantity:           qty,
		UnitPriceNativeCcy: deref(r.UnitPriceNativeCcy),
		PriceSource:        deref(r.PriceSource),
		FXSource:           deref(r.FXSource),
		Status:             r.Status,
	}
	if v.UnitPriceNative, err = parseOptionalDecimal(r.UnitPriceNative); err != nil {
		return nil, fmt.Errorf("valuation unit_price_native: %w", err)
	}
	if v.FXRateToBase, err = parseOptionalDecimal(r.FXRateToBase); err != nil {
		return nil, fmt.Errorf("valuation fx_rate_to_base: %w", err)
	}
	if v.UnitPriceBase, err = parseOptionalDecimal(r.UnitPriceBase); err != nil {
		return nil, fmt.Errorf("valuation unit_price_base: %w", err)
	}
	if v.ValueBase, err = parseOptionalDecimal(r.ValueBase); err != nil {
		return nil, fmt.Errorf("valuation value_base: %w", err)
	}
	if r.PriceQualityScore != nil {
		score := int(*r.PriceQualityScore)
		v.PriceQualityScore = &score
	}
	return v, nil
}

// ---- model -> record ----

func positionToRecord(p *models.Position) positionRecord {
	return positionRecord{
		SnapshotDate: p.SnapshotDate.Format(dateLayout),
		SnapshotTS:   p.SnapshotTS.UTC().Format(time.RFC3339),
		AccountID:    p.AccountID,
		Source:       p.Source,
		Market:       optString(p.Market),
		Symbol:       p.Symbol,
		Quantity:     p.Quantity.String(),
		Currency:     optString(p.Currency),
	}
}

func priceToRecord(p *models.Price) priceRecord {
	var ts *string
	if p.AsOfTS != nil {
		formatted := p.AsOfTS.UTC().Format(time.RFC3339)
		ts = &formatted
	}
	return priceRecord{
		AsOfDate:     p.AsOfDate.Format(dateLayout),
		AsOfTS:       ts,
		Symbol:       p.Symbol,
		PriceType:    p.PriceType,
		Price:        p.Price.String(),
		Currency:     p.Currency,
		Venue:        optString(p.Venue),
		Source:       p.Source,
		QualityScore: int32(p.QualityScore),
	}
}

func fxToRecord(fx *models.FXRate) fxRecord {
	maxAge := int32(fx.MaxAgeDays)
	return fxRecord{
		AsOfDate:     fx.AsOfDate.Format(dateLayout),
		FromCurrency: fx.FromCurrency,
		ToCurrency:   fx.ToCurrency,
		Rate:         fx.Rate.String(),
		Source:       fx.Source,
		MaxAgeDays:   &maxAge,
	}
}

func valuationToRecord(v *models.Valuation) valuationRecord {
	rec := valuationRecord{
		SnapshotDate:       v.SnapshotDate.Format(dateLayout),
		ComputedTS:         v.ComputedAt.UTC().Format(time.RFC3339),
		AccountID:          v.AccountID,
		Source:             v.Source,
		Market:             optString(v.Market),
		Symbol:             v.Symbol,
		Quantity:           v.Quantity.String(),
		UnitPriceNative:    optDecimal(v.UnitPriceNative),
		UnitPriceNativeCcy: optString(v.UnitPriceNativeCcy),
		FXRateToBase:       optDecimal(v.FXRateToBase),
		UnitPriceBase:      optDecimal(v.UnitPriceBase),
		ValueBase:          optDecimal(v.ValueBase),
		PriceSource:        optString(v.PriceSource),
		FXSource:           optString(v.FXSource),
		Status:             v.Status,
	}
	if v.PriceQualityScore != nil {
		score := int32(*v.PriceQualityScore)
		rec.PriceQualityScore = &score
	}
	return rec
}

// ---- helpers ----

func parseDate(value string) (time.Time, error) {
	if len(value) > len(dateLayout) {
		// tolerate "YYYY-MM-DD HH:MM:SS" style values
		value = value[:len(dateLayout)]
	}
	date, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, err
	}
	return date.UTC(), nil
}

func parseTimestamp(value string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return ts.UTC(), nil
}

func parseOptionalDecimal(value *string) (*decimal.Decimal, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(*value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func optString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func optDecimal(value *decimal.Decimal) *string {
	if value == nil {
		return nil
	}
	s := value.String()
	return &s
}
