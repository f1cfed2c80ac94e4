package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Valuation statuses
const (
	StatusOK           = "ok"
	StatusMissingInput = "missing_input"
	StatusStalePrice   = "stale_price"
	StatusStaleFX      = "stale_fx"
	StatusAnomaly      = "anomaly"
)

// Valuation is the derived record combining a Position with its resolved
// Price and FXRate. ValueBase is set iff Status is "ok". Rows are computed
// in one pass per snapshot and never mutated afterwards.
type Valuation struct {
	SnapshotDate time.Time `json:"snapshot_date"`
	ComputedAt   time.Time `json:"computed_at"`

	AccountID string `json:"account_id"`
	Source    string `json:"source"`
	Market    string `json:"market,omitempty"`

	Symbol   string          `json:"symbol"`
	Quantity decimal.Decimal `json:"quantity"`

	UnitPriceNative    *decimal.Decimal `json:"unit_price_native"`
	UnitPriceNativeCcy string           `json:"unit_price_native_ccy,omitempty"`
	FXRateToBase       *decimal.Decimal `json:"fx_rate_to_base"`
	UnitPriceBase      *decimal.Decimal `json:"unit_price_base"`
	ValueBase          *decimal.Decimal `json:"value_base"`

	PriceSource       string `json:"price_source,omitempty"`
	PriceQualityScore *int   `json:"price_quality_score"`
	FXSource          string `json:"fx_source,omitempty"`

	Status string `json:"status"`
}

func (v *Valuation) Validate() error {
	if v.SnapshotDate.IsZero() {
		return errors.New("snapshot_date is required")
	}
	if v.AccountID == "" {
		return errors.New("account_id is required")
	}
	if v.Symbol == "" {
		return errors.New("symbol is required")
	}
	if v.Quantity.IsNegative() {
		return errors.New("quantity must be non-negative")
	}
	switch v.Status {
	case StatusOK, StatusMissingInput, StatusStalePrice, StatusStaleFX, StatusAnomaly:
	default:
		return errors.New("status is invalid")
	}
	if v.Status == StatusOK && v.ValueBase == nil {
		return errors.New("value_base is required when status is ok")
	}
	if v.Status != StatusOK && v.ValueBase != nil {
		return errors.New("value_base must be empty unless status is ok")
	}
	if v.PriceQualityScore != nil && (*v.PriceQualityScore < 0 || *v.PriceQualityScore > 100) {
		return errors.New("price_quality_score must be between 0 and 100")
	}
	return nil
}
