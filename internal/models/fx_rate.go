package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// FXRate represents a directional conversion factor:
// amount_in_from * rate = amount_in_to.
//
// MaxAgeDays bounds how far the rate may be carried forward when applied to
// a later date. A value of 0 means the rate is only usable on its own day.
type FXRate struct {
	AsOfDate     time.Time       `json:"asof_date"`
	FromCurrency string          `json:"from_currency"`
	ToCurrency   string          `json:"to_currency"`
	Rate         decimal.Decimal `json:"rate"`
	Source       string          `json:"source"`
	MaxAgeDays   int             `json:"max_age_days"`
}

func (fx *FXRate) Validate() error {
	if fx.AsOfDate.IsZero() {
		return errors.New("asof_date is required")
	}
	if fx.FromCurrency == "" {
		return errors.New("from_currency is required")
	}
	if fx.ToCurrency == "" {
		return errors.New("to_currency is required")
	}
	if fx.FromCurrency == fx.ToCurrency {
		return errors.New("from_currency and to_currency must be different")
	}
	if fx.Rate.IsZero() || fx.Rate.IsNegative() {
		return errors.New("rate must be positive")
	}
	if fx.Source == "" {
		return errors.New("source is required")
	}
	if fx.MaxAgeDays < 0 {
		return errors.New("max_age_days must be non-negative")
	}
	return nil
}

// GetInverseRate calculates the inverse rate (1/rate).
func (fx *FXRate) GetInverseRate() decimal.Decimal {
	if fx.Rate.IsZero() {
		return decimal.Zero
	}
	return decimal.NewFromInt(1).Div(fx.Rate)
}
