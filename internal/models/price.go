package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Price types
const (
	PriceTypeClose    = "close"
	PriceTypeLast     = "last"
	PriceTypeNAV      = "nav"
	PriceTypeMidpoint = "midpoint"
)

// Price represents one quoted unit price for a symbol on a given day.
// Several sources may quote the same symbol/day; quality_score breaks ties.
type Price struct {
	AsOfDate time.Time  `json:"asof_date"`
	AsOfTS   *time.Time `json:"asof_ts,omitempty"`

	Symbol    string          `json:"symbol"`
	PriceType string          `json:"price_type"`
	Price     decimal.Decimal `json:"price"`
	Currency  string          `json:"currency"`

	Venue        string `json:"venue,omitempty"`
	Source       string `json:"source"`
	QualityScore int    `json:"quality_score"`
}

func (p *Price) Validate() error {
	if p.AsOfDate.IsZero() {
		return errors.New("asof_date is required")
	}
	if p.Symbol == "" {
		return errors.New("symbol is required")
	}
	if p.Price.IsNegative() {
		return errors.New("price must be non-negative")
	}
	if p.Currency == "" {
		return errors.New("currency is required")
	}
	if p.Source == "" {
		return errors.New("source is required")
	}
	if p.QualityScore < 0 || p.QualityScore > 100 {
		return errors.New("quality_score must be between 0 and 100")
	}
	return nil
}
