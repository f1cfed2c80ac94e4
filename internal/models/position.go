package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Position represents one holding reported by a source at snapshot time.
// The same symbol may appear in several rows when it is held at more than
// one custodian or reported by more than one source; those stay distinct.
type Position struct {
	SnapshotDate time.Time `json:"snapshot_date"`
	SnapshotTS   time.Time `json:"snapshot_ts"`

	AccountID string `json:"account_id"`
	Source    string `json:"source"`
	Market    string `json:"market,omitempty"`

	Symbol   string          `json:"symbol"`
	Quantity decimal.Decimal `json:"quantity"`
	Currency string          `json:"currency,omitempty"`
}

func (p *Position) Validate() error {
	if p.SnapshotDate.IsZero() {
		return errors.New("snapshot_date is required")
	}
	if p.AccountID == "" {
		return errors.New("account_id is required")
	}
	if p.Source == "" {
		return errors.New("source is required")
	}
	if p.Symbol == "" {
		return errors.New("symbol is required")
	}
	if p.Quantity.IsNegative() {
		return errors.New("quantity must be non-negative")
	}
	return nil
}
