package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ValuationRow is one holding in a latest-snapshot response, enriched with
// its share of the snapshot's total valued amount.
type ValuationRow struct {
	Symbol   string          `json:"symbol"`
	Quantity decimal.Decimal `json:"quantity"`

	ValueBase          *decimal.Decimal `json:"value_base"`
	UnitPriceBase      *decimal.Decimal `json:"unit_price_base"`
	UnitPriceNative    *decimal.Decimal `json:"unit_price_native"`
	UnitPriceNativeCcy string           `json:"unit_price_native_ccy,omitempty"`
	FXRateToBase       *decimal.Decimal `json:"fx_rate_to_base"`

	AccountID string `json:"account_id,omitempty"`
	Source    string `json:"source,omitempty"`
	Market    string `json:"market,omitempty"`
	Status    string `json:"status,omitempty"`

	PriceSource       string `json:"price_source,omitempty"`
	PriceQualityScore *int   `json:"price_quality_score"`
	FXSource          string `json:"fx_source,omitempty"`

	PortfolioSharePct *decimal.Decimal `json:"portfolio_share_pct"`
}

// ValuationTotals aggregates one snapshot.
type ValuationTotals struct {
	Positions      int              `json:"positions"`
	OKPositions    int              `json:"ok_positions"`
	TotalValueBase *decimal.Decimal `json:"total_value_base"`
	BaseCurrency   string           `json:"base_currency"`
}

// LatestValuationResponse is the read-boundary shape for the most recent
// valuation snapshot of one account.
type LatestValuationResponse struct {
	SnapshotDate time.Time       `json:"snapshot_date"`
	ComputedAt   time.Time       `json:"computed_at"`
	AccountID    string          `json:"account_id"`
	BaseCurrency string          `json:"base_currency"`
	Totals       ValuationTotals `json:"totals"`
	Rows         []*ValuationRow `json:"rows"`
	SourceFile   string          `json:"source_file"`
}

// PriceHistoryPoint is one deduplicated daily price, optionally converted
// into the base currency.
type PriceHistoryPoint struct {
	AsOfDate     time.Time        `json:"asof_date"`
	AsOfTS       *time.Time       `json:"asof_ts,omitempty"`
	Price        decimal.Decimal  `json:"price"`
	Currency     string           `json:"currency"`
	PriceBase    *decimal.Decimal `json:"price_base"`
	Source       string           `json:"source,omitempty"`
	Venue        string           `json:"venue,omitempty"`
	QualityScore *int             `json:"quality_score"`
}

// DailySnapshotSummary reports one valuation pass over today's partitions.
type DailySnapshotSummary struct {
	SnapshotDate time.Time `json:"snapshot_date"`
	Positions    int       `json:"positions"`
	Valuations   int       `json:"valuations"`
	Accounts     []string  `json:"accounts"`
	Files        []string  `json:"files"`
}

// PriceHistoryResponse is the read-boundary shape for a symbol's history
// window. MissingFX is true when any point could not be converted.
type PriceHistoryResponse struct {
	BaseCurrency string               `json:"base_currency"`
	WindowDays   int                  `json:"window_days"`
	Points       int                  `json:"points"`
	MissingFX    bool                 `json:"missing_fx"`
	Prices       []*PriceHistoryPoint `json:"prices"`
}
