package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

var testDate = time.Date(2024, 11, 15, 0, 0, 0, 0, time.UTC)

func TestPositionValidate(t *testing.T) {
	tests := []struct {
		name        string
		position    *Position
		expectError bool
	}{
		{
			name: "valid position",
			position: &Position{
				SnapshotDate: testDate,
				SnapshotTS:   testDate.Add(8 * time.Hour),
				AccountID:    "acc-123",
				Source:       "iol_api",
				Symbol:       "AAPL",
				Quantity:     decimal.NewFromInt(3),
				Currency:     "USD",
			},
			expectError: false,
		},
		{
			name: "zero quantity is allowed by the model",
			position: &Position{
				SnapshotDate: testDate,
				AccountID:    "acc-123",
				Source:       "manual",
				Symbol:       "BTC",
				Quantity:     decimal.Zero,
			},
			expectError: false,
		},
		{
			name: "negative quantity",
			position: &Position{
				SnapshotDate: testDate,
				AccountID:    "acc-123",
				Source:       "manual",
				Symbol:       "BTC",
				Quantity:     decimal.NewFromInt(-1),
			},
			expectError: true,
		},
		{
			name: "missing account",
			position: &Position{
				SnapshotDate: testDate,
				Source:       "manual",
				Symbol:       "BTC",
				Quantity:     decimal.NewFromInt(1),
			},
			expectError: true,
		},
		{
			name: "missing symbol",
			position: &Position{
				SnapshotDate: testDate,
				AccountID:    "acc-123",
				Source:       "manual",
				Quantity:     decimal.NewFromInt(1),
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.position.Validate()
			if tt.expectError && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestPriceValidate(t *testing.T) {
	tests := []struct {
		name        string
		price       *Price
		expectError bool
	}{
		{
			name: "valid price",
			price: &Price{
				AsOfDate:     testDate,
				Symbol:       "AAPL",
				PriceType:    PriceTypeLast,
				Price:        decimal.NewFromFloat(500.166),
				Currency:     "USD",
				Source:       "iol_api",
				QualityScore: 90,
			},
			expectError: false,
		},
		{
			name: "negative price",
			price: &Price{
				AsOfDate:     testDate,
				Symbol:       "AAPL",
				PriceType:    PriceTypeLast,
				Price:        decimal.NewFromInt(-1),
				Currency:     "USD",
				Source:       "iol_api",
				QualityScore: 90,
			},
			expectError: true,
		},
		{
			name: "quality score above 100",
			price: &Price{
				AsOfDate:     testDate,
				Symbol:       "AAPL",
				PriceType:    PriceTypeLast,
				Price:        decimal.NewFromInt(1),
				Currency:     "USD",
				Source:       "iol_api",
				QualityScore: 101,
			},
			expectError: true,
		},
		{
			name: "quality score below 0",
			price: &Price{
				AsOfDate:     testDate,
				Symbol:       "AAPL",
				PriceType:    PriceTypeLast,
				Price:        decimal.NewFromInt(1),
				Currency:     "USD",
				Source:       "iol_api",
				QualityScore: -1,
			},
			expectError: true,
		},
		{
			name: "missing currency",
			price: &Price{
				AsOfDate:     testDate,
				Symbol:       "AAPL",
				PriceType:    PriceTypeLast,
				Price:        decimal.NewFromInt(1),
				Source:       "iol_api",
				QualityScore: 90,
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.price.Validate()
			if tt.expectError && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestFXRateValidate(t *testing.T) {
	tests := []struct {
		name        string
		rate        *FXRate
		expectError bool
	}{
		{
			name: "valid rate",
			rate: &FXRate{
				AsOfDate:     testDate,
				FromCurrency: "USD",
				ToCurrency:   "ARS",
				Rate:         decimal.NewFromInt(1000),
				Source:       "dolarapi",
				MaxAgeDays:   3,
			},
			expectError: false,
		},
		{
			name: "zero rate",
			rate: &FXRate{
				AsOfDate:     testDate,
				FromCurrency: "USD",
				ToCurrency:   "ARS",
				Rate:         decimal.Zero,
				Source:       "dolarapi",
			},
			expectError: true,
		},
		{
			name: "negative rate",
			rate: &FXRate{
				AsOfDate:     testDate,
				FromCurrency: "USD",
				ToCurrency:   "ARS",
				Rate:         decimal.NewFromInt(-1),
				Source:       "dolarapi",
			},
			expectError: true,
		},
		{
			name: "same currencies",
			rate: &FXRate{
				AsOfDate:     testDate,
				FromCurrency: "USD",
				ToCurrency:   "USD",
				Rate:         decimal.NewFromInt(1),
				Source:       "dolarapi",
			},
			expectError: true,
		},
		{
			name: "negative max age",
			rate: &FXRate{
				AsOfDate:     testDate,
				FromCurrency: "USD",
				ToCurrency:   "ARS",
				Rate:         decimal.NewFromInt(1000),
				Source:       "dolarapi",
				MaxAgeDays:   -1,
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rate.Validate()
			if tt.expectError && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestFXRateGetInverseRate(t *testing.T) {
	fx := &FXRate{Rate: decimal.NewFromInt(1000)}
	if got, want := fx.GetInverseRate(), decimal.NewFromFloat(0.001); !got.Equal(want) {
		t.Errorf("inverse rate = %s, want %s", got, want)
	}

	zero := &FXRate{Rate: decimal.Zero}
	if !zero.GetInverseRate().IsZero() {
		t.Error("inverse of zero rate should be zero")
	}
}

func TestValuationValidate(t *testing.T) {
	value := decimal.NewFromFloat(1500.498)

	tests := []struct {
		name        string
		valuation   *Valuation
		expectError bool
	}{
		{
			name: "ok with value",
			valuation: &Valuation{
				SnapshotDate: testDate,
				AccountID:    "acc-123",
				Symbol:       "AAPL",
				Quantity:     decimal.NewFromInt(3),
				ValueBase:    &value,
				Status:       StatusOK,
			},
			expectError: false,
		},
		{
			name: "ok without value",
			valuation: &Valuation{
				SnapshotDate: testDate,
				AccountID:    "acc-123",
				Symbol:       "AAPL",
				Quantity:     decimal.NewFromInt(3),
				Status:       StatusOK,
			},
			expectError: true,
		},
		{
			name: "missing_input with value",
			valuation: &Valuation{
				SnapshotDate: testDate,
				AccountID:    "acc-123",
				Symbol:       "AAPL",
				Quantity:     decimal.NewFromInt(3),
				ValueBase:    &value,
				Status:       StatusMissingInput,
			},
			expectError: true,
		},
		{
			name: "unknown status",
			valuation: &Valuation{
				SnapshotDate: testDate,
				AccountID:    "acc-123",
				Symbol:       "AAPL",
				Quantity:     decimal.NewFromInt(3),
				Status:       "pending",
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.valuation.Validate()
			if tt.expectError && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}
