package services

import (
	"context"
	"time"

	"github.com/tropicaldog17/faro/internal/models"
	"github.com/tropicaldog17/faro/internal/snapshot"
)

// ValuationService reconciles positions with prices and FX rates into
// canonical valuation rows.
type ValuationService interface {
	ComputeValuations(positions []*models.Position, prices []*models.Price, fxRates []*models.FXRate, baseCurrency string, snapshotDate, computedAt time.Time) []*models.Valuation
}

// SnapshotService serves the most recent valuation snapshot per account.
type SnapshotService interface {
	GetLatestValuationSnapshot(ctx context.Context, accountID string) (*models.LatestValuationResponse, error)
}

// PriceHistoryService reconstructs a symbol's daily price history over a
// bounded window, converted into the base currency.
type PriceHistoryService interface {
	GetPriceHistory(ctx context.Context, symbol string, days int, baseCurrency string) (*models.PriceHistoryResponse, error)
	ClearCache()
}

// DailySnapshotService derives and persists today's valuation snapshot from
// the already-ingested position, price and FX partitions.
type DailySnapshotService interface {
	RunDaily(ctx context.Context) (*models.DailySnapshotSummary, error)
}

// ValuationSource is the storage seam for the latest-snapshot read path.
type ValuationSource interface {
	ValuationPartitions() []snapshot.Partition
	AccountSnapshotFile(p snapshot.Partition, accountID string) (string, error)
	LoadValuations(path string) ([]*models.Valuation, error)
}

// PriceSource is the storage seam for the price-history read path.
type PriceSource interface {
	PricePartitions() []snapshot.Partition
	FXPartitions() []snapshot.Partition
	LoadPrices(p snapshot.Partition) ([]*models.Price, error)
	LoadFXRates(p snapshot.Partition) ([]*models.FXRate, error)
}

// PositionSource is the storage seam for the daily valuation pass.
type PositionSource interface {
	PositionPartitions() []snapshot.Partition
	LoadPositions(p snapshot.Partition) ([]*models.Position, error)
}

// SnapshotWriter persists a computed valuation set.
type SnapshotWriter interface {
	WriteValuations(rows []*models.Valuation, accountID string) (*snapshot.WriteResult, error)
}
