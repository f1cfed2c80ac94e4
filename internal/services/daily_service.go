package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/tropicaldog17/faro/internal/models"
	"github.com/tropicaldog17/faro/internal/snapshot"
)

// DailySnapshotServiceImpl derives valuations from the newest ingested
// position partition, joined with that day's prices and FX rates, and
// persists one valuation snapshot per account. Ingestion and scheduling
// stay outside; this is the compute-and-store pass between them.
type DailySnapshotServiceImpl struct {
	positions    PositionSource
	prices       PriceSource
	valuation    ValuationService
	writer       SnapshotWriter
	baseCurrency string
	logger       *zap.Logger
	now          func() time.Time
}

func NewDailySnapshotService(positions PositionSource, prices PriceSource, valuation ValuationService, writer SnapshotWriter, baseCurrency string, logger *zap.Logger) DailySnapshotService {
	return &DailySnapshotServiceImpl{
		positions:    positions,
		prices:       prices,
		valuation:    valuation,
		writer:       writer,
		baseCurrency: baseCurrency,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *DailySnapshotServiceImpl) RunDaily(_ context.Context) (*models.DailySnapshotSummary, error) {
	partition, positions, err := s.latestPositions()
	if err != nil {
		return nil, err
	}

	priceRows := loadForDate(s.prices.PricePartitions(), partition.Date, s.prices.LoadPrices, s.logger, "prices")
	fxRows := loadForDate(s.prices.FXPartitions(), partition.Date, s.prices.LoadFXRates, s.logger, "fx")

	computedAt := s.now().UTC()
	valuations := s.valuation.ComputeValuations(positions, priceRows, fxRows, s.baseCurrency, partition.Date, computedAt)

	byAccount := make(map[string][]*models.Valuation)
	for _, v := range valuations {
		byAccount[v.AccountID] = append(byAccount[v.AccountID], v)
	}

	summary := &models.DailySnapshotSummary{
		SnapshotDate: partition.Date,
		Positions:    len(positions),
		Valuations:   len(valuations),
	}
	accounts := make([]string, 0, len(byAccount))
	for account := range byAccount {
		accounts = append(accounts, account)
	}
	sort.Strings(accounts)

	for _, account := range accounts {
		result, err := s.writer.WriteValuations(byAccount[account], account)
		if err != nil {
			return nil, fmt.Errorf("persist valuations for account %s: %w", account, err)
		}
		summary.Accounts = append(summary.Accounts, account)
		summary.Files = append(summary.Files, result.CSVPath)
		if result.ParquetPath != "" {
			summary.Files = append(summary.Files, result.ParquetPath)
		}
		s.logger.Info("valuation snapshot written",
			zap.String("account", account),
			zap.Int("rows", len(byAccount[account])),
			zap.String("file", result.CSVPath))
	}
	return summary, nil
}

// loadForDate loads the newest partition dated on or before the snapshot
// date, skipping partitions that fail to read. Missing data yields nil.
func loadForDate[T any](partitions []snapshot.Partition, date time.Time, load func(snapshot.Partition) ([]T, error), logger *zap.Logger, resource string) []T {
	for _, partition := range partitions {
		if partition.Date.After(date) {
			continue
		}
		rows, err := load(partition)
		if err != nil {
			logger.Warn("skipping unreadable partition",
				zap.String("resource", resource),
				zap.String("partition", partition.Path), zap.Error(err))
			continue
		}
		return rows
	}
	return nil
}

// latestPositions returns the newest position partition that yields a
// non-empty readable row set, skipping broken partitions.
func (s *DailySnapshotServiceImpl) latestPositions() (snapshot.Partition, []*models.Position, error) {
	partitions := s.positions.PositionPartitions()
	if len(partitions) == 0 {
		return snapshot.Partition{}, nil, fmt.Errorf("no position snapshots found")
	}
	var lastErr error
	for _, partition := range partitions {
		rows, err := s.positions.LoadPositions(partition)
		if err != nil {
			s.logger.Warn("skipping unreadable position partition",
				zap.String("partition", partition.Path), zap.Error(err))
			lastErr = err
			continue
		}
		if len(rows) == 0 {
			continue
		}
		return partition, rows, nil
	}
	if lastErr != nil {
		return snapshot.Partition{}, nil, fmt.Errorf("no readable position snapshots: %w", lastErr)
	}
	return snapshot.Partition{}, nil, fmt.Errorf("no position rows found")
}
