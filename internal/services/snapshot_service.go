package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apperrors "github.com/tropicaldog17/faro/internal/errors"
	"github.com/tropicaldog17/faro/internal/models"
)

var pctScale = decimal.NewFromInt(100)

// SnapshotServiceImpl implements SnapshotService over a ValuationSource.
type SnapshotServiceImpl struct {
	source       ValuationSource
	baseCurrency string
	logger       *zap.Logger
	now          func() time.Time
}

func NewSnapshotService(source ValuationSource, baseCurrency string, logger *zap.Logger) SnapshotService {
	return &SnapshotServiceImpl{
		source:       source,
		baseCurrency: baseCurrency,
		logger:       logger,
		now:          time.Now,
	}
}

// GetLatestValuationSnapshot walks valuation partitions newest-first and
// serves the first one holding a readable, non-empty file for the account.
// Partition-level failures are recorded and skipped; only exhaustion
// surfaces as ErrSnapshotNotFound.
func (s *SnapshotServiceImpl) GetLatestValuationSnapshot(_ context.Context, accountID string) (*models.LatestValuationResponse, error) {
	var lastErr string
	for _, partition := range s.source.ValuationPartitions() {
		path, err := s.source.AccountSnapshotFile(partition, accountID)
		if err != nil {
			lastErr = err.Error()
			continue
		}
		rows, err := s.source.LoadValuations(path)
		if err != nil {
			s.logger.Warn("skipping unreadable valuation snapshot",
				zap.String("file", path), zap.Error(err))
			lastErr = err.Error()
			continue
		}
		if len(rows) == 0 {
			lastErr = fmt.Sprintf("valuation file %s is empty", path)
			continue
		}
		return s.buildResponse(accountID, partition.Date, path, rows), nil
	}
	return nil, &apperrors.ErrSnapshotNotFound{AccountID: accountID, LastErr: lastErr}
}

func (s *SnapshotServiceImpl) buildResponse(accountID string, partitionDate time.Time, path string, rows []*models.Valuation) *models.LatestValuationResponse {
	snapshotDate := rows[0].SnapshotDate
	if snapshotDate.IsZero() {
		snapshotDate = partitionDate
	}
	computedAt := rows[0].ComputedAt
	if computedAt.IsZero() {
		computedAt = s.now().UTC()
	}

	totals := models.ValuationTotals{
		Positions:    len(rows),
		BaseCurrency: s.baseCurrency,
	}
	var total decimal.Decimal
	valued := false
	for _, row := range rows {
		if row.Status == models.StatusOK {
			totals.OKPositions++
		}
		if row.ValueBase != nil {
			total = total.Add(*row.ValueBase)
			valued = true
		}
	}
	if valued {
		totals.TotalValueBase = &total
	}

	out := make([]*models.ValuationRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, &models.ValuationRow{
			Symbol:             row.Symbol,
			Quantity:           row.Quantity,
			ValueBase:          row.ValueBase,
			UnitPriceBase:      row.UnitPriceBase,
			UnitPriceNative:    row.UnitPriceNative,
			UnitPriceNativeCcy: row.UnitPriceNativeCcy,
			FXRateToBase:       row.FXRateToBase,
			AccountID:          row.AccountID,
			Source:             row.Source,
			Market:             row.Market,
			Status:             row.Status,
			PriceSource:        row.PriceSource,
			PriceQualityScore:  row.PriceQualityScore,
			FXSource:           row.FXSource,
			PortfolioSharePct:  portfolioShare(row.ValueBase, totals.TotalValueBase),
		})
	}

	// value_base descending, rows without a value last
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].ValueBase, out[j].ValueBase
		switch {
		case a != nil && b != nil:
			return a.GreaterThan(*b)
		case a != nil:
			return true
		default:
			return false
		}
	})

	return &models.LatestValuationResponse{
		SnapshotDate: snapshotDate,
		ComputedAt:   computedAt,
		AccountID:    accountID,
		BaseCurrency: s.baseCurrency,
		Totals:       totals,
		Rows:         out,
		SourceFile:   path,
	}
}

// portfolioShare is value/total scaled to percent; nil when the row has no
// value or the snapshot total is not positive. Shares are never
// renormalized over the valued subset.
func portfolioShare(value, total *decimal.Decimal) *decimal.Decimal {
	if value == nil || total == nil || !total.IsPositive() {
		return nil
	}
	share := value.Div(*total).Mul(pctScale)
	return &share
}
