package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tropicaldog17/faro/internal/config"
	apperrors "github.com/tropicaldog17/faro/internal/errors"
	"github.com/tropicaldog17/faro/internal/models"
)

// PriceHistoryServiceImpl implements PriceHistoryService over a PriceSource.
type PriceHistoryServiceImpl struct {
	source       PriceSource
	cache        *historyCache
	baseCurrency string
	defaultDays  int
	maxDays      int
	fxLookback   int
	logger       *zap.Logger
	now          func() time.Time
}

func NewPriceHistoryService(source PriceSource, cfg *config.Config, logger *zap.Logger) PriceHistoryService {
	now := time.Now
	return &PriceHistoryServiceImpl{
		source:       source,
		cache:        newHistoryCache(cfg.HistoryCacheTTL, now),
		baseCurrency: cfg.BaseCurrency,
		defaultDays:  cfg.HistoryDefaultDays,
		maxDays:      cfg.HistoryMaxDays,
		fxLookback:   cfg.FXLookbackBufferDay,
		logger:       logger,
		now:          now,
	}
}

// ClearCache drops all cached responses.
func (s *PriceHistoryServiceImpl) ClearCache() {
	s.cache.Clear()
}

// GetPriceHistory assembles one best price per calendar day for the symbol
// over the requested window, converting each day into the base currency with
// that day's freshest non-stale FX rate. An empty window is a valid response.
func (s *PriceHistoryServiceImpl) GetPriceHistory(_ context.Context, symbol string, days int, baseCurrency string) (*models.PriceHistoryResponse, error) {
	if strings.TrimSpace(symbol) == "" {
		return nil, &apperrors.ErrValidation{Field: "symbol", Message: "symbol is required"}
	}

	windowDays := days
	if windowDays == 0 {
		windowDays = s.defaultDays
	}
	if windowDays < 1 {
		windowDays = 1
	}
	if windowDays > s.maxDays {
		windowDays = s.maxDays
	}

	base := strings.ToUpper(baseCurrency)
	if base == "" {
		base = s.baseCurrency
	}

	key := historyCacheKey{Symbol: strings.ToUpper(symbol), Days: windowDays, Base: base}
	if cached := s.cache.Get(key); cached != nil {
		return cached, nil
	}

	today := dateOnly(s.now().UTC())
	windowStart := today.AddDate(0, 0, -(windowDays - 1))

	perDay := s.bestPricePerDay(symbol, windowStart)
	if len(perDay) == 0 {
		response := &models.PriceHistoryResponse{
			BaseCurrency: base,
			WindowDays:   windowDays,
			Points:       0,
			MissingFX:    false,
			Prices:       []*models.PriceHistoryPoint{},
		}
		s.cache.Set(key, response)
		return response, nil
	}

	var earliest time.Time
	orderedDays := make([]time.Time, 0, len(perDay))
	for day := range perDay {
		if earliest.IsZero() || day.Before(earliest) {
			earliest = day
		}
		orderedDays = append(orderedDays, day)
	}
	sort.Slice(orderedDays, func(i, j int) bool { return orderedDays[i].Before(orderedDays[j]) })

	lookup := buildFXLookup(s.loadFXRows(earliest.AddDate(0, 0, -s.fxLookback)))

	points := make([]*models.PriceHistoryPoint, 0, len(orderedDays))
	missingFX := false
	for _, day := range orderedDays {
		price := perDay[day]
		currency := strings.ToUpper(price.Currency)
		point := &models.PriceHistoryPoint{
			AsOfDate: day,
			AsOfTS:   price.AsOfTS,
			Price:    price.Price,
			Currency: currency,
			Source:   price.Source,
			Venue:    price.Venue,
		}
		quality := price.QualityScore
		point.QualityScore = &quality

		if currency == base {
			converted := price.Price
			point.PriceBase = &converted
		} else if rate, ok := resolveHistoryFX(currency, base, day, lookup); ok {
			converted := price.Price.Mul(rate)
			point.PriceBase = &converted
		} else {
			missingFX = true
		}
		points = append(points, point)
	}

	response := &models.PriceHistoryResponse{
		BaseCurrency: base,
		WindowDays:   windowDays,
		Points:       len(points),
		MissingFX:    missingFX,
		Prices:       points,
	}
	s.cache.Set(key, response)
	return response, nil
}

// bestPricePerDay scans price partitions newest-first, stopping at the first
// partition older than the window, and deduplicates the symbol's rows to one
// per calendar day. Higher quality wins; on a quality tie a later intra-day
// timestamp wins, and a timestamped row beats an untimestamped one.
func (s *PriceHistoryServiceImpl) bestPricePerDay(symbol string, windowStart time.Time) map[time.Time]*models.Price {
	best := make(map[time.Time]*models.Price)
	for _, partition := range s.source.PricePartitions() {
		if partition.Date.Before(windowStart) {
			break
		}
		rows, err := s.source.LoadPrices(partition)
		if err != nil {
			s.logger.Warn("skipping unreadable price partition",
				zap.String("partition", partition.Path), zap.Error(err))
			continue
		}
		for _, row := range rows {
			if !strings.EqualFold(row.Symbol, symbol) {
				continue
			}
			day := dateOnly(row.AsOfDate)
			if day.Before(windowStart) {
				continue
			}
			current, ok := best[day]
			if !ok || betterDailyPrice(row, current) {
				best[day] = row
			}
		}
	}
	return best
}

func betterDailyPrice(candidate, current *models.Price) bool {
	if candidate.QualityScore != current.QualityScore {
		return candidate.QualityScore > current.QualityScore
	}
	if candidate.AsOfTS != nil && current.AsOfTS != nil {
		return candidate.AsOfTS.After(*current.AsOfTS)
	}
	return candidate.AsOfTS != nil && current.AsOfTS == nil
}

func (s *PriceHistoryServiceImpl) loadFXRows(earliest time.Time) []*models.FXRate {
	var rows []*models.FXRate
	for _, partition := range s.source.FXPartitions() {
		if partition.Date.Before(earliest) {
			break
		}
		partitionRows, err := s.source.LoadFXRates(partition)
		if err != nil {
			s.logger.Warn("skipping unreadable fx partition",
				zap.String("partition", partition.Path), zap.Error(err))
			continue
		}
		rows = append(rows, partitionRows...)
	}
	return rows
}

type fxEntry struct {
	date   time.Time
	rate   decimal.Decimal
	maxAge int
	source string
}

// buildFXLookup keeps every observed rate per pair, newest first, so each
// day in the window can resolve against the rate that was fresh then.
func buildFXLookup(rows []*models.FXRate) map[currencyPair][]fxEntry {
	lookup := make(map[currencyPair][]fxEntry)
	for _, row := range rows {
		pair := currencyPair{
			from: strings.ToUpper(row.FromCurrency),
			to:   strings.ToUpper(row.ToCurrency),
		}
		lookup[pair] = append(lookup[pair], fxEntry{
			date:   dateOnly(row.AsOfDate),
			rate:   row.Rate,
			maxAge: row.MaxAgeDays,
			source: row.Source,
		})
	}
	for _, entries := range lookup {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].date.After(entries[j].date)
		})
	}
	return lookup
}

// resolveHistoryFX finds the most recent rate dated on or before the day
// whose age stays within its own max_age_days (0 allows same-day only).
// The inverse pair is inverted when no direct entry qualifies.
func resolveHistoryFX(from, to string, day time.Time, lookup map[currencyPair][]fxEntry) (decimal.Decimal, bool) {
	for _, entry := range lookup[currencyPair{from: from, to: to}] {
		if usableOn(entry, day) {
			return entry.rate, true
		}
	}
	for _, entry := range lookup[currencyPair{from: to, to: from}] {
		if usableOn(entry, day) && !entry.rate.IsZero() {
			return decimal.NewFromInt(1).Div(entry.rate), true
		}
	}
	return decimal.Zero, false
}

func usableOn(entry fxEntry, day time.Time) bool {
	if entry.date.After(day) {
		return false
	}
	age := int(day.Sub(entry.date).Hours() / 24)
	return age <= entry.maxAge
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
