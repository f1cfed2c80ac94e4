package snapshot

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/tropicaldog17/faro/internal/models"
)

// The two interchangeable snapshot encodings. Parquet is the preferred,
// compact columnar form; CSV is the plain text fallback. Both carry the
// same rows and readers accept either.

// ReadPositions decodes one position snapshot file.
func ReadPositions(path string) ([]*models.Position, error) {
	records, err := readRecords[positionRecord](path, positionRecordFromCSV)
	if err != nil {
		return nil, err
	}
	return convertRecords(path, records, positionRecord.toModel)
}

// ReadPrices decodes one price snapshot file.
func ReadPrices(path string) ([]*models.Price, error) {
	records, err := readRecords[priceRecord](path, priceRecordFromCSV)
	if err != nil {
		return nil, err
	}
	return convertRecords(path, records, priceRecord.toModel)
}

// ReadFXRates decodes one FX snapshot file.
func ReadFXRates(path string) ([]*models.FXRate, error) {
	records, err := readRecords[fxRecord](path, fxRecordFromCSV)
	if err != nil {
		return nil, err
	}
	return convertRecords(path, records, fxRecord.toModel)
}

// ReadValuations decodes one valuation snapshot file.
func ReadValuations(path string) ([]*models.Valuation, error) {
	records, err := readRecords[valuationRecord](path, valuationRecordFromCSV)
	if err != nil {
		return nil, err
	}
	return convertRecords(path, records, valuationRecord.toModel)
}

func readRecords[T any](path string, fromCSV func(csvRow) (T, error)) ([]T, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		records, err := parquet.ReadFile[T](path)
		if err != nil {
			return nil, fmt.Errorf("read parquet %s: %w", path, err)
		}
		return records, nil
	case ".csv":
		rows, err := readCSVRows(path)
		if err != nil {
			return nil, err
		}
		records := make([]T, 0, len(rows))
		for i, row := range rows {
			rec, err := fromCSV(row)
			if err != nil {
				return nil, fmt.Errorf("read csv %s row %d: %w", path, i+1, err)
			}
			records = append(records, rec)
		}
		return records, nil
	default:
		return nil, fmt.Errorf("unsupported snapshot encoding: %s", path)
	}
}

func convertRecords[R, M any](path string, records []R, toModel func(R) (*M, error)) ([]*M, error) {
	out := make([]*M, 0, len(records))
	for i, rec := range records {
		m, err := toModel(rec)
		if err != nil {
			return nil, fmt.Errorf("decode %s row %d: %w", path, i+1, err)
		}
		out = append(out, m)
	}
	return out, nil
}

// ---- CSV reading ----

// csvRow gives header-keyed access to one CSV data row, so column order and
// extra columns written by other tools do not matter.
type csvRow struct {
	index  map[string]int
	values []string
}

func (r csvRow) get(col string) string {
	i, ok := r.index[col]
	if !ok || i >= len(r.values) {
		return ""
	}
	return r.values[i]
}

func (r csvRow) opt(col string) *string {
	v := r.get(col)
	if v == "" {
		return nil
	}
	return &v
}

func (r csvRow) intOr(col string, fallback int) (int, error) {
	v := r.get(col)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", col, err)
	}
	return n, nil
}

func readCSVRows(path string) ([]csvRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	all, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, nil
	}

	index := make(map[string]int, len(all[0]))
	for i, col := range all[0] {
		index[strings.TrimSpace(col)] = i
	}

	rows := make([]csvRow, 0, len(all)-1)
	for _, values := range all[1:] {
		rows = append(rows, csvRow{index: index, values: values})
	}
	return rows, nil
}

func positionRecordFromCSV(row csvRow) (positionRecord, error) {
	return positionRecord{
		SnapshotDate: row.get("snapshot_date"),
		SnapshotTS:   row.get("snapshot_ts"),
		AccountID:    row.get("account_id"),
		Source:       row.get("source"),
		Market:       row.opt("market"),
		Symbol:       row.get("symbol"),
		Quantity:     row.get("quantity"),
		Currency:     row.opt("currency"),
	}, nil
}

func priceRecordFromCSV(row csvRow) (priceRecord, error) {
	quality, err := row.intOr("quality_score", 0)
	if err != nil {
		return priceRecord{}, err
	}
	return priceRecord{
		AsOfDate:     row.get("asof_date"),
		AsOfTS:       row.opt("asof_ts"),
		Symbol:       row.get("symbol"),
		PriceType:    row.get("price_type"),
		Price:        row.get("price"),
		Currency:     row.get("currency"),
		Venue:        row.opt("venue"),
		Source:       row.get("source"),
		QualityScore: int32(quality),
	}, nil
}

func fxRecordFromCSV(row csvRow) (fxRecord, error) {
	rec := fxRecord{
		AsOfDate:     row.get("asof_date"),
		FromCurrency: row.get("from_currency"),
		ToCurrency:   row.get("to_currency"),
		Rate:         row.get("rate"),
		Source:       row.get("source"),
	}
	if row.get("max_age_days") != "" {
		maxAge, err := row.intOr("max_age_days", 0)
		if err != nil {
			return fxRecord{}, err
		}
		v := int32(maxAge)
		rec.MaxAgeDays = &v
	}
	return rec, nil
}

func valuationRecordFromCSV(row csvRow) (valuationRecord, error) {
	rec := valuationRecord{
		SnapshotDate:       row.get("snapshot_date"),
		ComputedTS:         row.get("computed_ts"),
		AccountID:          row.get("account_id"),
		Source:             row.get("source"),
		Market:             row.opt("market"),
		Symbol:             row.get("symbol"),
		Quantity:           row.get("quantity"),
		UnitPriceNative:    row.opt("unit_price_native"),
		UnitPriceNativeCcy: row.opt("unit_price_native_ccy"),
		FXRateToBase:       row.opt("fx_rate_to_base"),
		UnitPriceBase:      row.opt("unit_price_base"),
		ValueBase:          row.opt("value_base"),
		PriceSource:        row.opt("price_source"),
		FXSource:           row.opt("fx_source"),
		Status:             row.get("status"),
	}
	if row.get("price_quality_score") != "" {
		score, err := row.intOr("price_quality_score", 0)
		if err != nil {
			return valuationRecord{}, err
		}
		v := int32(score)
		rec.PriceQualityScore = &v
	}
	return rec, nil
}

// ---- writing ----

func writeParquetFile[T any](path string, records []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := parquet.WriteFile(path, records); err != nil {
		return fmt.Errorf("write parquet %s: %w", path, err)
	}
	return nil
}

func writeCSVFile(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write csv %s: %w", path, err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv %s: %w", path, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func derefOr(value *string, fallback string) string {
	if value == nil {
		return fallback
	}
	return *value
}

var positionCSVHeader = []string{
	"snapshot_date", "snapshot_ts", "account_id", "source", "market",
	"symbol", "quantity", "currency",
}

func (r positionRecord) csvValues() []string {
	return []string{
		r.SnapshotDate, r.SnapshotTS, r.AccountID, r.Source, derefOr(r.Market, ""),
		r.Symbol, r.Quantity, derefOr(r.Currency, ""),
	}
}

var priceCSVHeader = []string{
	"asof_date", "asof_ts", "symbol", "price_type", "price", "currency",
	"venue", "source", "quality_score",
}

func (r priceRecord) csvValues() []string {
	return []string{
		r.AsOfDate, derefOr(r.AsOfTS, ""), r.Symbol, r.PriceType, r.Price, r.Currency,
		derefOr(r.Venue, ""), r.Source, strconv.Itoa(int(r.QualityScore)),
	}
}

var fxCSVHeader = []string{
	"asof_date", "from_currency", "to_currency", "rate", "source", "max_age_days",
}

func (r fxRecord) csvValues() []string {
	maxAge := ""
	if r.MaxAgeDays != nil {
		maxAge = strconv.Itoa(int(*r.MaxAgeDays))
	}
	return []string{r.AsOfDate, r.FromCurrency, r.ToCurrency, r.Rate, r.Source, maxAge}
}

var valuationCSVHeader = []string{
	"snapshot_date", "computed_ts", "account_id", "source", "market", "symbol",
	"quantity", "unit_price_native", "unit_price_native_ccy", "fx_rate_to_base",
	"unit_price_base", "value_base", "price_source", "price_quality_score",
	"fx_source", "status",
}

func (r valuationRecord) csvValues() []string {
	score := ""
	if r.PriceQualityScore != nil {
		score = strconv.Itoa(int(*r.PriceQualityScore))
	}
	return []string{
		r.SnapshotDate, r.ComputedTS, r.AccountID, r.Source, derefOr(r.Market, ""), r.Symbol,
		r.Quantity, derefOr(r.UnitPriceNative, ""), derefOr(r.UnitPriceNativeCcy, ""), derefOr(r.FXRateToBase, ""),
		derefOr(r.UnitPriceBase, ""), derefOr(r.ValueBase, ""), derefOr(r.PriceSource, ""), score,
		derefOr(r.FXSource, ""), r.Status,
	}
}
