package snapshot

import (
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/tropicaldog17/faro/internal/models"
)

// WriteResult reports where one snapshot landed. CSV is always written;
// parquet is best-effort and empty when the write failed.
type WriteResult struct {
	Date        time.Time
	CSVPath     string
	ParquetPath string
}

// Writer persists row sets into the partitioned snapshot tree. Positions
// and valuations sub-partition by account, prices and FX by source.
type Writer struct {
	root   string
	logger *zap.Logger
	now    func() time.Time
}

func NewWriter(root string, logger *zap.Logger) *Writer {
	return &Writer{root: root, logger: logger, now: time.Now}
}

func (w *Writer) WritePositions(rows []*models.Position, source, accountID string) (*WriteResult, error) {
	records := make([]positionRecord, 0, len(rows))
	csvRows := make([][]string, 0, len(rows))
	for _, row := range rows {
		rec := positionToRecord(row)
		records = append(records, rec)
		csvRows = append(csvRows, rec.csvValues())
	}
	return write(w, ResourcePositions, source, accountID, records, positionCSVHeader, csvRows)
}

func (w *Writer) WritePrices(rows []*models.Price, source string) (*WriteResult, error) {
	records := make([]priceRecord, 0, len(rows))
	csvRows := make([][]string, 0, len(rows))
	for _, row := range rows {
		rec := priceToRecord(row)
		records = append(records, rec)
		csvRows = append(csvRows, rec.csvValues())
	}
	return write(w, ResourcePrices, source, "", records, priceCSVHeader, csvRows)
}

func (w *Writer) WriteFXRates(rows []*models.FXRate, source string) (*WriteResult, error) {
	records := make([]fxRecord, 0, len(rows))
	csvRows := make([][]string, 0, len(rows))
	for _, row := range rows {
		rec := fxToRecord(row)
		records = append(records, rec)
		csvRows = append(csvRows, rec.csvValues())
	}
	return write(w, ResourceFX, source, "", records, fxCSVHeader, csvRows)
}

func (w *Writer) WriteValuations(rows []*models.Valuation, accountID string) (*WriteResult, error) {
	records := make([]valuationRecord, 0, len(rows))
	csvRows := make([][]string, 0, len(rows))
	for _, row := range rows {
		rec := valuationToRecord(row)
		records = append(records, rec)
		csvRows = append(csvRows, rec.csvValues())
	}
	return write(w, ResourceValuations, "", accountID, records, valuationCSVHeader, csvRows)
}

func write[T any](w *Writer, resource, source, accountID string, records []T, header []string, csvRows [][]string) (*WriteResult, error) {
	ts := w.now().UTC()
	date := ts.Format(dateLayout)

	dir := filepath.Join(w.root, resource, "dt="+date)
	switch resource {
	case ResourcePositions:
		if source != "" {
			dir = filepath.Join(dir, "source="+source)
		}
		dir = filepath.Join(dir, "account="+accountID)
	case ResourcePrices, ResourceFX:
		if source != "" {
			dir = filepath.Join(dir, "source="+source)
		}
	case ResourceValuations:
		dir = filepath.Join(dir, "account="+accountID)
	}

	base := fmt.Sprintf("%s_%s_%s", resource, date, ts.Format("150405"))
	result := &WriteResult{Date: ts.Truncate(24 * time.Hour)}

	csvPath := filepath.Join(dir, base+".csv")
	if err := writeCSVFile(csvPath, header, csvRows); err != nil {
		return nil, fmt.Errorf("write %s snapshot: %w", resource, err)
	}
	result.CSVPath = csvPath

	parquetPath := filepath.Join(dir, base+".parquet")
	if err := writeParquetFile(parquetPath, records); err != nil {
		w.logger.Warn("parquet save failed; keeping CSV only",
			zap.String("resource", resource), zap.Error(err))
	} else {
		result.ParquetPath = parquetPath
	}

	return result, nil
}
