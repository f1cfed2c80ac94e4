package snapshot

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tropicaldog17/faro/internal/models"
)

// Store reads the partitioned snapshot tree rooted at root:
//
//	<root>/<resource>/dt=YYYY-MM-DD/[source=…/][account=…/]<files>
//
// It never writes; see Writer for the produce side.
type Store struct {
	root string
}

func NewStore(root string) *Store {
	return &Store{root: root}
}

// Root returns the snapshot root directory.
func (s *Store) Root() string {
	return s.root
}

func (s *Store) PositionPartitions() []Partition {
	return ListPartitions(filepath.Join(s.root, ResourcePositions))
}

func (s *Store) PricePartitions() []Partition {
	return ListPartitions(filepath.Join(s.root, ResourcePrices))
}

func (s *Store) FXPartitions() []Partition {
	return ListPartitions(filepath.Join(s.root, ResourceFX))
}

func (s *Store) ValuationPartitions() []Partition {
	return ListPartitions(filepath.Join(s.root, ResourceValuations))
}

// LoadPositions reads every position snapshot in the partition, covering
// both bare date directories and source=/account= sub-partitions.
func (s *Store) LoadPositions(p Partition) ([]*models.Position, error) {
	var out []*models.Position
	for _, path := range collectSnapshotFiles(p.Path, ResourcePositions+"_") {
		rows, err := ReadPositions(path)
		if err != nil {
			return nil, err
		}
		out = append(out, rows...)
	}
	return out, nil
}

// LoadPrices reads every price snapshot in the partition across its
// source sub-partitions.
func (s *Store) LoadPrices(p Partition) ([]*models.Price, error) {
	var out []*models.Price
	for _, path := range collectSnapshotFiles(p.Path, ResourcePrices+"_") {
		rows, err := ReadPrices(path)
		if err != nil {
			return nil, err
		}
		out = append(out, rows...)
	}
	return out, nil
}

// LoadFXRates reads every FX snapshot in the partition across its
// source sub-partitions.
func (s *Store) LoadFXRates(p Partition) ([]*models.FXRate, error) {
	var out []*models.FXRate
	for _, path := range collectSnapshotFiles(p.Path, ResourceFX+"_") {
		rows, err := ReadFXRates(path)
		if err != nil {
			return nil, err
		}
		out = append(out, rows...)
	}
	return out, nil
}

// AccountSnapshotFile locates the account's valuation file inside one
// partition, preferring parquet and the most recently written file.
func (s *Store) AccountSnapshotFile(p Partition, accountID string) (string, error) {
	accountDir := filepath.Join(p.Path, "account="+accountID)
	if info, err := os.Stat(accountDir); err != nil || !info.IsDir() {
		return "", fmt.Errorf("no valuations for account '%s' in %s", accountID, filepath.Base(p.Path))
	}
	path, ok := FindSnapshotFile(accountDir, ResourceValuations+"_")
	if !ok {
		return "", fmt.Errorf("no valuation files under %s", accountDir)
	}
	return path, nil
}

// LoadValuations decodes one valuation snapshot file.
func (s *Store) LoadValuations(path string) ([]*models.Valuation, error) {
	return ReadValuations(path)
}

// collectSnapshotFiles picks the best snapshot file from the partition
// directory and from each of its sub-partition directories.
func collectSnapshotFiles(partitionDir, prefix string) []string {
	var files []string
	_ = filepath.WalkDir(partitionDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if file, ok := FindSnapshotFile(path, prefix); ok {
			files = append(files, file)
		}
		return nil
	})
	return files
}
