package snapshot

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Resource names under the snapshot root.
const (
	ResourcePositions  = "positions"
	ResourcePrices     = "prices"
	ResourceFX         = "fx"
	ResourceValuations = "valuations"
)

// Partition is one date-keyed snapshot directory.
type Partition struct {
	Date time.Time
	Path string
}

// ListPartitions enumerates date partitions under dir, newest first.
// Directory names are accepted as "dt=YYYY-MM-DD" or bare "YYYY-MM-DD";
// anything else is skipped. A missing dir yields an empty slice.
func ListPartitions(dir string) []Partition {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	partitions := make([]Partition, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		date, ok := parsePartitionDate(entry.Name())
		if !ok {
			continue
		}
		partitions = append(partitions, Partition{
			Date: date,
			Path: filepath.Join(dir, entry.Name()),
		})
	}

	sort.Slice(partitions, func(i, j int) bool {
		return partitions[i].Date.After(partitions[j].Date)
	})
	return partitions
}

func parsePartitionDate(name string) (time.Time, bool) {
	raw := strings.TrimPrefix(name, "dt=")
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, false
	}
	return date.UTC(), true
}

// FileEntry is a directory listing row, decoupled from the filesystem so the
// selection rule can be unit tested with synthetic listings.
type FileEntry struct {
	Name    string
	ModTime time.Time
}

// PickSnapshotFile selects the snapshot file to read from a leaf directory
// listing. Parquet beats CSV regardless of age; within a format the most
// recently modified file wins, with the lexicographically larger name as a
// deterministic fallback (file names embed a time stamp).
func PickSnapshotFile(entries []FileEntry, prefix string) (string, bool) {
	best := func(ext string) (FileEntry, bool) {
		var chosen FileEntry
		found := false
		for _, e := range entries {
			if !strings.HasPrefix(e.Name, prefix) || !strings.HasSuffix(e.Name, ext) {
				continue
			}
			if !found || e.ModTime.After(chosen.ModTime) ||
				(e.ModTime.Equal(chosen.ModTime) && e.Name > chosen.Name) {
				chosen = e
				found = true
			}
		}
		return chosen, found
	}

	if e, ok := best(".parquet"); ok {
		return e.Name, true
	}
	if e, ok := best(".csv"); ok {
		return e.Name, true
	}
	return "", false
}

// FindSnapshotFile applies PickSnapshotFile to an actual directory and
// returns the chosen file's full path.
func FindSnapshotFile(dir, prefix string) (string, bool) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}

	entries := make([]FileEntry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		entries = append(entries, FileEntry{Name: de.Name(), ModTime: info.ModTime()})
	}

	name, ok := PickSnapshotFile(entries, prefix)
	if !ok {
		return "", false
	}
	return filepath.Join(dir, name), true
}
