package position

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bytedance/sonic"
	"github.com/yanun0323/errors"

	"bondpipe/internal/model"
	"bondpipe/internal/product"
)

// Snapshot captures every book of every position at a point in time.
type Snapshot struct {
	Timestamp int64           `json:"timestamp"`
	Positions []PositionEntry `json:"positions"`
}

// PositionEntry is the quantity of one instrument in one book.
type PositionEntry struct {
	InstrumentID string         `json:"instrumentId"`
	Book         string         `json:"book"`
	Qty          model.Quantity `json:"qty"`
}

// Snapshot builds a snapshot sorted by instrument and book.
func (s *Service) Snapshot() Snapshot {
	var entries []PositionEntry
	for _, id := range s.store.Keys() {
		p, _ := s.store.Get(id)
		for _, book := range p.Books() {
			entries = append(entries, PositionEntry{
				InstrumentID: id,
				Book:         book,
				Qty:          p.Book(book),
			})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].InstrumentID != entries[j].InstrumentID {
			return entries[i].InstrumentID < entries[j].InstrumentID
		}
		return entries[i].Book < entries[j].Book
	})
	return Snapshot{
		Timestamp: time.Now().UTC().UnixNano(),
		Positions: entries,
	}
}

// ApplySnapshot replaces every position with the snapshot content. Nothing
// is published.
func (s *Service) ApplySnapshot(snapshot Snapshot, catalog *product.Catalog) error {
	positions := make(map[string]Position)
	var order []string
	for _, entry := range snapshot.Positions {
		p, ok := positions[entry.InstrumentID]
		if !ok {
			inst, err := catalog.Lookup(entry.InstrumentID)
			if err != nil {
				return err
			}
			p = NewPosition(inst)
			order = append(order, entry.InstrumentID)
		}
		p.Add(entry.Book, entry.Qty)
		positions[entry.InstrumentID] = p
	}

	for _, id := range s.store.Keys() {
		s.store.Delete(id)
	}
	for _, id := range order {
		s.store.Put(positions[id])
	}
	return nil
}

// WriteSnapshot writes a snapshot to disk as JSON.
func WriteSnapshot(path string, snapshot Snapshot) error {
	data, err := sonic.ConfigFastest.Marshal(snapshot)
	if err != nil {
		return errors.Wrap(err, "marshal snapshot")
	}
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadSnapshot loads a snapshot from disk.
func ReadSnapshot(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, err
	}
	var snap Snapshot
	if err := sonic.ConfigFastest.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, errors.Wrap(err, "unmarshal snapshot").With("path", path)
	}
	return snap, nil
}

// CompareSnapshots checks if two snapshots hold the same quantities.
func CompareSnapshots(expected, actual Snapshot) error {
	if len(expected.Positions) != len(actual.Positions) {
		return fmt.Errorf("snapshot length mismatch: expected=%d actual=%d", len(expected.Positions), len(actual.Positions))
	}
	type key struct{ id, book string }
	expectedMap := make(map[key]model.Quantity, len(expected.Positions))
	for _, entry := range expected.Positions {
		expectedMap[key{entry.InstrumentID, entry.Book}] = entry.Qty
	}
	for _, entry := range actual.Positions {
		want, ok := expectedMap[key{entry.InstrumentID, entry.Book}]
		if !ok {
			return fmt.Errorf("snapshot missing position: %s/%s", entry.InstrumentID, entry.Book)
		}
		if want != entry.Qty {
			return fmt.Errorf("snapshot qty mismatch: position=%s/%s expected=%d actual=%d", entry.InstrumentID, entry.Book, want, entry.Qty)
		}
	}
	return nil
}
