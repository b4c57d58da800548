// Package persist periodically snapshots book.PriceLevel aggregates
// to Pebble, grounded on the teacher's pkg/storage/pebble_store.go
// key-prefix/gob-encode pattern. The book core never imports this
// package — persistence is the outer collaborator spec.md §1 places
// out of scope for the book itself.
package persist

import (
	"bytes"
	"encoding/gob"

	"github.com/cockroachdb/pebble"

	"github.com/uhyunpark/lobcore/pkg/book"
)

// Snapshot is the persisted unit: one symbol's aggregated price
// levels, as passed to Save.
type Snapshot struct {
	Symbol string
	Bids   []book.PriceLevel
	Asks   []book.PriceLevel
}

// Store wraps a Pebble database keyed by "s:<symbol>".
type Store struct {
	db *pebble.DB
}

func Open(path string) (*Store, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func keySymbol(symbol string) []byte {
	return append([]byte("s:"), []byte(symbol)...)
}

// Save persists snap, overwriting any prior snapshot for its symbol.
func (s *Store) Save(snap Snapshot) error {
	val, err := encodeGob(snap)
	if err != nil {
		return err
	}
	return s.db.Set(keySymbol(snap.Symbol), val, pebble.Sync)
}

// Load retrieves the most recently saved snapshot for symbol.
func (s *Store) Load(symbol string) (Snapshot, bool, error) {
	val, closer, err := s.db.Get(keySymbol(symbol))
	if err != nil {
		if err == pebble.ErrNotFound {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, err
	}
	defer closer.Close()

	var out Snapshot
	if err := decodeGob(val, &out); err != nil {
		return Snapshot{}, false, err
	}
	return out, true, nil
}

func encodeGob(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeGob(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}
