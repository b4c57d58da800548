package persist

import (
	"os"
	"testing"

	"github.com/uhyunpark/lobcore/pkg/book"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir, err := os.MkdirTemp("", "lob-persist-*")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	defer os.RemoveAll(dir)

	store, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	snap := Snapshot{
		Symbol: "BTC-USDT",
		Bids:   []book.PriceLevel{{Price: 100, TotalQuantity: 10}},
		Asks:   []book.PriceLevel{{Price: 101, TotalQuantity: 5}},
	}
	if err := store.Save(snap); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, ok, err := store.Load("BTC-USDT")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok {
		t.Fatal("Load() ok = false, want true")
	}
	if got.Symbol != snap.Symbol || len(got.Bids) != 1 || got.Bids[0].Price != 100 {
		t.Fatalf("Load() = %+v, want %+v", got, snap)
	}
}

func TestLoadMissingSymbolReturnsNotFound(t *testing.T) {
	dir, err := os.MkdirTemp("", "lob-persist-*")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	defer os.RemoveAll(dir)

	store, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	_, ok, err := store.Load("NOPE")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok {
		t.Fatal("Load() ok = true for missing symbol")
	}
}
