package feed

import (
	"testing"
	"time"

	"github.com/uhyunpark/lobcore/pkg/book"
	"github.com/uhyunpark/lobcore/pkg/book/registry"
	"github.com/uhyunpark/lobcore/pkg/util"
)

func TestPublishSymbolSkipsUnregisteredSymbol(t *testing.T) {
	hub := NewHub()
	reg := registry.New(book.Config{})
	pub := NewPublisher(hub, reg, 5, time.Second, util.RealClock{})

	// Should not panic or block even though the channel has no
	// subscribers and the symbol was never created via reg.Book.
	pub.PublishSymbol("BTC-USDT")
}

func TestToDTOPreservesOrderAndValues(t *testing.T) {
	levels := []book.PriceLevel{{Price: 100, TotalQuantity: 5}, {Price: 99, TotalQuantity: 7}}
	got := toDTO(levels)
	if len(got) != 2 || got[0].Price != 100 || got[0].Size != 5 || got[1].Price != 99 || got[1].Size != 7 {
		t.Fatalf("toDTO(%v) = %v", levels, got)
	}
}
