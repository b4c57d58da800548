// Package registry provides the per-symbol outer layer that serializes
// concurrent access to otherwise single-threaded book.Book instances,
// mirroring the teacher's market registry: one lock per symbol rather
// than one lock inside the core.
package registry

import (
	"fmt"
	"sync"

	"github.com/uhyunpark/lobcore/pkg/book"
)

// GuardedBook pairs a *book.Book with the RWMutex that serializes
// access to it. Mutators take the write lock, and so do BestPrices,
// CanMatch and Stats, because Book refreshes its cached best prices
// on those reads. GetSnapshot takes the read lock, so many snapshot
// readers can run concurrently as long as no writer is active — the
// policy spec.md §5 delegates to an outer layer.
type GuardedBook struct {
	mu sync.RWMutex
	b  *book.Book
}

func newGuardedBook(cfg book.Config) *GuardedBook {
	return &GuardedBook{b: book.NewBook(cfg)}
}

func (g *GuardedBook) Add(order book.Order) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.b.Add(order)
}

func (g *GuardedBook) Cancel(orderID uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.b.Cancel(orderID)
}

func (g *GuardedBook) Amend(orderID uint64, newPrice int64, newQuantity uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.b.Amend(orderID, newPrice, newQuantity)
}

func (g *GuardedBook) GetSnapshot(depth int) (bids, asks []book.PriceLevel) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.b.GetSnapshot(depth)
}

func (g *GuardedBook) BestPrices() (bid, ask int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.b.BestPrices()
}

func (g *GuardedBook) CanMatch() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.b.CanMatch()
}

func (g *GuardedBook) Stats() book.Stats {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.b.Stats()
}

// Registry manages one Book per symbol.
type Registry struct {
	mu      sync.RWMutex
	books   map[string]*GuardedBook
	bookCfg book.Config
}

func New(cfg book.Config) *Registry {
	return &Registry{
		books:   make(map[string]*GuardedBook),
		bookCfg: cfg,
	}
}

// Book returns the GuardedBook for symbol, creating it on first use.
func (r *Registry) Book(symbol string) *GuardedBook {
	r.mu.RLock()
	g, ok := r.books[symbol]
	r.mu.RUnlock()
	if ok {
		return g
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if g, ok := r.books[symbol]; ok {
		return g
	}
	g = newGuardedBook(r.bookCfg)
	r.books[symbol] = g
	return g
}

// Lookup returns the GuardedBook for symbol without creating it.
func (r *Registry) Lookup(symbol string) (*GuardedBook, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.books[symbol]
	return g, ok
}

// Symbols returns the currently registered symbols.
func (r *Registry) Symbols() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.books))
	for s := range r.books {
		out = append(out, s)
	}
	return out
}

// Remove deletes symbol's book entirely. Used for test/admin cleanup.
func (r *Registry) Remove(symbol string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[symbol]; !ok {
		return fmt.Errorf("registry: symbol %s not registered", symbol)
	}
	delete(r.books, symbol)
	return nil
}
