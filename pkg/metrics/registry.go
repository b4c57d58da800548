package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry lazily creates and caches one BookMetrics per symbol,
// mirroring the get-or-create pattern in pkg/book/registry.Registry.
type Registry struct {
	reg prometheus.Registerer

	mu   sync.Mutex
	sets map[string]*BookMetrics
}

func NewRegistry(reg prometheus.Registerer) *Registry {
	return &Registry{reg: reg, sets: make(map[string]*BookMetrics)}
}

// ForSymbol returns the BookMetrics for symbol, registering a fresh
// set of instruments on first use.
func (r *Registry) ForSymbol(symbol string) *BookMetrics {
	r.mu.Lock()
	defer r.mu.Unlock()
	bm, ok := r.sets[symbol]
	if !ok {
		bm = NewBookMetrics(r.reg, symbol)
		r.sets[symbol] = bm
	}
	return bm
}

// Symbols returns the symbols this registry has created instruments for.
func (r *Registry) Symbols() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.sets))
	for s := range r.sets {
		out = append(out, s)
	}
	return out
}
