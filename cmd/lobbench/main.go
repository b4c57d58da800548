// Command lobbench drives a book.Book directly (no network hop) with
// a synthetic add/cancel/amend workload and reports throughput and
// latency percentiles, replacing the C++ source's
// OrderBookTester::run_performance_test.
package main

import (
	"container/heap"
	"flag"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/uhyunpark/lobcore/pkg/book"
)

func main() {
	var (
		ops         = flag.Int("ops", 1_000_000, "number of operations to run")
		priceLevels = flag.Int("price-levels", 500, "number of distinct price levels to spread orders across")
		cancelRatio = flag.Float64("cancel-ratio", 0.3, "fraction of ops that cancel a resting order instead of adding")
		amendRatio  = flag.Float64("amend-ratio", 0.2, "fraction of ops that amend a resting order instead of adding")
		worstN      = flag.Int("worst-n", 100, "track this many of the slowest individual operations")
		seed        = flag.Int64("seed", 1, "PRNG seed, for reproducible runs")
	)
	flag.Parse()

	runID := uuid.New().String()
	fmt.Printf("lobbench run=%s ops=%d priceLevels=%d cancelRatio=%.2f amendRatio=%.2f\n",
		runID, *ops, *priceLevels, *cancelRatio, *amendRatio)

	rng := rand.New(rand.NewSource(*seed))
	b := book.NewBook(book.Config{IndexHint: *ops})

	resting := make([]uint64, 0, *ops)
	worst := newWorstHeap(*worstN)

	latencies := make([]time.Duration, 0, *ops)
	var nextOrderID uint64 = 1

	start := time.Now()
	for i := 0; i < *ops; i++ {
		op := pickOp(rng, *cancelRatio, *amendRatio, len(resting))

		opStart := time.Now()
		switch op {
		case opCancel:
			idx := rng.Intn(len(resting))
			id := resting[idx]
			resting[idx] = resting[len(resting)-1]
			resting = resting[:len(resting)-1]
			b.Cancel(id)

		case opAmend:
			idx := rng.Intn(len(resting))
			id := resting[idx]
			price := randomPrice(rng, *priceLevels)
			qty := uint64(rng.Intn(100) + 1)
			b.Amend(id, price, qty)

		default: // opAdd
			order := book.Order{
				OrderID:     nextOrderID,
				IsBuy:       rng.Intn(2) == 0,
				Price:       randomPrice(rng, *priceLevels),
				Quantity:    uint64(rng.Intn(100) + 1),
				TimestampNs: uint64(opStart.UnixNano()),
			}
			if b.Add(order) {
				resting = append(resting, order.OrderID)
			}
			nextOrderID++
		}

		elapsed := time.Since(opStart)
		latencies = append(latencies, elapsed)
		worst.observe(elapsed)
	}
	total := time.Since(start)

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	fmt.Printf("total=%s throughput=%.0f ops/sec\n", total, float64(*ops)/total.Seconds())
	fmt.Printf("p50=%s p90=%s p99=%s p999=%s max=%s\n",
		percentile(latencies, 0.50),
		percentile(latencies, 0.90),
		percentile(latencies, 0.99),
		percentile(latencies, 0.999),
		latencies[len(latencies)-1])
	fmt.Printf("worst %d latencies: %v\n", *worstN, worst.sorted())

	stats := b.Stats()
	fmt.Printf("final book: activeOrders=%d bidLevels=%d askLevels=%d spread=%d\n",
		stats.ActiveOrders, stats.BidLevels, stats.AskLevels, stats.Spread)
}

type opKind int

const (
	opAdd opKind = iota
	opCancel
	opAmend
)

func pickOp(rng *rand.Rand, cancelRatio, amendRatio float64, restingCount int) opKind {
	if restingCount == 0 {
		return opAdd
	}
	r := rng.Float64()
	switch {
	case r < cancelRatio:
		return opCancel
	case r < cancelRatio+amendRatio:
		return opAmend
	default:
		return opAdd
	}
}

func randomPrice(rng *rand.Rand, priceLevels int) int64 {
	return int64(rng.Intn(priceLevels) + 1)
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(p * float64(len(sorted)))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// worstHeap keeps the N largest latencies observed, mirroring the
// teacher's MaxPriceHeap/MinPriceHeap construction: a bounded
// container/heap.Interface whose root is the smallest entry, evicted
// first when a larger latency arrives.
type worstHeap struct {
	cap int
	h   durationMinHeap
}

func newWorstHeap(capacity int) *worstHeap {
	return &worstHeap{cap: capacity, h: make(durationMinHeap, 0, capacity)}
}

func (w *worstHeap) observe(d time.Duration) {
	if w.cap <= 0 {
		return
	}
	if len(w.h) < w.cap {
		heap.Push(&w.h, d)
		return
	}
	if d > w.h[0] {
		w.h[0] = d
		heap.Fix(&w.h, 0)
	}
}

func (w *worstHeap) sorted() []time.Duration {
	out := append([]time.Duration(nil), w.h...)
	sort.Slice(out, func(i, j int) bool { return out[i] > out[j] })
	return out
}

type durationMinHeap []time.Duration

func (h durationMinHeap) Len() int            { return len(h) }
func (h durationMinHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h durationMinHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *durationMinHeap) Push(x interface{}) { *h = append(*h, x.(time.Duration)) }
func (h *durationMinHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
