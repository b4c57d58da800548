// Package book implements an in-memory, single-threaded limit order
// book: a price-time-prioritized ladder of resting orders with O(1)
// cancellation by order ID and O(1) top-of-book reads. The book
// detects crossing via CanMatch but never executes trades — matching
// is left to an external collaborator.
package book

import "math"

// maxPrice is the sentinel for "no resting asks" returned by
// BestPrices, mirroring the source's std::numeric_limits<double>::max().
const maxPrice = int64(math.MaxInt64)

// Config tunes the book's pool and index pre-sizing. A zero-value
// Config is valid; NewBook fills in sensible defaults.
type Config struct {
	// IndexHint pre-sizes the order-id index to avoid rehashing on
	// the hot path.
	IndexHint int
	// NodeSlabSize is the number of orderNodes per pool slab.
	NodeSlabSize int
	// LevelSlabSize is the number of levels per pool slab.
	LevelSlabSize int
}

const (
	defaultNodeSlabSize  = 1024
	defaultLevelSlabSize = 256
)

func (c Config) withDefaults() Config {
	if c.NodeSlabSize <= 0 {
		c.NodeSlabSize = defaultNodeSlabSize
	}
	if c.LevelSlabSize <= 0 {
		c.LevelSlabSize = defaultLevelSlabSize
	}
	return c
}

// Book is the core limit order book. It is not safe for concurrent
// use; callers that need concurrency must serialize access from an
// outer layer (see pkg/book/registry for the per-symbol pattern).
type Book struct {
	ladder *ladder
	idx    *index
	nodes  *pool[orderNode]

	totalAdds    uint64
	totalCancels uint64
	totalAmends  uint64

	cachedBid  int64
	cachedAsk  int64
	cacheValid bool
}

// NewBook constructs an empty book.
func NewBook(cfg Config) *Book {
	cfg = cfg.withDefaults()
	return &Book{
		ladder: newLadder(cfg.LevelSlabSize),
		idx:    newIndex(cfg.IndexHint),
		nodes:  newPool[orderNode](cfg.NodeSlabSize),
	}
}

// Add inserts a new resting order. It fails without side effects if
// order.OrderID is already resting, order.Quantity is zero, or
// order.Price is not positive.
func (b *Book) Add(order Order) bool {
	if order.Quantity == 0 || order.Price <= 0 {
		return false
	}
	if _, exists := b.idx.find(order.OrderID); exists {
		return false
	}

	node := b.nodes.allocate()
	node.order = order

	b.idx.insert(order.OrderID, node)
	b.ladder.insertOrder(node)

	b.cacheValid = false
	b.totalAdds++
	return true
}

// Cancel removes a resting order by ID. It returns false, with no
// side effects, if the ID is not currently resting.
func (b *Book) Cancel(orderID uint64) bool {
	node, ok := b.idx.find(orderID)
	if !ok {
		return false
	}

	b.ladder.removeOrder(node)
	b.idx.remove(orderID)
	b.nodes.release(node)

	b.cacheValid = false
	b.totalCancels++
	return true
}

// Amend modifies a resting order. A price change within newPrice ==
// old price (integer ticks, so this is exact equality) mutates the
// quantity in place and preserves time priority. Any other newPrice
// is a cancel-then-add at the new price with a fresh arrival position,
// which loses time priority. newQuantity == 0 is rejected rather than
// treated as an implicit cancel; callers must call Cancel explicitly.
func (b *Book) Amend(orderID uint64, newPrice int64, newQuantity uint64) bool {
	if newQuantity == 0 || newPrice <= 0 {
		return false
	}

	node, ok := b.idx.find(orderID)
	if !ok {
		return false
	}

	b.cacheValid = false

	if newPrice == node.order.Price {
		lvl := node.lvl
		if lvl == nil {
			panic(newInvariantError("amend: node %d has no owning level", orderID))
		}
		lvl.updateQuantity(node, newQuantity)
		b.totalAmends++
		return true
	}

	updated := node.order
	updated.Price = newPrice
	updated.Quantity = newQuantity

	b.ladder.removeOrder(node)
	b.idx.remove(orderID)
	b.nodes.release(node)

	newNode := b.nodes.allocate()
	newNode.order = updated
	b.idx.insert(orderID, newNode)
	b.ladder.insertOrder(newNode)

	b.totalAmends++
	return true
}

// GetSnapshot returns up to depth aggregated PriceLevel entries per
// side, bids descending and asks ascending. It never mutates the book.
func (b *Book) GetSnapshot(depth int) (bids, asks []PriceLevel) {
	if depth < 0 {
		depth = 0
	}
	bids = make([]PriceLevel, 0, depth)
	asks = make([]PriceLevel, 0, depth)

	b.ladder.iterFromBest(true, depth, func(price int64, qty uint64) {
		bids = append(bids, PriceLevel{Price: price, TotalQuantity: qty})
	})
	b.ladder.iterFromBest(false, depth, func(price int64, qty uint64) {
		asks = append(asks, PriceLevel{Price: price, TotalQuantity: qty})
	})
	return bids, asks
}

// BestPrices returns the front of each ladder side. An empty bid side
// reports 0; an empty ask side reports the maximum representable
// price. The result is cached and invalidated by every mutator.
func (b *Book) BestPrices() (bestBid, bestAsk int64) {
	if !b.cacheValid {
		b.cachedBid = 0
		if lvl := b.ladder.best(true); lvl != nil {
			b.cachedBid = lvl.price
		}
		b.cachedAsk = maxPrice
		if lvl := b.ladder.best(false); lvl != nil {
			b.cachedAsk = lvl.price
		}
		b.cacheValid = true
	}
	return b.cachedBid, b.cachedAsk
}

// CanMatch reports whether both sides are non-empty and the best bid
// is at or above the best ask. The book never executes the match
// itself; this is a signal for an external matching engine.
func (b *Book) CanMatch() bool {
	if b.ladder.levelCount(true) == 0 || b.ladder.levelCount(false) == 0 {
		return false
	}
	bid, ask := b.BestPrices()
	return bid >= ask
}

// Stats returns monotonic lifetime counters plus the current
// top-of-book and spread. Spread is 0 unless both sides are non-empty.
func (b *Book) Stats() Stats {
	bid, ask := b.BestPrices()
	spread := int64(0)
	if b.ladder.levelCount(true) > 0 && b.ladder.levelCount(false) > 0 {
		spread = ask - bid
	}
	return Stats{
		TotalAdds:    b.totalAdds,
		TotalCancels: b.totalCancels,
		TotalAmends:  b.totalAmends,
		ActiveOrders: uint64(b.idx.len()),
		BidLevels:    b.ladder.levelCount(true),
		AskLevels:    b.ladder.levelCount(false),
		BestBid:      bid,
		BestAsk:      ask,
		Spread:       spread,
	}
}
