package feed

import (
	"time"

	"github.com/uhyunpark/lobcore/pkg/book"
	"github.com/uhyunpark/lobcore/pkg/book/registry"
	"github.com/uhyunpark/lobcore/pkg/util"
)

// SubscribeRequest is sent by a client to (un)subscribe to channels,
// each named "orderbook:<symbol>".
type SubscribeRequest struct {
	Op       string   `json:"op"`
	Channels []string `json:"channels"`
}

// OrderbookUpdate is one push of aggregated top-of-book levels.
type OrderbookUpdate struct {
	Type      string     `json:"type"`
	Symbol    string     `json:"symbol"`
	Bids      []levelDTO `json:"bids"`
	Asks      []levelDTO `json:"asks"`
	Timestamp int64      `json:"timestamp"`
}

type levelDTO struct {
	Price int64  `json:"price"`
	Size  uint64 `json:"size"`
}

// Publisher periodically pushes OrderbookUpdate messages for a set of
// symbols to the Hub. It takes its clock the way the teacher's
// Pacemaker does (pkg/consensus/pacemaker.go), so tests can drive the
// publish cadence without sleeping real time.
type Publisher struct {
	hub      *Hub
	reg      *registry.Registry
	depth    int
	interval time.Duration
	clock    util.Clock
}

func NewPublisher(hub *Hub, reg *registry.Registry, depth int, interval time.Duration, clock util.Clock) *Publisher {
	return &Publisher{hub: hub, reg: reg, depth: depth, interval: interval, clock: clock}
}

// Run pushes an update for every registered symbol on every tick,
// until the stop channel is closed.
func (p *Publisher) Run(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-p.clock.After(p.interval):
			p.publishAll()
		}
	}
}

func (p *Publisher) publishAll() {
	for _, symbol := range p.reg.Symbols() {
		p.PublishSymbol(symbol)
	}
}

// PublishSymbol pushes a single update for symbol immediately,
// regardless of the ticker — used right after a mutating API call so
// subscribers see the effect without waiting for the next tick.
func (p *Publisher) PublishSymbol(symbol string) {
	g, ok := p.reg.Lookup(symbol)
	if !ok {
		return
	}
	bids, asks := g.GetSnapshot(p.depth)

	update := OrderbookUpdate{
		Type:      "orderbook",
		Symbol:    symbol,
		Bids:      toDTO(bids),
		Asks:      toDTO(asks),
		Timestamp: p.clock.Now().UnixMilli(),
	}
	p.hub.Publish("orderbook:"+symbol, update)
}

func toDTO(levels []book.PriceLevel) []levelDTO {
	out := make([]levelDTO, len(levels))
	for i, l := range levels {
		out[i] = levelDTO{Price: l.Price, Size: l.TotalQuantity}
	}
	return out
}
