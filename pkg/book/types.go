package book

// Order is the immutable input record a caller supplies to Add.
// Price is expressed in integer ticks, not a floating-point currency
// unit; the caller's market layer owns the tick→currency conversion.
type Order struct {
	OrderID     uint64
	IsBuy       bool
	Price       int64
	Quantity    uint64
	TimestampNs uint64
}

// PriceLevel is an aggregated per-price view returned by GetSnapshot:
// per-order detail is never exposed outside the book.
type PriceLevel struct {
	Price         int64
	TotalQuantity uint64
}

// Stats are monotonic lifetime counters plus the current top-of-book.
type Stats struct {
	TotalAdds    uint64
	TotalCancels uint64
	TotalAmends  uint64
	ActiveOrders uint64
	BidLevels    int
	AskLevels    int
	BestBid      int64
	BestAsk      int64
	Spread       int64
}

// orderNode is the book's internal, pooled representation of a
// resting order. It is never exposed to callers.
type orderNode struct {
	order Order

	// intrusive FIFO pointers within lvl's queue
	prev *orderNode
	next *orderNode
	lvl  *level
}

// level is the aggregate of all resting orders sharing one price on
// one side. It owns the head/tail of its FIFO and the rbNode that
// anchors it inside the ladder, so it can be deleted from the tree by
// node once its queue empties (no second tree search needed).
type level struct {
	price         int64
	totalQuantity uint64
	orderCount    int

	head *orderNode
	tail *orderNode

	node *rbNode
}

func (l *level) isEmpty() bool {
	return l.orderCount == 0
}

// pushBack appends node to the FIFO tail and updates aggregates.
func (l *level) pushBack(node *orderNode) {
	node.lvl = l
	node.prev = l.tail
	node.next = nil
	if l.tail != nil {
		l.tail.next = node
	} else {
		l.head = node
	}
	l.tail = node
	l.totalQuantity += node.order.Quantity
	l.orderCount++
}

// eraseNode excises node from the FIFO in O(1) using its own
// intrusive prev/next pointers, then updates aggregates.
func (l *level) eraseNode(node *orderNode) {
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		l.head = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		l.tail = node.prev
	}
	node.prev = nil
	node.next = nil
	l.totalQuantity -= node.order.Quantity
	l.orderCount--
}

// updateQuantity replaces node's quantity in place without touching
// FIFO order, preserving time priority.
func (l *level) updateQuantity(node *orderNode, newQty uint64) {
	l.totalQuantity = l.totalQuantity - node.order.Quantity + newQty
	node.order.Quantity = newQty
}
