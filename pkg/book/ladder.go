package book

// ladder holds the two price-sorted sides of the book. Both sides are
// backed by the same rbTree implementation; the bid side stores the
// negated price as its tree key so that the tree's natural ascending
// (minimum-first) iteration yields the highest price first, without
// needing a second comparator-aware tree type.
type ladder struct {
	bids *rbTree // key = -price, so Min() is the highest price
	asks *rbTree // key = price, so Min() is the lowest price

	levelPool *pool[level]
}

func newLadder(levelSlabSize int) *ladder {
	return &ladder{
		bids:      newRBTree(),
		asks:      newRBTree(),
		levelPool: newPool[level](levelSlabSize),
	}
}

func (ldr *ladder) treeFor(isBuy bool) *rbTree {
	if isBuy {
		return ldr.bids
	}
	return ldr.asks
}

func ladderKey(isBuy bool, price int64) int64 {
	if isBuy {
		return -price
	}
	return price
}

// insertOrder locates (or creates) the level at node.order.Price on
// the matching side, appends node to its FIFO, and updates aggregates.
func (ldr *ladder) insertOrder(node *orderNode) {
	tree := ldr.treeFor(node.order.IsBuy)
	key := ladderKey(node.order.IsBuy, node.order.Price)

	rn := tree.Search(key)
	var lvl *level
	if rn == nil {
		lvl = ldr.levelPool.allocate()
		lvl.price = node.order.Price
		rn = tree.Insert(key, lvl)
		lvl.node = rn
	} else {
		lvl = rn.lvl
	}

	lvl.pushBack(node)
}

// removeOrder excises node from its level's FIFO. If the level is now
// empty it is unlinked from the ladder and returned to the pool.
func (ldr *ladder) removeOrder(node *orderNode) {
	lvl := node.lvl
	if lvl == nil {
		panic(newInvariantError("removeOrder: node %d has no owning level", node.order.OrderID))
	}

	lvl.eraseNode(node)
	node.lvl = nil

	if lvl.isEmpty() {
		tree := ldr.treeFor(node.order.IsBuy)
		tree.Delete(lvl.node)
		lvl.node = nil
		ldr.levelPool.release(lvl)
	}
}

// best returns the front level of the given side, or nil if empty.
func (ldr *ladder) best(isBuy bool) *level {
	rn := ldr.treeFor(isBuy).Min()
	if rn == nil {
		return nil
	}
	return rn.lvl
}

// iterFromBest walks up to depth levels from the front of side,
// calling fn with each level's aggregate snapshot.
func (ldr *ladder) iterFromBest(isBuy bool, depth int, fn func(price int64, qty uint64)) {
	tree := ldr.treeFor(isBuy)
	rn := tree.Min()
	for i := 0; rn != nil && i < depth; i++ {
		fn(rn.lvl.price, rn.lvl.totalQuantity)
		rn = tree.Successor(rn)
	}
}

func (ldr *ladder) levelCount(isBuy bool) int {
	return ldr.treeFor(isBuy).Len()
}
