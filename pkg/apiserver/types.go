package apiserver

// Request/response DTOs for the REST surface, grounded on the
// teacher's pkg/api/types.go naming conventions.

// PriceLevel is a [price, size] tuple in the wire format.
type PriceLevel struct {
	Price int64  `json:"price"`
	Size  uint64 `json:"size"`
}

// OrderbookSnapshot is the current state of one symbol's book.
type OrderbookSnapshot struct {
	Symbol    string       `json:"symbol"`
	Bids      []PriceLevel `json:"bids"` // sorted high to low
	Asks      []PriceLevel `json:"asks"` // sorted low to high
	Timestamp int64        `json:"timestamp"`
}

// StatsResponse mirrors book.Stats over the wire.
type StatsResponse struct {
	Symbol       string `json:"symbol"`
	TotalAdds    uint64 `json:"totalAdds"`
	TotalCancels uint64 `json:"totalCancels"`
	TotalAmends  uint64 `json:"totalAmends"`
	ActiveOrders uint64 `json:"activeOrders"`
	BidLevels    int    `json:"bidLevels"`
	AskLevels    int    `json:"askLevels"`
	BestBid      int64  `json:"bestBid"`
	BestAsk      int64  `json:"bestAsk"`
	Spread       int64  `json:"spread"`
	CanMatch     bool   `json:"canMatch"`
}

// SubmitOrderRequest is the body of POST /api/v1/books/{symbol}/orders.
type SubmitOrderRequest struct {
	OrderID     uint64 `json:"orderId"`
	Side        string `json:"side"` // "buy" or "sell"
	Price       int64  `json:"price"`
	Quantity    uint64 `json:"quantity"`
	TimestampNs uint64 `json:"timestampNs"`
}

// SubmitOrderResponse acknowledges (or rejects) a SubmitOrderRequest.
type SubmitOrderResponse struct {
	Accepted bool   `json:"accepted"`
	OrderID  uint64 `json:"orderId"`
}

// CancelOrderRequest is the body of POST /api/v1/books/{symbol}/orders/cancel.
type CancelOrderRequest struct {
	OrderID uint64 `json:"orderId"`
}

// CancelOrderResponse reports whether the order existed.
type CancelOrderResponse struct {
	Found   bool   `json:"found"`
	OrderID uint64 `json:"orderId"`
}

// AmendOrderRequest is the body of POST /api/v1/books/{symbol}/orders/amend.
type AmendOrderRequest struct {
	OrderID     uint64 `json:"orderId"`
	NewPrice    int64  `json:"newPrice"`
	NewQuantity uint64 `json:"newQuantity"`
}

// AmendOrderResponse reports whether the amend was accepted.
type AmendOrderResponse struct {
	Accepted bool   `json:"accepted"`
	OrderID  uint64 `json:"orderId"`
}

// ErrorResponse is the standard JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
