package apiserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/uhyunpark/lobcore/pkg/book"
	"github.com/uhyunpark/lobcore/pkg/book/registry"
	"github.com/uhyunpark/lobcore/pkg/feed"
	"github.com/uhyunpark/lobcore/pkg/metrics"
)

func newTestServer(t *testing.T) (*Server, *registry.Registry) {
	t.Helper()
	reg := registry.New(book.Config{})
	hub := feed.NewHub()
	metricsReg := metrics.NewRegistry(prometheus.NewRegistry())
	log := zap.NewNop()
	return New(reg, hub, nil, metricsReg, log, []string{"*"}), reg
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doJSON(t, s.Handler(), "GET", "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestGetOrderbookUnknownSymbolIs404(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doJSON(t, s.Handler(), "GET", "/api/v1/books/BTC-USDT", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestSubmitOrderThenGetOrderbook(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	submit := doJSON(t, h, "POST", "/api/v1/books/BTC-USDT/orders", SubmitOrderRequest{
		OrderID: 1, Side: "buy", Price: 100, Quantity: 5, TimestampNs: uint64(time.Now().UnixNano()),
	})
	if submit.Code != http.StatusOK {
		t.Fatalf("submit status = %d", submit.Code)
	}
	var submitResp SubmitOrderResponse
	if err := json.NewDecoder(submit.Body).Decode(&submitResp); err != nil {
		t.Fatalf("decode submit: %v", err)
	}
	if !submitResp.Accepted {
		t.Fatalf("expected accepted order")
	}

	book := doJSON(t, h, "GET", "/api/v1/books/BTC-USDT", nil)
	if book.Code != http.StatusOK {
		t.Fatalf("book status = %d", book.Code)
	}
	var snap OrderbookSnapshot
	if err := json.NewDecoder(book.Body).Decode(&snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if len(snap.Bids) != 1 || snap.Bids[0].Price != 100 || snap.Bids[0].Size != 5 {
		t.Fatalf("unexpected bids: %+v", snap.Bids)
	}
}

func TestSubmitOrderInvalidSideRejected(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doJSON(t, s.Handler(), "POST", "/api/v1/books/BTC-USDT/orders", SubmitOrderRequest{
		OrderID: 1, Side: "sideways", Price: 100, Quantity: 5,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestCancelOrderRoundTrip(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	doJSON(t, h, "POST", "/api/v1/books/BTC-USDT/orders", SubmitOrderRequest{
		OrderID: 1, Side: "sell", Price: 100, Quantity: 5,
	})

	rec := doJSON(t, h, "POST", "/api/v1/books/BTC-USDT/orders/cancel", CancelOrderRequest{OrderID: 1})
	var resp CancelOrderResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Found {
		t.Fatalf("expected found=true")
	}

	rec2 := doJSON(t, h, "POST", "/api/v1/books/BTC-USDT/orders/cancel", CancelOrderRequest{OrderID: 1})
	var resp2 CancelOrderResponse
	if err := json.NewDecoder(rec2.Body).Decode(&resp2); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp2.Found {
		t.Fatalf("expected found=false for second cancel")
	}
}

func TestGetStatsUnknownSymbolIs404(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doJSON(t, s.Handler(), "GET", "/api/v1/books/ETH-USDT/stats", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}
