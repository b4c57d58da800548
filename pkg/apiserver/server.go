// Package apiserver exposes a REST + WebSocket surface over a
// book/registry.Registry, grounded on the teacher's pkg/api/server.go
// routing/CORS shape but re-pointed at order-book operations instead
// of perp-DEX account/market endpoints.
package apiserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/uhyunpark/lobcore/pkg/book"
	"github.com/uhyunpark/lobcore/pkg/book/registry"
	"github.com/uhyunpark/lobcore/pkg/feed"
	"github.com/uhyunpark/lobcore/pkg/metrics"
	"github.com/uhyunpark/lobcore/pkg/util"
)

// Server handles REST and WebSocket requests against a Registry.
type Server struct {
	reg     *registry.Registry
	router  *mux.Router
	hub     *feed.Hub
	pub     *feed.Publisher
	metrics *metrics.Registry
	log     *zap.Logger
	// debugLog carries book-lifecycle events (order submit/cancel/amend)
	// at Debug level, kept separate from log so a production deployment
	// running log at Info doesn't drop these on the floor silently.
	// New builds it with util.NewDebugLogger and falls back to log if
	// that fails.
	debugLog *zap.Logger

	allowedOrigins []string
}

func New(reg *registry.Registry, hub *feed.Hub, pub *feed.Publisher, metricsReg *metrics.Registry, log *zap.Logger, allowedOrigins []string) *Server {
	debugLog, err := util.NewDebugLogger()
	if err != nil {
		debugLog = log
	}

	s := &Server{
		reg:            reg,
		router:         mux.NewRouter(),
		hub:            hub,
		pub:            pub,
		metrics:        metricsReg,
		log:            log,
		debugLog:       debugLog,
		allowedOrigins: allowedOrigins,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/books/{symbol}", s.handleGetOrderbook).Methods("GET")
	api.HandleFunc("/books/{symbol}/stats", s.handleGetStats).Methods("GET")
	api.HandleFunc("/books/{symbol}/orders", s.handleSubmitOrder).Methods("POST")
	api.HandleFunc("/books/{symbol}/orders/cancel", s.handleCancelOrder).Methods("POST")
	api.HandleFunc("/books/{symbol}/orders/amend", s.handleAmendOrder).Methods("POST")

	s.router.HandleFunc("/ws", s.hub.ServeWS)
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// Handler returns the fully wrapped HTTP handler (router + CORS),
// usable directly with http.ListenAndServe or in tests with
// httptest.NewServer.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})
	return c.Handler(s.router)
}

func (s *Server) ListenAndServe(addr string) error {
	s.log.Info("apiserver listening", zap.String("addr", addr))
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleGetOrderbook(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	g, ok := s.reg.Lookup(symbol)
	if !ok {
		respondError(w, http.StatusNotFound, "book not found", symbol)
		return
	}

	bids, asks := g.GetSnapshot(depthParam(r))
	respondJSON(w, OrderbookSnapshot{
		Symbol:    symbol,
		Bids:      toPriceLevels(bids),
		Asks:      toPriceLevels(asks),
		Timestamp: time.Now().UnixMilli(),
	})
}

func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	g, ok := s.reg.Lookup(symbol)
	if !ok {
		respondError(w, http.StatusNotFound, "book not found", symbol)
		return
	}

	stats := g.Stats()
	respondJSON(w, StatsResponse{
		Symbol:       symbol,
		TotalAdds:    stats.TotalAdds,
		TotalCancels: stats.TotalCancels,
		TotalAmends:  stats.TotalAmends,
		ActiveOrders: stats.ActiveOrders,
		BidLevels:    stats.BidLevels,
		AskLevels:    stats.AskLevels,
		BestBid:      stats.BestBid,
		BestAsk:      stats.BestAsk,
		Spread:       stats.Spread,
		CanMatch:     g.CanMatch(),
	})
}

func (s *Server) handleSubmitOrder(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	var req SubmitOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	isBuy, ok := parseSide(req.Side)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid side", req.Side)
		return
	}

	g := s.reg.Book(symbol)
	accepted := g.Add(book.Order{
		OrderID:     req.OrderID,
		IsBuy:       isBuy,
		Price:       req.Price,
		Quantity:    req.Quantity,
		TimestampNs: req.TimestampNs,
	})

	s.debugLog.Debug("order submit", zap.String("symbol", symbol), zap.Uint64("orderId", req.OrderID), zap.Bool("accepted", accepted))
	if s.metrics != nil {
		s.metrics.ForSymbol(symbol).ObserveAdd(accepted)
	}
	if accepted && s.pub != nil {
		s.pub.PublishSymbol(symbol)
	}

	respondJSON(w, SubmitOrderResponse{Accepted: accepted, OrderID: req.OrderID})
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	var req CancelOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	g, ok := s.reg.Lookup(symbol)
	found := false
	if ok {
		found = g.Cancel(req.OrderID)
	}

	s.debugLog.Debug("order cancel", zap.String("symbol", symbol), zap.Uint64("orderId", req.OrderID), zap.Bool("found", found))
	if s.metrics != nil {
		s.metrics.ForSymbol(symbol).ObserveCancel(found)
	}
	if found && s.pub != nil {
		s.pub.PublishSymbol(symbol)
	}

	respondJSON(w, CancelOrderResponse{Found: found, OrderID: req.OrderID})
}

func (s *Server) handleAmendOrder(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	var req AmendOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	g, ok := s.reg.Lookup(symbol)
	accepted := false
	if ok {
		accepted = g.Amend(req.OrderID, req.NewPrice, req.NewQuantity)
	}

	s.debugLog.Debug("order amend", zap.String("symbol", symbol), zap.Uint64("orderId", req.OrderID), zap.Bool("accepted", accepted))
	if s.metrics != nil {
		s.metrics.ForSymbol(symbol).ObserveAmend(accepted)
	}
	if accepted && s.pub != nil {
		s.pub.PublishSymbol(symbol)
	}

	respondJSON(w, AmendOrderResponse{Accepted: accepted, OrderID: req.OrderID})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"status": "ok"})
}

func depthParam(r *http.Request) int {
	const defaultDepth = 20
	v := r.URL.Query().Get("depth")
	if v == "" {
		return defaultDepth
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return defaultDepth
	}
	return n
}

func parseSide(side string) (isBuy bool, ok bool) {
	switch side {
	case "buy":
		return true, true
	case "sell":
		return false, true
	default:
		return false, false
	}
}

func toPriceLevels(levels []book.PriceLevel) []PriceLevel {
	out := make([]PriceLevel, len(levels))
	for i, l := range levels {
		out[i] = PriceLevel{Price: l.Price, Size: l.TotalQuantity}
	}
	return out
}

func respondJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, errMsg, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: errMsg, Message: message})
}
