package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jcmexdev/shop-orders/internal/shop-service/adapters/httpx/middlewares"
	"github.com/jcmexdev/shop-orders/internal/shop-service/app"
	"github.com/jcmexdev/shop-orders/internal/shop-service/domain"
	"github.com/jcmexdev/shop-orders/internal/shop-service/query"
)

const defaultPageLimit = 100

// CreateOrder places an order. A repeated X-Idempotency-Key returns the
// first order id.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if !decode(w, r, &req) {
		return
	}
	if req.MemberID <= 0 || len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "memberId and items are required")
		return
	}
	lines := make([]app.OrderLine, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, app.OrderLine{ItemID: it.ItemID, Count: it.Count})
	}

	idempKey := middlewares.IdempotencyKey(r.Context())
	slog.InfoContext(r.Context(), "creating order",
		"request_id", middlewares.RequestID(r.Context()),
		"member_id", req.MemberID,
		"lines", len(lines),
	)

	id, err := h.orders.Order(r.Context(), req.MemberID, lines, idempKey)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, CreateOrderResponse{OrderID: id})
}

func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.orders.CancelOrder(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// OrderHistory lists the recorded status transitions of one order.
func (h *Handler) OrderHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	entries, err := h.orders.History(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Result[[]OrderLogResponse]{Data: mapOrderLog(entries)})
}

// SearchOrders is the capped order list behind the order search screen.
func (h *Handler) SearchOrders(w http.ResponseWriter, r *http.Request) {
	search, ok := parseSearch(w, r)
	if !ok {
		return
	}
	orders, err := h.orders.FindOrders(r.Context(), search)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Result[[]SimpleOrderResponse]{Data: mapSimpleOrders(orders)})
}

// simpleOrders adapts a simple-order strategy to an HTTP handler.
func (h *Handler) simpleOrders(load func(context.Context, domain.OrderSearch) ([]query.SimpleOrder, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		search, ok := parseSearch(w, r)
		if !ok {
			return
		}
		orders, err := load(r.Context(), search)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, Result[[]SimpleOrderResponse]{Data: mapSimpleOrders(orders)})
	}
}

func (h *Handler) fullOrders(load func(context.Context, domain.OrderSearch) ([]query.OrderAggregate, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		search, ok := parseSearch(w, r)
		if !ok {
			return
		}
		orders, err := load(r.Context(), search)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, Result[[]OrderResponse]{Data: mapOrders(orders)})
	}
}

func (h *Handler) pagedOrders(load func(context.Context, domain.OrderSearch, domain.Page) ([]query.OrderAggregate, error), defaultLimit int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		search, ok := parseSearch(w, r)
		if !ok {
			return
		}
		page, ok := parsePage(w, r, defaultLimit)
		if !ok {
			return
		}
		orders, err := load(r.Context(), search, page)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, Result[[]OrderResponse]{Data: mapOrders(orders)})
	}
}

func parseSearch(w http.ResponseWriter, r *http.Request) (domain.OrderSearch, bool) {
	q := r.URL.Query()
	status, err := domain.ParseOrderStatus(q.Get("status"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_status", "status must be ORDERED or CANCELLED")
		return domain.OrderSearch{}, false
	}
	return domain.OrderSearch{Status: status, MemberName: q.Get("memberName")}, true
}

// parsePage reads offset and limit. A missing limit falls back to
// defaultLimit; 0 means unpaged.
func parsePage(w http.ResponseWriter, r *http.Request, defaultLimit int) (domain.Page, bool) {
	q := r.URL.Query()
	page := domain.Page{Limit: defaultLimit}
	for _, p := range []struct {
		name string
		dst  *int
	}{
		{"offset", &page.Offset},
		{"limit", &page.Limit},
	} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid_page", p.name+" must be a non-negative integer")
			return domain.Page{}, false
		}
		*p.dst = n
	}
	if err := page.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_page", "offset needs a limit")
		return domain.Page{}, false
	}
	return page, true
}
