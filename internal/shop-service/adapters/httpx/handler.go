package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/shop-orders/internal/shop-service/app"
	"github.com/jcmexdev/shop-orders/internal/shop-service/domain"
)

// Pinger reports whether a dependency answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the shop REST API on top of the app services.
type Handler struct {
	members *app.MemberService
	items   *app.ItemService
	orders  *app.OrderService
	queries *app.OrderQueryService
	db      Pinger
}

func NewHandler(
	members *app.MemberService,
	items *app.ItemService,
	orders *app.OrderService,
	queries *app.OrderQueryService,
	db Pinger,
) *Handler {
	return &Handler{
		members: members,
		items:   items,
		orders:  orders,
		queries: queries,
		db:      db,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.Ping(r.Context()); err != nil {
			slog.ErrorContext(r.Context(), "health check failed", "error", err)
			writeError(w, http.StatusServiceUnavailable, "unavailable", "database unreachable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_id", "id must be a positive integer")
		return 0, false
	}
	return id, true
}

// writeDomainError maps domain sentinels to status codes. Storage details
// stay in the log.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := http.StatusInternalServerError, "internal"
	msg := err.Error()
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrDuplicateMember):
		status, code = http.StatusConflict, "duplicate_member"
	case errors.Is(err, domain.ErrInvalidCancellation):
		status, code = http.StatusConflict, "invalid_cancellation"
	case errors.Is(err, domain.ErrNotEnoughStock):
		status, code = http.StatusUnprocessableEntity, "not_enough_stock"
	case errors.Is(err, domain.ErrInvalidSearch),
		errors.Is(err, domain.ErrInvalidCount),
		errors.Is(err, domain.ErrInvalidItem),
		errors.Is(err, domain.ErrInvalidMember),
		errors.Is(err, domain.ErrIncompleteOrder):
		status, code = http.StatusBadRequest, "invalid_request"
	case errors.Is(err, domain.ErrStorageAccess):
		status, code, msg = http.StatusServiceUnavailable, "storage_unavailable", "storage access failure"
	default:
		msg = "internal error"
	}
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	writeError(w, status, code, msg)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
