package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jcmexdev/shop-orders/internal/shop-service/adapters/httpx/middlewares"
)

// NewRouter mounts every endpoint and wraps the router with otelhttp so each
// request starts (or continues) a trace.
func NewRouter(handler *Handler, serviceName string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachRequestMetadata)
	r.Use(middlewares.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handler.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/v2/members", handler.ListMembers)
		r.Post("/v2/members", handler.CreateMember)
		r.Put("/v2/members/{id}", handler.UpdateMember)

		r.Get("/items", handler.ListItems)
		r.Post("/items", handler.CreateItem)
		r.Put("/items/{id}", handler.UpdateItem)
		r.Get("/items/{id}/categories", handler.ListItemCategories)
		r.Post("/items/{id}/categories", handler.CategorizeItem)

		r.Get("/orders", handler.SearchOrders)
		r.Post("/orders", handler.CreateOrder)
		r.Post("/orders/{id}/cancel", handler.CancelOrder)
		r.Get("/orders/{id}/history", handler.OrderHistory)

		// one route per fetch strategy
		r.Get("/v3/simple-orders", handler.simpleOrders(handler.queries.SimpleOrdersJoined))
		r.Get("/v4/simple-orders", handler.simpleOrders(handler.queries.SimpleOrdersProjected))
		r.Get("/v3/orders", handler.fullOrders(handler.queries.OrdersJoined))
		r.Get("/v3.1/orders", handler.pagedOrders(handler.queries.OrdersPaged, defaultPageLimit))
		r.Get("/v4/orders", handler.fullOrders(handler.queries.OrdersPerOrder))
		r.Get("/v5/orders", handler.pagedOrders(handler.queries.OrdersBatched, 0))
		r.Get("/v6/orders", handler.fullOrders(handler.queries.OrdersFlat))
	})

	return otelhttp.NewHandler(r, serviceName,
		otelhttp.WithSpanNameFormatter(func(_ string, req *http.Request) string {
			return req.Method + " " + req.URL.Path
		}),
	)
}
