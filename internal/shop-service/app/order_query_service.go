package app

import (
	"context"
	"fmt"

	"github.com/jcmexdev/shop-orders/internal/shop-service/domain"
	"github.com/jcmexdev/shop-orders/internal/shop-service/ports"
	"github.com/jcmexdev/shop-orders/internal/shop-service/query"
)

// OrderQueryService serves the order list endpoints. Each method names the
// fetch strategy it uses; projection happens inside the unit of work so the
// returned values never reach back into storage.
type OrderQueryService struct {
	uow    ports.UnitOfWork
	loader ports.OrderLoader
}

func NewOrderQueryService(uow ports.UnitOfWork, loader ports.OrderLoader) *OrderQueryService {
	return &OrderQueryService{uow: uow, loader: loader}
}

// SimpleOrdersJoined loads orders with member and delivery fetch-joined.
func (s *OrderQueryService) SimpleOrdersJoined(ctx context.Context, search domain.OrderSearch) ([]query.SimpleOrder, error) {
	var out []query.SimpleOrder
	err := s.read(ctx, "simple orders", func(ctx context.Context) error {
		orders, err := s.loader.LoadWithToOne(ctx, search)
		if err != nil {
			return err
		}
		out, err = query.ProjectSimpleOrders(orders)
		return err
	})
	return out, err
}

// SimpleOrdersProjected selects the simple projection directly.
func (s *OrderQueryService) SimpleOrdersProjected(ctx context.Context, search domain.OrderSearch) ([]query.SimpleOrder, error) {
	var out []query.SimpleOrder
	err := s.read(ctx, "simple order projection", func(ctx context.Context) error {
		var err error
		out, err = s.loader.LoadSimple(ctx, search)
		return err
	})
	return out, err
}

// OrdersJoined fetch-joins the whole aggregate in one query. Not paginable.
func (s *OrderQueryService) OrdersJoined(ctx context.Context, search domain.OrderSearch) ([]query.OrderAggregate, error) {
	var out []query.OrderAggregate
	err := s.read(ctx, "orders with items", func(ctx context.Context) error {
		orders, err := s.loader.LoadWithItems(ctx, search)
		if err != nil {
			return err
		}
		out, err = query.ProjectOrders(orders)
		return err
	})
	return out, err
}

// OrdersPaged pages over the to-one join, then fetches the items of that
// page with one IN query.
func (s *OrderQueryService) OrdersPaged(ctx context.Context, search domain.OrderSearch, page domain.Page) ([]query.OrderAggregate, error) {
	var out []query.OrderAggregate
	err := s.read(ctx, "order page", func(ctx context.Context) error {
		orders, err := s.loader.LoadWithToOnePaged(ctx, search, page.Offset, page.Limit)
		if err != nil {
			return err
		}
		if err := s.loader.FetchItems(ctx, orders); err != nil {
			return err
		}
		out, err = query.ProjectOrders(orders)
		return err
	})
	return out, err
}

// OrdersPerOrder issues one item query per order.
func (s *OrderQueryService) OrdersPerOrder(ctx context.Context, search domain.OrderSearch) ([]query.OrderAggregate, error) {
	var out []query.OrderAggregate
	err := s.read(ctx, "orders per order", func(ctx context.Context) error {
		var err error
		out, err = s.loader.LoadPerOrder(ctx, search)
		return err
	})
	return out, err
}

// OrdersBatched loads orders, then all their items with one IN query.
func (s *OrderQueryService) OrdersBatched(ctx context.Context, search domain.OrderSearch, page domain.Page) ([]query.OrderAggregate, error) {
	var out []query.OrderAggregate
	err := s.read(ctx, "orders batched", func(ctx context.Context) error {
		var err error
		out, err = s.loader.LoadBatched(ctx, search, page)
		return err
	})
	return out, err
}

// OrdersFlat loads one row per order item and regroups them in memory.
func (s *OrderQueryService) OrdersFlat(ctx context.Context, search domain.OrderSearch) ([]query.OrderAggregate, error) {
	var out []query.OrderAggregate
	err := s.read(ctx, "orders flat", func(ctx context.Context) error {
		rows, err := s.loader.LoadFlat(ctx, search)
		if err != nil {
			return err
		}
		out = query.GroupFlat(rows)
		return nil
	})
	return out, err
}

func (s *OrderQueryService) read(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	if err := s.uow.WithinReadOnly(ctx, fn); err != nil {
		return fmt.Errorf("app: %s: %w", op, err)
	}
	return nil
}
