package app

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jcmexdev/shop-orders/internal/shop-service/domain"
	"github.com/jcmexdev/shop-orders/internal/shop-service/orderlog"
	"github.com/jcmexdev/shop-orders/internal/shop-service/ports"
	"github.com/jcmexdev/shop-orders/internal/shop-service/query"
)

// MaxOrderList caps the search list served by FindOrders.
const MaxOrderList = 1000

const idempotencyOp = "place-order"

// OrderLine is one requested item of a new order.
type OrderLine struct {
	ItemID int64
	Count  int
}

type OrderService struct {
	uow     ports.UnitOfWork
	members ports.MemberRepository
	items   ports.ItemRepository
	orders  ports.OrderRepository
	loader  ports.OrderLoader
	log     orderlog.Repository

	// idem may be nil; placement is then not deduplicated.
	idem    ports.IdempotencyStore
	idemTTL time.Duration
}

type OrderServiceDeps struct {
	UoW            ports.UnitOfWork
	Members        ports.MemberRepository
	Items          ports.ItemRepository
	Orders         ports.OrderRepository
	Loader         ports.OrderLoader
	Log            orderlog.Repository
	Idempotency    ports.IdempotencyStore
	IdempotencyTTL time.Duration
}

func NewOrderService(d OrderServiceDeps) *OrderService {
	ttl := d.IdempotencyTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &OrderService{
		uow:     d.UoW,
		members: d.Members,
		items:   d.Items,
		orders:  d.Orders,
		loader:  d.Loader,
		log:     d.Log,
		idem:    d.Idempotency,
		idemTTL: ttl,
	}
}

// Order places an order for memberID. Stock of every line is taken in the
// same unit of work as the order insert; any failure rolls back all of it.
// A repeated call with the same non-empty idempotency key returns the id of
// the first order.
func (s *OrderService) Order(ctx context.Context, memberID int64, lines []OrderLine, idempotencyKey string) (int64, error) {
	if len(lines) == 0 {
		return 0, domain.ErrIncompleteOrder
	}
	for _, l := range lines {
		if l.Count <= 0 {
			return 0, domain.ErrInvalidCount
		}
	}

	if id, ok := s.lookupIdempotent(ctx, idempotencyKey); ok {
		slog.InfoContext(ctx, "order replayed from idempotency key", "order_id", id)
		return id, nil
	}

	var order *domain.Order
	err := s.uow.Within(ctx, func(ctx context.Context) error {
		member, err := s.members.FindOne(ctx, memberID)
		if err != nil {
			return fmt.Errorf("member %d: %w", memberID, err)
		}

		// one value per item id so repeated lines draw from the same stock
		loaded := map[int64]*domain.Item{}
		orderItems := make([]*domain.OrderItem, 0, len(lines))
		for _, l := range lines {
			item, ok := loaded[l.ItemID]
			if !ok {
				item, err = s.items.FindOne(ctx, l.ItemID)
				if err != nil {
					return fmt.Errorf("item %d: %w", l.ItemID, err)
				}
				loaded[l.ItemID] = item
			}
			oi, err := domain.NewOrderItem(item, item.Price, l.Count)
			if err != nil {
				return fmt.Errorf("item %d: %w", l.ItemID, err)
			}
			if err := s.items.AdjustStock(ctx, item.ID, -l.Count); err != nil {
				return fmt.Errorf("item %d: %w", l.ItemID, err)
			}
			orderItems = append(orderItems, oi)
		}

		order, err = domain.NewOrder(member, domain.NewDelivery(member.Address), orderItems...)
		if err != nil {
			return err
		}
		if err := s.orders.Save(ctx, order); err != nil {
			return err
		}
		return s.appendLog(ctx, order, idempotencyKey)
	})
	if err != nil {
		return 0, fmt.Errorf("app: place order: %w", err)
	}

	s.rememberIdempotent(ctx, idempotencyKey, order.ID)
	slog.InfoContext(ctx, "order placed",
		"order_id", order.ID,
		"member_id", memberID,
		"total", order.TotalPrice(),
	)
	return order.ID, nil
}

// CancelOrder restores stock of every order line and marks the order
// CANCELLED, or fails with domain.ErrInvalidCancellation leaving everything
// as it was.
func (s *OrderService) CancelOrder(ctx context.Context, orderID int64) error {
	err := s.uow.Within(ctx, func(ctx context.Context) error {
		order, err := s.orders.FindOne(ctx, orderID)
		if err != nil {
			return err
		}
		if err := order.Cancel(); err != nil {
			return err
		}
		for _, oi := range order.Items {
			if err := s.items.AdjustStock(ctx, oi.Item.ID, oi.Count); err != nil {
				return err
			}
		}
		if err := s.orders.UpdateStatus(ctx, order); err != nil {
			return err
		}
		return s.appendLog(ctx, order, "")
	})
	if err != nil {
		return fmt.Errorf("app: cancel order %d: %w", orderID, err)
	}
	slog.InfoContext(ctx, "order cancelled", "order_id", orderID)
	return nil
}

// FindOrders is the order search list: to-one fetch join, at most
// MaxOrderList rows.
func (s *OrderService) FindOrders(ctx context.Context, search domain.OrderSearch) ([]query.SimpleOrder, error) {
	var out []query.SimpleOrder
	err := s.uow.WithinReadOnly(ctx, func(ctx context.Context) error {
		orders, err := s.loader.LoadWithToOnePaged(ctx, search, 0, MaxOrderList)
		if err != nil {
			return err
		}
		out, err = query.ProjectSimpleOrders(orders)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("app: find orders: %w", err)
	}
	return out, nil
}

// History returns the status transitions recorded for orderID, oldest
// first. An unknown order is ErrNotFound.
func (s *OrderService) History(ctx context.Context, orderID int64) ([]*orderlog.Entry, error) {
	if s.log == nil {
		return nil, nil
	}
	var out []*orderlog.Entry
	err := s.uow.WithinReadOnly(ctx, func(ctx context.Context) error {
		if _, err := s.orders.FindOne(ctx, orderID); err != nil {
			return err
		}
		var err error
		out, err = s.log.FindByOrder(ctx, orderID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("app: order %d history: %w", orderID, err)
	}
	return out, nil
}

func (s *OrderService) appendLog(ctx context.Context, o *domain.Order, note string) error {
	if s.log == nil {
		return nil
	}
	if note != "" {
		note = "idempotency_key=" + note
	}
	return s.log.Save(ctx, orderlog.NewEntry(ctx, o.ID, o.Status, note))
}

// lookupIdempotent treats cache failures as a miss: the order is placed and
// the failure logged.
func (s *OrderService) lookupIdempotent(ctx context.Context, key string) (int64, bool) {
	if s.idem == nil || key == "" {
		return 0, false
	}
	v, err := s.idem.Get(ctx, s.idem.GenerateKey(idempotencyOp, key))
	if err != nil {
		slog.WarnContext(ctx, "idempotency lookup failed", "error", err)
		return 0, false
	}
	if v == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		slog.WarnContext(ctx, "idempotency value is not an order id", "value", v)
		return 0, false
	}
	return id, true
}

func (s *OrderService) rememberIdempotent(ctx context.Context, key string, orderID int64) {
	if s.idem == nil || key == "" {
		return
	}
	err := s.idem.Set(ctx, s.idem.GenerateKey(idempotencyOp, key), strconv.FormatInt(orderID, 10), s.idemTTL)
	if err != nil {
		slog.WarnContext(ctx, "idempotency store failed", "order_id", orderID, "error", err)
	}
}
