package ports

import (
	"context"

	"github.com/jcmexdev/shop-orders/internal/shop-service/domain"
	"github.com/jcmexdev/shop-orders/internal/shop-service/query"
)

// UnitOfWork runs fn inside one transaction carried by the context passed to
// fn. Repositories must be called with that context.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context) error) error
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

type MemberRepository interface {
	Save(ctx context.Context, m *domain.Member) error
	FindOne(ctx context.Context, id int64) (*domain.Member, error)
	FindAll(ctx context.Context) ([]*domain.Member, error)
	FindByName(ctx context.Context, name string) ([]*domain.Member, error)
	UpdateName(ctx context.Context, id int64, name string) error
}

type ItemRepository interface {
	// Save inserts items without an id and merges the rest.
	Save(ctx context.Context, item *domain.Item) error
	FindOne(ctx context.Context, id int64) (*domain.Item, error)
	FindAll(ctx context.Context) ([]*domain.Item, error)
	// AdjustStock adds delta to the stored stock; a result below zero fails
	// with domain.ErrNotEnoughStock and changes nothing.
	AdjustStock(ctx context.Context, id int64, delta int) error
}

type CategoryRepository interface {
	FindOrCreate(ctx context.Context, name string, parentID *int64) (*domain.Category, error)
	AddItem(ctx context.Context, categoryID, itemID int64) error
	FindByItem(ctx context.Context, itemID int64) ([]*domain.Category, error)
}

type OrderRepository interface {
	// Save persists a new order with its delivery and order items.
	Save(ctx context.Context, o *domain.Order) error
	// FindOne returns the order with member, delivery, items and their Item rows.
	FindOne(ctx context.Context, id int64) (*domain.Order, error)
	// UpdateStatus writes back the order status.
	UpdateStatus(ctx context.Context, o *domain.Order) error
}

// OrderLoader exposes every fetch strategy for order aggregates. The caller
// picks the strategy; none is chosen automatically. All methods require an
// active unit of work in ctx and return all or nothing.
type OrderLoader interface {
	// LoadWithToOne joins member and delivery in one query. Items are not
	// fetched. Row count equals order count.
	LoadWithToOne(ctx context.Context, s domain.OrderSearch) ([]*domain.Order, error)

	// LoadWithItems joins member, delivery, order items and items in one
	// query and collapses the duplicated order rows by order id. Offset/limit
	// cannot be applied at the database level: it would count item rows,
	// not orders. Use LoadBatched for paged lists with items.
	LoadWithItems(ctx context.Context, s domain.OrderSearch) ([]*domain.Order, error)

	// LoadWithToOnePaged is LoadWithToOne with a real offset/limit window.
	LoadWithToOnePaged(ctx context.Context, s domain.OrderSearch, offset, limit int) ([]*domain.Order, error)

	// FetchItems loads items for already loaded orders with one IN query and
	// marks them resident.
	FetchItems(ctx context.Context, orders []*domain.Order) error

	// LoadBatched runs one query for orders (to-one joins, optional page) and
	// one IN query for their items, then merges in memory.
	LoadBatched(ctx context.Context, s domain.OrderSearch, page domain.Page) ([]query.OrderAggregate, error)

	// LoadPerOrder runs one query for orders and one more per order for its
	// items.
	LoadPerOrder(ctx context.Context, s domain.OrderSearch) ([]query.OrderAggregate, error)

	// LoadFlat returns one row per order item from a single fully joined
	// query. Callers regroup with query.GroupFlat.
	LoadFlat(ctx context.Context, s domain.OrderSearch) ([]query.FlatRow, error)

	// LoadSimple selects the to-one projection straight into DTOs.
	LoadSimple(ctx context.Context, s domain.OrderSearch) ([]query.SimpleOrder, error)
}
