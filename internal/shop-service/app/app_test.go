package app

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/shop-orders/internal/shop-service/adapters/gormstore"
	"github.com/jcmexdev/shop-orders/internal/shop-service/domain"
)

type memoryIdempotency struct {
	mu      sync.Mutex
	values  map[string]string
	failGet bool
}

func newMemoryIdempotency() *memoryIdempotency {
	return &memoryIdempotency{values: map[string]string{}}
}

func (m *memoryIdempotency) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value.(string)
	return nil
}

func (m *memoryIdempotency) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return "", errors.New("connection refused")
	}
	return m.values[key], nil
}

func (m *memoryIdempotency) GenerateKey(operation, key string) string {
	return "test:" + operation + ":" + key
}

type testApp struct {
	store   *gormstore.Store
	members *MemberService
	items   *ItemService
	orders  *OrderService
	queries *OrderQueryService
	idem    *memoryIdempotency
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	store, err := gormstore.Open(gormstore.Config{
		Driver:   gormstore.DriverSQLite,
		DSN:      filepath.Join(t.TempDir(), "shop.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	uow := gormstore.NewTransactor(store.DB())
	loader := gormstore.NewOrderLoader()
	idem := newMemoryIdempotency()
	return &testApp{
		store:   store,
		members: NewMemberService(uow, gormstore.NewMemberRepo()),
		items:   NewItemService(uow, gormstore.NewItemRepo(), gormstore.NewCategoryRepo()),
		orders: NewOrderService(OrderServiceDeps{
			UoW:         uow,
			Members:     gormstore.NewMemberRepo(),
			Items:       gormstore.NewItemRepo(),
			Orders:      gormstore.NewOrderRepo(),
			Loader:      loader,
			Log:         gormstore.NewOrderLogRepo(),
			Idempotency: idem,
		}),
		queries: NewOrderQueryService(uow, loader),
		idem:    idem,
	}
}

func (a *testApp) join(t *testing.T, name string) int64 {
	t.Helper()
	id, err := a.members.Join(context.Background(), name, domain.Address{City: "Seoul", Street: "1", Zipcode: "1111"})
	require.NoError(t, err)
	return id
}

func (a *testApp) book(t *testing.T, name string, price, stock int) *domain.Item {
	t.Helper()
	b := domain.NewBook(name, price, stock, domain.BookDetails{Author: "Kim", ISBN: name})
	require.NoError(t, a.items.SaveItem(context.Background(), b))
	return b
}

func (a *testApp) stock(t *testing.T, id int64) int {
	t.Helper()
	it, err := a.items.Item(context.Background(), id)
	require.NoError(t, err)
	return it.StockQuantity
}

func TestOrderAndCancelScenario(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	oh := a.join(t, "Oh")
	b1 := a.book(t, "JPA1 BOOK", 10000, 100)
	b2 := a.book(t, "JPA2 BOOK", 20000, 100)

	orderID, err := a.orders.Order(ctx, oh, []OrderLine{{b1.ID, 1}, {b2.ID, 1}}, "")
	require.NoError(t, err)
	assert.Equal(t, 99, a.stock(t, b1.ID))
	assert.Equal(t, 99, a.stock(t, b2.ID))

	aggs, err := a.queries.OrdersJoined(ctx, domain.OrderSearch{})
	require.NoError(t, err)
	require.Len(t, aggs, 1)
	assert.Equal(t, orderID, aggs[0].OrderID)
	assert.Equal(t, "Oh", aggs[0].MemberName)
	assert.Len(t, aggs[0].Items, 2)
	assert.Equal(t, b1.Price*1+b2.Price*1, aggs[0].TotalPrice())

	require.NoError(t, a.orders.CancelOrder(ctx, orderID))
	assert.Equal(t, 100, a.stock(t, b1.ID))
	assert.Equal(t, 100, a.stock(t, b2.ID))

	list, err := a.orders.FindOrders(ctx, domain.OrderSearch{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.StatusCancelled, list[0].Status)

	history, err := a.orders.History(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.StatusOrdered, history[0].Status)
	assert.Equal(t, domain.StatusCancelled, history[1].Status)

	err = a.orders.CancelOrder(ctx, orderID)
	assert.ErrorIs(t, err, domain.ErrInvalidCancellation)
	assert.Equal(t, 100, a.stock(t, b1.ID))

	_, err = a.orders.History(ctx, orderID+100)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOrderNotEnoughStockRollsBack(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	oh := a.join(t, "Oh")
	b1 := a.book(t, "JPA1 BOOK", 10000, 10)
	b2 := a.book(t, "JPA2 BOOK", 20000, 10)

	_, err := a.orders.Order(ctx, oh, []OrderLine{{b1.ID, 3}, {b2.ID, 11}}, "")
	assert.ErrorIs(t, err, domain.ErrNotEnoughStock)
	assert.Equal(t, 10, a.stock(t, b1.ID))
	assert.Equal(t, 10, a.stock(t, b2.ID))

	// the same item on two lines draws from one stock
	_, err = a.orders.Order(ctx, oh, []OrderLine{{b1.ID, 6}, {b1.ID, 6}}, "")
	assert.ErrorIs(t, err, domain.ErrNotEnoughStock)
	assert.Equal(t, 10, a.stock(t, b1.ID))

	orders, err := a.orders.FindOrders(ctx, domain.OrderSearch{})
	require.NoError(t, err)
	assert.Empty(t, orders)

	_, err = a.orders.Order(ctx, oh, []OrderLine{{b1.ID, 3}}, "")
	require.NoError(t, err)
	assert.Equal(t, 7, a.stock(t, b1.ID))
}

func TestOrderRejectsBadInput(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	oh := a.join(t, "Oh")
	b1 := a.book(t, "JPA1 BOOK", 10000, 10)

	_, err := a.orders.Order(ctx, oh, nil, "")
	assert.ErrorIs(t, err, domain.ErrIncompleteOrder)
	_, err = a.orders.Order(ctx, oh, []OrderLine{{b1.ID, 0}}, "")
	assert.ErrorIs(t, err, domain.ErrInvalidCount)
	_, err = a.orders.Order(ctx, 999, []OrderLine{{b1.ID, 1}}, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = a.orders.Order(ctx, oh, []OrderLine{{999, 1}}, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, a.orders.CancelOrder(ctx, 999), domain.ErrNotFound)
}

func TestCancelCompletedDelivery(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	oh := a.join(t, "Oh")
	b1 := a.book(t, "JPA1 BOOK", 10000, 10)

	orderID, err := a.orders.Order(ctx, oh, []OrderLine{{b1.ID, 2}}, "")
	require.NoError(t, err)

	uow := gormstore.NewTransactor(a.store.DB())
	require.NoError(t, uow.Within(ctx, func(ctx context.Context) error {
		return gormstore.NewOrderRepo().SetDeliveryStatus(ctx, orderID, domain.DeliveryCompleted)
	}))

	err = a.orders.CancelOrder(ctx, orderID)
	assert.ErrorIs(t, err, domain.ErrInvalidCancellation)
	assert.Equal(t, 8, a.stock(t, b1.ID))

	list, err := a.orders.FindOrders(ctx, domain.OrderSearch{Status: domain.StatusOrdered})
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestOrderIdempotencyKey(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	oh := a.join(t, "Oh")
	b1 := a.book(t, "JPA1 BOOK", 10000, 10)

	first, err := a.orders.Order(ctx, oh, []OrderLine{{b1.ID, 1}}, "key-1")
	require.NoError(t, err)
	again, err := a.orders.Order(ctx, oh, []OrderLine{{b1.ID, 1}}, "key-1")
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.Equal(t, 9, a.stock(t, b1.ID))

	other, err := a.orders.Order(ctx, oh, []OrderLine{{b1.ID, 1}}, "key-2")
	require.NoError(t, err)
	assert.NotEqual(t, first, other)

	history, err := a.orders.History(ctx, first)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "idempotency_key=key-1", history[0].Note)

	// an unreachable cache degrades to a normal placement
	a.idem.failGet = true
	third, err := a.orders.Order(ctx, oh, []OrderLine{{b1.ID, 1}}, "key-1")
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
}

func TestMemberService(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	id := a.join(t, "Oh")

	_, err := a.members.Join(ctx, "Oh", domain.Address{})
	assert.ErrorIs(t, err, domain.ErrDuplicateMember)
	_, err = a.members.Join(ctx, "", domain.Address{})
	assert.ErrorIs(t, err, domain.ErrInvalidMember)

	a.join(t, "Eom")
	_, err = a.members.UpdateName(ctx, id, "Eom")
	assert.ErrorIs(t, err, domain.ErrDuplicateMember)

	m, err := a.members.UpdateName(ctx, id, "Oh Jr")
	require.NoError(t, err)
	assert.Equal(t, "Oh Jr", m.Name)

	all, err := a.members.Members(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Oh Jr", all[0].Name)
	assert.Equal(t, "Seoul", all[0].Address.City)

	_, err = a.members.Member(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemService(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	b := a.book(t, "JPA", 10000, 10)

	updated, err := a.items.UpdateItem(ctx, b.ID, "JPA 2nd", 12000, 20)
	require.NoError(t, err)
	assert.Equal(t, "JPA 2nd", updated.Name)
	assert.Equal(t, "Kim", updated.Book.Author)

	_, err = a.items.UpdateItem(ctx, b.ID, "", 1, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidItem)

	err = a.items.SaveItem(ctx, &domain.Item{Kind: domain.KindMovie, Name: "no details"})
	assert.ErrorIs(t, err, domain.ErrInvalidItem)

	c, err := a.items.Categorize(ctx, b.ID, "java", "books")
	require.NoError(t, err)
	require.NotNil(t, c.ParentID)

	cats, err := a.items.Categories(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "java", cats[0].Name)

	_, err = a.items.Categorize(ctx, 999, "java", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	items, err := a.items.Items(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestOrderQueryStrategiesAgree(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	oh := a.join(t, "Oh")
	eom := a.join(t, "Eom")
	b1 := a.book(t, "JPA1 BOOK", 10000, 100)
	b2 := a.book(t, "JPA2 BOOK", 20000, 100)
	s1 := a.book(t, "SPRING1 BOOK", 20000, 200)

	for _, o := range []struct {
		member int64
		lines  []OrderLine
	}{
		{oh, []OrderLine{{b1.ID, 1}, {b2.ID, 2}}},
		{eom, []OrderLine{{s1.ID, 3}, {b1.ID, 4}}},
		{oh, []OrderLine{{b2.ID, 1}}},
	} {
		_, err := a.orders.Order(ctx, o.member, o.lines, "")
		require.NoError(t, err)
	}

	search := domain.OrderSearch{}
	joined, err := a.queries.OrdersJoined(ctx, search)
	require.NoError(t, err)
	require.Len(t, joined, 3)

	paged, err := a.queries.OrdersPaged(ctx, search, domain.Page{Limit: 100})
	require.NoError(t, err)
	perOrder, err := a.queries.OrdersPerOrder(ctx, search)
	require.NoError(t, err)
	batched, err := a.queries.OrdersBatched(ctx, search, domain.Page{})
	require.NoError(t, err)
	flat, err := a.queries.OrdersFlat(ctx, search)
	require.NoError(t, err)

	for _, other := range [][]any{{"paged", paged}, {"per order", perOrder}, {"batched", batched}, {"flat", flat}} {
		assert.Equal(t, joined, other[1], other[0])
	}

	simple, err := a.queries.SimpleOrdersJoined(ctx, domain.OrderSearch{MemberName: "Oh"})
	require.NoError(t, err)
	projected, err := a.queries.SimpleOrdersProjected(ctx, domain.OrderSearch{MemberName: "Oh"})
	require.NoError(t, err)
	require.Len(t, simple, 2)
	assert.Equal(t, simple, projected)

	_, err = a.queries.OrdersBatched(ctx, search, domain.Page{Offset: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidSearch)
}
