package gormstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/shop-orders/internal/shop-service/domain"
)

type fixture struct {
	store   *Store
	uow     *Transactor
	members *MemberRepo
	items   *ItemRepo
	orders  *OrderRepo
	loader  *OrderLoader
}

func openTestDB(t *testing.T) *fixture {
	t.Helper()
	store, err := Open(Config{
		Driver:   DriverSQLite,
		DSN:      filepath.Join(t.TempDir(), "shop.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return &fixture{
		store:   store,
		uow:     NewTransactor(store.DB()),
		members: NewMemberRepo(),
		items:   NewItemRepo(),
		orders:  NewOrderRepo(),
		loader:  NewOrderLoader(),
	}
}

func (f *fixture) within(t *testing.T, fn func(ctx context.Context)) {
	t.Helper()
	require.NoError(t, f.uow.Within(context.Background(), func(ctx context.Context) error {
		fn(ctx)
		return nil
	}))
}

func (f *fixture) addMember(t *testing.T, name, city string) *domain.Member {
	t.Helper()
	m, err := domain.NewMember(name, domain.Address{City: city, Street: "street " + name, Zipcode: "1111"})
	require.NoError(t, err)
	f.within(t, func(ctx context.Context) {
		require.NoError(t, f.members.Save(ctx, m))
	})
	return m
}

func (f *fixture) addBook(t *testing.T, name string, price, stock int) *domain.Item {
	t.Helper()
	b := domain.NewBook(name, price, stock, domain.BookDetails{Author: "author", ISBN: "isbn-" + name})
	f.within(t, func(ctx context.Context) {
		require.NoError(t, f.items.Save(ctx, b))
	})
	return b
}

type line struct {
	item  *domain.Item
	count int
}

// placeOrder mirrors what the order service does: the item rows are
// decremented in the same transaction as the order insert.
func (f *fixture) placeOrder(t *testing.T, m *domain.Member, lines ...line) *domain.Order {
	t.Helper()
	var o *domain.Order
	f.within(t, func(ctx context.Context) {
		var ois []*domain.OrderItem
		for _, l := range lines {
			oi, err := domain.NewOrderItem(l.item, l.item.Price, l.count)
			require.NoError(t, err)
			require.NoError(t, f.items.AdjustStock(ctx, l.item.ID, -l.count))
			ois = append(ois, oi)
		}
		var err error
		o, err = domain.NewOrder(m, domain.NewDelivery(m.Address), ois...)
		require.NoError(t, err)
		require.NoError(t, f.orders.Save(ctx, o))
	})
	return o
}

// seedOrders creates five orders for three members; every order has two or
// three items, two books are shared by several orders.
func (f *fixture) seedOrders(t *testing.T) []*domain.Order {
	t.Helper()
	oh := f.addMember(t, "Oh", "Seoul")
	eom := f.addMember(t, "Eom", "Busan")
	kim := f.addMember(t, "Kim", "Incheon")

	jpa1 := f.addBook(t, "JPA1 BOOK", 10000, 100)
	jpa2 := f.addBook(t, "JPA2 BOOK", 20000, 100)
	spring1 := f.addBook(t, "SPRING1 BOOK", 20000, 200)
	spring2 := f.addBook(t, "SPRING2 BOOK", 40000, 300)

	return []*domain.Order{
		f.placeOrder(t, oh, line{jpa1, 1}, line{jpa2, 2}),
		f.placeOrder(t, eom, line{spring1, 3}, line{spring2, 4}, line{jpa1, 1}),
		f.placeOrder(t, kim, line{jpa2, 1}, line{spring1, 1}),
		f.placeOrder(t, oh, line{spring2, 2}, line{jpa1, 5}),
		f.placeOrder(t, eom, line{jpa1, 2}, line{jpa2, 2}, line{spring2, 1}),
	}
}
