package seed

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/shop-orders/internal/shop-service/adapters/gormstore"
	"github.com/jcmexdev/shop-orders/internal/shop-service/app"
	"github.com/jcmexdev/shop-orders/internal/shop-service/domain"
)

func TestLoadIsIdempotent(t *testing.T) {
	store, err := gormstore.Open(gormstore.Config{DSN: filepath.Join(t.TempDir(), "shop.db"), LogLevel: "silent"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	uow := gormstore.NewTransactor(store.DB())
	loader := gormstore.NewOrderLoader()
	members := app.NewMemberService(uow, gormstore.NewMemberRepo())
	items := app.NewItemService(uow, gormstore.NewItemRepo(), gormstore.NewCategoryRepo())
	orders := app.NewOrderService(app.OrderServiceDeps{
		UoW:     uow,
		Members: gormstore.NewMemberRepo(),
		Items:   gormstore.NewItemRepo(),
		Orders:  gormstore.NewOrderRepo(),
		Loader:  loader,
	})
	queries := app.NewOrderQueryService(uow, loader)

	ctx := context.Background()
	require.NoError(t, Load(ctx, members, items, orders))
	require.NoError(t, Load(ctx, members, items, orders))

	all, err := queries.OrdersJoined(ctx, domain.OrderSearch{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Oh", all[0].MemberName)
	assert.Equal(t, 30000, all[0].TotalPrice())
	assert.Equal(t, "Eom", all[1].MemberName)
	assert.Equal(t, 3*20000+4*40000, all[1].TotalPrice())

	stock, err := items.Items(ctx)
	require.NoError(t, err)
	require.Len(t, stock, 4)
	assert.Equal(t, 99, stock[0].StockQuantity)
	assert.Equal(t, 296, stock[3].StockQuantity)
}
