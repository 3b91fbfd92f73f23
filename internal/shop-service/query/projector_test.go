package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/shop-orders/internal/shop-service/domain"
)

func sampleOrder() *domain.Order {
	addr := domain.Address{City: "Seoul", Street: "yeonhee-ro", Zipcode: "03171"}
	return &domain.Order{
		ID:        7,
		Member:    &domain.Member{ID: 1, Name: "Oh", Address: addr},
		Delivery:  &domain.Delivery{ID: 3, Address: addr, Status: domain.DeliveryReady},
		OrderDate: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Status:    domain.StatusOrdered,
		Items: []*domain.OrderItem{
			{ID: 11, Item: &domain.Item{Name: "JPA Part1"}, OrderPrice: 10000, Count: 1},
			{ID: 12, Item: &domain.Item{Name: "JPA Part2"}, OrderPrice: 20000, Count: 2},
		},
		ItemsLoaded: true,
	}
}

func TestProjectOrder(t *testing.T) {
	got, err := ProjectOrder(sampleOrder())
	require.NoError(t, err)

	assert.Equal(t, int64(7), got.OrderID)
	assert.Equal(t, "Oh", got.MemberName)
	assert.Equal(t, Address{City: "Seoul", Street: "yeonhee-ro", Zipcode: "03171"}, got.Address)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "JPA Part1", got.Items[0].ItemName)
	assert.Equal(t, "JPA Part2", got.Items[1].ItemName)
	assert.Equal(t, 50000, got.TotalPrice())
}

func TestProjectRejectsUnfetchedAssociations(t *testing.T) {
	o := sampleOrder()
	o.ItemsLoaded = false
	_, err := ProjectOrder(o)
	assert.ErrorIs(t, err, domain.ErrNotResident)

	// to-one projection does not care about items
	_, err = ProjectSimple(o)
	assert.NoError(t, err)

	o = sampleOrder()
	o.Member = nil
	_, err = ProjectSimple(o)
	assert.ErrorIs(t, err, domain.ErrNotResident)

	o = sampleOrder()
	o.Items[1].Item = nil
	_, err = ProjectOrder(o)
	assert.ErrorIs(t, err, domain.ErrNotResident)

	_, err = ProjectOrders([]*domain.Order{sampleOrder(), o})
	assert.ErrorIs(t, err, domain.ErrNotResident)
}

func TestGroupFlatKeepsRowOrder(t *testing.T) {
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	rows := []FlatRow{
		{OrderID: 2, MemberName: "Eom", OrderDate: day, Status: domain.StatusOrdered, City: "Busan", ItemName: "Dune", OrderPrice: 20000, Count: 3},
		{OrderID: 1, MemberName: "Oh", OrderDate: day, Status: domain.StatusOrdered, City: "Seoul", ItemName: "LOTR", OrderPrice: 10000, Count: 1},
		{OrderID: 2, MemberName: "Eom", OrderDate: day, Status: domain.StatusOrdered, City: "Busan", ItemName: "Hunger Games", OrderPrice: 40000, Count: 4},
		{OrderID: 1, MemberName: "Oh", OrderDate: day, Status: domain.StatusOrdered, City: "Seoul", ItemName: "Silmarillion", OrderPrice: 20000, Count: 1},
	}

	got := GroupFlat(rows)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].OrderID)
	assert.Equal(t, "Busan", got[0].Address.City)
	assert.Equal(t, []string{"Dune", "Hunger Games"}, itemNames(got[0]))
	assert.Equal(t, int64(1), got[1].OrderID)
	assert.Equal(t, []string{"LOTR", "Silmarillion"}, itemNames(got[1]))
	assert.Equal(t, 30000, got[1].TotalPrice())

	assert.Empty(t, GroupFlat(nil))
}

func itemNames(a OrderAggregate) []string {
	names := make([]string, 0, len(a.Items))
	for _, it := range a.Items {
		names = append(names, it.ItemName)
	}
	return names
}
