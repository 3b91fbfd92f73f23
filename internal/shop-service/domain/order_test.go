package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMember(t *testing.T) *Member {
	t.Helper()
	m, err := NewMember("Oh", Address{City: "Seoul", Street: "yeonhee-ro", Zipcode: "03171"})
	require.NoError(t, err)
	return m
}

func TestNewOrderItemRemovesStock(t *testing.T) {
	book := NewBook("JPA", 10000, 10, BookDetails{Author: "Kim"})

	oi, err := NewOrderItem(book, book.Price, 3)
	require.NoError(t, err)
	assert.Equal(t, 7, book.StockQuantity)
	assert.Equal(t, 30000, oi.TotalPrice())

	_, err = NewOrderItem(book, book.Price, 11)
	assert.ErrorIs(t, err, ErrNotEnoughStock)
	assert.Equal(t, 7, book.StockQuantity)

	_, err = NewOrderItem(book, book.Price, 0)
	assert.ErrorIs(t, err, ErrInvalidCount)
}

func TestNewOrder(t *testing.T) {
	m := newTestMember(t)
	b1 := NewBook("JPA Part1", 10000, 5, BookDetails{})
	b2 := NewBook("JPA Part2", 20000, 5, BookDetails{})
	oi1, err := NewOrderItem(b1, b1.Price, 1)
	require.NoError(t, err)
	oi2, err := NewOrderItem(b2, b2.Price, 1)
	require.NoError(t, err)

	o, err := NewOrder(m, NewDelivery(m.Address), oi1, oi2)
	require.NoError(t, err)
	assert.Equal(t, StatusOrdered, o.Status)
	assert.Equal(t, 30000, o.TotalPrice())
	assert.Equal(t, DeliveryReady, o.Delivery.Status)
	assert.True(t, o.ItemsLoaded)

	_, err = NewOrder(m, NewDelivery(m.Address))
	assert.ErrorIs(t, err, ErrIncompleteOrder)
	_, err = NewOrder(nil, NewDelivery(m.Address), oi1)
	assert.ErrorIs(t, err, ErrIncompleteOrder)
}

func TestOrderCancel(t *testing.T) {
	tests := []struct {
		name      string
		delivery  DeliveryStatus
		status    OrderStatus
		wantErr   error
		wantStock int
		want      OrderStatus
	}{
		{name: "ready delivery", delivery: DeliveryReady, status: StatusOrdered, wantStock: 10, want: StatusCancelled},
		{name: "completed delivery", delivery: DeliveryCompleted, status: StatusOrdered, wantErr: ErrInvalidCancellation, wantStock: 8, want: StatusOrdered},
		{name: "already cancelled", delivery: DeliveryReady, status: StatusCancelled, wantErr: ErrInvalidCancellation, wantStock: 8, want: StatusCancelled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMember(t)
			book := NewBook("JPA", 10000, 10, BookDetails{})
			oi, err := NewOrderItem(book, book.Price, 2)
			require.NoError(t, err)
			o, err := NewOrder(m, NewDelivery(m.Address), oi)
			require.NoError(t, err)
			o.Delivery.Status = tt.delivery
			o.Status = tt.status

			err = o.Cancel()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantStock, book.StockQuantity)
			assert.Equal(t, tt.want, o.Status)
		})
	}
}

func TestOrderCancelNeedsResidentItems(t *testing.T) {
	o := &Order{Status: StatusOrdered, Delivery: &Delivery{Status: DeliveryReady}}
	assert.ErrorIs(t, o.Cancel(), ErrNotResident)
	assert.Equal(t, StatusOrdered, o.Status)
}

func TestStorageErrorMatchesBoth(t *testing.T) {
	cause := errors.New("disk on fire")
	err := NewStorageError("load orders", cause)
	assert.ErrorIs(t, err, ErrStorageAccess)
	assert.ErrorIs(t, err, cause)
	assert.Same(t, err, NewStorageError("outer", err))
	assert.NoError(t, NewStorageError("noop", nil))
}

func TestItemValidate(t *testing.T) {
	assert.NoError(t, NewMovie("Dune", 1000, 1, MovieDetails{Director: "Villeneuve"}).Validate())
	assert.ErrorIs(t, (&Item{Kind: KindAlbum, Name: "x"}).Validate(), ErrInvalidItem)
	assert.ErrorIs(t, (&Item{Kind: "Z", Name: "x"}).Validate(), ErrInvalidItem)
	assert.ErrorIs(t, NewBook("", 1, 1, BookDetails{}).Validate(), ErrInvalidItem)
}

func TestSearchAndPageValidate(t *testing.T) {
	assert.NoError(t, OrderSearch{}.Validate())
	assert.ErrorIs(t, OrderSearch{Status: "SHIPPED"}.Validate(), ErrInvalidSearch)
	assert.NoError(t, Page{Offset: 0, Limit: 2}.Validate())
	assert.ErrorIs(t, Page{Offset: -1, Limit: 2}.Validate(), ErrInvalidSearch)
	assert.ErrorIs(t, Page{Offset: 3}.Validate(), ErrInvalidSearch)

	st, err := ParseOrderStatus("CANCELLED")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, st)
	_, err = ParseOrderStatus("cancel")
	assert.ErrorIs(t, err, ErrInvalidSearch)
}
