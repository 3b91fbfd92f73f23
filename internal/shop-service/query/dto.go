// Package query holds the response-safe shapes produced from loaded order
// aggregates. Nothing here keeps a reference to a domain entity, so a value
// stays readable after the unit of work that produced it has closed.
package query

import (
	"time"

	"github.com/jcmexdev/shop-orders/internal/shop-service/domain"
)

type Address struct {
	City    string
	Street  string
	Zipcode string
}

// SimpleOrder is the to-one projection: no order items.
type SimpleOrder struct {
	OrderID    int64
	MemberName string
	OrderDate  time.Time
	Status     domain.OrderStatus
	Address    Address
}

// OrderItemLine is one order item as shown to clients.
type OrderItemLine struct {
	OrderID    int64
	ItemName   string
	OrderPrice int
	Count      int
}

// OrderAggregate is the full projection of an order and its items.
type OrderAggregate struct {
	OrderID    int64
	MemberName string
	OrderDate  time.Time
	Status     domain.OrderStatus
	Address    Address
	Items      []OrderItemLine
}

func (a OrderAggregate) TotalPrice() int {
	total := 0
	for _, it := range a.Items {
		total += it.OrderPrice * it.Count
	}
	return total
}

// FlatRow is one row of the fully joined order/member/delivery/item query:
// one row per order item, to-one columns repeated.
type FlatRow struct {
	OrderID    int64
	MemberName string
	OrderDate  time.Time
	Status     domain.OrderStatus
	City       string
	Street     string
	Zipcode    string
	ItemName   string
	OrderPrice int
	Count      int
}
