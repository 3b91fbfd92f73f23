package query

import (
	"fmt"

	"github.com/jcmexdev/shop-orders/internal/shop-service/domain"
)

// ProjectSimple reads only the to-one associations of o.
func ProjectSimple(o *domain.Order) (SimpleOrder, error) {
	if o == nil {
		return SimpleOrder{}, domain.ErrNotFound
	}
	if o.Member == nil || o.Delivery == nil {
		return SimpleOrder{}, fmt.Errorf("project order %d: member/delivery: %w", o.ID, domain.ErrNotResident)
	}
	return SimpleOrder{
		OrderID:    o.ID,
		MemberName: o.Member.Name,
		OrderDate:  o.OrderDate,
		Status:     o.Status,
		Address:    addressOf(o.Delivery.Address),
	}, nil
}

// ProjectOrder needs o loaded with its items and each item's Item row.
func ProjectOrder(o *domain.Order) (OrderAggregate, error) {
	simple, err := ProjectSimple(o)
	if err != nil {
		return OrderAggregate{}, err
	}
	if !o.ItemsLoaded {
		return OrderAggregate{}, fmt.Errorf("project order %d: order items: %w", o.ID, domain.ErrNotResident)
	}

	lines := make([]OrderItemLine, 0, len(o.Items))
	for _, oi := range o.Items {
		if oi.Item == nil {
			return OrderAggregate{}, fmt.Errorf("project order %d: item of order item %d: %w", o.ID, oi.ID, domain.ErrNotResident)
		}
		lines = append(lines, OrderItemLine{
			OrderID:    o.ID,
			ItemName:   oi.Item.Name,
			OrderPrice: oi.OrderPrice,
			Count:      oi.Count,
		})
	}

	return OrderAggregate{
		OrderID:    simple.OrderID,
		MemberName: simple.MemberName,
		OrderDate:  simple.OrderDate,
		Status:     simple.Status,
		Address:    simple.Address,
		Items:      lines,
	}, nil
}

func ProjectSimpleOrders(orders []*domain.Order) ([]SimpleOrder, error) {
	out := make([]SimpleOrder, 0, len(orders))
	for _, o := range orders {
		v, err := ProjectSimple(o)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func ProjectOrders(orders []*domain.Order) ([]OrderAggregate, error) {
	out := make([]OrderAggregate, 0, len(orders))
	for _, o := range orders {
		v, err := ProjectOrder(o)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// GroupFlat regroups flat rows by order. Orders keep the position of their
// first row and items keep row order.
func GroupFlat(rows []FlatRow) []OrderAggregate {
	out := make([]OrderAggregate, 0)
	index := make(map[int64]int)

	for _, r := range rows {
		i, ok := index[r.OrderID]
		if !ok {
			i = len(out)
			index[r.OrderID] = i
			out = append(out, OrderAggregate{
				OrderID:    r.OrderID,
				MemberName: r.MemberName,
				OrderDate:  r.OrderDate,
				Status:     r.Status,
				Address:    Address{City: r.City, Street: r.Street, Zipcode: r.Zipcode},
			})
		}
		out[i].Items = append(out[i].Items, OrderItemLine{
			OrderID:    r.OrderID,
			ItemName:   r.ItemName,
			OrderPrice: r.OrderPrice,
			Count:      r.Count,
		})
	}
	return out
}

func addressOf(a domain.Address) Address {
	return Address{City: a.City, Street: a.Street, Zipcode: a.Zipcode}
}
