package domain

import "time"

type OrderStatus string

const (
	StatusOrdered   OrderStatus = "ORDERED"
	StatusCancelled OrderStatus = "CANCELLED"
)

func (s OrderStatus) Valid() bool {
	return s == StatusOrdered || s == StatusCancelled
}

// ParseOrderStatus accepts the empty string as "no status filter".
func ParseOrderStatus(s string) (OrderStatus, error) {
	if s == "" {
		return "", nil
	}
	st := OrderStatus(s)
	if !st.Valid() {
		return "", ErrInvalidSearch
	}
	return st, nil
}

// Order is the aggregate root. Member and Delivery are nil until a loader
// fetched them; Items is only meaningful when ItemsLoaded is true.
type Order struct {
	ID        int64
	Member    *Member
	Delivery  *Delivery
	Items     []*OrderItem
	OrderDate time.Time
	Status    OrderStatus

	ItemsLoaded bool
}

// NewOrder links an already created delivery and order items to member and
// marks the order as ORDERED. It never touches member.
func NewOrder(member *Member, delivery *Delivery, items ...*OrderItem) (*Order, error) {
	if member == nil || delivery == nil {
		return nil, ErrIncompleteOrder
	}
	if len(items) == 0 {
		return nil, ErrIncompleteOrder
	}
	return &Order{
		Member:      member,
		Delivery:    delivery,
		Items:       items,
		OrderDate:   time.Now().UTC(),
		Status:      StatusOrdered,
		ItemsLoaded: true,
	}, nil
}

// Cancel flips the order to CANCELLED and restores stock of every contained
// item. A completed delivery or an already cancelled order rejects the
// transition and leaves every field untouched.
func (o *Order) Cancel() error {
	if o.Delivery == nil || !o.ItemsLoaded {
		return ErrNotResident
	}
	if o.Delivery.Status == DeliveryCompleted {
		return ErrInvalidCancellation
	}
	if o.Status != StatusOrdered {
		return ErrInvalidCancellation
	}
	for _, oi := range o.Items {
		if oi.Item == nil {
			return ErrNotResident
		}
	}
	for _, oi := range o.Items {
		oi.Cancel()
	}
	o.Status = StatusCancelled
	return nil
}

func (o *Order) TotalPrice() int {
	total := 0
	for _, oi := range o.Items {
		total += oi.TotalPrice()
	}
	return total
}
