package domain

type OrderItem struct {
	ID         int64
	Item       *Item
	OrderPrice int
	Count      int
}

// NewOrderItem captures the price at order time and removes count units from
// item's stock. On failure the item is left unchanged.
func NewOrderItem(item *Item, orderPrice, count int) (*OrderItem, error) {
	if item == nil {
		return nil, ErrNotFound
	}
	if count <= 0 {
		return nil, ErrInvalidCount
	}
	if err := item.RemoveStock(count); err != nil {
		return nil, err
	}
	return &OrderItem{
		Item:       item,
		OrderPrice: orderPrice,
		Count:      count,
	}, nil
}

func (i *OrderItem) Cancel() {
	i.Item.AddStock(i.Count)
}

func (i *OrderItem) TotalPrice() int {
	return i.OrderPrice * i.Count
}
