package gormstore

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jcmexdev/shop-orders/internal/shop-service/domain"
	"github.com/jcmexdev/shop-orders/internal/shop-service/orderlog"
	"github.com/jcmexdev/shop-orders/internal/shop-service/ports"
)

var (
	_ ports.OrderRepository = (*OrderRepo)(nil)
	_ orderlog.Repository   = (*OrderLogRepo)(nil)
)

type OrderRepo struct{}

func NewOrderRepo() *OrderRepo { return &OrderRepo{} }

// Save inserts delivery, order and order items in that order. Associations
// are written explicitly; nothing cascades.
func (r *OrderRepo) Save(ctx context.Context, o *domain.Order) error {
	tx, err := conn(ctx, "save order")
	if err != nil {
		return err
	}
	if o.Member == nil || o.Delivery == nil || len(o.Items) == 0 {
		return domain.ErrIncompleteOrder
	}

	del := deliveryFromDomain(o.Delivery)
	if err := tx.Create(&del).Error; err != nil {
		return domain.NewStorageError("save delivery", err)
	}
	o.Delivery.ID = del.ID

	rec := orderRecord{
		MemberID:   o.Member.ID,
		DeliveryID: del.ID,
		OrderDate:  o.OrderDate,
		Status:     string(o.Status),
	}
	if err := tx.Omit(clause.Associations).Create(&rec).Error; err != nil {
		return domain.NewStorageError("save order", err)
	}
	o.ID = rec.ID

	items := make([]*orderItemRecord, 0, len(o.Items))
	for _, oi := range o.Items {
		items = append(items, &orderItemRecord{
			OrderID:    rec.ID,
			ItemID:     oi.Item.ID,
			OrderPrice: oi.OrderPrice,
			Count:      oi.Count,
		})
	}
	if err := tx.Omit(clause.Associations).Create(&items).Error; err != nil {
		return domain.NewStorageError("save order items", err)
	}
	for i, oi := range o.Items {
		oi.ID = items[i].ID
	}
	return nil
}

// FindOne loads the order with member and delivery joined, and its items
// with their Item rows preloaded (two extra IN queries).
func (r *OrderRepo) FindOne(ctx context.Context, id int64) (*domain.Order, error) {
	tx, err := conn(ctx, "find order")
	if err != nil {
		return nil, err
	}
	var rec orderRecord
	err = tx.InnerJoins("Member").
		InnerJoins("Delivery").
		Preload("OrderItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_items.order_item_id")
		}).
		Preload("OrderItems.Item").
		Where("orders.order_id = ?", id).
		Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.NewStorageError("find order", err)
	}
	return orderToDomain(&rec, true), nil
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, o *domain.Order) error {
	tx, err := conn(ctx, "update order status")
	if err != nil {
		return err
	}
	res := tx.Model(&orderRecord{}).Where("order_id = ?", o.ID).Update("status", string(o.Status))
	if res.Error != nil {
		return domain.NewStorageError("update order status", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetDeliveryStatus is used by fulfilment tooling and tests to move a
// delivery forward.
func (r *OrderRepo) SetDeliveryStatus(ctx context.Context, orderID int64, status domain.DeliveryStatus) error {
	tx, err := conn(ctx, "update delivery status")
	if err != nil {
		return err
	}
	res := tx.Model(&deliveryRecord{}).
		Where("delivery_id = (?)", tx.Model(&orderRecord{}).Select("delivery_id").Where("order_id = ?", orderID)).
		Update("status", string(status))
	if res.Error != nil {
		return domain.NewStorageError("update delivery status", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type OrderLogRepo struct{}

func NewOrderLogRepo() *OrderLogRepo { return &OrderLogRepo{} }

func (r *OrderLogRepo) Save(ctx context.Context, entry *orderlog.Entry) error {
	tx, err := conn(ctx, "save order log")
	if err != nil {
		return err
	}
	rec := orderLogRecord{
		EntryID:   entry.EntryID,
		OrderID:   entry.OrderID,
		Status:    string(entry.Status),
		Note:      entry.Note,
		TraceID:   entry.TraceID,
		SpanID:    entry.SpanID,
		CreatedAt: entry.CreatedAt,
	}
	if err := tx.Create(&rec).Error; err != nil {
		return domain.NewStorageError("save order log", err)
	}
	return nil
}

// FindByOrder returns the entries of one order, oldest first.
func (r *OrderLogRepo) FindByOrder(ctx context.Context, orderID int64) ([]*orderlog.Entry, error) {
	tx, err := conn(ctx, "list order log")
	if err != nil {
		return nil, err
	}
	var recs []*orderLogRecord
	if err := tx.Where("order_id = ?", orderID).Order("created_at, entry_id").Find(&recs).Error; err != nil {
		return nil, domain.NewStorageError("list order log", err)
	}
	out := make([]*orderlog.Entry, 0, len(recs))
	for _, rec := range recs {
		out = append(out, orderLogToDomain(rec))
	}
	return out, nil
}
