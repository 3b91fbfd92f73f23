package gormstore

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jcmexdev/shop-orders/internal/shop-service/domain"
	"github.com/jcmexdev/shop-orders/internal/shop-service/ports"
)

var (
	_ ports.ItemRepository     = (*ItemRepo)(nil)
	_ ports.CategoryRepository = (*CategoryRepo)(nil)
)

type ItemRepo struct{}

func NewItemRepo() *ItemRepo { return &ItemRepo{} }

func (r *ItemRepo) Save(ctx context.Context, item *domain.Item) error {
	tx, err := conn(ctx, "save item")
	if err != nil {
		return err
	}
	rec := itemFromDomain(item)
	if rec.ID == 0 {
		err = tx.Create(&rec).Error
	} else {
		// merge: every column is overwritten with the detached value
		err = tx.Save(&rec).Error
	}
	if err != nil {
		return domain.NewStorageError("save item", err)
	}
	item.ID = rec.ID
	return nil
}

func (r *ItemRepo) FindOne(ctx context.Context, id int64) (*domain.Item, error) {
	tx, err := conn(ctx, "find item")
	if err != nil {
		return nil, err
	}
	var rec itemRecord
	if err := tx.First(&rec, "item_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.NewStorageError("find item", err)
	}
	return itemToDomain(&rec), nil
}

func (r *ItemRepo) FindAll(ctx context.Context) ([]*domain.Item, error) {
	tx, err := conn(ctx, "list items")
	if err != nil {
		return nil, err
	}
	var recs []*itemRecord
	if err := tx.Order("item_id").Find(&recs).Error; err != nil {
		return nil, domain.NewStorageError("list items", err)
	}
	out := make([]*domain.Item, 0, len(recs))
	for _, rec := range recs {
		out = append(out, itemToDomain(rec))
	}
	return out, nil
}

// AdjustStock applies delta with a single guarded UPDATE, so concurrent
// orders on the same item serialize in the database and stock never drops
// below zero.
func (r *ItemRepo) AdjustStock(ctx context.Context, id int64, delta int) error {
	tx, err := conn(ctx, "adjust stock")
	if err != nil {
		return err
	}
	res := tx.Model(&itemRecord{}).
		Where("item_id = ? AND stock_quantity + ? >= 0", id, delta).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", delta))
	if res.Error != nil {
		return domain.NewStorageError("adjust stock", res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}

	var n int64
	if err := tx.Model(&itemRecord{}).Where("item_id = ?", id).Count(&n).Error; err != nil {
		return domain.NewStorageError("adjust stock", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return domain.ErrNotEnoughStock
}

type CategoryRepo struct{}

func NewCategoryRepo() *CategoryRepo { return &CategoryRepo{} }

func (r *CategoryRepo) FindOrCreate(ctx context.Context, name string, parentID *int64) (*domain.Category, error) {
	tx, err := conn(ctx, "find or create category")
	if err != nil {
		return nil, err
	}
	rec := categoryRecord{}
	if err := tx.Where(categoryRecord{Name: name}).
		Attrs(categoryRecord{ParentID: parentID}).
		FirstOrCreate(&rec).Error; err != nil {
		return nil, domain.NewStorageError("find or create category", err)
	}
	return categoryToDomain(&rec), nil
}

func (r *CategoryRepo) AddItem(ctx context.Context, categoryID, itemID int64) error {
	tx, err := conn(ctx, "categorize item")
	if err != nil {
		return err
	}
	link := categoryItemRecord{CategoryID: categoryID, ItemID: itemID}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
		return domain.NewStorageError("categorize item", err)
	}
	return nil
}

func (r *CategoryRepo) FindByItem(ctx context.Context, itemID int64) ([]*domain.Category, error) {
	tx, err := conn(ctx, "list item categories")
	if err != nil {
		return nil, err
	}
	var recs []*categoryRecord
	if err := tx.Joins("JOIN category_item ON category_item.category_id = categories.category_id").
		Where("category_item.item_id = ?", itemID).
		Order("categories.name").
		Find(&recs).Error; err != nil {
		return nil, domain.NewStorageError("list item categories", err)
	}
	out := make([]*domain.Category, 0, len(recs))
	for _, rec := range recs {
		out = append(out, categoryToDomain(rec))
	}
	return out, nil
}
