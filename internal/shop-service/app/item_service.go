package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jcmexdev/shop-orders/internal/shop-service/domain"
	"github.com/jcmexdev/shop-orders/internal/shop-service/ports"
)

type ItemService struct {
	uow        ports.UnitOfWork
	items      ports.ItemRepository
	categories ports.CategoryRepository
}

func NewItemService(uow ports.UnitOfWork, items ports.ItemRepository, categories ports.CategoryRepository) *ItemService {
	return &ItemService{uow: uow, items: items, categories: categories}
}

// SaveItem inserts item, or overwrites the stored row when item has an id.
func (s *ItemService) SaveItem(ctx context.Context, item *domain.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}
	err := s.uow.Within(ctx, func(ctx context.Context) error {
		return s.items.Save(ctx, item)
	})
	if err != nil {
		return fmt.Errorf("app: save item: %w", err)
	}
	slog.InfoContext(ctx, "item saved", "item_id", item.ID, "kind", string(item.Kind))
	return nil
}

// UpdateItem changes the fields shared by every kind and keeps the kind
// specific ones.
func (s *ItemService) UpdateItem(ctx context.Context, id int64, name string, price, stock int) (*domain.Item, error) {
	var item *domain.Item
	err := s.uow.Within(ctx, func(ctx context.Context) error {
		var err error
		item, err = s.items.FindOne(ctx, id)
		if err != nil {
			return err
		}
		if err := item.Change(name, price, stock); err != nil {
			return err
		}
		return s.items.Save(ctx, item)
	})
	if err != nil {
		return nil, fmt.Errorf("app: update item %d: %w", id, err)
	}
	return item, nil
}

func (s *ItemService) Items(ctx context.Context) ([]*domain.Item, error) {
	var out []*domain.Item
	err := s.uow.WithinReadOnly(ctx, func(ctx context.Context) error {
		var err error
		out, err = s.items.FindAll(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("app: list items: %w", err)
	}
	return out, nil
}

func (s *ItemService) Item(ctx context.Context, id int64) (*domain.Item, error) {
	var out *domain.Item
	err := s.uow.WithinReadOnly(ctx, func(ctx context.Context) error {
		var err error
		out, err = s.items.FindOne(ctx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("app: find item %d: %w", id, err)
	}
	return out, nil
}

// Categorize links the item to category, creating the category (and its
// parent, when given) on first use.
func (s *ItemService) Categorize(ctx context.Context, itemID int64, category, parent string) (*domain.Category, error) {
	if category == "" {
		return nil, domain.ErrInvalidItem
	}
	var out *domain.Category
	err := s.uow.Within(ctx, func(ctx context.Context) error {
		if _, err := s.items.FindOne(ctx, itemID); err != nil {
			return err
		}
		var parentID *int64
		if parent != "" {
			p, err := s.categories.FindOrCreate(ctx, parent, nil)
			if err != nil {
				return err
			}
			parentID = &p.ID
		}
		c, err := s.categories.FindOrCreate(ctx, category, parentID)
		if err != nil {
			return err
		}
		out = c
		return s.categories.AddItem(ctx, c.ID, itemID)
	})
	if err != nil {
		return nil, fmt.Errorf("app: categorize item %d: %w", itemID, err)
	}
	return out, nil
}

func (s *ItemService) Categories(ctx context.Context, itemID int64) ([]*domain.Category, error) {
	var out []*domain.Category
	err := s.uow.WithinReadOnly(ctx, func(ctx context.Context) error {
		if _, err := s.items.FindOne(ctx, itemID); err != nil {
			return err
		}
		var err error
		out, err = s.categories.FindByItem(ctx, itemID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("app: item %d categories: %w", itemID, err)
	}
	return out, nil
}
