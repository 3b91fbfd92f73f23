package orderlog

import "context"

// Repository persists order log entries. Save must run inside the unit of
// work of the transition it records so both commit or roll back together.
type Repository interface {
	Save(ctx context.Context, entry *Entry) error
	FindByOrder(ctx context.Context, orderID int64) ([]*Entry, error)
}
