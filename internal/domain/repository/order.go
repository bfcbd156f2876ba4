package repository

import (
	"context"

	"github.com/petkovbg/shipgate/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	// Upsert inserts the order keyed on its source order id, or returns the
	// existing row untouched. The second return value reports whether a new
	// row was created.
	Upsert(ctx context.Context, order model.Order) (*model.Order, bool, error)
	GetBySourceID(ctx context.Context, sourceOrderID int64) (*model.Order, error)
	GetByID(ctx context.Context, orderID int64) (*model.Order, error)
}
