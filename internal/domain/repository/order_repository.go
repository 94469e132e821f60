package repository

import (
	"context"

	"github.com/mercatohq/mercato/internal/domain/entity"
)

// OrderFilter narrows order listings.
type OrderFilter struct {
	UserID        string
	Status        string
	PaymentStatus string
	Sort          string
	Order         string
	Page          int
	Limit         int
}

// OrderRepository persists orders. Create runs a single transaction that
// decrements each product's stock with a guarded update and inserts the
// order with its item snapshots; any failure rolls back every decrement.
type OrderRepository interface {
	Create(ctx context.Context, o *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	List(ctx context.Context, f OrderFilter) ([]entity.Order, int64, error)
	UpdateStatus(ctx context.Context, id, status, trackingNumber string) (*entity.Order, error)
}
