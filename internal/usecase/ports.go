package usecase

import (
	"context"
	"time"

	domain "github.com/ldtri/mealgo-api/internal/entity"
)

// AdminOrder is an order with the owner's identity joined in for the admin
// dashboard.
type AdminOrder struct {
	domain.Order
	CustomerName  string
	CustomerEmail string
}

type OrderRepo interface {
	Create(ctx context.Context, o *domain.Order) error
	// GetByID returns (nil, nil) when the order does not exist.
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	Delete(ctx context.Context, id string) error

	ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
	// ListForRider returns orders assigned to the rider plus unclaimed
	// Prepared orders, newest first.
	ListForRider(ctx context.Context, riderID string) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]AdminOrder, error)
	// ListUnclaimedPrepared returns Prepared orders no rider has claimed,
	// newest first.
	ListUnclaimedPrepared(ctx context.Context) ([]domain.Order, error)
	// ListKitchenQueue returns not-yet-dispatched orders, oldest first.
	ListKitchenQueue(ctx context.Context) ([]domain.Order, error)

	// UpdateStatusIf applies the transition only while the order still sits
	// at from; returns false when the precondition no longer holds.
	UpdateStatusIf(ctx context.Context, id string, from, to domain.Status) (bool, error)
	// ClaimForDelivery moves a Prepared order to Out for Delivery and
	// records the rider, only if the order is unclaimed or already claimed
	// by the same rider.
	ClaimForDelivery(ctx context.Context, id, riderID string) (bool, error)
	// CancelStaleProcessing bulk-cancels Processing orders created before
	// cutoff and returns how many were cancelled.
	CancelStaleProcessing(ctx context.Context, cutoff time.Time) (int64, error)
}

type UserRepo interface {
	// GetByEmail returns (nil, nil) when no such account exists.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type EventPublisher interface {
	PublishStatusChanged(ctx context.Context, msg StatusChangedMsg) error
}

type OrderCache interface {
	SetStatus(ctx context.Context, orderID string, status string) error
	// SetReadyOrders wholesale-replaces the unclaimed-Prepared id set shown
	// on rider dashboards.
	SetReadyOrders(ctx context.Context, ids []string) error
	SetCatalogPrices(ctx context.Context, prices []CatalogPrice) error
	GetCatalogPrices(ctx context.Context) ([]CatalogPrice, bool, error)
}

type IdempotencyStore interface {
	TryLock(ctx context.Context, scope, key string) (bool, error)
	Remember(ctx context.Context, scope, key, value string) error
	Recall(ctx context.Context, scope, key string) (string, bool, error)
}

type PaymentStatus string

const (
	PaymentSuccess PaymentStatus = "SUCCESS"
	PaymentPending PaymentStatus = "PENDING"
	PaymentFailed  PaymentStatus = "FAILED"
)

type PaymentGateway interface {
	Verify(ctx context.Context, orderID string) (PaymentStatus, error)
}

type CatalogGateway interface {
	Prices(ctx context.Context) ([]CatalogPrice, error)
}
