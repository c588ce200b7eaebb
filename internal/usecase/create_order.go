package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	domain "github.com/ldtri/mealgo-api/internal/entity"
)

// Pricing holds the checkout constants frozen into each order's total.
type Pricing struct {
	DeliveryFeeCents int64
	TaxRateBps       int64 // basis points on the subtotal
}

type CreateOrderInput struct {
	CustomerID     string
	IdempotencyKey string
	Items          []domain.Item
	Address        domain.Address
}

type CreateOrder struct {
	repo    OrderRepo
	idem    IdempotencyStore
	pricing Pricing
	now     func() time.Time
}

func NewCreateOrder(repo OrderRepo, idem IdempotencyStore, pricing Pricing) *CreateOrder {
	return &CreateOrder{repo: repo, idem: idem, pricing: pricing, now: time.Now}
}

func (uc *CreateOrder) Execute(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	// Fast path: the same checkout was already submitted.
	if in.IdempotencyKey != "" {
		if id, ok, _ := uc.idem.Recall(ctx, in.CustomerID, in.IdempotencyKey); ok {
			if o, err := uc.repo.GetByID(ctx, id); err == nil && o != nil {
				return o, nil
			}
		}
	}

	now := uc.now().UTC()
	o := &domain.Order{
		ID:         uuid.NewString(),
		CustomerID: in.CustomerID,
		Items:      in.Items,
		Address:    in.Address,
		Status:     domain.StatusProcessing,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := o.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	// Total is fixed here once and for all; later catalog price changes
	// never touch it.
	sub := o.Subtotal()
	o.TotalCents = sub + uc.pricing.DeliveryFeeCents + sub*uc.pricing.TaxRateBps/10000

	if in.IdempotencyKey != "" {
		ok, err := uc.idem.TryLock(ctx, in.CustomerID, in.IdempotencyKey)
		if err == nil && !ok {
			// Lost the race to a concurrent duplicate; surface whatever it
			// created.
			if id, found, _ := uc.idem.Recall(ctx, in.CustomerID, in.IdempotencyKey); found {
				if prev, err := uc.repo.GetByID(ctx, id); err == nil && prev != nil {
					return prev, nil
				}
			}
		}
	}

	if err := uc.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	if in.IdempotencyKey != "" {
		_ = uc.idem.Remember(ctx, in.CustomerID, in.IdempotencyKey, o.ID)
	}
	return o, nil
}
