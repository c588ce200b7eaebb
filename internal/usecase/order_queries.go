package usecase

import (
	"context"
	"fmt"

	domain "github.com/ldtri/mealgo-api/internal/entity"
)

// OrderQueries is the role-scoped read side: every method returns only what
// the given actor is entitled to see.
type OrderQueries struct {
	repo OrderRepo
}

func NewOrderQueries(repo OrderRepo) *OrderQueries {
	return &OrderQueries{repo: repo}
}

func (q *OrderQueries) ListForCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	return q.repo.ListByCustomer(ctx, customerID)
}

// ListForRider returns the rider's own assignments plus unclaimed Prepared
// orders up for grabs. Another rider's assignments never show up.
func (q *OrderQueries) ListForRider(ctx context.Context, riderID string) ([]domain.Order, error) {
	return q.repo.ListForRider(ctx, riderID)
}

func (q *OrderQueries) ListForAdmin(ctx context.Context) ([]AdminOrder, error) {
	return q.repo.ListAll(ctx)
}

func (q *OrderQueries) ListForKitchen(ctx context.Context) ([]domain.Order, error) {
	return q.repo.ListKitchenQueue(ctx)
}

func (q *OrderQueries) Get(ctx context.Context, orderID string, role domain.Role, actorID string) (*domain.Order, error) {
	o, err := q.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrNotFound
	}
	switch role {
	case domain.RoleAdmin, domain.RoleChef:
		return o, nil
	case domain.RoleCustomer:
		if o.CustomerID == actorID {
			return o, nil
		}
	case domain.RoleRider:
		if o.DeliveryPartner == actorID {
			return o, nil
		}
		if o.Status == domain.StatusPrepared && o.DeliveryPartner == "" {
			return o, nil
		}
	}
	return nil, fmt.Errorf("%w: not your order", ErrForbidden)
}

// Delete removes an order on the owner's request. Items and address are
// embedded, so nothing else cascades.
func (q *OrderQueries) Delete(ctx context.Context, orderID, customerID string) error {
	o, err := q.repo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if o == nil {
		return ErrNotFound
	}
	if o.CustomerID != customerID {
		return fmt.Errorf("%w: not your order", ErrForbidden)
	}
	return q.repo.Delete(ctx, orderID)
}
