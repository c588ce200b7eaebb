package usecase

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/ldtri/mealgo-api/internal/entity"
)

// ConfirmPayment re-verifies an order's payment with the gateway and, on
// success, lets the kitchen pick it up. One retry on gateway failure; after
// that the error surfaces as "try again".
type ConfirmPayment struct {
	repo       OrderRepo
	gateway    PaymentGateway
	transition *TransitionOrder
}

func NewConfirmPayment(repo OrderRepo, gateway PaymentGateway, transition *TransitionOrder) *ConfirmPayment {
	return &ConfirmPayment{repo: repo, gateway: gateway, transition: transition}
}

func (uc *ConfirmPayment) Execute(ctx context.Context, orderID, customerID string) (PaymentStatus, error) {
	o, err := uc.repo.GetByID(ctx, orderID)
	if err != nil {
		return "", err
	}
	if o == nil {
		return "", ErrNotFound
	}
	if o.CustomerID != customerID {
		return "", fmt.Errorf("%w: not your order", ErrForbidden)
	}

	status, err := uc.gateway.Verify(ctx, orderID)
	if errors.Is(err, ErrUpstream) {
		status, err = uc.gateway.Verify(ctx, orderID)
	}
	if err != nil {
		return "", err
	}

	if status == PaymentSuccess && o.Status == domain.StatusProcessing {
		if err := uc.transition.ApplyPaymentResult(ctx, orderID, status); err != nil {
			return status, err
		}
	}
	return status, nil
}
