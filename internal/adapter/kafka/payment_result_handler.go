package kafka

import (
	"context"

	"github.com/ldtri/mealgo-api/internal/usecase"
)

// PaymentResultHandler applies asynchronous gateway results to orders. The
// write underneath is conditional on the order still sitting in Processing,
// so a stale or duplicated message is a no-op.
type PaymentResultHandler struct {
	transition *usecase.TransitionOrder
}

func NewPaymentResultHandler(transition *usecase.TransitionOrder) *PaymentResultHandler {
	return &PaymentResultHandler{transition: transition}
}

func (h *PaymentResultHandler) Handle(ctx context.Context, ev usecase.PaymentResultMsg) error {
	return h.transition.ApplyPaymentResult(ctx, ev.OrderID, usecase.PaymentStatus(ev.Status))
}
