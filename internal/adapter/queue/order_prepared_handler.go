package queue

import (
	"context"

	domain "github.com/ldtri/mealgo-api/internal/entity"
	"github.com/ldtri/mealgo-api/internal/usecase"
)

type readyLister interface {
	ListUnclaimedPrepared(ctx context.Context) ([]domain.Order, error)
}

type readyCache interface {
	SetReadyOrders(ctx context.Context, ids []string) error
}

// OrderPreparedHandler keeps the rider dashboards' ready-order cache in step
// with the kitchen: on any status change it rebuilds the unclaimed-Prepared
// set from the store and replaces the cached copy wholesale.
type OrderPreparedHandler struct {
	repo  readyLister
	cache readyCache
}

func NewOrderPreparedHandler(repo readyLister, cache readyCache) *OrderPreparedHandler {
	return &OrderPreparedHandler{repo: repo, cache: cache}
}

// HandleStatusChanged is intended for the JSON adapter
// (queue.JSONHandler[usecase.StatusChangedMsg]).
func (h *OrderPreparedHandler) HandleStatusChanged(ctx context.Context, msg usecase.StatusChangedMsg) error {
	// Only moves touching Prepared can change the ready set.
	if msg.To != string(domain.StatusPrepared) && msg.From != string(domain.StatusPrepared) {
		return nil
	}

	orders, err := h.repo.ListUnclaimedPrepared(ctx)
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	return h.cache.SetReadyOrders(ctx, ids)
}
