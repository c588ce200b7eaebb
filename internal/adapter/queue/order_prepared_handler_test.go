package queue

import (
	"context"
	"testing"

	domain "github.com/ldtri/mealgo-api/internal/entity"
	"github.com/ldtri/mealgo-api/internal/usecase"
)

type stubReadyLister struct {
	orders []domain.Order
	calls  int
}

func (s *stubReadyLister) ListUnclaimedPrepared(ctx context.Context) ([]domain.Order, error) {
	s.calls++
	return s.orders, nil
}

type stubReadyCache struct {
	sets [][]string
}

func (s *stubReadyCache) SetReadyOrders(ctx context.Context, ids []string) error {
	s.sets = append(s.sets, ids)
	return nil
}

func TestHandleStatusChangedRefreshesReadySet(t *testing.T) {
	lister := &stubReadyLister{orders: []domain.Order{
		{ID: "o1", Status: domain.StatusPrepared},
		{ID: "o2", Status: domain.StatusPrepared},
	}}
	cache := &stubReadyCache{}
	h := NewOrderPreparedHandler(lister, cache)

	msg := usecase.StatusChangedMsg{OrderID: "o1", From: "Preparing", To: "Prepared"}
	if err := h.HandleStatusChanged(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if lister.calls != 1 {
		t.Fatalf("lister calls = %d, want 1", lister.calls)
	}
	if len(cache.sets) != 1 {
		t.Fatalf("cache writes = %d, want 1", len(cache.sets))
	}
	got := cache.sets[0]
	if len(got) != 2 || got[0] != "o1" || got[1] != "o2" {
		t.Errorf("ready set = %v, want [o1 o2]", got)
	}
}

func TestHandleStatusChangedSkipsUnrelatedMoves(t *testing.T) {
	lister := &stubReadyLister{}
	cache := &stubReadyCache{}
	h := NewOrderPreparedHandler(lister, cache)

	for _, msg := range []usecase.StatusChangedMsg{
		{OrderID: "o1", From: "Processing", To: "Preparing"},
		{OrderID: "o1", From: "Out for Delivery", To: "Delivered"},
	} {
		if err := h.HandleStatusChanged(context.Background(), msg); err != nil {
			t.Fatalf("handle %s->%s: %v", msg.From, msg.To, err)
		}
	}

	if lister.calls != 0 || len(cache.sets) != 0 {
		t.Errorf("unrelated moves touched the store (%d) or cache (%d)", lister.calls, len(cache.sets))
	}
}

func TestHandleStatusChangedOnClaim(t *testing.T) {
	// A rider claiming the last Prepared order empties the set.
	lister := &stubReadyLister{orders: nil}
	cache := &stubReadyCache{}
	h := NewOrderPreparedHandler(lister, cache)

	msg := usecase.StatusChangedMsg{OrderID: "o1", From: "Prepared", To: "Out for Delivery"}
	if err := h.HandleStatusChanged(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(cache.sets) != 1 || len(cache.sets[0]) != 0 {
		t.Errorf("cache writes = %v, want one write with an empty set", cache.sets)
	}
}
