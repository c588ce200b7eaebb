package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	domain "github.com/ldtri/mealgo-api/internal/entity"
)

// memOrderRepo mimics the store's per-document atomicity: conditional
// updates check-and-set under one lock, same as the SQL WHERE clause.
type memOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
	users  map[string]*domain.User
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{
		orders: map[string]*domain.Order{},
		users:  map[string]*domain.User{},
	}
}

func (r *memOrderRepo) put(o *domain.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *o
	r.orders[o.ID] = &cp
}

func (r *memOrderRepo) Create(ctx context.Context, o *domain.Order) error {
	r.put(o)
	return nil
}

func (r *memOrderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *memOrderRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.orders, id)
	return nil
}

func (r *memOrderRepo) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	return r.filter(func(o *domain.Order) bool { return o.CustomerID == customerID }, false), nil
}

func (r *memOrderRepo) ListForRider(ctx context.Context, riderID string) ([]domain.Order, error) {
	return r.filter(func(o *domain.Order) bool {
		if riderID != "" && o.DeliveryPartner == riderID {
			return true
		}
		return o.Status == domain.StatusPrepared && o.DeliveryPartner == ""
	}, false), nil
}

func (r *memOrderRepo) ListAll(ctx context.Context) ([]AdminOrder, error) {
	all := r.filter(func(*domain.Order) bool { return true }, false)
	out := make([]AdminOrder, 0, len(all))
	for _, o := range all {
		ao := AdminOrder{Order: o}
		if u, ok := r.users[o.CustomerID]; ok {
			ao.CustomerName, ao.CustomerEmail = u.Name, u.Email
		}
		out = append(out, ao)
	}
	return out, nil
}

func (r *memOrderRepo) ListUnclaimedPrepared(ctx context.Context) ([]domain.Order, error) {
	return r.filter(func(o *domain.Order) bool {
		return o.Status == domain.StatusPrepared && o.DeliveryPartner == ""
	}, false), nil
}

func (r *memOrderRepo) ListKitchenQueue(ctx context.Context) ([]domain.Order, error) {
	return r.filter(func(o *domain.Order) bool {
		switch o.Status {
		case domain.StatusProcessing, domain.StatusPreparing, domain.StatusPrepared:
			return true
		}
		return false
	}, true), nil
}

func (r *memOrderRepo) UpdateStatusIf(ctx context.Context, id string, from, to domain.Status) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	o.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (r *memOrderRepo) ClaimForDelivery(ctx context.Context, id, riderID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok || o.Status != domain.StatusPrepared {
		return false, nil
	}
	if o.DeliveryPartner != "" && o.DeliveryPartner != riderID {
		return false, nil
	}
	o.Status = domain.StatusOutForDelivery
	o.DeliveryPartner = riderID
	o.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (r *memOrderRepo) CancelStaleProcessing(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, o := range r.orders {
		if o.Status == domain.StatusProcessing && o.CreatedAt.Before(cutoff) {
			o.Status = domain.StatusCancelled
			o.UpdatedAt = time.Now().UTC()
			n++
		}
	}
	return n, nil
}

func (r *memOrderRepo) filter(keep func(*domain.Order) bool, oldestFirst bool) []domain.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Order
	for _, o := range r.orders {
		if keep(o) {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if oldestFirst {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

var _ OrderRepo = (*memOrderRepo)(nil)

type memIdem struct {
	mu     sync.Mutex
	locks  map[string]bool
	values map[string]string
}

func newMemIdem() *memIdem {
	return &memIdem{locks: map[string]bool{}, values: map[string]string{}}
}

func (s *memIdem) TryLock(ctx context.Context, scope, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := scope + ":" + key
	if s.locks[k] {
		return false, nil
	}
	s.locks[k] = true
	return true, nil
}

func (s *memIdem) Remember(ctx context.Context, scope, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[scope+":"+key] = value
	return nil
}

func (s *memIdem) Recall(ctx context.Context, scope, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[scope+":"+key]
	return v, ok, nil
}

type capturedEvent = StatusChangedMsg

type memPublisher struct {
	mu     sync.Mutex
	events []capturedEvent
}

func (p *memPublisher) PublishStatusChanged(ctx context.Context, msg StatusChangedMsg) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, msg)
	return nil
}

func (p *memPublisher) all() []capturedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]capturedEvent(nil), p.events...)
}

type stubGateway struct {
	statuses []PaymentStatus
	errs     []error
	calls    int
}

func (g *stubGateway) Verify(ctx context.Context, orderID string) (PaymentStatus, error) {
	i := g.calls
	g.calls++
	if i >= len(g.statuses) {
		i = len(g.statuses) - 1
	}
	return g.statuses[i], g.errs[i]
}

func seedOrder(repo *memOrderRepo, id, customer string, status domain.Status, partner string, age time.Duration) *domain.Order {
	o := &domain.Order{
		ID:              id,
		CustomerID:      customer,
		Items:           []domain.Item{{Name: "Banh Mi", Quantity: 1, UnitPriceCents: 850}},
		TotalCents:      1217,
		Address:         domain.Address{Street: "1 Main St", City: "Springfield", Zip: "12345", Phone: "555-0100"},
		Status:          status,
		DeliveryPartner: partner,
		CreatedAt:       time.Now().UTC().Add(-age),
		UpdatedAt:       time.Now().UTC().Add(-age),
	}
	repo.put(o)
	return o
}
