package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	domain "github.com/ldtri/mealgo-api/internal/entity"
	"github.com/ldtri/mealgo-api/internal/logging"
)

type TransitionInput struct {
	OrderID   string
	NewStatus string
	Role      domain.Role
	ActorID   string
}

// TransitionOrder gates every status mutation: it validates the requested
// status, checks the actor against the permission table and writes the
// change with a status precondition so a concurrent transition on the same
// order can never be clobbered.
type TransitionOrder struct {
	repo  OrderRepo
	pub   EventPublisher
	cache OrderCache // optional
	log   *slog.Logger
}

func NewTransitionOrder(repo OrderRepo, pub EventPublisher, cache OrderCache) *TransitionOrder {
	return &TransitionOrder{repo: repo, pub: pub, cache: cache, log: logging.New("lifecycle")}
}

func (uc *TransitionOrder) Execute(ctx context.Context, in TransitionInput) (*domain.Order, error) {
	target, ok := domain.ParseStatus(in.NewStatus)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, in.NewStatus)
	}

	o, err := uc.repo.GetByID(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrNotFound
	}
	if o.Status.Terminal() {
		return nil, fmt.Errorf("%w: order is already %s", ErrInvalidTransition, o.Status)
	}

	if err := allow(o, target, in.Role, in.ActorID); err != nil {
		return nil, err
	}
	if !o.Status.CanTransition(target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, target)
	}

	var applied bool
	if in.Role == domain.RoleRider && target == domain.StatusOutForDelivery {
		applied, err = uc.repo.ClaimForDelivery(ctx, o.ID, in.ActorID)
	} else {
		applied, err = uc.repo.UpdateStatusIf(ctx, o.ID, o.Status, target)
	}
	if err != nil {
		return nil, err
	}
	if !applied {
		// Someone else moved the order between our read and the write.
		return nil, fmt.Errorf("%w: order changed concurrently", ErrInvalidTransition)
	}

	from := o.Status
	o, err = uc.repo.GetByID(ctx, o.ID)
	if err != nil {
		return nil, fmt.Errorf("reload after transition: %w", err)
	}
	if o == nil {
		// Deleted between the write and the reload.
		return nil, fmt.Errorf("%w: order removed during transition", ErrNotFound)
	}

	uc.audit(ctx, o, from, target, in.Role, in.ActorID)
	return o, nil
}

// CancelStale bulk-cancels Processing orders created before cutoff. The
// WHERE clause carries the precondition, so an order an admin or rider moved
// forward in the meantime is left alone.
func (uc *TransitionOrder) CancelStale(ctx context.Context, cutoff time.Time) (int64, error) {
	n, err := uc.repo.CancelStaleProcessing(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		uc.log.Info("stale orders cancelled", "count", n, "cutoff", cutoff)
	}
	return n, nil
}

// ApplyPaymentResult is the guarded Processing -> Preparing (or no-op) move
// driven by the payment gateway, used by both the sync confirm endpoint and
// the Kafka consumer.
func (uc *TransitionOrder) ApplyPaymentResult(ctx context.Context, orderID string, status PaymentStatus) error {
	if status != PaymentSuccess {
		return nil
	}
	applied, err := uc.repo.UpdateStatusIf(ctx, orderID, domain.StatusProcessing, domain.StatusPreparing)
	if err != nil {
		return err
	}
	if applied {
		if o, err := uc.repo.GetByID(ctx, orderID); err == nil && o != nil {
			uc.audit(ctx, o, domain.StatusProcessing, domain.StatusPreparing, "payment", "")
		}
	}
	return nil
}

func (uc *TransitionOrder) audit(ctx context.Context, o *domain.Order, from, to domain.Status, role domain.Role, actorID string) {
	uc.log.Info("order transition",
		"order_id", o.ID,
		"from", string(from),
		"to", string(to),
		"role", string(role),
		"actor_id", actorID,
	)
	if uc.cache != nil {
		_ = uc.cache.SetStatus(ctx, o.ID, string(to))
	}
	if uc.pub != nil {
		msg := StatusChangedMsg{
			OrderID:    o.ID,
			CustomerID: o.CustomerID,
			From:       string(from),
			To:         string(to),
			Actor:      string(role),
			ActorID:    actorID,
			At:         time.Now().UTC(),
		}
		if err := uc.pub.PublishStatusChanged(ctx, msg); err != nil {
			uc.log.Error("publish status change", "order_id", o.ID, "err", err)
		}
	}
}

// allow encodes the permission table. Transition shape (forward-only, no
// terminal source) is checked separately so out-of-scope actors get
// Forbidden rather than InvalidTransition.
func allow(o *domain.Order, target domain.Status, role domain.Role, actorID string) error {
	switch role {
	case domain.RoleAdmin:
		return nil

	case domain.RoleChef:
		if target == domain.StatusPreparing && o.Status == domain.StatusProcessing {
			return nil
		}
		if target == domain.StatusPrepared && o.Status == domain.StatusPreparing {
			return nil
		}
		return fmt.Errorf("%w: chef cannot set %s from %s", ErrForbidden, target, o.Status)

	case domain.RoleRider:
		switch target {
		case domain.StatusOutForDelivery:
			if o.Status == domain.StatusPrepared && (o.DeliveryPartner == "" || o.DeliveryPartner == actorID) {
				return nil
			}
		case domain.StatusDelivered:
			if o.Status == domain.StatusOutForDelivery && o.DeliveryPartner == actorID {
				return nil
			}
		}
		return fmt.Errorf("%w: rider cannot set %s", ErrForbidden, target)

	case domain.RoleJanitor:
		if target == domain.StatusCancelled && o.Status == domain.StatusProcessing {
			return nil
		}
		return fmt.Errorf("%w: janitor only cancels Processing orders", ErrForbidden)
	}
	return fmt.Errorf("%w: %s cannot change order status", ErrForbidden, role)
}
