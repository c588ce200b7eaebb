package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ldtri/mealgo-api/internal/adapter/http/middleware"
	domain "github.com/ldtri/mealgo-api/internal/entity"
	"github.com/ldtri/mealgo-api/internal/usecase"
)

type OrderHandler struct {
	create     *usecase.CreateOrder
	transition *usecase.TransitionOrder
	queries    *usecase.OrderQueries
	payment    *usecase.ConfirmPayment
}

func NewOrderHandler(create *usecase.CreateOrder, transition *usecase.TransitionOrder,
	queries *usecase.OrderQueries, payment *usecase.ConfirmPayment) *OrderHandler {
	return &OrderHandler{create: create, transition: transition, queries: queries, payment: payment}
}

type orderResp struct {
	ID              string         `json:"id"`
	CustomerID      string         `json:"customerId"`
	Items           []domain.Item  `json:"items"`
	TotalCents      int64          `json:"totalCents"`
	Address         domain.Address `json:"address"`
	Status          string         `json:"status"`
	DeliveryPartner string         `json:"deliveryPartner,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	CustomerName    string         `json:"customerName,omitempty"`
	CustomerEmail   string         `json:"customerEmail,omitempty"`
}

func toResp(o *domain.Order) orderResp {
	return orderResp{
		ID:              o.ID,
		CustomerID:      o.CustomerID,
		Items:           o.Items,
		TotalCents:      o.TotalCents,
		Address:         o.Address,
		Status:          string(o.Status),
		DeliveryPartner: o.DeliveryPartner,
		CreatedAt:       o.CreatedAt,
	}
}

type createOrderReq struct {
	Items   []domain.Item  `json:"items" binding:"required"`
	Address domain.Address `json:"address" binding:"required"`
}

// CreateOrder handles the customer checkout.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "malformed order payload"})
		return
	}

	actorID, _ := middleware.Actor(c)
	idemKey := c.GetHeader("X-Idempotency-Key") // prevent duplicated checkouts

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	o, err := h.create.Execute(ctx, usecase.CreateOrderInput{
		CustomerID:     actorID,
		IdempotencyKey: idemKey,
		Items:          req.Items,
		Address:        req.Address,
	})
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, toResp(o))
}

// ListOrders returns the role-scoped view for the authenticated actor.
func (h *OrderHandler) ListOrders(c *gin.Context) {
	actorID, role := middleware.Actor(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	switch role {
	case domain.RoleCustomer:
		orders, err := h.queries.ListForCustomer(ctx, actorID)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toRespList(orders))
	case domain.RoleRider:
		orders, err := h.queries.ListForRider(ctx, actorID)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toRespList(orders))
	case domain.RoleChef:
		orders, err := h.queries.ListForKitchen(ctx)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toRespList(orders))
	case domain.RoleAdmin:
		orders, err := h.queries.ListForAdmin(ctx)
		if err != nil {
			writeErr(c, err)
			return
		}
		out := make([]orderResp, 0, len(orders))
		for i := range orders {
			r := toResp(&orders[i].Order)
			r.CustomerName = orders[i].CustomerName
			r.CustomerEmail = orders[i].CustomerEmail
			out = append(out, r)
		}
		c.JSON(http.StatusOK, out)
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden", "message": "no order view for this role"})
	}
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	actorID, role := middleware.Actor(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	o, err := h.queries.Get(ctx, c.Param("id"), role, actorID)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, toResp(o))
}

type transitionReq struct {
	Status string `json:"status" binding:"required"`
}

// TransitionOrder applies a status change on behalf of the authenticated actor.
func (h *OrderHandler) TransitionOrder(c *gin.Context) {
	var req transitionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "status field required"})
		return
	}

	actorID, role := middleware.Actor(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	o, err := h.transition.Execute(ctx, usecase.TransitionInput{
		OrderID:   c.Param("id"),
		NewStatus: req.Status,
		Role:      role,
		ActorID:   actorID,
	})
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, toResp(o))
}

func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	actorID, _ := middleware.Actor(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.queries.Delete(ctx, c.Param("id"), actorID); err != nil {
		writeErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ConfirmPayment re-verifies the order's payment with the gateway.
func (h *OrderHandler) ConfirmPayment(c *gin.Context) {
	actorID, _ := middleware.Actor(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := h.payment.Execute(ctx, c.Param("id"), actorID)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orderId": c.Param("id"), "paymentStatus": string(status)})
}

func toRespList(orders []domain.Order) []orderResp {
	out := make([]orderResp, 0, len(orders))
	for i := range orders {
		out = append(out, toResp(&orders[i]))
	}
	return out
}

// writeErr maps usecase error kinds onto stable HTTP codes. Messages carry no
// stack traces or internal identifiers.
func writeErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": err.Error()})
	case errors.Is(err, usecase.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_status", "message": err.Error()})
	case errors.Is(err, usecase.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "order not found"})
	case errors.Is(err, usecase.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden", "message": err.Error()})
	case errors.Is(err, usecase.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "invalid_transition", "message": err.Error()})
	case errors.Is(err, usecase.ErrUpstream):
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream_unavailable", "message": "try again shortly"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "message": "something went wrong"})
	}
}
