package usecase

import "time"

// StatusChangedMsg goes out on RabbitMQ after every successful transition.
type StatusChangedMsg struct {
	OrderID    string    `json:"orderId"`
	CustomerID string    `json:"customerId"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	Actor      string    `json:"actor"`             // role
	ActorID    string    `json:"actorId,omitempty"` // empty for system actors
	At         time.Time `json:"at"`
}

// PaymentResultMsg arrives on Kafka from the payment gateway.
type PaymentResultMsg struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"` // SUCCESS | PENDING | FAILED
}

// CatalogPrice is the current menu price for one item, used only for the
// cart price-sync display. Order snapshots are never reconciled against it.
type CatalogPrice struct {
	Name           string `json:"name"`
	UnitPriceCents int64  `json:"unitPriceCents"`
}
