package domain

import (
	"errors"
	"time"
)

type Status string

const (
	StatusProcessing     Status = "Processing"
	StatusPreparing      Status = "Preparing"
	StatusPrepared       Status = "Prepared"
	StatusOutForDelivery Status = "Out for Delivery"
	StatusDelivered      Status = "Delivered"
	StatusCancelled      Status = "Cancelled"
)

var statusRank = map[Status]int{
	StatusProcessing:     0,
	StatusPreparing:      1,
	StatusPrepared:       2,
	StatusOutForDelivery: 3,
	StatusDelivered:      4,
}

// ParseStatus validates a raw status value coming off the wire.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusProcessing, StatusPreparing, StatusPrepared,
		StatusOutForDelivery, StatusDelivered, StatusCancelled:
		return Status(s), true
	}
	return "", false
}

// Terminal statuses accept no further transitions.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransition reports whether to is reachable from s: forward along the
// happy path, or Cancelled from any non-terminal state.
func (s Status) CanTransition(to Status) bool {
	if s.Terminal() {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	fr, ok1 := statusRank[s]
	tr, ok2 := statusRank[to]
	return ok1 && ok2 && tr > fr
}

type Role string

const (
	RoleCustomer Role = "customer"
	RoleChef     Role = "chef"
	RoleRider    Role = "rider"
	RoleAdmin    Role = "admin"

	// RoleJanitor is the system actor behind the stale-order sweep; it is
	// never carried by a token.
	RoleJanitor Role = "janitor"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleCustomer, RoleChef, RoleRider, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

var (
	ErrEmptyItems  = errors.New("order needs at least one item")
	ErrBadItem     = errors.New("item needs a name, a positive quantity and a non-negative price")
	ErrBadAddress  = errors.New("address needs street, city, zip and phone")
	ErrBadCustomer = errors.New("customer id required")
)

type Item struct {
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
}

// Address is snapshotted into the order at checkout. Later edits to a saved
// address never touch past orders.
type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	Zip    string `json:"zip"`
	Phone  string `json:"phone"`
}

func (a Address) Validate() error {
	if a.Street == "" || a.City == "" || a.Zip == "" || a.Phone == "" {
		return ErrBadAddress
	}
	return nil
}

type Order struct {
	ID              string
	CustomerID      string
	Items           []Item
	TotalCents      int64
	Address         Address
	Status          Status
	DeliveryPartner string // rider id; empty until a rider accepts
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (o *Order) Validate() error {
	if o.CustomerID == "" {
		return ErrBadCustomer
	}
	if len(o.Items) == 0 {
		return ErrEmptyItems
	}
	for _, it := range o.Items {
		if it.Name == "" || it.Quantity <= 0 || it.UnitPriceCents < 0 {
			return ErrBadItem
		}
	}
	return o.Address.Validate()
}

// Subtotal is the item total before delivery fee and tax.
func (o *Order) Subtotal() int64 {
	var sum int64
	for _, it := range o.Items {
		sum += int64(it.Quantity) * it.UnitPriceCents
	}
	return sum
}
