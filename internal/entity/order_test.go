package domain

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusProcessing, StatusPreparing, true},
		{StatusProcessing, StatusPrepared, true},
		{StatusPreparing, StatusPrepared, true},
		{StatusPrepared, StatusOutForDelivery, true},
		{StatusOutForDelivery, StatusDelivered, true},
		{StatusProcessing, StatusCancelled, true},
		{StatusOutForDelivery, StatusCancelled, true},

		// no going backwards
		{StatusPrepared, StatusPreparing, false},
		{StatusOutForDelivery, StatusPrepared, false},

		// terminal states accept nothing
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusProcessing, false},
		{StatusCancelled, StatusCancelled, false},
		{StatusDelivered, StatusDelivered, false},

		// self-transition is not forward
		{StatusPreparing, StatusPreparing, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransition(tc.to); got != tc.want {
			t.Errorf("CanTransition(%q -> %q) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestParseStatus(t *testing.T) {
	if _, ok := ParseStatus("Out for Delivery"); !ok {
		t.Error("expected Out for Delivery to parse")
	}
	if _, ok := ParseStatus("Shipped"); ok {
		t.Error("expected Shipped to be rejected")
	}
	if _, ok := ParseStatus(""); ok {
		t.Error("expected empty status to be rejected")
	}
}

func TestOrderValidate(t *testing.T) {
	valid := func() Order {
		return Order{
			CustomerID: "c1",
			Items:      []Item{{Name: "Pad Thai", Quantity: 2, UnitPriceCents: 1250}},
			Address:    Address{Street: "1 Main St", City: "Springfield", Zip: "12345", Phone: "555-0100"},
		}
	}

	o := valid()
	if err := o.Validate(); err != nil {
		t.Fatalf("valid order rejected: %v", err)
	}

	o = valid()
	o.Items = nil
	if err := o.Validate(); err != ErrEmptyItems {
		t.Errorf("empty items: got %v, want ErrEmptyItems", err)
	}

	o = valid()
	o.Items[0].Quantity = 0
	if err := o.Validate(); err != ErrBadItem {
		t.Errorf("zero quantity: got %v, want ErrBadItem", err)
	}

	o = valid()
	o.Items[0].UnitPriceCents = -1
	if err := o.Validate(); err != ErrBadItem {
		t.Errorf("negative price: got %v, want ErrBadItem", err)
	}

	o = valid()
	o.Address.Zip = ""
	if err := o.Validate(); err != ErrBadAddress {
		t.Errorf("missing zip: got %v, want ErrBadAddress", err)
	}

	o = valid()
	o.CustomerID = ""
	if err := o.Validate(); err != ErrBadCustomer {
		t.Errorf("missing customer: got %v, want ErrBadCustomer", err)
	}
}

func TestSubtotal(t *testing.T) {
	o := Order{Items: []Item{
		{Name: "a", Quantity: 2, UnitPriceCents: 1000},
		{Name: "b", Quantity: 1, UnitPriceCents: 350},
	}}
	if got := o.Subtotal(); got != 2350 {
		t.Errorf("Subtotal() = %d, want 2350", got)
	}
}

func TestResolveRole(t *testing.T) {
	u := User{Email: "rider.bob@example.com", Role: RoleAdmin}
	if role, inferred := u.ResolveRole(); role != RoleAdmin || inferred {
		t.Errorf("persisted role must win: got %v inferred=%v", role, inferred)
	}

	u = User{Email: "rider.bob@example.com"}
	if role, inferred := u.ResolveRole(); role != RoleRider || !inferred {
		t.Errorf("legacy rider email: got %v inferred=%v", role, inferred)
	}

	u = User{Email: "alice@example.com"}
	if role, inferred := u.ResolveRole(); role != RoleCustomer || !inferred {
		t.Errorf("plain email defaults to customer: got %v inferred=%v", role, inferred)
	}
}
