package models

import (
	"fmt"
	"time"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderOpen      OrderStatus = "open"
	OrderClosed    OrderStatus = "closed"
	OrderCancelled OrderStatus = "cancelled"
)

// Order is one seller's reservation record against one event.
//
// Withdrawn is the cumulative record of cards checked out by the order.
// Pending, Sold and Returned are pairwise disjoint subsets of Withdrawn.
// A card is held by the order while it is in Withdrawn and not in Returned.
type Order struct {
	ID                int64       `json:"id" db:"id"`
	EventID           int64       `json:"event_id" db:"event_id"`
	SellerID          int64       `json:"seller_id" db:"seller_id"`
	QuantityRequested int         `json:"quantity_requested" db:"quantity_requested"`
	Withdrawn         CardSet     `json:"withdrawn" db:"withdrawn"`
	Pending           CardSet     `json:"pending" db:"pending"`
	Sold              CardSet     `json:"sold" db:"sold"`
	Returned          CardSet     `json:"returned" db:"returned"`
	Status            OrderStatus `json:"status" db:"status"`
	CreatedAt         time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at" db:"updated_at"`
}

// OrderCreateRequest represents the data needed to create a new order
type OrderCreateRequest struct {
	EventID           int64 `json:"event_id"`
	SellerID          int64 `json:"seller_id"`
	QuantityRequested int   `json:"quantity_requested"`
}

// OrderStatusRequest represents an explicit status change
type OrderStatusRequest struct {
	Status OrderStatus `json:"status"`
}

// Validate validates order creation data
func (req *OrderCreateRequest) Validate() error {
	if req.EventID <= 0 {
		return fmt.Errorf("%w: event id is required", ErrInvalidInput)
	}
	if req.SellerID <= 0 {
		return fmt.Errorf("%w: seller id is required", ErrInvalidInput)
	}
	if req.QuantityRequested < 0 {
		return fmt.Errorf("%w: quantity requested cannot be negative", ErrInvalidInput)
	}
	return nil
}

// Validate validates the status change request
func (req *OrderStatusRequest) Validate() error {
	return validateOrderStatus(req.Status)
}

func validateOrderStatus(status OrderStatus) error {
	switch status {
	case OrderOpen, OrderClosed, OrderCancelled:
		return nil
	default:
		return fmt.Errorf("%w: invalid order status %q", ErrInvalidInput, status)
	}
}

// NewOrder returns an open order with empty card collections
func NewOrder(eventID, sellerID int64, quantityRequested int, now time.Time) *Order {
	return &Order{
		EventID:           eventID,
		SellerID:          sellerID,
		QuantityRequested: quantityRequested,
		Withdrawn:         CardSet{},
		Pending:           CardSet{},
		Sold:              CardSet{},
		Returned:          CardSet{},
		Status:            OrderOpen,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// Clone returns a deep copy of the order
func (o *Order) Clone() *Order {
	c := *o
	c.Withdrawn = o.Withdrawn.Clone()
	c.Pending = o.Pending.Clone()
	c.Sold = o.Sold.Clone()
	c.Returned = o.Returned.Clone()
	return &c
}

// Held returns the cards this order currently keeps out of the pool
func (o *Order) Held() CardSet {
	return o.Withdrawn.Difference(o.Returned)
}

// IsOpen returns true if the order is open
func (o *Order) IsOpen() bool {
	return o.Status == OrderOpen
}

// HasPendingCards returns true while cards await sale or return
func (o *Order) HasPendingCards() bool {
	return !o.Pending.IsEmpty()
}

// CanTransitionTo reports whether the status change is allowed.
// Open may move to closed or cancelled; both are terminal.
func (o *Order) CanTransitionTo(status OrderStatus) bool {
	return o.Status == OrderOpen && (status == OrderClosed || status == OrderCancelled)
}

// CanDelete returns a PendingCardsError while the order has pending cards
func (o *Order) CanDelete() error {
	if o.HasPendingCards() {
		return &PendingCardsError{OrderID: o.ID, Count: o.Pending.Len()}
	}
	return nil
}

// CheckInvariants verifies the per-order disjointness and subset rules
func (o *Order) CheckInvariants() error {
	fail := func(detail string) error {
		return &InconsistencyError{EventID: o.EventID, OrderID: o.ID, Detail: detail}
	}

	if overlap := o.Pending.Intersect(o.Sold); !overlap.IsEmpty() {
		return fail(fmt.Sprintf("cards %s are both pending and sold", overlap))
	}
	if overlap := o.Pending.Intersect(o.Returned); !overlap.IsEmpty() {
		return fail(fmt.Sprintf("cards %s are both pending and returned", overlap))
	}
	if overlap := o.Sold.Intersect(o.Returned); !overlap.IsEmpty() {
		return fail(fmt.Sprintf("cards %s are both sold and returned", overlap))
	}

	tracked := o.Pending.Union(o.Sold).Union(o.Returned)
	if stray := tracked.Difference(o.Withdrawn); !stray.IsEmpty() {
		return fail(fmt.Sprintf("cards %s were never withdrawn", stray))
	}
	return nil
}
