package models

import (
	"fmt"
	"time"
)

// HeldCards returns the union of cards held by the given orders,
// skipping the order whose ID equals excludeOrderID (0 keeps every saved order).
func HeldCards(orders []*Order, excludeOrderID int64) CardSet {
	held := CardSet{}
	for _, o := range orders {
		if o == nil || o.ID == excludeOrderID {
			continue
		}
		held = held.Union(o.Held())
	}
	return held
}

// AvailableCards derives the cards of the event pool that no order holds.
// It is recomputed on every call; there is no stored inventory counter.
func AvailableCards(event *Event, orders []*Order) CardSet {
	held := CardSet{}
	for _, o := range sameEvent(orders, event.ID) {
		held = held.Union(o.Held())
	}
	return event.Pool().Difference(held)
}

// CheckEventHolds verifies that no card is held by more than one order of the event
func CheckEventHolds(eventID int64, orders []*Order) error {
	seen := make(map[int]int64)
	for _, o := range orders {
		if o.EventID != eventID {
			continue
		}
		for _, card := range o.Held() {
			if owner, ok := seen[card]; ok {
				return &InconsistencyError{
					EventID: eventID,
					OrderID: o.ID,
					Detail:  fmt.Sprintf("card %d is also held by order %d", card, owner),
				}
			}
			seen[card] = o.ID
		}
	}
	return nil
}

// Withdraw checks cards out to the order.
//
// The whole batch is validated before anything changes: cards must be in the
// event range, not held by any other order of the event, and not already held
// by this order. Cards previously returned by this order re-enter Pending and
// leave Returned. others may include the order itself; it is skipped.
func (o *Order) Withdraw(event *Event, cards CardSet, others []*Order, now time.Time) error {
	if cards.IsEmpty() {
		return fmt.Errorf("%w: no cards requested", ErrInvalidInput)
	}
	if event.ID != o.EventID {
		return fmt.Errorf("%w: order %d does not belong to event %d", ErrInvalidInput, o.ID, event.ID)
	}
	if outside := cards.OutsideRange(event.RangeStart, event.RangeEnd); !outside.IsEmpty() {
		return newCardError(ErrCardsOutOfRange, outside)
	}

	heldByOthers := HeldCards(sameEvent(others, o.EventID), o.ID)
	if conflict := cards.Intersect(heldByOthers); !conflict.IsEmpty() {
		return newCardError(ErrCardsUnavailable, conflict)
	}
	if dup := cards.Intersect(o.Held()); !dup.IsEmpty() {
		return newCardError(ErrCardsAlreadyHeldBySameOrder, dup)
	}

	o.Withdrawn = o.Withdrawn.Union(cards)
	o.Pending = o.Pending.Union(cards)
	o.Returned = o.Returned.Difference(cards)
	o.UpdatedAt = now
	return nil
}

// Sell moves pending cards to Sold. Withdrawn keeps the historical record.
func (o *Order) Sell(cards CardSet, now time.Time) error {
	if cards.IsEmpty() {
		return fmt.Errorf("%w: no cards requested", ErrInvalidInput)
	}
	if missing := cards.Difference(o.Pending); !missing.IsEmpty() {
		return newCardError(ErrCardsNotPending, missing)
	}

	o.Pending = o.Pending.Difference(cards)
	o.Sold = o.Sold.Union(cards)
	o.UpdatedAt = now
	return nil
}

// Return gives pending cards back to the pool. Sold cards cannot be returned.
// Returned cards stay in Withdrawn for audit and stop counting as held.
func (o *Order) Return(cards CardSet, now time.Time) error {
	if cards.IsEmpty() {
		return fmt.Errorf("%w: no cards requested", ErrInvalidInput)
	}
	if missing := cards.Difference(o.Pending); !missing.IsEmpty() {
		return newCardError(ErrCardsNotReturnable, missing)
	}

	o.Pending = o.Pending.Difference(cards)
	o.Returned = o.Returned.Union(cards)
	o.UpdatedAt = now
	return nil
}

func sameEvent(orders []*Order, eventID int64) []*Order {
	out := make([]*Order, 0, len(orders))
	for _, o := range orders {
		if o != nil && o.EventID == eventID {
			out = append(out, o)
		}
	}
	return out
}
