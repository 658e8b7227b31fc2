package models

import (
	"errors"
	"fmt"
)

// Common errors used throughout the application
var (
	ErrEventNotFound  = errors.New("event not found")
	ErrSellerNotFound = errors.New("seller not found")
	ErrOrderNotFound  = errors.New("order not found")
	ErrUnauthorized   = errors.New("unauthorized access")
	ErrForbidden      = errors.New("forbidden")
	ErrInvalidInput   = errors.New("invalid input")
	ErrDuplicateEntry = errors.New("duplicate entry")
)

// Card inventory errors
var (
	ErrCardsUnavailable            = errors.New("cards are held by another order")
	ErrCardsAlreadyHeldBySameOrder = errors.New("cards are already withdrawn by this order")
	ErrCardsNotPending             = errors.New("cards are not pending")
	ErrCardsNotReturnable          = errors.New("only pending cards can be returned")
	ErrCardsOutOfRange             = errors.New("cards are outside the event range")
	ErrOrderHasPendingCards        = errors.New("order still has pending cards")
)

// Registry and lifecycle errors
var (
	ErrEventRangeInvalid       = errors.New("event card range is invalid")
	ErrEventInactive           = errors.New("event is not active")
	ErrSellerInactive          = errors.New("seller is not active")
	ErrSellerHasOpenOrders     = errors.New("seller has open orders with pending cards")
	ErrSellerOrderLimit        = errors.New("seller reached the open order limit")
	ErrInvalidStatusTransition = errors.New("invalid order status transition")
)

// ErrInternalInconsistency marks state that the engine should never produce
var ErrInternalInconsistency = errors.New("internal inconsistency")

// CardError reports a rejected card batch together with the offending numbers
type CardError struct {
	Kind  error
	Cards CardSet
}

func (e *CardError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Cards)
}

func (e *CardError) Unwrap() error {
	return e.Kind
}

func newCardError(kind error, cards CardSet) *CardError {
	return &CardError{Kind: kind, Cards: cards.Clone()}
}

// PendingCardsError blocks order deletion while cards are outstanding
type PendingCardsError struct {
	OrderID int64
	Count   int
}

func (e *PendingCardsError) Error() string {
	return fmt.Sprintf("order %d has %d pending cards: sell or return them first", e.OrderID, e.Count)
}

func (e *PendingCardsError) Unwrap() error {
	return ErrOrderHasPendingCards
}

// InconsistencyError describes a structurally impossible state found in stored data
type InconsistencyError struct {
	EventID int64
	OrderID int64
	Detail  string
}

func (e *InconsistencyError) Error() string {
	if e.OrderID != 0 {
		return fmt.Sprintf("internal inconsistency in event %d order %d: %s", e.EventID, e.OrderID, e.Detail)
	}
	return fmt.Sprintf("internal inconsistency in event %d: %s", e.EventID, e.Detail)
}

func (e *InconsistencyError) Unwrap() error {
	return ErrInternalInconsistency
}

// CardsOf extracts the offending cards from a card error, if any
func CardsOf(err error) CardSet {
	var cardErr *CardError
	if errors.As(err, &cardErr) {
		return cardErr.Cards
	}
	return nil
}
