package models

import "fmt"

// MaxCardsPerRequest bounds a single withdraw/sell/return batch
const MaxCardsPerRequest = 10000

// CardBatchRequest carries the card numbers of a withdraw, sell or return call
type CardBatchRequest struct {
	Cards []int `json:"cards"`
}

// Validate validates the card batch
func (req *CardBatchRequest) Validate() error {
	if len(req.Cards) == 0 {
		return fmt.Errorf("%w: cards are required", ErrInvalidInput)
	}
	if len(req.Cards) > MaxCardsPerRequest {
		return fmt.Errorf("%w: at most %d cards per request", ErrInvalidInput, MaxCardsPerRequest)
	}
	for _, c := range req.Cards {
		if c < 0 {
			return fmt.Errorf("%w: card numbers cannot be negative", ErrInvalidInput)
		}
	}
	return nil
}

// CardSet returns the batch as a set; repeated numbers collapse
func (req *CardBatchRequest) CardSet() CardSet {
	return NewCardSet(req.Cards...)
}

// OrderFilter narrows order listings. Zero values mean no filter.
type OrderFilter struct {
	EventID  int64
	SellerID int64
	Status   OrderStatus
}

// Matches reports whether the order passes the filter
func (f OrderFilter) Matches(o *Order) bool {
	if f.EventID != 0 && o.EventID != f.EventID {
		return false
	}
	if f.SellerID != 0 && o.SellerID != f.SellerID {
		return false
	}
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	return true
}
