package models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MaxCardsPerEvent bounds the card pool of one event
const MaxCardsPerEvent = 1_000_000

// MaxPriceCents keeps card count times price inside int64
const MaxPriceCents = math.MaxInt64 / MaxCardsPerEvent

// Event represents a card sale campaign with a fixed numbered pool
type Event struct {
	ID         int64     `json:"id" db:"id"`
	OwnerID    int64     `json:"owner_id" db:"owner_id"`
	Name       string    `json:"name" db:"name"`
	RangeStart int       `json:"range_start" db:"range_start"`
	RangeEnd   int       `json:"range_end" db:"range_end"`
	CardCount  int       `json:"card_count" db:"card_count"`
	PriceCents int64     `json:"price_cents" db:"price_cents"` // Price per card in cents
	EventDate  time.Time `json:"event_date" db:"event_date"`
	Active     bool      `json:"active" db:"active"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// EventCreateRequest represents the data needed to create a new event
type EventCreateRequest struct {
	OwnerID    int64     `json:"owner_id"`
	Name       string    `json:"name"`
	RangeStart int       `json:"range_start"`
	RangeEnd   int       `json:"range_end"`
	CardCount  int       `json:"card_count"`
	Price      string    `json:"price"` // Decimal string, e.g. "5.00"
	EventDate  time.Time `json:"event_date"`
}

// EventUpdateRequest represents the data that can be updated for an event.
// Nil fields are left unchanged.
type EventUpdateRequest struct {
	Name       *string    `json:"name"`
	RangeStart *int       `json:"range_start"`
	RangeEnd   *int       `json:"range_end"`
	CardCount  *int       `json:"card_count"`
	Price      *string    `json:"price"`
	EventDate  *time.Time `json:"event_date"`
}

// Validate validates the event data
func (e *Event) Validate() error {
	if err := validateEventName(e.Name); err != nil {
		return err
	}
	if err := ValidateCardRange(e.RangeStart, e.RangeEnd, e.CardCount); err != nil {
		return err
	}
	if e.PriceCents < 0 {
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidInput)
	}
	if e.PriceCents > MaxPriceCents {
		return fmt.Errorf("%w: price cannot exceed %s", ErrInvalidInput, FormatCents(MaxPriceCents))
	}
	return nil
}

// Validate validates event creation data
func (req *EventCreateRequest) Validate() error {
	if err := validateEventName(req.Name); err != nil {
		return err
	}
	if err := ValidateCardRange(req.RangeStart, req.RangeEnd, req.CardCount); err != nil {
		return err
	}
	if _, err := ParsePrice(req.Price); err != nil {
		return err
	}
	if req.EventDate.IsZero() {
		return fmt.Errorf("%w: event date is required", ErrInvalidInput)
	}
	return nil
}

// Apply returns a copy of the event with the update applied and validated
func (req *EventUpdateRequest) Apply(event *Event) (*Event, error) {
	updated := *event

	if req.Name != nil {
		updated.Name = *req.Name
	}
	if req.RangeStart != nil {
		updated.RangeStart = *req.RangeStart
	}
	if req.RangeEnd != nil {
		updated.RangeEnd = *req.RangeEnd
	}
	if req.CardCount != nil {
		updated.CardCount = *req.CardCount
	} else if req.RangeStart != nil || req.RangeEnd != nil {
		// The count is redundant with the range; follow the range when only it changed.
		updated.CardCount = updated.RangeEnd - updated.RangeStart + 1
	}
	if req.Price != nil {
		cents, err := ParsePrice(*req.Price)
		if err != nil {
			return nil, err
		}
		updated.PriceCents = cents
	}
	if req.EventDate != nil {
		updated.EventDate = *req.EventDate
	}

	if err := updated.Validate(); err != nil {
		return nil, err
	}
	return &updated, nil
}

// RangeChanged reports whether other covers a different card pool
func (e *Event) RangeChanged(other *Event) bool {
	return e.RangeStart != other.RangeStart || e.RangeEnd != other.RangeEnd
}

// ValidateCardRange enforces rangeStart < rangeEnd and cardCount == width of the range
func ValidateCardRange(rangeStart, rangeEnd, cardCount int) error {
	if rangeStart < 0 {
		return fmt.Errorf("%w: range start cannot be negative", ErrEventRangeInvalid)
	}
	if rangeStart >= rangeEnd {
		return fmt.Errorf("%w: range start %d must be lower than range end %d", ErrEventRangeInvalid, rangeStart, rangeEnd)
	}
	if rangeEnd-rangeStart >= MaxCardsPerEvent {
		return fmt.Errorf("%w: an event holds at most %d cards", ErrEventRangeInvalid, MaxCardsPerEvent)
	}
	if width := rangeEnd - rangeStart + 1; cardCount != width {
		return fmt.Errorf("%w: card count %d does not match range width %d", ErrEventRangeInvalid, cardCount, width)
	}
	return nil
}

func validateEventName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: event name is required", ErrInvalidInput)
	}
	if len(name) > 255 {
		return fmt.Errorf("%w: event name must be less than 255 characters", ErrInvalidInput)
	}
	return nil
}

// Pool returns the full card pool of the event
func (e *Event) Pool() CardSet {
	return CardRange(e.RangeStart, e.RangeEnd)
}

// InRange reports whether card belongs to the event pool
func (e *Event) InRange(card int) bool {
	return card >= e.RangeStart && card <= e.RangeEnd
}

// Price returns the price per card as a decimal
func (e *Event) Price() decimal.Decimal {
	return CentsToDecimal(e.PriceCents)
}

// ParsePrice converts a decimal string with at most two fractional digits to cents
func ParsePrice(value string) (int64, error) {
	if strings.TrimSpace(value) == "" {
		return 0, fmt.Errorf("%w: price is required", ErrInvalidInput)
	}

	price, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%w: price %q is not a number", ErrInvalidInput, value)
	}
	if price.IsNegative() {
		return 0, fmt.Errorf("%w: price cannot be negative", ErrInvalidInput)
	}

	cents := price.Shift(2)
	if !cents.Equal(cents.Truncate(0)) {
		return 0, fmt.Errorf("%w: price cannot have more than 2 decimal places", ErrInvalidInput)
	}
	if cents.GreaterThan(decimal.NewFromInt(MaxPriceCents)) {
		return 0, fmt.Errorf("%w: price cannot exceed %s", ErrInvalidInput, FormatCents(MaxPriceCents))
	}
	return cents.IntPart(), nil
}

// CentsToDecimal converts minor units to a two-digit decimal
func CentsToDecimal(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// FormatCents renders minor units as a fixed two-digit string
func FormatCents(cents int64) string {
	return CentsToDecimal(cents).StringFixed(2)
}
