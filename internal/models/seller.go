package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Seller is an agent who withdraws and resells cards
type Seller struct {
	ID        int64     `json:"id" db:"id"`
	OwnerID   int64     `json:"owner_id" db:"owner_id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// SellerCreateRequest represents the data needed to register a seller
type SellerCreateRequest struct {
	OwnerID int64  `json:"owner_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

// SellerUpdateRequest represents the data that can be updated for a seller
type SellerUpdateRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Validate validates the seller data
func (s *Seller) Validate() error {
	return validateSellerFields(s.Name, s.Email, s.Phone)
}

// Validate validates seller creation data
func (req *SellerCreateRequest) Validate() error {
	return validateSellerFields(req.Name, req.Email, req.Phone)
}

// Apply returns a copy of the seller with the update applied and validated
func (req *SellerUpdateRequest) Apply(seller *Seller) (*Seller, error) {
	updated := *seller
	if req.Name != nil {
		updated.Name = *req.Name
	}
	if req.Email != nil {
		updated.Email = *req.Email
	}
	if req.Phone != nil {
		updated.Phone = *req.Phone
	}
	if err := updated.Validate(); err != nil {
		return nil, err
	}
	return &updated, nil
}

// CanReceiveOrder tells whether the seller may take one more open order.
// A limit of zero or less means unlimited.
func (s *Seller) CanReceiveOrder(openOrders, limit int) error {
	if !s.Active {
		return ErrSellerInactive
	}
	if limit > 0 && openOrders >= limit {
		return fmt.Errorf("%w: %d open orders (limit %d)", ErrSellerOrderLimit, openOrders, limit)
	}
	return nil
}

func validateSellerFields(name, email, phone string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: seller name is required", ErrInvalidInput)
	}
	if len(name) > 255 {
		return fmt.Errorf("%w: seller name must be less than 255 characters", ErrInvalidInput)
	}
	if email != "" {
		if len(email) > 255 || !emailRegex.MatchString(email) {
			return fmt.Errorf("%w: email format is invalid", ErrInvalidInput)
		}
	}
	if len(phone) > 32 {
		return fmt.Errorf("%w: phone must be less than 32 characters", ErrInvalidInput)
	}
	return nil
}
