package models

import "fmt"

// UserRole represents the role of an authenticated caller
type UserRole string

const (
	UserRoleAdmin  UserRole = "admin"
	UserRoleSeller UserRole = "seller"
)

// User is the authenticated caller resolved by the access layer.
// Sellers are restricted to their own seller record and its orders.
type User struct {
	Subject  string   `json:"sub"`
	Role     UserRole `json:"role"`
	SellerID int64    `json:"seller_id,omitempty"`
}

// Validate validates the user data
func (u *User) Validate() error {
	switch u.Role {
	case UserRoleAdmin:
		return nil
	case UserRoleSeller:
		if u.SellerID <= 0 {
			return fmt.Errorf("%w: seller users need a seller id", ErrInvalidInput)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown role %q", ErrInvalidInput, u.Role)
	}
}

// IsAdmin returns true if the user is an administrator
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == UserRoleAdmin
}

// CanActAsSeller reports whether the user may operate on behalf of sellerID
func (u *User) CanActAsSeller(sellerID int64) bool {
	if u == nil {
		return false
	}
	if u.IsAdmin() {
		return true
	}
	return u.Role == UserRoleSeller && u.SellerID == sellerID
}
