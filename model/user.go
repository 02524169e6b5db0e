package model

import "time"

// UserEntity is the user row. The address columns hold the shopper's saved
// default shipping address; empty street means no address on file. Orders
// never read these columns, checkout always snapshots the submitted address.
type UserEntity struct {
	ID           uint64     `db:"id" json:"id"`
	Name         string     `db:"name" json:"name"`
	Email        string     `db:"email" json:"email"`
	Phone        string     `db:"phone" json:"phone"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Street       string     `db:"street" json:"-"`
	City         string     `db:"city" json:"-"`
	State        string     `db:"state" json:"-"`
	PostalCode   string     `db:"postal_code" json:"-"`
	Country      string     `db:"country" json:"-"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// RegisterRequest creates a shopper account. Phone and the default shipping
// address are optional; the address is only a checkout prefill.
type RegisterRequest struct {
	Name     string           `json:"name" validate:"required"`
	Email    string           `json:"email" validate:"required,email"`
	Phone    string           `json:"phone"`
	Password string           `json:"password" validate:"required,min=6"`
	Address  *ShippingAddress `json:"address,omitempty" validate:"-"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

type RegisterResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserProfile is the read model behind GET /profile. Address is nil when the
// shopper has no saved address; clients use it to prefill checkout.
type UserProfile struct {
	Name    string           `json:"name"`
	Email   string           `json:"email"`
	Phone   string           `json:"phone,omitempty"`
	Address *ShippingAddress `json:"address,omitempty"`
}
