package models

import (
	"time"

	"gorm.io/datatypes"
)

type Customer struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Username    string  `json:"username" gorm:"unique;not null"`
	Email       string  `json:"email"`
	PhoneNumber *string `json:"phone_number" gorm:"unique"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Role        string  `json:"role" gorm:"default:'Support'"`
	IsVerified  bool    `json:"is_verified" gorm:"default:false"`

	// Guest accounts carry no credential and cannot log in with a password;
	// an OTP flow is their only login path.
	LoginDisabled bool   `json:"login_disabled" gorm:"default:false"`
	PasswordHash  string `json:"-"`

	BillingAddress  datatypes.JSONMap `json:"billing_address" gorm:"type:jsonb"`
	ShippingAddress datatypes.JSONMap `json:"shipping_address" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullName mirrors the snapshot fallback used when an order is missing a name.
func (c *Customer) FullName() string {
	if c.FirstName == "" && c.LastName == "" {
		return ""
	}
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// DisplayName is the full name when set, else the unique handle.
func (c *Customer) DisplayName() string {
	if name := c.FullName(); name != "" {
		return name
	}
	return c.Username
}
