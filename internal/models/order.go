package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Order struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	CustomerID   *uint     `json:"customer" gorm:"index"`
	Customer     *Customer `json:"-" gorm:"foreignKey:CustomerID;constraint:OnDelete:SET NULL"`
	CustomerName string    `json:"customer_name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone" gorm:"index"`

	// Snapshot of the address at time of placement, never re-read from the customer.
	ShippingAddress datatypes.JSONMap `json:"shipping_address" gorm:"type:jsonb"`

	Status        string  `json:"status" gorm:"default:'Pending'"`         // Pending, Processing, Shipped, Delivered, Cancelled
	PaymentStatus string  `json:"payment_status" gorm:"default:'Pending'"` // Pending, Paid, Failed, Refunded
	PaymentMethod string  `json:"payment_method" gorm:"default:'COD'"`
	TransactionID *string `json:"transaction_id"`

	// Fulfillment
	CourierName    *string `json:"courier_name"` // Pathao, Steadfast, RedX, Manual
	TrackingNumber *string `json:"tracking_number"`

	Subtotal     decimal.Decimal `json:"subtotal" gorm:"type:numeric(10,2)"`
	ShippingCost decimal.Decimal `json:"shipping_cost" gorm:"type:numeric(10,2);default:0"`
	Total        decimal.Decimal `json:"total" gorm:"type:numeric(10,2)"`

	VerificationStatus string `json:"verification_status" gorm:"default:'Pending'"` // Pending, Verified, Unreachable

	// Return track, independent of Status. LossAmount is non-zero only when
	// ReturnStatus is Returned or Lost.
	ReturnStatus string          `json:"return_status" gorm:"default:'None'"` // None, Pending, Returned, Lost
	LossAmount   decimal.Decimal `json:"loss_amount" gorm:"type:numeric(10,2);default:0"`

	Items            []OrderItem       `json:"items" gorm:"constraint:OnDelete:CASCADE"`
	VerificationLogs []VerificationLog `json:"verification_logs" gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type OrderStatus string

const (
	OrderPending    OrderStatus = "Pending"
	OrderProcessing OrderStatus = "Processing"
	OrderShipped    OrderStatus = "Shipped"
	OrderDelivered  OrderStatus = "Delivered"
	OrderCancelled  OrderStatus = "Cancelled"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "Pending"
	PaymentPaid     PaymentStatus = "Paid"
	PaymentFailed   PaymentStatus = "Failed"
	PaymentRefunded PaymentStatus = "Refunded"
)

type VerificationStatus string

const (
	VerificationPending     VerificationStatus = "Pending"
	VerificationVerified    VerificationStatus = "Verified"
	VerificationUnreachable VerificationStatus = "Unreachable"
)

type ReturnStatus string

const (
	ReturnNone     ReturnStatus = "None"
	ReturnPending  ReturnStatus = "Pending"
	ReturnReturned ReturnStatus = "Returned"
	ReturnLost     ReturnStatus = "Lost"
)

type VerificationLog struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	OrderID   uint      `json:"order_id" gorm:"not null;index"`
	AdminID   *uint     `json:"admin_id"`
	Action    string    `json:"action"`  // Call, SMS
	Outcome   string    `json:"outcome"` // Confirmed, No Answer, Wrong Number
	Note      string    `json:"note" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
}
