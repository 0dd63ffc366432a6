package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null"` // Bkash, Nagad, Rocket
	Type         string    `json:"type" gorm:"default:'manual'"` // manual, gateway, cod
	Number       *string   `json:"number"`
	Instructions *string   `json:"instructions"`
	IsActive     bool      `json:"is_active" gorm:"default:true"`
	Logo         *string   `json:"logo"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PaymentSettings is process-wide configuration kept as a single row with a
// fixed primary key; the repository get-or-creates it on first access.
type PaymentSettings struct {
	ID                   uint            `json:"id" gorm:"primaryKey"`
	VATPercentage        decimal.Decimal `json:"vat_percentage" gorm:"type:numeric(5,2);default:5.00"`
	InsideDhakaShipping  decimal.Decimal `json:"inside_dhaka_shipping" gorm:"type:numeric(10,2);default:60.00"`
	OutsideDhakaShipping decimal.Decimal `json:"outside_dhaka_shipping" gorm:"type:numeric(10,2);default:120.00"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

const PaymentSettingsID uint = 1
