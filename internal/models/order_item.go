package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OrderItem snapshots product details at time of purchase. The product link is
// weak: removing the catalog product nulls it without touching the history.
type OrderItem struct {
	ID          uint              `json:"id" gorm:"primaryKey"`
	OrderID     uint              `json:"order_id" gorm:"not null;index"`
	ProductID   *uint             `json:"product"`
	Product     *Product          `json:"-" gorm:"foreignKey:ProductID;constraint:OnDelete:SET NULL"`
	ProductName string            `json:"product_name" gorm:"not null"`
	Price       decimal.Decimal   `json:"price" gorm:"type:numeric(10,2)"`
	Quantity    int               `json:"quantity" gorm:"default:1"`
	Image       *string           `json:"image"`
	VariantInfo datatypes.JSONMap `json:"variant_info" gorm:"type:jsonb"` // selected size/color
}
