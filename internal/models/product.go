package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Product is the catalog boundary: the engine reads identity/price/stock and
// mutates only the stock counter, never name/price/category.
type Product struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	Name      string           `json:"name" gorm:"not null"`
	Slug      string           `json:"slug" gorm:"unique"`
	SKU       *string          `json:"sku" gorm:"unique"`
	Price     decimal.Decimal  `json:"price" gorm:"type:numeric(10,2)"`
	SalePrice *decimal.Decimal `json:"sale_price" gorm:"type:numeric(10,2)"`
	OnSale    bool             `json:"on_sale" gorm:"default:false"`

	InStock           bool `json:"in_stock" gorm:"default:true"`
	StockQuantity     int  `json:"stock_quantity" gorm:"default:0"`
	ManageStock       bool `json:"manage_stock" gorm:"default:true"`
	LowStockThreshold int  `json:"low_stock_threshold" gorm:"default:2"`
	AllowBackorders   bool `json:"allow_backorders" gorm:"default:false"`

	Images   datatypes.JSON `json:"images"`
	Variants datatypes.JSON `json:"variants"` // definitions, e.g. [{"name":"Size","options":["S","M"]}]

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ProductVariant struct {
	ID            uint              `json:"id" gorm:"primaryKey"`
	ProductID     uint              `json:"product_id" gorm:"not null;index"`
	Attributes    datatypes.JSONMap `json:"attributes" gorm:"type:jsonb"` // e.g. {"Size":"S","Color":"Red"}
	Price         decimal.Decimal   `json:"price" gorm:"type:numeric(10,2)"`
	StockQuantity int               `json:"stock_quantity" gorm:"default:0"`
	SKU           *string           `json:"sku"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// InventoryLog is the append-only stock ledger. The stock counters on Product
// and ProductVariant are derived caches: each must always equal the sum of its
// ledger rows.
type InventoryLog struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	ProductID    uint      `json:"product_id" gorm:"not null;index"`
	VariantID    *uint     `json:"variant_id"`
	ChangeAmount int       `json:"change_amount" gorm:"not null"`
	Reason       string    `json:"reason" gorm:"not null"` // Restock, Order, Damage, Return, Correction, Other
	Note         string    `json:"note" gorm:"type:text"`
	CustomerID   *uint     `json:"customer_id"` // acting identity, nil for system writes
	CreatedAt    time.Time `json:"created_at"`
}

type InventoryReason string

const (
	ReasonRestock    InventoryReason = "Restock"
	ReasonOrder      InventoryReason = "Order"
	ReasonDamage     InventoryReason = "Damage"
	ReasonReturn     InventoryReason = "Return"
	ReasonCorrection InventoryReason = "Correction"
	ReasonOther      InventoryReason = "Other"
)

func ValidInventoryReason(reason string) bool {
	switch InventoryReason(reason) {
	case ReasonRestock, ReasonOrder, ReasonDamage, ReasonReturn, ReasonCorrection, ReasonOther:
		return true
	}
	return false
}

type Supplier struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	ContactName string    `json:"contact_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
}

type PurchaseOrder struct {
	ID          uint                `json:"id" gorm:"primaryKey"`
	SupplierID  uint                `json:"supplier_id" gorm:"not null"`
	OrderNumber string              `json:"order_number" gorm:"unique;not null"`
	Status      string              `json:"status" gorm:"default:'Draft'"` // Draft, Ordered, Received, Cancelled
	Notes       string              `json:"notes" gorm:"type:text"`
	TotalCost   decimal.Decimal     `json:"total_cost" gorm:"type:numeric(12,2);default:0"`
	Items       []PurchaseOrderItem `json:"items" gorm:"constraint:OnDelete:CASCADE"`
	Date        time.Time           `json:"date"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

type PurchaseOrderStatus string

const (
	PurchaseDraft     PurchaseOrderStatus = "Draft"
	PurchaseOrdered   PurchaseOrderStatus = "Ordered"
	PurchaseReceived  PurchaseOrderStatus = "Received"
	PurchaseCancelled PurchaseOrderStatus = "Cancelled"
)

type PurchaseOrderItem struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	PurchaseOrderID uint            `json:"purchase_order_id" gorm:"not null;index"`
	ProductID       uint            `json:"product_id" gorm:"not null"`
	VariantID       *uint           `json:"variant_id"`
	Quantity        int             `json:"quantity" gorm:"not null"`
	Cost            decimal.Decimal `json:"cost" gorm:"type:numeric(10,2)"`
}
