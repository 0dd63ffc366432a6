package repository

import (
	"errors"

	"store_manager/internal/models"

	"gorm.io/gorm"
)

// ErrPurchaseOrderClosed is returned when a purchase order is received twice
// or received from a terminal state.
var ErrPurchaseOrderClosed = errors.New("purchase order is not open for receiving")

type InventoryRepository interface {
	// ApplyChange adds the entry's change amount to the product counter (and
	// the variant counter when the entry names one) and appends the ledger
	// row, all in one transaction. The counter update is a single guarded
	// statement: with enforceFloor the change only applies while it keeps the
	// counter non-negative, and a failed guard leaves both the counter and
	// the ledger untouched. Returns whether the change applied.
	ApplyChange(entry *models.InventoryLog, enforceFloor bool) (bool, error)
	HistoryByProduct(productID uint) ([]models.InventoryLog, error)
	LedgerSum(productID uint) (int, error)
	GetPurchaseOrder(id uint) (*models.PurchaseOrder, error)
	// ReceivePurchaseOrder transitions an Ordered purchase order to Received
	// and, per item, increments stock and appends a Restock ledger row. The
	// transition and every stock effect commit together.
	ReceivePurchaseOrder(id uint) (*models.PurchaseOrder, error)
}

type inventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) ApplyChange(entry *models.InventoryLog, enforceFloor bool) (bool, error) {
	applied := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&models.Product{}).Where("id = ?", entry.ProductID)
		if enforceFloor {
			query = query.Where("stock_quantity + ? >= 0", entry.ChangeAmount)
		}
		result := query.UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", entry.ChangeAmount))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil // guard failed, nothing written
		}
		if entry.VariantID != nil {
			err := tx.Model(&models.ProductVariant{}).
				Where("id = ?", *entry.VariantID).
				UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", entry.ChangeAmount)).Error
			if err != nil {
				return err
			}
		}
		if err := tx.Create(entry).Error; err != nil {
			return err
		}
		applied = true
		return nil
	})
	return applied, err
}

func (r *inventoryRepository) HistoryByProduct(productID uint) ([]models.InventoryLog, error) {
	var entries []models.InventoryLog
	err := r.db.Where("product_id = ?", productID).Order("created_at DESC").Find(&entries).Error
	return entries, err
}

func (r *inventoryRepository) LedgerSum(productID uint) (int, error) {
	var sum int
	err := r.db.Model(&models.InventoryLog{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(change_amount), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *inventoryRepository) GetPurchaseOrder(id uint) (*models.PurchaseOrder, error) {
	var po models.PurchaseOrder
	err := r.db.Preload("Items").First(&po, id).Error
	if err != nil {
		return nil, err
	}
	return &po, nil
}

func (r *inventoryRepository) ReceivePurchaseOrder(id uint) (*models.PurchaseOrder, error) {
	var po models.PurchaseOrder
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&po, id).Error; err != nil {
			return err
		}
		if po.Status != string(models.PurchaseOrdered) && po.Status != string(models.PurchaseDraft) {
			return ErrPurchaseOrderClosed
		}
		po.Status = string(models.PurchaseReceived)
		if err := tx.Save(&po).Error; err != nil {
			return err
		}
		for _, item := range po.Items {
			err := tx.Model(&models.Product{}).
				Where("id = ?", item.ProductID).
				UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", item.Quantity)).Error
			if err != nil {
				return err
			}
			if item.VariantID != nil {
				err = tx.Model(&models.ProductVariant{}).
					Where("id = ?", *item.VariantID).
					UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", item.Quantity)).Error
				if err != nil {
					return err
				}
			}
			entry := models.InventoryLog{
				ProductID:    item.ProductID,
				VariantID:    item.VariantID,
				ChangeAmount: item.Quantity,
				Reason:       string(models.ReasonRestock),
				Note:         "Received PO #" + po.OrderNumber,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &po, nil
}
