package services

import (
	"errors"
	"fmt"

	"store_manager/internal/models"
	"store_manager/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInvalidReason     = errors.New("invalid inventory reason")
	ErrZeroAdjustment    = errors.New("change amount cannot be zero")
	ErrInsufficientStock = errors.New("adjustment would take stock below zero")
)

// ReconcileReport compares a product's stock counter against the sum of its
// ledger rows.
type ReconcileReport struct {
	ProductID     uint `json:"product_id"`
	StockQuantity int  `json:"stock_quantity"`
	LedgerSum     int  `json:"ledger_sum"`
	Drift         int  `json:"drift"`
	Consistent    bool `json:"consistent"`
}

type InventoryService interface {
	// Adjust applies a manual stock change with its ledger entry. Negative
	// changes that would take the counter below zero are rejected.
	Adjust(productID uint, variantID *uint, change int, reason, note string, actorID *uint) (*models.InventoryLog, error)
	History(productID uint) ([]models.InventoryLog, error)
	Reconcile(productID uint) (*ReconcileReport, error)
	ReceivePurchaseOrder(id uint) (*models.PurchaseOrder, error)
}

type inventoryService struct {
	inventoryRepo repository.InventoryRepository
	productRepo   repository.ProductRepository
	logger        *zap.Logger
}

func NewInventoryService(
	inventoryRepo repository.InventoryRepository,
	productRepo repository.ProductRepository,
	logger *zap.Logger,
) InventoryService {
	return &inventoryService{
		inventoryRepo: inventoryRepo,
		productRepo:   productRepo,
		logger:        logger,
	}
}

func (s *inventoryService) Adjust(productID uint, variantID *uint, change int, reason, note string, actorID *uint) (*models.InventoryLog, error) {
	if change == 0 {
		return nil, ErrZeroAdjustment
	}
	if !models.ValidInventoryReason(reason) {
		return nil, ErrInvalidReason
	}
	if _, err := s.productRepo.GetByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	entry := &models.InventoryLog{
		ProductID:    productID,
		VariantID:    variantID,
		ChangeAmount: change,
		Reason:       reason,
		Note:         note,
		CustomerID:   actorID,
	}
	applied, err := s.inventoryRepo.ApplyChange(entry, true)
	if err != nil {
		return nil, fmt.Errorf("failed to apply stock change: %w", err)
	}
	if !applied {
		return nil, ErrInsufficientStock
	}
	return entry, nil
}

func (s *inventoryService) History(productID uint) ([]models.InventoryLog, error) {
	return s.inventoryRepo.HistoryByProduct(productID)
}

func (s *inventoryService) Reconcile(productID uint) (*ReconcileReport, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	sum, err := s.inventoryRepo.LedgerSum(productID)
	if err != nil {
		return nil, err
	}

	report := &ReconcileReport{
		ProductID:     productID,
		StockQuantity: product.StockQuantity,
		LedgerSum:     sum,
		Drift:         product.StockQuantity - sum,
		Consistent:    product.StockQuantity == sum,
	}
	if !report.Consistent {
		s.logger.Warn("stock counter out of sync with ledger",
			zap.Uint("product_id", productID),
			zap.Int("stock_quantity", report.StockQuantity),
			zap.Int("ledger_sum", report.LedgerSum))
	}
	return report, nil
}

func (s *inventoryService) ReceivePurchaseOrder(id uint) (*models.PurchaseOrder, error) {
	po, err := s.inventoryRepo.ReceivePurchaseOrder(id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("purchase order received",
		zap.Uint("purchase_order_id", po.ID), zap.Int("items", len(po.Items)))
	return po, nil
}
