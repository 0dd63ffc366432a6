package repository

import (
	"time"

	"store_manager/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderFilter struct {
	Status        string
	PaymentStatus string
	CustomerID    *uint
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

type OrderStats struct {
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	PendingValue decimal.Decimal `json:"pending_value"`
	TotalLoss    decimal.Decimal `json:"total_loss"`
	Count        int64           `json:"count"`
}

type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id uint) (*models.Order, error)
	GetByIDAndPhone(id uint, phone string) (*models.Order, error)
	GetByCustomerID(customerID uint) ([]models.Order, error)
	GetByContact(phone, email string) ([]models.Order, error)
	List(filter OrderFilter) ([]models.Order, error)
	Update(order *models.Order) error
	// UpdateWithStock persists the order and applies the given ledger entries
	// atomically: each entry's change amount is added to its product counter
	// and the entry is appended, all in one transaction.
	UpdateWithStock(order *models.Order, changes []models.InventoryLog) error
	AddVerificationLog(log *models.VerificationLog) error
	Stats(filter OrderFilter) (*OrderStats, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

func (r *orderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items").Preload("VerificationLogs").First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByIDAndPhone(id uint, phone string) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items").Where("id = ? AND phone = ?", id, phone).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByCustomerID(customerID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Where("customer_id = ?", customerID).Find(&orders).Error
	return orders, err
}

// GetByContact matches history by phone; an email narrows it to orders
// carrying that same email, so a shared phone with someone else's email never
// pollutes the result.
func (r *orderRepository) GetByContact(phone, email string) ([]models.Order, error) {
	var orders []models.Order
	query := r.db.Where("phone = ?", phone)
	if email != "" {
		query = r.db.Where("email = ?", email)
	}
	err := query.Find(&orders).Error
	return orders, err
}

func (r *orderRepository) List(filter OrderFilter) ([]models.Order, error) {
	var orders []models.Order
	err := r.applyFilter(filter).Preload("Items").Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (r *orderRepository) Update(order *models.Order) error {
	return r.db.Save(order).Error
}

func (r *orderRepository) UpdateWithStock(order *models.Order, changes []models.InventoryLog) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(order).Error; err != nil {
			return err
		}
		for i := range changes {
			change := &changes[i]
			err := tx.Model(&models.Product{}).
				Where("id = ?", change.ProductID).
				UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", change.ChangeAmount)).Error
			if err != nil {
				return err
			}
			if err := tx.Create(change).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *orderRepository) AddVerificationLog(log *models.VerificationLog) error {
	return r.db.Create(log).Error
}

func (r *orderRepository) Stats(filter OrderFilter) (*OrderStats, error) {
	var stats OrderStats
	err := r.applyFilter(filter).Model(&models.Order{}).
		Select(`COALESCE(SUM(total), 0) AS total_revenue,
			COALESCE(SUM(total) FILTER (WHERE status = 'Pending'), 0) AS pending_value,
			COALESCE(SUM(loss_amount), 0) AS total_loss,
			COUNT(*) AS count`).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *orderRepository) applyFilter(filter OrderFilter) *gorm.DB {
	query := r.db
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}
	return query
}
