package repository

import (
	"time"

	"store_manager/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type FollowUpFilter struct {
	Status       string
	FollowupType string
	CustomerID   *uint
	OrderID      *uint
}

// RecurringCustomer is the projection returned for re-engagement candidates.
type RecurringCustomer struct {
	ID               uint            `json:"id" gorm:"column:id"`
	FirstName        string          `json:"-" gorm:"column:first_name"`
	LastName         string          `json:"-" gorm:"column:last_name"`
	Username         string          `json:"-" gorm:"column:username"`
	CustomerName     string          `json:"customerName" gorm:"-"`
	Phone            *string         `json:"phone" gorm:"column:phone_number"`
	Email            string          `json:"email" gorm:"column:email"`
	LastOrderDate    time.Time       `json:"last_order_date" gorm:"column:last_order_date"`
	LastFollowupDate *time.Time      `json:"last_followup_date" gorm:"column:last_followup_date"`
	TotalSpent       decimal.Decimal `json:"total_spent" gorm:"column:total_spent"`
	OrderCount       int             `json:"order_count" gorm:"column:order_count"`
}

type FollowUpRepository interface {
	Create(followup *models.FollowUp) error
	GetByID(id uint) (*models.FollowUp, error)
	List(filter FollowUpFilter) ([]models.FollowUp, error)
	Update(followup *models.FollowUp) error
	// PendingOrders returns Delivered orders with no Post-Purchase follow-up
	// other than a deferral ("Follow Later").
	PendingOrders() ([]models.Order, error)
	CountPendingOrders() (int64, error)
	// RecurringCustomers returns customers with at least one Delivered order
	// whose latest follow-up is missing or older than the cutoff.
	RecurringCustomers(cutoff time.Time) ([]RecurringCustomer, error)
	CountCreatedSince(t time.Time) (int64, error)
	AverageRating() (float64, error)
}

type followUpRepository struct {
	db *gorm.DB
}

func NewFollowUpRepository(db *gorm.DB) FollowUpRepository {
	return &followUpRepository{db: db}
}

func (r *followUpRepository) Create(followup *models.FollowUp) error {
	return r.db.Create(followup).Error
}

func (r *followUpRepository) GetByID(id uint) (*models.FollowUp, error) {
	var followup models.FollowUp
	err := r.db.First(&followup, id).Error
	if err != nil {
		return nil, err
	}
	return &followup, nil
}

func (r *followUpRepository) List(filter FollowUpFilter) ([]models.FollowUp, error) {
	var followups []models.FollowUp
	query := r.db
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.FollowupType != "" {
		query = query.Where("followup_type = ?", filter.FollowupType)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.OrderID != nil {
		query = query.Where("order_id = ?", *filter.OrderID)
	}
	err := query.Order("created_at DESC").Find(&followups).Error
	return followups, err
}

func (r *followUpRepository) Update(followup *models.FollowUp) error {
	return r.db.Save(followup).Error
}

func (r *followUpRepository) pendingOrdersQuery() *gorm.DB {
	completed := r.db.Model(&models.FollowUp{}).
		Select("order_id").
		Where("followup_type = ? AND status <> ? AND order_id IS NOT NULL",
			string(models.FollowUpPostPurchase), string(models.FollowUpLater))
	return r.db.Model(&models.Order{}).
		Where("status = ?", string(models.OrderDelivered)).
		Where("id NOT IN (?)", completed)
}

func (r *followUpRepository) PendingOrders() ([]models.Order, error) {
	var orders []models.Order
	err := r.pendingOrdersQuery().Preload("Items").Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (r *followUpRepository) CountPendingOrders() (int64, error) {
	var count int64
	err := r.pendingOrdersQuery().Count(&count).Error
	return count, err
}

func (r *followUpRepository) RecurringCustomers(cutoff time.Time) ([]RecurringCustomer, error) {
	var rows []RecurringCustomer
	err := r.db.Raw(`
		SELECT c.id, c.first_name, c.last_name, c.username, c.phone_number, c.email,
		       o.last_order_date, f.last_followup_date, o.total_spent, o.order_count
		FROM customers c
		JOIN (
			SELECT customer_id,
			       MAX(created_at) AS last_order_date,
			       COALESCE(SUM(total), 0) AS total_spent,
			       COUNT(*) AS order_count
			FROM orders
			WHERE status = ? AND customer_id IS NOT NULL
			GROUP BY customer_id
		) o ON o.customer_id = c.id
		LEFT JOIN (
			SELECT customer_id, MAX(created_at) AS last_followup_date
			FROM follow_ups
			WHERE customer_id IS NOT NULL
			GROUP BY customer_id
		) f ON f.customer_id = c.id
		WHERE f.last_followup_date IS NULL OR f.last_followup_date < ?
		ORDER BY o.last_order_date DESC`,
		string(models.OrderDelivered), cutoff).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		customer := models.Customer{
			Username:  rows[i].Username,
			FirstName: rows[i].FirstName,
			LastName:  rows[i].LastName,
		}
		rows[i].CustomerName = customer.DisplayName()
	}
	return rows, nil
}

func (r *followUpRepository) CountCreatedSince(t time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.FollowUp{}).Where("created_at >= ?", t).Count(&count).Error
	return count, err
}

func (r *followUpRepository) AverageRating() (float64, error) {
	var avg float64
	err := r.db.Model(&models.FollowUp{}).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg).Error
	return avg, err
}
