package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"store_manager/internal/cache"
	"store_manager/internal/cart"
	"store_manager/internal/models"
	"store_manager/internal/repository"
	"store_manager/pkg/courier"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound           = errors.New("order not found")
	ErrInvalidOrderID          = errors.New("invalid order id format")
	ErrShippingAddressRequired = errors.New("shipping address is required and cannot be empty")
	ErrPaymentMethodRequired   = errors.New("payment method is required")
	ErrCannotCancel            = errors.New("Cannot cancel order in current status")
	ErrInvalidReturnAction     = errors.New("invalid action, must be Returned or Lost")
)

// paymentMethodLabels maps well-known checkout keys to display labels.
// Unrecognized values pass through unchanged.
var paymentMethodLabels = map[string]string{
	"cod":    "Cash on Delivery",
	"bkash":  "Bkash",
	"nagad":  "Nagad",
	"rocket": "Rocket",
}

type CreateOrderRequest struct {
	CustomerID      *uint // authenticated identity, nil for guest submissions
	CustomerName    string
	Email           string
	Phone           string
	ShippingAddress map[string]interface{}
	PaymentMethod   string
	PaymentStatus   string
	TransactionID   *string
	Subtotal        decimal.Decimal
	ShippingCost    decimal.Decimal
	Total           decimal.Decimal
	CartItems       []map[string]interface{}
}

type ShipResult struct {
	Order          *models.Order
	TrackingNumber string
	LabelURL       string
}

type ReturnResolution struct {
	Order        *models.Order
	ReturnStatus string
	LossAmount   decimal.Decimal
}

type OrderService interface {
	Create(req *CreateOrderRequest) (*models.Order, error)
	GetByID(id uint) (*models.Order, error)
	List(filter repository.OrderFilter) ([]models.Order, error)
	Ship(orderID uint, courierName string) (*ShipResult, error)
	Cancel(orderID uint, actorID *uint) (*models.Order, error)
	ResolveReturn(orderID uint, action string) (*ReturnResolution, error)
	Track(orderID, phone string) (*models.Order, error)
	Stats(filter repository.OrderFilter) (*repository.OrderStats, error)
	AddVerificationLog(orderID uint, adminID *uint, action, outcome, note string) (*models.Order, error)
	UpdateItems(orderID uint, rawItems []map[string]interface{}) (*models.Order, error)
	PaymentMethodLabel(order *models.Order) string
}

type orderService struct {
	orderRepo     repository.OrderRepository
	itemRepo      repository.OrderItemRepository
	productRepo   repository.ProductRepository
	inventoryRepo repository.InventoryRepository
	customerRepo  repository.CustomerRepository
	settingsRepo  repository.SettingsRepository
	identity      IdentityService
	courier       courier.Client
	statsCache    *cache.Client
	statsTTL      time.Duration
	logger        *zap.Logger
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	itemRepo repository.OrderItemRepository,
	productRepo repository.ProductRepository,
	inventoryRepo repository.InventoryRepository,
	customerRepo repository.CustomerRepository,
	settingsRepo repository.SettingsRepository,
	identity IdentityService,
	courierClient courier.Client,
	statsCache *cache.Client,
	statsTTL time.Duration,
	logger *zap.Logger,
) OrderService {
	return &orderService{
		orderRepo:     orderRepo,
		itemRepo:      itemRepo,
		productRepo:   productRepo,
		inventoryRepo: inventoryRepo,
		customerRepo:  customerRepo,
		settingsRepo:  settingsRepo,
		identity:      identity,
		courier:       courierClient,
		statsCache:    statsCache,
		statsTTL:      statsTTL,
		logger:        logger,
	}
}

func (s *orderService) Create(req *CreateOrderRequest) (*models.Order, error) {
	if len(req.ShippingAddress) == 0 || !hasTruthyValue(req.ShippingAddress) {
		return nil, ErrShippingAddressRequired
	}
	if strings.TrimSpace(req.PaymentMethod) == "" {
		return nil, ErrPaymentMethodRequired
	}

	order := &models.Order{
		CustomerName:    req.CustomerName,
		Email:           req.Email,
		Phone:           req.Phone,
		ShippingAddress: datatypes.JSONMap(req.ShippingAddress),
		Status:          string(models.OrderPending),
		PaymentStatus:   string(models.PaymentPending),
		PaymentMethod:   normalizePaymentMethod(req.PaymentMethod),
		TransactionID:   req.TransactionID,
		Subtotal:        req.Subtotal,
		ShippingCost:    req.ShippingCost,
		Total:           req.Total,
	}
	if req.PaymentStatus != "" {
		order.PaymentStatus = req.PaymentStatus
	}

	s.attachCustomer(order, req)

	if err := s.orderRepo.Create(order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	for _, line := range cart.Normalize(req.CartItems) {
		if err := s.addLine(order, line); err != nil {
			return nil, err
		}
	}

	return s.orderRepo.GetByID(order.ID)
}

// attachCustomer links the authenticated customer or resolves a guest
// identity, then back-fills the profile. Identity failures never fail order
// creation.
func (s *orderService) attachCustomer(order *models.Order, req *CreateOrderRequest) {
	var customer *models.Customer

	if req.CustomerID != nil {
		found, err := s.customerRepo.GetByID(*req.CustomerID)
		if err != nil {
			s.logger.Warn("failed to load customer for order", zap.Uint("customer_id", *req.CustomerID), zap.Error(err))
			return
		}
		customer = found
		if order.CustomerName == "" {
			order.CustomerName = customer.DisplayName()
		}
		if order.Email == "" {
			order.Email = customer.Email
		}
	} else {
		resolved, err := s.identity.ResolveGuest(order)
		if err != nil {
			s.logger.Warn("guest identity resolution failed", zap.String("phone", order.Phone), zap.Error(err))
			return
		}
		customer = resolved
	}

	if customer == nil {
		return
	}
	order.CustomerID = &customer.ID

	if err := s.identity.BackfillProfile(customer, order); err != nil {
		s.logger.Warn("customer profile back-fill failed", zap.Uint("customer_id", customer.ID), zap.Error(err))
	}
}

// addLine snapshots one aggregated cart line onto the order and deducts stock
// when the product manages it. A missing product drops the line; insufficient
// stock records the sale without touching the counter or the ledger.
func (s *orderService) addLine(order *models.Order, line cart.Line) error {
	product, err := s.productRepo.GetByID(line.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("product not found for order line",
				zap.Uint("product_id", line.ProductID), zap.Uint("order_id", order.ID))
			return nil
		}
		return fmt.Errorf("failed to load product %d: %w", line.ProductID, err)
	}

	name := line.Name
	if name == "" {
		name = product.Name
	}
	price := product.Price
	if line.Price != nil {
		price = *line.Price
	}

	item := &models.OrderItem{
		OrderID:     order.ID,
		ProductID:   &product.ID,
		ProductName: name,
		Price:       price,
		Quantity:    line.Quantity,
		Image:       line.Image,
		VariantInfo: datatypes.JSONMap(line.VariantInfo),
	}
	if err := s.itemRepo.Create(item); err != nil {
		return fmt.Errorf("failed to create order item: %w", err)
	}

	if !product.ManageStock {
		return nil
	}

	entry := &models.InventoryLog{
		ProductID:    product.ID,
		ChangeAmount: -line.Quantity,
		Reason:       string(models.ReasonOrder),
		Note:         fmt.Sprintf("Order #%d Placed", order.ID),
		CustomerID:   order.CustomerID,
	}
	applied, err := s.inventoryRepo.ApplyChange(entry, true)
	if err != nil {
		return fmt.Errorf("failed to deduct stock for product %d: %w", product.ID, err)
	}
	if !applied {
		// Oversell accepted: the item stays sold, stock untouched.
		s.logger.Warn("insufficient stock, order line recorded without deduction",
			zap.Uint("product_id", product.ID), zap.Int("quantity", line.Quantity))
	}
	return nil
}

func (s *orderService) GetByID(id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) List(filter repository.OrderFilter) ([]models.Order, error) {
	return s.orderRepo.List(filter)
}

func (s *orderService) Ship(orderID uint, courierName string) (*ShipResult, error) {
	order, err := s.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if courierName == "" {
		courierName = "Manual"
	}

	shipment, err := s.courier.CreateShipment(order.ID, courierName)
	if err != nil {
		return nil, fmt.Errorf("failed to create shipment: %w", err)
	}

	order.Status = string(models.OrderShipped)
	order.CourierName = &courierName
	order.TrackingNumber = &shipment.TrackingNumber
	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}

	return &ShipResult{
		Order:          order,
		TrackingNumber: shipment.TrackingNumber,
		LabelURL:       shipment.LabelURL,
	}, nil
}

func (s *orderService) Cancel(orderID uint, actorID *uint) (*models.Order, error) {
	order, err := s.GetByID(orderID)
	if err != nil {
		return nil, err
	}

	switch order.Status {
	case string(models.OrderShipped), string(models.OrderDelivered), string(models.OrderCancelled):
		return nil, ErrCannotCancel
	}

	order.Status = string(models.OrderCancelled)
	// A pre-shipment cancellation never accrues a loss.
	order.ReturnStatus = string(models.ReturnNone)
	order.LossAmount = decimal.Zero

	var changes []models.InventoryLog
	for _, item := range order.Items {
		if item.ProductID == nil {
			continue
		}
		product, err := s.productRepo.GetByID(*item.ProductID)
		if err != nil || !product.ManageStock {
			continue
		}
		changes = append(changes, models.InventoryLog{
			ProductID:    product.ID,
			ChangeAmount: item.Quantity,
			Reason:       string(models.ReasonCorrection),
			Note:         fmt.Sprintf("Order #%d Cancelled", order.ID),
			CustomerID:   actorID,
		})
	}

	if err := s.orderRepo.UpdateWithStock(order, changes); err != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}
	return order, nil
}

func (s *orderService) ResolveReturn(orderID uint, action string) (*ReturnResolution, error) {
	if action != string(models.ReturnReturned) && action != string(models.ReturnLost) {
		return nil, ErrInvalidReturnAction
	}

	order, err := s.GetByID(orderID)
	if err != nil {
		return nil, err
	}

	order.ReturnStatus = action
	if action == string(models.ReturnReturned) {
		// The goods came back; the sunk shipping cost is the loss.
		order.LossAmount = order.ShippingCost
	} else {
		// Goods and shipping are both gone.
		order.LossAmount = order.Total
	}

	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}
	return &ReturnResolution{
		Order:        order,
		ReturnStatus: order.ReturnStatus,
		LossAmount:   order.LossAmount,
	}, nil
}

// Track is the customer-facing lookup: both the id and the phone on file must
// match exactly. A malformed id is its own error; a mismatch reads as
// not-found so that order existence is never leaked.
func (s *orderService) Track(orderID, phone string) (*models.Order, error) {
	id, err := parseOrderID(orderID)
	if err != nil {
		return nil, ErrInvalidOrderID
	}
	order, err := s.orderRepo.GetByIDAndPhone(id, phone)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *orderService) Stats(filter repository.OrderFilter) (*repository.OrderStats, error) {
	cacheable := filter == repository.OrderFilter{}
	if cacheable && s.statsCache != nil {
		var cached repository.OrderStats
		if err := s.statsCache.GetJSON("orders:stats", &cached); err == nil {
			return &cached, nil
		}
	}

	stats, err := s.orderRepo.Stats(filter)
	if err != nil {
		return nil, err
	}

	if cacheable && s.statsCache != nil {
		if err := s.statsCache.SetJSON("orders:stats", stats, s.statsTTL); err != nil {
			s.logger.Warn("failed to cache order stats", zap.Error(err))
		}
	}
	return stats, nil
}

func (s *orderService) AddVerificationLog(orderID uint, adminID *uint, action, outcome, note string) (*models.Order, error) {
	order, err := s.GetByID(orderID)
	if err != nil {
		return nil, err
	}

	log := &models.VerificationLog{
		OrderID: order.ID,
		AdminID: adminID,
		Action:  action,
		Outcome: outcome,
		Note:    note,
	}
	if err := s.orderRepo.AddVerificationLog(log); err != nil {
		return nil, err
	}

	// Outbound-call QA drives the verification status.
	switch outcome {
	case "Confirmed":
		order.VerificationStatus = string(models.VerificationVerified)
	case "Wrong Number", "No Answer":
		order.VerificationStatus = string(models.VerificationUnreachable)
	default:
		return order, nil
	}
	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateItems replaces the order's items wholesale from a raw payload. Lines
// without a resolvable product are skipped; stock is not touched on edits.
func (s *orderService) UpdateItems(orderID uint, rawItems []map[string]interface{}) (*models.Order, error) {
	order, err := s.GetByID(orderID)
	if err != nil {
		return nil, err
	}

	var items []models.OrderItem
	for _, line := range cart.Normalize(rawItems) {
		product, err := s.productRepo.GetByID(line.ProductID)
		if err != nil {
			continue
		}
		name := line.Name
		if name == "" {
			name = product.Name
		}
		price := product.Price
		if line.Price != nil {
			price = *line.Price
		}
		items = append(items, models.OrderItem{
			ProductID:   &product.ID,
			ProductName: name,
			Price:       price,
			Quantity:    line.Quantity,
			Image:       line.Image,
			VariantInfo: datatypes.JSONMap(line.VariantInfo),
		})
	}

	if err := s.itemRepo.ReplaceForOrder(order.ID, items); err != nil {
		return nil, fmt.Errorf("failed to replace order items: %w", err)
	}
	return s.orderRepo.GetByID(order.ID)
}

// PaymentMethodLabel resolves a numeric payment-method reference to the
// configured method's name; anything else is already a label.
func (s *orderService) PaymentMethodLabel(order *models.Order) string {
	method := order.PaymentMethod
	if method == "" || !isDigits(method) {
		return method
	}
	id, err := parseOrderID(method)
	if err != nil {
		return method
	}
	configured, err := s.settingsRepo.GetPaymentMethodByID(id)
	if err != nil {
		return method
	}
	return configured.Name
}

func normalizePaymentMethod(method string) string {
	if label, ok := paymentMethodLabels[strings.ToLower(strings.TrimSpace(method))]; ok {
		return label
	}
	return method
}

func parseOrderID(raw string) (uint, error) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(raw, "#", ""))
	id, err := strconv.ParseUint(cleaned, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid order id %q", raw)
	}
	return uint(id), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
