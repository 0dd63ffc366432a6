package services

import (
	"time"

	"store_manager/internal/models"
	"store_manager/internal/repository"

	"gorm.io/gorm"
)

// memStore backs the repository interfaces for service tests, mirroring the
// documented repository contracts in memory.
type memStore struct {
	orders     map[uint]*models.Order
	items      map[uint][]models.OrderItem
	products   map[uint]*models.Product
	variants   map[uint]*models.ProductVariant
	ledger     []models.InventoryLog
	customers  map[uint]*models.Customer
	followups  []*models.FollowUp
	methods    map[uint]*models.PaymentMethod
	settings   *models.PaymentSettings
	purchases  map[uint]*models.PurchaseOrder
	verLogs    []models.VerificationLog
	nextID     uint
	nextCustID uint
	nextFUID   uint
}

func newMemStore() *memStore {
	return &memStore{
		orders:    make(map[uint]*models.Order),
		items:     make(map[uint][]models.OrderItem),
		products:  make(map[uint]*models.Product),
		variants:  make(map[uint]*models.ProductVariant),
		customers: make(map[uint]*models.Customer),
		methods:   make(map[uint]*models.PaymentMethod),
		purchases: make(map[uint]*models.PurchaseOrder),
	}
}

func (m *memStore) addProduct(p models.Product) *models.Product {
	m.products[p.ID] = &p
	return &p
}

// --- OrderRepository ---

type fakeOrderRepo struct{ store *memStore }

func (f *fakeOrderRepo) Create(order *models.Order) error {
	f.store.nextID++
	order.ID = f.store.nextID
	order.CreatedAt = time.Now()
	// Column defaults the database would apply.
	if order.VerificationStatus == "" {
		order.VerificationStatus = string(models.VerificationPending)
	}
	if order.ReturnStatus == "" {
		order.ReturnStatus = string(models.ReturnNone)
	}
	saved := *order
	f.store.orders[order.ID] = &saved
	return nil
}

func (f *fakeOrderRepo) GetByID(id uint) (*models.Order, error) {
	order, ok := f.store.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *order
	copied.Items = append([]models.OrderItem(nil), f.store.items[id]...)
	return &copied, nil
}

func (f *fakeOrderRepo) GetByIDAndPhone(id uint, phone string) (*models.Order, error) {
	order, ok := f.store.orders[id]
	if !ok || order.Phone != phone {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *order
	copied.Items = append([]models.OrderItem(nil), f.store.items[id]...)
	return &copied, nil
}

func (f *fakeOrderRepo) GetByCustomerID(customerID uint) ([]models.Order, error) {
	var orders []models.Order
	for _, order := range f.store.orders {
		if order.CustomerID != nil && *order.CustomerID == customerID {
			orders = append(orders, *order)
		}
	}
	return orders, nil
}

func (f *fakeOrderRepo) GetByContact(phone, email string) ([]models.Order, error) {
	var orders []models.Order
	for _, order := range f.store.orders {
		if email != "" {
			if order.Email == email {
				orders = append(orders, *order)
			}
			continue
		}
		if order.Phone == phone {
			orders = append(orders, *order)
		}
	}
	return orders, nil
}

func (f *fakeOrderRepo) List(filter repository.OrderFilter) ([]models.Order, error) {
	var orders []models.Order
	for _, order := range f.store.orders {
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		orders = append(orders, *order)
	}
	return orders, nil
}

func (f *fakeOrderRepo) Update(order *models.Order) error {
	saved := *order
	f.store.orders[order.ID] = &saved
	return nil
}

func (f *fakeOrderRepo) UpdateWithStock(order *models.Order, changes []models.InventoryLog) error {
	if err := f.Update(order); err != nil {
		return err
	}
	for _, change := range changes {
		if product, ok := f.store.products[change.ProductID]; ok {
			product.StockQuantity += change.ChangeAmount
		}
		f.store.ledger = append(f.store.ledger, change)
	}
	return nil
}

func (f *fakeOrderRepo) AddVerificationLog(log *models.VerificationLog) error {
	f.store.verLogs = append(f.store.verLogs, *log)
	return nil
}

func (f *fakeOrderRepo) Stats(filter repository.OrderFilter) (*repository.OrderStats, error) {
	stats := &repository.OrderStats{}
	for _, order := range f.store.orders {
		stats.Count++
		stats.TotalRevenue = stats.TotalRevenue.Add(order.Total)
		stats.TotalLoss = stats.TotalLoss.Add(order.LossAmount)
		if order.Status == string(models.OrderPending) {
			stats.PendingValue = stats.PendingValue.Add(order.Total)
		}
	}
	return stats, nil
}

// --- OrderItemRepository ---

type fakeItemRepo struct{ store *memStore }

func (f *fakeItemRepo) Create(item *models.OrderItem) error {
	item.ID = uint(len(f.store.items[item.OrderID]) + 1)
	f.store.items[item.OrderID] = append(f.store.items[item.OrderID], *item)
	return nil
}

func (f *fakeItemRepo) GetByOrderID(orderID uint) ([]models.OrderItem, error) {
	return append([]models.OrderItem(nil), f.store.items[orderID]...), nil
}

func (f *fakeItemRepo) ReplaceForOrder(orderID uint, items []models.OrderItem) error {
	f.store.items[orderID] = nil
	for i := range items {
		items[i].OrderID = orderID
		f.store.items[orderID] = append(f.store.items[orderID], items[i])
	}
	return nil
}

// --- ProductRepository ---

type fakeProductRepo struct{ store *memStore }

func (f *fakeProductRepo) GetByID(id uint) (*models.Product, error) {
	product, ok := f.store.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *product
	return &copied, nil
}

func (f *fakeProductRepo) GetVariantByID(id uint) (*models.ProductVariant, error) {
	variant, ok := f.store.variants[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *variant
	return &copied, nil
}

// --- InventoryRepository ---

type fakeInventoryRepo struct{ store *memStore }

func (f *fakeInventoryRepo) ApplyChange(entry *models.InventoryLog, enforceFloor bool) (bool, error) {
	product, ok := f.store.products[entry.ProductID]
	if !ok {
		return false, nil
	}
	if enforceFloor && product.StockQuantity+entry.ChangeAmount < 0 {
		return false, nil
	}
	product.StockQuantity += entry.ChangeAmount
	if entry.VariantID != nil {
		if variant, ok := f.store.variants[*entry.VariantID]; ok {
			variant.StockQuantity += entry.ChangeAmount
		}
	}
	entry.CreatedAt = time.Now()
	f.store.ledger = append(f.store.ledger, *entry)
	return true, nil
}

func (f *fakeInventoryRepo) HistoryByProduct(productID uint) ([]models.InventoryLog, error) {
	var entries []models.InventoryLog
	for i := len(f.store.ledger) - 1; i >= 0; i-- {
		if f.store.ledger[i].ProductID == productID {
			entries = append(entries, f.store.ledger[i])
		}
	}
	return entries, nil
}

func (f *fakeInventoryRepo) LedgerSum(productID uint) (int, error) {
	sum := 0
	for _, entry := range f.store.ledger {
		if entry.ProductID == productID {
			sum += entry.ChangeAmount
		}
	}
	return sum, nil
}

func (f *fakeInventoryRepo) GetPurchaseOrder(id uint) (*models.PurchaseOrder, error) {
	po, ok := f.store.purchases[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *po
	return &copied, nil
}

func (f *fakeInventoryRepo) ReceivePurchaseOrder(id uint) (*models.PurchaseOrder, error) {
	po, ok := f.store.purchases[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if po.Status != string(models.PurchaseOrdered) && po.Status != string(models.PurchaseDraft) {
		return nil, repository.ErrPurchaseOrderClosed
	}
	po.Status = string(models.PurchaseReceived)
	for _, item := range po.Items {
		if product, ok := f.store.products[item.ProductID]; ok {
			product.StockQuantity += item.Quantity
		}
		if item.VariantID != nil {
			if variant, ok := f.store.variants[*item.VariantID]; ok {
				variant.StockQuantity += item.Quantity
			}
		}
		f.store.ledger = append(f.store.ledger, models.InventoryLog{
			ProductID:    item.ProductID,
			VariantID:    item.VariantID,
			ChangeAmount: item.Quantity,
			Reason:       string(models.ReasonRestock),
			Note:         "Received PO #" + po.OrderNumber,
		})
	}
	copied := *po
	return &copied, nil
}

// --- CustomerRepository ---

type fakeCustomerRepo struct{ store *memStore }

func (f *fakeCustomerRepo) Create(customer *models.Customer) error {
	f.store.nextCustID++
	customer.ID = f.store.nextCustID
	saved := *customer
	f.store.customers[customer.ID] = &saved
	return nil
}

func (f *fakeCustomerRepo) GetByID(id uint) (*models.Customer, error) {
	customer, ok := f.store.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *customer
	return &copied, nil
}

func (f *fakeCustomerRepo) GetByPhone(phone string) (*models.Customer, error) {
	for _, customer := range f.store.customers {
		if customer.PhoneNumber != nil && *customer.PhoneNumber == phone {
			copied := *customer
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCustomerRepo) Update(customer *models.Customer) error {
	saved := *customer
	f.store.customers[customer.ID] = &saved
	return nil
}

// --- SettingsRepository ---

type fakeSettingsRepo struct{ store *memStore }

func (f *fakeSettingsRepo) GetPaymentSettings() (*models.PaymentSettings, error) {
	if f.store.settings == nil {
		f.store.settings = &models.PaymentSettings{ID: models.PaymentSettingsID}
	}
	copied := *f.store.settings
	return &copied, nil
}

func (f *fakeSettingsRepo) UpdatePaymentSettings(settings *models.PaymentSettings) error {
	saved := *settings
	f.store.settings = &saved
	return nil
}

func (f *fakeSettingsRepo) ListPaymentMethods(activeOnly bool) ([]models.PaymentMethod, error) {
	var methods []models.PaymentMethod
	for _, method := range f.store.methods {
		if activeOnly && !method.IsActive {
			continue
		}
		methods = append(methods, *method)
	}
	return methods, nil
}

func (f *fakeSettingsRepo) GetPaymentMethodByID(id uint) (*models.PaymentMethod, error) {
	method, ok := f.store.methods[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *method
	return &copied, nil
}

func (f *fakeSettingsRepo) CreatePaymentMethod(method *models.PaymentMethod) error {
	if method.ID == 0 {
		method.ID = uint(len(f.store.methods) + 1)
	}
	f.store.methods[method.ID] = method
	return nil
}

func (f *fakeSettingsRepo) UpdatePaymentMethod(method *models.PaymentMethod) error {
	f.store.methods[method.ID] = method
	return nil
}

// --- FollowUpRepository ---

type fakeFollowUpRepo struct{ store *memStore }

func (f *fakeFollowUpRepo) Create(followup *models.FollowUp) error {
	f.store.nextFUID++
	followup.ID = f.store.nextFUID
	if followup.CreatedAt.IsZero() {
		followup.CreatedAt = time.Now()
	}
	saved := *followup
	f.store.followups = append(f.store.followups, &saved)
	return nil
}

func (f *fakeFollowUpRepo) GetByID(id uint) (*models.FollowUp, error) {
	for _, followup := range f.store.followups {
		if followup.ID == id {
			copied := *followup
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeFollowUpRepo) List(filter repository.FollowUpFilter) ([]models.FollowUp, error) {
	var followups []models.FollowUp
	for _, followup := range f.store.followups {
		if filter.Status != "" && followup.Status != filter.Status {
			continue
		}
		if filter.FollowupType != "" && followup.FollowupType != filter.FollowupType {
			continue
		}
		followups = append(followups, *followup)
	}
	return followups, nil
}

func (f *fakeFollowUpRepo) Update(followup *models.FollowUp) error {
	for i, existing := range f.store.followups {
		if existing.ID == followup.ID {
			saved := *followup
			f.store.followups[i] = &saved
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeFollowUpRepo) completedPostPurchase(orderID uint) bool {
	for _, followup := range f.store.followups {
		if followup.OrderID == nil || *followup.OrderID != orderID {
			continue
		}
		if followup.FollowupType == string(models.FollowUpPostPurchase) &&
			followup.Status != string(models.FollowUpLater) {
			return true
		}
	}
	return false
}

func (f *fakeFollowUpRepo) PendingOrders() ([]models.Order, error) {
	var orders []models.Order
	for _, order := range f.store.orders {
		if order.Status != string(models.OrderDelivered) {
			continue
		}
		if f.completedPostPurchase(order.ID) {
			continue
		}
		orders = append(orders, *order)
	}
	return orders, nil
}

func (f *fakeFollowUpRepo) CountPendingOrders() (int64, error) {
	orders, err := f.PendingOrders()
	return int64(len(orders)), err
}

func (f *fakeFollowUpRepo) RecurringCustomers(cutoff time.Time) ([]repository.RecurringCustomer, error) {
	lastFollowup := make(map[uint]time.Time)
	for _, followup := range f.store.followups {
		if followup.CustomerID == nil {
			continue
		}
		if existing, ok := lastFollowup[*followup.CustomerID]; !ok || followup.CreatedAt.After(existing) {
			lastFollowup[*followup.CustomerID] = followup.CreatedAt
		}
	}

	var rows []repository.RecurringCustomer
	for id, customer := range f.store.customers {
		row := repository.RecurringCustomer{ID: id, CustomerName: customer.DisplayName(), Email: customer.Email, Phone: customer.PhoneNumber}
		delivered := 0
		for _, order := range f.store.orders {
			if order.CustomerID == nil || *order.CustomerID != id || order.Status != string(models.OrderDelivered) {
				continue
			}
			delivered++
			row.TotalSpent = row.TotalSpent.Add(order.Total)
			if order.CreatedAt.After(row.LastOrderDate) {
				row.LastOrderDate = order.CreatedAt
			}
		}
		if delivered == 0 {
			continue
		}
		row.OrderCount = delivered
		if last, ok := lastFollowup[id]; ok {
			if !last.Before(cutoff) {
				continue
			}
			lastCopy := last
			row.LastFollowupDate = &lastCopy
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (f *fakeFollowUpRepo) CountCreatedSince(t time.Time) (int64, error) {
	var count int64
	for _, followup := range f.store.followups {
		if !followup.CreatedAt.Before(t) {
			count++
		}
	}
	return count, nil
}

func (f *fakeFollowUpRepo) AverageRating() (float64, error) {
	if len(f.store.followups) == 0 {
		return 0, nil
	}
	sum := 0
	for _, followup := range f.store.followups {
		sum += followup.Rating
	}
	return float64(sum) / float64(len(f.store.followups)), nil
}
