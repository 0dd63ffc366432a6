package services

import (
	"strings"

	"store_manager/internal/models"
	"store_manager/internal/repository"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// IdentityService converts guest orders into customer accounts without
// creating duplicates, and lazily back-fills profile fields from order data.
type IdentityService interface {
	// ResolveGuest finds or creates a customer for the order's phone number
	// and links it. Returns nil without error when the order has no phone.
	ResolveGuest(order *models.Order) (*models.Customer, error)
	// BackfillProfile copies a usable name and the order's addresses onto the
	// customer, only where the customer has nothing yet. Never overwrites.
	BackfillProfile(customer *models.Customer, order *models.Order) error
}

type identityService struct {
	customerRepo repository.CustomerRepository
	logger       *zap.Logger
}

func NewIdentityService(customerRepo repository.CustomerRepository, logger *zap.Logger) IdentityService {
	return &identityService{customerRepo: customerRepo, logger: logger}
}

func (s *identityService) ResolveGuest(order *models.Order) (*models.Customer, error) {
	phone := strings.TrimSpace(order.Phone)
	if phone == "" {
		return nil, nil
	}

	existing, err := s.customerRepo.GetByPhone(phone)
	if err == nil && existing != nil {
		s.logger.Info("linked guest order to existing customer", zap.Uint("customer_id", existing.ID))
		return existing, nil
	}

	firstName, lastName := splitName(order.CustomerName)
	if firstName == "" {
		firstName = "Guest"
	}
	customer := &models.Customer{
		Username:      phone, // phone doubles as the unique handle
		PhoneNumber:   &phone,
		Email:         order.Email,
		FirstName:     firstName,
		LastName:      lastName,
		LoginDisabled: true, // no password; OTP is the only login path
	}
	if err := s.customerRepo.Create(customer); err != nil {
		return nil, err
	}
	s.logger.Info("created customer for guest order", zap.Uint("customer_id", customer.ID))
	return customer, nil
}

func (s *identityService) BackfillProfile(customer *models.Customer, order *models.Order) error {
	if customer == nil {
		return nil
	}

	changed := false

	if isPlaceholderName(customer.FirstName) {
		first, last := nameFromOrder(order)
		if first != "" {
			customer.FirstName = first
			customer.LastName = last
			changed = true
		}
	}

	if !hasTruthyValue(customer.ShippingAddress) && hasTruthyValue(order.ShippingAddress) {
		customer.ShippingAddress = datatypes.JSONMap(order.ShippingAddress)
		changed = true
		if !hasTruthyValue(customer.BillingAddress) {
			customer.BillingAddress = datatypes.JSONMap(order.ShippingAddress)
		}
	}

	if !changed {
		return nil
	}
	return s.customerRepo.Update(customer)
}

// nameFromOrder extracts a human name, preferring the shipping address over
// the order's customer_name snapshot.
func nameFromOrder(order *models.Order) (string, string) {
	addr := order.ShippingAddress

	first := addrString(addr, "first_name", "firstName")
	last := addrString(addr, "last_name", "lastName")
	if first != "" {
		return first, last
	}

	if name := addrString(addr, "name"); name != "" {
		return splitName(name)
	}

	if name := strings.TrimSpace(order.CustomerName); name != "" && !isPlaceholderName(name) {
		return splitName(name)
	}
	return "", ""
}

func splitName(name string) (string, string) {
	parts := strings.Fields(strings.TrimSpace(name))
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// isPlaceholderName reports whether a first name is empty, purely numeric
// (phone used as a name) or the generic guest marker.
func isPlaceholderName(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || name == "Guest" {
		return true
	}
	stripped := strings.ReplaceAll(name, " ", "")
	for _, r := range stripped {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func addrString(addr map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if s, ok := addr[key].(string); ok {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

// hasTruthyValue reports whether any field of a structured address carries a
// usable value.
func hasTruthyValue(addr map[string]interface{}) bool {
	for _, v := range addr {
		switch val := v.(type) {
		case nil:
			continue
		case string:
			if strings.TrimSpace(val) != "" {
				return true
			}
		case bool:
			if val {
				return true
			}
		case float64:
			if val != 0 {
				return true
			}
		default:
			return true
		}
	}
	return false
}
