package services

import (
	"math"

	"store_manager/internal/models"
	"store_manager/internal/repository"
)

// RiskResult is computed at read time and never persisted.
type RiskResult struct {
	Score int    `json:"risk_score"`
	Label string `json:"risk_label"`
}

type RiskService interface {
	Score(order *models.Order) (*RiskResult, error)
}

type riskService struct {
	orderRepo repository.OrderRepository
}

func NewRiskService(orderRepo repository.OrderRepository) RiskService {
	return &riskService{orderRepo: orderRepo}
}

// Score classifies the purchaser by order history. History is every order of
// the linked customer; for guests it is matched by phone, narrowed to the
// order's email when one is present.
func (s *riskService) Score(order *models.Order) (*RiskResult, error) {
	history, err := s.history(order)
	if err != nil {
		return nil, err
	}

	if len(history) <= 1 {
		return &RiskResult{Score: 100, Label: "New User"}, nil
	}

	relevant := 0
	failed := 0
	for _, past := range history {
		if past.Status == string(models.OrderPending) {
			continue
		}
		relevant++
		// A cancelled order with a failed payment still counts once.
		if past.Status == string(models.OrderCancelled) || past.PaymentStatus == string(models.PaymentFailed) {
			failed++
		}
	}
	if relevant == 0 {
		return &RiskResult{Score: 100, Label: "No History"}, nil
	}

	successRate := float64(relevant-failed) / float64(relevant) * 100
	score := int(math.Round(successRate))

	label := "High Probability"
	if successRate < 50 {
		label = "High Risk"
	} else if successRate < 80 {
		label = "Medium Risk"
	}
	return &RiskResult{Score: score, Label: label}, nil
}

func (s *riskService) history(order *models.Order) ([]models.Order, error) {
	if order.CustomerID != nil {
		return s.orderRepo.GetByCustomerID(*order.CustomerID)
	}
	return s.orderRepo.GetByContact(order.Phone, order.Email)
}
