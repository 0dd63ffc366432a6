package services

import (
	"math"
	"time"

	"store_manager/internal/cache"
	"store_manager/internal/models"
	"store_manager/internal/repository"

	"go.uber.org/zap"
)

type FollowUpStats struct {
	PendingCount   int64   `json:"pending_count"`
	RecurringCount int64   `json:"recurring_count"`
	CallsToday     int64   `json:"calls_today"`
	AvgRating      float64 `json:"avg_rating"`
}

type FollowUpService interface {
	Create(followup *models.FollowUp, moderatorID *uint) error
	List(filter repository.FollowUpFilter) ([]models.FollowUp, error)
	// PendingOrders is the post-purchase set: Delivered orders whose only
	// recorded follow-up, if any, is a deferral.
	PendingOrders() ([]models.Order, error)
	// RecurringCustomers is the re-engagement set for the given day
	// threshold; zero or negative days falls back to the configured default.
	RecurringCustomers(days int) ([]repository.RecurringCustomer, error)
	Stats() (*FollowUpStats, error)
}

type followUpService struct {
	followUpRepo repository.FollowUpRepository
	statsCache   *cache.Client
	statsTTL     time.Duration
	defaultDays  int
	logger       *zap.Logger
}

func NewFollowUpService(
	followUpRepo repository.FollowUpRepository,
	statsCache *cache.Client,
	statsTTL time.Duration,
	defaultDays int,
	logger *zap.Logger,
) FollowUpService {
	if defaultDays <= 0 {
		defaultDays = 30
	}
	return &followUpService{
		followUpRepo: followUpRepo,
		statsCache:   statsCache,
		statsTTL:     statsTTL,
		defaultDays:  defaultDays,
		logger:       logger,
	}
}

func (s *followUpService) Create(followup *models.FollowUp, moderatorID *uint) error {
	followup.ModeratorID = moderatorID
	if followup.FollowupType == "" {
		followup.FollowupType = string(models.FollowUpPostPurchase)
	}
	if followup.Status == "" {
		followup.Status = string(models.FollowUpPending)
	}
	return s.followUpRepo.Create(followup)
}

func (s *followUpService) List(filter repository.FollowUpFilter) ([]models.FollowUp, error) {
	return s.followUpRepo.List(filter)
}

func (s *followUpService) PendingOrders() ([]models.Order, error) {
	return s.followUpRepo.PendingOrders()
}

func (s *followUpService) RecurringCustomers(days int) ([]repository.RecurringCustomer, error) {
	if days <= 0 {
		days = s.defaultDays
	}
	cutoff := time.Now().AddDate(0, 0, -days)
	return s.followUpRepo.RecurringCustomers(cutoff)
}

// Stats uses the same recurring definition as RecurringCustomers, so the
// counter and the list endpoint can never diverge.
func (s *followUpService) Stats() (*FollowUpStats, error) {
	if s.statsCache != nil {
		var cached FollowUpStats
		if err := s.statsCache.GetJSON("followups:stats", &cached); err == nil {
			return &cached, nil
		}
	}

	pending, err := s.followUpRepo.CountPendingOrders()
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().AddDate(0, 0, -s.defaultDays)
	recurring, err := s.followUpRepo.RecurringCustomers(cutoff)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	callsToday, err := s.followUpRepo.CountCreatedSince(startOfDay)
	if err != nil {
		return nil, err
	}

	avgRating, err := s.followUpRepo.AverageRating()
	if err != nil {
		return nil, err
	}

	stats := &FollowUpStats{
		PendingCount:   pending,
		RecurringCount: int64(len(recurring)),
		CallsToday:     callsToday,
		AvgRating:      math.Round(avgRating*10) / 10,
	}

	if s.statsCache != nil {
		if err := s.statsCache.SetJSON("followups:stats", stats, s.statsTTL); err != nil {
			s.logger.Warn("failed to cache follow-up stats", zap.Error(err))
		}
	}
	return stats, nil
}
