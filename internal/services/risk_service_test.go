package services

import (
	"testing"

	"store_manager/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedHistory(store *memStore, customerID uint, orders ...models.Order) {
	for i := range orders {
		store.nextID++
		orders[i].ID = store.nextID
		id := customerID
		orders[i].CustomerID = &id
		saved := orders[i]
		store.orders[saved.ID] = &saved
	}
}

func TestRiskScoreFirstOrderIsNewUser(t *testing.T) {
	store := newMemStore()
	svc := NewRiskService(&fakeOrderRepo{store})

	seedHistory(store, 1, models.Order{Status: "Pending"})
	customerID := uint(1)

	result, err := svc.Score(&models.Order{CustomerID: &customerID})
	require.NoError(t, err)
	assert.Equal(t, 100, result.Score)
	assert.Equal(t, "New User", result.Label)
}

func TestRiskScorePendingOnlyHistoryIsNoHistory(t *testing.T) {
	store := newMemStore()
	svc := NewRiskService(&fakeOrderRepo{store})

	seedHistory(store, 1,
		models.Order{Status: "Pending"},
		models.Order{Status: "Pending"},
		models.Order{Status: "Pending"},
	)
	customerID := uint(1)

	result, err := svc.Score(&models.Order{CustomerID: &customerID})
	require.NoError(t, err)
	assert.Equal(t, 100, result.Score)
	assert.Equal(t, "No History", result.Label)
}

func TestRiskScoreCleanHistoryIsHighProbability(t *testing.T) {
	store := newMemStore()
	svc := NewRiskService(&fakeOrderRepo{store})

	for i := 0; i < 10; i++ {
		seedHistory(store, 1, models.Order{Status: "Delivered", PaymentStatus: "Paid"})
	}
	customerID := uint(1)

	result, err := svc.Score(&models.Order{CustomerID: &customerID})
	require.NoError(t, err)
	assert.Equal(t, 100, result.Score)
	assert.Equal(t, "High Probability", result.Label)
}

func TestRiskScoreMostlyFailedHistoryIsHighRisk(t *testing.T) {
	store := newMemStore()
	svc := NewRiskService(&fakeOrderRepo{store})

	// 10 relevant orders, 6 bad: 40% success.
	seedHistory(store, 1,
		models.Order{Status: "Delivered", PaymentStatus: "Paid"},
		models.Order{Status: "Delivered", PaymentStatus: "Paid"},
		models.Order{Status: "Delivered", PaymentStatus: "Paid"},
		models.Order{Status: "Delivered", PaymentStatus: "Paid"},
		models.Order{Status: "Cancelled", PaymentStatus: "Pending"},
		models.Order{Status: "Cancelled", PaymentStatus: "Pending"},
		models.Order{Status: "Cancelled", PaymentStatus: "Pending"},
		models.Order{Status: "Delivered", PaymentStatus: "Failed"},
		models.Order{Status: "Delivered", PaymentStatus: "Failed"},
		models.Order{Status: "Delivered", PaymentStatus: "Failed"},
	)
	customerID := uint(1)

	result, err := svc.Score(&models.Order{CustomerID: &customerID})
	require.NoError(t, err)
	assert.Equal(t, 40, result.Score)
	assert.Equal(t, "High Risk", result.Label)
}

func TestRiskScoreMediumRiskBand(t *testing.T) {
	store := newMemStore()
	svc := NewRiskService(&fakeOrderRepo{store})

	// 4 relevant orders, 1 bad: 75% success.
	seedHistory(store, 1,
		models.Order{Status: "Delivered", PaymentStatus: "Paid"},
		models.Order{Status: "Delivered", PaymentStatus: "Paid"},
		models.Order{Status: "Delivered", PaymentStatus: "Paid"},
		models.Order{Status: "Cancelled", PaymentStatus: "Pending"},
	)
	customerID := uint(1)

	result, err := svc.Score(&models.Order{CustomerID: &customerID})
	require.NoError(t, err)
	assert.Equal(t, 75, result.Score)
	assert.Equal(t, "Medium Risk", result.Label)
}

func TestRiskScoreCancelledWithFailedPaymentCountsOnce(t *testing.T) {
	store := newMemStore()
	svc := NewRiskService(&fakeOrderRepo{store})

	// One doubly-bad order out of two relevant: 50%, not 0%.
	seedHistory(store, 1,
		models.Order{Status: "Delivered", PaymentStatus: "Paid"},
		models.Order{Status: "Cancelled", PaymentStatus: "Failed"},
	)
	customerID := uint(1)

	result, err := svc.Score(&models.Order{CustomerID: &customerID})
	require.NoError(t, err)
	assert.Equal(t, 50, result.Score)
	assert.Equal(t, "Medium Risk", result.Label)
}

func TestRiskScoreGuestHistoryByContact(t *testing.T) {
	store := newMemStore()
	svc := NewRiskService(&fakeOrderRepo{store})

	// Unlinked orders sharing the same phone.
	for _, status := range []string{"Delivered", "Delivered", "Cancelled"} {
		store.nextID++
		store.orders[store.nextID] = &models.Order{
			ID: store.nextID, Phone: "01766666666", Status: status, PaymentStatus: "Pending",
		}
	}

	result, err := svc.Score(&models.Order{Phone: "01766666666"})
	require.NoError(t, err)
	assert.Equal(t, 67, result.Score)
	assert.Equal(t, "Medium Risk", result.Label)
}

func TestRiskScoreEmailNarrowsGuestHistory(t *testing.T) {
	store := newMemStore()
	svc := NewRiskService(&fakeOrderRepo{store})

	// A shared phone with someone else's email must not taint the score.
	for i := 0; i < 2; i++ {
		store.nextID++
		store.orders[store.nextID] = &models.Order{
			ID: store.nextID, Phone: "01766666666", Email: "other@example.com",
			Status: "Cancelled", PaymentStatus: "Pending",
		}
	}

	result, err := svc.Score(&models.Order{Phone: "01766666666", Email: "mine@example.com"})
	require.NoError(t, err)
	assert.Equal(t, 100, result.Score)
	assert.Equal(t, "New User", result.Label)

	// Without an email the phone history still applies.
	result, err = svc.Score(&models.Order{Phone: "01766666666"})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, "High Risk", result.Label)
}
