package handlers

import (
	"net/http"

	"store_manager/internal/models"
	"store_manager/internal/repository"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	settingsRepo repository.SettingsRepository
}

func NewSettingsHandler(settingsRepo repository.SettingsRepository) *SettingsHandler {
	return &SettingsHandler{settingsRepo: settingsRepo}
}

// GetPaymentSettings always returns the single global row, creating it with
// defaults on first access.
func (h *SettingsHandler) GetPaymentSettings(c *gin.Context) {
	settings, err := h.settingsRepo.GetPaymentSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payment settings"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *SettingsHandler) UpdatePaymentSettings(c *gin.Context) {
	settings, err := h.settingsRepo.GetPaymentSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payment settings"})
		return
	}
	if err := c.ShouldBindJSON(settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if err := h.settingsRepo.UpdatePaymentSettings(settings); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment settings"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *SettingsHandler) ListPaymentMethods(c *gin.Context) {
	methods, err := h.settingsRepo.ListPaymentMethods(c.Query("active") == "true")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list payment methods"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(methods), "results": methods})
}

func (h *SettingsHandler) CreatePaymentMethod(c *gin.Context) {
	var method models.PaymentMethod
	if err := c.ShouldBindJSON(&method); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if err := h.settingsRepo.CreatePaymentMethod(&method); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment method"})
		return
	}
	c.JSON(http.StatusCreated, method)
}

func (h *SettingsHandler) UpdatePaymentMethod(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment method id"})
		return
	}

	method, err := h.settingsRepo.GetPaymentMethodByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment method not found"})
		return
	}
	if err := c.ShouldBindJSON(method); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	method.ID = id
	if err := h.settingsRepo.UpdatePaymentMethod(method); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment method"})
		return
	}
	c.JSON(http.StatusOK, method)
}
