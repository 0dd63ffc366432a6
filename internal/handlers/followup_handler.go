package handlers

import (
	"net/http"
	"strconv"

	"store_manager/internal/models"
	"store_manager/internal/repository"
	"store_manager/internal/services"

	"github.com/gin-gonic/gin"
)

type FollowUpHandler struct {
	followUpService services.FollowUpService
}

func NewFollowUpHandler(followUpService services.FollowUpService) *FollowUpHandler {
	return &FollowUpHandler{followUpService: followUpService}
}

func (h *FollowUpHandler) Create(c *gin.Context) {
	var followup models.FollowUp
	if err := c.ShouldBindJSON(&followup); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.followUpService.Create(&followup, actorID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create follow-up"})
		return
	}
	c.JSON(http.StatusCreated, followup)
}

func (h *FollowUpHandler) List(c *gin.Context) {
	filter := repository.FollowUpFilter{
		Status:       c.Query("status"),
		FollowupType: c.Query("followup_type"),
	}
	if raw := c.Query("customer"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			customerID := uint(id)
			filter.CustomerID = &customerID
		}
	}
	if raw := c.Query("order"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			orderID := uint(id)
			filter.OrderID = &orderID
		}
	}

	followups, err := h.followUpService.List(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list follow-ups"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(followups), "results": followups})
}

// Pending returns Delivered orders still owed a post-purchase contact.
func (h *FollowUpHandler) Pending(c *gin.Context) {
	orders, err := h.followUpService.PendingOrders()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list pending follow-ups"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "results": orders})
}

// Recurring returns customers due for a re-engagement contact.
func (h *FollowUpHandler) Recurring(c *gin.Context) {
	days := 0
	if raw := c.Query("days"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			days = parsed
		}
	}

	customers, err := h.followUpService.RecurringCustomers(days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list recurring candidates"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(customers), "results": customers})
}

func (h *FollowUpHandler) Stats(c *gin.Context) {
	stats, err := h.followUpService.Stats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
