package handlers

import (
	"errors"
	"net/http"

	"store_manager/internal/repository"
	"store_manager/internal/services"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	inventoryService services.InventoryService
}

func NewInventoryHandler(inventoryService services.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

func (h *InventoryHandler) Adjust(c *gin.Context) {
	var req struct {
		ProductID    uint   `json:"product_id"`
		VariantID    *uint  `json:"variant_id"`
		ChangeAmount int    `json:"change_amount"`
		Reason       string `json:"reason"`
		Note         string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	entry, err := h.inventoryService.Adjust(req.ProductID, req.VariantID, req.ChangeAmount, req.Reason, req.Note, actorID(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		case errors.Is(err, services.ErrInvalidReason), errors.Is(err, services.ErrZeroAdjustment):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrInsufficientStock):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Adjustment would take stock below zero"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to adjust stock"})
		}
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *InventoryHandler) History(c *gin.Context) {
	productID, err := pathID(c, "product_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	entries, err := h.inventoryService.History(productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load inventory history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(entries), "results": entries})
}

func (h *InventoryHandler) Reconcile(c *gin.Context) {
	productID, err := pathID(c, "product_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	report, err := h.inventoryService.Reconcile(productID)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reconcile stock"})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *InventoryHandler) ReceivePurchaseOrder(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid purchase order id"})
		return
	}

	po, err := h.inventoryService.ReceivePurchaseOrder(id)
	if err != nil {
		if errors.Is(err, repository.ErrPurchaseOrderClosed) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Purchase order is not open for receiving"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Purchase order not found"})
		return
	}
	c.JSON(http.StatusOK, po)
}
