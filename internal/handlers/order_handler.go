package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"store_manager/internal/models"
	"store_manager/internal/repository"
	"store_manager/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type OrderHandler struct {
	orderService services.OrderService
	riskService  services.RiskService
}

func NewOrderHandler(orderService services.OrderService, riskService services.RiskService) *OrderHandler {
	return &OrderHandler{orderService: orderService, riskService: riskService}
}

// orderView flattens the order with its read-time risk classification.
type orderView struct {
	*models.Order
	RiskScore          int    `json:"risk_score"`
	RiskLabel          string `json:"risk_label"`
	PaymentMethodLabel string `json:"payment_method_label"`
}

func (h *OrderHandler) view(order *models.Order) orderView {
	view := orderView{Order: order, PaymentMethodLabel: h.orderService.PaymentMethodLabel(order)}
	if risk, err := h.riskService.Score(order); err == nil {
		view.RiskScore = risk.Score
		view.RiskLabel = risk.Label
	}
	return view
}

type createOrderRequest struct {
	CustomerName    string                   `json:"customer_name"`
	Email           string                   `json:"email"`
	Phone           string                   `json:"phone"`
	ShippingAddress map[string]interface{}   `json:"shipping_address"`
	PaymentMethod   string                   `json:"payment_method"`
	PaymentStatus   string                   `json:"payment_status"`
	TransactionID   *string                  `json:"transaction_id"`
	Subtotal        decimal.Decimal          `json:"subtotal"`
	ShippingCost    decimal.Decimal          `json:"shipping_cost"`
	Total           decimal.Decimal          `json:"total"`
	CartItems       []map[string]interface{} `json:"cart_items"`
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	order, err := h.orderService.Create(&services.CreateOrderRequest{
		CustomerID:      actorID(c),
		CustomerName:    req.CustomerName,
		Email:           req.Email,
		Phone:           req.Phone,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   req.PaymentStatus,
		TransactionID:   req.TransactionID,
		Subtotal:        req.Subtotal,
		ShippingCost:    req.ShippingCost,
		Total:           req.Total,
		CartItems:       req.CartItems,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrShippingAddressRequired):
			c.JSON(http.StatusBadRequest, gin.H{"shipping_address": "Shipping address is required and cannot be empty."})
		case errors.Is(err, services.ErrPaymentMethodRequired):
			c.JSON(http.StatusBadRequest, gin.H{"payment_method": "Payment method is required."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		}
		return
	}
	c.JSON(http.StatusCreated, h.view(order))
}

func (h *OrderHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}
	order, err := h.orderService.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	c.JSON(http.StatusOK, h.view(order))
}

func (h *OrderHandler) List(c *gin.Context) {
	filter := repository.OrderFilter{
		Status:        c.Query("status"),
		PaymentStatus: c.Query("payment_status"),
	}
	if raw := c.Query("customer"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			customerID := uint(id)
			filter.CustomerID = &customerID
		}
	}

	orders, err := h.orderService.List(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list orders"})
		return
	}
	views := make([]orderView, 0, len(orders))
	for i := range orders {
		views = append(views, h.view(&orders[i]))
	}
	c.JSON(http.StatusOK, gin.H{"count": len(views), "results": views})
}

func (h *OrderHandler) Stats(c *gin.Context) {
	filter := repository.OrderFilter{
		Status:        c.Query("status"),
		PaymentStatus: c.Query("payment_status"),
	}
	stats, err := h.orderService.Stats(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *OrderHandler) Ship(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	var req struct {
		CourierName string `json:"courier_name"`
	}
	// Body is optional; courier defaults to Manual.
	c.ShouldBindJSON(&req)

	result, err := h.orderService.Ship(id, req.CourierName)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to ship order"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":          result.Order.Status,
		"tracking_number": result.TrackingNumber,
		"label_url":       result.LabelURL,
	})
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	order, err := h.orderService.Cancel(id, actorID(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		case errors.Is(err, services.ErrCannotCancel):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot cancel order in current status"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel order"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": order.Status})
}

func (h *OrderHandler) ResolveReturn(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	var req struct {
		Action string `json:"action"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	resolution, err := h.orderService.ResolveReturn(id, req.Action)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		case errors.Is(err, services.ErrInvalidReturnAction):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action. Must be Returned or Lost."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve return"})
		}
		return
	}
	lossAmount, _ := resolution.LossAmount.Float64()
	c.JSON(http.StatusOK, gin.H{
		"status":        "Return marked as " + resolution.ReturnStatus,
		"return_status": resolution.ReturnStatus,
		"loss_amount":   lossAmount,
	})
}

func (h *OrderHandler) Track(c *gin.Context) {
	orderID := c.Query("id")
	phone := c.Query("phone")
	if orderID == "" || phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Both Order ID and Phone Number are required."})
		return
	}

	order, err := h.orderService.Track(orderID, phone)
	if err != nil {
		if errors.Is(err, services.ErrInvalidOrderID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Order ID format."})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found with provided details."})
		return
	}
	c.JSON(http.StatusOK, h.view(order))
}

func (h *OrderHandler) AddLog(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	var req struct {
		Action  string `json:"action"`
		Outcome string `json:"outcome"`
		Note    string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	order, err := h.orderService.AddVerificationLog(id, actorID(c), req.Action, req.Outcome, req.Note)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record log"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"verification_status": order.VerificationStatus})
}

func (h *OrderHandler) UpdateItems(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	var req struct {
		Items []map[string]interface{} `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	order, err := h.orderService.UpdateItems(id, req.Items)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update items"})
		return
	}
	c.JSON(http.StatusOK, h.view(order))
}

func pathID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// actorID reads the acting identity forwarded by the auth layer, which sits
// outside this service.
func actorID(c *gin.Context) *uint {
	raw := c.GetHeader("X-Customer-ID")
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil
	}
	actor := uint(id)
	return &actor
}
