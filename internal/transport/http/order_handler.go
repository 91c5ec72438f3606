package handlers

import (
	"net/http"
	"strconv"

	"learnhub/internal/application/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrderHandler struct {
	billing *usecase.BillingUseCase
}

func NewOrderHandler(b *usecase.BillingUseCase) *OrderHandler {
	return &OrderHandler{billing: b}
}

// GET /api/v1/plans
func (h *OrderHandler) GetPlans(c *gin.Context) {
	plans, err := h.billing.Plans(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load plans"})
		return
	}
	c.JSON(http.StatusOK, plans)
}

type checkoutReq struct {
	BillingName  string                 `json:"billing_name"`
	BillingEmail string                 `json:"billing_email" binding:"required,email"`
	Items        []usecase.CheckoutItem `json:"items" binding:"required,min=1"`
}

// POST /api/v1/checkout — корзина приходит с фронта, цены считаем сами
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req checkoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.billing.Checkout(c, currentUser(c), req.BillingName, req.BillingEmail, req.Items)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// GET /api/v1/my/orders
func (h *OrderHandler) MyOrders(c *gin.Context) {
	orders, err := h.billing.MyOrders(c, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// === АДМИНКА ===

// GET /api/v1/admin/orders?status=pending
func (h *OrderHandler) ListOrders(c *gin.Context) {
	status := c.Query("status")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 {
		limit = 20
	}

	orders, total, err := h.billing.ListOrders(c, status, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "total": total})
}

// PATCH /api/v1/admin/orders/:id/status
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}
	var req struct {
		Status string `json:"status" binding:"required,oneof=pending processing completed cancelled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.billing.UpdateOrderStatus(c, orderID, req.Status); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
