package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dhnam02/crm-api/internal/usecase"
)

type OrderHandler struct {
	create *usecase.CreateOrder
	query  *usecase.Queries
}

func NewOrderHandler(create *usecase.CreateOrder, query *usecase.Queries) *OrderHandler {
	return &OrderHandler{create: create, query: query}
}

type createOrderReq struct {
	CustomerID string     `json:"customer_id" binding:"required"`
	ProductIDs []string   `json:"product_ids"`
	OrderDate  *time.Time `json:"order_date"`
}

// POST /v1/orders
func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	out, err := h.create.Execute(ctx, usecase.CreateOrderInput{
		CustomerID: req.CustomerID,
		ProductIDs: req.ProductIDs,
		OrderDate:  req.OrderDate,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order": toOrderResp(*out.Order)})
}

// GET /v1/orders, optionally ?since=RFC3339 for the reminder flow (adds
// customer_email to each row).
func (h *OrderHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if raw := c.Query("since"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "since must be RFC3339"})
			return
		}
		rows, err := h.query.OrdersSince(ctx, since)
		if err != nil {
			writeError(c, err)
			return
		}
		out := make([]orderResp, len(rows))
		for i, row := range rows {
			out[i] = toOrderResp(row.Order)
			out[i].CustomerEmail = row.CustomerEmail
		}
		c.JSON(http.StatusOK, gin.H{"orders": out})
		return
	}

	rows, err := h.query.AllOrders(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]orderResp, len(rows))
	for i, o := range rows {
		out[i] = toOrderResp(o)
	}
	c.JSON(http.StatusOK, gin.H{"orders": out})
}
