package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/dhnam02/crm-api/internal/usecase"
)

type ProductHandler struct {
	create  *usecase.CreateProduct
	restock *usecase.RestockLowStock
	query   *usecase.Queries
}

func NewProductHandler(create *usecase.CreateProduct, restock *usecase.RestockLowStock, query *usecase.Queries) *ProductHandler {
	return &ProductHandler{create: create, restock: restock, query: query}
}

type createProductReq struct {
	Name string `json:"name" binding:"required"`
	// price accepts a JSON number or string; validation (including the
	// positive check) happens in the usecase so the error message is exact
	Price decimal.Decimal `json:"price"`
	Stock *int            `json:"stock"`
}

// POST /v1/products
func (h *ProductHandler) Create(c *gin.Context) {
	var req createProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	out, err := h.create.Execute(ctx, usecase.CreateProductInput{
		Name:  req.Name,
		Price: req.Price,
		Stock: req.Stock,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": toProductResp(*out.Product)})
}

// POST /v1/products/restock-low
func (h *ProductHandler) RestockLow(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	out, err := h.restock.Execute(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	products := make([]productResp, len(out.Products))
	for i, p := range out.Products {
		products[i] = toProductResp(p)
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "message": out.Message})
}

// GET /v1/products
func (h *ProductHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	rows, err := h.query.AllProducts(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]productResp, len(rows))
	for i, p := range rows {
		out[i] = toProductResp(p)
	}
	c.JSON(http.StatusOK, gin.H{"products": out})
}
