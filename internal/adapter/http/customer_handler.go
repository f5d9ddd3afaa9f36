package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dhnam02/crm-api/internal/usecase"
)

type CustomerHandler struct {
	create *usecase.CreateCustomer
	bulk   *usecase.BulkCreateCustomers
	query  *usecase.Queries
}

func NewCustomerHandler(create *usecase.CreateCustomer, bulk *usecase.BulkCreateCustomers, query *usecase.Queries) *CustomerHandler {
	return &CustomerHandler{create: create, bulk: bulk, query: query}
}

type createCustomerReq struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
	Phone string `json:"phone"`
}

// POST /v1/customers
func (h *CustomerHandler) Create(c *gin.Context) {
	var req createCustomerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	out, err := h.create.Execute(ctx, usecase.CreateCustomerInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"customer": toCustomerResp(*out.Customer),
		"message":  out.Message,
	})
}

type bulkCustomersReq struct {
	// items carry no binding tags: per-item problems are reported under the
	// item's index, not as a whole-request rejection
	Customers []struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone"`
	} `json:"customers" binding:"required"`
}

// POST /v1/customers/bulk
func (h *CustomerHandler) BulkCreate(c *gin.Context) {
	var req bulkCustomersReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	in := make([]usecase.CreateCustomerInput, len(req.Customers))
	for i, item := range req.Customers {
		in[i] = usecase.CreateCustomerInput{Name: item.Name, Email: item.Email, Phone: item.Phone}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	out, err := h.bulk.Execute(ctx, in)
	if err != nil {
		writeError(c, err)
		return
	}

	customers := make([]customerResp, len(out.Customers))
	for i, cu := range out.Customers {
		customers[i] = toCustomerResp(cu)
	}
	errs := out.Errors
	if errs == nil {
		errs = []string{}
	}
	c.JSON(http.StatusCreated, gin.H{"customers": customers, "errors": errs})
}

// GET /v1/customers
func (h *CustomerHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	rows, err := h.query.AllCustomers(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]customerResp, len(rows))
	for i, cu := range rows {
		out[i] = toCustomerResp(cu)
	}
	c.JSON(http.StatusOK, gin.H{"customers": out})
}
