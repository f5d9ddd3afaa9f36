package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/dhnam02/crm-api/internal/entity"
	"github.com/dhnam02/crm-api/internal/logging"
	"github.com/dhnam02/crm-api/internal/usecase"
)

// Wire shapes. Money travels as fixed two-decimal strings so clients never
// see float artifacts.

type customerResp struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toCustomerResp(c domain.Customer) customerResp {
	return customerResp{ID: c.ID, Name: c.Name, Email: c.Email, Phone: c.Phone, CreatedAt: c.CreatedAt}
}

type productResp struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     string    `json:"price"`
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"created_at"`
}

func toProductResp(p domain.Product) productResp {
	return productResp{ID: p.ID, Name: p.Name, Price: p.Price.StringFixed(2), Stock: p.Stock, CreatedAt: p.CreatedAt}
}

type orderResp struct {
	ID            string    `json:"id"`
	CustomerID    string    `json:"customer_id"`
	ProductIDs    []string  `json:"product_ids,omitempty"`
	OrderDate     time.Time `json:"order_date"`
	TotalAmount   string    `json:"total_amount"`
	CustomerEmail string    `json:"customer_email,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func toOrderResp(o domain.Order) orderResp {
	return orderResp{
		ID:          o.ID,
		CustomerID:  o.CustomerID,
		ProductIDs:  o.ProductIDs,
		OrderDate:   o.OrderDate,
		TotalAmount: o.TotalAmount.StringFixed(2),
		CreatedAt:   o.CreatedAt,
	}
}

// writeError maps the usecase error taxonomy onto HTTP statuses. Validation
// messages are user-facing and pass through verbatim; everything else is
// logged and masked.
func writeError(c *gin.Context, err error) {
	if usecase.IsValidation(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var txErr *usecase.TxError
	if errors.As(err, &txErr) {
		logging.From(c).Error("transaction failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "transaction_failed"})
		return
	}
	logging.From(c).Error("internal error", "err", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
}
