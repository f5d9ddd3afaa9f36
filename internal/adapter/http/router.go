package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dhnam02/crm-api/internal/adapter/http/middleware"
	"github.com/dhnam02/crm-api/internal/logging"
)

type Handlers struct {
	Customers *CustomerHandler
	Products  *ProductHandler
	Orders    *OrderHandler
	Report    *ReportHandler
	Token     *TokenHandler
}

func NewRouter(h Handlers, authz *middleware.Authz) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Metrics())
	r.Use(middleware.Logging(logging.New("http")))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/v1/token", h.Token.IssueToken)

	v1 := r.Group("/v1")
	{
		v1.POST("/customers", authz.Require("crm.write"), h.Customers.Create)
		v1.POST("/customers/bulk", authz.Require("crm.write"), h.Customers.BulkCreate)
		v1.GET("/customers", authz.Require("crm.read"), h.Customers.List)

		v1.POST("/products", authz.Require("crm.write"), h.Products.Create)
		v1.POST("/products/restock-low", authz.Require("crm.write"), h.Products.RestockLow)
		v1.GET("/products", authz.Require("crm.read"), h.Products.List)

		v1.POST("/orders", authz.Require("crm.write"), h.Orders.Create)
		v1.GET("/orders", authz.Require("crm.read"), h.Orders.List)

		v1.GET("/report", authz.Require("crm.read"), h.Report.Report)
	}

	return r
}
