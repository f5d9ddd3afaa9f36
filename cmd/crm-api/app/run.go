package app

import (
	"context"
	"database/sql"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/rabbitmq/amqp091-go"

	"github.com/dhnam02/crm-api/configs"
	httpadapter "github.com/dhnam02/crm-api/internal/adapter/http"
	"github.com/dhnam02/crm-api/internal/adapter/http/middleware"
	"github.com/dhnam02/crm-api/internal/adapter/queue"
	"github.com/dhnam02/crm-api/internal/adapter/repo"
	"github.com/dhnam02/crm-api/internal/logging"
	"github.com/dhnam02/crm-api/internal/usecase"
)

type App struct {
	Router *gin.Engine
}

func InitWithConfig(cfg configs.Config) (*App, func(), error) {
	logger := logging.Init("crm-api", cfg.App.LogFile, cfg.App.LogLevel)

	// init database
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		return nil, nil, err
	}
	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	logger.Info("crm-api: starting up", "addr", cfg.App.HTTPAddr)

	// init rabbitmq; events are best effort, the API serves without a broker
	var events usecase.EventPublisher
	var rabbitConn *amqp091.Connection
	if conn, err := amqp091.Dial(cfg.Rabbit.URL); err != nil {
		logger.Warn("rabbitmq unavailable, events disabled", "err", err)
	} else if ch, err := conn.Channel(); err != nil {
		logger.Warn("rabbitmq channel failed, events disabled", "err", err)
		_ = conn.Close()
	} else if producer, err := queue.NewRabbitProducer(ch, cfg.Rabbit.Exchange); err != nil {
		logger.Warn("rabbitmq exchange declare failed, events disabled", "err", err)
		_ = conn.Close()
	} else {
		rabbitConn = conn
		events = producer
	}

	// infra
	customerRepo := repo.NewMySQLCustomerRepo(db)
	productRepo := repo.NewMySQLProductRepo(db)
	orderRepo := repo.NewMySQLOrderRepo(db)

	// usecases
	ucLog := logging.New("usecase")
	createCustomer := usecase.NewCreateCustomer(customerRepo, events, ucLog)
	bulkCustomers := usecase.NewBulkCreateCustomers(customerRepo, events, ucLog)
	createProduct := usecase.NewCreateProduct(productRepo)
	restock := usecase.NewRestockLowStock(productRepo, cfg.Catalog.LowStockThreshold, cfg.Catalog.RestockIncrement)
	createOrder := usecase.NewCreateOrder(customerRepo, productRepo, orderRepo, events, ucLog)
	queries := usecase.NewQueries(customerRepo, productRepo, orderRepo, ucLog)
	report := usecase.NewGenerateReport(customerRepo, orderRepo)

	// handlers + router
	h := httpadapter.Handlers{
		Customers: httpadapter.NewCustomerHandler(createCustomer, bulkCustomers, queries),
		Products:  httpadapter.NewProductHandler(createProduct, restock, queries),
		Orders:    httpadapter.NewOrderHandler(createOrder, queries),
		Report:    httpadapter.NewReportHandler(report),
		Token:     httpadapter.NewTokenHandler(cfg),
	}
	authz := middleware.NewAuthz(cfg)
	router := httpadapter.NewRouter(h, authz)

	cleanup := func() {
		_ = db.Close()
		if rabbitConn != nil {
			_ = rabbitConn.Close()
		}
	}

	return &App{Router: router}, cleanup, nil
}
