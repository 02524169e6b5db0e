package main

import (
	"net/http"

	checkoutapp "github.com/aditpras/storefront/application/checkout"
	orderapp "github.com/aditpras/storefront/application/order"
	paymentapp "github.com/aditpras/storefront/application/payment"
	productapp "github.com/aditpras/storefront/application/product"
	userapp "github.com/aditpras/storefront/application/user"
	"github.com/aditpras/storefront/cmd/config"
	redisclient "github.com/aditpras/storefront/cmd/redis"
	_ "github.com/aditpras/storefront/docs"
	orderRepo "github.com/aditpras/storefront/repository/order"
	productRepo "github.com/aditpras/storefront/repository/product"
	redisRepo "github.com/aditpras/storefront/repository/redis"
	stockRepo "github.com/aditpras/storefront/repository/stock"
	txRepo "github.com/aditpras/storefront/repository/tx"
	userRepo "github.com/aditpras/storefront/repository/user"
	"github.com/aditpras/storefront/thirdparty/paygate"
	"github.com/aditpras/storefront/thirdparty/rabbitmq"
	"github.com/aditpras/storefront/transport"
	"github.com/aditpras/storefront/utils/logger"
	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// @title STOREFRONT API
// @version 1.0
// @description Storefront checkout API Documentation
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration from environment variables
	cfg := config.Load()

	// Initialize global logger
	if err := logger.Init(cfg.Environment); err != nil {
		// fallback to standard log if zap init fails
		panic(err)
	}
	defer logger.Close()

	logger.Info("Starting server", zap.String("env", cfg.Environment))

	// Connect to database
	db, err := sqlx.Connect("mysql", cfg.GetDSN())
	if err != nil {
		logger.Fatal("err connect db", zap.Error(err))
	}

	// Initialize Redis client
	if err := redisclient.New(cfg); err != nil {
		logger.Fatal("err connect redis", zap.Error(err))
	}
	defer func() {
		_ = redisclient.Close()
	}()

	// Set database connection pool settings
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// Connect to RabbitMQ for order confirmations
	publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQ.Host, cfg.RabbitMQ.Port, cfg.RabbitMQ.User, cfg.RabbitMQ.Password)
	if err != nil {
		logger.Fatal("err connect rabbitmq", zap.Error(err))
	}
	defer func() {
		_ = publisher.Close()
	}()

	// Initialize repositories
	UserRepo := userRepo.NewUserRepository(db)
	RedisRepo := redisRepo.NewRepository()
	ProductRepo := productRepo.NewProductRepository(db)
	OrderRepo := orderRepo.NewOrderRepository(db)
	StockRepo := stockRepo.NewStockRepository(db)
	TxRepo := txRepo.NewTxRepository(db)

	// Payment gateway client
	gateway := paygate.NewClient(cfg.Payment.GatewayBaseURL, cfg.Payment.GatewayKeyID, cfg.Payment.GatewaySecret)

	// Initialize application layers
	UserApp := userapp.NewUserApp(cfg, UserRepo, RedisRepo)
	ProductApp := productapp.NewProductApp(ProductRepo)
	PaymentApp := paymentapp.NewPaymentApp(cfg, gateway)
	CheckoutApp := checkoutapp.NewCheckoutApp(cfg, TxRepo, OrderRepo, StockRepo, publisher)
	OrderApp := orderapp.NewOrderApp(TxRepo, OrderRepo, StockRepo)

	httpTransport := transport.NewTransport(&transport.RestHandler{
		UserApp:     UserApp,
		ProductApp:  ProductApp,
		PaymentApp:  PaymentApp,
		CheckoutApp: CheckoutApp,
		OrderApp:    OrderApp,
	}, cfg.Server.InternalKey)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      httpTransport,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	logger.Info("HTTP server running", zap.String("port", cfg.Server.Port))
	err = server.ListenAndServe()
	if err != nil {
		logger.Fatal("failed server", zap.Error(err))
	}
}
