package main

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cartApi "github.com/lokamart/e-commerce-api/internal/cart/api"
	cartRepo "github.com/lokamart/e-commerce-api/internal/cart/repository"
	cartService "github.com/lokamart/e-commerce-api/internal/cart/service"
	catalogApi "github.com/lokamart/e-commerce-api/internal/catalog/api"
	catalogRepo "github.com/lokamart/e-commerce-api/internal/catalog/repository"
	catalogService "github.com/lokamart/e-commerce-api/internal/catalog/service"
	orderApi "github.com/lokamart/e-commerce-api/internal/order/api"
	"github.com/lokamart/e-commerce-api/internal/order/events"
	orderRepo "github.com/lokamart/e-commerce-api/internal/order/repository"
	orderService "github.com/lokamart/e-commerce-api/internal/order/service"
	"github.com/lokamart/e-commerce-api/internal/platform/config"
	"github.com/lokamart/e-commerce-api/internal/platform/database"
	"github.com/lokamart/e-commerce-api/internal/platform/logger"
	"github.com/lokamart/e-commerce-api/internal/platform/web/middleware"
	userApi "github.com/lokamart/e-commerce-api/internal/user/api"
	userRepo "github.com/lokamart/e-commerce-api/internal/user/repository"
	userService "github.com/lokamart/e-commerce-api/internal/user/service"
)

func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg.DB.DSN)
	if err != nil {
		logger.Fatal("FATAL: Database connection failed", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logger.Fatal("FATAL: Database migration failed", err)
	}

	// Event publishing opsional: tanpa AMQP_URL API tetap hidup
	publisher := events.NewNoopPublisher()
	if cfg.Broker.AMQPURL != "" {
		p, err := events.NewAMQPPublisher(cfg.Broker.AMQPURL, cfg.Broker.QueueName)
		if err != nil {
			logger.Error("RabbitMQ connection failed, order events disabled", err)
		} else {
			publisher = p
			defer publisher.Close()
		}
	}

	// Repositories
	users := userRepo.NewPostgresUserRepository(db)
	products := catalogRepo.NewPostgresProductRepository(db)
	carts := cartRepo.NewPostgresCartRepository(db)
	orders := orderRepo.NewPostgresOrderRepository(db)

	// Services
	userSvc := userService.NewUserService(users, cfg.Auth)
	productSvc := catalogService.NewProductService(products)
	cartSvc := cartService.NewCartService(carts, products, cfg.CartSweepSchedule)
	orderSvc := orderService.NewOrderService(orders, carts, publisher)

	// Handlers
	userHandler := userApi.NewUserHandler(userSvc)
	productHandler := catalogApi.NewProductHandler(productSvc)
	cartHandler := cartApi.NewCartHandler(cartSvc)
	orderHandler := orderApi.NewOrderHandler(orderSvc)

	router := gin.Default()
	router.Use(middleware.Metrics())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")

	// Route publik: katalog dan auth
	userHandler.RegisterAuthRoutes(v1)
	productHandler.RegisterRoutes(v1)

	// Route yang butuh login
	authed := v1.Group("")
	authed.Use(userApi.AuthRequired(users, cfg.Auth.AccessTokenSecret))
	userHandler.RegisterProfileRoutes(authed)
	cartHandler.RegisterRoutes(authed)
	orderHandler.RegisterRoutes(authed)

	// Console admin
	admin := authed.Group("/admin")
	admin.Use(userApi.AdminOnly())
	userHandler.RegisterAdminRoutes(admin)
	productHandler.RegisterAdminRoutes(admin)
	cartHandler.RegisterAdminRoutes(admin)
	orderHandler.RegisterAdminRoutes(admin)

	logger.Info("API server starting on port %s", cfg.Server.Port)
	if err := router.Run(cfg.Server.Port); err != nil {
		logger.Fatal("FATAL: Server failed to start", err)
	}
}
