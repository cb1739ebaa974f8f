package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/razorpay/razorpay-go"
	"go.uber.org/zap"

	"github.com/SanathRai33/RaiZen-Server/configs"
	paymentControllers "github.com/SanathRai33/RaiZen-Server/controllers/payments"
	productControllers "github.com/SanathRai33/RaiZen-Server/controllers/products"
	userControllers "github.com/SanathRai33/RaiZen-Server/controllers/users"
	"github.com/SanathRai33/RaiZen-Server/mailer"
	"github.com/SanathRai33/RaiZen-Server/middlewares"
	"github.com/SanathRai33/RaiZen-Server/repositories"
	"github.com/SanathRai33/RaiZen-Server/routes"
	"github.com/SanathRai33/RaiZen-Server/services"
)

func main() {
	cfg, err := configs.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	client, err := configs.ConnectDB(cfg.MongoURI)
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer client.Disconnect(context.Background())
	logger.Info("connected to MongoDB")

	db := client.Database(cfg.DatabaseName)
	productRepo := repositories.NewMongoProductRepository(db.Collection("products"))
	userRepo := repositories.NewMongoUserRepository(db.Collection("users"))
	paymentRepo := repositories.NewMongoPaymentRepository(db.Collection("payments"))

	sender := mailer.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUser, cfg.EmailPass)
	dispatcher := mailer.NewDispatcher(sender, logger, 64)
	defer dispatcher.Close()

	catalog, err := services.NewCatalogService(services.CatalogServiceDeps{
		Products: productRepo,
	})
	if err != nil {
		logger.Fatal("failed to build catalog service", zap.Error(err))
	}

	accounts, err := services.NewAccountService(services.AccountServiceDeps{
		Users:       userRepo,
		Products:    productRepo,
		TokenSecret: cfg.JWTSecret,
		ClientURL:   cfg.ClientURL,
		Notifier:    dispatcher,
	})
	if err != nil {
		logger.Fatal("failed to build account service", zap.Error(err))
	}

	razorpayClient := razorpay.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	payments, err := services.NewPaymentService(services.PaymentServiceDeps{
		Payments:  paymentRepo,
		Users:     userRepo,
		Products:  productRepo,
		Gateway:   razorpayClient.Order,
		KeySecret: cfg.RazorpayKeySecret,
	})
	if err != nil {
		logger.Fatal("failed to build payment service", zap.Error(err))
	}

	app := fiber.New()
	app.Use(cors.New())
	protect := middlewares.Protect(cfg.JWTSecret)

	routes.ProductsRoute(app, productControllers.NewProductController(catalog))
	routes.UserRoute(app, userControllers.NewUserController(accounts), protect)
	routes.PaymentsRoute(app, paymentControllers.NewPaymentController(payments), protect)

	logger.Info("server listening", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
