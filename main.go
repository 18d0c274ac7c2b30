package main

import (
	"edumart/config"
	billingController "edumart/controllers/billing"
	bundleController "edumart/controllers/bundle"
	earningsController "edumart/controllers/earnings"
	subscriptionController "edumart/controllers/subscription"
	"edumart/database"
	"edumart/notify"
	"edumart/payment"
	"edumart/repository"
	billingRoutes "edumart/routers/billingRoutes"
	bundleRoutes "edumart/routers/bundleRoutes"
	earningsRoutes "edumart/routers/earningsRoutes"
	subscriptionRoutes "edumart/routers/subscriptionRoutes"
	"edumart/services"
	"edumart/utils"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	store := repository.NewStore(database.Database.Db)
	mailer := notify.NewNotifier(
		config.AppConfig.NotifyWorkers,
		config.AppConfig.NotifyQueueSize,
		config.AppConfig.SendgridApiKey,
		config.AppConfig.EmailSender,
		config.AppConfig.SenderName,
	)
	defer mailer.Close()

	payments := payment.NewClient(
		config.AppConfig.PaymentApiURL,
		config.AppConfig.PaymentApiKey,
		config.AppConfig.PaymentSecretKey,
	)

	cartService := services.NewCartService(store)
	earningsService := services.NewEarningsService(store, mailer,
		config.AppConfig.PlatformFeePercent,
		config.AppConfig.MinPayoutAmount,
		config.AppConfig.EarningsHoldDays,
	)
	checkoutService := services.NewCheckoutService(store, payments, earningsService, mailer, config.AppConfig.Currency)
	subscriptionService := services.NewSubscriptionService(store, mailer)
	refundService := services.NewRefundService(store, payments, earningsService, mailer, services.RefundPolicy{
		MaxDaysAfterPurchase: config.AppConfig.RefundWindowDays,
		AutoApproveUnder:     config.AppConfig.RefundAutoApproveUnder,
		RequiresApproval:     config.AppConfig.RefundRequiresApproval,
	})
	bundleService := services.NewBundleService(store, payments, earningsService, checkoutService, config.AppConfig.Currency)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",                     // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization,X-Session-Id", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	billingRoutes.SetupBillingRoutes(app,
		billingController.NewCartController(cartService),
		billingController.NewCheckoutController(checkoutService, store.Users()),
		billingController.NewRefundController(refundService),
		billingController.NewWebhookController(checkoutService, subscriptionService),
	)
	subscriptionRoutes.SetupSubscriptionRoutes(app, subscriptionController.NewSubscriptionController(subscriptionService))
	bundleRoutes.SetupBundleRoutes(app, bundleController.NewBundleController(bundleService, store.Users()))
	earningsRoutes.SetupEarningsRoutes(app, earningsController.NewEarningsController(earningsService))

	scheduler := utils.InitializeBillingScheduler(subscriptionService, earningsService)
	defer scheduler.Stop()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
