package app

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"patron-studio/app/controller"
	"patron-studio/app/router"
	"patron-studio/db"
	"patron-studio/repository"
	"patron-studio/service"
)

// browserPool is the process-wide rendering engine, torn down on shutdown
var browserPool *service.BrowserPool

// Initialize initializes the application
func Initialize() error {
	// Initialize database connection
	if err := db.InitDB(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	// Get credentials path from environment variable
	credentialsPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	if credentialsPath == "" {
		return fmt.Errorf("GOOGLE_APPLICATION_CREDENTIALS environment variable is not set")
	}

	// Initialize file store
	fileStore, err := service.NewDriveFileStore(credentialsPath, os.Getenv("DRIVE_FOLDER_ID"))
	if err != nil {
		return err
	}

	// Initialize payment processor
	paymentService, err := service.NewStripePaymentService(os.Getenv("STRIPE_SECRET_KEY"))
	if err != nil {
		return err
	}

	// Initialize mail transport
	mailService, err := service.NewResendMailService(os.Getenv("RESEND_API_KEY"), os.Getenv("MAIL_FROM"))
	if err != nil {
		return err
	}

	// Initialize rendering engine pool
	var readyTimeout time.Duration
	if raw := os.Getenv("RENDER_READY_TIMEOUT"); raw != "" {
		readyTimeout, err = time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid RENDER_READY_TIMEOUT: %w", err)
		}
	}
	browserPool = service.NewBrowserPool(readyTimeout)

	// Premium price override
	var premiumPrice int64
	if raw := os.Getenv("PREMIUM_PRICE_CENTS"); raw != "" {
		premiumPrice, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid PREMIUM_PRICE_CENTS: %w", err)
		}
	}

	// Initialize repository and services
	patternRepo := repository.NewPatternRepository()
	pdfDataService := service.NewPdfDataService(fileStore)
	renderer := service.NewTemplateRenderer("templates")

	fulfillmentService := service.NewFulfillmentService(
		pdfDataService,
		renderer,
		browserPool,
		patternRepo,
		fileStore,
		paymentService,
		mailService,
		premiumPrice,
	)

	// Create controllers
	controllers := &router.Controllers{
		Fulfillment: controller.NewFulfillmentController(fulfillmentService),
	}

	// Setup routes using standard http router
	router.SetupRoutes(controllers)

	return nil
}

// Shutdown tears down process-wide resources
func Shutdown() {
	if browserPool != nil {
		browserPool.Close()
	}
}
