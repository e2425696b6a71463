// File: zenflow/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"zenflow/config"
	"zenflow/database"
	prefsRepo "zenflow/database/repository/prefs"
	storeRepo "zenflow/database/repository/store"
	"zenflow/handlers"
	"zenflow/middleware"
	"zenflow/routes"
	"zenflow/services/booking"
	"zenflow/services/cart"
	"zenflow/services/catalog"
	"zenflow/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	utils.InitPrefsClient()

	// Select the record store backend.
	var recordStore storeRepo.RecordStore
	var mongoClient *mongo.Client
	switch config.AppConfig.RecordStore {
	case "mongo":
		database.InitDB()
		mongoClient = database.MongoClient
		recordStore = storeRepo.NewMongoRecordStore(mongoClient)
	default:
		fbStore, err := storeRepo.NewFirebaseRecordStore(context.Background())
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize firebase record store: %v", err)
		}
		recordStore = fbStore
	}

	utils.StartHealthMonitor([]*redis.Client{utils.GetPrefsClient()}, mongoClient)

	location, err := time.LoadLocation(config.AppConfig.StudioTimezone)
	if err != nil {
		logger.Sugar().Warnf("main: invalid STUDIO_TIMEZONE %q, falling back to local time", config.AppConfig.StudioTimezone)
		location = time.Local
	}

	// services.
	catalogService := &catalog.DefaultCatalogService{
		Store:    recordStore,
		Location: location,
	}
	prefsStore := prefsRepo.NewRedisStore(utils.GetPrefsClient())
	cartRegistry := cart.NewRegistry()
	bookingService := &booking.DefaultBookingService{
		Store: recordStore,
		Prefs: prefsStore,
	}

	// Initial reconciliation pass. Failure is not fatal: the API answers
	// 503 until a refresh succeeds.
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	if _, err := catalogService.Refresh(startupCtx); err != nil {
		logger.Sugar().Warnf("main: initial catalog refresh failed: %v", err)
	}
	cancelStartup()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	catalogHandler := handlers.NewCatalogHandler(catalogService, logger)
	cartHandler := handlers.NewCartHandler(cartRegistry, catalogService, logger)
	bookingHandler := handlers.NewBookingHandler(bookingService, catalogService, cartRegistry, prefsStore, logger)

	handlerBundle := &routes.HandlerBundle{
		Catalog: catalogHandler,
		Cart:    cartHandler,
		Booking: bookingHandler,
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
