package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/swiftride/backend/internal/api/handlers"
	"github.com/swiftride/backend/internal/api/routes"
	"github.com/swiftride/backend/internal/auth"
	"github.com/swiftride/backend/internal/config"
	"github.com/swiftride/backend/internal/domain/request"
	"github.com/swiftride/backend/internal/events"
	"github.com/swiftride/backend/internal/service/assignment"
	"github.com/swiftride/backend/internal/service/location"
	"github.com/swiftride/backend/internal/service/pricing"
	"github.com/swiftride/backend/internal/service/reporting"
	"github.com/swiftride/backend/internal/store/postgres"
	"github.com/swiftride/backend/pkg/cache"
	"github.com/swiftride/backend/pkg/database"
	"github.com/swiftride/backend/pkg/logger"
	"github.com/swiftride/backend/pkg/monitoring"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting SwiftRide backend",
		logger.String("env", cfg.Server.Env),
		logger.String("port", cfg.Server.Port),
	)

	// Initialize New Relic
	nrApp, err := monitoring.New(monitoring.Config{
		LicenseKey: cfg.NewRelic.LicenseKey,
		AppName:    cfg.NewRelic.AppName,
		Enabled:    cfg.NewRelic.Enabled,
	})
	if err != nil {
		appLogger.Warn("Failed to initialize New Relic", logger.Err(err))
	} else if nrApp.IsEnabled() {
		appLogger.Info("New Relic APM initialized",
			logger.String("app_name", cfg.NewRelic.AppName))
	}
	defer nrApp.Shutdown(10 * time.Second)

	// Initialize PostgreSQL
	db, err := database.NewPostgresDB(database.Config{
		Host:        cfg.Database.Host,
		Port:        cfg.Database.Port,
		User:        cfg.Database.User,
		Password:    cfg.Database.Password,
		DBName:      cfg.Database.Name,
		SSLMode:     cfg.Database.SSLMode,
		MaxConns:    cfg.Database.MaxConnections,
		MaxIdle:     cfg.Database.MaxIdleConns,
		MaxLifetime: cfg.Database.MaxLifetime,
	})
	if err != nil {
		appLogger.Fatal("Failed to connect to PostgreSQL", logger.Err(err))
	}
	defer db.Close()

	schemaCtx, cancelSchema := context.WithTimeout(context.Background(), 30*time.Second)
	if err := postgres.EnsureSchema(schemaCtx, db); err != nil {
		cancelSchema()
		appLogger.Fatal("Failed to ensure database schema", logger.Err(err))
	}
	cancelSchema()
	appLogger.Info("Connected to PostgreSQL")

	// Initialize Redis (optional, powers the geo index)
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(cache.Config{
			Host:        cfg.Redis.Host,
			Port:        cfg.Redis.Port,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			MaxRetries:  cfg.Redis.MaxRetries,
			PoolSize:    cfg.Redis.PoolSize,
			MinIdleConn: cfg.Redis.MinIdleConn,
			DialTimeout: cfg.Redis.DialTimeout,
			ReadTimeout: cfg.Redis.ReadTimeout,
		})
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", logger.Err(err))
		}
		defer cache.Close(redisClient)
		appLogger.Info("Connected to Redis")
	}

	// Kafka lifecycle journal (optional)
	var recorder assignment.Recorder
	if cfg.Kafka.Enabled {
		producer := events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, appLogger)
		if producer != nil {
			defer producer.Close()
			recorder = producer
			appLogger.Info("Kafka lifecycle journal enabled",
				logger.String("topic", cfg.Kafka.Topic))
		}
	}

	// Wire services
	pgStore := postgres.New(db)
	fares := pricing.NewCalculator(pricing.Config{
		BaseFare: map[request.VehicleType]float64{
			request.VehicleEconomy: cfg.Pricing.BaseFare.Economy,
			request.VehiclePremium: cfg.Pricing.BaseFare.Premium,
			request.VehicleLuxury:  cfg.Pricing.BaseFare.Luxury,
		},
		PerKMRate: map[request.VehicleType]float64{
			request.VehicleEconomy: cfg.Pricing.PerKMRate.Economy,
			request.VehiclePremium: cfg.Pricing.PerKMRate.Premium,
			request.VehicleLuxury:  cfg.Pricing.PerKMRate.Luxury,
		},
		PerMinuteRate: map[request.VehicleType]float64{
			request.VehicleEconomy: cfg.Pricing.PerMinuteRate.Economy,
			request.VehiclePremium: cfg.Pricing.PerMinuteRate.Premium,
			request.VehicleLuxury:  cfg.Pricing.PerMinuteRate.Luxury,
		},
		MaxSurgeMultiplier: cfg.Pricing.MaxSurgeMultiplier,
		MinSurgeMultiplier: cfg.Pricing.MinSurgeMultiplier,
	})

	engine := assignment.New(pgStore, fares, appLogger, recorder)
	reports := reporting.NewService(pgStore.Reports())
	locations := location.NewService(pgStore, redisClient, appLogger)
	authSvc := auth.NewService(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry)

	adminHash := ""
	if cfg.Auth.AdminPassword != "" {
		adminHash, err = auth.HashPassword(cfg.Auth.AdminPassword)
		if err != nil {
			appLogger.Fatal("Failed to hash admin password", logger.Err(err))
		}
	} else {
		appLogger.Warn("ADMIN_PASSWORD not set; admin login disabled")
	}

	h := handlers.NewHandlers(engine, reports, locations, authSvc, pgStore,
		appLogger, nrApp, cfg.Auth.AdminEmail, adminHash)

	// Initialize Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	routes.SetupRoutes(router, h, nrApp, appLogger)
	appLogger.Info("Routes configured")

	srv := &http.Server{
		Addr:           fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		appLogger.Info("Server starting", logger.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", logger.Err(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", logger.Err(err))
	}

	appLogger.Info("Server stopped gracefully")
}
