// Package main provides the main entry point for the branch queueing backend
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/drey/queueline/app/handlers"
	"github.com/drey/queueline/app/middleware"
	"github.com/drey/queueline/app/realtime"
	"github.com/drey/queueline/app/router"
	"github.com/drey/queueline/app/services"
	businessflow "github.com/drey/queueline/business_flow"
	"github.com/drey/queueline/config"
	"github.com/drey/queueline/models"
	"github.com/drey/queueline/repository"
	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Application represents the main application structure
type Application struct {
	router    *router.FiberRouter
	config    *config.ProductionConfig
	server    *fiber.App
	stopFuncs []func()
}

func main() {
	log.Println("Starting queueline application...")

	// Load production configuration
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg.Logging)

	// Initialize application
	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Setup routes
	app.router.SetupRoutes()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.server.Listen(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Println("Shutting down gracefully...")

	// Stop background workers
	for _, fn := range app.stopFuncs {
		fn()
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// setupLogging routes the standard logger through lumberjack when file output
// is configured.
func setupLogging(cfg config.LoggingConfig) {
	if cfg.Output == "stdout" || cfg.FilePath == "" {
		return
	}

	sink := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}

	if cfg.Output == "both" {
		log.SetOutput(io.MultiWriter(os.Stdout, sink))
		return
	}
	log.SetOutput(sink)
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		// Driver errors are mapped to gorm sentinels so unique-violation
		// checks work without importing the driver everywhere.
		TranslateError: true,
	}
	if cfg.SlowQueryLog {
		gormCfg.Logger = gormlogger.New(log.Default(), gormlogger.Config{
			SlowThreshold:             cfg.SlowQueryTime,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		})
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB for connection pooling configuration
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pooling
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test the connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// migrateSchema keeps the schema in step with the models
func migrateSchema(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Employee{},
		&models.QueueTicket{},
		&models.ServingSession{},
		&models.QueueSystemStatus{},
		&models.VideoAd{},
	)
}

// initializeCache initializes the Redis client used by the event relay
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	// Override DB if provided in config
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established to %s (db=%d)", cfg.RedisURL, cfg.RedisDB)
	return rc, nil
}

// startCacheHealthMonitor starts a background goroutine that periodically pings Redis
// to detect connectivity issues. The returned cancel function stops the monitor.
func startCacheHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(context.Background(), 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					log.Printf("Redis healthcheck failed: %v", err)
				}
				c()
			}
		}
	}()
	return cancel
}

// initializeRealtime starts the WebSocket hub on its own listener and wires the
// event publisher, optionally relayed through Redis for multi-instance setups.
func initializeRealtime(cfg *config.ProductionConfig, rc *redis.Client) (services.EventPublisher, []func()) {
	var stopFuncs []func()

	hub := realtime.NewHub()

	if cfg.Realtime.Enabled {
		rtServer := realtime.NewServer(hub, fmt.Sprintf("%s:%d", cfg.Realtime.Host, cfg.Realtime.Port))
		go func() {
			if err := rtServer.Start(); err != nil {
				log.Fatalf("Failed to start realtime server: %v", err)
			}
		}()
		stopFuncs = append(stopFuncs, func() {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Realtime.ShutdownTimeout)
			defer cancel()
			if err := rtServer.Shutdown(ctx); err != nil {
				log.Printf("Error shutting down realtime server: %v", err)
			}
		})
	}

	var publisher services.EventPublisher = services.NewHubPublisher(hub)

	if rc != nil {
		relay := services.NewRedisRelayPublisher(publisher, rc, cfg.Cache.Channel)
		relayCtx, relayCancel := context.WithCancel(context.Background())
		go relay.RunRelay(relayCtx, hub)
		stopFuncs = append(stopFuncs, relayCancel)
		publisher = relay
	}

	return publisher, stopFuncs
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	var stopFuncs []func()

	// Initialize database
	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := migrateSchema(db); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, err
	}
	if rc != nil {
		cancel := startCacheHealthMonitor(context.Background(), rc, 30*time.Second)
		stopFuncs = append(stopFuncs, cancel)
	}

	publisher, rtStops := initializeRealtime(cfg, rc)
	stopFuncs = append(stopFuncs, rtStops...)

	// Initialize repositories
	queueRepo := repository.NewQueueRepository(db)
	servingRepo := repository.NewServingRepository(db)
	statusRepo := repository.NewQueueStatusRepository(db)
	userRepo := repository.NewUserRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	videoAdRepo := repository.NewVideoAdRepository(db)

	// Initialize token service
	tokenService, err := services.NewTokenService(
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.Issuer,
		cfg.JWT.Audience,
		cfg.JWT.SecretKey,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	log.Printf("Token service initialized with issuer: %s, audience: %s", cfg.JWT.Issuer, cfg.JWT.Audience)

	// Initialize flows
	queueFlow := businessflow.NewQueueFlow(db, queueRepo, statusRepo, publisher)
	servingFlow := businessflow.NewServingFlow(db, queueRepo, servingRepo, publisher)
	authFlow := businessflow.NewAuthFlow(db, userRepo, employeeRepo, tokenService)
	employeeFlow := businessflow.NewEmployeeFlow(db, userRepo, employeeRepo, tokenService, publisher)
	videoAdFlow := businessflow.NewVideoAdFlow(db, videoAdRepo, publisher)

	// Initialize handlers
	queueHandler := handlers.NewQueueHandler(queueFlow)
	servingHandler := handlers.NewServingHandler(servingFlow)
	authHandler := handlers.NewAuthHandler(authFlow)
	employeeHandler := handlers.NewEmployeeHandler(employeeFlow)
	videoAdHandler := handlers.NewVideoAdHandler(videoAdFlow)

	// Initialize auth middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Initialize router
	appRouter := router.NewFiberRouter(
		queueHandler,
		servingHandler,
		authHandler,
		employeeHandler,
		videoAdHandler,
		authMiddleware,
		cfg.Security.AllowedOrigins,
	)

	// Create application struct from FiberRouter
	fiberRouter := appRouter.(*router.FiberRouter)
	application := &Application{
		router:    fiberRouter,
		config:    cfg,
		server:    fiberRouter.GetApp(),
		stopFuncs: stopFuncs,
	}

	return application, nil
}
