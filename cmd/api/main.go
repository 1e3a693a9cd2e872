package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Promise30/Event-Management-System-sub000/internal/di"
	"github.com/Promise30/Event-Management-System-sub000/internal/events"
	"github.com/Promise30/Event-Management-System-sub000/migrations"
	"github.com/Promise30/Event-Management-System-sub000/pkg/config"
	"github.com/Promise30/Event-Management-System-sub000/pkg/database"
	"github.com/Promise30/Event-Management-System-sub000/pkg/logger"
	"github.com/Promise30/Event-Management-System-sub000/pkg/middleware"
	"github.com/Promise30/Event-Management-System-sub000/pkg/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(&logger.Config{
		Level:       "info",
		ServiceName: cfg.App.Name,
		Development: !cfg.IsProduction(),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	log := logger.Get()
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.OTel.Enabled {
		tel, err := telemetry.Init(ctx, &telemetry.Config{
			Enabled:        true,
			ServiceName:    cfg.OTel.ServiceName,
			ServiceVersion: cfg.App.Version,
			Environment:    cfg.App.Environment,
			CollectorAddr:  cfg.OTel.CollectorAddr,
		})
		if err != nil {
			log.Fatal("failed to init telemetry", zap.Error(err))
		}
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = tel.Shutdown(shutdownCtx)
		}()
	}

	db, err := database.NewPostgres(ctx, &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        int32(cfg.Database.MaxConns),
		MinConns:        int32(cfg.Database.MinConns),
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
		ConnectTimeout:  5 * time.Second,
		MaxRetries:      3,
		RetryInterval:   time.Second,
	})
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	if err := migrations.Apply(ctx, db.Pool()); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		// The engine degrades to uncached reads without Redis.
		log.Warn("redis unreachable, availability cache disabled", zap.Error(err))
		_ = redisClient.Close()
		redisClient = nil
	} else {
		defer func() { _ = redisClient.Close() }()
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Kafka.Enabled {
		kafkaPublisher, err := events.NewKafkaPublisher(&events.KafkaConfig{
			Brokers:  cfg.Kafka.Brokers,
			ClientID: cfg.Kafka.ClientID,
		}, log)
		if err != nil {
			log.Warn("kafka unreachable, lifecycle events disabled", zap.Error(err))
		} else {
			publisher = kafkaPublisher
			defer kafkaPublisher.Close()
		}
	}

	container := di.NewContainer(&di.ContainerConfig{
		Config:    cfg,
		DB:        db,
		Redis:     redisClient,
		Publisher: publisher,
		Logger:    log,
	})

	container.ExpiryWorker.Start(ctx)
	defer container.ExpiryWorker.Stop()

	router := setupRouter(cfg, container, log)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
}

func setupRouter(cfg *config.Config, c *di.Container, log *logger.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))

	router.GET("/healthz", c.HealthHandler.Liveness)
	router.GET("/readyz", c.HealthHandler.Readiness)

	jwtConfig := &middleware.JWTConfig{Secret: cfg.JWT.Secret}

	v1 := router.Group("/api/v1")
	{
		// Gateway deliveries authenticate with an HMAC signature, not a JWT.
		v1.POST("/payments/webhook", c.PaymentHandler.Webhook)

		authed := v1.Group("")
		authed.Use(middleware.JWTMiddleware(jwtConfig))
		{
			venues := authed.Group("/venues")
			{
				venues.GET("", c.VenueHandler.List)
				venues.GET("/:id", c.VenueHandler.Get)
				venues.POST("/:id/availability", c.VenueHandler.CheckAvailability)
				venues.POST("", middleware.RequireRole(middleware.RoleAdmin), c.VenueHandler.Create)
			}

			eventsGroup := authed.Group("/events")
			{
				eventsGroup.GET("/:id", c.EventHandler.Get)
				eventsGroup.GET("/:id/ticket-types", c.EventHandler.ListTicketTypes)
				eventsGroup.POST("", middleware.RequireRole(middleware.RoleOrganizer, middleware.RoleAdmin), c.EventHandler.Create)
				eventsGroup.POST("/:id/ticket-types", middleware.RequireRole(middleware.RoleOrganizer, middleware.RoleAdmin), c.EventHandler.CreateTicketType)
			}

			bookings := authed.Group("/bookings")
			{
				bookings.GET("", c.BookingHandler.List)
				bookings.GET("/:id", c.BookingHandler.Get)
				bookings.POST("", middleware.RequireRole(middleware.RoleOrganizer, middleware.RoleAdmin), c.BookingHandler.Create)
				bookings.POST("/:id/cancel", c.BookingHandler.Cancel)
				bookings.POST("/:id/approve", middleware.RequireRole(middleware.RoleAdmin), c.BookingHandler.Approve)
				bookings.POST("/:id/reject", middleware.RequireRole(middleware.RoleAdmin), c.BookingHandler.Reject)
			}

			tickets := authed.Group("/tickets")
			{
				tickets.GET("/:id", c.TicketHandler.Get)
				tickets.POST("", c.TicketHandler.Purchase)
				tickets.POST("/:id/cancel", c.TicketHandler.Cancel)
				tickets.POST("/:id/check-in", middleware.RequireRole(middleware.RoleOrganizer, middleware.RoleAdmin), c.TicketHandler.CheckIn)
			}

			payments := authed.Group("/payments")
			{
				payments.GET("/:reference", c.PaymentHandler.Get)
				payments.POST("/:reference/verify", c.PaymentHandler.Verify)
			}
		}
	}

	return router
}
