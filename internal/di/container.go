package di

import (
	"github.com/redis/go-redis/v9"

	"github.com/Promise30/Event-Management-System-sub000/internal/events"
	"github.com/Promise30/Event-Management-System-sub000/internal/gateway"
	"github.com/Promise30/Event-Management-System-sub000/internal/handler"
	"github.com/Promise30/Event-Management-System-sub000/internal/repository"
	"github.com/Promise30/Event-Management-System-sub000/internal/service"
	"github.com/Promise30/Event-Management-System-sub000/internal/worker"
	"github.com/Promise30/Event-Management-System-sub000/pkg/clock"
	"github.com/Promise30/Event-Management-System-sub000/pkg/config"
	"github.com/Promise30/Event-Management-System-sub000/pkg/database"
	"github.com/Promise30/Event-Management-System-sub000/pkg/logger"
)

// Container holds all dependencies for the reservation engine
type Container struct {
	// Infrastructure
	DB        *database.PostgresDB
	Redis     *redis.Client
	Publisher events.Publisher
	Gateway   gateway.PaymentGateway
	Clock     clock.Clock

	// Repositories
	VenueRepo      repository.VenueRepository
	EventRepo      repository.EventRepository
	BookingRepo    repository.BookingRepository
	TicketTypeRepo repository.TicketTypeRepository
	TicketRepo     repository.TicketRepository
	PaymentRepo    repository.PaymentRepository

	// Services
	VenueService   service.VenueService
	EventService   service.EventService
	BookingService service.BookingService
	TicketService  service.TicketService
	PaymentService service.PaymentService

	// Workers
	ExpiryWorker *worker.ExpiryWorker

	// Handlers
	HealthHandler  *handler.HealthHandler
	VenueHandler   *handler.VenueHandler
	EventHandler   *handler.EventHandler
	BookingHandler *handler.BookingHandler
	TicketHandler  *handler.TicketHandler
	PaymentHandler *handler.PaymentHandler
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	Config    *config.Config
	DB        *database.PostgresDB
	Redis     *redis.Client
	Publisher events.Publisher
	Logger    *logger.Logger
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	c := &Container{
		DB:        cfg.DB,
		Redis:     cfg.Redis,
		Publisher: cfg.Publisher,
		Clock:     clock.NewSystem(),
	}
	if c.Publisher == nil {
		c.Publisher = events.NopPublisher{}
	}

	log := cfg.Logger
	conf := cfg.Config

	c.Gateway = gateway.NewStripeGateway(&gateway.Config{
		SecretKey:     conf.Payment.SecretKey,
		WebhookSecret: conf.Payment.WebhookSecret,
		SuccessURL:    conf.Payment.SuccessURL,
		CancelURL:     conf.Payment.CancelURL,
	}, log)

	// Repositories
	c.VenueRepo = repository.NewPostgresVenueRepository(c.DB.Pool())
	c.EventRepo = repository.NewPostgresEventRepository(c.DB.Pool())
	c.BookingRepo = repository.NewPostgresBookingRepository(c.DB.Pool())
	c.TicketTypeRepo = repository.NewPostgresTicketTypeRepository(c.DB.Pool())
	c.TicketRepo = repository.NewPostgresTicketRepository(c.DB.Pool())
	c.PaymentRepo = repository.NewPostgresPaymentRepository(c.DB.Pool())

	cache := service.NewAvailabilityCache(c.Redis, log)

	// Services
	c.VenueService = service.NewVenueService(c.VenueRepo, c.BookingRepo, c.Clock)
	c.EventService = service.NewEventService(c.EventRepo, c.VenueRepo, c.TicketTypeRepo, cache, c.Clock)
	c.BookingService = service.NewBookingService(
		c.BookingRepo, c.VenueRepo, c.PaymentRepo, c.Gateway, c.Publisher,
		c.Clock, &conf.Reservation, conf.Payment.Currency, log,
	)
	c.TicketService = service.NewTicketService(
		c.TicketRepo, c.TicketTypeRepo, c.EventRepo, c.PaymentRepo, c.Gateway,
		c.Publisher, cache, c.Clock, &conf.Reservation, conf.Payment.Currency, log,
	)
	c.PaymentService = service.NewPaymentService(
		c.PaymentRepo, c.BookingRepo, c.TicketRepo, c.Gateway, c.Publisher, c.Clock, log,
	)

	// Workers
	c.ExpiryWorker = worker.NewExpiryWorker(
		c.BookingRepo, c.TicketRepo, c.BookingService, c.TicketService,
		c.Clock, log, &worker.ExpiryWorkerConfig{
			ScanInterval: conf.Reservation.SweepInterval,
			BatchSize:    conf.Reservation.SweepBatchSize,
		},
	)

	// Handlers
	c.HealthHandler = handler.NewHealthHandler(c.DB, conf.App.Version)
	c.VenueHandler = handler.NewVenueHandler(c.VenueService)
	c.EventHandler = handler.NewEventHandler(c.EventService)
	c.BookingHandler = handler.NewBookingHandler(c.BookingService)
	c.TicketHandler = handler.NewTicketHandler(c.TicketService)
	c.PaymentHandler = handler.NewPaymentHandler(c.PaymentService)

	return c
}
