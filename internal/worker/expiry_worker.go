package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Promise30/Event-Management-System-sub000/internal/domain"
	"github.com/Promise30/Event-Management-System-sub000/internal/repository"
	"github.com/Promise30/Event-Management-System-sub000/internal/service"
	"github.com/Promise30/Event-Management-System-sub000/pkg/clock"
	"github.com/Promise30/Event-Management-System-sub000/pkg/logger"
)

// ExpiryWorkerConfig holds expiry worker settings
type ExpiryWorkerConfig struct {
	ScanInterval time.Duration
	BatchSize    int
}

// DefaultExpiryWorkerConfig returns the default worker configuration
func DefaultExpiryWorkerConfig() *ExpiryWorkerConfig {
	return &ExpiryWorkerConfig{
		ScanInterval: 5 * time.Minute,
		BatchSize:    100,
	}
}

// ExpiryWorkerStats reports worker progress
type ExpiryWorkerStats struct {
	IsRunning        bool
	TotalExpired     int64
	TotalReleased    int64
	LastScanTime     time.Time
	LastExpiredCount int
}

// ExpiryWorker periodically scans for reservations whose payment
// deadline passed and expires them. Every row is re-checked by the
// status guard at transition time, so a scan that races a payment or a
// second sweeper instance simply skips the row.
type ExpiryWorker struct {
	bookingRepo repository.BookingRepository
	ticketRepo  repository.TicketRepository
	bookingSvc  service.BookingService
	ticketSvc   service.TicketService
	clock       clock.Clock
	log         *logger.Logger
	config      *ExpiryWorkerConfig

	mu               sync.Mutex
	running          bool
	stop             chan struct{}
	done             chan struct{}
	totalExpired     int64
	totalReleased    int64
	lastScanTime     time.Time
	lastExpiredCount int
}

// NewExpiryWorker creates a new expiry worker
func NewExpiryWorker(
	bookingRepo repository.BookingRepository,
	ticketRepo repository.TicketRepository,
	bookingSvc service.BookingService,
	ticketSvc service.TicketService,
	clk clock.Clock,
	log *logger.Logger,
	config *ExpiryWorkerConfig,
) *ExpiryWorker {
	if config == nil {
		config = DefaultExpiryWorkerConfig()
	}
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &ExpiryWorker{
		bookingRepo: bookingRepo,
		ticketRepo:  ticketRepo,
		bookingSvc:  bookingSvc,
		ticketSvc:   ticketSvc,
		clock:       clk,
		log:         log,
		config:      config,
	}
}

// Start launches the scan loop. It returns immediately; the loop runs
// until Stop is called or the context is cancelled.
func (w *ExpiryWorker) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.stop = make(chan struct{})
	w.done = make(chan struct{})
	w.mu.Unlock()

	go w.loop(ctx)
}

// Stop halts the scan loop and waits for an in-flight scan to finish
func (w *ExpiryWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	close(w.stop)
	done := w.done
	w.mu.Unlock()

	<-done

	w.mu.Lock()
	w.running = false
	w.mu.Unlock()
}

func (w *ExpiryWorker) loop(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(w.config.ScanInterval)
	defer ticker.Stop()

	w.log.Info("expiry worker started",
		zap.Duration("scan_interval", w.config.ScanInterval),
		zap.Int("batch_size", w.config.BatchSize),
	)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case <-ticker.C:
			w.Scan(ctx)
		}
	}
}

// Scan runs one sweep over expired bookings and tickets. It is exported
// so operators can trigger a sweep out of band.
func (w *ExpiryWorker) Scan(ctx context.Context) {
	now := w.clock.Now()
	expired := w.scanBookings(ctx, now)
	released := w.scanTickets(ctx, now)

	w.mu.Lock()
	w.lastScanTime = now
	w.lastExpiredCount = expired + released
	w.mu.Unlock()

	if expired+released > 0 {
		w.log.Info("expiry sweep finished",
			zap.Int("bookings_expired", expired),
			zap.Int("tickets_released", released),
		)
	}
}

func (w *ExpiryWorker) scanBookings(ctx context.Context, now time.Time) int {
	bookings, err := w.bookingRepo.ListExpired(ctx, now, w.config.BatchSize)
	if err != nil {
		w.log.Error("failed to list expired bookings", zap.Error(err))
		return 0
	}

	var count int
	for _, booking := range bookings {
		if err := w.bookingSvc.ExpireBooking(ctx, booking); err != nil {
			// Paid or cancelled between listing and transition.
			if errors.Is(err, domain.ErrInvalidTransition) {
				continue
			}
			w.log.Error("failed to expire booking",
				zap.String("booking_id", booking.ID),
				zap.Error(err),
			)
			continue
		}
		count++
	}

	if count > 0 {
		w.mu.Lock()
		w.totalExpired += int64(count)
		w.mu.Unlock()
	}
	return count
}

func (w *ExpiryWorker) scanTickets(ctx context.Context, now time.Time) int {
	tickets, err := w.ticketRepo.ListExpired(ctx, now, w.config.BatchSize)
	if err != nil {
		w.log.Error("failed to list expired tickets", zap.Error(err))
		return 0
	}

	var count int
	for _, ticket := range tickets {
		if err := w.ticketSvc.ExpireTicket(ctx, ticket); err != nil {
			if errors.Is(err, domain.ErrInvalidTransition) {
				continue
			}
			w.log.Error("failed to expire ticket",
				zap.String("ticket_id", ticket.ID),
				zap.Error(err),
			)
			continue
		}
		count++
	}

	if count > 0 {
		w.mu.Lock()
		w.totalReleased += int64(count)
		w.mu.Unlock()
	}
	return count
}

// GetStats returns a snapshot of worker progress
func (w *ExpiryWorker) GetStats() *ExpiryWorkerStats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return &ExpiryWorkerStats{
		IsRunning:        w.running,
		TotalExpired:     w.totalExpired,
		TotalReleased:    w.totalReleased,
		LastScanTime:     w.lastScanTime,
		LastExpiredCount: w.lastExpiredCount,
	}
}
