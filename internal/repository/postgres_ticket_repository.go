package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Promise30/Event-Management-System-sub000/internal/domain"
)

const ticketColumns = `id, ticket_type_id, attendee_id, status, reservation_expires_at,
	payment_reference, created_at, updated_at`

const ticketTypeColumns = `id, event_id, name, capacity, sold_count, price, created_at, updated_at`

// PostgresTicketTypeRepository implements TicketTypeRepository using PostgreSQL.
// ReserveUnit and ReleaseUnit are the inventory ledger: single atomic
// conditional updates, never read-check-then-write.
type PostgresTicketTypeRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresTicketTypeRepository creates a new PostgresTicketTypeRepository
func NewPostgresTicketTypeRepository(pool *pgxpool.Pool) *PostgresTicketTypeRepository {
	return &PostgresTicketTypeRepository{pool: pool}
}

// Create inserts a new ticket type
func (r *PostgresTicketTypeRepository) Create(ctx context.Context, tt *domain.TicketType) error {
	const stmt = `
		INSERT INTO ticket_types (id, event_id, name, capacity, sold_count, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := exec(ctx, r.pool, stmt,
		tt.ID,
		tt.EventID,
		tt.Name,
		tt.Capacity,
		tt.SoldCount,
		tt.Price,
		tt.CreatedAt,
		tt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create ticket type: %w", err)
	}
	return nil
}

// GetByID retrieves a ticket type by ID
func (r *PostgresTicketTypeRepository) GetByID(ctx context.Context, id string) (*domain.TicketType, error) {
	q := `SELECT ` + ticketTypeColumns + ` FROM ticket_types WHERE id = $1`
	tt := &domain.TicketType{}
	err := queryRow(ctx, r.pool, q, id).Scan(
		&tt.ID,
		&tt.EventID,
		&tt.Name,
		&tt.Capacity,
		&tt.SoldCount,
		&tt.Price,
		&tt.CreatedAt,
		&tt.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTicketTypeNotFound
		}
		return nil, fmt.Errorf("get ticket type: %w", err)
	}
	return tt, nil
}

// ListByEvent retrieves ticket types for an event
func (r *PostgresTicketTypeRepository) ListByEvent(ctx context.Context, eventID string) ([]*domain.TicketType, error) {
	q := `SELECT ` + ticketTypeColumns + ` FROM ticket_types WHERE event_id = $1 ORDER BY price ASC`
	rows, err := query(ctx, r.pool, q, eventID)
	if err != nil {
		return nil, fmt.Errorf("list ticket types: %w", err)
	}
	defer rows.Close()

	var types []*domain.TicketType
	for rows.Next() {
		tt := &domain.TicketType{}
		err := rows.Scan(
			&tt.ID,
			&tt.EventID,
			&tt.Name,
			&tt.Capacity,
			&tt.SoldCount,
			&tt.Price,
			&tt.CreatedAt,
			&tt.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		types = append(types, tt)
	}
	return types, rows.Err()
}

// ReserveUnit increments sold_count only while capacity remains. The
// WHERE guard makes two racing reservations for the last unit resolve
// to exactly one winner.
func (r *PostgresTicketTypeRepository) ReserveUnit(ctx context.Context, id string) error {
	const stmt = `
		UPDATE ticket_types
		SET sold_count = sold_count + 1, updated_at = now()
		WHERE id = $1 AND sold_count < capacity
	`
	tag, err := exec(ctx, r.pool, stmt, id)
	if err != nil {
		return fmt.Errorf("reserve unit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := queryRow(ctx, r.pool, `SELECT EXISTS (SELECT 1 FROM ticket_types WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("reserve unit: %w", err)
		}
		if !exists {
			return domain.ErrTicketTypeNotFound
		}
		return domain.ErrInventoryExhausted
	}
	return nil
}

// ReleaseUnit decrements sold_count, guarded so it never drops below
// zero. A release against an empty pool is a no-op.
func (r *PostgresTicketTypeRepository) ReleaseUnit(ctx context.Context, id string) error {
	const stmt = `
		UPDATE ticket_types
		SET sold_count = sold_count - 1, updated_at = now()
		WHERE id = $1 AND sold_count > 0
	`
	if _, err := exec(ctx, r.pool, stmt, id); err != nil {
		return fmt.Errorf("release unit: %w", err)
	}
	return nil
}

// PostgresTicketRepository implements TicketRepository using PostgreSQL
type PostgresTicketRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresTicketRepository creates a new PostgresTicketRepository
func NewPostgresTicketRepository(pool *pgxpool.Pool) *PostgresTicketRepository {
	return &PostgresTicketRepository{pool: pool}
}

func (r *PostgresTicketRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

// Create inserts a new ticket
func (r *PostgresTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const stmt = `
		INSERT INTO tickets (id, ticket_type_id, attendee_id, status, reservation_expires_at,
			payment_reference, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := exec(ctx, r.pool, stmt,
		ticket.ID,
		ticket.TicketTypeID,
		ticket.AttendeeID,
		ticket.Status,
		ticket.ReservationExpiresAt,
		ticket.PaymentReference,
		ticket.CreatedAt,
		ticket.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create ticket: %w", err)
	}
	return nil
}

// GetByID retrieves a ticket by ID
func (r *PostgresTicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	q := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`
	t := &domain.Ticket{}
	err := queryRow(ctx, r.pool, q, id).Scan(
		&t.ID,
		&t.TicketTypeID,
		&t.AttendeeID,
		&t.Status,
		&t.ReservationExpiresAt,
		&t.PaymentReference,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTicketNotFound
		}
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	return t, nil
}

// Transition persists an in-memory status change, guarded by the
// expected previous status.
func (r *PostgresTicketRepository) Transition(ctx context.Context, ticket *domain.Ticket, from domain.TicketStatus) error {
	const stmt = `
		UPDATE tickets
		SET status = $1, reservation_expires_at = $2, payment_reference = $3, updated_at = $4
		WHERE id = $5 AND status = $6
	`
	tag, err := exec(ctx, r.pool, stmt,
		ticket.Status,
		ticket.ReservationExpiresAt,
		ticket.PaymentReference,
		ticket.UpdatedAt,
		ticket.ID,
		from,
	)
	if err != nil {
		return fmt.Errorf("transition ticket: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}

// ListExpired returns reserved tickets whose reservation deadline
// passed before now.
func (r *PostgresTicketRepository) ListExpired(ctx context.Context, now time.Time, limit int) ([]*domain.Ticket, error) {
	q := `SELECT ` + ticketColumns + ` FROM tickets
		WHERE status = 'Reserved' AND reservation_expires_at < $1
		ORDER BY reservation_expires_at ASC
		LIMIT $2`
	rows, err := query(ctx, r.pool, q, now, limit)
	if err != nil {
		return nil, fmt.Errorf("list expired tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*domain.Ticket
	for rows.Next() {
		t := &domain.Ticket{}
		err := rows.Scan(
			&t.ID,
			&t.TicketTypeID,
			&t.AttendeeID,
			&t.Status,
			&t.ReservationExpiresAt,
			&t.PaymentReference,
			&t.CreatedAt,
			&t.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}
