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

const bookingColumns = `id, venue_id, organizer_id, description, booked_from, booked_to,
	status, reservation_expires_at, payment_reference, created_at, updated_at`

// PostgresBookingRepository implements BookingRepository using PostgreSQL
type PostgresBookingRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresBookingRepository creates a new PostgresBookingRepository
func NewPostgresBookingRepository(pool *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{pool: pool}
}

func (r *PostgresBookingRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *PostgresBookingRepository) scanBooking(row pgx.Row) (*domain.Booking, error) {
	b := &domain.Booking{}
	err := row.Scan(
		&b.ID,
		&b.VenueID,
		&b.OrganizerID,
		&b.Description,
		&b.BookedFrom,
		&b.BookedTo,
		&b.Status,
		&b.ReservationExpiresAt,
		&b.PaymentReference,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

// Create inserts a new booking
func (r *PostgresBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	const stmt = `
		INSERT INTO bookings (id, venue_id, organizer_id, description, booked_from, booked_to,
			status, reservation_expires_at, payment_reference, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := exec(ctx, r.pool, stmt,
		booking.ID,
		booking.VenueID,
		booking.OrganizerID,
		booking.Description,
		booking.BookedFrom,
		booking.BookedTo,
		booking.Status,
		booking.ReservationExpiresAt,
		booking.PaymentReference,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

// GetByID retrieves a booking by ID
func (r *PostgresBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return r.scanBooking(queryRow(ctx, r.pool, q, id))
}

// HasConflict reports whether any non-cancelled, non-rejected booking
// for the venue overlaps the half-open span [from, to).
func (r *PostgresBookingRepository) HasConflict(ctx context.Context, venueID string, from, to time.Time) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE venue_id = $1
			  AND status NOT IN ('Cancelled', 'Rejected')
			  AND booked_from < $3
			  AND booked_to > $2
		)
	`
	var exists bool
	if err := queryRow(ctx, r.pool, q, venueID, from, to).Scan(&exists); err != nil {
		return false, fmt.Errorf("check booking conflict: %w", err)
	}
	return exists, nil
}

// Transition persists an in-memory status change, guarded by the
// expected previous status so concurrent transitions cannot clobber
// each other.
func (r *PostgresBookingRepository) Transition(ctx context.Context, booking *domain.Booking, from domain.BookingStatus) error {
	const stmt = `
		UPDATE bookings
		SET status = $1, reservation_expires_at = $2, payment_reference = $3, updated_at = $4
		WHERE id = $5 AND status = $6
	`
	tag, err := exec(ctx, r.pool, stmt,
		booking.Status,
		booking.ReservationExpiresAt,
		booking.PaymentReference,
		booking.UpdatedAt,
		booking.ID,
		from,
	)
	if err != nil {
		return fmt.Errorf("transition booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}

// ListExpired returns bookings still pending payment whose reservation
// deadline passed before now.
func (r *PostgresBookingRepository) ListExpired(ctx context.Context, now time.Time, limit int) ([]*domain.Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings
		WHERE status = 'PendingPayment' AND reservation_expires_at < $1
		ORDER BY reservation_expires_at ASC
		LIMIT $2`
	rows, err := query(ctx, r.pool, q, now, limit)
	if err != nil {
		return nil, fmt.Errorf("list expired bookings: %w", err)
	}
	defer rows.Close()

	return r.collect(rows)
}

// ListByOrganizer retrieves bookings created by an organizer with pagination
func (r *PostgresBookingRepository) ListByOrganizer(ctx context.Context, organizerID string, limit, offset int) ([]*domain.Booking, int, error) {
	var total int
	if err := queryRow(ctx, r.pool, `SELECT COUNT(*) FROM bookings WHERE organizer_id = $1`, organizerID).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `SELECT ` + bookingColumns + ` FROM bookings
		WHERE organizer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := query(ctx, r.pool, q, organizerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	bookings, err := r.collect(rows)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func (r *PostgresBookingRepository) collect(rows pgx.Rows) ([]*domain.Booking, error) {
	var bookings []*domain.Booking
	for rows.Next() {
		b := &domain.Booking{}
		err := rows.Scan(
			&b.ID,
			&b.VenueID,
			&b.OrganizerID,
			&b.Description,
			&b.BookedFrom,
			&b.BookedTo,
			&b.Status,
			&b.ReservationExpiresAt,
			&b.PaymentReference,
			&b.CreatedAt,
			&b.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
