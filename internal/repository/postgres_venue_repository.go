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

const venueColumns = `id, name, capacity, booking_fee, active, created_at, updated_at`

// PostgresVenueRepository implements VenueRepository using PostgreSQL
type PostgresVenueRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresVenueRepository creates a new PostgresVenueRepository
func NewPostgresVenueRepository(pool *pgxpool.Pool) *PostgresVenueRepository {
	return &PostgresVenueRepository{pool: pool}
}

func (r *PostgresVenueRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

// Create inserts the venue and its availability windows.
func (r *PostgresVenueRepository) Create(ctx context.Context, venue *domain.Venue) error {
	return withTx(ctx, r.pool, func(ctx context.Context) error {
		const stmt = `
			INSERT INTO venues (id, name, capacity, booking_fee, active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		_, err := exec(ctx, r.pool, stmt,
			venue.ID,
			venue.Name,
			venue.Capacity,
			venue.BookingFee,
			venue.Active,
			venue.CreatedAt,
			venue.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("create venue: %w", err)
		}

		for _, w := range venue.Windows {
			const windowStmt = `
				INSERT INTO venue_availability (venue_id, day_of_week, open_minutes, close_minutes)
				VALUES ($1, $2, $3, $4)
			`
			if _, err := exec(ctx, r.pool, windowStmt, venue.ID, int(w.DayOfWeek), int(w.Open), int(w.Close)); err != nil {
				return fmt.Errorf("create availability window: %w", err)
			}
		}

		return nil
	})
}

// GetByID retrieves a venue with its availability windows
func (r *PostgresVenueRepository) GetByID(ctx context.Context, id string) (*domain.Venue, error) {
	query := `SELECT ` + venueColumns + ` FROM venues WHERE id = $1`
	return r.scanVenueWithWindows(ctx, queryRow(ctx, r.pool, query, id), id)
}

// GetForUpdate locks the venue row for the current transaction
func (r *PostgresVenueRepository) GetForUpdate(ctx context.Context, id string) (*domain.Venue, error) {
	query := `SELECT ` + venueColumns + ` FROM venues WHERE id = $1 FOR UPDATE`
	return r.scanVenueWithWindows(ctx, queryRow(ctx, r.pool, query, id), id)
}

func (r *PostgresVenueRepository) scanVenueWithWindows(ctx context.Context, row pgx.Row, id string) (*domain.Venue, error) {
	venue := &domain.Venue{}
	err := row.Scan(
		&venue.ID,
		&venue.Name,
		&venue.Capacity,
		&venue.BookingFee,
		&venue.Active,
		&venue.CreatedAt,
		&venue.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVenueNotFound
		}
		return nil, fmt.Errorf("get venue: %w", err)
	}

	windows, err := r.loadWindows(ctx, id)
	if err != nil {
		return nil, err
	}
	venue.Windows = windows
	return venue, nil
}

func (r *PostgresVenueRepository) loadWindows(ctx context.Context, venueID string) ([]domain.AvailabilityWindow, error) {
	const q = `
		SELECT day_of_week, open_minutes, close_minutes
		FROM venue_availability
		WHERE venue_id = $1
		ORDER BY day_of_week, open_minutes
	`
	rows, err := query(ctx, r.pool, q, venueID)
	if err != nil {
		return nil, fmt.Errorf("load availability windows: %w", err)
	}
	defer rows.Close()

	var windows []domain.AvailabilityWindow
	for rows.Next() {
		var day, open, close int
		if err := rows.Scan(&day, &open, &close); err != nil {
			return nil, err
		}
		windows = append(windows, domain.AvailabilityWindow{
			DayOfWeek: time.Weekday(day),
			Open:      domain.ClockTime(open),
			Close:     domain.ClockTime(close),
		})
	}
	return windows, rows.Err()
}

// List retrieves venues with pagination
func (r *PostgresVenueRepository) List(ctx context.Context, limit, offset int) ([]*domain.Venue, int, error) {
	var total int
	if err := queryRow(ctx, r.pool, `SELECT COUNT(*) FROM venues`).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `SELECT ` + venueColumns + ` FROM venues ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := query(ctx, r.pool, q, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var venues []*domain.Venue
	for rows.Next() {
		venue := &domain.Venue{}
		err := rows.Scan(
			&venue.ID,
			&venue.Name,
			&venue.Capacity,
			&venue.BookingFee,
			&venue.Active,
			&venue.CreatedAt,
			&venue.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		venues = append(venues, venue)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for _, venue := range venues {
		windows, err := r.loadWindows(ctx, venue.ID)
		if err != nil {
			return nil, 0, err
		}
		venue.Windows = windows
	}

	return venues, total, nil
}
