package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Promise30/Event-Management-System-sub000/internal/domain"
)

// PostgresEventRepository implements EventRepository using PostgreSQL
type PostgresEventRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresEventRepository creates a new PostgresEventRepository
func NewPostgresEventRepository(pool *pgxpool.Pool) *PostgresEventRepository {
	return &PostgresEventRepository{pool: pool}
}

// Create inserts a new event
func (r *PostgresEventRepository) Create(ctx context.Context, event *domain.Event) error {
	const stmt = `
		INSERT INTO events (id, venue_id, organizer_id, name, description, starts_at, ends_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := exec(ctx, r.pool, stmt,
		event.ID,
		event.VenueID,
		event.OrganizerID,
		event.Name,
		event.Description,
		event.StartsAt,
		event.EndsAt,
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// GetByID retrieves an event by ID
func (r *PostgresEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	const q = `
		SELECT id, venue_id, organizer_id, name, description, starts_at, ends_at, created_at, updated_at
		FROM events WHERE id = $1
	`
	e := &domain.Event{}
	err := queryRow(ctx, r.pool, q, id).Scan(
		&e.ID,
		&e.VenueID,
		&e.OrganizerID,
		&e.Name,
		&e.Description,
		&e.StartsAt,
		&e.EndsAt,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}
