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

const paymentColumns = `id, reference, amount, currency, status, payment_type, reference_id, created_at, updated_at`

// PostgresPaymentRepository implements PaymentRepository using PostgreSQL
type PostgresPaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresPaymentRepository creates a new PostgresPaymentRepository
func NewPostgresPaymentRepository(pool *pgxpool.Pool) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{pool: pool}
}

// Create inserts a new payment record. The reference column carries a
// unique constraint, so duplicate gateway references are rejected.
func (r *PostgresPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	const stmt = `
		INSERT INTO payments (id, reference, amount, currency, status, payment_type, reference_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := exec(ctx, r.pool, stmt,
		payment.ID,
		payment.Reference,
		payment.Amount,
		payment.Currency,
		payment.Status,
		payment.PaymentType,
		payment.ReferenceID,
		payment.CreatedAt,
		payment.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrPaymentAlreadyExists
		}
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

// GetByReference retrieves a payment record by gateway reference
func (r *PostgresPaymentRepository) GetByReference(ctx context.Context, reference string) (*domain.Payment, error) {
	q := `SELECT ` + paymentColumns + ` FROM payments WHERE reference = $1`
	p := &domain.Payment{}
	err := queryRow(ctx, r.pool, q, reference).Scan(
		&p.ID,
		&p.Reference,
		&p.Amount,
		&p.Currency,
		&p.Status,
		&p.PaymentType,
		&p.ReferenceID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

// UpdateStatus moves a payment between statuses with a conditional
// update. Zero rows affected means the payment was not in the expected
// status, which callers use for idempotent webhook handling.
func (r *PostgresPaymentRepository) UpdateStatus(ctx context.Context, reference string, from, to domain.PaymentStatus, updatedAt time.Time) (bool, error) {
	const stmt = `
		UPDATE payments
		SET status = $1, updated_at = $2
		WHERE reference = $3 AND status = $4
	`
	tag, err := exec(ctx, r.pool, stmt, to, updatedAt, reference, from)
	if err != nil {
		return false, fmt.Errorf("update payment status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
