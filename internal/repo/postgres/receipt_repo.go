package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/diagnosis/receipt-downloader/internal/domain"
)

type ReceiptRepo interface {
	GetByReceiptID(ctx context.Context, receiptID string) (*domain.Receipt, error)
	Insert(ctx context.Context, r *domain.Receipt) error
	Available() bool
}

type ReceiptRepoImpl struct{ pool *pgxpool.Pool }

// NewReceiptRepo accepts a nil pool: the repo then reports unavailable on
// every call instead of panicking, which is how an unconfigured store
// degrades.
func NewReceiptRepo(pool *pgxpool.Pool) *ReceiptRepoImpl { return &ReceiptRepoImpl{pool: pool} }

const receiptCols = `id, receipt_id, customer_name, customer_phone,
COALESCE(customer_email,''), amount, COALESCE(description,''),
COALESCE(payment_method,''), status, created_at`

func (r *ReceiptRepoImpl) Available() bool { return r.pool != nil }

func (r *ReceiptRepoImpl) GetByReceiptID(ctx context.Context, receiptID string) (*domain.Receipt, error) {
	if r.pool == nil {
		return nil, domain.ErrStoreUnavailable
	}

	// receipt_id is UNIQUE in our schema; the ordering keeps lookups
	// deterministic against legacy tables without the constraint.
	const q = `SELECT ` + receiptCols + ` FROM receipts
WHERE receipt_id=$1 ORDER BY created_at DESC LIMIT 1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var rec domain.Receipt
	err := r.pool.QueryRow(ctx, q, receiptID).Scan(
		&rec.ID, &rec.ReceiptID, &rec.CustomerName, &rec.CustomerPhone,
		&rec.CustomerEmail, &rec.Amount, &rec.Description,
		&rec.PaymentMethod, &rec.Status, &rec.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *ReceiptRepoImpl) Insert(ctx context.Context, rec *domain.Receipt) error {
	if r.pool == nil {
		return domain.ErrStoreUnavailable
	}

	const q = `INSERT INTO receipts (
    receipt_id, customer_name, customer_phone, customer_email,
    amount, description, payment_method, status, created_at
  ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
  RETURNING id`

	status := rec.Status
	if status == "" {
		status = domain.ReceiptCompleted
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return r.pool.QueryRow(ctx, q,
		rec.ReceiptID, rec.CustomerName, rec.CustomerPhone, nullable(rec.CustomerEmail),
		rec.Amount, nullable(rec.Description), nullable(rec.PaymentMethod), status, createdAt,
	).Scan(&rec.ID)
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
