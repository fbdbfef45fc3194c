package repository

import (
	"context"
	"fmt"

	"gitlab.com/yelinaung/finance-tracker/internal/database"
	"gitlab.com/yelinaung/finance-tracker/internal/models"
)

// PaymentRepository handles settlement payment database operations.
type PaymentRepository struct {
	db database.PGXDB
}

// NewPaymentRepository creates a new PaymentRepository.
func NewPaymentRepository(db database.PGXDB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create adds a new settlement payment.
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO payments (from_participant, to_participant, amount, currency, paid_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, payment.From, payment.To, payment.Amount, payment.Currency, payment.PaidAt,
	).Scan(&payment.ID, &payment.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// List retrieves all settlement payments, oldest first.
func (r *PaymentRepository) List(ctx context.Context) ([]models.Payment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, from_participant, to_participant, amount, currency, paid_at, created_at
		FROM payments
		ORDER BY paid_at ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		var payment models.Payment
		err := rows.Scan(&payment.ID, &payment.From, &payment.To, &payment.Amount,
			&payment.Currency, &payment.PaidAt, &payment.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}
	return payments, nil
}
