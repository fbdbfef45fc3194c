// Package repository holds the database access layer.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"gitlab.com/yelinaung/finance-tracker/internal/database"
	"gitlab.com/yelinaung/finance-tracker/internal/models"
)

// ExpenseRepository handles shared expense database operations.
type ExpenseRepository struct {
	db database.PGXDB
}

// NewExpenseRepository creates a new ExpenseRepository.
func NewExpenseRepository(db database.PGXDB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// Create adds a new expense.
func (r *ExpenseRepository) Create(ctx context.Context, expense *models.SharedExpense) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO expenses (amount, currency, description, category, paid_by, shared_with, tax_relevant, recurring, spent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, expense.Amount, expense.Currency, expense.Description, expense.Category,
		expense.PaidBy, expense.SharedWith, expense.TaxRelevant, expense.Recurring, expense.SpentAt,
	).Scan(&expense.ID, &expense.CreatedAt, &expense.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return nil
}

// GetByID retrieves an expense by ID.
func (r *ExpenseRepository) GetByID(ctx context.Context, id int) (*models.SharedExpense, error) {
	var exp models.SharedExpense
	err := r.db.QueryRow(ctx, `
		SELECT id, amount, currency, description, category, paid_by, shared_with, tax_relevant, recurring, spent_at, created_at, updated_at
		FROM expenses WHERE id = $1
	`, id).Scan(&exp.ID, &exp.Amount, &exp.Currency, &exp.Description, &exp.Category,
		&exp.PaidBy, &exp.SharedWith, &exp.TaxRelevant, &exp.Recurring, &exp.SpentAt, &exp.CreatedAt, &exp.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return &exp, nil
}

// Update replaces an expense's mutable fields.
func (r *ExpenseRepository) Update(ctx context.Context, expense *models.SharedExpense) error {
	err := r.db.QueryRow(ctx, `
		UPDATE expenses
		SET amount = $2, currency = $3, description = $4, category = $5, paid_by = $6,
		    shared_with = $7, tax_relevant = $8, recurring = $9, spent_at = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, expense.ID, expense.Amount, expense.Currency, expense.Description, expense.Category,
		expense.PaidBy, expense.SharedWith, expense.TaxRelevant, expense.Recurring, expense.SpentAt,
	).Scan(&expense.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	return nil
}

// Delete removes an expense.
func (r *ExpenseRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("expense %d not found", id)
	}
	return nil
}

// List retrieves all expenses, newest first.
func (r *ExpenseRepository) List(ctx context.Context) ([]models.SharedExpense, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, amount, currency, description, category, paid_by, shared_with, tax_relevant, recurring, spent_at, created_at, updated_at
		FROM expenses
		ORDER BY spent_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	return scanExpenses(rows)
}

// ListByDateRange retrieves expenses with spent_at within [start, end], both
// bounds inclusive.
func (r *ExpenseRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]models.SharedExpense, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, amount, currency, description, category, paid_by, shared_with, tax_relevant, recurring, spent_at, created_at, updated_at
		FROM expenses
		WHERE spent_at >= $1 AND spent_at <= $2
		ORDER BY spent_at DESC, id DESC
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses by date range: %w", err)
	}
	defer rows.Close()

	return scanExpenses(rows)
}

func scanExpenses(rows pgx.Rows) ([]models.SharedExpense, error) {
	var expenses []models.SharedExpense
	for rows.Next() {
		var exp models.SharedExpense
		err := rows.Scan(&exp.ID, &exp.Amount, &exp.Currency, &exp.Description, &exp.Category,
			&exp.PaidBy, &exp.SharedWith, &exp.TaxRelevant, &exp.Recurring, &exp.SpentAt, &exp.CreatedAt, &exp.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, exp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	return expenses, nil
}
