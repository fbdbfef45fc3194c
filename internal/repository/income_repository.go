package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"gitlab.com/yelinaung/finance-tracker/internal/database"
	"gitlab.com/yelinaung/finance-tracker/internal/models"
)

// IncomeRepository handles income/sale database operations.
type IncomeRepository struct {
	db database.PGXDB
}

// NewIncomeRepository creates a new IncomeRepository.
func NewIncomeRepository(db database.PGXDB) *IncomeRepository {
	return &IncomeRepository{db: db}
}

// Create adds a new income record. The caller must have resolved VATRate
// already; the stored value is a snapshot.
func (r *IncomeRepository) Create(ctx context.Context, income *models.Income) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO incomes (product, customer_country, sale_price, cost_price, quantity, ad_spend, currency, vat_rate, sold_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, income.Product, income.CustomerCountry, income.SalePrice, income.CostPrice,
		income.Quantity, income.AdSpend, income.Currency, income.VATRate, income.SoldAt,
	).Scan(&income.ID, &income.CreatedAt, &income.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create income: %w", err)
	}
	return nil
}

// List retrieves all income records, newest first.
func (r *IncomeRepository) List(ctx context.Context) ([]models.Income, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, product, customer_country, sale_price, cost_price, quantity, ad_spend, currency, vat_rate, sold_at, created_at, updated_at
		FROM incomes
		ORDER BY sold_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query incomes: %w", err)
	}
	defer rows.Close()

	return scanIncomes(rows)
}

// ListByCountryAndDateRange retrieves incomes for one customer country with
// sold_at within [start, end].
func (r *IncomeRepository) ListByCountryAndDateRange(
	ctx context.Context,
	country models.Country,
	start, end time.Time,
) ([]models.Income, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, product, customer_country, sale_price, cost_price, quantity, ad_spend, currency, vat_rate, sold_at, created_at, updated_at
		FROM incomes
		WHERE customer_country = $1 AND sold_at >= $2 AND sold_at <= $3
		ORDER BY sold_at ASC, id ASC
	`, country, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query incomes by country: %w", err)
	}
	defer rows.Close()

	return scanIncomes(rows)
}

func scanIncomes(rows pgx.Rows) ([]models.Income, error) {
	var incomes []models.Income
	for rows.Next() {
		var income models.Income
		err := rows.Scan(&income.ID, &income.Product, &income.CustomerCountry, &income.SalePrice,
			&income.CostPrice, &income.Quantity, &income.AdSpend, &income.Currency, &income.VATRate,
			&income.SoldAt, &income.CreatedAt, &income.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan income: %w", err)
		}
		incomes = append(incomes, income)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate incomes: %w", err)
	}
	return incomes, nil
}
