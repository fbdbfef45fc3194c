package report

import (
	"fmt"

	"github.com/go-analyze/charts"
	"github.com/shopspring/decimal"
	"gitlab.com/yelinaung/finance-tracker/internal/currency"
	"gitlab.com/yelinaung/finance-tracker/internal/models"
)

var hundred = decimal.NewFromInt(100)

// GenerateExpenseBreakdownChart creates a pie chart of expense totals by
// category, converted to the reporting currency. Returns PNG image bytes.
func GenerateExpenseBreakdownChart(
	expenses []models.SharedExpense,
	period string,
	reportingCurrency string,
	rates currency.RateTable,
) ([]byte, error) {
	if len(expenses) == 0 {
		return nil, fmt.Errorf("no expenses to chart")
	}

	categoryTotals, err := aggregateByCategory(expenses, reportingCurrency, rates)
	if err != nil {
		return nil, err
	}

	var values []float64
	var categoryNames []string
	for categoryName, total := range categoryTotals {
		categoryNames = append(categoryNames, categoryName)
		values = append(values, total.InexactFloat64())
	}

	p, err := charts.PieRender(
		values,
		charts.TitleOptionFunc(charts.TitleOption{
			Text: fmt.Sprintf("Expense Breakdown - %s", period),
		}),
		charts.LegendLabelsOptionFunc(categoryNames),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return buf, nil
}

// aggregateByCategory groups expenses and returns per-category totals in the
// reporting currency.
func aggregateByCategory(
	expenses []models.SharedExpense,
	reportingCurrency string,
	rates currency.RateTable,
) (map[string]decimal.Decimal, error) {
	categoryTotals := make(map[string]decimal.Decimal)

	for _, expense := range expenses {
		categoryName := expense.Category
		if categoryName == "" {
			categoryName = "Uncategorized"
		}
		converted, err := currency.Convert(expense.Amount, expense.Currency, reportingCurrency, rates)
		if err != nil {
			return nil, fmt.Errorf("convert expense for chart: %w", err)
		}
		if existing, ok := categoryTotals[categoryName]; ok {
			categoryTotals[categoryName] = existing.Add(converted)
		} else {
			categoryTotals[categoryName] = converted
		}
	}

	return categoryTotals, nil
}
