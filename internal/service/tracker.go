// Package service wires the calculation core (currency, ledger, vat, report)
// to record storage. Rate tables and the reporting currency are passed in
// explicitly; nothing here reads ambient state.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gitlab.com/yelinaung/finance-tracker/internal/currency"
	"gitlab.com/yelinaung/finance-tracker/internal/ledger"
	"gitlab.com/yelinaung/finance-tracker/internal/logger"
	"gitlab.com/yelinaung/finance-tracker/internal/models"
	"gitlab.com/yelinaung/finance-tracker/internal/report"
	"gitlab.com/yelinaung/finance-tracker/internal/vat"
)

// ExpenseStore persists shared expense records.
type ExpenseStore interface {
	Create(ctx context.Context, expense *models.SharedExpense) error
	GetByID(ctx context.Context, id int) (*models.SharedExpense, error)
	Update(ctx context.Context, expense *models.SharedExpense) error
	Delete(ctx context.Context, id int) error
	List(ctx context.Context) ([]models.SharedExpense, error)
	ListByDateRange(ctx context.Context, start, end time.Time) ([]models.SharedExpense, error)
}

// IncomeStore persists income/sale records.
type IncomeStore interface {
	Create(ctx context.Context, income *models.Income) error
	List(ctx context.Context) ([]models.Income, error)
	ListByCountryAndDateRange(ctx context.Context, country models.Country, start, end time.Time) ([]models.Income, error)
}

// PaymentStore persists settlement payments.
type PaymentStore interface {
	Create(ctx context.Context, payment *models.Payment) error
	List(ctx context.Context) ([]models.Payment, error)
}

// Tracker is the application service for expenses, incomes, balances and
// reports.
type Tracker struct {
	expenses ExpenseStore
	incomes  IncomeStore
	payments PaymentStore

	ledger     *ledger.Ledger
	rates      currency.RateTable
	vatRates   vat.RateTable
	thresholds vat.ThresholdTable
}

// New creates a Tracker reporting in the given currency. All reference
// tables are passed in; the Tracker holds no table of its own.
func New(
	expenses ExpenseStore,
	incomes IncomeStore,
	payments PaymentStore,
	reportingCurrency string,
	rates currency.RateTable,
	vatRates vat.RateTable,
	thresholds vat.ThresholdTable,
) *Tracker {
	return &Tracker{
		expenses:   expenses,
		incomes:    incomes,
		payments:   payments,
		ledger:     ledger.New(reportingCurrency, rates),
		rates:      rates,
		vatRates:   vatRates,
		thresholds: thresholds,
	}
}

func normalizeCurrencyCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (t *Tracker) checkCurrency(code string) (string, error) {
	normalized := normalizeCurrencyCode(code)
	if normalized == "" {
		return t.ledger.ReportingCurrency(), nil
	}
	if _, ok := t.rates[normalized]; !ok {
		return "", fmt.Errorf("%w: %s", currency.ErrUnknownCurrency, normalized)
	}
	return normalized, nil
}

// AddExpense persists a shared expense and applies it to the running
// balances.
func (t *Tracker) AddExpense(ctx context.Context, expense *models.SharedExpense) error {
	code, err := t.checkCurrency(expense.Currency)
	if err != nil {
		return err
	}
	expense.Currency = code
	if expense.SpentAt.IsZero() {
		expense.SpentAt = time.Now()
	}

	if err := t.expenses.Create(ctx, expense); err != nil {
		return err
	}
	if err := t.ledger.Apply(*expense); err != nil {
		return err
	}

	logger.Log.Info().
		Int("expense_id", expense.ID).
		Str("payer_hash", logger.HashParticipant(expense.PaidBy)).
		Int("sharers", len(expense.SharedWith)).
		Str("amount", expense.Amount.StringFixed(2)).
		Str("currency", expense.Currency).
		Msg("Expense added")
	return nil
}

// UpdateExpense replaces a stored expense. The ledger effect of the old
// record is fully reversed before the new record is applied, so the edit
// preserves the zero-sum invariant no matter which fields changed.
func (t *Tracker) UpdateExpense(ctx context.Context, updated *models.SharedExpense) error {
	code, err := t.checkCurrency(updated.Currency)
	if err != nil {
		return err
	}
	updated.Currency = code

	old, err := t.expenses.GetByID(ctx, updated.ID)
	if err != nil {
		return err
	}
	if err := t.expenses.Update(ctx, updated); err != nil {
		return err
	}
	if err := t.ledger.Update(*old, *updated); err != nil {
		return err
	}

	logger.Log.Info().
		Int("expense_id", updated.ID).
		Str("payer_hash", logger.HashParticipant(updated.PaidBy)).
		Msg("Expense updated")
	return nil
}

// DeleteExpense removes a stored expense and reverses its balance effect.
func (t *Tracker) DeleteExpense(ctx context.Context, id int) error {
	old, err := t.expenses.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := t.expenses.Delete(ctx, id); err != nil {
		return err
	}
	if err := t.ledger.Reverse(*old); err != nil {
		return err
	}

	logger.Log.Info().
		Int("expense_id", id).
		Str("payer_hash", logger.HashParticipant(old.PaidBy)).
		Msg("Expense deleted")
	return nil
}

// RecordPayment persists a settlement payment and applies it to the running
// balances.
func (t *Tracker) RecordPayment(ctx context.Context, payment *models.Payment) error {
	code, err := t.checkCurrency(payment.Currency)
	if err != nil {
		return err
	}
	payment.Currency = code
	if payment.PaidAt.IsZero() {
		payment.PaidAt = time.Now()
	}

	if err := t.payments.Create(ctx, payment); err != nil {
		return err
	}
	if err := t.ledger.SettlePayment(payment.From, payment.To, payment.Amount, payment.Currency); err != nil {
		return err
	}

	logger.Log.Info().
		Str("from_hash", logger.HashParticipant(payment.From)).
		Str("to_hash", logger.HashParticipant(payment.To)).
		Str("amount", payment.Amount.StringFixed(2)).
		Str("currency", payment.Currency).
		Msg("Settlement payment recorded")
	return nil
}

// AddIncome resolves the VAT rate for the sale's (country, product) pair,
// snapshots it on the record and persists it. A missing table entry fails
// the whole operation; a silently defaulted rate would corrupt every figure
// derived from the record later.
func (t *Tracker) AddIncome(ctx context.Context, income *models.Income) error {
	code, err := t.checkCurrency(income.Currency)
	if err != nil {
		return err
	}
	income.Currency = code
	if income.SoldAt.IsZero() {
		income.SoldAt = time.Now()
	}
	if income.Quantity <= 0 {
		income.Quantity = 1
	}

	rate, err := vat.ResolveRate(income.CustomerCountry, income.Product, t.vatRates)
	if err != nil {
		return err
	}
	income.VATRate = rate

	if err := t.incomes.Create(ctx, income); err != nil {
		return err
	}

	logger.Log.Info().
		Int("income_id", income.ID).
		Str("country", string(income.CustomerCountry)).
		Str("product", string(income.Product)).
		Str("vat_rate", rate.String()).
		Msg("Income recorded")
	return nil
}

// Balances returns a snapshot of the running participant balances.
func (t *Tracker) Balances() map[string]decimal.Decimal {
	return t.ledger.Balances()
}

// ReportingCurrency returns the currency balances and reports use.
func (t *Tracker) ReportingCurrency() string {
	return t.ledger.ReportingCurrency()
}

// RebuildBalances recomputes all balances from the complete stored record
// set. Equivalent to replaying every apply and settlement incrementally.
func (t *Tracker) RebuildBalances(ctx context.Context) error {
	expenses, err := t.expenses.List(ctx)
	if err != nil {
		return err
	}
	payments, err := t.payments.List(ctx)
	if err != nil {
		return err
	}
	return t.ledger.Recompute(expenses, payments)
}

// BuildVATReport summarizes sales to one country over [from, to].
func (t *Tracker) BuildVATReport(
	ctx context.Context,
	country models.Country,
	from, to time.Time,
) (*report.VATReport, error) {
	incomes, err := t.incomes.ListByCountryAndDateRange(ctx, country, from, to)
	if err != nil {
		return nil, err
	}
	return report.BuildVATReport(incomes, country, from, to, t.thresholds)
}

// MonthlyOverview buckets the year's records by calendar month. The filter
// narrows the expense side (category, payer, tax-relevant flag, date range);
// incomes are bucketed unfiltered.
func (t *Tracker) MonthlyOverview(ctx context.Context, year int, filter report.Filter) ([12]report.MonthTotals, error) {
	expenses, err := t.listExpenses(ctx, filter)
	if err != nil {
		return [12]report.MonthTotals{}, err
	}
	incomes, err := t.incomes.List(ctx)
	if err != nil {
		return [12]report.MonthTotals{}, err
	}
	return report.MonthlyOverview(expenses, incomes, year, t.ledger.ReportingCurrency(), t.rates)
}

// listExpenses fetches the expenses a filter can match. A bounded date range
// is pushed down to the store; the remaining constraints are applied in
// memory.
func (t *Tracker) listExpenses(ctx context.Context, filter report.Filter) ([]models.SharedExpense, error) {
	var expenses []models.SharedExpense
	var err error
	if filter.From != nil && filter.To != nil {
		expenses, err = t.expenses.ListByDateRange(ctx, *filter.From, *filter.To)
	} else {
		expenses, err = t.expenses.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	return report.FilterExpenses(expenses, filter), nil
}

// DashboardTotals aggregates all records into headline figures.
func (t *Tracker) DashboardTotals(ctx context.Context) (report.DashboardTotals, error) {
	expenses, err := t.expenses.List(ctx)
	if err != nil {
		return report.DashboardTotals{}, err
	}
	incomes, err := t.incomes.List(ctx)
	if err != nil {
		return report.DashboardTotals{}, err
	}
	return report.Dashboard(expenses, incomes, t.ledger.ReportingCurrency(), t.rates)
}

// ExportExpensesCSV renders all stored expenses as CSV.
func (t *Tracker) ExportExpensesCSV(ctx context.Context) ([]byte, error) {
	expenses, err := t.expenses.List(ctx)
	if err != nil {
		return nil, err
	}
	return report.GenerateExpensesCSV(expenses)
}

// ExportExpenseChart renders a category breakdown chart of all stored
// expenses as PNG bytes.
func (t *Tracker) ExportExpenseChart(ctx context.Context, period string) ([]byte, error) {
	expenses, err := t.expenses.List(ctx)
	if err != nil {
		return nil, err
	}
	return report.GenerateExpenseBreakdownChart(expenses, period, t.ledger.ReportingCurrency(), t.rates)
}
