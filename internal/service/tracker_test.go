package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gitlab.com/yelinaung/finance-tracker/internal/currency"
	"gitlab.com/yelinaung/finance-tracker/internal/models"
	"gitlab.com/yelinaung/finance-tracker/internal/report"
	"gitlab.com/yelinaung/finance-tracker/internal/vat"
)

type fakeExpenseStore struct {
	nextID     int
	items      map[int]models.SharedExpense
	order      []int
	rangeCalls int
}

func newFakeExpenseStore() *fakeExpenseStore {
	return &fakeExpenseStore{items: make(map[int]models.SharedExpense)}
}

func (s *fakeExpenseStore) Create(_ context.Context, expense *models.SharedExpense) error {
	s.nextID++
	expense.ID = s.nextID
	s.items[expense.ID] = *expense
	s.order = append(s.order, expense.ID)
	return nil
}

func (s *fakeExpenseStore) GetByID(_ context.Context, id int) (*models.SharedExpense, error) {
	expense, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("expense %d not found", id)
	}
	return &expense, nil
}

func (s *fakeExpenseStore) Update(_ context.Context, expense *models.SharedExpense) error {
	if _, ok := s.items[expense.ID]; !ok {
		return fmt.Errorf("expense %d not found", expense.ID)
	}
	s.items[expense.ID] = *expense
	return nil
}

func (s *fakeExpenseStore) Delete(_ context.Context, id int) error {
	if _, ok := s.items[id]; !ok {
		return fmt.Errorf("expense %d not found", id)
	}
	delete(s.items, id)
	return nil
}

func (s *fakeExpenseStore) List(_ context.Context) ([]models.SharedExpense, error) {
	var out []models.SharedExpense
	for _, id := range s.order {
		if expense, ok := s.items[id]; ok {
			out = append(out, expense)
		}
	}
	return out, nil
}

func (s *fakeExpenseStore) ListByDateRange(ctx context.Context, start, end time.Time) ([]models.SharedExpense, error) {
	s.rangeCalls++
	all, _ := s.List(ctx)
	var out []models.SharedExpense
	for _, expense := range all {
		if expense.SpentAt.Before(start) || expense.SpentAt.After(end) {
			continue
		}
		out = append(out, expense)
	}
	return out, nil
}

type fakeIncomeStore struct {
	nextID int
	items  []models.Income
}

func (s *fakeIncomeStore) Create(_ context.Context, income *models.Income) error {
	s.nextID++
	income.ID = s.nextID
	s.items = append(s.items, *income)
	return nil
}

func (s *fakeIncomeStore) List(_ context.Context) ([]models.Income, error) {
	return append([]models.Income(nil), s.items...), nil
}

func (s *fakeIncomeStore) ListByCountryAndDateRange(
	_ context.Context,
	country models.Country,
	start, end time.Time,
) ([]models.Income, error) {
	var out []models.Income
	for _, income := range s.items {
		if income.CustomerCountry != country {
			continue
		}
		if income.SoldAt.Before(start) || income.SoldAt.After(end) {
			continue
		}
		out = append(out, income)
	}
	return out, nil
}

type fakePaymentStore struct {
	nextID int
	items  []models.Payment
}

func (s *fakePaymentStore) Create(_ context.Context, payment *models.Payment) error {
	s.nextID++
	payment.ID = s.nextID
	s.items = append(s.items, *payment)
	return nil
}

func (s *fakePaymentStore) List(_ context.Context) ([]models.Payment, error) {
	return append([]models.Payment(nil), s.items...), nil
}

func newTestTracker() (*Tracker, *fakeExpenseStore, *fakeIncomeStore, *fakePaymentStore) {
	expenses := newFakeExpenseStore()
	incomes := &fakeIncomeStore{}
	payments := &fakePaymentStore{}
	tracker := New(expenses, incomes, payments, "EUR", currency.DefaultRates, vat.Rates, vat.Thresholds)
	return tracker, expenses, incomes, payments
}

func requireTrackerBalance(t *testing.T, tracker *Tracker, participant, expected string) {
	t.Helper()
	got := tracker.Balances()[participant]
	want := decimal.RequireFromString(expected)
	require.Truef(t, got.Sub(want).Abs().LessThanOrEqual(decimal.New(1, -9)),
		"balance of %s: got %s, want %s", participant, got, want)
}

func TestTrackerExpenseLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tracker, store, _, _ := newTestTracker()

	expense := &models.SharedExpense{
		Amount:     decimal.RequireFromString("90"),
		Currency:   "eur",
		PaidBy:     "A",
		SharedWith: []string{"B", "C"},
		SpentAt:    time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, tracker.AddExpense(ctx, expense))
	require.Equal(t, 1, expense.ID)
	require.Equal(t, "EUR", expense.Currency, "currency code is normalized")

	requireTrackerBalance(t, tracker, "A", "60")
	requireTrackerBalance(t, tracker, "B", "-30")
	requireTrackerBalance(t, tracker, "C", "-30")

	// Edit: the old effect must be fully reversed before the new one lands.
	updated := *expense
	updated.Amount = decimal.RequireFromString("120")
	updated.SharedWith = []string{"B"}
	require.NoError(t, tracker.UpdateExpense(ctx, &updated))

	requireTrackerBalance(t, tracker, "A", "60")
	requireTrackerBalance(t, tracker, "B", "-60")
	requireTrackerBalance(t, tracker, "C", "0")

	stored, err := store.GetByID(ctx, expense.ID)
	require.NoError(t, err)
	require.True(t, stored.Amount.Equal(decimal.RequireFromString("120")))

	require.NoError(t, tracker.DeleteExpense(ctx, expense.ID))
	requireTrackerBalance(t, tracker, "A", "0")
	requireTrackerBalance(t, tracker, "B", "0")
	requireTrackerBalance(t, tracker, "C", "0")

	_, err = store.GetByID(ctx, expense.ID)
	require.Error(t, err)
}

func TestTrackerRejectsUnknownCurrency(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tracker, store, _, _ := newTestTracker()

	err := tracker.AddExpense(ctx, &models.SharedExpense{
		Amount:   decimal.NewFromInt(10),
		Currency: "DOGE",
		PaidBy:   "A",
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, currency.ErrUnknownCurrency))

	stored, err := store.List(ctx)
	require.NoError(t, err)
	require.Empty(t, stored)
}

func TestTrackerEmptyCurrencyDefaultsToReporting(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tracker, _, _, _ := newTestTracker()

	expense := &models.SharedExpense{
		Amount: decimal.NewFromInt(10),
		PaidBy: "A",
	}
	require.NoError(t, tracker.AddExpense(ctx, expense))
	require.Equal(t, "EUR", expense.Currency)
}

func TestTrackerRecordPayment(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tracker, _, _, payments := newTestTracker()

	require.NoError(t, tracker.AddExpense(ctx, &models.SharedExpense{
		Amount:     decimal.RequireFromString("90"),
		Currency:   "EUR",
		PaidBy:     "A",
		SharedWith: []string{"B", "C"},
	}))
	require.NoError(t, tracker.RecordPayment(ctx, &models.Payment{
		From:     "B",
		To:       "A",
		Amount:   decimal.RequireFromString("30"),
		Currency: "EUR",
	}))

	requireTrackerBalance(t, tracker, "A", "30")
	requireTrackerBalance(t, tracker, "B", "0")
	requireTrackerBalance(t, tracker, "C", "-30")
	require.Len(t, payments.items, 1)
}

func TestTrackerAddIncomeSnapshotsRate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tracker, _, incomes, _ := newTestTracker()

	income := &models.Income{
		Product:         models.ProductBooks,
		CustomerCountry: models.CountryGermany,
		SalePrice:       decimal.RequireFromString("107"),
		CostPrice:       decimal.RequireFromString("40"),
		Quantity:        1,
		AdSpend:         decimal.Zero,
		Currency:        "EUR",
		SoldAt:          time.Date(2026, time.April, 2, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, tracker.AddIncome(ctx, income))
	require.True(t, income.VATRate.Equal(decimal.RequireFromString("0.07")))
	require.Len(t, incomes.items, 1)
	require.True(t, incomes.items[0].VATRate.Equal(decimal.RequireFromString("0.07")))
}

func TestTrackerAddIncomeUnknownJurisdiction(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tracker, _, incomes, _ := newTestTracker()

	err := tracker.AddIncome(ctx, &models.Income{
		Product:         models.ProductStandard,
		CustomerCountry: "Atlantis",
		SalePrice:       decimal.NewFromInt(100),
		Currency:        "EUR",
	})
	require.Error(t, err)
	require.Empty(t, incomes.items)
}

func TestTrackerRebuildBalances(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tracker, _, _, _ := newTestTracker()

	require.NoError(t, tracker.AddExpense(ctx, &models.SharedExpense{
		Amount:     decimal.RequireFromString("90"),
		Currency:   "EUR",
		PaidBy:     "A",
		SharedWith: []string{"B", "C"},
	}))
	require.NoError(t, tracker.RecordPayment(ctx, &models.Payment{
		From: "B", To: "A", Amount: decimal.RequireFromString("30"), Currency: "EUR",
	}))

	before := tracker.Balances()
	require.NoError(t, tracker.RebuildBalances(ctx))
	after := tracker.Balances()

	require.Equal(t, len(before), len(after))
	for participant, balance := range before {
		require.Truef(t, after[participant].Sub(balance).Abs().LessThanOrEqual(decimal.New(1, -9)),
			"balance of %s changed on rebuild", participant)
	}
}

func TestTrackerBuildVATReport(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tracker, _, _, _ := newTestTracker()

	require.NoError(t, tracker.AddIncome(ctx, &models.Income{
		Product:         models.ProductStandard,
		CustomerCountry: models.CountryNetherlands,
		SalePrice:       decimal.RequireFromString("121"),
		CostPrice:       decimal.RequireFromString("40"),
		Quantity:        2,
		Currency:        "EUR",
		SoldAt:          time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC),
	}))

	r, err := tracker.BuildVATReport(ctx, models.CountryNetherlands,
		time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, r.Lines, 1)
	require.True(t, r.TotalSales.Equal(decimal.RequireFromString("242")))
	require.Truef(t, r.TotalVAT.Sub(decimal.RequireFromString("42")).Abs().LessThanOrEqual(decimal.New(1, -9)),
		"total vat %s", r.TotalVAT)
}

func TestTrackerMonthlyOverviewAndDashboard(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tracker, _, _, _ := newTestTracker()

	require.NoError(t, tracker.AddExpense(ctx, &models.SharedExpense{
		Amount:   decimal.RequireFromString("100"),
		Currency: "EUR",
		PaidBy:   "A",
		SpentAt:  time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, tracker.AddIncome(ctx, &models.Income{
		Product:         models.ProductStandard,
		CustomerCountry: models.CountryNetherlands,
		SalePrice:       decimal.RequireFromString("121"),
		CostPrice:       decimal.RequireFromString("40"),
		Quantity:        2,
		AdSpend:         decimal.RequireFromString("5"),
		Currency:        "EUR",
		SoldAt:          time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC),
	}))

	months, err := tracker.MonthlyOverview(ctx, 2026, report.Filter{})
	require.NoError(t, err)
	require.True(t, months[0].Expenses.Equal(decimal.RequireFromString("100")))
	require.Truef(t, months[0].NetIncome.Sub(decimal.RequireFromString("110")).Abs().LessThanOrEqual(decimal.New(1, -9)),
		"net income %s", months[0].NetIncome)

	totals, err := tracker.DashboardTotals(ctx)
	require.NoError(t, err)
	require.True(t, totals.GrossSales.Equal(decimal.RequireFromString("242")))
	require.True(t, totals.TotalExpenses.Equal(decimal.RequireFromString("100")))
}

func TestTrackerMonthlyOverviewFiltered(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tracker, store, _, _ := newTestTracker()

	add := func(amount, category, paidBy string, taxRelevant bool, day int) {
		t.Helper()
		require.NoError(t, tracker.AddExpense(ctx, &models.SharedExpense{
			Amount:      decimal.RequireFromString(amount),
			Currency:    "EUR",
			Category:    category,
			PaidBy:      paidBy,
			TaxRelevant: taxRelevant,
			SpentAt:     time.Date(2026, time.January, day, 0, 0, 0, 0, time.UTC),
		}))
	}
	add("100", "Groceries", "alice", false, 5)
	add("40", "Office", "alice", true, 10)
	add("25", "Groceries", "bob", false, 20)

	t.Run("category", func(t *testing.T) {
		months, err := tracker.MonthlyOverview(ctx, 2026, report.Filter{Category: "Groceries"})
		require.NoError(t, err)
		require.True(t, months[0].Expenses.Equal(decimal.RequireFromString("125")))
	})

	t.Run("payer", func(t *testing.T) {
		months, err := tracker.MonthlyOverview(ctx, 2026, report.Filter{PaidBy: "bob"})
		require.NoError(t, err)
		require.True(t, months[0].Expenses.Equal(decimal.RequireFromString("25")))
	})

	t.Run("tax relevant only", func(t *testing.T) {
		months, err := tracker.MonthlyOverview(ctx, 2026, report.Filter{TaxRelevantOnly: true})
		require.NoError(t, err)
		require.True(t, months[0].Expenses.Equal(decimal.RequireFromString("40")))
	})

	t.Run("date range pushed down to the store", func(t *testing.T) {
		from := time.Date(2026, time.January, 8, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, time.January, 25, 0, 0, 0, 0, time.UTC)

		before := store.rangeCalls
		months, err := tracker.MonthlyOverview(ctx, 2026, report.Filter{From: &from, To: &to})
		require.NoError(t, err)
		require.Equal(t, before+1, store.rangeCalls)
		require.True(t, months[0].Expenses.Equal(decimal.RequireFromString("65")))
	})
}

func TestTrackerUsesInjectedVATTables(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	expenses := newFakeExpenseStore()
	incomes := &fakeIncomeStore{}
	payments := &fakePaymentStore{}

	customRates := vat.RateTable{
		models.CountryGermany: {models.ProductStandard: decimal.RequireFromString("0.5")},
	}
	customThresholds := vat.ThresholdTable{
		models.CountryGermany: decimal.NewFromInt(10),
	}
	tracker := New(expenses, incomes, payments, "EUR", currency.DefaultRates, customRates, customThresholds)

	income := &models.Income{
		Product:         models.ProductStandard,
		CustomerCountry: models.CountryGermany,
		SalePrice:       decimal.NewFromInt(150),
		Quantity:        1,
		Currency:        "EUR",
		SoldAt:          time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, tracker.AddIncome(ctx, income))
	require.True(t, income.VATRate.Equal(decimal.RequireFromString("0.5")))

	r, err := tracker.BuildVATReport(ctx, models.CountryGermany,
		time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.True(t, r.OverThreshold, "custom threshold of 10 should be exceeded")
}

func TestTrackerExports(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tracker, _, _, _ := newTestTracker()

	require.NoError(t, tracker.AddExpense(ctx, &models.SharedExpense{
		Amount:   decimal.RequireFromString("50"),
		Currency: "EUR",
		Category: "Groceries",
		PaidBy:   "A",
		SpentAt:  time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC),
	}))

	csvData, err := tracker.ExportExpensesCSV(ctx)
	require.NoError(t, err)
	require.Contains(t, string(csvData), "Groceries")

	pngData, err := tracker.ExportExpenseChart(ctx, "January 2026")
	require.NoError(t, err)
	require.NotEmpty(t, pngData)
}
