// Package report derives period summaries from expense and income records.
// All aggregates are computed in a single reporting currency.
package report

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gitlab.com/yelinaung/finance-tracker/internal/currency"
	"gitlab.com/yelinaung/finance-tracker/internal/models"
	"gitlab.com/yelinaung/finance-tracker/internal/vat"
)

// Filter narrows records for a report. Zero values mean "no constraint";
// a non-nil From/To pair takes precedence over Year/Month.
type Filter struct {
	Year            int
	Month           *time.Month
	From            *time.Time
	To              *time.Time
	Category        string
	PaidBy          string
	TaxRelevantOnly bool
}

func (f Filter) matchDate(t time.Time) bool {
	if f.From != nil && f.To != nil {
		return !t.Before(*f.From) && !t.After(*f.To)
	}
	if f.Month != nil {
		return t.Month() == *f.Month && (f.Year == 0 || t.Year() == f.Year)
	}
	if f.Year != 0 {
		return t.Year() == f.Year
	}
	return true
}

// MatchExpense reports whether an expense passes the filter.
func (f Filter) MatchExpense(e models.SharedExpense) bool {
	if !f.matchDate(e.SpentAt) {
		return false
	}
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	if f.PaidBy != "" && e.PaidBy != f.PaidBy {
		return false
	}
	if f.TaxRelevantOnly && !e.TaxRelevant {
		return false
	}
	return true
}

// FilterExpenses returns the expenses passing the filter, in input order.
func FilterExpenses(expenses []models.SharedExpense, f Filter) []models.SharedExpense {
	var out []models.SharedExpense
	for _, e := range expenses {
		if f.MatchExpense(e) {
			out = append(out, e)
		}
	}
	return out
}

// VATLine is one income record priced for a VAT report, using the VAT rate
// snapshotted on the record.
type VATLine struct {
	Date      time.Time
	Product   models.ProductType
	Quantity  int64
	SalePrice decimal.Decimal
	VATRate   decimal.Decimal
	VATAmount decimal.Decimal
}

// VATReport summarizes sales and collected VAT for one jurisdiction over a
// period. SalePrice is treated as VAT-inclusive throughout.
type VATReport struct {
	Country       models.Country
	From          time.Time
	To            time.Time
	TotalSales    decimal.Decimal
	TotalVAT      decimal.Decimal
	OverThreshold bool
	Note          string
	Lines         []VATLine
}

// BuildVATReport aggregates the incomes sold to one country within
// [from, to]. TotalSales is gross (sale price x quantity); TotalVAT applies
// each record's snapshotted rate. The over-threshold flag is a strict
// comparison of gross sales against the country's registration threshold.
func BuildVATReport(
	incomes []models.Income,
	country models.Country,
	from, to time.Time,
	thresholds vat.ThresholdTable,
) (*VATReport, error) {
	r := &VATReport{
		Country:    country,
		From:       from,
		To:         to,
		TotalSales: decimal.Zero,
		TotalVAT:   decimal.Zero,
		Note:       vat.CountryNotes[country],
	}

	for _, income := range incomes {
		if income.CustomerCountry != country {
			continue
		}
		if income.SoldAt.Before(from) || income.SoldAt.After(to) {
			continue
		}
		quantity := decimal.NewFromInt(income.Quantity)
		vatAmount := vat.CalculateVAT(income.SalePrice, income.VATRate).Mul(quantity)
		r.TotalSales = r.TotalSales.Add(income.SalePrice.Mul(quantity))
		r.TotalVAT = r.TotalVAT.Add(vatAmount)
		r.Lines = append(r.Lines, VATLine{
			Date:      income.SoldAt,
			Product:   income.Product,
			Quantity:  income.Quantity,
			SalePrice: income.SalePrice,
			VATRate:   income.VATRate,
			VATAmount: vatAmount,
		})
	}

	over, err := vat.IsOverThreshold(country, r.TotalSales, thresholds)
	if err != nil {
		return nil, fmt.Errorf("threshold check: %w", err)
	}
	r.OverThreshold = over
	return r, nil
}

// MonthTotals holds one calendar month's aggregates in the reporting
// currency.
type MonthTotals struct {
	Expenses  decimal.Decimal
	NetIncome decimal.Decimal
	VAT       decimal.Decimal
}

// MonthlyOverview buckets a year's expenses and incomes by calendar month.
// Net income per record is (salePrice/(1+rate) - costPrice - adSpend) x
// quantity; VAT per record is the matching inclusive/exclusive split, so the
// two figures always reconcile against gross sales.
func MonthlyOverview(
	expenses []models.SharedExpense,
	incomes []models.Income,
	year int,
	reportingCurrency string,
	rates currency.RateTable,
) ([12]MonthTotals, error) {
	var months [12]MonthTotals
	for i := range months {
		months[i] = MonthTotals{
			Expenses:  decimal.Zero,
			NetIncome: decimal.Zero,
			VAT:       decimal.Zero,
		}
	}

	for _, expense := range expenses {
		if expense.SpentAt.Year() != year {
			continue
		}
		converted, err := currency.Convert(expense.Amount, expense.Currency, reportingCurrency, rates)
		if err != nil {
			return months, fmt.Errorf("convert expense: %w", err)
		}
		m := int(expense.SpentAt.Month()) - 1
		months[m].Expenses = months[m].Expenses.Add(converted)
	}

	for _, income := range incomes {
		if income.SoldAt.Year() != year {
			continue
		}
		salePrice, err := currency.Convert(income.SalePrice, income.Currency, reportingCurrency, rates)
		if err != nil {
			return months, fmt.Errorf("convert sale price: %w", err)
		}
		costPrice, err := currency.Convert(income.CostPrice, income.Currency, reportingCurrency, rates)
		if err != nil {
			return months, fmt.Errorf("convert cost price: %w", err)
		}
		adSpend, err := currency.Convert(income.AdSpend, income.Currency, reportingCurrency, rates)
		if err != nil {
			return months, fmt.Errorf("convert ad spend: %w", err)
		}

		quantity := decimal.NewFromInt(income.Quantity)
		exclusive := vat.ExclusivePrice(salePrice, income.VATRate)
		m := int(income.SoldAt.Month()) - 1
		months[m].NetIncome = months[m].NetIncome.Add(exclusive.Sub(costPrice).Sub(adSpend).Mul(quantity))
		months[m].VAT = months[m].VAT.Add(salePrice.Sub(exclusive).Mul(quantity))
	}

	return months, nil
}

// DashboardTotals are the headline figures for the dashboard view.
//
// GrossSales sums sale price x quantity with no VAT adjustment, while the
// VAT report and monthly overview treat the same sale price as VAT-inclusive.
// The divergence is inherited from the source data and kept visible here
// rather than resolved one way or the other.
type DashboardTotals struct {
	GrossSales    decimal.Decimal
	TotalCost     decimal.Decimal
	TotalAdSpend  decimal.Decimal
	TotalExpenses decimal.Decimal
}

// Dashboard aggregates all records into headline totals in the reporting
// currency.
func Dashboard(
	expenses []models.SharedExpense,
	incomes []models.Income,
	reportingCurrency string,
	rates currency.RateTable,
) (DashboardTotals, error) {
	totals := DashboardTotals{
		GrossSales:    decimal.Zero,
		TotalCost:     decimal.Zero,
		TotalAdSpend:  decimal.Zero,
		TotalExpenses: decimal.Zero,
	}

	for _, expense := range expenses {
		converted, err := currency.Convert(expense.Amount, expense.Currency, reportingCurrency, rates)
		if err != nil {
			return totals, fmt.Errorf("convert expense: %w", err)
		}
		totals.TotalExpenses = totals.TotalExpenses.Add(converted)
	}

	for _, income := range incomes {
		quantity := decimal.NewFromInt(income.Quantity)
		sales, err := currency.Convert(income.SalePrice.Mul(quantity), income.Currency, reportingCurrency, rates)
		if err != nil {
			return totals, fmt.Errorf("convert gross sales: %w", err)
		}
		cost, err := currency.Convert(income.CostPrice.Mul(quantity), income.Currency, reportingCurrency, rates)
		if err != nil {
			return totals, fmt.Errorf("convert cost: %w", err)
		}
		adSpend, err := currency.Convert(income.AdSpend, income.Currency, reportingCurrency, rates)
		if err != nil {
			return totals, fmt.Errorf("convert ad spend: %w", err)
		}
		totals.GrossSales = totals.GrossSales.Add(sales)
		totals.TotalCost = totals.TotalCost.Add(cost)
		totals.TotalAdSpend = totals.TotalAdSpend.Add(adSpend)
	}

	return totals, nil
}
