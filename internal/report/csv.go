package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gitlab.com/yelinaung/finance-tracker/internal/models"
)

// GenerateExpensesCSV renders a list of expenses as a CSV document.
func GenerateExpensesCSV(expenses []models.SharedExpense) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"ID", "Date", "Amount", "Currency", "Description", "Category", "Paid By", "Shared With", "Tax Relevant"}
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i := range expenses {
		category := expenses[i].Category
		if category == "" {
			category = "Uncategorized"
		}
		row := []string{
			strconv.Itoa(expenses[i].ID),
			expenses[i].SpentAt.Format("2006-01-02"),
			expenses[i].Amount.StringFixed(2),
			expenses[i].Currency,
			expenses[i].Description,
			category,
			expenses[i].PaidBy,
			strings.Join(expenses[i].SharedWith, "; "),
			strconv.FormatBool(expenses[i].TaxRelevant),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateVATReportCSV renders a VAT report's transaction lines as a CSV
// document, one row per income record plus a trailing totals row.
func GenerateVATReportCSV(r *VATReport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"Date", "Product", "Quantity", "Sale Price", "VAT Rate", "VAT Amount"}
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, line := range r.Lines {
		row := []string{
			line.Date.Format("2006-01-02"),
			string(line.Product),
			strconv.FormatInt(line.Quantity, 10),
			line.SalePrice.StringFixed(2),
			line.VATRate.Mul(hundred).StringFixed(2) + "%",
			line.VATAmount.StringFixed(2),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	totals := []string{"Total", "", "", r.TotalSales.StringFixed(2), "", r.TotalVAT.StringFixed(2)}
	if err := writer.Write(totals); err != nil {
		return nil, fmt.Errorf("failed to write CSV totals: %w", err)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// VATReportFilename creates a descriptive filename for an exported report.
func VATReportFilename(r *VATReport, extension string) string {
	country := strings.ReplaceAll(string(r.Country), " ", "_")
	return fmt.Sprintf("vat_report_%s_%s_%s.%s",
		country, r.From.Format("2006-01-02"), r.To.Format("2006-01-02"), extension)
}

// ExpensesFilename creates a descriptive filename for an expense export.
func ExpensesFilename(now time.Time) string {
	return fmt.Sprintf("expenses_%s.csv", now.Format("2006-01-02"))
}
