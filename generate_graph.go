//go:build ignore
// +build ignore

package main

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gitlab.com/yelinaung/finance-tracker/internal/currency"
	"gitlab.com/yelinaung/finance-tracker/internal/models"
	"gitlab.com/yelinaung/finance-tracker/internal/report"
)

func main() {
	expenses := []models.SharedExpense{
		{Amount: decimal.NewFromFloat(150.50), Currency: "EUR", Category: "Groceries", PaidBy: "alice"},
		{Amount: decimal.NewFromFloat(130.50), Currency: "EUR", Category: "Dining Out", PaidBy: "bob"},
		{Amount: decimal.NewFromFloat(60.00), Currency: "USD", Category: "Transportation", PaidBy: "alice"},
		{Amount: decimal.NewFromFloat(25.00), Currency: "EUR", Category: "Entertainment", PaidBy: "carol"},
		{Amount: decimal.NewFromFloat(120.00), Currency: "GBP", Category: "Utilities", PaidBy: "bob"},
	}

	chartData, err := report.GenerateExpenseBreakdownChart(expenses, "January 2026", "EUR", currency.DefaultRates)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile("graph.png", chartData, 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("✓ Created graph.png - Example expense breakdown chart")
}
