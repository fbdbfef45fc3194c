// Package main is the entry point for the finance tracker CLI.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"syscall"
	"time"

	"gitlab.com/yelinaung/finance-tracker/internal/config"
	"gitlab.com/yelinaung/finance-tracker/internal/currency"
	"gitlab.com/yelinaung/finance-tracker/internal/database"
	"gitlab.com/yelinaung/finance-tracker/internal/logger"
	"gitlab.com/yelinaung/finance-tracker/internal/models"
	"gitlab.com/yelinaung/finance-tracker/internal/report"
	"gitlab.com/yelinaung/finance-tracker/internal/repository"
	"gitlab.com/yelinaung/finance-tracker/internal/service"
	"gitlab.com/yelinaung/finance-tracker/internal/vat"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = `usage: finance-tracker <command>

commands:
  balances                          print participant balances
  dashboard                         print headline totals
  overview [flags] <year>           print monthly expense/income totals
  vat-report <country> <from> <to>  print a VAT report (dates YYYY-MM-DD)
  export-csv                        write all expenses to a CSV file
  chart <period>                    write an expense breakdown chart PNG
  version                           print build info

overview flags:
  -category <name>     only expenses in this category
  -paid-by <name>      only expenses paid by this participant
  -tax-relevant        only tax-relevant expenses
  -from/-to <date>     only expenses within this range (YYYY-MM-DD, both required)
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if os.Args[1] == "version" {
		fmt.Printf("finance-tracker %s (commit: %s, built: %s)\n", version, commit, date)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to load config")
	}

	logger.SetLevel(cfg.LogLevel)
	logger.InitHashSalt()

	if err := vat.ValidateTables(vat.Rates, vat.Thresholds); err != nil {
		logger.Log.Fatal().Err(err).Msg("VAT reference tables are incomplete")
	}

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		logger.Log.Info().Msg("Shutting down...")
		cancel()
	}()

	tracker := service.New(
		repository.NewExpenseRepository(pool),
		repository.NewIncomeRepository(pool),
		repository.NewPaymentRepository(pool),
		cfg.ReportingCurrency,
		currency.DefaultRates,
		vat.Rates,
		vat.Thresholds,
	)
	if err := tracker.RebuildBalances(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to rebuild balances")
	}

	if err := run(ctx, tracker, os.Args[1], os.Args[2:]); err != nil {
		logger.Log.Fatal().Err(err).Msg("Command failed")
	}
}

func run(ctx context.Context, tracker *service.Tracker, command string, args []string) error {
	switch command {
	case "balances":
		return printBalances(tracker)
	case "dashboard":
		return printDashboard(ctx, tracker)
	case "overview":
		fs := flag.NewFlagSet("overview", flag.ContinueOnError)
		category := fs.String("category", "", "only expenses in this category")
		paidBy := fs.String("paid-by", "", "only expenses paid by this participant")
		taxRelevant := fs.Bool("tax-relevant", false, "only tax-relevant expenses")
		fromArg := fs.String("from", "", "start date (YYYY-MM-DD)")
		toArg := fs.String("to", "", "end date (YYYY-MM-DD)")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if fs.NArg() < 1 {
			return fmt.Errorf("overview requires a year")
		}
		year, err := strconv.Atoi(fs.Arg(0))
		if err != nil {
			return fmt.Errorf("invalid year %q: %w", fs.Arg(0), err)
		}
		filter := report.Filter{
			Category:        *category,
			PaidBy:          *paidBy,
			TaxRelevantOnly: *taxRelevant,
		}
		if *fromArg != "" || *toArg != "" {
			if *fromArg == "" || *toArg == "" {
				return fmt.Errorf("-from and -to must be given together")
			}
			from, err := time.Parse("2006-01-02", *fromArg)
			if err != nil {
				return fmt.Errorf("invalid start date %q: %w", *fromArg, err)
			}
			to, err := time.Parse("2006-01-02", *toArg)
			if err != nil {
				return fmt.Errorf("invalid end date %q: %w", *toArg, err)
			}
			filter.From = &from
			filter.To = &to
		}
		return printOverview(ctx, tracker, year, filter)
	case "vat-report":
		if len(args) < 3 {
			return fmt.Errorf("vat-report requires a country, a start date and an end date")
		}
		return printVATReport(ctx, tracker, args[0], args[1], args[2])
	case "export-csv":
		return exportCSV(ctx, tracker)
	case "chart":
		period := time.Now().Format("January 2006")
		if len(args) > 0 {
			period = args[0]
		}
		return exportChart(ctx, tracker, period)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func printBalances(tracker *service.Tracker) error {
	balances := tracker.Balances()
	participants := make([]string, 0, len(balances))
	for participant := range balances {
		participants = append(participants, participant)
	}
	sort.Strings(participants)

	code := tracker.ReportingCurrency()
	for _, participant := range participants {
		fmt.Printf("%-20s %s\n", participant, currency.Format(balances[participant], code))
	}
	return nil
}

func printDashboard(ctx context.Context, tracker *service.Tracker) error {
	totals, err := tracker.DashboardTotals(ctx)
	if err != nil {
		return err
	}
	code := tracker.ReportingCurrency()
	fmt.Printf("Gross sales:    %s\n", currency.Format(totals.GrossSales, code))
	fmt.Printf("Total cost:     %s\n", currency.Format(totals.TotalCost, code))
	fmt.Printf("Total ad spend: %s\n", currency.Format(totals.TotalAdSpend, code))
	fmt.Printf("Total expenses: %s\n", currency.Format(totals.TotalExpenses, code))
	return nil
}

func printOverview(ctx context.Context, tracker *service.Tracker, year int, filter report.Filter) error {
	months, err := tracker.MonthlyOverview(ctx, year, filter)
	if err != nil {
		return err
	}
	code := tracker.ReportingCurrency()
	for i, totals := range months {
		month := time.Month(i + 1)
		fmt.Printf("%-10s expenses %-14s net income %-14s vat %s\n",
			month.String(),
			currency.Format(totals.Expenses, code),
			currency.Format(totals.NetIncome, code),
			currency.Format(totals.VAT, code))
	}
	return nil
}

func printVATReport(ctx context.Context, tracker *service.Tracker, countryArg, fromArg, toArg string) error {
	from, err := time.Parse("2006-01-02", fromArg)
	if err != nil {
		return fmt.Errorf("invalid start date %q: %w", fromArg, err)
	}
	to, err := time.Parse("2006-01-02", toArg)
	if err != nil {
		return fmt.Errorf("invalid end date %q: %w", toArg, err)
	}

	r, err := tracker.BuildVATReport(ctx, models.Country(countryArg), from, to)
	if err != nil {
		return err
	}

	fmt.Printf("VAT Report - %s (%s to %s)\n", r.Country, fromArg, toArg)
	fmt.Printf("Total sales: %s\n", currency.Format(r.TotalSales, tracker.ReportingCurrency()))
	fmt.Printf("Total VAT:   %s\n", currency.Format(r.TotalVAT, tracker.ReportingCurrency()))
	fmt.Printf("Over registration threshold: %v\n", r.OverThreshold)
	if r.Note != "" {
		fmt.Printf("Note: %s\n", r.Note)
	}

	data, err := report.GenerateVATReportCSV(r)
	if err != nil {
		return err
	}
	filename := report.VATReportFilename(r, "csv")
	if err := os.WriteFile(filename, data, 0600); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Printf("Wrote %s\n", filename)
	return nil
}

func exportCSV(ctx context.Context, tracker *service.Tracker) error {
	data, err := tracker.ExportExpensesCSV(ctx)
	if err != nil {
		return err
	}
	filename := report.ExpensesFilename(time.Now())
	if err := os.WriteFile(filename, data, 0600); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	fmt.Printf("Wrote %s\n", filename)
	return nil
}

func exportChart(ctx context.Context, tracker *service.Tracker, period string) error {
	data, err := tracker.ExportExpenseChart(ctx, period)
	if err != nil {
		return err
	}
	filename := fmt.Sprintf("chart_%s.png", time.Now().Format("2006-01-02"))
	if err := os.WriteFile(filename, data, 0600); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	fmt.Printf("Wrote %s\n", filename)
	return nil
}
