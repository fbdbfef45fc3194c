// Package ledger maintains running per-participant balances for shared
// expenses and settlement payments, all expressed in one reporting currency.
package ledger

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"gitlab.com/yelinaung/finance-tracker/internal/currency"
	"gitlab.com/yelinaung/finance-tracker/internal/models"
)

// Ledger accumulates net balances per participant. Positive means the group
// owes the participant; negative means the participant owes the group.
//
// Apply is a read-modify-write across several map entries, so all mutation
// is serialized behind a mutex and Balances hands out copies.
type Ledger struct {
	mu                sync.Mutex
	reportingCurrency string
	rates             currency.RateTable
	balances          map[string]decimal.Decimal
}

// New creates an empty ledger reporting in the given currency.
func New(reportingCurrency string, rates currency.RateTable) *Ledger {
	return &Ledger{
		reportingCurrency: reportingCurrency,
		rates:             rates,
		balances:          make(map[string]decimal.Decimal),
	}
}

// ReportingCurrency returns the currency all balances are expressed in.
func (l *Ledger) ReportingCurrency() string {
	return l.reportingCurrency
}

// Apply credits the payer and debits each co-sharer for a shared expense.
// The amount is converted to the reporting currency first; the even split
// counts the payer, so each of the len(SharedWith)+1 participants carries
// one share.
func (l *Ledger) Apply(expense models.SharedExpense) error {
	return l.apply(expense, false)
}

// Reverse undoes a previously applied expense by flipping every delta.
func (l *Ledger) Reverse(expense models.SharedExpense) error {
	return l.apply(expense, true)
}

func (l *Ledger) apply(expense models.SharedExpense, reverse bool) error {
	converted, err := currency.Convert(expense.Amount, expense.Currency, l.reportingCurrency, l.rates)
	if err != nil {
		return fmt.Errorf("convert expense amount: %w", err)
	}

	sign := decimal.NewFromInt(1)
	if reverse {
		sign = decimal.NewFromInt(-1)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if len(expense.SharedWith) == 0 {
		// Nothing to split; the full amount is the payer's credit.
		l.balances[expense.PaidBy] = l.balances[expense.PaidBy].Add(sign.Mul(converted))
		return nil
	}

	share := converted.Div(decimal.NewFromInt(int64(len(expense.SharedWith) + 1)))
	l.balances[expense.PaidBy] = l.balances[expense.PaidBy].Add(sign.Mul(converted.Sub(share)))
	for _, sharer := range expense.SharedWith {
		l.balances[sharer] = l.balances[sharer].Sub(sign.Mul(share))
	}
	return nil
}

// Update replaces a previously applied expense with an edited version.
// The old record is fully reversed before the new one is applied, never
// diffed field by field, so the zero-sum invariant holds no matter which
// fields changed.
func (l *Ledger) Update(old, updated models.SharedExpense) error {
	if err := l.Reverse(old); err != nil {
		return err
	}
	return l.Apply(updated)
}

// SettlePayment records a direct transfer: the converted amount is credited
// to the paying participant and debited from the receiver, mirroring the
// reversal of a debt between the two.
func (l *Ledger) SettlePayment(from, to string, amount decimal.Decimal, currencyCode string) error {
	converted, err := currency.Convert(amount, currencyCode, l.reportingCurrency, l.rates)
	if err != nil {
		return fmt.Errorf("convert payment amount: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[from] = l.balances[from].Add(converted)
	l.balances[to] = l.balances[to].Sub(converted)
	return nil
}

// Balances returns a snapshot copy of all participant balances.
func (l *Ledger) Balances() map[string]decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	snapshot := make(map[string]decimal.Decimal, len(l.balances))
	for participant, balance := range l.balances {
		snapshot[participant] = balance
	}
	return snapshot
}

// Balance returns a single participant's balance; unknown participants are
// at zero.
func (l *Ledger) Balance(participant string) decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[participant]
}

// Total sums all balances. For a closed set of shared expenses with no
// payments it stays at zero up to division rounding.
func (l *Ledger) Total() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	total := decimal.Zero
	for _, balance := range l.balances {
		total = total.Add(balance)
	}
	return total
}

// Reset drops all balances.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances = make(map[string]decimal.Decimal)
}

// Recompute rebuilds all balances from scratch out of the complete record
// set. The result is equivalent to the corresponding sequence of incremental
// applies and settlements.
func (l *Ledger) Recompute(expenses []models.SharedExpense, payments []models.Payment) error {
	l.Reset()
	for _, expense := range expenses {
		if err := l.Apply(expense); err != nil {
			return err
		}
	}
	for _, payment := range payments {
		if err := l.SettlePayment(payment.From, payment.To, payment.Amount, payment.Currency); err != nil {
			return err
		}
	}
	return nil
}
