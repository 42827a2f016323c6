// Package balance derives current bank account balances from the company's
// account directory and its ledger of settled transactions.
package balance

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gestio-erp/gestio-erp/internal/finance/accounts"
	"github.com/gestio-erp/gestio-erp/internal/finance/transactions"
)

// AccountBalance is the derived balance of a single bank account.
type AccountBalance struct {
	Account        accounts.Account `json:"account"`
	OpeningBalance decimal.Decimal  `json:"opening_balance"`
	TotalRevenue   decimal.Decimal  `json:"total_revenue"`
	TotalExpense   decimal.Decimal  `json:"total_expense"`
	CurrentBalance decimal.Decimal  `json:"current_balance"`
}

// Summary holds one aggregation pass: per-account balances in the same order
// as the input accounts, and the grand total across all of them.
type Summary struct {
	Balances []AccountBalance `json:"balances"`
	Total    decimal.Decimal  `json:"total"`
}

// Aggregate computes per-account and aggregate balances. It is pure: inputs
// are never mutated, no I/O happens, and it never fails.
//
// Only paid, account-bound transactions contribute. A transaction whose
// account id matches none of the supplied accounts is dropped from all
// totals; the integrity scan reports those separately.
func Aggregate(accts []accounts.Account, txns []transactions.Transaction) Summary {
	type totals struct {
		revenue decimal.Decimal
		expense decimal.Decimal
	}
	known := make(map[uuid.UUID]*totals, len(accts))
	for _, acc := range accts {
		known[acc.ID] = &totals{}
	}

	for _, txn := range txns {
		if !txn.Settled() {
			continue
		}
		group, ok := known[*txn.AccountID]
		if !ok {
			continue
		}
		switch txn.Kind {
		case transactions.KindRevenue:
			group.revenue = group.revenue.Add(txn.Amount)
		case transactions.KindExpense:
			group.expense = group.expense.Add(txn.Amount)
		}
	}

	summary := Summary{Balances: make([]AccountBalance, 0, len(accts))}
	for _, acc := range accts {
		group := known[acc.ID]
		current := acc.OpeningBalance.Add(group.revenue).Sub(group.expense)
		summary.Balances = append(summary.Balances, AccountBalance{
			Account:        acc,
			OpeningBalance: acc.OpeningBalance,
			TotalRevenue:   group.revenue,
			TotalExpense:   group.expense,
			CurrentBalance: current,
		})
		summary.Total = summary.Total.Add(current)
	}
	return summary
}
