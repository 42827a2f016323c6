package balance

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/gestio-erp/gestio-erp/internal/finance/accounts"
	"github.com/gestio-erp/gestio-erp/internal/finance/transactions"
	_ "github.com/gestio-erp/gestio-erp/testing"
)

func acct(id uuid.UUID, opening string) accounts.Account {
	return accounts.Account{ID: id, CompanyID: 1, Name: "acc", OpeningBalance: dec(opening)}
}

func txn(accountID *uuid.UUID, kind transactions.Kind, amount string, status transactions.Status) transactions.Transaction {
	return transactions.Transaction{
		ID:        uuid.New(),
		CompanyID: 1,
		AccountID: accountID,
		Kind:      kind,
		Amount:    dec(amount),
		Status:    status,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAggregateWorkedExample(t *testing.T) {
	idA := uuid.New()
	idB := uuid.New()
	accts := []accounts.Account{acct(idA, "1000"), acct(idB, "0")}
	txns := []transactions.Transaction{
		txn(&idA, transactions.KindRevenue, "500", transactions.StatusPaid),
		txn(&idA, transactions.KindExpense, "200", transactions.StatusPaid),
		txn(&idA, transactions.KindRevenue, "999", transactions.StatusPending),
		txn(&idB, transactions.KindRevenue, "50", transactions.StatusPaid),
	}

	summary := Aggregate(accts, txns)

	require.Len(t, summary.Balances, 2)

	a := summary.Balances[0]
	require.Equal(t, idA, a.Account.ID)
	require.True(t, a.OpeningBalance.Equal(dec("1000")))
	require.True(t, a.TotalRevenue.Equal(dec("500")))
	require.True(t, a.TotalExpense.Equal(dec("200")))
	require.True(t, a.CurrentBalance.Equal(dec("1300")))

	b := summary.Balances[1]
	require.True(t, b.TotalRevenue.Equal(dec("50")))
	require.True(t, b.TotalExpense.Equal(dec("0")))
	require.True(t, b.CurrentBalance.Equal(dec("50")))

	require.True(t, summary.Total.Equal(dec("1350")))
}

func TestAggregateEmptyInputs(t *testing.T) {
	summary := Aggregate(nil, nil)
	require.Empty(t, summary.Balances)
	require.True(t, summary.Total.IsZero())
}

func TestAggregateAccountWithoutTransactions(t *testing.T) {
	id := uuid.New()
	summary := Aggregate([]accounts.Account{acct(id, "123.45")}, nil)

	require.Len(t, summary.Balances, 1)
	require.True(t, summary.Balances[0].CurrentBalance.Equal(dec("123.45")))
	require.True(t, summary.Balances[0].TotalRevenue.IsZero())
	require.True(t, summary.Balances[0].TotalExpense.IsZero())
	require.True(t, summary.Total.Equal(dec("123.45")))
}

func TestAggregateExcludesUnsettledAndUnbound(t *testing.T) {
	id := uuid.New()
	accts := []accounts.Account{acct(id, "100")}
	txns := []transactions.Transaction{
		txn(&id, transactions.KindRevenue, "10", transactions.StatusPending),
		txn(&id, transactions.KindExpense, "10", transactions.StatusCancelled),
		txn(nil, transactions.KindRevenue, "10", transactions.StatusPaid),
	}

	summary := Aggregate(accts, txns)

	require.True(t, summary.Balances[0].CurrentBalance.Equal(dec("100")))
	require.True(t, summary.Total.Equal(dec("100")))
}

func TestAggregateDropsOrphanedTransactions(t *testing.T) {
	id := uuid.New()
	orphanAccount := uuid.New()
	accts := []accounts.Account{acct(id, "100")}
	txns := []transactions.Transaction{
		txn(&orphanAccount, transactions.KindRevenue, "9999", transactions.StatusPaid),
		txn(&id, transactions.KindRevenue, "1", transactions.StatusPaid),
	}

	summary := Aggregate(accts, txns)

	require.Len(t, summary.Balances, 1)
	require.True(t, summary.Balances[0].CurrentBalance.Equal(dec("101")))
	require.True(t, summary.Total.Equal(dec("101")))
}

func TestAggregateOrderIndependent(t *testing.T) {
	idA := uuid.New()
	idB := uuid.New()
	accts := []accounts.Account{acct(idA, "10.10"), acct(idB, "-5")}

	var txns []transactions.Transaction
	for i := 0; i < 50; i++ {
		txns = append(txns,
			txn(&idA, transactions.KindRevenue, "0.01", transactions.StatusPaid),
			txn(&idA, transactions.KindExpense, "0.02", transactions.StatusPaid),
			txn(&idB, transactions.KindRevenue, "1.23", transactions.StatusPaid),
		)
	}

	want := Aggregate(accts, txns)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := make([]transactions.Transaction, len(txns))
		copy(shuffled, txns)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got := Aggregate(accts, shuffled)
		require.True(t, got.Total.Equal(want.Total))
		for j := range want.Balances {
			require.True(t, got.Balances[j].CurrentBalance.Equal(want.Balances[j].CurrentBalance))
			require.True(t, got.Balances[j].TotalRevenue.Equal(want.Balances[j].TotalRevenue))
			require.True(t, got.Balances[j].TotalExpense.Equal(want.Balances[j].TotalExpense))
		}
	}
}

func TestAggregateTotalMatchesSumOfBalances(t *testing.T) {
	idA := uuid.New()
	idB := uuid.New()
	idC := uuid.New()
	accts := []accounts.Account{acct(idA, "0.10"), acct(idB, "0.20"), acct(idC, "-3.33")}
	txns := []transactions.Transaction{
		txn(&idA, transactions.KindRevenue, "0.30", transactions.StatusPaid),
		txn(&idB, transactions.KindExpense, "0.70", transactions.StatusPaid),
		txn(&idC, transactions.KindRevenue, "1.11", transactions.StatusPaid),
	}

	summary := Aggregate(accts, txns)

	sum := decimal.Zero
	for _, b := range summary.Balances {
		sum = sum.Add(b.CurrentBalance)
	}
	require.True(t, summary.Total.Equal(sum))
}

func TestAggregateIdempotent(t *testing.T) {
	idA := uuid.New()
	accts := []accounts.Account{acct(idA, "7")}
	txns := []transactions.Transaction{
		txn(&idA, transactions.KindRevenue, "3.50", transactions.StatusPaid),
	}

	first := Aggregate(accts, txns)
	second := Aggregate(accts, txns)

	require.Equal(t, first, second)
}

func TestAggregateInvariantHolds(t *testing.T) {
	idA := uuid.New()
	accts := []accounts.Account{acct(idA, "250.75")}
	txns := []transactions.Transaction{
		txn(&idA, transactions.KindRevenue, "100.25", transactions.StatusPaid),
		txn(&idA, transactions.KindExpense, "50.99", transactions.StatusPaid),
	}

	b := Aggregate(accts, txns).Balances[0]
	require.True(t, b.CurrentBalance.Equal(b.OpeningBalance.Add(b.TotalRevenue).Sub(b.TotalExpense)))
}
