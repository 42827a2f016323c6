package balance

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/gestio-erp/gestio-erp/internal/finance/accounts"
	"github.com/gestio-erp/gestio-erp/internal/finance/transactions"
)

func TestScanOrphansReportsUnknownBindings(t *testing.T) {
	known := uuid.New()
	gone := uuid.New()
	accts := []accounts.Account{acct(known, "0")}

	bound := txn(&known, transactions.KindRevenue, "1", transactions.StatusPaid)
	orphan := txn(&gone, transactions.KindExpense, "2", transactions.StatusPaid)
	pendingOrphan := txn(&gone, transactions.KindExpense, "3", transactions.StatusPending)
	unbound := txn(nil, transactions.KindRevenue, "4", transactions.StatusPaid)

	orphans := ScanOrphans(accts, []transactions.Transaction{bound, orphan, pendingOrphan, unbound})

	require.Len(t, orphans, 1)
	require.Equal(t, orphan.ID, orphans[0].TransactionID)
	require.Equal(t, gone, orphans[0].AccountID)
}

func TestScanOrphansEmpty(t *testing.T) {
	require.Empty(t, ScanOrphans(nil, nil))
}
