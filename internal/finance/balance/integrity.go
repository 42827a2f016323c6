package balance

import (
	"github.com/google/uuid"

	"github.com/gestio-erp/gestio-erp/internal/finance/accounts"
	"github.com/gestio-erp/gestio-erp/internal/finance/transactions"
)

// Orphan is a settled transaction bound to an account id that no longer
// exists in the company's account directory. The aggregator drops these
// silently; the integrity scan surfaces them so someone can rebind or void
// the entry.
type Orphan struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	AccountID     uuid.UUID `json:"account_id"`
}

// ScanOrphans reports settled transactions whose account binding matches no
// known account. Pending or unbound transactions are not orphans.
func ScanOrphans(accts []accounts.Account, txns []transactions.Transaction) []Orphan {
	known := make(map[uuid.UUID]struct{}, len(accts))
	for _, acc := range accts {
		known[acc.ID] = struct{}{}
	}
	var orphans []Orphan
	for _, txn := range txns {
		if !txn.Settled() {
			continue
		}
		if _, ok := known[*txn.AccountID]; !ok {
			orphans = append(orphans, Orphan{TransactionID: txn.ID, AccountID: *txn.AccountID})
		}
	}
	return orphans
}
