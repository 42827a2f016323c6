package balance

import (
	"context"

	"github.com/gestio-erp/gestio-erp/internal/finance/accounts"
	"github.com/gestio-erp/gestio-erp/internal/finance/transactions"
)

// RepoSource adapts the account and ledger repositories to the Source
// contract. The transaction side uses the pre-filtered paid listing so the
// aggregator is not fed the whole ledger on every refresh.
type RepoSource struct {
	Accounts     accounts.Repository
	Transactions transactions.Repository
}

func (s RepoSource) FetchAccounts(ctx context.Context, companyID int64) ([]accounts.Account, error) {
	return s.Accounts.ListByCompany(ctx, companyID)
}

func (s RepoSource) FetchPaidTransactions(ctx context.Context, companyID int64) ([]transactions.Transaction, error) {
	return s.Transactions.ListPaidWithAccount(ctx, companyID)
}
