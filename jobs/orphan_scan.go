package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/gestio-erp/gestio-erp/internal/finance/accounts"
	"github.com/gestio-erp/gestio-erp/internal/finance/balance"
	"github.com/gestio-erp/gestio-erp/internal/finance/transactions"
	jobmetrics "github.com/gestio-erp/gestio-erp/internal/jobs"
	"github.com/gestio-erp/gestio-erp/internal/masterdata/companies"
	mdshared "github.com/gestio-erp/gestio-erp/internal/masterdata/shared"
)

// OrphanScanJob walks company ledgers looking for settled transactions whose
// account binding no longer resolves. The balance aggregator drops these
// silently; this job is where they become visible.
type OrphanScanJob struct {
	companies    companies.Repository
	accounts     accounts.Repository
	transactions transactions.Repository
	logger       *slog.Logger
	metrics      *jobmetrics.Metrics
}

func NewOrphanScanJob(
	companiesRepo companies.Repository,
	accountsRepo accounts.Repository,
	transactionsRepo transactions.Repository,
	logger *slog.Logger,
	metrics *jobmetrics.Metrics,
) *OrphanScanJob {
	return &OrphanScanJob{
		companies:    companiesRepo,
		accounts:     accountsRepo,
		transactions: transactionsRepo,
		logger:       logger,
		metrics:      metrics,
	}
}

// Handle processes TaskOrphanScan tasks.
func (j *OrphanScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload OrphanScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	tracker := j.metrics.Track("orphan_scan")
	return tracker.End(j.run(ctx, payload.CompanyID))
}

func (j *OrphanScanJob) run(ctx context.Context, companyID int64) error {
	if companyID > 0 {
		return j.scanCompany(ctx, companyID)
	}
	list, _, err := j.companies.List(ctx, mdshared.ListFilters{})
	if err != nil {
		return err
	}
	for _, company := range list {
		if err := j.scanCompany(ctx, company.ID); err != nil {
			return err
		}
	}
	return nil
}

func (j *OrphanScanJob) scanCompany(ctx context.Context, companyID int64) error {
	accts, err := j.accounts.ListByCompany(ctx, companyID)
	if err != nil {
		return err
	}
	txns, err := j.transactions.ListPaidWithAccount(ctx, companyID)
	if err != nil {
		return err
	}
	orphans := balance.ScanOrphans(accts, txns)
	if len(orphans) == 0 {
		return nil
	}
	j.metrics.AddOrphans(companyID, len(orphans))
	for _, orphan := range orphans {
		j.logger.Warn("settled transaction bound to unknown account",
			slog.Int64("company_id", companyID),
			slog.String("transaction_id", orphan.TransactionID.String()),
			slog.String("account_id", orphan.AccountID.String()),
		)
	}
	return nil
}
