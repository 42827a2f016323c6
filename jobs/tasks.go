package jobs

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskLedgerBump notifies listeners that a company's ledger changed.
	TaskLedgerBump = "finance:ledger_bump"
	// TaskOrphanScan audits settled transactions bound to unknown accounts.
	TaskOrphanScan = "finance:orphan_scan"
)

// LedgerBumpPayload identifies the company whose ledger moved.
type LedgerBumpPayload struct {
	CompanyID int64 `json:"company_id"`
}

// OrphanScanPayload scopes the integrity scan. CompanyID zero scans every
// company.
type OrphanScanPayload struct {
	CompanyID int64 `json:"company_id"`
}

// NewLedgerBumpTask constructs an Asynq task.
func NewLedgerBumpTask(payload LedgerBumpPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLedgerBump, data), nil
}

// NewOrphanScanTask constructs an Asynq task.
func NewOrphanScanTask(payload OrphanScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrphanScan, data), nil
}

// LedgerNotifier re-broadcasts a bump to in-process balance views.
type LedgerNotifier interface {
	LedgerChanged(ctx context.Context, companyID int64)
}

// NewLedgerBumpHandler processes TaskLedgerBump tasks.
func NewLedgerBumpHandler(notifier LedgerNotifier) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload LedgerBumpPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		if notifier != nil && payload.CompanyID > 0 {
			notifier.LedgerChanged(ctx, payload.CompanyID)
		}
		return nil
	}
}
