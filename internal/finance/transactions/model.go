package transactions

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind tells which side of the ledger a transaction sits on. The amount always
// carries a non-negative magnitude; the sign lives here.
type Kind string

const (
	KindRevenue Kind = "revenue"
	KindExpense Kind = "expense"
)

// Status enumerates settlement states.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

// Transaction is a single ledger entry scoped to a company. AccountID is nil
// while the entry has not been tied to a bank account, which is a valid
// business state, not an error.
type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	CompanyID   int64           `json:"company_id"`
	AccountID   *uuid.UUID      `json:"account_id,omitempty"`
	Kind        Kind            `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Status      Status          `json:"status"`
	Reconciled  bool            `json:"reconciled"`
	Description string          `json:"description"`
	DueAt       time.Time       `json:"due_at"`
	PaidAt      *time.Time      `json:"paid_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Settled reports whether the transaction should count toward balances.
func (t Transaction) Settled() bool {
	return t.Status == StatusPaid && t.AccountID != nil
}
